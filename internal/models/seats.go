package models

import (
	"fmt"
	"time"
)

// SeatsSnapshot is the full set of Copilot seats for one organization or
// enterprise on one day. RawAPIResponse carries the verbatim response text,
// with pages joined by a marker, when the snapshot came from the remote API.
type SeatsSnapshot struct {
	ID             string    `json:"id,omitempty"`
	Date           string    `json:"date"`
	TotalSeats     int       `json:"total_seats"`
	Seats          []Seat    `json:"seats"`
	Enterprise     string    `json:"enterprise,omitempty"`
	Organization   string    `json:"organization,omitempty"`
	LastUpdate     time.Time `json:"last_update"`
	RawAPIResponse string    `json:"rawApiResponse,omitempty"`
}

// SnapshotID derives the stable identity used by both history stores.
func (s *SeatsSnapshot) SnapshotID() string {
	if s.Organization != "" {
		return fmt.Sprintf("%s-ORG-%s", s.Date, s.Organization)
	}
	if s.Enterprise != "" {
		return fmt.Sprintf("%s-ENT-%s", s.Date, s.Enterprise)
	}
	return fmt.Sprintf("%s-XXX", s.Date)
}

// Seat is one license assignment.
type Seat struct {
	CreatedAt               time.Time  `json:"created_at"`
	UpdatedAt               time.Time  `json:"updated_at"`
	PendingCancellationDate string     `json:"pending_cancellation_date,omitempty"`
	LastActivityAt          *time.Time `json:"last_activity_at,omitempty"`
	LastActivityEditor      string     `json:"last_activity_editor,omitempty"`
	PlanType                string     `json:"plan_type,omitempty"`
	Assignee                User       `json:"assignee"`
	AssigningTeam           *Team      `json:"assigning_team,omitempty"`
	Organization            *Org       `json:"organization,omitempty"`
}

// User identifies a seat assignee.
type User struct {
	Login string `json:"login"`
	ID    int64  `json:"id,omitempty"`
	Type  string `json:"type,omitempty"`
}

// Team is the team a seat was assigned through, when any.
type Team struct {
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}

// Org is the organization a seat belongs to, when any.
type Org struct {
	Login string `json:"login"`
}

// SeatBreakdown summarizes seat activity for the current cycle. The source
// data carries no added/invitation/cancellation counts, so those stay zero.
type SeatBreakdown struct {
	Total               int `json:"total"`
	ActiveThisCycle     int `json:"active_this_cycle"`
	InactiveThisCycle   int `json:"inactive_this_cycle"`
	AddedThisCycle      int `json:"added_this_cycle"`
	PendingInvitation   int `json:"pending_invitation"`
	PendingCancellation int `json:"pending_cancellation"`
}

// SeatManagement is the seat summary shape served to the dashboard. Policy
// fields are placeholders the billing API does not expose here.
type SeatManagement struct {
	Enterprise   string               `json:"enterprise,omitempty"`
	Organization string               `json:"organization,omitempty"`
	Date         string               `json:"date"`
	ID           string               `json:"id"`
	LastUpdate   time.Time            `json:"last_update"`
	TotalSeats   int                  `json:"total_seats"`
	Seats        SeatManagementDetail `json:"seats"`
}

// SeatManagementDetail nests the breakdown with the policy placeholders.
type SeatManagementDetail struct {
	SeatBreakdown         SeatBreakdown `json:"seat_breakdown"`
	SeatManagementSetting string        `json:"seat_management_setting"`
	PublicCodeSuggestions string        `json:"public_code_suggestions"`
	IdeChat               string        `json:"ide_chat"`
	PlatformChat          string        `json:"platform_chat"`
	CLI                   string        `json:"cli"`
	PlanType              string        `json:"plan_type"`
}

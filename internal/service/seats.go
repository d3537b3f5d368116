package service

import (
	"time"

	"github.com/platform-engineering/copilot-usage-dashboard/internal/models"
)

// ClassifySeats counts active and inactive seats using the 30-day recency
// rule. Pure function; the added/invitation/cancellation counters stay zero
// because the billing API does not supply them.
func ClassifySeats(seats []models.Seat, now time.Time) models.SeatBreakdown {
	active := 0
	for _, seat := range seats {
		if seatActive(seat, now) {
			active++
		}
	}
	return models.SeatBreakdown{
		Total:             len(seats),
		ActiveThisCycle:   active,
		InactiveThisCycle: len(seats) - active,
	}
}

// SeatManagementFor wraps a snapshot's activity breakdown in the summary
// shape the dashboard renders. Policy fields are left neutral.
func SeatManagementFor(snapshot *models.SeatsSnapshot, now time.Time) models.SeatManagement {
	return models.SeatManagement{
		Enterprise:   snapshot.Enterprise,
		Organization: snapshot.Organization,
		Date:         snapshot.Date,
		ID:           snapshot.ID,
		LastUpdate:   snapshot.LastUpdate,
		TotalSeats:   snapshot.TotalSeats,
		Seats: models.SeatManagementDetail{
			SeatBreakdown: ClassifySeats(snapshot.Seats, now),
		},
	}
}

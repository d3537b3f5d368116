package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/platform-engineering/copilot-usage-dashboard/internal/models"
)

func TestClassifySeats(t *testing.T) {
	seats := []models.Seat{
		seatWithActivity("alice", distributeNow),
		seatWithActivity("bob", distributeNow.AddDate(0, 0, -29)),
		seatWithActivity("carol", distributeNow.AddDate(0, 0, -31)),
		{Assignee: models.User{Login: "dave"}},
	}

	breakdown := ClassifySeats(seats, distributeNow)
	require.Equal(t, 4, breakdown.Total)
	require.Equal(t, 2, breakdown.ActiveThisCycle)
	require.Equal(t, 2, breakdown.InactiveThisCycle)
	require.Zero(t, breakdown.AddedThisCycle)
	require.Zero(t, breakdown.PendingInvitation)
	require.Zero(t, breakdown.PendingCancellation)
}

func TestClassifySeatsIsIdempotent(t *testing.T) {
	seats := []models.Seat{
		seatWithActivity("alice", distributeNow),
		seatWithActivity("bob", distributeNow.AddDate(0, 0, -40)),
	}

	first := ClassifySeats(seats, distributeNow)
	second := ClassifySeats(seats, distributeNow)
	require.Equal(t, first, second)
}

func TestClassifySeatsEmpty(t *testing.T) {
	breakdown := ClassifySeats(nil, distributeNow)
	require.Equal(t, models.SeatBreakdown{}, breakdown)
}

func TestSeatManagementFor(t *testing.T) {
	snapshot := &models.SeatsSnapshot{
		ID:           "2025-06-15-ORG-acme",
		Date:         "2025-06-15",
		Organization: "acme",
		TotalSeats:   2,
		Seats: []models.Seat{
			seatWithActivity("alice", distributeNow),
			{Assignee: models.User{Login: "bob"}},
		},
	}

	summary := SeatManagementFor(snapshot, distributeNow)
	require.Equal(t, "acme", summary.Organization)
	require.Equal(t, "2025-06-15-ORG-acme", summary.ID)
	require.Equal(t, 2, summary.TotalSeats)
	require.Equal(t, 1, summary.Seats.SeatBreakdown.ActiveThisCycle)
	require.Equal(t, 1, summary.Seats.SeatBreakdown.InactiveThisCycle)
}

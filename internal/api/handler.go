// Package api exposes the dashboard's inbound HTTP surface.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/platform-engineering/copilot-usage-dashboard/internal/config"
	"github.com/platform-engineering/copilot-usage-dashboard/internal/models"
	"github.com/platform-engineering/copilot-usage-dashboard/internal/service"
)

const dateLayout = "2006-01-02"

// Dashboard is the service surface the handlers consume.
type Dashboard interface {
	Metrics(ctx context.Context, filter models.MetricsFilter) (*models.MetricsResult, error)
	Seats(ctx context.Context, filter models.SeatsFilter) (*models.SeatsSnapshot, error)
	UserMetrics(ctx context.Context, organization string) (map[string]models.UserMetricsEntry, error)
	RawMetrics(ctx context.Context) (*models.MetricsResult, error)
	RawSeats(ctx context.Context) (*models.SeatsSnapshot, error)
}

type Handler struct {
	svc Dashboard
	cfg *config.Config
	log *zap.Logger
	now func() time.Time
}

func NewHandler(svc Dashboard, cfg *config.Config, log *zap.Logger) *Handler {
	return &Handler{svc: svc, cfg: cfg, log: log, now: time.Now}
}

// Register mounts the dashboard routes.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/healthz", h.Healthz)
	app.Get("/api/user-metrics", h.GetUserMetrics)
	if h.cfg.Features.Dashboard {
		app.Get("/api/metrics", h.GetMetrics)
		app.Get("/api/raw/metrics", h.GetRawMetrics)
	}
	if h.cfg.Features.Seats {
		app.Get("/api/seats", h.GetSeats)
		app.Get("/api/raw/seats", h.GetRawSeats)
	}
}

func (h *Handler) Healthz(c *fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(fiber.Map{"status": "ok"})
}

// GetUserMetrics serves the per-user metrics table. A missing organization
// parameter is the caller's mistake and gets a 400; anything failing after
// that degrades to the canned payload instead of an error page.
func (h *Handler) GetUserMetrics(c *fiber.Ctx) error {
	organization := c.Query("organization")
	if organization == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "Organization parameter is required",
		})
	}

	table, err := h.svc.UserMetrics(c.Context(), organization)
	if err != nil {
		return h.degrade(c, "user metrics", err)
	}
	return c.Status(http.StatusOK).JSON(table)
}

// GetMetrics serves usage metrics for the configured scope, optionally
// narrowed by since/until dates.
func (h *Handler) GetMetrics(c *fiber.Ctx) error {
	filter := models.MetricsFilter{Team: c.Query("team")}

	if since := c.Query("since"); since != "" {
		t, err := time.Parse(dateLayout, since)
		if err != nil {
			return badDate(c, "since")
		}
		filter.StartDate = &t
	}
	if until := c.Query("until"); until != "" {
		t, err := time.Parse(dateLayout, until)
		if err != nil {
			return badDate(c, "until")
		}
		filter.EndDate = &t
	}

	result, err := h.svc.Metrics(c.Context(), filter)
	if err != nil {
		h.log.Error("failed to resolve metrics", zap.Error(err))
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(result)
}

type seatsResponse struct {
	Seats          *models.SeatsSnapshot `json:"seats"`
	SeatManagement models.SeatManagement `json:"seat_management"`
}

// GetSeats serves the current seat snapshot with its activity breakdown.
func (h *Handler) GetSeats(c *fiber.Ctx) error {
	filter := models.SeatsFilter{Team: c.Query("team")}

	if date := c.Query("date"); date != "" {
		t, err := time.Parse(dateLayout, date)
		if err != nil {
			return badDate(c, "date")
		}
		filter.Date = &t
	}

	snapshot, err := h.svc.Seats(c.Context(), filter)
	if err != nil {
		h.log.Error("failed to resolve seats", zap.Error(err))
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(seatsResponse{
		Seats:          snapshot,
		SeatManagement: service.SeatManagementFor(snapshot, h.now()),
	})
}

// GetRawMetrics serves the verbatim metrics API response for audit display.
func (h *Handler) GetRawMetrics(c *fiber.Ctx) error {
	result, err := h.svc.RawMetrics(c.Context())
	if err != nil {
		h.log.Error("failed to fetch raw metrics", zap.Error(err))
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(result)
}

// GetRawSeats serves the verbatim seats API response for audit display.
func (h *Handler) GetRawSeats(c *fiber.Ctx) error {
	snapshot, err := h.svc.RawSeats(c.Context())
	if err != nil {
		h.log.Error("failed to fetch raw seats", zap.Error(err))
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(snapshot)
}

func badDate(c *fiber.Ctx, param string) error {
	return c.Status(http.StatusBadRequest).JSON(fiber.Map{
		"error": param + " must be formatted as YYYY-MM-DD",
	})
}

package api

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/platform-engineering/copilot-usage-dashboard/internal"
	"github.com/platform-engineering/copilot-usage-dashboard/internal/github"
	"github.com/platform-engineering/copilot-usage-dashboard/internal/models"
	"github.com/platform-engineering/copilot-usage-dashboard/internal/service"
)

// degradedUserMetrics is the canned example record served in place of the
// real table when building it fails. The dashboard stays up at the cost of
// correctness signaling; the failure is still logged and counted.
var degradedUserMetrics = map[string]models.UserMetricsEntry{
	"exampleUser": {
		AcceptanceRate:    "75.5%",
		TotalSuggestions:  "1,245",
		ActiveDays:        "18",
		TimeSaved:         "2h 30m",
		Languages:         map[string]int{},
		MostUsedLanguages: "TypeScript, JavaScript, Python",
	},
}

// degrade applies the degraded-response policy: HTTP 200 with the example
// payload.
func (h *Handler) degrade(c *fiber.Ctx, operation string, err error) error {
	internal.DegradedResponses.Inc()
	h.log.Warn("serving degraded response",
		zap.String("operation", operation),
		zap.Error(err),
	)
	return c.Status(http.StatusOK).JSON(degradedUserMetrics)
}

func writeError(c *fiber.Ctx, err error) error {
	status := http.StatusInternalServerError

	var httpErr *github.HTTPError
	switch {
	case errors.As(err, &httpErr):
		status = http.StatusBadGateway
	case errors.Is(err, service.ErrScopeMissing):
		status = http.StatusBadRequest
	}

	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

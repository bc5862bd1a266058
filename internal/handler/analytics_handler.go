package handler

import (
	"go-pos-receipts/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AnalyticsHandler struct {
	service service.AnalyticsService
}

func NewAnalyticsHandler(s service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: s}
}

// GetSummary returns the dashboard aggregation over the full receipt history.
func (h *AnalyticsHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.service.GetSummary()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to calculate analytics"})
	}
	return c.JSON(summary)
}

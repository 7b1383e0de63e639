package dashboard

import (
	"course-manager/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for instructor dashboards.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the dashboard routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/instrutor/:email/dashboard", h.HandleDashboard)
}

// HandleDashboard returns the instructor's dashboard.
// @Summary Instructor dashboard
// @Description Counts courses, enrolled students, completed lessons and questions, and lists the most completed lessons.
// @Tags dashboard
// @Produce json
// @Param email path string true "Instructor email"
// @Success 200 {object} Report
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /instrutor/{email}/dashboard [get]
func (h *Handler) HandleDashboard(c *fiber.Ctx) error {
	report, err := h.service.Report(c.Context(), c.Params("email"))
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Failed to build dashboard", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Erro ao carregar dashboard"})
	}
	return c.JSON(report)
}

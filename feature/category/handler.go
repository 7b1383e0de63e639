package category

import (
	"errors"

	"course-manager/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for categories.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the category routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/categorias", h.HandleList)
	app.Post("/categorias", h.HandleAdd)
}

// AddRequest is the body of POST /categorias.
type AddRequest struct {
	Name string `json:"name"`
}

// HandleList returns every category.
// @Summary List categories
// @Tags categories
// @Produce json
// @Success 200 {object} map[string][]string
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /categorias [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	cats, err := h.service.List(c.Context())
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Failed to list categories", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Erro ao listar categorias"})
	}
	return c.JSON(fiber.Map{"categorias": cats})
}

// HandleAdd registers a category unless a case-insensitive match exists.
// @Summary Add category
// @Tags categories
// @Accept json
// @Produce json
// @Param request body AddRequest true "Category"
// @Success 200 {object} map[string][]string
// @Failure 400 {object} map[string]string "Blank name"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /categorias [post]
func (h *Handler) HandleAdd(c *fiber.Ctx) error {
	var req AddRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Corpo invalido."})
	}
	cats, err := h.service.Add(c.Context(), req.Name)
	if errors.Is(err, ErrBlankName) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Nome da categoria obrigatorio."})
	}
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Failed to add category", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Erro ao salvar categoria"})
	}
	return c.JSON(fiber.Map{"categorias": cats})
}

package question

import (
	"errors"

	"course-manager/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for course questions.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the question routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/cursos/:id/perguntas")
	group.Get("/", h.HandleList)
	group.Post("/", h.HandleAsk)
	group.Put("/:pid", h.HandleEdit)
	group.Delete("/:pid", h.HandleRemove)
	group.Post("/:pid/respostas", h.HandleAnswer)
}

// EditRequest is the body of a question edit.
type EditRequest struct {
	Text string `json:"texto"`
}

// HandleList returns the questions of a course.
// @Summary List questions
// @Tags questions
// @Produce json
// @Param id path string true "Course id"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Course not found"
// @Router /cursos/{id}/perguntas [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	questions, err := h.service.List(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"perguntas": questions})
}

// HandleAsk adds a question.
// @Summary Ask a question
// @Tags questions
// @Accept json
// @Produce json
// @Param id path string true "Course id"
// @Param request body Post true "Question"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Missing fields"
// @Failure 404 {object} map[string]string "Course not found"
// @Router /cursos/{id}/perguntas [post]
func (h *Handler) HandleAsk(c *fiber.Ctx) error {
	var req Post
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Corpo invalido."})
	}
	q, err := h.service.Ask(c.Context(), c.Params("id"), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"pergunta": q})
}

// HandleEdit changes a question's text.
// @Summary Edit a question
// @Tags questions
// @Accept json
// @Produce json
// @Param id path string true "Course id"
// @Param pid path string true "Question id"
// @Param request body EditRequest true "New text"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Missing text"
// @Failure 404 {object} map[string]string "Not found"
// @Router /cursos/{id}/perguntas/{pid} [put]
func (h *Handler) HandleEdit(c *fiber.Ctx) error {
	var req EditRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Corpo invalido."})
	}
	q, err := h.service.Edit(c.Context(), c.Params("id"), c.Params("pid"), req.Text)
	if errors.Is(err, ErrMissingFields) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "texto obrigatorio."})
	}
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"pergunta": q})
}

// HandleRemove deletes a question.
// @Summary Remove a question
// @Tags questions
// @Produce json
// @Param id path string true "Course id"
// @Param pid path string true "Question id"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string "Course not found"
// @Router /cursos/{id}/perguntas/{pid} [delete]
func (h *Handler) HandleRemove(c *fiber.Ctx) error {
	if err := h.service.Remove(c.Context(), c.Params("id"), c.Params("pid")); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Pergunta removida."})
}

// HandleAnswer adds an answer to a question.
// @Summary Answer a question
// @Tags questions
// @Accept json
// @Produce json
// @Param id path string true "Course id"
// @Param pid path string true "Question id"
// @Param request body Post true "Answer"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Missing fields"
// @Failure 404 {object} map[string]string "Not found"
// @Router /cursos/{id}/perguntas/{pid}/respostas [post]
func (h *Handler) HandleAnswer(c *fiber.Ctx) error {
	var req Post
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Corpo invalido."})
	}
	a, err := h.service.Answer(c.Context(), c.Params("id"), c.Params("pid"), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"resposta": a})
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrCourseNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Curso nao encontrado."})
	case errors.Is(err, ErrQuestionNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Pergunta nao encontrada."})
	case errors.Is(err, ErrMissingFields):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "autorEmail, autorNome e texto obrigatorios."})
	}
	logger.WithRayID(h.service.logger, c).Error("Question request failed", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Erro ao processar pergunta"})
}

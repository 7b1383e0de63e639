package learner

import (
	"errors"

	"course-manager/core/logger"
	"course-manager/core/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for user bookkeeping.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the user routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	users := app.Group("/usuarios/:email")
	users.Get("/listas", h.HandleLists)
	users.Post("/meus-cursos", h.HandleEnroll)
	users.Post("/favoritos", h.HandleFavorite)
	users.Get("/assinatura", h.HandleGetSignature)
	users.Post("/assinatura", h.HandleSetSignature)
	users.Get("/progresso", h.HandleGetProgress)
	users.Post("/progresso", h.HandleSetProgress)
	users.Get("/certificados", h.HandleGetCertificates)
	users.Post("/certificados", h.HandleIssueCertificate)

	app.Get("/certificados/:code", h.HandleVerify)
}

// ListRequest toggles a course in one of the user's lists.
type ListRequest struct {
	CourseID any    `json:"courseId" swaggertype:"string"`
	Action   string `json:"action"`
}

// SignatureRequest sets the user's signature.
type SignatureRequest struct {
	Text string `json:"text"`
	Font string `json:"font"`
}

// ProgressRequest marks a lesson completed or not.
type ProgressRequest struct {
	CourseID  any   `json:"courseId" swaggertype:"string"`
	LessonID  any   `json:"lessonId" swaggertype:"string"`
	Completed *bool `json:"completed"`
}

// CertificateRequest issues a certificate.
type CertificateRequest struct {
	CourseID    any    `json:"courseId" swaggertype:"string"`
	CompletedAt string `json:"completedAt"`
}

// HandleLists returns the user's courses and favorites.
// @Summary Get user lists
// @Tags users
// @Produce json
// @Param email path string true "User email"
// @Success 200 {object} Lists
// @Router /usuarios/{email}/listas [get]
func (h *Handler) HandleLists(c *fiber.Ctx) error {
	lists, err := h.service.Lists(c.Context(), c.Params("email"))
	if err != nil {
		return h.fail(c, err, "Erro ao carregar listas")
	}
	return c.JSON(lists)
}

// HandleEnroll adds or removes a course from the user's courses.
// @Summary Toggle enrolment
// @Tags users
// @Accept json
// @Produce json
// @Param email path string true "User email"
// @Param request body ListRequest true "Course and action"
// @Success 200 {object} map[string][]string
// @Failure 400 {object} map[string]string "Missing courseId"
// @Router /usuarios/{email}/meus-cursos [post]
func (h *Handler) HandleEnroll(c *fiber.Ctx) error {
	var req ListRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	list, err := h.service.SetEnrolled(c.Context(), c.Params("email"), utils.ToString(req.CourseID), req.Action == "remove")
	if err != nil {
		return h.fail(c, err, "Erro ao salvar curso")
	}
	return c.JSON(fiber.Map{"meusCursos": list})
}

// HandleFavorite adds or removes a course from the user's favorites.
// @Summary Toggle favorite
// @Tags users
// @Accept json
// @Produce json
// @Param email path string true "User email"
// @Param request body ListRequest true "Course and action"
// @Success 200 {object} map[string][]string
// @Failure 400 {object} map[string]string "Missing courseId"
// @Router /usuarios/{email}/favoritos [post]
func (h *Handler) HandleFavorite(c *fiber.Ctx) error {
	var req ListRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	list, err := h.service.SetFavorite(c.Context(), c.Params("email"), utils.ToString(req.CourseID), req.Action == "remove")
	if err != nil {
		return h.fail(c, err, "Erro ao salvar favorito")
	}
	return c.JSON(fiber.Map{"favoritos": list})
}

// HandleGetSignature returns the user's signature.
// @Summary Get signature
// @Tags users
// @Produce json
// @Param email path string true "User email"
// @Success 200 {object} map[string]interface{}
// @Router /usuarios/{email}/assinatura [get]
func (h *Handler) HandleGetSignature(c *fiber.Ctx) error {
	sig, err := h.service.Signature(c.Context(), c.Params("email"))
	if err != nil {
		return h.fail(c, err, "Erro ao carregar assinatura")
	}
	return c.JSON(fiber.Map{"assinatura": sig})
}

// HandleSetSignature stores the user's signature.
// @Summary Set signature
// @Tags users
// @Accept json
// @Produce json
// @Param email path string true "User email"
// @Param request body SignatureRequest true "Signature"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Missing text or font"
// @Router /usuarios/{email}/assinatura [post]
func (h *Handler) HandleSetSignature(c *fiber.Ctx) error {
	var req SignatureRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	sig, err := h.service.SetSignature(c.Context(), c.Params("email"), req.Text, req.Font)
	if err != nil {
		return h.fail(c, err, "Erro ao salvar assinatura")
	}
	return c.JSON(fiber.Map{"assinatura": sig})
}

// HandleGetProgress returns completed lessons per course.
// @Summary Get progress
// @Tags users
// @Produce json
// @Param email path string true "User email"
// @Success 200 {object} map[string]interface{}
// @Router /usuarios/{email}/progresso [get]
func (h *Handler) HandleGetProgress(c *fiber.Ctx) error {
	progress, err := h.service.Progress(c.Context(), c.Params("email"))
	if err != nil {
		return h.fail(c, err, "Erro ao carregar progresso")
	}
	return c.JSON(fiber.Map{"progresso": progress})
}

// HandleSetProgress marks a lesson. Omitting completed counts as completed.
// @Summary Set lesson progress
// @Tags users
// @Accept json
// @Produce json
// @Param email path string true "User email"
// @Param request body ProgressRequest true "Lesson"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Missing courseId or lessonId"
// @Router /usuarios/{email}/progresso [post]
func (h *Handler) HandleSetProgress(c *fiber.Ctx) error {
	var req ProgressRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	completed := req.Completed == nil || *req.Completed
	progress, err := h.service.SetProgress(c.Context(), c.Params("email"),
		utils.ToString(req.CourseID), utils.ToString(req.LessonID), completed)
	if err != nil {
		return h.fail(c, err, "Erro ao salvar progresso")
	}
	return c.JSON(fiber.Map{"progresso": progress})
}

// HandleGetCertificates returns the user's certificates.
// @Summary Get certificates
// @Tags users
// @Produce json
// @Param email path string true "User email"
// @Success 200 {object} map[string]interface{}
// @Router /usuarios/{email}/certificados [get]
func (h *Handler) HandleGetCertificates(c *fiber.Ctx) error {
	certs, err := h.service.Certificates(c.Context(), c.Params("email"))
	if err != nil {
		return h.fail(c, err, "Erro ao carregar certificados")
	}
	return c.JSON(fiber.Map{"certificados": certs})
}

// HandleIssueCertificate issues a course certificate once.
// @Summary Issue certificate
// @Tags users
// @Accept json
// @Produce json
// @Param email path string true "User email"
// @Param request body CertificateRequest true "Course"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Missing courseId"
// @Router /usuarios/{email}/certificados [post]
func (h *Handler) HandleIssueCertificate(c *fiber.Ctx) error {
	var req CertificateRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	certs, err := h.service.IssueCertificate(c.Context(), c.Params("email"), utils.ToString(req.CourseID), req.CompletedAt)
	if err != nil {
		return h.fail(c, err, "Erro ao emitir certificado")
	}
	return c.JSON(fiber.Map{"certificados": certs})
}

// HandleVerify checks a certificate code.
// @Summary Verify certificate
// @Tags certificates
// @Produce json
// @Param code path string true "Certificate code"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]bool
// @Router /certificados/{code} [get]
func (h *Handler) HandleVerify(c *fiber.Ctx) error {
	cert, ok, err := h.service.Verify(c.Context(), c.Params("code"))
	if err != nil {
		return h.fail(c, err, "Erro ao verificar certificado")
	}
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"valido": false})
	}
	return c.JSON(fiber.Map{"valido": true, "certificado": cert})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Corpo invalido."})
}

func (h *Handler) fail(c *fiber.Ctx, err error, internal string) error {
	if errors.Is(err, ErrValidation) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	logger.WithRayID(h.service.logger, c).Error(internal, zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": internal})
}

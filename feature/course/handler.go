package course

import (
	"errors"
	"io"
	"mime/multipart"

	"course-manager/core/catalog"
	"course-manager/core/logger"
	"course-manager/core/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for courses.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers the course routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Post("/upload-curso", h.HandleUpsert)
	app.Get("/cursos", h.HandleList)
	app.Get("/cursos/:id", h.HandleGet)
	app.Put("/cursos/:id", h.HandlePatch)
	app.Delete("/cursos/:id", h.HandleDelete)
}

// UpsertResponse is returned by the upsert endpoint.
type UpsertResponse struct {
	Message string         `json:"message"`
	Course  catalog.Course `json:"curso"`
}

// HandleUpsert creates or updates a course from a multipart submission.
// @Summary Create or update a course
// @Description Stores uploaded files, reconciles them with the previous version of the course and saves it.
// @Tags courses
// @Accept multipart/form-data
// @Produce json
// @Param id formData string false "Course id, omitted on creation"
// @Param email formData string true "Owner email"
// @Param titulo formData string true "Title"
// @Param modulos formData string false "JSON encoded module tree"
// @Param removerImagemCapa formData string false "true to clear the cover"
// @Param imagemCapa formData file false "Cover image"
// @Param materiais formData file false "Materials"
// @Param videos formData file false "Lesson videos"
// @Success 200 {object} UpsertResponse
// @Failure 400 {object} map[string]string "Invalid submission"
// @Failure 403 {object} map[string]string "Not the owner"
// @Failure 413 {object} map[string]string "File too large"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /upload-curso [post]
func (h *Handler) HandleUpsert(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Formulario invalido."})
	}

	value := func(key string) string {
		if v := form.Value[key]; len(v) > 0 {
			return v[0]
		}
		return ""
	}
	sub := Submission{
		ID:             value("id"),
		Email:          value("email"),
		InstructorName: value("instrutorNome"),
		AffiliateCode:  value("codigo_afiliado_proprio"),
		Title:          value("titulo"),
		Description:    value("descricao"),
		Category:       value("categoria"),
		Level:          value("nivel"),
		Price:          value("preco"),
		Draft:          utils.ToBool(value("rascunho")),
		RemoveCover:    utils.ToBool(value("removerImagemCapa")),
		Modules:        value("modulos"),
	}

	// Unknown file fields are handed over too so the uploader rejects them.
	fields := []string{FieldCover, FieldMaterials, FieldVideos}
	for field := range form.File {
		if _, known := FieldLimits[field]; !known {
			fields = append(fields, field)
		}
	}
	var files []File
	for _, field := range fields {
		for _, fh := range form.File[field] {
			files = append(files, fileFromHeader(field, fh))
		}
	}

	batch, err := h.service.Uploader().Store(c.Context(), files)
	if err != nil {
		return h.fail(c, l, err, "Erro ao salvar arquivos")
	}

	res, err := h.service.Upsert(c.Context(), sub, batch)
	if err != nil {
		return h.fail(c, l, err, "Erro ao criar/atualizar curso")
	}

	msg := "Curso atualizado com sucesso!"
	if res.Created {
		msg = "Curso criado com sucesso!"
	}
	l.Info("Course saved", zap.String("course_id", res.Course.ID), zap.Bool("created", res.Created))
	return c.JSON(UpsertResponse{Message: msg, Course: res.Course})
}

func fileFromHeader(field string, fh *multipart.FileHeader) File {
	return File{
		Field:        field,
		OriginalName: fh.Filename,
		Size:         fh.Size,
		ContentType:  fh.Header.Get("Content-Type"),
		Open:         func() (io.ReadCloser, error) { return fh.Open() },
	}
}

// HandleList returns every course.
// @Summary List courses
// @Tags courses
// @Produce json
// @Success 200 {object} map[string][]catalog.Course
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /cursos [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	courses, err := h.service.List(c.Context())
	if err != nil {
		return h.fail(c, logger.WithRayID(h.logger, c), err, "Erro ao listar cursos")
	}
	return c.JSON(fiber.Map{"cursos": courses})
}

// HandleGet returns one course.
// @Summary Get course
// @Tags courses
// @Produce json
// @Param id path string true "Course id"
// @Success 200 {object} map[string]catalog.Course
// @Failure 404 {object} map[string]string "Not found"
// @Router /cursos/{id} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	course, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, logger.WithRayID(h.logger, c), err, "Erro ao buscar curso")
	}
	return c.JSON(fiber.Map{"curso": course})
}

// HandlePatch merges a JSON body over a stored course.
// @Summary Update course fields
// @Description Merges scalar fields. Files and structure change through /upload-curso.
// @Tags courses
// @Accept json
// @Produce json
// @Param id path string true "Course id"
// @Success 200 {object} UpsertResponse
// @Failure 400 {object} map[string]string "Missing email"
// @Failure 403 {object} map[string]string "Not the owner"
// @Failure 404 {object} map[string]string "Not found"
// @Router /cursos/{id} [put]
func (h *Handler) HandlePatch(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)
	fields := map[string]any{}
	if err := c.BodyParser(&fields); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Corpo invalido."})
	}
	course, err := h.service.Patch(c.Context(), c.Params("id"), fields)
	if err != nil {
		return h.fail(c, l, err, "Erro ao atualizar curso")
	}
	return c.JSON(UpsertResponse{Message: "Curso atualizado!", Course: *course})
}

// HandleDelete removes a course and its files.
// @Summary Delete course
// @Tags courses
// @Produce json
// @Param id path string true "Course id"
// @Param email query string true "Owner email"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string "Missing email"
// @Failure 403 {object} map[string]string "Not the owner"
// @Failure 404 {object} map[string]string "Not found"
// @Router /cursos/{id} [delete]
func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)
	if err := h.service.Delete(c.Context(), c.Params("id"), c.Query("email")); err != nil {
		return h.fail(c, l, err, "Erro ao excluir curso")
	}
	return c.JSON(fiber.Map{"message": "Curso deletado!"})
}

// fail maps service errors to responses. Internal causes are logged, never returned.
func (h *Handler) fail(c *fiber.Ctx, l *zap.Logger, err error, internal string) error {
	switch {
	case errors.Is(err, ErrMalformedStructure):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Modulos invalidos."})
	case errors.Is(err, ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrTooLarge):
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{"error": "Arquivo excede o limite de tamanho."})
	case errors.Is(err, ErrOwnershipMismatch):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Apenas o dono do curso pode alterar."})
	case errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Curso não encontrado."})
	}
	l.Error(internal, zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": internal})
}

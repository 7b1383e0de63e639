package integrity

import (
	"errors"

	"course-manager/core/logger"
	"course-manager/core/storage"
	"course-manager/feature/integrity/checks"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	// Force import for Swagger
	var _ = checks.SchemaReport{}
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/structure", h.HandleStructureCheck)
	group.Get("/files", h.HandleFilesCheck)
	group.Get("/files/:area/:name", h.HandleFileLookup)
	group.Get("/schema", h.HandleSchemaCheck)
}

// HandleIntegrityCheck triggers all integrity checks.
// @Summary Run All Integrity Checks
// @Description Performs the storage structure check, the reference sweep and, when the collection is kept in SQL, the schema check.
// @Tags integrity
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "Combined Report"
// @Router /integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering all integrity checks")

	ctx := c.Context()
	report := make(map[string]interface{})

	if missing, err := h.service.CheckStructure(ctx); err != nil {
		report["structure"] = map[string]interface{}{"status": "error", "error": err.Error()}
	} else {
		report["structure"] = map[string]interface{}{"status": "ok", "missing": areaNames(missing)}
	}

	if files, err := h.service.Files(ctx); err != nil {
		report["files"] = map[string]interface{}{"status": "error", "error": err.Error()}
	} else {
		report["files"] = files
	}

	if schema, err := h.service.CheckSchema(); err == nil {
		report["schema"] = schema
	} else if !errors.Is(err, ErrNoDatabase) {
		report["schema"] = map[string]interface{}{"status": "error", "error": err.Error()}
	}

	return c.JSON(report)
}

// HandleStructureCheck checks and optionally fixes the storage areas.
// @Summary Check Structure
// @Description Checks that the videos and materials storage areas exist. Optionally creates missing areas.
// @Tags integrity
// @Accept json
// @Produce json
// @Param fix query boolean false "Create missing areas"
// @Success 200 {object} map[string]interface{} "Structure Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/structure [get]
func (h *Handler) HandleStructureCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	fix := c.Query("fix") == "true"

	missing, err := h.service.CheckStructure(c.Context())
	if err != nil {
		l.Error("Structure check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if len(missing) > 0 {
		l.Warn("Missing storage areas detected", zap.Strings("missing", areaNames(missing)))

		if fix {
			if err := h.service.FixStructure(c.Context(), missing); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error":   "Failed to fix structure",
					"details": err.Error(),
					"missing": areaNames(missing),
				})
			}
			return c.JSON(fiber.Map{
				"status": "fixed",
				"fixed":  areaNames(missing),
			})
		}
	}

	return c.JSON(fiber.Map{
		"status":  "checked",
		"missing": areaNames(missing),
	})
}

// HandleFilesCheck runs the reference sweep.
// @Summary Check Course Files
// @Description Compares the blobs referenced by courses with the stored blobs and lists dangling references and orphans.
// @Tags integrity
// @Produce json
// @Param refresh query bool false "Bypass the cached reference index"
// @Success 200 {object} FilesReport
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/files [get]
func (h *Handler) HandleFilesCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	if c.QueryBool("refresh") {
		h.service.Refresh()
	}
	report, err := h.service.Files(c.Context())
	if err != nil {
		l.Error("File sweep failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(report)
}

// HandleFileLookup reports on a single blob.
// @Summary Look Up Course File
// @Description Reports whether a blob is stored and which courses reference it.
// @Tags integrity
// @Produce json
// @Param area path string true "Storage area (videos, materials)"
// @Param name path string true "Storage name"
// @Success 200 {object} map[string]interface{} "Lookup Result"
// @Failure 400 {object} map[string]string "Invalid area or name"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/files/{area}/{name} [get]
func (h *Handler) HandleFileLookup(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	result, err := h.service.LookupFile(c.Context(), storage.Area(c.Params("area")), c.Params("name"))
	if err != nil {
		if errors.Is(err, storage.ErrUnknownArea) || errors.Is(err, storage.ErrInvalidName) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		l.Error("File lookup failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(result)
}

// HandleSchemaCheck checks the SQL store schema.
// @Summary Check Database Schema
// @Description Checks that the collection tables carry every expected column.
// @Tags integrity
// @Produce json
// @Success 200 {object} checks.SchemaReport "Schema Report"
// @Failure 404 {object} map[string]string "No database configured"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/schema [get]
func (h *Handler) HandleSchemaCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.CheckSchema()
	if err != nil {
		if errors.Is(err, ErrNoDatabase) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		l.Error("Schema check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(report)
}

func areaNames(areas []storage.Area) []string {
	names := make([]string, 0, len(areas))
	for _, a := range areas {
		names = append(names, string(a))
	}
	return names
}

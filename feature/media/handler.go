package media

import (
	"errors"
	"fmt"
	"io"
	"net/url"

	"course-manager/core/logger"
	"course-manager/core/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// DefaultVideoType is sent when a video's type cannot be derived from its name.
const DefaultVideoType = "video/mp4"

// Handler serves stored videos and materials.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the download routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/videos/:filename", h.HandleVideo)
	app.Get("/materiais/:filename", h.HandleMaterial)
}

// HandleVideo streams a video or cover image, honoring single byte ranges.
// @Summary Stream video
// @Description Supports "Range: bytes=start-end". Unsatisfiable ranges answer 416.
// @Tags media
// @Produce octet-stream
// @Param filename path string true "Storage name"
// @Param Range header string false "Byte range"
// @Success 200 {file} file
// @Success 206 {file} file
// @Failure 404 {object} map[string]string "Not found"
// @Failure 416 {string} string "Range not satisfiable"
// @Router /videos/{filename} [get]
func (h *Handler) HandleVideo(c *fiber.Ctx) error {
	blob, err := h.open(c, storage.AreaVideos)
	if err != nil {
		return h.fail(c, err, "Vídeo não encontrado.")
	}
	info := blob.Info()
	contentType := info.ContentType
	if contentType == "" {
		contentType = DefaultVideoType
	}
	c.Set(fiber.HeaderAcceptRanges, "bytes")
	c.Set(fiber.HeaderContentType, contentType)

	header := c.Get(fiber.HeaderRange)
	if header == "" {
		return c.SendStream(blob, int(info.Size))
	}

	r, err := parseRange(header, info.Size)
	if err != nil {
		_ = blob.Close()
		if errors.Is(err, errUnsatisfiableRange) {
			c.Set(fiber.HeaderContentRange, fmt.Sprintf("bytes */%d", info.Size))
			return c.SendStatus(fiber.StatusRequestedRangeNotSatisfiable)
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Range invalido."})
	}
	if _, err := blob.Seek(r.start, io.SeekStart); err != nil {
		_ = blob.Close()
		return h.fail(c, err, "")
	}

	c.Status(fiber.StatusPartialContent)
	c.Set(fiber.HeaderContentRange, fmt.Sprintf("bytes %d-%d/%d", r.start, r.end, info.Size))
	return c.SendStream(limitedBlob{Reader: io.LimitReader(blob, r.length()), Closer: blob}, int(r.length()))
}

// HandleMaterial sends a material as an attachment.
// @Summary Download material
// @Tags media
// @Produce octet-stream
// @Param filename path string true "Storage name"
// @Success 200 {file} file
// @Failure 404 {object} map[string]string "Not found"
// @Router /materiais/{filename} [get]
func (h *Handler) HandleMaterial(c *fiber.Ctx) error {
	blob, err := h.open(c, storage.AreaMaterials)
	if err != nil {
		return h.fail(c, err, "Arquivo não encontrado.")
	}
	info := blob.Info()
	c.Attachment(info.Name)
	if info.ContentType != "" {
		c.Set(fiber.HeaderContentType, info.ContentType)
	}
	return c.SendStream(blob, int(info.Size))
}

func (h *Handler) open(c *fiber.Ctx, area storage.Area) (storage.Blob, error) {
	name, err := url.PathUnescape(c.Params("filename"))
	if err != nil {
		return nil, storage.ErrNotFound
	}
	return h.service.Open(c.Context(), area, name)
}

func (h *Handler) fail(c *fiber.Ctx, err error, notFound string) error {
	if errors.Is(err, storage.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": notFound})
	}
	logger.WithRayID(h.service.logger, c).Error("Failed to open file", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Erro ao ler arquivo"})
}

// limitedBlob keeps the blob's Close reachable behind a LimitReader so the
// response writer releases it.
type limitedBlob struct {
	io.Reader
	io.Closer
}

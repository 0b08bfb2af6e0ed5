package catalog

import (
	"strconv"

	"catalog-tracker/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for catalog reporting. The API is
// read-only; reconciliation runs through the CLI.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the catalog routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/catalog")
	group.Get("/products", h.HandleListProducts)
	group.Get("/products/:id/colors", h.HandleListColors)
	group.Get("/colors/:id/sizes", h.HandleListSizes)
	group.Get("/sizes/:id/history", h.HandleSizeHistory)
	group.Get("/changes/latest", h.HandleLatestChanges)
	group.Get("/stats", h.HandleStats)
}

// HandleListProducts returns every tracked main product.
func (h *Handler) HandleListProducts(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	products, err := h.service.ListProducts(c.Context())
	if err != nil {
		l.Error("Product listing failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(products)
}

// HandleListColors returns the color variations of one main product.
func (h *Handler) HandleListColors(c *fiber.Ctx) error {
	id := c.Params("id")
	l := logger.WithRayID(h.service.logger, c)

	colors, err := h.service.ListColors(c.Context(), id)
	if err != nil {
		l.Error("Color listing failed", zap.String("main_product_id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(colors)
}

// HandleListSizes returns the current size rows of one color variation.
func (h *Handler) HandleListSizes(c *fiber.Ctx) error {
	id := c.Params("id")
	l := logger.WithRayID(h.service.logger, c)

	sizes, err := h.service.ListSizes(c.Context(), id)
	if err != nil {
		l.Error("Size listing failed", zap.String("unique_color_id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(sizes)
}

// HandleSizeHistory returns the change log of one size row, newest first.
// The optional limit query parameter caps the number of events.
func (h *Handler) HandleSizeHistory(c *fiber.Ctx) error {
	id := c.Params("id")
	l := logger.WithRayID(h.service.logger, c)

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "limit must be a non-negative integer",
			})
		}
		limit = n
	}

	history, err := h.service.SizeHistory(c.Context(), id, limit)
	if err != nil {
		l.Error("Size history lookup failed", zap.String("unique_size_id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(history)
}

// HandleLatestChanges returns the newest event per size row.
func (h *Handler) HandleLatestChanges(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	changes, err := h.service.LatestChanges(c.Context())
	if err != nil {
		l.Error("Latest change lookup failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(changes)
}

// HandleStats returns aggregate counters over the change log.
func (h *Handler) HandleStats(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	stats, err := h.service.Stats(c.Context())
	if err != nil {
		l.Error("Stats lookup failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(stats)
}

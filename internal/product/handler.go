package product

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	customErrors "github.com/Rishabh1623/shopmetrics/internal/domain/errors"
	"github.com/Rishabh1623/shopmetrics/internal/metrics"
)

type Handler struct {
	repo  Repo
	cache *Cache
	sqlDB *sql.DB
	m     *metrics.Product
	log   *zap.Logger
}

func NewHandler(repo Repo, cache *Cache, sqlDB *sql.DB, m *metrics.Product, log *zap.Logger) *Handler {
	return &Handler{repo: repo, cache: cache, sqlDB: sqlDB, m: m, log: log}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/products", h.list)
	r.GET("/products/search", h.search)
	r.GET("/products/:id", h.get)
	r.GET("/health", h.health)
	r.GET("/ready", h.ready)
}

func (h *Handler) list(c *gin.Context) {
	products, err := h.repo.List(c.Request.Context())
	if err != nil {
		h.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handler) get(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	h.m.ViewsTotal.WithLabelValues(id).Inc()

	if cached, err := h.cache.Get(ctx, id); err == nil {
		h.m.CacheHits.Inc()
		c.JSON(http.StatusOK, cached)
		return
	}
	h.m.CacheMisses.Inc()

	product, err := h.repo.GetByID(ctx, id)
	if errors.Is(err, customErrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if err != nil {
		h.internalError(c, err)
		return
	}

	// Cache failures are logged, not surfaced: the response is already
	// complete without the cache.
	if err := h.cache.Set(ctx, product); err != nil {
		h.log.Warn("cache set failed", zap.Error(err), zap.String("product_id", id))
	}

	c.JSON(http.StatusOK, product)
}

func (h *Handler) search(c *gin.Context) {
	h.m.SearchesTotal.Inc()

	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter 'q' is required"})
		return
	}

	products, err := h.repo.Search(c.Request.Context(), query)
	if err != nil {
		h.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "product-service"})
}

func (h *Handler) ready(c *gin.Context) {
	if err := h.sqlDB.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "error": "database unreachable"})
		return
	}
	if err := h.cache.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "error": "cache unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

func (h *Handler) internalError(c *gin.Context, err error) {
	h.log.Error("internal error", zap.Error(err), zap.String("path", c.Request.URL.Path))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

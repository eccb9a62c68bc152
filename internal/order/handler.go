package order

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	customErrors "github.com/Rishabh1623/shopmetrics/internal/domain/errors"
	"github.com/Rishabh1623/shopmetrics/internal/metrics"
)

type Handler struct {
	repo      Repo
	cache     *CartCache
	publisher Publisher
	pool      *pgxpool.Pool
	m         *metrics.Order
	log       *zap.Logger
}

func NewHandler(repo Repo, cache *CartCache, publisher Publisher, pool *pgxpool.Pool, m *metrics.Order, log *zap.Logger) *Handler {
	return &Handler{repo: repo, cache: cache, publisher: publisher, pool: pool, m: m, log: log}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/api/cart", h.createCart)
	r.GET("/api/cart/:id", h.getCart)
	r.POST("/api/orders", h.createOrder)
	r.GET("/api/orders/user/:userId", h.listUserOrders)
	r.GET("/api/orders/:id", h.getOrder)
	r.PATCH("/api/orders/:id/status", h.updateStatus)
	r.GET("/health", h.health)
	r.GET("/ready", h.ready)
}

func (h *Handler) createCart(c *gin.Context) {
	var body CreateCartRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cartID, err := h.repo.CreateCart(c.Request.Context(), body)
	if err != nil {
		h.internalError(c, err)
		return
	}

	h.m.CartsCreatedTotal.Inc()
	c.JSON(http.StatusCreated, gin.H{
		"cart_id": cartID,
		"message": "Cart created successfully",
	})
}

func (h *Handler) getCart(c *gin.Context) {
	ctx := c.Request.Context()
	cartID := c.Param("id")

	if cached, err := h.cache.Get(ctx, cartID); err == nil {
		h.m.CacheHits.Inc()
		c.JSON(http.StatusOK, cached)
		return
	}
	h.m.CacheMisses.Inc()

	cart, err := h.repo.GetCart(ctx, cartID)
	if errors.Is(err, customErrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cart not found"})
		return
	}
	if err != nil {
		h.internalError(c, err)
		return
	}

	if err := h.cache.Set(ctx, cart); err != nil {
		h.log.Warn("cart cache set failed", zap.Error(err), zap.String("cart_id", cartID))
	}

	c.JSON(http.StatusOK, cart)
}

func (h *Handler) createOrder(c *gin.Context) {
	start := time.Now()

	var body CreateOrderRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	order, err := h.repo.CreateOrder(ctx, body)
	if errors.Is(err, customErrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cart is empty"})
		return
	}
	if err != nil {
		h.internalError(c, err)
		return
	}

	if err := h.cache.Delete(ctx, body.CartID); err != nil {
		h.log.Warn("cart cache delete failed", zap.Error(err), zap.String("cart_id", body.CartID))
	}

	// The event is published after commit; a publish failure does not
	// fail the order, downstream consumers reconcile from the database.
	if err := h.publisher.PublishOrderCreated(ctx, OrderCreatedEvent{
		Event:           "OrderCreated",
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		UserID:          order.UserID,
		Total:           order.Total,
		Currency:        order.Currency,
		PaymentMethodID: body.PaymentMethodID,
	}); err != nil {
		h.log.Warn("order event publish failed", zap.Error(err), zap.String("order_id", order.ID))
	}

	h.m.CreatedTotal.WithLabelValues(order.Status).Inc()
	h.m.ValueTotal.WithLabelValues(order.Currency).Add(order.Total)
	h.m.ProcessingDuration.Observe(time.Since(start).Seconds())

	h.log.Info("order created",
		zap.String("order_id", order.ID),
		zap.String("order_number", order.OrderNumber),
	)

	c.JSON(http.StatusCreated, gin.H{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"status":       order.Status,
		"total":        order.Total,
		"message":      "Order created successfully",
	})
}

func (h *Handler) getOrder(c *gin.Context) {
	order, err := h.repo.GetOrder(c.Request.Context(), c.Param("id"))
	if errors.Is(err, customErrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if err != nil {
		h.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) listUserOrders(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 10
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	orders, err := h.repo.ListUserOrders(c.Request.Context(), c.Param("userId"), limit, offset)
	if err != nil {
		h.internalError(c, err)
		return
	}
	if orders == nil {
		orders = []OrderSummary{}
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) updateStatus(c *gin.Context) {
	var body UpdateStatusRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	orderID := c.Param("id")
	err := h.repo.UpdateStatus(c.Request.Context(), orderID, body.Status)
	if errors.Is(err, customErrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if err != nil {
		h.internalError(c, err)
		return
	}

	switch body.Status {
	case "completed":
		h.m.CompletedTotal.Inc()
	case "cancelled":
		h.m.CancelledTotal.Inc()
	}

	h.log.Info("order status updated",
		zap.String("order_id", orderID),
		zap.String("status", body.Status),
	)
	c.JSON(http.StatusOK, gin.H{"message": "Order status updated successfully"})
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "order-service"})
}

func (h *Handler) ready(c *gin.Context) {
	if err := h.pool.Ping(c.Request.Context()); err != nil {
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

package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"storefront-service/internal/checkout"
	"storefront-service/internal/filter"
	"storefront-service/internal/service"
	"storefront-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const (
	// SessionHeader carries the session id for API clients without cookies
	SessionHeader = "X-Session-ID"

	sessionContextKey = "session_id"
)

// Pinger reports whether a backing dependency is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

const readinessTimeout = 2 * time.Second

// Handler contains HTTP handlers
type Handler struct {
	storefront   *service.StorefrontService
	cookieName   string
	dependencies map[string]Pinger
	logger       *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(storefront *service.StorefrontService, cookieName string) *Handler {
	return &Handler{
		storefront:   storefront,
		cookieName:   cookieName,
		dependencies: make(map[string]Pinger),
		logger:       util.GetLogger(),
	}
}

// AddReadinessCheck makes /ready depend on the named dependency
func (h *Handler) AddReadinessCheck(name string, dep Pinger) {
	h.dependencies[name] = dep
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(loggerMiddleware(h.logger))
	router.SetHTMLTemplate(pageTemplates)

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1", h.sessionMiddleware())
	{
		v1.GET("/products", h.listProducts)
		v1.GET("/products/:id", h.getProduct)
		v1.GET("/categories", h.listCategories)

		v1.GET("/cart", h.getCart)
		v1.POST("/cart/items", h.addCartItem)
		v1.PATCH("/cart/items/:id", h.updateCartItem)
		v1.DELETE("/cart/items/:id", h.removeCartItem)
		v1.DELETE("/cart", h.clearCart)

		v1.GET("/checkout", h.getCheckout)
		v1.POST("/checkout/orders", h.placeOrder)
	}

	h.setupPages(router.Group("/", h.sessionMiddleware()))
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	checks := make(map[string]string, len(h.dependencies))
	ready := true
	for name, dep := range h.dependencies {
		if err := dep.Ping(ctx); err != nil {
			h.logger.Warn("Readiness check failed", zap.String("dependency", name), zap.Error(err))
			checks[name] = err.Error()
			ready = false
			continue
		}
		checks[name] = "ok"
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"checks": checks,
			"time":   time.Now().Unix(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "ready",
		"products": h.storefront.Catalog().Len(),
		"checks":   checks,
		"time":     time.Now().Unix(),
	})
}

// listProducts filters the catalog
func (h *Handler) listProducts(c *gin.Context) {
	criteria, err := h.parseCriteria(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid filter",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, h.storefront.Browse(c.Request.Context(), criteria))
}

// getProduct handles get product by ID
func (h *Handler) getProduct(c *gin.Context) {
	id := c.Param("id")

	product, ok := h.storefront.Product(c.Request.Context(), id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "Product not found",
			"id":        id,
			"not_found": true,
		})
		return
	}

	c.JSON(http.StatusOK, product)
}

// listCategories returns the filter options
func (h *Handler) listCategories(c *gin.Context) {
	cat := h.storefront.Catalog()
	c.JSON(http.StatusOK, gin.H{
		"categories": filter.CategoryOptions(cat),
		"max_price":  cat.MaxPrice(),
	})
}

// getCart returns the session cart
func (h *Handler) getCart(c *gin.Context) {
	view, err := h.storefront.Cart(c.Request.Context(), sessionID(c))
	if err != nil {
		h.internalError(c, "Failed to load cart", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

type addItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  *int   `json:"quantity,omitempty"`
}

type updateItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// addCartItem adds a product to the cart
func (h *Handler) addCartItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	view, err := h.storefront.AddItem(c.Request.Context(), sessionID(c), req.ProductID, quantity)
	if errors.Is(err, service.ErrProductNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "Product not found",
			"id":        req.ProductID,
			"not_found": true,
		})
		return
	}
	if err != nil {
		h.internalError(c, "Failed to add item", err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// updateCartItem sets the quantity of a cart line
func (h *Handler) updateCartItem(c *gin.Context) {
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	view, err := h.storefront.UpdateQuantity(c.Request.Context(), sessionID(c), c.Param("id"), *req.Quantity)
	if err != nil {
		h.internalError(c, "Failed to update item", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// removeCartItem removes a cart line
func (h *Handler) removeCartItem(c *gin.Context) {
	view, err := h.storefront.RemoveItem(c.Request.Context(), sessionID(c), c.Param("id"))
	if err != nil {
		h.internalError(c, "Failed to remove item", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// clearCart empties the cart
func (h *Handler) clearCart(c *gin.Context) {
	view, err := h.storefront.ClearCart(c.Request.Context(), sessionID(c))
	if err != nil {
		h.internalError(c, "Failed to clear cart", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// getCheckout returns the checkout state
func (h *Handler) getCheckout(c *gin.Context) {
	view, err := h.storefront.Checkout(c.Request.Context(), sessionID(c))
	if err != nil {
		h.internalError(c, "Failed to load checkout", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// placeOrder places the order for the session cart
func (h *Handler) placeOrder(c *gin.Context) {
	view, err := h.storefront.PlaceOrder(c.Request.Context(), sessionID(c))
	if errors.Is(err, checkout.ErrCartEmpty) {
		c.JSON(http.StatusConflict, gin.H{
			"error": "Cart is empty",
			"state": checkout.StateEmpty,
		})
		return
	}
	if err != nil {
		h.internalError(c, "Failed to place order", err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *Handler) internalError(c *gin.Context, msg string, err error) {
	h.logger.Error(msg, zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   msg,
		"details": err.Error(),
	})
}

// parseCriteria reads q, category and max_price. Missing values fall back
// to criteria matching the whole catalog.
func (h *Handler) parseCriteria(c *gin.Context) (filter.Criteria, error) {
	criteria := h.storefront.DefaultCriteria()
	criteria.Query = c.Query("q")

	if category := strings.TrimSpace(c.Query("category")); category != "" {
		criteria.Category = category
	}

	if raw := c.Query("max_price"); raw != "" {
		ceiling, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || ceiling < 0 {
			return criteria, errors.New("max_price must be a non-negative integer amount in cents")
		}
		criteria.PriceCeiling = ceiling
	}

	return criteria, nil
}

// sessionMiddleware resolves the caller's session id from the header or
// cookie, issuing a new one when absent or malformed
func (h *Handler) sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(SessionHeader)
		if id == "" {
			id, _ = c.Cookie(h.cookieName)
		}
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.New().String()
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(h.cookieName, id, 0, "/", "", false, true)
		c.Header(SessionHeader, id)
		c.Set(sessionContextKey, id)

		c.Next()
	}
}

func sessionID(c *gin.Context) string {
	return c.GetString(sessionContextKey)
}

// loggerMiddleware logs each request with zap
func loggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}

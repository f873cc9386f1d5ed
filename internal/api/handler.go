package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"datamart-service/internal/cart"
	"datamart-service/internal/catalog"
	"datamart-service/internal/checkout"
	"datamart-service/internal/ingest"
	"datamart-service/internal/models"
	"datamart-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	catalog        *catalog.Store
	cart           *cart.Cart
	engine         *checkout.Engine
	uploads        *ingest.UploadService
	maxUploadBytes int64
}

// NewHandler creates a new HTTP handler
func NewHandler(
	store *catalog.Store,
	c *cart.Cart,
	engine *checkout.Engine,
	uploads *ingest.UploadService,
	maxUploadBytes int64,
) *Handler {
	return &Handler{
		catalog:        store,
		cart:           c,
		engine:         engine,
		uploads:        uploads,
		maxUploadBytes: maxUploadBytes,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/products", h.listProducts)
		v1.POST("/uploads", h.upload)

		v1.GET("/cart", h.getCart)
		v1.POST("/cart/items", h.addCartItem)
		v1.PATCH("/cart/items/:id", h.updateCartItem)
		v1.DELETE("/cart/items/:id", h.removeCartItem)

		v1.GET("/checkout", h.checkoutStatus)
		v1.POST("/checkout", h.initiateCheckout)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// listProducts returns catalog entries, optionally filtered by ?q=
func (h *Handler) listProducts(c *gin.Context) {
	entries := h.catalog.Search(c.Query("q"))
	if entries == nil {
		entries = []models.CatalogEntry{}
	}

	c.JSON(http.StatusOK, gin.H{
		"products": entries,
		"count":    len(entries),
	})
}

// upload ingests a CSV or Excel file into the catalog
func (h *Handler) upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Missing file field",
		})
		return
	}

	if fileHeader.Size > h.maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error": "File too large",
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Failed to read file",
			"details": err.Error(),
		})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Failed to read file",
			"details": err.Error(),
		})
		return
	}

	added, err := h.uploads.Upload(c.Request.Context(), fileHeader.Filename, data)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Upload failed",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"added": added,
		"total": h.catalog.Len(),
	})
}

// cartLineResponse decorates a cart line with derived view fields
type cartLineResponse struct {
	models.CartLine
	LineTotal float64 `json:"line_total"`
	Delivered bool    `json:"delivered"`
}

// getCart returns the cart lines with the live running total
func (h *Handler) getCart(c *gin.Context) {
	lines := h.cart.Lines()

	items := make([]cartLineResponse, 0, len(lines))
	for _, line := range lines {
		items = append(items, cartLineResponse{
			CartLine:  line,
			LineTotal: line.LineTotal(),
			Delivered: h.engine.IsDelivered(line.ID),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": h.cart.Count(),
		"total": checkout.ComputeTotal(lines),
		"phase": h.engine.Phase(),
	})
}

// addCartItem adds a catalog entry to the cart (or bumps its quantity)
func (h *Handler) addCartItem(c *gin.Context) {
	var req struct {
		ProductID string `json:"product_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	entry, err := h.catalog.Get(req.ProductID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Product not found",
			"details": err.Error(),
		})
		return
	}

	h.cart.Add(entry)
	c.JSON(http.StatusCreated, gin.H{
		"count": h.cart.Count(),
	})
}

// updateCartItem replaces the quantity of a cart line
func (h *Handler) updateCartItem(c *gin.Context) {
	var req struct {
		Quantity int `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	if err := h.cart.SetQuantity(c.Param("id"), req.Quantity); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "Failed to update quantity",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count": h.cart.Count(),
	})
}

// removeCartItem drops a cart line
func (h *Handler) removeCartItem(c *gin.Context) {
	h.cart.Remove(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{
		"count": h.cart.Count(),
	})
}

// checkoutStatus reports the session phase, frozen total and delivered ids
func (h *Handler) checkoutStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"phase":        h.engine.Phase(),
		"target_total": h.engine.TargetTotal(),
		"settled_ids":  h.engine.SettledIDs(),
	})
}

// initiateCheckout starts a payment for the current cart
func (h *Handler) initiateCheckout(c *gin.Context) {
	err := h.engine.InitiatePayment(c.Request.Context())
	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Cart is empty",
		})
	case errors.Is(err, checkout.ErrPaymentInFlight):
		c.JSON(http.StatusConflict, gin.H{
			"error": "A payment is already in progress",
		})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to initiate payment",
			"details": err.Error(),
		})
	default:
		c.JSON(http.StatusAccepted, gin.H{
			"phase":        h.engine.Phase(),
			"target_total": h.engine.TargetTotal(),
		})
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

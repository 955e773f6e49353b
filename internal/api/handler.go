package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"pantry-service/internal/classifier"
	"pantry-service/internal/service"
	"pantry-service/internal/store"
	"pantry-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	inventory  *service.InventoryService
	engine     *service.ConsumptionEngine
	shopping   *service.ShoppingService
	classifier *classifier.Classifier
}

// NewHandler creates a new HTTP handler
func NewHandler(
	inventory *service.InventoryService,
	engine *service.ConsumptionEngine,
	shopping *service.ShoppingService,
	cls *classifier.Classifier,
) *Handler {
	return &Handler{
		inventory:  inventory,
		engine:     engine,
		shopping:   shopping,
		classifier: cls,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/classify", h.classify)
		v1.POST("/items", h.createItem)
		v1.GET("/items", h.listItems)
		v1.GET("/items/expiring", h.listExpiring)
		v1.DELETE("/items/:id", h.deleteItem)
		v1.POST("/consume", h.consume)
		v1.POST("/shopping-list", h.addShoppingEntry)
		v1.GET("/shopping-list", h.listShoppingEntries)
		v1.POST("/shopping-list/purchase", h.purchase)
	}
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
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// classify previews the classification of a raw name without persisting
func (h *Handler) classify(c *gin.Context) {
	rawName := c.Query("name")
	if rawName == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Missing 'name' query parameter",
		})
		return
	}

	c.JSON(http.StatusOK, h.classifier.Classify(rawName))
}

// createItem handles inventory item creation
func (h *Handler) createItem(c *gin.Context) {
	var req service.CreateItemRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	item, err := h.inventory.CreateItem(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to create item",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, item)
}

// listItems handles listing in-stock items for an owner
func (h *Handler) listItems(c *gin.Context) {
	ownerID, ok := ownerIDQuery(c)
	if !ok {
		return
	}

	if c.Query("names_only") == "true" {
		names, err := h.inventory.GetInStockNames(c.Request.Context(), ownerID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list item names"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"names": names})
		return
	}

	items, err := h.inventory.GetInStock(c.Request.Context(), ownerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list items"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// listExpiring handles listing items expiring within a horizon
func (h *Handler) listExpiring(c *gin.Context) {
	ownerID, ok := ownerIDQuery(c)
	if !ok {
		return
	}

	days := 3
	if daysStr := c.Query("days"); daysStr != "" {
		parsed, err := strconv.Atoi(daysStr)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'days' parameter"})
			return
		}
		days = parsed
	}

	items, err := h.inventory.GetExpiringSoon(c.Request.Context(), ownerID, days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list expiring items"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// deleteItem handles owner-scoped hard removal
func (h *Handler) deleteItem(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	ownerID, ok := ownerIDQuery(c)
	if !ok {
		return
	}

	if err := h.inventory.DeleteItem(c.Request.Context(), id, ownerID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item"})
		return
	}

	c.Status(http.StatusNoContent)
}

// consume handles batch ingredient consumption
func (h *Handler) consume(c *gin.Context) {
	var req service.ConsumeRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	report, err := h.engine.Consume(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to consume ingredients",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, report)
}

// addShoppingEntry handles adding a shopping-list entry
func (h *Handler) addShoppingEntry(c *gin.Context) {
	var req service.AddEntryRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	entry, err := h.shopping.AddToShoppingList(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add shopping entry"})
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// listShoppingEntries handles listing the shopping list for an owner
func (h *Handler) listShoppingEntries(c *gin.Context) {
	ownerID, ok := ownerIDQuery(c)
	if !ok {
		return
	}

	entries, err := h.shopping.GetShoppingList(c.Request.Context(), ownerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list shopping entries"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// purchase moves a purchased shopping-list entry into inventory. A partial
// transition (item created, removal failed) is surfaced as 207 so the caller
// can detect the item existing in both places and reconcile.
func (h *Handler) purchase(c *gin.Context) {
	var req service.PurchaseRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	item, err := h.shopping.MoveToInventory(c.Request.Context(), &req)
	if err != nil {
		var partial *service.PartialTransitionError
		if errors.As(err, &partial) {
			c.JSON(http.StatusMultiStatus, gin.H{
				"item":    partial.Item,
				"warning": "item created but shopping-list removal failed; retry removal",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to move item to inventory",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, item)
}

func ownerIDQuery(c *gin.Context) (int64, bool) {
	ownerID, err := strconv.ParseInt(c.Query("owner_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or missing owner_id"})
		return 0, false
	}
	return ownerID, true
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

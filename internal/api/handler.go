package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"fastfood/internal/apperr"
	"fastfood/internal/cart"
	"fastfood/internal/catalog"
	"fastfood/internal/identity"
	"fastfood/internal/models"
	"fastfood/internal/orders"
	"fastfood/internal/service"
	"fastfood/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	catalog    *catalog.Store
	carts      *cart.Manager
	orderStore *orders.Store
	orderSvc   *service.OrderService
	ids        *identity.Service
}

// NewHandler creates a new HTTP handler
func NewHandler(
	catalogStore *catalog.Store,
	carts *cart.Manager,
	orderStore *orders.Store,
	orderSvc *service.OrderService,
	ids *identity.Service,
) *Handler {
	return &Handler{
		catalog:    catalogStore,
		carts:      carts,
		orderStore: orderStore,
		orderSvc:   orderSvc,
		ids:        ids,
	}
}

// SetupRoutes sets up HTTP routes. Gated routes answer 404 for anonymous
// or role-mismatched callers, matching the app's not-found fallback, so an
// outsider cannot distinguish a protected path from a missing one.
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/menu", h.getMenu)

		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.login)
			auth.POST("/signup", h.signup)
			auth.POST("/logout", h.logout)
			auth.GET("/me", h.me)
		}

		user := v1.Group("", h.requireAuth())
		{
			user.GET("/cart", h.getCart)
			user.POST("/cart/items", h.addCartItem)
			user.PUT("/cart/items/:id", h.setCartQuantity)
			user.DELETE("/cart/items/:id", h.removeCartItem)
			user.POST("/checkout", h.checkout)
		}

		v1.GET("/orders", h.requireRole(models.RoleUser), h.listMyOrders)

		admin := v1.Group("/admin", h.requireRole(models.RoleAdmin))
		{
			admin.GET("/orders", h.listAllOrders)
			admin.PUT("/orders/:id/status", h.setOrderStatus)
			admin.DELETE("/orders/:id", h.removeOrder)
			admin.POST("/menu", h.addFoodItem)
			admin.PUT("/menu/:id", h.updateFoodItem)
			admin.PUT("/menu/:id/availability", h.setAvailability)
			admin.DELETE("/menu/:id", h.removeFoodItem)
			admin.GET("/sales", h.salesReport)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
}

// ctxUserKey holds the identity resolved by the gate middleware. Handlers
// read it from the gin context instead of re-fetching the active identity,
// so a logout racing the request cannot pull the user out from under them.
const ctxUserKey = "currentUser"

// requireAuth rejects anonymous callers with 404.
func (h *Handler) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		current := h.ids.Current()
		if current == nil {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.Set(ctxUserKey, current)
		c.Next()
	}
}

// requireRole rejects anonymous and role-mismatched callers with 404.
func (h *Handler) requireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		current := h.ids.Current()
		if current == nil || current.Role != role {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.Set(ctxUserKey, current)
		c.Next()
	}
}

// currentUser returns the identity stashed by the gate middleware.
func currentUser(c *gin.Context) *models.User {
	return c.MustGet(ctxUserKey).(*models.User)
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

// getMenu returns the filtered menu plus the category list
func (h *Handler) getMenu(c *gin.Context) {
	category := c.Query("category")
	searchTerm := c.Query("q")

	items := service.FilterMenu(h.catalog.List(), category, searchTerm)
	categories := append([]string{service.AllCategories}, h.catalog.Categories()...)

	c.JSON(http.StatusOK, gin.H{
		"items":      items,
		"categories": categories,
	})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	user, err := h.ids.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

type signupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	user, err := h.ids.Signup(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user})
}

func (h *Handler) logout(c *gin.Context) {
	if err := h.ids.Logout(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}

func (h *Handler) me(c *gin.Context) {
	current := h.ids.Current()
	if current == nil {
		c.JSON(http.StatusOK, gin.H{"user": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": current})
}

func (h *Handler) getCart(c *gin.Context) {
	userID := currentUser(c).ID
	total := h.carts.TotalCents(userID)
	c.JSON(http.StatusOK, gin.H{
		"lines":           h.carts.Lines(userID),
		"total_cents":     total,
		"total_formatted": models.FormatCents(total),
	})
}

type addCartItemRequest struct {
	ItemID string `json:"item_id" binding:"required"`
}

func (h *Handler) addCartItem(c *gin.Context) {
	var req addCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	item, err := h.catalog.Get(req.ItemID)
	if err != nil {
		writeError(c, err)
		return
	}
	if !item.Available {
		writeError(c, fmt.Errorf("food item %s is unavailable: %w", item.ID, apperr.ErrValidation))
		return
	}

	added := h.carts.AddItem(currentUser(c).ID, item)
	c.JSON(http.StatusOK, gin.H{"added": added})
}

type setQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

func (h *Handler) setCartQuantity(c *gin.Context) {
	var req setQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	if err := h.carts.SetQuantity(currentUser(c).ID, c.Param("id"), req.Quantity); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

func (h *Handler) removeCartItem(c *gin.Context) {
	h.carts.RemoveItem(currentUser(c).ID, c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"status": "removed"})
}

func (h *Handler) checkout(c *gin.Context) {
	order, err := h.orderSvc.Checkout(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"order": order})
}

func (h *Handler) listMyOrders(c *gin.Context) {
	userID := currentUser(c).ID
	c.JSON(http.StatusOK, gin.H{"orders": h.orderStore.ListFor(userID)})
}

func (h *Handler) listAllOrders(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"orders": h.orderStore.ListAll()})
}

type setStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

func (h *Handler) setOrderStatus(c *gin.Context) {
	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	order, err := h.orderSvc.ChangeStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

func (h *Handler) removeOrder(c *gin.Context) {
	if err := h.orderStore.Remove(c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "removed"})
}

func (h *Handler) addFoodItem(c *gin.Context) {
	var draft models.FoodItemDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	item, err := h.catalog.Add(draft)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item": item})
}

func (h *Handler) updateFoodItem(c *gin.Context) {
	var patch models.FoodItemPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	item, err := h.catalog.Update(c.Param("id"), patch)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

type setAvailabilityRequest struct {
	Available *bool `json:"available" binding:"required"`
}

func (h *Handler) setAvailability(c *gin.Context) {
	var req setAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	item, err := h.catalog.SetAvailability(c.Param("id"), *req.Available)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

func (h *Handler) removeFoodItem(c *gin.Context) {
	if err := h.catalog.Remove(c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "removed"})
}

func (h *Handler) salesReport(c *gin.Context) {
	record := service.SalesReport(h.orderStore.ListAll())
	c.JSON(http.StatusOK, gin.H{
		"sales":             record,
		"revenue_formatted": models.FormatCents(record.TotalRevenueCents),
	})
}

// writeError maps the error taxonomy onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperr.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, apperr.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, apperr.ErrEmailTaken):
		status = http.StatusConflict
	case errors.Is(err, apperr.ErrEmptyCart):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, apperr.ErrNotFound):
		status = http.StatusNotFound
	}
	c.JSON(status, gin.H{"error": err.Error()})
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

package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	cartapp "github.com/retail/backend/internal/application/cart"
)

// CartHandler handles cart API endpoints
type CartHandler struct {
	BaseHandler
	cartService *cartapp.Service
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService *cartapp.Service) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// RegisterRoutes registers cart routes on the given group
func (h *CartHandler) RegisterRoutes(rg *gin.RouterGroup) {
	carts := rg.Group("/cart")
	{
		carts.GET("", h.Get)
		carts.POST("/items", h.AddItem)
		carts.PUT("/items/:id", h.UpdateItem)
		carts.DELETE("/items/:id", h.RemoveItem)
		carts.DELETE("", h.Clear)
	}
}

// Get returns the caller's cart, creating it on first access
func (h *CartHandler) Get(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Missing caller identity")
		return
	}

	resp, err := h.cartService.Get(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// AddItem adds a product to the caller's cart
func (h *CartHandler) AddItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Missing caller identity")
		return
	}

	var req cartapp.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.cartService.AddItem(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// UpdateItem sets the quantity of a cart line
func (h *CartHandler) UpdateItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Missing caller identity")
		return
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID")
		return
	}

	var req cartapp.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.cartService.UpdateItem(c.Request.Context(), userID, itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// RemoveItem removes a line from the caller's cart
func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Missing caller identity")
		return
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID")
		return
	}

	resp, err := h.cartService.RemoveItem(c.Request.Context(), userID, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Clear drops all lines from the caller's cart
func (h *CartHandler) Clear(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Missing caller identity")
		return
	}

	resp, err := h.cartService.Clear(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

package handler

import (
	"github.com/gin-gonic/gin"
	checkoutapp "github.com/retail/backend/internal/application/checkout"
)

// CheckoutHandler handles the cart-to-order conversion endpoint
type CheckoutHandler struct {
	BaseHandler
	checkoutService *checkoutapp.Service
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(checkoutService *checkoutapp.Service) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

// RegisterRoutes registers checkout routes on the given group
func (h *CheckoutHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/checkout", h.Checkout)
}

// Checkout converts the caller's cart into a pending order
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Missing caller identity")
		return
	}

	var req checkoutapp.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.checkoutService.Checkout(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

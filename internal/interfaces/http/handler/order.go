package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	orderapp "github.com/retail/backend/internal/application/order"
	"github.com/retail/backend/internal/domain/shared"
	"github.com/retail/backend/internal/interfaces/http/dto"
)

// OrderHandler handles order API endpoints
type OrderHandler struct {
	BaseHandler
	orderService *orderapp.Service
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *orderapp.Service) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// RegisterRoutes registers order routes on the given group
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	{
		orders.GET("", h.List)
		orders.GET("/:id", h.Get)
		orders.PUT("/:id/status", h.UpdateStatus)
		orders.PUT("/:id/payment-status", h.UpdatePaymentStatus)
	}
}

// List returns the caller's orders, newest first
func (h *OrderHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Missing caller identity")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}
	req.Normalize()

	filter := shared.Filter{
		Limit:   req.Limit(),
		Offset:  req.Offset(),
		OrderBy: req.OrderBy,
		Desc:    strings.EqualFold(req.OrderDir, "desc"),
	}

	resp, err := h.orderService.List(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Get returns one of the caller's orders
func (h *OrderHandler) Get(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Missing caller identity")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	resp, err := h.orderService.Get(c.Request.Context(), orderID, &userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// UpdateStatus applies a fulfillment transition to an order
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req orderapp.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.orderService.UpdateStatus(c.Request.Context(), orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// UpdatePaymentStatus applies a payment transition to an order
func (h *OrderHandler) UpdatePaymentStatus(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req orderapp.UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.orderService.UpdatePaymentStatus(c.Request.Context(), orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

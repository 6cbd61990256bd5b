package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	paymentapp "github.com/retail/backend/internal/application/payment"
	"github.com/retail/backend/internal/domain/shared"
)

// Webhook payloads are small; anything larger is not a legitimate event.
const maxWebhookPayloadSize = 65536

// PaymentHandler handles payment intent and webhook endpoints
type PaymentHandler struct {
	BaseHandler
	intentService  *paymentapp.IntentService
	webhookService *paymentapp.WebhookService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(intentService *paymentapp.IntentService, webhookService *paymentapp.WebhookService) *PaymentHandler {
	return &PaymentHandler{
		intentService:  intentService,
		webhookService: webhookService,
	}
}

// RegisterRoutes registers the authenticated payment routes
func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/payments/intent", h.CreateIntent)
}

// RegisterWebhookRoutes registers the provider-facing webhook route.
// It lives outside the identity middleware; the signature is the auth.
func (h *PaymentHandler) RegisterWebhookRoutes(rg *gin.RouterGroup) {
	rg.POST("/payments/webhook", h.HandleWebhook)
}

// CreateIntent opens a payment intent for an order
func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	var req paymentapp.CreateIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.intentService.CreateIntent(c.Request.Context(), req.OrderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// WebhookResponse is the ack body returned to the payment provider
type WebhookResponse struct {
	Received bool   `json:"received"`
	Message  string `json:"message,omitempty"`
}

// HandleWebhook receives and reconciles a provider webhook delivery.
// The raw body is required for signature verification, so this handler
// reads it directly instead of binding JSON.
func (h *PaymentHandler) HandleWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookPayloadSize+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, WebhookResponse{
			Received: false,
			Message:  "Failed to read request body",
		})
		return
	}
	if len(payload) > maxWebhookPayloadSize {
		c.JSON(http.StatusRequestEntityTooLarge, WebhookResponse{
			Received: false,
			Message:  "Payload too large",
		})
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	if signature == "" {
		c.JSON(http.StatusBadRequest, WebhookResponse{
			Received: false,
			Message:  "Missing Stripe-Signature header",
		})
		return
	}

	if err := h.webhookService.HandleEvent(c.Request.Context(), payload, signature); err != nil {
		if errors.Is(err, shared.ErrAuthentication) {
			c.JSON(http.StatusBadRequest, WebhookResponse{
				Received: false,
				Message:  "Webhook signature verification failed",
			})
			return
		}
		// Transient failure; a non-2xx makes the provider redeliver
		c.JSON(http.StatusInternalServerError, WebhookResponse{
			Received: false,
			Message:  "Webhook processing failed",
		})
		return
	}

	c.JSON(http.StatusOK, WebhookResponse{Received: true})
}

package api

import (
	"io"
	"net/http"

	reqdto "studio-booking/internal/handler/dto/request"
	resdto "studio-booking/internal/handler/dto/response"
	"studio-booking/internal/handler/httperr"
	"studio-booking/internal/pkg/errs"
	"studio-booking/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

// maxWebhookBody bounds the signed payload read into memory.
const maxWebhookBody = 65536

type PaymentHandler struct {
	cmds commands.PaymentCommands
}

func NewPaymentHandler(cmds commands.PaymentCommands) *PaymentHandler {
	return &PaymentHandler{cmds: cmds}
}

// @Summary Create checkout session
// @Tags payments
// @Accept json
// @Produce json
// @Param request body reqdto.CheckoutSessionRequest true "Checkout"
// @Success 200 {object} resdto.CheckoutSessionResponse
// @Failure 400 {object} httperr.Response
// @Failure 402 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /payments/checkout-session [post]
func (h *PaymentHandler) CreateCheckoutSession(c *gin.Context) {
	var req reqdto.CheckoutSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Abort(c, bindError(err))
		return
	}
	session, err := h.cmds.CreateCheckoutSession(c.Request.Context(), req.ToInput())
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.CheckoutSessionResponse{CheckoutURL: session.URL, SessionID: session.ID})
}

// @Summary Stripe webhook
// @Description Signed payment events. Redeliveries are acknowledged without effect
// @Tags payments
// @Accept json
// @Produce json
// @Param Stripe-Signature header string true "Webhook signature"
// @Success 200 {object} resdto.WebhookResponse
// @Failure 400 {object} httperr.Response
// @Router /webhooks/stripe [post]
func (h *PaymentHandler) StripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody+1))
	if err != nil {
		httperr.Abort(c, errs.Validationf("unreadable webhook body"))
		return
	}
	if len(payload) > maxWebhookBody {
		httperr.Abort(c, errs.Validationf("webhook body too large"))
		return
	}

	result, err := h.cmds.HandleWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.WebhookResponse{Received: true, Result: result.Result})
}

package handler

import (
	"io"
	"net/http"

	"marketplace-api/internal/service"

	"github.com/labstack/echo/v4"
)

// SignatureHeader carries the gateway's timestamped HMAC over the raw body.
const SignatureHeader = "X-Gateway-Signature"

type WebhookHandler struct {
	paymentEventService service.PaymentEventService
}

func NewWebhookHandler(paymentEventService service.PaymentEventService) *WebhookHandler {
	return &WebhookHandler{paymentEventService: paymentEventService}
}

func (h *WebhookHandler) HandleGatewayEvent(c echo.Context) error {
	ctx := c.Request().Context()

	// The raw body is needed for signature verification; echo's binder
	// would consume and re-encode it.
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable body")
	}

	signature := c.Request().Header.Get(SignatureHeader)
	if err := h.paymentEventService.HandleEvent(ctx, body, signature); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]bool{"received": true})
}

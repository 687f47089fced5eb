package service

import (
	"context"
	"strings"

	"marketplace-api/internal/apperr"
	"marketplace-api/internal/client"
	"marketplace-api/internal/dto"

	"github.com/labstack/gommon/log"
)

type CheckoutService interface {
	CreateSession(ctx context.Context, items []*dto.CheckoutItem) (*dto.CheckoutResponse, error)
}

type checkoutServiceImpl struct {
	gatewayClient  client.GatewayClient
	serviceBaseUrl string
}

func NewCheckoutService(gatewayClient client.GatewayClient, serviceBaseUrl string) CheckoutService {
	return &checkoutServiceImpl{
		gatewayClient:  gatewayClient,
		serviceBaseUrl: serviceBaseUrl,
	}
}

// CreateSession turns the client's cart snapshot into a gateway checkout
// session. Prices come from the snapshot as-is; re-pricing against the live
// catalog is the catalog collaborator's concern, but a non-positive price is
// an integrity problem and is rejected before any gateway call.
func (s *checkoutServiceImpl) CreateSession(ctx context.Context, items []*dto.CheckoutItem) (*dto.CheckoutResponse, error) {
	if len(items) == 0 {
		return nil, apperr.Validationf("cart is empty")
	}

	currency := strings.ToLower(items[0].Currency)
	if currency == "" {
		currency = "usd"
	}

	lines := make([]*client.SessionLineItem, len(items))
	for i, item := range items {
		if item.Quantity <= 0 {
			return nil, apperr.Validationf("invalid quantity for %q: each item needs a positive quantity", item.Name)
		}
		if item.UnitAmount <= 0 {
			return nil, apperr.Validationf("invalid price for %q: each item needs a positive unit amount", item.Name)
		}
		lines[i] = &client.SessionLineItem{
			ProductID:  item.ProductID,
			Name:       item.Name,
			Quantity:   item.Quantity,
			UnitAmount: item.UnitAmount,
			Currency:   currency,
		}
	}

	resp, err := s.gatewayClient.CreateCheckoutSession(ctx, &client.CreateSessionParams{
		LineItems:  lines,
		SuccessURL: s.serviceBaseUrl + "/checkout/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  s.serviceBaseUrl + "/checkout/cancelled",
	})
	if err != nil {
		log.Errorf("gateway create checkout session: %v", err)
		return nil, &apperr.UpstreamError{
			Op:        "create checkout session",
			Msg:       "failed to create checkout session",
			Retryable: client.IsRetryable(err),
			Err:       err,
		}
	}

	return &dto.CheckoutResponse{
		SessionID:   resp.SessionID,
		RedirectURL: resp.RedirectURL,
	}, nil
}

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"marketplace-api/internal/apperr"
	"marketplace-api/internal/client"
	"marketplace-api/internal/model"
	"marketplace-api/internal/notify"
	"marketplace-api/internal/repository"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
)

const (
	eventCheckoutCompleted = "checkout.session.completed"
	eventPaymentFailed     = "payment_intent.payment_failed"
)

// PaymentEventService consumes gateway webhook deliveries. The channel is
// at-least-once and unordered; every state change below is conditioned so a
// replayed or reordered delivery is a no-op.
type PaymentEventService interface {
	HandleEvent(ctx context.Context, payload []byte, signatureHeader string) error
}

type paymentEventServiceImpl struct {
	gatewayClient client.GatewayClient
	orderRepo     repository.OrderRepository
	eventRepo     repository.WebhookEventRepository
	notifier      notify.Notifier
	webhookSecret string
	now           func() time.Time
}

func NewPaymentEventService(
	gatewayClient client.GatewayClient,
	orderRepo repository.OrderRepository,
	eventRepo repository.WebhookEventRepository,
	notifier notify.Notifier,
	webhookSecret string,
) PaymentEventService {
	return &paymentEventServiceImpl{
		gatewayClient: gatewayClient,
		orderRepo:     orderRepo,
		eventRepo:     eventRepo,
		notifier:      notifier,
		webhookSecret: webhookSecret,
		now:           time.Now,
	}
}

func (s *paymentEventServiceImpl) HandleEvent(ctx context.Context, payload []byte, signatureHeader string) error {
	// Authenticity first: nothing below runs on an unverified payload.
	if err := client.VerifyEventSignature(payload, signatureHeader, s.webhookSecret, s.now()); err != nil {
		return apperr.Validationf("webhook signature verification failed")
	}

	var event model.GatewayEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return apperr.Validationf("malformed webhook payload")
	}

	switch event.Type {
	case eventCheckoutCompleted:
		return s.handleCheckoutCompleted(ctx, &event)
	case eventPaymentFailed:
		return s.handlePaymentFailed(ctx, &event)
	default:
		// Forward-compatible: acknowledge event types we don't handle.
		log.Debugf("ignoring webhook event type %q (%s)", event.Type, event.ID)
		return nil
	}
}

func (s *paymentEventServiceImpl) handleCheckoutCompleted(ctx context.Context, event *model.GatewayEvent) error {
	var session model.CheckoutSessionResource
	if err := json.Unmarshal(event.Data.Object, &session); err != nil {
		return apperr.Validationf("malformed checkout session resource")
	}
	if session.ID == "" {
		return apperr.Validationf("checkout session resource missing id")
	}

	paymentIntentID := session.PaymentIntentID
	if paymentIntentID == "" {
		// Some deliveries arrive before the intent is expanded on the
		// event; resolve it from the session itself.
		full, err := s.gatewayClient.RetrieveSession(ctx, session.ID)
		if err != nil {
			return fmt.Errorf("resolve payment intent for session %s: %w", session.ID, err)
		}
		paymentIntentID = full.PaymentIntentID
	}

	// The gateway is the source of truth for what was charged; the client
	// cart snapshot may have diverged by now.
	gatewayLines, err := s.gatewayClient.ListLineItems(ctx, session.ID)
	if err != nil {
		return fmt.Errorf("list line items for session %s: %w", session.ID, err)
	}

	now := s.now()
	sessionID := session.ID
	order := &model.Order{
		ID:               uuid.NewString(),
		Channel:          model.ChannelGateway,
		Status:           model.StatusPaid,
		GatewaySessionID: &sessionID,
		AmountTotal:      session.AmountTotal,
		Currency:         strings.ToUpper(session.Currency),
		CustomerName:     session.CustomerDetails.Name,
		CustomerEmail:    session.CustomerDetails.Email,
		CustomerPhone:    session.CustomerDetails.Phone,
		CustomerAddress:  session.CustomerDetails.Address,
		PaidAt:           &now,
	}
	if paymentIntentID != "" {
		order.PaymentIntentID = &paymentIntentID
	}

	items := make([]*model.OrderItem, len(gatewayLines))
	for i, line := range gatewayLines {
		items[i] = &model.OrderItem{
			OrderID:    order.ID,
			ProductID:  line.ProductID,
			Name:       line.Description,
			Quantity:   line.Quantity,
			UnitAmount: line.UnitAmount,
			Currency:   strings.ToUpper(line.Currency),
		}
	}

	created, err := s.orderRepo.CreateIfAbsent(ctx, order, items)
	if err != nil {
		return fmt.Errorf("materialize order for session %s: %w", sessionID, err)
	}
	if !created {
		log.Infof("duplicate delivery for session %s ignored (event %s)", sessionID, event.ID)
		return nil
	}

	// Best-effort side effects. Neither may fail the paid transition that
	// already committed.
	s.sendReceipt(ctx, order, items)
	if err := s.eventRepo.MarkProcessed(ctx, event.ID, event.Type); err != nil {
		log.Warnf("record webhook event %s: %v", event.ID, err)
	}

	return nil
}

func (s *paymentEventServiceImpl) handlePaymentFailed(ctx context.Context, event *model.GatewayEvent) error {
	var intent model.PaymentIntentResource
	if err := json.Unmarshal(event.Data.Object, &intent); err != nil {
		return apperr.Validationf("malformed payment intent resource")
	}
	if intent.ID == "" {
		return apperr.Validationf("payment intent resource missing id")
	}

	if err := s.orderRepo.MarkFailedByPaymentIntent(ctx, intent.ID); err != nil {
		return fmt.Errorf("mark order failed for intent %s: %w", intent.ID, err)
	}
	if err := s.eventRepo.MarkProcessed(ctx, event.ID, event.Type); err != nil {
		log.Warnf("record webhook event %s: %v", event.ID, err)
	}
	return nil
}

func (s *paymentEventServiceImpl) sendReceipt(ctx context.Context, order *model.Order, items []*model.OrderItem) {
	if order.CustomerEmail == "" {
		log.Debugf("order %s has no customer email, receipt skipped", order.ID)
		return
	}
	lines := make([]notify.ReceiptLine, len(items))
	for i, item := range items {
		lines[i] = notify.ReceiptLine{
			Name:     item.Name,
			Quantity: item.Quantity,
			Amount:   item.UnitAmount * item.Quantity,
		}
	}
	err := s.notifier.SendReceipt(ctx, &notify.Receipt{
		OrderID:     order.ID,
		Email:       order.CustomerEmail,
		AmountTotal: order.AmountTotal,
		Currency:    order.Currency,
		Lines:       lines,
	})
	if err != nil {
		log.Warnf("receipt for order %s not sent: %v", order.ID, err)
	}
}

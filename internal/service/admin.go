package service

import (
	"context"
	"errors"
	"fmt"

	"marketplace-api/internal/apperr"
	"marketplace-api/internal/client"
	"marketplace-api/internal/dto"
	"marketplace-api/internal/model"
	"marketplace-api/internal/repository"

	"github.com/labstack/gommon/log"
	"gorm.io/gorm"
)

type AdminService interface {
	ListOrders(ctx context.Context) ([]*model.Order, error)
	Fulfill(ctx context.Context, orderID string) (*dto.StatusResponse, error)
	Refund(ctx context.Context, orderID string) (*dto.RefundResult, error)
}

type adminServiceImpl struct {
	gatewayClient client.GatewayClient
	orderRepo     repository.OrderRepository
	productRepo   repository.ProductRepository
}

func NewAdminService(
	gatewayClient client.GatewayClient,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
) AdminService {
	return &adminServiceImpl{
		gatewayClient: gatewayClient,
		orderRepo:     orderRepo,
		productRepo:   productRepo,
	}
}

func (s *adminServiceImpl) ListOrders(ctx context.Context) ([]*model.Order, error) {
	return s.orderRepo.ListRecent(ctx, 100)
}

// Fulfill moves a gateway order paid → fulfilled. Any other current status
// is a precondition failure, so a refunded order can never come back as
// fulfilled.
func (s *adminServiceImpl) Fulfill(ctx context.Context, orderID string) (*dto.StatusResponse, error) {
	ok, err := s.orderRepo.MarkFulfilled(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("mark order fulfilled: %w", err)
	}
	if !ok {
		// The guard did not match: either no such order, or a status the
		// transition is not legal from. Report which.
		current, err := s.findOrder(ctx, orderID)
		if err != nil {
			return nil, err
		}
		return nil, &apperr.PreconditionError{
			Current:   current.Status,
			Attempted: model.StatusFulfilled,
		}
	}

	return &dto.StatusResponse{OrderID: orderID, Status: model.StatusFulfilled}, nil
}

// Refund issues the gateway refund and then reconciles local state:
// restock each line best-effort, then move the order to refunded. The
// monetary refund is authoritative; a failure after it succeeds is an
// inconsistency, not a rollback.
func (s *adminServiceImpl) Refund(ctx context.Context, orderID string) (*dto.RefundResult, error) {
	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	// Idempotent: a second refund returns the existing reference without
	// touching the gateway.
	if order.Status == model.StatusRefunded {
		result := &dto.RefundResult{OrderID: order.ID, Status: order.Status}
		if order.RefundID != nil {
			result.RefundID = *order.RefundID
		}
		return result, nil
	}

	if order.Channel != model.ChannelGateway {
		return nil, &apperr.PreconditionError{
			Msg:       "order is not refundable: no gateway payment",
			Current:   order.Status,
			Attempted: model.StatusRefunded,
		}
	}
	if order.Status != model.StatusPaid && order.Status != model.StatusFulfilled {
		return nil, &apperr.PreconditionError{
			Current:   order.Status,
			Attempted: model.StatusRefunded,
		}
	}

	paymentIntentID, err := s.resolvePaymentIntent(ctx, order)
	if err != nil {
		return nil, err
	}
	if paymentIntentID == "" {
		return nil, &apperr.PreconditionError{
			Msg:       "order is not refundable: no payment intent",
			Current:   order.Status,
			Attempted: model.StatusRefunded,
		}
	}

	refund, err := s.gatewayClient.CreateRefund(ctx, paymentIntentID)
	if err != nil {
		// Status untouched; surface the gateway's reason.
		return nil, &apperr.UpstreamError{
			Op:        "refund",
			Msg:       upstreamMessage(err),
			Retryable: client.IsRetryable(err),
			Err:       err,
		}
	}

	s.restockItems(ctx, order.ID)

	ok, err := s.orderRepo.MarkRefunded(ctx, order.ID, refund.RefundID)
	if err != nil || !ok {
		// Money has moved; the local row disagrees. Loud log with every
		// correlation id, then surface for manual reconciliation.
		ie := &apperr.InconsistencyError{
			OrderID: order.ID,
			Detail: fmt.Sprintf("gateway refund %s succeeded (payment intent %s) but status update failed",
				refund.RefundID, paymentIntentID),
			Err: err,
		}
		log.Errorf("RECONCILE REQUIRED: %v", ie)
		return nil, ie
	}

	return &dto.RefundResult{
		OrderID:  order.ID,
		Status:   model.StatusRefunded,
		RefundID: refund.RefundID,
	}, nil
}

func (s *adminServiceImpl) findOrder(ctx context.Context, orderID string) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("order %s not found", orderID)
		}
		return nil, fmt.Errorf("load order %s: %w", orderID, err)
	}
	return order, nil
}

// resolvePaymentIntent prefers the stored intent id and falls back to the
// gateway session lookup for orders that were only ever linked by session.
func (s *adminServiceImpl) resolvePaymentIntent(ctx context.Context, order *model.Order) (string, error) {
	if order.PaymentIntentID != nil && *order.PaymentIntentID != "" {
		return *order.PaymentIntentID, nil
	}
	if order.GatewaySessionID == nil || *order.GatewaySessionID == "" {
		return "", nil
	}
	session, err := s.gatewayClient.RetrieveSession(ctx, *order.GatewaySessionID)
	if err != nil {
		return "", &apperr.UpstreamError{
			Op:        "resolve payment intent",
			Msg:       upstreamMessage(err),
			Retryable: client.IsRetryable(err),
			Err:       err,
		}
	}
	return session.PaymentIntentID, nil
}

// restockItems is the compensating action for the refunded sale. Each line
// is attempted independently; a failed line is logged and skipped so the
// rest still restock.
func (s *adminServiceImpl) restockItems(ctx context.Context, orderID string) {
	items, err := s.orderRepo.GetOrderItems(ctx, orderID)
	if err != nil {
		log.Warnf("restock for order %s: loading items failed: %v", orderID, err)
		return
	}
	for _, item := range items {
		if item.ProductID == "" || item.Quantity <= 0 {
			continue
		}
		if err := s.productRepo.IncrementInventory(ctx, item.ProductID, item.Quantity); err != nil {
			log.Warnf("restock for order %s: product %s x%d failed: %v",
				orderID, item.ProductID, item.Quantity, err)
		}
	}
}

func upstreamMessage(err error) string {
	var ge *client.GatewayError
	if errors.As(err, &ge) {
		return ge.Message
	}
	return "payment gateway unavailable"
}

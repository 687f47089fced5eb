package service

import (
	"context"
	"testing"
	"time"

	"marketplace-api/internal/apperr"
	"marketplace-api/internal/client"
	"marketplace-api/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paidGatewayOrder(id string) *model.Order {
	sessionID := "cs_" + id
	intentID := "pi_" + id
	now := time.Now()
	return &model.Order{
		ID:               id,
		Channel:          model.ChannelGateway,
		Status:           model.StatusPaid,
		GatewaySessionID: &sessionID,
		PaymentIntentID:  &intentID,
		AmountTotal:      1750,
		Currency:         "USD",
		PaidAt:           &now,
	}
}

func newAdminFixture() (AdminService, *mockGatewayClient, *mockOrderRepo, *mockProductRepo) {
	gw := &mockGatewayClient{
		refundResp: &client.RefundResponse{RefundID: "re_1", Status: "succeeded"},
	}
	orders := newMockOrderRepo()
	products := newMockProductRepo()
	svc := NewAdminService(gw, orders, products)
	return svc, gw, orders, products
}

func TestFulfill_FromPaid(t *testing.T) {
	svc, _, orders, _ := newAdminFixture()
	orders.ordersByID["o1"] = paidGatewayOrder("o1")
	orders.markFulfilledOK = true

	resp, err := svc.Fulfill(context.Background(), "o1")

	require.NoError(t, err)
	assert.Equal(t, model.StatusFulfilled, resp.Status)
}

func TestFulfill_FromRefundedIsPreconditionError(t *testing.T) {
	svc, _, orders, _ := newAdminFixture()
	order := paidGatewayOrder("o1")
	order.Status = model.StatusRefunded
	orders.ordersByID["o1"] = order
	orders.markFulfilledOK = false

	_, err := svc.Fulfill(context.Background(), "o1")

	var pe *apperr.PreconditionError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, model.StatusRefunded, pe.Current)
	assert.Equal(t, model.StatusFulfilled, pe.Attempted)
	assert.Equal(t, model.StatusRefunded, orders.ordersByID["o1"].Status, "status unchanged")
}

func TestFulfill_UnknownOrder(t *testing.T) {
	svc, _, _, _ := newAdminFixture()

	_, err := svc.Fulfill(context.Background(), "missing")

	var nf *apperr.NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestRefund_RestocksEveryLineEvenWhenOneFails(t *testing.T) {
	svc, gw, orders, products := newAdminFixture()
	orders.ordersByID["o1"] = paidGatewayOrder("o1")
	orders.itemsByOrder["o1"] = []*model.OrderItem{
		{OrderID: "o1", ProductID: "prodA", Name: "A", Quantity: 2, UnitAmount: 500, Currency: "USD"},
		{OrderID: "o1", ProductID: "prodB", Name: "B", Quantity: 1, UnitAmount: 750, Currency: "USD"},
	}
	orders.markRefundedOK = true
	products.failIDs["prodA"] = true

	resp, err := svc.Refund(context.Background(), "o1")

	require.NoError(t, err, "restock failure is best-effort, refund still succeeds")
	assert.Equal(t, "re_1", resp.RefundID)
	assert.Equal(t, model.StatusRefunded, resp.Status)
	assert.Equal(t, 1, gw.refundCalls)
	assert.Equal(t, int64(0), products.increments["prodA"], "failed line skipped")
	assert.Equal(t, int64(1), products.increments["prodB"], "remaining line still attempted")
}

func TestRefund_RestockIncrementsByRefundedQuantities(t *testing.T) {
	svc, _, orders, products := newAdminFixture()
	orders.ordersByID["o1"] = paidGatewayOrder("o1")
	orders.itemsByOrder["o1"] = []*model.OrderItem{
		{OrderID: "o1", ProductID: "prodA", Name: "A", Quantity: 2, UnitAmount: 500, Currency: "USD"},
		{OrderID: "o1", ProductID: "prodB", Name: "B", Quantity: 1, UnitAmount: 750, Currency: "USD"},
		{OrderID: "o1", Name: "no product reference", Quantity: 4, UnitAmount: 100, Currency: "USD"},
	}
	orders.markRefundedOK = true

	_, err := svc.Refund(context.Background(), "o1")

	require.NoError(t, err)
	assert.Equal(t, int64(2), products.increments["prodA"])
	assert.Equal(t, int64(1), products.increments["prodB"])
	assert.Len(t, products.increments, 2, "lines without a product reference are skipped")
}

func TestRefund_SecondAttemptIsNoOp(t *testing.T) {
	svc, gw, orders, _ := newAdminFixture()
	orders.ordersByID["o1"] = paidGatewayOrder("o1")
	orders.markRefundedOK = true

	first, err := svc.Refund(context.Background(), "o1")
	require.NoError(t, err)

	second, err := svc.Refund(context.Background(), "o1")
	require.NoError(t, err)

	assert.Equal(t, 1, gw.refundCalls, "exactly one gateway refund call")
	assert.Equal(t, first.RefundID, second.RefundID, "second attempt returns the existing reference")
}

func TestRefund_ResolvesPaymentIntentLazily(t *testing.T) {
	svc, gw, orders, _ := newAdminFixture()
	order := paidGatewayOrder("o1")
	order.PaymentIntentID = nil
	orders.ordersByID["o1"] = order
	orders.markRefundedOK = true
	gw.session = &model.CheckoutSessionResource{ID: *order.GatewaySessionID, PaymentIntentID: "pi_resolved"}

	resp, err := svc.Refund(context.Background(), "o1")

	require.NoError(t, err)
	assert.Equal(t, "re_1", resp.RefundID)
}

func TestRefund_NoPaymentIntentIsNotRefundable(t *testing.T) {
	svc, gw, orders, _ := newAdminFixture()
	order := paidGatewayOrder("o1")
	order.PaymentIntentID = nil
	order.GatewaySessionID = nil
	orders.ordersByID["o1"] = order

	_, err := svc.Refund(context.Background(), "o1")

	var pe *apperr.PreconditionError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 0, gw.refundCalls)
}

func TestRefund_GatewayRejectionLeavesStatusUnchanged(t *testing.T) {
	svc, gw, orders, products := newAdminFixture()
	orders.ordersByID["o1"] = paidGatewayOrder("o1")
	gw.refundErr = &client.GatewayError{StatusCode: 402, Message: "charge already disputed"}

	_, err := svc.Refund(context.Background(), "o1")

	var ue *apperr.UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Contains(t, ue.Error(), "charge already disputed", "gateway reason surfaced")
	assert.False(t, ue.Retryable)
	assert.Equal(t, model.StatusPaid, orders.ordersByID["o1"].Status)
	assert.Empty(t, products.increments, "no restock on a rejected refund")
}

func TestRefund_StatusUpdateFailureIsInconsistency(t *testing.T) {
	svc, gw, orders, _ := newAdminFixture()
	orders.ordersByID["o1"] = paidGatewayOrder("o1")
	orders.markRefundedOK = false

	_, err := svc.Refund(context.Background(), "o1")

	var ie *apperr.InconsistencyError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "o1", ie.OrderID)
	assert.Contains(t, ie.Detail, "re_1", "refund reference kept for manual reconciliation")
	assert.Equal(t, 1, gw.refundCalls)
}

func TestRefund_DirectOrderIsNotRefundable(t *testing.T) {
	svc, gw, orders, _ := newAdminFixture()
	orders.ordersByID["o1"] = &model.Order{
		ID:      "o1",
		Channel: model.ChannelDirect,
		Status:  model.StatusReceived,
	}

	_, err := svc.Refund(context.Background(), "o1")

	var pe *apperr.PreconditionError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 0, gw.refundCalls)
}

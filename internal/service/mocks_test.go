package service

import (
	"context"

	"marketplace-api/internal/client"
	"marketplace-api/internal/model"
	"marketplace-api/internal/notify"

	"gorm.io/gorm"
)

// Hand-rolled doubles implementing the collaborator interfaces.

type mockGatewayClient struct {
	createSessionResp  *client.CreateSessionResponse
	createSessionErr   error
	createSessionCalls int
	lastSessionParams  *client.CreateSessionParams

	session    *model.CheckoutSessionResource
	sessionErr error

	lineItems    []*model.GatewayLineItem
	lineItemsErr error

	refundResp  *client.RefundResponse
	refundErr   error
	refundCalls int
}

func (m *mockGatewayClient) CreateCheckoutSession(_ context.Context, params *client.CreateSessionParams) (*client.CreateSessionResponse, error) {
	m.createSessionCalls++
	m.lastSessionParams = params
	return m.createSessionResp, m.createSessionErr
}

func (m *mockGatewayClient) RetrieveSession(_ context.Context, _ string) (*model.CheckoutSessionResource, error) {
	return m.session, m.sessionErr
}

func (m *mockGatewayClient) ListLineItems(_ context.Context, _ string) ([]*model.GatewayLineItem, error) {
	return m.lineItems, m.lineItemsErr
}

func (m *mockGatewayClient) CreateRefund(_ context.Context, _ string) (*client.RefundResponse, error) {
	m.refundCalls++
	return m.refundResp, m.refundErr
}

type mockOrderRepo struct {
	ordersByID   map[string]*model.Order
	itemsByOrder map[string][]*model.OrderItem
	seenSessions map[string]bool

	createIfAbsentCalls int
	createIfAbsentErr   error

	createdDirect []*model.Order

	markFulfilledOK  bool
	markFulfilledErr error

	markRefundedOK    bool
	markRefundedErr   error
	markRefundedCalls int

	updateDirectOK  bool
	updateDirectErr error

	failedIntents []string
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{
		ordersByID:   map[string]*model.Order{},
		itemsByOrder: map[string][]*model.OrderItem{},
		seenSessions: map[string]bool{},
	}
}

func (m *mockOrderRepo) CreateIfAbsent(_ context.Context, order *model.Order, items []*model.OrderItem) (bool, error) {
	m.createIfAbsentCalls++
	if m.createIfAbsentErr != nil {
		return false, m.createIfAbsentErr
	}
	if order.GatewaySessionID != nil && m.seenSessions[*order.GatewaySessionID] {
		return false, nil
	}
	if order.GatewaySessionID != nil {
		m.seenSessions[*order.GatewaySessionID] = true
	}
	m.ordersByID[order.ID] = order
	m.itemsByOrder[order.ID] = items
	return true, nil
}

func (m *mockOrderRepo) CreateDirect(_ context.Context, order *model.Order, items []*model.OrderItem) error {
	m.createdDirect = append(m.createdDirect, order)
	m.ordersByID[order.ID] = order
	m.itemsByOrder[order.ID] = items
	return nil
}

func (m *mockOrderRepo) FindByID(_ context.Context, orderID string) (*model.Order, error) {
	order, ok := m.ordersByID[orderID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return order, nil
}

func (m *mockOrderRepo) GetOrderItems(_ context.Context, orderID string) ([]*model.OrderItem, error) {
	return m.itemsByOrder[orderID], nil
}

func (m *mockOrderRepo) ListByVendor(_ context.Context, vendorID string) ([]*model.Order, error) {
	var out []*model.Order
	for _, o := range m.ordersByID {
		if o.VendorID == vendorID && o.Channel == model.ChannelDirect {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *mockOrderRepo) ListRecent(_ context.Context, _ int) ([]*model.Order, error) {
	var out []*model.Order
	for _, o := range m.ordersByID {
		out = append(out, o)
	}
	return out, nil
}

func (m *mockOrderRepo) MarkFulfilled(_ context.Context, _ string) (bool, error) {
	return m.markFulfilledOK, m.markFulfilledErr
}

func (m *mockOrderRepo) MarkRefunded(_ context.Context, orderID, refundID string) (bool, error) {
	m.markRefundedCalls++
	if m.markRefundedErr != nil || !m.markRefundedOK {
		return false, m.markRefundedErr
	}
	if order, ok := m.ordersByID[orderID]; ok {
		order.Status = model.StatusRefunded
		order.RefundID = &refundID
	}
	return true, nil
}

func (m *mockOrderRepo) MarkFailedByPaymentIntent(_ context.Context, paymentIntentID string) error {
	m.failedIntents = append(m.failedIntents, paymentIntentID)
	return nil
}

func (m *mockOrderRepo) UpdateDirectStatus(_ context.Context, _, orderID, status string) (bool, error) {
	if m.updateDirectErr != nil || !m.updateDirectOK {
		return false, m.updateDirectErr
	}
	if order, ok := m.ordersByID[orderID]; ok {
		order.Status = status
	}
	return true, nil
}

type mockProductRepo struct {
	products   map[string]*model.Product
	increments map[string]int64
	failIDs    map[string]bool
}

func newMockProductRepo() *mockProductRepo {
	return &mockProductRepo{
		products:   map[string]*model.Product{},
		increments: map[string]int64{},
		failIDs:    map[string]bool{},
	}
}

func (m *mockProductRepo) FindByID(_ context.Context, productID string) (*model.Product, error) {
	p, ok := m.products[productID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (m *mockProductRepo) FindMany(_ context.Context, productIDs []string) ([]*model.Product, error) {
	var out []*model.Product
	for _, id := range productIDs {
		if p, ok := m.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockProductRepo) IncrementInventory(_ context.Context, productID string, qty int64) error {
	if m.failIDs[productID] {
		return gorm.ErrInvalidDB
	}
	m.increments[productID] += qty
	return nil
}

type mockVendorRepo struct {
	vendorsByToken map[string]*model.Vendor
}

func (m *mockVendorRepo) FindByToken(_ context.Context, token string) (*model.Vendor, error) {
	v, ok := m.vendorsByToken[token]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return v, nil
}

type mockEventRepo struct {
	processed []string
}

func (m *mockEventRepo) Exists(_ context.Context, eventID string) (bool, error) {
	for _, id := range m.processed {
		if id == eventID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockEventRepo) MarkProcessed(_ context.Context, eventID, _ string) error {
	m.processed = append(m.processed, eventID)
	return nil
}

type mockNotifier struct {
	receipts []*notify.Receipt
	err      error
}

func (m *mockNotifier) SendReceipt(_ context.Context, receipt *notify.Receipt) error {
	m.receipts = append(m.receipts, receipt)
	return m.err
}

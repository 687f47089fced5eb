package service

import (
	"context"
	"errors"
	"fmt"

	"marketplace-api/internal/apperr"
	"marketplace-api/internal/dto"
	"marketplace-api/internal/model"
	"marketplace-api/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VendorService owns the direct (non-gateway) order path. It never touches
// gateway orders: every mutation below is conditioned on the direct channel.
type VendorService interface {
	CreateOrder(ctx context.Context, req *dto.DirectOrderRequest) (*dto.DirectOrderResponse, error)
	ListOrders(ctx context.Context, token string) ([]*model.Order, error)
	UpdateStatus(ctx context.Context, token, orderID, status string) (*dto.StatusResponse, error)
}

type vendorServiceImpl struct {
	orderRepo   repository.OrderRepository
	vendorRepo  repository.VendorRepository
	productRepo repository.ProductRepository
}

func NewVendorService(
	orderRepo repository.OrderRepository,
	vendorRepo repository.VendorRepository,
	productRepo repository.ProductRepository,
) VendorService {
	return &vendorServiceImpl{
		orderRepo:   orderRepo,
		vendorRepo:  vendorRepo,
		productRepo: productRepo,
	}
}

// CreateOrder materializes a storefront order placed directly against a
// vendor. Customer details and item prices are snapshots; the order starts
// in received.
func (s *vendorServiceImpl) CreateOrder(ctx context.Context, req *dto.DirectOrderRequest) (*dto.DirectOrderResponse, error) {
	if req.VendorID == "" {
		return nil, apperr.Validationf("vendor_id required")
	}
	if len(req.Items) == 0 {
		return nil, apperr.Validationf("items required")
	}

	productIDs := make([]string, len(req.Items))
	for i, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, apperr.Validationf("invalid quantity for %q", item.Name)
		}
		if item.UnitAmount <= 0 {
			return nil, apperr.Validationf("invalid price for %q", item.Name)
		}
		productIDs[i] = item.ProductID
	}

	products, err := s.productRepo.FindMany(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	if len(products) != len(req.Items) {
		return nil, apperr.Validationf("some products not found")
	}

	var total int64
	orderID := uuid.NewString()
	items := make([]*model.OrderItem, len(req.Items))
	for i, item := range req.Items {
		total += item.UnitAmount * item.Quantity
		items[i] = &model.OrderItem{
			OrderID:    orderID,
			ProductID:  item.ProductID,
			Name:       item.Name,
			Quantity:   item.Quantity,
			UnitAmount: item.UnitAmount,
			Currency:   "USD",
		}
	}

	order := &model.Order{
		ID:              orderID,
		Channel:         model.ChannelDirect,
		VendorID:        req.VendorID,
		Status:          model.StatusReceived,
		AmountTotal:     total,
		Currency:        "USD",
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		CustomerAddress: req.CustomerAddress,
		Notes:           req.Notes,
	}

	if err := s.orderRepo.CreateDirect(ctx, order, items); err != nil {
		return nil, fmt.Errorf("store direct order: %w", err)
	}

	return &dto.DirectOrderResponse{OrderID: orderID}, nil
}

func (s *vendorServiceImpl) ListOrders(ctx context.Context, token string) ([]*model.Order, error) {
	vendor, err := s.resolveVendor(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.orderRepo.ListByVendor(ctx, vendor.ID)
}

// UpdateStatus applies a vendor-side transition. Vendors may jump between
// received/preparing/ready freely; completed and canceled are terminal.
// Ownership is checked by vendor identity, and a foreign order is an
// authorization failure distinct from an unknown order id.
func (s *vendorServiceImpl) UpdateStatus(ctx context.Context, token, orderID, status string) (*dto.StatusResponse, error) {
	if !model.IsVendorStatus(status) {
		return nil, apperr.Validationf("unknown status %q", status)
	}

	vendor, err := s.resolveVendor(ctx, token)
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("order %s not found", orderID)
		}
		return nil, fmt.Errorf("load order %s: %w", orderID, err)
	}

	// Gateway orders are invisible to the vendor workflow.
	if order.Channel != model.ChannelDirect {
		return nil, apperr.NotFoundf("order %s not found", orderID)
	}
	if order.VendorID != vendor.ID {
		return nil, apperr.Authorizationf("order %s does not belong to this vendor", orderID)
	}

	ok, err := s.orderRepo.UpdateDirectStatus(ctx, vendor.ID, orderID, status)
	if err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	if !ok {
		return nil, &apperr.PreconditionError{
			Current:   order.Status,
			Attempted: status,
		}
	}

	return &dto.StatusResponse{OrderID: orderID, Status: status}, nil
}

func (s *vendorServiceImpl) resolveVendor(ctx context.Context, token string) (*model.Vendor, error) {
	if token == "" {
		return nil, apperr.Authorizationf("missing vendor token")
	}
	vendor, err := s.vendorRepo.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Authorizationf("vendor not active or token invalid")
		}
		return nil, fmt.Errorf("resolve vendor token: %w", err)
	}
	return vendor, nil
}

package repository

import (
	"context"
	"time"

	"marketplace-api/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Every status mutation here is a guarded conditional update: the WHERE
// clause names the expected predecessor statuses and the channel, and the
// caller inspects the affected-row count. An out-of-order or duplicate
// delivery therefore lands as a no-op, never a corrupting write.
type OrderRepository interface {
	// CreateIfAbsent inserts a gateway order keyed by its session id.
	// The unique index on gateway_session_id plus ON CONFLICT DO NOTHING
	// makes this atomic under concurrent duplicate webhook deliveries.
	// Returns false when an order for the session already exists; item
	// rows are only written on first insert.
	CreateIfAbsent(ctx context.Context, order *model.Order, items []*model.OrderItem) (bool, error)

	// CreateDirect inserts a direct vendor order and its item snapshot
	// rows in one transaction.
	CreateDirect(ctx context.Context, order *model.Order, items []*model.OrderItem) error

	FindByID(ctx context.Context, orderID string) (*model.Order, error)
	GetOrderItems(ctx context.Context, orderID string) ([]*model.OrderItem, error)
	ListByVendor(ctx context.Context, vendorID string) ([]*model.Order, error)
	ListRecent(ctx context.Context, limit int) ([]*model.Order, error)

	// MarkFulfilled moves a gateway order paid → fulfilled. False when
	// the order was not in paid.
	MarkFulfilled(ctx context.Context, orderID string) (bool, error)

	// MarkRefunded stamps the refund reference and moves the order to
	// refunded, only from paid or fulfilled.
	MarkRefunded(ctx context.Context, orderID, refundID string) (bool, error)

	// MarkFailedByPaymentIntent fails any non-terminal gateway order
	// correlated to the payment intent. No-op when nothing matches.
	MarkFailedByPaymentIntent(ctx context.Context, paymentIntentID string) error

	// UpdateDirectStatus applies a vendor transition, conditioned on the
	// owning vendor, the direct channel and a non-terminal current
	// status. False when no row matched.
	UpdateDirectStatus(ctx context.Context, vendorID, orderID, status string) (bool, error)
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{db: db}
}

func (r *orderRepoImpl) CreateIfAbsent(ctx context.Context, order *model.Order, items []*model.OrderItem) (bool, error) {
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "gateway_session_id"}},
			DoNothing: true,
		}).Create(order)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		created = true
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
	return created, err
}

func (r *orderRepoImpl) CreateDirect(ctx context.Context, order *model.Order, items []*model.OrderItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
}

func (r *orderRepoImpl) FindByID(ctx context.Context, orderID string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Where("id = ?", orderID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepoImpl) GetOrderItems(ctx context.Context, orderID string) ([]*model.OrderItem, error) {
	var items []*model.OrderItem
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *orderRepoImpl) ListByVendor(ctx context.Context, vendorID string) ([]*model.Order, error) {
	var orders []*model.Order
	err := r.db.WithContext(ctx).
		Where("vendor_id = ? AND channel = ?", vendorID, model.ChannelDirect).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepoImpl) ListRecent(ctx context.Context, limit int) ([]*model.Order, error) {
	var orders []*model.Order
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepoImpl) MarkFulfilled(ctx context.Context, orderID string) (bool, error) {
	now := time.Now()
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND channel = ? AND status = ?",
			orderID, model.ChannelGateway, model.StatusPaid).
		Updates(map[string]interface{}{
			"status":       model.StatusFulfilled,
			"fulfilled_at": now,
			"updated_at":   now,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *orderRepoImpl) MarkRefunded(ctx context.Context, orderID, refundID string) (bool, error) {
	now := time.Now()
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND channel = ? AND status IN ?",
			orderID, model.ChannelGateway,
			[]string{model.StatusPaid, model.StatusFulfilled}).
		Updates(map[string]interface{}{
			"status":      model.StatusRefunded,
			"refund_id":   refundID,
			"refunded_at": now,
			"updated_at":  now,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *orderRepoImpl) MarkFailedByPaymentIntent(ctx context.Context, paymentIntentID string) error {
	return r.db.WithContext(ctx).Model(&model.Order{}).
		Where("payment_intent_id = ? AND channel = ? AND status NOT IN ?",
			paymentIntentID, model.ChannelGateway, model.TerminalStatuses()).
		Updates(map[string]interface{}{
			"status":     model.StatusFailed,
			"updated_at": time.Now(),
		}).Error
}

func (r *orderRepoImpl) UpdateDirectStatus(ctx context.Context, vendorID, orderID, status string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND vendor_id = ? AND channel = ? AND status NOT IN ?",
			orderID, vendorID, model.ChannelDirect, model.TerminalStatuses()).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})
	return res.RowsAffected > 0, res.Error
}

package model

import "time"

// Order is the one shared mutable entity. Everything financial on it is a
// snapshot taken at creation time; only status, the status timestamps and the
// refund reference change afterwards.
type Order struct {
	ID       string `gorm:"primaryKey;size:36" json:"id"`
	Channel  string `gorm:"size:16;index;not null" json:"channel"` // gateway | direct
	VendorID string `gorm:"size:36;index" json:"vendor_id,omitempty"`
	Status   string `gorm:"size:16;index;not null" json:"status"`

	// Payment linkage, gateway channel only. The session id carries the
	// unique index that makes duplicate webhook deliveries collapse into
	// a single row.
	GatewaySessionID *string `gorm:"size:128;uniqueIndex" json:"gateway_session_id,omitempty"`
	PaymentIntentID  *string `gorm:"size:128;index" json:"payment_intent_id,omitempty"`
	RefundID         *string `gorm:"size:128" json:"refund_id,omitempty"`

	AmountTotal int64  `gorm:"not null" json:"amount_total"` // minor units
	Currency    string `gorm:"size:8;not null" json:"currency"`

	CustomerName    string `json:"customer_name,omitempty"`
	CustomerEmail   string `gorm:"index" json:"customer_email,omitempty"`
	CustomerPhone   string `json:"customer_phone,omitempty"`
	CustomerAddress string `json:"customer_address,omitempty"`
	Notes           string `json:"notes,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
	FulfilledAt *time.Time `json:"fulfilled_at,omitempty"`
	RefundedAt  *time.Time `json:"refunded_at,omitempty"`
}

type OrderItem struct {
	ID uint `gorm:"primaryKey" json:"-"`
	// FK → order.id
	OrderID string `gorm:"size:36;index;not null" json:"order_id"`
	// Empty when a gateway line carried no product reference; such lines
	// are skipped by the restock pass.
	ProductID  string `gorm:"size:64;index" json:"product_id,omitempty"`
	Name       string `gorm:"not null" json:"name"`
	Quantity   int64  `gorm:"not null" json:"quantity"`
	UnitAmount int64  `gorm:"not null" json:"unit_amount"`
	Currency   string `gorm:"size:8;not null" json:"currency"`

	CreatedAt time.Time `json:"-"`
}

type Product struct {
	ID        string `gorm:"primaryKey;size:64;not null" json:"id"`
	VendorID  string `gorm:"size:36;index" json:"vendor_id"`
	Name      string `json:"name"`
	Price     int64  `gorm:"not null" json:"price"` // minor units
	Currency  string `gorm:"size:8;not null" json:"currency"`
	Inventory int64  `gorm:"not null" json:"inventory"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Vendor struct {
	ID   string `gorm:"primaryKey;size:36" json:"id"`
	Name string `json:"name"`
	// Opaque per-vendor credential used by the vendor order endpoints.
	AccessToken string `gorm:"size:64;uniqueIndex;not null" json:"-"`
	Active      bool   `gorm:"not null" json:"active"`

	CreatedAt time.Time `json:"created_at"`
}

// WebhookEvent is an audit row per processed gateway event. Order
// idempotency is enforced by the session id index, not by this table.
type WebhookEvent struct {
	EventID     string `gorm:"primaryKey;size:128;not null"`
	EventType   string `gorm:"size:64;index"`
	ProcessedAt time.Time
	CreatedAt   time.Time
}

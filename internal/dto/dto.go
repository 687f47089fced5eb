package dto

type CheckoutItem struct {
	ProductID  string `json:"product_id"`
	Name       string `json:"name"`
	Quantity   int64  `json:"quantity"`
	UnitAmount int64  `json:"unit_amount"` // minor units
	Currency   string `json:"currency"`
}

type CheckoutRequest struct {
	Items []*CheckoutItem `json:"items"`
}

type CheckoutResponse struct {
	SessionID   string `json:"id"`
	RedirectURL string `json:"url"`
}

type DirectOrderItem struct {
	ProductID  string `json:"product_id"`
	Name       string `json:"name"`
	Quantity   int64  `json:"quantity"`
	UnitAmount int64  `json:"unit_amount"`
}

type DirectOrderRequest struct {
	VendorID        string             `json:"vendor_id"`
	CustomerName    string             `json:"customer_name"`
	CustomerEmail   string             `json:"customer_email"`
	CustomerPhone   string             `json:"customer_phone"`
	CustomerAddress string             `json:"customer_address"`
	Notes           string             `json:"notes"`
	Items           []*DirectOrderItem `json:"items"`
}

type DirectOrderResponse struct {
	OrderID string `json:"id"`
}

type VendorStatusRequest struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

type StatusResponse struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

type RefundResult struct {
	OrderID  string `json:"order_id"`
	Status   string `json:"status"`
	RefundID string `json:"refund_id"`
}

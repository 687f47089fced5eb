package model

import "encoding/json"

// Wire shapes of the payment gateway's webhook payloads. The event envelope
// carries the typed resource as raw JSON so unrecognized event types can be
// acknowledged without decoding their body.
type GatewayEvent struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Created int64  `json:"created"`
	Data    struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

type CustomerDetails struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type CheckoutSessionResource struct {
	ID              string          `json:"id"`
	PaymentIntentID string          `json:"payment_intent"`
	AmountTotal     int64           `json:"amount_total"`
	Currency        string          `json:"currency"`
	CustomerDetails CustomerDetails `json:"customer_details"`
}

type PaymentIntentResource struct {
	ID string `json:"id"`
}

// GatewayLineItem is the gateway's view of a charged line, fetched back at
// confirmation time. The gateway, not the client cart, is authoritative for
// these values.
type GatewayLineItem struct {
	ProductID   string `json:"product_id"`
	Description string `json:"description"`
	Quantity    int64  `json:"quantity"`
	UnitAmount  int64  `json:"unit_amount"`
	Currency    string `json:"currency"`
}

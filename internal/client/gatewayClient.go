package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"marketplace-api/internal/config"
	"marketplace-api/internal/model"
)

// GatewayClient is the boundary to the hosted payment gateway. Session
// creation and refunds are the only financial mutations; both carry a bounded
// timeout and are never retried here.
type GatewayClient interface {
	CreateCheckoutSession(ctx context.Context, params *CreateSessionParams) (*CreateSessionResponse, error)
	RetrieveSession(ctx context.Context, sessionID string) (*model.CheckoutSessionResource, error)
	ListLineItems(ctx context.Context, sessionID string) ([]*model.GatewayLineItem, error)
	CreateRefund(ctx context.Context, paymentIntentID string) (*RefundResponse, error)
}

type SessionLineItem struct {
	ProductID  string
	Name       string
	Quantity   int64
	UnitAmount int64
	Currency   string
}

type CreateSessionParams struct {
	LineItems  []*SessionLineItem
	SuccessURL string
	CancelURL  string
}

type CreateSessionResponse struct {
	SessionID   string
	RedirectURL string
}

type RefundResponse struct {
	RefundID string
	Status   string
}

// GatewayError carries the gateway's HTTP rejection so callers can surface
// the reason and decide retryability.
type GatewayError struct {
	StatusCode int
	Message    string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway error %d: %s", e.StatusCode, e.Message)
}

func (e *GatewayError) Retryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

// IsRetryable classifies a gateway client failure. Timeouts and gateway 5xx
// are worth a caller-side retry; everything else is terminal.
func IsRetryable(err error) bool {
	var ge *GatewayError
	if errors.As(err, &ge) {
		return ge.Retryable()
	}
	var ne net.Error
	if errors.As(err, &ne) {
		return ne.Timeout()
	}
	return errors.Is(err, context.DeadlineExceeded)
}

type gatewayClientImpl struct {
	httpClient *http.Client
	baseApiURL string
	secretKey  string
}

func NewGatewayClient(gatewayCfg *config.Gateway) GatewayClient {
	return &gatewayClientImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseApiURL: gatewayCfg.BaseApiURL,
		secretKey:  gatewayCfg.SecretKey,
	}
}

func (c *gatewayClientImpl) CreateCheckoutSession(ctx context.Context, params *CreateSessionParams) (*CreateSessionResponse, error) {
	lines := make([]map[string]interface{}, len(params.LineItems))
	for i, li := range params.LineItems {
		lines[i] = map[string]interface{}{
			"quantity": li.Quantity,
			"price_data": map[string]interface{}{
				"currency":    li.Currency,
				"unit_amount": li.UnitAmount,
				"product_data": map[string]interface{}{
					"name":     li.Name,
					"metadata": map[string]string{"product_id": li.ProductID},
				},
			},
		}
	}

	payload := map[string]interface{}{
		"mode":        "payment",
		"line_items":  lines,
		"success_url": params.SuccessURL,
		"cancel_url":  params.CancelURL,
	}

	var result struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}
	if err := c.do(ctx, http.MethodPost, "/v1/checkout/sessions", payload, &result); err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}

	return &CreateSessionResponse{
		SessionID:   result.ID,
		RedirectURL: result.URL,
	}, nil
}

func (c *gatewayClientImpl) RetrieveSession(ctx context.Context, sessionID string) (*model.CheckoutSessionResource, error) {
	var session model.CheckoutSessionResource
	path := "/v1/checkout/sessions/" + sessionID
	if err := c.do(ctx, http.MethodGet, path, nil, &session); err != nil {
		return nil, fmt.Errorf("retrieve checkout session: %w", err)
	}
	return &session, nil
}

func (c *gatewayClientImpl) ListLineItems(ctx context.Context, sessionID string) ([]*model.GatewayLineItem, error) {
	var result struct {
		Data []*model.GatewayLineItem `json:"data"`
	}
	path := "/v1/checkout/sessions/" + sessionID + "/line_items"
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, fmt.Errorf("list session line items: %w", err)
	}
	return result.Data, nil
}

func (c *gatewayClientImpl) CreateRefund(ctx context.Context, paymentIntentID string) (*RefundResponse, error) {
	payload := map[string]string{
		"payment_intent": paymentIntentID,
	}

	var result struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := c.do(ctx, http.MethodPost, "/v1/refunds", payload, &result); err != nil {
		return nil, fmt.Errorf("create refund: %w", err)
	}

	return &RefundResponse{
		RefundID: result.ID,
		Status:   result.Status,
	}, nil
}

func (c *gatewayClientImpl) do(ctx context.Context, method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal req payload: %w", err)
		}
		body = bytes.NewBuffer(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseApiURL+path, body)
	if err != nil {
		return fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return &GatewayError{
			StatusCode: resp.StatusCode,
			Message:    gatewayMessage(raw),
		}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode gateway response: %w", err)
		}
	}
	return nil
}

// gatewayMessage pulls the human-readable reason out of an error body,
// falling back to the raw text.
func gatewayMessage(raw []byte) string {
	var body struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Error.Message != "" {
		return body.Error.Message
	}
	return string(raw)
}

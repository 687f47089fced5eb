package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"marketplace-api/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) GatewayClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewGatewayClient(&config.Gateway{
		BaseApiURL: srv.URL,
		SecretKey:  "sk_test",
	})
}

func TestCreateCheckoutSession(t *testing.T) {
	var gotAuth string
	var gotBody map[string]interface{}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]string{
			"id":  "cs_123",
			"url": "https://gateway.example/pay/cs_123",
		})
	})

	resp, err := c.CreateCheckoutSession(context.Background(), &CreateSessionParams{
		LineItems: []*SessionLineItem{
			{ProductID: "p1", Name: "Honey", Quantity: 2, UnitAmount: 500, Currency: "usd"},
		},
		SuccessURL: "http://localhost/success",
		CancelURL:  "http://localhost/cancel",
	})

	require.NoError(t, err)
	assert.Equal(t, "cs_123", resp.SessionID)
	assert.Equal(t, "https://gateway.example/pay/cs_123", resp.RedirectURL)
	assert.Equal(t, "Bearer sk_test", gotAuth)
	assert.Equal(t, "payment", gotBody["mode"])
	assert.Len(t, gotBody["line_items"], 1)
}

func TestListLineItems(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/checkout/sessions/cs_123/line_items", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{
				{"product_id": "p1", "description": "Honey", "quantity": 2, "unit_amount": 500, "currency": "usd"},
			},
		})
	})

	items, err := c.ListLineItems(context.Background(), "cs_123")

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "p1", items[0].ProductID)
	assert.Equal(t, int64(500), items[0].UnitAmount)
}

func TestCreateRefund_GatewayRejection(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"message": "charge already disputed"},
		})
	})

	_, err := c.CreateRefund(context.Background(), "pi_123")

	var ge *GatewayError
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, http.StatusPaymentRequired, ge.StatusCode)
	assert.Equal(t, "charge already disputed", ge.Message)
	assert.False(t, IsRetryable(err))
}

func TestIsRetryable_ServerErrors(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := c.CreateRefund(context.Background(), "pi_123")

	require.Error(t, err)
	assert.True(t, IsRetryable(err))
}

package gateway_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/finkit/bulk_payout_app/internal/adapters/gateway"
	"github.com/finkit/bulk_payout_app/internal/core/domain"
	"github.com/finkit/bulk_payout_app/internal/core/ports"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRequest() ports.GatewayRequest {
	return ports.GatewayRequest{
		ReferenceNumber:          "ref-123",
		Amount:                   decimal.NewFromInt(100),
		Mode:                     domain.ModeIMPS,
		BeneficiaryName:          "Asha Rao",
		BeneficiaryAccountNumber: "000123456789",
		BeneficiaryRoutingCode:   "HDFC0001234",
		AuthToken:                "gw-token",
	}
}

func TestProcessPayment_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/payouts", r.URL.Path)
		assert.Equal(t, "Bearer gw-token", r.Header.Get("Authorization"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ref-123", body["reference_number"])
		assert.Equal(t, "HDFC0001234", body["beneficiary_ifsc_code"])
		// The credential travels in the header only, never the body.
		assert.NotContains(t, body, "AuthToken")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"SUCCESS","reference_number":"ref-123","transaction_id":"txn-001","settlement_id":"stl-001"}`))
	}))
	defer srv.Close()

	client := gateway.NewHTTPClient(srv.URL, 5*time.Second)
	result, err := client.ProcessPayment(context.Background(), testRequest())

	require.NoError(t, err)
	assert.Equal(t, "txn-001", result.TransactionID)
	assert.Equal(t, "stl-001", result.SettlementID)
	assert.Equal(t, "ref-123", result.ReferenceNumber)
	assert.NotEmpty(t, result.RawResponse)
}

func TestProcessPayment_Rejection(t *testing.T) {
	payload := `{"status":"FAILED","message":"beneficiary account blocked"}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	client := gateway.NewHTTPClient(srv.URL, 5*time.Second)
	result, err := client.ProcessPayment(context.Background(), testRequest())

	require.Error(t, err)
	assert.Nil(t, result)

	var gwErr *ports.GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, "beneficiary account blocked", gwErr.Message)
	assert.JSONEq(t, payload, string(gwErr.RawPayload))
}

func TestProcessPayment_FailedStatusWith200(t *testing.T) {
	// Some gateways report failures inside a 200 body.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"FAILED","message":"insufficient float"}`))
	}))
	defer srv.Close()

	client := gateway.NewHTTPClient(srv.URL, 5*time.Second)
	_, err := client.ProcessPayment(context.Background(), testRequest())

	var gwErr *ports.GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, "insufficient float", gwErr.Message)
}

func TestProcessPayment_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>upstream error</html>"))
	}))
	defer srv.Close()

	client := gateway.NewHTTPClient(srv.URL, 5*time.Second)
	_, err := client.ProcessPayment(context.Background(), testRequest())

	var gwErr *ports.GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Contains(t, gwErr.Message, "502")
	assert.Equal(t, []byte("<html>upstream error</html>"), gwErr.RawPayload)
}

func TestProcessPayment_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := gateway.NewHTTPClient(srv.URL, time.Second)
	_, err := client.ProcessPayment(context.Background(), testRequest())

	var gwErr *ports.GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Contains(t, gwErr.Message, "gateway unreachable")
	assert.Nil(t, gwErr.RawPayload)
}

package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/finkit/bulk_payout_app/internal/core/ports"
)

// paymentResponse is the gateway's wire shape. The service is opaque
// beyond these fields; the full body is kept as the response snapshot.
type paymentResponse struct {
	Status          string `json:"status"`
	Message         string `json:"message"`
	ReferenceNumber string `json:"reference_number"`
	TransactionID   string `json:"transaction_id"`
	SettlementID    string `json:"settlement_id"`
}

// HTTPClient is the PaymentGateway adapter for the external
// money-movement service.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClient creates a gateway client for the given base URL.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// ProcessPayment performs one synchronous payout attempt. Gateway
// rejections and transport failures come back as *ports.GatewayError so
// the caller can persist the raw payload.
func (c *HTTPClient) ProcessPayment(ctx context.Context, req ports.GatewayRequest) (*ports.GatewayResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, &ports.GatewayError{Message: fmt.Sprintf("failed to encode request: %v", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/payouts", bytes.NewReader(body))
	if err != nil {
		return nil, &ports.GatewayError{Message: fmt.Sprintf("failed to build request: %v", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+req.AuthToken)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, &ports.GatewayError{Message: fmt.Sprintf("gateway unreachable: %v", err)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, &ports.GatewayError{Message: fmt.Sprintf("failed to read gateway response: %v", err)}
	}

	var decoded paymentResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, &ports.GatewayError{
			Message:    fmt.Sprintf("malformed gateway response (HTTP %d)", resp.StatusCode),
			RawPayload: raw,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || decoded.Status != "SUCCESS" {
		msg := decoded.Message
		if msg == "" {
			msg = fmt.Sprintf("gateway returned HTTP %d", resp.StatusCode)
		}
		return nil, &ports.GatewayError{Message: msg, RawPayload: raw}
	}

	return &ports.GatewayResult{
		ReferenceNumber: decoded.ReferenceNumber,
		TransactionID:   decoded.TransactionID,
		SettlementID:    decoded.SettlementID,
		RawResponse:     raw,
	}, nil
}

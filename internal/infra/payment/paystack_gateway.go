package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"opsdesk/internal/domain"
	"opsdesk/internal/domain/ports/adapter"
)

const defaultBaseURL = "https://api.paystack.co"

// PaystackGateway implements adapter.PaymentGateway against the Paystack
// transaction API. The secret key is checked at call time so a misconfigured
// deployment fails on first use with a descriptive error, not at startup.
type PaystackGateway struct {
	secretKey string
	baseURL   string
	client    *http.Client
}

var _ adapter.PaymentGateway = (*PaystackGateway)(nil)

func NewPaystackGateway(secretKey, baseURL string) *PaystackGateway {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &PaystackGateway{
		secretKey: secretKey,
		baseURL:   baseURL,
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (g *PaystackGateway) Name() string { return "paystack" }

type initializeResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	} `json:"data"`
}

type verifyResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Status    string `json:"status"`
		Reference string `json:"reference"`
		Amount    int64  `json:"amount"`
		Currency  string `json:"currency"`
		PaidAt    string `json:"paid_at"`
		Customer  struct {
			Email        string `json:"email"`
			CustomerCode string `json:"customer_code"`
		} `json:"customer"`
		Metadata map[string]string `json:"metadata"`
	} `json:"data"`
}

// Initialize creates a hosted checkout session.
func (g *PaystackGateway) Initialize(ctx context.Context, email string, amountKobo int64, reference string, meta map[string]string) (*adapter.InitializeResult, error) {
	if g.secretKey == "" {
		return nil, fmt.Errorf("paystack secret key is not set: %w", domain.ErrNotConfigured)
	}

	body := map[string]interface{}{
		"email":     email,
		"amount":    amountKobo,
		"reference": reference,
	}
	if meta != nil {
		body["metadata"] = meta
	}
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal initialize request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/transaction/initialize", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("create initialize request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send initialize request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read initialize response: %w", err)
	}

	var out initializeResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("unmarshal initialize response: %w, body: %s", err, string(raw))
	}
	if !out.Status {
		return nil, fmt.Errorf("paystack initialize rejected: %s", out.Message)
	}
	if out.Data.AuthorizationURL == "" {
		return nil, fmt.Errorf("paystack initialize returned no authorization url")
	}

	return &adapter.InitializeResult{
		AuthorizationURL: out.Data.AuthorizationURL,
		AccessCode:       out.Data.AccessCode,
		Reference:        out.Data.Reference,
	}, nil
}

// Verify queries the authoritative status of a transaction by reference.
func (g *PaystackGateway) Verify(ctx context.Context, reference string) (*adapter.VerifyResult, error) {
	if g.secretKey == "" {
		return nil, fmt.Errorf("paystack secret key is not set: %w", domain.ErrNotConfigured)
	}
	if reference == "" {
		return nil, domain.ErrInvalidArgument
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/transaction/verify/"+reference, nil)
	if err != nil {
		return nil, fmt.Errorf("create verify request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.secretKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send verify request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read verify response: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrNotFound
	}

	var out verifyResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("unmarshal verify response: %w, body: %s", err, string(raw))
	}
	if !out.Status {
		return nil, fmt.Errorf("paystack verify rejected: %s", out.Message)
	}

	paidAt, _ := time.Parse(time.RFC3339, out.Data.PaidAt)
	return &adapter.VerifyResult{
		Reference:     out.Data.Reference,
		Status:        out.Data.Status,
		Amount:        out.Data.Amount,
		Currency:      out.Data.Currency,
		CustomerEmail: out.Data.Customer.Email,
		CustomerCode:  out.Data.Customer.CustomerCode,
		PaidAt:        paidAt,
		Metadata:      out.Data.Metadata,
	}, nil
}

package monobank

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"classifieds-bot-backend/internal/common/apperr"
)

// Invoice statuses reported by the gateway.
const (
	StatusCreated    = "created"
	StatusProcessing = "processing"
	StatusSuccess    = "success"
	StatusFailure    = "failure"
	StatusExpired    = "expired"
)

const ccyEUR = 978

// Client talks to the Monobank merchant API. It is stateless; every call is
// bounded by the HTTP client timeout and retried by the reconciler's next
// tick, never in-call.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
		token:      token,
	}
}

type basketItem struct {
	Name string `json:"name"`
	Qty  int    `json:"qty"`
	Sum  int64  `json:"sum"`
}

type createInvoiceRequest struct {
	Amount           int64  `json:"amount"`
	CCY              int    `json:"ccy"`
	RedirectURL      string `json:"redirectUrl,omitempty"`
	MerchantPaymInfo struct {
		Reference   string       `json:"reference"`
		Destination string       `json:"destination"`
		BasketOrder []basketItem `json:"basketOrder"`
	} `json:"merchantPaymInfo"`
}

type CreateInvoiceResult struct {
	InvoiceID string `json:"invoiceId"`
	PageURL   string `json:"pageUrl"`
}

type InvoiceStatus struct {
	InvoiceID string `json:"invoiceId"`
	Status    string `json:"status"`
}

// CreateInvoice creates an EUR invoice for amountCents with the given order
// reference; redirectURL points the payer back to the chat.
func (c *Client) CreateInvoice(ctx context.Context, amountCents int64, description, orderReference, redirectURL string) (*CreateInvoiceResult, error) {
	reqBody := createInvoiceRequest{
		Amount:      amountCents,
		CCY:         ccyEUR,
		RedirectURL: redirectURL,
	}
	reqBody.MerchantPaymInfo.Reference = orderReference
	reqBody.MerchantPaymInfo.Destination = description
	reqBody.MerchantPaymInfo.BasketOrder = []basketItem{{Name: description, Qty: 1, Sum: amountCents}}

	var result CreateInvoiceResult
	if err := c.call(ctx, http.MethodPost, "/api/merchant/invoice/create", reqBody, &result); err != nil {
		return nil, err
	}
	if result.InvoiceID == "" || result.PageURL == "" {
		return nil, apperr.New(apperr.KindExternalTransient, "errors.internal")
	}
	return &result, nil
}

// GetInvoiceStatus queries the gateway by invoice id.
func (c *Client) GetInvoiceStatus(ctx context.Context, invoiceID string) (*InvoiceStatus, error) {
	path := "/api/merchant/invoice/status?invoiceId=" + url.QueryEscape(invoiceID)

	var status InvoiceStatus
	if err := c.call(ctx, http.MethodGet, path, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *Client) call(ctx context.Context, method, path string, body, result any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Token", c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperr.Wrap(apperr.KindExternalTransient, "errors.internal", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperr.Wrap(apperr.KindExternalTransient, "errors.internal", err)
	}

	if resp.StatusCode >= 500 {
		return apperr.Wrap(apperr.KindExternalTransient, "errors.internal",
			fmt.Errorf("gateway %s: %s", resp.Status, respBody))
	}
	if resp.StatusCode != http.StatusOK {
		return apperr.Wrap(apperr.KindExternalPermanent, "errors.internal",
			fmt.Errorf("gateway %s: %s", resp.Status, respBody))
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

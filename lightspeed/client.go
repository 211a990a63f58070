package lightspeed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/suitsync/pos-gateway/internal/config"
)

// Client is a thin wrapper over the Lightspeed Retail (X-Series) API. Every
// failed call leaves this package already classified; callers never see raw
// transport errors. The http.Client and token source are injected so tests
// can substitute fakes without touching process globals.
type Client struct {
	cfg        config.LightspeedConfig
	httpClient *http.Client
	tokens     oauth2.TokenSource
	baseURL    string
}

func NewClient(cfg config.LightspeedConfig, httpClient *http.Client, tokens oauth2.TokenSource) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		cfg:        cfg,
		httpClient: httpClient,
		tokens:     tokens,
		baseURL:    fmt.Sprintf("https://%s.retail.lightspeed.app/api", cfg.GetLightspeedDomain()),
	}
}

// WithBaseURL overrides the API base URL. Used by tests.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = baseURL
	return c
}

// Employee is the Lightspeed user the OAuth flow authenticated as.
type Employee struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	AccountType string `json:"account_type"`
	ImageSource string `json:"image_source"`
}

// Customer mirrors the subset of the Lightspeed customer record the sync
// jobs care about.
type Customer struct {
	ID          string `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Version     int64  `json:"version"`
	DeletedAt   string `json:"deleted_at"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
	CustomerCode string `json:"customer_code"`
}

// Sale is the minimal projection used by the sales sync.
type Sale struct {
	ID         string  `json:"id"`
	CustomerID string  `json:"customer_id"`
	UserID     string  `json:"user_id"`
	Status     string  `json:"status"`
	TotalPrice float64 `json:"total_price"`
	Version    int64   `json:"version"`
	SaleDate   string  `json:"sale_date"`
}

// pageVersion carries the version cursor returned with every listing.
type pageVersion struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}

// CustomerPage is one page of the customer listing. Pass Version.Max back as
// the "after" cursor to continue.
type CustomerPage struct {
	Data    []Customer  `json:"data"`
	Version pageVersion `json:"version"`
}

// SalePage is one page of the sales listing.
type SalePage struct {
	Data    []Sale      `json:"data"`
	Version pageVersion `json:"version"`
}

// CurrentUser returns the employee the installation's token authenticates as.
func (c *Client) CurrentUser(ctx context.Context) (*Employee, error) {
	var out struct {
		Data Employee `json:"data"`
	}
	if err := c.get(ctx, "/2.0/user", &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// Customers fetches one page of customers with version greater than after.
func (c *Client) Customers(ctx context.Context, after int64, pageSize int) (*CustomerPage, error) {
	page := &CustomerPage{}
	path := fmt.Sprintf("/2.0/customers?after=%d&page_size=%d", after, pageSize)
	if err := c.get(ctx, path, page); err != nil {
		return nil, err
	}
	return page, nil
}

// Sales fetches one page of sales with version greater than after.
func (c *Client) Sales(ctx context.Context, after int64, pageSize int) (*SalePage, error) {
	page := &SalePage{}
	path := fmt.Sprintf("/2.0/sales?after=%d&page_size=%d", after, pageSize)
	if err := c.get(ctx, path, page); err != nil {
		return nil, err
	}
	return page, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// apiErrorBody is the error envelope Lightspeed returns on failures. Fields
// are best-effort; the classifier falls back to generic messages.
type apiErrorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Details any    `json:"details"`
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		encoded, err := json.Marshal(in)
		if err != nil {
			return NewError("API_ERROR", "failed to encode request body", http.StatusInternalServerError).WithEndpoint(path)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return Classify(err, path)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.tokens != nil {
		token, err := c.tokens.Token()
		if err != nil {
			return Classify(err, path)
		}
		token.SetAuthHeader(req)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Classify(err, path)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		raw, _ := io.ReadAll(resp.Body)
		var envelope apiErrorBody
		_ = json.Unmarshal(raw, &envelope)
		message := envelope.Message
		if message == "" {
			message = envelope.Error
		}
		return ClassifyResponse(resp.StatusCode, message, envelope.Details, resp.Header.Get("Retry-After"), path)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return NewError("API_ERROR", "failed to decode response body", http.StatusInternalServerError).
				WithDetails(err.Error()).
				WithEndpoint(path)
		}
	}
	return nil
}

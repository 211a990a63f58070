package lightspeed_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/suitsync/pos-gateway/internal/config"
	"github.com/suitsync/pos-gateway/lightspeed"
)

func newTestClient(t *testing.T, handler http.Handler) (*lightspeed.Client, *httptest.Server) {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	client := lightspeed.NewClient(config.Lightspeed{}, ts.Client(), nil).WithBaseURL(ts.URL)
	return client, ts
}

func TestCurrentUser(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/2.0/user", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"id":           "emp-1",
				"display_name": "Sam Taylor",
				"email":        "sam@suitsync.example",
				"account_type": "admin",
			},
		})
	}))

	employee, err := client.CurrentUser(context.Background())
	require.NoError(t, err)
	require.Equal(t, "emp-1", employee.ID)
	require.Equal(t, "Sam Taylor", employee.DisplayName)
	require.Equal(t, "admin", employee.AccountType)
}

func TestCustomersPagination(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/2.0/customers", r.URL.Path)
		require.Equal(t, "1500", r.URL.Query().Get("after"))
		require.Equal(t, "50", r.URL.Query().Get("page_size"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"id": "cust-1", "first_name": "Avery", "version": 1501},
				{"id": "cust-2", "first_name": "Jordan", "version": 1502},
			},
			"version": map[string]int64{"min": 1501, "max": 1502},
		})
	}))

	page, err := client.Customers(context.Background(), 1500, 50)
	require.NoError(t, err)
	require.Len(t, page.Data, 2)
	require.Equal(t, int64(1502), page.Version.Max)
}

func TestRateLimitedCallEndToEnd(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "45")
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]any{"message": "Too many requests"})
	}))

	_, err := client.Customers(context.Background(), 0, 100)
	require.Error(t, err)

	var lsErr *lightspeed.Error
	require.ErrorAs(t, err, &lsErr)
	require.Equal(t, lightspeed.CodeRateLimited, lsErr.Code)
	require.Equal(t, 429, lsErr.StatusCode)
	require.Equal(t, "45", lsErr.RetryAfter)
	require.Equal(t, "Too many requests", lsErr.Message)
}

func TestNetworkFailureEndToEnd(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close() // nothing is listening any more

	client := lightspeed.NewClient(config.Lightspeed{}, &http.Client{}, nil).WithBaseURL(url)
	_, err := client.Sales(context.Background(), 0, 100)
	require.Error(t, err)

	var lsErr *lightspeed.Error
	require.ErrorAs(t, err, &lsErr)
	require.Equal(t, lightspeed.CodeNetworkError, lsErr.Code)
	require.Equal(t, 500, lsErr.StatusCode)
}

func TestValidationErrorCarriesDetails(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message": "validation failed",
			"details": map[string]any{"field": "email"},
		})
	}))

	_, err := client.Customers(context.Background(), 0, 100)
	var lsErr *lightspeed.Error
	require.ErrorAs(t, err, &lsErr)
	require.Equal(t, lightspeed.CodeValidation, lsErr.Code)
	require.Equal(t, map[string]any{"field": "email"}, lsErr.Details)
}

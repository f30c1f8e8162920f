package lightspeed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/angelmondragon/posbridge/pkg/config"
	pkgerrors "github.com/angelmondragon/posbridge/pkg/errors"
	"github.com/angelmondragon/posbridge/pkg/logger"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := NewClient(config.LightspeedConfig{
		BaseURL:        baseURL,
		APIKey:         "test-token",
		PageSize:       2,
		RequestTimeout: 2 * time.Second,
		FakePageToken:  "string",
	}, logger.New(logger.Options{ServiceName: "test"}))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestFetchSalesFollowsPagination(t *testing.T) {
	pages := map[string]SalesPage{
		"": {
			Sales:         []RawSale{{ReceiptID: "r-1"}, {ReceiptID: "r-2"}},
			NextPageToken: strPtr("page-2"),
		},
		"page-2": {
			Sales: []RawSale{{ReceiptID: "r-3"}},
		},
	}

	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("unexpected auth header %q", got)
		}
		if r.URL.Query().Get("pageSize") != "2" {
			t.Errorf("missing pageSize hint, query=%s", r.URL.RawQuery)
		}
		page := pages[r.URL.Query().Get("nextPageToken")]
		_ = json.NewEncoder(w).Encode(page)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	sales, err := client.FetchSales(context.Background(), "bl-1", time.Now().Add(-time.Hour), time.Now())
	if err != nil {
		t.Fatalf("FetchSales: %v", err)
	}
	if len(sales) != 3 {
		t.Fatalf("expected 3 sales across pages, got %d", len(sales))
	}
	if requests != 2 {
		t.Fatalf("expected 2 page requests, got %d", requests)
	}
	if sales[0].ReceiptID != "r-1" || sales[2].ReceiptID != "r-3" {
		t.Fatalf("pages concatenated out of order: %+v", sales)
	}
}

func TestFetchSalesStopsOnFakeToken(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		// Mock gateways echo the literal placeholder "string" forever.
		_ = json.NewEncoder(w).Encode(SalesPage{
			Sales:         []RawSale{{ReceiptID: fmt.Sprintf("r-%d", requests)}},
			NextPageToken: strPtr("string"),
		})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	sales, err := client.FetchSales(context.Background(), "bl-1", time.Now().Add(-time.Hour), time.Now())
	if err != nil {
		t.Fatalf("FetchSales: %v", err)
	}
	if requests != 1 {
		t.Fatalf("fake token should stop pagination after 1 request, got %d", requests)
	}
	if len(sales) != 1 {
		t.Fatalf("expected the first page's records, got %d", len(sales))
	}
}

func TestFetchSalesStopsOnRepeatedToken(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		_ = json.NewEncoder(w).Encode(SalesPage{
			Sales:         []RawSale{{ReceiptID: fmt.Sprintf("r-%d", requests)}},
			NextPageToken: strPtr("same-token"),
		})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.FetchSales(context.Background(), "bl-1", time.Now().Add(-time.Hour), time.Now())
	if err != nil {
		t.Fatalf("FetchSales: %v", err)
	}
	if requests != 2 {
		t.Fatalf("repeated token should stop after the echo, got %d requests", requests)
	}
}

func TestFetchSalesCustomTokenGuard(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		_ = json.NewEncoder(w).Encode(SalesPage{NextPageToken: strPtr("SUSPICIOUS")})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	client.badToken = func(token string) bool { return token == "SUSPICIOUS" }

	if _, err := client.FetchSales(context.Background(), "bl-1", time.Now().Add(-time.Hour), time.Now()); err != nil {
		t.Fatalf("FetchSales: %v", err)
	}
	if requests != 1 {
		t.Fatalf("injected guard should stop pagination, got %d requests", requests)
	}
}

func TestFetchSalesMapsAuthErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.FetchSales(context.Background(), "bl-1", time.Now().Add(-time.Hour), time.Now())
	if !pkgerrors.HasCode(err, pkgerrors.CodeAuth) {
		t.Fatalf("expected AUTH_ERROR, got %v", err)
	}
}

func TestFetchSalesMapsTimeouts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_ = json.NewEncoder(w).Encode(SalesPage{})
	}))
	defer server.Close()

	client, err := NewClient(config.LightspeedConfig{
		BaseURL:        server.URL,
		APIKey:         "test-token",
		RequestTimeout: 20 * time.Millisecond,
	}, logger.New(logger.Options{ServiceName: "test"}))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	_, err = client.FetchSales(context.Background(), "bl-1", time.Now().Add(-time.Hour), time.Now())
	if !pkgerrors.HasCode(err, pkgerrors.CodeTimeout) {
		t.Fatalf("expected TIMEOUT_ERROR, got %v", err)
	}
}

func TestFetchDailySales(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("date"); got != "2026-08-28" {
			t.Errorf("unexpected date param %q", got)
		}
		_, _ = w.Write([]byte(`{
			"sales": [{"receiptId": "r-1", "salesLines": [{"saleLineId": "l-1", "quantity": "2", "menuListPrice": 9.5}]}],
			"dataComplete": true,
			"totalSales": "19.00"
		}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	report, err := client.FetchDailySales(context.Background(), "bl-1", "2026-08-28")
	if err != nil {
		t.Fatalf("FetchDailySales: %v", err)
	}
	if !report.DataComplete {
		t.Fatal("expected dataComplete=true")
	}
	if report.TotalSales != "19.00" {
		t.Fatalf("unexpected totalSales %q", report.TotalSales)
	}
	if got := report.Sales[0].SalesLines[0].Quantity; got != "2" {
		t.Fatalf("string quantity should be preserved, got %q", got)
	}
	if got := report.Sales[0].SalesLines[0].MenuListPrice; got != "9.5" {
		t.Fatalf("numeric price should be preserved as text, got %q", got)
	}
}

func TestFetchBusinessesFlattensLocations(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/f/data/businesses" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{
			"_embedded": {"businessList": [
				{"businessLocations": [{"blID": "bl-1", "blName": "Downtown"}]},
				{"businessLocations": [{"blID": "bl-2", "blName": "Airport"}, {"blID": "bl-3", "blName": "Mall"}]}
			]}
		}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	locations, err := client.FetchBusinesses(context.Background())
	if err != nil {
		t.Fatalf("FetchBusinesses: %v", err)
	}
	if len(locations) != 3 {
		t.Fatalf("expected 3 locations, got %d", len(locations))
	}
	if locations[2].ID != "bl-3" || locations[2].Name != "Mall" {
		t.Fatalf("unexpected flattening: %+v", locations)
	}
}

func TestTestConnection(t *testing.T) {
	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer ok.Close()
	if !newTestClient(t, ok.URL).TestConnection(context.Background()) {
		t.Fatal("expected healthy connection")
	}

	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer bad.Close()
	if newTestClient(t, bad.URL).TestConnection(context.Background()) {
		t.Fatal("expected failed connection check")
	}
}

func strPtr(s string) *string { return &s }

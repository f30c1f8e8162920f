package lightspeed

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/angelmondragon/posbridge/pkg/config"
	pkgerrors "github.com/angelmondragon/posbridge/pkg/errors"
	"github.com/angelmondragon/posbridge/pkg/logger"
)

const (
	defaultPageSize       = 100
	defaultRequestTimeout = 5 * time.Second
)

var (
	errBaseURLRequired = stdErrors.New("lightspeed base url is required")
	errAPIKeyRequired  = stdErrors.New("lightspeed api key is required")
	errLoggerRequired  = stdErrors.New("lightspeed logger is required")
)

// TokenGuard reports whether a continuation token is implausible and pagination
// should stop instead of trusting it.
type TokenGuard func(token string) bool

// Client talks to the Lightspeed-style vendor API. It is constructed and
// passed in explicitly; there is no process-wide instance.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	pageSize   int
	timeout    time.Duration
	badToken   TokenGuard
	logg       *logger.Logger
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP transport (tests, instrumentation).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTokenGuard replaces the implausible-token check.
func WithTokenGuard(guard TokenGuard) Option {
	return func(c *Client) {
		if guard != nil {
			c.badToken = guard
		}
	}
}

// NewClient builds a vendor API client from configuration.
func NewClient(cfg config.LightspeedConfig, logg *logger.Logger, opts ...Option) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errBaseURLRequired
	}
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errAPIKeyRequired
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	fakeToken := cfg.FakePageToken
	c := &Client{
		httpClient: &http.Client{},
		baseURL:    baseURL,
		apiKey:     apiKey,
		pageSize:   pageSize,
		timeout:    timeout,
		badToken: func(token string) bool {
			return fakeToken != "" && token == fakeToken
		},
		logg: logg,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// FetchSales retrieves every sale closed inside [from, to) for the location,
// following the continuation token until the vendor stops returning one. The
// pages are drained into a single slice before mapping begins.
func (c *Client) FetchSales(ctx context.Context, locationID string, from, to time.Time) ([]RawSale, error) {
	endpoint := fmt.Sprintf("%s/f/v2/business-location/%s/sales", c.baseURL, url.PathEscape(locationID))

	var all []RawSale
	token := ""
	for {
		query := url.Values{}
		query.Set("from", from.UTC().Format(time.RFC3339))
		query.Set("to", to.UTC().Format(time.RFC3339))
		query.Set("pageSize", strconv.Itoa(c.pageSize))
		if token != "" {
			query.Set("nextPageToken", token)
		}

		var page SalesPage
		if err := c.getJSON(ctx, endpoint, query, &page); err != nil {
			return nil, err
		}
		all = append(all, page.Sales...)

		if page.NextPageToken == nil || *page.NextPageToken == "" {
			break
		}
		next := *page.NextPageToken
		if c.badToken(next) {
			c.logg.Warn(c.logg.WithField(ctx, "token", next), "vendor returned implausible continuation token, stopping pagination")
			break
		}
		if next == token {
			// A misbehaving upstream echoing the same token would loop forever.
			c.logg.Warn(c.logg.WithField(ctx, "token", next), "vendor repeated continuation token, stopping pagination")
			break
		}
		token = next
	}
	return all, nil
}

// FetchDailySales retrieves the aggregated report for one business date
// (YYYY-MM-DD in the location's reporting timezone).
func (c *Client) FetchDailySales(ctx context.Context, locationID string, date string) (*DailySalesReport, error) {
	endpoint := fmt.Sprintf("%s/f/v2/business-location/%s/sales-daily", c.baseURL, url.PathEscape(locationID))
	query := url.Values{}
	query.Set("date", date)

	var report DailySalesReport
	if err := c.getJSON(ctx, endpoint, query, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// FetchBusinesses lists the business locations visible to the credential.
func (c *Client) FetchBusinesses(ctx context.Context) ([]BusinessLocation, error) {
	endpoint := c.baseURL + "/f/data/businesses"

	var envelope businessesEnvelope
	if err := c.getJSON(ctx, endpoint, nil, &envelope); err != nil {
		return nil, err
	}

	var locations []BusinessLocation
	for _, business := range envelope.Embedded.BusinessList {
		locations = append(locations, business.BusinessLocations...)
	}
	return locations, nil
}

// TestConnection reports whether the credential can reach the vendor API.
func (c *Client) TestConnection(ctx context.Context) bool {
	var envelope businessesEnvelope
	return c.getJSON(ctx, c.baseURL+"/f/data/businesses", nil, &envelope) == nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, query url.Values, out any) error {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	target := endpoint
	if len(query) > 0 {
		target = endpoint + "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, target, nil)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeTransport, err, "building vendor request")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if reqCtx.Err() != nil && ctx.Err() == nil {
			return pkgerrors.Wrap(pkgerrors.CodeTimeout, err, "vendor request exceeded timeout")
		}
		return pkgerrors.Wrap(pkgerrors.CodeTransport, err, "reaching vendor api")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return pkgerrors.New(pkgerrors.CodeAuth, fmt.Sprintf("vendor rejected credential (status %d)", resp.StatusCode))
	case resp.StatusCode >= 400:
		return pkgerrors.New(pkgerrors.CodeTransport, fmt.Sprintf("vendor returned status %d", resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeTransport, err, "decoding vendor response")
	}
	return nil
}

// Package client is the REST client the dashboard uses to reach the customer API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Raymond9734/customer-dashboard/internal/models"
)

// DefaultTimeout bounds a single request when no http.Client is supplied
const DefaultTimeout = 10 * time.Second

// maxErrorBody caps how much of a failed response is read for diagnostics
const maxErrorBody = 64 << 10

// Client issues requests against the customer and service history resources.
// It never retries; every failure is returned to the caller as an
// *models.AppError carrying one of the taxonomy codes.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	timeout    time.Duration
	logger     *slog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout. A client passed to
// WithHTTPClient is copied, never modified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithLogger sets the logger used for request diagnostics
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a client for the API rooted at baseURL
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base url %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}

	return c, nil
}

// ListCustomers handles GET /customers
func (c *Client) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	var customers []models.Customer
	if err := c.do(ctx, http.MethodGet, c.path("customers"), nil, nil, &customers); err != nil {
		return nil, err
	}
	if customers == nil {
		customers = []models.Customer{}
	}
	return customers, nil
}

// GetCustomer handles GET /customers/{licenseNumber}
func (c *Client) GetCustomer(ctx context.Context, licenseNumber string) (*models.Customer, error) {
	var customer models.Customer
	if err := c.do(ctx, http.MethodGet, c.path("customers", licenseNumber), nil, nil, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// CreateCustomer handles POST /customers
func (c *Client) CreateCustomer(ctx context.Context, in models.CustomerInput) (*models.Customer, error) {
	var customer models.Customer
	if err := c.do(ctx, http.MethodPost, c.path("customers"), nil, in, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// UpdateCustomer handles PUT /customers/{licenseNumber}
func (c *Client) UpdateCustomer(ctx context.Context, licenseNumber string, patch models.CustomerPatch) (*models.Customer, error) {
	var customer models.Customer
	if err := c.do(ctx, http.MethodPut, c.path("customers", licenseNumber), nil, patch, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// DeleteCustomer handles DELETE /customers/{licenseNumber}
func (c *Client) DeleteCustomer(ctx context.Context, licenseNumber string) error {
	return c.do(ctx, http.MethodDelete, c.path("customers", licenseNumber), nil, nil, nil)
}

// ListServiceHistory handles GET /service-history?licenseNumber=
func (c *Client) ListServiceHistory(ctx context.Context, licenseNumber string) ([]models.ServiceHistory, error) {
	query := url.Values{"licenseNumber": []string{licenseNumber}}

	var entries []models.ServiceHistory
	if err := c.do(ctx, http.MethodGet, c.path("service-history"), query, nil, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []models.ServiceHistory{}
	}
	return entries, nil
}

// CreateServiceHistory handles POST /service-history. The server assigns
// the id and date of the returned entry.
func (c *Client) CreateServiceHistory(ctx context.Context, licenseNumber string, in models.ServiceHistoryInput) (*models.ServiceHistory, error) {
	body := models.CreateServiceHistoryRequest{
		ServiceHistoryInput: in,
		LicenseNumber:       licenseNumber,
	}

	var entry models.ServiceHistory
	if err := c.do(ctx, http.MethodPost, c.path("service-history"), nil, body, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// UpdateServiceHistory handles PUT /service-history/{id}
func (c *Client) UpdateServiceHistory(ctx context.Context, id string, patch models.ServiceHistoryPatch) (*models.ServiceHistory, error) {
	var entry models.ServiceHistory
	if err := c.do(ctx, http.MethodPut, c.path("service-history", id), nil, patch, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// DeleteServiceHistory handles DELETE /service-history/{id}
func (c *Client) DeleteServiceHistory(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, c.path("service-history", id), nil, nil, nil)
}

// ListActivity handles GET /customers/{licenseNumber}/activity
func (c *Client) ListActivity(ctx context.Context, licenseNumber string, limit int) ([]models.Activity, error) {
	var query url.Values
	if limit > 0 {
		query = url.Values{"limit": []string{fmt.Sprint(limit)}}
	}

	var activities []models.Activity
	if err := c.do(ctx, http.MethodGet, c.path("customers", licenseNumber, "activity"), query, nil, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

// path joins escaped segments onto the base URL
func (c *Client) path(segments ...string) *url.URL {
	u := *c.baseURL
	raw := u.EscapedPath()
	plain := u.Path
	for _, s := range segments {
		raw += "/" + url.PathEscape(s)
		plain += "/" + s
	}
	u.Path = plain
	u.RawPath = raw
	return &u
}

type envelope struct {
	Data json.RawMessage `json:"data"`
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) do(ctx context.Context, method string, target *url.URL, query url.Values, body, out interface{}) error {
	u := *target
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("request failed",
			slog.String("method", method),
			slog.String("url", u.Redacted()),
			slog.String("error", err.Error()),
		)
		return models.ErrTransportWithMsg("Unable to reach the server.", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("request completed",
		slog.String("method", method),
		slog.String("url", u.Redacted()),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return models.ErrTransportWithMsg("Unexpected response from the server.", err)
	}
	if len(env.Data) == 0 {
		return models.ErrTransportWithMsg("Unexpected response from the server.", errors.New("response has no data field"))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return models.ErrTransportWithMsg("Unexpected response from the server.", err)
	}

	return nil
}

// decodeError maps a non-2xx response onto the error taxonomy. The server's
// message is kept when the body carries one.
func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var env errorEnvelope
	message := ""
	if json.Unmarshal(raw, &env) == nil {
		message = env.Error.Message
	}

	status := fmt.Errorf("server responded %d", resp.StatusCode)

	switch {
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		return models.ErrInvalidInput(orDefault(message, "The request was rejected as invalid."))
	case resp.StatusCode == http.StatusNotFound:
		return models.ErrNotFoundWithMsg(orDefault(message, "The requested record was not found."))
	case resp.StatusCode == http.StatusConflict:
		return models.ErrConflictWithMsg(orDefault(message, "The record already exists."))
	default:
		return models.ErrTransportWithMsg(message, status)
	}
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

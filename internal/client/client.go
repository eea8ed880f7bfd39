// Package client talks to the storefront API over HTTP. It is the
// collaborator behind the order flow's inquiry log and the newsletter form.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"hope-store/internal/middleware"
	"hope-store/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const defaultTimeout = 10 * time.Second

// Client calls the storefront API rooted at baseURL.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a client for the API at baseURL.
func New(baseURL string, logger zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     logger.With().Str("component", "api_client").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LogInquiry records an order inquiry. A response that reports the inquiry
// was not logged is not an error.
func (c *Client) LogInquiry(ctx context.Context, inquiry model.Inquiry) error {
	var resp model.InquiryResponse
	if err := c.do(ctx, http.MethodPost, "/api/wishlist-inquiries", inquiry, &resp); err != nil {
		return fmt.Errorf("failed to log inquiry: %w", err)
	}

	if !resp.Logged {
		c.logger.Debug().
			Str("item_id", inquiry.ItemID).
			Str("reason", resp.Reason).
			Msg("inquiry accepted but not logged")
	}
	return nil
}

// Subscribe signs email up for the newsletter. Non-2xx responses are
// returned as *model.APIError.
func (c *Client) Subscribe(ctx context.Context, email, source string) (model.SignupResponse, error) {
	var resp model.SignupResponse
	req := model.SignupRequest{Email: email, Source: source}
	if err := c.do(ctx, http.MethodPost, "/api/newsletter-signups", req, &resp); err != nil {
		return model.SignupResponse{}, err
	}
	return resp, nil
}

// Products lists catalogue products matching q.
func (c *Client) Products(ctx context.Context, q string, limit, offset int) ([]model.Product, error) {
	params := url.Values{}
	if q != "" {
		params.Set("q", q)
	}
	if limit > 0 {
		params.Set("limit", fmt.Sprint(limit))
	}
	if offset > 0 {
		params.Set("offset", fmt.Sprint(offset))
	}

	path := "/api/products"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var products []model.Product
	if err := c.do(ctx, http.MethodGet, path, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Product fetches one catalogue product.
func (c *Client) Product(ctx context.Context, id string) (model.Product, error) {
	var product model.Product
	if err := c.do(ctx, http.MethodGet, "/api/products/"+url.PathEscape(id), nil, &product); err != nil {
		return model.Product{}, err
	}
	return product, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(middleware.CorrelationIDHeader, uuid.New().String())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseError(resp.StatusCode, respBody)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}

func parseError(status int, body []byte) error {
	var errResp model.ErrorResponse
	json.Unmarshal(body, &errResp) // best effort

	return &model.APIError{
		Status:  status,
		Message: errResp.Error,
		Details: errResp.Details,
	}
}

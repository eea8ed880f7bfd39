package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"hope-store/internal/model"

	"github.com/rs/zerolog"
)

const (
	signupsTable   = "newsletter_signups"
	inquiriesTable = "wishlist_inquiries"
)

// SupabaseClient writes rows through a Supabase project's REST interface.
type SupabaseClient struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewSupabaseClient creates a client for the project at baseURL. A nil
// httpClient uses a client with a 10 second timeout.
func NewSupabaseClient(baseURL, serviceKey string, httpClient *http.Client, logger zerolog.Logger) *SupabaseClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &SupabaseClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: serviceKey,
		httpClient: httpClient,
		logger:     logger.With().Str("repository", "supabase").Logger(),
	}
}

// insert posts rows to table. Any non-2xx response is a *StoreError
// carrying the response status and body.
func (c *SupabaseClient) insert(ctx context.Context, table string, rows any) error {
	body, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to encode %s rows: %w", table, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tableURL(table), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", table, err)
	}
	c.authorize(req)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=minimal")

	resp, err := c.do(req, table)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return c.checkStatus(resp, table)
}

// deleteWhere deletes the rows of table matching a PostgREST filter and
// returns the number removed.
func (c *SupabaseClient) deleteWhere(ctx context.Context, table string, filter url.Values) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.tableURL(table)+"?"+filter.Encode(), nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build %s request: %w", table, err)
	}
	c.authorize(req)
	req.Header.Set("Prefer", "return=minimal,count=exact")

	resp, err := c.do(req, table)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp, table); err != nil {
		return 0, err
	}
	return parseContentRangeTotal(resp.Header.Get("Content-Range")), nil
}

func (c *SupabaseClient) tableURL(table string) string {
	return c.baseURL + "/rest/v1/" + table
}

func (c *SupabaseClient) authorize(req *http.Request) {
	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
}

func (c *SupabaseClient) do(req *http.Request, table string) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("table", table).Msg("failed to reach supabase")
		return nil, &StoreError{
			Backend:     BackendSupabase,
			Details:     err.Error(),
			Unreachable: true,
			Err:         err,
		}
	}
	return resp, nil
}

func (c *SupabaseClient) checkStatus(resp *http.Response, table string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	details, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	c.logger.Warn().
		Int("status", resp.StatusCode).
		Str("table", table).
		Msg("supabase rejected request")

	return &StoreError{
		Backend: BackendSupabase,
		Status:  resp.StatusCode,
		Details: string(details),
	}
}

// parseContentRangeTotal reads N from "0-9/N" or "*/N"; unknown is 0.
func parseContentRangeTotal(header string) int64 {
	i := strings.LastIndexByte(header, '/')
	if i < 0 {
		return 0
	}
	n, err := strconv.ParseInt(header[i+1:], 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// supabaseSignupRepository implements SignupRepository over Supabase.
type supabaseSignupRepository struct {
	client *SupabaseClient
}

// NewSupabaseSignupRepository creates a Supabase-backed signup repository.
func NewSupabaseSignupRepository(client *SupabaseClient) SignupRepository {
	return &supabaseSignupRepository{client: client}
}

// Insert stores a signup; a 409 from Supabase is reported as
// model.ErrAlreadySubscribed.
func (r *supabaseSignupRepository) Insert(ctx context.Context, signup model.Signup) error {
	err := r.client.insert(ctx, signupsTable, []model.Signup{signup})

	var se *StoreError
	if errors.As(err, &se) && se.Status == http.StatusConflict {
		return model.ErrAlreadySubscribed
	}
	return err
}

// inquiryRow is the wire shape of a wishlist_inquiries row.
type inquiryRow struct {
	ItemID      string `json:"item_id"`
	Model       string `json:"model"`
	Storage     string `json:"storage"`
	Price       string `json:"price"`
	Message     string `json:"message"`
	WhatsappURL string `json:"whatsapp_url"`
	ExpiresAt   string `json:"expires_at"`
}

// supabaseInquiryRepository implements InquiryRepository over Supabase.
type supabaseInquiryRepository struct {
	client *SupabaseClient
}

// NewSupabaseInquiryRepository creates a Supabase-backed inquiry repository.
func NewSupabaseInquiryRepository(client *SupabaseClient) InquiryRepository {
	return &supabaseInquiryRepository{client: client}
}

// Insert stores an inquiry. Supabase assigns the row id.
func (r *supabaseInquiryRepository) Insert(ctx context.Context, record *model.InquiryRecord) error {
	row := inquiryRow{
		ItemID:      record.ItemID,
		Model:       record.Model,
		Storage:     record.Storage,
		Price:       record.Price,
		Message:     record.Message,
		WhatsappURL: record.WhatsappURL,
		ExpiresAt:   model.FormatTimestamp(record.ExpiresAt),
	}
	return r.client.insert(ctx, inquiriesTable, []inquiryRow{row})
}

// DeleteExpired removes inquiries whose expiry is before the given time.
func (r *supabaseInquiryRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	filter := url.Values{}
	filter.Set("expires_at", "lt."+model.FormatTimestamp(before))
	return r.client.deleteWhere(ctx, inquiriesTable, filter)
}

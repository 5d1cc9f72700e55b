package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/BruksfildServices01/booking-cleanup/internal/apperr"
	"github.com/BruksfildServices01/booking-cleanup/internal/domain/store"
	"github.com/BruksfildServices01/booking-cleanup/internal/models"
)

const restPath = "/rest/v1/"

// APIError is a non-2xx PostgREST response.
type APIError struct {
	Status  int
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("supabase status %d", e.Status)
	}
	if e.Code != "" {
		return fmt.Sprintf("supabase status %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("supabase status %d: %s", e.Status, e.Message)
}

// Client implements store.Store over the Supabase REST (PostgREST) API
// using the service-role key.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 25 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:  strings.TrimSpace(apiKey),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) do(
	ctx context.Context,
	method string,
	table string,
	query url.Values,
	prefer string,
	body any,
) ([]byte, error) {

	if models.ForTable(table) == nil {
		return nil, apperr.Errorf(apperr.CodeUnknownTable, "%s", table)
	}

	u := c.baseURL + restPath + table
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		r = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, r)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		if jsonErr := json.Unmarshal(out, apiErr); jsonErr != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(out))
		}
		return nil, apiErr
	}
	return out, nil
}

// ======================================================
// store.Store
// ======================================================

func (c *Client) Select(ctx context.Context, table string, filter store.Filter, dest any) error {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("order", "id.asc")
	for column, v := range filter.Eq {
		q.Set(column, "eq."+fmt.Sprint(v))
	}
	for column, values := range filter.In {
		q.Set(column, inList(values))
	}

	out, err := c.do(ctx, http.MethodGet, table, q, "", nil)
	if err != nil {
		return fmt.Errorf("select %s: %w", table, err)
	}
	if err := json.Unmarshal(out, dest); err != nil {
		return fmt.Errorf("decode %s: %w", table, err)
	}
	return nil
}

func (c *Client) Update(ctx context.Context, table, id string, fields map[string]any) error {
	q := url.Values{}
	q.Set("id", "eq."+id)

	out, err := c.do(ctx, http.MethodPatch, table, q, "return=representation", fields)
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", table, id, err)
	}
	n, err := countRows(out)
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", table, id, err)
	}
	if n == 0 {
		return fmt.Errorf("update %s/%s: %w", table, id, store.ErrNotFound)
	}
	return nil
}

func (c *Client) Delete(ctx context.Context, table, id string) error {
	q := url.Values{}
	q.Set("id", "eq."+id)

	out, err := c.do(ctx, http.MethodDelete, table, q, "return=representation", nil)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", table, id, err)
	}
	n, err := countRows(out)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", table, id, err)
	}
	if n == 0 {
		return fmt.Errorf("delete %s/%s: %w", table, id, store.ErrNotFound)
	}
	return nil
}

func (c *Client) Insert(ctx context.Context, table string, fields map[string]any) error {
	if _, err := c.do(ctx, http.MethodPost, table, nil, "return=minimal", fields); err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	return nil
}

func (c *Client) DeleteIn(ctx context.Context, table, column string, values []string) (int64, error) {
	if len(values) == 0 {
		return 0, nil
	}
	q := url.Values{}
	q.Set(column, inList(values))

	out, err := c.do(ctx, http.MethodDelete, table, q, "return=representation", nil)
	if err != nil {
		return 0, fmt.Errorf("delete %s where %s in list: %w", table, column, err)
	}
	n, err := countRows(out)
	if err != nil {
		return 0, fmt.Errorf("delete %s where %s in list: %w", table, column, err)
	}
	return int64(n), nil
}

// Ping checks credentials with a one-row read.
func (c *Client) Ping(ctx context.Context) error {
	q := url.Values{}
	q.Set("select", "id")
	q.Set("limit", "1")
	_, err := c.do(ctx, http.MethodGet, models.TableBookings, q, "", nil)
	return err
}

// inList renders a PostgREST in-filter with every value double-quoted so
// commas and parentheses inside ids survive.
func inList(values []string) string {
	sorted := append([]string(nil), values...)
	sort.Strings(sorted)

	quoted := make([]string, len(sorted))
	for i, v := range sorted {
		v = strings.ReplaceAll(v, `\`, `\\`)
		v = strings.ReplaceAll(v, `"`, `\"`)
		quoted[i] = `"` + v + `"`
	}
	return "in.(" + strings.Join(quoted, ",") + ")"
}

func countRows(out []byte) (int, error) {
	if len(bytes.TrimSpace(out)) == 0 {
		return 0, nil
	}
	var rows []json.RawMessage
	if err := json.Unmarshal(out, &rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}

var _ store.Store = (*Client)(nil)

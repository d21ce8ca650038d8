package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

// HTTPGateway implements Gateway (and AuthAPI) against the backend's REST
// surface. It is safe for concurrent use; the bearer token can be swapped
// at any time by the session.
type HTTPGateway struct {
	BaseURL string
	HTTP    *http.Client

	mu    sync.RWMutex
	token string
}

func NewHTTPGateway(baseURL string) *HTTPGateway {
	return &HTTPGateway{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (g *HTTPGateway) SetToken(token string) {
	g.mu.Lock()
	g.token = token
	g.mu.Unlock()
}

func (g *HTTPGateway) Token() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.token
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (g *HTTPGateway) do(ctx context.Context, method, path string, query url.Values, body, dest interface{}) error {
	u := g.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token := g.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := g.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode >= 400 {
			return &APIError{StatusCode: resp.StatusCode, Message: resp.Status}
		}
		return fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}

	if dest != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, dest); err != nil {
			return fmt.Errorf("decode data: %w", err)
		}
	}
	return nil
}

func listQuery(filters Filters, opts ReadOpts) url.Values {
	q := url.Values{}
	for col, expr := range filters {
		q.Set(col, expr)
	}
	if opts.Order != "" {
		q.Set("order", opts.Order)
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Offset > 0 {
		q.Set("offset", strconv.Itoa(opts.Offset))
	}
	return q
}

func (g *HTTPGateway) ReadFiltered(ctx context.Context, table string, filters Filters, opts ReadOpts, dest interface{}) error {
	return g.do(ctx, http.MethodGet, "/"+table, listQuery(filters, opts), nil, dest)
}

func (g *HTTPGateway) ReadOne(ctx context.Context, table string, filters Filters, dest interface{}) (bool, error) {
	var rows []json.RawMessage
	if err := g.ReadFiltered(ctx, table, filters, ReadOpts{Limit: 1}, &rows); err != nil {
		return false, err
	}
	if len(rows) == 0 {
		return false, nil
	}
	return true, json.Unmarshal(rows[0], dest)
}

func (g *HTTPGateway) Insert(ctx context.Context, table string, row, dest interface{}) error {
	return g.do(ctx, http.MethodPost, "/"+table, nil, row, dest)
}

func (g *HTTPGateway) InsertMany(ctx context.Context, table string, rows, dest interface{}) error {
	return g.do(ctx, http.MethodPost, "/"+table, nil, rows, dest)
}

func (g *HTTPGateway) Update(ctx context.Context, table, id string, patch map[string]interface{}, dest interface{}) error {
	return g.do(ctx, http.MethodPatch, "/"+table+"/"+id, nil, patch, dest)
}

func (g *HTTPGateway) Delete(ctx context.Context, table, id string) error {
	return g.do(ctx, http.MethodDelete, "/"+table+"/"+id, nil, nil, nil)
}

func (g *HTTPGateway) RPC(ctx context.Context, name string, args map[string]interface{}, dest interface{}) error {
	return g.do(ctx, http.MethodPost, "/rpc/"+name, nil, args, dest)
}

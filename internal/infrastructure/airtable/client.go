// Package airtable implementa el almacén de registros sobre la API REST de Airtable:
// cliente HTTP, constructor de fórmulas y repositorios con los nombres de campo en francés.
package airtable

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

	"github.com/rs/zerolog"

	"github.com/jhoicas/andyshop-api/internal/domain"
	"github.com/jhoicas/andyshop-api/pkg/config"
)

// batchSize máximo de registros por POST que acepta la API.
const batchSize = 10

// ── Tipos de la API ───────────────────────────────────────────────────────────

// Fields campos de un registro. Los números llegan como json.Number.
type Fields map[string]any

// Record registro tal como lo devuelve la API.
type Record struct {
	ID          string `json:"id"`
	CreatedTime string `json:"createdTime,omitempty"`
	Fields      Fields `json:"fields"`
}

// Sort criterio de orden; Direction "asc" (por defecto) o "desc".
type Sort struct {
	Field     string
	Direction string
}

// ListOptions parámetros de List.
type ListOptions struct {
	Filter     Formula
	Sort       []Sort
	MaxRecords int
}

// Records operaciones sobre tablas. Client la implementa; el journal de TxRunner la envuelve.
type Records interface {
	List(ctx context.Context, table string, opts ListOptions) ([]Record, error)
	Get(ctx context.Context, table, id string) (*Record, error)
	Create(ctx context.Context, table string, fields Fields) (*Record, error)
	CreateMany(ctx context.Context, table string, rows []Fields) ([]Record, error)
	Update(ctx context.Context, table, id string, fields Fields) (*Record, error)
	Delete(ctx context.Context, table, id string) error
}

// APIError respuesta no 2xx. Sin reintentos: el error sube tal cual al caso de uso.
type APIError struct {
	Method string
	Table  string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("airtable: %s %s: status %d: %s", e.Method, e.Table, e.Status, e.Body)
}

// Unwrap traduce el status a los errores de dominio.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusUnprocessableEntity:
		return domain.ErrInvalidInput
	default:
		return domain.ErrStoreUnavailable
	}
}

// ── Cliente ───────────────────────────────────────────────────────────────────

// Client cliente REST. Usa net/http de la stdlib.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        zerolog.Logger
}

// Option configura el cliente.
type Option func(*Client)

// WithHTTPClient reemplaza el http.Client (tests, proxies).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient construye el cliente para la base configurada.
func NewClient(cfg config.AirtableConfig, log zerolog.Logger, opts ...Option) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = "https://api.airtable.com/v0"
	}
	c := &Client{
		baseURL:    base + "/" + url.PathEscape(cfg.BaseID),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        log,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

var _ Records = (*Client)(nil)

type listResponse struct {
	Records []Record `json:"records"`
	Offset  string   `json:"offset"`
}

// List sigue el token offset hasta agotar las páginas.
func (c *Client) List(ctx context.Context, table string, opts ListOptions) ([]Record, error) {
	var (
		out    []Record
		offset string
	)
	for {
		q := url.Values{}
		if opts.Filter != nil {
			if f := opts.Filter.Formula(); f != "" {
				q.Set("filterByFormula", f)
			}
		}
		for i, s := range opts.Sort {
			dir := s.Direction
			if dir == "" {
				dir = "asc"
			}
			q.Set(fmt.Sprintf("sort[%d][field]", i), s.Field)
			q.Set(fmt.Sprintf("sort[%d][direction]", i), dir)
		}
		if opts.MaxRecords > 0 {
			q.Set("maxRecords", strconv.Itoa(opts.MaxRecords))
		}
		if offset != "" {
			q.Set("offset", offset)
		}

		var page listResponse
		if err := c.do(ctx, http.MethodGet, table, c.tableURL(table)+"?"+q.Encode(), nil, &page); err != nil {
			return nil, err
		}
		out = append(out, page.Records...)
		if page.Offset == "" {
			break
		}
		offset = page.Offset
	}
	c.log.Debug().Str("table", table).Int("records", len(out)).Msg("airtable: list")
	return out, nil
}

func (c *Client) Get(ctx context.Context, table, id string) (*Record, error) {
	var rec Record
	if err := c.do(ctx, http.MethodGet, table, c.recordURL(table, id), nil, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (c *Client) Create(ctx context.Context, table string, fields Fields) (*Record, error) {
	var rec Record
	if err := c.do(ctx, http.MethodPost, table, c.tableURL(table), map[string]any{"fields": fields}, &rec); err != nil {
		return nil, err
	}
	c.log.Debug().Str("table", table).Str("id", rec.ID).Msg("airtable: create")
	return &rec, nil
}

// CreateMany crea en lotes de 10 y concatena los resultados en orden.
// Si un lote falla, los ya creados no se deshacen aquí (ver TxRunner).
func (c *Client) CreateMany(ctx context.Context, table string, rows []Fields) ([]Record, error) {
	out := make([]Record, 0, len(rows))
	for start := 0; start < len(rows); start += batchSize {
		end := start + batchSize
		if end > len(rows) {
			end = len(rows)
		}
		payload := make([]map[string]any, 0, end-start)
		for _, f := range rows[start:end] {
			payload = append(payload, map[string]any{"fields": f})
		}
		var resp listResponse
		if err := c.do(ctx, http.MethodPost, table, c.tableURL(table), map[string]any{"records": payload}, &resp); err != nil {
			return out, err
		}
		out = append(out, resp.Records...)
	}
	c.log.Debug().Str("table", table).Int("records", len(out)).Msg("airtable: create many")
	return out, nil
}

func (c *Client) Update(ctx context.Context, table, id string, fields Fields) (*Record, error) {
	var rec Record
	if err := c.do(ctx, http.MethodPatch, table, c.recordURL(table, id), map[string]any{"fields": fields}, &rec); err != nil {
		return nil, err
	}
	c.log.Debug().Str("table", table).Str("id", id).Msg("airtable: update")
	return &rec, nil
}

func (c *Client) Delete(ctx context.Context, table, id string) error {
	if err := c.do(ctx, http.MethodDelete, table, c.recordURL(table, id), nil, nil); err != nil {
		return err
	}
	c.log.Debug().Str("table", table).Str("id", id).Msg("airtable: delete")
	return nil
}

func (c *Client) tableURL(table string) string {
	return c.baseURL + "/" + url.PathEscape(table)
}

func (c *Client) recordURL(table, id string) string {
	return c.tableURL(table) + "/" + url.PathEscape(id)
}

// do ejecuta la llamada y decodifica la respuesta en out (si no es nil) con UseNumber.
func (c *Client) do(ctx context.Context, method, table, rawURL string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("airtable: serializar %s: %w", table, err)
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return fmt.Errorf("airtable: crear request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("airtable: %s %s: %w", method, table, ctx.Err())
		}
		return fmt.Errorf("airtable: %s %s: %w: %v", method, table, domain.ErrStoreUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return fmt.Errorf("airtable: leer respuesta: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Method: method, Table: table, Status: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("airtable: decodificar %s: %w", table, err)
	}
	return nil
}

// IsNotFound atajo para errors.Is(err, domain.ErrNotFound).
func IsNotFound(err error) bool { return errors.Is(err, domain.ErrNotFound) }

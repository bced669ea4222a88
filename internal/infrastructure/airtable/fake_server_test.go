package airtable_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/jhoicas/andyshop-api/internal/infrastructure/airtable"
	"github.com/jhoicas/andyshop-api/pkg/config"
)

// fakeAirtable servidor mínimo con la forma de la API REST: pagina de a pageSize
// registros, ignora filterByFormula y guarda las peticiones recibidas.
type fakeAirtable struct {
	mu       sync.Mutex
	tables   map[string]map[string]map[string]any
	order    map[string][]string
	seq      int
	pageSize int
	requests []*http.Request
	failOn   func(r *http.Request) int
}

func newFakeAirtable() *fakeAirtable {
	return &fakeAirtable{
		tables:   map[string]map[string]map[string]any{},
		order:    map[string][]string{},
		pageSize: 100,
	}
}

func (f *fakeAirtable) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, r.Clone(r.Context()))

	if r.Header.Get("Authorization") != "Bearer key-test" {
		http.Error(w, `{"error":"AUTHENTICATION_REQUIRED"}`, http.StatusUnauthorized)
		return
	}
	if f.failOn != nil {
		if status := f.failOn(r); status != 0 {
			http.Error(w, `{"error":"forced"}`, status)
			return
		}
	}

	// /v0/{base}/{table}[/{id}]
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/v0/"), "/")
	table, _ := url.PathUnescape(parts[1])
	id := ""
	if len(parts) > 2 {
		id = parts[2]
	}
	rows := f.tables[table]
	if rows == nil {
		rows = map[string]map[string]any{}
		f.tables[table] = rows
	}

	switch {
	case r.Method == http.MethodGet && id == "":
		f.list(w, r, table)
	case r.Method == http.MethodGet:
		row, ok := rows[id]
		if !ok {
			http.Error(w, `{"error":"NOT_FOUND"}`, http.StatusNotFound)
			return
		}
		writeJSON(w, record(id, row))
	case r.Method == http.MethodPost:
		var body struct {
			Fields  map[string]any `json:"fields"`
			Records []struct {
				Fields map[string]any `json:"fields"`
			} `json:"records"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Records == nil {
			writeJSON(w, record(f.insert(table, body.Fields), body.Fields))
			return
		}
		if len(body.Records) > 10 {
			http.Error(w, `{"error":"TOO_MANY_RECORDS"}`, http.StatusUnprocessableEntity)
			return
		}
		out := make([]map[string]any, 0, len(body.Records))
		for _, rec := range body.Records {
			out = append(out, record(f.insert(table, rec.Fields), rec.Fields))
		}
		writeJSON(w, map[string]any{"records": out})
	case r.Method == http.MethodPatch:
		row, ok := rows[id]
		if !ok {
			http.Error(w, `{"error":"NOT_FOUND"}`, http.StatusNotFound)
			return
		}
		var body struct {
			Fields map[string]any `json:"fields"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		for k, v := range body.Fields {
			if v == nil {
				delete(row, k)
				continue
			}
			row[k] = v
		}
		writeJSON(w, record(id, row))
	case r.Method == http.MethodDelete:
		if _, ok := rows[id]; !ok {
			http.Error(w, `{"error":"NOT_FOUND"}`, http.StatusNotFound)
			return
		}
		delete(rows, id)
		writeJSON(w, map[string]any{"id": id, "deleted": true})
	default:
		http.Error(w, "", http.StatusMethodNotAllowed)
	}
}

func (f *fakeAirtable) list(w http.ResponseWriter, r *http.Request, table string) {
	ids := make([]string, 0)
	for _, id := range f.order[table] {
		if _, ok := f.tables[table][id]; ok {
			ids = append(ids, id)
		}
	}
	if field := r.URL.Query().Get("sort[0][field]"); field != "" {
		desc := r.URL.Query().Get("sort[0][direction]") == "desc"
		sort.SliceStable(ids, func(i, j int) bool {
			a := fmt.Sprint(f.tables[table][ids[i]][field])
			b := fmt.Sprint(f.tables[table][ids[j]][field])
			if desc {
				return a > b
			}
			return a < b
		})
	}
	if m, err := strconv.Atoi(r.URL.Query().Get("maxRecords")); err == nil && m < len(ids) {
		ids = ids[:m]
	}
	start, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	end := start + f.pageSize
	resp := map[string]any{}
	if end < len(ids) {
		resp["offset"] = strconv.Itoa(end)
	} else {
		end = len(ids)
	}
	out := make([]map[string]any, 0, end-start)
	for _, id := range ids[start:end] {
		out = append(out, record(id, f.tables[table][id]))
	}
	resp["records"] = out
	writeJSON(w, resp)
}

func (f *fakeAirtable) insert(table string, fields map[string]any) string {
	f.seq++
	id := fmt.Sprintf("rec%03d", f.seq)
	if fields == nil {
		fields = map[string]any{}
	}
	f.tables[table][id] = fields
	f.order[table] = append(f.order[table], id)
	return id
}

func (f *fakeAirtable) count(table string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tables[table])
}

func (f *fakeAirtable) field(table, id, key string) any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tables[table][id][key]
}

func (f *fakeAirtable) requestCount(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.requests {
		if r.Method == method {
			n++
		}
	}
	return n
}

func record(id string, fields map[string]any) map[string]any {
	return map[string]any{"id": id, "createdTime": "2025-03-01T08:00:00.000Z", "fields": fields}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func testConfig(baseURL string) config.AirtableConfig {
	return config.AirtableConfig{APIKey: "key-test", BaseID: "appTEST", BaseURL: baseURL + "/v0"}
}

// newTestStore levanta el servidor falso y devuelve cliente y store conectados.
func newTestStore(t *testing.T) (*fakeAirtable, *airtable.Client, *airtable.Store) {
	t.Helper()
	fake := newFakeAirtable()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	cfg := testConfig(srv.URL)
	client := airtable.NewClient(cfg, zerolog.Nop(), airtable.WithHTTPClient(srv.Client()))
	return fake, client, airtable.NewStore(client, cfg, zerolog.Nop())
}

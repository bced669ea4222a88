package airtable

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/andyshop-api/internal/domain/debt"
)

// Lectura tolerante de campos: Airtable omite los campos vacíos y devuelve los vínculos
// como arreglos de IDs.

func (f Fields) str(key string) string {
	switch v := f[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func (f Fields) dec(key string) decimal.Decimal {
	switch v := f[key].(type) {
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		if err == nil {
			return d
		}
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		if err == nil {
			return d
		}
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	}
	return decimal.Zero
}

func (f Fields) nullDec(key string) decimal.NullDecimal {
	if _, ok := f[key]; !ok || f[key] == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(f.dec(key))
}

func (f Fields) count(key string) int {
	switch v := f[key].(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
		if fl, err := v.Float64(); err == nil {
			return int(fl)
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}

func (f Fields) flag(key string) bool {
	v, _ := f[key].(bool)
	return v
}

// link primer ID de un campo vinculado ([]any de strings) o el texto si se guardó plano.
func (f Fields) link(key string) string {
	switch v := f[key].(type) {
	case []any:
		if len(v) > 0 {
			s, _ := v[0].(string)
			return s
		}
	case []string:
		if len(v) > 0 {
			return v[0]
		}
	case string:
		return v
	}
	return ""
}

// date acepta fecha calendario o RFC3339; vacío o inválido → cero.
func (f Fields) date(key string) time.Time {
	s := f.str(key)
	if s == "" {
		return time.Time{}
	}
	t, err := debt.ParseDate(s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func (f Fields) timePtr(key string) *time.Time {
	t := f.date(key)
	if t.IsZero() {
		return nil
	}
	return &t
}

// createdAt usa date_creation si existe y si no el createdTime del registro.
func createdAt(r *Record, key string) time.Time {
	if t := r.Fields.date(key); !t.IsZero() {
		return t
	}
	t, err := time.Parse(time.RFC3339, r.CreatedTime)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

// ── Escritura ─────────────────────────────────────────────────────────────────

func links(id string) []string {
	if id == "" {
		return nil
	}
	return []string{id}
}

func dateOnly(t time.Time) string {
	return t.UTC().Format(debt.DateLayout)
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// number serializa un decimal como número JSON sin pasar por float64.
func number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

package airtable

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Formula expresión filterByFormula. Se construye con Eq, Neq, Gt, Lt, And y Or para no
// concatenar texto a mano.
type Formula interface {
	Formula() string
}

// Raw fórmula escrita a mano (escape de emergencia).
type Raw string

func (r Raw) Formula() string { return string(r) }

type comparison struct {
	field string
	op    string
	value any
}

func (c comparison) Formula() string {
	return "{" + c.field + "}" + c.op + literal(c.value)
}

// Eq {field}=value
func Eq(field string, value any) Formula { return comparison{field, "=", value} }

// Neq {field}!=value
func Neq(field string, value any) Formula { return comparison{field, "!=", value} }

// Gt {field}>value
func Gt(field string, value any) Formula { return comparison{field, ">", value} }

// Lt {field}<value
func Lt(field string, value any) Formula { return comparison{field, "<", value} }

type group struct {
	fn    string
	terms []Formula
}

func (g group) Formula() string {
	parts := make([]string, 0, len(g.terms))
	for _, t := range g.terms {
		if t == nil {
			continue
		}
		if f := t.Formula(); f != "" {
			parts = append(parts, f)
		}
	}
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	}
	return g.fn + "(" + strings.Join(parts, ", ") + ")"
}

// And todas las condiciones.
func And(terms ...Formula) Formula { return group{"AND", terms} }

// Or alguna de las condiciones.
func Or(terms ...Formula) Formula { return group{"OR", terms} }

// literal serializa value: textos entre comillas dobles con \ y " escapados.
func literal(value any) string {
	switch v := value.(type) {
	case nil:
		return "BLANK()"
	case string:
		return quote(v)
	case bool:
		if v {
			return "TRUE()"
		}
		return "FALSE()"
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case decimal.Decimal:
		return v.String()
	case fmt.Stringer:
		return quote(v.String())
	default:
		return quote(fmt.Sprint(v))
	}
}

func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + r.Replace(s) + `"`
}

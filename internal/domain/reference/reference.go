// Package reference genera los números de referencia PREFIJO-AÑO-NNN de ventas, pagos y lotes.
package reference

import (
	"fmt"
	"strings"

	"github.com/jhoicas/andyshop-api/pkg/clock"
)

// Kind tipo de documento.
type Kind string

const (
	KindSale    Kind = "sale"
	KindPayment Kind = "payment"
	KindLot     Kind = "lot"
)

var prefixes = map[string]string{
	"sale": "VTE", "vente": "VTE",
	"payment": "PAY", "paiement": "PAY",
	"lot": "LOT",
}

// Prefix prefijo del tipo; REF para tipos desconocidos.
func Prefix(kind Kind) string {
	if p, ok := prefixes[strings.ToLower(string(kind))]; ok {
		return p
	}
	return "REF"
}

// Format arma PREFIJO-AÑO-NNN; el número se rellena con ceros hasta 3 dígitos como mínimo.
func Format(kind Kind, year int, seed int64) string {
	return fmt.Sprintf("%s-%d-%03d", Prefix(kind), year, seed)
}

// Generator produce referencias usando el reloj para el año y, por defecto, los milisegundos como semilla.
type Generator struct {
	clock clock.Clock
	seed  func() int64
}

// NewGenerator crea un generador; c nil usa el reloj real.
func NewGenerator(c clock.Clock) *Generator {
	if c == nil {
		c = clock.Real{}
	}
	g := &Generator{clock: c}
	g.seed = func() int64 { return g.clock.Now().UnixMilli() }
	return g
}

// WithSeed reemplaza la fuente de la semilla (contador, secuencia de BD...).
func (g *Generator) WithSeed(seed func() int64) *Generator {
	g.seed = seed
	return g
}

// Next referencia para kind con el año actual.
func (g *Generator) Next(kind Kind) string {
	return Format(kind, g.clock.Now().Year(), g.seed())
}

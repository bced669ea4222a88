// Package clock abstrae la hora actual para que la lógica de dominio no llame time.Now() directamente.
package clock

import "time"

// Clock devuelve el instante actual.
type Clock interface {
	Now() time.Time
}

// Real usa la hora del sistema.
type Real struct{}

// Now devuelve time.Now().
func (Real) Now() time.Time { return time.Now() }

// Fixed devuelve siempre el mismo instante (tests).
type Fixed struct {
	T time.Time
}

// Now devuelve el instante fijo.
func (c Fixed) Now() time.Time { return c.T }

// Func adapta una función a Clock.
type Func func() time.Time

// Now invoca la función.
func (f Func) Now() time.Time { return f() }

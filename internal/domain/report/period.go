// Package report agrega ventas, líneas y deudas por período (ingresos, márgenes, ranking de artículos).
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/andyshop-api/internal/domain"
)

// Period granularidad de agrupación.
type Period string

const (
	PeriodDay     Period = "day"
	PeriodWeek    Period = "week"
	PeriodMonth   Period = "month"
	PeriodQuarter Period = "quarter"
	PeriodYear    Period = "year"
)

var periodAliases = map[string]Period{
	"day": PeriodDay, "jour": PeriodDay,
	"week": PeriodWeek, "semaine": PeriodWeek,
	"month": PeriodMonth, "mois": PeriodMonth,
	"quarter": PeriodQuarter, "trimestre": PeriodQuarter,
	"year": PeriodYear, "annee": PeriodYear, "année": PeriodYear,
}

// ParsePeriod acepta el nombre en inglés o francés; vacío → month.
func ParsePeriod(s string) (Period, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return PeriodMonth, nil
	}
	if p, ok := periodAliases[s]; ok {
		return p, nil
	}
	return "", &domain.ValidationError{Field: "period", Err: fmt.Errorf("período desconocido %q", s)}
}

// Key clave de agrupación de t (en UTC). Formatos con ceros a la izquierda para que el orden
// lexicográfico coincida con el cronológico:
//
//	day     2025-03-15
//	week    2025-S11   (semana ISO-8601, lunes como inicio; el año es el año ISO)
//	month   2025-03
//	quarter 2025-T1
//	year    2025
func Key(t time.Time, p Period) string {
	t = t.UTC()
	switch p {
	case PeriodWeek:
		y, w := t.ISOWeek()
		return fmt.Sprintf("%04d-S%02d", y, w)
	case PeriodMonth:
		return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
	case PeriodQuarter:
		return fmt.Sprintf("%04d-T%d", t.Year(), (int(t.Month())-1)/3+1)
	case PeriodYear:
		return fmt.Sprintf("%04d", t.Year())
	default:
		return t.Format("2006-01-02")
	}
}

// Start inicio (UTC) del período actual que contiene now. "30d" no es un Period: ver Last30Days.
func Start(p Period, now time.Time) time.Time {
	now = now.UTC()
	y, m, d := now.Date()
	switch p {
	case PeriodDay:
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	case PeriodWeek:
		wd := int(now.Weekday())
		if wd == 0 {
			wd = 7
		}
		return time.Date(y, m, d-(wd-1), 0, 0, 0, 0, time.UTC)
	case PeriodQuarter:
		q := (int(m) - 1) / 3
		return time.Date(y, time.Month(q*3+1), 1, 0, 0, 0, 0, time.UTC)
	case PeriodYear:
		return time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	}
}

// Last30Days instante 30 días antes de now.
func Last30Days(now time.Time) time.Time {
	return now.AddDate(0, 0, -30)
}

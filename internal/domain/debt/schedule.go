package debt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/andyshop-api/internal/domain/entity"
)

// DateLayout formato de fecha calendario de las cuotas.
const DateLayout = "2006-01-02"

// scheduleEntry forma serializada de una cuota. Se acepta "montant" (formato histórico) o "amount".
type scheduleEntry struct {
	Date    string           `json:"date"`
	Montant *decimal.Decimal `json:"montant,omitempty"`
	Amount  *decimal.Decimal `json:"amount,omitempty"`
}

// ParseSchedule convierte el calendario guardado en el registro en cuotas tipadas.
// raw puede ser texto JSON ([]byte, string, json.RawMessage), una estructura ya decodificada
// ([]any, []map[string]any) o []entity.Installment, que se devuelve tal cual.
// Nulo, vacío o JSON inválido → calendario vacío; el error se registra en log y nunca se propaga.
func ParseSchedule(raw any, log zerolog.Logger) []entity.Installment {
	var data []byte
	switch v := raw.(type) {
	case nil:
		return []entity.Installment{}
	case []entity.Installment:
		return v
	case string:
		data = []byte(v)
	case []byte:
		data = v
	case json.RawMessage:
		data = v
	default:
		b, err := json.Marshal(v)
		if err != nil {
			log.Warn().Err(err).Msg("echeancier: estructura no serializable, se usa calendario vacío")
			return []entity.Installment{}
		}
		data = b
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return []entity.Installment{}
	}

	var entries []scheduleEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Warn().Err(err).Str("raw", truncate(string(data), 120)).Msg("echeancier: JSON inválido, se usa calendario vacío")
		return []entity.Installment{}
	}

	out := make([]entity.Installment, 0, len(entries))
	for i, e := range entries {
		date, err := parseDate(e.Date)
		if err != nil {
			log.Warn().Err(err).Int("index", i).Msg("echeancier: fecha inválida, cuota ignorada")
			continue
		}
		amount := decimal.Zero
		switch {
		case e.Montant != nil:
			amount = *e.Montant
		case e.Amount != nil:
			amount = *e.Amount
		}
		out = append(out, entity.Installment{Date: date, Amount: amount})
	}
	return out
}

// MarshalSchedule serializa el calendario con el formato histórico {date, montant}.
func MarshalSchedule(items []entity.Installment) (string, error) {
	type wire struct {
		Date    string      `json:"date"`
		Montant json.Number `json:"montant"`
	}
	out := make([]wire, 0, len(items))
	for _, it := range items {
		out = append(out, wire{Date: it.Date.UTC().Format(DateLayout), Montant: json.Number(it.Amount.String())})
	}
	b, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("echeancier: %w", err)
	}
	return string(b), nil
}

// SortSchedule ordena ascendentemente por fecha (estable). Se aplica al escribir.
func SortSchedule(items []entity.Installment) []entity.Installment {
	out := append([]entity.Installment(nil), items...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// ParseDate interpreta "YYYY-MM-DD" como 00:00 UTC; también acepta RFC3339.
func ParseDate(s string) (time.Time, error) { return parseDate(s) }

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("fecha vacía")
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("fecha %q: %w", s, err)
	}
	return t.UTC(), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}

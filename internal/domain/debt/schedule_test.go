package debt_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/andyshop-api/internal/domain/debt"
	"github.com/jhoicas/andyshop-api/internal/domain/entity"
)

func TestParseSchedule_FormatoHistorico(t *testing.T) {
	raw := `[{"date":"2025-03-14","montant":100},{"date":"2025-03-16","montant":"200"}]`
	items := debt.ParseSchedule(raw, zerolog.Nop())

	require.Len(t, items, 2)
	assert.Equal(t, day(2025, 3, 14), items[0].Date)
	assert.True(t, items[0].Amount.Equal(amt(100)))
	assert.True(t, items[1].Amount.Equal(amt(200)))
}

func TestParseSchedule_CampoAmount(t *testing.T) {
	items := debt.ParseSchedule([]byte(`[{"date":"2025-05-01","amount":750}]`), zerolog.Nop())
	require.Len(t, items, 1)
	assert.True(t, items[0].Amount.Equal(amt(750)))
}

func TestParseSchedule_JSONInvalido_RegistraYDevuelveVacio(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	items := debt.ParseSchedule("{no es json", log)
	assert.NotNil(t, items)
	assert.Empty(t, items)
	assert.Contains(t, buf.String(), "echeancier")
	assert.Contains(t, buf.String(), `"level":"warn"`)
}

func TestParseSchedule_VacioYNull(t *testing.T) {
	for _, raw := range []any{nil, "", "   ", "null", json.RawMessage("null")} {
		assert.Empty(t, debt.ParseSchedule(raw, zerolog.Nop()), "raw=%v", raw)
	}
}

func TestParseSchedule_EstructuraYaDecodificada(t *testing.T) {
	typed := []entity.Installment{{Date: day(2025, 1, 1), Amount: amt(10)}}
	assert.Equal(t, typed, debt.ParseSchedule(typed, zerolog.Nop()))

	decoded := []any{map[string]any{"date": "2025-02-01", "montant": 40.0}}
	items := debt.ParseSchedule(decoded, zerolog.Nop())
	require.Len(t, items, 1)
	assert.True(t, items[0].Amount.Equal(amt(40)))
}

func TestParseSchedule_FechaInvalidaSeIgnora(t *testing.T) {
	items := debt.ParseSchedule(`[{"date":"mañana","montant":1},{"date":"2025-02-01","montant":2}]`, zerolog.Nop())
	require.Len(t, items, 1)
	assert.Equal(t, day(2025, 2, 1), items[0].Date)
}

func TestMarshalSchedule_IdaYVuelta(t *testing.T) {
	in := []entity.Installment{
		{Date: day(2025, 4, 1), Amount: amt(200)},
		{Date: day(2025, 5, 1), Amount: amt(100)},
	}
	s, err := debt.MarshalSchedule(in)
	require.NoError(t, err)
	assert.Equal(t, `[{"date":"2025-04-01","montant":200},{"date":"2025-05-01","montant":100}]`, s)

	back := debt.ParseSchedule(s, zerolog.Nop())
	require.Len(t, back, 2)
	assert.Equal(t, in[0].Date, back[0].Date)
	assert.True(t, in[1].Amount.Equal(back[1].Amount))
}

func TestSortSchedule_NoModificaEntrada(t *testing.T) {
	in := []entity.Installment{
		{Date: day(2025, 5, 1), Amount: amt(1)},
		{Date: day(2025, 4, 1), Amount: amt(2)},
	}
	out := debt.SortSchedule(in)
	assert.Equal(t, day(2025, 4, 1), out[0].Date)
	assert.Equal(t, day(2025, 5, 1), in[0].Date)
}

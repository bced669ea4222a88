package xlsx_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/andyshop-api/internal/application/dto"
	"github.com/jhoicas/andyshop-api/internal/infrastructure/xlsx"
)

func TestExport_UnaHojaPorTabla(t *testing.T) {
	tables := []dto.ExportTableDTO{
		{
			Title:   "Chiffre d'affaires par mois",
			Sheet:   "CA",
			Headers: []string{"Période", "Ventes", "CA"},
			Rows:    [][]any{{"Mars 2025", 2, 6500.0}, {"Février 2025", 1, 3000.0}},
			Totals:  []any{"Total", 3, 9500.0},
		},
		{Title: "Dettes", Sheet: "Dettes", Headers: []string{"Client", "Solde"}, Rows: [][]any{{"Awa", 4000.0}}},
	}

	out, err := xlsx.NewExporter().Export(context.Background(), tables...)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"CA", "Dettes"}, f.GetSheetList())

	title, err := f.GetCellValue("CA", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Chiffre d'affaires par mois", title)

	header, err := f.GetCellValue("CA", "B3")
	require.NoError(t, err)
	assert.Equal(t, "Ventes", header)

	ca, err := f.GetCellValue("CA", "C4")
	require.NoError(t, err)
	assert.Equal(t, "6500", ca)

	total, err := f.GetCellValue("CA", "A6")
	require.NoError(t, err)
	assert.Equal(t, "Total", total)
}

func TestExport_NombreDeHojaLargoSeRecorta(t *testing.T) {
	out, err := xlsx.NewExporter().Export(context.Background(), dto.ExportTableDTO{
		Title: "Un titre beaucoup trop long pour une feuille Excel",
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()
	require.Len(t, f.GetSheetList(), 1)
	assert.Len(t, []rune(f.GetSheetList()[0]), 31)
}

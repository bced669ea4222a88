// Package xlsx exporta las tablas de reporte a un libro .xlsx (una hoja por tabla).
package xlsx

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/andyshop-api/internal/application/dto"
	"github.com/jhoicas/andyshop-api/internal/application/ports"
)

// Exporter implementa ports.ReportExporter con excelize.
type Exporter struct{}

var _ ports.ReportExporter = (*Exporter)(nil)

func NewExporter() *Exporter { return &Exporter{} }

// Export escribe título, cabecera, filas y totales por hoja. Sin tablas devuelve un libro
// con la hoja por defecto vacía.
func (e *Exporter) Export(ctx context.Context, tables ...dto.ExportTableDTO) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	styles, err := newStyles(f)
	if err != nil {
		return nil, err
	}

	for i, t := range tables {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sheet := sheetName(t, i)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return nil, fmt.Errorf("xlsx: renombrar hoja: %w", err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return nil, fmt.Errorf("xlsx: crear hoja %s: %w", sheet, err)
		}
		if err := writeTable(f, sheet, t, styles); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: escribir libro: %w", err)
	}
	return buf.Bytes(), nil
}

type styles struct {
	title, header, total int
}

func newStyles(f *excelize.File) (styles, error) {
	title, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return styles{}, fmt.Errorf("xlsx: estilo: %w", err)
	}
	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"78285A"}},
	})
	if err != nil {
		return styles{}, fmt.Errorf("xlsx: estilo: %w", err)
	}
	total, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Border: []excelize.Border{{Type: "top", Color: "000000", Style: 1}},
	})
	if err != nil {
		return styles{}, fmt.Errorf("xlsx: estilo: %w", err)
	}
	return styles{title: title, header: header, total: total}, nil
}

// writeTable fila 1 título, fila 3 cabecera, datos desde la fila 4.
func writeTable(f *excelize.File, sheet string, t dto.ExportTableDTO, st styles) error {
	if err := f.SetCellValue(sheet, "A1", t.Title); err != nil {
		return fmt.Errorf("xlsx: %s: %w", sheet, err)
	}
	_ = f.SetCellStyle(sheet, "A1", "A1", st.title)

	rowIdx := 3
	if len(t.Headers) > 0 {
		if err := setRow(f, sheet, rowIdx, toAny(t.Headers)); err != nil {
			return err
		}
		first, _ := excelize.CoordinatesToCellName(1, rowIdx)
		last, _ := excelize.CoordinatesToCellName(len(t.Headers), rowIdx)
		_ = f.SetCellStyle(sheet, first, last, st.header)
		_ = f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: rowIdx, TopLeftCell: "A4", ActivePane: "bottomLeft"})
		rowIdx++
	}

	for _, r := range t.Rows {
		if err := setRow(f, sheet, rowIdx, r); err != nil {
			return err
		}
		rowIdx++
	}

	if len(t.Totals) > 0 {
		if err := setRow(f, sheet, rowIdx, t.Totals); err != nil {
			return err
		}
		first, _ := excelize.CoordinatesToCellName(1, rowIdx)
		last, _ := excelize.CoordinatesToCellName(len(t.Totals), rowIdx)
		_ = f.SetCellStyle(sheet, first, last, st.total)
	}

	cols := len(t.Headers)
	for c := 1; c <= cols; c++ {
		name, _ := excelize.ColumnNumberToName(c)
		_ = f.SetColWidth(sheet, name, name, 18)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, rowIdx int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, rowIdx)
	if err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("xlsx: %s fila %d: %w", sheet, rowIdx, err)
	}
	return nil
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

// sheetName nombre de hoja válido (máx. 31 caracteres, único por posición si falta).
func sheetName(t dto.ExportTableDTO, i int) string {
	name := t.Sheet
	if name == "" {
		name = t.Title
	}
	if name == "" {
		name = fmt.Sprintf("Rapport %d", i+1)
	}
	r := []rune(name)
	if len(r) > 31 {
		name = string(r[:31])
	}
	return name
}

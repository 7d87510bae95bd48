// Package export renders receipt summaries as spreadsheets.
package export

import (
	"fmt"
	"io"
	"time"

	"recepcion/pkg/types"

	"github.com/xuri/excelize/v2"
)

const (
	sheetName   = "Formularios"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var summaryHeaders = []interface{}{"N° Orden", "Fecha", "Departamento", "Usuario Responsable", "Estado"}

func FileName(now time.Time) string {
	return fmt.Sprintf("formularios_%s.xlsx", now.Format(types.DateLayout))
}

func summaryRow(item types.RecordSummary) []interface{} {
	return []interface{}{
		item.ID,
		types.DisplayDate(item.Date),
		item.Department,
		item.ResponsibleUser,
		item.Status.Label(),
	}
}

// Summaries builds the workbook for items, one row per receipt below a bold
// header row.
func Summaries(items []types.RecordSummary) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	if err := f.SetSheetRow(sheetName, "A1", &summaryHeaders); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	if err := f.SetCellStyle(sheetName, "A1", "E1", style); err != nil {
		return nil, fmt.Errorf("style header: %w", err)
	}

	for i, item := range items {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := summaryRow(item)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "B", 14)
	_ = f.SetColWidth(sheetName, "C", "D", 30)
	_ = f.SetColWidth(sheetName, "E", "E", 14)

	return f, nil
}

// WriteSummaries streams the workbook for items to w.
func WriteSummaries(w io.Writer, items []types.RecordSummary) error {
	f, err := Summaries(items)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

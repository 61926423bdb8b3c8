package performance

import (
	"fmt"
	"time"

	"kam_backend/platform/apperr"

	"github.com/xuri/excelize/v2"
)

const (
	sheetWellPerforming  = "Well performing"
	sheetUnderperforming = "Underperforming"
)

// BuildWorkbook renders both reports into one workbook, one sheet each.
// The caller closes the returned file.
func BuildWorkbook(well WellPerformingResponse, under UnderperformingResponse) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", sheetWellPerforming); err != nil {
		_ = f.Close()
		return nil, apperr.Wrap(apperr.KindInternal, "failed to build export", err)
	}
	if _, err := f.NewSheet(sheetUnderperforming); err != nil {
		_ = f.Close()
		return nil, apperr.Wrap(apperr.KindInternal, "failed to build export", err)
	}

	rows := [][]interface{}{{"Lead ID", "Name", "Status", "Orders"}}
	for _, a := range well.WellPerformingAccounts {
		rows = append(rows, []interface{}{a.Lead.ID.String(), a.Lead.Name, a.Lead.Status, a.OrderCount})
	}
	if err := writeRows(f, sheetWellPerforming, rows); err != nil {
		_ = f.Close()
		return nil, err
	}

	rows = [][]interface{}{{"Lead ID", "Name", "Status", "Orders", "Expected orders", "Last order"}}
	for _, a := range under.UnderperformingAccounts {
		last := ""
		if a.LastOrderDate != nil {
			last = a.LastOrderDate.UTC().Format(time.RFC3339)
		}
		rows = append(rows, []interface{}{a.Lead.ID.String(), a.Lead.Name, a.Lead.Status, a.OrderCount, a.ExpectedOrders, last})
	}
	if err := writeRows(f, sheetUnderperforming, rows); err != nil {
		_ = f.Close()
		return nil, err
	}

	return f, nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for r, row := range rows {
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, r+1)
			if err != nil {
				return apperr.Wrap(apperr.KindInternal, "failed to build export", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return apperr.Wrap(apperr.KindInternal, fmt.Sprintf("failed to write %s", sheet), err)
			}
		}
	}
	return nil
}

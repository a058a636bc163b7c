// Package export renders payroll registers as XLSX workbooks.
package export

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// RegisterRow is one payroll line of a register. Amounts is keyed by the
// column names passed to WriteRegister.
type RegisterRow struct {
	EmployeeCode   string
	EmployeeName   string
	Status         string
	WorkingDays    int
	DeductibleDays int
	Amounts        map[string]decimal.Decimal
	Total          decimal.Decimal
}

var fixedHeaders = []string{"Employee Code", "Employee Name", "Status", "Working Days", "Deductible Days"}

// WriteRegister writes a single sheet named sheet with one row per payroll
// and one column per amount column, followed by the total.
func WriteRegister(w io.Writer, sheet string, columns []string, rows []RegisterRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]interface{}, 0, len(fixedHeaders)+len(columns)+1)
	for _, h := range fixedHeaders {
		header = append(header, h)
	}
	for _, c := range columns {
		header = append(header, c)
	}
	header = append(header, "Total")

	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	money, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return fmt.Errorf("create money style: %w", err)
	}

	for i, r := range rows {
		values := []interface{}{r.EmployeeCode, r.EmployeeName, r.Status, r.WorkingDays, r.DeductibleDays}
		for _, c := range columns {
			values = append(values, r.Amounts[c].InexactFloat64())
		}
		values = append(values, r.Total.InexactFloat64())

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if len(rows) > 0 {
		firstMoney, _ := excelize.ColumnNumberToName(len(fixedHeaders) + 1)
		if err := f.SetCellStyle(sheet, firstMoney+"2", fmt.Sprintf("%s%d", lastCol, len(rows)+1), money); err != nil {
			return fmt.Errorf("style amounts: %w", err)
		}
	}

	if err := f.SetColWidth(sheet, "A", lastCol, 18); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

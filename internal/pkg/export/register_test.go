package export

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteRegister(t *testing.T) {
	var buf bytes.Buffer
	err := WriteRegister(&buf, "2025-03", []string{"base-pay", "deduction"}, []RegisterRow{
		{
			EmployeeCode:   "EMP-001",
			EmployeeName:   "Ayu Lestari",
			Status:         "final",
			WorkingDays:    21,
			DeductibleDays: 1,
			Amounts: map[string]decimal.Decimal{
				"base-pay":  decimal.NewFromInt(5000000),
				"deduction": decimal.RequireFromString("238095.24"),
			},
			Total: decimal.RequireFromString("4761904.76"),
		},
		{
			EmployeeCode: "EMP-002",
			EmployeeName: "Budi Santoso",
			Status:       "draft",
			WorkingDays:  21,
			Amounts:      map[string]decimal.Decimal{"base-pay": decimal.NewFromInt(4000000)},
			Total:        decimal.NewFromInt(4000000),
		},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"2025-03"}, f.GetSheetList())

	rows, err := f.GetRows("2025-03", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"Employee Code", "Employee Name", "Status", "Working Days", "Deductible Days", "base-pay", "deduction", "Total"}, rows[0])
	assert.Equal(t, "EMP-001", rows[1][0])
	assert.Equal(t, "5000000", rows[1][5])
	assert.Equal(t, "238095.24", rows[1][6])
	assert.Equal(t, "4761904.76", rows[1][7])
	assert.Equal(t, "0", rows[2][6])
}

func TestWriteRegister_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRegister(&buf, "2025-04", []string{"base-pay"}, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("2025-04")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

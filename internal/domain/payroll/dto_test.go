package payroll

import (
	"testing"

	"github.com/cmlabs-hris/payroll-engine/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeRequest_Validate(t *testing.T) {
	valid := ComposeRequest{
		EmployeeID: "0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b",
		Period:     "2025-03",
		Adjustments: []AdjustmentRequest{
			{Kind: KindOvertime, Label: "Weekend release", Amount: decimal.RequireFromString("150000.50")},
			{Kind: KindBonus, Label: "Q1 bonus", Amount: decimal.RequireFromString("10.500")},
		},
	}
	require.NoError(t, valid.Validate())

	invalid := ComposeRequest{
		EmployeeID: "0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b",
		Period:     "2025-03",
		Adjustments: []AdjustmentRequest{
			{Kind: KindDeduction, Label: "sneaky", Amount: decimal.NewFromInt(1)},
			{Kind: KindBonus, Label: "negative", Amount: decimal.NewFromInt(-5)},
			{Kind: KindBonus, Label: "fractional", Amount: decimal.RequireFromString("1.005")},
		},
	}
	err := invalid.Validate()
	require.Error(t, err)

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	m := verrs.ToMap()
	assert.Contains(t, m, "adjustments[0].kind")
	assert.Equal(t, "must be non-negative", m["adjustments[1].amount"])
	assert.Equal(t, "must have at most 2 decimal places", m["adjustments[2].amount"])
}

func TestSumComponents(t *testing.T) {
	cs := []SalaryComponent{
		{Kind: KindSessionIncome, Amount: decimal.NewFromInt(620000)},
		{Kind: KindDeduction, Amount: decimal.NewFromInt(25000)},
		{Kind: KindBonus, Amount: decimal.RequireFromString("0.10")},
	}
	assert.Equal(t, "595000.10", SumComponents(cs).StringFixed(2))

	p := Payroll{Components: cs, Total: decimal.RequireFromString("595000.1")}
	assert.True(t, p.TotalMatches())
	assert.Equal(t, "25000", p.ComponentTotal(KindDeduction).String())
	assert.True(t, SumComponents(nil).IsZero())
}

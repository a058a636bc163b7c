package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidUUID(t *testing.T) {
	valid := []string{
		"0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b",
		"0188D0F2-7B8C-7B4A-8A2B-6B8B8B8B8B8B",
		"123e4567-e89b-42d3-a456-426614174000",
	}
	invalid := []string{
		"0188d0f27b8c7b4a8a2b6b8b8b8b8b8b",
		"g188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b",
		"",
	}
	for _, uuid := range valid {
		if !IsValidUUID(uuid) {
			t.Errorf("IsValidUUID(%q) = false, want true", uuid)
		}
	}
	for _, uuid := range invalid {
		if IsValidUUID(uuid) {
			t.Errorf("IsValidUUID(%q) = true, want false", uuid)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"2023-01-01", "2000-12-31"}
	invalid := []string{"2023-13-01", "2023-01-32", "2023/01/01", "01-01-2023", ""}
	for _, s := range valid {
		_, ok := IsValidDate(s)
		if !ok {
			t.Errorf("IsValidDate(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		_, ok := IsValidDate(s)
		if ok {
			t.Errorf("IsValidDate(%q) = true, want false", s)
		}
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Field: "period", Message: "invalid"},
		{Field: "employee_id", Message: "required"},
	}
	assert.Equal(t, "period: invalid; employee_id: required", errs.Error())
	assert.Equal(t, map[string]string{"period": "invalid", "employee_id": "required"}, errs.ToMap())
}

type line struct {
	Kind   string `json:"kind" validate:"required,oneof=overtime bonus"`
	Amount string `json:"amount" validate:"required"`
}

type request struct {
	EmployeeID string  `json:"employee_id" validate:"required,uuid"`
	Period     string  `json:"period" validate:"required,period"`
	Date       string  `json:"date,omitempty" validate:"omitempty,date"`
	Latitude   float64 `json:"latitude" validate:"latitude"`
	Lines      []line  `json:"lines" validate:"dive"`
	Internal   string  `json:"-"`
}

func TestStruct(t *testing.T) {
	ok := request{
		EmployeeID: "0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b",
		Period:     "2025-03",
		Latitude:   -6.2,
		Lines:      []line{{Kind: "bonus", Amount: "10"}},
	}
	require.NoError(t, Struct(ok))

	bad := request{
		EmployeeID: "nope",
		Period:     "2025-13",
		Date:       "2025/03/01",
		Latitude:   120,
		Lines:      []line{{Kind: "base-pay", Amount: "10"}},
	}
	err := Struct(bad)
	require.Error(t, err)

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	m := verrs.ToMap()
	assert.Equal(t, "must be a valid UUID", m["employee_id"])
	assert.Equal(t, "must be in YYYY-MM format", m["period"])
	assert.Equal(t, "must be in YYYY-MM-DD format", m["date"])
	assert.Equal(t, "must be a valid latitude", m["latitude"])
	assert.Equal(t, "must be one of: overtime, bonus", m["lines[0].kind"])
}

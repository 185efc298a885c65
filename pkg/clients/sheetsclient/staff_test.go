package sheetsclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStaff(t *testing.T) {
	raw := [][]interface{}{
		{"Email", "First name", "Last name", "Role", "Hire date"},
		{"ada@example.com", "Ada", "Lovelace", "Chef", "2024-02-01"},
		{"", "", "", "", ""},
		{"grace@example.com", " Grace ", "Hopper"},
	}

	staff, err := parseStaff(raw)
	require.NoError(t, err)
	require.Len(t, staff, 2)

	assert.Equal(t, StaffRow{Row: 2, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Role: "Chef", HireDate: "2024-02-01"}, staff[0])
	assert.Equal(t, "Grace", staff[1].FirstName)
	assert.Equal(t, 4, staff[1].Row)
	assert.Empty(t, staff[1].Role)
}

func TestParseStaff_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  [][]interface{}
	}{
		{"no header", [][]interface{}{}},
		{"missing email column", [][]interface{}{{"First name", "Last name"}}},
		{"row without email", [][]interface{}{{"First name", "Last name", "Email"}, {"Ada", "Lovelace", ""}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseStaff(tt.raw)
			assert.Error(t, err)
		})
	}
}

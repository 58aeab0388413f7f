package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// -- registry tests --

func TestNewScheduleRegistry_EmbeddedDefault(t *testing.T) {
	registry, err := NewScheduleRegistry()
	assert.NoError(t, err)

	brackets, err := registry.Lookup(2026)
	assert.NoError(t, err)
	assert.Len(t, brackets, 6)
	assert.True(t, brackets[0].Min.IsZero())
	assert.True(t, brackets[0].Rate.IsZero())
	assert.True(t, brackets[len(brackets)-1].Unbounded)
}

func TestLookup_UnknownYear(t *testing.T) {
	registry, err := NewScheduleRegistry()
	assert.NoError(t, err)

	_, err = registry.Lookup(2003)
	assert.ErrorIs(t, err, ErrUnknownTaxYear)
}

func TestNewRegistryFromYAML_DuplicateYear(t *testing.T) {
	_, err := newRegistryFromYAML([]byte(`
schedules:
  - year: 2026
    brackets:
      - { min: "0", rate: "0" }
  - year: 2026
    brackets:
      - { min: "0", rate: "0" }
`))
	assert.Error(t, err)
}

func TestNewRegistryFromYAML_Empty(t *testing.T) {
	_, err := newRegistryFromYAML([]byte(`schedules: []`))
	assert.Error(t, err)
}

// -- ValidateSchedule tests --

func TestValidateSchedule(t *testing.T) {
	tests := []struct {
		name     string
		brackets []TaxBracket
		wantErr  string
	}{
		{
			name: "valid two-band schedule",
			brackets: []TaxBracket{
				{Min: d("0"), Max: d("300000"), Rate: d("0")},
				{Min: d("300000"), Rate: d("0.07"), Unbounded: true},
			},
		},
		{
			name: "single unbounded flat tax",
			brackets: []TaxBracket{
				{Min: d("0"), Rate: d("0.1"), Unbounded: true},
			},
		},
		{
			name:     "no brackets",
			brackets: nil,
			wantErr:  "no brackets",
		},
		{
			name: "first bracket not at zero",
			brackets: []TaxBracket{
				{Min: d("100"), Rate: d("0.1"), Unbounded: true},
			},
			wantErr: "must start at 0",
		},
		{
			name: "gap between brackets",
			brackets: []TaxBracket{
				{Min: d("0"), Max: d("1000"), Rate: d("0")},
				{Min: d("1001"), Rate: d("0.1"), Unbounded: true},
			},
			wantErr: "not contiguous",
		},
		{
			name: "missing unbounded tail",
			brackets: []TaxBracket{
				{Min: d("0"), Max: d("1000"), Rate: d("0")},
			},
			wantErr: "must be unbounded",
		},
		{
			name: "unbounded bracket in the middle",
			brackets: []TaxBracket{
				{Min: d("0"), Rate: d("0"), Unbounded: true},
				{Min: d("0"), Max: d("1000"), Rate: d("0.1")},
			},
			wantErr: "must be last",
		},
		{
			name: "rate above one",
			brackets: []TaxBracket{
				{Min: d("0"), Rate: d("1.5"), Unbounded: true},
			},
			wantErr: "outside [0,1]",
		},
		{
			name: "inverted bounds",
			brackets: []TaxBracket{
				{Min: d("0"), Max: d("0"), Rate: d("0")},
				{Min: d("0"), Rate: d("0.1"), Unbounded: true},
			},
			wantErr: "not greater than",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSchedule(tt.brackets)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

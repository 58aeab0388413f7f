package service

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed schedules.yaml
var defaultSchedulesYAML []byte

// scheduleFile mirrors the YAML layout. Amounts and rates are strings so
// they parse through decimal without passing through binary floats.
type scheduleFile struct {
	Schedules []struct {
		Year     int `yaml:"year"`
		Brackets []struct {
			Min  string `yaml:"min"`
			Max  string `yaml:"max"`
			Rate string `yaml:"rate"`
		} `yaml:"brackets"`
	} `yaml:"schedules"`
}

// ScheduleRegistry holds the bracket schedules per tax year. It is immutable
// after construction and safe for concurrent readers. Lookup is by exact
// year; there is no extrapolation across years.
type ScheduleRegistry struct {
	schedules map[int][]TaxBracket
}

// NewScheduleRegistry builds a registry from the embedded default schedules.
func NewScheduleRegistry() (*ScheduleRegistry, error) {
	return newRegistryFromYAML(defaultSchedulesYAML)
}

// NewScheduleRegistryFromFile builds a registry from an external YAML file,
// replacing the embedded defaults entirely.
func NewScheduleRegistryFromFile(path string) (*ScheduleRegistry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schedules file: %w", err)
	}
	return newRegistryFromYAML(raw)
}

func newRegistryFromYAML(raw []byte) (*ScheduleRegistry, error) {
	var file scheduleFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse schedules yaml: %w", err)
	}
	if len(file.Schedules) == 0 {
		return nil, fmt.Errorf("schedules yaml contains no schedules")
	}

	registry := &ScheduleRegistry{schedules: make(map[int][]TaxBracket, len(file.Schedules))}
	for _, sched := range file.Schedules {
		if _, exists := registry.schedules[sched.Year]; exists {
			return nil, fmt.Errorf("duplicate schedule for tax year %d", sched.Year)
		}

		brackets := make([]TaxBracket, 0, len(sched.Brackets))
		for i, b := range sched.Brackets {
			bracket := TaxBracket{Unbounded: b.Max == ""}

			var err error
			if bracket.Min, err = decimal.NewFromString(b.Min); err != nil {
				return nil, fmt.Errorf("year %d bracket %d: bad min %q: %w", sched.Year, i, b.Min, err)
			}
			if !bracket.Unbounded {
				if bracket.Max, err = decimal.NewFromString(b.Max); err != nil {
					return nil, fmt.Errorf("year %d bracket %d: bad max %q: %w", sched.Year, i, b.Max, err)
				}
			}
			if bracket.Rate, err = decimal.NewFromString(b.Rate); err != nil {
				return nil, fmt.Errorf("year %d bracket %d: bad rate %q: %w", sched.Year, i, b.Rate, err)
			}
			brackets = append(brackets, bracket)
		}

		if err := ValidateSchedule(brackets); err != nil {
			return nil, fmt.Errorf("year %d: %w", sched.Year, err)
		}
		registry.schedules[sched.Year] = brackets
	}

	return registry, nil
}

// ValidateSchedule checks that brackets start at zero, are contiguous and
// ascending, carry rates in [0,1], and end with a single unbounded bracket.
func ValidateSchedule(brackets []TaxBracket) error {
	if len(brackets) == 0 {
		return fmt.Errorf("schedule has no brackets")
	}
	if !brackets[0].Min.IsZero() {
		return fmt.Errorf("first bracket must start at 0, got %s", brackets[0].Min)
	}

	one := decimal.NewFromInt(1)
	for i, b := range brackets {
		if b.Rate.IsNegative() || b.Rate.GreaterThan(one) {
			return fmt.Errorf("bracket %d: rate %s outside [0,1]", i, b.Rate)
		}

		last := i == len(brackets)-1
		if b.Unbounded != last {
			if b.Unbounded {
				return fmt.Errorf("bracket %d: unbounded bracket must be last", i)
			}
			return fmt.Errorf("final bracket must be unbounded")
		}
		if !b.Unbounded && !b.Max.GreaterThan(b.Min) {
			return fmt.Errorf("bracket %d: max %s not greater than min %s", i, b.Max, b.Min)
		}
		if i > 0 && !b.Min.Equal(brackets[i-1].Max) {
			return fmt.Errorf("bracket %d: min %s not contiguous with previous max %s", i, b.Min, brackets[i-1].Max)
		}
	}

	return nil
}

// Lookup returns the bracket schedule for the given tax year.
func (r *ScheduleRegistry) Lookup(taxYear int) ([]TaxBracket, error) {
	brackets, ok := r.schedules[taxYear]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTaxYear, taxYear)
	}
	return brackets, nil
}

// Years returns the registered tax years, for diagnostics.
func (r *ScheduleRegistry) Years() []int {
	years := make([]int, 0, len(r.schedules))
	for year := range r.schedules {
		years = append(years, year)
	}
	return years
}

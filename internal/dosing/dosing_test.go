package dosing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Skufu/SymptomRx/internal/models"
)

func f(v float64) *float64 { return &v }
func b(v bool) *bool       { return &v }
func i(v int) *int         { return &v }

func TestCompute(t *testing.T) {
	tests := []struct {
		name   string
		rule   *models.DoseRule
		weight float64
		want   models.Dose
		ok     bool
	}{
		{
			name:   "per kg rounds to one decimal",
			rule:   &models.DoseRule{PerKgMg: f(10), DemoOnly: b(false)},
			weight: 7.2,
			want:   models.Dose{DoseMg: 72.0},
			ok:     true,
		},
		{
			name:   "per kg rounding",
			rule:   &models.DoseRule{PerKgMg: f(12.5), Frequency: "twice daily", DurationDays: i(10), DemoOnly: b(false)},
			weight: 13.37,
			want:   models.Dose{DoseMg: 167.1, Frequency: "twice daily", DurationDays: i(10)},
			ok:     true,
		},
		{
			name:   "exact half rounds to even",
			rule:   &models.DoseRule{PerKgMg: f(12.5), DemoOnly: b(false)},
			weight: 70.5,
			want:   models.Dose{DoseMg: 881.2},
			ok:     true,
		},
		{
			name:   "half step weight rounds to even",
			rule:   &models.DoseRule{PerKgMg: f(2.5), DemoOnly: b(false)},
			weight: 4.5,
			want:   models.Dose{DoseMg: 11.2},
			ok:     true,
		},
		{
			name:   "binary value just below half rounds down",
			rule:   &models.DoseRule{PerKgMg: f(0.15), DemoOnly: b(false)},
			weight: 1,
			want:   models.Dose{DoseMg: 0.1},
			ok:     true,
		},
		{
			name: "fixed amount used verbatim",
			rule: &models.DoseRule{FixedMg: f(500), DemoOnly: b(false)},
			want: models.Dose{DoseMg: 500},
			ok:   true,
		},
		{
			name:   "per kg without weight falls back to fixed",
			rule:   &models.DoseRule{PerKgMg: f(10), FixedMg: f(250), DemoOnly: b(false)},
			weight: 0,
			want:   models.Dose{DoseMg: 250},
			ok:     true,
		},
		{
			name:   "per kg preferred over fixed",
			rule:   &models.DoseRule{PerKgMg: f(10), FixedMg: f(250), DemoOnly: b(false)},
			weight: 20,
			want:   models.Dose{DoseMg: 200},
			ok:     true,
		},
		{name: "nil rule", rule: nil, weight: 70},
		{name: "demo only absent defaults to true", rule: &models.DoseRule{PerKgMg: f(10)}, weight: 70},
		{name: "demo only true", rule: &models.DoseRule{FixedMg: f(500), DemoOnly: b(true)}, weight: 70},
		{name: "per kg missing weight", rule: &models.DoseRule{PerKgMg: f(10), DemoOnly: b(false)}},
		{name: "negative weight", rule: &models.DoseRule{PerKgMg: f(10), DemoOnly: b(false)}, weight: -3},
		{name: "no amount configured", rule: &models.DoseRule{Frequency: "daily", DemoOnly: b(false)}, weight: 70},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Compute(tt.rule, tt.weight)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

// Package dosing computes placeholder display doses from knowledge-base rules.
package dosing

import (
	"strconv"

	"github.com/Skufu/SymptomRx/internal/models"
)

// Compute derives a dose from rule and the patient's weight in kilograms.
// It reports false when the rule is absent or demo only, or when no amount
// can be derived. A per-kilogram amount needs a positive weight and wins over
// a fixed amount; the result is rounded to one decimal place.
func Compute(rule *models.DoseRule, weightKg float64) (models.Dose, bool) {
	if rule.IsDemoOnly() {
		return models.Dose{}, false
	}

	var mg float64
	switch {
	case rule.PerKgMg != nil && weightKg > 0:
		mg = roundTenth(*rule.PerKgMg * weightKg)
	case rule.FixedMg != nil:
		mg = *rule.FixedMg
	default:
		return models.Dose{}, false
	}

	return models.Dose{
		DoseMg:       mg,
		Frequency:    rule.Frequency,
		DurationDays: rule.DurationDays,
	}, true
}

// roundTenth rounds the exact binary value half to even.
func roundTenth(x float64) float64 {
	r, _ := strconv.ParseFloat(strconv.FormatFloat(x, 'f', 1, 64), 64)
	return r
}

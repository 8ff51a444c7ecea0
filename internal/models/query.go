// Package models holds the request and knowledge-base types shared by the
// analysis pipeline.
package models

import "strings"

// SymptomQuery is the raw input of one analysis.
type SymptomQuery struct {
	Symptoms  string   `json:"symptoms"`
	Age       *int     `json:"age,omitempty"`
	WeightKg  *float64 `json:"weight,omitempty"`
	Allergies string   `json:"allergies,omitempty"`
}

// Weight returns the declared weight or 0 when none was given.
func (q SymptomQuery) Weight() float64 {
	if q.WeightKg == nil {
		return 0
	}
	return *q.WeightKg
}

// HasSymptoms reports whether the description contains anything but whitespace.
func (q SymptomQuery) HasSymptoms() bool {
	return strings.TrimSpace(q.Symptoms) != ""
}

package models

// MedicationEntry is one recommended medication for a condition. AllergyFlag is
// derived per request and never read from the knowledge base.
type MedicationEntry struct {
	Name        string    `json:"name"`
	Class       string    `json:"class,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	Dose        *DoseRule `json:"dose,omitempty"`
	AllergyFlag bool      `json:"allergy_flag"`
}

// DoseRule describes how a placeholder dose is derived. Either PerKgMg or
// FixedMg is expected; DemoOnly defaults to true when absent.
type DoseRule struct {
	PerKgMg      *float64 `json:"per_kg_mg,omitempty"`
	FixedMg      *float64 `json:"fixed_mg,omitempty"`
	Frequency    string   `json:"frequency,omitempty"`
	DurationDays *int     `json:"duration_days,omitempty"`
	DemoOnly     *bool    `json:"demo_only,omitempty"`
}

// IsDemoOnly reports whether the rule must not produce a numeric dose. A nil
// rule or a rule without an explicit demo_only=false is demo only.
func (r *DoseRule) IsDemoOnly() bool {
	if r == nil || r.DemoOnly == nil {
		return true
	}
	return *r.DemoOnly
}

// Dose is a computed display dose.
type Dose struct {
	DoseMg       float64 `json:"dose_mg"`
	Frequency    string  `json:"frequency,omitempty"`
	DurationDays *int    `json:"duration_days,omitempty"`
}

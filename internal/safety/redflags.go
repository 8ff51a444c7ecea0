// Package safety holds the rule-based checks that gate or annotate medication
// suggestions: red-flag phrase detection and allergy conflicts.
package safety

import (
	"strings"

	"github.com/Skufu/SymptomRx/internal/textnorm"
)

// DefaultRedFlags are symptom phrases that warrant referral instead of
// self-care suggestions. Order is the order matches are reported in.
var DefaultRedFlags = []string{
	"chest pain",
	"shortness of breath",
	"severe headache",
	"unconscious",
	"confusion",
	"stiff neck",
	"fever 40", // temperature of 40C or more
	"bloody stool",
	"vomiting blood",
	"seizure",
	"pregnant with pain",
}

// Detector scans text for a fixed list of red-flag phrases.
type Detector struct {
	phrases []string
	labels  []string
}

// NewDetector builds a detector for phrases. Phrases are matched in normalized
// form; empty phrases are ignored.
func NewDetector(phrases []string) *Detector {
	d := &Detector{}
	for _, p := range phrases {
		n := textnorm.Normalize(p)
		if n == "" {
			continue
		}
		d.phrases = append(d.phrases, n)
		d.labels = append(d.labels, p)
	}
	return d
}

// Detect returns every configured phrase contained in text, in list order.
// The result is never nil.
func (d *Detector) Detect(text string) []string {
	t := textnorm.Normalize(text)
	matches := make([]string, 0)
	if t == "" {
		return matches
	}
	for i, p := range d.phrases {
		if strings.Contains(t, p) {
			matches = append(matches, d.labels[i])
		}
	}
	return matches
}

// Phrases returns the configured phrases as given.
func (d *Detector) Phrases() []string {
	return append([]string(nil), d.labels...)
}

var defaultDetector = NewDetector(DefaultRedFlags)

// DetectRedFlags runs the default red-flag list over text.
func DetectRedFlags(text string) []string {
	return defaultDetector.Detect(text)
}

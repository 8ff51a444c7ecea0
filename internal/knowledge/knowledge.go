// Package knowledge serves the static condition knowledge base: explanation
// keywords and recommended medications per condition.
package knowledge

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/Skufu/SymptomRx/internal/models"
	"github.com/Skufu/SymptomRx/internal/textnorm"
)

// DefaultTopKeywords is used when KeywordsFor is called with a non-positive topN.
const DefaultTopKeywords = 8

// ErrInvalidKB is returned when the knowledge base document fails validation.
var ErrInvalidKB = errors.New("invalid knowledge base")

type document struct {
	DiseaseKeywords map[string][]string  `json:"disease_keywords"`
	Guidelines      map[string]guideline `json:"guidelines"`
}

type guideline struct {
	RecommendedMeds []models.MedicationEntry `json:"recommended_meds"`
}

// Base is read-only after Load and safe for concurrent use.
type Base struct {
	keywords   map[string][]string
	vocabulary map[string]struct{}
	meds       map[string][]models.MedicationEntry
}

// Load reads and validates the knowledge base file at path.
func Load(path string) (*Base, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read knowledge base: %w", err)
	}
	return Parse(data)
}

// Parse validates data against the knowledge base schema and indexes it.
func Parse(data []byte) (*Base, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKB, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidKB, strings.Join(msgs, "; "))
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode knowledge base: %w", err)
	}

	b := &Base{
		keywords:   make(map[string][]string, len(doc.DiseaseKeywords)),
		vocabulary: make(map[string]struct{}),
		meds:       make(map[string][]models.MedicationEntry, len(doc.Guidelines)),
	}
	for condition, kws := range doc.DiseaseKeywords {
		for _, kw := range kws {
			kw = textnorm.Normalize(kw)
			if kw == "" {
				continue
			}
			b.keywords[condition] = append(b.keywords[condition], kw)
			b.vocabulary[kw] = struct{}{}
		}
	}
	for condition, g := range doc.Guidelines {
		meds := make([]models.MedicationEntry, len(g.RecommendedMeds))
		for i, m := range g.RecommendedMeds {
			m.AllergyFlag = false
			meds[i] = m
		}
		b.meds[condition] = meds
	}
	return b, nil
}

// KeywordsFor returns knowledge-base keywords that appear as whole tokens in
// text, sorted, at most topN. Multi-word keywords never match a single token.
func (b *Base) KeywordsFor(text string, topN int) []string {
	if topN <= 0 {
		topN = DefaultTopKeywords
	}
	tokens := textnorm.TokenSet(text)
	matched := make([]string, 0)
	for kw := range b.vocabulary {
		if _, ok := tokens[kw]; ok {
			matched = append(matched, kw)
		}
	}
	sort.Strings(matched)
	if len(matched) > topN {
		matched = matched[:topN]
	}
	return matched
}

// MedicationsFor returns a copy of the condition's medications in file order,
// or an empty slice when the condition is unknown.
func (b *Base) MedicationsFor(condition string) []models.MedicationEntry {
	meds := b.meds[condition]
	out := make([]models.MedicationEntry, len(meds))
	copy(out, meds)
	return out
}

// KeywordsOf returns the normalized keywords listed for condition.
func (b *Base) KeywordsOf(condition string) []string {
	return append([]string(nil), b.keywords[condition]...)
}

// Conditions lists every condition named anywhere in the knowledge base.
func (b *Base) Conditions() []string {
	set := make(map[string]struct{}, len(b.keywords)+len(b.meds))
	for c := range b.keywords {
		set[c] = struct{}{}
	}
	for c := range b.meds {
		set[c] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

package knowledge

import (
	"errors"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKB = `{
  "disease_keywords": {
    "uti": ["Burning", "urination", "urge"],
    "influenza": ["fever", "cough", "body aches"],
    "cold": ["cough", "sneezing"]
  },
  "guidelines": {
    "uti": {
      "recommended_meds": [
        {"name": "Nitrofurantoin", "class": "Nitrofuran", "dose": {"fixed_mg": 100, "demo_only": true}},
        {"name": "Amoxicillin", "class": "Penicillin", "allergy_flag": true, "dose": null}
      ]
    },
    "influenza": {"recommended_meds": []}
  }
}`

func mustParse(t *testing.T, doc string) *Base {
	t.Helper()
	b, err := Parse([]byte(doc))
	require.NoError(t, err)
	return b
}

func TestKeywordsFor(t *testing.T) {
	b := mustParse(t, testKB)

	got := b.KeywordsFor("BURNING during urination and a cough; also body aches", 8)
	assert.Equal(t, []string{"burning", "cough", "urination"}, got, "multi-word keywords do not match")

	assert.Equal(t, []string{"burning", "cough"}, b.KeywordsFor("burning cough urination", 2))
	assert.Empty(t, b.KeywordsFor("nothing relevant here", 8))
	assert.NotNil(t, b.KeywordsFor("", 8))
}

func TestKeywordsForDefaultLimit(t *testing.T) {
	b := mustParse(t, `{"disease_keywords":{"x":["a1","a2","a3","a4","a5","a6","a7","a8","a9"]},"guidelines":{}}`)
	got := b.KeywordsFor("a1 a2 a3 a4 a5 a6 a7 a8 a9", 0)
	assert.Len(t, got, DefaultTopKeywords)
	assert.Equal(t, "a1", got[0])
}

func TestMedicationsFor(t *testing.T) {
	b := mustParse(t, testKB)

	meds := b.MedicationsFor("uti")
	require.Len(t, meds, 2)
	assert.Equal(t, "Nitrofurantoin", meds[0].Name)
	assert.Equal(t, "Amoxicillin", meds[1].Name)
	assert.False(t, meds[1].AllergyFlag, "stored flags are ignored")
	assert.Nil(t, meds[1].Dose)
	require.NotNil(t, meds[0].Dose)
	assert.True(t, meds[0].Dose.IsDemoOnly())

	meds[0].Name = "mutated"
	assert.Equal(t, "Nitrofurantoin", b.MedicationsFor("uti")[0].Name)
}

func TestMedicationsForUnknownCondition(t *testing.T) {
	b := mustParse(t, testKB)

	for _, condition := range []string{"unknown_condition", "cold", "influenza", ""} {
		meds := b.MedicationsFor(condition)
		assert.NotNil(t, meds, condition)
		assert.Empty(t, meds, condition)
	}
}

func TestConditions(t *testing.T) {
	b := mustParse(t, testKB)
	assert.Equal(t, []string{"cold", "influenza", "uti"}, b.Conditions())
	assert.Equal(t, []string{"fever", "cough", "body aches"}, b.KeywordsOf("influenza"))
}

func TestParseRejectsInvalidDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "missing guidelines", doc: `{"disease_keywords": {}}`},
		{name: "keywords not strings", doc: `{"disease_keywords": {"x": [1]}, "guidelines": {}}`},
		{name: "medication without name", doc: `{"disease_keywords": {}, "guidelines": {"x": {"recommended_meds": [{"class": "y"}]}}}`},
		{name: "negative dose", doc: `{"disease_keywords": {}, "guidelines": {"x": {"recommended_meds": [{"name": "y", "dose": {"per_kg_mg": -1}}]}}}`},
		{name: "not json", doc: `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidKB), err.Error())
		})
	}
}

func TestLoadBundledKnowledgeBase(t *testing.T) {
	_, file, _, _ := runtime.Caller(0)
	path := filepath.Join(filepath.Dir(file), "..", "..", "knowledge_base", "guidelines_demo.json")

	b, err := Load(path)
	require.NoError(t, err)
	assert.Contains(t, b.Conditions(), "uti")
	assert.NotEmpty(t, b.MedicationsFor("uti"))
	for _, c := range b.Conditions() {
		for _, m := range b.MedicationsFor(c) {
			assert.NotEmpty(t, m.Name)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

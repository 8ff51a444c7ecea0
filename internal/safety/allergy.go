package safety

import (
	"strings"

	"github.com/Skufu/SymptomRx/internal/models"
)

// ParseAllergies splits a comma-separated allergy list into trimmed, lowercased
// tokens, dropping empty ones.
func ParseAllergies(csv string) []string {
	out := []string{}
	for _, a := range strings.Split(csv, ",") {
		a = strings.ToLower(strings.TrimSpace(a))
		if a != "" {
			out = append(out, a)
		}
	}
	return out
}

// FilterAllergies flags medications whose name or class contains any declared
// allergen. Entries are annotated on copies, never removed. Matching is plain
// substring containment, so short allergens can over-match (e.g. "asp").
func FilterAllergies(meds []models.MedicationEntry, allergiesCSV string) []models.MedicationEntry {
	if strings.TrimSpace(allergiesCSV) == "" {
		return meds
	}
	allergies := ParseAllergies(allergiesCSV)

	out := make([]models.MedicationEntry, len(meds))
	for i, med := range meds {
		name := strings.ToLower(med.Name)
		class := strings.ToLower(med.Class)
		med.AllergyFlag = false
		for _, a := range allergies {
			if strings.Contains(name, a) || strings.Contains(class, a) {
				med.AllergyFlag = true
				break
			}
		}
		out[i] = med
	}
	return out
}

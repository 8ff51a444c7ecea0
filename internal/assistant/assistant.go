// Package assistant runs the prediction-and-safety pipeline over one symptom
// query: classify, explain, gate on red flags, then annotate medications with
// allergy conflicts and placeholder doses.
//
// An Assistant is built once at startup and never mutated afterwards, so a
// single instance can serve concurrent requests without locking.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Skufu/SymptomRx/internal/classifier"
	"github.com/Skufu/SymptomRx/internal/dosing"
	"github.com/Skufu/SymptomRx/internal/knowledge"
	"github.com/Skufu/SymptomRx/internal/metrics"
	"github.com/Skufu/SymptomRx/internal/models"
	"github.com/Skufu/SymptomRx/internal/safety"
)

// Disclaimer accompanies every analysis.
const Disclaimer = "Educational prototype. Not medical advice. Medication and dosing data are placeholders."

// ErrInvalidInput is returned for an empty or whitespace-only description.
var ErrInvalidInput = errors.New("symptom description is empty")

// Predictor ranks condition labels for a description.
type Predictor interface {
	Predict(text string, topK int) ([]classifier.ConditionScore, error)
}

// KnowledgeBase answers keyword and medication lookups.
type KnowledgeBase interface {
	KeywordsFor(text string, topN int) []string
	MedicationsFor(condition string) []models.MedicationEntry
	Conditions() []string
}

// Options tune an Assistant. Zero values take defaults.
type Options struct {
	TopK        int
	TopKeywords int
	RedFlags    []string
	Logger      *zap.Logger
}

// Assistant holds the loaded model and knowledge base.
type Assistant struct {
	predictor   Predictor
	kb          KnowledgeBase
	redFlags    *safety.Detector
	topK        int
	topKeywords int
	log         *zap.Logger
}

// New wires an Assistant from already loaded parts.
func New(p Predictor, kb KnowledgeBase, opts Options) (*Assistant, error) {
	if p == nil {
		return nil, classifier.ErrModelMissing
	}
	if kb == nil {
		return nil, errors.New("knowledge base is required")
	}
	if opts.TopK <= 0 {
		opts.TopK = classifier.DefaultTopK
	}
	if opts.TopKeywords <= 0 {
		opts.TopKeywords = knowledge.DefaultTopKeywords
	}
	if opts.RedFlags == nil {
		opts.RedFlags = safety.DefaultRedFlags
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Assistant{
		predictor:   p,
		kb:          kb,
		redFlags:    safety.NewDetector(opts.RedFlags),
		topK:        opts.TopK,
		topKeywords: opts.TopKeywords,
		log:         opts.Logger,
	}, nil
}

// Load opens the model artifact and knowledge base files. A missing model is
// reported as classifier.ErrModelMissing.
func Load(modelPath, kbPath string, opts Options) (*Assistant, error) {
	clf, err := classifier.Open(modelPath)
	if err != nil {
		return nil, fmt.Errorf("load classifier: %w", err)
	}
	kb, err := knowledge.Load(kbPath)
	if err != nil {
		return nil, fmt.Errorf("load knowledge base: %w", err)
	}
	if opts.Logger != nil {
		opts.Logger.Info("assistant loaded",
			zap.String("model", modelPath),
			zap.String("capability", clf.Capability().String()),
			zap.String("knowledge_base", kbPath),
		)
	}
	return New(clf, kb, opts)
}

// MedicationAdvice is one medication with its derived annotations.
type MedicationAdvice struct {
	models.MedicationEntry
	ComputedDose *models.Dose `json:"computed_dose,omitempty"`
}

// Recommendation groups the medications suggested for one ranked condition.
type Recommendation struct {
	Condition   string             `json:"condition"`
	Title       string             `json:"title"`
	Confidence  float64            `json:"confidence"`
	Medications []MedicationAdvice `json:"medications"`
}

// Analysis is the result bundle of one query.
type Analysis struct {
	ID                    string                      `json:"id"`
	CreatedAt             time.Time                   `json:"created_at"`
	Conditions            []classifier.ConditionScore `json:"conditions"`
	Keywords              []string                    `json:"keywords"`
	RedFlags              []string                    `json:"red_flags"`
	MedicationsSuppressed bool                        `json:"medications_suppressed"`
	Recommendations       []Recommendation            `json:"recommendations"`
	Disclaimer            string                      `json:"disclaimer"`
}

// Analyze runs the whole pipeline. Medication suggestions are only produced
// when no red flag is present.
func (a *Assistant) Analyze(ctx context.Context, q models.SymptomQuery) (*Analysis, error) {
	start := time.Now()
	defer func() { metrics.AnalysisDuration.Observe(time.Since(start).Seconds()) }()

	if !q.HasSymptoms() {
		metrics.AnalysesTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
		return nil, ErrInvalidInput
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Analysis{
		ID:              uuid.NewString(),
		CreatedAt:       time.Now().UTC(),
		RedFlags:        a.redFlags.Detect(q.Symptoms),
		Recommendations: []Recommendation{},
		Disclaimer:      Disclaimer,
	}

	conditions, err := a.predictor.Predict(q.Symptoms, a.topK)
	if err != nil {
		metrics.AnalysesTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("classify symptoms: %w", err)
	}
	res.Conditions = conditions
	res.Keywords = a.kb.KeywordsFor(q.Symptoms, a.topKeywords)

	if len(res.RedFlags) > 0 {
		res.MedicationsSuppressed = true
		metrics.RedFlagSuppressions.Inc()
		metrics.AnalysesTotal.WithLabelValues(metrics.OutcomeSuppressed).Inc()
		a.log.Warn("medication suggestions suppressed",
			zap.String("analysis_id", res.ID),
			zap.Strings("red_flags", res.RedFlags),
		)
		return res, nil
	}

	for _, c := range conditions {
		res.Recommendations = append(res.Recommendations, Recommendation{
			Condition:   c.Label,
			Title:       DisplayName(c.Label),
			Confidence:  c.Confidence,
			Medications: a.adviseFor(c.Label, q),
		})
	}
	metrics.AnalysesTotal.WithLabelValues(metrics.OutcomeOK).Inc()
	a.log.Debug("analysis complete",
		zap.String("analysis_id", res.ID),
		zap.Int("conditions", len(res.Conditions)),
		zap.Int("keywords", len(res.Keywords)),
	)
	return res, nil
}

func (a *Assistant) adviseFor(condition string, q models.SymptomQuery) []MedicationAdvice {
	meds := safety.FilterAllergies(a.kb.MedicationsFor(condition), q.Allergies)
	out := make([]MedicationAdvice, 0, len(meds))
	for _, m := range meds {
		advice := MedicationAdvice{MedicationEntry: m}
		if d, ok := dosing.Compute(m.Dose, q.Weight()); ok {
			advice.ComputedDose = &d
		}
		out = append(out, advice)
	}
	return out
}

// Conditions lists the conditions the knowledge base has guidance for.
func (a *Assistant) Conditions() []string {
	return a.kb.Conditions()
}

// FormatPredictions renders ranked conditions as "label:0.00;label:0.00".
func FormatPredictions(conditions []classifier.ConditionScore) string {
	parts := make([]string, len(conditions))
	for i, c := range conditions {
		parts[i] = fmt.Sprintf("%s:%.2f", c.Label, c.Confidence)
	}
	return strings.Join(parts, ";")
}

// DisplayName turns a condition label such as "strep_throat" into "Strep Throat".
func DisplayName(label string) string {
	words := strings.Fields(strings.ReplaceAll(label, "_", " "))
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + strings.ToLower(w[size:])
	}
	return strings.Join(words, " ")
}

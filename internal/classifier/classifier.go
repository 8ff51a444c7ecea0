// Package classifier ranks condition labels for a free-text symptom description.
//
// A Classifier wraps a trained model and decides once, at construction, how it
// turns model output into confidences: straight probabilities, exponentiated
// log-probabilities, or a single hard label with confidence 1.0.
package classifier

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// DefaultTopK is used when Predict is called with a non-positive topK.
const DefaultTopK = 3

var (
	// ErrModelMissing means no trained artifact exists at the configured path.
	ErrModelMissing = errors.New("model not found, retrain with `go run ./cmd/train`")

	// ErrNoPrediction is returned when the model produced nothing to rank.
	ErrNoPrediction = errors.New("model returned no prediction")
)

// ConditionScore is one ranked label.
type ConditionScore struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Capability is how a model exposes its scores.
type Capability int

const (
	SupportsProbabilities Capability = iota
	SupportsLogProbabilities
	PredictOnly
)

func (c Capability) String() string {
	switch c {
	case SupportsProbabilities:
		return "probabilities"
	case SupportsLogProbabilities:
		return "log_probabilities"
	case PredictOnly:
		return "predict_only"
	default:
		return fmt.Sprintf("capability(%d)", int(c))
	}
}

// Model is the minimum a trained model must do: name the best label.
type Model interface {
	Predict(text string) string
}

// ProbabilityModel returns one probability per class, aligned with Classes.
type ProbabilityModel interface {
	Model
	Classes() []string
	PredictProba(text string) []float64
}

// LogProbabilityModel returns one log-probability per class, aligned with Classes.
type LogProbabilityModel interface {
	Model
	Classes() []string
	PredictLogProba(text string) []float64
}

// Classifier is safe for concurrent use as long as the wrapped model is.
type Classifier struct {
	model      Model
	capability Capability
}

// New selects the richest capability the model implements.
func New(model Model) (*Classifier, error) {
	if model == nil {
		return nil, ErrModelMissing
	}
	if p, ok := model.(*Pipeline); ok && (p == nil || p.Vectorizer == nil || p.NB == nil) {
		return nil, ErrModelMissing
	}
	c := &Classifier{model: model, capability: PredictOnly}
	switch model.(type) {
	case ProbabilityModel:
		c.capability = SupportsProbabilities
	case LogProbabilityModel:
		c.capability = SupportsLogProbabilities
	}
	return c, nil
}

// Open loads the artifact at path and wraps it.
func Open(path string) (*Classifier, error) {
	p, err := Load(path)
	if err != nil {
		return nil, err
	}
	return New(p)
}

// Capability reports the tier chosen at construction.
func (c *Classifier) Capability() Capability {
	return c.capability
}

// Predict ranks labels for text by confidence, highest first, keeping at most
// topK. Equal confidences keep the model's class order.
func (c *Classifier) Predict(text string, topK int) ([]ConditionScore, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}

	var (
		classes []string
		scores  []float64
	)
	switch c.capability {
	case SupportsProbabilities:
		m := c.model.(ProbabilityModel)
		classes, scores = m.Classes(), m.PredictProba(text)
	case SupportsLogProbabilities:
		m := c.model.(LogProbabilityModel)
		classes, scores = m.Classes(), m.PredictLogProba(text)
		exp := make([]float64, len(scores))
		for i, lp := range scores {
			exp[i] = math.Exp(lp)
		}
		scores = exp
	default:
		label := c.model.Predict(text)
		if label == "" {
			return nil, ErrNoPrediction
		}
		return []ConditionScore{{Label: label, Confidence: 1.0}}, nil
	}

	if len(classes) == 0 || len(classes) != len(scores) {
		return nil, fmt.Errorf("%w: %d classes, %d scores", ErrNoPrediction, len(classes), len(scores))
	}
	return rank(classes, scores, topK), nil
}

func rank(classes []string, scores []float64, topK int) []ConditionScore {
	ranked := make([]ConditionScore, len(classes))
	for i, label := range classes {
		ranked[i] = ConditionScore{Label: label, Confidence: clamp01(scores[i])}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Confidence > ranked[j].Confidence
	})
	if len(ranked) > topK {
		ranked = ranked[:topK]
	}
	return ranked
}

func clamp01(x float64) float64 {
	if math.IsNaN(x) || x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

package classifier

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// DefaultAlpha is the additive smoothing used by the bundled trainer.
const DefaultAlpha = 0.5

// NaiveBayes is a multinomial naive Bayes model over non-negative feature
// weights.
type NaiveBayes struct {
	Alpha          float64     `json:"alpha"`
	Labels         []string    `json:"classes"`
	ClassLogPrior  []float64   `json:"class_log_prior"`
	FeatureLogProb [][]float64 `json:"feature_log_prob"`
}

// FitNaiveBayes estimates class priors and smoothed per-class feature
// log-probabilities. Classes are ordered lexicographically.
func FitNaiveBayes(x []Vector, y []string, features int, alpha float64) (*NaiveBayes, error) {
	if len(x) == 0 || len(x) != len(y) {
		return nil, fmt.Errorf("fit naive bayes: %d samples, %d labels", len(x), len(y))
	}
	if features <= 0 {
		return nil, errors.New("fit naive bayes: empty vocabulary")
	}
	if alpha <= 0 {
		alpha = DefaultAlpha
	}

	index := make(map[string]int)
	for _, label := range y {
		index[label] = 0
	}
	labels := make([]string, 0, len(index))
	for label := range index {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for i, label := range labels {
		index[label] = i
	}

	counts := make([]float64, len(labels))
	featureCount := make([][]float64, len(labels))
	for i := range featureCount {
		featureCount[i] = make([]float64, features)
	}
	for i, vec := range x {
		c := index[y[i]]
		counts[c]++
		for f, w := range vec {
			featureCount[c][f] += w
		}
	}

	nb := &NaiveBayes{
		Alpha:          alpha,
		Labels:         labels,
		ClassLogPrior:  make([]float64, len(labels)),
		FeatureLogProb: make([][]float64, len(labels)),
	}
	total := float64(len(y))
	for c := range labels {
		nb.ClassLogPrior[c] = math.Log(counts[c] / total)
		var sum float64
		for _, fc := range featureCount[c] {
			sum += fc + alpha
		}
		row := make([]float64, features)
		for f, fc := range featureCount[c] {
			row[f] = math.Log((fc + alpha) / sum)
		}
		nb.FeatureLogProb[c] = row
	}
	return nb, nil
}

func (nb *NaiveBayes) jointLogLikelihood(x Vector) []float64 {
	jll := make([]float64, len(nb.Labels))
	for c := range nb.Labels {
		s := nb.ClassLogPrior[c]
		row := nb.FeatureLogProb[c]
		for f, w := range x {
			if f < len(row) {
				s += w * row[f]
			}
		}
		jll[c] = s
	}
	return jll
}

// LogProba returns normalized class log-probabilities for x.
func (nb *NaiveBayes) LogProba(x Vector) []float64 {
	jll := nb.jointLogLikelihood(x)
	norm := logSumExp(jll)
	for i := range jll {
		jll[i] -= norm
	}
	return jll
}

func logSumExp(xs []float64) float64 {
	if len(xs) == 0 {
		return math.Inf(-1)
	}
	hi := xs[0]
	for _, x := range xs[1:] {
		if x > hi {
			hi = x
		}
	}
	if math.IsInf(hi, -1) {
		return hi
	}
	var sum float64
	for _, x := range xs {
		sum += math.Exp(x - hi)
	}
	return hi + math.Log(sum)
}

// Pipeline chains a Vectorizer and a NaiveBayes model. It implements Model,
// ProbabilityModel and LogProbabilityModel.
type Pipeline struct {
	Vectorizer *Vectorizer
	NB         *NaiveBayes
}

func (p *Pipeline) Classes() []string {
	return p.NB.Labels
}

func (p *Pipeline) PredictLogProba(text string) []float64 {
	return p.NB.LogProba(p.Vectorizer.Transform(text))
}

func (p *Pipeline) PredictProba(text string) []float64 {
	lp := p.PredictLogProba(text)
	for i := range lp {
		lp[i] = math.Exp(lp[i])
	}
	return lp
}

func (p *Pipeline) Predict(text string) string {
	jll := p.NB.jointLogLikelihood(p.Vectorizer.Transform(text))
	best := -1
	for i, s := range jll {
		if best < 0 || s > jll[best] {
			best = i
		}
	}
	if best < 0 {
		return ""
	}
	return p.NB.Labels[best]
}

package classifier

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/Skufu/SymptomRx/internal/textnorm"
)

// tokens are runs of at least two word characters
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Vector is a sparse feature vector keyed by vocabulary index.
type Vector map[int]float64

// Vectorizer turns text into L2-normalized TF-IDF vectors over word n-grams.
type Vectorizer struct {
	NgramMin   int            `json:"ngram_min"`
	NgramMax   int            `json:"ngram_max"`
	Vocabulary map[string]int `json:"vocabulary"`
	IDF        []float64      `json:"idf"`
}

// NewVectorizer returns an unfitted vectorizer for the inclusive n-gram range.
func NewVectorizer(ngramMin, ngramMax int) *Vectorizer {
	if ngramMin < 1 {
		ngramMin = 1
	}
	if ngramMax < ngramMin {
		ngramMax = ngramMin
	}
	return &Vectorizer{NgramMin: ngramMin, NgramMax: ngramMax}
}

func (v *Vectorizer) analyze(text string) []string {
	words := tokenPattern.FindAllString(textnorm.Normalize(text), -1)
	var grams []string
	for n := v.NgramMin; n <= v.NgramMax; n++ {
		for i := 0; i+n <= len(words); i++ {
			grams = append(grams, strings.Join(words[i:i+n], " "))
		}
	}
	return grams
}

// Fit learns the vocabulary and smoothed inverse document frequencies, then
// returns the transformed documents.
func (v *Vectorizer) Fit(docs []string) []Vector {
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{})
		for _, g := range v.analyze(doc) {
			if _, ok := seen[g]; ok {
				continue
			}
			seen[g] = struct{}{}
			df[g]++
		}
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	n := float64(len(docs))
	v.Vocabulary = make(map[string]int, len(terms))
	v.IDF = make([]float64, len(terms))
	for i, term := range terms {
		v.Vocabulary[term] = i
		v.IDF[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}

	out := make([]Vector, len(docs))
	for i, doc := range docs {
		out[i] = v.Transform(doc)
	}
	return out
}

// Transform vectorizes text with the fitted vocabulary. Unknown n-grams are
// dropped.
func (v *Vectorizer) Transform(text string) Vector {
	vec := make(Vector)
	for _, g := range v.analyze(text) {
		if idx, ok := v.Vocabulary[g]; ok {
			vec[idx]++
		}
	}
	var norm float64
	for idx, tf := range vec {
		w := tf * v.IDF[idx]
		vec[idx] = w
		norm += w * w
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for idx := range vec {
			vec[idx] /= norm
		}
	}
	return vec
}

// Features is the vocabulary size.
func (v *Vectorizer) Features() int {
	return len(v.IDF)
}

package classifier

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
)

// Sample is one labeled training row.
type Sample struct {
	Text  string
	Label string
}

const (
	textColumn  = "symptoms_text"
	labelColumn = "disease"
)

// ReadDatasetFile reads a CSV with symptoms_text and disease columns.
func ReadDatasetFile(path string) ([]Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return ReadDataset(f)
}

// ReadDataset parses CSV rows into samples. Rows with an empty text or label
// are skipped.
func ReadDataset(r io.Reader) ([]Sample, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("dataset is empty")
		}
		return nil, fmt.Errorf("read dataset header: %w", err)
	}
	textIdx, labelIdx := -1, -1
	for i, col := range header {
		switch strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")) {
		case textColumn:
			textIdx = i
		case labelColumn:
			labelIdx = i
		}
	}
	if textIdx < 0 || labelIdx < 0 {
		return nil, fmt.Errorf("dataset needs %q and %q columns, got %v", textColumn, labelColumn, header)
	}

	var samples []Sample
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read dataset row: %w", err)
		}
		if textIdx >= len(rec) || labelIdx >= len(rec) {
			continue
		}
		text, label := strings.TrimSpace(rec[textIdx]), strings.TrimSpace(rec[labelIdx])
		if text == "" || label == "" {
			continue
		}
		samples = append(samples, Sample{Text: text, Label: label})
	}
	if len(samples) == 0 {
		return nil, errors.New("dataset has no usable rows")
	}
	return samples, nil
}

// StratifiedSplit holds out about testSize of every label for evaluation.
// Labels with a single sample stay in the training set.
func StratifiedSplit(samples []Sample, testSize float64, seed int64) (train, test []Sample) {
	byLabel := make(map[string][]Sample)
	for _, s := range samples {
		byLabel[s.Label] = append(byLabel[s.Label], s)
	}
	labels := make([]string, 0, len(byLabel))
	for label := range byLabel {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	rng := rand.New(rand.NewSource(seed))
	for _, label := range labels {
		group := append([]Sample(nil), byLabel[label]...)
		rng.Shuffle(len(group), func(i, j int) { group[i], group[j] = group[j], group[i] })

		n := int(math.Round(float64(len(group)) * testSize))
		if n == 0 && testSize > 0 && len(group) > 1 {
			n = 1
		}
		if n >= len(group) {
			n = len(group) - 1
		}
		test = append(test, group[:n]...)
		train = append(train, group[n:]...)
	}
	return train, test
}

// FitOptions configures Fit.
type FitOptions struct {
	NgramMin int
	NgramMax int
	Alpha    float64
}

// DefaultFitOptions are unigrams plus bigrams with alpha 0.5.
func DefaultFitOptions() FitOptions {
	return FitOptions{NgramMin: 1, NgramMax: 2, Alpha: DefaultAlpha}
}

// Fit trains a TF-IDF plus naive Bayes pipeline.
func Fit(samples []Sample, opts FitOptions) (*Pipeline, error) {
	if len(samples) == 0 {
		return nil, errors.New("fit: no samples")
	}
	docs := make([]string, len(samples))
	labels := make([]string, len(samples))
	for i, s := range samples {
		docs[i], labels[i] = s.Text, s.Label
	}
	vec := NewVectorizer(opts.NgramMin, opts.NgramMax)
	x := vec.Fit(docs)
	nb, err := FitNaiveBayes(x, labels, vec.Features(), opts.Alpha)
	if err != nil {
		return nil, err
	}
	return &Pipeline{Vectorizer: vec, NB: nb}, nil
}

// ClassReport holds per-label evaluation figures.
type ClassReport struct {
	Label     string
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// Report summarizes held-out performance.
type Report struct {
	Classes  []ClassReport
	Accuracy float64
	Macro    ClassReport
	Total    int
}

// Evaluate predicts every sample and scores the hard predictions.
func Evaluate(m Model, samples []Sample) Report {
	type tally struct{ tp, fp, fn, support int }
	counts := make(map[string]*tally)
	get := func(label string) *tally {
		t, ok := counts[label]
		if !ok {
			t = &tally{}
			counts[label] = t
		}
		return t
	}

	correct := 0
	for _, s := range samples {
		pred := m.Predict(s.Text)
		get(s.Label).support++
		if pred == s.Label {
			correct++
			get(s.Label).tp++
			continue
		}
		get(s.Label).fn++
		get(pred).fp++
	}

	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	r := Report{Total: len(samples), Macro: ClassReport{Label: "macro avg"}}
	for _, label := range labels {
		t := counts[label]
		cr := ClassReport{
			Label:     label,
			Precision: ratio(t.tp, t.tp+t.fp),
			Recall:    ratio(t.tp, t.tp+t.fn),
			Support:   t.support,
		}
		if cr.Precision+cr.Recall > 0 {
			cr.F1 = 2 * cr.Precision * cr.Recall / (cr.Precision + cr.Recall)
		}
		r.Classes = append(r.Classes, cr)
		r.Macro.Precision += cr.Precision
		r.Macro.Recall += cr.Recall
		r.Macro.F1 += cr.F1
	}
	if n := float64(len(r.Classes)); n > 0 {
		r.Macro.Precision /= n
		r.Macro.Recall /= n
		r.Macro.F1 /= n
	}
	r.Macro.Support = len(samples)
	r.Accuracy = ratio(correct, len(samples))
	return r
}

func ratio(a, b int) float64 {
	if b == 0 {
		return 0
	}
	return float64(a) / float64(b)
}

func (r Report) String() string {
	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "\tprecision\trecall\tf1-score\tsupport\t")
	for _, c := range r.Classes {
		fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%.2f\t%d\t\n", c.Label, c.Precision, c.Recall, c.F1, c.Support)
	}
	fmt.Fprintln(w, "\t\t\t\t\t")
	fmt.Fprintf(w, "accuracy\t\t\t%.2f\t%d\t\n", r.Accuracy, r.Total)
	fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%.2f\t%d\t\n", r.Macro.Label, r.Macro.Precision, r.Macro.Recall, r.Macro.F1, r.Macro.Support)
	_ = w.Flush()
	return sb.String()
}

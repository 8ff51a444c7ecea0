package classifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const artifactFormat = "symptomrx/tfidf-nb/v1"

type artifact struct {
	Format     string      `json:"format"`
	Vectorizer *Vectorizer `json:"vectorizer"`
	Model      *NaiveBayes `json:"model"`
}

// Save writes the pipeline to path, replacing any previous artifact atomically.
func Save(path string, p *Pipeline) error {
	if p == nil || p.Vectorizer == nil || p.NB == nil {
		return errors.New("save model: pipeline is not fitted")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create model dir: %w", err)
	}
	data, err := json.Marshal(artifact{Format: artifactFormat, Vectorizer: p.Vectorizer, Model: p.NB})
	if err != nil {
		return fmt.Errorf("encode model: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp model: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename model: %w", err)
	}
	return nil
}

// Load reads a pipeline saved by Save. A missing file yields ErrModelMissing.
func Load(path string) (*Pipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w (looked in %s)", ErrModelMissing, path)
		}
		return nil, fmt.Errorf("read model: %w", err)
	}
	var a artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	if a.Format != artifactFormat {
		return nil, fmt.Errorf("unsupported model format %q, retrain with `go run ./cmd/train`", a.Format)
	}
	if err := validate(&a); err != nil {
		return nil, fmt.Errorf("corrupt model %s: %w", path, err)
	}
	return &Pipeline{Vectorizer: a.Vectorizer, NB: a.Model}, nil
}

func validate(a *artifact) error {
	if a.Vectorizer == nil || a.Model == nil {
		return errors.New("missing vectorizer or model")
	}
	features := a.Vectorizer.Features()
	if features == 0 || len(a.Vectorizer.Vocabulary) != features {
		return fmt.Errorf("vocabulary has %d terms, idf has %d", len(a.Vectorizer.Vocabulary), features)
	}
	seen := make([]bool, features)
	for term, idx := range a.Vectorizer.Vocabulary {
		if idx < 0 || idx >= features {
			return fmt.Errorf("term %q has index %d outside [0, %d)", term, idx, features)
		}
		if seen[idx] {
			return fmt.Errorf("index %d is assigned to more than one term", idx)
		}
		seen[idx] = true
	}
	classes := len(a.Model.Labels)
	if classes == 0 {
		return errors.New("no classes")
	}
	if len(a.Model.ClassLogPrior) != classes || len(a.Model.FeatureLogProb) != classes {
		return fmt.Errorf("class tables disagree with %d classes", classes)
	}
	for i, row := range a.Model.FeatureLogProb {
		if len(row) != features {
			return fmt.Errorf("class %q has %d features, want %d", a.Model.Labels[i], len(row), features)
		}
	}
	return nil
}

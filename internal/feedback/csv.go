package feedback

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"
)

var csvHeader = []string{"timestamp", "symptoms", "age", "weight", "allergies", "top_predictions", "feedback"}

// CSVStore appends records to a local CSV file, writing the header when the
// file is new or empty.
type CSVStore struct {
	mu   sync.Mutex
	path string
}

func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

func (s *CSVStore) Path() string { return s.path }

func (s *CSVStore) Save(ctx context.Context, r Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create feedback dir: %w", err)
		}
	}
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open feedback file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat feedback file: %w", err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(csvHeader); err != nil {
			return fmt.Errorf("write feedback header: %w", err)
		}
	}
	if err := w.Write(row(r)); err != nil {
		return fmt.Errorf("write feedback row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush feedback: %w", err)
	}
	return nil
}

func row(r Record) []string {
	age, weight := "", ""
	if r.Age != nil {
		age = strconv.Itoa(*r.Age)
	}
	if r.Weight != nil {
		weight = strconv.FormatFloat(*r.Weight, 'f', -1, 64)
	}
	return []string{
		r.Timestamp.UTC().Format(time.RFC3339Nano),
		r.Symptoms,
		age,
		weight,
		r.Allergies,
		r.TopPredictions,
		r.Feedback,
	}
}

// Package feedback persists free-text user feedback about an analysis. It is a
// write-only sink; nothing in the analysis pipeline reads it back.
package feedback

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrEmptyFeedback is returned when the feedback text is blank.
var ErrEmptyFeedback = errors.New("feedback text is empty")

// Record is one feedback submission together with the query it refers to.
type Record struct {
	ID             string    `json:"id"`
	Timestamp      time.Time `json:"timestamp"`
	Symptoms       string    `json:"symptoms"`
	Age            *int      `json:"age,omitempty"`
	Weight         *float64  `json:"weight,omitempty"`
	Allergies      string    `json:"allergies,omitempty"`
	TopPredictions string    `json:"top_predictions"`
	Feedback       string    `json:"feedback"`
}

// Store saves feedback records.
type Store interface {
	Save(ctx context.Context, r Record) error
}

// NewRecord validates the feedback text and stamps an ID and UTC timestamp.
func NewRecord(symptoms string, age *int, weight *float64, allergies, topPredictions, text string) (Record, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Record{}, ErrEmptyFeedback
	}
	return Record{
		ID:             uuid.NewString(),
		Timestamp:      time.Now().UTC(),
		Symptoms:       symptoms,
		Age:            age,
		Weight:         weight,
		Allergies:      allergies,
		TopPredictions: topPredictions,
		Feedback:       text,
	}, nil
}

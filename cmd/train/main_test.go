package main

import (
	"bytes"
	"flag"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Skufu/SymptomRx/internal/classifier"
)

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("train", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func TestParseFlagsDefaults(t *testing.T) {
	opts, err := parseFlags(newFlagSet(), nil)
	require.NoError(t, err)
	assert.Equal(t, "data/toy_symptoms.csv", opts.dataPath)
	assert.Equal(t, "models/text_clf.json", opts.outPath)
	assert.Equal(t, 0.5, opts.alpha)
	assert.Equal(t, 0.2, opts.testSize)
	assert.Equal(t, int64(42), opts.seed)
}

func TestParseFlagsRejectsBadValues(t *testing.T) {
	tests := map[string][]string{
		"zero alpha":     {"-alpha", "0"},
		"test size of 1": {"-test-size", "1"},
		"empty data":     {"-data", " "},
		"ngram below 1":  {"-ngram-max", "0"},
		"unknown flag":   {"-epochs", "3"},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := parseFlags(newFlagSet(), args)
			assert.Error(t, err)
		})
	}
}

func TestRunTrainsBundledDataset(t *testing.T) {
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	data := filepath.Join(filepath.Dir(file), "..", "..", "data", "toy_symptoms.csv")
	out := filepath.Join(t.TempDir(), "models", "text_clf.json")

	var report bytes.Buffer
	err := run(trainOptions{
		dataPath: data,
		outPath:  out,
		alpha:    0.5,
		testSize: 0.2,
		seed:     42,
		ngramMax: 2,
	}, &report, zap.NewNop())
	require.NoError(t, err)
	assert.Contains(t, report.String(), "accuracy")

	_, err = os.Stat(out)
	require.NoError(t, err)

	clf, err := classifier.Open(out)
	require.NoError(t, err)
	assert.Equal(t, classifier.SupportsProbabilities, clf.Capability())

	got, err := clf.Predict("burning when urinating and cloudy urine", 3)
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, "uti", got[0].Label)
}

func TestRunMissingDataset(t *testing.T) {
	err := run(trainOptions{
		dataPath: filepath.Join(t.TempDir(), "nope.csv"),
		outPath:  filepath.Join(t.TempDir(), "m.json"),
		alpha:    0.5,
		testSize: 0.2,
		ngramMax: 2,
	}, io.Discard, zap.NewNop())
	assert.Error(t, err)
}

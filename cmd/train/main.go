package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Skufu/SymptomRx/internal/classifier"
	"github.com/Skufu/SymptomRx/internal/logger"
)

type trainOptions struct {
	dataPath string
	outPath  string
	alpha    float64
	testSize float64
	seed     int64
	ngramMax int
	logLevel string
}

func main() {
	opts, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "train: %v\n", err)
		os.Exit(2)
	}

	log, err := logger.New(opts.logLevel, "console")
	if err != nil {
		fmt.Fprintf(os.Stderr, "train: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(opts, os.Stdout, log); err != nil {
		log.Fatal("training failed", zap.Error(err))
	}
}

func parseFlags(fs *flag.FlagSet, args []string) (trainOptions, error) {
	var opts trainOptions
	fs.StringVar(&opts.dataPath, "data", "data/toy_symptoms.csv", "CSV with symptoms_text and disease columns")
	fs.StringVar(&opts.outPath, "out", "models/text_clf.json", "Where to write the model artifact")
	fs.Float64Var(&opts.alpha, "alpha", classifier.DefaultAlpha, "Naive Bayes additive smoothing")
	fs.Float64Var(&opts.testSize, "test-size", 0.2, "Fraction of each class held out for evaluation")
	fs.Int64Var(&opts.seed, "seed", 42, "Shuffle seed for the stratified split")
	fs.IntVar(&opts.ngramMax, "ngram-max", 2, "Largest word n-gram to extract")
	fs.StringVar(&opts.logLevel, "log-level", "info", "debug, info, warn or error")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: %s [options]\n\n", filepath.Base(os.Args[0]))
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	opts.dataPath = strings.TrimSpace(opts.dataPath)
	opts.outPath = strings.TrimSpace(opts.outPath)

	switch {
	case opts.dataPath == "":
		return opts, errors.New("missing -data file")
	case opts.outPath == "":
		return opts, errors.New("missing -out path")
	case opts.alpha <= 0:
		return opts, fmt.Errorf("-alpha must be positive, got %g", opts.alpha)
	case opts.testSize <= 0 || opts.testSize >= 1:
		return opts, fmt.Errorf("-test-size must be between 0 and 1, got %g", opts.testSize)
	case opts.ngramMax < 1:
		return opts, fmt.Errorf("-ngram-max must be at least 1, got %d", opts.ngramMax)
	}
	return opts, nil
}

func run(opts trainOptions, out io.Writer, log *zap.Logger) error {
	samples, err := classifier.ReadDatasetFile(opts.dataPath)
	if err != nil {
		return err
	}
	train, test := classifier.StratifiedSplit(samples, opts.testSize, opts.seed)
	log.Info("dataset loaded",
		zap.String("path", opts.dataPath),
		zap.Int("samples", len(samples)),
		zap.Int("train", len(train)),
		zap.Int("test", len(test)),
	)

	fit := classifier.DefaultFitOptions()
	fit.Alpha = opts.alpha
	fit.NgramMax = opts.ngramMax
	pipe, err := classifier.Fit(train, fit)
	if err != nil {
		return err
	}

	if len(test) > 0 {
		report := classifier.Evaluate(pipe, test)
		fmt.Fprintln(out, report.String())
	} else {
		log.Warn("no held-out samples, skipping evaluation")
	}

	if err := classifier.Save(opts.outPath, pipe); err != nil {
		return err
	}
	log.Info("model saved",
		zap.String("path", opts.outPath),
		zap.Strings("classes", pipe.Classes()),
		zap.Int("features", len(pipe.Vectorizer.Vocabulary)),
	)
	return nil
}

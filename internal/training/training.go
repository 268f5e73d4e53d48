// Package training fits the iris forest and hands it to the artifact store.
// It is the only writer of the model artifact.
package training

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"irisd/internal/artifact"
	"irisd/internal/dataset"
	"irisd/internal/forest"
)

// Defaults mirror the reference training run.
const (
	DefaultTestRatio = 0.2
	DefaultSeed      = 42
)

// Options tunes a training run. Zero values select defaults.
type Options struct {
	TestRatio float64
	Seed      int64
	Forest    forest.Params
}

// Result summarizes a finished run.
type Result struct {
	Path     string
	Accuracy float64
	Train    int
	Test     int
}

// Saver is the subset of the artifact store training needs.
type Saver interface {
	Save(*artifact.Artifact) error
	Path() string
}

// Run trains on the embedded iris dataset and saves exactly once.
func Run(store Saver, opts Options, log zerolog.Logger) (Result, error) {
	ds, err := dataset.Iris()
	if err != nil {
		return Result{}, fmt.Errorf("load dataset: %w", err)
	}
	return RunOn(ds, store, opts, log)
}

// RunOn is Run over an arbitrary dataset.
func RunOn(ds *dataset.Dataset, store Saver, opts Options, log zerolog.Logger) (Result, error) {
	if store == nil {
		return Result{}, errors.New("no artifact store")
	}
	if opts.TestRatio == 0 {
		opts.TestRatio = DefaultTestRatio
	}
	if opts.Seed == 0 {
		opts.Seed = DefaultSeed
	}
	if opts.Forest.Seed == 0 {
		opts.Forest.Seed = opts.Seed
	}

	train, test := ds.Split(opts.TestRatio, opts.Seed)
	log.Info().Int("train", train.Len()).Int("test", test.Len()).Int64("seed", opts.Seed).Msg("training forest")

	clf, err := forest.Train(train.X, train.Y, len(ds.Labels), opts.Forest)
	if err != nil {
		return Result{}, fmt.Errorf("train: %w", err)
	}
	acc, err := Accuracy(clf, test.X, test.Y)
	if err != nil {
		return Result{}, fmt.Errorf("evaluate: %w", err)
	}

	a := &artifact.Artifact{
		Classifier: clf,
		Labels:     append([]string(nil), ds.Labels...),
		Features:   append([]string(nil), ds.FeatureNames...),
		Meta: &artifact.Metadata{
			TrainedAt:    time.Now().UTC().Truncate(time.Second),
			Seed:         opts.Seed,
			Accuracy:     acc,
			TrainSamples: train.Len(),
			TestSamples:  test.Len(),
		},
	}
	if err := store.Save(a); err != nil {
		return Result{}, err
	}
	log.Info().Float64("accuracy", acc).Int("trees", clf.NumEstimators()).Str("path", store.Path()).Msg("saved model")
	return Result{Path: store.Path(), Accuracy: acc, Train: train.Len(), Test: test.Len()}, nil
}

// Accuracy is the fraction of rows whose predicted class matches y.
// An empty evaluation set scores 0.
func Accuracy(clf *forest.Forest, X [][]float64, y []int) (float64, error) {
	if len(X) == 0 {
		return 0, nil
	}
	correct := 0
	for i, x := range X {
		got, err := clf.Predict(x)
		if err != nil {
			return 0, err
		}
		if got == y[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(X)), nil
}

package inference

import (
	"time"

	"irisd/internal/artifact"
	"irisd/pkg/types"
)

// Classifier is the read-only inference surface of a trained model.
// Implementations must be safe for concurrent calls.
type Classifier interface {
	NumClasses() int
	Predict(x []float64) (int, error)
	PredictProba(x []float64) ([]float64, error)
}

// Model is what Initialize needs from an artifact.
type Model struct {
	Classifier Classifier
	Labels     []string
	Features   []string
	Estimators int
	Training   *types.TrainingInfo
}

// Loader produces the model once at startup.
type Loader interface {
	Load() (*Model, error)
}

// StoreLoader adapts an artifact.Store to Loader.
type StoreLoader struct {
	Store *artifact.Store
}

// Load reads the artifact. Store errors pass through unchanged so callers can
// still use artifact.IsNotFound and artifact.IsCorrupt.
func (l StoreLoader) Load() (*Model, error) {
	a, err := l.Store.Load()
	if err != nil {
		return nil, err
	}
	m := &Model{
		Classifier: a.Classifier,
		Labels:     a.Labels,
		Features:   a.Features,
		Estimators: a.Classifier.NumEstimators(),
	}
	if a.Meta != nil {
		m.Training = &types.TrainingInfo{
			TrainedAt:    a.Meta.TrainedAt.UTC().Format(time.RFC3339),
			Seed:         a.Meta.Seed,
			Accuracy:     a.Meta.Accuracy,
			TrainSamples: a.Meta.TrainSamples,
			TestSamples:  a.Meta.TestSamples,
		}
	}
	return m, nil
}

// Path returns where the artifact is read from.
func (l StoreLoader) Path() string { return l.Store.Path() }

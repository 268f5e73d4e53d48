package types

// ModelInfo describes the loaded model for GET /model.
type ModelInfo struct {
	// Service state: unloaded, ready or load_failed.
	// example: ready
	State string `json:"state" example:"ready"`
	// Reason the artifact failed to load, if it did.
	LoadError string `json:"load_error,omitempty"`
	// Artifact location on disk.
	// example: models/iris_model.json
	Path string `json:"path,omitempty" example:"models/iris_model.json"`
	// Class labels in index order.
	// example: ["setosa","versicolor","virginica"]
	Labels []string `json:"labels,omitempty"`
	// Feature names in the order the classifier expects them.
	Features []string `json:"features,omitempty"`
	// Number of trees in the ensemble.
	// example: 100
	Estimators int `json:"estimators,omitempty" example:"100"`
	// Training metadata recorded in the artifact.
	Training *TrainingInfo `json:"training,omitempty"`
}

// TrainingInfo is the metadata a training run stores next to the classifier.
type TrainingInfo struct {
	// example: 2025-01-01T12:00:00Z
	TrainedAt string `json:"trained_at" example:"2025-01-01T12:00:00Z"`
	// example: 42
	Seed int64 `json:"seed" example:"42"`
	// Accuracy on the held-out split.
	// example: 0.9667
	Accuracy float64 `json:"accuracy" example:"0.9667"`
	// example: 120
	TrainSamples int `json:"train_samples" example:"120"`
	// example: 30
	TestSamples int `json:"test_samples" example:"30"`
}

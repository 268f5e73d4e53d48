// Package inference owns the loaded model and answers prediction requests.
// It is structured into small files by concern:
//
//   - service.go: Service type, one-shot Initialize, Health/Ready/Model, Predict.
//   - schema.go: the fixed feature schema and request validation.
//   - errors.go: error types and predicates (IsServiceUnavailable, IsValidation, IsInference).
//   - loader.go: Model, Classifier and the adapter over artifact.Store.
//   - cache.go: optional LRU of classifier outputs keyed by feature vector.
//   - metrics.go: Prometheus instruments.
//
// State moves from unloaded to ready or load_failed exactly once, inside
// Initialize. After that the loaded model is read-only and Predict takes no
// locks, so any number of goroutines may call it.
package inference

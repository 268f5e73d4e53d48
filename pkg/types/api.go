package types

// PredictRequest is the body of POST /predict. Fields are pointers so a missing
// measurement can be told apart from an explicit zero.
type PredictRequest struct {
	// Sepal length in centimeters, inclusive range [0.1, 10.0].
	// example: 5.1
	SepalLength *float64 `json:"sepal_length" example:"5.1"`
	// Sepal width in centimeters, inclusive range [0.1, 10.0].
	// example: 3.5
	SepalWidth *float64 `json:"sepal_width" example:"3.5"`
	// Petal length in centimeters, inclusive range [0.1, 10.0].
	// example: 1.4
	PetalLength *float64 `json:"petal_length" example:"1.4"`
	// Petal width in centimeters, inclusive range [0.0, 5.0].
	// example: 0.2
	PetalWidth *float64 `json:"petal_width" example:"0.2"`
}

// NewPredictRequest builds a fully populated request.
func NewPredictRequest(sepalLength, sepalWidth, petalLength, petalWidth float64) PredictRequest {
	return PredictRequest{
		SepalLength: &sepalLength,
		SepalWidth:  &sepalWidth,
		PetalLength: &petalLength,
		PetalWidth:  &petalWidth,
	}
}

// PredictionResponse is returned by POST /predict.
type PredictionResponse struct {
	// Human-readable class label.
	// example: setosa
	Prediction string `json:"prediction" example:"setosa"`
	// Index of the predicted class in the model's label sequence.
	// example: 0
	PredictionIndex int `json:"prediction_index" example:"0"`
	// Per-class probabilities, aligned with the label sequence.
	// example: [1,0,0]
	Probabilities []float64 `json:"probabilities"`
	// Maximum of probabilities, rounded to 4 decimals.
	// example: 1
	Confidence float64 `json:"confidence" example:"1"`
	// Creation time in UTC.
	// example: 2025-01-01T12:00:00.000000Z
	Timestamp string `json:"timestamp" example:"2025-01-01T12:00:00.000000Z"`
}

// HealthResponse is returned by GET /health in every service state.
type HealthResponse struct {
	// example: ok
	Status string `json:"status" example:"ok"`
	// Whether the model artifact loaded at startup.
	// example: true
	ModelLoaded bool `json:"model_loaded" example:"true"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: sepal_length must be within [0.1, 10]
	Error string `json:"error" example:"sepal_length must be within [0.1, 10]"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
	// Offending input field for validation failures.
	// example: sepal_length
	Field string `json:"field,omitempty" example:"sepal_length"`
}

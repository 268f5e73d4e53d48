package inference

import (
	"math"
	"strconv"

	"irisd/pkg/types"
)

// Bound is the inclusive range accepted for one feature.
type Bound struct {
	Name string
	Min  float64
	Max  float64
}

func (b Bound) String() string {
	return "[" + strconv.FormatFloat(b.Min, 'g', -1, 64) + ", " + strconv.FormatFloat(b.Max, 'g', -1, 64) + "]"
}

// numFeatures is fixed by the schema; the artifact does not encode it.
const numFeatures = 4

// vector is a validated feature vector in schema order.
type vector [numFeatures]float64

// Schema lists the features in the order the classifier was trained on.
// Reordering it silently breaks every prediction.
var Schema = [numFeatures]Bound{
	{Name: "sepal_length", Min: 0.1, Max: 10.0},
	{Name: "sepal_width", Min: 0.1, Max: 10.0},
	{Name: "petal_length", Min: 0.1, Max: 10.0},
	{Name: "petal_width", Min: 0.0, Max: 5.0},
}

// FeatureNames returns the schema field names in order.
func FeatureNames() []string {
	out := make([]string, len(Schema))
	for i, b := range Schema {
		out[i] = b.Name
	}
	return out
}

// Validate checks every field against its bound and assembles the vector.
// The first failing field, in schema order, is reported.
func Validate(req types.PredictRequest) (vector, error) {
	var x vector
	fields := [numFeatures]*float64{req.SepalLength, req.SepalWidth, req.PetalLength, req.PetalWidth}
	for i, b := range Schema {
		v := fields[i]
		if v == nil {
			return x, validationError{field: b.Name, msg: "is required"}
		}
		if math.IsNaN(*v) || math.IsInf(*v, 0) {
			return x, validationError{field: b.Name, msg: "must be a finite number"}
		}
		if *v < b.Min || *v > b.Max {
			return x, validationError{field: b.Name, msg: "must be within " + b.String() + " (got " + strconv.FormatFloat(*v, 'g', -1, 64) + ")"}
		}
		x[i] = *v
	}
	return x, nil
}

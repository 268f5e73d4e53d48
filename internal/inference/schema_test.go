package inference

import (
	"reflect"
	"testing"

	"irisd/pkg/types"
)

func TestFeatureNamesOrder(t *testing.T) {
	want := []string{"sepal_length", "sepal_width", "petal_length", "petal_width"}
	if got := FeatureNames(); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v", got)
	}
}

func TestBoundString(t *testing.T) {
	if got := Schema[0].String(); got != "[0.1, 10]" {
		t.Fatalf("got %q", got)
	}
	if got := Schema[3].String(); got != "[0, 5]" {
		t.Fatalf("got %q", got)
	}
}

func TestValidateReportsFirstField(t *testing.T) {
	req := types.NewPredictRequest(-1, -1, 1.4, 99)
	_, err := Validate(req)
	if f, _ := ValidationField(err); f != "sepal_length" {
		t.Fatalf("expected first failing field, got %v", err)
	}
}

func TestValidateBuildsVector(t *testing.T) {
	x, err := Validate(types.NewPredictRequest(5.1, 3.5, 1.4, 0.2))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if x != (vector{5.1, 3.5, 1.4, 0.2}) {
		t.Fatalf("got %v", x)
	}
}

func TestValidateEmptyRequest(t *testing.T) {
	_, err := Validate(types.PredictRequest{})
	if err == nil || err.Error() != "sepal_length is required" {
		t.Fatalf("got %v", err)
	}
}

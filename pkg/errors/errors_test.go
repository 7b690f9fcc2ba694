package errors

import (
	"fmt"
	"strings"
	"testing"
)

func TestNewValidationError(t *testing.T) {
	tests := []struct {
		name    string
		param   string
		reason  string
		value   interface{}
		wantMsg string
	}{
		{
			name:    "int value",
			param:   "MaximumDepth",
			reason:  "must be at least 1",
			value:   0,
			wantMsg: "grove: validation failed for parameter 'MaximumDepth': must be at least 1 (got: 0)",
		},
		{
			name:    "slice length",
			param:   "LabelWeights",
			reason:  "length must match the number of labels",
			value:   3,
			wantMsg: "grove: validation failed for parameter 'LabelWeights': length must match the number of labels (got: 3)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewValidationError(tt.param, tt.reason, tt.value)

			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.wantMsg)
			}

			formatted := fmt.Sprintf("%+v", err)
			if !strings.Contains(formatted, "errors_test.go") {
				t.Error("expected stack trace to contain test file name")
			}

			var ve *ValidationError
			if !As(err, &ve) {
				t.Error("error should be castable to *ValidationError")
			}
		})
	}
}

func TestNewTrainingInvariantError(t *testing.T) {
	err := NewTrainingInvariantError("depth_first", "winning split must route points to both sides", "component[0,none]")

	var tie *TrainingInvariantError
	if !As(err, &tie) {
		t.Fatal("error should be castable to *TrainingInvariantError")
	}
	if tie.Op != "depth_first" {
		t.Errorf("Op = %v", tie.Op)
	}
	if !strings.Contains(err.Error(), "both sides") {
		t.Errorf("Error() = %v", err.Error())
	}
}

func TestNewNumericalInstabilityError(t *testing.T) {
	err := NewNumericalInstabilityError("decider.LoadData", []float64{1, 2})

	var nie *NumericalInstabilityError
	if !As(err, &nie) {
		t.Fatal("error should be castable to *NumericalInstabilityError")
	}
	if !strings.Contains(err.Error(), "decider.LoadData") {
		t.Errorf("Error() = %v", err.Error())
	}
}

func TestNewNotSupportedError(t *testing.T) {
	err := NewNotSupportedError("binary[sub,ch0,ch0]", "metadata export")

	var nse *NotSupportedError
	if !As(err, &nse) {
		t.Fatal("error should be castable to *NotSupportedError")
	}
	if nse.Capability != "metadata export" {
		t.Errorf("Capability = %v", nse.Capability)
	}
}

func TestWarn_InvokesHandler(t *testing.T) {
	var captured error
	SetWarningHandler(func(w error) { captured = w })
	defer SetWarningHandler(nil)

	w := NewDegenerateSplitWarning("depth_first", 3, "no candidate produced a usable cut")
	Warn(w)

	if captured == nil {
		t.Fatal("warning handler not invoked")
	}
	var dsw *DegenerateSplitWarning
	if !As(captured, &dsw) {
		t.Errorf("captured warning = %v, want *DegenerateSplitWarning", captured)
	}
	if dsw.Support != 3 {
		t.Errorf("Support = %d, want 3", dsw.Support)
	}
}

func TestWrapPreservesSentinel(t *testing.T) {
	err := Wrap(ErrEmptyData, "forest: no data splits")
	if !Is(err, ErrEmptyData) {
		t.Error("wrapped sentinel no longer matches")
	}

	err = Wrapf(ErrNotLoaded, "tree %d", 2)
	if !Is(err, ErrNotLoaded) {
		t.Error("wrapf sentinel no longer matches")
	}
}

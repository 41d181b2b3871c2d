package glmnet

import (
	"reflect"
	"testing"

	"github.com/YuminosukeSato/glmnet/pkg/errors"
	"github.com/YuminosukeSato/glmnet/sklearn/glmnet/binding"
)

func TestGetSetParamsRoundTrip(t *testing.T) {
	mock := binding.NewMockBinding()

	tests := []struct {
		name   string
		fitted bool
		set    map[string]interface{}
		want   map[string]interface{}
	}{
		{
			name: "all keys",
			set:  map[string]interface{}{"penalty": "l1", "C": 0.5, "alpha": 0.9, "nlambda": 50, "binding": nil},
			want: map[string]interface{}{"penalty": "l1", "C": 0.5, "alpha": 0.9, "nlambda": 50, "binding": nil},
		},
		{
			name:   "all keys after fit",
			fitted: true,
			set:    map[string]interface{}{"penalty": "l1", "C": 0.5, "alpha": 0.9, "nlambda": 50, "binding": mock},
			want:   map[string]interface{}{"penalty": "l1", "C": 0.5, "alpha": 0.9, "nlambda": 50, "binding": mock},
		},
		{
			name: "alpha nil clears the override",
			set:  map[string]interface{}{"alpha": nil},
			want: map[string]interface{}{"penalty": "l2", "C": 1.0, "alpha": nil, "nlambda": 100, "binding": nil},
		},
		{
			name: "int C and pointer alpha",
			set:  map[string]interface{}{"C": 3, "alpha": Float64(0.25)},
			want: map[string]interface{}{"penalty": "l2", "C": 3.0, "alpha": 0.25, "nlambda": 100, "binding": nil},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lr := NewLogisticRegression(WithAlpha(0.3))
			if tt.fitted {
				X, y := smallData()
				lr.params.Binding = &recordingBinding{path: constantPath([]float64{1, 0}, 0)}
				if err := lr.Fit(X, y); err != nil {
					t.Fatalf("Fit failed: %v", err)
				}
			} else {
				lr.params.Binding = nil
			}

			if err := lr.SetParams(tt.set); err != nil {
				t.Fatalf("SetParams failed: %v", err)
			}
			if got := lr.GetParams(true); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("GetParams() = %v, want %v", got, tt.want)
			}
			if lr.IsFitted() != tt.fitted {
				t.Errorf("SetParams changed the fitted state to %v", lr.IsFitted())
			}
		})
	}
}

func TestSetParamsRejectsAndKeepsParams(t *testing.T) {
	tests := []struct {
		name  string
		set   map[string]interface{}
		param string
	}{
		{"unknown key", map[string]interface{}{"C": 0.5, "l1_ratio": 0.5}, "l1_ratio"},
		{"penalty not a string", map[string]interface{}{"C": 0.5, "penalty": 1}, "penalty"},
		{"C not a number", map[string]interface{}{"penalty": "l1", "C": "big"}, "C"},
		{"alpha not a number", map[string]interface{}{"C": 0.5, "alpha": "half"}, "alpha"},
		{"nlambda not an int", map[string]interface{}{"C": 0.5, "nlambda": 10.0}, "nlambda"},
		{"binding of the wrong type", map[string]interface{}{"C": 0.5, "binding": "native"}, "binding"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lr := NewLogisticRegression(WithPenalty(PenaltyL2), WithC(2), WithNLambda(10))
			want := lr.GetParams(true)

			err := lr.SetParams(tt.set)
			var ve *errors.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.ParamName != tt.param {
				t.Errorf("ParamName = %q, want %q", ve.ParamName, tt.param)
			}
			if got := lr.GetParams(true); !reflect.DeepEqual(got, want) {
				t.Errorf("params changed after a rejected SetParams: %v, want %v", got, want)
			}
		})
	}
}

func TestCloneKeepsParamsAndIsUnfitted(t *testing.T) {
	X, y := smallData()
	rb := &recordingBinding{path: constantPath([]float64{1, 0}, 0)}
	lr := NewLogisticRegression(WithPenalty(PenaltyL1), WithC(0.2), WithAlpha(0.7), WithNLambda(5), WithBinding(rb))
	if err := lr.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	clone := lr.Clone().(*LogisticRegression)
	if clone.IsFitted() {
		t.Error("clone should be unfitted")
	}
	if clone.Coef() != nil {
		t.Error("clone should have no coefficients")
	}
	if !reflect.DeepEqual(clone.GetParams(true), lr.GetParams(true)) {
		t.Errorf("clone params = %v, want %v", clone.GetParams(true), lr.GetParams(true))
	}

	// the alpha override must not be shared
	if err := clone.SetParams(map[string]interface{}{"alpha": 0.1}); err != nil {
		t.Fatal(err)
	}
	if *lr.Params().Alpha != 0.7 {
		t.Errorf("changing the clone's alpha changed the original to %v", *lr.Params().Alpha)
	}
}

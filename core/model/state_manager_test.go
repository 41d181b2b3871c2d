package model

import (
	"sync"
	"testing"

	"github.com/YuminosukeSato/glmnet/pkg/errors"
)

func TestStateManagerLifecycle(t *testing.T) {
	s := NewStateManager()

	if s.IsFitted() {
		t.Fatal("new state should be unfitted")
	}

	err := s.RequireFitted("LogisticRegression", "Predict")
	var nfe *errors.NotFittedError
	if !errors.As(err, &nfe) {
		t.Fatalf("expected NotFittedError, got %v", err)
	}
	if nfe.Method != "Predict" {
		t.Errorf("Method = %q", nfe.Method)
	}

	s.SetFitted(50, 800)
	if err := s.RequireFitted("LogisticRegression", "Predict"); err != nil {
		t.Fatalf("unexpected error after SetFitted: %v", err)
	}
	if f, n := s.GetDimensions(); f != 50 || n != 800 {
		t.Errorf("GetDimensions() = (%d, %d)", f, n)
	}
	if st := s.GetState(); !st.Fitted || st.NFeatures != 50 {
		t.Errorf("GetState() = %+v", st)
	}

	s.Reset()
	if s.IsFitted() {
		t.Error("Reset should clear fitted flag")
	}
	if f, _ := s.GetDimensions(); f != 0 {
		t.Error("Reset should clear dimensions")
	}
}

func TestStateManagerConcurrentReads(t *testing.T) {
	s := NewStateManager()
	s.SetFitted(3, 10)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if !s.IsFitted() {
				t.Error("expected fitted")
			}
		}()
	}
	wg.Wait()
}

package model_selection

import (
	"sort"
	"testing"

	"github.com/YuminosukeSato/glmnet/pkg/errors"
)

func TestKFoldSplit(t *testing.T) {
	tests := []struct {
		name      string
		nSplits   int
		nSamples  int
		shuffle   bool
		testSizes []int
	}{
		{"even", 5, 10, false, []int{2, 2, 2, 2, 2}},
		{"remainder goes to first folds", 3, 10, false, []int{4, 3, 3}},
		{"shuffled", 4, 9, true, []int{3, 2, 2, 2}},
		{"leave one out", 4, 4, false, []int{1, 1, 1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := &KFold{NSplits: tt.nSplits, Shuffle: tt.shuffle, RandomState: 7}
			folds, err := k.Split(tt.nSamples)
			if err != nil {
				t.Fatalf("Split failed: %v", err)
			}
			if len(folds) != tt.nSplits {
				t.Fatalf("got %d folds, want %d", len(folds), tt.nSplits)
			}

			seen := make([]int, tt.nSamples)
			for f, fold := range folds {
				if len(fold.Test) != tt.testSizes[f] {
					t.Errorf("fold %d test size = %d, want %d", f, len(fold.Test), tt.testSizes[f])
				}
				if len(fold.Train)+len(fold.Test) != tt.nSamples {
					t.Errorf("fold %d covers %d samples", f, len(fold.Train)+len(fold.Test))
				}
				inTest := make(map[int]bool, len(fold.Test))
				for _, i := range fold.Test {
					inTest[i] = true
					seen[i]++
				}
				for _, i := range fold.Train {
					if inTest[i] {
						t.Errorf("fold %d: index %d in both train and test", f, i)
					}
				}
			}
			for i, c := range seen {
				if c != 1 {
					t.Errorf("index %d used as test %d times", i, c)
				}
			}
		})
	}
}

func TestKFoldNoShuffleIsContiguous(t *testing.T) {
	folds, err := NewKFold(2).Split(6)
	if err != nil {
		t.Fatal(err)
	}
	want := []int{0, 1, 2}
	for i, v := range folds[0].Test {
		if v != want[i] {
			t.Errorf("Test[%d] = %d, want %d", i, v, want[i])
		}
	}
}

func TestKFoldShuffleDeterministic(t *testing.T) {
	a, _ := (&KFold{NSplits: 3, Shuffle: true, RandomState: 42}).Split(30)
	b, _ := (&KFold{NSplits: 3, Shuffle: true, RandomState: 42}).Split(30)
	for f := range a {
		for i := range a[f].Test {
			if a[f].Test[i] != b[f].Test[i] {
				t.Fatalf("same seed produced different folds")
			}
		}
	}
	if sort.IntsAreSorted(a[0].Test) && sort.IntsAreSorted(a[1].Test) && a[0].Test[0] == 0 && a[1].Test[0] == 10 {
		t.Error("shuffle had no effect")
	}
}

func TestKFoldErrors(t *testing.T) {
	if _, err := NewKFold(1).Split(10); err == nil {
		t.Error("expected error for n_splits < 2")
	} else {
		var ve *errors.ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("expected ValidationError, got %T", err)
		}
	}
	if _, err := NewKFold(5).Split(3); err == nil {
		t.Error("expected error when n_splits > n_samples")
	}
}

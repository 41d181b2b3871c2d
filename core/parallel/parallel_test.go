package parallel

import (
	"errors"
	"sync/atomic"
	"testing"
)

func TestParallelizeCoversAllItems(t *testing.T) {
	tests := []struct {
		name    string
		items   int
		workers int
	}{
		{"empty", 0, 4},
		{"single", 1, 4},
		{"fewer items than workers", 3, 8},
		{"uneven chunks", 1001, 7},
		{"default workers", 257, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen := make([]int32, tt.items)
			ParallelizeN(tt.items, tt.workers, func(start, end int) {
				for i := start; i < end; i++ {
					atomic.AddInt32(&seen[i], 1)
				}
			})
			for i, c := range seen {
				if c != 1 {
					t.Fatalf("item %d visited %d times", i, c)
				}
			}
		})
	}
}

func TestParallelizeWithThresholdSequential(t *testing.T) {
	calls := 0
	ParallelizeWithThreshold(10, DefaultThreshold, func(start, end int) {
		calls++
		if start != 0 || end != 10 {
			t.Errorf("got range [%d, %d)", start, end)
		}
	})
	if calls != 1 {
		t.Errorf("expected one sequential call, got %d", calls)
	}

	ParallelizeWithThreshold(0, DefaultThreshold, func(start, end int) {
		t.Error("fn must not be called for zero items")
	})
}

func TestForEachReturnsFirstError(t *testing.T) {
	errA := errors.New("a")
	errB := errors.New("b")

	err := ForEach(20, 4, func(i int) error {
		switch i {
		case 5:
			return errA
		case 15:
			return errB
		}
		return nil
	})
	if !errors.Is(err, errA) {
		t.Errorf("expected error from lowest index, got %v", err)
	}

	if err := ForEach(20, 4, func(int) error { return nil }); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func BenchmarkParallelize(b *testing.B) {
	out := make([]float64, 100000)
	for i := 0; i < b.N; i++ {
		Parallelize(len(out), func(start, end int) {
			for j := start; j < end; j++ {
				out[j] = float64(j) * 0.5
			}
		})
	}
}

package tracking

import (
	"errors"
	"math/rand"
	"sort"
	"testing"

	"github.com/kelleyvanevert/golive/internal/engine/buffer"
)

func TestRemapOffsetDeletion(t *testing.T) {
	// Deleting [5,10) shifts every position >= 10 down by 5; a position
	// at 7 (inside the deletion) collapses to 5.
	edits := []Edit{buffer.NewDelete(5, 10)}
	tests := []struct {
		offset int
		want   int
	}{
		{0, 0},
		{4, 4},
		{5, 5},
		{7, 5},
		{9, 5},
		{10, 5},
		{15, 10},
	}
	for _, tt := range tests {
		if got := RemapOffset(tt.offset, edits); got != tt.want {
			t.Errorf("RemapOffset(%d) = %d, want %d", tt.offset, got, tt.want)
		}
	}
}

func TestRemapOffsetInsertion(t *testing.T) {
	edits := []Edit{buffer.NewInsert(3, "xyz")}
	tests := []struct {
		offset int
		want   int
	}{
		{2, 2},
		{3, 6}, // at the edit's end boundary: shifts
		{5, 8},
	}
	for _, tt := range tests {
		if got := RemapOffset(tt.offset, edits); got != tt.want {
			t.Errorf("RemapOffset(%d) = %d, want %d", tt.offset, got, tt.want)
		}
	}
}

func TestRemapOffsetMultipleEdits(t *testing.T) {
	// "0123456789" -> delete [1,3), insert "AA" at 5, replace [7,9) with "B"
	edits := []Edit{
		buffer.NewDelete(1, 3),
		buffer.NewInsert(5, "AA"),
		buffer.NewReplace(7, 9, "B"),
	}
	tests := []struct {
		offset int
		want   int
	}{
		{0, 0},
		{1, 1},  // collapses to first edit's start
		{3, 1},  // after delete: shift -2
		{5, 5},  // at insert point: shift -2 then +2
		{6, 6},  // between insert and replace: -2 +2
		{8, 7},  // inside replaced range: collapse to 7 + delta(0)
		{9, 8},  // at replace end: -2 +2 -1
		{10, 9},
	}
	for _, tt := range tests {
		if got := RemapOffset(tt.offset, edits); got != tt.want {
			t.Errorf("RemapOffset(%d) = %d, want %d", tt.offset, got, tt.want)
		}
	}
}

func TestRemapperMatchesSingleShot(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 50; trial++ {
		var edits []Edit
		pos := 0
		for pos < 900 {
			pos += rng.Intn(40) + 1
			end := pos + rng.Intn(10)
			text := ""
			if rng.Intn(2) == 0 {
				text = "ins"
			}
			edits = append(edits, buffer.NewReplace(pos, end, text))
			pos = end
		}

		positions := make([]int, 200)
		for i := range positions {
			positions[i] = rng.Intn(1000)
		}
		sort.Ints(positions)

		m := NewRemapper(edits)
		for _, p := range positions {
			got := m.Next(p)
			want := RemapOffset(p, edits)
			if got != want {
				t.Fatalf("trial %d: Remapper.Next(%d) = %d, single-shot %d", trial, p, got, want)
			}
		}
	}
}

func TestRemapRangeKeepsOrder(t *testing.T) {
	edits := []Edit{buffer.NewDelete(2, 8)}
	got := RemapRange(Range{Start: 4, End: 6}, edits)
	if got.Start != 2 || got.End != 2 {
		t.Errorf("RemapRange = %v, want [2:2)", got)
	}
}

func TestRemapAllUnsortedInput(t *testing.T) {
	edits := []Edit{buffer.NewDelete(5, 10)}
	got := RemapAll([]int{15, 0, 7}, edits)
	want := []int{10, 0, 5}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("RemapAll[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestLengthTracker(t *testing.T) {
	lt := NewLengthTracker(10)
	edits := []Edit{buffer.NewDelete(1, 3), buffer.NewInsert(5, "AA")}

	if err := lt.Commit(edits, 10); err != nil {
		t.Fatalf("consistent commit failed: %v", err)
	}
	if lt.Length() != 10 {
		t.Errorf("Length() = %d, want 10", lt.Length())
	}

	if err := lt.Commit([]Edit{buffer.NewInsert(0, "x")}, 99); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("got %v, want ErrLengthMismatch", err)
	}
}

package rope

import (
	"math/rand"
	"testing"
)

// naiveReplace is the reference model a rope must agree with.
func naiveReplace(s string, start, end int, text string) string {
	if start < 0 {
		start = 0
	}
	if end > len(s) {
		end = len(s)
	}
	if start > end {
		start = end
	}
	return s[:start] + text + s[end:]
}

func TestRandomEditsAgainstNaiveModel(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	alphabet := []string{"a", "b", "\n", "zz", "日", "play ", "440hz"}

	model := ""
	r := New()

	for i := 0; i < 3000; i++ {
		switch rng.Intn(3) {
		case 0: // insert
			offset := clampBoundary(model, rng.Intn(len(model)+1))
			text := alphabet[rng.Intn(len(alphabet))]
			model = naiveReplace(model, offset, offset, text)
			r = r.Insert(offset, text)
		case 1: // delete
			if len(model) == 0 {
				continue
			}
			start := clampBoundary(model, rng.Intn(len(model)))
			end := clampBoundary(model, start+rng.Intn(len(model)-start+1))
			model = naiveReplace(model, start, end, "")
			r = r.Delete(start, end)
		case 2: // replace
			start := clampBoundary(model, rng.Intn(len(model)+1))
			end := clampBoundary(model, start+rng.Intn(len(model)-start+1))
			text := alphabet[rng.Intn(len(alphabet))]
			model = naiveReplace(model, start, end, text)
			r = r.Replace(start, end, text)
		}

		if r.Len() != len(model) {
			t.Fatalf("step %d: Len() = %d, model %d", i, r.Len(), len(model))
		}
		if i%100 == 0 && r.String() != model {
			t.Fatalf("step %d: text diverged from model", i)
		}
	}

	if r.String() != model {
		t.Fatal("final text diverged from model")
	}
}

// clampBoundary moves an offset down to the nearest rune boundary.
func clampBoundary(s string, offset int) int {
	if offset > len(s) {
		offset = len(s)
	}
	for offset > 0 && offset < len(s) && s[offset]&0xC0 == 0x80 {
		offset--
	}
	return offset
}

func FuzzInsertDelete(f *testing.F) {
	f.Add("hello\nworld", 3, 7, "mid")
	f.Add("", 0, 0, "x")
	f.Fuzz(func(t *testing.T, base string, start, end int, text string) {
		if start < 0 || end < start || end > len(base) {
			t.Skip()
		}
		if clampBoundary(base, start) != start || clampBoundary(base, end) != end {
			t.Skip()
		}
		got := FromString(base).Replace(start, end, text).String()
		want := naiveReplace(base, start, end, text)
		if got != want {
			t.Errorf("Replace(%d, %d, %q) on %q = %q, want %q", start, end, text, base, got, want)
		}
	})
}

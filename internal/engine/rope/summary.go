package rope

// Point is a line/column position. Both are 0-indexed; Column is a byte
// offset within the line.
type Point struct {
	Line   int
	Column int
}

// summary holds aggregated metrics for a subtree. It forms a monoid under
// add, which is what makes O(log n) offset/line seeking work.
type summary struct {
	bytes    int // UTF-8 byte count
	newlines int // number of '\n' bytes
}

func (s summary) add(other summary) summary {
	return summary{
		bytes:    s.bytes + other.bytes,
		newlines: s.newlines + other.newlines,
	}
}

func summarize(s string) summary {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			n++
		}
	}
	return summary{bytes: len(s), newlines: n}
}

// nthNewline returns the byte index of the nth newline in s (1-indexed),
// or -1 if s contains fewer than n newlines.
func nthNewline(s string, n int) int {
	if n <= 0 {
		return -1
	}
	count := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			count++
			if count == n {
				return i
			}
		}
	}
	return -1
}

package partition

// Range is a half-open id range [Start, End).
type Range struct {
	Start, End int
}

// Len returns the number of ids in the range.
func (r Range) Len() int { return r.End - r.Start }

// Ranges splits [0, n) into at most parts contiguous ranges whose sizes
// differ by at most one. Empty ranges are never returned.
func Ranges(n, parts int) []Range {
	if n <= 0 {
		return nil
	}
	if parts < 1 {
		parts = 1
	}
	if parts > n {
		parts = n
	}

	out := make([]Range, 0, parts)
	size, rem := n/parts, n%parts
	start := 0
	for i := 0; i < parts; i++ {
		end := start + size
		if i < rem {
			end++
		}
		out = append(out, Range{Start: start, End: end})
		start = end
	}
	return out
}

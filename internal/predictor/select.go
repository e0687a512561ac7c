package predictor

// Score returns the sum of the bytes of a filtered row read as unsigned
// values. Lower scores are taken to compress better.
func Score(row []byte) uint64 {
	var sum uint64
	i := 0
	n := len(row)

	// Process in chunks of 8 for better pipelining
	for ; i+8 <= n; i += 8 {
		sum += uint64(row[i]) + uint64(row[i+1]) + uint64(row[i+2]) + uint64(row[i+3]) +
			uint64(row[i+4]) + uint64(row[i+5]) + uint64(row[i+6]) + uint64(row[i+7])
	}
	for ; i < n; i++ {
		sum += uint64(row[i])
	}
	return sum
}

// Selector picks the filter for each row of an image. It keeps one scratch
// row per filter type so repeated calls do not allocate.
// A Selector is not safe for concurrent use.
type Selector struct {
	scratch [NumFilters][]byte
}

// NewSelector returns a Selector sized for rows of rowLen bytes.
// Longer rows grow the scratch buffers on demand.
func NewSelector(rowLen int) *Selector {
	s := &Selector{}
	for i := range s.scratch {
		s.scratch[i] = make([]byte, rowLen)
	}
	return s
}

// Best filters curr with every filter type, writes the variant with the
// lowest Score into dst and returns its type. Ties go to the lowest type.
// prev is the unfiltered row above curr, or nil for the first row.
func (s *Selector) Best(dst, curr, prev []byte) FilterType {
	n := len(curr)
	best := FilterNone
	var bestScore uint64

	for t := FilterNone; t < NumFilters; t++ {
		if cap(s.scratch[t]) < n {
			s.scratch[t] = make([]byte, n)
		}
		row := s.scratch[t][:n]
		// Filter cannot fail for a defined type.
		_ = Filter(row, curr, prev, t)

		score := Score(row)
		if t == FilterNone || score < bestScore {
			best = t
			bestScore = score
		}
	}

	copy(dst[:n], s.scratch[best][:n])
	return best
}

// Best is a convenience wrapper around Selector.Best for one-off rows.
func Best(dst, curr, prev []byte) FilterType {
	return NewSelector(len(curr)).Best(dst, curr, prev)
}

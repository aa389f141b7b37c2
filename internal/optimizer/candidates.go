package optimizer

// PairSequence produces candidate window pairs as a restartable
// sequence. Each sweep owns its own sequence, so per-instrument runs
// stay independent and free of shared accumulators.
type PairSequence struct {
	pairs []Pair
	next  int
}

// NewPairSequence creates a sequence over the given pairs
func NewPairSequence(pairs []Pair) *PairSequence {
	copied := make([]Pair, len(pairs))
	copy(copied, pairs)
	return &PairSequence{pairs: copied}
}

// Next returns the next candidate pair, false when exhausted
func (s *PairSequence) Next() (Pair, bool) {
	if s.next >= len(s.pairs) {
		return Pair{}, false
	}
	pair := s.pairs[s.next]
	s.next++
	return pair, true
}

// Reset rewinds the sequence to its first pair
func (s *PairSequence) Reset() {
	s.next = 0
}

// Len returns the total number of candidates
func (s *PairSequence) Len() int {
	return len(s.pairs)
}

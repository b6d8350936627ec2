package fmindex

import "iter"

// SearchState is the result of a backward search: the half-open BWT row
// interval [lo, hi) of suffixes starting with the pattern, plus the
// accumulated pattern length. It borrows the index it was created from
// and must not outlive it. A state with lo >= hi is empty.
type SearchState struct {
	idx    backend
	lo, hi int
	patLen int

	// headAnchored restricts the state to occurrences at the start of a
	// piece: rows whose preceding character is the sentinel. Set only by
	// the multi-piece anchored searches.
	headAnchored bool
}

func newSearchState(idx backend) *SearchState {
	return &SearchState{idx: idx, hi: idx.length()}
}

// backwardExtend narrows [lo, hi) by the pattern bytes, last to first.
func backwardExtend(idx backend, lo, hi int, pattern []byte) (int, int) {
	for i := len(pattern) - 1; i >= 0 && lo < hi; i-- {
		c := pattern[i]
		if c > idx.maxValue() {
			return 0, 0
		}
		lo = idx.lfChar(c, lo)
		hi = idx.lfChar(c, hi)
	}
	return lo, hi
}

// Search refines the state by prepending pattern to the current match:
// the result describes occurrences of pattern followed by everything
// already matched.
func (s *SearchState) Search(pattern []byte) *SearchState {
	lo, hi := backwardExtend(s.idx, s.lo, s.hi, pattern)
	return &SearchState{
		idx:          s.idx,
		lo:           lo,
		hi:           hi,
		patLen:       s.patLen + len(pattern),
		headAnchored: s.headAnchored,
	}
}

// Count returns the number of occurrences.
func (s *SearchState) Count() uint64 {
	if s.lo >= s.hi {
		return 0
	}
	if s.headAnchored {
		return uint64(s.idx.lfChar(sentinel, s.hi) - s.idx.lfChar(sentinel, s.lo))
	}
	return uint64(s.hi - s.lo)
}

// Matches enumerates the matches lazily in ascending BWT row order.
func (s *SearchState) Matches() iter.Seq[Match] {
	return func(yield func(Match) bool) {
		for i := s.lo; i < s.hi; i++ {
			if s.headAnchored && s.idx.accessL(i) != sentinel {
				continue
			}
			if !yield(Match{idx: s.idx, row: i, patLen: s.patLen}) {
				return
			}
		}
	}
}

// Match is one occurrence of a search pattern: a BWT row tied back to
// its index. It stays valid as long as the index lives.
type Match struct {
	idx    backend
	row    int
	patLen int
}

// CharsBackward walks the text backward from the match, yielding the
// characters immediately before it, nearest first. The sentinel is
// yielded as the final element, after which the sequence stops.
func (m Match) CharsBackward() iter.Seq[byte] {
	return func(yield func(byte) bool) {
		i := m.row
		for {
			c := m.idx.accessL(i)
			if !yield(c) {
				return
			}
			if c == sentinel {
				return
			}
			i = m.idx.lf(i)
		}
	}
}

// CharsForward walks the text forward from the end of the match,
// yielding the characters immediately after it. It stops just before
// the sentinel, which is never yielded.
func (m Match) CharsForward() iter.Seq[byte] {
	return func(yield func(byte) bool) {
		i := m.row
		for k := 0; k < m.patLen; k++ {
			i = m.idx.fl(i)
		}
		for {
			c := m.idx.accessF(i)
			if c == sentinel {
				return
			}
			if !yield(c) {
				return
			}
			i = m.idx.fl(i)
		}
	}
}

// SearchStateWithLocate is a SearchState over an index that carries a
// sampled suffix array, adding locate queries.
type SearchStateWithLocate struct {
	SearchState
	loc locator
}

func newSearchStateWithLocate(loc locator) *SearchStateWithLocate {
	return &SearchStateWithLocate{SearchState: *newSearchState(loc), loc: loc}
}

// Search refines the state by prepending pattern, as SearchState.Search.
func (s *SearchStateWithLocate) Search(pattern []byte) *SearchStateWithLocate {
	return &SearchStateWithLocate{SearchState: *s.SearchState.Search(pattern), loc: s.loc}
}

// Locate returns the text position of every match, in match order.
func (s *SearchStateWithLocate) Locate() []uint64 {
	out := make([]uint64, 0, s.hi-s.lo)
	for i := s.lo; i < s.hi; i++ {
		if s.headAnchored && s.idx.accessL(i) != sentinel {
			continue
		}
		out = append(out, s.loc.position(i))
	}
	return out
}

// Matches enumerates the matches lazily with locate support.
func (s *SearchStateWithLocate) Matches() iter.Seq[MatchWithLocate] {
	return func(yield func(MatchWithLocate) bool) {
		for m := range s.SearchState.Matches() {
			if !yield(MatchWithLocate{Match: m, loc: s.loc}) {
				return
			}
		}
	}
}

// MatchWithLocate is a Match over an index with a sampled suffix array.
type MatchWithLocate struct {
	Match
	loc locator
}

// Locate returns the text position of this occurrence.
func (m MatchWithLocate) Locate() uint64 {
	return m.loc.position(m.row)
}

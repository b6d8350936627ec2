package fmindex

import "sort"

// MultiPieceIndex is an FM-index over the concatenation of independent
// byte pieces separated by sentinels: P0 0 P1 0 ... Pk-1 0. It reuses
// the single-text query algebra unchanged and adds translation of
// global text positions back to (piece, offset) pairs, plus searches
// anchored at piece boundaries.
type MultiPieceIndex struct {
	fm        *FMIndex
	sentinels []uint64
}

// NewMultiPiece builds a MultiPieceIndex over pieces. Pieces may be
// empty but must not contain the sentinel byte 0.
func NewMultiPiece(pieces [][]byte) (*MultiPieceIndex, error) {
	text, sentinels, maxChar, err := concatPieces(pieces)
	if err != nil {
		return nil, err
	}
	return &MultiPieceIndex{
		fm:        buildFM(text, maxChar, buildSuffixArray(text)),
		sentinels: sentinels,
	}, nil
}

// NewMultiPieceWithLocate builds a MultiPieceIndex with a sampled
// suffix array, enabling locate queries. Level must be in [0, 63].
func NewMultiPieceWithLocate(pieces [][]byte, level int) (*MultiPieceIndexWithLocate, error) {
	text, sentinels, maxChar, err := concatPieces(pieces)
	if err != nil {
		return nil, err
	}
	if level < 0 || level > 63 {
		return nil, ErrSamplingLevel
	}
	sa := buildSuffixArray(text)
	return &MultiPieceIndexWithLocate{
		fm: &FMIndexWithLocate{
			FMIndex: *buildFM(text, maxChar, sa),
			samples: newSampledSuffixArray(sa, level),
		},
		sentinels: sentinels,
	}, nil
}

func concatPieces(pieces [][]byte) ([]byte, []uint64, byte, error) {
	if len(pieces) == 0 {
		return nil, nil, 0, ErrEmptyText
	}
	total := 0
	for _, p := range pieces {
		total += len(p) + 1
	}
	if total > maxTextLen {
		return nil, nil, 0, ErrTooLarge
	}
	text := make([]byte, 0, total)
	sentinels := make([]uint64, 0, len(pieces))
	var maxChar byte
	for _, p := range pieces {
		for _, c := range p {
			if c == sentinel {
				return nil, nil, 0, ErrPieceSentinel
			}
			if c > maxChar {
				maxChar = c
			}
		}
		text = append(text, p...)
		sentinels = append(sentinels, uint64(len(text)))
		text = append(text, sentinel)
	}
	return text, sentinels, maxChar, nil
}

// translate maps a global text position to its piece and the offset
// within that piece: the piece id is the number of sentinels before pos.
func translate(sentinels []uint64, pos uint64) (int, uint64) {
	piece := sort.Search(len(sentinels), func(i int) bool { return sentinels[i] >= pos })
	start := uint64(0)
	if piece > 0 {
		start = sentinels[piece-1] + 1
	}
	return piece, pos - start
}

// Len returns the indexed text length, sentinels included.
func (x *MultiPieceIndex) Len() uint64 { return x.fm.Len() }

// Pieces returns the number of indexed pieces.
func (x *MultiPieceIndex) Pieces() int { return len(x.sentinels) }

// MaxChar returns the largest byte value in the indexed pieces.
func (x *MultiPieceIndex) MaxChar() byte { return x.fm.maxChar }

// HeapSize approximates the bytes held by the index after construction.
func (x *MultiPieceIndex) HeapSize() uintptr {
	return x.fm.HeapSize() + uintptr(len(x.sentinels))*8
}

// Translate maps a global position, as yielded by locate, to the piece
// containing it and the offset within that piece.
func (x *MultiPieceIndex) Translate(pos uint64) (piece int, offset uint64) {
	return translate(x.sentinels, pos)
}

// Search runs backward search for pattern across all pieces. A pattern
// never matches across a piece boundary: the sentinel separating pieces
// occurs in no pattern.
func (x *MultiPieceIndex) Search(pattern []byte) *SearchState {
	return x.fm.Search(pattern)
}

// SearchPrefix searches for occurrences of pattern at the start of a
// piece: matches whose preceding character is the sentinel.
func (x *MultiPieceIndex) SearchPrefix(pattern []byte) *SearchState {
	s := x.fm.Search(pattern)
	s.headAnchored = true
	return s
}

// SearchSuffix searches for occurrences of pattern at the end of a
// piece. The initial interval is the sentinel block of the BWT rows and
// the pattern is prepended to it.
func (x *MultiPieceIndex) SearchSuffix(pattern []byte) *SearchState {
	s := &SearchState{idx: x.fm, lo: 0, hi: len(x.sentinels)}
	return s.Search(pattern)
}

// SearchExact searches for pieces exactly equal to pattern.
func (x *MultiPieceIndex) SearchExact(pattern []byte) *SearchState {
	s := x.SearchSuffix(pattern)
	s.headAnchored = true
	return s
}

// MultiPieceIndexWithLocate is a MultiPieceIndex carrying a sampled
// suffix array, which additionally supports locate queries.
type MultiPieceIndexWithLocate struct {
	fm        *FMIndexWithLocate
	sentinels []uint64
}

// Len returns the indexed text length, sentinels included.
func (x *MultiPieceIndexWithLocate) Len() uint64 { return x.fm.Len() }

// Pieces returns the number of indexed pieces.
func (x *MultiPieceIndexWithLocate) Pieces() int { return len(x.sentinels) }

// MaxChar returns the largest byte value in the indexed pieces.
func (x *MultiPieceIndexWithLocate) MaxChar() byte { return x.fm.maxChar }

// HeapSize approximates the bytes held by the index after construction.
func (x *MultiPieceIndexWithLocate) HeapSize() uintptr {
	return x.fm.HeapSize() + uintptr(len(x.sentinels))*8
}

// Translate maps a global position, as yielded by locate, to the piece
// containing it and the offset within that piece.
func (x *MultiPieceIndexWithLocate) Translate(pos uint64) (piece int, offset uint64) {
	return translate(x.sentinels, pos)
}

// Search runs backward search for pattern across all pieces. The
// resulting state supports locate queries.
func (x *MultiPieceIndexWithLocate) Search(pattern []byte) *SearchStateWithLocate {
	return x.fm.Search(pattern)
}

// SearchPrefix searches for occurrences of pattern at the start of a
// piece, with locate support.
func (x *MultiPieceIndexWithLocate) SearchPrefix(pattern []byte) *SearchStateWithLocate {
	s := x.fm.Search(pattern)
	s.headAnchored = true
	return s
}

// SearchSuffix searches for occurrences of pattern at the end of a
// piece, with locate support.
func (x *MultiPieceIndexWithLocate) SearchSuffix(pattern []byte) *SearchStateWithLocate {
	s := &SearchStateWithLocate{
		SearchState: SearchState{idx: x.fm, lo: 0, hi: len(x.sentinels)},
		loc:         x.fm,
	}
	return s.Search(pattern)
}

// SearchExact searches for pieces exactly equal to pattern, with locate
// support.
func (x *MultiPieceIndexWithLocate) SearchExact(pattern []byte) *SearchStateWithLocate {
	s := x.SearchSuffix(pattern)
	s.headAnchored = true
	return s
}

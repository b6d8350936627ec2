package fmindex

// backend is the abstract BWT surface shared by the FM and RLFM
// variants. Backward search, match iteration and the character
// iterators are written against it; the two variants differ only in how
// they realize these operations.
type backend interface {
	// length is the indexed text length, sentinel included.
	length() int
	// maxValue is the largest byte value in the indexed text.
	maxValue() byte
	// accessL returns L[i], the BWT character at row i.
	accessL(i int) byte
	// lfChar returns C[c] + rank(c, i). With i = row it is the LF step
	// for character c; with an interval endpoint it is the backward
	// search interval update.
	lfChar(c byte, i int) int
	// lf returns LF(i) = lfChar(L[i], i).
	lf(i int) int
	// accessF returns F[i], the first character of the suffix at row i.
	accessF(i int) byte
	// fl is the inverse of lf (ψ). Valid only where F[i] is not the
	// sentinel; with repeated sentinels the ψ step is undefined there,
	// and no caller crosses a sentinel going forward.
	fl(i int) int
}

// locator is a backend that can recover text positions of rows.
type locator interface {
	backend
	position(i int) uint64
}

// FMIndex is a full-text self-index storing the Burrows-Wheeler
// transform of the text in a wavelet matrix. It answers count queries
// and character extraction around matches; it cannot locate matches
// (see FMIndexWithLocate).
type FMIndex struct {
	bw      *waveletMatrix
	c       []int // c[x] = count of characters < x; len maxChar+2
	n       int
	maxChar byte
}

// New builds an FMIndex over text.
func New(text Text) (*FMIndex, error) {
	if err := text.validate(); err != nil {
		return nil, err
	}
	return buildFM(text.bytes, text.maxChar, buildSuffixArray(text.bytes)), nil
}

// NewWithLocate builds an FMIndex that additionally samples the suffix
// array at the given level, enabling locate queries. Level l keeps one
// suffix-array entry per 2^l text positions; higher levels use less
// memory and make locate slower. Level must be in [0, 63].
func NewWithLocate(text Text, level int) (*FMIndexWithLocate, error) {
	if err := text.validate(); err != nil {
		return nil, err
	}
	if level < 0 || level > 63 {
		return nil, ErrSamplingLevel
	}
	sa := buildSuffixArray(text.bytes)
	return &FMIndexWithLocate{
		FMIndex: *buildFM(text.bytes, text.maxChar, sa),
		samples: newSampledSuffixArray(sa, level),
	}, nil
}

func buildFM(t []byte, maxChar byte, sa []int) *FMIndex {
	n := len(t)
	bwt := make([]byte, n)
	for i, p := range sa {
		if p == 0 {
			bwt[i] = t[n-1]
		} else {
			bwt[i] = t[p-1]
		}
	}
	c := make([]int, int(maxChar)+2)
	for _, ch := range t {
		c[int(ch)+1]++
	}
	for i := 1; i < len(c); i++ {
		c[i] += c[i-1]
	}
	return &FMIndex{
		bw:      newWaveletMatrix(bwt, maxChar),
		c:       c,
		n:       n,
		maxChar: maxChar,
	}
}

// Len returns the indexed text length, sentinel included.
func (x *FMIndex) Len() uint64 { return uint64(x.n) }

// MaxChar returns the largest byte value in the indexed text.
func (x *FMIndex) MaxChar() byte { return x.maxChar }

// Search runs backward search for pattern over the whole text.
// A pattern that does not occur, or that contains a byte larger than
// MaxChar, yields an empty state; this is not an error.
func (x *FMIndex) Search(pattern []byte) *SearchState {
	return newSearchState(x).Search(pattern)
}

// HeapSize approximates the bytes held by the index after construction.
func (x *FMIndex) HeapSize() uintptr {
	return x.bw.heapSize() + uintptr(len(x.c))*8
}

func (x *FMIndex) length() int        { return x.n }
func (x *FMIndex) maxValue() byte     { return x.maxChar }
func (x *FMIndex) accessL(i int) byte { return x.bw.access(i) }

func (x *FMIndex) lfChar(c byte, i int) int {
	return x.c[c] + x.bw.rank(c, i)
}

func (x *FMIndex) lf(i int) int {
	return x.lfChar(x.bw.access(i), i)
}

func (x *FMIndex) accessF(i int) byte {
	// greatest c with c[c] <= i
	s, e := 0, len(x.c)-1
	for e-s > 1 {
		m := s + (e-s)/2
		if x.c[m] <= i {
			s = m
		} else {
			e = m
		}
	}
	return byte(s)
}

func (x *FMIndex) fl(i int) int {
	c := x.accessF(i)
	return x.bw.selectPos(c, i-x.c[c])
}

// FMIndexWithLocate is an FMIndex carrying a sampled suffix array, which
// additionally supports locate queries.
type FMIndexWithLocate struct {
	FMIndex
	samples *sampledSuffixArray
}

// Search runs backward search for pattern over the whole text. The
// resulting state supports locate queries.
func (x *FMIndexWithLocate) Search(pattern []byte) *SearchStateWithLocate {
	return newSearchStateWithLocate(x).Search(pattern)
}

// HeapSize approximates the bytes held by the index after construction.
func (x *FMIndexWithLocate) HeapSize() uintptr {
	return x.FMIndex.HeapSize() + x.samples.heapSize()
}

func (x *FMIndexWithLocate) position(i int) uint64 {
	return locatePosition(x, x.samples, i)
}

package fmindex

import (
	"github.com/mozu0/bitvector"
)

// RLFMIndex is a run-length FM-index: the BWT is stored as its maximal
// same-character runs. A wavelet matrix holds one head character per
// run; bit vector b marks run starts in BWT order, bit vector bp marks
// run starts with the runs regrouped by head character; cRuns[x] counts
// the runs whose head is < x. This is smaller than FMIndex when the BWT
// has few runs, and slower by a constant factor.
type RLFMIndex struct {
	heads   *waveletMatrix
	b       *bitvector.BitVector
	bp      *bitvector.BitVector
	cRuns   []int // len maxChar+2, last entry = nRuns
	nRuns   int
	n       int
	maxChar byte
}

// NewRLFM builds an RLFMIndex over text.
func NewRLFM(text Text) (*RLFMIndex, error) {
	if err := text.validate(); err != nil {
		return nil, err
	}
	return buildRLFM(text.bytes, text.maxChar, buildSuffixArray(text.bytes)), nil
}

// NewRLFMWithLocate builds an RLFMIndex with a sampled suffix array,
// enabling locate queries. Level must be in [0, 63]; see NewWithLocate.
func NewRLFMWithLocate(text Text, level int) (*RLFMIndexWithLocate, error) {
	if err := text.validate(); err != nil {
		return nil, err
	}
	if level < 0 || level > 63 {
		return nil, ErrSamplingLevel
	}
	sa := buildSuffixArray(text.bytes)
	return &RLFMIndexWithLocate{
		RLFMIndex: *buildRLFM(text.bytes, text.maxChar, sa),
		samples:   newSampledSuffixArray(sa, level),
	}, nil
}

func buildRLFM(t []byte, maxChar byte, sa []int) *RLFMIndex {
	n := len(t)

	// Run heads and lengths of the BWT, plus per-character run lengths
	// in BWT order for the regrouped bp layout.
	var heads []byte
	runLens := make([][]int, int(maxChar)+1)
	bb := bitvector.NewBuilder(n)
	prev, first := byte(0), true
	for i, p := range sa {
		c := t[n-1]
		if p > 0 {
			c = t[p-1]
		}
		if first || c != prev {
			heads = append(heads, c)
			bb.Set(i)
			runLens[c] = append(runLens[c], 1)
		} else {
			ls := runLens[c]
			ls[len(ls)-1]++
		}
		prev, first = c, false
	}

	bpb := bitvector.NewBuilder(n)
	cRuns := make([]int, int(maxChar)+2)
	pos, runs := 0, 0
	for c, ls := range runLens {
		cRuns[c] = runs
		runs += len(ls)
		for _, l := range ls {
			bpb.Set(pos)
			pos += l
		}
	}
	cRuns[len(cRuns)-1] = runs

	return &RLFMIndex{
		heads:   newWaveletMatrix(heads, maxChar),
		b:       bb.Build(),
		bp:      bpb.Build(),
		cRuns:   cRuns,
		nRuns:   runs,
		n:       n,
		maxChar: maxChar,
	}
}

// Len returns the indexed text length, sentinel included.
func (x *RLFMIndex) Len() uint64 { return uint64(x.n) }

// MaxChar returns the largest byte value in the indexed text.
func (x *RLFMIndex) MaxChar() byte { return x.maxChar }

// Search runs backward search for pattern over the whole text.
func (x *RLFMIndex) Search(pattern []byte) *SearchState {
	return newSearchState(x).Search(pattern)
}

// HeapSize approximates the bytes held by the index after construction.
func (x *RLFMIndex) HeapSize() uintptr {
	return x.heads.heapSize() + uintptr(x.n)/4 + uintptr(len(x.cRuns))*8
}

func (x *RLFMIndex) length() int    { return x.n }
func (x *RLFMIndex) maxValue() byte { return x.maxChar }

func (x *RLFMIndex) accessL(i int) byte {
	return x.heads.access(x.b.Rank1(i+1) - 1)
}

// lfChar computes C[c] + rank(c, i) from the run structure alone: the
// regrouped start of the relevant c-run is exactly C[c] plus the number
// of c characters in earlier runs.
func (x *RLFMIndex) lfChar(c byte, i int) int {
	nr, extra := 0, 0
	if i > 0 {
		r := x.b.Rank1(i) - 1 // run containing position i-1
		nr = x.heads.rank(c, r)
		if x.heads.access(r) == c {
			extra = i - x.b.Select1(r)
		}
	}
	k := x.cRuns[c] + nr
	if extra > 0 {
		return x.bp.Select1(k) + extra
	}
	if k >= x.nRuns {
		return x.n
	}
	return x.bp.Select1(k)
}

func (x *RLFMIndex) lf(i int) int {
	return x.lfChar(x.accessL(i), i)
}

func (x *RLFMIndex) accessF(i int) byte {
	r := x.bp.Rank1(i+1) - 1 // regrouped run containing i
	s, e := 0, len(x.cRuns)-1
	for e-s > 1 {
		m := s + (e-s)/2
		if x.cRuns[m] <= r {
			s = m
		} else {
			e = m
		}
	}
	return byte(s)
}

func (x *RLFMIndex) fl(i int) int {
	c := x.accessF(i)
	j := x.bp.Rank1(i+1) - 1
	p := x.bp.Select1(j)
	m := x.heads.selectPos(c, j-x.cRuns[c])
	return x.b.Select1(m) + i - p
}

// RLFMIndexWithLocate is an RLFMIndex carrying a sampled suffix array,
// which additionally supports locate queries.
type RLFMIndexWithLocate struct {
	RLFMIndex
	samples *sampledSuffixArray
}

// Search runs backward search for pattern over the whole text. The
// resulting state supports locate queries.
func (x *RLFMIndexWithLocate) Search(pattern []byte) *SearchStateWithLocate {
	return newSearchStateWithLocate(x).Search(pattern)
}

// HeapSize approximates the bytes held by the index after construction.
func (x *RLFMIndexWithLocate) HeapSize() uintptr {
	return x.RLFMIndex.HeapSize() + x.samples.heapSize()
}

func (x *RLFMIndexWithLocate) position(i int) uint64 {
	return locatePosition(x, x.samples, i)
}

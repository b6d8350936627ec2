package fmindex

import (
	"github.com/mozu0/bitvector"
)

// sampledSuffixArray keeps the suffix-array entries whose text position
// is a multiple of the sampling stride 2^level: a mark bit vector over
// the rows plus the retained values divided by the stride.
type sampledSuffixArray struct {
	level  uint8
	stride uint64
	marks  *bitvector.BitVector
	values []uint32
	n      int
}

func newSampledSuffixArray(sa []int, level int) *sampledSuffixArray {
	stride := uint64(1) << uint(level)
	b := bitvector.NewBuilder(len(sa))
	var values []uint32
	for i, p := range sa {
		if uint64(p)%stride == 0 {
			b.Set(i)
			values = append(values, uint32(uint64(p)/stride))
		}
	}
	return &sampledSuffixArray{
		level:  uint8(level),
		stride: stride,
		marks:  b.Build(),
		values: values,
		n:      len(sa),
	}
}

// lookup returns the suffix-array value at row i if that row is sampled.
func (s *sampledSuffixArray) lookup(i int) (uint64, bool) {
	r := s.marks.Rank1(i)
	if s.marks.Rank1(i+1) == r {
		return 0, false
	}
	return uint64(s.values[r]) * s.stride, true
}

func (s *sampledSuffixArray) heapSize() uintptr {
	return uintptr(s.n)/8 + uintptr(s.n)/16 + uintptr(len(s.values))*4
}

// locatePosition resolves row i to its text position: walk LF until a
// sampled row is reached, then add back the number of steps taken. The
// walk visits strictly decreasing text positions and position 0 is
// always sampled, so it terminates within min(stride, n) steps.
func locatePosition(idx backend, s *sampledSuffixArray, i int) uint64 {
	var steps uint64
	for {
		if v, ok := s.lookup(i); ok {
			return v + steps
		}
		i = idx.lf(i)
		steps++
	}
}

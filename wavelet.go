package fmindex

import (
	"github.com/mozu0/bitvector"
)

// waveletMatrix represents a byte sequence over a bounded alphabet and
// answers access, rank and select in O(log σ). Each row partitions the
// sequence by one bit of the character, most significant first; zeros
// precede ones in the next row.
type waveletMatrix struct {
	rows  []*bitvector.BitVector
	zeros []int // count of 0-bits per row
	bits  uint
	n     int
}

// bitsFor returns the number of bits needed to store max, at least 1.
func bitsFor(max byte) uint {
	bits := uint(1)
	for max>>bits > 0 {
		bits++
	}
	return bits
}

func newWaveletMatrix(data []byte, maxChar byte) *waveletMatrix {
	n := len(data)
	bits := bitsFor(maxChar)
	wm := &waveletMatrix{
		rows:  make([]*bitvector.BitVector, 0, bits),
		zeros: make([]int, 0, bits),
		bits:  bits,
		n:     n,
	}
	cur := make([]byte, n)
	copy(cur, data)
	for r := uint(0); r < bits; r++ {
		shift := bits - r - 1
		zeros := make([]byte, 0, n)
		ones := make([]byte, 0, n)
		b := bitvector.NewBuilder(n)
		for i, c := range cur {
			if (c>>shift)&1 == 1 {
				b.Set(i)
				ones = append(ones, c)
			} else {
				zeros = append(zeros, c)
			}
		}
		wm.rows = append(wm.rows, b.Build())
		wm.zeros = append(wm.zeros, len(zeros))
		cur = append(zeros, ones...)
	}
	return wm
}

func (w *waveletMatrix) access(i int) byte {
	var c byte
	for r, row := range w.rows {
		shift := w.bits - uint(r) - 1
		if row.Rank1(i+1)-row.Rank1(i) == 1 {
			c |= 1 << shift
			i = w.zeros[r] + row.Rank1(i)
		} else {
			i = row.Rank0(i)
		}
	}
	return c
}

// rank returns the number of occurrences of c in the first i positions.
func (w *waveletMatrix) rank(c byte, i int) int {
	if i > w.n {
		i = w.n
	}
	s, e := 0, i
	for r, row := range w.rows {
		shift := w.bits - uint(r) - 1
		if (c>>shift)&1 == 1 {
			s = row.Rank1(s) + w.zeros[r]
			e = row.Rank1(e) + w.zeros[r]
		} else {
			s = row.Rank0(s)
			e = row.Rank0(e)
		}
	}
	return e - s
}

// selectPos returns the position of the k-th occurrence of c, 0-origin.
// The occurrence must exist.
func (w *waveletMatrix) selectPos(c byte, k int) int {
	s := 0
	for r, row := range w.rows {
		shift := w.bits - uint(r) - 1
		if (c>>shift)&1 == 1 {
			s = row.Rank1(s) + w.zeros[r]
		} else {
			s = row.Rank0(s)
		}
	}
	e := s + k
	for r := len(w.rows) - 1; r >= 0; r-- {
		row := w.rows[r]
		shift := w.bits - uint(r) - 1
		if (c>>shift)&1 == 1 {
			e = row.Select1(e - w.zeros[r])
		} else {
			e = row.Select0(e)
		}
	}
	return e
}

func (w *waveletMatrix) length() int { return w.n }

// heapSize approximates the bytes held by the matrix: one bit per
// character per row plus the rank directory overhead.
func (w *waveletMatrix) heapSize() uintptr {
	perRow := uintptr(w.n)/8 + uintptr(w.n)/16
	return perRow*uintptr(len(w.rows)) + uintptr(len(w.zeros))*8
}

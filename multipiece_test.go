package fmindex

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fooFarBaz(t *testing.T) *MultiPieceIndexWithLocate {
	t.Helper()
	x, err := NewMultiPieceWithLocate([][]byte{[]byte("foo"), []byte("far"), []byte("baz")}, 0)
	require.NoError(t, err)
	return x
}

func TestMultiPieceSeed(t *testing.T) {
	x := fooFarBaz(t)
	require.Equal(t, 3, x.Pieces())
	require.Equal(t, uint64(12), x.Len())

	s := x.Search([]byte("a"))
	require.Equal(t, uint64(2), s.Count())

	var got [][2]uint64
	for _, pos := range s.Locate() {
		piece, offset := x.Translate(pos)
		got = append(got, [2]uint64{uint64(piece), offset})
	}
	assert.ElementsMatch(t, [][2]uint64{{1, 1}, {2, 1}}, got)
}

func TestMultiPieceValidation(t *testing.T) {
	_, err := NewMultiPiece(nil)
	assert.ErrorIs(t, err, ErrEmptyText)

	_, err = NewMultiPiece([][]byte{[]byte("a\x00b")})
	assert.ErrorIs(t, err, ErrPieceSentinel)

	_, err = NewMultiPieceWithLocate([][]byte{[]byte("ab")}, 64)
	assert.ErrorIs(t, err, ErrSamplingLevel)

	// Empty pieces are allowed.
	x, err := NewMultiPiece([][]byte{nil, []byte("ab"), nil})
	require.NoError(t, err)
	assert.Equal(t, 3, x.Pieces())
}

func TestMultiPieceNoCrossBoundaryMatch(t *testing.T) {
	x := fooFarBaz(t)
	// "ofar" spans the foo|far boundary; the sentinel between pieces
	// prevents the match.
	assert.Equal(t, uint64(0), x.Search([]byte("ofar")).Count())
	assert.Equal(t, uint64(0), x.Search([]byte("rba")).Count())
	assert.Equal(t, uint64(1), x.Search([]byte("far")).Count())
}

func TestMultiPieceTranslate(t *testing.T) {
	x := fooFarBaz(t)
	cases := []struct {
		pos    uint64
		piece  int
		offset uint64
	}{
		{0, 0, 0}, {2, 0, 2}, {4, 1, 0}, {6, 1, 2}, {8, 2, 0}, {10, 2, 2},
	}
	for _, tc := range cases {
		piece, offset := x.Translate(tc.pos)
		assert.Equal(t, tc.piece, piece, "piece of %d", tc.pos)
		assert.Equal(t, tc.offset, offset, "offset of %d", tc.pos)
	}
}

func TestMultiPieceAnchoredSearch(t *testing.T) {
	x := fooFarBaz(t)

	prefix := x.SearchPrefix([]byte("f"))
	assert.Equal(t, uint64(2), prefix.Count())
	var pieces []int
	for _, pos := range prefix.Locate() {
		piece, offset := x.Translate(pos)
		assert.Equal(t, uint64(0), offset)
		pieces = append(pieces, piece)
	}
	assert.ElementsMatch(t, []int{0, 1}, pieces)

	assert.Equal(t, uint64(1), x.SearchSuffix([]byte("o")).Count())
	assert.Equal(t, uint64(1), x.SearchSuffix([]byte("ar")).Count())
	assert.Equal(t, uint64(0), x.SearchSuffix([]byte("fo")).Count())

	assert.Equal(t, uint64(1), x.SearchExact([]byte("far")).Count())
	assert.Equal(t, uint64(0), x.SearchExact([]byte("fa")).Count())
	assert.Equal(t, uint64(0), x.SearchExact([]byte("ofar")).Count())
}

func TestMultiPieceAnchoredMatches(t *testing.T) {
	x := fooFarBaz(t)

	var count int
	for m := range x.SearchPrefix([]byte("ba")).Matches() {
		count++
		// A piece-initial match is preceded only by the sentinel.
		assert.Equal(t, []byte{sentinel}, collectBytes(m.CharsBackward()))
	}
	assert.Equal(t, 1, count)
}

func TestMultiPieceAgainstNaive(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	for trial := 0; trial < 15; trial++ {
		var pieces [][]byte
		for p := 0; p < 1+rng.Intn(5); p++ {
			piece := make([]byte, rng.Intn(25))
			for i := range piece {
				piece[i] = byte('a' + rng.Intn(4))
			}
			pieces = append(pieces, piece)
		}
		x, err := NewMultiPieceWithLocate(pieces, rng.Intn(3))
		require.NoError(t, err)

		text := bytes.Join(pieces, []byte{sentinel})
		text = append(text, sentinel)

		for _, p := range allPatterns(text, 3) {
			if bytes.IndexByte(p, sentinel) >= 0 {
				continue
			}
			want := naiveOccurrences(text, p)
			s := x.Search(p)
			require.Equal(t, uint64(len(want)), s.Count(), "count(%q) on %q", p, text)
			require.ElementsMatch(t, want, s.Locate(), "locate(%q) on %q", p, text)
		}
	}
}

func TestMultiPieceLFPermutation(t *testing.T) {
	// The LF identity holds with repeated sentinels under a
	// content-ordered suffix array: the walk from the sentinel row
	// visits every row once.
	x, err := NewMultiPiece([][]byte{[]byte("foo"), []byte("far"), []byte("baz")})
	require.NoError(t, err)

	n := int(x.Len())
	i, steps := 0, 0
	visited := make([]bool, n)
	for !visited[i] {
		visited[i] = true
		i = x.fm.lf(i)
		steps++
	}
	assert.Equal(t, n, steps)
	assert.Equal(t, 0, i)
}

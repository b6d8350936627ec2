package fmindex

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaveletMatrixSmall(t *testing.T) {
	data := []byte{4, 7, 6, 5, 3, 2, 1, 0, 1, 4, 1, 7}
	wm := newWaveletMatrix(data, 7)
	require.Equal(t, len(data), wm.length())

	for i, c := range data {
		assert.Equal(t, c, wm.access(i), "access(%d)", i)
	}

	for c := byte(0); c < 8; c++ {
		count := 0
		for i, v := range data {
			assert.Equal(t, count, wm.rank(c, i), "rank(%d, %d)", c, i)
			if v == c {
				assert.Equal(t, i, wm.selectPos(c, count), "selectPos(%d, %d)", c, count)
				count++
			}
		}
		assert.Equal(t, count, wm.rank(c, len(data)))
	}
}

func TestWaveletMatrixRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for trial := 0; trial < 20; trial++ {
		n := 1 + rng.Intn(300)
		maxChar := byte(rng.Intn(256))
		data := make([]byte, n)
		for i := range data {
			data[i] = byte(rng.Intn(int(maxChar) + 1))
		}
		wm := newWaveletMatrix(data, maxChar)

		counts := make([]int, int(maxChar)+1)
		for i, c := range data {
			require.Equal(t, c, wm.access(i), "access(%d)", i)
			require.Equal(t, counts[c], wm.rank(c, i), "rank(%d, %d)", c, i)
			require.Equal(t, i, wm.selectPos(c, counts[c]), "selectPos(%d, %d)", c, counts[c])
			counts[c]++
		}
		for c := 0; c <= int(maxChar); c++ {
			require.Equal(t, counts[c], wm.rank(byte(c), n))
		}
	}
}

func TestBitsFor(t *testing.T) {
	cases := []struct {
		max  byte
		bits uint
	}{
		{0, 1}, {1, 1}, {2, 2}, {3, 2}, {4, 3}, {7, 3}, {8, 4}, {127, 7}, {128, 8}, {255, 8},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.bits, bitsFor(tc.max), "bitsFor(%d)", tc.max)
	}
}

package fmindex

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildSuffixArrayMississippi(t *testing.T) {
	sa := buildSuffixArray([]byte("mississippi\x00"))
	want := []int{11, 10, 7, 4, 1, 0, 9, 8, 6, 3, 5, 2}
	assert.Equal(t, want, sa)
}

func TestBuildSuffixArrayRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		n := 2 + rng.Intn(200)
		sigma := 1 + rng.Intn(8)
		text := randomText(rng, n, sigma)
		assert.Equal(t, naiveSuffixArray(text), buildSuffixArray(text), "text %q", text)
	}
}

func TestBuildSuffixArrayMultiSentinel(t *testing.T) {
	// Pieces joined by sentinels: suffixes are still ordered purely by
	// content, so the generic builder applies unchanged.
	text := []byte("foo\x00far\x00baz\x00")
	assert.Equal(t, naiveSuffixArray(text), buildSuffixArray(text))

	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 30; i++ {
		var text []byte
		for p := 0; p < 1+rng.Intn(4); p++ {
			for j := 0; j < rng.Intn(20); j++ {
				text = append(text, byte(1+rng.Intn(4)))
			}
			text = append(text, sentinel)
		}
		assert.Equal(t, naiveSuffixArray(text), buildSuffixArray(text), "text %q", text)
	}
}

package fmindex

import (
	"bytes"
	"math/rand"
)

// naiveOccurrences returns the starting positions of pattern in text,
// ascending. An empty pattern occurs at every position.
func naiveOccurrences(text, pattern []byte) []uint64 {
	var out []uint64
	for i := 0; i+len(pattern) <= len(text); i++ {
		if bytes.Equal(text[i:i+len(pattern)], pattern) {
			out = append(out, uint64(i))
		}
	}
	return out
}

// naiveSuffixArray sorts all suffixes by content.
func naiveSuffixArray(text []byte) []int {
	sa := make([]int, len(text))
	for i := range sa {
		sa[i] = i
	}
	for i := 1; i < len(sa); i++ {
		for j := i; j > 0 && bytes.Compare(text[sa[j]:], text[sa[j-1]:]) < 0; j-- {
			sa[j], sa[j-1] = sa[j-1], sa[j]
		}
	}
	return sa
}

// randomText generates a sentinel-terminated text of total length n over
// the alphabet {1..sigma}.
func randomText(rng *rand.Rand, n int, sigma int) []byte {
	t := make([]byte, n)
	for i := 0; i < n-1; i++ {
		t[i] = byte(1 + rng.Intn(sigma))
	}
	t[n-1] = sentinel
	return t
}

// allPatterns returns every distinct substring of text (sentinel
// excluded) up to the given length, plus a few that cannot occur.
func allPatterns(text []byte, maxLen int) [][]byte {
	body := text[:len(text)-1]
	seen := map[string]bool{}
	var out [][]byte
	for l := 1; l <= maxLen; l++ {
		for i := 0; i+l <= len(body); i++ {
			p := string(body[i : i+l])
			if !seen[p] {
				seen[p] = true
				out = append(out, []byte(p))
			}
		}
	}
	out = append(out, []byte{0xff}, []byte("\xfe\xfe"))
	return out
}

func mississippi() Text {
	t, err := NewText([]byte("mississippi\x00"))
	if err != nil {
		panic(err)
	}
	return t
}

func collectBytes(seq func(func(byte) bool)) []byte {
	var out []byte
	seq(func(c byte) bool {
		out = append(out, c)
		return true
	})
	return out
}

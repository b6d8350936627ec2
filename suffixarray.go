package fmindex

import (
	"strconv"
	"unsafe"
)

// buildSuffixArray constructs the suffix array of text with SA-IS.
// Suffixes are ordered by content; with a smallest final byte this puts
// the full-text sentinel suffix at position 0.
func buildSuffixArray(text []byte) []int {
	switch strconv.IntSize {
	case 32:
		sa32 := make([]int32, len(text))
		text_32(text, sa32)
		return *(*[]int)(unsafe.Pointer(&sa32))
	default:
		sa64 := make([]int64, len(text))
		text_64(text, sa64)
		return *(*[]int)(unsafe.Pointer(&sa64))
	}
}

// Package fmindex implements compressed full-text self-indexes based on
// the FM-index: count and locate substring queries over a static byte
// text without keeping the text in plain form, plus lazy extraction of
// the characters around any occurrence.
//
// Three index families are provided. FMIndex stores the Burrows-Wheeler
// transform of the text in a wavelet matrix. RLFMIndex run-length
// compresses the transform, trading query speed for space on repetitive
// texts. MultiPieceIndex indexes a list of independent byte pieces
// joined by sentinel separators and can translate match positions back
// to (piece, offset) pairs.
//
// Texts are opaque byte sequences of at most 2^32-1 bytes terminated by
// a unique sentinel byte 0. Each family comes in two flavors: the plain
// one answers count and extraction queries, and the WithLocate one adds
// locate queries backed by a sampled suffix array whose density is
// chosen at construction time. Indexes are immutable once built and are
// safe for concurrent readers.
package fmindex

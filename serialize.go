package fmindex

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/mozu0/bitvector"
)

// Serialized layout, little-endian throughout. FM: an 8-byte magic,
// n (u64), max_char (u32), the C table (σ+1 u64 entries), the wavelet
// blob (u64 length prefix), and for the with-locate variants a sampling
// block {level u8, mark bit vector, V as u32 entries}. RLFM and
// MultiPiece use their own magic; RLFM stores the run tables, and
// MultiPiece stores its sentinel table right after the magic.
var (
	magicFM   = []byte("FMIDXv01")
	magicRLFM = []byte("RLFMv01\x00")
	magicMP   = []byte("FMMPv01\x00")
)

type encoder struct {
	w   io.Writer
	n   int64
	err error
}

func (e *encoder) write(b []byte) {
	if e.err != nil {
		return
	}
	k, err := e.w.Write(b)
	e.n += int64(k)
	e.err = err
}

func (e *encoder) u8(v uint8) { e.write([]byte{v}) }

func (e *encoder) u32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	e.write(b[:])
}

func (e *encoder) u64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	e.write(b[:])
}

func bitAt(bv *bitvector.BitVector, i int) bool {
	return bv.Rank1(i+1)-bv.Rank1(i) == 1
}

// bitvec writes a bit vector as its length followed by packed u64 words.
func (e *encoder) bitvec(bv *bitvector.BitVector, n int) {
	e.u64(uint64(n))
	var word uint64
	for i := 0; i < n; i++ {
		if bitAt(bv, i) {
			word |= 1 << (uint(i) % 64)
		}
		if i%64 == 63 {
			e.u64(word)
			word = 0
		}
	}
	if n%64 != 0 {
		e.u64(word)
	}
}

func waveletBlob(w *waveletMatrix) []byte {
	var buf bytes.Buffer
	e := &encoder{w: &buf}
	e.u64(uint64(w.n))
	e.u8(uint8(w.bits))
	for _, row := range w.rows {
		e.bitvec(row, w.n)
	}
	return buf.Bytes()
}

func (e *encoder) sampling(s *sampledSuffixArray) {
	e.u8(s.level)
	e.bitvec(s.marks, s.n)
	for _, v := range s.values {
		e.u32(v)
	}
}

func (x *FMIndex) writeCore(e *encoder) {
	e.u64(uint64(x.n))
	e.u32(uint32(x.maxChar))
	for _, v := range x.c {
		e.u64(uint64(v))
	}
	blob := waveletBlob(x.bw)
	e.u64(uint64(len(blob)))
	e.write(blob)
}

// WriteTo serializes the index.
func (x *FMIndex) WriteTo(w io.Writer) (int64, error) {
	e := &encoder{w: w}
	e.write(magicFM)
	x.writeCore(e)
	return e.n, e.err
}

// WriteTo serializes the index, sampled suffix array included.
func (x *FMIndexWithLocate) WriteTo(w io.Writer) (int64, error) {
	e := &encoder{w: w}
	e.write(magicFM)
	x.writeCore(e)
	e.sampling(x.samples)
	return e.n, e.err
}

func (x *RLFMIndex) writeCore(e *encoder) {
	e.u64(uint64(x.n))
	e.u32(uint32(x.maxChar))
	e.u64(uint64(x.nRuns))
	for _, v := range x.cRuns {
		e.u64(uint64(v))
	}
	blob := waveletBlob(x.heads)
	e.u64(uint64(len(blob)))
	e.write(blob)
	e.bitvec(x.b, x.n)
	e.bitvec(x.bp, x.n)
}

// WriteTo serializes the index.
func (x *RLFMIndex) WriteTo(w io.Writer) (int64, error) {
	e := &encoder{w: w}
	e.write(magicRLFM)
	x.writeCore(e)
	return e.n, e.err
}

// WriteTo serializes the index, sampled suffix array included.
func (x *RLFMIndexWithLocate) WriteTo(w io.Writer) (int64, error) {
	e := &encoder{w: w}
	e.write(magicRLFM)
	x.writeCore(e)
	e.sampling(x.samples)
	return e.n, e.err
}

func writeSentinels(e *encoder, sentinels []uint64) {
	e.u64(uint64(len(sentinels)))
	for _, p := range sentinels {
		e.u64(p)
	}
}

// WriteTo serializes the index.
func (x *MultiPieceIndex) WriteTo(w io.Writer) (int64, error) {
	e := &encoder{w: w}
	e.write(magicMP)
	writeSentinels(e, x.sentinels)
	x.fm.writeCore(e)
	return e.n, e.err
}

// WriteTo serializes the index, sampled suffix array included.
func (x *MultiPieceIndexWithLocate) WriteTo(w io.Writer) (int64, error) {
	e := &encoder{w: w}
	e.write(magicMP)
	writeSentinels(e, x.sentinels)
	x.fm.writeCore(e)
	e.sampling(x.fm.samples)
	return e.n, e.err
}

type decoder struct {
	r   io.Reader
	err error
}

func (d *decoder) read(b []byte) {
	if d.err != nil {
		return
	}
	_, d.err = io.ReadFull(d.r, b)
}

func (d *decoder) u8() uint8 {
	var b [1]byte
	d.read(b[:])
	return b[0]
}

func (d *decoder) u32() uint32 {
	var b [4]byte
	d.read(b[:])
	return binary.LittleEndian.Uint32(b[:])
}

func (d *decoder) u64() uint64 {
	var b [8]byte
	d.read(b[:])
	return binary.LittleEndian.Uint64(b[:])
}

func (d *decoder) magic(want []byte) {
	var b [8]byte
	d.read(b[:])
	if d.err == nil && !bytes.Equal(b[:], want) {
		d.err = ErrBadFormat
	}
}

func (d *decoder) bitvec() (*bitvector.BitVector, int) {
	n := d.u64()
	if d.err != nil || n > maxTextLen {
		d.fail()
		return nil, 0
	}
	words := make([]uint64, (n+63)/64)
	for i := range words {
		words[i] = d.u64()
	}
	if d.err != nil {
		return nil, 0
	}
	b := bitvector.NewBuilder(int(n))
	for i := 0; i < int(n); i++ {
		if words[i/64]>>(uint(i)%64)&1 == 1 {
			b.Set(i)
		}
	}
	return b.Build(), int(n)
}

func (d *decoder) fail() {
	if d.err == nil {
		d.err = ErrBadFormat
	}
}

func (d *decoder) wavelet(wantLen int) *waveletMatrix {
	blobLen := d.u64()
	if d.err != nil || blobLen > 16*maxTextLen {
		d.fail()
		return nil
	}
	blob := make([]byte, blobLen)
	d.read(blob)
	if d.err != nil {
		return nil
	}
	bd := &decoder{r: bytes.NewReader(blob)}
	n := bd.u64()
	bits := bd.u8()
	if bd.err != nil || int(n) != wantLen || bits < 1 || bits > 8 {
		d.fail()
		return nil
	}
	wm := &waveletMatrix{bits: uint(bits), n: int(n)}
	for r := 0; r < int(bits); r++ {
		row, rn := bd.bitvec()
		if bd.err != nil || rn != int(n) {
			d.err = bd.err
			d.fail()
			return nil
		}
		wm.rows = append(wm.rows, row)
		wm.zeros = append(wm.zeros, row.Rank0(int(n)))
	}
	return wm
}

func (d *decoder) sampling(idxLen int) *sampledSuffixArray {
	level := d.u8()
	if d.err != nil || level > 63 {
		d.fail()
		return nil
	}
	marks, n := d.bitvec()
	if d.err != nil || n != idxLen {
		d.fail()
		return nil
	}
	count := marks.Rank1(n)
	values := make([]uint32, count)
	for i := range values {
		values[i] = d.u32()
	}
	if d.err != nil {
		return nil
	}
	return &sampledSuffixArray{
		level:  level,
		stride: uint64(1) << uint(level),
		marks:  marks,
		values: values,
		n:      idxLen,
	}
}

func (d *decoder) fmCore() *FMIndex {
	n := d.u64()
	maxChar := d.u32()
	if d.err != nil || n == 0 || n > maxTextLen || maxChar > 255 {
		d.fail()
		return nil
	}
	c := make([]int, int(maxChar)+2)
	for i := range c {
		c[i] = int(d.u64())
	}
	bw := d.wavelet(int(n))
	if d.err != nil {
		return nil
	}
	return &FMIndex{bw: bw, c: c, n: int(n), maxChar: byte(maxChar)}
}

// ReadFMIndex deserializes an FMIndex written by FMIndex.WriteTo.
func ReadFMIndex(r io.Reader) (*FMIndex, error) {
	d := &decoder{r: r}
	d.magic(magicFM)
	x := d.fmCore()
	if d.err != nil {
		return nil, d.err
	}
	return x, nil
}

// ReadFMIndexWithLocate deserializes an FMIndexWithLocate written by
// FMIndexWithLocate.WriteTo.
func ReadFMIndexWithLocate(r io.Reader) (*FMIndexWithLocate, error) {
	d := &decoder{r: r}
	d.magic(magicFM)
	x := d.fmCore()
	if d.err != nil {
		return nil, d.err
	}
	s := d.sampling(x.n)
	if d.err != nil {
		return nil, d.err
	}
	return &FMIndexWithLocate{FMIndex: *x, samples: s}, nil
}

func (d *decoder) rlfmCore() *RLFMIndex {
	n := d.u64()
	maxChar := d.u32()
	nRuns := d.u64()
	if d.err != nil || n == 0 || n > maxTextLen || maxChar > 255 || nRuns > n {
		d.fail()
		return nil
	}
	cRuns := make([]int, int(maxChar)+2)
	for i := range cRuns {
		cRuns[i] = int(d.u64())
	}
	heads := d.wavelet(int(nRuns))
	b, bn := d.bitvec()
	bp, bpn := d.bitvec()
	if d.err != nil || bn != int(n) || bpn != int(n) {
		d.fail()
		return nil
	}
	return &RLFMIndex{
		heads:   heads,
		b:       b,
		bp:      bp,
		cRuns:   cRuns,
		nRuns:   int(nRuns),
		n:       int(n),
		maxChar: byte(maxChar),
	}
}

// ReadRLFMIndex deserializes an RLFMIndex written by RLFMIndex.WriteTo.
func ReadRLFMIndex(r io.Reader) (*RLFMIndex, error) {
	d := &decoder{r: r}
	d.magic(magicRLFM)
	x := d.rlfmCore()
	if d.err != nil {
		return nil, d.err
	}
	return x, nil
}

// ReadRLFMIndexWithLocate deserializes an RLFMIndexWithLocate written by
// RLFMIndexWithLocate.WriteTo.
func ReadRLFMIndexWithLocate(r io.Reader) (*RLFMIndexWithLocate, error) {
	d := &decoder{r: r}
	d.magic(magicRLFM)
	x := d.rlfmCore()
	if d.err != nil {
		return nil, d.err
	}
	s := d.sampling(x.n)
	if d.err != nil {
		return nil, d.err
	}
	return &RLFMIndexWithLocate{RLFMIndex: *x, samples: s}, nil
}

func (d *decoder) sentinels() []uint64 {
	count := d.u64()
	if d.err != nil || count == 0 || count > maxTextLen {
		d.fail()
		return nil
	}
	out := make([]uint64, count)
	for i := range out {
		out[i] = d.u64()
	}
	return out
}

// ReadMultiPieceIndex deserializes a MultiPieceIndex written by
// MultiPieceIndex.WriteTo.
func ReadMultiPieceIndex(r io.Reader) (*MultiPieceIndex, error) {
	d := &decoder{r: r}
	d.magic(magicMP)
	sentinels := d.sentinels()
	x := d.fmCore()
	if d.err != nil {
		return nil, d.err
	}
	return &MultiPieceIndex{fm: x, sentinels: sentinels}, nil
}

// ReadMultiPieceIndexWithLocate deserializes a MultiPieceIndexWithLocate
// written by MultiPieceIndexWithLocate.WriteTo.
func ReadMultiPieceIndexWithLocate(r io.Reader) (*MultiPieceIndexWithLocate, error) {
	d := &decoder{r: r}
	d.magic(magicMP)
	sentinels := d.sentinels()
	x := d.fmCore()
	if d.err != nil {
		return nil, d.err
	}
	s := d.sampling(x.n)
	if d.err != nil {
		return nil, d.err
	}
	return &MultiPieceIndexWithLocate{
		fm:        &FMIndexWithLocate{FMIndex: *x, samples: s},
		sentinels: sentinels,
	}, nil
}

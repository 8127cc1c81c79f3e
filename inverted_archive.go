package fingerprint

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/RoaringBitmap/roaring"
)

// invertedMagic identifies an InvertedArchive file (spec.md §6.2).
const invertedMagic uint32 = 0x48650001

// invertedHeaderSize is the fixed 24-byte header: six little-endian u32
// fields (magic, bits_per_word, bits_per_fingerprint, words_per_fingerprint,
// words_per_fpbit, num_fingerprints).
const invertedHeaderSize = 24

// invertedHeader is the 24-byte header of an InvertedArchive file.
type invertedHeader struct {
	Magic               uint32
	BitsPerWord         uint32
	BitsPerFingerprint  uint32
	WordsPerFingerprint uint32
	WordsPerFpbit       uint32
	NumFingerprints     uint32
}

func (h invertedHeader) encode() []byte {
	buf := make([]byte, invertedHeaderSize)
	binary.LittleEndian.PutUint32(buf[0:4], h.Magic)
	binary.LittleEndian.PutUint32(buf[4:8], h.BitsPerWord)
	binary.LittleEndian.PutUint32(buf[8:12], h.BitsPerFingerprint)
	binary.LittleEndian.PutUint32(buf[12:16], h.WordsPerFingerprint)
	binary.LittleEndian.PutUint32(buf[16:20], h.WordsPerFpbit)
	binary.LittleEndian.PutUint32(buf[20:24], h.NumFingerprints)
	return buf
}

func decodeInvertedHeader(buf []byte) invertedHeader {
	return invertedHeader{
		Magic:               binary.LittleEndian.Uint32(buf[0:4]),
		BitsPerWord:         binary.LittleEndian.Uint32(buf[4:8]),
		BitsPerFingerprint:  binary.LittleEndian.Uint32(buf[8:12]),
		WordsPerFingerprint: binary.LittleEndian.Uint32(buf[12:16]),
		WordsPerFpbit:       binary.LittleEndian.Uint32(buf[16:20]),
		NumFingerprints:     binary.LittleEndian.Uint32(buf[20:24]),
	}
}

// wordsPerFpbitCeil computes the true ceiling ⌈numFingerprints / bitsPerWord⌉.
// spec.md §9 flags the source's `(N + N % bits_per_word) / bits_per_word`
// as a bug (e.g. N=65 yields 1, not 2); this is the corrected formula.
func wordsPerFpbitCeil(numFingerprints int) int {
	return (numFingerprints + bitsPerWord - 1) / bitsPerWord
}

// InvertedOutputArchive is the bit-transposed writer (spec.md §4.8,
// "InvertedFingerprintOutputFile"). It owns a single B x words_per_fpbit
// in-memory matrix; concurrent Write calls are disallowed by the caller's
// discipline, not by an internal lock, matching spec.md §5's "the writer
// owns a single buffer; concurrent write calls are disallowed".
type InvertedOutputArchive struct {
	f       *os.File
	header  invertedHeader
	matrix  [][]uint64 // [bit][word]
	current int        // next molecule index m to write
	closed  bool
}

// NewInvertedOutputArchive creates the file at path and allocates the
// zeroed transposed matrix for bitsPerFingerprint rows over numFingerprints
// molecules, using 64-bit arithmetic throughout to avoid the overflow risk
// spec.md §9 calls out for large B*N.
func NewInvertedOutputArchive(path string, bitsPerFingerprint, numFingerprints int) (*InvertedOutputArchive, error) {
	if bitsPerFingerprint <= 0 || bitsPerFingerprint%bitsPerWord != 0 {
		return nil, fmt.Errorf("%w: bits_per_fingerprint must be a positive multiple of %d, got %d", ErrBadParameters, bitsPerWord, bitsPerFingerprint)
	}
	if numFingerprints < 0 {
		return nil, fmt.Errorf("%w: num_fingerprints must be >= 0, got %d", ErrBadParameters, numFingerprints)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadOpen, err)
	}

	wordsPerFpbit := wordsPerFpbitCeil(numFingerprints)
	header := invertedHeader{
		Magic:               invertedMagic,
		BitsPerWord:         bitsPerWord,
		BitsPerFingerprint:  uint32(bitsPerFingerprint),
		WordsPerFingerprint: uint32(bitsPerFingerprint / bitsPerWord),
		WordsPerFpbit:       uint32(wordsPerFpbit),
		NumFingerprints:     uint32(numFingerprints),
	}

	if _, err := f.Write(header.encode()); err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %v", ErrShortWrite, err)
	}

	matrix := make([][]uint64, bitsPerFingerprint)
	for i := range matrix {
		matrix[i] = make([]uint64, wordsPerFpbit)
	}

	return &InvertedOutputArchive{f: f, header: header, matrix: matrix}, nil
}

// Write records fingerprint fp as molecule index m = current (0-indexed,
// strictly increasing). m must be less than num_fingerprints; overruns
// return ErrBadParameters per spec.md §4.8's state-machine note.
func (a *InvertedOutputArchive) Write(fp *BitVector) error {
	if a.closed {
		return ErrClosed
	}
	if a.current >= int(a.header.NumFingerprints) {
		return fmt.Errorf("%w: molecule index %d exceeds declared capacity %d", ErrBadParameters, a.current, a.header.NumFingerprints)
	}
	m := a.current
	wordIdx, bit := m/bitsPerWord, uint(m%bitsPerWord)
	for _, i := range fp.SetIndices() {
		a.matrix[i][wordIdx] |= 1 << bit
	}
	a.current++
	return nil
}

// Close writes the matrix to disk (one row of words_per_fpbit words per
// fingerprint bit, in row order) and closes the file.
func (a *InvertedOutputArchive) Close() error {
	if a.closed {
		return ErrClosed
	}
	a.closed = true

	buf := make([]byte, int(a.header.WordsPerFpbit)*8)
	for _, row := range a.matrix {
		for i, word := range row {
			binary.LittleEndian.PutUint64(buf[i*8:i*8+8], word)
		}
		if _, err := a.f.Write(buf); err != nil {
			a.f.Close()
			return fmt.Errorf("%w: %v", ErrShortWrite, err)
		}
	}
	return a.f.Close()
}

// InvertedSearchResult wraps the words_per_fpbit-word candidate bitset
// produced by a search, together with the number of real molecules it
// covers (bits at or beyond this count are padding introduced by the
// ceiling in words_per_fpbit and carry no meaning).
type InvertedSearchResult struct {
	bits *BitVector
	n    int
}

// Get reports whether molecule m's fingerprint is a superset of the
// queried bits.
func (r *InvertedSearchResult) Get(m int) bool {
	return r.bits.Get(m)
}

// Candidates returns the matching molecule indices as a roaring.Bitmap,
// so callers get a *roaring.Bitmap rather than a raw word slice for
// anything downstream that wants to iterate, union, or intersect further.
func (r *InvertedSearchResult) Candidates() *roaring.Bitmap {
	out := roaring.New()
	for _, i := range r.bits.SetIndices() {
		if i >= r.n {
			break
		}
		out.Add(uint32(i))
	}
	return out
}

// InvertedInputArchive is the random-access (seeking) reader (spec.md
// §4.8 "InvertedFingerprintFile"). Each goroutine that wants to search
// concurrently must open its own InvertedInputArchive, since a single
// *os.File's read offset is not safely shareable across concurrent
// seeks (spec.md §5).
type InvertedInputArchive struct {
	f      *os.File
	header invertedHeader
}

// NewInvertedInputArchive opens path, reads and validates the 24-byte
// header, and leaves the matrix on disk.
func NewInvertedInputArchive(path string) (*InvertedInputArchive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadOpen, err)
	}
	buf := make([]byte, invertedHeaderSize)
	if _, err := io.ReadFull(f, buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %v", ErrBadHeader, err)
	}
	header := decodeInvertedHeader(buf)
	if header.Magic != invertedMagic {
		f.Close()
		return nil, fmt.Errorf("%w: %s is not an inverted fingerprint file", ErrBadHeader, path)
	}
	return &InvertedInputArchive{f: f, header: header}, nil
}

// NumFingerprints returns N, read from the header.
func (a *InvertedInputArchive) NumFingerprints() int { return int(a.header.NumFingerprints) }

// BitsPerFingerprint returns B, read from the header.
func (a *InvertedInputArchive) BitsPerFingerprint() int { return int(a.header.BitsPerFingerprint) }

// Search screens query against every stored fingerprint, returning a
// result whose bit m is set iff molecule m's fingerprint is a superset of
// query's set bits. An empty query (no bits set) returns a result with
// every bit set (spec.md §9's documented resolution of the source's
// unspecified empty-query behaviour).
func (a *InvertedInputArchive) Search(query *BitVector) (*InvertedSearchResult, error) {
	idx := query.SetIndices()
	wordsPerFpbit := int(a.header.WordsPerFpbit)
	result := NewBitVector(wordsPerFpbit * bitsPerWord)

	if len(idx) == 0 {
		result.Fill()
		return &InvertedSearchResult{bits: result, n: int(a.header.NumFingerprints)}, nil
	}

	scratch := NewBitVector(wordsPerFpbit * bitsPerWord)
	for n, i := range idx {
		offset := invertedHeaderSize + int64(i)*int64(wordsPerFpbit)*8
		if _, err := a.f.Seek(offset, io.SeekStart); err != nil {
			return nil, err
		}
		buf := make([]byte, wordsPerFpbit*8)
		if _, err := io.ReadFull(a.f, buf); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrShortRead, err)
		}
		target := result
		if n > 0 {
			target = scratch
		}
		for w := 0; w < wordsPerFpbit; w++ {
			target.words[w] = binary.LittleEndian.Uint64(buf[w*8 : w*8+8])
		}
		if n > 0 {
			result.And(scratch)
		}
	}

	return &InvertedSearchResult{bits: result, n: int(a.header.NumFingerprints)}, nil
}

// Close releases the underlying file descriptor.
func (a *InvertedInputArchive) Close() error {
	return a.f.Close()
}

// InvertedCachedArchive is the all-in-memory reader (spec.md §4.8,
// "InvertedFingerprintFileCached"). Its buffer is read once at construction
// and is immutable thereafter, so a single InvertedCachedArchive may be
// shared freely across goroutines (spec.md §5).
type InvertedCachedArchive struct {
	header invertedHeader
	matrix [][]uint64 // [bit][word], immutable after construction
}

// NewInvertedCachedArchive opens path, validates the header, and reads
// the entire transposed matrix into memory.
func NewInvertedCachedArchive(path string) (*InvertedCachedArchive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadOpen, err)
	}
	defer f.Close()

	buf := make([]byte, invertedHeaderSize)
	if _, err := io.ReadFull(f, buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadHeader, err)
	}
	header := decodeInvertedHeader(buf)
	if header.Magic != invertedMagic {
		return nil, fmt.Errorf("%w: %s is not an inverted fingerprint file", ErrBadHeader, path)
	}

	wordsPerFpbit := int(header.WordsPerFpbit)
	matrix := make([][]uint64, header.BitsPerFingerprint)
	rowBuf := make([]byte, wordsPerFpbit*8)
	for i := range matrix {
		if _, err := io.ReadFull(f, rowBuf); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrShortRead, err)
		}
		row := make([]uint64, wordsPerFpbit)
		for w := 0; w < wordsPerFpbit; w++ {
			row[w] = binary.LittleEndian.Uint64(rowBuf[w*8 : w*8+8])
		}
		matrix[i] = row
	}

	return &InvertedCachedArchive{header: header, matrix: matrix}, nil
}

// NumFingerprints returns N, read from the header.
func (a *InvertedCachedArchive) NumFingerprints() int { return int(a.header.NumFingerprints) }

// BitsPerFingerprint returns B, read from the header.
func (a *InvertedCachedArchive) BitsPerFingerprint() int { return int(a.header.BitsPerFingerprint) }

// Search has the same contract as InvertedInputArchive.Search but serves
// entirely from the in-memory matrix: no seeks.
func (a *InvertedCachedArchive) Search(query *BitVector) *InvertedSearchResult {
	idx := query.SetIndices()
	wordsPerFpbit := int(a.header.WordsPerFpbit)
	result := NewBitVector(wordsPerFpbit * bitsPerWord)

	if len(idx) == 0 {
		result.Fill()
		return &InvertedSearchResult{bits: result, n: int(a.header.NumFingerprints)}
	}

	copy(result.words, a.matrix[idx[0]])
	for _, i := range idx[1:] {
		row := a.matrix[i]
		for w := 0; w < wordsPerFpbit; w++ {
			result.words[w] &= row[w]
		}
	}
	return &InvertedSearchResult{bits: result, n: int(a.header.NumFingerprints)}
}

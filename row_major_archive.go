package fingerprint

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// rowMajorTrailer is the UTF-8 JSON trailer appended after the last
// fingerprint in a RowMajorArchive file (spec.md §6.1).
type rowMajorTrailer struct {
	FileType        string                 `json:"filetype"`
	Order           string                 `json:"order"`
	NumBits         int                    `json:"num_bits"`
	NumFingerprints int                    `json:"num_fingerprints"`
	Fingerprint     rowMajorFingerprintMeta `json:"fingerprint"`
	Statistics      rowMajorStatistics      `json:"statistics"`
}

type rowMajorFingerprintMeta struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	K     int    `json:"k"`
	Prime int    `json:"prime"`
}

type rowMajorStatistics struct {
	AverageCount int `json:"average_count"`
	MinCount     int `json:"min_count"`
	MaxCount     int `json:"max_count"`
}

// RowMajorOutputArchive writes a sequential concatenation of fingerprints
// followed by a JSON trailer (spec.md §4.7, §6.1). It has two states,
// open and closed, and writing after Close returns ErrClosed.
type RowMajorOutputArchive struct {
	f      *os.File
	w      *bufio.Writer
	params GeneratorParams
	name   string
	count  int
	sum    int
	min    int
	max    int
	closed bool
}

// NewRowMajorOutputArchive creates (or truncates) the file at path and
// prepares it to receive fingerprints built with params. name is a
// human-readable label stored in the trailer's fingerprint.name field
// (mirroring tools/index.cpp's "Helium::<method>_fingerprint (k = .., bits = ..)").
func NewRowMajorOutputArchive(path string, params GeneratorParams, name string) (*RowMajorOutputArchive, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadOpen, err)
	}
	return &RowMajorOutputArchive{
		f:      f,
		w:      bufio.NewWriter(f),
		params: params,
		name:   name,
	}, nil
}

// WriteFingerprint appends fp (which must have params.Words() words) to
// the archive and folds its bit count into the running statistics.
func (a *RowMajorOutputArchive) WriteFingerprint(fp *BitVector) error {
	if a.closed {
		return ErrClosed
	}
	var buf [8]byte
	for _, word := range fp.Words() {
		binary.LittleEndian.PutUint64(buf[:], word)
		n, err := a.w.Write(buf[:])
		if err != nil || n != 8 {
			return fmt.Errorf("%w: %v", ErrShortWrite, err)
		}
	}

	count := fp.Count()
	if a.count == 0 {
		a.min, a.max = count, count
	} else {
		if count < a.min {
			a.min = count
		}
		if count > a.max {
			a.max = count
		}
	}
	a.sum += count
	a.count++
	return nil
}

// Close writes the JSON trailer and flushes and closes the underlying
// file. Writing to the archive after Close returns ErrClosed.
func (a *RowMajorOutputArchive) Close() error {
	if a.closed {
		return ErrClosed
	}
	a.closed = true

	average := 0
	minCount, maxCount := 0, 0
	if a.count > 0 {
		average = a.sum / a.count
		minCount, maxCount = a.min, a.max
	}

	trailer := rowMajorTrailer{
		FileType:        "fingerprints",
		Order:           "row-major",
		NumBits:         a.params.Bits,
		NumFingerprints: a.count,
		Fingerprint: rowMajorFingerprintMeta{
			Name:  a.name,
			Type:  string(a.params.Method),
			K:     a.params.K,
			Prime: a.params.Prime,
		},
		Statistics: rowMajorStatistics{
			AverageCount: average,
			MinCount:     minCount,
			MaxCount:     maxCount,
		},
	}

	payload, err := json.MarshalIndent(trailer, "", "  ")
	if err != nil {
		return err
	}
	if _, err := a.w.Write(payload); err != nil {
		return fmt.Errorf("%w: %v", ErrShortWrite, err)
	}
	if err := a.w.Flush(); err != nil {
		return fmt.Errorf("%w: %v", ErrShortWrite, err)
	}
	return a.f.Close()
}

// RowMajorInputArchive is a streaming reader over a RowMajorArchive file.
// It parses the JSON trailer eagerly at open (exposing N, bits, k, method,
// prime and statistics) and then yields fingerprints in insertion order
// via Next. It intentionally does not support random access (spec.md
// §4.7: "the reader does not seek random fingerprints").
type RowMajorInputArchive struct {
	f       *os.File
	r       *bufio.Reader
	trailer rowMajorTrailer
	words   int
	read    int
}

// NewRowMajorInputArchive opens path, locates and parses its JSON trailer,
// and positions the reader at the first fingerprint.
func NewRowMajorInputArchive(path string) (*RowMajorInputArchive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadOpen, err)
	}

	trailer, trailerStart, err := locateTrailer(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	words := trailer.NumBits / bitsPerWord
	expectedStart := int64(trailer.NumFingerprints) * int64(words) * 8
	if expectedStart != trailerStart {
		f.Close()
		return nil, fmt.Errorf("%w: trailer offset mismatch (trailer claims %d fingerprints of %d words, expected trailer at byte %d, found at %d)",
			ErrBadHeader, trailer.NumFingerprints, words, expectedStart, trailerStart)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, err
	}

	return &RowMajorInputArchive{
		f:       f,
		r:       bufio.NewReader(f),
		trailer: trailer,
		words:   words,
	}, nil
}

// locateTrailer finds the UTF-8 JSON trailer appended to the end of f.
// Per spec.md §6.1 there is no length prefix, so the trailer is located by
// growing a tail window from EOF until a '{' is found from which the
// remaining bytes parse as a complete JSON object. This exploits the fact
// that the fingerprint region is effectively random binary data, so a
// spurious '{' that also happens to parse as well-formed JSON to EOF is
// vanishingly unlikely.
func locateTrailer(f *os.File) (rowMajorTrailer, int64, error) {
	size, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return rowMajorTrailer{}, 0, err
	}

	window := int64(4096)
	for {
		if window > size {
			window = size
		}
		start := size - window
		if _, err := f.Seek(start, io.SeekStart); err != nil {
			return rowMajorTrailer{}, 0, err
		}
		buf := make([]byte, window)
		if _, err := io.ReadFull(f, buf); err != nil {
			return rowMajorTrailer{}, 0, err
		}

		searchFrom := 0
		for {
			rel := bytes.IndexByte(buf[searchFrom:], '{')
			if rel == -1 {
				break
			}
			idx := searchFrom + rel
			var trailer rowMajorTrailer
			if json.Unmarshal(buf[idx:], &trailer) == nil {
				return trailer, start + int64(idx), nil
			}
			searchFrom = idx + 1
		}

		if window == size {
			return rowMajorTrailer{}, 0, fmt.Errorf("%w: no JSON trailer found", ErrBadHeader)
		}
		window *= 2
	}
}

// NumFingerprints returns N, parsed from the trailer.
func (a *RowMajorInputArchive) NumFingerprints() int { return a.trailer.NumFingerprints }

// Bits returns the fingerprint width in bits, parsed from the trailer.
func (a *RowMajorInputArchive) Bits() int { return a.trailer.NumBits }

// K returns the generator's k parameter, parsed from the trailer.
func (a *RowMajorInputArchive) K() int { return a.trailer.Fingerprint.K }

// MethodName returns the generator method name, parsed from the trailer.
func (a *RowMajorInputArchive) MethodName() string { return a.trailer.Fingerprint.Type }

// Prime returns the hash-fold prime, parsed from the trailer.
func (a *RowMajorInputArchive) Prime() int { return a.trailer.Fingerprint.Prime }

// Statistics returns the (average, min, max) bit counts recorded in the
// trailer.
func (a *RowMajorInputArchive) Statistics() (average, min, max int) {
	s := a.trailer.Statistics
	return s.AverageCount, s.MinCount, s.MaxCount
}

// Next reads the next fingerprint in insertion order. ok is false once all
// NumFingerprints() fingerprints have been read.
func (a *RowMajorInputArchive) Next() (fp *BitVector, ok bool, err error) {
	if a.read >= a.trailer.NumFingerprints {
		return nil, false, nil
	}
	v := NewBitVector(a.trailer.NumBits)
	var buf [8]byte
	for i := 0; i < a.words; i++ {
		if _, err := io.ReadFull(a.r, buf[:]); err != nil {
			return nil, false, fmt.Errorf("%w: %v", ErrShortRead, err)
		}
		v.words[i] = binary.LittleEndian.Uint64(buf[:])
	}
	a.read++
	return v, true, nil
}

// Close releases the underlying file descriptor.
func (a *RowMajorInputArchive) Close() error {
	return a.f.Close()
}

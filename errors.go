package fingerprint

import "errors"

// ErrBadOpen is returned when an archive path cannot be opened for reading
// or writing.
var ErrBadOpen = errors.New("fingerprint: could not open file")

// ErrBadHeader is returned when an inverted archive's header fails its
// magic-number check, or is truncated.
var ErrBadHeader = errors.New("fingerprint: not an inverted fingerprint file")

// ErrBadParameters is returned when generator or archive parameters are
// inconsistent: a hash prime larger than the bitset width, a bit width not
// a multiple of the machine word size, k < 1, or a molecule index at or
// beyond the declared archive capacity.
var ErrBadParameters = errors.New("fingerprint: bad parameters")

// ErrShortRead is returned by a reader that hits EOF before the expected
// number of words has been consumed.
var ErrShortRead = errors.New("fingerprint: short read")

// ErrShortWrite is returned by a writer that could not persist the full
// payload requested.
var ErrShortWrite = errors.New("fingerprint: short write")

// ErrClosed is returned by a write or Close call made on an output archive
// that has already been closed.
var ErrClosed = errors.New("fingerprint: archive is closed")

// ErrBadGraph panics rather than returns: a Subgraph view that violates
// its connectivity invariant is a programmer error, not a recoverable
// condition. It is kept as a sentinel so panic values remain inspectable
// with errors.Is via recover.
var ErrBadGraph = errors.New("fingerprint: subgraph view violates its invariants")

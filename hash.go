package fingerprint

import (
	"encoding/binary"
	"hash"
	"hash/fnv"
)

// writeUint64 feeds the little-endian byte encoding of x into h. Pinning a
// fixed byte order (rather than hashing the platform's native int
// representation) is what makes the hash stable across architectures
// (spec.md §9 "Hash stability").
func writeUint64(h hash.Hash64, x uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], x)
	h.Write(buf[:])
}

// hashCode folds a canonical code sequence into a single uint64 using
// FNV-1a-64 over the little-endian encoding of each element. This is the
// one hash function used by PathFingerprint, TreeFingerprint, and
// SubgraphFingerprint; any two implementations documenting the same
// algorithm produce bit-identical fingerprints for the same input.
func hashCode(code []uint64) uint64 {
	h := fnv.New64a()
	for _, c := range code {
		writeUint64(h, c)
	}
	return h.Sum64()
}

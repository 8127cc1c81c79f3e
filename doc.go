// Package fingerprint implements a molecular fingerprint indexing and
// similarity-screening engine.
//
// WHAT IS A MOLECULAR FINGERPRINT?
// A fingerprint is a fixed-width bitset derived from a molecule's graph
// structure: every path, tree, or connected subgraph up to a bounded size
// is enumerated, reduced to a canonical integer code, and hashed into a
// bit position. Structurally similar molecules end up with overlapping
// bit patterns, which makes fingerprints useful for fast substructure
// screening before running an expensive exact subgraph match.
//
// HOW FINGERPRINTING WORKS:
// For a given molecule M, the package:
//  1. Enumerates substructures (paths, spanning trees, or general connected
//     subgraphs) up to k vertices via EnumeratePaths / EnumerateSubgraphs.
//  2. Computes a per-vertex invariant with ExtendedConnectivity (a Morgan-
//     style neighbourhood hash refinement).
//  3. Canonicalizes each substructure with Canonicalize, which performs a
//     branch-and-bound search for the lexicographically minimum labelling.
//  4. Hashes the canonical code and sets the corresponding bit, modulo a
//     prime no larger than the bitset width (to avoid power-of-two bit
//     clustering).
//
// STORAGE LAYOUTS:
// Two on-disk formats, tuned for different access patterns:
//
//	RowMajorArchive: a sequential concatenation of fingerprints plus a JSON
//	trailer. Good for streaming scans, not for random access.
//
//	InvertedArchive: a bit-transposed ("column-major") layout, one row per
//	fingerprint bit, one column per stored molecule. A substructure-screen
//	query ("does any stored molecule contain every bit of this query?")
//	becomes a bitwise AND over the rows of the query's set bits.
//
// GUARANTEES & TRADE-OFFS:
// ✓ Pros:
//   - Deterministic: identical molecules (up to relabelling) always
//     produce identical fingerprints.
//   - Screening via the inverted archive touches only as many rows as the
//     query has set bits, not one row per stored molecule.
//
// ✗ Cons:
//   - Fingerprints are a necessary, not sufficient, screen: a bit match does
//     not guarantee the substructure is actually present (hash collisions).
//   - No similarity scoring (Tanimoto, Dice, ...) is computed here; see
//     Non-goals below.
//
// WHEN TO USE:
// Use this package to build a pre-filter over a large molecule collection
// before running exact substructure matching on the surviving candidates.
//
// NON-GOALS: similarity scoring and ranking, chemistry-specific perception
// (aromaticity, stereochemistry) beyond what the supplied Graph reports as
// vertex/edge attributes, and mandatory parallelism across molecules.
package fingerprint

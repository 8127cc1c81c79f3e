package fingerprint

import (
	"fmt"
	"sync"
)

// MoleculeSource is the external iterator of molecule graphs this package
// consumes. Molecule file parsing and format-specific readers are out of
// scope (spec.md §1); callers supply an adapter over their own reader.
type MoleculeSource interface {
	// Next returns the next molecule, or ok=false once the source is
	// exhausted. A non-nil error aborts the run.
	Next() (mol Graph, ok bool, err error)
}

// Run computes fingerprints for every molecule from mols using the given
// method, k, and bit width, and writes them to a RowMajorArchive at
// outPath. This is the Go-native equivalent of the source's
// `IndexTool::run(method, in_file, out_file, k, bits)` (spec.md §6.3),
// minus argument parsing, which is explicitly out of scope. progress, if
// non-nil, is called after every molecule with the 1-based count
// processed so far; a nil progress leaves Run silent, which is the right
// default for a library: only an actual command-line front end should
// wire progress to its own output.
func Run(method Method, outPath string, k, bits int, mols MoleculeSource, progress func(n int)) error {
	prime := PreviousPrime(bits)
	params, err := NewGeneratorParams(method, k, bits, prime)
	if err != nil {
		return err
	}

	archive, err := NewRowMajorOutputArchive(outPath, params, fmt.Sprintf("%s_fingerprint (k = %d, bits = %d)", method, k, bits))
	if err != nil {
		return err
	}

	fp := NewBitVector(bits)
	n := 0
	for {
		mol, ok, err := mols.Next()
		if err != nil {
			archive.Close()
			return err
		}
		if !ok {
			break
		}

		computeFingerprint(method, mol, fp, params)
		if err := archive.WriteFingerprint(fp); err != nil {
			archive.Close()
			return err
		}

		n++
		if progress != nil {
			progress(n)
		}
	}

	return archive.Close()
}

// RunParallel is the concurrent variant of Run, exercising spec.md §5's
// explicit allowance that "fingerprint generation for different molecules
// is embarrassingly parallel and MAY be distributed across worker
// threads". Molecules are drained from mols by a single producer goroutine
// (the source itself is not assumed safe for concurrent Next calls) and handed
// to a fixed pool of workers; results are reassembled in input order
// before being written, since the RowMajorArchive's insertion order is
// load-bearing for downstream statistics and for the inverted archive's
// index-to-molecule identity (spec.md §5 "Ordering").
func RunParallel(method Method, outPath string, k, bits int, mols MoleculeSource, workers int, progress func(n int)) error {
	if workers < 1 {
		workers = 1
	}

	prime := PreviousPrime(bits)
	params, err := NewGeneratorParams(method, k, bits, prime)
	if err != nil {
		return err
	}

	archive, err := NewRowMajorOutputArchive(outPath, params, fmt.Sprintf("%s_fingerprint (k = %d, bits = %d)", method, k, bits))
	if err != nil {
		return err
	}

	type job struct {
		index int
		mol   Graph
	}
	type result struct {
		index int
		fp    *BitVector
		err   error
	}

	jobs := make(chan job, workers)
	results := make(chan result, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				fp := NewBitVector(bits)
				computeFingerprint(method, j.mol, fp, params)
				results <- result{index: j.index, fp: fp}
			}
		}()
	}

	var produceErr error
	go func() {
		defer close(jobs)
		i := 0
		for {
			mol, ok, err := mols.Next()
			if err != nil {
				produceErr = err
				return
			}
			if !ok {
				return
			}
			jobs <- job{index: i, mol: mol}
			i++
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	pending := make(map[int]*BitVector)
	next := 0
	n := 0
	var firstErr error
	for r := range results {
		if r.err != nil && firstErr == nil {
			firstErr = r.err
			continue
		}
		pending[r.index] = r.fp
		for {
			fp, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			if firstErr == nil {
				if err := archive.WriteFingerprint(fp); err != nil && firstErr == nil {
					firstErr = err
				}
			}
			next++
			n++
			if progress != nil {
				progress(n)
			}
		}
	}

	closeErr := archive.Close()
	if produceErr != nil {
		return produceErr
	}
	if firstErr != nil {
		return firstErr
	}
	return closeErr
}

// computeFingerprint dispatches to the fingerprint builder matching
// method, zeroing and filling fp.
func computeFingerprint(method Method, mol Graph, fp *BitVector, params GeneratorParams) {
	switch method {
	case MethodPaths:
		PathFingerprint(mol, fp, params)
	case MethodTrees:
		TreeFingerprint(mol, fp, params)
	case MethodSubgraphs:
		SubgraphFingerprint(mol, fp, params)
	}
}

package fingerprint

import (
	"os"
	"path/filepath"
	"testing"
)

// buildInvertedFixture writes a small InvertedArchive with five molecules
// with these deliberately chosen bit patterns, and returns its path:
//
//	m0: {1, 2}
//	m1: {1}
//	m2: {2}
//	m3: {1, 2, 3}
//	m4: {}
func buildInvertedFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "inverted.bin")

	out, err := NewInvertedOutputArchive(path, 64, 5)
	if err != nil {
		t.Fatalf("NewInvertedOutputArchive: %v", err)
	}
	patterns := [][]int{{1, 2}, {1}, {2}, {1, 2, 3}, {}}
	for _, bits := range patterns {
		fp := NewBitVector(64)
		for _, b := range bits {
			fp.Set(b)
		}
		if err := out.Write(fp); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if err := out.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return path
}

func TestInvertedArchiveSearchCandidates(t *testing.T) {
	path := buildInvertedFixture(t)

	in, err := NewInvertedInputArchive(path)
	if err != nil {
		t.Fatalf("NewInvertedInputArchive: %v", err)
	}
	defer in.Close()

	if got := in.NumFingerprints(); got != 5 {
		t.Errorf("NumFingerprints() = %d, want 5", got)
	}
	if got := in.BitsPerFingerprint(); got != 64 {
		t.Errorf("BitsPerFingerprint() = %d, want 64", got)
	}

	query := NewBitVector(64)
	query.Set(1)
	result, err := in.Search(query)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	want := map[int]bool{0: true, 1: true, 2: false, 3: true, 4: false}
	for m, wantMatch := range want {
		if got := result.Get(m); got != wantMatch {
			t.Errorf("Get(%d) = %v, want %v", m, got, wantMatch)
		}
	}

	candidates := result.Candidates()
	if got := candidates.GetCardinality(); got != 3 {
		t.Errorf("Candidates().GetCardinality() = %d, want 3", got)
	}
	for _, m := range []uint32{0, 1, 3} {
		if !candidates.Contains(m) {
			t.Errorf("Candidates() missing expected molecule %d", m)
		}
	}
}

func TestInvertedArchiveSearchTwoBitAnd(t *testing.T) {
	path := buildInvertedFixture(t)
	in, err := NewInvertedInputArchive(path)
	if err != nil {
		t.Fatalf("NewInvertedInputArchive: %v", err)
	}
	defer in.Close()

	query := NewBitVector(64)
	query.Set(1)
	query.Set(2)
	result, err := in.Search(query)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	// Only m0 ({1,2}) and m3 ({1,2,3}) are supersets of {1,2}.
	for m, want := range map[int]bool{0: true, 1: false, 2: false, 3: true, 4: false} {
		if got := result.Get(m); got != want {
			t.Errorf("Get(%d) = %v, want %v", m, got, want)
		}
	}
}

func TestInvertedArchiveEmptyQueryMatchesAll(t *testing.T) {
	path := buildInvertedFixture(t)
	in, err := NewInvertedInputArchive(path)
	if err != nil {
		t.Fatalf("NewInvertedInputArchive: %v", err)
	}
	defer in.Close()

	result, err := in.Search(NewBitVector(64))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	candidates := result.Candidates()
	if got := candidates.GetCardinality(); got != 5 {
		t.Errorf("empty-query Candidates().GetCardinality() = %d, want 5 (all molecules match vacuously)", got)
	}
}

func TestInvertedArchiveRejectsBadMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.bin")
	if err := os.WriteFile(path, make([]byte, invertedHeaderSize), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := NewInvertedInputArchive(path); err == nil {
		t.Errorf("expected an error opening a file with a zeroed (bad) magic header")
	}
}

func TestInvertedCachedArchiveMatchesInputArchive(t *testing.T) {
	path := buildInvertedFixture(t)

	cached, err := NewInvertedCachedArchive(path)
	if err != nil {
		t.Fatalf("NewInvertedCachedArchive: %v", err)
	}
	in, err := NewInvertedInputArchive(path)
	if err != nil {
		t.Fatalf("NewInvertedInputArchive: %v", err)
	}
	defer in.Close()

	query := NewBitVector(64)
	query.Set(2)

	wantResult, err := in.Search(query)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	gotResult := cached.Search(query)

	for m := 0; m < 5; m++ {
		if gotResult.Get(m) != wantResult.Get(m) {
			t.Errorf("cached and seeking search disagree on molecule %d", m)
		}
	}
}

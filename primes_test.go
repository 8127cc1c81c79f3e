package fingerprint

import "testing"

func TestPreviousPrime(t *testing.T) {
	cases := []struct {
		n    int
		want int
	}{
		{1024, 1021}, // spec.md §8 scenario 6
		{2, 2},
		{3, 3},
		{4, 3},
		{17, 17},
		{18, 17},
	}
	for _, c := range cases {
		if got := PreviousPrime(c.n); got != c.want {
			t.Errorf("PreviousPrime(%d) = %d, want %d", c.n, got, c.want)
		}
	}
}

func TestIsPrime(t *testing.T) {
	primes := map[int]bool{2: true, 3: true, 4: false, 9: false, 17: true, 1021: true, 1024: false}
	for n, want := range primes {
		if got := isPrime(n); got != want {
			t.Errorf("isPrime(%d) = %v, want %v", n, got, want)
		}
	}
}

package geometry

import "iter"

// Equal decides whether two rectangles count as the same multiset element.
type Equal func(a, b Rectangle) bool

// SameIdentity treats rectangles as equal only when they are the same individual.
func SameIdentity(a, b Rectangle) bool { return a.id == b.id }

// SameDimensions treats rectangles with equal canonical sides as equal.
func SameDimensions(a, b Rectangle) bool {
	return a.width == b.width && a.height == b.height
}

// Complement returns the multiset difference lst - sub under eq.
//
// Elements keep the order of their first occurrence in lst. Occurrences in
// sub beyond those present in lst are ignored.
func Complement(lst, sub []Rectangle, eq Equal) []Rectangle {
	result := make([]Rectangle, 0, len(lst))
	seen := make([]Rectangle, 0, len(lst))
	for _, r := range lst {
		if contains(seen, r, eq) {
			continue
		}
		seen = append(seen, r)
		for n := count(lst, r, eq) - count(sub, r, eq); n > 0; n-- {
			result = append(result, r)
		}
	}
	return result
}

// Partitions yields every split of d into two non-empty halves (d1, d2).
//
// d1 runs over all positional combinations of size 1 up to len(d)/2 in
// ascending size and lexicographic index order; d2 is its identity
// complement. Mirror splits at the midpoint size are produced from both
// sides. Nothing is yielded when d has fewer than two elements.
func Partitions(d []Rectangle) iter.Seq2[[]Rectangle, []Rectangle] {
	return func(yield func([]Rectangle, []Rectangle) bool) {
		n := len(d)
		for k := 1; k <= n/2; k++ {
			for idx := range combinations(n, k) {
				d1 := make([]Rectangle, k)
				for i, j := range idx {
					d1[i] = d[j]
				}
				if !yield(d1, Complement(d, d1, SameIdentity)) {
					return
				}
			}
		}
	}
}

// combinations yields the index sets of size k drawn from 0..n-1 in
// lexicographic order. The yielded slice is reused between iterations.
func combinations(n, k int) iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		if k <= 0 || k > n {
			return
		}
		idx := make([]int, k)
		for i := range idx {
			idx[i] = i
		}
		for {
			if !yield(idx) {
				return
			}
			i := k - 1
			for i >= 0 && idx[i] == n-k+i {
				i--
			}
			if i < 0 {
				return
			}
			idx[i]++
			for j := i + 1; j < k; j++ {
				idx[j] = idx[j-1] + 1
			}
		}
	}
}

func contains(lst []Rectangle, r Rectangle, eq Equal) bool {
	for _, x := range lst {
		if eq(x, r) {
			return true
		}
	}
	return false
}

func count(lst []Rectangle, r Rectangle, eq Equal) int {
	n := 0
	for _, x := range lst {
		if eq(x, r) {
			n++
		}
	}
	return n
}

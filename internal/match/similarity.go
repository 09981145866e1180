package match

import "strings"

// Ratio computes a case-insensitive similarity score in [0, 1] between two
// strings using the longest-matching-block sequence alignment (2*M/T, where M
// is the total length of matched blocks and T the combined length). Identical
// strings score 1.0; strings with no characters in common score 0.0.
func Ratio(a, b string) float64 {
	ar := []rune(strings.ToLower(a))
	br := []rune(strings.ToLower(b))

	total := len(ar) + len(br)
	if total == 0 {
		return 1.0
	}

	matched := matchingBlocksTotal(ar, br)
	return 2.0 * float64(matched) / float64(total)
}

// matchingBlocksTotal sums the lengths of all matching blocks between a and b.
//
// Blocks are found by locating the longest common run, then recursing into the
// regions to its left and right. An explicit stack avoids deep recursion on
// long inputs.
func matchingBlocksTotal(a, b []rune) int {
	b2j := make(map[rune][]int, len(b))
	for j, r := range b {
		b2j[r] = append(b2j[r], j)
	}

	type region struct{ alo, ahi, blo, bhi int }
	stack := []region{{0, len(a), 0, len(b)}}
	matched := 0

	for len(stack) > 0 {
		reg := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		i, j, size := longestMatch(a, b2j, reg.alo, reg.ahi, reg.blo, reg.bhi)
		if size == 0 {
			continue
		}

		matched += size
		stack = append(stack,
			region{reg.alo, i, reg.blo, j},
			region{i + size, reg.ahi, j + size, reg.bhi},
		)
	}

	return matched
}

// longestMatch finds the longest run of characters common to a[alo:ahi] and
// b[blo:bhi]. On ties it returns the earliest run in a, then in b.
func longestMatch(a []rune, b2j map[rune][]int, alo, ahi, blo, bhi int) (besti, bestj, size int) {
	besti, bestj = alo, blo
	j2len := make(map[int]int)

	for i := alo; i < ahi; i++ {
		newJ2len := make(map[int]int)
		for _, j := range b2j[a[i]] {
			if j < blo {
				continue
			}
			if j >= bhi {
				break
			}
			k := j2len[j-1] + 1
			newJ2len[j] = k
			if k > size {
				besti, bestj, size = i-k+1, j-k+1, k
			}
		}
		j2len = newJ2len
	}

	return besti, bestj, size
}

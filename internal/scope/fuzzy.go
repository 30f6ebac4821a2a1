package scope

// partialRatio computes a substring-aware similarity score in [0,1] between
// two strings: the best indel similarity of the shorter string against every
// same-length window of the longer one. Indel similarity counts insertions
// and deletions only, so 2*LCS/(len1+len2). A score of 1.0 means the shorter
// string appears verbatim inside the longer.
func partialRatio(a, b string) float64 {
	shorter, longer := []rune(a), []rune(b)
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if len(shorter) == 0 {
		return 0
	}

	best := 0.0
	for start := 0; start+len(shorter) <= len(longer); start++ {
		window := longer[start : start+len(shorter)]
		common := lcsLength(shorter, window)
		score := float64(2*common) / float64(len(shorter)+len(window))
		if score > best {
			best = score
		}
		if best == 1.0 {
			break
		}
	}
	return best
}

// lcsLength computes the longest-common-subsequence length of two rune
// slices using a single rolling row of the DP matrix.
func lcsLength(a, b []rune) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else {
				curr[j] = max(prev[j], curr[j-1])
			}
		}
		prev, curr = curr, prev
		for j := range curr {
			curr[j] = 0
		}
	}
	return prev[len(b)]
}

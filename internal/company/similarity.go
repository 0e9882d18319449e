package company

import "github.com/agnivade/levenshtein"

// MatchThreshold is the minimum similarity score at which two normalized
// company names are treated as the same organization.
const MatchThreshold = 0.85

// Similarity returns a normalized edit-distance score in [0, 1]:
// (maxLen - levenshtein) / maxLen over rune counts. Identical strings score
// 1.0; the function is symmetric.
func Similarity(a, b string) float64 {
	la, lb := len([]rune(a)), len([]rune(b))
	maxLen := la
	if lb > maxLen {
		maxLen = lb
	}
	if maxLen == 0 {
		return 1.0
	}

	d := levenshtein.ComputeDistance(a, b)
	return float64(maxLen-d) / float64(maxLen)
}

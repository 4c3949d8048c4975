package langmatch

import (
	"fmt"
	"strings"
)

// Cutoff is the minimum similarity for a code to count as a near match.
const Cutoff = 0.6

// Closest returns the supported code most similar to input, if any scores at
// least Cutoff. Equal scores go to the lexicographically largest code.
func Closest(input string, supported []string) (string, bool) {
	best, bestScore := "", 0.0
	for _, code := range supported {
		score := Ratio(input, code)
		if score < Cutoff {
			continue
		}
		if score > bestScore || (score == bestScore && code > best) {
			best, bestScore = code, score
		}
	}
	return best, best != ""
}

// Suggest renders the notice shown for an unsupported language code.
func Suggest(input string, supported []string) string {
	if match, ok := Closest(input, supported); ok {
		return fmt.Sprintf("❌ Oops! Unsupported language code. Did you mean **[%s]**?", match)
	}
	return fmt.Sprintf("❌ Oops! Unsupported language code. Please use one of the following: %s", strings.Join(supported, ", "))
}

// Ratio is the Ratcliff/Obershelp similarity 2*M/T, where M counts characters
// in recursively found longest common blocks and T is the combined length.
func Ratio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1
	}
	return 2 * float64(matches(ra, rb)) / float64(total)
}

func matches(a, b []rune) int {
	i, j, size := longestBlock(a, b)
	if size == 0 {
		return 0
	}
	return size + matches(a[:i], b[:j]) + matches(a[i+size:], b[j+size:])
}

// longestBlock finds the earliest longest common substring of a and b.
func longestBlock(a, b []rune) (int, int, int) {
	bestI, bestJ, bestSize := 0, 0, 0
	prev := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		cur := make([]int, len(b)+1)
		for j := 1; j <= len(b); j++ {
			if a[i-1] != b[j-1] {
				continue
			}
			cur[j] = prev[j-1] + 1
			if cur[j] > bestSize {
				bestI, bestJ, bestSize = i-cur[j], j-cur[j], cur[j]
			}
		}
		prev = cur
	}
	return bestI, bestJ, bestSize
}

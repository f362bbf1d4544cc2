package stats

import "math"

// CountBy tallies records by the key function. Keys that never occur are
// simply absent from the map; empty keys are skipped.
func CountBy[T any](records []T, key func(T) string) map[string]int {
	counts := make(map[string]int)
	for _, r := range records {
		k := key(r)
		if k == "" {
			continue
		}
		counts[k]++
	}
	return counts
}

// Percent returns round(100*part/total). A zero total yields 0, never a
// division error.
func Percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(part) / float64(total)))
}

// Round2 rounds to two decimal places, used for hour totals in summaries.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Package rating computes display statistics over a game's review scores.
// All functions are pure and operate on small in-memory collections.
package rating

// Buckets is the number of histogram buckets; ratings are integers in
// [1, Buckets], and bucket i counts reviews with rating i+1.
const Buckets = 10

// Tier names derived from an average score via descending-threshold lookup.
const (
	TierMasterpiece      = "Masterpiece"
	TierExcellent        = "Excellent"
	TierVeryGood         = "Very Good"
	TierGood             = "Good"
	TierAverage          = "Average"
	TierNeedsImprovement = "Needs Improvement"
)

// Summary is the aggregate computed from a review collection.
//
// Average is nil when Count is zero so that "no data" is never conflated
// with a numeric score.
type Summary struct {
	Count        int          `json:"count"`
	Average      *float64     `json:"average"`
	Distribution [Buckets]int `json:"distribution"`
}

// Summarize computes count, arithmetic-mean average, and the rating
// histogram in a single pass. Ratings outside [1,10] never reach storage,
// so out-of-range values are ignored rather than guessed into a bucket.
func Summarize(ratings []int) Summary {
	var s Summary
	sum := 0
	for _, r := range ratings {
		if r < 1 || r > Buckets {
			continue
		}
		s.Distribution[r-1]++
		sum += r
		s.Count++
	}
	if s.Count > 0 {
		avg := float64(sum) / float64(s.Count)
		s.Average = &avg
	}
	return s
}

// Tier maps an average score to its display tier. Boundaries are inclusive
// on the lower bound, so an exact threshold lands in the higher tier.
func Tier(average float64) string {
	switch {
	case average >= 9:
		return TierMasterpiece
	case average >= 8:
		return TierExcellent
	case average >= 7:
		return TierVeryGood
	case average >= 6:
		return TierGood
	case average >= 4:
		return TierAverage
	default:
		return TierNeedsImprovement
	}
}

// TierFor returns the tier for a summary, or "" when there is no data.
func (s Summary) TierFor() string {
	if s.Average == nil {
		return ""
	}
	return Tier(*s.Average)
}

package ranking

import (
	"math"
	"time"
)

// Time-decay divisor of the hot formula. Changing it reshuffles every feed,
// so it is pinned to the value the deployed ranking was tuned with.
const hotScoreDecay = 45000.0

// HotScore maps a submission's vote margin and creation time to the sortable
// feed score. It is the Reddit-style "hot" formula: the vote margin counts
// logarithmically while recency counts linearly.
//
// With a zero net score the sign term zeroes the whole expression, so
// zero-score items rank identically regardless of age. That quirk is part of
// the deployed ordering and is kept as is.
func HotScore(upvotes, downvotes int, createdAt time.Time) float64 {
	score := upvotes - downvotes

	var sign float64
	switch {
	case score > 0:
		sign = 1
	case score < 0:
		sign = -1
	}

	order := math.Log10(math.Max(math.Abs(float64(score)), 1))
	seconds := float64(createdAt.Unix())

	return sign*order + sign*seconds/hotScoreDecay
}

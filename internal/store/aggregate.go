package store

import (
	"math"

	"github.com/openheartlab/openheart-backend/internal/models"
)

// Aggregate computes per-label counts and average confidence in one pass with
// constant state per label. Total counts every document; the per-label maps
// cover exactly the six canonical labels, with 0 (never NaN) for labels that
// have no documents. Averages are rounded to 3 decimals.
func Aggregate[T any, PT Record[T]](docs []T) models.Stats {
	counts := make(map[models.Label]int, len(models.Labels))
	sums := make(map[models.Label]float64, len(models.Labels))
	for _, l := range models.Labels {
		counts[l] = 0
	}

	for i := range docs {
		p := PT(&docs[i])
		l := p.GetLabel()
		if _, ok := counts[l]; !ok {
			continue
		}
		counts[l]++
		sums[l] += p.GetConfidence()
	}

	avgs := make(map[models.Label]float64, len(models.Labels))
	for _, l := range models.Labels {
		if counts[l] > 0 {
			avgs[l] = round3(sums[l] / float64(counts[l]))
		} else {
			avgs[l] = 0
		}
	}

	return models.Stats{
		Total:                len(docs),
		CountsByLabel:        counts,
		AvgConfidenceByLabel: avgs,
	}
}

func round3(x float64) float64 {
	return math.Round(x*1000) / 1000
}

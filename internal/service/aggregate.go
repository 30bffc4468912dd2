package service

import (
	"math"

	"github.com/hqnguyen/defense-eval-api/internal/dto"
)

// AggregateRubricScores folds the per-evaluator score maps into per-rubric
// means. Only present scores contribute; a rubric referenced by some
// evaluator but scored by none keeps an explicitly absent aggregate. The
// result is independent of feedback order.
func AggregateRubricScores(feedbacks []dto.LecturerFeedback) map[string]dto.Score {
	sums := map[string]float64{}
	counts := map[string]int{}
	referenced := map[string]struct{}{}

	for _, feedback := range feedbacks {
		for name, score := range feedback.RubricScores {
			referenced[name] = struct{}{}
			if value, ok := score.Value(); ok {
				sums[name] += value
				counts[name]++
			}
		}
	}

	averages := make(map[string]dto.Score, len(referenced))
	for name := range referenced {
		if counts[name] == 0 {
			averages[name] = dto.Score{}
			continue
		}
		mean := sums[name] / float64(counts[name])
		averages[name] = dto.ScoreOf(math.Round(mean*100) / 100)
	}

	return averages
}

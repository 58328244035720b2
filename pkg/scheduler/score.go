package scheduler

import "time"

const neutralScore = 0.5

// bestWorker scores every candidate and returns the highest. Candidates come
// ordered by creation, so ties go to the oldest worker.
func bestWorker(candidates []*worker, taskType string, weights Weights) *worker {
	fastestType, fastestOverall := fastest(candidates, taskType)

	var (
		best      *worker
		bestScore float64
	)
	for _, w := range candidates {
		score := scoreWorker(w, taskType, fastestType, fastestOverall, weights)
		if best == nil || score > bestScore {
			best, bestScore = w, score
		}
	}
	return best
}

// scoreWorker combines how fast w ran this task type relative to the fastest
// candidate, how fast it is overall, how loaded it is and how often it failed.
func scoreWorker(w *worker, taskType string, fastestType, fastestOverall time.Duration, weights Weights) float64 {
	typeScore := neutralScore
	if avg, ok := w.typeAverage(taskType); ok {
		typeScore = relativeSpeed(fastestType, avg)
	}

	overallScore := neutralScore
	if avg, ok := w.averageTaskTime(); ok {
		overallScore = relativeSpeed(fastestOverall, avg)
	}

	return weights.Type*typeScore +
		weights.Overall*overallScore +
		weights.Load*(1-w.loadValue()) -
		weights.ErrorPenalty*w.errorRate()
}

func fastest(candidates []*worker, taskType string) (byType, overall time.Duration) {
	byType, overall = -1, -1
	for _, w := range candidates {
		if avg, ok := w.typeAverage(taskType); ok && (byType < 0 || avg < byType) {
			byType = avg
		}
		if avg, ok := w.averageTaskTime(); ok && (overall < 0 || avg < overall) {
			overall = avg
		}
	}
	return byType, overall
}

// relativeSpeed is 1 for the fastest worker and tends to 0 for slow ones.
func relativeSpeed(fastest, avg time.Duration) float64 {
	if avg <= 0 || fastest <= 0 {
		return 1
	}
	return float64(fastest) / float64(avg)
}

package store

import "math"

const (
	// minSamples is how many closed sessions a title needs before the
	// running average is trusted over the padded estimate.
	minSamples = 3

	padFactor = 1.2
)

// Predict estimates how long a task with this title will actually
// take. It pools the derived minutes of every closed session across
// currently stored tasks whose title matches exactly (case
// sensitive). With at least minSamples samples it returns their mean,
// truncated toward zero; otherwise the planned estimate padded by
// 20%. Deleted tasks no longer contribute samples.
func (s *Store) Predict(title string, planned int) int {
	samples := make([]int, 0)
	for _, t := range s.tasks {
		if t.Title != title {
			continue
		}
		samples = append(samples, t.ClosedMinutes()...)
	}
	if len(samples) >= minSamples {
		sum := 0
		for _, m := range samples {
			sum += m
		}
		return sum / len(samples)
	}
	return int(math.Round(float64(planned) * padFactor))
}

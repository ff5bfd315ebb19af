package tdlambda

import "github.com/ChizhovVadim/tdboot/internal/domain"

const DefaultDecay = 50.0 / 60.0

// DecayTargets builds the cold-start labels used before any model exists:
// a terminal step carries its reward and every earlier step gets decay times
// the label of the step after it. Steps after the last terminal step decay
// from +1.
func DecayTargets(tags []domain.StateTag, decay float64) []float64 {
	var targets = make([]float64, len(tags))
	var next = 1.0
	for i := len(tags) - 1; i >= 0; i-- {
		var reward = tags[i].Reward()
		if reward != 0 {
			next = reward
		} else {
			next = decay * next
		}
		targets[i] = next
	}
	return targets
}

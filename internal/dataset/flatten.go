package dataset

import (
	"github.com/pkg/errors"

	"github.com/ChizhovVadim/tdboot/internal/domain"
)

// Features lists every step of every trajectory in order. Row slices are shared.
func Features(trajectories []domain.Trajectory) [][]float32 {
	var result = make([][]float32, 0, countSteps(trajectories))
	for i := range trajectories {
		for j := range trajectories[i].Steps {
			result = append(result, trajectories[i].Steps[j].Features)
		}
	}
	return result
}

// Flatten concatenates per-trajectory values in the order Features uses.
func Flatten(trajectories []domain.Trajectory, values [][]float64) ([]float64, error) {
	if len(values) != len(trajectories) {
		return nil, errors.Errorf("%v value sets for %v trajectories", len(values), len(trajectories))
	}
	var result = make([]float64, 0, countSteps(trajectories))
	for i := range trajectories {
		if len(values[i]) != len(trajectories[i].Steps) {
			return nil, errors.Errorf("game %v: %v values for %v steps",
				trajectories[i].GameID, len(values[i]), len(trajectories[i].Steps))
		}
		result = append(result, values[i]...)
	}
	return result, nil
}

// Unflatten is the inverse of Flatten. The returned slices alias flat.
func Unflatten(trajectories []domain.Trajectory, flat []float64) ([][]float64, error) {
	if len(flat) != countSteps(trajectories) {
		return nil, errors.Errorf("%v values for %v steps", len(flat), countSteps(trajectories))
	}
	var result = make([][]float64, len(trajectories))
	var offset int
	for i := range trajectories {
		var n = len(trajectories[i].Steps)
		result[i] = flat[offset : offset+n : offset+n]
		offset += n
	}
	return result, nil
}

func countSteps(trajectories []domain.Trajectory) int {
	var n int
	for i := range trajectories {
		n += len(trajectories[i].Steps)
	}
	return n
}

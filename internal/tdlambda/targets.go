package tdlambda

import (
	"github.com/pkg/errors"

	"github.com/ChizhovVadim/tdboot/internal/domain"
)

var (
	ErrInvalidLambda   = errors.New("lambda must be in [0, 1)")
	ErrEmptyTrajectory = errors.New("empty trajectory")
	ErrLengthMismatch  = errors.New("predictions and state tags differ in length")
	ErrUnknownStateTag = errors.New("unknown state tag")
)

func ValidateLambda(lambda float64) error {
	// NaN fails both comparisons
	if !(lambda >= 0 && lambda < 1) {
		return errors.Wrapf(ErrInvalidLambda, "lambda %v", lambda)
	}
	return nil
}

// ComputeTargets returns the TD(lambda) target of every step of one trajectory.
// predictions and tags are index aligned, oldest step first.
//
// The lambda-weighted sum of future values is rescaled by (1-lambda)/(1-lambda^n),
// where n is the number of terms in the sum (steps back to and including the
// next terminal step, or to the end of the trajectory), so the weights sum to
// one over the finite horizon instead of the infinite one.
func ComputeTargets(predictions []float64, tags []domain.StateTag, lambda float64) ([]float64, error) {
	var err = ValidateLambda(lambda)
	if err != nil {
		return nil, err
	}
	if len(predictions) != len(tags) {
		return nil, errors.Wrapf(ErrLengthMismatch, "%v predictions, %v tags", len(predictions), len(tags))
	}
	if len(predictions) == 0 {
		return nil, ErrEmptyTrajectory
	}
	var targets = make([]float64, len(predictions))
	computeTargets(targets, predictions, tags, lambda)
	return targets, nil
}

// computeTargets expects validated input.
func computeTargets(targets, predictions []float64, tags []domain.StateTag, lambda float64) {
	var target = 0.0
	// lambda^n; the trailing run after the last terminal step starts empty
	var lambdaPower = 1.0
	var norm = 1 - lambda
	for i := len(predictions) - 1; i >= 0; i-- {
		var reward = tags[i].Reward()
		if reward != 0 {
			target = reward
			lambdaPower = lambda
		} else {
			target = predictions[i] + lambda*target
			lambdaPower *= lambda
		}
		targets[i] = target * norm / (1 - lambdaPower)
	}
}

func checkStrict(tags []domain.StateTag) error {
	for i, tag := range tags {
		if !tag.Known() {
			return errors.Wrapf(ErrUnknownStateTag, "tag %v at step %v", int(tag), i)
		}
	}
	return nil
}

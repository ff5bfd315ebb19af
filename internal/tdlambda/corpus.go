package tdlambda

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/ChizhovVadim/tdboot/internal/domain"
)

type Options struct {
	Lambda  float64
	Threads int
	// Strict rejects state tags other than playing, win or draw.
	Strict bool
}

// ComputeAll runs the target recurrence once per trajectory.
// predictions[i] holds the predictions for trajectories[i].
// Trajectories are independent so they are spread over Threads goroutines,
// each writing only its own output slot.
func ComputeAll(
	ctx context.Context,
	trajectories []domain.Trajectory,
	predictions [][]float64,
	opt Options,
) ([][]float64, error) {
	var err = ValidateLambda(opt.Lambda)
	if err != nil {
		return nil, err
	}
	if len(predictions) != len(trajectories) {
		return nil, errors.Wrapf(ErrLengthMismatch, "%v prediction sets for %v trajectories",
			len(predictions), len(trajectories))
	}

	var result = make([][]float64, len(trajectories))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, opt.Threads))
	for i := range trajectories {
		var i = i
		g.Go(func() error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			var tr = &trajectories[i]
			var tags = tr.Tags()
			if opt.Strict {
				if err := checkStrict(tags); err != nil {
					return errors.WithMessagef(err, "game %v", tr.GameID)
				}
			}
			targets, err := ComputeTargets(predictions[i], tags, opt.Lambda)
			if err != nil {
				return errors.WithMessagef(err, "game %v", tr.GameID)
			}
			result[i] = targets
			return nil
		})
	}
	err = g.Wait()
	if err != nil {
		return nil, err
	}
	return result, nil
}

package train

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"

	"github.com/ChizhovVadim/tdboot/internal/dataset"
	"github.com/ChizhovVadim/tdboot/internal/domain"
	"github.com/ChizhovVadim/tdboot/internal/ml"
	"github.com/ChizhovVadim/tdboot/internal/tdlambda"
)

type RoundReport struct {
	Round          int
	TrainSize      int
	ValidationSize int
	// Evaluated is false when the validation partition is empty.
	Evaluated bool
	MSE       float64
	R2        float64
	Duration  time.Duration
}

type Result struct {
	RunID string
	Model IRegressor
	// Features and Targets are the final flat training set.
	Features [][]float32
	Targets  []float64
	// InitialTargets are the targets built from the base model.
	InitialTargets []float64
	Rounds         []RoundReport
}

// Run bootstraps target against its own TD(lambda) targets.
// Targets of the first round come from base, every later round uses the model
// fitted in the round before. target is refit from scratch each round and is
// owned by this call until it returns.
func Run(
	ctx context.Context,
	base, target IRegressor,
	trajectories []domain.Trajectory,
	cfg Config,
) (*Result, error) {
	var err = cfg.Validate()
	if err != nil {
		return nil, err
	}
	if len(trajectories) == 0 {
		return nil, errors.Wrap(ErrInvalidConfig, "no trajectories")
	}
	for i := range trajectories {
		if len(trajectories[i].Steps) == 0 {
			return nil, errors.Wrapf(tdlambda.ErrEmptyTrajectory, "game %v", trajectories[i].GameID)
		}
	}

	var runID = uuid.New().String()
	var logger = log.With().Str("run", runID).Logger()
	logger.Info().
		Float64("lambda", cfg.Lambda).
		Int("iterations", cfg.Iterations).
		Float64("trainFraction", cfg.TrainFraction).
		Int64("splitSeed", cfg.SplitSeed).
		Int("games", len(trajectories)).
		Msg("bootstrap-started")

	if cfg.BaseModelPath != "" {
		err = base.Load(cfg.BaseModelPath)
		if err != nil {
			return nil, errors.WithMessagef(err, "load base model %v", cfg.BaseModelPath)
		}
	}

	var features = dataset.Features(trajectories)
	targets, err := computeTargets(ctx, base, trajectories, features, cfg)
	if err != nil {
		return nil, errors.WithMessage(err, "initial targets")
	}

	var result = &Result{
		RunID:          runID,
		Model:          target,
		Features:       features,
		InitialTargets: slices.Clone(targets),
	}

	var trainRows, validationRows = dataset.Split(len(features), cfg.TrainFraction, cfg.SplitSeed)
	var trainFeatures = dataset.Gather(features, trainRows)
	var validationFeatures = dataset.Gather(features, validationRows)

	for round := 1; round <= cfg.Iterations; round++ {
		var start = time.Now()
		var report = RoundReport{
			Round:          round,
			TrainSize:      len(trainRows),
			ValidationSize: len(validationRows),
		}

		err = target.Fit(trainFeatures, dataset.Gather(targets, trainRows))
		if err != nil {
			return nil, errors.WithMessagef(err, "round %v: fit", round)
		}

		if len(validationRows) != 0 {
			predicted, err := target.Predict(validationFeatures)
			if err != nil {
				return nil, errors.WithMessagef(err, "round %v: validate", round)
			}
			var actual = dataset.Gather(targets, validationRows)
			report.Evaluated = true
			report.MSE = ml.MeanSquaredError(actual, predicted)
			report.R2 = ml.R2Score(actual, predicted)
		}

		targets, err = computeTargets(ctx, target, trajectories, features, cfg)
		if err != nil {
			return nil, errors.WithMessagef(err, "round %v", round)
		}

		report.Duration = time.Since(start)
		result.Rounds = append(result.Rounds, report)
		logRound(&logger, report, cfg.Iterations)
	}

	result.Targets = targets

	if cfg.Save {
		err = target.Save(cfg.TargetModelPath)
		if err != nil {
			return nil, errors.WithMessagef(err, "save target model %v", cfg.TargetModelPath)
		}
		logger.Info().Str("path", cfg.TargetModelPath).Msg("saved-target-model")
	}
	logger.Info().Msg("bootstrap-finished")
	return result, nil
}

// computeTargets predicts every step with model and runs the target recurrence per game.
func computeTargets(
	ctx context.Context,
	model IRegressor,
	trajectories []domain.Trajectory,
	features [][]float32,
	cfg Config,
) ([]float64, error) {
	predicted, err := model.Predict(features)
	if err != nil {
		return nil, errors.WithMessage(err, "predict")
	}
	perGame, err := dataset.Unflatten(trajectories, predicted)
	if err != nil {
		return nil, err
	}
	targets, err := tdlambda.ComputeAll(ctx, trajectories, perGame, tdlambda.Options{
		Lambda:  cfg.Lambda,
		Threads: cfg.Threads,
		Strict:  cfg.StrictTags,
	})
	if err != nil {
		return nil, err
	}
	return dataset.Flatten(trajectories, targets)
}

func logRound(logger *zerolog.Logger, report RoundReport, iterations int) {
	var e = logger.Info().
		Int("round", report.Round).
		Int("of", iterations).
		Int("train", report.TrainSize).
		Dur("elapsed", report.Duration)
	if report.Evaluated {
		e = e.Float64("mse", report.MSE).Float64("r2", report.R2)
	} else {
		e = e.Bool("evaluated", false)
	}
	e.Msg("bootstrap-round")
}

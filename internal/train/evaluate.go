package train

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/ChizhovVadim/tdboot/internal/dataset"
	"github.com/ChizhovVadim/tdboot/internal/ml"
)

type Evaluation struct {
	TrainSize      int
	ValidationSize int
	MSE            float64
	R2             float64
	MAE            float64
	RMSE           float64
}

type PredictionRow struct {
	True float64
	Pred float64
	Diff float64
}

type HoldoutReport struct {
	Evaluation
	Rows []PredictionRow
}

// fitHoldout fits model on a seeded split of (features, targets) and scores it
// on the held out rows.
func fitHoldout(
	model IRegressor,
	features [][]float32,
	targets []float64,
	holdout float64,
	seed int64,
) (Evaluation, error) {
	if !(holdout >= 0 && holdout < 1) {
		return Evaluation{}, errors.Wrapf(ErrInvalidConfig, "holdout %v not in [0, 1)", holdout)
	}
	var trainRows, validationRows = dataset.Split(len(features), 1-holdout, seed)
	var err = model.Fit(dataset.Gather(features, trainRows), dataset.Gather(targets, trainRows))
	if err != nil {
		return Evaluation{}, errors.WithMessage(err, "fit")
	}
	var ev = Evaluation{TrainSize: len(trainRows), ValidationSize: len(validationRows)}
	if len(validationRows) == 0 {
		return ev, nil
	}
	predicted, err := model.Predict(dataset.Gather(features, validationRows))
	if err != nil {
		return Evaluation{}, errors.WithMessage(err, "predict holdout")
	}
	score(&ev, dataset.Gather(targets, validationRows), predicted)
	return ev, nil
}

func score(ev *Evaluation, actual, predicted []float64) {
	ev.MSE = ml.MeanSquaredError(actual, predicted)
	ev.R2 = ml.R2Score(actual, predicted)
	ev.MAE = ml.MeanAbsoluteError(actual, predicted)
	ev.RMSE = ml.RootMeanSquaredError(actual, predicted)
}

// EvaluateHoldout scores an already fitted model on the last n rows of the
// holdout partition.
func EvaluateHoldout(
	model IRegressor,
	features [][]float32,
	targets []float64,
	holdout float64,
	seed int64,
	n int,
) (*HoldoutReport, error) {
	if len(features) != len(targets) {
		return nil, errors.Errorf("%v feature rows, %v targets", len(features), len(targets))
	}
	if !(holdout > 0 && holdout < 1) {
		return nil, errors.Wrapf(ErrInvalidConfig, "holdout %v not in (0, 1)", holdout)
	}
	var _, validationRows = dataset.Split(len(features), 1-holdout, seed)
	if n > 0 && n < len(validationRows) {
		validationRows = validationRows[len(validationRows)-n:]
	}
	if len(validationRows) == 0 {
		return nil, errors.Wrap(ErrInvalidConfig, "empty holdout")
	}
	var actual = dataset.Gather(targets, validationRows)
	predicted, err := model.Predict(dataset.Gather(features, validationRows))
	if err != nil {
		return nil, err
	}
	var report = &HoldoutReport{Rows: make([]PredictionRow, len(actual))}
	report.ValidationSize = len(actual)
	for i := range actual {
		report.Rows[i] = PredictionRow{
			True: actual[i],
			Pred: predicted[i],
			Diff: actual[i] - predicted[i],
		}
	}
	score(&report.Evaluation, actual, predicted)
	log.Info().
		Int("rows", len(actual)).
		Float64("mae", report.MAE).
		Float64("rmse", report.RMSE).
		Float64("r2", report.R2).
		Msg("holdout-evaluation")
	return report, nil
}

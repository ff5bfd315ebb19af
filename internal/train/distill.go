package train

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

type DistillConfig struct {
	ParentPath string
	Holdout    float64
	Seed       int64
	OutPath    string
}

// Distill fits student on the predictions of parent, e.g. to get a smaller
// model with the same evaluation.
func Distill(parent, student IRegressor, features [][]float32, cfg DistillConfig) (Evaluation, error) {
	if cfg.ParentPath != "" {
		var err = parent.Load(cfg.ParentPath)
		if err != nil {
			return Evaluation{}, errors.WithMessagef(err, "load parent %v", cfg.ParentPath)
		}
	}
	targets, err := parent.Predict(features)
	if err != nil {
		return Evaluation{}, errors.WithMessage(err, "parent predict")
	}
	ev, err := fitHoldout(student, features, targets, cfg.Holdout, cfg.Seed)
	if err != nil {
		return Evaluation{}, errors.WithMessage(err, "distill")
	}
	log.Info().
		Int("train", ev.TrainSize).
		Float64("mse", ev.MSE).
		Float64("r2", ev.R2).
		Msg("distill-finished")
	if cfg.OutPath != "" {
		err = student.Save(cfg.OutPath)
		if err != nil {
			return Evaluation{}, err
		}
		log.Info().Str("path", cfg.OutPath).Msg("saved-model")
	}
	return ev, nil
}

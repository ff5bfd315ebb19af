package train

import (
	"runtime"

	"github.com/pkg/errors"

	"github.com/ChizhovVadim/tdboot/internal/tdlambda"
)

var ErrInvalidConfig = errors.New("invalid config")

// IRegressor is everything the training loops need from a model.
// Fit must discard the state of any previous Fit.
type IRegressor interface {
	Fit(features [][]float32, targets []float64) error
	Predict(features [][]float32) ([]float64, error)
	Load(path string) error
	Save(path string) error
}

type Config struct {
	Lambda          float64
	Iterations      int
	TrainFraction   float64
	SplitSeed       int64
	Save            bool
	BaseModelPath   string
	TargetModelPath string
	Threads         int
	StrictTags      bool
}

func DefaultConfig() Config {
	return Config{
		Lambda:        0.5,
		Iterations:    5,
		TrainFraction: 0.9,
		SplitSeed:     42,
		Save:          true,
		Threads:       runtime.NumCPU(),
	}
}

func (c *Config) Validate() error {
	if err := tdlambda.ValidateLambda(c.Lambda); err != nil {
		return err
	}
	if c.Iterations < 0 {
		return errors.Wrapf(ErrInvalidConfig, "iterations %v", c.Iterations)
	}
	if !(c.TrainFraction > 0 && c.TrainFraction <= 1) {
		return errors.Wrapf(ErrInvalidConfig, "train fraction %v not in (0, 1]", c.TrainFraction)
	}
	if c.Threads < 1 {
		return errors.Wrapf(ErrInvalidConfig, "threads %v", c.Threads)
	}
	if c.Save && c.TargetModelPath == "" {
		return errors.Wrap(ErrInvalidConfig, "save requested without a target model path")
	}
	if c.Save && c.Iterations == 0 {
		return errors.Wrap(ErrInvalidConfig, "save requested but no round will fit the target model, disable save or set iterations")
	}
	return nil
}

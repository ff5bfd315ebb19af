package main

import (
	"github.com/pkg/errors"

	"github.com/ChizhovVadim/tdboot/internal/linear"
	"github.com/ChizhovVadim/tdboot/internal/ml"
	"github.com/ChizhovVadim/tdboot/internal/mlp"
	"github.com/ChizhovVadim/tdboot/internal/train"
)

type modelConfig struct {
	kind         string
	epochs       int
	learningRate float64
	cost         string
	squash       bool
	seed         int64
	threads      int
}

// modelConfig reads the model flags. prefix selects a second model on the
// same command line, e.g. "parent" reads -parentmodel.
func (env *environment) modelConfig(prefix string, defaultKind string) modelConfig {
	var args = env.args
	return modelConfig{
		kind:         args.GetString(prefix+"model", defaultKind),
		epochs:       args.GetInt(prefix+"epochs", 0),
		learningRate: args.GetFloat(prefix+"lr", 0),
		cost:         args.GetString(prefix+"cost", "mse"),
		squash:       args.GetBool(prefix+"squash", false),
		seed:         int64(args.GetInt("seed", 42)),
		threads:      env.threads,
	}
}

func newModel(cfg modelConfig) (train.IRegressor, error) {
	switch cfg.kind {
	case "linear":
		var opt = linear.DefaultOptions()
		opt.Threads = cfg.threads
		opt.Seed = cfg.seed
		opt.Squash = cfg.squash
		if cfg.epochs > 0 {
			opt.Epochs = cfg.epochs
		}
		if cfg.learningRate > 0 {
			opt.LearningRate = cfg.learningRate
		}
		switch cfg.cost {
		case "mse":
			opt.Cost = &ml.MSECost{}
		case "abs":
			opt.Cost = &ml.AbsCost{}
		default:
			return nil, errors.Errorf("unknown cost %v", cfg.cost)
		}
		return linear.NewModel(opt), nil
	case "mlp":
		var opt = mlp.DefaultOptions()
		opt.Threads = cfg.threads
		if cfg.epochs > 0 {
			opt.Epochs = cfg.epochs
		}
		if cfg.learningRate > 0 {
			opt.LearningRate = cfg.learningRate
		}
		return mlp.NewModel(opt), nil
	}
	return nil, errors.Errorf("unknown model %v", cfg.kind)
}

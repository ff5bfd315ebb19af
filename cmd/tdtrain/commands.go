package main

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/ChizhovVadim/tdboot/internal/dataset"
	"github.com/ChizhovVadim/tdboot/internal/tdlambda"
	"github.com/ChizhovVadim/tdboot/internal/train"
)

type environment struct {
	args     *CommandArgs
	dataPath string
	threads  int
	report   *reporter
}

func (env *environment) loadStore(ctx context.Context) (*dataset.Store, error) {
	var provider = &dataset.CSVProvider{
		Path:    env.dataPath,
		MaxRows: env.args.GetInt("maxrows", 0),
		Threads: env.threads,
	}
	return dataset.LoadTrajectories(ctx, provider, dataset.Options{
		Strict: env.args.GetBool("strict", false),
	})
}

func (env *environment) pretrain() error {
	var ctx = context.Background()
	var cfg = train.DefaultPretrainConfig()
	cfg.Holdout = env.args.GetFloat("holdout", cfg.Holdout)
	cfg.Seed = int64(env.args.GetInt("seed", int(cfg.Seed)))
	cfg.Decay = env.args.GetFloat("decay", cfg.Decay)
	cfg.OutPath = mapPath(env.args.GetString("out", "base_model.bin"))
	log.Info().Interface("config", cfg).Msg("pretrain")

	model, err := newModel(env.modelConfig("", "linear"))
	if err != nil {
		return err
	}
	store, err := env.loadStore(ctx)
	if err != nil {
		return err
	}
	ev, err := train.Pretrain(model, store, cfg)
	if err != nil {
		return err
	}
	env.report.Evaluation("pretrain", ev)
	return nil
}

const defaultBenchRows = 100_000

func (env *environment) tdConfig() train.Config {
	var cfg = train.DefaultConfig()
	cfg.Lambda = env.args.GetFloat("lambda", cfg.Lambda)
	cfg.Iterations = env.args.GetInt("iterations", cfg.Iterations)
	cfg.TrainFraction = env.args.GetFloat("train", cfg.TrainFraction)
	cfg.SplitSeed = int64(env.args.GetInt("seed", int(cfg.SplitSeed)))
	// with no rounds there is no fitted model to save
	cfg.Save = env.args.GetBool("save", cfg.Save && cfg.Iterations != 0)
	cfg.BaseModelPath = mapPath(env.args.GetString("base", "base_model.bin"))
	cfg.TargetModelPath = mapPath(env.args.GetString("out", "td_model.bin"))
	cfg.Threads = env.threads
	cfg.StrictTags = env.args.GetBool("strict", false)
	return cfg
}

func (env *environment) benchRows() int {
	return env.args.GetInt("n", defaultBenchRows)
}

func (env *environment) td() error {
	var ctx = context.Background()
	var cfg = env.tdConfig()
	log.Info().Interface("config", cfg).Msg("td")

	// validate before the dataset is read
	var err = cfg.Validate()
	if err != nil {
		return err
	}
	base, err := newModel(env.modelConfig("base", env.args.GetString("model", "linear")))
	if err != nil {
		return err
	}
	target, err := newModel(env.modelConfig("", "linear"))
	if err != nil {
		return err
	}
	store, err := env.loadStore(ctx)
	if err != nil {
		return err
	}
	result, err := train.Run(ctx, base, target, store.Trajectories, cfg)
	if err != nil {
		return err
	}
	env.report.Rounds(result.Rounds)
	return nil
}

func (env *environment) distill() error {
	var ctx = context.Background()
	var cfg = train.DistillConfig{
		ParentPath: mapPath(env.args.GetString("parent", "td_model.bin")),
		Holdout:    env.args.GetFloat("holdout", 0.1),
		Seed:       int64(env.args.GetInt("seed", 42)),
		OutPath:    mapPath(env.args.GetString("out", "distilled_model.bin")),
	}
	log.Info().Interface("config", cfg).Msg("distill")

	parent, err := newModel(env.modelConfig("parent", env.args.GetString("model", "linear")))
	if err != nil {
		return err
	}
	student, err := newModel(env.modelConfig("", "linear"))
	if err != nil {
		return err
	}
	store, err := env.loadStore(ctx)
	if err != nil {
		return err
	}
	ev, err := train.Distill(parent, student, dataset.Features(store.Trajectories), cfg)
	if err != nil {
		return err
	}
	env.report.Evaluation("distill", ev)
	return nil
}

func (env *environment) loadModel() (train.IRegressor, error) {
	var path = env.args.GetString("modelpath", "")
	if path == "" {
		return nil, errors.New("-modelpath is required")
	}
	model, err := newModel(env.modelConfig("", "linear"))
	if err != nil {
		return nil, err
	}
	err = model.Load(mapPath(path))
	if err != nil {
		return nil, errors.WithMessagef(err, "load %v", path)
	}
	return model, nil
}

func (env *environment) eval() error {
	var ctx = context.Background()
	model, err := env.loadModel()
	if err != nil {
		return err
	}
	store, err := env.loadStore(ctx)
	if err != nil {
		return err
	}
	targets, err := train.Labels(store, env.args.GetFloat("decay", tdlambda.DefaultDecay))
	if err != nil {
		return err
	}
	report, err := train.EvaluateHoldout(model,
		dataset.Features(store.Trajectories),
		targets,
		env.args.GetFloat("holdout", 0.1),
		int64(env.args.GetInt("seed", 42)),
		env.args.GetInt("n", 100))
	if err != nil {
		return err
	}
	env.report.Holdout(report)
	return nil
}

func (env *environment) bench() error {
	var ctx = context.Background()
	model, err := env.loadModel()
	if err != nil {
		return err
	}
	store, err := env.loadStore(ctx)
	if err != nil {
		return err
	}
	result, err := train.Bench(model, dataset.Features(store.Trajectories), env.benchRows())
	if err != nil {
		return err
	}
	env.report.Bench(result)
	return nil
}

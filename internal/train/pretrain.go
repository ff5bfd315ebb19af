package train

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/ChizhovVadim/tdboot/internal/dataset"
	"github.com/ChizhovVadim/tdboot/internal/tdlambda"
)

type PretrainConfig struct {
	Holdout float64
	Seed    int64
	// Decay builds labels for stores without ground truth.
	Decay   float64
	OutPath string
}

func DefaultPretrainConfig() PretrainConfig {
	return PretrainConfig{
		Holdout: 0.1,
		Seed:    42,
		Decay:   tdlambda.DefaultDecay,
	}
}

// Labels returns the stored ground truth, or decay labels when the store has none.
func Labels(store *dataset.Store, decay float64) ([]float64, error) {
	var labels = store.Labels
	if labels == nil {
		labels = make([][]float64, len(store.Trajectories))
		for i := range store.Trajectories {
			labels[i] = tdlambda.DecayTargets(store.Trajectories[i].Tags(), decay)
		}
	}
	return dataset.Flatten(store.Trajectories, labels)
}

// Pretrain fits model on the store labels. The result is the checkpoint the
// bootstrap loop starts from.
func Pretrain(model IRegressor, store *dataset.Store, cfg PretrainConfig) (Evaluation, error) {
	if store.Labels == nil {
		log.Info().Float64("decay", cfg.Decay).Msg("no ground truth, using decay labels")
	}
	targets, err := Labels(store, cfg.Decay)
	if err != nil {
		return Evaluation{}, err
	}
	ev, err := fitHoldout(model, dataset.Features(store.Trajectories), targets, cfg.Holdout, cfg.Seed)
	if err != nil {
		return Evaluation{}, errors.WithMessage(err, "pretrain")
	}
	log.Info().
		Int("train", ev.TrainSize).
		Int("holdout", ev.ValidationSize).
		Float64("mse", ev.MSE).
		Float64("r2", ev.R2).
		Msg("pretrain-finished")
	if cfg.OutPath != "" {
		err = model.Save(cfg.OutPath)
		if err != nil {
			return Evaluation{}, err
		}
		log.Info().Str("path", cfg.OutPath).Msg("saved-model")
	}
	return ev, nil
}

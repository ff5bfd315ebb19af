package linear

import (
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/ChizhovVadim/tdboot/internal/ml"
)

type dataset struct {
	features [][]float32
	targets  []float64
}

// Fit discards any previous weights and trains from zero.
func (m *Model) Fit(features [][]float32, targets []float64) error {
	if len(features) != len(targets) {
		return errors.Errorf("%v feature rows, %v targets", len(features), len(targets))
	}
	if len(features) == 0 {
		return ErrNoSamples
	}
	var inputs = len(features[0])
	for i := range features {
		if len(features[i]) != inputs {
			return errors.Wrapf(ErrFeatureWidth, "row %v has %v features, row 0 has %v",
				i, len(features[i]), inputs)
		}
	}
	m.init(inputs)

	var data = dataset{features: features, targets: targets}
	var order = make([]int, len(features))
	for i := range order {
		order[i] = i
	}

	var threads = max(1, m.opt.Threads)
	var batchSize = max(1, m.opt.BatchSize)
	var models = make([]*Model, threads)
	models[0] = m
	for i := 1; i < len(models); i++ {
		models[i] = m.threadCopy()
	}

	var rnd = ml.NewRand(m.opt.Seed)
	for epoch := 1; epoch <= m.opt.Epochs; epoch++ {
		shuffle(rnd, order)
		for i := 0; i < len(order); i += batchSize {
			var batch = order[i:min(i+batchSize, len(order))]
			trainBatch(&data, batch, models)
			applyGradients(models)
		}
		if e := log.Debug(); e.Enabled() {
			e.Int("epoch", epoch).
				Float64("cost", calcAverageCost(&data, order, models)).
				Msg("linear-epoch")
		}
	}
	return nil
}

func shuffle(rnd *frand.RNG, order []int) {
	rnd.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
}

func trainBatch(data *dataset, batch []int, models []*Model) {
	var index int32 = -1
	var wg = &sync.WaitGroup{}
	for i := range models {
		wg.Add(1)
		go func(m *Model) {
			defer wg.Done()
			for {
				var i = int(atomic.AddInt32(&index, 1))
				if i >= len(batch) {
					break
				}
				var row = batch[i]
				m.train(data.features[row], data.targets[row])
			}
		}(models[i])
	}
	wg.Wait()
}

func applyGradients(models []*Model) {
	for i := 1; i < len(models); i++ {
		models[i].addGradients(models[0])
	}
	models[0].applyGradients()
}

func calcAverageCost(data *dataset, rows []int, models []*Model) float64 {
	var index int32 = -1
	var wg = &sync.WaitGroup{}
	var totalCost float64
	var mu = &sync.Mutex{}
	for i := range models {
		wg.Add(1)
		go func(m *Model) {
			defer wg.Done()
			var localCost float64
			for {
				var i = int(atomic.AddInt32(&index, 1))
				if i >= len(rows) {
					break
				}
				var row = rows[i]
				localCost += m.calcCost(data.features[row], data.targets[row])
			}
			mu.Lock()
			totalCost += localCost
			mu.Unlock()
		}(models[i])
	}
	wg.Wait()
	return totalCost / float64(len(rows))
}

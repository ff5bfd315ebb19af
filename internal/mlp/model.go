// Package mlp is a multilayer perceptron regressor on top of go-deep.
package mlp

import (
	"os"
	"runtime"

	deep "github.com/patrikeh/go-deep"
	"github.com/patrikeh/go-deep/training"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

var (
	ErrNotFitted    = errors.New("model is not fitted")
	ErrFeatureWidth = errors.New("unexpected feature width")
	ErrNoSamples    = errors.New("no samples")
)

type Options struct {
	Hidden       []int
	Epochs       int
	BatchSize    int
	Threads      int
	LearningRate float64
}

func DefaultOptions() Options {
	return Options{
		Hidden:       []int{32, 16},
		Epochs:       30,
		BatchSize:    256,
		Threads:      runtime.NumCPU(),
		LearningRate: 0.001,
	}
}

type Model struct {
	opt Options
	net *deep.Neural
}

func NewModel(opt Options) *Model {
	return &Model{opt: opt}
}

func (m *Model) config(inputs int) *deep.Config {
	var layout = append(append([]int(nil), m.opt.Hidden...), 1)
	return &deep.Config{
		Inputs:     inputs,
		Layout:     layout,
		Activation: deep.ActivationReLU,
		Mode:       deep.ModeRegression,
		Weight:     deep.NewNormal(0.5, 0.0),
		Bias:       true,
	}
}

// Fit builds a fresh network each call.
func (m *Model) Fit(features [][]float32, targets []float64) error {
	if len(features) != len(targets) {
		return errors.Errorf("%v feature rows, %v targets", len(features), len(targets))
	}
	if len(features) == 0 {
		return ErrNoSamples
	}
	var inputs = len(features[0])
	var examples = make(training.Examples, len(features))
	for i := range features {
		if len(features[i]) != inputs {
			return errors.Wrapf(ErrFeatureWidth, "row %v has %v features, row 0 has %v",
				i, len(features[i]), inputs)
		}
		examples[i] = training.Example{
			Input:    toFloat64(features[i]),
			Response: []float64{targets[i]},
		}
	}

	var net = deep.NewNeural(m.config(inputs))
	var trainer = training.NewBatchTrainer(
		training.NewAdam(m.opt.LearningRate, 0.9, 0.999, 1e-8),
		0, max(1, m.opt.BatchSize), max(1, m.opt.Threads))
	trainer.Train(net, examples, nil, m.opt.Epochs)
	m.net = net

	log.Debug().
		Int("inputs", inputs).
		Ints("hidden", m.opt.Hidden).
		Int("samples", len(examples)).
		Msg("mlp-fit")
	return nil
}

func (m *Model) Predict(features [][]float32) ([]float64, error) {
	if m.net == nil {
		return nil, ErrNotFitted
	}
	var inputs = m.net.Config.Inputs
	var result = make([]float64, len(features))
	for i := range features {
		if len(features[i]) != inputs {
			return nil, errors.Wrapf(ErrFeatureWidth, "row %v has %v features, model has %v",
				i, len(features[i]), inputs)
		}
		result[i] = m.net.Predict(toFloat64(features[i]))[0]
	}
	return result, nil
}

func (m *Model) Save(path string) error {
	if m.net == nil {
		return ErrNotFitted
	}
	data, err := m.net.Marshal()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (m *Model) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	net, err := deep.Unmarshal(data)
	if err != nil {
		return errors.Wrapf(err, "unmarshal %v", path)
	}
	m.net = net
	return nil
}

func toFloat64(v []float32) []float64 {
	var result = make([]float64, len(v))
	for i := range v {
		result[i] = float64(v[i])
	}
	return result
}

package linear

import (
	"runtime"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/ChizhovVadim/tdboot/internal/ml"
)

var (
	ErrNotFitted    = errors.New("model is not fitted")
	ErrFeatureWidth = errors.New("unexpected feature width")
	ErrNoSamples    = errors.New("no samples")
)

type Options struct {
	Epochs       int
	BatchSize    int
	Threads      int
	LearningRate float64
	Seed         int64
	// Squash puts tanh on the output so predictions stay inside the reward range.
	Squash bool
	Cost   ml.IModelCost
}

func DefaultOptions() Options {
	return Options{
		Epochs:       20,
		BatchSize:    1024,
		Threads:      runtime.NumCPU(),
		LearningRate: 0.01,
		Seed:         0,
		Cost:         &ml.MSECost{},
	}
}

// Model is y = act(w*x + b). Weights row 0, the last column is the bias.
type Model struct {
	opt          Options
	inputs       int
	activationFn ml.IActivationFn
	weights      ml.Matrix
	wGradients   ml.Gradients
}

func NewModel(opt Options) *Model {
	if opt.Cost == nil {
		opt.Cost = &ml.MSECost{}
	}
	var m = &Model{opt: opt}
	m.setActivation()
	return m
}

func (m *Model) setActivation() {
	if m.opt.Squash {
		m.activationFn = &ml.TanhActivation{}
	} else {
		m.activationFn = &ml.IdentityActivation{}
	}
}

func (m *Model) init(inputs int) {
	m.inputs = inputs
	m.weights = ml.NewMatrix(1, inputs+1)
	m.wGradients = ml.NewGradients(1, inputs+1, m.opt.LearningRate)
}

func (m *Model) Inputs() int { return m.inputs }

func (m *Model) fitted() bool { return m.weights.Data != nil }

func (m *Model) forward(features []float32) (output, x float64) {
	x = m.weights.Get(0, m.inputs)
	for i, v := range features {
		x += m.weights.Get(0, i) * float64(v)
	}
	return m.activationFn.Sigma(x), x
}

func (m *Model) calcCost(features []float32, target float64) float64 {
	var predicted, _ = m.forward(features)
	return m.opt.Cost.Cost(predicted, target)
}

func (m *Model) train(features []float32, target float64) {
	var predicted, x = m.forward(features)
	var outputGradient = m.opt.Cost.CostPrime(predicted, target) *
		m.activationFn.SigmaPrime(x)
	for i, v := range features {
		m.wGradients.Add(0, i, outputGradient*float64(v))
	}
	m.wGradients.Add(0, m.inputs, outputGradient)
}

// threadCopy shares weights with m but owns its gradients.
func (m *Model) threadCopy() *Model {
	return &Model{
		opt:          m.opt,
		inputs:       m.inputs,
		activationFn: m.activationFn,
		weights:      m.weights,
		wGradients:   ml.NewGradients(m.wGradients.Rows, m.wGradients.Cols, m.opt.LearningRate),
	}
}

func (m *Model) addGradients(mainModel *Model) {
	if m == mainModel {
		return
	}
	m.wGradients.AddTo(&mainModel.wGradients)
}

func (m *Model) applyGradients() {
	m.wGradients.Apply(&m.weights)
}

// Predict evaluates rows in parallel chunks.
func (m *Model) Predict(features [][]float32) ([]float64, error) {
	if !m.fitted() {
		return nil, ErrNotFitted
	}
	for i := range features {
		if len(features[i]) != m.inputs {
			return nil, errors.Wrapf(ErrFeatureWidth, "row %v has %v features, model has %v",
				i, len(features[i]), m.inputs)
		}
	}
	var result = make([]float64, len(features))
	const chunkSize = 4096
	var g errgroup.Group
	g.SetLimit(max(1, m.opt.Threads))
	for start := 0; start < len(features); start += chunkSize {
		var start = start
		var end = min(start+chunkSize, len(features))
		g.Go(func() error {
			for i := start; i < end; i++ {
				result[i], _ = m.forward(features[i])
			}
			return nil
		})
	}
	// workers never fail
	g.Wait()
	return result, nil
}

package mlp

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
)

func TestFitPredictSaveLoad(t *testing.T) {
	var features = [][]float32{{0, 0}, {0, 1}, {1, 0}, {1, 1}, {0.5, 0.5}}
	var targets = []float64{0, 0.5, 0.5, 1, 0.5}

	var opt = DefaultOptions()
	opt.Hidden = []int{4}
	opt.Epochs = 5
	opt.BatchSize = 2
	opt.Threads = 1
	var m = NewModel(opt)
	if err := m.Fit(features, targets); err != nil {
		t.Fatal(err)
	}
	want, err := m.Predict(features)
	if err != nil {
		t.Fatal(err)
	}
	if len(want) != len(features) {
		t.Fatalf("%v predictions for %v rows", len(want), len(features))
	}

	var path = filepath.Join(t.TempDir(), "mlp.json")
	if err := m.Save(path); err != nil {
		t.Fatal(err)
	}
	var loaded = NewModel(opt)
	if err := loaded.Load(path); err != nil {
		t.Fatal(err)
	}
	got, err := loaded.Predict(features)
	if err != nil {
		t.Fatal(err)
	}
	for i := range want {
		if math.Abs(want[i]-got[i]) > 1e-9 {
			t.Errorf("row %v: %v != %v", i, got[i], want[i])
		}
	}
}

func TestModelErrors(t *testing.T) {
	var m = NewModel(DefaultOptions())
	if _, err := m.Predict([][]float32{{1}}); !errors.Is(err, ErrNotFitted) {
		t.Errorf("predict before fit: %v", err)
	}
	if err := m.Save(filepath.Join(t.TempDir(), "x")); !errors.Is(err, ErrNotFitted) {
		t.Errorf("save before fit: %v", err)
	}
	if err := m.Fit(nil, nil); !errors.Is(err, ErrNoSamples) {
		t.Errorf("empty fit: %v", err)
	}
	if err := m.Fit([][]float32{{1}, {1, 2}}, []float64{0, 1}); !errors.Is(err, ErrFeatureWidth) {
		t.Errorf("ragged fit: %v", err)
	}
}

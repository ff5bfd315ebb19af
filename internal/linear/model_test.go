package linear

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"

	"github.com/ChizhovVadim/tdboot/internal/ml"
)

func makeData(n int) ([][]float32, []float64) {
	var rnd = ml.NewRand(7)
	var features = make([][]float32, n)
	var targets = make([]float64, n)
	for i := range features {
		var x1 = float32(rnd.Float64()*2 - 1)
		var x2 = float32(rnd.Float64()*2 - 1)
		features[i] = []float32{x1, x2}
		targets[i] = 0.5*float64(x1) - 0.25*float64(x2) + 0.1
	}
	return features, targets
}

func testOptions() Options {
	var opt = DefaultOptions()
	opt.Epochs = 200
	opt.BatchSize = 64
	opt.Threads = 2
	return opt
}

func TestFitLinearFunction(t *testing.T) {
	var features, targets = makeData(1000)
	var m = NewModel(testOptions())
	var err = m.Fit(features, targets)
	if err != nil {
		t.Fatal(err)
	}
	predicted, err := m.Predict(features)
	if err != nil {
		t.Fatal(err)
	}
	var mse = ml.MeanSquaredError(targets, predicted)
	if mse > 0.01 {
		t.Errorf("mse %v", mse)
	}
}

func TestFitIsFullRefit(t *testing.T) {
	var features, targets = makeData(300)
	var opt = testOptions()
	opt.Epochs = 5
	opt.Threads = 1

	var a = NewModel(opt)
	if err := a.Fit(features, targets); err != nil {
		t.Fatal(err)
	}
	var shifted = make([]float64, len(targets))
	for i := range shifted {
		shifted[i] = targets[i] + 3
	}
	if err := a.Fit(features, shifted); err != nil {
		t.Fatal(err)
	}
	if err := a.Fit(features, targets); err != nil {
		t.Fatal(err)
	}

	var b = NewModel(opt)
	if err := b.Fit(features, targets); err != nil {
		t.Fatal(err)
	}
	for i := range a.weights.Data {
		if a.weights.Data[i] != b.weights.Data[i] {
			t.Fatalf("weight %v: %v != %v", i, a.weights.Data[i], b.weights.Data[i])
		}
	}
}

func TestSaveLoad(t *testing.T) {
	var features, targets = makeData(200)
	var opt = testOptions()
	opt.Epochs = 3
	opt.Squash = true
	var m = NewModel(opt)
	if err := m.Fit(features, targets); err != nil {
		t.Fatal(err)
	}
	var path = filepath.Join(t.TempDir(), "model.bin")
	if err := m.Save(path); err != nil {
		t.Fatal(err)
	}

	var loaded = NewModel(DefaultOptions())
	if err := loaded.Load(path); err != nil {
		t.Fatal(err)
	}
	if loaded.Inputs() != 2 || !loaded.opt.Squash {
		t.Fatalf("inputs %v squash %v", loaded.Inputs(), loaded.opt.Squash)
	}
	want, _ := m.Predict(features)
	got, err := loaded.Predict(features)
	if err != nil {
		t.Fatal(err)
	}
	for i := range want {
		// weights are stored as float32
		if math.Abs(want[i]-got[i]) > 1e-5 {
			t.Fatalf("row %v: %v != %v", i, got[i], want[i])
		}
	}
}

func TestModelErrors(t *testing.T) {
	var m = NewModel(testOptions())
	if _, err := m.Predict([][]float32{{1}}); !errors.Is(err, ErrNotFitted) {
		t.Errorf("predict before fit: %v", err)
	}
	if err := m.Save(filepath.Join(t.TempDir(), "x")); !errors.Is(err, ErrNotFitted) {
		t.Errorf("save before fit: %v", err)
	}
	if err := m.Fit(nil, nil); !errors.Is(err, ErrNoSamples) {
		t.Errorf("empty fit: %v", err)
	}
	if err := m.Fit([][]float32{{1, 2}, {1}}, []float64{0, 0}); !errors.Is(err, ErrFeatureWidth) {
		t.Errorf("ragged fit: %v", err)
	}
	if err := m.Fit([][]float32{{1, 2}}, []float64{0}); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Predict([][]float32{{1, 2, 3}}); !errors.Is(err, ErrFeatureWidth) {
		t.Errorf("wide predict: %v", err)
	}
	if err := m.Load(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("load of missing file succeeded")
	}
}

func TestLoadBadFile(t *testing.T) {
	var header = []byte{'T', 'D', 1, 0, 2, 0, 0, 0, 0, 0, 0, 0}
	var weights = make([]byte, 4*3)
	tests := []struct {
		name    string
		content []byte
	}{
		{"huge width", []byte{'T', 'D', 1, 0, 0xff, 0xff, 0xff, 0xff, 0, 0, 0, 0}},
		{"truncated weights", append(append([]byte(nil), header...), weights[:8]...)},
		{"trailing bytes", append(append(append([]byte(nil), header...), weights...), 0)},
		{"short header", []byte{'T', 'D', 1}},
		{"bad magic", append([]byte{'X', 'D', 1, 0, 2, 0, 0, 0, 0, 0, 0, 0}, weights...)},
		{"bad version", append([]byte{'T', 'D', 2, 0, 2, 0, 0, 0, 0, 0, 0, 0}, weights...)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var path = filepath.Join(t.TempDir(), "model.bin")
			if err := os.WriteFile(path, tt.content, 0o644); err != nil {
				t.Fatal(err)
			}
			var m = NewModel(testOptions())
			if err := m.Load(path); !errors.Is(err, ErrBadModelFile) {
				t.Errorf("err = %v, want %v", err, ErrBadModelFile)
			}
			if m.fitted() {
				t.Error("model fitted from a bad file")
			}
		})
	}

	var path = filepath.Join(t.TempDir(), "model.bin")
	if err := os.WriteFile(path, append(append([]byte(nil), header...), weights...), 0o644); err != nil {
		t.Fatal(err)
	}
	var m = NewModel(testOptions())
	if err := m.Load(path); err != nil || m.Inputs() != 2 {
		t.Errorf("well formed file: inputs %v err %v", m.Inputs(), err)
	}
}

func TestPredictChunks(t *testing.T) {
	var features, targets = makeData(10000)
	var opt = testOptions()
	opt.Epochs = 1
	opt.Threads = 3
	var m = NewModel(opt)
	if err := m.Fit(features, targets); err != nil {
		t.Fatal(err)
	}
	got, err := m.Predict(features)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(features) {
		t.Fatalf("%v predictions", len(got))
	}
	for i := range features {
		if want, _ := m.forward(features[i]); got[i] != want {
			t.Fatalf("row %v: %v != %v", i, got[i], want)
		}
	}
}

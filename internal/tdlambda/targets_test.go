package tdlambda

import (
	"context"
	"math"
	"testing"

	"github.com/pkg/errors"

	"github.com/ChizhovVadim/tdboot/internal/domain"
)

const eps = 1e-6

func tags(values ...int) []domain.StateTag {
	var result = make([]domain.StateTag, len(values))
	for i, v := range values {
		result[i] = domain.StateTag(v)
	}
	return result
}

func assertClose(t *testing.T, got, want []float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("len %v, want %v", len(got), len(want))
	}
	for i := range got {
		if math.Abs(got[i]-want[i]) > eps {
			t.Errorf("target[%v] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestComputeTargetsExample(t *testing.T) {
	got, err := ComputeTargets([]float64{0.1, 0.2, 0.0}, tags(0, 0, 1), 0.5)
	if err != nil {
		t.Fatal(err)
	}
	assertClose(t, got, []float64{0.45 * 0.5 / 0.875, 0.7 * 0.5 / 0.75, 1.0})
	assertClose(t, got, []float64{0.2571428571, 0.4666666667, 1.0})
}

func TestComputeTargetsSingleStep(t *testing.T) {
	tests := []struct {
		name       string
		prediction float64
		tag        int
		lambda     float64
		want       float64
	}{
		{"playing", 0.3, 0, 0.5, 0.3},
		{"playing lambda 0", -0.7, 0, 0, -0.7},
		{"playing lambda 0.99", 0.42, 0, 0.99, 0.42},
		{"draw", 0.25, 3, 0.5, 0.25},
		{"unknown tag", 0.25, 7, 0.5, 0.25},
		{"p1 win", -0.9, 1, 0.5, 1},
		{"p1 win lambda 0", 0.1, 1, 0, 1},
		{"p2 win", 0.9, 2, 0.5, -1},
		{"p2 win lambda 0.9", 0.9, 2, 0.9, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeTargets([]float64{tt.prediction}, tags(tt.tag), tt.lambda)
			if err != nil {
				t.Fatal(err)
			}
			assertClose(t, got, []float64{tt.want})
		})
	}
}

func TestComputeTargetsConstantPrediction(t *testing.T) {
	for _, lambda := range []float64{0.1, 0.5, 0.9} {
		var predictions = make([]float64, 30)
		for i := range predictions {
			predictions[i] = 0.37
		}
		got, err := ComputeTargets(predictions, make([]domain.StateTag, len(predictions)), lambda)
		if err != nil {
			t.Fatal(err)
		}
		for i := range got {
			if math.Abs(got[i]-0.37) > eps {
				t.Errorf("lambda %v target[%v] = %v", lambda, i, got[i])
			}
		}
	}
}

func TestComputeTargetsTerminalReset(t *testing.T) {
	// the second game segment must not see the first terminal reward
	got, err := ComputeTargets([]float64{0.5, 0.5, 0.3}, tags(0, 2, 0), 0.5)
	if err != nil {
		t.Fatal(err)
	}
	var want0 = (0.5 + 0.5*-1.0) * 0.5 / 0.75
	assertClose(t, got, []float64{want0, -1, 0.3})
}

func TestComputeTargetsLambdaZero(t *testing.T) {
	var predictions = []float64{0.1, -0.4, 0.8, 0.0}
	got, err := ComputeTargets(predictions, tags(0, 0, 0, 1), 0)
	if err != nil {
		t.Fatal(err)
	}
	assertClose(t, got, []float64{0.1, -0.4, 0.8, 1})
}

func TestComputeTargetsDeterministic(t *testing.T) {
	var predictions = []float64{0.13, -0.71, 0.44, 0.91, 0.05, -0.2}
	var tt = tags(0, 0, 2, 0, 0, 1)
	a, err := ComputeTargets(predictions, tt, 0.7)
	if err != nil {
		t.Fatal(err)
	}
	b, err := ComputeTargets(predictions, tt, 0.7)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a {
		if math.Float64bits(a[i]) != math.Float64bits(b[i]) {
			t.Errorf("target[%v] differs: %v %v", i, a[i], b[i])
		}
	}
}

func TestComputeTargetsErrors(t *testing.T) {
	tests := []struct {
		name        string
		predictions []float64
		tags        []domain.StateTag
		lambda      float64
		want        error
	}{
		{"lambda one", []float64{0}, tags(0), 1, ErrInvalidLambda},
		{"lambda negative", []float64{0}, tags(0), -0.1, ErrInvalidLambda},
		{"lambda NaN", []float64{0}, tags(0), math.NaN(), ErrInvalidLambda},
		{"empty", nil, nil, 0.5, ErrEmptyTrajectory},
		{"mismatch", []float64{0, 1}, tags(0), 0.5, ErrLengthMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeTargets(tt.predictions, tt.tags, tt.lambda)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestComputeAll(t *testing.T) {
	var trajectories = []domain.Trajectory{
		{GameID: 1, Steps: []domain.Step{{Tag: 0}, {Tag: 0}, {Tag: 1}}},
		{GameID: 2, Steps: []domain.Step{{Tag: 0}}},
		{GameID: 3, Steps: []domain.Step{{Tag: 0}, {Tag: 2}}},
	}
	var predictions = [][]float64{{0.1, 0.2, 0.0}, {0.6}, {0.2, 0.9}}
	got, err := ComputeAll(context.Background(), trajectories, predictions, Options{Lambda: 0.5, Threads: 2})
	if err != nil {
		t.Fatal(err)
	}
	for i := range trajectories {
		want, err := ComputeTargets(predictions[i], trajectories[i].Tags(), 0.5)
		if err != nil {
			t.Fatal(err)
		}
		assertClose(t, got[i], want)
	}
}

func TestComputeAllErrors(t *testing.T) {
	var ctx = context.Background()
	var trajectories = []domain.Trajectory{
		{GameID: 1, Steps: []domain.Step{{Tag: 0}, {Tag: 5}}},
		{GameID: 2, Steps: nil},
	}

	_, err := ComputeAll(ctx, trajectories[:1], [][]float64{{0, 0}}, Options{Lambda: 0.5, Strict: true})
	if !errors.Is(err, ErrUnknownStateTag) {
		t.Errorf("strict: err = %v", err)
	}
	_, err = ComputeAll(ctx, trajectories[:1], [][]float64{{0, 0}}, Options{Lambda: 0.5})
	if err != nil {
		t.Errorf("lenient: err = %v", err)
	}
	_, err = ComputeAll(ctx, trajectories, [][]float64{{0, 0}, {}}, Options{Lambda: 0.5})
	if !errors.Is(err, ErrEmptyTrajectory) {
		t.Errorf("empty: err = %v", err)
	}
	_, err = ComputeAll(ctx, trajectories, [][]float64{{0, 0}}, Options{Lambda: 0.5})
	if !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("mismatch: err = %v", err)
	}
	_, err = ComputeAll(ctx, trajectories[:1], [][]float64{{0, 0}}, Options{Lambda: 1.5})
	if !errors.Is(err, ErrInvalidLambda) {
		t.Errorf("lambda: err = %v", err)
	}
}

func TestDecayTargets(t *testing.T) {
	const d = 0.5
	assertClose(t, DecayTargets(tags(0, 0, 2), d), []float64{-0.25, -0.5, -1})
	assertClose(t, DecayTargets(tags(0, 1, 0, 0), d), []float64{0.5, 1, 0.25, 0.5})
	assertClose(t, DecayTargets(tags(0), DefaultDecay), []float64{DefaultDecay})
}

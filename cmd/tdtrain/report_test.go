package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/ChizhovVadim/tdboot/internal/train"
)

func TestReporterRounds(t *testing.T) {
	var buf bytes.Buffer
	var r = newReporter(&buf)
	r.Rounds([]train.RoundReport{
		{Round: 1, TrainSize: 90, ValidationSize: 10, Evaluated: true, MSE: 0.2, R2: 0.1, Duration: time.Second},
		{Round: 2, TrainSize: 90, ValidationSize: 10, Evaluated: true, MSE: 0.1, R2: 0.3, Duration: time.Second},
		{Round: 3, TrainSize: 100, Duration: time.Second},
	})
	var lines = strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("%v lines: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[1], "mse 0.100000") {
		t.Errorf("line %q", lines[1])
	}
	if strings.Contains(lines[2], "mse") {
		t.Errorf("unevaluated round printed a score: %q", lines[2])
	}
}

func TestReporterHoldout(t *testing.T) {
	var buf bytes.Buffer
	var r = newReporter(&buf)
	r.Holdout(&train.HoldoutReport{
		Evaluation: train.Evaluation{ValidationSize: 1, R2: 1},
		Rows:       []train.PredictionRow{{True: 1, Pred: 0.5, Diff: 0.5}},
	})
	if !strings.Contains(buf.String(), "0.5000") {
		t.Errorf("output %q", buf.String())
	}
}

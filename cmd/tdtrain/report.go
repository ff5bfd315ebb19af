package main

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"

	"github.com/ChizhovVadim/tdboot/internal/train"
)

type reporter struct {
	out *termenv.Output
}

func newReporter(w io.Writer) *reporter {
	return &reporter{out: termenv.NewOutput(w)}
}

func (r *reporter) colored(s string, c termenv.Color) string {
	return r.out.String(s).Foreground(c).String()
}

// Rounds prints one line per bootstrap round. A validation MSE lower than
// in the round before is green.
func (r *reporter) Rounds(rounds []train.RoundReport) {
	var prev float64
	for i, round := range rounds {
		var line = fmt.Sprintf("round %2d train %7d valid %7d", round.Round, round.TrainSize, round.ValidationSize)
		if round.Evaluated {
			var score = fmt.Sprintf(" mse %.6f r2 %.4f", round.MSE, round.R2)
			if i == 0 || round.MSE < prev {
				score = r.colored(score, termenv.ANSIGreen)
			} else {
				score = r.colored(score, termenv.ANSIYellow)
			}
			line += score
			prev = round.MSE
		}
		fmt.Fprintf(r.out, "%v %v\n", line, round.Duration)
	}
}

func (r *reporter) Evaluation(name string, ev train.Evaluation) {
	fmt.Fprintf(r.out, "%v train %v holdout %v\n", name, ev.TrainSize, ev.ValidationSize)
	if ev.ValidationSize != 0 {
		r.scores(ev)
	}
}

func (r *reporter) scores(ev train.Evaluation) {
	fmt.Fprintf(r.out, "mse %.6f rmse %.6f mae %.6f r2 %v\n",
		ev.MSE, ev.RMSE, ev.MAE, r.colored(fmt.Sprintf("%.4f", ev.R2), r2Color(ev.R2)))
}

func r2Color(r2 float64) termenv.Color {
	switch {
	case r2 >= 0.5:
		return termenv.ANSIGreen
	case r2 >= 0:
		return termenv.ANSIYellow
	}
	return termenv.ANSIRed
}

func (r *reporter) Holdout(report *train.HoldoutReport) {
	fmt.Fprintf(r.out, "%10v %10v %10v\n", "true", "pred", "diff")
	for _, row := range report.Rows {
		fmt.Fprintf(r.out, "%10.4f %10.4f %10.4f\n", row.True, row.Pred, row.Diff)
	}
	r.scores(report.Evaluation)
}

func (r *reporter) Bench(result train.BenchResult) {
	fmt.Fprintf(r.out, "predicted %v rows in %v (%.0f rows/s)\n",
		result.Rows, result.Duration, result.RowsPerSecond)
}

package train

import (
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

type BenchResult struct {
	Rows          int
	Duration      time.Duration
	RowsPerSecond float64
}

// Bench times one Predict call over the last n rows.
func Bench(model IRegressor, features [][]float32, n int) (BenchResult, error) {
	if n <= 0 || n > len(features) {
		n = len(features)
	}
	if n == 0 {
		return BenchResult{}, errors.Wrap(ErrInvalidConfig, "no rows to benchmark")
	}
	var rows = features[len(features)-n:]
	var start = time.Now()
	_, err := model.Predict(rows)
	if err != nil {
		return BenchResult{}, err
	}
	var result = BenchResult{Rows: n, Duration: time.Since(start)}
	if secs := result.Duration.Seconds(); secs > 0 {
		result.RowsPerSecond = float64(n) / secs
	}
	log.Info().
		Int("rows", n).
		Dur("elapsed", result.Duration).
		Float64("rowsPerSecond", result.RowsPerSecond).
		Msg("bench")
	return result, nil
}

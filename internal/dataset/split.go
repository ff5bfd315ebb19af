package dataset

import (
	"math"

	"github.com/ChizhovVadim/tdboot/internal/ml"
)

// Split returns a reproducible random partition of row indices 0..n-1.
// The train part gets floor(n*trainFraction) rows, at least one when n > 0.
func Split(n int, trainFraction float64, seed int64) (train, validation []int) {
	if n == 0 {
		return nil, nil
	}
	var trainSize = int(math.Floor(float64(n) * trainFraction))
	trainSize = min(n, max(1, trainSize))
	var perm = ml.NewRand(seed).Perm(n)
	return perm[:trainSize], perm[trainSize:]
}

func Gather[T any](values []T, rows []int) []T {
	var result = make([]T, len(rows))
	for i, row := range rows {
		result[i] = values[row]
	}
	return result
}

package ml

import (
	"math"

	"golang.org/x/exp/constraints"
)

func MeanSquaredError[T constraints.Float](actual, predicted []T) float64 {
	if len(actual) == 0 {
		return 0
	}
	var sum float64
	for i := range actual {
		var x = float64(predicted[i]) - float64(actual[i])
		sum += x * x
	}
	return sum / float64(len(actual))
}

func MeanAbsoluteError[T constraints.Float](actual, predicted []T) float64 {
	if len(actual) == 0 {
		return 0
	}
	var sum float64
	for i := range actual {
		sum += math.Abs(float64(predicted[i]) - float64(actual[i]))
	}
	return sum / float64(len(actual))
}

func RootMeanSquaredError[T constraints.Float](actual, predicted []T) float64 {
	return math.Sqrt(MeanSquaredError(actual, predicted))
}

// R2Score is the coefficient of determination 1 - SSres/SStot.
// Constant actual values give 1 for a perfect fit and 0 otherwise.
func R2Score[T constraints.Float](actual, predicted []T) float64 {
	if len(actual) == 0 {
		return 0
	}
	var mean float64
	for _, y := range actual {
		mean += float64(y)
	}
	mean /= float64(len(actual))

	var ssRes, ssTot float64
	for i := range actual {
		var r = float64(actual[i]) - float64(predicted[i])
		var d = float64(actual[i]) - mean
		ssRes += r * r
		ssTot += d * d
	}
	if ssTot == 0 {
		if ssRes == 0 {
			return 1
		}
		return 0
	}
	return 1 - ssRes/ssTot
}

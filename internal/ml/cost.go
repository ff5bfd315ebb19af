package ml

type IModelCost interface {
	Cost(predicted, target float64) float64
	CostPrime(predicted, target float64) float64
}

type MSECost struct{}

func (*MSECost) Cost(predicted, target float64) float64 {
	var x = predicted - target
	return x * x
}

func (*MSECost) CostPrime(predicted, target float64) float64 {
	return 2 * (predicted - target)
}

type AbsCost struct{}

func (*AbsCost) Cost(predicted, target float64) float64 {
	var x = predicted - target
	if x < 0 {
		return -x
	}
	return x
}

func (*AbsCost) CostPrime(predicted, target float64) float64 {
	var x = predicted - target
	if x < 0 {
		return -1
	}
	return 1
}

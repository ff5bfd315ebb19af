package ml

import "math"

type IActivationFn interface {
	Sigma(x float64) float64
	SigmaPrime(x float64) float64
}

type IdentityActivation struct{}

func (*IdentityActivation) Sigma(x float64) float64      { return x }
func (*IdentityActivation) SigmaPrime(x float64) float64 { return 1 }

// TanhActivation keeps outputs inside the (-1, 1) reward range.
type TanhActivation struct{}

func (*TanhActivation) Sigma(x float64) float64 { return math.Tanh(x) }

func (*TanhActivation) SigmaPrime(x float64) float64 {
	var y = math.Tanh(x)
	return 1 - y*y
}

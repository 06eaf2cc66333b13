package initwfn

import G "gorgonia.org/gorgonia"

// NewZeroes returns a weight initializer that initializes all weights
// to 0
func NewZeroes() *InitWFn {
	return &InitWFn{initWFn: G.Zeroes(), Type: Zeroes}
}

// NewOnes returns a weight initializer that initializes all weights
// to 1
func NewOnes() *InitWFn {
	return &InitWFn{initWFn: G.Ones(), Type: Ones}
}

// NewConstant returns a weight initializer that initializes all
// weights to a constant value
func NewConstant(value float64) *InitWFn {
	return &InitWFn{initWFn: G.ValuesOf(value), Type: Constant}
}

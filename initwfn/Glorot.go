package initwfn

import G "gorgonia.org/gorgonia"

// NewGlorotU returns a new Glorot Uniform weight initializer
func NewGlorotU(gain float64) *InitWFn {
	return &InitWFn{initWFn: G.GlorotU(gain), Type: GlorotU}
}

// NewGlorotN returns a new Glorot Normal weight initializer
func NewGlorotN(gain float64) *InitWFn {
	return &InitWFn{initWFn: G.GlorotN(gain), Type: GlorotN}
}

// Package initwfn wraps Gorgonia weight initialization functions
// behind named constructors so that agent configurations can refer to
// them by type.
package initwfn

import (
	"fmt"

	G "gorgonia.org/gorgonia"
)

// Type describes the types of weight initializers that are available
type Type string

// Available InitWFn types
const (
	GlorotU  Type = "GlorotU"
	GlorotN  Type = "GlorotN"
	Zeroes   Type = "Zeroes"
	Ones     Type = "Ones"
	Constant Type = "Constant"
)

// InitWFn wraps a Gorgonia InitWFn together with its type name
type InitWFn struct {
	initWFn G.InitWFn
	Type    Type
}

// InitWFn returns the wrapped Gorgonia InitWFn
func (w *InitWFn) InitWFn() G.InitWFn {
	return w.initWFn
}

// String implements the fmt.Stringer interface
func (w *InitWFn) String() string {
	return string(w.Type)
}

// FromType constructs the weight initializer named by t. The gain
// parameter applies to the Glorot initializers and is the constant
// value for Constant; it is ignored otherwise.
func FromType(t Type, gain float64) (*InitWFn, error) {
	switch t {
	case GlorotU:
		return NewGlorotU(gain), nil
	case GlorotN:
		return NewGlorotN(gain), nil
	case Zeroes:
		return NewZeroes(), nil
	case Ones:
		return NewOnes(), nil
	case Constant:
		return NewConstant(gain), nil
	}
	return nil, fmt.Errorf("fromtype: no such initializer type %v", t)
}

package simulator

import (
	"strings"

	"kubernetes-cluster-env/pkg/constants"
)

// FaultSet is a set of active fault tags. The zero value is empty.
type FaultSet uint8

func faultBit(f constants.Fault) FaultSet {
	for i, known := range constants.Faults {
		if known == f {
			return 1 << uint(i)
		}
	}
	return 0
}

// NewFaultSet returns a set holding the given faults. Unknown tags are ignored.
func NewFaultSet(faults ...constants.Fault) FaultSet {
	var s FaultSet
	for _, f := range faults {
		s = s.With(f)
	}
	return s
}

// Has reports whether f is active.
func (s FaultSet) Has(f constants.Fault) bool {
	bit := faultBit(f)
	return bit != 0 && s&bit != 0
}

// With returns s plus f.
func (s FaultSet) With(f constants.Fault) FaultSet {
	return s | faultBit(f)
}

// Without returns s minus f.
func (s FaultSet) Without(f constants.Fault) FaultSet {
	return s &^ faultBit(f)
}

// Empty reports whether no fault is active.
func (s FaultSet) Empty() bool {
	return s == 0
}

// Len returns the number of active faults.
func (s FaultSet) Len() int {
	n := 0
	for _, f := range constants.Faults {
		if s.Has(f) {
			n++
		}
	}
	return n
}

// List returns the active faults in canonical order.
func (s FaultSet) List() []constants.Fault {
	out := make([]constants.Fault, 0, len(constants.Faults))
	for _, f := range constants.Faults {
		if s.Has(f) {
			out = append(out, f)
		}
	}
	return out
}

// Strings returns the active fault tags as strings in canonical order.
// The result is never nil.
func (s FaultSet) Strings() []string {
	out := make([]string, 0, len(constants.Faults))
	for _, f := range s.List() {
		out = append(out, string(f))
	}
	return out
}

func (s FaultSet) String() string {
	return "[" + strings.Join(s.Strings(), " ") + "]"
}

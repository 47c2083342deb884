// Package conv narrows integers for automaton tables.
//
// State and arc identifiers are stored as int32. A table that outgrows
// them is a programming error, so the helpers panic.
package conv

import "math"

// IntToInt32 converts n to int32. It panics when n does not fit.
func IntToInt32(n int) int32 {
	if n < math.MinInt32 || n > math.MaxInt32 {
		panic("conv: int value out of int32 range")
	}
	return int32(n)
}

// Package sparse provides a set of small non-negative integers that clears
// in constant time.
//
// The NFA engine keeps one per cache to remember which states a step has
// already advanced to. A step clears it, so clearing must not depend on the
// number of states.
package sparse

import "github.com/ndwade/xtrms/internal/conv"

// Set holds values in [0, Cap()). Members are kept in insertion order.
//
// index[v] is only meaningful when it points back at v in members; Clear
// leaves the stale entries in place.
type Set[T ~int32] struct {
	index   []int32
	members []T
}

// New returns an empty set for values in [0, n).
func New[T ~int32](n int) *Set[T] {
	return &Set[T]{
		index:   make([]int32, n),
		members: make([]T, 0, n),
	}
}

// Add inserts v and reports whether it was absent. It panics when v is out
// of range.
func (s *Set[T]) Add(v T) bool {
	if s.Has(v) {
		return false
	}
	s.index[v] = conv.IntToInt32(len(s.members))
	s.members = append(s.members, v)
	return true
}

// Has reports whether v is a member. Out of range values never are.
func (s *Set[T]) Has(v T) bool {
	if v < 0 || int(v) >= len(s.index) {
		return false
	}
	i := s.index[v]
	return int(i) < len(s.members) && s.members[i] == v
}

// Clear empties the set.
func (s *Set[T]) Clear() {
	s.members = s.members[:0]
}

// Len returns the number of members.
func (s *Set[T]) Len() int { return len(s.members) }

// Cap returns the exclusive upper bound of the values the set holds.
func (s *Set[T]) Cap() int { return len(s.index) }

// Grow empties the set and makes room for values in [0, n). Storage is
// reused when it is large enough.
func (s *Set[T]) Grow(n int) {
	if n <= cap(s.index) {
		s.index = s.index[:n]
	} else {
		s.index = make([]int32, n)
		s.members = make([]T, 0, n)
	}
	s.Clear()
}

// Members returns the members in insertion order. The slice is valid until
// the next Add, Clear or Grow.
func (s *Set[T]) Members() []T {
	return s.members
}

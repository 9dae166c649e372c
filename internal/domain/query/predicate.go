// Package query builds list-filter predicates over domain entities.
//
// Every optional filter parameter maps to one atomic predicate; an
// unset parameter contributes a tautology. Atoms are folded with And,
// so filters are always conjunctive and independent of each other.
package query

// Predicate is a composable boolean test over an entity.
type Predicate[E any] func(E) bool

// True returns the tautological predicate.
func True[E any]() Predicate[E] {
	return func(E) bool { return true }
}

// And folds predicates into their conjunction. And() == True().
func And[E any](preds ...Predicate[E]) Predicate[E] {
	return func(e E) bool {
		for _, p := range preds {
			if !p(e) {
				return false
			}
		}
		return true
	}
}

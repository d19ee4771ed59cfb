package domain

// Rule is a projection action. Exclude is the only supported rule: a
// projection may omit fields from a migration run, never positively select
// a subset.
type Rule int

// Exclude omits a field: it is never read from the store, never handed to an
// embedded schema, and never checked for staleness.
const Exclude Rule = 0

// Projection maps field names to projection rules.
type Projection map[string]Rule

// Excludes reports whether the named field is excluded.
func (p Projection) Excludes(field string) bool {
	_, ok := p[field]
	return ok
}

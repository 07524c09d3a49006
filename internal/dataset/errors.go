package dataset

import "fmt"

// ValidationError is returned when a raw record lacks a required field or the
// field has the wrong type. It rejects the whole input batch.
type ValidationError struct {
	Index  int    // position of the record in the input batch
	Field  string // name of the offending field in the raw record
	Reason string // empty for a missing field
}

func (e *ValidationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("record %d: missing required field: %s", e.Index, e.Field)
	}
	return fmt.Sprintf("record %d: field %s: %s", e.Index, e.Field, e.Reason)
}

// ConsistencyError signals a broken scoping invariant. It is raised with panic
// and never returned.
type ConsistencyError struct {
	Kind string // "alias" or "message id"
	ID   string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("internal consistency: unresolved %s for %q", e.Kind, e.ID)
}

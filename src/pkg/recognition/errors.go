package recognition

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnknown Kind = iota
	// KindInput marks an upload the pipeline cannot derive an identifier from.
	KindInput
	// KindStore marks a failed object store write.
	KindStore
	// KindLookup marks a failed attribute store read.
	KindLookup
)

func (k Kind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindStore:
		return "store"
	case KindLookup:
		return "lookup"
	default:
		return "unknown"
	}
}

// Error describes which pipeline step failed and on what resource.
type Error struct {
	Kind     Kind
	Op       string
	Resource string
	Key      string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %q on %q: %v", e.Op, e.Key, e.Resource, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf reports the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var recErr *Error
	if errors.As(err, &recErr) {
		return recErr.Kind
	}
	return KindUnknown
}

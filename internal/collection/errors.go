package collection

import (
	"fmt"

	"github.com/mesh-intelligence/folio/pkg/types"
)

// Operations named by OpError.
const (
	OpFetch  = "fetch"
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

// OpError is the failure surfaced to the user for a collection operation.
// Its message is fixed per operation and content type ("failed to fetch
// projects", "failed to delete testimonial"); the store error is kept as
// the cause.
type OpError struct {
	Op   string
	Type string
	Err  error
}

func (e *OpError) Error() string {
	noun := types.Singular(e.Type)
	if e.Op == OpFetch {
		noun = types.Plural(e.Type)
	}
	return fmt.Sprintf("failed to %s %s", e.Op, noun)
}

func (e *OpError) Unwrap() error { return e.Err }

package billing

import (
	"errors"
	"fmt"
)

// ErrNoData means a query that must yield a row yielded none, e.g. a project
// with no billing for the requested day. Callers must not substitute zero:
// a silent zero would skew the day-over-day comparison.
var ErrNoData = errors.New("billing: no data for query")

// QueryError wraps a failed query with the operation that issued it.
type QueryError struct {
	Op  string
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("billing: %s: %v", e.Op, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

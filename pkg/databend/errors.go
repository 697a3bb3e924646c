package databend

import (
	"errors"
	"fmt"
)

// ErrExecutionFailed is matched by errors for queries the server reported
// as Failed.
var ErrExecutionFailed = errors.New("query execution failed")

// StatusError is returned when the server answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("databend returned HTTP %d: %s", e.StatusCode, e.Body)
}

// ExecutionFailedError describes a query that reached the Failed state.
type ExecutionFailedError struct {
	QueryID string
	Code    int
	Message string
}

func (e *ExecutionFailedError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("query %s failed", e.QueryID)
	}
	return fmt.Sprintf("query %s failed with code %d: %s", e.QueryID, e.Code, e.Message)
}

func (e *ExecutionFailedError) Unwrap() error {
	return ErrExecutionFailed
}

// Err returns an *ExecutionFailedError when the response is in the Failed
// state, nil otherwise.
func (r *QueryResponse) Err() error {
	if r.State != StateFailed {
		return nil
	}
	e := &ExecutionFailedError{QueryID: r.ID}
	if r.Error != nil {
		e.Code = r.Error.Code
		e.Message = r.Error.Message
	}
	return e
}

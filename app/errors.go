package app

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors.
var (
	ErrNoCollection    = errors.New("collection is not provisioned or bound")
	ErrNotPersisted    = errors.New("record has no row id")
	ErrInvalidRecord   = errors.New("record is missing required fields")
	ErrSchemaMismatch  = errors.New("record belongs to another schema")
	ErrNotAcknowledged = errors.New("remote service did not acknowledge the operation")
)

// RemoteOperationError wraps a gateway failure with the operation and the
// collection or row it targeted. Operations are never retried.
type RemoteOperationError struct {
	Op         string
	Collection string
	Row        string
	Err        error
}

func (e *RemoteOperationError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	if e.Collection != "" {
		fmt.Fprintf(&b, " collection %s", e.Collection)
	}
	if e.Row != "" {
		fmt.Fprintf(&b, " row %s", e.Row)
	}
	b.WriteString(": ")
	b.WriteString(e.cause().Error())
	return b.String()
}

// Unwrap returns the cause, ErrNotAcknowledged when none was recorded.
func (e *RemoteOperationError) Unwrap() error { return e.cause() }

func (e *RemoteOperationError) cause() error {
	if e.Err == nil {
		return ErrNotAcknowledged
	}
	return e.Err
}

package fixpoint

import "golang.org/x/xerrors"

// Error is spec.md §7's FixpointError: the predicate layer signaled
// out-of-memory, or a malformed variable map was supplied.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return "fixpoint: " + e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

func wrapf(op, format string, args ...interface{}) *Error {
	return &Error{Op: op, Err: xerrors.Errorf(format, args...)}
}

package predicate

import "golang.org/x/xerrors"

// Error is the error kind this package returns, corresponding to
// spec.md §7's PredicateError: an unknown variable name, a malformed
// parse tree, or a BDD allocation failure. Every exported predicate.Manager
// method that can fail wraps the underlying cause (if any) with
// xerrors.Errorf's %w so callers can xerrors.Is/As through the chain.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return "predicate: " + e.Op
	}
	return "predicate: " + e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

func newError(op string, err error) *Error {
	return &Error{Op: op, Err: err}
}

func wrapf(op, format string, args ...interface{}) *Error {
	return &Error{Op: op, Err: xerrors.Errorf(format, args...)}
}

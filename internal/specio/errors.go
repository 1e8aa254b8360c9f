// Package specio is a minimal concrete adapter for the collaborator
// boundary spec.md §1 places out of scope: the specification lexer and
// parser. It is not a temporal-logic parser -- it decodes the six
// well-typed data items of spec.md §6 from a small JSON encoding, so
// cmd/gr1c and tests have something concrete to read without building a
// real parser.
package specio

import "golang.org/x/xerrors"

// Error reports a malformed JSON specification document: missing fields,
// an unrecognized parse-tree node kind, or a combinator node missing an
// operand.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return "specio: " + e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

func wrapf(op, format string, args ...interface{}) *Error {
	return &Error{Op: op, Err: xerrors.Errorf(format, args...)}
}

package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for broad classification.
var (
	ErrNotFound              = errors.New("not found")
	ErrInvalidConfig         = errors.New("invalid config")
	ErrUnknownPrefix         = errors.New("unknown metric prefix")
	ErrInvalidUnitRelation   = errors.New("invalid unit relation")
	ErrConflictingDefinition = errors.New("conflicting unit definition")
	ErrCyclicDefinition      = errors.New("cyclic unit definition")
	ErrNotConvertible        = errors.New("amount is not convertible")
)

// ErrorKind is a coarse-grained categorization for errors.
type ErrorKind string

const (
	KindNotFound              ErrorKind = "not_found"
	KindInvalidConfig         ErrorKind = "invalid_config"
	KindExecution             ErrorKind = "execution"
	KindUnknownPrefix         ErrorKind = "unknown_prefix"
	KindInvalidUnitRelation   ErrorKind = "invalid_unit_relation"
	KindConflictingDefinition ErrorKind = "conflicting_definition"
	KindCyclicDefinition      ErrorKind = "cyclic_definition"
	KindNotConvertible        ErrorKind = "not_convertible"
)

// OpError wraps an underlying error with operation context and a kind.
type OpError struct {
	Op   string
	Kind ErrorKind
	Path string // Optional: relevant file path
	Err  error
}

func (e *OpError) Error() string {
	if e == nil {
		return "<nil>"
	}

	base := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Path != "" {
		base += fmt.Sprintf(" (path=%s)", e.Path)
	}
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *OpError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsKind helps callers classify errors without depending on infra packages.
// The outermost OpError decides the kind.
func IsKind(err error, kind ErrorKind) bool {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Kind == kind
	}
	return false
}

// WithPath returns err with Path set on its outermost OpError, leaving other
// errors untouched. It never mutates err.
func WithPath(err error, path string) error {
	var oe *OpError
	if path == "" || !errors.As(err, &oe) || oe.Path != "" {
		return err
	}
	cp := *oe
	cp.Path = path
	return &cp
}

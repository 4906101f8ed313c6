// Package txerr holds the errors raised while building or querying type expressions.
//
// Every error is a programming-usage error surfaced at the point of misuse. Match them with
// errors.As against ConfigurationError, TypeError, SyntaxError or CycleError.
package txerr

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

type ErrCode int

const (
	None ErrCode = iota
	// configuration errors
	EmptyUnion
	BoundWithConstraints
	InvalidBound
	BothVariances
	SingleConstraint
	// type errors
	NotReifiable
	NotSubscriptable
	TerminalAlias
	ArityMismatch
	DuplicateParameter
	NotInstantiable
	NotSubclassable
	InconsistentMRO
	InvalidTypeArgument
	NotAClass
	UnlistedParameters
	ConstraintViolation
	UnsupportedValue
	// forward references
	Syntax
	ResolutionCycle
	UndefinedName
	// named tuples
	InvalidField
)

// TypexError is implemented by all the errors of this package
type TypexError interface {
	error
	Code() ErrCode
}

// New attaches a stack trace to err.
// The result still matches err's concrete type through errors.As
func New[E TypexError](err E) error {
	return errors.WithStack(err)
}

// FormatWithCode renders err with its code, or err.Error() when it is not a TypexError
func FormatWithCode(err error) string {
	var typexErr TypexError
	if !errors.As(err, &typexErr) {
		return err.Error()
	}
	return fmt.Sprintf("(E%03d) %s", typexErr.Code(), typexErr.Error())
}

// ConfigurationError is returned when a construction request is structurally invalid
type ConfigurationError struct {
	ErrCode
	Msg string
}

func (e ConfigurationError) Error() string { return e.Msg }
func (e ConfigurationError) Code() ErrCode { return e.ErrCode }

// TypeError is returned on runtime-check usage errors: checks against non-reifiable forms,
// subscribing terminal aliases, instantiating abstract or special forms, bad declarations
type TypeError struct {
	ErrCode
	Msg string
}

func (e TypeError) Error() string { return e.Msg }
func (e TypeError) Code() ErrCode { return e.ErrCode }

// SyntaxError is returned when forward reference source text is not a well-formed type expression
type SyntaxError struct {
	Source string
	// Offset is the byte offset of the offending token in Source
	Offset int
	Msg    string
}

func (e SyntaxError) Code() ErrCode { return Syntax }
func (e SyntaxError) Error() string {
	return fmt.Sprintf("invalid syntax in forward reference %q at offset %d: %s", e.Source, e.Offset, e.Msg)
}

// CycleError is returned when a forward reference refers back to itself
// before any concrete type terminates the chain
type CycleError struct {
	Chain []string
}

func (e CycleError) Code() ErrCode { return ResolutionCycle }
func (e CycleError) Error() string {
	return "forward reference cycle: " + strings.Join(e.Chain, " -> ")
}

// Typef is shorthand for New(TypeError{...}) with a formatted message
func Typef(code ErrCode, format string, args ...any) error {
	return New(TypeError{ErrCode: code, Msg: fmt.Sprintf(format, args...)})
}

// Configf is shorthand for New(ConfigurationError{...}) with a formatted message
func Configf(code ErrCode, format string, args ...any) error {
	return New(ConfigurationError{ErrCode: code, Msg: fmt.Sprintf(format, args...)})
}

// IsTypeError reports whether err wraps a TypeError
func IsTypeError(err error) bool {
	var typeErr TypeError
	return errors.As(err, &typeErr)
}

// IsConfigurationError reports whether err wraps a ConfigurationError
func IsConfigurationError(err error) bool {
	var confErr ConfigurationError
	return errors.As(err, &confErr)
}

// IsSyntaxError reports whether err wraps a SyntaxError
func IsSyntaxError(err error) bool {
	var syntaxErr SyntaxError
	return errors.As(err, &syntaxErr)
}

// IsCycleError reports whether err wraps a CycleError
func IsCycleError(err error) bool {
	var cycleErr CycleError
	return errors.As(err, &cycleErr)
}

package types

import "fmt"

// Stage identifies the pipeline stage that produced an error.
type Stage uint8

const (
	StageLex Stage = iota
	StageParse
	StageEval
)

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case StageLex:
		return "lex"
	case StageParse:
		return "parse"
	case StageEval:
		return "eval"
	default:
		return "(unknown)"
	}
}

// ErrorCode represents a FEEL engine error code.
// Codes are grouped by stage: L0xxx lexer, P0xxx parser, E0xxx evaluator.
type ErrorCode string

const (
	// L0xxx: Lexer errors
	ErrInvalidCharacter ErrorCode = "L0101"
	ErrStringNotClosed  ErrorCode = "L0102"

	// P0xxx: Parser errors
	ErrSyntaxError            ErrorCode = "P0201"
	ErrExpectedToken          ErrorCode = "P0202"
	ErrEmptyExpression        ErrorCode = "P0203"
	ErrMixedArguments         ErrorCode = "P0204"
	ErrDuplicateNamedArgument ErrorCode = "P0205"
	ErrNestingTooDeep         ErrorCode = "P0206"

	// E0xxx: Evaluator errors
	ErrUnboundVariable      ErrorCode = "E0301"
	ErrTypeMismatch         ErrorCode = "E0302"
	ErrDivisionByZero       ErrorCode = "E0303"
	ErrUnknownFunction      ErrorCode = "E0304"
	ErrArityMismatch        ErrorCode = "E0305"
	ErrUnknownParameterName ErrorCode = "E0306"
	ErrTooDeep              ErrorCode = "E0307"
	ErrNumericOverflow      ErrorCode = "E0308"
)

// Stage returns the pipeline stage a code belongs to.
func (c ErrorCode) Stage() Stage {
	switch {
	case len(c) > 0 && c[0] == 'L':
		return StageLex
	case len(c) > 0 && c[0] == 'P':
		return StageParse
	default:
		return StageEval
	}
}

// Error represents a structured FEEL engine error.
type Error struct {
	Code     ErrorCode
	Message  string
	Position int
	Token    string
	Err      error
}

// NewError creates a new engine error.
func NewError(code ErrorCode, message string, position int) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Position: position,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Position >= 0 {
		return fmt.Sprintf("%s error %s at position %d: %s", e.Code.Stage(), e.Code, e.Position, e.Message)
	}
	return fmt.Sprintf("%s error %s: %s", e.Code.Stage(), e.Code, e.Message)
}

// Stage returns the pipeline stage that produced the error.
func (e *Error) Stage() Stage {
	return e.Code.Stage()
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithToken adds token information to the error.
func (e *Error) WithToken(token string) *Error {
	e.Token = token
	return e
}

// WithCause wraps another error.
func (e *Error) WithCause(err error) *Error {
	e.Err = err
	return e
}

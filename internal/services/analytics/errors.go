package analytics

import "fmt"

// Error codes for hard failures in the analytics engines. The boundary maps
// these to distinct client-facing messages, so the codes must stay apart even
// when two of them share a numeric root cause.
const (
	CodeInsufficientData  = "INSUFFICIENT_DATA"
	CodeNoVariation       = "NO_VARIATION"
	CodeZeroMovingRange   = "ZERO_MOVING_RANGE"
	CodeNoPeriods         = "NO_PERIODS"
	CodeUnsupportedPeriod = "UNSUPPORTED_PERIOD"
)

// Error is a typed analytics failure carrying a stable code.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches errors by code so sentinel comparison works across instances.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

func newError(code, format string, a ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, a...)}
}

// ErrInsufficientData builds an INSUFFICIENT_DATA error.
func ErrInsufficientData(format string, a ...interface{}) *Error {
	return newError(CodeInsufficientData, format, a...)
}

// ErrNoVariation builds a NO_VARIATION error. Distinct from ZERO_MOVING_RANGE:
// the fix here is "supply varied data", not "supply more data".
func ErrNoVariation(format string, a ...interface{}) *Error {
	return newError(CodeNoVariation, format, a...)
}

// ErrZeroMovingRange builds a ZERO_MOVING_RANGE error for the defensive path
// where the average moving range collapses after a transformation.
func ErrZeroMovingRange(format string, a ...interface{}) *Error {
	return newError(CodeZeroMovingRange, format, a...)
}

// ErrNoPeriods builds a NO_PERIODS error.
func ErrNoPeriods(format string, a ...interface{}) *Error {
	return newError(CodeNoPeriods, format, a...)
}

// ErrUnsupportedPeriod builds an UNSUPPORTED_PERIOD error.
func ErrUnsupportedPeriod(format string, a ...interface{}) *Error {
	return newError(CodeUnsupportedPeriod, format, a...)
}

package apperrors

import "fmt"

// Kind classifies a failure so that transport layers can map it to a status
// code deterministically. The set of kinds is stable.
type Kind int

const (
	KindUnknown Kind = iota
	// KindNotFound means a referenced user, request, group, chat or message is absent.
	KindNotFound
	// KindForbidden means the actor lacks the role or ownership the operation requires.
	KindForbidden
	// KindConflict means a duplicate edge, request or role, or capacity already satisfied.
	KindConflict
	// KindInvalidArgument means a self-reference, oversized field or unknown role name.
	KindInvalidArgument
	// KindAlreadyProcessed means a terminal-state request was acted upon again.
	KindAlreadyProcessed
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	case KindInvalidArgument:
		return "invalid_argument"
	case KindAlreadyProcessed:
		return "already_processed"
	default:
		return "unknown"
	}
}

// Error is a classified failure returned by the service layer.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) *Error {
	return newError(KindNotFound, format, args...)
}

func Forbidden(format string, args ...interface{}) *Error {
	return newError(KindForbidden, format, args...)
}

func Conflict(format string, args ...interface{}) *Error {
	return newError(KindConflict, format, args...)
}

func InvalidArgument(format string, args ...interface{}) *Error {
	return newError(KindInvalidArgument, format, args...)
}

func AlreadyProcessed(format string, args ...interface{}) *Error {
	return newError(KindAlreadyProcessed, format, args...)
}

// Wrap attaches an underlying cause while keeping the kind classification.
func Wrap(kind Kind, err error, format string, args ...interface{}) *Error {
	e := newError(kind, format, args...)
	e.Err = err
	return e
}

// KindOf extracts the classification from an error chain. Errors that were not
// produced by this package report KindUnknown.
func KindOf(err error) Kind {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Kind
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return KindUnknown
		}
		err = u.Unwrap()
	}
	return KindUnknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

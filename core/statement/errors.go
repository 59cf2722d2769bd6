package statement

import "errors"

var (
	// ErrEmptyPayload is returned when an INSERT or UPDATE has no data.
	ErrEmptyPayload = errors.New("statement: no data to write")

	// ErrMissingPredicate is returned when a DELETE has no WHERE conditions.
	// Unconditional deletes are refused.
	ErrMissingPredicate = errors.New("statement: delete requires a where condition")

	// ErrMalformedCondition is returned when a condition tuple has the wrong shape.
	ErrMalformedCondition = errors.New("statement: malformed condition")

	// ErrMissingBind is returned when SQL text references a placeholder that has no
	// bind value.
	ErrMissingBind = errors.New("statement: missing bind value")
)

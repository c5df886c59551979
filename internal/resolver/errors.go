package resolver

import "errors"

// ErrBrokenReference matches every *BrokenReferenceError via errors.Is.
var ErrBrokenReference = errors.New("broken reference")

// BrokenReferenceError reports a $ref that cannot be dereferenced within
// the document.
type BrokenReferenceError struct {
	// Ref is the pointer that failed
	Ref string
	// Circular is set when the reference chain loops or exceeds MaxDepth
	Circular bool
	// Message gives the failing segment or reason
	Message string
}

func (e *BrokenReferenceError) Error() string {
	msg := "broken reference"
	if e.Circular {
		msg = "circular reference"
	}
	if e.Ref != "" {
		msg += ": " + e.Ref
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

func (e *BrokenReferenceError) Is(target error) bool {
	return target == ErrBrokenReference
}

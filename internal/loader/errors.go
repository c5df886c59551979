package loader

import (
	"errors"
	"fmt"
)

// ErrInvalidDocument matches every *InvalidDocumentError via errors.Is.
var ErrInvalidDocument = errors.New("invalid document")

// InvalidDocumentError reports input that cannot be transformed: text
// that does not parse, or a document missing a required section.
type InvalidDocumentError struct {
	Source string
	Reason string
	Err    error
}

func (e *InvalidDocumentError) Error() string {
	msg := "invalid document"
	if e.Source != "" {
		msg += " " + e.Source
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *InvalidDocumentError) Is(target error) bool {
	return target == ErrInvalidDocument
}

func (e *InvalidDocumentError) Unwrap() error {
	return e.Err
}

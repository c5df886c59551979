package loader

import (
	"fmt"

	"github.com/pb33f/libopenapi"
	validator "github.com/pb33f/libopenapi-validator"
)

// ValidateOutput checks a generated document against the OpenAPI schema
// and returns one message per violation.
func ValidateOutput(data []byte) ([]string, error) {
	doc, err := libopenapi.NewDocument(data)
	if err != nil {
		return nil, fmt.Errorf("parsing generated document: %w", err)
	}

	v, errs := validator.NewValidator(doc)
	if len(errs) > 0 {
		return nil, fmt.Errorf("creating validator: %w", errs[0])
	}

	valid, results := v.ValidateDocument()
	if valid {
		return nil, nil
	}

	messages := make([]string, 0, len(results))
	for _, e := range results {
		msg := e.Message
		if e.Reason != "" {
			msg += ": " + e.Reason
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

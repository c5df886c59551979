package synth

import (
	"errors"
	"fmt"
)

// ErrUnsupportedParameterLocation matches every
// *UnsupportedParameterLocationError via errors.Is.
var ErrUnsupportedParameterLocation = errors.New("unsupported parameter location")

// UnsupportedParameterLocationError reports a parameter the gateway cannot
// bind (anything other than header, query or path).
type UnsupportedParameterLocationError struct {
	Path   string
	Method string
	Name   string
	In     string
}

func (e *UnsupportedParameterLocationError) Error() string {
	return fmt.Sprintf("unsupported parameter location %q for %q in %s %s", e.In, e.Name, e.Method, e.Path)
}

func (e *UnsupportedParameterLocationError) Is(target error) bool {
	return target == ErrUnsupportedParameterLocation
}

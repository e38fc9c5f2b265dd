package model

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by the evaluation and analytics layers.
var (
	ErrValidation = errors.New("validation failed")
	ErrGeneration = errors.New("text generation failed")
	ErrParse      = errors.New("generated response could not be parsed")
	ErrNoData     = errors.New("no data available")
	ErrNotFound   = errors.New("not found")
)

// ParseError reports a generator response that did not decode into the
// expected shape.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %v", ErrParse, e.Err)
}

// Unwrap lets errors.Is match both ErrParse and the underlying cause.
func (e *ParseError) Unwrap() []error {
	return []error{ErrParse, e.Err}
}

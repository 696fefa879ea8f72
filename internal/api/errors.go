package api

import "fmt"

// StatusError is returned when an upstream answers with a non-2xx status.
type StatusError struct {
	Source string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s api status %d", e.Source, e.Status)
}

// ParseError is returned when a 2xx response body is not valid JSON.
type ParseError struct {
	Source string
	Size   int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s api returned malformed json (%d bytes)", e.Source, e.Size)
}

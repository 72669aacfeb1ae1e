package domain

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyURL      = errors.New("url is required")
	ErrInvalidURL    = errors.New("invalid URL")
	ErrDuplicateURL  = errors.New("url already tracked")
	ErrMissingAPIKey = errors.New("extraction API key not set")
	ErrPriorityRange = fmt.Errorf("priority must be between %d and %d", MinPriority, MaxPriority)
)

// FetchError reports a failed page fetch. Either Status is set (the
// server answered with a non-success code) or Err is set (the request
// never completed).
type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %s: status %d", e.URL, e.Status)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ExtractionError reports a failed call to the extraction service.
// Status and Body carry the service's response for diagnostics; Err is
// set instead when the request failed at the transport level.
type ExtractionError struct {
	Status int
	Body   string
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extraction request: %v", e.Err)
	}
	return fmt.Sprintf("extraction service: status %d: %s", e.Status, e.Body)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// ParseError reports an extraction result that was not the expected
// JSON object. Raw holds the text the service returned.
type ParseError struct {
	Raw string
}

func (e *ParseError) Error() string {
	return "unparsable extraction result"
}

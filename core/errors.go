package core

import (
	"encoding/json"
	"fmt"
)

// ErrorKind classifies a ScrapeError.
type ErrorKind string

const (
	KindFetch      ErrorKind = "fetch"
	KindExtraction ErrorKind = "extraction"
)

// Message prefixes that tell request failures apart from scraping failures.
const (
	RequestFailedPrefix  = "Request failed: "
	ScrapingFailedPrefix = "Scraping failed: "
)

// ValidationError reports a missing or malformed URL. It is detected before
// any network call and maps to a client error.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// MarshalJSON encodes the error as {"error": "..."}.
func (e *ValidationError) MarshalJSON() ([]byte, error) {
	return json.Marshal(errorBody{Error: e.Message})
}

// ScrapeError is the error half of a scrape outcome. Message already carries
// the "Request failed: " or "Scraping failed: " prefix.
type ScrapeError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

// NewFetchError wraps a fetch failure.
func NewFetchError(cause error) *ScrapeError {
	return &ScrapeError{Kind: KindFetch, Message: RequestFailedPrefix + cause.Error(), Cause: cause}
}

// NewExtractionError wraps a parse or walk failure.
func NewExtractionError(cause error) *ScrapeError {
	return &ScrapeError{Kind: KindExtraction, Message: ScrapingFailedPrefix + cause.Error(), Cause: cause}
}

func (e *ScrapeError) Error() string {
	return e.Message
}

func (e *ScrapeError) Unwrap() error {
	return e.Cause
}

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// MarshalJSON encodes the error as {"error": "..."}. The kind is kept so a
// logged error can be told apart without parsing the message.
func (e *ScrapeError) MarshalJSON() ([]byte, error) {
	return json.Marshal(errorBody{Error: e.Message, Kind: string(e.Kind)})
}

// UnmarshalJSON restores an error written by MarshalJSON. The cause is lost.
func (e *ScrapeError) UnmarshalJSON(data []byte) error {
	var body errorBody
	if err := json.Unmarshal(data, &body); err != nil {
		return fmt.Errorf("decoding scrape error: %w", err)
	}
	e.Message = body.Error
	e.Kind = ErrorKind(body.Kind)
	return nil
}

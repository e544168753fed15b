package ai

import "errors"

var (
	// ErrMissingAPIKey signals an absent model credential. Fatal to the
	// current action, never retried.
	ErrMissingAPIKey = errors.New("gemini api key is not configured")

	// ErrEmptyResult signals that the model call produced no text.
	ErrEmptyResult = errors.New("model returned no text for this resume")

	// ErrNoData signals that the response parsed to an empty object.
	ErrNoData = errors.New("no data could be extracted from the resume")
)

// FormatError wraps a response that could not be parsed as the expected JSON
// object. The guidance points at the extraction template since that is what
// governs the output shape.
type FormatError struct {
	Cause error
}

func (e *FormatError) Error() string {
	return "model output is not a valid JSON object; check the extraction template in settings"
}

func (e *FormatError) Unwrap() error {
	return e.Cause
}

package detector

import "fmt"

// PredictionError represents a failed predict call: network failure, non-2xx
// status, or a response missing the contract fields.
type PredictionError struct {
	Message string
	Cause   error
}

func (e *PredictionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("prediction failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("prediction failed: %s", e.Message)
}

func (e *PredictionError) Unwrap() error {
	return e.Cause
}

// ExplanationError represents a failed explain call.
type ExplanationError struct {
	Message string
	Cause   error
}

func (e *ExplanationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("explanation failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("explanation failed: %s", e.Message)
}

func (e *ExplanationError) Unwrap() error {
	return e.Cause
}

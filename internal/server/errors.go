package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/scamjob-detector/internal/detector"
	"github.com/jonathan/scamjob-detector/internal/preview"
	"github.com/jonathan/scamjob-detector/internal/session"
)

// HTTPStatus returns the response status for an action failure. Remote
// failures map to gateway statuses; a missing cached prediction is a caller
// sequencing error, not a server fault.
func HTTPStatus(err error) int {
	var noPred *session.NoPredictionError
	if errors.As(err, &noPred) {
		return http.StatusConflict
	}

	var timeout *preview.TimeoutError
	if errors.As(err, &timeout) {
		return http.StatusGatewayTimeout
	}

	var blocked *preview.BlockedError
	if errors.As(err, &blocked) {
		return http.StatusBadGateway
	}

	var predErr *detector.PredictionError
	var expErr *detector.ExplanationError
	var prevErr *preview.Error
	if errors.As(err, &predErr) || errors.As(err, &expErr) || errors.As(err, &prevErr) {
		return http.StatusBadGateway
	}

	return http.StatusInternalServerError
}

// userMessage converts an action failure into the inline message shown on the
// page. Remote collaborator failures never crash the interaction.
func userMessage(err error) string {
	var noPred *session.NoPredictionError
	if errors.As(err, &noPred) {
		return "Run a prediction first, then request an explanation."
	}

	var timeout *preview.TimeoutError
	if errors.As(err, &timeout) {
		return "The preview request timed out. The site may be slow or unreachable."
	}

	var blocked *preview.BlockedError
	if errors.As(err, &blocked) {
		return "This site blocks automated preview requests."
	}

	var predErr *detector.PredictionError
	if errors.As(err, &predErr) {
		return "The prediction service is unavailable right now. Please try again."
	}

	var expErr *detector.ExplanationError
	if errors.As(err, &expErr) {
		return "The explanation service is unavailable right now. Please try again."
	}

	return "Something went wrong. Please try again."
}

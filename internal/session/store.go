// Package session scopes the cached prediction to one browser session. The
// explain call reuses the feature vector of the caller's own most recent
// successful prediction, never another session's and never a stale one.
package session

import (
	"context"
	"fmt"

	"github.com/jonathan/scamjob-detector/internal/detector"
)

// Store caches the last successful prediction per session ID. A failed
// predict call must never touch the stored value; only a success overwrites.
type Store interface {
	Put(ctx context.Context, sessionID string, result *detector.PredictionResult) error
	Get(ctx context.Context, sessionID string) (*detector.PredictionResult, error)
	Clear(ctx context.Context, sessionID string) error
}

// NoPredictionError indicates the session has no cached prediction yet.
// Callers must treat this as "explain not available", not as a remote failure.
type NoPredictionError struct {
	SessionID string
}

func (e *NoPredictionError) Error() string {
	return fmt.Sprintf("no cached prediction for session %s", e.SessionID)
}

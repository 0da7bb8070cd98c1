package models

import "errors"

var (
	// ErrPredictionNotReady means no valid cached prediction exists yet
	ErrPredictionNotReady = errors.New("prediction not ready")
	// ErrUpstreamDataUnavailable means team form could not be obtained
	ErrUpstreamDataUnavailable = errors.New("upstream data unavailable")
	// ErrReasoningFailed covers timeout, non-success status and unparsable answers
	ErrReasoningFailed = errors.New("reasoning service failure")
	// ErrCacheWrite means a prediction could not be stored
	ErrCacheWrite = errors.New("cache write failure")
	// ErrMatchNotFound means the match store has no such fixture
	ErrMatchNotFound = errors.New("match not found")
)

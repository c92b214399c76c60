package domain

import (
	"context"
	"errors"
	"time"
)

// Prompt is the pair of messages sent for one chat-completion exchange
type Prompt struct {
	System string `json:"system"`
	User   string `json:"user"`
}

// Recommendation is the outcome of a completed request. Product is nil when the
// answer names no known record; the answer text is still usable for display.
type Recommendation struct {
	Answer          string   `json:"answer"`
	RecommendedName string   `json:"recommendedName,omitempty"`
	Product         *Product `json:"product,omitempty"`
}

// Resolved reports whether the recommendation was matched to an input product
func (r *Recommendation) Resolved() bool {
	return r != nil && r.Product != nil
}

// RecommendationStatus is the phase of a recommendation request
type RecommendationStatus string

const (
	StatusIdle      RecommendationStatus = "idle"
	StatusPending   RecommendationStatus = "pending"
	StatusSucceeded RecommendationStatus = "succeeded"
	StatusFailed    RecommendationStatus = "failed"
)

// FailureKind tags why a request ended in StatusFailed
type FailureKind string

const (
	FailureTransport      FailureKind = "transport"
	FailureEnvelope       FailureKind = "envelope"
	FailureCanceled       FailureKind = "canceled"
	FailureInvalidRequest FailureKind = "invalid_request"
	FailureRateLimited    FailureKind = "rate_limited"
)

// RecommendationState is one step of idle -> pending -> succeeded | failed
type RecommendationState struct {
	Status  RecommendationStatus `json:"status"`
	Result  *Recommendation      `json:"result,omitempty"`
	Failure FailureKind          `json:"failure,omitempty"`
	Error   string               `json:"error,omitempty"`
}

// IdleState is the state before any request was issued
func IdleState() RecommendationState {
	return RecommendationState{Status: StatusIdle}
}

// PendingState is the state while the request is in flight
func PendingState() RecommendationState {
	return RecommendationState{Status: StatusPending}
}

// SucceededState wraps a completed recommendation
func SucceededState(rec *Recommendation) RecommendationState {
	return RecommendationState{Status: StatusSucceeded, Result: rec}
}

// FailedState converts a request error into a terminal state
func FailedState(err error) RecommendationState {
	return RecommendationState{
		Status:  StatusFailed,
		Failure: ClassifyFailure(err),
		Error:   err.Error(),
	}
}

// Terminal reports whether no further transitions will follow
func (s RecommendationState) Terminal() bool {
	return s.Status == StatusSucceeded || s.Status == StatusFailed
}

// ClassifyFailure maps a request error onto its FailureKind
func ClassifyFailure(err error) FailureKind {
	switch {
	case errors.Is(err, ErrRecommendationCanceled),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return FailureCanceled
	case errors.Is(err, ErrRateLimited):
		return FailureRateLimited
	case errors.Is(err, ErrRecommendationEnvelope):
		return FailureEnvelope
	case errors.Is(err, ErrTooFewProducts),
		errors.Is(err, ErrInvalidProduct),
		errors.Is(err, ErrInvalidRequest),
		errors.Is(err, ErrProductNotFound):
		return FailureInvalidRequest
	default:
		return FailureTransport
	}
}

// RecommendationJob is an asynchronous request tracked by id
type RecommendationJob struct {
	ID           string              `json:"id"`
	State        RecommendationState `json:"state"`
	ProductCount int                 `json:"productCount"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

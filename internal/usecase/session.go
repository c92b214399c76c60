package usecase

import (
	"context"

	"github.com/shoppingai/backend/internal/domain"
)

// Session is one in-flight recommendation request.
//
// Updates delivers PendingState first, then exactly one terminal state, and is
// then closed. The channel is buffered for both so the request goroutine never
// blocks on a consumer that went away.
type Session struct {
	updates chan domain.RecommendationState
	cancel  context.CancelFunc
}

func newSession(cancel context.CancelFunc) *Session {
	s := &Session{
		updates: make(chan domain.RecommendationState, 2),
		cancel:  cancel,
	}
	s.updates <- domain.PendingState()
	return s
}

func (s *Session) finish(state domain.RecommendationState) {
	s.updates <- state
	close(s.updates)
}

// Updates returns the state channel of the session
func (s *Session) Updates() <-chan domain.RecommendationState {
	return s.updates
}

// Cancel aborts the request; the terminal state becomes failed/canceled unless
// the request had already finished
func (s *Session) Cancel() {
	s.cancel()
}

// Wait drains the session and returns its terminal state
func (s *Session) Wait() domain.RecommendationState {
	last := domain.IdleState()
	for state := range s.updates {
		last = state
	}
	return last
}

package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/shoppingai/backend/internal/domain"
)

// MockCompletionClient is a mock implementation of domain.ChatCompletionClient
type MockCompletionClient struct {
	mu      sync.Mutex
	answer  string
	err     error
	block   bool
	calls   int
	prompts []domain.Prompt
	started chan struct{}
}

func NewMockCompletionClient(answer string) *MockCompletionClient {
	return &MockCompletionClient{
		answer:  answer,
		started: make(chan struct{}, 16),
	}
}

// NewBlockingCompletionClient returns a client that only returns once its context is done
func NewBlockingCompletionClient() *MockCompletionClient {
	m := NewMockCompletionClient("")
	m.block = true
	return m
}

func (m *MockCompletionClient) Complete(ctx context.Context, prompt domain.Prompt) (string, error) {
	m.mu.Lock()
	m.calls++
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()
	m.started <- struct{}{}

	if m.block {
		<-ctx.Done()
		return "", fmt.Errorf("%w: %v", domain.ErrRecommendationCanceled, ctx.Err())
	}
	if m.err != nil {
		return "", m.err
	}
	return m.answer, nil
}

func (m *MockCompletionClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func answerFor(name string) string {
	return "살까말까?\n추천– [" + name + "]을 구매하는 것을 추천합니다.\n1. 가격\n2. 용도\n3. 특징"
}

package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations.
// Values are opaque serialized bytes so memory and redis backends behave the same.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Exists(ctx context.Context, key string) (bool, error)
}

// ChatCompletionClient sends one system+user exchange to a chat-completion service
// and returns the trimmed content of the first choice
type ChatCompletionClient interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// ProductRepository holds the session's product list in insertion order
type ProductRepository interface {
	List(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, id string) (*Product, error)
	Save(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id string) error
}

package usecase

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/shoppingai/backend/internal/domain"
	"github.com/shoppingai/backend/internal/infrastructure/metrics"
)

// MinProductsPerRequest is the smallest batch that makes a ranking meaningful
const MinProductsPerRequest = 2

// RecommendationService runs the prompt -> completion -> parse -> resolve pipeline
type RecommendationService struct {
	client domain.ChatCompletionClient
	logger *zap.Logger
}

// NewRecommendationService creates a recommendation service
func NewRecommendationService(client domain.ChatCompletionClient, logger *zap.Logger) *RecommendationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecommendationService{
		client: client,
		logger: logger.Named("recommendation"),
	}
}

// Validate checks a product snapshot before any network call is made
func (s *RecommendationService) Validate(products []domain.Product) error {
	if len(products) < MinProductsPerRequest {
		return fmt.Errorf("%w: got %d", domain.ErrTooFewProducts, len(products))
	}
	for i := range products {
		if err := products[i].Validate(); err != nil {
			return fmt.Errorf("product %d: %w", i+1, err)
		}
	}
	return nil
}

// Recommend issues exactly one completion request for the products and resolves
// the answer against them. An answer that names no known product is still a
// success; the returned Recommendation is simply unresolved.
func (s *RecommendationService) Recommend(ctx context.Context, products []domain.Product) (*domain.Recommendation, error) {
	if err := s.Validate(products); err != nil {
		return nil, err
	}

	if dups := duplicateNames(products); len(dups) > 0 {
		s.logger.Warn("duplicate product names, resolution picks the first match",
			zap.Strings("names", dups))
	}

	start := time.Now()
	prompt := BuildPrompt(products)

	answer, err := s.client.Complete(ctx, prompt)
	metrics.RecommendationDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		kind := domain.ClassifyFailure(err)
		metrics.RecommendationsTotal.WithLabelValues(string(kind)).Inc()
		s.logger.Error("recommendation request failed",
			zap.Int("products", len(products)),
			zap.String("failure", string(kind)),
			zap.Error(err))
		return nil, err
	}

	rec := &domain.Recommendation{Answer: answer}

	name, ok := ExtractRecommendedName(answer)
	if !ok {
		metrics.RecommendationsTotal.WithLabelValues("unresolved").Inc()
		s.logger.Warn("answer has no recommendation line", zap.Int("answerLength", len(answer)))
		return rec, nil
	}
	rec.RecommendedName = name

	product, ok := ResolveProduct(name, products)
	if !ok {
		metrics.RecommendationsTotal.WithLabelValues("unresolved").Inc()
		s.logger.Warn("recommended name matches no product", zap.String("name", name))
		return rec, nil
	}
	rec.Product = product

	metrics.RecommendationsTotal.WithLabelValues("resolved").Inc()
	s.logger.Info("recommendation resolved",
		zap.String("productId", product.ID),
		zap.String("name", product.Name),
		zap.Duration("elapsed", time.Since(start)))

	return rec, nil
}

// PurchaseURL returns the openable link of the recommended product
func (s *RecommendationService) PurchaseURL(rec *domain.Recommendation) (*url.URL, error) {
	if !rec.Resolved() {
		return nil, domain.ErrRecommendationUnresolved
	}
	return NormalizePurchaseURL(rec.Product.URL)
}

// Start runs Recommend off the caller's goroutine and returns the session that
// reports its progress
func (s *RecommendationService) Start(ctx context.Context, products []domain.Product) *Session {
	ctx, cancel := context.WithCancel(ctx)
	sess := newSession(cancel)

	go func() {
		defer cancel()
		rec, err := s.Recommend(ctx, products)
		if err != nil {
			sess.finish(domain.FailedState(err))
			return
		}
		sess.finish(domain.SucceededState(rec))
	}()

	return sess
}

// duplicateNames lists trimmed names shared by more than one product
func duplicateNames(products []domain.Product) []string {
	seen := make(map[string]int, len(products))
	var dups []string
	for _, p := range products {
		name := strings.TrimSpace(p.Name)
		seen[name]++
		if seen[name] == 2 {
			dups = append(dups, name)
		}
	}
	return dups
}

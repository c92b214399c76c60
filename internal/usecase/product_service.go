package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shoppingai/backend/internal/domain"
)

// ProductService manages the session's candidate products
type ProductService struct {
	repo domain.ProductRepository
	now  func() time.Time
}

// NewProductService creates a product service backed by repo
func NewProductService(repo domain.ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
		now:  time.Now,
	}
}

// Create validates the input and appends a new product
func (s *ProductService) Create(ctx context.Context, in domain.ProductInput) (*domain.Product, error) {
	product := &domain.Product{
		ID:        uuid.NewString(),
		CreatedAt: s.now(),
	}
	product.Apply(in)

	if err := product.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, product); err != nil {
		return nil, fmt.Errorf("save product: %w", err)
	}
	return product, nil
}

// List returns all products in the order they were added
func (s *ProductService) List(ctx context.Context) ([]domain.Product, error) {
	return s.repo.List(ctx)
}

// Get returns one product
func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.Get(ctx, id)
}

// Update replaces the editable attributes of a product
func (s *ProductService) Update(ctx context.Context, id string, in domain.ProductInput) (*domain.Product, error) {
	product, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	product.Apply(in)

	if err := product.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, product); err != nil {
		return nil, fmt.Errorf("save product: %w", err)
	}
	return product, nil
}

// Delete removes a product
func (s *ProductService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Snapshot returns read-only copies of the given products in the given order.
// An empty id list selects the whole catalog.
func (s *ProductService) Snapshot(ctx context.Context, ids []string) ([]domain.Product, error) {
	if len(ids) == 0 {
		return s.repo.List(ctx)
	}

	out := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		p, err := s.repo.Get(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", err, id)
		}
		out = append(out, *p)
	}
	return out, nil
}

// PurchaseURL normalizes the url of one catalog product
func (s *ProductService) PurchaseURL(ctx context.Context, id string) (string, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return "", err
	}
	u, err := NormalizePurchaseURL(p.URL)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

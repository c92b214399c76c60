package domain

import (
	"fmt"
	"strings"
	"time"
)

// Desire score bounds
const (
	MinPurchaseDesire = 0
	MaxPurchaseDesire = 10
)

// Product is a user-entered candidate purchase
type Product struct {
	ID             string    `json:"id" yaml:"id"`
	Name           string    `json:"name" yaml:"name"`
	Price          string    `json:"price" yaml:"price"`
	PurchaseDesire int       `json:"purchaseDesire" yaml:"purchaseDesire"`
	UsageContext   string    `json:"usageContext" yaml:"usageContext"`
	Features       string    `json:"features" yaml:"features"`
	Category       string    `json:"category" yaml:"category"`
	URL            string    `json:"url" yaml:"url"`
	Image          []byte    `json:"image,omitempty" yaml:"-"`
	CreatedAt      time.Time `json:"createdAt" yaml:"-"`
}

// ProductInput carries the editable attributes of a product
type ProductInput struct {
	Name           string `json:"name" binding:"required"`
	Price          string `json:"price"`
	PurchaseDesire int    `json:"purchaseDesire" binding:"min=0,max=10"`
	UsageContext   string `json:"usageContext"`
	Features       string `json:"features"`
	Category       string `json:"category"`
	URL            string `json:"url"`
	Image          []byte `json:"image,omitempty"`
}

// Validate checks the invariants every product handed to the recommender must hold
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidProduct)
	}
	if p.PurchaseDesire < MinPurchaseDesire || p.PurchaseDesire > MaxPurchaseDesire {
		return fmt.Errorf("%w: purchase desire %d out of range [%d,%d]",
			ErrInvalidProduct, p.PurchaseDesire, MinPurchaseDesire, MaxPurchaseDesire)
	}
	return nil
}

// Apply copies the input attributes onto the product, keeping its identity
func (p *Product) Apply(in ProductInput) {
	p.Name = strings.TrimSpace(in.Name)
	p.Price = in.Price
	p.PurchaseDesire = in.PurchaseDesire
	p.UsageContext = in.UsageContext
	p.Features = in.Features
	p.Category = in.Category
	p.URL = in.URL
	p.Image = in.Image
}

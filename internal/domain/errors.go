package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrInvalidProduct is returned when a product record fails validation
	ErrInvalidProduct = errors.New("invalid product")

	// ErrTooFewProducts is returned when a recommendation request has fewer than two products
	ErrTooFewProducts = errors.New("at least two products are required for a recommendation")

	// ErrProductNotFound is returned when a product id is not in the catalog
	ErrProductNotFound = errors.New("product not found")

	// ErrJobNotFound is returned when a recommendation job id is unknown or expired
	ErrJobNotFound = errors.New("recommendation job not found")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when cache service is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrRecommendationTransport covers network errors and non-2xx responses from the completion API
	ErrRecommendationTransport = errors.New("recommendation request failed")

	// ErrRecommendationEnvelope is returned when the completion response cannot be decoded
	// or carries no choices[0].message.content
	ErrRecommendationEnvelope = errors.New("malformed recommendation response")

	// ErrRecommendationCanceled is returned when the request was canceled by its owner
	ErrRecommendationCanceled = errors.New("recommendation request canceled")

	// ErrRecommendationUnresolved is returned when the answer names no known product
	ErrRecommendationUnresolved = errors.New("cannot identify recommended product")

	// ErrInvalidURL is returned when no valid purchase URL can be built from a product URL
	ErrInvalidURL = errors.New("invalid URL")
)

package http

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shoppingai/backend/internal/domain"
	"github.com/shoppingai/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	products    *usecase.ProductService
	recommender *usecase.RecommendationService
	jobs        *usecase.JobTracker
	logger      *zap.Logger
}

// NewHandler creates a new HTTP handler. A nil recommender or job tracker
// makes the matching endpoints answer 501.
func NewHandler(products *usecase.ProductService, recommender *usecase.RecommendationService, jobs *usecase.JobTracker, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		products:    products,
		recommender: recommender,
		jobs:        jobs,
		logger:      logger.Named("http"),
	}
}

// RecommendationRequest selects the products to rank: catalog ids, inline
// products, or (both empty) the whole catalog
type RecommendationRequest struct {
	ProductIDs []string         `json:"productIds"`
	Products   []domain.Product `json:"products"`
}

// RecommendationResponse is the body of a finished synchronous recommendation
type RecommendationResponse struct {
	Status          domain.RecommendationStatus `json:"status"`
	Answer          string                      `json:"answer,omitempty"`
	RecommendedName string                      `json:"recommendedName,omitempty"`
	Product         *domain.Product             `json:"product,omitempty"`
	PurchaseURL     string                      `json:"purchaseUrl,omitempty"`
	PurchaseError   string                      `json:"purchaseError,omitempty"`
	Failure         domain.FailureKind          `json:"failure,omitempty"`
	Error           string                      `json:"error,omitempty"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "shoppingai-backend",
		"version": "1.0.0",
	})
}

// CreateProduct handles POST /products
func (h *Handler) CreateProduct(c *gin.Context) {
	var input domain.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	product, err := h.products.Create(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// ListProducts handles GET /products
func (h *Handler) ListProducts(c *gin.Context) {
	products, err := h.products.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

// GetProduct handles GET /products/:id
func (h *Handler) GetProduct(c *gin.Context) {
	product, err := h.products.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// UpdateProduct handles PUT /products/:id
func (h *Handler) UpdateProduct(c *gin.Context) {
	var input domain.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	product, err := h.products.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// DeleteProduct handles DELETE /products/:id
func (h *Handler) DeleteProduct(c *gin.Context) {
	if err := h.products.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ProductPurchaseURL handles GET /products/:id/purchase-url
func (h *Handler) ProductPurchaseURL(c *gin.Context) {
	link, err := h.products.PurchaseURL(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": link})
}

// Recommend handles POST /recommendations. The request blocks until the
// completion API answers; a client disconnect cancels it.
func (h *Handler) Recommend(c *gin.Context) {
	if h.recommender == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "Recommendation service not configured"})
		return
	}

	products, ok := h.bindSnapshot(c)
	if !ok {
		return
	}

	rec, err := h.recommender.Recommend(c.Request.Context(), products)
	if err != nil {
		c.JSON(statusFor(err), RecommendationResponse{
			Status:  domain.StatusFailed,
			Failure: domain.ClassifyFailure(err),
			Error:   err.Error(),
		})
		return
	}

	resp := RecommendationResponse{
		Status:          domain.StatusSucceeded,
		Answer:          rec.Answer,
		RecommendedName: rec.RecommendedName,
		Product:         rec.Product,
	}
	if link, err := h.recommender.PurchaseURL(rec); err != nil {
		resp.PurchaseError = err.Error()
	} else {
		resp.PurchaseURL = link.String()
	}

	c.JSON(http.StatusOK, resp)
}

// SubmitRecommendationJob handles POST /recommendations/jobs
func (h *Handler) SubmitRecommendationJob(c *gin.Context) {
	if h.jobs == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "Recommendation service not configured"})
		return
	}

	products, ok := h.bindSnapshot(c)
	if !ok {
		return
	}

	job, err := h.jobs.Submit(c.Request.Context(), products)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Header("Location", "/api/v1/recommendations/jobs/"+job.ID)
	c.JSON(http.StatusAccepted, job)
}

// GetRecommendationJob handles GET /recommendations/jobs/:id
func (h *Handler) GetRecommendationJob(c *gin.Context) {
	if h.jobs == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "Recommendation service not configured"})
		return
	}

	job, err := h.jobs.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// CancelRecommendationJob handles DELETE /recommendations/jobs/:id
func (h *Handler) CancelRecommendationJob(c *gin.Context) {
	if h.jobs == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "Recommendation service not configured"})
		return
	}

	job, err := h.jobs.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// bindSnapshot decodes a RecommendationRequest into the ordered products to
// rank. A missing or empty body selects the whole catalog.
func (h *Handler) bindSnapshot(c *gin.Context) ([]domain.Product, bool) {
	var req RecommendationRequest
	if c.Request.Body != nil && c.Request.Body != http.NoBody {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
			return nil, false
		}
	}

	if len(req.Products) > 0 {
		if len(req.ProductIDs) > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: use either productIds or products"})
			return nil, false
		}
		return req.Products, true
	}

	products, err := h.products.Snapshot(c.Request.Context(), req.ProductIDs)
	if err != nil {
		h.respondError(c, err)
		return nil, false
	}
	return products, true
}

func (h *Handler) respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Int("status", status),
			zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// statusFor maps domain errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrProductNotFound), errors.Is(err, domain.ErrJobNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrTooFewProducts),
		errors.Is(err, domain.ErrInvalidProduct),
		errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrRecommendationUnresolved), errors.Is(err, domain.ErrInvalidURL):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrRecommendationCanceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, domain.ErrRecommendationTransport), errors.Is(err, domain.ErrRecommendationEnvelope):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrCacheUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

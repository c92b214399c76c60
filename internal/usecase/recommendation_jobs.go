package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shoppingai/backend/internal/domain"
	"github.com/shoppingai/backend/internal/infrastructure/metrics"
)

// JobTrackerConfig holds configuration for the job tracker
type JobTrackerConfig struct {
	TTL time.Duration
}

// JobTracker runs recommendation sessions in the background and stores their
// states in the cache so they can be polled by id. Each job has exactly one
// writer: the follower goroutine draining its session.
type JobTracker struct {
	service *RecommendationService
	cache   domain.CacheRepository
	ttl     time.Duration
	logger  *zap.Logger
	now     func() time.Time

	mutex    sync.Mutex
	sessions map[string]*Session
	wg       sync.WaitGroup
	base     context.Context
	stop     context.CancelFunc
}

// NewJobTracker creates a job tracker
func NewJobTracker(service *RecommendationService, cache domain.CacheRepository, config JobTrackerConfig, logger *zap.Logger) *JobTracker {
	ttl := config.TTL
	if ttl == 0 {
		ttl = time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	base, stop := context.WithCancel(context.Background())

	return &JobTracker{
		service:  service,
		cache:    cache,
		ttl:      ttl,
		logger:   logger.Named("jobs"),
		now:      time.Now,
		sessions: make(map[string]*Session),
		base:     base,
		stop:     stop,
	}
}

// Submit validates the products and starts a background recommendation.
// The request outlives ctx; use Cancel to abort it.
func (t *JobTracker) Submit(ctx context.Context, products []domain.Product) (*domain.RecommendationJob, error) {
	if err := t.service.Validate(products); err != nil {
		return nil, err
	}

	now := t.now()
	job := &domain.RecommendationJob{
		ID:           uuid.NewString(),
		State:        domain.PendingState(),
		ProductCount: len(products),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := t.save(ctx, job); err != nil {
		return nil, err
	}

	sess := t.service.Start(t.base, products)

	t.mutex.Lock()
	t.sessions[job.ID] = sess
	t.mutex.Unlock()

	metrics.RecommendationJobsActive.Inc()
	t.wg.Add(1)
	go t.follow(*job, sess)

	t.logger.Info("recommendation job submitted",
		zap.String("jobId", job.ID),
		zap.Int("products", len(products)))

	return job, nil
}

// follow is the only writer of a job's state after submission
func (t *JobTracker) follow(job domain.RecommendationJob, sess *Session) {
	defer t.wg.Done()
	defer metrics.RecommendationJobsActive.Dec()

	for state := range sess.Updates() {
		job.State = state
		job.UpdatedAt = t.now()
		if err := t.save(context.Background(), &job); err != nil {
			t.logger.Error("failed to store job state",
				zap.String("jobId", job.ID),
				zap.String("status", string(state.Status)),
				zap.Error(err))
		}
	}

	t.mutex.Lock()
	delete(t.sessions, job.ID)
	t.mutex.Unlock()

	t.logger.Info("recommendation job finished",
		zap.String("jobId", job.ID),
		zap.String("status", string(job.State.Status)),
		zap.String("failure", string(job.State.Failure)))
}

// Get returns the latest stored state of a job
func (t *JobTracker) Get(ctx context.Context, id string) (*domain.RecommendationJob, error) {
	data, err := t.cache.Get(ctx, jobKey(id))
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return nil, domain.ErrJobNotFound
		}
		return nil, err
	}

	var job domain.RecommendationJob
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("decode job %s: %w", id, err)
	}
	return &job, nil
}

// Cancel aborts a running job. Canceling a finished job is a no-op.
func (t *JobTracker) Cancel(ctx context.Context, id string) (*domain.RecommendationJob, error) {
	t.mutex.Lock()
	sess, running := t.sessions[id]
	t.mutex.Unlock()

	if !running {
		exists, err := t.cache.Exists(ctx, jobKey(id))
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, domain.ErrJobNotFound
		}
		return t.Get(ctx, id)
	}

	sess.Cancel()
	t.logger.Info("recommendation job cancel requested", zap.String("jobId", id))

	return t.Get(ctx, id)
}

// Wait blocks until every follower goroutine has stored its terminal state
func (t *JobTracker) Wait() {
	t.wg.Wait()
}

// Close cancels all running jobs and waits for their terminal states to be stored
func (t *JobTracker) Close() {
	t.stop()
	t.wg.Wait()
}

func (t *JobTracker) save(ctx context.Context, job *domain.RecommendationJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode job %s: %w", job.ID, err)
	}
	return t.cache.Set(ctx, jobKey(job.ID), data, t.ttl)
}

func jobKey(id string) string {
	return "recommendation:job:" + id
}

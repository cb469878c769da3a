package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kuesioner-tools/survey_backend/internal/models"
	"github.com/kuesioner-tools/survey_backend/internal/repository"
)

// LockService coordinates short-lived advisory locks around critical flow operations
// #INTEGRATION_POINT: Used by the flow service to serialize final submissions
type LockService interface {
	// Acquire takes the lock for the given key or fails with ErrLockNotAcquired.
	// Expired locks never block acquisition.
	Acquire(ctx context.Context, lockKey string, responseID primitive.ObjectID, op models.LockOperationType, timeout time.Duration) (*models.SurveyLock, error)

	// Release drops the lock. Releasing an already-released lock is a no-op.
	Release(ctx context.Context, lockKey string) error

	// GetQueuePosition reports the 1-based position of a key among active locks,
	// or 0 when the key holds no lock.
	GetQueuePosition(ctx context.Context, lockKey string) (int, error)

	// WithLock runs fn while holding the lock, releasing it afterwards
	WithLock(ctx context.Context, lockKey string, responseID primitive.ObjectID, op models.LockOperationType, fn func(ctx context.Context) error) error
}

// lockService implements LockService
type lockService struct {
	lockRepo repository.LockRepository
	timeout  time.Duration
}

// NewLockService creates a new lock service. A non-positive timeout falls back
// to the model default.
func NewLockService(lockRepo repository.LockRepository, timeout time.Duration) LockService {
	if timeout <= 0 {
		timeout = models.DefaultLockTimeout
	}
	return &lockService{
		lockRepo: lockRepo,
		timeout:  timeout,
	}
}

// Acquire takes the lock for the given key
// #BUSINESS_RULE: Stale locks are swept before inserting so a crashed holder
// blocks at most one timeout interval
func (s *lockService) Acquire(ctx context.Context, lockKey string, responseID primitive.ObjectID, op models.LockOperationType, timeout time.Duration) (*models.SurveyLock, error) {
	if timeout <= 0 {
		timeout = s.timeout
	}

	now := time.Now().UTC()
	if _, err := s.lockRepo.DeleteExpired(ctx, now); err != nil {
		return nil, fmt.Errorf("failed to sweep expired locks: %w", err)
	}

	lock := &models.SurveyLock{
		LockKey:       lockKey,
		ResponseID:    responseID,
		OperationType: op,
		AcquiredAt:    now,
		ExpiresAt:     now.Add(timeout),
	}

	if err := s.lockRepo.Insert(ctx, lock); err != nil {
		if errors.Is(err, models.ErrLockNotAcquired) {
			return nil, models.ErrLockNotAcquired
		}
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}

	return lock, nil
}

// Release drops the lock
func (s *lockService) Release(ctx context.Context, lockKey string) error {
	if err := s.lockRepo.DeleteByKey(ctx, lockKey); err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	return nil
}

// GetQueuePosition reports the 1-based position of a key among active locks
func (s *lockService) GetQueuePosition(ctx context.Context, lockKey string) (int, error) {
	locks, err := s.lockRepo.ListActive(ctx, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to list active locks: %w", err)
	}
	for i, lock := range locks {
		if lock.LockKey == lockKey {
			return i + 1, nil
		}
	}
	return 0, nil
}

// WithLock runs fn while holding the lock
func (s *lockService) WithLock(ctx context.Context, lockKey string, responseID primitive.ObjectID, op models.LockOperationType, fn func(ctx context.Context) error) error {
	lock, err := s.Acquire(ctx, lockKey, responseID, op, s.timeout)
	if err != nil {
		return err
	}
	defer func() {
		_ = s.Release(context.WithoutCancel(ctx), lock.LockKey)
	}()
	return fn(ctx)
}

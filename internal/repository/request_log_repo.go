package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jlin/promptfinder/internal/domain"
	"gorm.io/gorm"
)

// RequestLogRepository persists the rate limiter's event log.
type RequestLogRepository struct {
	db *gorm.DB
}

// NewRequestLogRepository creates a new RequestLogRepository.
func NewRequestLogRepository(db *gorm.DB) *RequestLogRepository {
	return &RequestLogRepository{db: db}
}

// Record inserts one request event at the given timestamp.
func (r *RequestLogRepository) Record(ctx context.Context, userID, endpoint string, at time.Time) error {
	return r.db.WithContext(ctx).Create(&domain.RequestLog{
		ID:        uuid.New().String(),
		UserID:    userID,
		Endpoint:  endpoint,
		CreatedAt: at,
	}).Error
}

// CountSince counts events for (user, endpoint) in the closed-open interval
// [since, now).
func (r *RequestLogRepository) CountSince(ctx context.Context, userID, endpoint string, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.RequestLog{}).
		Where("user_id = ? AND endpoint = ? AND created_at >= ?", userID, endpoint, since).
		Count(&count).Error
	return count, err
}

// OldestSince returns the timestamp of the oldest event in [since, now).
// The boolean is false when no such event exists.
func (r *RequestLogRepository) OldestSince(ctx context.Context, userID, endpoint string, since time.Time) (time.Time, bool, error) {
	var row domain.RequestLog
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND endpoint = ? AND created_at >= ?", userID, endpoint, since).
		Order("created_at ASC").
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, err
	}
	return row.CreatedAt, true, nil
}

// DeleteBefore prunes events older than the cutoff across all users.
func (r *RequestLogRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&domain.RequestLog{})
	return result.RowsAffected, result.Error
}

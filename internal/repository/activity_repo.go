package repository

import (
	"context"

	"makiti/internal/model"

	"gorm.io/gorm"
)

// ActivityFilter narrows a fetch query. All predicates are ANDed.
type ActivityFilter struct {
	ActionType string
	UserID     string
	StartDate  string // inclusive, RFC3339 or YYYY-MM-DD
	EndDate    string // inclusive
	Page       int
	Limit      int
}

// ExportLimit caps export queries. Rows beyond the cap are silently dropped.
const ExportLimit = 10000

type ActivityLogRepository interface {
	Create(ctx context.Context, entry *model.ActivityLog) error
	List(ctx context.Context, filter ActivityFilter) ([]model.ActivityLog, int64, error)
	ListForExport(ctx context.Context, startDate, endDate string) ([]model.ActivityLog, error)
}

type activityLogRepo struct{ db *gorm.DB }

func NewActivityLogRepository(db *gorm.DB) ActivityLogRepository { return &activityLogRepo{db: db} }

func (r *activityLogRepo) Create(ctx context.Context, entry *model.ActivityLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *activityLogRepo) List(ctx context.Context, filter ActivityFilter) ([]model.ActivityLog, int64, error) {
	var logs []model.ActivityLog
	var total int64

	q := r.db.WithContext(ctx).Model(&model.ActivityLog{})
	if filter.ActionType != "" {
		q = q.Where("action_type = ?", filter.ActionType)
	}
	if filter.UserID != "" {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.StartDate != "" {
		q = q.Where("created_at >= ?", filter.StartDate)
	}
	if filter.EndDate != "" {
		q = q.Where("created_at <= ?", filter.EndDate)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("created_at DESC").Offset(offset).Limit(filter.Limit).Find(&logs).Error
	return logs, total, err
}

func (r *activityLogRepo) ListForExport(ctx context.Context, startDate, endDate string) ([]model.ActivityLog, error) {
	var logs []model.ActivityLog
	q := r.db.WithContext(ctx).Model(&model.ActivityLog{})
	if startDate != "" {
		q = q.Where("created_at >= ?", startDate)
	}
	if endDate != "" {
		q = q.Where("created_at <= ?", endDate)
	}
	err := q.Order("created_at DESC").Limit(ExportLimit).Find(&logs).Error
	return logs, err
}

package repository

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"rollbarreporter/src/database"
	"rollbarreporter/src/model"
)

// UndeliveredReportRepository handles persistence of reports waiting to be
// sent again.
type UndeliveredReportRepository struct {
	db *gorm.DB
}

// NewUndeliveredReportRepository creates a repository on the outbox database.
func NewUndeliveredReportRepository() *UndeliveredReportRepository {
	return &UndeliveredReportRepository{db: database.OutboxDB}
}

// WithDB allows overriding the underlying *gorm.DB instance.
func (r *UndeliveredReportRepository) WithDB(db *gorm.DB) *UndeliveredReportRepository {
	return &UndeliveredReportRepository{db: db}
}

// Create persists a report that could not be delivered.
func (r *UndeliveredReportRepository) Create(ctx context.Context, report *model.UndeliveredReport) error {
	logger.WithFields(map[string]interface{}{
		"repo":        "UndeliveredReportRepository",
		"op":          "Create",
		"status_code": report.StatusCode,
	}).Warn("Persisting undelivered report")

	if err := r.db.WithContext(ctx).Create(report).Error; err != nil {
		logger.WithField("repo", "UndeliveredReportRepository").
			WithError(err).Error("Failed to persist undelivered report")
		return err
	}
	return nil
}

// ListPending returns up to limit reports, oldest first.
func (r *UndeliveredReportRepository) ListPending(ctx context.Context, limit int) ([]model.UndeliveredReport, error) {
	var reports []model.UndeliveredReport
	query := r.db.WithContext(ctx).Order("created_at ASC, id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

// MarkAttempt records the outcome of another failed delivery.
func (r *UndeliveredReportRepository) MarkAttempt(ctx context.Context, id, lastError string, statusCode int) error {
	return r.db.WithContext(ctx).
		Model(&model.UndeliveredReport{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"attempts":    gorm.Expr("attempts + ?", 1),
			"last_error":  lastError,
			"status_code": statusCode,
		}).Error
}

// Delete removes a report once it no longer needs sending.
func (r *UndeliveredReportRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.UndeliveredReport{}).Error
}

// Count returns the number of stored reports.
func (r *UndeliveredReportRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.UndeliveredReport{}).Count(&count).Error
	return count, err
}

// Package repository is the data access layer over the sqlite ledger.
package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/vector81/Jobby/model"
)

// AttemptRepository persists and queries application attempt rows.
type AttemptRepository interface {
	Save(attempt *model.ApplicationAttemptEntity) error
	FindByRunID(runID string) ([]*model.ApplicationAttemptEntity, error)
	FindByJobURL(jobURL string) ([]*model.ApplicationAttemptEntity, error)
	CountByOutcome(runID string, outcome model.Outcome) (int64, error)
}

type attemptRepository struct {
	db *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) AttemptRepository {
	return &attemptRepository{db: db}
}

func (r *attemptRepository) Save(attempt *model.ApplicationAttemptEntity) error {
	if result := r.db.Create(attempt); result.Error != nil {
		return fmt.Errorf("save attempt for %s: %w", attempt.JobURL, result.Error)
	}
	return nil
}

func (r *attemptRepository) FindByRunID(runID string) ([]*model.ApplicationAttemptEntity, error) {
	var attempts []*model.ApplicationAttemptEntity
	result := r.db.Where("run_id = ?", runID).
		Order("created_at ASC").
		Find(&attempts)
	if result.Error != nil {
		return nil, result.Error
	}
	return attempts, nil
}

func (r *attemptRepository) FindByJobURL(jobURL string) ([]*model.ApplicationAttemptEntity, error) {
	var attempts []*model.ApplicationAttemptEntity
	result := r.db.Where("job_url = ?", jobURL).
		Order("created_at DESC").
		Find(&attempts)
	if result.Error != nil {
		return nil, result.Error
	}
	return attempts, nil
}

func (r *attemptRepository) CountByOutcome(runID string, outcome model.Outcome) (int64, error) {
	var count int64
	result := r.db.Model(&model.ApplicationAttemptEntity{}).
		Where("run_id = ? AND outcome = ?", runID, string(outcome)).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}
	return count, nil
}

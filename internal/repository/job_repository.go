package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"applytrack/internal/model"
)

type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

func (r *JobRepository) Create(job *model.JobApplication) error {
	if err := r.db.Create(job).Error; err != nil {
		return fmt.Errorf("create job application failed: %w", err)
	}
	return nil
}

// ListByUserID returns every application owned by userID, newest first.
func (r *JobRepository) ListByUserID(userID uint) ([]model.JobApplication, error) {
	var jobs []model.JobApplication
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&jobs).Error; err != nil {
		return nil, fmt.Errorf("list job applications failed: %w", err)
	}
	return jobs, nil
}

// GetByIDAndUserID resolves an application only when it is owned by userID.
// A row owned by someone else is indistinguishable from a missing one.
func (r *JobRepository) GetByIDAndUserID(jobID, userID uint) (*model.JobApplication, error) {
	var job model.JobApplication
	if err := r.db.Where("id = ? AND user_id = ?", jobID, userID).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get job application failed: %w", err)
	}
	return &job, nil
}

func (r *JobRepository) Update(job *model.JobApplication) error {
	if err := r.db.Save(job).Error; err != nil {
		return fmt.Errorf("update job application failed: %w", err)
	}
	return nil
}

// DeleteByIDAndUserID removes at most one row matching both id and owner in a
// single conditional statement. Returns false when nothing matched.
func (r *JobRepository) DeleteByIDAndUserID(jobID, userID uint) (bool, error) {
	res := r.db.Where("id = ? AND user_id = ?", jobID, userID).Delete(&model.JobApplication{})
	if res.Error != nil {
		return false, fmt.Errorf("delete job application failed: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

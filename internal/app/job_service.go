package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"applytrack/internal/filter"
	"applytrack/internal/logger"
	"applytrack/internal/model"
)

var (
	ErrJobNotFound   = errors.New("job application not found")
	ErrStatusUnknown = errors.New("unknown application status")
	ErrDateFormat    = errors.New("date_applied must be an ISO date (YYYY-MM-DD)")
)

const dateLayout = "2006-01-02"

// JobStore is the persistence surface JobService needs.
type JobStore interface {
	Create(job *model.JobApplication) error
	ListByUserID(userID uint) ([]model.JobApplication, error)
	GetByIDAndUserID(jobID, userID uint) (*model.JobApplication, error)
	Update(job *model.JobApplication) error
	DeleteByIDAndUserID(jobID, userID uint) (bool, error)
}

// ActivityStore reads back the audit trail the worker persists.
type ActivityStore interface {
	ListByUserID(userID uint, limit int) ([]model.ActivityEvent, error)
}

// ActivityPublisher enqueues an event for asynchronous persistence.
type ActivityPublisher interface {
	Publish(ctx context.Context, event model.ActivityEvent) error
}

// JobListCache caches a user's full application list between mutations.
type JobListCache interface {
	GetList(ctx context.Context, userID uint) ([]model.JobApplication, bool, error)
	SetList(ctx context.Context, userID uint, jobs []model.JobApplication) error
	Invalidate(ctx context.Context, userID uint) error
	MarkDirty(ctx context.Context, userID uint) error
	IsDirty(ctx context.Context, userID uint) (bool, error)
}

type JobService struct {
	jobs      JobStore
	activity  ActivityStore
	publisher ActivityPublisher
	cache     JobListCache
}

// CreateJobInput carries the fields of a new application. DateApplied is the
// raw ISO date string; empty means no date.
type CreateJobInput struct {
	UserID      uint
	JobTitle    string
	CompanyName string
	URL         string
	Location    string
	DateApplied string
	Status      string
	Notes       string
}

// UpdateJobInput is a partial update. Every field is a pointer: nil keeps the
// previous value. For the clearable optionals (URL, Location, DateApplied,
// Notes) a present-but-blank value resets the column to NULL; for JobTitle,
// CompanyName, and Status a present-but-blank value is rejected.
type UpdateJobInput struct {
	UserID      uint
	JobID       uint
	JobTitle    *string
	CompanyName *string
	URL         *string
	Location    *string
	DateApplied *string
	Status      *string
	Notes       *string
}

func NewJobService(jobs JobStore, activity ActivityStore, publisher ActivityPublisher, cache JobListCache) *JobService {
	return &JobService{
		jobs:      jobs,
		activity:  activity,
		publisher: publisher,
		cache:     cache,
	}
}

// List returns the caller's applications, newest first, with the filter
// criteria applied. Empty criteria return the full list.
func (s *JobService) List(ctx context.Context, userID uint, criteria filter.Criteria) ([]model.JobApplication, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	jobs, err := s.loadJobs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return filter.Apply(jobs, criteria, time.Now()), nil
}

func (s *JobService) Create(ctx context.Context, input CreateJobInput) (*model.JobApplication, error) {
	if input.UserID == 0 {
		return nil, ErrInvalidInput
	}

	title := strings.TrimSpace(input.JobTitle)
	company := strings.TrimSpace(input.CompanyName)
	if title == "" || company == "" {
		return nil, ErrInvalidInput
	}

	status := strings.TrimSpace(input.Status)
	if status == "" {
		status = model.DefaultStatus
	}
	if !model.ValidStatus(status) {
		return nil, ErrStatusUnknown
	}

	dateApplied, err := parseDate(input.DateApplied)
	if err != nil {
		return nil, err
	}

	job := &model.JobApplication{
		UserID:      input.UserID,
		JobTitle:    title,
		CompanyName: company,
		URL:         optionalText(input.URL),
		Location:    optionalText(input.Location),
		DateApplied: dateApplied,
		Status:      status,
		Notes:       optionalText(input.Notes),
	}
	if err := s.jobs.Create(job); err != nil {
		return nil, err
	}

	s.invalidateList(ctx, input.UserID)
	s.publishActivity(ctx, job, model.ActionCreated)
	return job, nil
}

// Update applies a partial update to a record the caller owns. The ownership
// lookup and the write are separate statements; the only actor who can race
// them is the owner from another session, which is accepted.
func (s *JobService) Update(ctx context.Context, input UpdateJobInput) (*model.JobApplication, error) {
	if input.UserID == 0 || input.JobID == 0 {
		return nil, ErrInvalidInput
	}

	job, err := s.jobs.GetByIDAndUserID(input.JobID, input.UserID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, ErrJobNotFound
	}

	if input.JobTitle != nil {
		title := strings.TrimSpace(*input.JobTitle)
		if title == "" {
			return nil, ErrInvalidInput
		}
		job.JobTitle = title
	}
	if input.CompanyName != nil {
		company := strings.TrimSpace(*input.CompanyName)
		if company == "" {
			return nil, ErrInvalidInput
		}
		job.CompanyName = company
	}
	if input.Status != nil {
		status := strings.TrimSpace(*input.Status)
		if !model.ValidStatus(status) {
			return nil, ErrStatusUnknown
		}
		job.Status = status
	}
	if input.URL != nil {
		job.URL = optionalText(*input.URL)
	}
	if input.Location != nil {
		job.Location = optionalText(*input.Location)
	}
	if input.Notes != nil {
		job.Notes = optionalText(*input.Notes)
	}
	if input.DateApplied != nil {
		dateApplied, err := parseDate(*input.DateApplied)
		if err != nil {
			return nil, err
		}
		job.DateApplied = dateApplied
	}

	if err := s.jobs.Update(job); err != nil {
		return nil, err
	}

	s.invalidateList(ctx, input.UserID)
	s.publishActivity(ctx, job, model.ActionUpdated)
	return job, nil
}

// Delete removes a record in one conditional statement matching both id and
// owner; zero affected rows means not found (or not yours, indistinguishably).
func (s *JobService) Delete(ctx context.Context, userID, jobID uint) error {
	if userID == 0 || jobID == 0 {
		return ErrInvalidInput
	}

	// Fetched first only so the activity event can name the deleted job.
	job, err := s.jobs.GetByIDAndUserID(jobID, userID)
	if err != nil {
		return err
	}

	deleted, err := s.jobs.DeleteByIDAndUserID(jobID, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrJobNotFound
	}

	s.invalidateList(ctx, userID)
	if job != nil {
		s.publishActivity(ctx, job, model.ActionDeleted)
	}
	return nil
}

func (s *JobService) Activity(userID uint, limit int) ([]model.ActivityEvent, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	return s.activity.ListByUserID(userID, limit)
}

// loadJobs serves from the cache when it is populated and clean, otherwise
// hits the store and repopulates. Cache failures degrade to the database.
func (s *JobService) loadJobs(ctx context.Context, userID uint) ([]model.JobApplication, error) {
	if s.cache != nil {
		dirty, err := s.cache.IsDirty(ctx, userID)
		if err == nil && !dirty {
			if cached, hit, cacheErr := s.cache.GetList(ctx, userID); cacheErr == nil && hit {
				return cached, nil
			}
		}
	}

	jobs, err := s.jobs.ListByUserID(userID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if dirty, dirtyErr := s.cache.IsDirty(ctx, userID); dirtyErr == nil && !dirty {
			_ = s.cache.SetList(ctx, userID, jobs)
		}
	}
	return jobs, nil
}

func (s *JobService) invalidateList(ctx context.Context, userID uint) {
	if s.cache == nil {
		return
	}
	_ = s.cache.MarkDirty(ctx, userID)
	_ = s.cache.Invalidate(ctx, userID)
}

// publishActivity is best-effort: a broker hiccup must not fail the mutation.
func (s *JobService) publishActivity(ctx context.Context, job *model.JobApplication, action string) {
	if s.publisher == nil {
		return
	}
	event := model.ActivityEvent{
		UserID:      job.UserID,
		JobID:       job.ID,
		Action:      action,
		JobTitle:    job.JobTitle,
		CompanyName: job.CompanyName,
		CreatedAt:   time.Now(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		logger.Log.Warnw("publish activity event failed", "action", action, "job_id", job.ID, "err", err)
	}
}

func parseDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, ErrDateFormat
	}
	t = t.UTC()
	return &t, nil
}

func optionalText(raw string) *string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return &raw
}

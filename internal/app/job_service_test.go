package app

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"applytrack/internal/filter"
	"applytrack/internal/model"
)

type fakeJobStore struct {
	jobs   map[uint]model.JobApplication
	nextID uint
}

func newFakeJobStore() *fakeJobStore {
	return &fakeJobStore{jobs: make(map[uint]model.JobApplication)}
}

func (f *fakeJobStore) Create(job *model.JobApplication) error {
	f.nextID++
	job.ID = f.nextID
	now := time.Now()
	job.CreatedAt = now
	job.UpdatedAt = now
	f.jobs[job.ID] = *job
	return nil
}

func (f *fakeJobStore) ListByUserID(userID uint) ([]model.JobApplication, error) {
	var out []model.JobApplication
	for _, job := range f.jobs {
		if job.UserID == userID {
			out = append(out, job)
		}
	}
	// Creation order and id order coincide here; newest first.
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeJobStore) GetByIDAndUserID(jobID, userID uint) (*model.JobApplication, error) {
	job, ok := f.jobs[jobID]
	if !ok || job.UserID != userID {
		return nil, nil
	}
	copied := job
	return &copied, nil
}

func (f *fakeJobStore) Update(job *model.JobApplication) error {
	job.UpdatedAt = time.Now()
	f.jobs[job.ID] = *job
	return nil
}

func (f *fakeJobStore) DeleteByIDAndUserID(jobID, userID uint) (bool, error) {
	job, ok := f.jobs[jobID]
	if !ok || job.UserID != userID {
		return false, nil
	}
	delete(f.jobs, jobID)
	return true, nil
}

type fakeActivityStore struct {
	events []model.ActivityEvent
}

func (f *fakeActivityStore) ListByUserID(userID uint, limit int) ([]model.ActivityEvent, error) {
	var out []model.ActivityEvent
	for _, e := range f.events {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakePublisher struct {
	events  []model.ActivityEvent
	failErr error
}

func (f *fakePublisher) Publish(_ context.Context, event model.ActivityEvent) error {
	if f.failErr != nil {
		return f.failErr
	}
	f.events = append(f.events, event)
	return nil
}

type fakeListCache struct {
	list  []model.JobApplication
	has   bool
	dirty bool

	markDirtyCalls  int
	invalidateCalls int
}

func (f *fakeListCache) GetList(_ context.Context, _ uint) ([]model.JobApplication, bool, error) {
	return f.list, f.has, nil
}

func (f *fakeListCache) SetList(_ context.Context, _ uint, jobs []model.JobApplication) error {
	f.list = jobs
	f.has = true
	return nil
}

func (f *fakeListCache) Invalidate(_ context.Context, _ uint) error {
	f.list = nil
	f.has = false
	f.invalidateCalls++
	return nil
}

func (f *fakeListCache) MarkDirty(_ context.Context, _ uint) error {
	f.dirty = true
	f.markDirtyCalls++
	return nil
}

func (f *fakeListCache) IsDirty(_ context.Context, _ uint) (bool, error) {
	return f.dirty, nil
}

func newTestJobService() (*JobService, *fakeJobStore, *fakePublisher, *fakeListCache) {
	store := newFakeJobStore()
	publisher := &fakePublisher{}
	cache := &fakeListCache{}
	svc := NewJobService(store, &fakeActivityStore{}, publisher, cache)
	return svc, store, publisher, cache
}

func strPtr(s string) *string { return &s }

func TestCreateAppliesDefaults(t *testing.T) {
	svc, _, publisher, _ := newTestJobService()

	job, err := svc.Create(context.Background(), CreateJobInput{
		UserID:      1,
		JobTitle:    "Backend Engineer",
		CompanyName: "Acme",
	})
	require.NoError(t, err)

	assert.NotZero(t, job.ID)
	assert.Equal(t, uint(1), job.UserID)
	assert.Equal(t, model.StatusApplied, job.Status)
	assert.Nil(t, job.URL)
	assert.Nil(t, job.Location)
	assert.Nil(t, job.DateApplied)
	assert.Nil(t, job.Notes)
	assert.False(t, job.CreatedAt.IsZero())
	assert.False(t, job.UpdatedAt.IsZero())

	require.Len(t, publisher.events, 1)
	assert.Equal(t, model.ActionCreated, publisher.events[0].Action)
	assert.Equal(t, job.ID, publisher.events[0].JobID)
}

func TestCreateValidation(t *testing.T) {
	svc, _, _, _ := newTestJobService()
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateJobInput{UserID: 1, CompanyName: "Acme"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(ctx, CreateJobInput{UserID: 1, JobTitle: "Dev", CompanyName: "  "})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(ctx, CreateJobInput{UserID: 1, JobTitle: "Dev", CompanyName: "Acme", Status: "Ghosted"})
	assert.ErrorIs(t, err, ErrStatusUnknown)

	_, err = svc.Create(ctx, CreateJobInput{UserID: 1, JobTitle: "Dev", CompanyName: "Acme", DateApplied: "15/03/2025"})
	assert.ErrorIs(t, err, ErrDateFormat)
}

func TestCreateParsesDateAtUTCMidnight(t *testing.T) {
	svc, _, _, _ := newTestJobService()

	job, err := svc.Create(context.Background(), CreateJobInput{
		UserID:      1,
		JobTitle:    "Dev",
		CompanyName: "Acme",
		DateApplied: "2025-03-08",
	})
	require.NoError(t, err)
	require.NotNil(t, job.DateApplied)
	assert.Equal(t, time.Date(2025, time.March, 8, 0, 0, 0, 0, time.UTC), *job.DateApplied)
}

func TestCreateThenListNewestFirst(t *testing.T) {
	svc, _, _, _ := newTestJobService()
	ctx := context.Background()

	first, err := svc.Create(ctx, CreateJobInput{UserID: 1, JobTitle: "Dev", CompanyName: "Acme"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, CreateJobInput{UserID: 1, JobTitle: "PM", CompanyName: "Globex"})
	require.NoError(t, err)

	jobs, err := svc.List(ctx, 1, filter.Criteria{})
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, second.ID, jobs[0].ID)
	assert.Equal(t, first.ID, jobs[1].ID)
}

func TestCrossUserAccessIsNotFound(t *testing.T) {
	svc, _, _, _ := newTestJobService()
	ctx := context.Background()

	job, err := svc.Create(ctx, CreateJobInput{UserID: 1, JobTitle: "Dev", CompanyName: "Acme"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, UpdateJobInput{UserID: 2, JobID: job.ID, Notes: strPtr("mine now")})
	assert.ErrorIs(t, err, ErrJobNotFound)

	err = svc.Delete(ctx, 2, job.ID)
	assert.ErrorIs(t, err, ErrJobNotFound)

	jobs, err := svc.List(ctx, 2, filter.Criteria{})
	require.NoError(t, err)
	assert.Empty(t, jobs)

	// The owner still sees the record untouched.
	jobs, err = svc.List(ctx, 1, filter.Criteria{})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Nil(t, jobs[0].Notes)
}

func TestPartialUpdateKeepsOmittedFields(t *testing.T) {
	svc, _, _, _ := newTestJobService()
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateJobInput{
		UserID:      1,
		JobTitle:    "Backend Engineer",
		CompanyName: "Acme",
		URL:         "https://acme.example/jobs/1",
		Location:    "Berlin",
		DateApplied: "2025-03-01",
		Status:      model.StatusInterviewScheduled,
		Notes:       "referred by a friend",
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, UpdateJobInput{
		UserID: 1,
		JobID:  created.ID,
		Notes:  strPtr("phone screen done"),
	})
	require.NoError(t, err)

	assert.Equal(t, created.JobTitle, updated.JobTitle)
	assert.Equal(t, created.CompanyName, updated.CompanyName)
	assert.Equal(t, created.URL, updated.URL)
	assert.Equal(t, created.Location, updated.Location)
	assert.Equal(t, created.DateApplied, updated.DateApplied)
	assert.Equal(t, created.Status, updated.Status)
	require.NotNil(t, updated.Notes)
	assert.Equal(t, "phone screen done", *updated.Notes)
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))
}

func TestUpdateClearsOptionalFieldsOnBlank(t *testing.T) {
	svc, _, _, _ := newTestJobService()
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateJobInput{
		UserID:      1,
		JobTitle:    "Dev",
		CompanyName: "Acme",
		URL:         "https://acme.example",
		Location:    "Berlin",
		DateApplied: "2025-03-01",
		Notes:       "note",
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, UpdateJobInput{
		UserID:      1,
		JobID:       created.ID,
		URL:         strPtr(""),
		Location:    strPtr(""),
		DateApplied: strPtr(""),
		Notes:       strPtr(""),
	})
	require.NoError(t, err)

	assert.Nil(t, updated.URL)
	assert.Nil(t, updated.Location)
	assert.Nil(t, updated.DateApplied)
	assert.Nil(t, updated.Notes)
	// Required fields are untouched.
	assert.Equal(t, "Dev", updated.JobTitle)
	assert.Equal(t, "Acme", updated.CompanyName)
}

func TestUpdateRejectsBlankRequiredFields(t *testing.T) {
	svc, _, _, _ := newTestJobService()
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateJobInput{UserID: 1, JobTitle: "Dev", CompanyName: "Acme"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, UpdateJobInput{UserID: 1, JobID: created.ID, JobTitle: strPtr("  ")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Update(ctx, UpdateJobInput{UserID: 1, JobID: created.ID, Status: strPtr("")})
	assert.ErrorIs(t, err, ErrStatusUnknown)

	_, err = svc.Update(ctx, UpdateJobInput{UserID: 1, JobID: created.ID, Status: strPtr("Ghosted")})
	assert.ErrorIs(t, err, ErrStatusUnknown)
}

func TestDelete(t *testing.T) {
	svc, _, publisher, _ := newTestJobService()
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateJobInput{UserID: 1, JobTitle: "Dev", CompanyName: "Acme"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, 1, created.ID))

	jobs, err := svc.List(ctx, 1, filter.Criteria{})
	require.NoError(t, err)
	assert.Empty(t, jobs)

	// Second delete of the same id reports not found.
	assert.ErrorIs(t, svc.Delete(ctx, 1, created.ID), ErrJobNotFound)

	require.Len(t, publisher.events, 2)
	assert.Equal(t, model.ActionDeleted, publisher.events[1].Action)
	assert.Equal(t, "Dev", publisher.events[1].JobTitle)
}

func TestPublishFailureDoesNotFailMutation(t *testing.T) {
	store := newFakeJobStore()
	publisher := &fakePublisher{failErr: errors.New("broker down")}
	svc := NewJobService(store, &fakeActivityStore{}, publisher, nil)

	job, err := svc.Create(context.Background(), CreateJobInput{UserID: 1, JobTitle: "Dev", CompanyName: "Acme"})
	require.NoError(t, err)
	assert.NotZero(t, job.ID)
}

func TestListServesFromCleanCache(t *testing.T) {
	svc, _, _, cache := newTestJobService()
	ctx := context.Background()

	cached := []model.JobApplication{{ID: 99, UserID: 1, JobTitle: "Cached", CompanyName: "Redis", Status: model.StatusApplied}}
	cache.list = cached
	cache.has = true

	jobs, err := svc.List(ctx, 1, filter.Criteria{})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "Cached", jobs[0].JobTitle)
}

func TestMutationInvalidatesCache(t *testing.T) {
	svc, _, _, cache := newTestJobService()
	ctx := context.Background()

	cache.list = []model.JobApplication{{ID: 99, UserID: 1, JobTitle: "Stale", CompanyName: "Redis"}}
	cache.has = true

	created, err := svc.Create(ctx, CreateJobInput{UserID: 1, JobTitle: "Fresh", CompanyName: "Acme"})
	require.NoError(t, err)
	assert.Equal(t, 1, cache.markDirtyCalls)
	assert.Equal(t, 1, cache.invalidateCalls)

	// With the cache dirty, List reads through to the store.
	jobs, err := svc.List(ctx, 1, filter.Criteria{})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, created.ID, jobs[0].ID)
}

func TestListWithFilterCriteria(t *testing.T) {
	svc, _, _, _ := newTestJobService()
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateJobInput{UserID: 1, JobTitle: "Backend Engineer", CompanyName: "Acme"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateJobInput{UserID: 1, JobTitle: "PM", CompanyName: "Globex", Status: model.StatusRejected})
	require.NoError(t, err)

	jobs, err := svc.List(ctx, 1, filter.Criteria{Status: model.StatusRejected})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "PM", jobs[0].JobTitle)

	jobs, err = svc.List(ctx, 1, filter.Criteria{Query: "acme"})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "Backend Engineer", jobs[0].JobTitle)
}

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ecolog-api/internal/dto"
	"github.com/noah-isme/ecolog-api/internal/models"
	"github.com/noah-isme/ecolog-api/internal/repository"
	appErrors "github.com/noah-isme/ecolog-api/pkg/errors"
	"github.com/noah-isme/ecolog-api/pkg/jobs"
)

type reportRepoStub struct {
	jobs map[string]*models.ReportJob
}

func newReportRepoStub() *reportRepoStub {
	return &reportRepoStub{jobs: map[string]*models.ReportJob{}}
}

func (r *reportRepoStub) Create(ctx context.Context, job *models.ReportJob) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	r.jobs[job.ID] = job
	return nil
}

func (r *reportRepoStub) GetByID(ctx context.Context, id string) (*models.ReportJob, error) {
	job, ok := r.jobs[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return job, nil
}

func (r *reportRepoStub) Update(ctx context.Context, id string, params repository.UpdateReportJobParams) error {
	job, ok := r.jobs[id]
	if !ok {
		return errors.New("not found")
	}
	if params.Status != nil {
		job.Status = *params.Status
	}
	if params.Progress != nil {
		job.Progress = *params.Progress
	}
	if params.ResultURL != nil {
		job.ResultURL = params.ResultURL
	}
	if params.ErrorMessage != nil {
		job.ErrorMessage = params.ErrorMessage
	}
	if params.FinishedAt != nil {
		job.FinishedAt = params.FinishedAt
	}
	return nil
}

func (r *reportRepoStub) ListQueued(ctx context.Context, limit int) ([]models.ReportJob, error) {
	var queued []models.ReportJob
	for _, job := range r.jobs {
		if job.Status == models.ReportStatusQueued {
			queued = append(queued, *job)
		}
	}
	return queued, nil
}

func (r *reportRepoStub) ListFinishedBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.ReportJob, error) {
	return nil, nil
}

type queueStub struct {
	enqueued []jobs.Job
	fail     bool
}

func (q *queueStub) Enqueue(job jobs.Job) error {
	if q.fail {
		return errors.New("queue full")
	}
	q.enqueued = append(q.enqueued, job)
	return nil
}

type generatorStub struct {
	result *ExportResult
	err    error
}

func (g *generatorStub) Generate(ctx context.Context, job *models.ReportJob) (*ExportResult, error) {
	return g.result, g.err
}

func TestReportCreateJobQueues(t *testing.T) {
	repo := newReportRepoStub()
	queue := &queueStub{}
	svc := NewReportService(repo, queue, nil, nil, nil, ReportServiceConfig{})

	resp, err := svc.CreateJob(context.Background(), dto.GenerateReportRequest{
		Year: 2026, Months: []int{3, 4}, Format: models.ReportFormatCSV,
	}, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusQueued, resp.Status)
	require.Len(t, queue.enqueued, 1)
	assert.Equal(t, resp.ID, queue.enqueued[0].ID)
}

func TestReportCreateJobValidation(t *testing.T) {
	svc := NewReportService(newReportRepoStub(), &queueStub{}, nil, nil, nil, ReportServiceConfig{})

	_, err := svc.CreateJob(context.Background(), dto.GenerateReportRequest{
		Year: 2026, Months: []int{13}, Format: models.ReportFormatCSV,
	}, "u1")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", appErrors.FromError(err).Code)
}

func TestReportCreateJobEnqueueFailureMarksFailed(t *testing.T) {
	repo := newReportRepoStub()
	svc := NewReportService(repo, &queueStub{fail: true}, nil, nil, nil, ReportServiceConfig{})

	_, err := svc.CreateJob(context.Background(), dto.GenerateReportRequest{
		Year: 2026, Months: []int{3}, Format: models.ReportFormatCSV,
	}, "u1")
	require.Error(t, err)
	for _, job := range repo.jobs {
		assert.Equal(t, models.ReportStatusFailed, job.Status)
	}
}

func TestReportGetStatusEnforcesOwnership(t *testing.T) {
	repo := newReportRepoStub()
	job := &models.ReportJob{CreatedBy: "teacher-1", Status: models.ReportStatusQueued}
	require.NoError(t, repo.Create(context.Background(), job))
	svc := NewReportService(repo, &queueStub{}, nil, nil, nil, ReportServiceConfig{})

	_, err := svc.GetStatus(context.Background(), job.ID, "teacher-2", models.RoleTeacher)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", appErrors.FromError(err).Code)

	resp, err := svc.GetStatus(context.Background(), job.ID, "admin-1", models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusQueued, resp.Status)
}

func TestReportWorkerLifecycle(t *testing.T) {
	repo := newReportRepoStub()
	job := &models.ReportJob{Status: models.ReportStatusQueued}
	require.NoError(t, repo.Create(context.Background(), job))

	worker := NewReportWorker(repo, &generatorStub{result: &ExportResult{URL: "/api/v1/reports/download/tok"}}, nil, 3, nil)
	require.NoError(t, worker.Handle(context.Background(), jobs.Job{ID: job.ID}))

	stored := repo.jobs[job.ID]
	assert.Equal(t, models.ReportStatusFinished, stored.Status)
	assert.Equal(t, 100, stored.Progress)
	require.NotNil(t, stored.ResultURL)
	assert.Equal(t, "/api/v1/reports/download/tok", *stored.ResultURL)
	assert.NotNil(t, stored.FinishedAt)
}

func TestReportWorkerRetriesThenFails(t *testing.T) {
	repo := newReportRepoStub()
	job := &models.ReportJob{Status: models.ReportStatusQueued}
	require.NoError(t, repo.Create(context.Background(), job))

	worker := NewReportWorker(repo, &generatorStub{err: errors.New("boom")}, nil, 2, nil)

	// first attempt requeues
	require.Error(t, worker.Handle(context.Background(), jobs.Job{ID: job.ID, Attempt: 0}))
	assert.Equal(t, models.ReportStatusQueued, repo.jobs[job.ID].Status)

	// final attempt marks the job failed
	require.Error(t, worker.Handle(context.Background(), jobs.Job{ID: job.ID, Attempt: 2}))
	stored := repo.jobs[job.ID]
	assert.Equal(t, models.ReportStatusFailed, stored.Status)
	require.NotNil(t, stored.ErrorMessage)
	assert.Equal(t, "boom", *stored.ErrorMessage)
}

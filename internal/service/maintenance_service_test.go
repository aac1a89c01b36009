package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ecolog-api/internal/dto"
	appErrors "github.com/noah-isme/ecolog-api/pkg/errors"
)

type maintenanceRepoStub struct {
	from, to   int64
	rangeCalls int
	allCalls   int
}

func (r *maintenanceRepoStub) DeleteByTimestampRange(ctx context.Context, fromMillis, toMillis int64) (int64, error) {
	r.from, r.to = fromMillis, toMillis
	r.rangeCalls++
	return 7, nil
}

func (r *maintenanceRepoStub) DeleteAll(ctx context.Context) (int64, error) {
	r.allCalls++
	return 42, nil
}

func TestMaintenanceDeleteRangeBounds(t *testing.T) {
	repo := &maintenanceRepoStub{}
	svc := NewMaintenanceService(repo, nil, nil, nil)

	result, err := svc.DeleteRange(context.Background(), dto.DeleteRangeRequest{
		From: "2026-03-01", To: "2026-03-05",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), result.Deleted)

	wantFrom := time.Date(2026, 3, 1, 0, 0, 0, 0, time.Local).UnixMilli()
	wantTo := time.Date(2026, 3, 6, 0, 0, 0, 0, time.Local).UnixMilli() - 1
	assert.Equal(t, wantFrom, repo.from)
	assert.Equal(t, wantTo, repo.to)
}

func TestMaintenanceDeleteRangeValidation(t *testing.T) {
	repo := &maintenanceRepoStub{}
	svc := NewMaintenanceService(repo, nil, nil, nil)

	_, err := svc.DeleteRange(context.Background(), dto.DeleteRangeRequest{
		From: "01/03/2026", To: "2026-03-05",
	})
	require.Error(t, err)
	assert.Equal(t, "INVALID_TIMESTAMP", appErrors.FromError(err).Code)

	_, err = svc.DeleteRange(context.Background(), dto.DeleteRangeRequest{
		From: "2026-03-05", To: "2026-03-01",
	})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", appErrors.FromError(err).Code)
	assert.Zero(t, repo.rangeCalls)
}

func TestMaintenanceDeleteAllRequiresConfirmation(t *testing.T) {
	repo := &maintenanceRepoStub{}
	svc := NewMaintenanceService(repo, nil, nil, nil)

	_, err := svc.DeleteAllLogs(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, "CONFIRMATION_REQUIRED", appErrors.FromError(err).Code)
	assert.Zero(t, repo.allCalls)

	result, err := svc.DeleteAllLogs(context.Background(), "DELETE ALL")
	require.NoError(t, err)
	assert.Equal(t, int64(42), result.Deleted)
}

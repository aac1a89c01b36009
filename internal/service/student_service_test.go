package service

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ecolog-api/internal/dto"
	"github.com/noah-isme/ecolog-api/internal/models"
	"github.com/noah-isme/ecolog-api/internal/repository"
	appErrors "github.com/noah-isme/ecolog-api/pkg/errors"
)

type studentRepoStub struct {
	profiles   map[string]*models.StudentProfile
	created    []string
	deletedAll bool
}

func newStudentRepoStub() *studentRepoStub {
	return &studentRepoStub{profiles: map[string]*models.StudentProfile{}}
}

func (r *studentRepoStub) FindByID(ctx context.Context, id string) (*models.StudentProfile, error) {
	profile, ok := r.profiles[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return profile, nil
}

func (r *studentRepoStub) Roster(ctx context.Context) ([]models.RosterEntry, error) {
	entries := make([]models.RosterEntry, 0, len(r.profiles))
	for _, p := range r.profiles {
		entries = append(entries, models.RosterEntry{StudentID: p.ID, Name: p.DisplayName})
	}
	return entries, nil
}

func (r *studentRepoStub) Count(ctx context.Context) (int, error) {
	return len(r.profiles), nil
}

func (r *studentRepoStub) MaxSeedNumber(ctx context.Context, prefix string) (int, error) {
	max := 0
	for id := range r.profiles {
		if !strings.HasPrefix(id, prefix) {
			continue
		}
		n, err := strconv.Atoi(id[len(prefix):])
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return max, nil
}

func (r *studentRepoStub) UpsertProfile(ctx context.Context, id string, params repository.UpdateProfileParams) error {
	profile, ok := r.profiles[id]
	if !ok {
		profile = &models.StudentProfile{ID: id}
		r.profiles[id] = profile
	}
	profile.DisplayName = params.DisplayName
	profile.ClassLabel = params.ClassLabel
	if params.PIN != nil {
		profile.PIN = *params.PIN
	}
	return nil
}

func (r *studentRepoStub) BulkCreate(ctx context.Context, ids []string, classLabel string, batchSize int) error {
	for _, id := range ids {
		if _, ok := r.profiles[id]; !ok {
			r.profiles[id] = &models.StudentProfile{ID: id, ClassLabel: classLabel}
		}
	}
	r.created = append(r.created, ids...)
	return nil
}

func (r *studentRepoStub) Delete(ctx context.Context, id string) error {
	delete(r.profiles, id)
	return nil
}

func (r *studentRepoStub) DeleteAll(ctx context.Context) error {
	r.profiles = map[string]*models.StudentProfile{}
	r.deletedAll = true
	return nil
}

func TestStudentUpdateProfileMergesPIN(t *testing.T) {
	repo := newStudentRepoStub()
	svc := NewStudentService(repo, nil, SeedingConfig{}, nil, nil)

	pin := "1234"
	profile, err := svc.UpdateProfile(context.Background(), "HS001", dto.UpdateProfileRequest{
		Name: "Nguyen Van A", Class: "6A1", PIN: &pin,
	})
	require.NoError(t, err)
	assert.Equal(t, "1234", profile.PIN)

	// update without a PIN keeps the stored one
	profile, err = svc.UpdateProfile(context.Background(), "HS001", dto.UpdateProfileRequest{
		Name: "Nguyen Van A", Class: "6A2",
	})
	require.NoError(t, err)
	assert.Equal(t, "1234", profile.PIN)
	assert.Equal(t, "6A2", profile.ClassLabel)
}

func TestStudentUpdateProfileRejectsBadPIN(t *testing.T) {
	svc := NewStudentService(newStudentRepoStub(), nil, SeedingConfig{}, nil, nil)

	for _, pin := range []string{"123", "12345", "abcd", "12 4"} {
		p := pin
		_, err := svc.UpdateProfile(context.Background(), "HS001", dto.UpdateProfileRequest{
			Name: "A", Class: "6A1", PIN: &p,
		})
		require.Error(t, err, "pin %q should be rejected", pin)
		assert.Equal(t, "VALIDATION_ERROR", appErrors.FromError(err).Code)
	}
}

func TestStudentSeedAccountsZeroPadsAndContinues(t *testing.T) {
	repo := newStudentRepoStub()
	repo.profiles["hocsinh001"] = &models.StudentProfile{ID: "hocsinh001"}
	repo.profiles["hocsinh002"] = &models.StudentProfile{ID: "hocsinh002"}
	svc := NewStudentService(repo, nil, SeedingConfig{MaxStudents: 100}, nil, nil)

	resp, err := svc.SeedAccounts(context.Background(), dto.SeedAccountsRequest{
		Prefix: "hocsinh", Count: 3, Class: "6A1",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"hocsinh003", "hocsinh004", "hocsinh005"}, resp.Created)
}

func TestStudentSeedAccountsResumesAfterHighestSuffix(t *testing.T) {
	// hocsinh002 was deleted; numbering must continue past hocsinh003
	// instead of reusing the roster count as the next ordinal.
	repo := newStudentRepoStub()
	repo.profiles["hocsinh001"] = &models.StudentProfile{ID: "hocsinh001"}
	repo.profiles["hocsinh003"] = &models.StudentProfile{ID: "hocsinh003"}
	svc := NewStudentService(repo, nil, SeedingConfig{MaxStudents: 100}, nil, nil)

	resp, err := svc.SeedAccounts(context.Background(), dto.SeedAccountsRequest{
		Prefix: "hocsinh", Count: 2, Class: "6A1",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"hocsinh004", "hocsinh005"}, resp.Created)
	for _, id := range resp.Created {
		assert.Contains(t, repo.profiles, id)
	}
}

func TestStudentSeedAccountsIgnoresOtherPrefixes(t *testing.T) {
	repo := newStudentRepoStub()
	repo.profiles["lop6a001"] = &models.StudentProfile{ID: "lop6a001"}
	repo.profiles["lop6a002"] = &models.StudentProfile{ID: "lop6a002"}
	svc := NewStudentService(repo, nil, SeedingConfig{MaxStudents: 100}, nil, nil)

	resp, err := svc.SeedAccounts(context.Background(), dto.SeedAccountsRequest{
		Prefix: "hocsinh", Count: 2, Class: "6A1",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"hocsinh001", "hocsinh002"}, resp.Created)
}

func TestStudentSeedAccountsEnforcesLimit(t *testing.T) {
	repo := newStudentRepoStub()
	for i := 0; i < 98; i++ {
		id := string(rune('a'+i%26)) + string(rune('0'+i/26))
		repo.profiles[id] = &models.StudentProfile{ID: id}
	}
	svc := NewStudentService(repo, nil, SeedingConfig{MaxStudents: 100}, nil, nil)

	_, err := svc.SeedAccounts(context.Background(), dto.SeedAccountsRequest{
		Prefix: "hocsinh", Count: 5,
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, "STUDENT_LIMIT", appErr.Code)
	assert.Contains(t, appErr.Message, "2 of 100")
	assert.Empty(t, repo.created)
}

func TestStudentDeleteAllRequiresConfirmation(t *testing.T) {
	repo := newStudentRepoStub()
	repo.profiles["HS001"] = &models.StudentProfile{ID: "HS001"}
	svc := NewStudentService(repo, nil, SeedingConfig{}, nil, nil)

	err := svc.DeleteAllStudents(context.Background(), "delete all")
	require.Error(t, err)
	assert.Equal(t, "CONFIRMATION_REQUIRED", appErrors.FromError(err).Code)
	assert.False(t, repo.deletedAll)

	require.NoError(t, svc.DeleteAllStudents(context.Background(), "DELETE ALL"))
	assert.True(t, repo.deletedAll)
}

func TestStudentDeleteUnknownStudent(t *testing.T) {
	svc := NewStudentService(newStudentRepoStub(), nil, SeedingConfig{}, nil, nil)
	err := svc.DeleteStudent(context.Background(), "HS404")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", appErrors.FromError(err).Code)
}

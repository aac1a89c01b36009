package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/ecolog-api/internal/models"
	appErrors "github.com/noah-isme/ecolog-api/pkg/errors"
)

type userRepoStub struct {
	users map[string]*models.User
}

func (r *userRepoStub) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *userRepoStub) FindByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return u, nil
}

func (r *userRepoStub) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	return nil
}

func newAuthService(t *testing.T, students *studentRepoStub) *AuthService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	users := &userRepoStub{users: map[string]*models.User{
		"u1": {ID: "u1", Email: "teacher@school.vn", FullName: "Co Lan", PasswordHash: string(hash), Role: models.RoleTeacher, Active: true},
	}}
	return NewAuthService(users, students, nil, nil, AuthConfig{
		AccessTokenSecret: "test-secret",
		AccessTokenExpiry: time.Hour,
		Issuer:            "ecolog-api",
	})
}

func TestConsoleLogin(t *testing.T) {
	svc := newAuthService(t, newStudentRepoStub())

	resp, err := svc.Login(context.Background(), models.LoginRequest{
		Email: "teacher@school.vn", Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleTeacher, resp.Role)
	assert.NotEmpty(t, resp.AccessToken)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, models.RoleTeacher, claims.Role)
}

func TestConsoleLoginWrongPassword(t *testing.T) {
	svc := newAuthService(t, newStudentRepoStub())

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email: "teacher@school.vn", Password: "wrong",
	})
	require.Error(t, err)
	assert.Equal(t, "INVALID_CREDENTIALS", appErrors.FromError(err).Code)
}

func TestStudentLoginWithoutPIN(t *testing.T) {
	students := newStudentRepoStub()
	students.profiles["HS001"] = &models.StudentProfile{ID: "HS001", DisplayName: "An"}
	svc := newAuthService(t, students)

	resp, err := svc.StudentLogin(context.Background(), models.StudentLoginRequest{StudentID: "HS001"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, resp.Role)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "HS001", claims.UserID)
	assert.Equal(t, models.RoleStudent, claims.Role)
}

func TestStudentLoginPINChecks(t *testing.T) {
	students := newStudentRepoStub()
	students.profiles["HS001"] = &models.StudentProfile{ID: "HS001", PIN: "1234"}
	svc := newAuthService(t, students)

	_, err := svc.StudentLogin(context.Background(), models.StudentLoginRequest{StudentID: "HS001", PIN: "9999"})
	require.Error(t, err)
	assert.Equal(t, "INVALID_PIN", appErrors.FromError(err).Code)

	_, err = svc.StudentLogin(context.Background(), models.StudentLoginRequest{StudentID: "HS001", PIN: "1234"})
	require.NoError(t, err)
}

func TestStudentLoginUnknownID(t *testing.T) {
	svc := newAuthService(t, newStudentRepoStub())

	_, err := svc.StudentLogin(context.Background(), models.StudentLoginRequest{StudentID: "HS404"})
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", appErrors.FromError(err).Code)
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	svc := newAuthService(t, newStudentRepoStub())
	resp, err := svc.Login(context.Background(), models.LoginRequest{
		Email: "teacher@school.vn", Password: "secret123",
	})
	require.NoError(t, err)

	_, err = svc.ValidateToken(resp.AccessToken + "x")
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", appErrors.FromError(err).Code)
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/ecolog-api/internal/dto"
	"github.com/noah-isme/ecolog-api/internal/models"
	"github.com/noah-isme/ecolog-api/internal/repository"
	appErrors "github.com/noah-isme/ecolog-api/pkg/errors"
)

var pinPattern = regexp.MustCompile(`^\d{4}$`)

type studentRepository interface {
	FindByID(ctx context.Context, id string) (*models.StudentProfile, error)
	Roster(ctx context.Context) ([]models.RosterEntry, error)
	Count(ctx context.Context) (int, error)
	MaxSeedNumber(ctx context.Context, prefix string) (int, error)
	UpsertProfile(ctx context.Context, id string, params repository.UpdateProfileParams) error
	BulkCreate(ctx context.Context, ids []string, classLabel string, batchSize int) error
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
}

// SeedingConfig bounds bulk account creation.
type SeedingConfig struct {
	MaxStudents int
	BatchSize   int
}

// StudentService covers profile management and the admin roster operations.
type StudentService struct {
	repo      studentRepository
	cache     *CacheService
	seeding   SeedingConfig
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs a StudentService.
func NewStudentService(repo studentRepository, cache *CacheService, seeding SeedingConfig, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if seeding.MaxStudents <= 0 {
		seeding.MaxStudents = 100
	}
	if seeding.BatchSize <= 0 {
		seeding.BatchSize = 400
	}
	return &StudentService{repo: repo, cache: cache, seeding: seeding, validator: validate, logger: logger}
}

// GetProfile fetches a single student profile.
func (s *StudentService) GetProfile(ctx context.Context, studentID string) (*models.StudentProfile, error) {
	profile, err := s.repo.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student account not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return profile, nil
}

// UpdateProfile merges display name, class label and optionally the PIN into
// the student's account, creating the account when it does not exist yet.
func (s *StudentService) UpdateProfile(ctx context.Context, studentID string, req dto.UpdateProfileRequest) (*models.StudentProfile, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid profile payload")
	}
	if req.PIN != nil && !pinPattern.MatchString(*req.PIN) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "PIN must be exactly 4 digits")
	}

	params := repository.UpdateProfileParams{
		DisplayName: strings.TrimSpace(req.Name),
		ClassLabel:  strings.TrimSpace(req.Class),
		PIN:         req.PIN,
	}
	if err := s.repo.UpsertProfile(ctx, studentID, params); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save profile")
	}

	return s.GetProfile(ctx, studentID)
}

// Roster lists every student for the admin console, identifier order.
func (s *StudentService) Roster(ctx context.Context) ([]models.RosterEntry, error) {
	roster, err := s.repo.Roster(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	if roster == nil {
		roster = []models.RosterEntry{}
	}
	return roster, nil
}

// SeedAccounts creates count accounts named prefix + zero-padded ordinal
// (hocsinh001, hocsinh002, ...). Numbering resumes after the highest suffix
// already seeded under the prefix, so deletions and mixed prefixes never
// produce an identifier that collides with a surviving account. The overall
// roster size is capped; when the request would exceed it the error reports
// how many slots remain.
func (s *StudentService) SeedAccounts(ctx context.Context, req dto.SeedAccountsRequest) (*dto.SeedAccountsResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid seed payload")
	}

	existing, err := s.repo.Count(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count students")
	}
	remaining := s.seeding.MaxStudents - existing
	if remaining < 0 {
		remaining = 0
	}
	if req.Count > remaining {
		return nil, appErrors.Clone(appErrors.ErrStudentLimit,
			fmt.Sprintf("student limit reached: %d of %d slots remain", remaining, s.seeding.MaxStudents))
	}

	start, err := s.repo.MaxSeedNumber(ctx, req.Prefix)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to inspect existing accounts")
	}

	ids := make([]string, 0, req.Count)
	for i := 1; i <= req.Count; i++ {
		ids = append(ids, fmt.Sprintf("%s%03d", req.Prefix, start+i))
	}

	if err := s.repo.BulkCreate(ctx, ids, req.Class, s.seeding.BatchSize); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create accounts")
	}

	s.logger.Info("seeded student accounts",
		zap.String("prefix", req.Prefix),
		zap.Int("count", len(ids)))

	return &dto.SeedAccountsResponse{Created: ids}, nil
}

// DeleteStudent removes one student and cascades to the student's logs.
func (s *StudentService) DeleteStudent(ctx context.Context, studentID string) error {
	if _, err := s.GetProfile(ctx, studentID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, studentID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete student")
	}
	s.invalidateHistory(ctx, studentID)
	return nil
}

// DeleteAllStudents wipes the roster and all logs. The caller must supply the
// literal confirmation phrase; anything else aborts before any write.
func (s *StudentService) DeleteAllStudents(ctx context.Context, confirmation string) error {
	if confirmation != "DELETE ALL" {
		return appErrors.Clone(appErrors.ErrConfirmRequired, `confirmation phrase must be "DELETE ALL"`)
	}
	if err := s.repo.DeleteAll(ctx); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete students")
	}
	s.invalidateHistory(ctx, "*")
	return nil
}

func (s *StudentService) invalidateHistory(ctx context.Context, studentID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, "history:"+studentID+":*"); err != nil {
		s.logger.Warn("history cache invalidation failed", zap.String("student_id", studentID), zap.Error(err))
	}
}

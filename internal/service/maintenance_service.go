package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/ecolog-api/internal/dto"
	appErrors "github.com/noah-isme/ecolog-api/pkg/errors"
)

type maintenanceLogRepository interface {
	DeleteByTimestampRange(ctx context.Context, fromMillis, toMillis int64) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// MaintenanceService covers the destructive log cleanup operations of the
// admin console.
type MaintenanceService struct {
	repo      maintenanceLogRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewMaintenanceService constructs a MaintenanceService.
func NewMaintenanceService(repo maintenanceLogRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *MaintenanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &MaintenanceService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// DeleteRange removes every log between two calendar dates, inclusive. The
// range is interpreted in the server's local timezone, covering from local
// midnight of the first day through the last instant of the final day.
// Cached student totals are intentionally left as-is; only a full wipe
// resets them.
func (s *MaintenanceService) DeleteRange(ctx context.Context, req dto.DeleteRangeRequest) (*dto.DeleteResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid range payload")
	}

	from, err := time.ParseInLocation("2006-01-02", req.From, time.Local)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidTimestamp, "from must be YYYY-MM-DD")
	}
	to, err := time.ParseInLocation("2006-01-02", req.To, time.Local)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidTimestamp, "to must be YYYY-MM-DD")
	}
	if to.Before(from) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "to must not be before from")
	}

	fromMillis := from.UnixMilli()
	toMillis := to.AddDate(0, 0, 1).UnixMilli() - 1

	deleted, err := s.repo.DeleteByTimestampRange(ctx, fromMillis, toMillis)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete logs")
	}

	s.logger.Info("deleted logs by range",
		zap.String("from", req.From),
		zap.String("to", req.To),
		zap.Int64("deleted", deleted))

	s.invalidateAllHistory(ctx)
	return &dto.DeleteResult{Deleted: deleted}, nil
}

// DeleteAllLogs wipes every log and resets cached student totals. The caller
// must supply the literal confirmation phrase.
func (s *MaintenanceService) DeleteAllLogs(ctx context.Context, confirmation string) (*dto.DeleteResult, error) {
	if confirmation != "DELETE ALL" {
		return nil, appErrors.Clone(appErrors.ErrConfirmRequired, `confirmation phrase must be "DELETE ALL"`)
	}

	deleted, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete logs")
	}

	s.logger.Info("deleted all logs", zap.Int64("deleted", deleted))
	s.invalidateAllHistory(ctx)
	return &dto.DeleteResult{Deleted: deleted}, nil
}

func (s *MaintenanceService) invalidateAllHistory(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, "history:*"); err != nil {
		s.logger.Warn("history cache invalidation failed", zap.Error(err))
	}
}

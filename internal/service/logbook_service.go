package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/ecolog-api/internal/dto"
	"github.com/noah-isme/ecolog-api/internal/emission"
	"github.com/noah-isme/ecolog-api/internal/models"
	appErrors "github.com/noah-isme/ecolog-api/pkg/errors"
)

const logIDSuffixLen = 5

const base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

type logRepository interface {
	InsertWithTotals(ctx context.Context, log *models.DailyLog) error
	ListByStudent(ctx context.Context, studentID string) ([]models.DailyLog, error)
}

// AdviceProvider produces a short coaching tip for a freshly saved log.
type AdviceProvider interface {
	AdviceFor(ctx context.Context, log *models.DailyLog) string
}

// LogbookService handles the preview/save flow for daily activity logs.
type LogbookService struct {
	repo       logRepository
	calculator *emission.Calculator
	advice     AdviceProvider
	cache      *CacheService
	metrics    *MetricsService
	validator  *validator.Validate
	logger     *zap.Logger
	now        func() time.Time
}

// NewLogbookService constructs a LogbookService.
func NewLogbookService(repo logRepository, calculator *emission.Calculator, advice AdviceProvider, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *LogbookService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &LogbookService{
		repo:       repo,
		calculator: calculator,
		advice:     advice,
		cache:      cache,
		metrics:    metrics,
		validator:  validate,
		logger:     logger,
		now:        time.Now,
	}
}

// Preview computes the emissions for a draft entry without persisting it.
func (s *LogbookService) Preview(ctx context.Context, req dto.SaveLogRequest) (*dto.PreviewResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid log payload")
	}

	computed, err := s.evaluate(req)
	if err != nil {
		return nil, err
	}

	return &dto.PreviewResponse{
		Transport:  computed.transportPreview,
		Waste:      computed.wastePreview,
		Digital:    computed.digitalPreview,
		TotalCo2Kg: computed.total,
	}, nil
}

// Save validates, computes and persists a daily log. On success it also asks
// the advice provider for a coaching tip; advice failures never fail the
// save.
func (s *LogbookService) Save(ctx context.Context, studentID string, req dto.SaveLogRequest) (*dto.SaveLogResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid log payload")
	}

	ts, err := parseWallClock(req.Date, req.Time)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidTimestamp, err.Error())
	}

	computed, err := s.evaluate(req)
	if err != nil {
		return nil, err
	}

	log := &models.DailyLog{
		ID:         newLogID(ts),
		StudentID:  studentID,
		LogDate:    req.Date,
		Timestamp:  ts.UnixMilli(),
		Transport:  computed.transport,
		Waste:      computed.waste,
		Digital:    computed.digital,
		TotalCo2Kg: computed.total,
		CreatedAt:  s.now().UTC(),
	}

	if err := s.repo.InsertWithTotals(ctx, log); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save log")
	}

	if s.metrics != nil {
		s.metrics.RecordLogSaved(log.TotalCo2Kg)
	}
	s.invalidateHistory(ctx, studentID)

	resp := &dto.SaveLogResponse{Log: log}
	if s.advice != nil {
		resp.Advice = s.advice.AdviceFor(ctx, log)
	}
	return resp, nil
}

// History returns the student's raw logs, newest first.
func (s *LogbookService) History(ctx context.Context, studentID string) (*dto.LogListResponse, error) {
	logs, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list logs")
	}
	if logs == nil {
		logs = []models.DailyLog{}
	}
	return &dto.LogListResponse{StudentID: studentID, Logs: logs}, nil
}

type evaluated struct {
	transport        models.TransportList
	waste            models.WasteList
	digital          models.DigitalList
	transportPreview []dto.PreviewEntry
	wastePreview     []dto.PreviewEntry
	digitalPreview   []dto.PreviewEntry
	total            float64
}

func (s *LogbookService) evaluate(req dto.SaveLogRequest) (*evaluated, error) {
	out := &evaluated{
		transport:        models.TransportList{},
		waste:            models.WasteList{},
		digital:          models.DigitalList{},
		transportPreview: []dto.PreviewEntry{},
		wastePreview:     []dto.PreviewEntry{},
		digitalPreview:   []dto.PreviewEntry{},
	}

	for _, in := range req.Transport {
		c, err := s.calculator.Transport(models.TransportMode(in.Type), in.Minutes)
		if err != nil {
			return nil, mapComputeError(err, in.Type)
		}
		out.transport = append(out.transport, models.TransportEntry{
			Mode:       models.TransportMode(in.Type),
			DistanceKm: c.Quantity,
		})
		out.transportPreview = append(out.transportPreview, dto.PreviewEntry{
			Type: in.Type, Label: c.Label, Quantity: c.Quantity, Co2Kg: c.Co2Kg,
		})
		out.total += c.Co2Kg
	}

	for _, in := range req.Waste {
		c, err := s.calculator.Waste(models.WasteItem(in.Type), in.Count)
		if err != nil {
			return nil, mapComputeError(err, in.Type)
		}
		out.waste = append(out.waste, models.WasteEntry{
			Item:  models.WasteItem(in.Type),
			Count: c.Quantity,
		})
		out.wastePreview = append(out.wastePreview, dto.PreviewEntry{
			Type: in.Type, Label: c.Label, Quantity: c.Quantity, Co2Kg: c.Co2Kg,
		})
		out.total += c.Co2Kg
	}

	for _, in := range req.Digital {
		c, err := s.calculator.Digital(models.DeviceKind(in.Type), in.Hours)
		if err != nil {
			return nil, mapComputeError(err, in.Type)
		}
		out.digital = append(out.digital, models.DigitalEntry{
			Device: models.DeviceKind(in.Type),
			Hours:  c.Quantity,
		})
		out.digitalPreview = append(out.digitalPreview, dto.PreviewEntry{
			Type: in.Type, Label: c.Label, Quantity: c.Quantity, Co2Kg: c.Co2Kg,
		})
		out.total += c.Co2Kg
	}

	return out, nil
}

func mapComputeError(err error, kind string) error {
	var tooLarge *emission.QuantityTooLargeError
	switch {
	case errors.As(err, &tooLarge):
		return appErrors.Clone(appErrors.ErrInvalidQuantity,
			fmt.Sprintf("%s: %s", kind, tooLarge.Error()))
	case errors.Is(err, emission.ErrInvalidQuantity):
		return appErrors.Clone(appErrors.ErrInvalidQuantity,
			fmt.Sprintf("%s: quantity must be a positive finite number", kind))
	case errors.Is(err, emission.ErrUnknownKind):
		return appErrors.Clone(appErrors.ErrValidation, err.Error())
	default:
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute emissions")
	}
}

// parseWallClock interprets "2006-01-02" + "15:04" in the server's local
// timezone, which is configured to the school's region.
func parseWallClock(date, clock string) (time.Time, error) {
	ts, err := time.ParseInLocation("2006-01-02 15:04", strings.TrimSpace(date)+" "+strings.TrimSpace(clock), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("date must be YYYY-MM-DD and time HH:MM: %w", err)
	}
	return ts, nil
}

// newLogID mirrors the client's identifier scheme: epoch milliseconds plus a
// short random base36 suffix to disambiguate same-millisecond saves.
func newLogID(ts time.Time) string {
	suffix := make([]byte, logIDSuffixLen)
	for i := range suffix {
		suffix[i] = base36Alphabet[rand.Intn(len(base36Alphabet))]
	}
	return fmt.Sprintf("%d%s", ts.UnixMilli(), suffix)
}

func (s *LogbookService) invalidateHistory(ctx context.Context, studentID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, "history:"+studentID+":*"); err != nil {
		s.logger.Warn("history cache invalidation failed", zap.String("student_id", studentID), zap.Error(err))
	}
}

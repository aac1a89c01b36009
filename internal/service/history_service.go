package service

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/ecolog-api/internal/dto"
	"github.com/noah-isme/ecolog-api/internal/emission"
	"github.com/noah-isme/ecolog-api/internal/models"
	appErrors "github.com/noah-isme/ecolog-api/pkg/errors"
)

// HistoryConfig tunes the aggregate endpoints.
type HistoryConfig struct {
	CacheTTL      time.Duration
	RecentBuckets int
}

// HistoryService derives per-day and per-category aggregates from a
// student's raw logs.
type HistoryService struct {
	repo   logRepository
	tables emission.Tables
	cache  *CacheService
	config HistoryConfig
	logger *zap.Logger
}

// NewHistoryService constructs a HistoryService.
func NewHistoryService(repo logRepository, tables emission.Tables, cache *CacheService, config HistoryConfig, logger *zap.Logger) *HistoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.RecentBuckets <= 0 {
		config.RecentBuckets = 7
	}
	if config.CacheTTL <= 0 {
		config.CacheTTL = 5 * time.Minute
	}
	return &HistoryService{repo: repo, tables: tables, cache: cache, config: config, logger: logger}
}

// Daily returns the full calendar-day history, oldest first. Logs sharing a
// date collapse into one bucket regardless of their time of day.
func (s *HistoryService) Daily(ctx context.Context, studentID string) (*dto.HistoryResponse, error) {
	cacheKey := "history:" + studentID + ":daily"
	var cached dto.HistoryResponse
	if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
		return &cached, nil
	}

	logs, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list logs")
	}

	resp := &dto.HistoryResponse{StudentID: studentID, Days: groupByDate(logs)}
	if err := s.cache.Set(ctx, cacheKey, resp, s.config.CacheTTL); err != nil {
		s.logger.Warn("failed to cache daily history", zap.Error(err))
	}
	return resp, nil
}

// Recent returns the last n active days for the dashboard chart, oldest
// first. Days without logs do not produce empty buckets. A non-positive
// buckets value falls back to the configured window.
func (s *HistoryService) Recent(ctx context.Context, studentID string, buckets int) (*dto.RecentResponse, error) {
	daily, err := s.Daily(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if buckets <= 0 {
		buckets = s.config.RecentBuckets
	}
	days := daily.Days
	if len(days) > buckets {
		days = days[len(days)-buckets:]
	}
	return &dto.RecentResponse{StudentID: studentID, Days: days}, nil
}

// Breakdown splits the cumulative footprint by category. The weights are
// recomputed from the stored quantities against the current emission tables,
// so a table revision retroactively reshapes the chart.
func (s *HistoryService) Breakdown(ctx context.Context, studentID string) (*dto.BreakdownResponse, error) {
	cacheKey := "history:" + studentID + ":breakdown"
	var cached dto.BreakdownResponse
	if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
		return &cached, nil
	}

	logs, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list logs")
	}

	resp := &dto.BreakdownResponse{StudentID: studentID}
	for _, log := range logs {
		for _, entry := range log.Transport {
			if factor, ok := s.tables.TransportFactor(entry.Mode); ok {
				resp.Transport += entry.DistanceKm * factor
			}
		}
		for _, entry := range log.Waste {
			if factor, ok := s.tables.WasteFactor(entry.Item); ok {
				resp.Waste += entry.Count * factor
			}
		}
		for _, entry := range log.Digital {
			if factor, ok := s.tables.DigitalFactor(entry.Device); ok {
				resp.Digital += entry.Hours * factor
			}
		}
	}
	resp.TotalCo2Kg = resp.Transport + resp.Waste + resp.Digital

	if err := s.cache.Set(ctx, cacheKey, resp, s.config.CacheTTL); err != nil {
		s.logger.Warn("failed to cache breakdown", zap.Error(err))
	}
	return resp, nil
}

// groupByDate buckets logs by their calendar date string and sums totals.
// Date strings are ISO formatted, so lexicographic order is date order.
func groupByDate(logs []models.DailyLog) []dto.DailyTotal {
	byDate := make(map[string]*dto.DailyTotal)
	for _, log := range logs {
		bucket, ok := byDate[log.LogDate]
		if !ok {
			bucket = &dto.DailyTotal{Date: log.LogDate}
			byDate[log.LogDate] = bucket
		}
		bucket.TotalCo2Kg += log.TotalCo2Kg
		bucket.LogCount++
	}

	days := make([]dto.DailyTotal, 0, len(byDate))
	for _, bucket := range byDate {
		days = append(days, *bucket)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days
}

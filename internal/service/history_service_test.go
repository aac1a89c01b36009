package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ecolog-api/internal/emission"
	"github.com/noah-isme/ecolog-api/internal/models"
)

func historyLogs() []models.DailyLog {
	return []models.DailyLog{
		{ID: "c", LogDate: "2026-03-07", Timestamp: 3, TotalCo2Kg: 1.0},
		{ID: "b", LogDate: "2026-03-05", Timestamp: 2, TotalCo2Kg: 0.5,
			Waste: models.WasteList{{Item: models.WastePlastic, Count: 3}}},
		{ID: "a", LogDate: "2026-03-05", Timestamp: 1, TotalCo2Kg: 2.5,
			Transport: models.TransportList{{Mode: models.TransportCar, DistanceKm: 10}}},
	}
}

func TestHistoryDailyGroupsAndSorts(t *testing.T) {
	repo := &logRepoStub{logs: historyLogs()}
	svc := NewHistoryService(repo, emission.Default(), nil, HistoryConfig{}, nil)

	resp, err := svc.Daily(context.Background(), "HS001")
	require.NoError(t, err)
	require.Len(t, resp.Days, 2)
	assert.Equal(t, "2026-03-05", resp.Days[0].Date)
	assert.InDelta(t, 3.0, resp.Days[0].TotalCo2Kg, 1e-9)
	assert.Equal(t, 2, resp.Days[0].LogCount)
	assert.Equal(t, "2026-03-07", resp.Days[1].Date)
}

func TestHistoryRecentWindow(t *testing.T) {
	logs := make([]models.DailyLog, 0, 10)
	for i := 0; i < 10; i++ {
		logs = append(logs, models.DailyLog{
			ID:         fmt.Sprintf("log-%d", i),
			LogDate:    fmt.Sprintf("2026-03-%02d", i+1),
			TotalCo2Kg: 1,
		})
	}
	repo := &logRepoStub{logs: logs}
	svc := NewHistoryService(repo, emission.Default(), nil, HistoryConfig{RecentBuckets: 7}, nil)

	resp, err := svc.Recent(context.Background(), "HS001", 0)
	require.NoError(t, err)
	require.Len(t, resp.Days, 7)
	// keeps the most recent dates, still ascending
	assert.Less(t, resp.Days[0].Date, resp.Days[6].Date)

	override, err := svc.Recent(context.Background(), "HS001", 3)
	require.NoError(t, err)
	require.Len(t, override.Days, 3)
	assert.Equal(t, "2026-03-08", override.Days[0].Date)
}

func TestHistoryBreakdownRecomputesFromQuantities(t *testing.T) {
	repo := &logRepoStub{logs: historyLogs()}
	svc := NewHistoryService(repo, emission.Default(), nil, HistoryConfig{}, nil)

	resp, err := svc.Breakdown(context.Background(), "HS001")
	require.NoError(t, err)
	// 10 km by car at 0.25 kg/km, 3 plastic items at 0.08 kg each
	assert.InDelta(t, 2.5, resp.Transport, 1e-9)
	assert.InDelta(t, 0.24, resp.Waste, 1e-9)
	assert.InDelta(t, 0.0, resp.Digital, 1e-9)
	assert.InDelta(t, 2.74, resp.TotalCo2Kg, 1e-9)
}

func TestHistoryEmpty(t *testing.T) {
	repo := &logRepoStub{}
	svc := NewHistoryService(repo, emission.Default(), nil, HistoryConfig{}, nil)

	daily, err := svc.Daily(context.Background(), "HS001")
	require.NoError(t, err)
	assert.Empty(t, daily.Days)

	breakdown, err := svc.Breakdown(context.Background(), "HS001")
	require.NoError(t, err)
	assert.Zero(t, breakdown.TotalCo2Kg)
}

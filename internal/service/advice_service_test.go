package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ecolog-api/internal/models"
)

func adviceLog() *models.DailyLog {
	return &models.DailyLog{
		StudentID:  "HS001",
		TotalCo2Kg: 2.5,
		Transport:  models.TransportList{{Mode: models.TransportCar, DistanceKm: 10}},
	}
}

func TestAdviceRemoteProvider(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.URL.Query().Get("model"))
		_, _ = w.Write([]byte("Hãy thử đi xe buýt thay vì ô tô để giảm khí thải nhé!"))
	}))
	defer server.Close()

	svc := NewAdviceService(AdviceConfig{
		Enabled: true,
		BaseURL: server.URL,
		Models:  []string{"openai"},
		Timeout: time.Second,
	}, nil, nil)

	tip := svc.AdviceFor(context.Background(), adviceLog())
	assert.Contains(t, tip, "xe buýt")
}

func TestAdviceFallsThroughProviderChain(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte("Đi chung xe với bạn giúp giảm phát thải đáng kể!"))
	}))
	defer server.Close()

	svc := NewAdviceService(AdviceConfig{
		Enabled: true,
		BaseURL: server.URL,
		Models:  []string{"openai", "mistral"},
		Timeout: time.Second,
	}, nil, nil)

	tip := svc.AdviceFor(context.Background(), adviceLog())
	assert.Equal(t, 2, calls)
	assert.Contains(t, tip, "chung xe")
}

func TestAdviceRejectsUnusableResponses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("Error: model unavailable at this time"))
	}))
	defer server.Close()

	svc := NewAdviceService(AdviceConfig{
		Enabled: true,
		BaseURL: server.URL,
		Models:  []string{"openai"},
		Timeout: time.Second,
	}, nil, nil)

	// falls back to the local pool; the log is car-dominated
	tip := svc.AdviceFor(context.Background(), adviceLog())
	require.NotEmpty(t, tip)
	assert.Contains(t, localTips[models.CategoryTransport], tip)
}

func TestAdviceDisabledUsesLocalPool(t *testing.T) {
	svc := NewAdviceService(AdviceConfig{Enabled: false}, nil, nil)

	log := &models.DailyLog{
		Waste: models.WasteList{{Item: models.WasteStyrofoam, Count: 2}},
	}
	tip := svc.AdviceFor(context.Background(), log)
	assert.Contains(t, localTips[models.CategoryWaste], tip)
}

func TestDominantCategoryPriorities(t *testing.T) {
	// single-use waste wins over motorized transport
	log := &models.DailyLog{
		Transport: models.TransportList{{Mode: models.TransportCar, DistanceKm: 5}},
		Waste:     models.WasteList{{Item: models.WastePlastic, Count: 1}},
	}
	assert.Equal(t, models.CategoryWaste, dominantCategory(log))

	// heavy screen time without the above
	log = &models.DailyLog{
		Digital: models.DigitalList{{Device: models.DeviceTV, Hours: 5}},
	}
	assert.Equal(t, models.CategoryDigital, dominantCategory(log))
}

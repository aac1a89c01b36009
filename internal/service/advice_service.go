package service

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/ecolog-api/internal/models"
)

// AdviceConfig controls the remote tip providers.
type AdviceConfig struct {
	Enabled bool
	BaseURL string
	Models  []string
	Timeout time.Duration
}

// AdviceService produces a short coaching tip for a saved log. It tries each
// remote text model in order and falls back to a canned local tip, so a
// provider outage never degrades the save flow.
type AdviceService struct {
	config  AdviceConfig
	client  *http.Client
	metrics *MetricsService
	logger  *zap.Logger
}

// NewAdviceService constructs an AdviceService.
func NewAdviceService(config AdviceConfig, metrics *MetricsService, logger *zap.Logger) *AdviceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.Timeout <= 0 {
		config.Timeout = 8 * time.Second
	}
	if len(config.Models) == 0 {
		config.Models = []string{"openai", "mistral", "llama", "searchgpt"}
	}
	return &AdviceService{
		config:  config,
		client:  &http.Client{Timeout: config.Timeout},
		metrics: metrics,
		logger:  logger,
	}
}

// AdviceFor returns a tip for the log. It never returns an error; the local
// tip pool covers every failure mode.
func (s *AdviceService) AdviceFor(ctx context.Context, log *models.DailyLog) string {
	if !s.config.Enabled {
		s.metrics.RecordAdviceOutcome("disabled")
		return localTip(log)
	}

	prompt := buildPrompt(log)
	for _, model := range s.config.Models {
		tip, err := s.fetch(ctx, model, prompt)
		if err != nil {
			s.logger.Debug("advice provider failed", zap.String("model", model), zap.Error(err))
			continue
		}
		s.metrics.RecordAdviceOutcome("remote")
		return tip
	}

	s.metrics.RecordAdviceOutcome("local")
	return localTip(log)
}

func (s *AdviceService) fetch(ctx context.Context, model, prompt string) (string, error) {
	endpoint := fmt.Sprintf("%s/%s?model=%s&seed=%d",
		strings.TrimRight(s.config.BaseURL, "/"),
		url.PathEscape(prompt),
		url.QueryEscape(model),
		rand.Intn(1000))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("provider %s returned status %d", model, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return "", err
	}

	tip := strings.TrimSpace(string(body))
	if len(tip) <= 10 || strings.Contains(tip, "Error") {
		return "", fmt.Errorf("provider %s returned an unusable tip", model)
	}
	return tip, nil
}

func buildPrompt(log *models.DailyLog) string {
	var b strings.Builder
	b.WriteString("Bạn là trợ lý môi trường cho học sinh. ")
	b.WriteString(fmt.Sprintf("Hôm nay em thải %.2f kg CO2", log.TotalCo2Kg))
	if len(log.Transport) > 0 {
		b.WriteString(", có di chuyển")
	}
	if len(log.Waste) > 0 {
		b.WriteString(", có xả rác")
	}
	if len(log.Digital) > 0 {
		b.WriteString(", có dùng thiết bị điện tử")
	}
	b.WriteString(". Hãy đưa ra một lời khuyên ngắn gọn, thân thiện (tối đa 2 câu) giúp em giảm phát thải.")
	return b.String()
}

var localTips = map[models.Category][]string{
	models.CategoryTransport: {
		"Thử đi bộ hoặc đạp xe đến trường vài ngày mỗi tuần để giảm khí thải nhé!",
		"Đi chung xe với bạn bè giúp giảm đáng kể lượng CO2 đấy!",
	},
	models.CategoryWaste: {
		"Hãy mang theo bình nước và hộp đựng để giảm rác nhựa dùng một lần nhé!",
		"Phân loại rác và tái chế giấy giúp hành tinh xanh hơn mỗi ngày!",
	},
	models.CategoryDigital: {
		"Giảm bớt thời gian dùng thiết bị điện tử vừa tốt cho mắt vừa tiết kiệm điện!",
		"Tắt thiết bị khi không dùng để tiết kiệm năng lượng nhé!",
	},
}

// localTip picks a canned tip for the log's dominant concern: single-use
// waste first, then motorized transport, then heavy screen time.
func localTip(log *models.DailyLog) string {
	category := dominantCategory(log)
	tips := localTips[category]
	return tips[rand.Intn(len(tips))]
}

func dominantCategory(log *models.DailyLog) models.Category {
	for _, entry := range log.Waste {
		if entry.Item == models.WastePlastic || entry.Item == models.WasteStyrofoam {
			return models.CategoryWaste
		}
	}
	for _, entry := range log.Transport {
		if entry.Mode == models.TransportCar || entry.Mode == models.TransportMotorbike {
			return models.CategoryTransport
		}
	}
	var screenHours float64
	for _, entry := range log.Digital {
		screenHours += entry.Hours
	}
	if screenHours > 4 {
		return models.CategoryDigital
	}

	categories := []models.Category{models.CategoryTransport, models.CategoryWaste, models.CategoryDigital}
	return categories[rand.Intn(len(categories))]
}

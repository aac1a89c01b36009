package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ecolog-api/internal/dto"
	"github.com/noah-isme/ecolog-api/internal/models"
)

type logbookServiceMock struct {
	previewResp *dto.PreviewResponse
	saveResp    *dto.SaveLogResponse
	saveErr     error
	listResp    *dto.LogListResponse
	savedFor    string
}

func (m *logbookServiceMock) Preview(ctx context.Context, req dto.SaveLogRequest) (*dto.PreviewResponse, error) {
	return m.previewResp, nil
}

func (m *logbookServiceMock) Save(ctx context.Context, studentID string, req dto.SaveLogRequest) (*dto.SaveLogResponse, error) {
	m.savedFor = studentID
	return m.saveResp, m.saveErr
}

func (m *logbookServiceMock) History(ctx context.Context, studentID string) (*dto.LogListResponse, error) {
	return m.listResp, nil
}

func TestLogbookHandlerSave(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &logbookServiceMock{
		saveResp: &dto.SaveLogResponse{Log: &models.DailyLog{ID: "1700000000000abcde", StudentID: "HS001"}},
	}
	handler := NewLogbookHandler(mockSvc)

	payload, _ := json.Marshal(dto.SaveLogRequest{
		Date:      "2026-03-05",
		Time:      "07:15",
		Transport: []dto.TransportInput{{Type: string(models.TransportBicycle), Minutes: 20}},
	})
	c, w := newGinContext(http.MethodPost, "/students/HS001/logs", payload)
	c.Params = gin.Params{{Key: "id", Value: "HS001"}}

	handler.Save(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "HS001", mockSvc.savedFor)
}

func TestLogbookHandlerSaveInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewLogbookHandler(&logbookServiceMock{})

	c, w := newGinContext(http.MethodPost, "/students/HS001/logs", []byte(`not json`))
	c.Params = gin.Params{{Key: "id", Value: "HS001"}}

	handler.Save(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogbookHandlerPreview(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &logbookServiceMock{
		previewResp: &dto.PreviewResponse{TotalCo2Kg: 2.5},
	}
	handler := NewLogbookHandler(mockSvc)

	payload, _ := json.Marshal(dto.SaveLogRequest{Date: "2026-03-05", Time: "07:15"})
	c, w := newGinContext(http.MethodPost, "/students/HS001/logs/preview", payload)
	c.Params = gin.Params{{Key: "id", Value: "HS001"}}

	handler.Preview(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "2.5")
}

func TestLogbookHandlerList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &logbookServiceMock{
		listResp: &dto.LogListResponse{StudentID: "HS001", Logs: []models.DailyLog{}},
	}
	handler := NewLogbookHandler(mockSvc)

	c, w := newGinContext(http.MethodGet, "/students/HS001/logs", nil)
	c.Params = gin.Params{{Key: "id", Value: "HS001"}}

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)
}

package service

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/ecolog-api/internal/models"
	"github.com/noah-isme/ecolog-api/pkg/export"
	"github.com/noah-isme/ecolog-api/pkg/storage"
)

var exportHeaders = []string{
	"StudentId", "Name", "Class", "Date", "Month", "Time",
	"TransportKm", "WasteCount", "DigitalHours", "TotalCo2",
}

type exportStudentSource interface {
	Roster(ctx context.Context) ([]models.RosterEntry, error)
}

type exportLogSource interface {
	ListByTimestampRange(ctx context.Context, fromMillis, toMillis int64) ([]models.DailyLog, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Format       models.ReportFormat
	ExpiresAt    time.Time
}

// ExportService builds monthly emission datasets and persists rendered files.
type ExportService struct {
	students exportStudentSource
	logs     exportLogSource
	storage  fileStorage
	csv      csvRenderer
	pdf      pdfRenderer
	signer   *storage.SignedURLSigner
	logger   *zap.Logger
	cfg      ExportConfig
}

// NewExportService constructs an ExportService.
func NewExportService(students exportStudentSource, logs exportLogSource, store fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		students: students,
		logs:     logs,
		storage:  store,
		csv:      csv,
		pdf:      pdf,
		signer:   signer,
		logger:   logger,
		cfg:      cfg,
	}
}

// Generate builds the dataset for the job's months and stores the rendered
// export.
func (s *ExportService) Generate(ctx context.Context, job *models.ReportJob) (*ExportResult, error) {
	if job == nil {
		return nil, fmt.Errorf("job nil")
	}
	dataset, title, err := s.buildDataset(ctx, job.Params)
	if err != nil {
		return nil, err
	}

	var payload []byte
	switch job.Params.Format {
	case models.ReportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case models.ReportFormatPDF:
		payload, err = s.pdf.Render(dataset, title)
	default:
		err = fmt.Errorf("unsupported format %s", job.Params.Format)
	}
	if err != nil {
		return nil, err
	}

	filename := s.buildFilename(job)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		return nil, err
	}
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}
	signedURL := fmt.Sprintf("%s/reports/download/%s", prefix, token)

	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          signedURL,
		Format:       job.Params.Format,
		ExpiresAt:    expiresAt,
	}, nil
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (jobID, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

// Cleanup removes files older than ttl (defaults to configured ResultTTL).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

func (s *ExportService) buildFilename(job *models.ReportJob) string {
	timestamp := time.Now().UTC().Format("20060102_150405")
	months := make([]string, 0, len(job.Params.Months))
	for _, m := range job.Params.Months {
		months = append(months, fmt.Sprintf("%02d", m))
	}
	return fmt.Sprintf("emissions_%d_%s_%s.%s", job.Params.Year, strings.Join(months, "-"), timestamp, job.Params.Format)
}

// buildDataset assembles per-student chronological rows for the requested
// months, a summary line per student, and a blank separator between
// students. Students with no matching logs are omitted entirely. Month
// membership derives from each log's timestamp in the server's local
// timezone, not from the stored date string.
func (s *ExportService) buildDataset(ctx context.Context, params models.ReportJobParams) (export.Dataset, string, error) {
	if params.Year == 0 || len(params.Months) == 0 {
		return export.Dataset{}, "", fmt.Errorf("report requires a year and at least one month")
	}

	roster, err := s.students.Roster(ctx)
	if err != nil {
		return export.Dataset{}, "", err
	}

	wanted := make(map[int]bool, len(params.Months))
	months := append([]int(nil), params.Months...)
	sort.Ints(months)
	for _, m := range months {
		wanted[m] = true
	}

	from := time.Date(params.Year, time.Month(months[0]), 1, 0, 0, 0, 0, time.Local)
	to := time.Date(params.Year, time.Month(months[len(months)-1])+1, 1, 0, 0, 0, 0, time.Local).UnixMilli() - 1

	logs, err := s.logs.ListByTimestampRange(ctx, from.UnixMilli(), to)
	if err != nil {
		return export.Dataset{}, "", err
	}

	byStudent := make(map[string][]models.DailyLog)
	for _, log := range logs {
		at := log.Time().In(time.Local)
		if at.Year() != params.Year || !wanted[int(at.Month())] {
			continue
		}
		byStudent[log.StudentID] = append(byStudent[log.StudentID], log)
	}

	rows := make([]map[string]string, 0, len(logs)+2*len(roster))
	for _, student := range roster {
		studentLogs := byStudent[student.StudentID]
		if len(studentLogs) == 0 {
			continue
		}
		sort.Slice(studentLogs, func(i, j int) bool {
			return studentLogs[i].Timestamp < studentLogs[j].Timestamp
		})

		var sumKm, sumCount, sumHours, sumCo2 float64
		for _, log := range studentLogs {
			var km, count, hours float64
			for _, e := range log.Transport {
				km += e.DistanceKm
			}
			for _, e := range log.Waste {
				count += e.Count
			}
			for _, e := range log.Digital {
				hours += e.Hours
			}
			at := log.Time().In(time.Local)
			rows = append(rows, map[string]string{
				"StudentId":    student.StudentID,
				"Name":         student.Name,
				"Class":        student.ClassLabel,
				"Date":         at.Format("02/01/2006"),
				"Month":        fmt.Sprintf("%02d", int(at.Month())),
				"Time":         at.Format("15:04"),
				"TransportKm":  formatDecimal(km),
				"WasteCount":   formatDecimal(count),
				"DigitalHours": formatDecimal(hours),
				"TotalCo2":     formatDecimal(log.TotalCo2Kg),
			})
			sumKm += km
			sumCount += count
			sumHours += hours
			sumCo2 += log.TotalCo2Kg
		}

		rows = append(rows, map[string]string{
			"StudentId":    student.StudentID,
			"Name":         student.Name,
			"Class":        student.ClassLabel,
			"Date":         "TOTAL",
			"TransportKm":  formatDecimal(sumKm),
			"WasteCount":   formatDecimal(sumCount),
			"DigitalHours": formatDecimal(sumHours),
			"TotalCo2":     formatDecimal(sumCo2),
		})
		rows = append(rows, map[string]string{})
	}

	dataset := export.Dataset{Headers: exportHeaders, Rows: rows}
	title := fmt.Sprintf("Emission Report %d", params.Year)
	return dataset, title, nil
}

// formatDecimal renders a number with two decimals and a comma separator,
// matching the spreadsheet locale the export targets.
func formatDecimal(v float64) string {
	return strings.ReplaceAll(fmt.Sprintf("%.2f", v), ".", ",")
}

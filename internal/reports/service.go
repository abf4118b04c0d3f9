package reports

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/fdg312/energy-hub/internal/aggregate"
	"github.com/fdg312/energy-hub/internal/blob"
	"github.com/fdg312/energy-hub/internal/daykey"
	"github.com/fdg312/energy-hub/internal/storage"
	"github.com/fdg312/energy-hub/internal/userctx"
	"github.com/google/uuid"
)

var (
	ErrInvalidFormat    = fmt.Errorf("invalid format")
	ErrInvalidDate      = fmt.Errorf("invalid date format")
	ErrInvalidDateRange = fmt.Errorf("from date must be before to date")
	ErrRangeTooLarge    = fmt.Errorf("date range too large")
	ErrProfileNotFound  = fmt.Errorf("profile not found")
	ErrReportNotFound   = fmt.Errorf("report not found")
)

// Storage — данные, нужные сервису отчётов: метаданные отчётов плюс
// дневные логи, из которых строятся агрегаты.
type Storage interface {
	storage.ReportsStorage

	GetProfile(ctx context.Context, id uuid.UUID) (*storage.Profile, error)
	GetLatestEnergyRecord(ctx context.Context, profileID uuid.UUID) (storage.EnergyRecord, bool, error)
	ListMeals(ctx context.Context, profileID uuid.UUID, from, to string) ([]storage.MealEntry, error)
	ListWaterDays(ctx context.Context, profileID uuid.UUID, from, to string) ([]storage.WaterDay, error)
	ListSleepDays(ctx context.Context, profileID uuid.UUID, from, to string) ([]storage.SleepEntry, error)
}

// Service строит отчёты из тех же дневных агрегатов, что и trend-окно
// дашборда, и хранит байты локально или в объектном хранилище.
type Service struct {
	storage         Storage
	generator       *Generator
	blobStore       blob.Store
	maxRangeDays    int
	presignTTL      int
	localMode       bool // true if no S3 configured
	publicBaseURL   string
	preferPublicURL bool
}

func NewService(st Storage, blobStore blob.Store, maxRangeDays, presignTTL int, publicBaseURL string, preferPublicURL bool) *Service {
	return &Service{
		storage:         st,
		generator:       NewGenerator(),
		blobStore:       blobStore,
		maxRangeDays:    maxRangeDays,
		presignTTL:      presignTTL,
		localMode:       blobStore == nil,
		publicBaseURL:   publicBaseURL,
		preferPublicURL: preferPublicURL,
	}
}

// CreateReport generates a report over [from, to] and persists it.
func (s *Service) CreateReport(ctx context.Context, req CreateReportRequest) (*Report, error) {
	if req.Format != FormatPDF && req.Format != FormatCSV {
		return nil, ErrInvalidFormat
	}

	fromDate, err := daykey.Parse(req.From)
	if err != nil {
		return nil, ErrInvalidDate
	}
	toDate, err := daykey.Parse(req.To)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if fromDate.After(toDate) {
		return nil, ErrInvalidDateRange
	}

	// Количество дней включительно
	rangeDays := int(toDate.Sub(fromDate).Hours()/24) + 1
	if rangeDays > s.maxRangeDays {
		return nil, ErrRangeTooLarge
	}

	profile, err := s.ensureProfileAccess(ctx, req.ProfileID)
	if err != nil {
		return nil, err
	}

	data, err := s.generate(ctx, profile, req, rangeDays)
	if err != nil {
		return nil, fmt.Errorf("failed to generate report: %w", err)
	}

	report := &storage.ReportMeta{
		ProfileID: req.ProfileID,
		Format:    req.Format,
		FromDate:  req.From,
		ToDate:    req.To,
		SizeBytes: int64(len(data)),
		Status:    StatusReady,
	}

	if s.localMode {
		report.Data = data
	} else {
		objectKey := fmt.Sprintf("reports/%s/%s_%s_%s.%s",
			req.ProfileID.String(), req.From, req.To, uuid.New().String(), req.Format)

		if _, err := s.blobStore.PutObject(ctx, objectKey, data, contentTypeFor(req.Format)); err != nil {
			return nil, fmt.Errorf("failed to upload report: %w", err)
		}
		report.ObjectKey = &objectKey
	}

	if err := s.storage.CreateReport(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to save report metadata: %w", err)
	}

	return s.toReport(report), nil
}

// generate fetches the range's logs and renders them. The per-day
// aggregates here are built by the same bucketer the dashboard uses,
// so a report never disagrees with the trend view.
func (s *Service) generate(ctx context.Context, profile *storage.Profile, req CreateReportRequest, rangeDays int) ([]byte, error) {
	meals, err := s.storage.ListMeals(ctx, req.ProfileID, req.From, req.To)
	if err != nil {
		return nil, err
	}
	water, err := s.storage.ListWaterDays(ctx, req.ProfileID, req.From, req.To)
	if err != nil {
		return nil, err
	}
	sleep, err := s.storage.ListSleepDays(ctx, req.ProfileID, req.From, req.To)
	if err != nil {
		return nil, err
	}

	days, err := aggregate.BuildTrendWindow(req.To, rangeDays, meals, water, sleep)
	if err != nil {
		return nil, err
	}

	var target *storage.EnergyRecord
	if rec, ok, err := s.storage.GetLatestEnergyRecord(ctx, req.ProfileID); err == nil && ok {
		target = &rec
	}

	return s.generator.Render(req.Format, profile, target, days, req.From, req.To)
}

// GetReport retrieves a report by ID
func (s *Service) GetReport(ctx context.Context, id uuid.UUID) (*Report, error) {
	meta, err := s.storage.GetReport(ctx, id)
	if err != nil {
		return nil, ErrReportNotFound
	}
	if _, err := s.ensureProfileAccess(ctx, meta.ProfileID); err != nil {
		return nil, ErrReportNotFound
	}

	return s.toReport(meta), nil
}

// ListReports lists reports for a profile, newest first.
func (s *Service) ListReports(ctx context.Context, profileID uuid.UUID, limit, offset int) ([]Report, error) {
	if _, err := s.ensureProfileAccess(ctx, profileID); err != nil {
		return nil, err
	}

	metaList, err := s.storage.ListReports(ctx, profileID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	reports := make([]Report, len(metaList))
	for i := range metaList {
		reports[i] = *s.toReport(&metaList[i])
	}

	return reports, nil
}

// DeleteReport deletes a report and its stored object.
func (s *Service) DeleteReport(ctx context.Context, id uuid.UUID) error {
	meta, err := s.storage.GetReport(ctx, id)
	if err != nil {
		return ErrReportNotFound
	}
	if _, err := s.ensureProfileAccess(ctx, meta.ProfileID); err != nil {
		return ErrReportNotFound
	}

	if !s.localMode && meta.ObjectKey != nil {
		if err := s.blobStore.DeleteObject(ctx, *meta.ObjectKey); err != nil {
			// Metadata deletion matters more than the orphaned object
			log.Printf("WARN reports: failed to delete object %s: %v", *meta.ObjectKey, err)
		}
	}

	if err := s.storage.DeleteReport(ctx, id); err != nil {
		return fmt.Errorf("failed to delete report metadata: %w", err)
	}

	return nil
}

// GetReportDownloadURL generates a download URL for a report
func (s *Service) GetReportDownloadURL(ctx context.Context, id uuid.UUID, baseURL string) (string, error) {
	meta, err := s.storage.GetReport(ctx, id)
	if err != nil {
		return "", ErrReportNotFound
	}
	if _, err := s.ensureProfileAccess(ctx, meta.ProfileID); err != nil {
		return "", ErrReportNotFound
	}

	if s.localMode {
		return fmt.Sprintf("%s/v1/reports/%s/download", strings.TrimSuffix(baseURL, "/"), id.String()), nil
	}

	if meta.ObjectKey == nil {
		return "", fmt.Errorf("object key is missing")
	}

	if s.preferPublicURL && s.publicBaseURL != "" {
		return strings.TrimSuffix(s.publicBaseURL, "/") + "/" + *meta.ObjectKey, nil
	}

	presignedURL, err := s.blobStore.PresignGet(ctx, *meta.ObjectKey, s.presignTTL)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return presignedURL, nil
}

// GetReportData returns the raw bytes for direct download.
func (s *Service) GetReportData(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	meta, err := s.storage.GetReport(ctx, id)
	if err != nil {
		return nil, "", ErrReportNotFound
	}
	if _, err := s.ensureProfileAccess(ctx, meta.ProfileID); err != nil {
		return nil, "", ErrReportNotFound
	}

	contentType := contentTypeFor(meta.Format)

	if s.localMode {
		return meta.Data, contentType, nil
	}

	if meta.ObjectKey == nil {
		return nil, "", fmt.Errorf("object key is missing")
	}

	data, err := s.blobStore.GetObject(ctx, *meta.ObjectKey)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch report object: %w", err)
	}
	return data, contentType, nil
}

func (s *Service) ensureProfileAccess(ctx context.Context, profileID uuid.UUID) (*storage.Profile, error) {
	profile, err := s.storage.GetProfile(ctx, profileID)
	if err != nil {
		return nil, ErrProfileNotFound
	}

	if userID, ok := userctx.GetUserID(ctx); ok && strings.TrimSpace(userID) != "" && profile.OwnerUserID != userID {
		return nil, ErrProfileNotFound
	}

	return profile, nil
}

func (s *Service) toReport(meta *storage.ReportMeta) *Report {
	return &Report{
		ID:        meta.ID,
		ProfileID: meta.ProfileID,
		Format:    meta.Format,
		FromDate:  meta.FromDate,
		ToDate:    meta.ToDate,
		ObjectKey: meta.ObjectKey,
		SizeBytes: meta.SizeBytes,
		Status:    meta.Status,
		Error:     meta.Error,
		CreatedAt: meta.CreatedAt,
		UpdatedAt: meta.UpdatedAt,
		Data:      meta.Data,
	}
}

func contentTypeFor(format string) string {
	if format == FormatCSV {
		return "text/csv"
	}
	return "application/pdf"
}

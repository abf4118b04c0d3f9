package reports

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
)

// Handler содержит HTTP обработчики для отчётов
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleCreate обрабатывает POST /v1/reports
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON")
		return
	}

	report, err := h.service.CreateReport(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidFormat):
			writeError(w, http.StatusBadRequest, "invalid_format", "Format must be 'pdf' or 'csv'")
		case errors.Is(err, ErrInvalidDate):
			writeError(w, http.StatusBadRequest, "invalid_date", "Invalid date format, use YYYY-MM-DD")
		case errors.Is(err, ErrInvalidDateRange):
			writeError(w, http.StatusBadRequest, "invalid_range", "From date must be before to date")
		case errors.Is(err, ErrRangeTooLarge):
			writeError(w, http.StatusBadRequest, "range_too_large", fmt.Sprintf("Date range exceeds maximum of %d days", h.service.maxRangeDays))
		case errors.Is(err, ErrProfileNotFound):
			writeError(w, http.StatusNotFound, "profile_not_found", "Profile not found")
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", "Failed to create report")
		}
		return
	}

	downloadURL, err := h.service.GetReportDownloadURL(r.Context(), report.ID, getBaseURL(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to generate download URL")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(h.toDTO(report, downloadURL))
}

// HandleList обрабатывает GET /v1/reports?profile_id=...
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	profileID, err := uuid.Parse(r.URL.Query().Get("profile_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_profile_id", "profile_id is required")
		return
	}

	limit := 20
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 {
		limit = l
	}
	offset := 0
	if o, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && o >= 0 {
		offset = o
	}

	reports, err := h.service.ListReports(r.Context(), profileID, limit, offset)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			writeError(w, http.StatusNotFound, "profile_not_found", "Profile not found")
		} else {
			writeError(w, http.StatusInternalServerError, "internal_error", "Failed to list reports")
		}
		return
	}

	baseURL := getBaseURL(r)
	dtos := make([]ReportDTO, len(reports))
	for i := range reports {
		downloadURL, _ := h.service.GetReportDownloadURL(r.Context(), reports[i].ID, baseURL)
		dtos[i] = h.toDTO(&reports[i], downloadURL)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ReportsResponse{Reports: dtos})
}

// HandleDownload обрабатывает GET /v1/reports/{id}/download
func (h *Handler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	reportID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "Invalid report ID")
		return
	}

	report, err := h.service.GetReport(r.Context(), reportID)
	if err != nil {
		if errors.Is(err, ErrReportNotFound) {
			writeError(w, http.StatusNotFound, "report_not_found", "Report not found")
		} else {
			writeError(w, http.StatusInternalServerError, "internal_error", "Failed to get report")
		}
		return
	}

	if h.service.localMode {
		data, contentType, err := h.service.GetReportData(r.Context(), reportID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", "Failed to read report data")
			return
		}

		filename := fmt.Sprintf("report_%s_%s.%s", report.FromDate, report.ToDate, report.Format)
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		w.Write(data)
		return
	}

	// S3 mode: redirect to presigned/public URL
	downloadURL, err := h.service.GetReportDownloadURL(r.Context(), reportID, getBaseURL(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to generate download URL")
		return
	}
	http.Redirect(w, r, downloadURL, http.StatusFound)
}

// HandleDelete обрабатывает DELETE /v1/reports/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	reportID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "Invalid report ID")
		return
	}

	if err := h.service.DeleteReport(r.Context(), reportID); err != nil {
		if errors.Is(err, ErrReportNotFound) {
			writeError(w, http.StatusNotFound, "report_not_found", "Report not found")
		} else {
			writeError(w, http.StatusInternalServerError, "internal_error", "Failed to delete report")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) toDTO(report *Report, downloadURL string) ReportDTO {
	return ReportDTO{
		ID:          report.ID,
		ProfileID:   report.ProfileID,
		Format:      report.Format,
		From:        report.FromDate,
		To:          report.ToDate,
		DownloadURL: downloadURL,
		SizeBytes:   report.SizeBytes,
		Status:      report.Status,
		CreatedAt:   report.CreatedAt,
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

func getBaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s", scheme, r.Host)
}

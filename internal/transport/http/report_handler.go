package http

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "buoyqc/internal/errors"
)

// ReportHandler serves generated QC report files.
type ReportHandler struct {
	reportsDir string
	logger     *slog.Logger
}

// NewReportHandler creates a report handler rooted at reportsDir.
func NewReportHandler(reportsDir string, logger *slog.Logger) *ReportHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportHandler{
		reportsDir: reportsDir,
		logger:     logger.With(slog.String("component", "report_handler")),
	}
}

// Routes returns the report routes.
func (h *ReportHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.ListReports)
	r.Get("/{filename}", h.DownloadReport)

	return r
}

// ReportInfo describes one generated report file.
type ReportInfo struct {
	Name     string    `json:"name"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}

// ReportListResponse is the report listing payload.
type ReportListResponse struct {
	Reports []ReportInfo `json:"reports"`
	Count   int          `json:"count"`
}

// Render implements render.Renderer.
func (r *ReportListResponse) Render(w http.ResponseWriter, req *http.Request) error {
	return nil
}

// ListReports handles GET /api/reports.
func (h *ReportHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	entries, err := os.ReadDir(h.reportsDir)
	if err != nil {
		if os.IsNotExist(err) {
			render.Render(w, r, &ReportListResponse{Reports: []ReportInfo{}})
			return
		}
		h.logger.ErrorContext(r.Context(), "failed to read reports directory",
			slog.String("dir", h.reportsDir),
			slog.String("error", err.Error()))
		render.Render(w, r, apierrors.FileSystemError(err))
		return
	}

	reports := make([]ReportInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !isReportFile(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		reports = append(reports, ReportInfo{
			Name:     entry.Name(),
			Size:     info.Size(),
			Modified: info.ModTime(),
		})
	}

	render.Render(w, r, &ReportListResponse{Reports: reports, Count: len(reports)})
}

// DownloadReport handles GET /api/reports/{filename}.
func (h *ReportHandler) DownloadReport(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")

	// Reject path traversal; reports live flat in the reports directory.
	if filename == "" || filename != filepath.Base(filename) || strings.HasPrefix(filename, ".") {
		render.Render(w, r, apierrors.ErrInvalidRequest)
		return
	}
	if !isReportFile(filename) {
		render.Render(w, r, apierrors.ErrInvalidRequest)
		return
	}

	path := filepath.Join(h.reportsDir, filename)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			render.Render(w, r, apierrors.NotFoundError(filename))
			return
		}
		render.Render(w, r, apierrors.FileSystemError(err))
		return
	}

	h.logger.InfoContext(r.Context(), "serving report file",
		slog.String("filename", filename))
	http.ServeFile(w, r, path)
}

// isReportFile reports whether the filename has a servable report
// extension.
func isReportFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".xlsx":
		return true
	}
	return false
}

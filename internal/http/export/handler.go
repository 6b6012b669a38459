package export

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/MrJamesThe3rd/rentbook/internal/export"
	"github.com/MrJamesThe3rd/rentbook/internal/http/respond"
	"github.com/MrJamesThe3rd/rentbook/internal/taxprep"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	summaryFileName = "summary.txt"
)

type Handler struct {
	reports *taxprep.Service
	now     func() time.Time
}

func NewHandler(reports *taxprep.Service) *Handler {
	return &Handler{reports: reports, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.workbook)
	r.Get("/summary", h.summary)
	r.Get("/download", h.download)
}

func (h *Handler) workbook(w http.ResponseWriter, r *http.Request) {
	report, ok := h.load(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, report); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", attachment(export.FileName(report.Year)))
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	report, ok := h.load(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, export.GenerateSummary(report))
}

// download bundles the workbook and the text summary into one zip archive.
func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	report, ok := h.load(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := writeBundle(&buf, report); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", attachment(fmt.Sprintf("rentbook-export-%d.zip", report.Year)))

	if _, err := w.Write(buf.Bytes()); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("failed to write zip")
	}
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) (*taxprep.Report, bool) {
	year, ok := respond.Year(w, r, h.now())
	if !ok {
		return nil, false
	}

	report, err := h.reports.Report(r.Context(), year)
	if err != nil {
		respond.Error(w, r, err)
		return nil, false
	}

	return report, true
}

func writeBundle(w io.Writer, report *taxprep.Report) error {
	zw := zip.NewWriter(w)

	xf, err := zw.Create(export.FileName(report.Year))
	if err != nil {
		return fmt.Errorf("adding workbook: %w", err)
	}

	if err := export.WriteXLSX(xf, report); err != nil {
		return err
	}

	sf, err := zw.Create(summaryFileName)
	if err != nil {
		return fmt.Errorf("adding summary: %w", err)
	}

	if _, err := io.WriteString(sf, export.GenerateSummary(report)); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("closing zip: %w", err)
	}

	return nil
}

func attachment(name string) string {
	return fmt.Sprintf("attachment; filename=%q", name)
}

package statement

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/rentbook/internal/http/respond"
	"github.com/MrJamesThe3rd/rentbook/internal/ingest"
	"github.com/MrJamesThe3rd/rentbook/internal/statement"
)

type Handler struct {
	statements *statement.Service
	ingest     *ingest.Service
	folder     string
}

// NewHandler serves statements. folder is the source folder synced when a
// request names none.
func NewHandler(statements *statement.Service, ingest *ingest.Service, folder string) *Handler {
	return &Handler{statements: statements, ingest: ingest, folder: folder}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/sync", h.sync)
	r.Post("/analyze", h.analyzePending)
	r.Get("/{id}", h.get)
	r.Post("/{id}/analyze", h.analyze)
	r.Delete("/{id}/transactions", h.reset)
}

type summaryResponse struct {
	ID                uuid.UUID `json:"id"`
	Date              string    `json:"date"`
	FileName          string    `json:"file_name"`
	ExternalReference string    `json:"external_reference"`
	PropertyName      string    `json:"property_name"`
	TransactionCount  int       `json:"transaction_count"`
	HasText           bool      `json:"has_text"`
	NeedsAnalysis     bool      `json:"needs_analysis"`
	CreatedAt         time.Time `json:"created_at"`
}

type statementResponse struct {
	ID                uuid.UUID `json:"id"`
	Date              string    `json:"date"`
	FileName          string    `json:"file_name"`
	ExternalReference string    `json:"external_reference"`
	PropertyID        uuid.UUID `json:"property_id"`
	RawText           *string   `json:"raw_text"`
	CreatedAt         time.Time `json:"created_at"`
}

type syncRequest struct {
	Folder string `json:"folder"`
}

type resetResponse struct {
	Deleted int64 `json:"deleted"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.statements.List(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]summaryResponse, len(summaries))
	for i, s := range summaries {
		resp[i] = summaryResponse{
			ID:                s.ID,
			Date:              s.Date.Format(time.DateOnly),
			FileName:          s.FileName,
			ExternalReference: s.ExternalReference,
			PropertyName:      s.PropertyName,
			TransactionCount:  s.TransactionCount,
			HasText:           s.RawText != nil && *s.RawText != "",
			NeedsAnalysis:     s.NeedsAnalysis(),
			CreatedAt:         s.CreatedAt,
		}
	}

	respond.OK(w, r, resp)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	st, err := h.statements.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.OK(w, r, statementResponse{
		ID:                st.ID,
		Date:              st.Date.Format(time.DateOnly),
		FileName:          st.FileName,
		ExternalReference: st.ExternalReference,
		PropertyID:        st.PropertyID,
		RawText:           st.RawText,
		CreatedAt:         st.CreatedAt,
	})
}

// sync accepts an optional {"folder": "..."} body.
func (h *Handler) sync(w http.ResponseWriter, r *http.Request) {
	req := syncRequest{Folder: h.folder}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respond.BadRequest(w, r, "invalid request body: "+err.Error())
		return
	}

	if req.Folder == "" {
		req.Folder = h.folder
	}

	report, err := h.ingest.Sync(r.Context(), req.Folder)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.OK(w, r, report)
}

func (h *Handler) analyze(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	analysis, err := h.ingest.AnalyzeStatement(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.OK(w, r, analysis)
}

func (h *Handler) analyzePending(w http.ResponseWriter, r *http.Request) {
	report, err := h.ingest.AnalyzePending(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.OK(w, r, report)
}

func (h *Handler) reset(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	n, err := h.ingest.ResetStatement(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.OK(w, r, resetResponse{Deleted: n})
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.BadRequest(w, r, "invalid id")
		return uuid.Nil, false
	}

	return id, true
}

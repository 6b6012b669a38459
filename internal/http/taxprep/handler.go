package taxprep

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/rentbook/internal/advisor"
	"github.com/MrJamesThe3rd/rentbook/internal/http/respond"
	txhttp "github.com/MrJamesThe3rd/rentbook/internal/http/transaction"
	"github.com/MrJamesThe3rd/rentbook/internal/taxcategory"
	"github.com/MrJamesThe3rd/rentbook/internal/taxprep"
)

type Handler struct {
	reports *taxprep.Service
	advisor *advisor.Service
	now     func() time.Time
}

func NewHandler(reports *taxprep.Service, advisor *advisor.Service) *Handler {
	return &Handler{reports: reports, advisor: advisor, now: time.Now}
}

// Routes take an optional year query parameter, defaulting to the current
// year.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.report)
	r.Get("/suggestions", h.suggestions)
}

type groupResponse struct {
	Category     taxcategory.Category `json:"category"`
	Total        decimal.Decimal      `json:"total"`
	Count        int                  `json:"transaction_count"`
	Transactions []txhttp.Response    `json:"transactions"`
}

type reportResponse struct {
	Year            int             `json:"year"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	Groups          []groupResponse `json:"category_groups"`
}

func (h *Handler) report(w http.ResponseWriter, r *http.Request) {
	year, ok := respond.Year(w, r, h.now())
	if !ok {
		return
	}

	report, err := h.reports.Report(r.Context(), year)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := reportResponse{
		Year:            report.Year,
		TotalDeductions: report.TotalDeductions,
		Groups:          make([]groupResponse, len(report.Groups)),
	}

	for i, g := range report.Groups {
		resp.Groups[i] = groupResponse{
			Category:     g.Category,
			Total:        g.Total,
			Count:        g.Count,
			Transactions: txhttp.ToResponseList(g.Transactions),
		}
	}

	respond.OK(w, r, resp)
}

func (h *Handler) suggestions(w http.ResponseWriter, r *http.Request) {
	year, ok := respond.Year(w, r, h.now())
	if !ok {
		return
	}

	suggestions, err := h.advisor.Suggest(r.Context(), year)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.OK(w, r, suggestions)
}

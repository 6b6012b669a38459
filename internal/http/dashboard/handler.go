package dashboard

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/rentbook/internal/dashboard"
	"github.com/MrJamesThe3rd/rentbook/internal/http/respond"
	txhttp "github.com/MrJamesThe3rd/rentbook/internal/http/transaction"
)

type Handler struct {
	svc *dashboard.Service
	now func() time.Time
}

func NewHandler(svc *dashboard.Service) *Handler {
	return &Handler{svc: svc, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.summary)
}

type summaryResponse struct {
	WindowStart  string            `json:"window_start"`
	IncomeTotal  decimal.Decimal   `json:"income_total"`
	ExpenseTotal decimal.Decimal   `json:"expense_total"`
	Net          decimal.Decimal   `json:"net"`
	Recent       []txhttp.Response `json:"recent"`
}

// summary covers the current year unless since (YYYY-MM-DD) is given.
func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	since := dashboard.YearStart(h.now())

	if s := r.URL.Query().Get("since"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			respond.BadRequest(w, r, "invalid since: "+s)
			return
		}

		since = t
	}

	sum, err := h.svc.Summarize(r.Context(), since)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.OK(w, r, summaryResponse{
		WindowStart:  sum.WindowStart.Format(time.DateOnly),
		IncomeTotal:  sum.IncomeTotal,
		ExpenseTotal: sum.ExpenseTotal,
		Net:          sum.Net,
		Recent:       txhttp.ToResponseList(sum.Recent),
	})
}

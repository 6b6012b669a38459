package http_test

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/rentbook/internal/advisor"
	"github.com/MrJamesThe3rd/rentbook/internal/apperr"
	"github.com/MrJamesThe3rd/rentbook/internal/dashboard"
	"github.com/MrJamesThe3rd/rentbook/internal/docstore"
	apihttp "github.com/MrJamesThe3rd/rentbook/internal/http"
	dashboardhttp "github.com/MrJamesThe3rd/rentbook/internal/http/dashboard"
	exporthttp "github.com/MrJamesThe3rd/rentbook/internal/http/export"
	statementhttp "github.com/MrJamesThe3rd/rentbook/internal/http/statement"
	taxprephttp "github.com/MrJamesThe3rd/rentbook/internal/http/taxprep"
	txhttp "github.com/MrJamesThe3rd/rentbook/internal/http/transaction"
	"github.com/MrJamesThe3rd/rentbook/internal/ingest"
	"github.com/MrJamesThe3rd/rentbook/internal/reasoning"
	"github.com/MrJamesThe3rd/rentbook/internal/statement"
	"github.com/MrJamesThe3rd/rentbook/internal/taxprep"
	"github.com/MrJamesThe3rd/rentbook/internal/transaction"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type mocks struct {
	transactions *transaction.MockRepository
	statements   *statement.MockRepository
}

func newRouter(t *testing.T, folder string) (http.Handler, mocks) {
	t.Helper()

	ctrl := gomock.NewController(t)

	m := mocks{
		transactions: transaction.NewMockRepository(ctrl),
		statements:   statement.NewMockRepository(ctrl),
	}

	var (
		txSvc       = transaction.NewService(m.transactions)
		stSvc       = statement.NewService(m.statements)
		reports     = taxprep.NewService(txSvc)
		noReasoning = apperr.Configuration("GEMINI_API_KEY is not set")
		ingestSvc   = ingest.NewService(ingest.Deps{
			Documents:    docstore.Unavailable(apperr.Configuration("GOOGLE_CREDENTIALS_JSON is not set")),
			Statements:   stSvc,
			Transactions: txSvc,
		})
	)

	router := apihttp.New(zerolog.Nop(), apihttp.Options{CORSOrigins: []string{"*"}}, apihttp.Handlers{
		Transactions: txhttp.NewHandler(txSvc),
		Statements:   statementhttp.NewHandler(stSvc, ingestSvc, folder),
		Dashboard:    dashboardhttp.NewHandler(dashboard.NewService(txSvc)),
		TaxPrep:      taxprephttp.NewHandler(reports, advisor.NewService(reports, reasoning.Unavailable(noReasoning))),
		Export:       exporthttp.NewHandler(reports),
	})

	return router, m
}

func do(t *testing.T, h http.Handler, method, target string, body io.Reader) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	req := httptest.NewRequest(method, target, body)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}

	return w, env
}

func sampleTransactions() []*transaction.Transaction {
	return []*transaction.Transaction{
		{
			ID:           uuid.New(),
			Date:         time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			Amount:       decimal.RequireFromString("1800.00"),
			Category:     new("Rent"),
			Vendor:       new("Tenant"),
			PropertyName: "Elm Street",
		},
		{
			ID:           uuid.New(),
			Date:         time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
			Amount:       decimal.RequireFromString("-120.50"),
			Category:     new("Plumbing repair"),
			Vendor:       new("Joe's Plumbing"),
			PropertyName: "Elm Street",
		},
	}
}

func TestRouter_Transactions(t *testing.T) {
	t.Run("List applies query filters", func(t *testing.T) {
		router, m := newRouter(t, "")

		m.transactions.EXPECT().
			ListTransactions(gomock.Any(), transaction.ListFilter{FlaggedOnly: true, Newest: true, Limit: 5}).
			Return(sampleTransactions()[1:], nil)

		w, env := do(t, router, http.MethodGet, "/api/v1/transactions?flagged=true&limit=5", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, env.Success)
		assert.NotEmpty(t, w.Header().Get("Request-Id"))

		var got []txhttp.Response
		require.NoError(t, json.Unmarshal(env.Data, &got))
		require.Len(t, got, 1)
		assert.Equal(t, "2024-03-05", got[0].Date)
		assert.True(t, decimal.RequireFromString("-120.50").Equal(got[0].Amount))
		assert.Equal(t, "Repairs", string(got[0].TaxCategory))
	})

	t.Run("Invalid limit", func(t *testing.T) {
		router, _ := newRouter(t, "")

		w, env := do(t, router, http.MethodGet, "/api/v1/transactions?limit=0", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.False(t, env.Success)
		assert.Contains(t, env.Error, "limit")
	})

	t.Run("Not found", func(t *testing.T) {
		router, m := newRouter(t, "")
		id := uuid.New()

		m.transactions.EXPECT().GetTransaction(gomock.Any(), id).Return(nil, transaction.ErrNotFound)

		w, env := do(t, router, http.MethodGet, "/api/v1/transactions/"+id.String(), nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "transaction not found", env.Error)
	})
}

func TestRouter_Statements(t *testing.T) {
	id := uuid.New()
	stored := &statement.Statement{
		ID:                id,
		Date:              time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC),
		ExternalReference: "https://drive.example/april",
		FileName:          "april.pdf",
		RawText:           new("statement text"),
	}

	t.Run("Get", func(t *testing.T) {
		router, m := newRouter(t, "")

		m.statements.EXPECT().GetStatement(gomock.Any(), id).Return(stored, nil)

		w, env := do(t, router, http.MethodGet, "/api/v1/statements/"+id.String(), nil)

		require.Equal(t, http.StatusOK, w.Code)

		var got map[string]any
		require.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, "2024-04-30", got["date"])
		assert.Equal(t, "april.pdf", got["file_name"])
		assert.Equal(t, "statement text", got["raw_text"])
	})

	t.Run("Analyze refuses extracted statement", func(t *testing.T) {
		router, m := newRouter(t, "")

		m.statements.EXPECT().GetStatement(gomock.Any(), id).Return(stored, nil)
		m.transactions.EXPECT().CountByStatement(gomock.Any(), id).Return(3, nil)

		w, env := do(t, router, http.MethodPost, "/api/v1/statements/"+id.String()+"/analyze", nil)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.False(t, env.Success)
		assert.Contains(t, env.Error, transaction.ErrAlreadyExtracted.Error())
	})

	t.Run("Reset", func(t *testing.T) {
		router, m := newRouter(t, "")

		m.statements.EXPECT().GetStatement(gomock.Any(), id).Return(stored, nil)
		m.transactions.EXPECT().DeleteByStatement(gomock.Any(), id).Return(int64(4), nil)

		w, env := do(t, router, http.MethodDelete, "/api/v1/statements/"+id.String()+"/transactions", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"deleted":4}`, string(env.Data))
	})

	t.Run("Invalid id", func(t *testing.T) {
		router, _ := newRouter(t, "")

		w, env := do(t, router, http.MethodGet, "/api/v1/statements/not-a-uuid", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "invalid id", env.Error)
	})

	t.Run("Sync without folder", func(t *testing.T) {
		router, _ := newRouter(t, "")

		w, env := do(t, router, http.MethodPost, "/api/v1/statements/sync", nil)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, env.Error, "SOURCE_FOLDER_ID")
	})

	t.Run("Sync without credentials", func(t *testing.T) {
		router, _ := newRouter(t, "folder-1")

		w, env := do(t, router, http.MethodPost, "/api/v1/statements/sync", bytes.NewBufferString(`{"folder":""}`))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "GOOGLE_CREDENTIALS_JSON is not set", env.Error)
	})

	t.Run("Sync with malformed body", func(t *testing.T) {
		router, _ := newRouter(t, "folder-1")

		w, _ := do(t, router, http.MethodPost, "/api/v1/statements/sync", bytes.NewBufferString(`{`))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRouter_Dashboard(t *testing.T) {
	router, m := newRouter(t, "")
	txs := sampleTransactions()

	m.transactions.EXPECT().
		ListTransactions(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, f transaction.ListFilter) ([]*transaction.Transaction, error) {
			if f.Limit == dashboard.RecentLimit {
				return []*transaction.Transaction{txs[1], txs[0]}, nil
			}

			if assert.NotNil(t, f.StartDate) {
				assert.Equal(t, "2024-01-01", f.StartDate.Format(time.DateOnly))
			}

			return txs, nil
		}).
		Times(2)

	w, env := do(t, router, http.MethodGet, "/api/v1/dashboard?since=2024-01-01", nil)

	require.Equal(t, http.StatusOK, w.Code)

	var got struct {
		WindowStart  string            `json:"window_start"`
		IncomeTotal  decimal.Decimal   `json:"income_total"`
		ExpenseTotal decimal.Decimal   `json:"expense_total"`
		Net          decimal.Decimal   `json:"net"`
		Recent       []txhttp.Response `json:"recent"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &got))

	assert.Equal(t, "2024-01-01", got.WindowStart)
	assert.True(t, decimal.RequireFromString("1800").Equal(got.IncomeTotal))
	assert.True(t, decimal.RequireFromString("120.50").Equal(got.ExpenseTotal))
	assert.True(t, decimal.RequireFromString("1679.50").Equal(got.Net))
	assert.Len(t, got.Recent, 2)
}

func TestRouter_TaxPrep(t *testing.T) {
	t.Run("Report", func(t *testing.T) {
		router, m := newRouter(t, "")

		m.transactions.EXPECT().ListTransactions(gomock.Any(), gomock.Any()).Return(sampleTransactions(), nil)

		w, env := do(t, router, http.MethodGet, "/api/v1/taxprep?year=2024", nil)

		require.Equal(t, http.StatusOK, w.Code)

		var got struct {
			Year            int             `json:"year"`
			TotalDeductions decimal.Decimal `json:"total_deductions"`
			Groups          []struct {
				Category string `json:"category"`
				Count    int    `json:"transaction_count"`
			} `json:"category_groups"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &got))

		assert.Equal(t, 2024, got.Year)
		assert.True(t, decimal.RequireFromString("120.50").Equal(got.TotalDeductions))
		require.Len(t, got.Groups, 1)
		assert.Equal(t, "Repairs", got.Groups[0].Category)
		assert.Equal(t, 1, got.Groups[0].Count)
	})

	t.Run("Invalid year", func(t *testing.T) {
		router, _ := newRouter(t, "")

		w, env := do(t, router, http.MethodGet, "/api/v1/taxprep?year=abc", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "invalid year: abc", env.Error)
	})

	t.Run("Load failure", func(t *testing.T) {
		router, m := newRouter(t, "")

		m.transactions.EXPECT().ListTransactions(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection refused"))

		w, env := do(t, router, http.MethodGet, "/api/v1/taxprep?year=2024", nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, env.Error, "connection refused")
	})

	t.Run("Suggestions without reasoning service", func(t *testing.T) {
		router, m := newRouter(t, "")

		m.transactions.EXPECT().ListTransactions(gomock.Any(), gomock.Any()).Return(sampleTransactions(), nil)

		w, env := do(t, router, http.MethodGet, "/api/v1/taxprep/suggestions?year=2024", nil)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "GEMINI_API_KEY is not set", env.Error)
	})
}

func TestRouter_Export(t *testing.T) {
	t.Run("Workbook", func(t *testing.T) {
		router, m := newRouter(t, "")

		m.transactions.EXPECT().ListTransactions(gomock.Any(), gomock.Any()).Return(sampleTransactions(), nil)

		w, _ := do(t, router, http.MethodGet, "/api/v1/export?year=2024", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Disposition"), "rentbook-schedule-e-2024.xlsx")
		assert.NotZero(t, w.Body.Len())
	})

	t.Run("Summary", func(t *testing.T) {
		router, m := newRouter(t, "")

		m.transactions.EXPECT().ListTransactions(gomock.Any(), gomock.Any()).Return(sampleTransactions(), nil)

		w, _ := do(t, router, http.MethodGet, "/api/v1/export/summary?year=2024", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "* Repairs | 1 | $120.50")
	})

	t.Run("Download bundles workbook and summary", func(t *testing.T) {
		router, m := newRouter(t, "")

		m.transactions.EXPECT().ListTransactions(gomock.Any(), gomock.Any()).Return(sampleTransactions(), nil)

		w, _ := do(t, router, http.MethodGet, "/api/v1/export/download?year=2024", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/zip", w.Header().Get("Content-Type"))

		zr, err := zip.NewReader(bytes.NewReader(w.Body.Bytes()), int64(w.Body.Len()))
		require.NoError(t, err)

		var names []string
		for _, f := range zr.File {
			names = append(names, f.Name)
		}

		assert.Equal(t, []string{"rentbook-schedule-e-2024.xlsx", "summary.txt"}, names)
	})
}

package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/MrJamesThe3rd/rentbook/internal/http/dashboard"
	"github.com/MrJamesThe3rd/rentbook/internal/http/export"
	"github.com/MrJamesThe3rd/rentbook/internal/http/statement"
	"github.com/MrJamesThe3rd/rentbook/internal/http/taxprep"
	"github.com/MrJamesThe3rd/rentbook/internal/http/transaction"
	"github.com/MrJamesThe3rd/rentbook/internal/logger"
)

type Options struct {
	CORSOrigins []string
	// Timeout bounds every request. Zero disables it.
	Timeout time.Duration
}

type Handlers struct {
	Transactions *transaction.Handler
	Statements   *statement.Handler
	Dashboard    *dashboard.Handler
	TaxPrep      *taxprep.Handler
	Export       *export.Handler
}

func New(log zerolog.Logger, opts Options, h Handlers) http.Handler {
	router := chi.NewRouter()

	router.Use(hlog.NewHandler(log))
	router.Use(hlog.RequestIDHandler("req_id", "Request-Id"))
	router.Use(hlog.AccessHandler(accessLog))
	router.Use(contextLogger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	if opts.Timeout > 0 {
		router.Use(middleware.Timeout(opts.Timeout))
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/transactions", h.Transactions.Routes)
		r.Route("/statements", h.Statements.Routes)
		r.Route("/dashboard", h.Dashboard.Routes)
		r.Route("/taxprep", h.TaxPrep.Routes)
		r.Route("/export", h.Export.Routes)
	})

	return router
}

func accessLog(r *http.Request, status, size int, duration time.Duration) {
	hlog.FromRequest(r).Info().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("size", size).
		Dur("duration", duration).
		Msg("http request")
}

// contextLogger makes the request logger reachable through logger.FromContext
// so services log with the request id attached.
func contextLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logger.WithContext(r.Context(), *hlog.FromRequest(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

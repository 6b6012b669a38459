// Package app builds the services shared by the API server, the CLI and the
// TUI from one configuration.
package app

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"github.com/MrJamesThe3rd/rentbook/internal/advisor"
	"github.com/MrJamesThe3rd/rentbook/internal/apperr"
	"github.com/MrJamesThe3rd/rentbook/internal/config"
	"github.com/MrJamesThe3rd/rentbook/internal/dashboard"
	"github.com/MrJamesThe3rd/rentbook/internal/database"
	"github.com/MrJamesThe3rd/rentbook/internal/docstore"
	"github.com/MrJamesThe3rd/rentbook/internal/docstore/drive"
	"github.com/MrJamesThe3rd/rentbook/internal/docstore/gcs"
	"github.com/MrJamesThe3rd/rentbook/internal/export"
	"github.com/MrJamesThe3rd/rentbook/internal/extraction"
	"github.com/MrJamesThe3rd/rentbook/internal/ingest"
	"github.com/MrJamesThe3rd/rentbook/internal/property"
	propertyStore "github.com/MrJamesThe3rd/rentbook/internal/property/store"
	"github.com/MrJamesThe3rd/rentbook/internal/reasoning"
	"github.com/MrJamesThe3rd/rentbook/internal/reasoning/gemini"
	"github.com/MrJamesThe3rd/rentbook/internal/resilience"
	"github.com/MrJamesThe3rd/rentbook/internal/statement"
	statementStore "github.com/MrJamesThe3rd/rentbook/internal/statement/store"
	"github.com/MrJamesThe3rd/rentbook/internal/taxprep"
	"github.com/MrJamesThe3rd/rentbook/internal/textextract"
	"github.com/MrJamesThe3rd/rentbook/internal/transaction"
	txStore "github.com/MrJamesThe3rd/rentbook/internal/transaction/store"
)

type App struct {
	Config *config.Config
	DB     *sql.DB

	Properties   *property.Service
	Statements   *statement.Service
	Transactions *transaction.Service
	Ingest       *ingest.Service
	TaxPrep      *taxprep.Service
	Dashboard    *dashboard.Service
	Advisor      *advisor.Service
	Export       *export.Service

	closers []func() error
}

// New connects to the database and wires every service. Missing Google or
// Gemini credentials do not fail startup: the collaborators that need them
// are replaced by stand-ins that answer with the configuration error, so
// read-only features keep working.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	db, err := database.New(ctx, cfg.ConnectionString(), database.Pool{
		MaxOpen:     cfg.DB.MaxOpenConns,
		MaxIdle:     cfg.DB.MaxIdleConns,
		MaxLifetime: cfg.DB.ConnMaxLifetime,
	})
	if err != nil {
		return nil, err
	}

	a := &App{Config: cfg, DB: db}
	a.closers = append(a.closers, db.Close)

	reasoner, err := newReasoner(ctx, cfg)
	if err != nil {
		log.Warn().Err(err).Msg("reasoning service unavailable")
		reasoner = reasoning.Unavailable(err)
	}

	documents, closeDocs, err := newDocuments(ctx, cfg)
	if err != nil {
		log.Warn().Err(err).Msg("document store unavailable")
		documents = docstore.Unavailable(err)
	} else if closeDocs != nil {
		a.closers = append(a.closers, closeDocs)
	}

	a.Properties = property.NewService(propertyStore.New(db))
	a.Statements = statement.NewService(statementStore.New(db))
	a.Transactions = transaction.NewService(txStore.New(db))
	a.TaxPrep = taxprep.NewService(a.Transactions)
	a.Dashboard = dashboard.NewService(a.Transactions)
	a.Advisor = advisor.NewService(a.TaxPrep, reasoner)
	a.Export = export.NewService(a.TaxPrep)

	a.Ingest = ingest.NewService(ingest.Deps{
		Documents:    documents,
		Text:         textextract.New(),
		Extractor:    extraction.New(reasoner),
		Properties:   a.Properties,
		Statements:   a.Statements,
		Transactions: a.Transactions,
	}, ingest.WithWorkers(cfg.Sync.Workers))

	return a, nil
}

func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}

	return errors.Join(errs...)
}

func newReasoner(ctx context.Context, cfg *config.Config) (reasoning.Client, error) {
	if err := cfg.RequireReasoning(); err != nil {
		return nil, err
	}

	return gemini.New(ctx, gemini.Options{
		APIKey: cfg.Reasoning.APIKey,
		Model:  cfg.Reasoning.Model,
		Policy: resilience.Policy{
			Timeout: cfg.Reasoning.Timeout,
			Retries: cfg.Reasoning.Retries,
		},
	})
}

func newDocuments(ctx context.Context, cfg *config.Config) (docstore.Store, func() error, error) {
	creds, err := credentials(cfg)
	if err != nil {
		return nil, nil, err
	}

	policy := resilience.Policy{Timeout: cfg.Sync.FetchTimeout, Retries: 1}

	switch cfg.Source.Backend {
	case config.SourceDrive:
		s, err := drive.New(ctx, policy, creds)
		if err != nil {
			return nil, nil, err
		}

		return s, nil, nil
	case config.SourceGCS:
		s, err := gcs.New(ctx, policy, creds)
		if err != nil {
			return nil, nil, err
		}

		return s, s.Close, nil
	}

	return nil, nil, apperr.Configuration("SOURCE_BACKEND %q is not one of drive, gcs", cfg.Source.Backend)
}

func credentials(cfg *config.Config) (option.ClientOption, error) {
	switch {
	case cfg.Google.Credentials != "":
		return option.WithCredentialsJSON([]byte(cfg.Google.Credentials)), nil
	case cfg.Google.CredentialsFile != "":
		return option.WithCredentialsFile(cfg.Google.CredentialsFile), nil
	}

	return nil, apperr.Configuration("GOOGLE_CREDENTIALS_JSON or GOOGLE_APPLICATION_CREDENTIALS must be set")
}

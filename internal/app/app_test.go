package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/rentbook/internal/apperr"
	"github.com/MrJamesThe3rd/rentbook/internal/config"
)

func TestCredentials(t *testing.T) {
	t.Run("none configured", func(t *testing.T) {
		_, err := credentials(&config.Config{})
		require.Error(t, err)
		assert.ErrorIs(t, err, apperr.ErrConfiguration)
		assert.Contains(t, err.Error(), "GOOGLE_CREDENTIALS_JSON")
	})

	t.Run("inline json", func(t *testing.T) {
		cfg := &config.Config{}
		cfg.Google.Credentials = `{"type":"service_account"}`

		opt, err := credentials(cfg)
		require.NoError(t, err)
		assert.NotNil(t, opt)
	})

	t.Run("key file", func(t *testing.T) {
		cfg := &config.Config{}
		cfg.Google.CredentialsFile = "/etc/rentbook/key.json"

		opt, err := credentials(cfg)
		require.NoError(t, err)
		assert.NotNil(t, opt)
	})
}

func TestNewDocuments_UnknownBackend(t *testing.T) {
	cfg := &config.Config{}
	cfg.Google.Credentials = `{"type":"service_account"}`
	cfg.Source.Backend = "ftp"

	_, _, err := newDocuments(context.Background(), cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrConfiguration)
	assert.Contains(t, err.Error(), `"ftp"`)
}

func TestNewReasoner_MissingKey(t *testing.T) {
	_, err := newReasoner(context.Background(), &config.Config{})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrConfiguration)
}

func TestClose_ReverseOrderAndJoin(t *testing.T) {
	var order []string

	a := &App{closers: []func() error{
		func() error { order = append(order, "db"); return nil },
		func() error { order = append(order, "gcs"); return assert.AnError },
	}}

	err := a.Close()
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, []string{"gcs", "db"}, order)
}

package logger_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/rentbook/internal/logger"
)

func TestNew_Level(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, logger.New("DEBUG", logger.FormatJSON).GetLevel())
	assert.Equal(t, zerolog.InfoLevel, logger.New("nonsense", logger.FormatConsole).GetLevel())
	assert.Equal(t, zerolog.InfoLevel, logger.New("", logger.FormatJSON).GetLevel())
}

func TestContextRoundTrip(t *testing.T) {
	buf := &bytes.Buffer{}
	l := logger.NewWithWriter(buf)

	ctx := logger.WithContext(context.Background(), l)
	got := logger.FromContext(ctx)
	got.Info().Str("statement", "abc").Msg("stored")

	assert.Contains(t, buf.String(), `"statement":"abc"`)
	assert.Contains(t, buf.String(), `"message":"stored"`)
}

func TestFromContext_DefaultIsSilent(t *testing.T) {
	l := logger.FromContext(context.Background())
	assert.Equal(t, zerolog.Disabled, l.GetLevel())
}

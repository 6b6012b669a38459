package reasoning_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/rentbook/internal/apperr"
	"github.com/MrJamesThe3rd/rentbook/internal/reasoning"
)

func TestCleanJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "Plain", raw: `{"transactions":[]}`, want: `{"transactions":[]}`},
		{name: "JSONFence", raw: "```json\n{\"transactions\":[]}\n```", want: `{"transactions":[]}`},
		{name: "BareFence", raw: "```\n{\"a\":1}\n```\n", want: `{"a":1}`},
		{name: "ChatterKept", raw: "Here you go:\n{\"a\":{\"b\":2}} hope it helps", want: "Here you go:\n{\"a\":{\"b\":2}} hope it helps"},
		{name: "ArrayKept", raw: `[{"transactions":[]}]`, want: `[{"transactions":[]}]`},
		{name: "UnclosedFence", raw: "```json\n{\"a\":1}", want: `{"a":1}`},
		{name: "NotJSON", raw: "sorry, I cannot", want: "sorry, I cannot"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, reasoning.CleanJSON(tt.raw))
		})
	}
}

func TestUnavailable(t *testing.T) {
	_, err := reasoning.Unavailable(apperr.Configuration("GEMINI_API_KEY is not set")).
		Complete(context.Background(), reasoning.Request{Prompt: "x"})
	assert.ErrorIs(t, err, apperr.ErrConfiguration)
	assert.EqualError(t, err, "GEMINI_API_KEY is not set")
}

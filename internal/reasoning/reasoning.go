// Package reasoning defines the contract for the external language-model
// service used to read statements and review deductions.
package reasoning

import (
	"context"
	"strings"
)

// Request is a single structured-output exchange.
type Request struct {
	// System describes the assistant's role.
	System string
	// Prompt carries the task instructions followed by the input material.
	Prompt string
	// Temperature controls sampling; lower is more repeatable.
	Temperature float32
}

//go:generate mockgen -source=reasoning.go -destination=client_mock.go -package=reasoning

// Client returns the raw text of the service's answer, which callers are
// expected to validate. Implementations bound the call in time.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// CleanJSON strips the markdown fence a model may wrap its answer in. Any
// other text is left in place for the caller's decoder to reject.
func CleanJSON(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	idx := strings.Index(s, "\n")
	if idx == -1 {
		return s
	}

	s = s[idx+1:]
	if end := strings.LastIndex(s, "```"); end != -1 {
		s = s[:end]
	}

	return strings.TrimSpace(s)
}

type unavailable struct {
	err error
}

// Unavailable is a Client that fails every call with err. It stands in when
// no reasoning service is configured.
func Unavailable(err error) Client {
	return unavailable{err: err}
}

func (u unavailable) Complete(context.Context, Request) (string, error) {
	return "", u.err
}

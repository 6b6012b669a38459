package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/MrJamesThe3rd/rentbook/internal/apperr"
	"github.com/MrJamesThe3rd/rentbook/internal/reasoning"
	"github.com/MrJamesThe3rd/rentbook/internal/resilience"
)

type Options struct {
	APIKey string
	Model  string
	Policy resilience.Policy
	// BaseURL overrides the API endpoint. Empty uses the public Gemini API.
	BaseURL    string
	HTTPClient *http.Client
}

// Client answers reasoning requests with a Gemini model in JSON mode.
type Client struct {
	models *genai.Models
	model  string
	policy resilience.Policy
}

var _ reasoning.Client = (*Client)(nil)

func New(ctx context.Context, opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, apperr.Configuration("GEMINI_API_KEY is not set")
	}

	cc := &genai.ClientConfig{
		APIKey:     opts.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: opts.HTTPClient,
	}
	if opts.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}

	return &Client{models: client.Models, model: opts.Model, policy: opts.Policy}, nil
}

func (c *Client) Complete(ctx context.Context, req reasoning.Request) (string, error) {
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr(req.Temperature),
	}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}

	text, err := resilience.Call(ctx, c.policy, func(ctx context.Context) (string, error) {
		resp, err := c.models.GenerateContent(ctx, c.model, genai.Text(req.Prompt), cfg)
		if err != nil {
			return "", classify(err)
		}

		out := resp.Text()
		if strings.TrimSpace(out) == "" {
			return "", apperr.Validation("empty response from reasoning service")
		}

		return out, nil
	})
	if err != nil {
		return "", apperr.External("calling reasoning service", err)
	}

	return text, nil
}

func classify(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && resilience.IsTransientStatus(apiErr.Code) {
		return resilience.Transient(err)
	}

	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && resilience.IsTransientStatus(apiErrPtr.Code) {
		return resilience.Transient(err)
	}

	return err
}

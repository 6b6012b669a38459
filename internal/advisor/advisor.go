// Package advisor asks the reasoning service to review a year's deductions.
// Its answers are advice for the owner, not bookkeeping data.
package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/rentbook/internal/apperr"
	"github.com/MrJamesThe3rd/rentbook/internal/logger"
	"github.com/MrJamesThe3rd/rentbook/internal/money"
	"github.com/MrJamesThe3rd/rentbook/internal/reasoning"
	"github.com/MrJamesThe3rd/rentbook/internal/taxcategory"
	"github.com/MrJamesThe3rd/rentbook/internal/taxprep"
	"github.com/MrJamesThe3rd/rentbook/internal/transaction"
)

type Kind string

const (
	KindLowCategory    Kind = "low_category"
	KindCapitalization Kind = "capitalization"
)

// CapitalizationThreshold is the repair amount from which capitalizing
// instead of deducting is worth considering.
var CapitalizationThreshold = decimal.NewFromInt(2500)

type Suggestion struct {
	Type        Kind             `json:"type"`
	Category    string           `json:"category,omitempty"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
}

const systemPrompt = "You are a tax advisor specializing in rental property deductions. " +
	"Answer with a single strict JSON object and nothing else: no markdown, no commentary."

const instructions = `Analyze this data and suggest improvements in two areas:

1. LOW CATEGORIES: categories that look unusually low or are missing, for example no Travel
   expenses although the owner probably visited the property.
2. CAPITALIZATION: for each high-value repair, say whether it should be capitalized and
   depreciated instead of deducted. Improvements, new installations and significant upgrades
   are usually capitalized; routine maintenance and small repairs are deducted.

Answer with exactly this shape:
{"suggestions":[{"type":"low_category","category":"Travel","title":"Missing Travel Expenses","description":"..."},{"type":"capitalization","category":"Repairs","title":"Consider Capitalizing Large Repair","description":"...","amount":3500}]}

Be specific and actionable. Only include suggestions that are relevant.`

type Service struct {
	reports *taxprep.Service
	client  reasoning.Client
}

func NewService(reports *taxprep.Service, client reasoning.Client) *Service {
	return &Service{reports: reports, client: client}
}

// Suggest reviews the deductions of year.
func (s *Service) Suggest(ctx context.Context, year int) ([]Suggestion, error) {
	report, err := s.reports.Report(ctx, year)
	if err != nil {
		return nil, err
	}

	return Review(ctx, s.client, report)
}

// Review sends the category totals and the high-value repairs of report to
// client and validates the answer.
func Review(ctx context.Context, client reasoning.Client, report *taxprep.Report) ([]Suggestion, error) {
	raw, err := client.Complete(ctx, reasoning.Request{
		System:      systemPrompt,
		Prompt:      buildPrompt(report),
		Temperature: 0.3,
	})
	if err != nil {
		return nil, err
	}

	suggestions, err := decodeSuggestions(raw)
	if err != nil {
		log := logger.FromContext(ctx)
		log.Warn().Err(err).Int("response_bytes", len(raw)).Msg("rejected advice response")
		return nil, err
	}

	return suggestions, nil
}

// HighValueRepairs returns the repairs of report whose absolute amount is at
// least CapitalizationThreshold.
func HighValueRepairs(report *taxprep.Report) []*transaction.Transaction {
	group, ok := report.Group(taxcategory.Repairs)
	if !ok {
		return nil
	}

	var out []*transaction.Transaction

	for _, tx := range group.Transactions {
		if tx.Amount.Abs().GreaterThanOrEqual(CapitalizationThreshold) {
			out = append(out, tx)
		}
	}

	return out
}

func buildPrompt(report *taxprep.Report) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "The owner has the following Schedule E deduction categories for %d:\n\n", report.Year)

	if len(report.Groups) == 0 {
		sb.WriteString("- none recorded\n")
	}

	for _, g := range report.Groups {
		fmt.Fprintf(&sb, "- %s: %s (%d transactions)\n", g.Category, money.Format(g.Total), g.Count)
	}

	fmt.Fprintf(&sb, "\nTotal deductions: %s\n\nHigh-value repairs (%s or more):\n", money.Format(report.TotalDeductions), money.Format(CapitalizationThreshold))

	repairs := HighValueRepairs(report)
	if len(repairs) == 0 {
		sb.WriteString("None\n")
	}

	for _, tx := range repairs {
		vendor := "Unknown vendor"
		if tx.Vendor != nil && *tx.Vendor != "" {
			vendor = *tx.Vendor
		}

		fmt.Fprintf(&sb, "- %s on %s from %s\n", money.Format(tx.Amount.Abs()), tx.Date.Format(time.DateOnly), vendor)
	}

	sb.WriteString("\n")
	sb.WriteString(instructions)

	return sb.String()
}

type rawSuggestion struct {
	Type        string           `json:"type"`
	Category    *string          `json:"category"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Amount      *decimal.Decimal `json:"amount"`
}

func decodeSuggestions(raw string) ([]Suggestion, error) {
	var body map[string]json.RawMessage
	if err := json.Unmarshal([]byte(reasoning.CleanJSON(raw)), &body); err != nil {
		return nil, apperr.Validation("advice response is not a JSON object: %v", err)
	}

	list := bytes.TrimSpace(body["suggestions"])
	if len(list) == 0 || list[0] != '[' {
		return nil, apperr.Validation("invalid advice response: suggestions must be an array")
	}

	var items []rawSuggestion
	if err := json.Unmarshal(list, &items); err != nil {
		return nil, apperr.Validation("invalid advice response: %v", err)
	}

	out := make([]Suggestion, 0, len(items))

	for i, it := range items {
		kind := Kind(it.Type)
		if kind != KindLowCategory && kind != KindCapitalization {
			return nil, apperr.Validation("suggestion %d: unknown type %q", i, it.Type)
		}

		if strings.TrimSpace(it.Title) == "" || strings.TrimSpace(it.Description) == "" {
			return nil, apperr.Validation("suggestion %d: title and description are required", i)
		}

		s := Suggestion{
			Type:        kind,
			Title:       strings.TrimSpace(it.Title),
			Description: strings.TrimSpace(it.Description),
			Amount:      it.Amount,
		}
		if it.Category != nil {
			s.Category = strings.TrimSpace(*it.Category)
		}

		out = append(out, s)
	}

	return out, nil
}

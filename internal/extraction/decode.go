package extraction

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/rentbook/internal/apperr"
	"github.com/MrJamesThe3rd/rentbook/internal/reasoning"
)

var dateLayouts = []string{
	time.DateOnly,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"01/02/2006",
}

// decodeResponse validates the service's answer and converts it into
// candidates. Any structural problem rejects the whole answer; absent or
// null fields are not problems and are left for the flag policy.
func decodeResponse(raw string) ([]Candidate, error) {
	dec := json.NewDecoder(strings.NewReader(reasoning.CleanJSON(raw)))
	dec.UseNumber()

	var root any
	if err := dec.Decode(&root); err != nil {
		return nil, apperr.Validation("response is not valid JSON: %v", err)
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, apperr.Validation("response has data after the JSON value")
	}

	obj, ok := root.(map[string]any)
	if !ok {
		return nil, apperr.Validation("response is not a JSON object")
	}

	rawTxs, ok := obj["transactions"]
	if !ok {
		return nil, apperr.Validation("response has no transactions field")
	}

	items, ok := rawTxs.([]any)
	if !ok {
		return nil, apperr.Validation("transactions must be an array")
	}

	out := make([]Candidate, 0, len(items))

	for i, item := range items {
		fields, ok := item.(map[string]any)
		if !ok {
			return nil, apperr.Validation("transaction %d is not an object", i)
		}

		c, err := decodeCandidate(fields)
		if err != nil {
			return nil, apperr.Validation("transaction %d: %v", i, err)
		}

		out = append(out, c)
	}

	return out, nil
}

func decodeCandidate(fields map[string]any) (Candidate, error) {
	var (
		c   Candidate
		err error
	)

	if c.Date, err = dateField(fields, "date"); err != nil {
		return c, err
	}

	amount, err := amountField(fields, "amount")
	if err != nil {
		return c, err
	}

	if amount == nil {
		c.AmountMissing = true
	} else {
		c.Amount = *amount
	}

	if c.Vendor, err = textField(fields, "vendor"); err != nil {
		return c, err
	}

	if c.Category, err = textField(fields, "category"); err != nil {
		return c, err
	}

	if c.Flagged, err = boolField(fields, "isFlagged"); err != nil {
		return c, err
	}

	if c.FlagReason, err = textField(fields, "flagReason"); err != nil {
		return c, err
	}

	return c, nil
}

func dateField(fields map[string]any, key string) (*time.Time, error) {
	v, ok := fields[key]
	if !ok || v == nil {
		return nil, nil
	}

	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("%s must be a string, got %T", key, v)
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &d, nil
		}
	}

	return nil, fmt.Errorf("invalid date format: %s", s)
}

func amountField(fields map[string]any, key string) (*decimal.Decimal, error) {
	v, ok := fields[key]
	if !ok || v == nil {
		return nil, nil
	}

	var (
		d   decimal.Decimal
		err error
	)

	switch n := v.(type) {
	case json.Number:
		d, err = decimal.NewFromString(n.String())
	case string:
		clean := strings.NewReplacer("$", "", ",", "", " ", "").Replace(n)
		if clean == "" {
			return nil, nil
		}

		d, err = decimal.NewFromString(clean)
	default:
		return nil, fmt.Errorf("%s must be a number, got %T", key, v)
	}

	if err != nil {
		return nil, fmt.Errorf("%s is not numeric: %v", key, v)
	}

	d = d.Round(2)

	return &d, nil
}

func textField(fields map[string]any, key string) (*string, error) {
	v, ok := fields[key]
	if !ok || v == nil {
		return nil, nil
	}

	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("%s must be a string, got %T", key, v)
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	return &s, nil
}

func boolField(fields map[string]any, key string) (bool, error) {
	v, ok := fields[key]
	if !ok || v == nil {
		return false, nil
	}

	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%s must be a boolean, got %T", key, v)
	}

	return b, nil
}

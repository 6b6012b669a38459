// Package textextract pulls the plain text out of statement PDFs.
package textextract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/MrJamesThe3rd/rentbook/internal/apperr"
	"github.com/MrJamesThe3rd/rentbook/internal/encoding"
	"github.com/MrJamesThe3rd/rentbook/internal/logger"
)

var pdfMagic = []byte("%PDF-")

// PDF extracts text with a pure-Go PDF reader.
type PDF struct{}

func New() *PDF {
	return &PDF{}
}

// Extract returns the concatenated page text. Documents without a text layer
// (scans) are rejected with a validation error.
func (p *PDF) Extract(ctx context.Context, doc []byte) (text string, err error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if !bytes.HasPrefix(bytes.TrimLeft(doc, " \t\r\n"), pdfMagic) {
		return "", apperr.Validation("document is not a PDF")
	}

	// The reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", apperr.Validation("unreadable PDF: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(doc), int64(len(doc)))
	if err != nil {
		return "", apperr.Validation("unreadable PDF: %v", err)
	}

	plain, err := r.GetPlainText()
	if err != nil {
		return "", apperr.Validation("reading PDF text: %v", err)
	}

	b, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("reading PDF text: %w", err)
	}

	raw, cs := encoding.String(b)
	if cs != encoding.UTF8 {
		log := logger.FromContext(ctx)
		log.Debug().Str("charset", string(cs)).Msg("decoded PDF text layer")
	}

	out := normalize(raw)
	if out == "" {
		return "", apperr.Validation("PDF has no extractable text")
	}

	return out, nil
}

// normalize trims trailing spaces and collapses runs of blank lines.
func normalize(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	blank := false

	for _, l := range lines {
		l = strings.TrimRight(l, " \t")
		if l == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}

			blank = true

			continue
		}

		blank = false
		out = append(out, l)
	}

	return strings.TrimSpace(strings.Join(out, "\n"))
}

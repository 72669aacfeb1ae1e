// Package page reduces raw HTML to the plain-text excerpt sent to the
// extraction service.
package page

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DefaultMaxExcerptLen bounds the excerpt so it stays within the
// extraction service's input limits. It is a tuning knob, not part of
// any protocol.
const DefaultMaxExcerptLen = 8000

// Normalizer implements domain.TextNormalizer.
type Normalizer struct {
	maxLen int
}

// NewNormalizer creates a Normalizer with the given excerpt bound.
// A non-positive bound falls back to DefaultMaxExcerptLen.
func NewNormalizer(maxLen int) *Normalizer {
	if maxLen <= 0 {
		maxLen = DefaultMaxExcerptLen
	}
	return &Normalizer{maxLen: maxLen}
}

// Normalize strips script and style elements, extracts the remaining
// visible text, collapses whitespace runs into single spaces, and hard-
// truncates to the configured bound.
func (n *Normalizer) Normalize(html []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	doc.Find("script, style").Remove()

	text := strings.Join(strings.Fields(doc.Text()), " ")

	// Cut on runes so a multi-byte character is never split.
	runes := []rune(text)
	if len(runes) > n.maxLen {
		text = string(runes[:n.maxLen])
	}
	return text, nil
}

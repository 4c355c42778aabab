// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package detector locates restricted-term occurrences in extracted text
// blocks. Matching is deterministic and pure: the same block and
// dictionary always produce the same matches, in document order.
package detector

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"lexscan/internal/dictionary"
	"lexscan/internal/extractor"
)

// Match is one detected occurrence of a restricted term. Offsets are
// relative to the owning block, not the whole document; whole-document
// offsets are meaningless across page and slide boundaries.
type Match struct {
	// Term is the canonical dictionary phrase.
	Term string

	// Surface is the text exactly as it appeared in the source.
	Surface string

	// Location is the owning block's location tag, propagated unchanged.
	Location extractor.Location

	// Offset is the byte offset of the match within the block content.
	Offset int

	// Snippet is a single-line context window around the match.
	Snippet string

	// PageEstimate is a derived page number for character-offset blocks,
	// computed from the offset and a nominal page size. It is an
	// approximation for display only, never authoritative; it is zero for
	// blocks that carry a real page or slide number.
	PageEstimate int
}

// SnippetConfig bounds the context window captured around each match.
type SnippetConfig struct {
	CharsBefore int
	CharsAfter  int
}

// DefaultPageSizeChars is the nominal characters-per-page constant used
// for display-only page estimates on whole-document text.
const DefaultPageSizeChars = 1800

// Matcher scans text blocks against a term dictionary.
type Matcher struct {
	snippet       SnippetConfig
	pageSizeChars int
}

// NewMatcher creates a matcher with default settings.
func NewMatcher() *Matcher {
	return &Matcher{
		snippet:       SnippetConfig{CharsBefore: 40, CharsAfter: 60},
		pageSizeChars: DefaultPageSizeChars,
	}
}

// WithSnippetWindow sets the context window sizes.
func (m *Matcher) WithSnippetWindow(before, after int) *Matcher {
	if before > 0 {
		m.snippet.CharsBefore = before
	}
	if after > 0 {
		m.snippet.CharsAfter = after
	}
	return m
}

// WithPageSize sets the characters-per-page constant used for page estimates.
func (m *Matcher) WithPageSize(chars int) *Matcher {
	if chars > 0 {
		m.pageSizeChars = chars
	}
	return m
}

// FindMatches returns every case-insensitive, word-boundary match of every
// dictionary term in the block. Matches of the same term never overlap;
// matches of different terms may. No longest-match preference is applied
// here; overlapping terms are reported independently.
func (m *Matcher) FindMatches(block extractor.TextBlock, dict *dictionary.Dictionary) []Match {
	var matches []Match
	lowerContent := toLowerASCII(block.Content)

	for _, term := range dict.Terms() {
		lowerTerm := toLowerASCII(term.Phrase)
		if lowerTerm == "" {
			continue
		}

		searchFrom := 0
		for {
			rel := strings.Index(lowerContent[searchFrom:], lowerTerm)
			if rel < 0 {
				break
			}
			start := searchFrom + rel
			end := start + len(lowerTerm)

			if !isWordBounded(block.Content, start, end) {
				searchFrom = start + 1
				continue
			}

			matches = append(matches, Match{
				Term:         term.Phrase,
				Surface:      block.Content[start:end],
				Location:     block.Location,
				Offset:       start,
				Snippet:      m.buildSnippet(block.Content, start, end),
				PageEstimate: m.pageEstimate(block.Location, start),
			})
			searchFrom = end
		}
	}

	// Document order, regardless of dictionary order. Overlapping matches
	// of different terms tie-break alphabetically.
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Offset != matches[j].Offset {
			return matches[i].Offset < matches[j].Offset
		}
		return matches[i].Term < matches[j].Term
	})
	return matches
}

// toLowerASCII lowercases A-Z only. Full Unicode case folding can change
// byte lengths and would desync match offsets from the source text.
func toLowerASCII(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		b.WriteByte(c)
	}
	return b.String()
}

// isWordBounded reports whether the span [start, end) is not adjacent to
// an alphanumeric character on either side. This prevents "nation"
// matching inside "international".
func isWordBounded(content string, start, end int) bool {
	if start > 0 {
		before, _ := utf8.DecodeLastRuneInString(content[:start])
		if unicode.IsLetter(before) || unicode.IsDigit(before) {
			return false
		}
	}
	if end < len(content) {
		after, _ := utf8.DecodeRuneInString(content[end:])
		if unicode.IsLetter(after) || unicode.IsDigit(after) {
			return false
		}
	}
	return true
}

// buildSnippet captures a bounded window around the match and flattens it
// to a single display line.
func (m *Matcher) buildSnippet(content string, start, end int) string {
	snipStart := start - m.snippet.CharsBefore
	if snipStart < 0 {
		snipStart = 0
	}
	for snipStart > 0 && !utf8.RuneStart(content[snipStart]) {
		snipStart--
	}

	snipEnd := end + m.snippet.CharsAfter
	if snipEnd > len(content) {
		snipEnd = len(content)
	}
	for snipEnd < len(content) && !utf8.RuneStart(content[snipEnd]) {
		snipEnd++
	}

	return flattenWhitespace(content[snipStart:snipEnd])
}

// flattenWhitespace collapses embedded line breaks and tabs so a snippet
// is always a single display line.
func flattenWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\t", " ")
	for strings.Contains(s, "  ") {
		s = strings.ReplaceAll(s, "  ", " ")
	}
	return strings.TrimSpace(s)
}

// pageEstimate derives a display-only page number for character-offset
// blocks. Paginated sources carry their real location and get no estimate.
func (m *Matcher) pageEstimate(loc extractor.Location, offset int) int {
	if loc.Kind != extractor.LocationCharacterOffset {
		return 0
	}
	return offset/m.pageSizeChars + 1
}

// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package extractor converts raw document bytes into location-tagged text
// blocks. Each supported format produces the same TextBlock contract:
// plain text and word-processor documents yield a single block addressed
// by character offset, PDFs yield one block per page, slide decks one
// block per slide. Extraction is all-or-nothing per document.
package extractor

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Format identifies a supported document format.
type Format string

const (
	FormatPlainText Format = "plain_text"
	FormatWord      Format = "word_document"
	FormatPDF       Format = "pdf"
	FormatSlideDeck Format = "slide_deck"
)

// Extraction error taxonomy. Callers should test with errors.Is.
var (
	// ErrUnsupportedFormat indicates the declared format is not recognized.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrCorruptDocument indicates the underlying parser could not open the byte stream.
	ErrCorruptDocument = errors.New("corrupt document")

	// ErrEncoding indicates plain text input that is not valid UTF-8.
	ErrEncoding = errors.New("invalid text encoding")
)

// LocationKind discriminates the location reference attached to a block.
type LocationKind int

const (
	// LocationCharacterOffset addresses whole-document text; match offsets
	// are computed directly against block content.
	LocationCharacterOffset LocationKind = iota

	// LocationPage addresses one PDF page.
	LocationPage

	// LocationSlide addresses one slide of a deck.
	LocationSlide
)

// Location is the stable reference reported for every match found in a
// block. Number is 1-based for pages and slides and unused for
// character-offset blocks.
type Location struct {
	Kind   LocationKind
	Number int
}

func (l Location) String() string {
	switch l.Kind {
	case LocationPage:
		return fmt.Sprintf("page %d", l.Number)
	case LocationSlide:
		return fmt.Sprintf("slide %d", l.Number)
	default:
		return "document"
	}
}

// TextBlock is one unit of extracted text. A block never spans a page or
// slide boundary; that is why paginated formats are extracted per
// page/slide rather than whole-document-then-split.
type TextBlock struct {
	Content  string
	Location Location
}

// Extract converts raw document bytes into a sequence of text blocks for
// the declared format. No partial results are returned on failure.
func Extract(data []byte, format Format) ([]TextBlock, error) {
	switch format {
	case FormatPlainText:
		return extractPlainText(data)
	case FormatWord:
		return extractWord(data)
	case FormatPDF:
		return extractPDF(data)
	case FormatSlideDeck:
		return extractSlideDeck(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// FormatFromPath infers the document format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md", ".text":
		return FormatPlainText, nil
	case ".docx":
		return FormatWord, nil
	case ".pdf":
		return FormatPDF, nil
	case ".pptx":
		return FormatSlideDeck, nil
	default:
		return "", fmt.Errorf("%w: extension %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// extractPlainText decodes the bytes as UTF-8 and yields exactly one block
// anchored at character offset 0.
func extractPlainText(data []byte) ([]TextBlock, error) {
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: input is not valid UTF-8", ErrEncoding)
	}
	return []TextBlock{{
		Content:  string(data),
		Location: Location{Kind: LocationCharacterOffset},
	}}, nil
}

// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extractor

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// extractPDF yields one block per page, in page order, pages numbered from
// 1. Page text is extracted independently; a term split across a page
// boundary is not detected.
func extractPDF(data []byte) ([]TextBlock, error) {
	// Integrity check with pdfcpu before text extraction; its validator
	// rejects truncated and structurally broken files the text extractor
	// would silently misread.
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	if err := api.Validate(bytes.NewReader(data), conf); err != nil {
		return nil, fmt.Errorf("%w: pdf validation failed: %v", ErrCorruptDocument, err)
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: error opening pdf: %v", ErrCorruptDocument, err)
	}

	pageCount := reader.NumPage()
	blocks := make([]TextBlock, 0, pageCount)
	for pageNum := 1; pageNum <= pageCount; pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			// Null page objects still occupy a page slot; report them empty
			// so page numbering stays aligned with the document.
			blocks = append(blocks, TextBlock{
				Location: Location{Kind: LocationPage, Number: pageNum},
			})
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("%w: error extracting text from page %d: %v", ErrCorruptDocument, pageNum, err)
		}

		blocks = append(blocks, TextBlock{
			Content:  cleanPageText(text),
			Location: Location{Kind: LocationPage, Number: pageNum},
		})
	}

	return blocks, nil
}

// cleanPageText trims per-line whitespace and collapses runs of spaces
// while preserving line structure.
func cleanPageText(text string) string {
	lines := strings.Split(text, "\n")
	cleaned := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(line)
		for strings.Contains(line, "  ") {
			line = strings.ReplaceAll(line, "  ", " ")
		}
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}

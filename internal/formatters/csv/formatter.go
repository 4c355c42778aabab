// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package csv

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"lexscan/internal/formatters"
	"lexscan/internal/scanner"
)

// Formatter implements CSV output formatting
type Formatter struct{}

// NewFormatter creates a new CSV formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "csv"
}

func (f *Formatter) Description() string {
	return "Comma-separated values for spreadsheet import"
}

func (f *Formatter) FileExtension() string {
	return ".csv"
}

func (f *Formatter) Format(result *scanner.ScanResult, options formatters.FormatterOptions) (string, error) {
	var builder strings.Builder
	writer := csv.NewWriter(&builder)

	header := []string{"term", "surface", "location", "offset", "snippet", "page_estimate", "status", "replacements"}
	if err := writer.Write(header); err != nil {
		return "", fmt.Errorf("error writing CSV header: %w", err)
	}

	for _, finding := range result.Accepted {
		if err := writer.Write(row(finding, "accepted")); err != nil {
			return "", fmt.Errorf("error writing CSV row: %w", err)
		}
	}
	if options.ShowSkipped {
		for _, finding := range result.Skipped {
			if err := writer.Write(row(finding, string(finding.Verdict))); err != nil {
				return "", fmt.Errorf("error writing CSV row: %w", err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("error flushing CSV output: %w", err)
	}
	return builder.String(), nil
}

func row(finding scanner.Finding, status string) []string {
	pageEstimate := ""
	if finding.Match.PageEstimate > 0 {
		pageEstimate = strconv.Itoa(finding.Match.PageEstimate)
	}
	return []string{
		finding.Match.Term,
		finding.Match.Surface,
		finding.Match.Location.String(),
		strconv.Itoa(finding.Match.Offset),
		finding.Match.Snippet,
		pageEstimate,
		status,
		strings.Join(finding.Replacements, "; "),
	}
}

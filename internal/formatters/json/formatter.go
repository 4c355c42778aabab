// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package json

import (
	"encoding/json"
	"fmt"

	"lexscan/internal/formatters"
	"lexscan/internal/scanner"
)

// Formatter implements JSON output formatting
type Formatter struct{}

// NewFormatter creates a new JSON formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "json"
}

func (f *Formatter) Description() string {
	return "Machine-readable JSON output"
}

func (f *Formatter) FileExtension() string {
	return ".json"
}

// output is the serialized document shape shared with the yaml formatter.
type Output struct {
	Source   string         `json:"source,omitempty" yaml:"source,omitempty"`
	Total    int            `json:"total" yaml:"total"`
	Findings []Finding      `json:"findings" yaml:"findings"`
	Skipped  []Finding      `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Summary  []SummaryEntry `json:"summary" yaml:"summary"`
	Review   string         `json:"review_notes,omitempty" yaml:"review_notes,omitempty"`
}

type Finding struct {
	Term         string   `json:"term" yaml:"term"`
	Surface      string   `json:"surface" yaml:"surface"`
	Location     string   `json:"location" yaml:"location"`
	Offset       int      `json:"offset" yaml:"offset"`
	Snippet      string   `json:"snippet" yaml:"snippet"`
	PageEstimate int      `json:"page_estimate,omitempty" yaml:"page_estimate,omitempty"`
	Verdict      string   `json:"verdict,omitempty" yaml:"verdict,omitempty"`
	Replacements []string `json:"replacements,omitempty" yaml:"replacements,omitempty"`
}

type SummaryEntry struct {
	Term  string `json:"term" yaml:"term"`
	Count int    `json:"count" yaml:"count"`
}

// Build converts a scan result into the serializable document used by the
// structured formatters.
func Build(result *scanner.ScanResult, options formatters.FormatterOptions) Output {
	doc := Output{
		Source:   options.SourcePath,
		Total:    result.Total(),
		Findings: make([]Finding, 0, len(result.Accepted)),
		Summary:  make([]SummaryEntry, 0, len(result.Summary)),
		Review:   result.ReviewNotes,
	}
	for _, item := range result.Accepted {
		doc.Findings = append(doc.Findings, convert(item, false))
	}
	if options.ShowSkipped {
		for _, item := range result.Skipped {
			doc.Skipped = append(doc.Skipped, convert(item, true))
		}
	}
	for _, entry := range result.Summary {
		doc.Summary = append(doc.Summary, SummaryEntry{Term: entry.Term, Count: entry.Count})
	}
	return doc
}

func convert(item scanner.Finding, withVerdict bool) Finding {
	out := Finding{
		Term:         item.Match.Term,
		Surface:      item.Match.Surface,
		Location:     item.Match.Location.String(),
		Offset:       item.Match.Offset,
		Snippet:      item.Match.Snippet,
		PageEstimate: item.Match.PageEstimate,
		Replacements: item.Replacements,
	}
	if withVerdict {
		out.Verdict = string(item.Verdict)
	}
	return out
}

func (f *Formatter) Format(result *scanner.ScanResult, options formatters.FormatterOptions) (string, error) {
	data, err := json.MarshalIndent(Build(result, options), "", "  ")
	if err != nil {
		return "", fmt.Errorf("error formatting JSON output: %w", err)
	}
	return string(data), nil
}

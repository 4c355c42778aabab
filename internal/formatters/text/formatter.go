// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package text

import (
	"fmt"
	"strings"

	"lexscan/internal/classifier"
	"lexscan/internal/formatters"
	"lexscan/internal/scanner"

	"github.com/fatih/color"
)

// Formatter implements text-based output formatting
type Formatter struct {
	colors map[string]*color.Color
}

// NewFormatter creates a new text formatter
func NewFormatter() *Formatter {
	return &Formatter{
		colors: map[string]*color.Color{
			"red":    color.New(color.FgRed),
			"yellow": color.New(color.FgYellow),
			"green":  color.New(color.FgGreen),
			"cyan":   color.New(color.FgCyan),
			"bold":   color.New(color.FgWhite, color.Bold),
		},
	}
}

func (f *Formatter) Name() string {
	return "text"
}

func (f *Formatter) Description() string {
	return "Human-readable text output with colors"
}

func (f *Formatter) FileExtension() string {
	return ".txt"
}

func (f *Formatter) Format(result *scanner.ScanResult, options formatters.FormatterOptions) (string, error) {
	if options.NoColor {
		color.NoColor = true
	}

	var builder strings.Builder

	if options.SourcePath != "" {
		builder.WriteString(f.colors["bold"].Sprintf("Scan results for %s", options.SourcePath))
		builder.WriteString("\n\n")
	}

	if result.Total() == 0 {
		builder.WriteString("No restricted terms found.\n")
	} else {
		builder.WriteString(f.colors["bold"].Sprintf("Found %d restricted term use(s):", result.Total()))
		builder.WriteString("\n\n")
		for i, finding := range result.Accepted {
			f.appendFinding(&builder, i+1, finding, options)
		}

		builder.WriteString(f.colors["bold"].Sprint("Summary:"))
		builder.WriteString("\n")
		for _, entry := range result.Summary {
			builder.WriteString(fmt.Sprintf("  %s: %d\n", entry.Term, entry.Count))
		}
	}

	if options.ShowSkipped && len(result.Skipped) > 0 {
		builder.WriteString("\n")
		builder.WriteString(f.colors["cyan"].Sprintf("Skipped %d match(es):", len(result.Skipped)))
		builder.WriteString("\n")
		for _, finding := range result.Skipped {
			builder.WriteString(fmt.Sprintf("  %s at %s (%s)\n",
				finding.Match.Surface,
				finding.Match.Location.String(),
				skipReason(finding.Verdict)))
		}
	}

	if result.ReviewNotes != "" {
		builder.WriteString("\n")
		builder.WriteString(f.colors["bold"].Sprint("Reviewer notes:"))
		builder.WriteString("\n")
		builder.WriteString(result.ReviewNotes)
		builder.WriteString("\n")
	}

	return builder.String(), nil
}

func (f *Formatter) appendFinding(builder *strings.Builder, index int, finding scanner.Finding, options formatters.FormatterOptions) {
	location := finding.Match.Location.String()
	if finding.Match.PageEstimate > 0 {
		location = fmt.Sprintf("%s (~page %d)", location, finding.Match.PageEstimate)
	}

	builder.WriteString(fmt.Sprintf("%d. %s at %s\n",
		index,
		f.colors["red"].Sprint(finding.Match.Surface),
		location))
	builder.WriteString(fmt.Sprintf("   ...%s...\n", finding.Match.Snippet))
	if len(finding.Replacements) > 0 {
		builder.WriteString(fmt.Sprintf("   %s %s\n",
			f.colors["yellow"].Sprint("consider:"),
			strings.Join(finding.Replacements, ", ")))
	}
	if options.Verbose {
		builder.WriteString(fmt.Sprintf("   term=%s offset=%d\n", finding.Match.Term, finding.Match.Offset))
	}
	builder.WriteString("\n")
}

func skipReason(v classifier.Verdict) string {
	switch v {
	case classifier.VerdictSkipAllowListPhrase:
		return "allow-list phrase"
	case classifier.VerdictSkipNamedEntity:
		return "named entity"
	case classifier.VerdictSkipClassifierJudgment:
		return "classifier judgment"
	default:
		return string(v)
	}
}

// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package csv

import (
	"encoding/csv"
	"strings"
	"testing"

	"lexscan/internal/classifier"
	"lexscan/internal/detector"
	"lexscan/internal/extractor"
	"lexscan/internal/formatters"
	"lexscan/internal/scanner"
)

func TestFormat_ParsableOutput(t *testing.T) {
	result := &scanner.ScanResult{
		Accepted: []scanner.Finding{
			{
				Match: detector.Match{
					Term:     "climate change",
					Surface:  "Climate Change",
					Location: extractor.Location{Kind: extractor.LocationSlide, Number: 3},
					Offset:   9,
					Snippet:  `policy on "Climate Change", updated`,
				},
				Verdict:      classifier.VerdictAccept,
				Replacements: []string{"environmental shifts", "changing weather patterns"},
			},
		},
	}

	out, err := NewFormatter().Format(result, formatters.FormatterOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want header + 1 row", len(records))
	}
	row := records[1]
	if row[0] != "climate change" || row[2] != "slide 3" || row[6] != "accepted" {
		t.Errorf("row = %v", row)
	}
	if !strings.Contains(row[7], "environmental shifts") {
		t.Errorf("replacements column = %q", row[7])
	}
}

func TestFormat_SkippedRowsCarryVerdict(t *testing.T) {
	result := &scanner.ScanResult{
		Skipped: []scanner.Finding{
			{
				Match:   detector.Match{Term: "taiwan", Surface: "Taiwan"},
				Verdict: classifier.VerdictSkipAllowListPhrase,
			},
		},
	}

	out, err := NewFormatter().Format(result, formatters.FormatterOptions{ShowSkipped: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[1][6] != string(classifier.VerdictSkipAllowListPhrase) {
		t.Errorf("status column = %q", records[1][6])
	}
}

// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package scanner ties extraction, matching, and classification together
// into a single scan operation over one document. The Engine carries all
// collaborators explicitly so two engines with different dictionaries or
// policies can run side by side in one process.
package scanner

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"lexscan/internal/classifier"
	"lexscan/internal/detector"
	"lexscan/internal/dictionary"
	"lexscan/internal/extractor"
	"lexscan/internal/observability"
)

// Finding is one classified match.
type Finding struct {
	Match        detector.Match
	Verdict      classifier.Verdict
	Replacements []string // suggested alternatives for accepted findings
}

// TermCount is one entry of the frequency summary.
type TermCount struct {
	Term  string
	Count int
}

// ScanResult is the complete outcome of scanning one document.
type ScanResult struct {
	// Accepted holds reportable findings in document order.
	Accepted []Finding

	// Skipped holds suppressed matches in document order, each carrying
	// the verdict that removed it.
	Skipped []Finding

	// Summary counts accepted findings per canonical term, most frequent
	// first, ties broken alphabetically.
	Summary []TermCount

	// Blocks is the number of text blocks examined.
	Blocks int

	// ReviewNotes holds the optional whole-document delegate review.
	// Advisory only; never contributes findings.
	ReviewNotes string
}

// Total reports the number of accepted findings.
func (r *ScanResult) Total() int {
	return len(r.Accepted)
}

// Reviewer produces free-form advisory notes over a whole document.
type Reviewer interface {
	Review(ctx context.Context, text string, terms []string) (string, error)
}

// Engine runs scans. Construct with NewEngine and configure through
// options; a zero-option engine scans with the default dictionary and an
// accept-everything classifier.
type Engine struct {
	dict       *dictionary.Dictionary
	matcher    *detector.Matcher
	classifier *classifier.Classifier
	reviewer   Reviewer
	observer   *observability.StandardObserver
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithDictionary sets the term dictionary.
func WithDictionary(d *dictionary.Dictionary) EngineOption {
	return func(e *Engine) { e.dict = d }
}

// WithMatcher sets the matcher.
func WithMatcher(m *detector.Matcher) EngineOption {
	return func(e *Engine) { e.matcher = m }
}

// WithClassifier sets the exception policy.
func WithClassifier(c *classifier.Classifier) EngineOption {
	return func(e *Engine) { e.classifier = c }
}

// WithReviewer enables the whole-document advisory review.
func WithReviewer(r Reviewer) EngineOption {
	return func(e *Engine) { e.reviewer = r }
}

// WithObserver sets the observer for scan timing and debug output.
func WithObserver(o *observability.StandardObserver) EngineOption {
	return func(e *Engine) { e.observer = o }
}

// NewEngine builds a scan engine.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		dict:       dictionary.Default(),
		matcher:    detector.NewMatcher(),
		classifier: classifier.New(),
		observer:   observability.NewStandardObserver(observability.ObservabilityOff, nil),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Scan extracts, matches, and classifies one document. Extraction errors
// abort the scan; classification never does. Cancellation is checked
// between blocks, so a cancelled context stops a large document promptly
// without tearing down mid-block state.
func (e *Engine) Scan(ctx context.Context, data []byte, format extractor.Format) (*ScanResult, error) {
	stop := e.observer.StartTiming("scanner", "scan")

	blocks, err := extractor.Extract(data, format)
	if err != nil {
		stop(false, nil)
		return nil, err
	}

	result := &ScanResult{Blocks: len(blocks)}
	for _, block := range blocks {
		if err := ctx.Err(); err != nil {
			stop(false, nil)
			return nil, fmt.Errorf("scan cancelled: %w", err)
		}
		for _, match := range e.matcher.FindMatches(block, e.dict) {
			verdict := e.classifier.Classify(ctx, match.Snippet, match.Term)
			finding := Finding{Match: match, Verdict: verdict}
			if verdict.Skipped() {
				result.Skipped = append(result.Skipped, finding)
				continue
			}
			finding.Replacements = e.dict.Replacements(match.Term)
			result.Accepted = append(result.Accepted, finding)
		}
	}

	result.Summary = summarize(result.Accepted)

	if e.reviewer != nil {
		notes, err := e.review(ctx, blocks)
		if err != nil {
			e.observer.LogError("scanner", "review", err)
		} else {
			result.ReviewNotes = notes
		}
	}

	stop(true, map[string]interface{}{
		"blocks":   result.Blocks,
		"accepted": len(result.Accepted),
		"skipped":  len(result.Skipped),
	})
	return result, nil
}

// ScanFile reads a document from disk, infers its format from the file
// extension, and scans it.
func (e *Engine) ScanFile(ctx context.Context, path string) (*ScanResult, error) {
	format, err := extractor.FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return e.Scan(ctx, data, format)
}

// review concatenates the block text and asks the reviewer for advisory
// notes. Failures are logged and swallowed by the caller.
func (e *Engine) review(ctx context.Context, blocks []extractor.TextBlock) (string, error) {
	var sb strings.Builder
	for _, block := range blocks {
		sb.WriteString(block.Content)
		sb.WriteString("\n")
	}
	terms := make([]string, 0, e.dict.Len())
	for _, t := range e.dict.Terms() {
		terms = append(terms, t.Phrase)
	}
	return e.reviewer.Review(ctx, sb.String(), terms)
}

// summarize counts accepted findings per term, ordered by descending
// count with alphabetical tie-break.
func summarize(accepted []Finding) []TermCount {
	counts := make(map[string]int)
	for _, f := range accepted {
		counts[f.Match.Term]++
	}
	summary := make([]TermCount, 0, len(counts))
	for term, n := range counts {
		summary = append(summary, TermCount{Term: term, Count: n})
	}
	sort.Slice(summary, func(i, j int) bool {
		if summary[i].Count != summary[j].Count {
			return summary[i].Count > summary[j].Count
		}
		return summary[i].Term < summary[j].Term
	})
	return summary
}

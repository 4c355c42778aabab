// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package classifier decides whether a dictionary match should be reported
// or skipped. Decisions run through three ordered tiers: a per-term
// allow-list of known-safe phrases, named-entity recognition over the
// surrounding snippet, and finally an external delegate for genuinely
// ambiguous usage. The allow-list and delegate tiers apply only to terms
// configured as context-sensitive; every other term gets entity-based
// exception handling alone. The cheap local tiers run first so most
// matches never touch the network.
package classifier

import (
	"context"
	"strings"

	"lexscan/internal/observability"
)

// Verdict is the classifier's decision for one match.
type Verdict string

const (
	// VerdictAccept reports the match as a finding.
	VerdictAccept Verdict = "accept"
	// VerdictSkipAllowListPhrase drops a match inside a known-safe phrase.
	VerdictSkipAllowListPhrase Verdict = "skip_allow_list_phrase"
	// VerdictSkipNamedEntity drops a match covered by a proper-noun entity.
	VerdictSkipNamedEntity Verdict = "skip_named_entity"
	// VerdictSkipClassifierJudgment drops a match the delegate judged
	// institutional rather than descriptive.
	VerdictSkipClassifierJudgment Verdict = "skip_classifier_judgment"
)

// Skipped reports whether the verdict suppresses the match.
func (v Verdict) Skipped() bool {
	return v != VerdictAccept
}

// Entity is one named entity found in a snippet.
type Entity struct {
	Text  string // surface text as it appears in the snippet
	Label string // recognizer category, e.g. ORG, GPE, PERSON
}

// EntityRecognizer finds named entities in a snippet of text. An error
// means recognition could not run at all; the classifier treats that the
// same as finding no entities.
type EntityRecognizer interface {
	Entities(text string) ([]Entity, error)
}

// Delegate answers the binary usage question for an ambiguous match. It
// reports descriptive=true when the term is used descriptively and should
// stay flagged.
type Delegate interface {
	Ask(ctx context.Context, snippet, term string) (descriptive bool, err error)
}

// entitySkipLabels are the recognizer categories treated as institutional
// usage. PERSON and the rest stay flagged: a person's name containing a
// restricted term is not a formal-institution reference.
var entitySkipLabels = map[string]bool{
	"ORG": true,
	"GPE": true,
	"FAC": true,
}

// Classifier applies the three-tier exception policy.
type Classifier struct {
	allowLists map[string][]string // canonical term -> lowercase safe phrases
	recognizer EntityRecognizer
	delegate   Delegate
	observer   *observability.StandardObserver
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithAllowLists sets the per-term safe phrases. Keys and phrases are
// canonicalized to lower case; a phrase equal to its own term is ignored
// because it would suppress every occurrence.
func WithAllowLists(lists map[string][]string) Option {
	return func(c *Classifier) {
		c.allowLists = make(map[string][]string, len(lists))
		for term, phrases := range lists {
			key := strings.ToLower(term)
			kept := make([]string, 0, len(phrases))
			for _, p := range phrases {
				p = strings.ToLower(strings.TrimSpace(p))
				if p == "" || p == key {
					continue
				}
				kept = append(kept, p)
			}
			c.allowLists[key] = kept
		}
	}
}

// WithRecognizer sets the named-entity recognizer.
func WithRecognizer(r EntityRecognizer) Option {
	return func(c *Classifier) { c.recognizer = r }
}

// WithDelegate sets the external delegate.
func WithDelegate(d Delegate) Option {
	return func(c *Classifier) { c.delegate = d }
}

// WithObserver sets the observer used for tier timing and debug output.
func WithObserver(o *observability.StandardObserver) Option {
	return func(c *Classifier) { c.observer = o }
}

// New builds a Classifier. With no options every match is accepted, which
// is the correct degenerate policy: tiers only ever remove findings.
func New(opts ...Option) *Classifier {
	c := &Classifier{
		observer: observability.NewStandardObserver(observability.ObservabilityOff, nil),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify decides the verdict for one match. The snippet is the match's
// surrounding context and term is the canonical dictionary phrase. The
// decision is deterministic given the same snippet, term, and tier
// answers; tier errors degrade toward VerdictAccept so a broken exception
// policy over-reports instead of hiding matches.
func (c *Classifier) Classify(ctx context.Context, snippet, term string) Verdict {
	stop := c.observer.StartTiming("classifier", "classify")

	sensitive := c.contextSensitive(term)
	verdict := VerdictAccept
	switch {
	case sensitive && c.matchesAllowList(snippet, term):
		verdict = VerdictSkipAllowListPhrase
	case c.coveredByEntity(snippet, term):
		verdict = VerdictSkipNamedEntity
	case sensitive:
		verdict = c.askDelegate(ctx, snippet, term)
	}

	stop(true, map[string]interface{}{"verdict": string(verdict)})
	return verdict
}

// contextSensitive reports whether the term has an allow-list entry, which
// is how a term is marked as needing phrase and delegate review. Terms
// outside the set can only be excepted by a named entity.
func (c *Classifier) contextSensitive(term string) bool {
	_, ok := c.allowLists[strings.ToLower(term)]
	return ok
}

// matchesAllowList is tier one: any configured safe phrase containing the
// term appearing anywhere in the snippet suppresses the match.
func (c *Classifier) matchesAllowList(snippet, term string) bool {
	phrases := c.allowLists[strings.ToLower(term)]
	if len(phrases) == 0 {
		return false
	}
	haystack := strings.ToLower(snippet)
	for _, phrase := range phrases {
		if strings.Contains(haystack, phrase) {
			return true
		}
	}
	return false
}

// coveredByEntity is tier two: the match is suppressed when a recognized
// organization, place, or facility entity contains the term.
func (c *Classifier) coveredByEntity(snippet, term string) bool {
	if c.recognizer == nil {
		return false
	}
	entities, err := c.recognizer.Entities(snippet)
	if err != nil {
		c.observer.LogError("classifier", "entity recognition", err)
		return false
	}
	needle := strings.ToLower(term)
	for _, ent := range entities {
		if !entitySkipLabels[ent.Label] {
			continue
		}
		if strings.Contains(strings.ToLower(ent.Text), needle) {
			return true
		}
	}
	return false
}

// askDelegate is tier three. Any delegate failure, including a missing
// delegate, yields VerdictAccept.
func (c *Classifier) askDelegate(ctx context.Context, snippet, term string) Verdict {
	if c.delegate == nil {
		return VerdictAccept
	}
	descriptive, err := c.delegate.Ask(ctx, snippet, term)
	if err != nil {
		c.observer.LogError("classifier", "delegate", err)
		return VerdictAccept
	}
	if descriptive {
		return VerdictAccept
	}
	return VerdictSkipClassifierJudgment
}

// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package classifier

import (
	"context"
	"errors"
	"testing"
)

type stubRecognizer struct {
	entities []Entity
	err      error
	calls    int
}

func (s *stubRecognizer) Entities(text string) ([]Entity, error) {
	s.calls++
	return s.entities, s.err
}

type stubDelegate struct {
	descriptive bool
	err         error
	calls       int
}

func (s *stubDelegate) Ask(ctx context.Context, snippet, term string) (bool, error) {
	s.calls++
	return s.descriptive, s.err
}

func TestClassify_NoTiersAcceptsEverything(t *testing.T) {
	c := New()
	if got := c.Classify(context.Background(), "any snippet", "equity"); got != VerdictAccept {
		t.Errorf("verdict = %v, want accept", got)
	}
}

func TestClassify_AllowListPhrase(t *testing.T) {
	c := New(WithAllowLists(map[string][]string{
		"national": {"national university", "national taiwan university"},
		"taiwan":   {"national taiwan university", "taiwan university"},
	}))

	snippet := "National Taiwan University announced new research."
	for _, term := range []string{"national", "taiwan"} {
		if got := c.Classify(context.Background(), snippet, term); got != VerdictSkipAllowListPhrase {
			t.Errorf("term %s: verdict = %v, want skip_allow_list_phrase", term, got)
		}
	}
}

func TestClassify_AllowListIgnoresSelfReference(t *testing.T) {
	// A phrase equal to its own term would suppress every occurrence.
	c := New(WithAllowLists(map[string][]string{
		"taiwan": {"taiwan", "taiwan university"},
	}))
	if got := c.Classify(context.Background(), "Taiwan is a country in East Asia.", "taiwan"); got != VerdictAccept {
		t.Errorf("verdict = %v, want accept", got)
	}
}

func TestClassify_AllowListOnlyAppliesToOwnTerm(t *testing.T) {
	c := New(WithAllowLists(map[string][]string{
		"national": {"national university"},
	}))
	// "equity" has no allow-list; the phrase for another term is irrelevant.
	if got := c.Classify(context.Background(), "the national university equity office", "equity"); got != VerdictAccept {
		t.Errorf("verdict = %v, want accept", got)
	}
}

func TestClassify_NamedEntitySkip(t *testing.T) {
	recognizer := &stubRecognizer{entities: []Entity{
		{Text: "National Taiwan University", Label: "ORG"},
	}}
	c := New(WithRecognizer(recognizer))

	if got := c.Classify(context.Background(), "enrolled at National Taiwan University", "taiwan"); got != VerdictSkipNamedEntity {
		t.Errorf("verdict = %v, want skip_named_entity", got)
	}
}

func TestClassify_EntityLabelFiltering(t *testing.T) {
	tests := []struct {
		label string
		want  Verdict
	}{
		{"ORG", VerdictSkipNamedEntity},
		{"GPE", VerdictSkipNamedEntity},
		{"FAC", VerdictSkipNamedEntity},
		{"PERSON", VerdictAccept},
		{"DATE", VerdictAccept},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			recognizer := &stubRecognizer{entities: []Entity{
				{Text: "Equity Holdings", Label: tt.label},
			}}
			c := New(WithRecognizer(recognizer))
			if got := c.Classify(context.Background(), "about Equity Holdings today", "equity"); got != tt.want {
				t.Errorf("label %s: verdict = %v, want %v", tt.label, got, tt.want)
			}
		})
	}
}

func TestClassify_EntityMustCoverTerm(t *testing.T) {
	recognizer := &stubRecognizer{entities: []Entity{
		{Text: "East Asia", Label: "GPE"},
	}}
	delegate := &stubDelegate{descriptive: true}
	c := New(
		WithAllowLists(map[string][]string{"taiwan": {"taiwan university"}}),
		WithRecognizer(recognizer),
		WithDelegate(delegate),
	)

	if got := c.Classify(context.Background(), "Taiwan is a country in East Asia.", "taiwan"); got != VerdictAccept {
		t.Errorf("verdict = %v, want accept", got)
	}
	if delegate.calls != 1 {
		t.Errorf("delegate calls = %d, want 1 (entity did not cover the term)", delegate.calls)
	}
}

func TestClassify_RecognizerFailureFallsThrough(t *testing.T) {
	recognizer := &stubRecognizer{err: errors.New("model unavailable")}
	delegate := &stubDelegate{descriptive: true}
	c := New(
		WithAllowLists(map[string][]string{"equity": {"private equity"}}),
		WithRecognizer(recognizer),
		WithDelegate(delegate),
	)

	if got := c.Classify(context.Background(), "snippet", "equity"); got != VerdictAccept {
		t.Errorf("verdict = %v, want accept", got)
	}
	if delegate.calls != 1 {
		t.Errorf("delegate calls = %d, want 1 (recognizer failure means no entities)", delegate.calls)
	}
}

func TestClassify_DelegateJudgment(t *testing.T) {
	tests := []struct {
		name        string
		descriptive bool
		want        Verdict
	}{
		{"descriptive usage stays flagged", true, VerdictAccept},
		{"institutional usage is skipped", false, VerdictSkipClassifierJudgment},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(
				WithAllowLists(map[string][]string{"equity": {"private equity"}}),
				WithDelegate(&stubDelegate{descriptive: tt.descriptive}),
			)
			if got := c.Classify(context.Background(), "snippet", "equity"); got != tt.want {
				t.Errorf("verdict = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassify_DelegateFailureFailsOpen(t *testing.T) {
	delegate := &stubDelegate{err: errors.New("upstream 503")}
	c := New(
		WithAllowLists(map[string][]string{"equity": {"private equity"}}),
		WithDelegate(delegate),
	)

	for i := 0; i < 5; i++ {
		if got := c.Classify(context.Background(), "snippet", "equity"); got != VerdictAccept {
			t.Fatalf("verdict = %v, want accept on delegate failure", got)
		}
	}
	if delegate.calls != 5 {
		t.Errorf("delegate calls = %d, want 5", delegate.calls)
	}
}

func TestClassify_DelegateOnlyForContextSensitiveTerms(t *testing.T) {
	// Terms without an allow-list entry never reach the delegate, so an
	// institutional answer cannot suppress a generic term.
	delegate := &stubDelegate{descriptive: false}
	c := New(
		WithAllowLists(map[string][]string{"national": {"national university"}}),
		WithDelegate(delegate),
	)

	if got := c.Classify(context.Background(), "equity in hiring outcomes", "equity"); got != VerdictAccept {
		t.Errorf("verdict = %v, want accept", got)
	}
	if delegate.calls != 0 {
		t.Errorf("delegate calls = %d, want 0 for a term outside the context-sensitive set", delegate.calls)
	}

	if got := c.Classify(context.Background(), "national pride on display", "national"); got != VerdictSkipClassifierJudgment {
		t.Errorf("verdict = %v, want skip_classifier_judgment", got)
	}
	if delegate.calls != 1 {
		t.Errorf("delegate calls = %d, want 1 for the context-sensitive term", delegate.calls)
	}
}

func TestClassify_GenericTermStillGetsEntitySkip(t *testing.T) {
	recognizer := &stubRecognizer{entities: []Entity{
		{Text: "Equity Holdings", Label: "ORG"},
	}}
	c := New(
		WithAllowLists(map[string][]string{"national": {"national university"}}),
		WithRecognizer(recognizer),
	)

	if got := c.Classify(context.Background(), "about Equity Holdings today", "equity"); got != VerdictSkipNamedEntity {
		t.Errorf("verdict = %v, want skip_named_entity", got)
	}
}

func TestClassify_TierPrecedence(t *testing.T) {
	// Allow-list wins before the recognizer or delegate are consulted.
	recognizer := &stubRecognizer{entities: []Entity{{Text: "National University", Label: "ORG"}}}
	delegate := &stubDelegate{descriptive: false}
	c := New(
		WithAllowLists(map[string][]string{"national": {"national university"}}),
		WithRecognizer(recognizer),
		WithDelegate(delegate),
	)

	if got := c.Classify(context.Background(), "the National University campus", "national"); got != VerdictSkipAllowListPhrase {
		t.Errorf("verdict = %v, want skip_allow_list_phrase", got)
	}
	if recognizer.calls != 0 {
		t.Errorf("recognizer calls = %d, want 0", recognizer.calls)
	}
	if delegate.calls != 0 {
		t.Errorf("delegate calls = %d, want 0", delegate.calls)
	}
}

func TestVerdictSkipped(t *testing.T) {
	if VerdictAccept.Skipped() {
		t.Error("accept must not be skipped")
	}
	for _, v := range []Verdict{VerdictSkipAllowListPhrase, VerdictSkipNamedEntity, VerdictSkipClassifierJudgment} {
		if !v.Skipped() {
			t.Errorf("%v must be skipped", v)
		}
	}
}

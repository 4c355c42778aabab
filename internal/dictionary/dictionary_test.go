// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package dictionary

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNew_ValidTerms(t *testing.T) {
	d, err := New([]RestrictedTerm{
		{Phrase: "diversity", Replacements: []string{"variety"}},
		{Phrase: "climate change", Replacements: []string{"environmental shifts"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Len() != 2 {
		t.Errorf("len = %d, want 2", d.Len())
	}
}

func TestNew_RejectsDuplicates(t *testing.T) {
	_, err := New([]RestrictedTerm{
		{Phrase: "equity", Replacements: []string{"fairness"}},
		{Phrase: "Equity", Replacements: []string{"fair treatment"}},
	})
	if err == nil {
		t.Fatal("expected error for case-insensitive duplicate")
	}
}

func TestNew_RejectsEmptyReplacements(t *testing.T) {
	_, err := New([]RestrictedTerm{
		{Phrase: "equity"},
	})
	if err == nil {
		t.Fatal("expected error for term with no replacements")
	}
}

func TestNew_RejectsEmptyPhrase(t *testing.T) {
	_, err := New([]RestrictedTerm{
		{Phrase: "   ", Replacements: []string{"x"}},
	})
	if err == nil {
		t.Fatal("expected error for blank phrase")
	}
}

func TestLookup_CaseInsensitive(t *testing.T) {
	d := Default()
	term, ok := d.Lookup("Climate Change")
	if !ok {
		t.Fatal("expected lookup to succeed")
	}
	if term.Phrase != "climate change" {
		t.Errorf("phrase = %q", term.Phrase)
	}
}

func TestReplacements_UnknownTerm(t *testing.T) {
	d := Default()
	if got := d.Replacements("unknown"); got != nil {
		t.Errorf("expected nil for unknown term, got %v", got)
	}
}

func TestDefault_EveryTermHasReplacements(t *testing.T) {
	d := Default()
	if d.Len() == 0 {
		t.Fatal("default dictionary is empty")
	}
	for _, term := range d.Terms() {
		if len(term.Replacements) == 0 {
			t.Errorf("term %q has no replacements", term.Phrase)
		}
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "terms.yaml")
	content := `
terms:
  - phrase: diversity
    replacements: [variety]
  - phrase: climate change
    replacements:
      - environmental shifts
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write dictionary file: %v", err)
	}

	d, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Len() != 2 {
		t.Errorf("len = %d, want 2", d.Len())
	}
	if got := d.Replacements("climate change"); len(got) != 1 || got[0] != "environmental shifts" {
		t.Errorf("replacements = %v", got)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/terms.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.yaml")
	if err := os.WriteFile(path, []byte("terms: []\n"), 0600); err != nil {
		t.Fatalf("failed to write dictionary file: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for dictionary with no terms")
	}
}

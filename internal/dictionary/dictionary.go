// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package dictionary

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// RestrictedTerm is a flagged phrase together with its suggested replacements.
// The canonical phrase preserves the casing it was authored with; matching
// against document text is case-insensitive.
type RestrictedTerm struct {
	Phrase       string   `yaml:"phrase"`
	Replacements []string `yaml:"replacements"`
}

// Dictionary is an insertion-ordered set of restricted terms. It is loaded
// once per process and treated as read-only during a scan.
type Dictionary struct {
	terms []RestrictedTerm
	index map[string]int // lowercased phrase -> position in terms
}

// dictionaryFile is the on-disk YAML shape.
type dictionaryFile struct {
	Terms []RestrictedTerm `yaml:"terms"`
}

// New builds a dictionary from an ordered slice of terms. It fails when a
// canonical phrase repeats (case-insensitive) or a term has no replacements.
func New(terms []RestrictedTerm) (*Dictionary, error) {
	d := &Dictionary{
		terms: make([]RestrictedTerm, 0, len(terms)),
		index: make(map[string]int, len(terms)),
	}
	for _, term := range terms {
		phrase := strings.TrimSpace(term.Phrase)
		if phrase == "" {
			return nil, fmt.Errorf("dictionary: empty canonical phrase")
		}
		key := strings.ToLower(phrase)
		if _, exists := d.index[key]; exists {
			return nil, fmt.Errorf("dictionary: duplicate canonical phrase %q", phrase)
		}
		if len(term.Replacements) == 0 {
			return nil, fmt.Errorf("dictionary: term %q has no replacements", phrase)
		}
		d.index[key] = len(d.terms)
		d.terms = append(d.terms, RestrictedTerm{
			Phrase:       phrase,
			Replacements: append([]string(nil), term.Replacements...),
		})
	}
	return d, nil
}

// Load reads a dictionary from a YAML file.
func Load(path string) (*Dictionary, error) {
	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("error reading dictionary file: %w", err)
	}

	var file dictionaryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("error parsing dictionary file: %w", err)
	}
	if len(file.Terms) == 0 {
		return nil, fmt.Errorf("dictionary file %s contains no terms", path)
	}

	return New(file.Terms)
}

// Default returns the built-in dictionary used when no file is configured.
func Default() *Dictionary {
	d, err := New([]RestrictedTerm{
		{Phrase: "diversity", Replacements: []string{"variety", "range of backgrounds"}},
		{Phrase: "equity", Replacements: []string{"fairness", "equal treatment"}},
		{Phrase: "inclusion", Replacements: []string{"participation", "broad involvement"}},
		{Phrase: "climate change", Replacements: []string{"environmental shifts", "changing weather patterns"}},
		{Phrase: "gender mainstreaming", Replacements: []string{"policy integration"}},
		{Phrase: "social justice", Replacements: []string{"fair outcomes", "equal opportunity"}},
	})
	if err != nil {
		// The built-in table is static; a failure here is a programming error.
		panic(err)
	}
	return d
}

// Terms returns the restricted terms in insertion (display) order.
func (d *Dictionary) Terms() []RestrictedTerm {
	return d.terms
}

// Len returns the number of terms in the dictionary.
func (d *Dictionary) Len() int {
	return len(d.terms)
}

// Lookup returns the term for a canonical phrase, matched case-insensitively.
func (d *Dictionary) Lookup(phrase string) (RestrictedTerm, bool) {
	i, ok := d.index[strings.ToLower(strings.TrimSpace(phrase))]
	if !ok {
		return RestrictedTerm{}, false
	}
	return d.terms[i], true
}

// Replacements returns the suggested replacements for a canonical phrase,
// or nil when the phrase is not in the dictionary.
func (d *Dictionary) Replacements(phrase string) []string {
	term, ok := d.Lookup(phrase)
	if !ok {
		return nil
	}
	return append([]string(nil), term.Replacements...)
}

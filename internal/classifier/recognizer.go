// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package classifier

import (
	"fmt"

	"github.com/jdkato/prose/v2"
)

// ProseRecognizer runs named-entity recognition with the prose NLP
// library. It is stateless and safe for concurrent use. The bundled
// model only labels PERSON and GPE, so organization and facility names
// fall through to the allow-list and delegate tiers.
type ProseRecognizer struct{}

// NewProseRecognizer returns the default recognizer.
func NewProseRecognizer() *ProseRecognizer {
	return &ProseRecognizer{}
}

// Entities extracts named entities from text.
func (r *ProseRecognizer) Entities(text string) ([]Entity, error) {
	doc, err := prose.NewDocument(text)
	if err != nil {
		return nil, fmt.Errorf("entity recognition: %w", err)
	}

	raw := doc.Entities()
	entities := make([]Entity, 0, len(raw))
	for _, ent := range raw {
		entities = append(entities, Entity{Text: ent.Text, Label: ent.Label})
	}
	return entities, nil
}

// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package yaml

import (
	"fmt"

	"lexscan/internal/formatters"
	jsonformatter "lexscan/internal/formatters/json"
	"lexscan/internal/scanner"

	"gopkg.in/yaml.v3"
)

// Formatter implements YAML output formatting
type Formatter struct{}

// NewFormatter creates a new YAML formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "yaml"
}

func (f *Formatter) Description() string {
	return "Machine-readable YAML output"
}

func (f *Formatter) FileExtension() string {
	return ".yaml"
}

func (f *Formatter) Format(result *scanner.ScanResult, options formatters.FormatterOptions) (string, error) {
	data, err := yaml.Marshal(jsonformatter.Build(result, options))
	if err != nil {
		return "", fmt.Errorf("error formatting YAML output: %w", err)
	}
	return string(data), nil
}

// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"lexscan/internal/paths"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	// Default settings
	Defaults struct {
		Format        string `yaml:"format"`
		Verbose       bool   `yaml:"verbose"`
		Debug         bool   `yaml:"debug"`
		NoColor       bool   `yaml:"no_color"`
		SnippetBefore int    `yaml:"snippet_before"`
		SnippetAfter  int    `yaml:"snippet_after"`
		PageSizeChars int    `yaml:"page_size_chars"`
	} `yaml:"defaults"`

	// Dictionary settings
	Dictionary struct {
		Path string `yaml:"path"` // empty uses the built-in dictionary
	} `yaml:"dictionary"`

	// ContextSensitive maps a restricted term to phrases in which its use
	// is known to be safe and must not be flagged.
	ContextSensitive map[string][]string `yaml:"context_sensitive"`

	// Delegate settings for the external classification endpoint
	Delegate struct {
		Enabled        bool   `yaml:"enabled"`
		BaseURL        string `yaml:"base_url"`
		Model          string `yaml:"model"`
		APIKeyEnv      string `yaml:"api_key_env"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
		Review         bool   `yaml:"review"` // whole-document advisory pass
	} `yaml:"delegate"`

	// Entities controls the named-entity recognition tier
	Entities struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"entities"`

	// Profiles for different scanning scenarios
	Profiles map[string]Profile `yaml:"profiles"`
}

// Profile represents a scanning profile with specific settings
type Profile struct {
	Format          string `yaml:"format"`
	Verbose         bool   `yaml:"verbose"`
	NoColor         bool   `yaml:"no_color"`
	DelegateEnabled *bool  `yaml:"delegate_enabled,omitempty"`
	EntitiesEnabled *bool  `yaml:"entities_enabled,omitempty"`
	Description     string `yaml:"description"`
}

// defaultContextSensitive covers the term pairs most often nested inside
// institution names. A term is never listed as its own safe phrase.
func defaultContextSensitive() map[string][]string {
	return map[string][]string{
		"national": {
			"national university",
			"national taiwan university",
			"national laboratory",
			"national institutes of health",
			"national science foundation",
		},
		"taiwan": {
			"national taiwan university",
			"taiwan university",
			"taiwan semiconductor",
		},
	}
}

// LoadConfig loads configuration from the specified file path
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{
		Profiles:         make(map[string]Profile),
		ContextSensitive: defaultContextSensitive(),
	}

	// Set default values
	config.Defaults.Format = "text"
	config.Defaults.Verbose = false
	config.Defaults.Debug = false
	config.Defaults.NoColor = false
	config.Defaults.SnippetBefore = 40
	config.Defaults.SnippetAfter = 60
	config.Defaults.PageSizeChars = 1800

	config.Delegate.Enabled = false
	config.Delegate.BaseURL = "https://api.openai.com/v1"
	config.Delegate.Model = "gpt-4.1-mini"
	config.Delegate.APIKeyEnv = "OPENAI_API_KEY"
	config.Delegate.TimeoutSeconds = 5
	config.Delegate.Review = false

	config.Entities.Enabled = true

	// Add default offline profile: local tiers only, no network calls
	offlineFalse := false
	config.Profiles["offline"] = Profile{
		Format:          "text",
		Verbose:         false,
		NoColor:         false,
		DelegateEnabled: &offlineFalse,
		Description:     "Local tiers only; never contacts the delegate endpoint",
	}

	// If no config file specified, return default config
	if configPath == "" {
		return config, nil
	}

	cleanPath := filepath.Clean(configPath)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Store defaults that YAML unmarshaling would zero when the field is
	// absent from the file
	defaultEntitiesEnabled := config.Entities.Enabled
	defaultSnippetBefore := config.Defaults.SnippetBefore
	defaultSnippetAfter := config.Defaults.SnippetAfter
	defaultPageSize := config.Defaults.PageSizeChars

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if !containsField(data, "entities", "enabled") {
		config.Entities.Enabled = defaultEntitiesEnabled
	}
	if !containsField(data, "defaults", "snippet_before") {
		config.Defaults.SnippetBefore = defaultSnippetBefore
	}
	if !containsField(data, "defaults", "snippet_after") {
		config.Defaults.SnippetAfter = defaultSnippetAfter
	}
	if !containsField(data, "defaults", "page_size_chars") {
		config.Defaults.PageSizeChars = defaultPageSize
	}

	if err := ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// LoadConfigOrDefault attempts to load configuration, falling back to the
// built-in defaults on any error.
func LoadConfigOrDefault(configPath string) *Config {
	config, err := LoadConfig(configPath)
	if err != nil {
		defaultConfig, _ := LoadConfig("")
		return defaultConfig
	}
	return config
}

// ValidateConfig checks configuration values for consistency
func ValidateConfig(config *Config) error {
	switch config.Defaults.Format {
	case "text", "json", "yaml", "csv":
	default:
		return fmt.Errorf("invalid format %q (must be text, json, yaml, or csv)", config.Defaults.Format)
	}
	if config.Defaults.SnippetBefore < 0 || config.Defaults.SnippetAfter < 0 {
		return fmt.Errorf("snippet window must not be negative")
	}
	if config.Defaults.PageSizeChars <= 0 {
		return fmt.Errorf("page_size_chars must be positive")
	}
	if config.Delegate.TimeoutSeconds <= 0 {
		return fmt.Errorf("delegate timeout_seconds must be positive")
	}
	for term, phrases := range config.ContextSensitive {
		for _, phrase := range phrases {
			if strings.EqualFold(strings.TrimSpace(phrase), strings.TrimSpace(term)) {
				return fmt.Errorf("context_sensitive: term %q lists itself as a safe phrase", term)
			}
		}
	}
	return nil
}

// containsField checks whether a nested YAML field path is present in the
// raw document.
func containsField(data []byte, path ...string) bool {
	var doc map[string]interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return false
	}
	current := doc
	for i, key := range path {
		value, exists := current[key]
		if !exists {
			return false
		}
		if i == len(path)-1 {
			return true
		}
		next, ok := value.(map[string]interface{})
		if !ok {
			return false
		}
		current = next
	}
	return false
}

// FindConfigFile looks for a configuration file in standard locations
func FindConfigFile() string {
	for _, name := range []string{"lexscan.yaml", "lexscan.yml", ".lexscan.yaml", ".lexscan.yml"} {
		if fileExists(name) {
			return name
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeConfig := filepath.Join(home, ".lexscan.yaml")
	if fileExists(homeConfig) {
		return homeConfig
	}

	if standard := paths.GetConfigFile(); standard != "" && fileExists(standard) {
		return standard
	}

	return ""
}

// fileExists checks if a file exists and is not a directory
func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// ListProfiles returns a list of available profile names
func (c *Config) ListProfiles() []string {
	profiles := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		profiles = append(profiles, name)
	}
	return profiles
}

// GetProfile returns a profile by name, or nil if not found
func (c *Config) GetProfile(name string) *Profile {
	if profile, exists := c.Profiles[name]; exists {
		return &profile
	}
	return nil
}

// ApplyProfile overlays a profile's settings on the defaults.
func (c *Config) ApplyProfile(name string) error {
	profile := c.GetProfile(name)
	if profile == nil {
		return fmt.Errorf("unknown profile %q (available: %v)", name, c.ListProfiles())
	}
	if profile.Format != "" {
		c.Defaults.Format = profile.Format
	}
	if profile.Verbose {
		c.Defaults.Verbose = true
	}
	if profile.NoColor {
		c.Defaults.NoColor = true
	}
	if profile.DelegateEnabled != nil {
		c.Delegate.Enabled = *profile.DelegateEnabled
	}
	if profile.EntitiesEnabled != nil {
		c.Entities.Enabled = *profile.EntitiesEnabled
	}
	return nil
}

// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package paths resolves the per-user locations where lexscan keeps its
// configuration and dictionary files.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// GetConfigDir returns the lexscan configuration directory. An explicit
// LEXSCAN_CONFIG_DIR override wins on every platform; otherwise Windows
// uses APPDATA and Unix follows the XDG base-directory convention.
func GetConfigDir() string {
	if dir := os.Getenv("LEXSCAN_CONFIG_DIR"); dir != "" {
		return dir
	}

	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "lexscan")
		}
	}

	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		xdgConfig = filepath.Join(home, ".config")
	}
	return filepath.Join(xdgConfig, "lexscan")
}

// GetConfigFile returns the path to the main config file.
func GetConfigFile() string {
	dir := GetConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// GetDictionaryFile returns the path to the user's dictionary file.
func GetDictionaryFile() string {
	dir := GetConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "dictionary.yaml")
}

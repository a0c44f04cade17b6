// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
)

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// PrepareDataPath returns path, or fallback when path is blank, after
// creating its parent directory.
func PrepareDataPath(path, fallback string) (string, error) {
	resolved := strings.TrimSpace(path)
	if resolved == "" {
		resolved = fallback
	}
	if resolved == "" {
		return "", fmt.Errorf("data path is required")
	}
	if dir := filepath.Dir(resolved); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create storage dir: %w", err)
		}
	}
	return resolved, nil
}

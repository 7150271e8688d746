// Package config loads recmap CLI settings from defaults, recmap.yaml,
// RECMAP_ environment variables and command line flags.
package config

import (
	"fmt"

	"record-mapper/internal/naming"
)

const (
	DefaultTag        = "record"
	DefaultConvention = "field"
	FileName          = "recmap.yaml"
	EnvPrefix         = "RECMAP_"
)

// Config holds all CLI configuration options.
type Config struct {
	Tag        string `koanf:"tag"`
	Convention string `koanf:"convention"`
	Verbose    bool   `koanf:"verbose"`
	Dump       bool   `koanf:"dump"`
	Dir        string `koanf:"dir"`
}

// NamingConvention parses Convention.
func (c *Config) NamingConvention() (naming.Convention, error) {
	conv, err := naming.ParseConvention(c.Convention)
	if err != nil {
		return conv, fmt.Errorf("invalid convention: %w", err)
	}

	return conv, nil
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	if c.Tag == "" {
		return fmt.Errorf("tag must not be empty")
	}

	_, err := c.NamingConvention()

	return err
}

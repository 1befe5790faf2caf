//
// Copyright (C) 2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

// Package config is for run wide settings that are unmarshalled
// from Viper (see: /cmd/temapper)
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"git.sr.ht/~vejnar/TEMapper/lib/insertion"
	"git.sr.ht/~vejnar/TEMapper/lib/selection"
)

// DefaultChromosomes are the Drosophila melanogaster chromosome arms.
var DefaultChromosomes = []string{"2L", "2R", "3L", "3R", "4", "X", "Y"}

// Config is a mix of settings from an optional settings file
// and from the command line.
type Config struct {
	// chromosomes kept in the genome alignment, in output order
	Chromosomes []string `mapstructure:"chromosomes"`

	MinTSDLength uint64  `mapstructure:"min-tsd-length"`
	MaxTSDLength uint64  `mapstructure:"max-tsd-length"`
	MinTELength  float64 `mapstructure:"min-te-length"`
	MaxTELength  float64 `mapstructure:"max-te-length"`

	// selection goroutines, non-positive for the default
	Workers    int    `mapstructure:"workers"`
	BWAThreads int    `mapstructure:"bwa-threads"`
	BWAPath    string `mapstructure:"bwa"`

	JSON          bool   `mapstructure:"json"`
	ZeroBased     bool   `mapstructure:"zero-based"`
	Compression   string `mapstructure:"compression"`
	// reads with more mismatches on the transposon are discarded, -1 keeps all
	MaxMismatches int    `mapstructure:"max-mismatches"`

	Verbose bool `mapstructure:"verbose"`
}

// SetDefaults registers default values in v.
func SetDefaults(v *viper.Viper) {
	p := insertion.DefaultParams()
	v.SetDefault("chromosomes", DefaultChromosomes)
	v.SetDefault("min-tsd-length", p.MinTSDLength)
	v.SetDefault("max-tsd-length", p.MaxTSDLength)
	v.SetDefault("min-te-length", p.MinTELength)
	v.SetDefault("max-te-length", p.MaxTELength)
	v.SetDefault("workers", selection.DefaultWorkers)
	v.SetDefault("bwa-threads", 8)
	v.SetDefault("bwa", "bwa")
	v.SetDefault("compression", "")
	v.SetDefault("max-mismatches", -1)
}

// New returns the settings of v, read from the file at path first
// if path is not empty.
func New(v *viper.Viper, path string) (Config, error) {
	var c Config
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return c, fmt.Errorf("Reading settings %s: %w", path, err)
		}
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("unable to decode into struct, %w", err)
	}
	return c, c.Validate()
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if len(c.Chromosomes) == 0 {
		return fmt.Errorf("No chromosome selected")
	}
	if c.MaxTSDLength >= insertion.Unset {
		return fmt.Errorf("Maximum TSD length %d too large", c.MaxTSDLength)
	}
	if c.MinTSDLength > c.MaxTSDLength {
		return fmt.Errorf("Minimum TSD length %d above maximum %d", c.MinTSDLength, c.MaxTSDLength)
	}
	if c.MinTELength < 0 || c.MinTELength > c.MaxTELength {
		return fmt.Errorf("Wrong TE length fractions %g-%g", c.MinTELength, c.MaxTELength)
	}
	switch c.Compression {
	case "", "lz4", "lz4hc":
	default:
		return fmt.Errorf("Unknown compression %s", c.Compression)
	}
	return nil
}

// Params returns the insertion assembly bounds.
func (c Config) Params() insertion.Params {
	return insertion.Params{
		MinTSDLength: c.MinTSDLength,
		MaxTSDLength: c.MaxTSDLength,
		MinTELength:  c.MinTELength,
		MaxTELength:  c.MaxTELength,
	}
}

// Format returns the insertion output format.
func (c Config) Format(m insertion.Mapping) insertion.Format {
	return insertion.Format{JSON: c.JSON, ZeroBased: c.ZeroBased, Mapping: m}
}

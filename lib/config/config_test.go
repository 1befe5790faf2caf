//
// Copyright (C) 2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package config

import (
	"os"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/spf13/viper"

	"git.sr.ht/~vejnar/TEMapper/lib/insertion"
)

func TestDefaults(t *testing.T) {
	c := qt.New(t)
	v := viper.New()
	SetDefaults(v)
	cfg, err := New(v, "")
	c.Assert(err, qt.IsNil)
	c.Assert(cfg.Chromosomes, qt.DeepEquals, DefaultChromosomes)
	c.Assert(cfg.Params(), qt.Equals, insertion.DefaultParams())
	c.Assert(cfg.Workers, qt.Equals, 8)
	c.Assert(cfg.MaxMismatches, qt.Equals, -1)
	c.Assert(cfg.Format(nil), qt.DeepEquals, insertion.Format{})
}

func TestSettingsFile(t *testing.T) {
	c := qt.New(t)
	path := filepath.Join(c.TempDir(), "settings.yaml")
	settings := "chromosomes: [chr1, chr2]\nmax-tsd-length: 20\nmax-te-length: 1.2\nzero-based: true\ncompression: lz4\n"
	c.Assert(os.WriteFile(path, []byte(settings), 0666), qt.IsNil)
	v := viper.New()
	SetDefaults(v)
	cfg, err := New(v, path)
	c.Assert(err, qt.IsNil)
	c.Assert(cfg.Chromosomes, qt.DeepEquals, []string{"chr1", "chr2"})
	c.Assert(cfg.Params(), qt.Equals, insertion.Params{MinTSDLength: 0, MaxTSDLength: 20, MinTELength: 0.1, MaxTELength: 1.2})
	c.Assert(cfg.ZeroBased, qt.IsTrue)
	c.Assert(cfg.Compression, qt.Equals, "lz4")
}

func TestValidate(t *testing.T) {
	c := qt.New(t)
	v := viper.New()
	SetDefaults(v)
	cfg, err := New(v, "")
	c.Assert(err, qt.IsNil)

	bad := cfg
	bad.Chromosomes = nil
	c.Assert(bad.Validate(), qt.ErrorMatches, "No chromosome selected")
	bad = cfg
	bad.MinTSDLength = 200
	c.Assert(bad.Validate(), qt.ErrorMatches, "Minimum TSD length 200 above maximum 100")
	bad = cfg
	bad.MaxTSDLength = insertion.Unset
	c.Assert(bad.Validate(), qt.ErrorMatches, "Maximum TSD length [0-9]+ too large")
	bad.MaxTSDLength = insertion.Unset - 1
	c.Assert(bad.Validate(), qt.IsNil)
	bad = cfg
	bad.MinTELength = 2
	c.Assert(bad.Validate(), qt.ErrorMatches, "Wrong TE length fractions 2-1.5")
	bad = cfg
	bad.Compression = "zstd"
	c.Assert(bad.Validate(), qt.ErrorMatches, "Unknown compression zstd")

	_, err = New(viper.New(), filepath.Join(c.TempDir(), "missing.yaml"))
	c.Assert(err, qt.ErrorMatches, "Reading settings .*")
}

//
// Copyright (C) 2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"

	"git.sr.ht/~vejnar/TEMapper/lib/coordshift"
	"git.sr.ht/~vejnar/TEMapper/lib/esam"
)

const iloc = "Chromosome\tTSD Upstream\tTSD Downstream\tOrientation\tName\t# Upstream Reads\t# Downstream Reads\tFound in Reference?\n" +
	"2L\t101\t200\t+/-\troo\t1\t1\treference\n" +
	"2L\t301\t400\t+/+\tDoc\t3\t1\treference\n"

func writeILoc(c *qt.C) string {
	p := filepath.Join(c.TempDir(), "iloc.tsv")
	c.Assert(os.WriteFile(p, []byte(iloc), 0644), qt.IsNil)
	return p
}

func TestShiftPositions(t *testing.T) {
	c := qt.New(t)
	sh, err := loadShifter(writeILoc(c))
	c.Assert(err, qt.IsNil)
	c.Assert(sh.Spans("2L"), qt.DeepEquals, []coordshift.Span{{Up: 101, Down: 200}, {Up: 301, Down: 400}})

	var out bytes.Buffer
	err = shiftPositions(strings.NewReader("2L 50\n2L\t150\n\n2L 250\nX 7\n"), &out, sh, false)
	c.Assert(err, qt.IsNil)
	c.Assert(out.String(), qt.Equals, "2L\t50\t50\n2L\t150\twithin\t101\t200\n2L\t250\t150\nX\t7\t7\n")

	out.Reset()
	err = shiftPositions(strings.NewReader("2L 50\n2L 150\n2L 250\n"), &out, sh, true)
	c.Assert(err, qt.IsNil)
	c.Assert(out.String(), qt.Equals, "2L\t50\t50\n2L\t150\t250\n2L\t250\t450\n")
}

func TestShiftPositionsErrors(t *testing.T) {
	c := qt.New(t)
	sh, err := coordshift.NewShifter(coordshift.ILoc{})
	c.Assert(err, qt.IsNil)
	var out bytes.Buffer
	c.Assert(shiftPositions(strings.NewReader("2L\n"), &out, sh, false), qt.ErrorMatches, "Missing position at line 1")
	c.Assert(shiftPositions(strings.NewReader("2L 1\n2L x\n"), &out, sh, false), qt.ErrorMatches, "Wrong position at line 2: .*")
}

func TestLoadLengths(t *testing.T) {
	c := qt.New(t)
	_, err := loadLengths("", esam.PathSAM{}, nil)
	c.Assert(err, qt.ErrorMatches, "Missing transposon lengths or alignment against transposons")

	p := filepath.Join(c.TempDir(), "lengths.tsv")
	c.Assert(os.WriteFile(p, []byte("roo\t9092\nDoc\t4725\n"), 0644), qt.IsNil)
	lengths, err := loadLengths(p, esam.PathSAM{}, nil)
	c.Assert(err, qt.IsNil)
	c.Assert(lengths["roo"], qt.Equals, uint64(9092))
	c.Assert(lengths["Doc"], qt.Equals, uint64(4725))
}

func TestLoadMapping(t *testing.T) {
	c := qt.New(t)
	m, err := loadMapping("")
	c.Assert(err, qt.IsNil)
	c.Assert(m, qt.IsNil)
}

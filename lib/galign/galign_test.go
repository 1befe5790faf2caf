//
// Copyright (C) 2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package galign

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/biogo/hts/sam"
	qt "github.com/frankban/quicktest"

	"git.sr.ht/~vejnar/TEMapper/lib/splitread"
)

const header = "@SQ\tSN:2L\tLN:23513712\n@SQ\tSN:Un\tLN:10000\n"

func reader(c *qt.C, body string) *sam.Reader {
	rr, err := sam.NewReader(strings.NewReader(header + body))
	c.Assert(err, qt.IsNil)
	return rr
}

func line(name string, flag int, ref, pos, cigar string, n int) string {
	return strings.Join([]string{name, strconv.Itoa(flag), ref, pos, "60", cigar, "*", "0", "0", strings.Repeat("C", n), "*"}, "\t") + "\n"
}

func build(c *qt.C, l string) (GenomeAlignment, error) {
	r, err := reader(c, l).Read()
	c.Assert(err, qt.IsNil)
	return Build(r, Chromosomes([]string{"2L", "X"}))
}

func TestBuildSplit(t *testing.T) {
	c := qt.New(t)
	a, err := build(c, line("r1|roo|31|119|SM|start", 0, "2L", "1001", "31S119M", 150))
	c.Assert(err, qt.IsNil)
	c.Assert(a.Transposon, qt.Equals, "roo")
	c.Assert(a.OldM, qt.Equals, uint64(31))
	c.Assert(a.OldS, qt.Equals, uint64(119))
	c.Assert(a.IsSMTE, qt.IsTrue)
	c.Assert(a.Plus, qt.IsTrue)
	c.Assert(a.Chromosome, qt.Equals, "2L")
	c.Assert(a.Shape, qt.Equals, splitread.Shape(splitread.SM{S: 31, M: 119, Pos: 1001}))
	c.Assert(a.BoundaryNucleotide(), qt.Equals, uint64(1001))
	c.Assert(a.IsUpstream(), qt.IsFalse)
	c.Assert(a.IsReference(), qt.IsFalse)

	a, err = build(c, line("r2|roo|144|6|MS|end", 16, "2L", "1001", "100M50H", 100))
	c.Assert(err, qt.IsNil)
	c.Assert(a.Plus, qt.IsFalse)
	c.Assert(a.BoundaryNucleotide(), qt.Equals, uint64(1100))
	c.Assert(a.IsUpstream(), qt.IsTrue)
}

func TestBuildReference(t *testing.T) {
	c := qt.New(t)
	tests := []struct {
		name     string
		flag     int
		upstream bool
		boundary uint64
	}{
		{"r|roo|31|119|SM|start", 0, true, 500 + 119},
		{"r|roo|31|119|SM|start", 16, false, 500 + 31 - 1},
		{"r|roo|144|6|MS|end", 0, false, 500 + 144 - 1},
		{"r|roo|144|6|MS|end", 16, true, 500 + 6},
	}
	for _, test := range tests {
		a, err := build(c, line(test.name, test.flag, "2L", "500", "150M", 150))
		c.Assert(err, qt.IsNil)
		c.Assert(a.IsReference(), qt.IsTrue)
		c.Assert(a.IsUpstream(), qt.Equals, test.upstream, qt.Commentf("%s flag %d", test.name, test.flag))
		c.Assert(a.BoundaryNucleotide(), qt.Equals, test.boundary, qt.Commentf("%s flag %d", test.name, test.flag))
	}
}

func TestBuildRejects(t *testing.T) {
	c := qt.New(t)
	_, err := build(c, line("r|roo|31|119|SM|start", 4, "*", "0", "*", 150))
	c.Assert(err, qt.Equals, ErrUnmapped)
	_, err = build(c, line("r|roo|31|119|SM|start", 0, "Un", "10", "150M", 150))
	c.Assert(err, qt.Equals, ErrChromosome)
	_, err = build(c, line("r|roo|31|119|SM|start", 0, "2L", "10", "10S130M10S", 150))
	c.Assert(err, qt.Equals, ErrNotSplit)
	c.Assert(IsRejected(err), qt.IsTrue)
}

func TestBuildFatal(t *testing.T) {
	c := qt.New(t)
	_, err := build(c, line("r|roo|31|119|SM|end", 0, "2L", "10", "150M", 150))
	var ierr *IntegrityError
	c.Assert(errors.As(err, &ierr), qt.IsTrue)
	c.Assert(ierr.ReadName, qt.Equals, "r|roo|31|119|SM|end")
	c.Assert(IsRejected(err), qt.IsFalse)

	_, err = build(c, line("plainread", 0, "2L", "10", "150M", 150))
	c.Assert(err, qt.Not(qt.IsNil))
	c.Assert(IsRejected(err), qt.IsFalse)
}

func TestReadPools(t *testing.T) {
	c := qt.New(t)
	body := line("a|roo|31|119|SM|start", 0, "2L", "1001", "31S119M", 150) +
		line("b|roo|144|6|MS|end", 0, "2L", "990", "12M138S", 150) +
		line("c|roo|31|119|SM|start", 0, "2L", "500", "150M", 150) +
		line("d|roo|31|119|SM|start", 0, "Un", "500", "150M", 150) +
		line("e|roo|31|119|SM|start", 4, "*", "0", "*", 150) +
		line("f|roo|31|119|SM|start", 0, "2L", "500", "20M1I129M", 150)
	pools, stats, err := ReadPools(reader(c, body), Chromosomes([]string{"2L"}))
	c.Assert(err, qt.IsNil)
	c.Assert(stats, qt.Equals, Stats{Records: 6, Unmapped: 1, Chromosome: 1, NotSplit: 1, Kept: 3})
	c.Assert(pools, qt.HasLen, 1)
	c.Assert(pools["2L"].NonRef, qt.HasLen, 2)
	c.Assert(pools["2L"].Ref, qt.HasLen, 1)
}

func TestReadPoolsFatal(t *testing.T) {
	c := qt.New(t)
	body := line("a|roo|31|119|SM|start", 0, "2L", "1001", "31S119M", 150) +
		line("b|roo|144|6|SM|end", 0, "2L", "990", "12M138S", 150)
	_, stats, err := ReadPools(reader(c, body), Chromosomes([]string{"2L"}))
	var ierr *IntegrityError
	c.Assert(errors.As(err, &ierr), qt.IsTrue)
	c.Assert(stats.Kept, qt.Equals, uint64(1))
}

func TestReadPoolsFatalOutsideChromosomes(t *testing.T) {
	c := qt.New(t)
	_, stats, err := ReadPools(reader(c, line("b|roo|144|6|SM|end", 0, "Un", "990", "12M138S", 150)), Chromosomes([]string{"2L"}))
	var ierr *IntegrityError
	c.Assert(errors.As(err, &ierr), qt.IsTrue)
	c.Assert(ierr.ReadName, qt.Equals, "b|roo|144|6|SM|end")
	c.Assert(stats.Chromosome, qt.Equals, uint64(0))

	_, stats, err = ReadPools(reader(c, line("c|roo|notanumber|6|MS|end", 0, "Un", "990", "12M138S", 150)), Chromosomes([]string{"2L"}))
	c.Assert(err, qt.Not(qt.IsNil))
	c.Assert(IsRejected(err), qt.IsFalse)
	c.Assert(stats.Chromosome, qt.Equals, uint64(0))
}

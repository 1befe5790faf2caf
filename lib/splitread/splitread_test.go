//
// Copyright (C) 2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package splitread

import (
	"fmt"
	"testing"

	"github.com/biogo/hts/sam"
	qt "github.com/frankban/quicktest"
)

func cigar(c *qt.C, s string) sam.Cigar {
	cg, err := sam.ParseCigar([]byte(s))
	c.Assert(err, qt.IsNil)
	return cg
}

func TestClassifyTESM(t *testing.T) {
	c := qt.New(t)
	for _, n := range [][2]uint64{{1, 1}, {119, 31}, {9, 141}, {75, 75}} {
		sh, ok := ClassifyTE(cigar(c, fmt.Sprintf("%dS%dM", n[0], n[1])), 42)
		c.Assert(ok, qt.IsTrue)
		c.Assert(sh, qt.Equals, Shape(SM{S: n[0], M: n[1], Pos: 42}))
		c.Assert(sh.Boundary(), qt.Equals, uint64(42))
	}
}

func TestClassifyTEMS(t *testing.T) {
	c := qt.New(t)
	for _, n := range [][2]uint64{{144, 6}, {31, 119}, {1, 1}} {
		sh, ok := ClassifyTE(cigar(c, fmt.Sprintf("%dM%dS", n[0], n[1])), 8949)
		c.Assert(ok, qt.IsTrue)
		ms := sh.(MS)
		c.Assert(ms.M, qt.Equals, n[0])
		c.Assert(ms.S, qt.Equals, n[1])
		c.Assert(ms.LastM(), qt.Equals, 8949+n[0]-1)
	}
}

func TestClassifyTERejects(t *testing.T) {
	c := qt.New(t)
	for _, s := range []string{"150M", "54S34M62S", "5H100M", "100M5H", "10M2I10M", "3S10M4S", "10=5S", "*"} {
		sh, ok := ClassifyTE(cigar(c, s), 1)
		c.Assert(ok, qt.IsFalse, qt.Commentf("cigar %s", s))
		c.Assert(sh, qt.IsNil)
	}
}

func TestClassifyGenome(t *testing.T) {
	c := qt.New(t)
	te := TESplit{M: 31, S: 119, IsStart: true}
	tests := []struct {
		cigar string
		want  Shape
	}{
		{"20H130M", SM{S: 20, M: 130, Pos: 100}},
		{"130M20H", MS{M: 130, S: 20, Pos: 100}},
		{"20S130M", SM{S: 20, M: 130, Pos: 100}},
		{"130M20S", MS{M: 130, S: 20, Pos: 100}},
		{"150M", M{OldS: 119, OldM: 31, IsStart: true, NewPlus: true, NewPos: 100}},
	}
	for _, test := range tests {
		sh, ok := ClassifyGenome(cigar(c, test.cigar), te, true, 100)
		c.Assert(ok, qt.IsTrue, qt.Commentf("cigar %s", test.cigar))
		c.Assert(sh, qt.Equals, test.want)
	}
	for _, s := range []string{"10S10M10S", "5H5S10M", "10M1D10M", "*"} {
		_, ok := ClassifyGenome(cigar(c, s), te, true, 100)
		c.Assert(ok, qt.IsFalse, qt.Commentf("cigar %s", s))
	}
}

func TestMBoundary(t *testing.T) {
	c := qt.New(t)
	tests := []struct {
		plus, start bool
		want        uint64
	}{
		{true, true, 1000 + 119},
		{true, false, 1000 + 31 - 1},
		{false, true, 1000 + 31 - 1},
		{false, false, 1000 + 119},
	}
	for _, test := range tests {
		m := M{OldS: 119, OldM: 31, IsStart: test.start, NewPlus: test.plus, NewPos: 1000}
		c.Assert(m.Boundary(), qt.Equals, test.want, qt.Commentf("plus=%v start=%v", test.plus, test.start))
	}
}

func TestName(t *testing.T) {
	c := qt.New(t)
	c.Assert(Name(SM{}), qt.Equals, "SM")
	c.Assert(Name(MS{}), qt.Equals, "MS")
	c.Assert(Name(M{}), qt.Equals, "M")
}

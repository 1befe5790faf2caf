//
// Copyright (C) 2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

// Package splitread classifies alignments into split-read shapes.
//
// Only two shapes are meaningful on the transposon side: a clipped run followed
// by a matching run (SM) or the reverse (MS). On the genome side, hard clipping
// is accepted in place of soft clipping, and a full match (M) marks a transposon
// already present in the reference.
package splitread

import (
	"github.com/biogo/hts/sam"
)

// Shape is one of SM, MS or M.
type Shape interface {
	// Boundary returns the one-based position of the junction nucleotide.
	Boundary() uint64
	isShape()
}

// SM is a non-matching run of length S followed by a matching run of length M.
// Pos is the position of the first matching base.
type SM struct {
	S, M uint64
	Pos  uint64
}

// FirstM returns the position of the first matching base.
func (a SM) FirstM() uint64 { return a.Pos }

func (a SM) Boundary() uint64 { return a.FirstM() }

func (SM) isShape() {}

// MS is a matching run of length M followed by a non-matching run of length S.
// Pos is the position of the first matching base.
type MS struct {
	M, S uint64
	Pos  uint64
}

// LastM returns the position of the last matching base.
func (a MS) LastM() uint64 { return a.Pos + a.M - 1 }

func (a MS) Boundary() uint64 { return a.LastM() }

func (MS) isShape() {}

// M is a genome-side full match. OldS, OldM and IsStart come from the
// transposon-side split; NewPlus and NewPos from the genome alignment.
type M struct {
	OldS, OldM uint64
	IsStart    bool
	NewPlus    bool
	NewPos     uint64
}

// Boundary maps the split offset inside the read onto the genome, which
// is the first or last base of the transposon depending on the strand.
func (a M) Boundary() uint64 {
	if a.NewPlus {
		if a.IsStart {
			return a.NewPos + a.OldS
		}
		return a.NewPos + a.OldM - 1
	}
	if a.IsStart {
		return a.NewPos + a.OldM - 1
	}
	return a.NewPos + a.OldS
}

func (M) isShape() {}

// TESplit is the transposon-side split carried into genome-side classification.
type TESplit struct {
	M, S    uint64
	IsStart bool
}

func twoOps(c sam.Cigar, first, second sam.CigarOpType) (uint64, uint64, bool) {
	if len(c) != 2 || c[0].Type() != first || c[1].Type() != second {
		return 0, 0, false
	}
	return uint64(c[0].Len()), uint64(c[1].Len()), true
}

// ClassifyTE returns the shape of a transposon-side alignment starting at pos.
// Only soft-clipped splits are accepted.
func ClassifyTE(c sam.Cigar, pos uint64) (Shape, bool) {
	if s, m, ok := twoOps(c, sam.CigarSoftClipped, sam.CigarMatch); ok {
		return SM{S: s, M: m, Pos: pos}, true
	}
	if m, s, ok := twoOps(c, sam.CigarMatch, sam.CigarSoftClipped); ok {
		return MS{M: m, S: s, Pos: pos}, true
	}
	return nil, false
}

// ClassifyGenome returns the shape of a genome-side alignment starting at pos.
// Patterns are checked as HM, MH, SM, MS then M; hard clips count as soft clips.
func ClassifyGenome(c sam.Cigar, te TESplit, plus bool, pos uint64) (Shape, bool) {
	if h, m, ok := twoOps(c, sam.CigarHardClipped, sam.CigarMatch); ok {
		return SM{S: h, M: m, Pos: pos}, true
	}
	if m, h, ok := twoOps(c, sam.CigarMatch, sam.CigarHardClipped); ok {
		return MS{M: m, S: h, Pos: pos}, true
	}
	if sh, ok := ClassifyTE(c, pos); ok {
		return sh, true
	}
	if len(c) == 1 && c[0].Type() == sam.CigarMatch {
		return M{OldS: te.S, OldM: te.M, IsStart: te.IsStart, NewPlus: plus, NewPos: pos}, true
	}
	return nil, false
}

// Name returns "SM", "MS" or "M".
func Name(sh Shape) string {
	switch sh.(type) {
	case SM:
		return "SM"
	case MS:
		return "MS"
	case M:
		return "M"
	}
	return ""
}

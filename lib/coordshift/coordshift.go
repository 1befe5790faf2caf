//
// Copyright (C) 2015-2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

// Package coordshift translates positions between a reference genome and the
// synthetic genome obtained by removing its transposons.
package coordshift

import (
	"fmt"
	"sort"

	"github.com/biogo/store/interval"
)

type spanInterval struct {
	Start, End int
	UID        uintptr
	Span       Span
}

func (i spanInterval) Overlap(b interval.IntRange) bool {
	// Half-open interval indexing.
	return i.End > b.Start && i.Start < b.End
}

func (i spanInterval) ID() uintptr {
	return i.UID
}

func (i spanInterval) Range() interval.IntRange {
	return interval.IntRange{Start: i.Start, End: i.End}
}

func (i spanInterval) String() string {
	return fmt.Sprintf("[%d,%d)#%d", i.Start, i.End, i.UID)
}

type chromSpans struct {
	spans []Span
	// removed[i] is the number of bases removed up to and including spans[i]
	removed []uint64
	tree    *interval.IntTree
}

// Shifter maps positions of one ILoc.
type Shifter struct {
	chroms map[string]*chromSpans
}

// MergeSpans returns sorted spans with overlapping or adjacent spans joined.
func MergeSpans(spans []Span) []Span {
	sorted := make([]Span, len(spans))
	copy(sorted, spans)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Up < sorted[j].Up })
	var merged []Span
	for _, s := range sorted {
		if n := len(merged); n > 0 && s.Up <= merged[n-1].Down+1 {
			if s.Down > merged[n-1].Down {
				merged[n-1].Down = s.Down
			}
			continue
		}
		merged = append(merged, s)
	}
	return merged
}

// NewShifter indexes the spans of every chromosome.
func NewShifter(iloc ILoc) (*Shifter, error) {
	sh := &Shifter{chroms: make(map[string]*chromSpans)}
	uid := 0
	for chrom, spans := range iloc {
		cs := &chromSpans{spans: MergeSpans(spans), tree: &interval.IntTree{}}
		var total uint64
		for _, s := range cs.spans {
			total += s.Len()
			cs.removed = append(cs.removed, total)
			iv := spanInterval{Start: int(s.Up), End: int(s.Down) + 1, UID: uintptr(uid), Span: s}
			if err := cs.tree.Insert(iv, false); err != nil {
				return nil, err
			}
			uid++
		}
		cs.tree.AdjustRanges()
		sh.chroms[chrom] = cs
	}
	return sh, nil
}

// Spans returns the merged spans of chrom.
func (sh *Shifter) Spans(chrom string) []Span {
	if cs, ok := sh.chroms[chrom]; ok {
		return cs.spans
	}
	return nil
}

// Position is a synthetic coordinate, or the transposon containing the
// reference position when Within is set.
type Position struct {
	Pos    uint64
	Within bool
	Span   Span
}

// ToSynthetic translates a reference position. Spans are closed: a position
// equal to the upstream or the downstream position of a span is inside the
// transposon, since both bases are removed from the synthetic genome.
// Positions on chromosomes without transposons are unchanged.
func (sh *Shifter) ToSynthetic(chrom string, pos uint64) Position {
	cs, ok := sh.chroms[chrom]
	if !ok {
		return Position{Pos: pos}
	}
	if hits := cs.tree.Get(spanInterval{Start: int(pos), End: int(pos) + 1}); len(hits) > 0 {
		return Position{Within: true, Span: hits[0].(spanInterval).Span}
	}
	// Spans entirely upstream of pos
	n := sort.Search(len(cs.spans), func(i int) bool { return cs.spans[i].Down >= pos })
	if n == 0 {
		return Position{Pos: pos}
	}
	return Position{Pos: pos - cs.removed[n-1]}
}

// ToReference translates a synthetic position.
func (sh *Shifter) ToReference(chrom string, pos uint64) uint64 {
	cs, ok := sh.chroms[chrom]
	if !ok {
		return pos
	}
	for _, s := range cs.spans {
		if s.Up > pos {
			break
		}
		pos += s.Len()
	}
	return pos
}

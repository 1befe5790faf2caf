//
// Copyright (C) 2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

// Package insertion assembles genome alignments into transposon insertions.
package insertion

import (
	"container/heap"
	"fmt"
	"math"
	"sort"

	"git.sr.ht/~vejnar/TEMapper/lib/galign"
	"git.sr.ht/~vejnar/TEMapper/lib/tealign"
)

// Unset marks the missing side of an insertion seen from one side only.
// Halved so that window offsets added to it never overflow.
const Unset = math.MaxUint64 / 2

// Orientation of the transposon relative to the genome.
type Orientation uint8

const (
	PlusPlus Orientation = iota
	PlusMinus
)

func (o Orientation) String() string {
	if o == PlusMinus {
		return "+/-"
	}
	return "+/+"
}

// Insertion is a non-reference or a reference transposon call.
//
// Non-reference insertions have UpstreamPos > DownstreamPos, the difference
// being the target site duplication. Reference insertions span the annotated
// transposon, UpstreamPos < DownstreamPos.
type Insertion struct {
	Name            string
	Chromosome      string
	UpstreamPos     uint64
	DownstreamPos   uint64
	Orientation     Orientation
	UpstreamReads   uint64
	DownstreamReads uint64
	Reference       bool
}

// Params bounds the distance between both sides of an insertion.
// TSD lengths are in bases; TE lengths are fractions of the transposon length.
type Params struct {
	MinTSDLength uint64
	MaxTSDLength uint64
	MinTELength  float64
	MaxTELength  float64
}

// DefaultParams returns the usual bounds.
func DefaultParams() Params {
	return Params{MinTSDLength: 0, MaxTSDLength: 100, MinTELength: 0.1, MaxTELength: 1.5}
}

type item struct {
	a   galign.GenomeAlignment
	pos uint64
	seq int
}

// alignmentHeap orders by transposon name, boundary nucleotide then arrival.
type alignmentHeap []item

func (h alignmentHeap) Len() int { return len(h) }
func (h alignmentHeap) Less(i, j int) bool {
	if h[i].a.Transposon != h[j].a.Transposon {
		return h[i].a.Transposon < h[j].a.Transposon
	}
	if h[i].pos != h[j].pos {
		return h[i].pos < h[j].pos
	}
	return h[i].seq < h[j].seq
}
func (h alignmentHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *alignmentHeap) Push(x interface{}) {
	*h = append(*h, x.(item))
}
func (h *alignmentHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// Site is a set of reads sharing one boundary nucleotide.
type Site struct {
	Pos   uint64
	Reads []galign.GenomeAlignment
}

// Group is the ordered list of sites of one transposon.
type Group struct {
	Transposon string
	Sites      []Site
}

// GroupAlignments drains alignments in (transposon, boundary) order and groups
// them by transposon then by exact boundary position.
func GroupAlignments(alns []galign.GenomeAlignment) []Group {
	h := make(alignmentHeap, 0, len(alns))
	for i, a := range alns {
		h = append(h, item{a: a, pos: a.BoundaryNucleotide(), seq: i})
	}
	heap.Init(&h)
	var groups []Group
	for h.Len() > 0 {
		it := heap.Pop(&h).(item)
		if len(groups) == 0 || groups[len(groups)-1].Transposon != it.a.Transposon {
			groups = append(groups, Group{Transposon: it.a.Transposon})
		}
		g := &groups[len(groups)-1]
		if len(g.Sites) == 0 || g.Sites[len(g.Sites)-1].Pos != it.pos {
			g.Sites = append(g.Sites, Site{Pos: it.pos})
		}
		s := &g.Sites[len(g.Sites)-1]
		s.Reads = append(s.Reads, it.a)
	}
	return groups
}

type merger func(cur *Insertion, a galign.GenomeAlignment, pos uint64) bool

func assemble(chrom string, alns []galign.GenomeAlignment, reference bool, orient func(galign.GenomeAlignment) Orientation, merge merger) []Insertion {
	var insertions []Insertion
	for _, g := range GroupAlignments(alns) {
		// Index of the insertion being extended, reset for every transposon
		cur := -1
		for _, s := range g.Sites {
			for _, a := range s.Reads {
				o := orient(a)
				if cur >= 0 && insertions[cur].Orientation == o && merge(&insertions[cur], a, s.Pos) {
					continue
				}
				ins := Insertion{Name: g.Transposon, Chromosome: chrom, Orientation: o, Reference: reference}
				if a.IsUpstream() {
					ins.UpstreamPos, ins.DownstreamPos = s.Pos, Unset
					ins.UpstreamReads = 1
				} else {
					ins.UpstreamPos, ins.DownstreamPos = Unset, s.Pos
					ins.DownstreamReads = 1
				}
				insertions = append(insertions, ins)
				cur = len(insertions) - 1
			}
		}
	}
	return finalize(insertions)
}

// finalize drops insertions without support on both sides and orders by position.
func finalize(insertions []Insertion) []Insertion {
	kept := insertions[:0]
	for _, ins := range insertions {
		if ins.UpstreamReads > 0 && ins.DownstreamReads > 0 {
			kept = append(kept, ins)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].UpstreamPos < kept[j].UpstreamPos })
	return kept
}

// AssembleNonRef calls non-reference insertions on one chromosome from SM and MS alignments.
func AssembleNonRef(chrom string, alns []galign.GenomeAlignment, p Params) []Insertion {
	orient := func(a galign.GenomeAlignment) Orientation {
		if a.IsUpstream() == a.IsSMTE {
			return PlusPlus
		}
		return PlusMinus
	}
	merge := func(cur *Insertion, a galign.GenomeAlignment, pos uint64) bool {
		if a.IsUpstream() {
			if pos == cur.UpstreamPos {
				cur.UpstreamReads++
				return true
			}
			if cur.DownstreamPos+p.MinTSDLength <= pos && pos <= cur.DownstreamPos+p.MaxTSDLength {
				cur.UpstreamPos = pos
				cur.UpstreamReads++
				return true
			}
			return false
		}
		if pos == cur.DownstreamPos {
			cur.DownstreamReads++
			return true
		}
		return false
	}
	return assemble(chrom, alns, false, orient, merge)
}

// AssembleRef calls insertions annotated in the reference on one chromosome
// from full-match alignments. The downstream window scales with the
// transposon length, so every transposon must be in lengths.
func AssembleRef(chrom string, alns []galign.GenomeAlignment, lengths tealign.LengthTable, p Params) ([]Insertion, error) {
	for _, a := range alns {
		if _, ok := lengths[a.Transposon]; !ok {
			return nil, &tealign.UnknownTransposonError{Name: a.Transposon}
		}
	}
	orient := func(a galign.GenomeAlignment) Orientation {
		if a.Plus {
			return PlusPlus
		}
		return PlusMinus
	}
	merge := func(cur *Insertion, a galign.GenomeAlignment, pos uint64) bool {
		if a.IsUpstream() {
			if pos == cur.UpstreamPos {
				cur.UpstreamReads++
				return true
			}
			return false
		}
		if pos == cur.DownstreamPos {
			cur.DownstreamReads++
			return true
		}
		l := float64(lengths[a.Transposon])
		if cur.UpstreamPos+uint64(p.MinTELength*l) <= pos && pos <= cur.UpstreamPos+uint64(p.MaxTELength*l) {
			cur.DownstreamPos = pos
			cur.DownstreamReads++
			return true
		}
		return false
	}
	return assemble(chrom, alns, true, orient, merge), nil
}

// AssembleAll assembles every chromosome in the given order, non-reference
// insertions first then reference insertions.
func AssembleAll(pools map[string]*galign.Pools, chroms []string, lengths tealign.LengthTable, p Params) ([]Insertion, error) {
	var all []Insertion
	for _, chrom := range chroms {
		pool, ok := pools[chrom]
		if !ok {
			continue
		}
		all = append(all, AssembleNonRef(chrom, pool.NonRef, p)...)
		ref, err := AssembleRef(chrom, pool.Ref, lengths, p)
		if err != nil {
			return all, fmt.Errorf("Chromosome %s: %w", chrom, err)
		}
		all = append(all, ref...)
	}
	return all, nil
}

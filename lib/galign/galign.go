//
// Copyright (C) 2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

// Package galign builds genome alignments from reads selected on the transposon side.
package galign

import (
	"errors"
	"fmt"
	"io"

	"github.com/biogo/hts/sam"
	"gopkg.in/fatih/set.v0"

	"git.sr.ht/~vejnar/TEMapper/lib/splitread"
	"git.sr.ht/~vejnar/TEMapper/lib/tealign"
)

// Rejected records.
var (
	ErrUnmapped   = errors.New("unmapped read")
	ErrChromosome = errors.New("chromosome not selected")
	ErrNotSplit   = errors.New("CIGAR string is not SM, MS or M")
)

// IsRejected reports whether err only rejects the record.
func IsRejected(err error) bool {
	return errors.Is(err, ErrUnmapped) || errors.Is(err, ErrChromosome) || errors.Is(err, ErrNotSplit)
}

// IntegrityError is returned when a read name carries an SM split at the
// transposon end or an MS split at the transposon start.
type IntegrityError struct {
	ReadName string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("Read %s: transposon split and transposon end disagree", e.ReadName)
}

// Chromosomes returns a thread-safe allow-list of chromosome names.
func Chromosomes(names []string) set.Interface {
	s := set.New(set.ThreadSafe)
	for _, n := range names {
		s.Add(n)
	}
	return s
}

// GenomeAlignment is a selected read realigned to the genome.
type GenomeAlignment struct {
	Transposon string
	OldM       uint64
	OldS       uint64
	IsSMTE     bool
	IsStart    bool
	Plus       bool
	Chromosome string
	Shape      splitread.Shape
}

// Build classifies a genome record whose name was written by tealign.ReadName.
func Build(r *sam.Record, chroms set.Interface) (GenomeAlignment, error) {
	if r.Flags&sam.Unmapped != 0 || r.Ref == nil {
		return GenomeAlignment{}, ErrUnmapped
	}
	// Read name integrity is checked on every mapped record, whatever its chromosome
	n, err := tealign.ParseReadName(r.Name)
	if err != nil {
		return GenomeAlignment{}, err
	}
	if n.IsSM != n.IsStart {
		return GenomeAlignment{}, &IntegrityError{ReadName: r.Name}
	}
	if !chroms.Has(r.Ref.Name()) {
		return GenomeAlignment{}, ErrChromosome
	}
	plus := r.Flags&sam.Reverse == 0
	sh, ok := splitread.ClassifyGenome(r.Cigar, splitread.TESplit{M: n.M, S: n.S, IsStart: n.IsStart}, plus, uint64(r.Pos+1))
	if !ok {
		return GenomeAlignment{}, ErrNotSplit
	}
	return GenomeAlignment{
		Transposon: n.Transposon,
		OldM:       n.M,
		OldS:       n.S,
		IsSMTE:     n.IsSM,
		IsStart:    n.IsStart,
		Plus:       plus,
		Chromosome: r.Ref.Name(),
		Shape:      sh,
	}, nil
}

// BoundaryNucleotide returns the one-based genome position of the junction base.
func (a GenomeAlignment) BoundaryNucleotide() uint64 {
	return a.Shape.Boundary()
}

// IsUpstream reports whether the read supports the upstream side of an insertion.
func (a GenomeAlignment) IsUpstream() bool {
	switch s := a.Shape.(type) {
	case splitread.MS:
		return true
	case splitread.M:
		return s.IsStart == s.NewPlus
	}
	return false
}

// IsReference reports whether the read fully matches the genome.
func (a GenomeAlignment) IsReference() bool {
	_, ok := a.Shape.(splitread.M)
	return ok
}

// Pools holds the genome alignments of one chromosome.
type Pools struct {
	NonRef []GenomeAlignment
	Ref    []GenomeAlignment
}

// Stats counts the records seen by ReadPools.
type Stats struct {
	Records    uint64
	Unmapped   uint64
	Chromosome uint64
	NotSplit   uint64
	Kept       uint64
}

// ReadPools reads all records and groups accepted alignments by chromosome
// and by polarity.
func ReadPools(rr sam.RecordReader, chroms set.Interface) (map[string]*Pools, Stats, error) {
	var stats Stats
	pools := make(map[string]*Pools)
	for {
		r, err := rr.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return pools, stats, err
		}
		stats.Records++
		a, err := Build(r, chroms)
		if err != nil {
			switch {
			case errors.Is(err, ErrUnmapped):
				stats.Unmapped++
			case errors.Is(err, ErrChromosome):
				stats.Chromosome++
			case errors.Is(err, ErrNotSplit):
				stats.NotSplit++
			default:
				return pools, stats, err
			}
			continue
		}
		stats.Kept++
		p, ok := pools[a.Chromosome]
		if !ok {
			p = &Pools{}
			pools[a.Chromosome] = p
		}
		if a.IsReference() {
			p.Ref = append(p.Ref, a)
		} else {
			p.NonRef = append(p.NonRef, a)
		}
	}
	return pools, stats, nil
}

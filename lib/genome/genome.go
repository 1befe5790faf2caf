//
// Copyright (C) 2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

// Package genome writes the synthetic genome and the tiled reference reads.
package genome

import (
	"fmt"
	"io"
	"strconv"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/feat"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/io/seqio/fastq"
	"github.com/biogo/biogo/seq/linear"
	"github.com/biogo/biogo/seq/sequtils"

	"git.sr.ht/~vejnar/TEMapper/lib/coordshift"
)

const (
	LineWidth  = 60
	ReadLength = 150
	// Highest Sanger quality, written as '~'.
	tileQuality = alphabet.Qphred(93)
)

type segment struct {
	s, e int
	feat.Feature
}

func (f segment) Start() int                    { return f.s }
func (f segment) End() int                      { return f.e }
func (f segment) Len() int                      { return f.e - f.s }
func (f segment) Orientation() feat.Orientation { return feat.Forward }

type segments []feat.Feature

func (f segments) Features() []feat.Feature { return []feat.Feature(f) }

// kept returns the zero-based half-open segments outside the one-based
// fully closed spans.
func kept(spans []coordshift.Span, length int) segments {
	var fs segments
	prev := 0
	for _, sp := range spans {
		up, down := int(sp.Up)-1, int(sp.Down)
		if up >= length {
			break
		}
		if up > prev {
			fs = append(fs, segment{s: prev, e: up})
		}
		if down > prev {
			prev = down
		}
	}
	if prev < length {
		fs = append(fs, segment{s: prev, e: length})
	}
	return fs
}

// Stats counts bases of a synthetic genome.
type Stats struct {
	Sequences int
	Bases     int
	Removed   int
}

// Synthesize copies the FASTA sequences of ref to out with the spans of sh removed.
func Synthesize(ref io.Reader, out io.Writer, sh *coordshift.Shifter) (Stats, error) {
	var stats Stats
	w := fasta.NewWriter(out, LineWidth)
	sc := seqio.NewScanner(fasta.NewReader(ref, linear.NewSeq("", nil, alphabet.DNAredundant)))
	for sc.Next() {
		next := sc.Seq().(*linear.Seq)
		stats.Sequences++
		spans := sh.Spans(next.Name())
		if len(spans) == 0 {
			stats.Bases += len(next.Seq)
			if _, err := w.Write(next); err != nil {
				return stats, err
			}
			continue
		}
		curr := linear.NewSeq(next.ID, nil, alphabet.DNAredundant)
		curr.Desc = next.Desc
		if fs := kept(spans, len(next.Seq)); len(fs) > 0 {
			if err := sequtils.Stitch(curr, next, fs); err != nil {
				return stats, fmt.Errorf("Sequence %s: %w", next.Name(), err)
			}
		}
		stats.Bases += len(curr.Seq)
		stats.Removed += len(next.Seq) - len(curr.Seq)
		if _, err := w.Write(curr); err != nil {
			return stats, err
		}
	}
	return stats, sc.Error()
}

// Tile writes, for every sequence of ref, one FASTQ read of ReadLength bases
// at each offset. Reads are named <sequence>_Read_<n> with n starting at 1
// for every sequence. It returns the number of reads written.
func Tile(ref io.Reader, out io.Writer) (int, error) {
	var n int
	w := fastq.NewWriter(out)
	sc := seqio.NewScanner(fasta.NewReader(ref, linear.NewSeq("", nil, alphabet.DNAredundant)))
	for sc.Next() {
		next := sc.Seq().(*linear.Seq)
		ql := make([]alphabet.QLetter, ReadLength)
		for i := 0; i+ReadLength <= len(next.Seq); i++ {
			for j := range ql {
				ql[j] = alphabet.QLetter{L: next.Seq[i+j], Q: tileQuality}
			}
			read := linear.NewQSeq(next.Name()+"_Read_"+strconv.Itoa(i+1), ql, alphabet.DNAredundant, alphabet.Sanger)
			if _, err := w.Write(read); err != nil {
				return n, err
			}
			n++
		}
	}
	return n, sc.Error()
}

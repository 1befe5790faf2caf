//
// Copyright (C) 2015-2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

// Package tealign selects reads aligned across a transposon boundary.
package tealign

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/biogo/hts/sam"

	"git.sr.ht/~vejnar/TEMapper/lib/splitread"
)

// Rejected records. These are skipped, not fatal.
var (
	ErrUnmapped      = errors.New("unmapped read")
	ErrNotSplit      = errors.New("CIGAR string is not SM or MS")
	ErrNotAtBoundary = errors.New("split does not align to the start or end of transposon")
)

// UnknownTransposonError reports a transposon missing from the length table.
type UnknownTransposonError struct {
	Name string
}

func (e *UnknownTransposonError) Error() string {
	return fmt.Sprintf("Unable to find transposon %q in transposon list", e.Name)
}

// IsRejected reports whether err only rejects the record.
func IsRejected(err error) bool {
	return errors.Is(err, ErrUnmapped) || errors.Is(err, ErrNotSplit) || errors.Is(err, ErrNotAtBoundary)
}

// TEAlignment is a read split exactly at the start or the end of a transposon.
// IsSM and IsStart are always equal.
type TEAlignment struct {
	ReadID     string
	Transposon string
	MSize      uint64
	SSize      uint64
	IsSM       bool
	IsStart    bool
	Seq        []byte
}

// Build validates a record aligned to the transposon library.
func Build(r *sam.Record, lengths LengthTable) (TEAlignment, error) {
	if r.Flags&sam.Unmapped != 0 || r.Ref == nil {
		return TEAlignment{}, ErrUnmapped
	}
	name := r.Ref.Name()
	length, ok := lengths[name]
	if !ok {
		return TEAlignment{}, &UnknownTransposonError{Name: name}
	}
	a := TEAlignment{ReadID: r.Name, Transposon: name, Seq: r.Seq.Expand()}
	sh, ok := splitread.ClassifyTE(r.Cigar, uint64(r.Pos+1))
	if !ok {
		return TEAlignment{}, ErrNotSplit
	}
	switch s := sh.(type) {
	case splitread.SM:
		if s.FirstM() != 1 {
			return TEAlignment{}, ErrNotAtBoundary
		}
		a.MSize, a.SSize = s.M, s.S
		a.IsSM, a.IsStart = true, true
	case splitread.MS:
		if s.LastM() != length {
			return TEAlignment{}, ErrNotAtBoundary
		}
		a.MSize, a.SSize = s.M, s.S
	}
	return a, nil
}

// ReadName returns the fields embedded in the read name for the genome alignment.
func (a TEAlignment) ReadName() ReadName {
	return ReadName{QName: a.ReadID, Transposon: a.Transposon, M: a.MSize, S: a.SSize, IsSM: a.IsSM, IsStart: a.IsStart}
}

// String formats the alignment as a FASTA record.
func (a TEAlignment) String() string {
	return ">" + a.ReadName().String() + "\n" + string(a.Seq)
}

// ReadName is the pipe-delimited read name carrying the transposon-side split
// through the genome alignment: qname|transposon|m|s|SM-or-MS|start-or-end.
type ReadName struct {
	QName      string
	Transposon string
	M, S       uint64
	IsSM       bool
	IsStart    bool
}

func (n ReadName) String() string {
	sm := "MS"
	if n.IsSM {
		sm = "SM"
	}
	start := "end"
	if n.IsStart {
		start = "start"
	}
	return n.QName + "|" + n.Transposon + "|" + strconv.FormatUint(n.M, 10) + "|" + strconv.FormatUint(n.S, 10) + "|" + sm + "|" + start
}

// ParseReadName decodes a name written by ReadName.String.
func ParseReadName(name string) (n ReadName, err error) {
	fields := strings.Split(name, "|")
	if len(fields) < 6 {
		return n, fmt.Errorf("Read name %s has %d field(s) instead of 6", name, len(fields))
	}
	n.QName = fields[0]
	n.Transposon = fields[1]
	if n.M, err = strconv.ParseUint(fields[2], 10, 64); err != nil {
		return n, fmt.Errorf("Wrong match size in read name %s: %w", name, err)
	}
	if n.S, err = strconv.ParseUint(fields[3], 10, 64); err != nil {
		return n, fmt.Errorf("Wrong clip size in read name %s: %w", name, err)
	}
	switch fields[4] {
	case "SM":
		n.IsSM = true
	case "MS":
	default:
		return n, fmt.Errorf("Unknown split %s in read name %s", fields[4], name)
	}
	switch fields[5] {
	case "start":
		n.IsStart = true
	case "end":
	default:
		return n, fmt.Errorf("Unknown transposon end %s in read name %s", fields[5], name)
	}
	return n, nil
}

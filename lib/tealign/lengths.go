//
// Copyright (C) 2015-2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package tealign

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/biogo/hts/sam"
)

// LengthTable maps transposon names to their length in bases.
// It is read-only once built and safe for concurrent reads.
type LengthTable map[string]uint64

// NewLengthTable builds the table from the @SQ lines of the header of
// an alignment against the transposon library.
func NewLengthTable(h *sam.Header) (LengthTable, error) {
	lengths := make(LengthTable)
	for _, ref := range h.Refs() {
		if _, ok := lengths[ref.Name()]; ok {
			return lengths, fmt.Errorf("Duplicated transposon %s in header", ref.Name())
		}
		lengths[ref.Name()] = uint64(ref.Len())
	}
	if len(lengths) == 0 {
		return lengths, fmt.Errorf("No transposon found in header")
	}
	return lengths, nil
}

// Names returns transposon names in ascending order.
func (t LengthTable) Names() []string {
	names := make([]string, 0, len(t))
	for n := range t {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// WriteLengthTSV writes a two column tabulated table with name and length.
func WriteLengthTSV(w io.Writer, t LengthTable) error {
	bw := bufio.NewWriter(w)
	for _, n := range t.Names() {
		if _, err := fmt.Fprintf(bw, "%s\t%d\n", n, t[n]); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadLengthTSV parses a two column tabulated table with name and length.
func ReadLengthTSV(r io.Reader) (LengthTable, error) {
	lengths := make(LengthTable)
	tscanner := bufio.NewScanner(r)
	iline := 0
	for tscanner.Scan() {
		iline++
		line := tscanner.Text()
		if len(line) == 0 {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			return lengths, fmt.Errorf("Missing length column at line %d", iline)
		}
		length, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return lengths, fmt.Errorf("Wrong length at line %d: %w", iline, err)
		}
		lengths[fields[0]] = length
	}
	if err := tscanner.Err(); err != nil {
		return lengths, err
	}
	return lengths, nil
}

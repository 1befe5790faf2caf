//
// Copyright (C) 2015-2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package coordshift

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// Span is a transposon found in the reference, one-based fully closed.
type Span struct {
	Up, Down uint64
}

// Len returns the number of bases in the span.
func (s Span) Len() uint64 { return s.Down - s.Up + 1 }

// ILoc lists, per chromosome, the spans of reference transposons sorted by
// upstream position.
type ILoc map[string][]Span

// ReadILoc parses the tabulated insertion output. The header line is skipped
// and only rows flagged "reference" in column 8 are kept.
func ReadILoc(r io.Reader) (ILoc, error) {
	iloc := make(ILoc)
	tscanner := bufio.NewScanner(r)
	iline := 0
	for tscanner.Scan() {
		iline++
		if iline == 1 {
			continue
		}
		line := tscanner.Text()
		if len(line) == 0 {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 8 {
			return iloc, fmt.Errorf("Missing column(s) at line %d", iline)
		}
		if fields[7] != "reference" {
			continue
		}
		up, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return iloc, fmt.Errorf("Wrong upstream position at line %d: %w", iline, err)
		}
		down, err := strconv.ParseUint(fields[2], 10, 64)
		if err != nil {
			return iloc, fmt.Errorf("Wrong downstream position at line %d: %w", iline, err)
		}
		if down < up {
			return iloc, fmt.Errorf("Downstream position before upstream position at line %d", iline)
		}
		iloc[fields[0]] = append(iloc[fields[0]], Span{Up: up, Down: down})
	}
	if err := tscanner.Err(); err != nil {
		return iloc, err
	}
	for _, spans := range iloc {
		sort.SliceStable(spans, func(i, j int) bool { return spans[i].Up < spans[j].Up })
	}
	return iloc, nil
}

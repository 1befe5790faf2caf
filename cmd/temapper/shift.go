//
// Copyright (C) 2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"git.sr.ht/~vejnar/TEMapper/lib/coordshift"
)

// shiftPositions translates "chromosome position" lines. Each output line
// repeats the input and appends the translated position, or "within" and
// the span of the transposon containing it.
func shiftPositions(r io.Reader, w io.Writer, sh *coordshift.Shifter, toReference bool) error {
	bw := bufio.NewWriter(w)
	tscanner := bufio.NewScanner(r)
	iline := 0
	for tscanner.Scan() {
		iline++
		fields := strings.Fields(tscanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 2 {
			return fmt.Errorf("Missing position at line %d", iline)
		}
		pos, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return fmt.Errorf("Wrong position at line %d: %w", iline, err)
		}
		if toReference {
			fmt.Fprintf(bw, "%s\t%d\t%d\n", fields[0], pos, sh.ToReference(fields[0], pos))
			continue
		}
		p := sh.ToSynthetic(fields[0], pos)
		if p.Within {
			fmt.Fprintf(bw, "%s\t%d\twithin\t%d\t%d\n", fields[0], pos, p.Span.Up, p.Span.Down)
		} else {
			fmt.Fprintf(bw, "%s\t%d\t%d\n", fields[0], pos, p.Pos)
		}
	}
	if err := tscanner.Err(); err != nil {
		return err
	}
	return bw.Flush()
}

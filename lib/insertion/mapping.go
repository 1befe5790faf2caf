//
// Copyright © 2015 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package insertion

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Mapping renames transposons on output.
type Mapping map[string]string

// ReadMapping parses a two column tabulated table: name in the transposon
// library, name to output.
func ReadMapping(r io.Reader) (Mapping, error) {
	m := make(Mapping)
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
			return m, fmt.Errorf("Missing mapped name at line %d", iline)
		}
		m[fields[0]] = fields[1]
	}
	if err := tscanner.Err(); err != nil {
		return m, err
	}
	return m, nil
}

func (m Mapping) MapName(name string) string {
	if nn, ok := m[name]; ok {
		return nn
	}
	return name
}

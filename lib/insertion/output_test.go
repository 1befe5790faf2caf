//
// Copyright (C) 2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package insertion

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
)

var calls = []Insertion{
	{Name: "roo", Chromosome: "2L", UpstreamPos: 1010, DownstreamPos: 1000, Orientation: PlusPlus, UpstreamReads: 2, DownstreamReads: 3},
	{Name: "Doc", Chromosome: "2L", UpstreamPos: 5000, DownstreamPos: 5900, Orientation: PlusMinus, UpstreamReads: 1, DownstreamReads: 4, Reference: true},
}

func TestWriteTSV(t *testing.T) {
	c := qt.New(t)
	var buf bytes.Buffer
	c.Assert(Format{}.Write(&buf, calls), qt.IsNil)
	c.Assert(buf.String(), qt.Equals, Header+"\n"+
		"2L\t1000\t1010\t+/+\troo\t2\t3\tnon-reference\n"+
		"2L\t5000\t5900\t+/-\tDoc\t1\t4\treference\n")
}

func TestWriteTSVZeroBasedMapping(t *testing.T) {
	c := qt.New(t)
	m, err := ReadMapping(strings.NewReader("roo\tFBte0000155\n\nDoc\tFBte0000104\n"))
	c.Assert(err, qt.IsNil)
	var buf bytes.Buffer
	c.Assert(Format{ZeroBased: true, Mapping: m}.Write(&buf, calls), qt.IsNil)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	c.Assert(lines, qt.HasLen, 3)
	c.Assert(lines[1], qt.Equals, "2L\t999\t1010\t+/+\tFBte0000155\t2\t3\tnon-reference")
	c.Assert(lines[2], qt.Equals, "2L\t4999\t5900\t+/-\tFBte0000104\t1\t4\treference")
}

func TestWriteJSON(t *testing.T) {
	c := qt.New(t)
	var buf bytes.Buffer
	c.Assert(Format{JSON: true}.Write(&buf, calls), qt.IsNil)
	var records []Record
	c.Assert(json.Unmarshal(buf.Bytes(), &records), qt.IsNil)
	c.Assert(records, qt.DeepEquals, []Record{
		{Chromosome: "2L", Start: 1000, End: 1010, Orientation: "+/+", Name: "roo", UpstreamReads: 2, DownstreamReads: 3, Reference: "non-reference"},
		{Chromosome: "2L", Start: 5000, End: 5900, Orientation: "+/-", Name: "Doc", UpstreamReads: 1, DownstreamReads: 4, Reference: "reference"},
	})
	c.Assert(strings.Contains(buf.String(), `"upstream_reads": 2`), qt.IsTrue)
}

func TestWriteEmpty(t *testing.T) {
	c := qt.New(t)
	var buf bytes.Buffer
	c.Assert(Format{JSON: true}.Write(&buf, nil), qt.IsNil)
	c.Assert(buf.String(), qt.Equals, "[]\n")
}

func TestReadMappingError(t *testing.T) {
	c := qt.New(t)
	_, err := ReadMapping(strings.NewReader("roo\n"))
	c.Assert(err, qt.ErrorMatches, "Missing mapped name at line 1")
	c.Assert(Mapping(nil).MapName("roo"), qt.Equals, "roo")
}

//
// Copyright (C) 2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package insertion

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

// Header is the first line of the tabulated output.
const Header = "Chromosome\tTSD Upstream\tTSD Downstream\tOrientation\tName\t# Upstream Reads\t# Downstream Reads\tFound in Reference?"

// Format of the insertion output.
type Format struct {
	JSON bool
	// ZeroBased switches from one-based fully closed to zero-based half-open.
	ZeroBased bool
	Mapping   Mapping
}

// Span returns the output start and end. For non-reference insertions this is
// the target site duplication, for reference insertions the transposon itself.
func (ins Insertion) Span(zeroBased bool) (start, end uint64) {
	if ins.Reference {
		start, end = ins.UpstreamPos, ins.DownstreamPos
	} else {
		start, end = ins.DownstreamPos, ins.UpstreamPos
	}
	if zeroBased {
		start--
	}
	return
}

// ReferenceFlag returns "reference" or "non-reference".
func (ins Insertion) ReferenceFlag() string {
	if ins.Reference {
		return "reference"
	}
	return "non-reference"
}

// Record is the serialized form of an insertion.
type Record struct {
	Chromosome      string `json:"chromosome"`
	Start           uint64 `json:"start"`
	End             uint64 `json:"end"`
	Orientation     string `json:"orientation"`
	Name            string `json:"name"`
	UpstreamReads   uint64 `json:"upstream_reads"`
	DownstreamReads uint64 `json:"downstream_reads"`
	Reference       string `json:"reference"`
}

// Record converts the insertion for output.
func (f Format) Record(ins Insertion) Record {
	start, end := ins.Span(f.ZeroBased)
	return Record{
		Chromosome:      ins.Chromosome,
		Start:           start,
		End:             end,
		Orientation:     ins.Orientation.String(),
		Name:            f.Mapping.MapName(ins.Name),
		UpstreamReads:   ins.UpstreamReads,
		DownstreamReads: ins.DownstreamReads,
		Reference:       ins.ReferenceFlag(),
	}
}

// Write writes insertions as a tabulated table with header or as a JSON array.
func (f Format) Write(w io.Writer, insertions []Insertion) error {
	if f.JSON {
		records := make([]Record, len(insertions))
		for i, ins := range insertions {
			records[i] = f.Record(ins)
		}
		b, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return err
		}
		_, err = w.Write(append(b, '\n'))
		return err
	}
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, Header); err != nil {
		return err
	}
	for _, ins := range insertions {
		r := f.Record(ins)
		if _, err := fmt.Fprintf(bw, "%s\t%d\t%d\t%s\t%s\t%d\t%d\t%s\n", r.Chromosome, r.Start, r.End, r.Orientation, r.Name, r.UpstreamReads, r.DownstreamReads, r.Reference); err != nil {
			return err
		}
	}
	return bw.Flush()
}

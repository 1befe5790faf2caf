//
// Copyright (C) 2015-2021 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package selection

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/fatih/set.v0"
)

// Report counts records of a selection pass.
type Report struct {
	Records       uint64 `json:"records"`
	Selected      uint64 `json:"selected"`
	Unmapped      uint64 `json:"unmapped"`
	NotSplit      uint64 `json:"not_split"`
	NotAtBoundary uint64 `json:"not_at_boundary"`
	Mismatched    uint64 `json:"mismatched"`

	readSet set.Interface
	teSet   set.Interface
}

func NewReport() *Report {
	return &Report{readSet: set.New(set.ThreadSafe), teSet: set.New(set.ThreadSafe)}
}

// SelectedReads returns the number of distinct selected read names.
func (r *Report) SelectedReads() int { return r.readSet.Size() }

// Transposons returns the number of distinct transposons with a selected read.
func (r *Report) Transposons() int { return r.teSet.Size() }

func WriteReport(pathReport string, r *Report) (err error) {
	countReport := map[string]uint64{
		"records":         r.Records,
		"selected":        r.Selected,
		"unmapped":        r.Unmapped,
		"not_split":       r.NotSplit,
		"not_at_boundary": r.NotAtBoundary,
		"mismatched":      r.Mismatched,
		"selected_reads":  uint64(r.SelectedReads()),
		"transposons":     uint64(r.Transposons()),
	}
	report, _ := json.MarshalIndent(countReport, "", "  ")
	if pathReport != "-" {
		if f, err := os.Create(pathReport); err != nil {
			return err
		} else {
			if _, err = f.Write(report); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		}
	} else {
		fmt.Println(string(report))
	}
	return nil
}

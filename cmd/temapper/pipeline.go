//
// Copyright (C) 2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"git.sr.ht/~vejnar/TEMapper/lib/coordshift"
	"git.sr.ht/~vejnar/TEMapper/lib/esam"
	"git.sr.ht/~vejnar/TEMapper/lib/galign"
	"git.sr.ht/~vejnar/TEMapper/lib/insertion"
	"git.sr.ht/~vejnar/TEMapper/lib/selection"
	"git.sr.ht/~vejnar/TEMapper/lib/tealign"
)

func splitCommand(raw string) []string {
	return strings.Fields(raw)
}

// runSelect selects split reads from the alignment against transposons.
// The length table is also written to pathLengths and the report to
// pathReport when not empty.
func runSelect(ctx context.Context, pathSAM esam.PathSAM, samCmd []string, pathOut, compression, pathLengths, pathReport string) (tealign.LengthTable, error) {
	f, err := esam.OpenSAM(pathSAM, samCmd, cfg.Workers)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	out, err := esam.CreateOutput(pathOut, compression)
	if err != nil {
		return nil, err
	}
	logrus.Debug(elapsed("Selecting reads from %s", pathSAM.Path))
	lengths, report, err := selection.Run(ctx, f, out, selection.Options{
		Workers:       cfg.Workers,
		MaxMismatches: cfg.MaxMismatches,
		Logger:        logrus.WithField("input", pathSAM.Path),
		TimeStart:     timeStart,
	})
	if err != nil {
		out.Close()
		return lengths, err
	}
	if err = out.Close(); err != nil {
		return lengths, err
	}
	if pathLengths != "" {
		lf, err := esam.CreateOutput(pathLengths, "")
		if err != nil {
			return lengths, err
		}
		if err = tealign.WriteLengthTSV(lf, lengths); err != nil {
			lf.Close()
			return lengths, err
		}
		if err = lf.Close(); err != nil {
			return lengths, err
		}
	}
	if pathReport != "" {
		if err = selection.WriteReport(pathReport, report); err != nil {
			return lengths, err
		}
	}
	return lengths, nil
}

// loadLengths reads the length table from a TSV file, or from the header
// of the alignment against transposons.
func loadLengths(pathLengths string, teSAM esam.PathSAM, samCmd []string) (tealign.LengthTable, error) {
	if pathLengths != "" {
		f, err := esam.OpenInput(pathLengths)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return tealign.ReadLengthTSV(f)
	}
	if teSAM.Path == "" {
		return nil, fmt.Errorf("Missing transposon lengths or alignment against transposons")
	}
	f, err := esam.OpenSAM(teSAM, samCmd, 1)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return tealign.NewLengthTable(f.Header())
}

func loadMapping(pathMapping string) (insertion.Mapping, error) {
	if pathMapping == "" {
		return nil, nil
	}
	f, err := esam.OpenInput(pathMapping)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return insertion.ReadMapping(f)
}

// runAssemble calls insertions from the alignment of selected reads against the genome.
func runAssemble(pathSAM esam.PathSAM, samCmd []string, lengths tealign.LengthTable, mapping insertion.Mapping, pathOut string) error {
	f, err := esam.OpenSAM(pathSAM, samCmd, cfg.Workers)
	if err != nil {
		return err
	}
	defer f.Close()
	logrus.Debug(elapsed("Reading genome alignments from %s", pathSAM.Path))
	pools, stats, err := galign.ReadPools(f, galign.Chromosomes(cfg.Chromosomes))
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"records":    stats.Records,
		"unmapped":   stats.Unmapped,
		"chromosome": stats.Chromosome,
		"not_split":  stats.NotSplit,
	}).Debug(elapsed("%d genome alignment(s) kept", stats.Kept))
	insertions, err := insertion.AssembleAll(pools, cfg.Chromosomes, lengths, cfg.Params())
	if err != nil {
		return err
	}
	out, err := esam.CreateOutput(pathOut, cfg.Compression)
	if err != nil {
		return err
	}
	if err = cfg.Format(mapping).Write(out, insertions); err != nil {
		out.Close()
		return err
	}
	logrus.Info(elapsed("%d insertion(s) written", len(insertions)))
	return out.Close()
}

func loadShifter(pathILoc string) (*coordshift.Shifter, error) {
	f, err := esam.OpenInput(pathILoc)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	iloc, err := coordshift.ReadILoc(f)
	if err != nil {
		return nil, err
	}
	return coordshift.NewShifter(iloc)
}

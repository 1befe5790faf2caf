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
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"git.sr.ht/~vejnar/TEMapper/lib/bwa"
	"git.sr.ht/~vejnar/TEMapper/lib/esam"
)

// Files written in the result directory.
const (
	teAlignedName     = "te_aligned.sam"
	selectedName      = "selected_reads.fasta"
	lengthsName       = "te_lengths.tsv"
	reportName        = "selection_report.json"
	genomeAlignedName = "genome_aligned.sam"
	insertionsName    = "insertions.tsv"
	insertionsJSON    = "insertions.json"
)

func alignTo(ctx context.Context, a bwa.Aligner, ref, reads1, reads2, pathOut string) error {
	if err := a.Index(ctx, ref); err != nil {
		return err
	}
	f, err := os.Create(pathOut)
	if err != nil {
		return err
	}
	if err = a.Mem(ctx, ref, reads1, reads2, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func runMap(ctx context.Context, pathRef, pathTEs, pathReads1, pathReads2, pathMapping, resultDir string) error {
	if err := os.MkdirAll(resultDir, 0755); err != nil {
		return err
	}
	a := bwa.Aligner{Path: cfg.BWAPath, Threads: cfg.BWAThreads}
	mapping, err := loadMapping(pathMapping)
	if err != nil {
		return err
	}

	teAligned := filepath.Join(resultDir, teAlignedName)
	logrus.Info(elapsed("Aligning reads to transposons"))
	if err = alignTo(ctx, a, pathTEs, pathReads1, pathReads2, teAligned); err != nil {
		return err
	}

	// bwa reads the selected reads, never compressed
	selected := filepath.Join(resultDir, selectedName)
	logrus.Info(elapsed("Selecting split reads"))
	lengths, err := runSelect(ctx, esam.NewPathSAM(teAligned), nil, selected, "", filepath.Join(resultDir, lengthsName), filepath.Join(resultDir, reportName))
	if err != nil {
		return err
	}

	genomeAligned := filepath.Join(resultDir, genomeAlignedName)
	logrus.Info(elapsed("Aligning selected reads to genome"))
	if err = alignTo(ctx, a, pathRef, selected, "", genomeAligned); err != nil {
		return err
	}

	logrus.Info(elapsed("Assembling insertions"))
	return runAssemble(esam.NewPathSAM(genomeAligned), nil, lengths, mapping, insertionsPath(resultDir))
}

// insertionsPath names the insertion output after the format and compression settings.
func insertionsPath(resultDir string) string {
	out := insertionsName
	if cfg.JSON {
		out = insertionsJSON
	}
	if cfg.Compression != "" {
		out += ".lz4"
	}
	return filepath.Join(resultDir, out)
}

var mapCmd = &cobra.Command{
	Use:   "map",
	Short: "Find insertions from sequencing reads",
	Long: `Align reads to transposons, select split reads, align them to the genome and
assemble insertions. Intermediate files are kept in the result directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fl := cmd.Flags()
		pathRef, _ := fl.GetString("ref")
		pathTEs, _ := fl.GetString("transposons")
		pathReads1, _ := fl.GetString("reads")
		pathReads2, _ := fl.GetString("reads2")
		pathMapping, _ := fl.GetString("mapping")
		resultDir, _ := fl.GetString("result")
		return runMap(cmd.Context(), pathRef, pathTEs, pathReads1, pathReads2, pathMapping, resultDir)
	},
}

func init() {
	mapCmd.Flags().String("ref", "", "Path to reference genome FASTA")
	mapCmd.Flags().String("transposons", "", "Path to transposon sequences FASTA")
	mapCmd.Flags().String("reads", "", "Path to reads FASTQ")
	mapCmd.Flags().String("reads2", "", "Path to mate reads FASTQ")
	mapCmd.Flags().String("mapping", "", "Path to transposon name mapping")
	mapCmd.Flags().String("result", ".", "Result directory")
	for _, name := range []string{"ref", "transposons", "reads"} {
		mapCmd.MarkFlagRequired(name)
	}
}

//
// Copyright (C) 2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"git.sr.ht/~vejnar/TEMapper/lib/esam"
	"git.sr.ht/~vejnar/TEMapper/lib/genome"
)

var selectCmd = &cobra.Command{
	Use:   "select",
	Short: "Select reads split at a transposon start or end",
	Long: `Select reads aligned to transposons with a soft-clipped part on the genome side
(SM or MS CIGAR) and a match reaching the first or last transposon base. Selected
reads are written as FASTA, named qname|transposon|m|s|SM-or-MS|start-or-end.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fl := cmd.Flags()
		pathTE, _ := fl.GetString("te-aligned")
		samCmd, _ := fl.GetString("sam-command")
		pathOut, _ := fl.GetString("out")
		pathLengths, _ := fl.GetString("lengths")
		pathReport, _ := fl.GetString("report")
		_, err := runSelect(cmd.Context(), esam.NewPathSAM(pathTE), splitCommand(samCmd), pathOut, cfg.Compression, pathLengths, pathReport)
		return err
	},
}

var assembleCmd = &cobra.Command{
	Use:   "assemble",
	Short: "Assemble genome alignments of selected reads into insertions",
	RunE: func(cmd *cobra.Command, args []string) error {
		fl := cmd.Flags()
		pathGenome, _ := fl.GetString("genome-aligned")
		pathTE, _ := fl.GetString("te-aligned")
		samCmd, _ := fl.GetString("sam-command")
		pathLengths, _ := fl.GetString("lengths")
		pathMapping, _ := fl.GetString("mapping")
		pathOut, _ := fl.GetString("out")
		lengths, err := loadLengths(pathLengths, esam.NewPathSAM(pathTE), splitCommand(samCmd))
		if err != nil {
			return err
		}
		mapping, err := loadMapping(pathMapping)
		if err != nil {
			return err
		}
		return runAssemble(esam.NewPathSAM(pathGenome), splitCommand(samCmd), lengths, mapping, pathOut)
	},
}

var shiftCmd = &cobra.Command{
	Use:   "shift",
	Short: "Translate positions between the reference and the synthetic genome",
	Long: `Read "chromosome position" lines and translate each position from the reference
to the synthetic genome (default) or back. Reference positions inside a removed
transposon are reported with the transposon span.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fl := cmd.Flags()
		pathILoc, _ := fl.GetString("iloc")
		pathIn, _ := fl.GetString("in")
		pathOut, _ := fl.GetString("out")
		toReference, _ := fl.GetBool("to-reference")
		sh, err := loadShifter(pathILoc)
		if err != nil {
			return err
		}
		in, err := esam.OpenInput(pathIn)
		if err != nil {
			return err
		}
		defer in.Close()
		out, err := esam.CreateOutput(pathOut, "")
		if err != nil {
			return err
		}
		if err = shiftPositions(in, out, sh, toReference); err != nil {
			out.Close()
			return err
		}
		return out.Close()
	},
}

var sgCmd = &cobra.Command{
	Use:   "sg",
	Short: "Write the synthetic genome without reference transposons",
	RunE: func(cmd *cobra.Command, args []string) error {
		fl := cmd.Flags()
		pathRef, _ := fl.GetString("ref")
		pathILoc, _ := fl.GetString("iloc")
		pathOut, _ := fl.GetString("out")
		sh, err := loadShifter(pathILoc)
		if err != nil {
			return err
		}
		in, err := esam.OpenInput(pathRef)
		if err != nil {
			return err
		}
		defer in.Close()
		out, err := esam.CreateOutput(pathOut, cfg.Compression)
		if err != nil {
			return err
		}
		stats, err := genome.Synthesize(in, out, sh)
		if err != nil {
			out.Close()
			return err
		}
		logrus.WithFields(logrus.Fields{"sequences": stats.Sequences, "bases": stats.Bases}).Info(elapsed("%d base(s) removed", stats.Removed))
		return out.Close()
	},
}

var tileCmd = &cobra.Command{
	Use:   "tile",
	Short: "Tile the reference with reads starting at every position",
	RunE: func(cmd *cobra.Command, args []string) error {
		fl := cmd.Flags()
		pathRef, _ := fl.GetString("ref")
		pathOut, _ := fl.GetString("out")
		in, err := esam.OpenInput(pathRef)
		if err != nil {
			return err
		}
		defer in.Close()
		out, err := esam.CreateOutput(pathOut, cfg.Compression)
		if err != nil {
			return err
		}
		n, err := genome.Tile(in, out)
		if err != nil {
			out.Close()
			return err
		}
		logrus.Info(elapsed("%d read(s) tiled", n))
		return out.Close()
	},
}

func init() {
	selectCmd.Flags().String("te-aligned", "", "Path to SAM/BAM alignment against transposons (stdin with -)")
	selectCmd.Flags().String("sam-command", "", "Command line to execute for opening the SAM file")
	selectCmd.Flags().StringP("out", "o", "-", "Path to selected reads FASTA (stdout with -)")
	selectCmd.Flags().String("lengths", "", "Write transposon lengths to path")
	selectCmd.Flags().String("report", "", "Write report to path (stdout with -)")
	selectCmd.MarkFlagRequired("te-aligned")

	assembleCmd.Flags().String("genome-aligned", "", "Path to SAM/BAM alignment of selected reads against the genome (stdin with -)")
	assembleCmd.Flags().String("te-aligned", "", "Path to SAM/BAM alignment against transposons, for transposon lengths")
	assembleCmd.Flags().String("sam-command", "", "Command line to execute for opening the SAM files")
	assembleCmd.Flags().String("lengths", "", "Path to transposon lengths")
	assembleCmd.Flags().String("mapping", "", "Path to transposon name mapping")
	assembleCmd.Flags().StringP("out", "o", "-", "Path to insertions (stdout with -)")
	assembleCmd.MarkFlagRequired("genome-aligned")

	shiftCmd.Flags().String("iloc", "", "Path to insertions with reference transposons")
	shiftCmd.Flags().String("in", "-", "Path to positions (stdin with -)")
	shiftCmd.Flags().StringP("out", "o", "-", "Path to translated positions (stdout with -)")
	shiftCmd.Flags().Bool("to-reference", false, "Translate synthetic positions to the reference")
	shiftCmd.MarkFlagRequired("iloc")

	sgCmd.Flags().String("ref", "", "Path to reference genome FASTA")
	sgCmd.Flags().String("iloc", "", "Path to insertions with reference transposons")
	sgCmd.Flags().StringP("out", "o", "-", "Path to synthetic genome FASTA (stdout with -)")
	sgCmd.MarkFlagRequired("ref")
	sgCmd.MarkFlagRequired("iloc")

	tileCmd.Flags().String("ref", "", "Path to reference genome FASTA")
	tileCmd.Flags().StringP("out", "o", "-", "Path to tiled reads FASTQ (stdout with -)")
	tileCmd.MarkFlagRequired("ref")
}

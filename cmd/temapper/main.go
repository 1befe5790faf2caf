//
// Copyright © 2015 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package main

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"git.sr.ht/~vejnar/TEMapper/lib/config"
)

var version = "DEV"

var (
	cfg       config.Config
	timeStart = time.Now()
)

// elapsed prefixes progress messages with the run time.
func elapsed(format string, args ...interface{}) string {
	return fmt.Sprintf("%.1fmin - ", time.Since(timeStart).Minutes()) + fmt.Sprintf(format, args...)
}

var rootCmd = &cobra.Command{
	Use:           "temapper",
	Short:         "Find transposon insertions from split reads",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.New(viper.GetViper(), viper.GetString("settings"))
		if err != nil {
			return err
		}
		if cfg.Verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
		return nil
	},
}

func init() {
	config.SetDefaults(viper.GetViper())

	pf := rootCmd.PersistentFlags()
	pf.String("settings", "", "Settings file (YAML, JSON or TOML)")
	pf.BoolP("verbose", "v", false, "Verbose")
	pf.StringSlice("chromosomes", config.DefaultChromosomes, "Chromosomes to report, in output order (comma separated)")
	pf.Uint64("min-tsd-length", 0, "Minimum target site duplication length")
	pf.Uint64("max-tsd-length", 100, "Maximum target site duplication length")
	pf.Float64("min-te-length", 0.1, "Minimum reference transposon length, as fraction of the transposon length")
	pf.Float64("max-te-length", 1.5, "Maximum reference transposon length, as fraction of the transposon length")
	pf.Int("workers", 8, "Number of worker(s) selecting reads")
	pf.Int("bwa-threads", 8, "Number of BWA thread(s)")
	pf.String("bwa", "bwa", "Path to BWA executable")
	pf.Bool("json", false, "Write insertions as JSON")
	pf.Bool("zero-based", false, "Write zero-based half-open coordinates (default one-based fully closed)")
	pf.String("compression", "", "Output compression: lz4 or lz4hc")
	pf.Int("max-mismatches", -1, "Maximum mismatches on the transposon side (-1 for no limit)")
	for _, name := range []string{"settings", "verbose", "chromosomes", "min-tsd-length", "max-tsd-length", "min-te-length", "max-te-length", "workers", "bwa-threads", "bwa", "json", "zero-based", "compression", "max-mismatches"} {
		viper.BindPFlag(name, pf.Lookup(name))
	}

	rootCmd.AddCommand(selectCmd, assembleCmd, mapCmd, shiftCmd, sgCmd, tileCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Fatal(err)
	}
}

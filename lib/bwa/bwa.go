//
// Copyright (C) 2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

// Package bwa runs the BWA aligner.
package bwa

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
)

// Aligner runs one BWA executable.
type Aligner struct {
	// Path to the bwa executable, "bwa" if empty.
	Path    string
	Threads int
}

func (a Aligner) path() string {
	if a.Path == "" {
		return "bwa"
	}
	return a.Path
}

// IndexArgs returns the arguments of "bwa index".
func IndexArgs(ref string) []string {
	return []string{"index", ref}
}

// MemArgs returns the arguments of "bwa mem". reads2 is optional.
func MemArgs(threads int, ref, reads1, reads2 string) []string {
	args := []string{"mem"}
	if threads > 0 {
		args = append(args, "-t", strconv.Itoa(threads))
	}
	args = append(args, ref, reads1)
	if reads2 != "" {
		args = append(args, reads2)
	}
	return args
}

// IndexExists reports whether the BWA index of ref is present.
func IndexExists(ref string) bool {
	for _, ext := range []string{".amb", ".ann", ".bwt", ".pac", ".sa"} {
		if _, err := os.Stat(ref + ext); err != nil {
			return false
		}
	}
	return true
}

func (a Aligner) run(ctx context.Context, args []string, stdout io.Writer) error {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, a.path(), args...)
	cmd.Stdout = stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %s: %w: %s", a.path(), args[0], err, bytes.TrimSpace(stderr.Bytes()))
	}
	return nil
}

// Index indexes ref unless its index already exists.
func (a Aligner) Index(ctx context.Context, ref string) error {
	if IndexExists(ref) {
		return nil
	}
	return a.run(ctx, IndexArgs(ref), io.Discard)
}

// Mem aligns reads to ref and writes the SAM output to out.
func (a Aligner) Mem(ctx context.Context, ref, reads1, reads2 string, out io.Writer) error {
	return a.run(ctx, MemArgs(a.Threads, ref, reads1, reads2), out)
}

//
// Copyright © 2015 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

// Package esam opens alignment and tabulated files for the pipeline.
package esam

import (
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"
)

// PathSAM stores Path to SAM (Binary=false) or BAM (Binary=true) file.
type PathSAM struct {
	Path   string
	Binary bool
}

// NewPathSAM guesses the format from the file extension.
func NewPathSAM(path string) PathSAM {
	return PathSAM{Path: path, Binary: strings.HasSuffix(path, ".bam")}
}

// Reader is implemented by both sam.Reader and bam.Reader.
type Reader interface {
	sam.RecordReader
	Header() *sam.Header
}

// File is an open alignment file.
type File struct {
	Reader
	closers []io.Closer
	cmd     *exec.Cmd
}

// Close releases the file and waits for the input command if any.
func (f *File) Close() error {
	var err error
	for i := len(f.closers) - 1; i >= 0; i-- {
		if cerr := f.closers[i].Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	if f.cmd != nil {
		if werr := f.cmd.Wait(); werr != nil && err == nil {
			err = werr
		}
	}
	return err
}

// OpenSAM opens a SAM or BAM file. SAM files are gzip-decompressed when
// ending with ".gz" and read from standard input when Path is "-". If cmd is
// not empty, the SAM stream is read from the standard output of cmd run with
// Path as last argument. nWorker is the BAM decompression concurrency.
func OpenSAM(pathSAM PathSAM, cmd []string, nWorker int) (*File, error) {
	f := &File{}
	if nWorker < 1 {
		nWorker = 1
	}
	if pathSAM.Binary {
		fi, err := os.Open(pathSAM.Path)
		if err != nil {
			return nil, err
		}
		f.closers = append(f.closers, fi)
		br, err := bam.NewReader(fi, nWorker)
		if err != nil {
			f.Close()
			return nil, err
		}
		f.closers = append(f.closers, br)
		f.Reader = br
		return f, nil
	}
	var in io.Reader
	if len(cmd) == 0 {
		rc, err := OpenInput(pathSAM.Path)
		if err != nil {
			return nil, err
		}
		f.closers = append(f.closers, rc)
		in = rc
	} else {
		args := append(append([]string{}, cmd[1:]...), pathSAM.Path)
		p := exec.Command(cmd[0], args...)
		pp, err := p.StdoutPipe()
		if err != nil {
			return nil, err
		}
		if err = p.Start(); err != nil {
			return nil, err
		}
		f.cmd = p
		in = pp
	}
	sr, err := sam.NewReader(in)
	if err != nil {
		f.Close()
		return nil, err
	}
	f.Reader = sr
	return f, nil
}

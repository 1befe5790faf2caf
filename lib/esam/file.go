//
// Copyright (C) 2015-2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package esam

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/pierrec/lz4"
)

type GenericWriter interface {
	Write(buf []byte) (n int, err error)
	Close() error
}

type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (rc *readCloser) Close() error {
	var err error
	for i := len(rc.closers) - 1; i >= 0; i-- {
		if cerr := rc.closers[i].Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// OpenInput opens path for reading, "-" being standard input. Files ending
// with ".gz" or ".lz4" are decompressed.
func OpenInput(path string) (io.ReadCloser, error) {
	rc := &readCloser{}
	if path == "-" {
		rc.Reader = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		rc.Reader = f
		rc.closers = append(rc.closers, f)
	}
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(bufio.NewReader(rc.Reader))
		if err != nil {
			rc.Close()
			return nil, err
		}
		rc.Reader = gz
		rc.closers = append(rc.closers, gz)
	} else if strings.HasSuffix(path, ".lz4") {
		rc.Reader = lz4.NewReader(rc.Reader)
	}
	return rc, nil
}

type writeCloser struct {
	GenericWriter
	file *os.File
}

func (wc *writeCloser) Close() error {
	err := wc.GenericWriter.Close()
	if wc.file != nil && wc.file != os.Stdout {
		if cerr := wc.file.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// CreateOutput creates path for writing, "-" being standard output.
// compression is "", "lz4" or "lz4hc".
func CreateOutput(path string, compression string) (io.WriteCloser, error) {
	var f *os.File
	if path == "-" {
		f = os.Stdout
	} else {
		var err error
		if f, err = os.Create(path); err != nil {
			return nil, err
		}
	}
	var writer GenericWriter
	switch compression {
	case "lz4":
		writer = lz4.NewWriter(f)
	case "lz4hc":
		lzWriter := lz4.NewWriter(f)
		lzWriter.Header = lz4.Header{CompressionLevel: 9}
		writer = lzWriter
	case "":
		writer = nopCloser{f}
	default:
		if f != os.Stdout {
			f.Close()
		}
		return nil, fmt.Errorf("Unknown compression %s", compression)
	}
	return &writeCloser{GenericWriter: writer, file: f}, nil
}

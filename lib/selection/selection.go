//
// Copyright (C) 2015-2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

// Package selection selects, in parallel, the reads split at a transposon boundary.
package selection

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/biogo/hts/sam"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"git.sr.ht/~vejnar/TEMapper/lib/esam"
	"git.sr.ht/~vejnar/TEMapper/lib/tealign"
)

const (
	DefaultWorkers = 8
	batchSize      = 1000
	logEvery       = 100000
)

// Options of a selection pass.
type Options struct {
	// Workers is the number of classifying goroutines. Non-positive means DefaultWorkers.
	Workers int
	// MaxMismatches rejects reads with more mismatches on the transposon. Negative disables.
	MaxMismatches int
	Logger        logrus.FieldLogger
	TimeStart     time.Time
}

// AddCommas adds commas after every 3 characters.
func AddCommas(s string) string {
	if len(s) <= 3 {
		return s
	} else {
		return AddCommas(s[0:len(s)-3]) + "," + s[len(s)-3:]
	}
}

// lineWriter serializes writes from all workers.
type lineWriter struct {
	mu sync.Mutex
	w  *bufio.Writer
}

func (lw *lineWriter) WriteString(s string) error {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	_, err := lw.w.WriteString(s)
	return err
}

// Run builds the length table from the header of rr, then classifies every
// record and writes accepted ones as FASTA to w. Output order is not
// the input order.
func Run(ctx context.Context, rr esam.Reader, w io.Writer, opts Options) (tealign.LengthTable, *Report, error) {
	lengths, err := tealign.NewLengthTable(rr.Header())
	if err != nil {
		return nil, nil, err
	}
	nWorker := opts.Workers
	if nWorker <= 0 {
		nWorker = DefaultWorkers
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if opts.TimeStart.IsZero() {
		opts.TimeStart = time.Now()
	}
	report := NewReport()
	lw := &lineWriter{w: bufio.NewWriter(w)}

	g, gctx := errgroup.WithContext(ctx)
	chAln := make(chan []*sam.Record, nWorker*10)

	// Reader
	g.Go(func() error {
		defer close(chAln)
		var nRecord uint64
		batch := make([]*sam.Record, 0, batchSize)
		for {
			r, err := rr.Read()
			if err != nil {
				if err == io.EOF {
					break
				}
				return fmt.Errorf("Record %d: %w", nRecord+1, err)
			}
			nRecord++
			if nRecord%logEvery == 0 {
				logger.WithField("records", nRecord).Debugf("%.1fmin - %s records read", time.Since(opts.TimeStart).Minutes(), AddCommas(strconv.FormatUint(nRecord, 10)))
			}
			batch = append(batch, r)
			if len(batch) == batchSize {
				select {
				case chAln <- batch:
				case <-gctx.Done():
					return gctx.Err()
				}
				batch = make([]*sam.Record, 0, batchSize)
			}
		}
		if len(batch) > 0 {
			select {
			case chAln <- batch:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	// Workers
	for i := 0; i < nWorker; i++ {
		g.Go(func() error {
			for batch := range chAln {
				for _, r := range batch {
					if err := selectRecord(r, lengths, opts.MaxMismatches, lw, report); err != nil {
						return err
					}
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return lengths, report, err
	}
	if err := lw.w.Flush(); err != nil {
		return lengths, report, err
	}
	logger.WithFields(logrus.Fields{"records": report.Records, "selected": report.Selected}).Infof("%.1fmin - %s records, %s selected", time.Since(opts.TimeStart).Minutes(), AddCommas(strconv.FormatUint(report.Records, 10)), AddCommas(strconv.FormatUint(report.Selected, 10)))
	return lengths, report, nil
}

func selectRecord(r *sam.Record, lengths tealign.LengthTable, maxMismatches int, lw *lineWriter, report *Report) error {
	atomic.AddUint64(&report.Records, 1)
	a, err := tealign.Build(r, lengths)
	if err != nil {
		switch {
		case errors.Is(err, tealign.ErrUnmapped):
			atomic.AddUint64(&report.Unmapped, 1)
		case errors.Is(err, tealign.ErrNotSplit):
			atomic.AddUint64(&report.NotSplit, 1)
		case errors.Is(err, tealign.ErrNotAtBoundary):
			atomic.AddUint64(&report.NotAtBoundary, 1)
		default:
			return err
		}
		return nil
	}
	if maxMismatches >= 0 {
		n, err := esam.Mismatches(r)
		if err != nil {
			return fmt.Errorf("Read %s: %w", r.Name, err)
		}
		if n > maxMismatches {
			atomic.AddUint64(&report.Mismatched, 1)
			return nil
		}
	}
	if err := lw.WriteString(a.String() + "\n"); err != nil {
		return err
	}
	atomic.AddUint64(&report.Selected, 1)
	report.readSet.Add(a.ReadID)
	report.teSet.Add(a.Transposon)
	return nil
}

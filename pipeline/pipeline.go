// Package pipeline runs pool reads through trimming, length filtering and
// quality scoring, in parallel, with input order preserved in the output.
package pipeline

import (
	"errors"
	"io"
	"sync"

	"aptatrim/quality"
	"aptatrim/seqio"
	"aptatrim/trim"
)

// RecordSource yields raw records one at a time. *seqio.Reader satisfies it.
// A *seqio.RecordError from Read marks one malformed record and lets
// processing continue; any other error is fatal for the batch.
type RecordSource interface {
	Read() (*seqio.Record, error)
}

type job struct {
	idx int
	rec *seqio.Record
}

type outcome struct {
	rec    ProcessedRecord
	reason RejectReason
	ok     bool
}

type indexedOutcome struct {
	idx int
	out outcome
}

// Process pulls every record from src and routes it through trim -> length
// filter -> quality scoring. Records are processed by cfg.Threads workers;
// each record is a pure function of itself and cfg, so no locking is needed
// beyond the channels. Accepted records come back in input order.
//
// Per-record failures only bump Rejections. A configuration error or an
// unreadable stream returns a nil result with the error.
func Process(src RecordSource, cfg Config) (*BatchResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	workers := cfg.threads()
	tr := cfg.trimmer()
	jobs := make(chan job, workers*2)
	results := make(chan indexedOutcome, workers*2)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for j := range jobs {
				results <- indexedOutcome{j.idx, processOne(j.rec, &cfg, tr)}
			}
		}()
	}

	// Collector: park outcomes by index until the feed is done, then the
	// final assembly walks them in input order.
	outcomes := make(map[int]outcome)
	var cwg sync.WaitGroup
	cwg.Add(1)
	go func() {
		defer cwg.Done()
		for r := range results {
			outcomes[r.idx] = r.out
		}
	}()

	batch := &BatchResult{Rejections: make(map[RejectReason]int)}
	var streamErr error
	n := 0
	for {
		rec, err := src.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			var recErr *seqio.RecordError
			if errors.As(err, &recErr) {
				batch.TotalInput++
				batch.Rejections[RejectMalformed]++
				continue
			}
			streamErr = err
			break
		}
		batch.TotalInput++
		jobs <- job{idx: n, rec: rec}
		n++
	}
	close(jobs)
	wg.Wait()
	close(results)
	cwg.Wait()

	if streamErr != nil {
		return nil, streamErr
	}

	for i := 0; i < n; i++ {
		out := outcomes[i]
		if out.ok {
			batch.Accepted = append(batch.Accepted, out.rec)
			continue
		}
		batch.Rejections[out.reason]++
	}
	batch.TotalAccepted = len(batch.Accepted)
	return batch, nil
}

// processOne is the per-record transform. It touches nothing but its
// arguments, which keeps parallel execution trivially safe.
func processOne(rec *seqio.Record, cfg *Config, tr *trim.Trimmer) outcome {
	insert, err := tr.Trim(rec)
	if err != nil {
		return outcome{reason: RejectEmptyAfterTrim}
	}
	if !withinLength(len(insert.Seq), cfg.MinLength, cfg.MaxLength) {
		return outcome{reason: RejectLength}
	}

	p := ProcessedRecord{
		ID:       insert.ID,
		Sequence: string(insert.Seq),
		Length:   len(insert.Seq),
	}
	if insert.Qual != nil {
		p.HasQuality = true
		p.Quality = string(insert.Qual)
		p.AvgError = quality.AvgError(insert.Qual)
		if cfg.QualityCutoff > 0 && p.AvgError > cfg.QualityCutoff {
			return outcome{reason: RejectQuality}
		}
	}
	return outcome{rec: p, ok: true}
}

// withinLength applies the inclusive length window.
func withinLength(n, min, max int) bool {
	return n >= min && n <= max
}

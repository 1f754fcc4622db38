// Package report appends run results to a CSV benchmark log and summarises
// such logs.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/afero"

	"edu/blitzforge/internal/engine"
	"edu/blitzforge/internal/target"
)

var header = []string{
	"timestamp",
	"target_id",
	"algorithm",
	"strategy",
	"workers",
	"keyspace_size",
	"guesses_tried",
	"time_s",
	"hashes_per_s",
	"found",
	"password_length",
	"found_in_s",
}

// Run describes the run a result came from.
type Run struct {
	Strategy string
	Workers  int
}

// CSVLogger appends one row per target per run. The header is written only
// when the file is new.
type CSVLogger struct {
	f afero.File
	w *csv.Writer
}

func OpenCSV(fs afero.Fs, path string) (*CSVLogger, error) {
	exists, err := afero.Exists(fs, path)
	if err != nil {
		return nil, err
	}
	f, err := fs.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv log: %w", err)
	}
	l := &CSVLogger{f: f, w: csv.NewWriter(f)}
	if !exists {
		if err := l.w.Write(header); err != nil {
			f.Close()
			return nil, err
		}
		l.w.Flush()
		if err := l.w.Error(); err != nil {
			f.Close()
			return nil, err
		}
	}
	return l, nil
}

// Log writes the result rows, found or not, for every target.
func (l *CSVLogger) Log(res engine.Result, targets []target.Target, run Run) error {
	ts := time.Now().UTC().Format(time.RFC3339)
	byID := make(map[string]engine.Match, len(res.Matches))
	for _, m := range res.Matches {
		byID[m.TargetID] = m
	}
	keyspace := "unknown"
	if res.Final.KeyspaceKnown {
		keyspace = strconv.FormatUint(res.Final.Keyspace, 10)
	}
	for _, t := range targets {
		m, found := byID[t.ID]
		pwLen, foundIn := "", ""
		if found {
			pwLen = strconv.Itoa(len(m.Candidate))
			foundIn = strconv.FormatFloat(m.Elapsed.Seconds(), 'f', 6, 64)
		}
		rec := []string{
			ts,
			t.ID,
			t.Algorithm.String(),
			run.Strategy,
			strconv.Itoa(run.Workers),
			keyspace,
			strconv.FormatUint(res.Final.Tried, 10),
			strconv.FormatFloat(res.Duration.Seconds(), 'f', 6, 64),
			strconv.FormatFloat(res.Final.Rate, 'f', 2, 64),
			strconv.FormatBool(found),
			pwLen,
			foundIn,
		}
		if err := l.w.Write(rec); err != nil {
			return err
		}
	}
	l.w.Flush()
	return l.w.Error()
}

func (l *CSVLogger) Close() error {
	l.w.Flush()
	if err := l.w.Error(); err != nil {
		l.f.Close()
		return err
	}
	return l.f.Close()
}

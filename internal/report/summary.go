package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cast"
	"go.uber.org/multierr"
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/slices"
)

// Record is one parsed CSV row.
type Record struct {
	TargetID   string
	Algorithm  string
	Strategy   string
	Tried      uint64
	Seconds    float64
	HashesPerS float64
	Found      bool
}

// AlgoSummary aggregates the rows of one algorithm.
type AlgoSummary struct {
	Algorithm string
	Runs      int
	MedianHPS float64
	PeakHPS   float64
	Found     int
}

// Summary is the report over a whole CSV log.
type Summary struct {
	Rows   int
	ByAlgo []AlgoSummary
}

// ReadCSV parses a log written by CSVLogger. Unparseable rows are collected
// into the returned error; the rows that parsed are still returned.
func ReadCSV(fs afero.Fs, path string) ([]Record, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv log: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(header)
	if _, err := r.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("bad csv header: %w", err)
	}
	var (
		out  []Record
		errs error
		line = 1
	)
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		rec, err := parseRow(row)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("line %d: %w", line, err))
			continue
		}
		out = append(out, rec)
	}
	return out, errs
}

func parseRow(row []string) (Record, error) {
	tried, err := cast.ToUint64E(row[6])
	if err != nil {
		return Record{}, err
	}
	secs, err := cast.ToFloat64E(row[7])
	if err != nil {
		return Record{}, err
	}
	hps, err := cast.ToFloat64E(row[8])
	if err != nil {
		return Record{}, err
	}
	found, err := cast.ToBoolE(row[9])
	if err != nil {
		return Record{}, err
	}
	return Record{
		TargetID:   row[1],
		Algorithm:  row[2],
		Strategy:   row[3],
		Tried:      tried,
		Seconds:    secs,
		HashesPerS: hps,
		Found:      found,
	}, nil
}

// Summarize groups records by algorithm, sorted by name.
func Summarize(recs []Record) Summary {
	groups := map[string][]Record{}
	for _, r := range recs {
		groups[r.Algorithm] = append(groups[r.Algorithm], r)
	}
	s := Summary{Rows: len(recs)}
	for algo, rs := range groups {
		hps := make([]float64, len(rs))
		as := AlgoSummary{Algorithm: algo, Runs: len(rs)}
		for i, r := range rs {
			hps[i] = r.HashesPerS
			if r.Found {
				as.Found++
			}
		}
		as.MedianHPS = median(hps)
		as.PeakHPS = slices.Max(hps)
		s.ByAlgo = append(s.ByAlgo, as)
	}
	slices.SortFunc(s.ByAlgo, func(a, b AlgoSummary) int {
		switch {
		case a.Algorithm < b.Algorithm:
			return -1
		case a.Algorithm > b.Algorithm:
			return 1
		}
		return 0
	})
	return s
}

func median[T constraints.Integer | constraints.Float](xs []T) T {
	if len(xs) == 0 {
		return 0
	}
	s := slices.Clone(xs)
	slices.Sort(s)
	mid := len(s) / 2
	if len(s)%2 == 1 {
		return s[mid]
	}
	return (s[mid-1] + s[mid]) / 2
}

// FormatRate renders hashes per second with a unit prefix.
func FormatRate(hps float64) string {
	switch {
	case hps >= 1e9:
		return fmt.Sprintf("%.2f GH/s", hps/1e9)
	case hps >= 1e6:
		return fmt.Sprintf("%.2f MH/s", hps/1e6)
	case hps >= 1e3:
		return fmt.Sprintf("%.2f kH/s", hps/1e3)
	default:
		return fmt.Sprintf("%.0f H/s", hps)
	}
}

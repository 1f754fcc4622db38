package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"edu/blitzforge/internal/config"
	"edu/blitzforge/internal/engine"
	"edu/blitzforge/internal/eventlog"
	"edu/blitzforge/internal/generator"
	"edu/blitzforge/internal/hashes"
	"edu/blitzforge/internal/report"
	"edu/blitzforge/internal/target"
)

var crackCmd = &cobra.Command{
	Use:   "crack",
	Short: "Crack a target file or a single hash",
	Long: `Crack every target in a JSON/YAML target file (or a single --hash) using a
dictionary, mask, brute force or hybrid (wordlist + mask) attack.`,
	RunE: runCrack,
}

func init() { crackFlags(crackCmd.Flags()) }

func crackFlags(f *pflag.FlagSet) {
	f.StringP("targets", "T", "", "Target file (JSON or YAML)")
	f.StringP("hash", "H", "", "Single target hash, instead of --targets")
	f.StringP("algorithm", "a", "auto", "Algorithm of --hash (auto-detect by default)")
	f.String("salt", "", "Salt of --hash, hashed as salt||password")
	f.String("strategy", "auto", "dictionary, mask, brute, hybrid or auto")
	f.StringP("wordlist", "w", "", "Wordlist file path")
	f.String("rules", "", "Comma-separated mutation rules (+l,+u,+c,+t,+r,+d,+e,$sfx,^pfx)")
	f.StringP("mask", "m", "", "Mask pattern (e.g., ?l?l?l?d?d)")
	f.Bool("prefix", false, "Hybrid: put the mask before the word")
	f.String("charset", "abcdefghijklmnopqrstuvwxyz0123456789", "Character set for brute force")
	f.Int("min", 1, "Minimum password length for brute force")
	f.Int("max", 6, "Maximum password length for brute force")
	for i := 1; i <= 4; i++ {
		f.StringP(fmt.Sprintf("custom-charset%d", i), fmt.Sprint(i), "", fmt.Sprintf("Custom charset for ?%d", i))
	}
	f.String("csv", "", "Append benchmark rows to this CSV file")
	f.Int("repeat", 1, "Number of runs")
}

// attack is a generator recipe. Generators cannot be restarted, so a
// repeated run builds a fresh one from the same recipe.
type attack struct {
	fs       afero.Fs
	strategy string
	wordlist string
	rules    []generator.Rule
	mask     string
	custom   []generator.Charset
	prefix   bool
	charset  generator.Charset
	minLen   int
	maxLen   int
}

func resolveStrategy(s, wordlist, mask string) (string, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		switch {
		case wordlist != "" && mask != "":
			return "hybrid", nil
		case wordlist != "":
			return "dictionary", nil
		case mask != "":
			return "mask", nil
		default:
			return "brute", nil
		}
	case "dictionary", "wordlist":
		if wordlist == "" {
			return "", fmt.Errorf("--wordlist required for dictionary strategy")
		}
		return "dictionary", nil
	case "mask":
		if mask == "" {
			return "", fmt.Errorf("--mask required for mask strategy")
		}
		return "mask", nil
	case "brute", "bruteforce":
		return "brute", nil
	case "hybrid":
		if wordlist == "" || mask == "" {
			return "", fmt.Errorf("--wordlist and --mask required for hybrid strategy")
		}
		return "hybrid", nil
	}
	return "", fmt.Errorf("unknown strategy %q", s)
}

func (a attack) dictionary() (*generator.Dictionary, io.Closer, error) {
	f, err := a.fs.Open(a.wordlist)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open wordlist: %w", err)
	}
	d, err := generator.NewDictionary(generator.NewScannerSource(f), a.rules...)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return d, f, nil
}

func (a attack) build() (generator.Generator, io.Closer, error) {
	switch a.strategy {
	case "dictionary":
		return a.dictionary()
	case "mask":
		m, err := generator.ParseMask(a.mask, a.custom...)
		return m, nil, err
	case "brute":
		bf, err := generator.NewBruteForce(a.charset, a.minLen, a.maxLen)
		return bf, nil, err
	case "hybrid":
		m, err := generator.ParseMask(a.mask, a.custom...)
		if err != nil {
			return nil, nil, err
		}
		d, c, err := a.dictionary()
		if err != nil {
			return nil, nil, err
		}
		h, err := generator.NewHybrid(d, m, a.prefix)
		if err != nil {
			c.Close()
			return nil, nil, err
		}
		return h, c, nil
	}
	return nil, nil, fmt.Errorf("unknown strategy %q", a.strategy)
}

func loadTargets(cmd *cobra.Command) ([]target.Target, error) {
	path, _ := cmd.Flags().GetString("targets")
	hash, _ := cmd.Flags().GetString("hash")
	switch {
	case path != "" && hash != "":
		return nil, fmt.Errorf("use either --targets or --hash, not both")
	case path != "":
		return target.Load(fsys, path)
	case hash != "":
		algo, _ := cmd.Flags().GetString("algorithm")
		salt, _ := cmd.Flags().GetString("salt")
		rec := target.Record{ID: "hash", Algorithm: algo, Hash: hash, Salt: salt}
		t, err := rec.Target()
		if err != nil {
			return nil, err
		}
		if strings.EqualFold(algo, "auto") {
			fmt.Printf("Detected algorithm: %s\n", t.Algorithm)
		}
		if _, note := hashes.Validate(t.Algorithm, hash); note != "" {
			console.Info(note)
		}
		return []target.Target{t}, nil
	}
	return nil, fmt.Errorf("--targets or --hash required")
}

// lengthHints returns the span of known plaintext lengths, if any target has one.
func lengthHints(targets []target.Target) (lo, hi int, ok bool) {
	for _, t := range targets {
		if t.LengthHint <= 0 {
			continue
		}
		if !ok || t.LengthHint < lo {
			lo = t.LengthHint
		}
		if !ok || t.LengthHint > hi {
			hi = t.LengthHint
		}
		ok = true
	}
	return lo, hi, ok
}

// buildAttack reads the attack flags. Brute force lengths follow the
// targets' length hints unless min or max was set explicitly.
func buildAttack(f *pflag.FlagSet, vp *viper.Viper, cfg config.Config, targets []target.Target) (attack, error) {
	wordlist, _ := f.GetString("wordlist")
	maskPattern, _ := f.GetString("mask")
	strategy, _ := f.GetString("strategy")
	prefix, _ := f.GetBool("prefix")

	a := attack{fs: fsys, wordlist: wordlist, mask: maskPattern, prefix: prefix, minLen: cfg.MinLen, maxLen: cfg.MaxLen}
	var err error
	if a.strategy, err = resolveStrategy(strategy, wordlist, maskPattern); err != nil {
		return a, err
	}
	if a.rules, err = generator.ParseRules(cfg.Rules); err != nil {
		return a, err
	}
	custom := make([]generator.Charset, 4)
	used := 0
	for i := range custom {
		s, _ := f.GetString(fmt.Sprintf("custom-charset%d", i+1))
		if s == "" {
			continue
		}
		if custom[i], err = generator.NewCharset(s); err != nil {
			return a, err
		}
		used = i + 1
	}
	a.custom = custom[:used]
	if a.charset, err = generator.NewCharset(cfg.Charset); err != nil {
		return a, err
	}
	if a.strategy == "brute" && !config.Explicit(vp, f, "min") && !config.Explicit(vp, f, "max") {
		if lo, hi, ok := lengthHints(targets); ok {
			a.minLen, a.maxLen = lo, hi
		}
	}
	return a, nil
}

func runCrack(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	targets, err := loadTargets(cmd)
	if err != nil {
		return err
	}
	atk, err := buildAttack(cmd.Flags(), v, cfg, targets)
	if err != nil {
		return err
	}

	var evlog *eventlog.Log
	if cfg.LogPath != "" {
		if evlog, err = eventlog.Create(fsys, cfg.LogPath); err != nil {
			return fmt.Errorf("failed to create event log: %w", err)
		}
		defer evlog.Close()
	}
	events := eventlog.Debug(console)
	if evlog != nil {
		events = eventlog.Chain(evlog.Event, events)
	}

	var csvLog *report.CSVLogger
	if cfg.CSVPath != "" {
		if csvLog, err = report.OpenCSV(fsys, cfg.CSVPath); err != nil {
			return err
		}
		defer csvLog.Close()
	}

	ctx, cancel := signalContext(cfg)
	defer cancel()

	fmt.Println("Use only on hashes you are authorized to test.")
	fmt.Printf("\nConfiguration:\n")
	fmt.Printf("  Targets:    %d\n", len(targets))
	fmt.Printf("  Strategy:   %s\n", atk.strategy)
	if atk.wordlist != "" {
		fmt.Printf("  Wordlist:   %s\n", displayPath(atk.wordlist))
	}
	if atk.mask != "" {
		fmt.Printf("  Mask:       %s\n", atk.mask)
	}
	if atk.strategy == "brute" {
		fmt.Printf("  Charset:    %s (length %d-%d)\n", atk.charset, atk.minLen, atk.maxLen)
	}
	fmt.Printf("  Workers:    %d\n", cfg.Workers)
	fmt.Printf("  Batch size: %d\n", cfg.BatchSize)

	var last error
	for run := 1; run <= cfg.Repeat; run++ {
		if cfg.Repeat > 1 {
			fmt.Printf("\nRun %d/%d\n", run, cfg.Repeat)
		}
		res, err := crackOnce(ctx, cfg, atk, targets, events)
		if csvLog != nil && res.RunID != "" {
			if lerr := csvLog.Log(res, targets, report.Run{Strategy: atk.strategy, Workers: cfg.Workers}); lerr != nil {
				console.WithError(lerr).Warn("csv log")
			}
		}
		if err != nil {
			return err
		}
		if len(res.Matches) == 0 {
			last = errors.New("password not found")
		} else {
			last = nil
		}
		if ctx.Err() != nil {
			break
		}
	}
	return last
}

func crackOnce(ctx context.Context, cfg config.Config, atk attack, targets []target.Target, events eventlog.Func) (engine.Result, error) {
	gen, closer, err := atk.build()
	if err != nil {
		return engine.Result{}, err
	}
	if closer != nil {
		defer closer.Close()
	}
	if size, ok := gen.EstimatedSize(); ok {
		fmt.Printf("  Keyspace:   %d\n", size)
	} else {
		fmt.Printf("  Keyspace:   unknown\n")
	}

	opts := engine.Options{
		Workers:          cfg.Workers,
		BatchSize:        cfg.BatchSize,
		QueueDepth:       cfg.QueueDepth,
		ProgressInterval: cfg.ProgressInterval,
		ProgressEvery:    cfg.ProgressEvery,
		Event:            events,
		OnMatch: func(m engine.Match) {
			fmt.Fprintf(os.Stderr, "\r\033[K")
			console.WithFields(map[string]any{"target": m.TargetID, "algo": m.Algorithm.String()}).
				Infof("found %q after %v", m.Password(), m.Elapsed.Round(time.Millisecond))
		},
		OnProgress: func(s engine.Snapshot) {
			pct := "?"
			if s.Percent >= 0 {
				pct = fmt.Sprintf("%.1f%%", s.Percent)
			}
			fmt.Fprintf(os.Stderr, "\r\033[K[%s] tried %d  %s  found %d/%d  %s",
				s.Elapsed.Round(time.Second), s.Tried, report.FormatRate(s.Rate), s.Found, s.Total, pct)
		},
	}
	eng, err := engine.New(targets, gen, opts)
	if err != nil {
		return engine.Result{}, err
	}
	fmt.Printf("  Run:        %s\n\n", eng.RunID())

	res, err := eng.Run(ctx)
	fmt.Fprintf(os.Stderr, "\r\033[K")
	printResult(res)
	if err != nil && res.State == engine.Aborted && errors.Is(err, context.DeadlineExceeded) {
		console.Warn("timeout reached")
		return res, nil
	}
	if err != nil && errors.Is(err, context.Canceled) {
		return res, nil
	}
	return res, err
}

func printResult(res engine.Result) {
	fmt.Printf("\n%s\n", strings.Repeat("=", 60))
	fmt.Printf("State:    %s\n", res.State)
	fmt.Printf("Found:    %d/%d\n", len(res.Matches), res.Final.Total)
	fmt.Printf("Tried:    %d\n", res.Final.Tried)
	fmt.Printf("Hashed:   %d\n", res.Final.Hashed)
	fmt.Printf("Time:     %v\n", res.Duration.Round(time.Millisecond))
	fmt.Printf("Rate:     %s\n", report.FormatRate(res.Final.Rate))
	if len(res.Matches) > 0 {
		fmt.Println()
		for _, m := range res.Matches {
			user := m.Username
			if user == "" {
				user = "-"
			}
			fmt.Printf("  %-20s %-12s %-10s %s\n", m.TargetID, user, m.Algorithm, m.Password())
		}
	}
	fmt.Printf("%s\n", strings.Repeat("=", 60))
}

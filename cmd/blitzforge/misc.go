package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"edu/blitzforge/internal/hashes"
	"edu/blitzforge/internal/report"
	"edu/blitzforge/internal/selftest"
)

var selftestCmd = &cobra.Command{
	Use:   "selftest",
	Short: "Check digests, generators and a small end-to-end crack",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		ctx, cancel := signalContext(cfg)
		defer cancel()
		err = selftest.Run(ctx, func(name string, err error) {
			if err != nil {
				fmt.Printf("  FAIL %-12s %v\n", name, err)
				return
			}
			fmt.Printf("  ok   %s\n", name)
		})
		if err != nil {
			return fmt.Errorf("selftest failed: %w", err)
		}
		fmt.Println("All checks passed.")
		return nil
	},
}

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Measure single-core digest throughput",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := loadConfig(cmd); err != nil {
			return err
		}
		f := cmd.Flags()
		list, _ := f.GetString("algorithms")
		size, _ := f.GetInt("size")
		if size < 0 {
			return fmt.Errorf("--size must not be negative")
		}
		n, _ := f.GetInt("count")

		algos := hashes.All()
		if list != "" {
			var err error
			if algos, err = parseAlgorithms(list); err != nil {
				return err
			}
		}
		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ALGORITHM\tRATE\tCYCLES/OP\tTIME")
		for _, a := range algos {
			t := selftest.Measure(a, size, n)
			fmt.Fprintf(tw, "%s\t%s\t%.0f\t%v\n", a, report.FormatRate(t.PerSecond), t.CyclesPerOp, t.Elapsed)
		}
		return tw.Flush()
	},
}

var reportCmd = &cobra.Command{
	Use:   "report <file.csv>",
	Short: "Summarize a CSV benchmark log",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		recs, err := report.ReadCSV(fsys, args[0])
		if err != nil && len(recs) == 0 {
			return err
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}
		sum := report.Summarize(recs)
		fmt.Printf("%d rows from %s\n\n", sum.Rows, displayPath(args[0]))
		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ALGORITHM\tRUNS\tFOUND\tMEDIAN\tPEAK")
		for _, a := range sum.ByAlgo {
			fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\n", a.Algorithm, a.Runs, a.Found,
				report.FormatRate(a.MedianHPS), report.FormatRate(a.PeakHPS))
		}
		return tw.Flush()
	},
}

func init() {
	benchCmd.Flags().String("algorithms", "", "Comma-separated algorithms (default: all)")
	benchCmd.Flags().Int("size", 8, "Input length in bytes")
	benchCmd.Flags().Int("count", 1_000_000, "Digests per algorithm")
}

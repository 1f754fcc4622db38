package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/p7r0x7/vainpath"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"edu/blitzforge/internal/config"
	"edu/blitzforge/internal/eventlog"
	"edu/blitzforge/internal/hashes"
)

var (
	configPath string
	v          = config.New()
	console    = logrus.New()
	fsys       = afero.NewOsFs()
)

var rootCmd = &cobra.Command{
	Use:   "blitzforge",
	Short: "BlitzForge - a concurrent password cracking benchmark",
	Long: `BlitzForge cracks digests with dictionary, mask, brute force and hybrid
attacks across a pool of workers. Intended for education and benchmarking on
hashes you are authorized to test.`,
	SilenceUsage: true,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List supported algorithms",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Supported algorithms:")
		for _, a := range hashes.All() {
			fmt.Printf("  - %-12s %3d bytes\n", a, a.Size())
		}
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.IntP("workers", "t", 0, "Number of worker goroutines (default: CPU cores)")
	pf.Int("batch-size", 4096, "Candidates per batch")
	pf.Duration("timeout", 0, "Stop the run after this long")
	pf.StringVar(&configPath, "config", "", "Config file path")
	pf.String("log", "", "JSON lines event log path")
	pf.BoolP("verbose", "v", false, "Print every engine event")

	rootCmd.AddCommand(crackCmd, generateCmd, listCmd, selftestCmd, benchCmd, reportCmd)
}

// loadConfig merges defaults, the config file, environment and the flags of
// cmd, and sets up the console logger.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	if err := config.BindFlags(v, cmd.Flags()); err != nil {
		return config.Config{}, err
	}
	cfg, err := config.Load(v, configPath)
	if err != nil {
		return cfg, err
	}
	console = eventlog.NewConsole(os.Stderr, cfg.Verbose)
	return cfg, nil
}

// signalContext cancels on SIGINT/SIGTERM and after timeout when set.
func signalContext(cfg config.Config) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	if cfg.Timeout > 0 {
		var tcancel context.CancelFunc
		ctx, tcancel = context.WithTimeout(ctx, cfg.Timeout)
		prev := cancel
		cancel = func() { tcancel(); prev() }
	}
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigChan:
			fmt.Fprintln(os.Stderr, "\nInterrupted, stopping...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()
	return ctx, cancel
}

// short path for banners
func displayPath(p string) string {
	if p == "" {
		return ""
	}
	return vainpath.Trim(vainpath.Simplify(p), "…", 48)
}

func parseAlgorithms(list string) ([]hashes.Algorithm, error) {
	var out []hashes.Algorithm
	for _, s := range strings.Split(list, ",") {
		if strings.TrimSpace(s) == "" {
			continue
		}
		a, err := hashes.ParseAlgorithm(s)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no valid algorithms specified")
	}
	return out, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

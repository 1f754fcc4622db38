package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/spf13/pflag"

	"edu/blitzforge/internal/errdefs"
	"edu/blitzforge/internal/hashes"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load(New(), "")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Workers != runtime.NumCPU() || cfg.BatchSize != 4096 || cfg.ProgressInterval != 500*time.Millisecond {
		t.Fatalf("defaults %+v", cfg)
	}
	if len(cfg.Algorithms) != 4 || cfg.Algorithms[0] != hashes.AlgoBlitz {
		t.Fatalf("algorithms %v", cfg.Algorithms)
	}
}

func TestPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blitzforge.yaml")
	doc := "workers: 3\nbatch_size: 128\nprogress_interval: 2s\nalgorithms: [md5, ntlm]\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("BLITZFORGE_BATCH_SIZE", "256")

	v := New()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Int("workers", 0, "")
	fs.String("charset", "", "")
	if err := BindFlags(v, fs); err != nil {
		t.Fatal(err)
	}
	if err := fs.Parse([]string{"--workers", "5"}); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(v, path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Workers != 5 {
		t.Fatalf("flag should win, workers=%d", cfg.Workers)
	}
	if cfg.BatchSize != 256 {
		t.Fatalf("env should beat file, batch=%d", cfg.BatchSize)
	}
	if cfg.ProgressInterval != 2*time.Second {
		t.Fatalf("interval %s", cfg.ProgressInterval)
	}
	if len(cfg.Algorithms) != 2 || cfg.Algorithms[1] != hashes.AlgoNTLM {
		t.Fatalf("algorithms %v", cfg.Algorithms)
	}
	if cfg.Charset != "abcdefghijklmnopqrstuvwxyz0123456789" {
		t.Fatalf("unset flag must not clobber default: %q", cfg.Charset)
	}
}

func TestEnvAlgorithms(t *testing.T) {
	t.Setenv("BLITZFORGE_ALGORITHMS", "sha1,blake3")
	cfg, err := Load(New(), "")
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Algorithms) != 2 || cfg.Algorithms[1] != hashes.AlgoBLAKE3 {
		t.Fatalf("algorithms %v", cfg.Algorithms)
	}
}

func TestValidate(t *testing.T) {
	v := New()
	v.Set("min", 4)
	v.Set("max", 2)
	if _, err := Load(v, ""); !errors.Is(err, errdefs.ErrInvalidConfiguration) {
		t.Fatalf("expected invalid configuration, got %v", err)
	}
	v = New()
	v.Set("algorithms", []string{"rot13"})
	if _, err := Load(v, ""); !errors.Is(err, errdefs.ErrInvalidConfiguration) {
		t.Fatalf("unknown algorithm: %v", err)
	}
	if _, err := Load(New(), filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("missing config file accepted")
	}
}

func TestExplicit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blitzforge.yaml")
	if err := os.WriteFile(path, []byte("max: 4\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("BLITZFORGE_MIN", "2")

	v := New()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Int("min", 1, "")
	fs.Int("max", 6, "")
	fs.String("charset", "", "")
	fs.Int("batch-size", 0, "")
	if err := BindFlags(v, fs); err != nil {
		t.Fatal(err)
	}
	if err := fs.Parse([]string{"--batch-size", "64"}); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(v, path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MinLen != 2 || cfg.MaxLen != 4 {
		t.Fatalf("range %d..%d", cfg.MinLen, cfg.MaxLen)
	}
	for key, want := range map[string]bool{"min": true, "max": true, "batch_size": true, "charset": false, "workers": false} {
		if got := Explicit(v, fs, key); got != want {
			t.Fatalf("Explicit(%q) = %v, want %v", key, got, want)
		}
	}
}

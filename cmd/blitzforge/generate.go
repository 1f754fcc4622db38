package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"edu/blitzforge/internal/target"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write a demo target file from known passwords",
	Example: `  blitzforge generate --passwords password,abc123,qwerty --algorithms md5,blitz --out targets.json
  blitzforge generate -p hello --salt-ratio 1 --out targets.yaml`,
	RunE: runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.StringP("passwords", "p", "password,123456,qwerty,letmein,abc123", "Comma-separated plaintexts")
	f.String("algorithms", "", "Comma-separated algorithms (default from config)")
	f.StringP("out", "o", "targets.json", "Output file (.json, .yaml or .yml)")
	f.Float64("salt-ratio", 0.3, "Share of targets that get a salt, 0..1")
	f.Int64("seed", 0, "Random seed for salt selection (0: random)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	f := cmd.Flags()
	pwList, _ := f.GetString("passwords")
	out, _ := f.GetString("out")
	seed, _ := f.GetInt64("seed")

	algos := cfg.Algorithms
	if list, _ := f.GetString("algorithms"); list != "" {
		if algos, err = parseAlgorithms(list); err != nil {
			return err
		}
	}
	var passwords []string
	for _, p := range strings.Split(pwList, ",") {
		if p = strings.TrimSpace(p); p != "" {
			passwords = append(passwords, p)
		}
	}

	targets, err := target.Generate(passwords, target.GenerateOptions{
		Algorithms: algos,
		SaltRatio:  cfg.SaltRatio,
		Seed:       seed,
	})
	if err != nil {
		return err
	}
	if err := target.Save(fsys, out, targets); err != nil {
		return err
	}
	salted := 0
	for _, t := range targets {
		if len(t.Salt) > 0 {
			salted++
		}
	}
	fmt.Printf("Wrote %d targets (%d salted) to %s\n", len(targets), salted, displayPath(out))
	return nil
}

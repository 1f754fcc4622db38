// Package selftest checks that the digests, generators and engine agree
// with known answers on this machine.
package selftest

import (
	"context"
	"encoding/hex"
	"fmt"

	"go.uber.org/multierr"

	"edu/blitzforge/internal/engine"
	"edu/blitzforge/internal/generator"
	"edu/blitzforge/internal/hashes"
	"edu/blitzforge/internal/target"
)

// Check is one named self-test.
type Check struct {
	Name string
	Run  func(ctx context.Context) error
}

var Checks = []Check{
	{"digests", checkDigests},
	{"generators", checkGenerators},
	{"crack", checkCrack},
}

// Run executes every check and reports each outcome through report. The
// returned error combines every failure.
func Run(ctx context.Context, report func(name string, err error)) error {
	var errs error
	for _, c := range Checks {
		err := c.Run(ctx)
		if report != nil {
			report(c.Name, err)
		}
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", c.Name, err))
		}
	}
	return errs
}

var known = []struct {
	algo hashes.Algorithm
	in   string
	hex  string
}{
	{hashes.AlgoBlitz, "password", "f5487bc0d7e734b965de25ea30496f6230691e29b139e3bd6f39f4a03ae72819"},
	{hashes.AlgoMD5, "password", "5f4dcc3b5aa765d61d8327deb882cf99"},
	{hashes.AlgoSHA1, "password", "5baa61e4c9b93f3f0682250b6cf8331b7ee68fd8"},
	{hashes.AlgoSHA256, "password", "5e884898da28047151d0e56f8dc6292773603d0d6aabbdd62a11ef721d1542d8"},
	{hashes.AlgoNTLM, "password", "8846f7eaee8fb117ad06bdd830b7586c"},
}

func checkDigests(context.Context) error {
	for _, k := range known {
		if got := hashes.Hex(k.algo, nil, k.in); got != k.hex {
			return fmt.Errorf("%s(%q) = %s, want %s", k.algo, k.in, got, k.hex)
		}
	}
	for _, a := range hashes.All() {
		if n := len(hashes.Sum(a, nil, []byte("x"))); n != a.Size() {
			return fmt.Errorf("%s: %d byte digest, want %d", a, n, a.Size())
		}
	}
	return nil
}

func checkGenerators(context.Context) error {
	m, err := generator.ParseMask("?d?d")
	if err != nil {
		return err
	}
	b, err := m.NextBatch(5)
	if err != nil {
		return err
	}
	if len(b) != 5 || string(b[0]) != "00" || string(b[1]) != "01" {
		return fmt.Errorf("mask ?d?d started with %q", b)
	}
	bf, err := generator.NewBruteForce(generator.MustCharset("ab"), 2, 2)
	if err != nil {
		return err
	}
	b, err = bf.NextBatch(10)
	if err != nil {
		return err
	}
	if len(b) != 4 {
		return fmt.Errorf("brute force ab^2 gave %d candidates", len(b))
	}
	return nil
}

func checkCrack(ctx context.Context) error {
	digest, _ := hex.DecodeString(known[0].hex)
	targets := []target.Target{{ID: "test", Username: "testuser", Algorithm: hashes.AlgoBlitz, Digest: digest}}
	d, err := generator.NewDictionary(generator.NewSliceSource("admin", "letmein", "password", "qwerty"))
	if err != nil {
		return err
	}
	e, err := engine.New(targets, d, engine.Options{Workers: 2, BatchSize: 2})
	if err != nil {
		return err
	}
	res, err := e.Run(ctx)
	if err != nil {
		return err
	}
	if res.State != engine.Completed || len(res.Matches) != 1 || res.Matches[0].Password() != "password" {
		return fmt.Errorf("engine ended %s with %d matches", res.State, len(res.Matches))
	}
	return nil
}

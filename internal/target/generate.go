package target

import (
	"fmt"
	"math/rand"

	"edu/blitzforge/internal/errdefs"
	"edu/blitzforge/internal/hashes"
)

// GenerateOptions controls demo target generation.
type GenerateOptions struct {
	Algorithms []hashes.Algorithm
	// SaltRatio is the share of targets that get a salt, 0..1.
	SaltRatio float64
	// Seed makes the salt choice reproducible; 0 picks one from the clock.
	Seed int64
}

// Generate builds one target per (password, algorithm) pair. Salted targets
// get the salt "salt<i>" where i is the password index.
func Generate(passwords []string, opts GenerateOptions) ([]Target, error) {
	if len(passwords) == 0 {
		return nil, errdefs.Invalid("no passwords to generate targets from")
	}
	if len(opts.Algorithms) == 0 {
		return nil, errdefs.Invalid("no algorithms specified")
	}
	if opts.SaltRatio < 0 || opts.SaltRatio > 1 {
		return nil, errdefs.Invalid("salt ratio %.2f outside 0..1", opts.SaltRatio)
	}
	var rng *rand.Rand
	if opts.Seed != 0 {
		rng = rand.New(rand.NewSource(opts.Seed))
	} else {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	out := make([]Target, 0, len(passwords)*len(opts.Algorithms))
	for i, pw := range passwords {
		for _, a := range opts.Algorithms {
			var salt []byte
			if opts.SaltRatio > 0 && rng.Float64() < opts.SaltRatio {
				salt = []byte(fmt.Sprintf("salt%d", i))
			}
			out = append(out, Target{
				ID:         fmt.Sprintf("demo%d_%s", i, a),
				Username:   fmt.Sprintf("user%d", i),
				Algorithm:  a,
				Digest:     hashes.Sum(a, salt, []byte(pw)),
				Salt:       salt,
				LengthHint: len(pw),
			})
		}
	}
	return out, nil
}

package target

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"edu/blitzforge/internal/errdefs"
	"edu/blitzforge/internal/hashes"
)

// Record is the on-disk form of a Target. hash_algo may be "auto", in which
// case the algorithm is guessed from the digest length.
type Record struct {
	ID         string `json:"id" yaml:"id"`
	Username   string `json:"username" yaml:"username"`
	Algorithm  string `json:"hash_algo" yaml:"hash_algo"`
	Hash       string `json:"hash_hex" yaml:"hash_hex"`
	Salt       string `json:"salt,omitempty" yaml:"salt,omitempty"`
	LengthHint int    `json:"length_hint,omitempty" yaml:"length_hint,omitempty"`
}

// Target converts a record, validating the algorithm and digest.
func (r Record) Target() (Target, error) {
	var algo hashes.Algorithm
	if strings.EqualFold(strings.TrimSpace(r.Algorithm), "auto") {
		guesses := hashes.Detect(r.Hash)
		if len(guesses) == 0 {
			return Target{}, errdefs.Invalid("target %q: cannot detect algorithm of %q", r.ID, r.Hash)
		}
		algo = guesses[0]
	} else {
		a, err := hashes.ParseAlgorithm(r.Algorithm)
		if err != nil {
			return Target{}, errdefs.Invalid("target %q: %v", r.ID, err)
		}
		algo = a
	}
	digest, err := hashes.ParseDigest(algo, r.Hash)
	if err != nil {
		return Target{}, errdefs.Invalid("target %q: %v", r.ID, err)
	}
	t := Target{
		ID:         r.ID,
		Username:   r.Username,
		Algorithm:  algo,
		Digest:     digest,
		LengthHint: r.LengthHint,
	}
	if r.Salt != "" {
		t.Salt = []byte(r.Salt)
	}
	return t, nil
}

// ToRecord is the inverse of Record.Target.
func ToRecord(t Target) Record {
	return Record{
		ID:         t.ID,
		Username:   t.Username,
		Algorithm:  t.Algorithm.String(),
		Hash:       hex.EncodeToString(t.Digest),
		Salt:       string(t.Salt),
		LengthHint: t.LengthHint,
	}
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Load reads a target file. JSON is the default; .yaml and .yml files are
// read as YAML. Every bad record is reported, not just the first.
func Load(fs afero.Fs, path string) ([]Target, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read targets: %w", err)
	}
	var recs []Record
	if isYAML(path) {
		err = yaml.Unmarshal(data, &recs)
	} else {
		err = json.Unmarshal(data, &recs)
	}
	if err != nil {
		return nil, errdefs.Invalid("parse %s: %v", path, err)
	}
	if len(recs) == 0 {
		return nil, errdefs.Invalid("no targets found in %s", path)
	}
	out := make([]Target, 0, len(recs))
	var errs error
	for _, r := range recs {
		t, err := r.Target()
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		out = append(out, t)
	}
	if errs != nil {
		return nil, errs
	}
	return out, nil
}

// Save writes targets in the format Load reads back.
func Save(fs afero.Fs, path string, targets []Target) error {
	recs := make([]Record, len(targets))
	for i, t := range targets {
		recs[i] = ToRecord(t)
	}
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(recs)
	} else {
		data, err = json.MarshalIndent(recs, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to encode targets: %w", err)
	}
	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write targets: %w", err)
	}
	return nil
}

package target

import (
	"errors"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"edu/blitzforge/internal/errdefs"
	"edu/blitzforge/internal/hashes"
)

func blitzTarget(id, plain string, salt []byte) Target {
	return Target{ID: id, Algorithm: hashes.AlgoBlitz, Digest: hashes.Sum(hashes.AlgoBlitz, salt, []byte(plain)), Salt: salt}
}

func TestIndexLookup(t *testing.T) {
	ix, err := NewIndex([]Target{
		blitzTarget("a", "password123", nil),
		blitzTarget("b", "qwerty", nil),
		blitzTarget("c", "password123", nil),
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(ix.Groups()) != 1 || !ix.Amortized() {
		t.Fatalf("unsalted targets of one algorithm must share a group")
	}
	ids := ix.Lookup(hashes.AlgoBlitz, nil, hashes.Sum(hashes.AlgoBlitz, nil, []byte("password123")))
	if strings.Join(ids, ",") != "a,c" {
		t.Fatalf("colliding digests must all be reported, got %v", ids)
	}
	if ids := ix.Groups()[0].Lookup([]byte("nope")); ids != nil {
		t.Fatalf("miss returned %v", ids)
	}
	if tg, ok := ix.Target("b"); !ok || tg.ID != "b" {
		t.Fatal("target by id")
	}
}

func TestIndexRejectsBadTargets(t *testing.T) {
	cases := map[string][]Target{
		"duplicate id": {blitzTarget("x", "a", nil), blitzTarget("x", "b", nil)},
		"empty id":     {blitzTarget("", "a", nil)},
		"short digest": {{ID: "s", Algorithm: hashes.AlgoMD5, Digest: []byte{1, 2, 3}}},
		"bad algo":     {{ID: "s", Algorithm: hashes.Algorithm(200), Digest: make([]byte, 16)}},
	}
	for name, targets := range cases {
		if _, err := NewIndex(targets); !errors.Is(err, errdefs.ErrInvalidConfiguration) {
			t.Fatalf("%s: expected invalid configuration, got %v", name, err)
		}
	}
}

func TestIndexSaltGroups(t *testing.T) {
	// same plaintext, different salts: distinct digests, distinct groups
	ix, err := NewIndex([]Target{
		blitzTarget("s1", "hunter2", []byte("salt1")),
		blitzTarget("s2", "hunter2", []byte("salt2")),
		blitzTarget("s3", "letmein", []byte("salt1")),
		blitzTarget("n", "hunter2", nil),
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(ix.Groups()) != 3 {
		t.Fatalf("want 3 salt groups, got %d", len(ix.Groups()))
	}
	if ix.Amortized() {
		t.Fatal("per-target salts cannot share one prefix")
	}
	for _, g := range ix.Groups() {
		sum := hashes.Sum(g.Algorithm, g.Salt, []byte("hunter2"))
		ids := g.Lookup(sum)
		if len(ids) != 1 {
			t.Fatalf("salt %q: %v", g.Salt, ids)
		}
	}
	if g := ix.Groups()[1]; string(g.Salt) != "salt1" || g.Len() != 2 {
		t.Fatalf("salt1 group holds %d targets", g.Len())
	}
	// a digest computed under the wrong salt never matches
	if ids := ix.Lookup(hashes.AlgoBlitz, []byte("salt2"), hashes.Sum(hashes.AlgoBlitz, []byte("salt1"), []byte("hunter2"))); ids != nil {
		t.Fatalf("cross-salt match %v", ids)
	}
}

func TestIndexAlgorithmsSplit(t *testing.T) {
	md5 := Target{ID: "m", Algorithm: hashes.AlgoMD5, Digest: hashes.Sum(hashes.AlgoMD5, nil, []byte("x"))}
	ix, err := NewIndex([]Target{blitzTarget("b", "x", nil), md5})
	if err != nil {
		t.Fatal(err)
	}
	if len(ix.Groups()) != 2 || !ix.Amortized() {
		t.Fatalf("groups %d amortized %v", len(ix.Groups()), ix.Amortized())
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	in := []Target{
		blitzTarget("t1", "password", nil),
		{ID: "t2", Username: "bob", Algorithm: hashes.AlgoSHA1, Digest: hashes.Sum(hashes.AlgoSHA1, []byte("pepper"), []byte("pw")), Salt: []byte("pepper"), LengthHint: 2},
	}
	for _, path := range []string{"targets.json", "targets.yaml"} {
		if err := Save(fs, path, in); err != nil {
			t.Fatal(err)
		}
		out, err := Load(fs, path)
		if err != nil {
			t.Fatal(err)
		}
		if len(out) != 2 || out[1].Username != "bob" || string(out[1].Salt) != "pepper" || out[1].LengthHint != 2 {
			t.Fatalf("%s: %+v", path, out)
		}
		if string(out[0].Digest) != string(in[0].Digest) || out[0].Salt != nil {
			t.Fatalf("%s: digest or salt changed", path)
		}
	}
}

func TestLoadRecordFields(t *testing.T) {
	fs := afero.NewMemMapFs()
	doc := `[
  {"id": "demo0_md5", "username": "user0", "hash_algo": "md5", "hash_hex": "5f4dcc3b5aa765d61d8327deb882cf99", "salt": ""},
  {"id": "x", "username": "", "hash_algo": "auto", "hash_hex": "8846F7EAEE8FB117AD06BDD830B7586C"},
  {"id": "old", "username": "u", "hash_algo": "blitzhash", "hash_hex": "f5487bc0d7e734b965de25ea30496f6230691e29b139e3bd6f39f4a03ae72819"}
]`
	if err := afero.WriteFile(fs, "t.json", []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := Load(fs, "t.json")
	if err != nil {
		t.Fatal(err)
	}
	if out[0].Algorithm != hashes.AlgoMD5 || out[0].Salt != nil {
		t.Fatalf("record 0: %+v", out[0])
	}
	if out[1].Algorithm != hashes.AlgoNTLM {
		t.Fatalf("auto detection picked %s", out[1].Algorithm)
	}
	if out[2].Algorithm != hashes.AlgoBlitz {
		t.Fatalf("alias: %s", out[2].Algorithm)
	}
}

func TestLoadReportsEveryBadRecord(t *testing.T) {
	fs := afero.NewMemMapFs()
	doc := `[{"id":"a","hash_algo":"md5","hash_hex":"abc"},{"id":"b","hash_algo":"nope","hash_hex":"00"}]`
	_ = afero.WriteFile(fs, "bad.json", []byte(doc), 0o644)
	_, err := Load(fs, "bad.json")
	if !errors.Is(err, errdefs.ErrInvalidConfiguration) {
		t.Fatalf("expected invalid configuration, got %v", err)
	}
	if !strings.Contains(err.Error(), `"a"`) || !strings.Contains(err.Error(), `"b"`) {
		t.Fatalf("both records should be reported: %v", err)
	}
	if _, err := Load(fs, "missing.json"); err == nil {
		t.Fatal("missing file accepted")
	}
}

func TestGenerate(t *testing.T) {
	algos := []hashes.Algorithm{hashes.AlgoBlitz, hashes.AlgoMD5}
	out, err := Generate([]string{"alpha", "beta", "gamma"}, GenerateOptions{Algorithms: algos, SaltRatio: 1, Seed: 7})
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 6 {
		t.Fatalf("got %d targets", len(out))
	}
	if out[3].ID != "demo1_md5" || string(out[3].Salt) != "salt1" || out[3].Username != "user1" {
		t.Fatalf("target 3: %+v", out[3])
	}
	if string(out[3].Digest) != string(hashes.Sum(hashes.AlgoMD5, []byte("salt1"), []byte("beta"))) {
		t.Fatal("digest is not H(salt||password)")
	}
	if _, err := NewIndex(out); err != nil {
		t.Fatal(err)
	}
	none, err := Generate([]string{"a"}, GenerateOptions{Algorithms: algos})
	if err != nil || none[0].Salt != nil || none[1].Salt != nil {
		t.Fatalf("zero ratio must not salt: %v", err)
	}
	if _, err := Generate(nil, GenerateOptions{Algorithms: algos}); err == nil {
		t.Fatal("empty password list accepted")
	}
}

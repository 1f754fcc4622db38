package engine

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"edu/blitzforge/internal/errdefs"
	"edu/blitzforge/internal/generator"
	"edu/blitzforge/internal/hashes"
	"edu/blitzforge/internal/target"
)

func tgt(id string, a hashes.Algorithm, plain, salt string) target.Target {
	var s []byte
	if salt != "" {
		s = []byte(salt)
	}
	return target.Target{ID: id, Algorithm: a, Digest: hashes.Sum(a, s, []byte(plain)), Salt: s}
}

func dict(t *testing.T, words ...string) *generator.Dictionary {
	t.Helper()
	d, err := generator.NewDictionary(generator.NewSliceSource(words...))
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func mask(t *testing.T, m string) *generator.Mask {
	t.Helper()
	g, err := generator.ParseMask(m)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestDictionarySingleWorker(t *testing.T) {
	var (
		mu     sync.Mutex
		events []string
	)
	e, err := New(
		[]target.Target{tgt("t1", hashes.AlgoBlitz, "password123", "")},
		dict(t, "admin", "password123", "qwerty"),
		Options{Workers: 1, Event: func(ev string, _ map[string]any) {
			mu.Lock()
			events = append(events, ev)
			mu.Unlock()
		}},
	)
	if err != nil {
		t.Fatal(err)
	}
	res, err := e.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.State != Completed || e.State() != Completed {
		t.Fatalf("state %s", res.State)
	}
	if len(res.Matches) != 1 || res.Matches[0].Password() != "password123" || res.Matches[0].TargetID != "t1" {
		t.Fatalf("matches %+v", res.Matches)
	}
	if res.Final.Found != 1 || res.RunID == "" {
		t.Fatalf("final %+v", res.Final)
	}
	if events[0] != "start" || events[len(events)-1] != "done" || !strings.Contains(strings.Join(events, ","), "found") {
		t.Fatalf("events %v", events)
	}
}

func TestZeroTargets(t *testing.T) {
	e, err := New(nil, mask(t, "?a?a?a?a"), Options{})
	if err != nil {
		t.Fatal(err)
	}
	res, err := e.Run(context.Background())
	if err != nil || res.State != Completed || res.Final.Tried != 0 {
		t.Fatalf("got %s tried %d err %v", res.State, res.Final.Tried, err)
	}
}

func TestExhaustedCountsWholeKeyspace(t *testing.T) {
	g := mask(t, "?l?d")
	size, _ := g.EstimatedSize()
	targets := []target.Target{
		tgt("hit", hashes.AlgoMD5, "q7", ""),
		tgt("miss", hashes.AlgoBlitz, "zz", ""),
		tgt("salted", hashes.AlgoBlitz, "a1", "pepper"),
	}
	e, err := New(targets, g, Options{Workers: 3, BatchSize: 7})
	if err != nil {
		t.Fatal(err)
	}
	res, err := e.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.State != Exhausted {
		t.Fatalf("state %s", res.State)
	}
	if res.Final.Tried != size {
		t.Fatalf("tried %d, keyspace %d", res.Final.Tried, size)
	}
	// one digest per candidate for each (algorithm, salt) group
	if res.Final.Hashed != size*3 {
		t.Fatalf("hashed %d", res.Final.Hashed)
	}
	if len(res.Matches) != 2 || res.Final.Percent != 100 {
		t.Fatalf("matches %+v percent %f", res.Matches, res.Final.Percent)
	}
	for _, st := range res.Final.Targets {
		if st.Found != (st.ID != "miss") {
			t.Fatalf("status %+v", st)
		}
	}
}

func matchSet(t *testing.T, workers int) []string {
	t.Helper()
	bf, err := generator.NewBruteForce(generator.MustCharset("abcd1"), 1, 4)
	if err != nil {
		t.Fatal(err)
	}
	targets := []target.Target{
		tgt("a", hashes.AlgoBlitz, "dab", ""),
		tgt("b", hashes.AlgoSHA256, "1a1a", ""),
		tgt("c", hashes.AlgoMD5, "c", "s1"),
		tgt("d", hashes.AlgoNTLM, "bad1", ""),
		tgt("e", hashes.AlgoBlitz, "zzzz", ""),
		tgt("f", hashes.AlgoBlitz, "dab", ""),
	}
	e, err := New(targets, bf, Options{Workers: workers, BatchSize: 13})
	if err != nil {
		t.Fatal(err)
	}
	res, err := e.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.State != Exhausted {
		t.Fatalf("workers=%d state %s", workers, res.State)
	}
	var out []string
	for _, m := range res.Matches {
		out = append(out, m.TargetID+"="+m.Password())
	}
	sort.Strings(out)
	return out
}

func TestWorkerCountDoesNotChangeMatches(t *testing.T) {
	one := strings.Join(matchSet(t, 1), " ")
	want := "a=dab b=1a1a c=c d=bad1 f=dab"
	if one != want {
		t.Fatalf("1 worker: %s", one)
	}
	for _, n := range []int{2, 4, 8} {
		if got := strings.Join(matchSet(t, n), " "); got != one {
			t.Fatalf("%d workers: %s, 1 worker: %s", n, got, one)
		}
	}
}

func TestDuplicateIDsRejected(t *testing.T) {
	targets := []target.Target{tgt("x", hashes.AlgoMD5, "a", ""), tgt("x", hashes.AlgoMD5, "b", "")}
	if _, err := New(targets, dict(t, "a"), Options{}); !errors.Is(err, errdefs.ErrInvalidConfiguration) {
		t.Fatalf("expected invalid configuration, got %v", err)
	}
	if _, err := New(nil, nil, Options{}); !errors.Is(err, errdefs.ErrInvalidConfiguration) {
		t.Fatalf("nil generator: %v", err)
	}
}

func TestDuplicateReportsSuppressed(t *testing.T) {
	var mu sync.Mutex
	var got []Match
	e, err := New(
		[]target.Target{tgt("t", hashes.AlgoBlitz, "pw", ""), tgt("u", hashes.AlgoBlitz, "never", "")},
		dict(t, "pw", "pw", "x", "pw", "pw"),
		Options{Workers: 4, BatchSize: 1, OnMatch: func(m Match) {
			mu.Lock()
			got = append(got, m)
			mu.Unlock()
		}},
	)
	if err != nil {
		t.Fatal(err)
	}
	res, err := e.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || len(res.Matches) != 1 || res.Final.Found != 1 {
		t.Fatalf("reported %d matches, result %d, found %d", len(got), len(res.Matches), res.Final.Found)
	}
}

func TestWorkerPanicAborts(t *testing.T) {
	e, err := New([]target.Target{tgt("t", hashes.AlgoBlitz, "nope", "")}, mask(t, "?d?d?d"), Options{Workers: 2, BatchSize: 10})
	if err != nil {
		t.Fatal(err)
	}
	var n atomic.Int32
	e.beforeScan = func(generator.Batch) {
		if n.Add(1) == 3 {
			panic("scanner blew up")
		}
	}
	res, err := e.Run(context.Background())
	if !errors.Is(err, errdefs.ErrWorkerFailure) {
		t.Fatalf("expected worker failure, got %v", err)
	}
	if !strings.Contains(err.Error(), "scanner blew up") {
		t.Fatalf("panic value lost: %v", err)
	}
	if res.State != Aborted || res.Final.Tried >= 1000 {
		t.Fatalf("state %s tried %d", res.State, res.Final.Tried)
	}
}

type brokenSource struct{ n int }

func (s *brokenSource) Next() ([]byte, error) {
	s.n++
	if s.n > 5 {
		return nil, errors.New("wordlist truncated")
	}
	return []byte("word"), nil
}

func TestLineSourceFailureAborts(t *testing.T) {
	d, err := generator.NewDictionary(&brokenSource{})
	if err != nil {
		t.Fatal(err)
	}
	e, err := New([]target.Target{tgt("t", hashes.AlgoMD5, "nope", "")}, d, Options{Workers: 2, BatchSize: 2})
	if err != nil {
		t.Fatal(err)
	}
	res, err := e.Run(context.Background())
	if !errors.Is(err, errdefs.ErrGeneratorIO) || errors.Is(err, io.EOF) {
		t.Fatalf("expected generator i/o failure, got %v", err)
	}
	if res.State != Aborted {
		t.Fatalf("state %s", res.State)
	}
}

func TestCancellationAborts(t *testing.T) {
	bf, err := generator.NewBruteForce(generator.All, 1, 8)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	e, err := New([]target.Target{tgt("t", hashes.AlgoBlitz, "not-in-keyspace!", "")}, bf,
		Options{Workers: 2, BatchSize: 256, ProgressEvery: 4, OnProgress: func(s Snapshot) {
			if s.Tried > 0 {
				cancel()
			}
		}})
	if err != nil {
		t.Fatal(err)
	}
	res, err := e.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if res.State != Aborted || res.Final.Tried == 0 {
		t.Fatalf("state %s tried %d", res.State, res.Final.Tried)
	}
	if _, err := e.Run(context.Background()); !errors.Is(err, ErrAlreadyRun) {
		t.Fatalf("second run: %v", err)
	}
}

func TestCancelStopsWithinOneBatch(t *testing.T) {
	for round := 0; round < 20; round++ {
		ctx, cancel := context.WithCancel(context.Background())
		e, err := New([]target.Target{tgt("t", hashes.AlgoBlitz, "nope", "")}, mask(t, "?d?d?d"),
			Options{Workers: 1, BatchSize: 1, QueueDepth: 8})
		if err != nil {
			t.Fatal(err)
		}
		var scanned atomic.Int32
		e.beforeScan = func(generator.Batch) {
			if scanned.Add(1) == 1 {
				// let the scheduler fill the queue
				time.Sleep(5 * time.Millisecond)
				cancel()
			}
		}
		res, err := e.Run(ctx)
		cancel()
		if !errors.Is(err, context.Canceled) || res.State != Aborted {
			t.Fatalf("state %s err %v", res.State, err)
		}
		if n := scanned.Load(); n != 1 || res.Final.Tried != 1 {
			t.Fatalf("round %d: scanned %d batches, tried %d after cancel in first batch", round, n, res.Final.Tried)
		}
	}
}

func TestCollidingTargetsAllReported(t *testing.T) {
	e, err := New([]target.Target{
		tgt("alice", hashes.AlgoSHA1, "hunter2", ""),
		tgt("bob", hashes.AlgoSHA1, "hunter2", ""),
	}, dict(t, "letmein", "hunter2"), Options{Workers: 2})
	if err != nil {
		t.Fatal(err)
	}
	res, err := e.Run(context.Background())
	if err != nil || res.State != Completed || len(res.Matches) != 2 {
		t.Fatalf("state %s matches %d err %v", res.State, len(res.Matches), err)
	}
}

func TestHybridRun(t *testing.T) {
	d := dict(t, "summer", "winter")
	h, err := generator.NewHybrid(d, mask(t, "?d?d"), false)
	if err != nil {
		t.Fatal(err)
	}
	e, err := New([]target.Target{tgt("t", hashes.AlgoXXH3, "winter42", "")}, h, Options{Workers: 3, BatchSize: 16})
	if err != nil {
		t.Fatal(err)
	}
	res, err := e.Run(context.Background())
	if err != nil || res.State != Completed || res.Matches[0].Password() != "winter42" {
		t.Fatalf("state %s matches %+v err %v", res.State, res.Matches, err)
	}
	if res.Matches[0].Elapsed <= 0 || res.Matches[0].At.IsZero() {
		t.Fatalf("timestamps %+v", res.Matches[0])
	}
}

func TestSnapshotCarriesCursor(t *testing.T) {
	var (
		mu        sync.Mutex
		positions [][]int
	)
	e, err := New([]target.Target{tgt("t", hashes.AlgoMD5, "nope", "")}, mask(t, "?d?d"),
		Options{Workers: 1, BatchSize: 10, ProgressEvery: 1, OnProgress: func(s Snapshot) {
			mu.Lock()
			positions = append(positions, s.Position)
			mu.Unlock()
		}})
	if err != nil {
		t.Fatal(err)
	}
	res, err := e.Run(context.Background())
	if err != nil || res.State != Exhausted {
		t.Fatalf("state %s err %v", res.State, err)
	}
	mu.Lock()
	defer mu.Unlock()
	for _, p := range positions {
		if len(p) != 2 {
			t.Fatalf("position %v, want the two mask digits", p)
		}
	}
	if len(res.Final.Position) != 2 {
		t.Fatalf("final position %v", res.Final.Position)
	}
}

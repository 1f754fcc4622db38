package selftest

import (
	"time"

	"github.com/dterei/gotsc"

	"edu/blitzforge/internal/hashes"
)

// Throughput is a single-core digest measurement.
type Throughput struct {
	Algorithm   hashes.Algorithm
	Hashes      int
	Elapsed     time.Duration
	PerSecond   float64
	CyclesPerOp float64
	InputLength int
}

// Measure hashes an input of size bytes n times on one goroutine.
func Measure(a hashes.Algorithm, size, n int) Throughput {
	if n <= 0 {
		n = 1
	}
	if size < 0 {
		size = 0
	}
	in := make([]byte, size)
	for i := range in {
		in[i] = byte('a' + i%26)
	}
	d := hashes.NewDigester(a, nil)
	overhead := gotsc.TSCOverhead()

	start := time.Now()
	tsc1 := gotsc.BenchStart()
	for i := 0; i < n; i++ {
		if size > 0 {
			in[0] = byte(i)
		}
		d.Sum(in)
	}
	tsc2 := gotsc.BenchEnd()
	elapsed := time.Since(start)

	t := Throughput{Algorithm: a, Hashes: n, Elapsed: elapsed, InputLength: size}
	if s := elapsed.Seconds(); s > 0 {
		t.PerSecond = float64(n) / s
	}
	if tsc2 > tsc1+overhead {
		t.CyclesPerOp = float64(tsc2-tsc1-overhead) / float64(n)
	}
	return t
}

package hashes

import (
	md5simd "github.com/minio/md5-simd"
	"golang.org/x/text/encoding"
)

// md5 lanes handed to the simd server per round
const md5Lanes = 16

// Digester hashes salt||candidate for one algorithm and one salt. The salt
// prefix is written into the scratch buffer once, so each hash only copies
// the candidate. A Digester is not safe for concurrent use; give each worker
// its own.
type Digester struct {
	algo   Algorithm
	prefix int
	buf    []byte
	out    []byte
	enc    *encoding.Encoder
	lanes  []md5simd.Hasher
}

func NewDigester(a Algorithm, salt []byte) *Digester {
	d := &Digester{
		algo:   a,
		prefix: len(salt),
		buf:    make([]byte, len(salt), len(salt)+64),
		out:    make([]byte, 0, a.Size()),
	}
	copy(d.buf, salt)
	if a == AlgoNTLM {
		d.enc = utf16leEncoding.NewEncoder()
	}
	return d
}

// Sum returns the digest of salt||candidate. The returned slice is reused by
// the next call.
func (d *Digester) Sum(candidate []byte) []byte {
	in := candidate
	if d.prefix > 0 {
		d.buf = append(d.buf[:d.prefix], candidate...)
		in = d.buf
	}
	if d.algo == AlgoNTLM {
		in = encodeUTF16LE(d.enc, in)
		d.out = appendSum(AlgoMD4, d.out[:0], in)
		return d.out
	}
	d.out = appendSum(d.algo, d.out[:0], in)
	return d.out
}

// SumBatch calls fn with the digest of every candidate in order. The digest
// passed to fn is only valid during the call. md5 goes through the md5-simd
// server in groups of md5Lanes.
func (d *Digester) SumBatch(batch [][]byte, fn func(i int, sum []byte)) {
	if d.algo != AlgoMD5 || len(batch) < md5Lanes {
		for i, c := range batch {
			fn(i, d.Sum(c))
		}
		return
	}

	srv := getMD5Server()
	for start := 0; start < len(batch); start += md5Lanes {
		end := min(start+md5Lanes, len(batch))
		d.lanes = d.lanes[:0]
		for _, c := range batch[start:end] {
			h := srv.NewHash()
			if d.prefix > 0 {
				_, _ = h.Write(d.buf[:d.prefix])
			}
			_, _ = h.Write(c)
			d.lanes = append(d.lanes, h)
		}
		for i, h := range d.lanes {
			d.out = h.Sum(d.out[:0])
			h.Close()
			fn(start+i, d.out)
		}
	}
}

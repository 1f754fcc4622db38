package hashes

import (
	"crypto/md5"
	"crypto/sha1"
	"encoding/hex"
	"hash"
	"sync"

	"github.com/c0mm4nd/go-ripemd"
	"github.com/ddulesov/gogost/gost28147"
	"github.com/ddulesov/gogost/gost341194"
	"github.com/ddulesov/gogost/gost34112012256"
	"github.com/ddulesov/gogost/gost34112012512"
	"github.com/emmansun/gmsm/sm3"
	md5simd "github.com/minio/md5-simd"
	sha256simd "github.com/minio/sha256-simd"
	"github.com/pedroalbanese/whirlpool"
	"github.com/zeebo/blake3"
	"github.com/zeebo/xxh3"
	"golang.org/x/crypto/md4"
	"golang.org/x/crypto/ripemd160"
	"golang.org/x/crypto/sha3"
)

// appendSum appends the unsalted digest of b to dst.
// ntlm is handled by the caller since it needs an encoder.
func appendSum(a Algorithm, dst, b []byte) []byte {
	switch a {
	case AlgoBlitz:
		var v [BlitzSize]byte
		blitzInto(&v, b)
		return append(dst, v[:]...)
	case AlgoMD5:
		v := md5.Sum(b)
		return append(dst, v[:]...)
	case AlgoSHA1:
		v := sha1.Sum(b)
		return append(dst, v[:]...)
	case AlgoSHA256:
		// sha256-simd
		v := sha256simd.Sum256(b)
		return append(dst, v[:]...)
	case AlgoMD4:
		return appendHash(md4.New(), dst, b)
	case AlgoNTLM:
		return appendHash(md4.New(), dst, utf16le(b))
	case AlgoSHA3_256:
		v := sha3.Sum256(b)
		return append(dst, v[:]...)
	case AlgoBLAKE3:
		v := blake3.Sum256(b)
		return append(dst, v[:]...)
	case AlgoXXH3:
		v := xxh3.Hash128(b).Bytes()
		return append(dst, v[:]...)
	case AlgoRIPEMD160:
		return appendHash(ripemd160.New(), dst, b)
	case AlgoRIPEMD320:
		return appendHash(ripemd.New320(), dst, b)
	case AlgoWhirlpool:
		return appendHash(whirlpool.New(), dst, b)
	case AlgoStreebog256:
		return appendHash(gost34112012256.New(), dst, b)
	case AlgoStreebog512:
		return appendHash(gost34112012512.New(), dst, b)
	case AlgoGOST94:
		return appendHash(gost341194.New(&gost28147.SboxIdGostR341194TestParamSet), dst, b)
	case AlgoSM3:
		return appendHash(sm3.New(), dst, b)
	default:
		return dst
	}
}

// streaming digests with no one-shot helper
func appendHash(h hash.Hash, dst, b []byte) []byte {
	_, _ = h.Write(b)
	return h.Sum(dst)
}

// Sum returns the digest of salt||plain. salt may be nil.
func Sum(a Algorithm, salt, plain []byte) []byte {
	d := NewDigester(a, salt)
	out := d.Sum(plain)
	return append([]byte(nil), out...)
}

// Hex is Sum encoded as lowercase hex.
func Hex(a Algorithm, salt []byte, plain string) string {
	return hex.EncodeToString(Sum(a, salt, []byte(plain)))
}

var (
	md5Once   sync.Once
	md5Server md5simd.Server
)

func getMD5Server() md5simd.Server {
	md5Once.Do(func() {
		md5Server = md5simd.NewServer()
	})
	return md5Server
}

package hashes

import (
	"fmt"
	"strings"
)

// Algorithm is the closed set of digest variants the engine can match.
type Algorithm uint8

const (
	AlgoBlitz Algorithm = iota
	AlgoMD5
	AlgoSHA1
	AlgoSHA256
	AlgoMD4
	AlgoNTLM
	AlgoSHA3_256
	AlgoBLAKE3
	AlgoXXH3
	AlgoRIPEMD160
	AlgoRIPEMD320
	AlgoWhirlpool
	AlgoStreebog256
	AlgoStreebog512
	AlgoGOST94
	AlgoSM3

	algoCount
)

var algoNames = [algoCount]string{
	AlgoBlitz:    "blitz",
	AlgoMD5:      "md5",
	AlgoSHA1:     "sha1",
	AlgoSHA256:   "sha256",
	AlgoMD4:      "md4",
	AlgoNTLM:     "ntlm",
	AlgoSHA3_256: "sha3-256",
	AlgoBLAKE3:   "blake3",
	AlgoXXH3:     "xxh3",

	AlgoRIPEMD160:   "ripemd160",
	AlgoRIPEMD320:   "ripemd320",
	AlgoWhirlpool:   "whirlpool",
	AlgoStreebog256: "streebog256",
	AlgoStreebog512: "streebog512",
	AlgoGOST94:      "gost94",
	AlgoSM3:         "sm3",
}

var algoSizes = [algoCount]int{
	AlgoBlitz:    BlitzSize,
	AlgoMD5:      16,
	AlgoSHA1:     20,
	AlgoSHA256:   32,
	AlgoMD4:      16,
	AlgoNTLM:     16,
	AlgoSHA3_256: 32,
	AlgoBLAKE3:   32,
	AlgoXXH3:     16,

	AlgoRIPEMD160:   20,
	AlgoRIPEMD320:   40,
	AlgoWhirlpool:   64,
	AlgoStreebog256: 32,
	AlgoStreebog512: 64,
	AlgoGOST94:      32,
	AlgoSM3:         32,
}

func (a Algorithm) String() string {
	if a.Valid() {
		return algoNames[a]
	}
	return fmt.Sprintf("algorithm(%d)", uint8(a))
}

// Valid reports whether a is one of the declared variants.
func (a Algorithm) Valid() bool { return a < algoCount }

// Size is the digest length in bytes.
func (a Algorithm) Size() int {
	if !a.Valid() {
		return 0
	}
	return algoSizes[a]
}

// ParseAlgorithm maps a name (case-insensitive) to its Algorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	switch n {
	case "blitzhash", "blitzdigest":
		return AlgoBlitz, nil
	case "sha3_256", "sha3":
		return AlgoSHA3_256, nil
	case "xxh3-128", "xxh128":
		return AlgoXXH3, nil
	case "gost-streebog-256", "streebog-256":
		return AlgoStreebog256, nil
	case "gost-streebog-512", "streebog-512":
		return AlgoStreebog512, nil
	case "gost", "gost-94":
		return AlgoGOST94, nil
	}
	for a, s := range algoNames {
		if s == n {
			return Algorithm(a), nil
		}
	}
	return 0, fmt.Errorf("unknown algorithm: %s", name)
}

// List returns every algorithm name in declaration order.
func List() []string {
	out := make([]string, 0, algoCount)
	for _, s := range algoNames {
		out = append(out, s)
	}
	return out
}

// All returns every algorithm in declaration order.
func All() []Algorithm {
	out := make([]Algorithm, 0, algoCount)
	for a := Algorithm(0); a < algoCount; a++ {
		out = append(out, a)
	}
	return out
}

func (a Algorithm) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("unknown algorithm: %d", uint8(a))
	}
	return []byte(a.String()), nil
}

func (a *Algorithm) UnmarshalText(b []byte) error {
	v, err := ParseAlgorithm(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

package hashes

import (
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
)

var reHex = regexp.MustCompile(`^[0-9a-fA-F]+$`) // hex lol

// ParseDigest decodes a hex digest and checks it has the algorithm's length.
// A leading 0x is tolerated.
func ParseDigest(a Algorithm, target string) ([]byte, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("unknown algorithm: %d", uint8(a))
	}
	t := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(target)), "0x")
	if !reHex.MatchString(t) {
		return nil, fmt.Errorf("%s digest must be hex", a)
	}
	if want := a.Size() * 2; len(t) != want {
		return nil, fmt.Errorf("%s digest must be %d hex chars, got %d", a, want, len(t))
	}
	return hex.DecodeString(t)
}

// Validate reports whether target looks like a digest of algo, with a hint
// when it does not.
func Validate(a Algorithm, target string) (bool, string) {
	if _, err := ParseDigest(a, target); err != nil {
		return false, err.Error()
	}
	if a == AlgoMD5 || a == AlgoNTLM || a == AlgoMD4 {
		return true, "Note: 32-hex is shared by md5/md4/ntlm; confirm the algorithm"
	}
	return true, ""
}

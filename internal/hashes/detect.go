package hashes

import (
	"sort"
	"strings"
)

// Detect returns a ranked list of algorithms whose digest length matches the
// hex string. Uppercase 32-hex leans NTLM, lowercase leans MD5.
func Detect(target string) []Algorithm {
	t := strings.TrimPrefix(strings.TrimSpace(target), "0x")
	if t == "" || len(t)%2 != 0 || !reHex.MatchString(t) {
		return nil
	}
	n := len(t) / 2

	boost := map[Algorithm]int{}
	switch n {
	case 16:
		if t == strings.ToUpper(t) {
			boost[AlgoNTLM] += 30
			boost[AlgoMD5] += 10
		} else {
			boost[AlgoMD5] += 30
			boost[AlgoNTLM] += 10
		}
	case 20:
		boost[AlgoSHA1] += 25
		boost[AlgoRIPEMD160] += 15
	case 32:
		boost[AlgoBlitz] += 30
		boost[AlgoSHA256] += 25
		boost[AlgoBLAKE3] += 5
	case 64:
		boost[AlgoWhirlpool] += 10
	}

	type cand struct {
		algo  Algorithm
		score int
	}
	var cands []cand
	for _, a := range All() {
		if a.Size() != n {
			continue
		}
		cands = append(cands, cand{a, 10 + boost[a]})
	}
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].score != cands[j].score {
			return cands[i].score > cands[j].score
		}
		return cands[i].algo < cands[j].algo
	})

	out := make([]Algorithm, 0, len(cands))
	for _, c := range cands {
		out = append(out, c.algo)
	}
	return out
}

package generator

import (
	"bytes"
	"strings"

	"edu/blitzforge/internal/errdefs"
)

// RuleOp is a single mutation applied to a dictionary entry.
type RuleOp uint8

const (
	RuleLower RuleOp = iota
	RuleUpper
	RuleCapitalize
	RuleToggle
	RuleReverse
	RuleDuplicate
	RuleLeet
	RuleAppend
	RulePrepend
)

// Rule derives at most one extra candidate from a word.
type Rule struct {
	Op  RuleOp
	Arg []byte
}

var leet = [256]byte{'a': '4', 'e': '3', 'i': '1', 'o': '0', 's': '5', 't': '7', 'A': '4', 'E': '3', 'I': '1', 'O': '0', 'S': '5', 'T': '7'}

// Apply returns the mutated word, or false when the rule produces nothing
// new (the result would equal the input).
func (r Rule) Apply(word []byte) ([]byte, bool) {
	var out []byte
	switch r.Op {
	case RuleLower:
		out = bytes.ToLower(word)
	case RuleUpper:
		out = bytes.ToUpper(word)
	case RuleCapitalize:
		if len(word) == 0 {
			return nil, false
		}
		out = bytes.ToLower(word)
		if c := out[0]; c >= 'a' && c <= 'z' {
			out[0] = c - 'a' + 'A'
		}
	case RuleToggle:
		out = make([]byte, len(word))
		for i, c := range word {
			switch {
			case c >= 'a' && c <= 'z':
				c -= 'a' - 'A'
			case c >= 'A' && c <= 'Z':
				c += 'a' - 'A'
			}
			out[i] = c
		}
	case RuleReverse:
		out = make([]byte, len(word))
		for i, c := range word {
			out[len(word)-1-i] = c
		}
	case RuleDuplicate:
		if len(word) == 0 {
			return nil, false
		}
		out = make([]byte, 0, 2*len(word))
		out = append(append(out, word...), word...)
	case RuleLeet:
		out = make([]byte, len(word))
		for i, c := range word {
			if s := leet[c]; s != 0 {
				c = s
			}
			out[i] = c
		}
	case RuleAppend:
		if len(r.Arg) == 0 {
			return nil, false
		}
		out = make([]byte, 0, len(word)+len(r.Arg))
		out = append(append(out, word...), r.Arg...)
	case RulePrepend:
		if len(r.Arg) == 0 {
			return nil, false
		}
		out = make([]byte, 0, len(word)+len(r.Arg))
		out = append(append(out, r.Arg...), word...)
	default:
		return nil, false
	}
	if bytes.Equal(out, word) {
		return nil, false
	}
	return out, true
}

// ParseRules parses a comma-separated rule list:
//
//	+l lower   +u upper   +c capitalize   +t toggle case
//	+r reverse +d duplicate +e leetspeak
//	$txt append txt       ^txt prepend txt
func ParseRules(list string) ([]Rule, error) {
	list = strings.TrimSpace(list)
	if list == "" {
		return nil, nil
	}
	var rules []Rule
	for _, tok := range strings.Split(list, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		switch tok[0] {
		case '$':
			if len(tok) == 1 {
				return nil, errdefs.Invalid("empty append rule")
			}
			rules = append(rules, Rule{Op: RuleAppend, Arg: []byte(tok[1:])})
			continue
		case '^':
			if len(tok) == 1 {
				return nil, errdefs.Invalid("empty prepend rule")
			}
			rules = append(rules, Rule{Op: RulePrepend, Arg: []byte(tok[1:])})
			continue
		}
		var op RuleOp
		switch tok {
		case "+l":
			op = RuleLower
		case "+u":
			op = RuleUpper
		case "+c":
			op = RuleCapitalize
		case "+t":
			op = RuleToggle
		case "+r":
			op = RuleReverse
		case "+d":
			op = RuleDuplicate
		case "+e":
			op = RuleLeet
		default:
			return nil, errdefs.Invalid("unknown rule %q", tok)
		}
		rules = append(rules, Rule{Op: op})
	}
	return rules, nil
}

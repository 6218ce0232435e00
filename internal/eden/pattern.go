package eden

import "fmt"

// patternArgKind discriminates the pattern element variants. Only literal
// and wildcard elements exist; anything else is a programming error.
type patternArgKind int

const (
	kindInvalid patternArgKind = iota
	kindLiteral
	kindWildcard
)

// patternArg is one element of a command pattern: either a literal string
// that must equal the argument at the same position, or a wildcard that
// matches any single argument.
type patternArg struct {
	kind  patternArgKind
	value string
}

func lit(s string) patternArg {
	return patternArg{kind: kindLiteral, value: s}
}

var wildcard = patternArg{kind: kindWildcard}

// matchArgs reports whether args matches pattern. A pattern longer than the
// candidate never matches; extra trailing candidate arguments are ignored.
// Panics on a malformed pattern element, which indicates a bug in this
// package rather than a runtime condition.
func matchArgs(pattern []patternArg, args []string) bool {
	if len(pattern) > len(args) {
		return false
	}

	for i, p := range pattern {
		switch p.kind {
		case kindWildcard:
			continue
		case kindLiteral:
			if p.value != args[i] {
				return false
			}
		default:
			panic(fmt.Sprintf("unknown pattern arg kind: %d", p.kind))
		}
	}

	return true
}

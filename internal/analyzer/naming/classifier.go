package naming

import (
	"regexp"
	"strings"
	"unicode"
)

// Pattern is a name-shape bucket from a fixed closed set
type Pattern string

const (
	PatternLowercase Pattern = "Lowercase"
	PatternUppercase Pattern = "Uppercase"
	PatternCamelCase Pattern = "CamelCase"
	PatternPascal    Pattern = "PascalCase"
	PatternSnake     Pattern = "Snake_case"
	PatternKebab     Pattern = "Kebab-case"
	PatternUUID      Pattern = "UUID"
	PatternOther     Pattern = "Other"
)

var (
	uuidRe   = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
	pascalRe = regexp.MustCompile(`^[A-Z][a-z0-9]*(?:[A-Z][a-z0-9]*)*$`)
)

// patternCheck pairs a predicate with the label it assigns
type patternCheck struct {
	label Pattern
	match func(string) bool
}

// patternChecks is a strict ordered decision list: the first matching
// predicate wins. Ambiguous names (e.g. "ABC-123" or "a_b-c") satisfy
// several predicates, so this precedence is load-bearing and must not be
// reordered.
var patternChecks = []patternCheck{
	{PatternUUID, uuidRe.MatchString},
	{PatternSnake, func(s string) bool { return strings.Contains(s, "_") }},
	{PatternKebab, func(s string) bool { return strings.Contains(s, "-") }},
	{PatternUppercase, isAllUpper},
	{PatternLowercase, isAllLower},
	{PatternPascal, pascalRe.MatchString},
	{PatternCamelCase, isCamelCase},
}

// Classify assigns a resource name to exactly one pattern bucket
func Classify(name string) Pattern {
	if name == "" {
		return PatternOther
	}
	for _, c := range patternChecks {
		if c.match(name) {
			return c.label
		}
	}
	return PatternOther
}

func isAllUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if !unicode.IsUpper(r) {
				return false
			}
			hasLetter = true
			continue
		}
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return hasLetter
}

func isAllLower(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if !unicode.IsLower(r) {
				return false
			}
			hasLetter = true
			continue
		}
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return hasLetter
}

// isCamelCase: starts with a lowercase letter and contains at least one
// uppercase letter; no non-alphanumeric runes
func isCamelCase(s string) bool {
	runes := []rune(s)
	if len(runes) == 0 || !unicode.IsLower(runes[0]) {
		return false
	}
	hasUpper := false
	for _, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
		if unicode.IsUpper(r) {
			hasUpper = true
		}
	}
	return hasUpper
}

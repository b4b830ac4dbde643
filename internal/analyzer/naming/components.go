package naming

import (
	"regexp"
	"strings"

	"github.com/azurelens/backend-go/internal/domain"
)

var instanceRe = regexp.MustCompile(`^(?:\d{1,4}|[a-z]\d{1,3})$`)

// DetectedComponent is one classified segment of a resource name
type DetectedComponent struct {
	Value    string               `json:"value"`
	Type     domain.ComponentType `json:"type"`
	Position int                  `json:"position"`
}

// componentCheck pairs a predicate with the component type it assigns
type componentCheck struct {
	label domain.ComponentType
	match func(part string, scheme domain.NamingScheme) bool
}

// componentChecks is the fixed priority chain for classifying a name part.
// First match wins; if nothing matches the part stays unknown rather than
// being inferred.
var componentChecks = []componentCheck{
	{domain.ComponentResourceType, func(p string, _ domain.NamingScheme) bool {
		return knownAbbreviations[strings.ToLower(p)]
	}},
	{domain.ComponentEnvironment, func(p string, _ domain.NamingScheme) bool {
		return IsEnvironmentKeyword(p)
	}},
	{domain.ComponentCompany, func(p string, s domain.NamingScheme) bool {
		for _, c := range s.CompanyNames {
			if strings.EqualFold(c, p) {
				return true
			}
		}
		return false
	}},
	{domain.ComponentInstance, func(p string, _ domain.NamingScheme) bool {
		return instanceRe.MatchString(strings.ToLower(p))
	}},
	{domain.ComponentService, func(p string, _ domain.NamingScheme) bool {
		return knownServices[strings.ToLower(p)]
	}},
	// Length fallback: anything left over that is long enough to carry
	// meaning is most likely a service name.
	{domain.ComponentService, func(p string, _ domain.NamingScheme) bool {
		return len(p) > 3
	}},
}

func classifyPart(part string, scheme domain.NamingScheme) domain.ComponentType {
	for _, c := range componentChecks {
		if c.match(part, scheme) {
			return c.label
		}
	}
	return domain.ComponentUnknown
}

// IdentifyComponents splits a name on the scheme separator and classifies
// each part through the priority chain.
func IdentifyComponents(name string, scheme domain.NamingScheme) []DetectedComponent {
	sep := scheme.Separator
	if sep == "" {
		sep = "-"
	}
	parts := strings.Split(name, sep)
	detected := make([]DetectedComponent, 0, len(parts))
	for i, part := range parts {
		if part == "" {
			continue
		}
		detected = append(detected, DetectedComponent{
			Value:    part,
			Type:     classifyPart(part, scheme),
			Position: i,
		})
	}
	return detected
}

// IdentifyConcatenated classifies an unbroken name (storage accounts
// disallow separators) by greedily stripping known tokens from the front,
// then from the back of whatever the prefix pass could not consume. Only
// the unrecognized core is left unclassified.
func IdentifyConcatenated(name string, scheme domain.NamingScheme) []DetectedComponent {
	rest := strings.ToLower(name)
	var detected []DetectedComponent
	pos := 0
	for rest != "" {
		token, ctype := matchKnownPrefix(rest, scheme)
		if token == "" {
			core, tail := stripKnownSuffixes(rest, scheme)
			if core != "" {
				detected = append(detected, DetectedComponent{
					Value:    core,
					Type:     domain.ComponentUnknown,
					Position: pos,
				})
				pos++
			}
			for _, d := range tail {
				d.Position = pos
				detected = append(detected, d)
				pos++
			}
			break
		}
		detected = append(detected, DetectedComponent{Value: token, Type: ctype, Position: pos})
		rest = rest[len(token):]
		pos++
	}
	return detected
}

// stripKnownSuffixes peels known tokens off the end of an unparseable
// remainder, returning the unrecognized core and the suffix components in
// name order.
func stripKnownSuffixes(s string, scheme domain.NamingScheme) (string, []DetectedComponent) {
	var tail []DetectedComponent
	for s != "" {
		token, ctype := matchKnownSuffix(s, scheme)
		if token == "" {
			break
		}
		tail = append([]DetectedComponent{{Value: token, Type: ctype}}, tail...)
		s = s[:len(s)-len(token)]
	}
	return s, tail
}

// matchKnownPrefix walks the identification chain in priority order,
// taking the longest match within each table.
func matchKnownPrefix(s string, scheme domain.NamingScheme) (string, domain.ComponentType) {
	if tok := longestPrefix(s, scheme.CompanyNames); tok != "" {
		return tok, domain.ComponentCompany
	}
	if tok := longestPrefixSet(s, environmentKeywords); tok != "" {
		return tok, domain.ComponentEnvironment
	}
	if tok := longestPrefixSet(s, knownAbbreviations); tok != "" {
		return tok, domain.ComponentResourceType
	}
	if tok := longestPrefixSet(s, knownServices); tok != "" {
		return tok, domain.ComponentService
	}
	if tok := leadingDigits(s); tok != "" {
		return tok, domain.ComponentInstance
	}
	return "", domain.ComponentUnknown
}

// matchKnownSuffix mirrors matchKnownPrefix at the end of the string
func matchKnownSuffix(s string, scheme domain.NamingScheme) (string, domain.ComponentType) {
	if tok := longestSuffix(s, scheme.CompanyNames); tok != "" {
		return tok, domain.ComponentCompany
	}
	if tok := longestSuffixSet(s, environmentKeywords); tok != "" {
		return tok, domain.ComponentEnvironment
	}
	if tok := longestSuffixSet(s, knownAbbreviations); tok != "" {
		return tok, domain.ComponentResourceType
	}
	if tok := longestSuffixSet(s, knownServices); tok != "" {
		return tok, domain.ComponentService
	}
	if tok := trailingDigits(s); tok != "" {
		return tok, domain.ComponentInstance
	}
	return "", domain.ComponentUnknown
}

func longestPrefix(s string, candidates []string) string {
	best := ""
	for _, c := range candidates {
		lc := strings.ToLower(c)
		if lc != "" && strings.HasPrefix(s, lc) && len(lc) > len(best) {
			best = lc
		}
	}
	return best
}

func longestPrefixSet(s string, candidates map[string]bool) string {
	best := ""
	for c := range candidates {
		if strings.HasPrefix(s, c) && len(c) > len(best) {
			best = c
		}
	}
	return best
}

func longestSuffix(s string, candidates []string) string {
	best := ""
	for _, c := range candidates {
		lc := strings.ToLower(c)
		if lc != "" && strings.HasSuffix(s, lc) && len(lc) > len(best) {
			best = lc
		}
	}
	return best
}

func longestSuffixSet(s string, candidates map[string]bool) string {
	best := ""
	for c := range candidates {
		if strings.HasSuffix(s, c) && len(c) > len(best) {
			best = c
		}
	}
	return best
}

func leadingDigits(s string) string {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return s[:i]
}

func trailingDigits(s string) string {
	i := len(s)
	for i > 0 && s[i-1] >= '0' && s[i-1] <= '9' {
		i--
	}
	return s[i:]
}

// IssueKind distinguishes a component missing from the name from one
// present at the wrong position
type IssueKind string

const (
	IssueMissing   IssueKind = "missing"
	IssueMisplaced IssueKind = "misplaced"
)

// ComponentIssue is one scheme violation detected in a name
type ComponentIssue struct {
	Component    domain.ComponentType `json:"component"`
	Kind         IssueKind            `json:"kind"`
	WantPosition int                  `json:"want_position"`
	GotPosition  int                  `json:"got_position,omitempty"`
	Required     bool                 `json:"required"`
}

// SchemeValidation is the outcome of checking one name against a scheme
type SchemeValidation struct {
	Compliant  bool                            `json:"compliant"`
	Detected   map[domain.ComponentType]string `json:"detected_components"`
	Components []DetectedComponent             `json:"components"`
	Issues     []ComponentIssue                `json:"issues,omitempty"`
}

// ValidateAgainstScheme checks a resource name against the client's
// declared component order. Storage accounts take the concatenated-name
// path; everything else is split on the scheme separator. A component
// present at the wrong position is a distinct issue from one missing
// entirely.
func ValidateAgainstScheme(name string, isStorage bool, scheme domain.NamingScheme) SchemeValidation {
	var detected []DetectedComponent
	if isStorage {
		detected = IdentifyConcatenated(name, scheme)
	} else {
		detected = IdentifyComponents(name, scheme)
	}

	byType := make(map[domain.ComponentType]DetectedComponent)
	values := make(map[domain.ComponentType]string)
	for _, d := range detected {
		if _, seen := byType[d.Type]; !seen && d.Type != domain.ComponentUnknown {
			byType[d.Type] = d
			values[d.Type] = d.Value
		}
	}

	var issues []ComponentIssue
	for want, comp := range scheme.Ordered() {
		got, present := byType[comp.Type]
		if !present {
			if comp.Required {
				issues = append(issues, ComponentIssue{
					Component:    comp.Type,
					Kind:         IssueMissing,
					WantPosition: want,
					Required:     true,
				})
			}
			continue
		}
		if got.Position != want {
			issues = append(issues, ComponentIssue{
				Component:    comp.Type,
				Kind:         IssueMisplaced,
				WantPosition: want,
				GotPosition:  got.Position,
				Required:     comp.Required,
			})
		}
	}

	return SchemeValidation{
		Compliant:  len(issues) == 0,
		Detected:   values,
		Components: detected,
		Issues:     issues,
	}
}

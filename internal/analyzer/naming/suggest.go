package naming

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/azurelens/backend-go/internal/domain"
)

const storageNameMaxLen = 24

// Suggest synthesizes a corrected name for a resource by walking the
// client's component order: detected values are kept when valid, anything
// else is filled in by per-type rules.
func Suggest(res domain.Resource, scheme domain.NamingScheme, detected map[domain.ComponentType]string) string {
	ordered := scheme.Ordered()
	parts := make([]string, 0, len(ordered))
	for _, comp := range ordered {
		v := componentValue(comp, res, scheme, detected)
		if v == "" {
			continue
		}
		parts = append(parts, v)
	}

	if res.IsStorageAccount() {
		return joinStorageName(parts)
	}

	sep := scheme.Separator
	if sep == "" {
		sep = "-"
	}
	name := strings.Join(parts, sep)
	return applyCase(name, scheme.CaseFormat)
}

func componentValue(comp domain.NamingComponent, res domain.Resource, scheme domain.NamingScheme, detected map[domain.ComponentType]string) string {
	if v, ok := detected[comp.Type]; ok && allowedValue(comp, v) {
		if comp.Type == domain.ComponentInstance {
			return formatInstance(v, scheme)
		}
		return strings.ToLower(v)
	}

	switch comp.Type {
	case domain.ComponentCompany:
		if len(scheme.CompanyNames) > 0 {
			return strings.ToLower(scheme.CompanyNames[0])
		}
		return "abc"
	case domain.ComponentEnvironment:
		if env := environmentFromContext(res); env != "" {
			return env
		}
		if len(comp.AllowedValues) > 0 {
			return strings.ToLower(comp.AllowedValues[0])
		}
		return "prod"
	case domain.ComponentResourceType:
		if abbr, ok := CanonicalAbbreviation(res.Type); ok {
			return abbr
		}
		return "res"
	case domain.ComponentInstance:
		if digits := extractDigits(res.Name); digits != "" {
			return formatInstance(digits, scheme)
		}
		return "01"
	case domain.ComponentService:
		if len(comp.AllowedValues) > 0 {
			return strings.ToLower(comp.AllowedValues[0])
		}
		return "svc"
	}
	return ""
}

func allowedValue(comp domain.NamingComponent, v string) bool {
	if len(comp.AllowedValues) == 0 {
		return true
	}
	for _, a := range comp.AllowedValues {
		if strings.EqualFold(a, v) {
			return true
		}
	}
	return false
}

// environmentFromContext looks for an environment hint in the resource's
// tags or resource group name
func environmentFromContext(res domain.Resource) string {
	for k, v := range res.Tags {
		if strings.EqualFold(k, "environment") || strings.EqualFold(k, "env") {
			if IsEnvironmentKeyword(v) {
				return strings.ToLower(v)
			}
		}
	}
	for _, part := range strings.FieldsFunc(strings.ToLower(res.ResourceGroup), func(r rune) bool {
		return r == '-' || r == '_'
	}) {
		if IsEnvironmentKeyword(part) {
			return part
		}
	}
	return ""
}

func extractDigits(name string) string {
	var b strings.Builder
	for _, r := range name {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// formatInstance normalizes a detected instance number to two zero-padded
// digits when the scheme asks for padding; otherwise the detected value is
// kept verbatim.
func formatInstance(digits string, scheme domain.NamingScheme) string {
	if !scheme.ZeroPadInstance {
		return digits
	}
	trimmed := strings.TrimLeft(digits, "0")
	if trimmed == "" {
		trimmed = "1"
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return digits
	}
	return fmt.Sprintf("%02d", n)
}

// joinStorageName concatenates parts with no separator and enforces the
// 24-character storage account cap by progressively dropping trailing
// components down to the three highest-priority ones, then hard-trimming.
func joinStorageName(parts []string) string {
	name := strings.ToLower(strings.Join(parts, ""))
	for len(name) > storageNameMaxLen && len(parts) > 3 {
		parts = parts[:len(parts)-1]
		name = strings.ToLower(strings.Join(parts, ""))
	}
	if len(name) > storageNameMaxLen {
		name = name[:storageNameMaxLen]
	}
	return name
}

func applyCase(name string, format domain.CaseFormat) string {
	switch format {
	case domain.CaseUpper:
		return strings.ToUpper(name)
	case domain.CaseLower:
		return strings.ToLower(name)
	default:
		return name
	}
}

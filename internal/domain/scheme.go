package domain

import "sort"

// ComponentType is a semantic segment of a resource name
type ComponentType string

const (
	ComponentCompany      ComponentType = "company"
	ComponentEnvironment  ComponentType = "environment"
	ComponentService      ComponentType = "service"
	ComponentResourceType ComponentType = "resource-type"
	ComponentInstance     ComponentType = "instance"
	ComponentUnknown      ComponentType = "unknown"
)

// CaseFormat constrains the letter case of generated names
type CaseFormat string

const (
	CaseLower CaseFormat = "lowercase"
	CaseUpper CaseFormat = "uppercase"
	CaseAny   CaseFormat = "any"
)

// NamingComponent is one position in a client's naming grammar
type NamingComponent struct {
	Type          ComponentType `json:"component_type"`
	Position      int           `json:"position"`
	Required      bool          `json:"is_required"`
	AllowedValues []string      `json:"allowed_values,omitempty"`
}

// NamingScheme is a client-specific ordered grammar of components plus
// separator and case rules. Client-owned and mutable via preferences;
// read-only to analyzers.
type NamingScheme struct {
	Components      []NamingComponent `json:"components"`
	Separator       string            `json:"separator"`
	CaseFormat      CaseFormat        `json:"case_format"`
	CompanyNames    []string          `json:"company_names,omitempty"`
	ZeroPadInstance bool              `json:"zero_pad_instance"`
}

// Ordered returns the scheme components sorted by declared position
func (s NamingScheme) Ordered() []NamingComponent {
	out := make([]NamingComponent, len(s.Components))
	copy(out, s.Components)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

// Component returns the scheme entry for a component type, if declared
func (s NamingScheme) Component(t ComponentType) (NamingComponent, bool) {
	for _, c := range s.Components {
		if c.Type == t {
			return c, true
		}
	}
	return NamingComponent{}, false
}

// RequiredTag is one entry of a client's tagging policy
type RequiredTag struct {
	Key       string `json:"key"`
	Mandatory bool   `json:"mandatory"`
}

// TagPolicy is the client-configured tagging requirement set
type TagPolicy struct {
	Required []RequiredTag `json:"required"`
}

// DefaultTagPolicy returns the baseline tag set checked when a client has
// not configured preferences
func DefaultTagPolicy() TagPolicy {
	return TagPolicy{Required: []RequiredTag{
		{Key: "environment"},
		{Key: "owner"},
		{Key: "cost-center"},
	}}
}

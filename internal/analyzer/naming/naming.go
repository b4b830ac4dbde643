// Package naming implements the naming-convention rules engine: pattern
// classification, client-scheme component validation, and corrected-name
// suggestions.
package naming

import (
	"context"
	"fmt"
	"strings"

	"github.com/azurelens/backend-go/internal/domain"
	"github.com/azurelens/backend-go/internal/scoring"
	"go.uber.org/zap"
)

// Config tunes the convention analyzer
type Config struct {
	// PrefixThreshold is the fraction of names that must carry an
	// environment or resource-type prefix before the estate is considered
	// to use that convention.
	PrefixThreshold float64
}

// DefaultConfig returns the analyzer defaults
func DefaultConfig() Config {
	return Config{PrefixThreshold: 0.5}
}

// Analyzer runs naming-convention analysis over a resource snapshot
type Analyzer struct {
	cfg    Config
	logger *zap.Logger
}

// NewAnalyzer creates a naming analyzer
func NewAnalyzer(cfg Config, logger *zap.Logger) *Analyzer {
	if cfg.PrefixThreshold <= 0 || cfg.PrefixThreshold > 1 {
		cfg.PrefixThreshold = DefaultConfig().PrefixThreshold
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{cfg: cfg, logger: logger}
}

// TypeConsistency summarizes pattern agreement within one resource type
type TypeConsistency struct {
	DominantPattern Pattern `json:"dominant_pattern"`
	Consistency     float64 `json:"consistency"`
	Total           int     `json:"total"`
}

// Results is the naming analyzer output
type Results struct {
	Score                    float64                    `json:"score"`
	TotalResources           int                        `json:"total_resources"`
	CompliantResources       int                        `json:"compliant_resources"`
	PatternConsistency       map[string]TypeConsistency `json:"pattern_consistency"`
	UsesEnvironmentPrefixes  bool                       `json:"uses_environment_prefixes"`
	UsesResourceTypePrefixes bool                       `json:"uses_resource_type_prefixes"`
	Violations               []domain.Finding           `json:"violations"`
}

// AnalyzeNamingConventions classifies every resource name, computes
// per-type consistency, and, when a client scheme is supplied, validates
// each name against the scheme and attaches a corrected-name suggestion
// to every violation.
func (a *Analyzer) AnalyzeNamingConventions(ctx context.Context, resources []domain.Resource, scheme *domain.NamingScheme) Results {
	_ = ctx // single-pass in-memory transform; ctx kept for interface symmetry

	results := Results{
		Score:              100,
		TotalResources:     len(resources),
		PatternConsistency: map[string]TypeConsistency{},
	}
	if len(resources) == 0 {
		return results
	}

	patterns := make([]Pattern, len(resources))
	byType := map[string]map[Pattern]int{}
	envPrefixed, typePrefixed := 0, 0

	for i, res := range resources {
		p := Classify(res.Name)
		patterns[i] = p
		if byType[res.Type] == nil {
			byType[res.Type] = map[Pattern]int{}
		}
		byType[res.Type][p]++

		first := firstSegment(res.Name)
		if IsEnvironmentKeyword(first) {
			envPrefixed++
		}
		if knownAbbreviations[strings.ToLower(first)] {
			typePrefixed++
		}
	}

	for typ, counts := range byType {
		dominant, dominantCount := dominantPattern(counts)
		total := 0
		for _, c := range counts {
			total += c
		}
		results.PatternConsistency[typ] = TypeConsistency{
			DominantPattern: dominant,
			Consistency:     scoring.Percentage(dominantCount, total),
			Total:           total,
		}
	}

	threshold := a.cfg.PrefixThreshold
	results.UsesEnvironmentPrefixes = float64(envPrefixed)/float64(len(resources)) >= threshold
	results.UsesResourceTypePrefixes = float64(typePrefixed)/float64(len(resources)) >= threshold

	if scheme != nil {
		a.validateScheme(resources, *scheme, &results)
	} else {
		a.validatePatterns(resources, patterns, &results)
	}

	results.Score = scoring.Percentage(results.CompliantResources, results.TotalResources)
	return results
}

// validatePatterns flags resources whose name pattern diverges from the
// dominant pattern of their type
func (a *Analyzer) validatePatterns(resources []domain.Resource, patterns []Pattern, results *Results) {
	for i, res := range resources {
		tc := results.PatternConsistency[res.Type]
		if patterns[i] == tc.DominantPattern {
			results.CompliantResources++
			continue
		}
		results.Violations = append(results.Violations, domain.Finding{
			ResourceID:   res.ID,
			ResourceName: res.Name,
			ResourceType: res.Type,
			Category:     domain.CategoryNamingPattern,
			Issue: fmt.Sprintf("name pattern %s diverges from the dominant %s pattern for %s",
				patterns[i], tc.DominantPattern, res.Type),
			Severity: domain.SeverityLow,
		})
	}
}

// validateScheme checks every name against the client scheme and emits a
// finding per component issue, with a synthesized corrected name
func (a *Analyzer) validateScheme(resources []domain.Resource, scheme domain.NamingScheme, results *Results) {
	for _, res := range resources {
		v := ValidateAgainstScheme(res.Name, res.IsStorageAccount(), scheme)
		if v.Compliant {
			results.CompliantResources++
			continue
		}
		suggestion := Suggest(res, scheme, v.Detected)
		for _, issue := range v.Issues {
			results.Violations = append(results.Violations, findingForIssue(res, issue, suggestion))
		}
	}
}

func findingForIssue(res domain.Resource, issue ComponentIssue, suggestion string) domain.Finding {
	var category domain.FindingCategory
	var severity domain.Severity
	var text string

	switch issue.Kind {
	case IssueMissing:
		category = domain.CategoryComponentMissing
		severity = domain.SeverityMedium
		text = fmt.Sprintf("required component %q is missing", issue.Component)
	default:
		category = domain.CategoryComponentMisplaced
		severity = domain.SeverityLow
		text = fmt.Sprintf("component %q found at position %d, expected position %d",
			issue.Component, issue.GotPosition, issue.WantPosition)
	}
	if issue.Required {
		severity = scoring.Escalate(severity)
	}

	return domain.Finding{
		ResourceID:   res.ID,
		ResourceName: res.Name,
		ResourceType: res.Type,
		Category:     category,
		Issue:        text,
		SuggestedFix: fmt.Sprintf("rename to %q", suggestion),
		Severity:     severity,
	}
}

func dominantPattern(counts map[Pattern]int) (Pattern, int) {
	best := PatternOther
	bestCount := -1
	for p, c := range counts {
		if c > bestCount || (c == bestCount && p < best) {
			best = p
			bestCount = c
		}
	}
	return best, bestCount
}

func firstSegment(name string) string {
	for i, r := range name {
		if r == '-' || r == '_' {
			return name[:i]
		}
	}
	return name
}

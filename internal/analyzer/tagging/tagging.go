// Package tagging checks required-tag presence across a resource snapshot
// and computes per-tag coverage.
package tagging

import (
	"context"
	"fmt"
	"strings"

	"github.com/azurelens/backend-go/internal/domain"
	"github.com/azurelens/backend-go/internal/scoring"
	"go.uber.org/zap"
)

// Analyzer runs tagging analysis over a resource snapshot
type Analyzer struct {
	logger *zap.Logger
}

// NewAnalyzer creates a tagging analyzer
func NewAnalyzer(logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{logger: logger}
}

// Results is the tagging analyzer output
type Results struct {
	Score              float64            `json:"score"`
	TotalResources     int                `json:"total_resources"`
	CompliantResources int                `json:"compliant_resources"`
	CoverageByTag      map[string]float64 `json:"coverage_by_tag"`
	Violations         []domain.Finding   `json:"violations"`
}

// AnalyzeTagging checks every resource for the policy's required tags.
// A resource is compliant when all required tags are present with a
// non-empty value; coverage is reported per tag key.
func (a *Analyzer) AnalyzeTagging(ctx context.Context, resources []domain.Resource, policy domain.TagPolicy) Results {
	_ = ctx

	results := Results{
		Score:          100,
		TotalResources: len(resources),
		CoverageByTag:  map[string]float64{},
	}
	if len(policy.Required) == 0 {
		policy = domain.DefaultTagPolicy()
	}
	if len(resources) == 0 {
		for _, rt := range policy.Required {
			results.CoverageByTag[rt.Key] = 100
		}
		return results
	}

	tagged := make(map[string]int, len(policy.Required))
	for _, res := range resources {
		compliant := true
		for _, rt := range policy.Required {
			if hasTag(res, rt.Key) {
				tagged[rt.Key]++
				continue
			}
			compliant = false
			severity := domain.SeverityLow
			if rt.Mandatory {
				severity = scoring.Escalate(severity)
			}
			results.Violations = append(results.Violations, domain.Finding{
				ResourceID:   res.ID,
				ResourceName: res.Name,
				ResourceType: res.Type,
				Category:     domain.CategoryMissingTag,
				Issue:        fmt.Sprintf("required tag %q is missing", rt.Key),
				SuggestedFix: fmt.Sprintf("add tag %q to the resource", rt.Key),
				Severity:     severity,
			})
		}
		if compliant {
			results.CompliantResources++
		}
	}

	for _, rt := range policy.Required {
		results.CoverageByTag[rt.Key] = scoring.Percentage(tagged[rt.Key], len(resources))
	}
	results.Score = scoring.Percentage(results.CompliantResources, results.TotalResources)
	return results
}

func hasTag(res domain.Resource, key string) bool {
	for k, v := range res.Tags {
		if strings.EqualFold(k, key) && strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}

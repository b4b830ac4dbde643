package bcdr

import (
	"context"
	"fmt"
	"strings"

	"github.com/azurelens/backend-go/internal/domain"
	"github.com/azurelens/backend-go/internal/scoring"
	"go.uber.org/zap"
)

// RecoveryAnalyzer checks fault tolerance and zone redundancy settings.
// Like the backup analyzer it tolerates malformed properties blobs by
// treating the feature as absent.
type RecoveryAnalyzer struct {
	logger *zap.Logger
}

// NewRecoveryAnalyzer creates a recovery configuration analyzer
func NewRecoveryAnalyzer(logger *zap.Logger) *RecoveryAnalyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecoveryAnalyzer{logger: logger}
}

// Analyze applies the recovery rulebook to every resource
func (a *RecoveryAnalyzer) Analyze(ctx context.Context, resources []domain.Resource) SubResults {
	_ = ctx

	results := SubResults{Score: 100, Total: len(resources)}
	compliant := 0
	for _, res := range resources {
		findings := recoveryFindings(res)
		if len(findings) == 0 {
			compliant++
		}
		results.Findings = append(results.Findings, findings...)
	}
	results.Score = scoring.Percentage(compliant, len(resources))
	return results
}

func recoveryFindings(res domain.Resource) []domain.Finding {
	var findings []domain.Finding
	props := res.PropertyMap()

	switch strings.ToLower(res.Type) {
	case "microsoft.compute/virtualmachines":
		if !vmFaultTolerant(props) {
			findings = append(findings, finding(res,
				"virtual machine is not placed in an availability set or zone",
				"deploy the VM into an availability zone or availability set"))
		}
	case "microsoft.compute/availabilitysets":
		if count, ok := numericProperty(props, "platformFaultDomainCount"); ok && count < 2 {
			findings = append(findings, finding(res,
				fmt.Sprintf("availability set has %d fault domain(s); a single fault domain gives no hardware isolation", int(count)),
				"recreate the availability set with at least 2 fault domains"))
		}
	case "microsoft.sql/servers/databases":
		if v, ok := props["zoneRedundant"].(bool); ok && !v {
			findings = append(findings, finding(res,
				"SQL database is not zone redundant",
				"enable zone redundancy on the database SKU"))
		}
	}
	return findings
}

func finding(res domain.Resource, issue, fix string) domain.Finding {
	return domain.Finding{
		ResourceID:   res.ID,
		ResourceName: res.Name,
		ResourceType: res.Type,
		Category:     domain.CategoryRecoveryConfig,
		Issue:        issue,
		SuggestedFix: fix,
		Severity:     domain.SeverityMedium,
	}
}

func vmFaultTolerant(props map[string]any) bool {
	if props == nil {
		return false
	}
	if _, ok := props["availabilitySet"]; ok {
		return true
	}
	if zones, ok := props["zones"].([]any); ok && len(zones) > 0 {
		return true
	}
	return false
}

func numericProperty(props map[string]any, key string) (float64, bool) {
	if props == nil {
		return 0, false
	}
	v, ok := props[key].(float64)
	return v, ok
}

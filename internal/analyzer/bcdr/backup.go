package bcdr

import (
	"context"
	"fmt"
	"strings"

	"github.com/azurelens/backend-go/internal/domain"
	"github.com/azurelens/backend-go/internal/scoring"
	"go.uber.org/zap"
)

// BackupAnalyzer checks backup protection and storage redundancy across a
// resource snapshot. Rules pattern-match the opaque properties/sku blobs;
// a resource whose blob fails to decode is skipped (feature absent).
type BackupAnalyzer struct {
	logger *zap.Logger
}

// NewBackupAnalyzer creates a backup coverage analyzer
func NewBackupAnalyzer(logger *zap.Logger) *BackupAnalyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BackupAnalyzer{logger: logger}
}

// SubResults holds one sub-analyzer's score and findings
type SubResults struct {
	Score    float64          `json:"score"`
	Total    int              `json:"total_resources"`
	Findings []domain.Finding `json:"findings"`
}

// Analyze applies the backup rulebook to every resource
func (a *BackupAnalyzer) Analyze(ctx context.Context, resources []domain.Resource) SubResults {
	_ = ctx

	results := SubResults{Score: 100, Total: len(resources)}
	compliant := 0
	for _, res := range resources {
		findings := backupFindings(res)
		if len(findings) == 0 {
			compliant++
		}
		results.Findings = append(results.Findings, findings...)
	}
	results.Score = scoring.Percentage(compliant, len(resources))
	return results
}

func backupFindings(res domain.Resource) []domain.Finding {
	var findings []domain.Finding
	typ := strings.ToLower(res.Type)

	switch {
	case typ == "microsoft.compute/virtualmachines":
		if !vmBackupProtected(res) {
			findings = append(findings, domain.Finding{
				ResourceID:   res.ID,
				ResourceName: res.Name,
				ResourceType: res.Type,
				Category:     domain.CategoryBackupCoverage,
				Issue:        "virtual machine has no backup protection configured",
				SuggestedFix: "associate the VM with a Recovery Services vault backup policy",
				Severity:     domain.SeverityCritical,
			})
		}
	case res.IsStorageAccount():
		if repl := replicationSKU(res); repl != "" && strings.Contains(strings.ToLower(repl), "lrs") {
			findings = append(findings, domain.Finding{
				ResourceID:   res.ID,
				ResourceName: res.Name,
				ResourceType: res.Type,
				Category:     domain.CategoryBackupCoverage,
				Issue:        fmt.Sprintf("storage account uses locally redundant replication (%s)", repl),
				SuggestedFix: "move to zone- or geo-redundant replication (ZRS, GRS, or GZRS)",
				Severity:     domain.SeverityMedium,
			})
		}
	}
	return findings
}

// vmBackupProtected looks for a backup policy association in the VM's
// properties or a vault hint in its tags
func vmBackupProtected(res domain.Resource) bool {
	props := res.PropertyMap()
	if props != nil {
		if _, ok := props["backupPolicyId"]; ok {
			return true
		}
		if v, ok := props["protectedByVault"].(bool); ok && v {
			return true
		}
	}
	for k := range res.Tags {
		if strings.EqualFold(k, "backup") || strings.EqualFold(k, "backup-policy") {
			return true
		}
	}
	return false
}

// replicationSKU extracts the replication tier from the sku blob, falling
// back to the properties blob
func replicationSKU(res domain.Resource) string {
	if sku := res.SKUMap(); sku != nil {
		if name, ok := sku["name"].(string); ok {
			return name
		}
	}
	if props := res.PropertyMap(); props != nil {
		if repl, ok := props["replication"].(string); ok {
			return repl
		}
	}
	return ""
}

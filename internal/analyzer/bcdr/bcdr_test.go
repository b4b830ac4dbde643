package bcdr

import (
	"context"
	"testing"

	"github.com/azurelens/backend-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keyVault() domain.Resource {
	return domain.Resource{ID: "kv1", Name: "contoso-prod-kv-01", Type: "Microsoft.KeyVault/vaults"}
}

func protectedVM() domain.Resource {
	return domain.Resource{
		ID:         "vm1",
		Name:       "contoso-prod-vm-01",
		Type:       "Microsoft.Compute/virtualMachines",
		Properties: []byte(`{"backupPolicyId": "/policies/daily", "availabilitySet": {"id": "/as/1"}, "zones": ["1"]}`),
	}
}

func unprotectedVM() domain.Resource {
	return domain.Resource{
		ID:         "vm2",
		Name:       "contoso-prod-vm-02",
		Type:       "Microsoft.Compute/virtualMachines",
		Properties: []byte(`{}`),
	}
}

func TestCompositeScoreNoFindingsWithDRPlan(t *testing.T) {
	a := NewAnalyzer(nil)

	results := a.Analyze(context.Background(), []domain.Resource{keyVault(), protectedVM()}, true)

	assert.Equal(t, 100.0, results.Score)
	assert.Equal(t, 100.0, results.BackupScore)
	assert.Equal(t, 100.0, results.RecoveryScore)
	assert.Empty(t, results.Findings)
}

func TestCompositeScoreNoFindingsWithoutDRPlan(t *testing.T) {
	a := NewAnalyzer(nil)

	results := a.Analyze(context.Background(), []domain.Resource{keyVault()}, false)

	// The 40% recovery weight is forfeited entirely without a DR plan
	assert.Equal(t, 60.0, results.Score)
	assert.Empty(t, results.Findings)
}

func TestCompositeScoreEmptyEstate(t *testing.T) {
	a := NewAnalyzer(nil)

	results := a.Analyze(context.Background(), nil, true)
	assert.Equal(t, 100.0, results.Score)

	results = a.Analyze(context.Background(), nil, false)
	assert.Equal(t, 60.0, results.Score)
}

func TestCompositePenaltyPerFinding(t *testing.T) {
	a := NewAnalyzer(nil)
	lrsStorage := domain.Resource{
		ID:   "st1",
		Name: "contosoprodst01",
		Type: "Microsoft.Storage/storageAccounts",
		SKU:  []byte(`{"name": "Standard_LRS"}`),
	}

	results := a.Analyze(context.Background(), []domain.Resource{keyVault(), lrsStorage}, true)

	// backup: 1 of 2 compliant = 50; recovery: both pass = 100
	// base = 50*0.6 + 100*0.4 = 70; one medium finding = -5
	assert.Equal(t, 65.0, results.Score)
	require.Len(t, results.Findings, 1)
	assert.Equal(t, domain.CategoryBackupCoverage, results.Findings[0].Category)
	assert.Equal(t, domain.SeverityMedium, results.Findings[0].Severity)
}

func TestUnprotectedVMIsCriticalAndScoreClamped(t *testing.T) {
	a := NewAnalyzer(nil)

	results := a.Analyze(context.Background(), []domain.Resource{unprotectedVM()}, true)

	// backup 0, recovery 0, penalties push the score below zero: clamp
	assert.Equal(t, 0.0, results.Score)

	var severities []domain.Severity
	for _, f := range results.Findings {
		severities = append(severities, f.Severity)
	}
	assert.Contains(t, severities, domain.SeverityCritical)
	assert.Contains(t, severities, domain.SeverityMedium)
}

func TestMalformedPropertiesSkippedNotFatal(t *testing.T) {
	a := NewAnalyzer(nil)
	broken := domain.Resource{
		ID:         "vm3",
		Name:       "contoso-prod-vm-03",
		Type:       "Microsoft.Compute/virtualMachines",
		Properties: []byte(`{not valid json`),
	}

	// Must not panic or error: the blob decodes to nothing, so the checked
	// features read as absent.
	results := a.Analyze(context.Background(), []domain.Resource{broken}, true)
	assert.NotEmpty(t, results.Findings)
	assert.GreaterOrEqual(t, results.Score, 0.0)
}

func TestBackupDetectsVaultTag(t *testing.T) {
	a := NewBackupAnalyzer(nil)
	vm := domain.Resource{
		ID:   "vm4",
		Name: "contoso-prod-vm-04",
		Type: "Microsoft.Compute/virtualMachines",
		Tags: map[string]string{"Backup": "daily"},
	}

	results := a.Analyze(context.Background(), []domain.Resource{vm})
	assert.Empty(t, results.Findings)
	assert.Equal(t, 100.0, results.Score)
}

func TestRecoveryFaultDomainRule(t *testing.T) {
	a := NewRecoveryAnalyzer(nil)
	avset := domain.Resource{
		ID:         "as1",
		Name:       "contoso-prod-avail-01",
		Type:       "Microsoft.Compute/availabilitySets",
		Properties: []byte(`{"platformFaultDomainCount": 1}`),
	}

	results := a.Analyze(context.Background(), []domain.Resource{avset})
	require.Len(t, results.Findings, 1)
	assert.Equal(t, domain.CategoryRecoveryConfig, results.Findings[0].Category)
	assert.Contains(t, results.Findings[0].Issue, "fault domain")
}

func TestRecoveryZoneRedundantSQL(t *testing.T) {
	a := NewRecoveryAnalyzer(nil)
	db := domain.Resource{
		ID:         "db1",
		Name:       "contoso-prod-sqldb-01",
		Type:       "Microsoft.Sql/servers/databases",
		Properties: []byte(`{"zoneRedundant": false}`),
	}

	results := a.Analyze(context.Background(), []domain.Resource{db})
	require.Len(t, results.Findings, 1)
	assert.Contains(t, results.Findings[0].Issue, "zone redundant")
}

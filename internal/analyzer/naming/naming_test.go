package naming

import (
	"context"
	"testing"

	"github.com/azurelens/backend-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vm(id, name string) domain.Resource {
	return domain.Resource{ID: id, Name: name, Type: "Microsoft.Compute/virtualMachines"}
}

func TestAnalyzeEmptyEstateScoresFull(t *testing.T) {
	a := NewAnalyzer(DefaultConfig(), nil)

	results := a.AnalyzeNamingConventions(context.Background(), nil, nil)

	assert.Equal(t, 100.0, results.Score)
	assert.Zero(t, results.TotalResources)
	assert.Empty(t, results.Violations)
}

func TestAnalyzePatternConsistency(t *testing.T) {
	a := NewAnalyzer(DefaultConfig(), nil)
	resources := []domain.Resource{
		vm("1", "web-vm-01"),
		vm("2", "web-vm-02"),
		vm("3", "web_vm_03"),
	}

	results := a.AnalyzeNamingConventions(context.Background(), resources, nil)

	tc := results.PatternConsistency["Microsoft.Compute/virtualMachines"]
	assert.Equal(t, PatternKebab, tc.DominantPattern)
	assert.Equal(t, 66.67, tc.Consistency)
	assert.Equal(t, 3, tc.Total)

	require.Len(t, results.Violations, 1)
	assert.Equal(t, "web_vm_03", results.Violations[0].ResourceName)
	assert.Equal(t, domain.CategoryNamingPattern, results.Violations[0].Category)
	assert.Equal(t, 66.67, results.Score)
}

func TestAnalyzeSchemeCompliantEstate(t *testing.T) {
	a := NewAnalyzer(DefaultConfig(), nil)
	scheme := testScheme()
	resources := []domain.Resource{
		vm("1", "contoso-prod-vm-01"),
		vm("2", "contoso-dev-vm-02"),
	}

	results := a.AnalyzeNamingConventions(context.Background(), resources, &scheme)

	assert.Equal(t, 100.0, results.Score)
	assert.Empty(t, results.Violations)
	assert.Equal(t, 2, results.CompliantResources)
}

func TestAnalyzeSchemeViolationsGetSuggestions(t *testing.T) {
	a := NewAnalyzer(DefaultConfig(), nil)
	scheme := testScheme()
	resources := []domain.Resource{
		vm("1", "vm-contoso-prod-01"),
	}

	results := a.AnalyzeNamingConventions(context.Background(), resources, &scheme)

	assert.Equal(t, 0.0, results.Score)
	require.NotEmpty(t, results.Violations)
	for _, f := range results.Violations {
		assert.Equal(t, domain.CategoryComponentMisplaced, f.Category)
		assert.Contains(t, f.SuggestedFix, "contoso-prod-vm-01")
	}
}

func TestAnalyzeMissingRequiredComponentEscalates(t *testing.T) {
	a := NewAnalyzer(DefaultConfig(), nil)
	scheme := testScheme()
	resources := []domain.Resource{
		vm("1", "contoso-prod-vm"),
	}

	results := a.AnalyzeNamingConventions(context.Background(), resources, &scheme)

	require.Len(t, results.Violations, 1)
	f := results.Violations[0]
	assert.Equal(t, domain.CategoryComponentMissing, f.Category)
	// Mandatory requirement: severity escalated from medium to high
	assert.Equal(t, domain.SeverityHigh, f.Severity)
}

func TestAnalyzePrefixDetectionThreshold(t *testing.T) {
	resources := []domain.Resource{
		vm("1", "prod-web-01"),
		vm("2", "dev-web-02"),
		vm("3", "gateway-03"),
		vm("4", "edge-04"),
	}

	// 2 of 4 names carry an environment prefix: detected at 0.5...
	a := NewAnalyzer(Config{PrefixThreshold: 0.5}, nil)
	results := a.AnalyzeNamingConventions(context.Background(), resources, nil)
	assert.True(t, results.UsesEnvironmentPrefixes)

	// ...but not at 0.8
	a = NewAnalyzer(Config{PrefixThreshold: 0.8}, nil)
	results = a.AnalyzeNamingConventions(context.Background(), resources, nil)
	assert.False(t, results.UsesEnvironmentPrefixes)
}

func TestNewAnalyzerRejectsBadThreshold(t *testing.T) {
	a := NewAnalyzer(Config{PrefixThreshold: -1}, nil)
	assert.Equal(t, DefaultConfig().PrefixThreshold, a.cfg.PrefixThreshold)

	a = NewAnalyzer(Config{PrefixThreshold: 1.5}, nil)
	assert.Equal(t, DefaultConfig().PrefixThreshold, a.cfg.PrefixThreshold)
}

func TestScoreAlwaysInBounds(t *testing.T) {
	a := NewAnalyzer(DefaultConfig(), nil)
	scheme := testScheme()
	resources := []domain.Resource{
		vm("1", "x"),
		vm("2", "y_z"),
		vm("3", "contoso-prod-vm-01"),
	}

	results := a.AnalyzeNamingConventions(context.Background(), resources, &scheme)
	assert.GreaterOrEqual(t, results.Score, 0.0)
	assert.LessOrEqual(t, results.Score, 100.0)
}

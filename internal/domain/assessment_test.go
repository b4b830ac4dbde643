package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssessmentStatusValues(t *testing.T) {
	assert.Equal(t, AssessmentStatus("pending"), StatusPending)
	assert.Equal(t, AssessmentStatus("in_progress"), StatusInProgress)
	assert.Equal(t, AssessmentStatus("completed"), StatusCompleted)
	assert.Equal(t, AssessmentStatus("failed"), StatusFailed)
}

func TestTerminalStatuses(t *testing.T) {
	assert.True(t, TerminalStatuses[StatusCompleted])
	assert.True(t, TerminalStatuses[StatusFailed])
	assert.False(t, TerminalStatuses[StatusPending])
	assert.False(t, TerminalStatuses[StatusInProgress])
}

func TestValidAssessmentType(t *testing.T) {
	for _, typ := range []AssessmentType{AssessmentNaming, AssessmentTagging, AssessmentBCDR, AssessmentFull} {
		assert.True(t, ValidAssessmentType(typ), string(typ))
	}
	assert.False(t, ValidAssessmentType("drift"))
	assert.False(t, ValidAssessmentType(""))
}

func TestSeverityRankOrdering(t *testing.T) {
	assert.Less(t, SeverityRank[SeverityLow], SeverityRank[SeverityMedium])
	assert.Less(t, SeverityRank[SeverityMedium], SeverityRank[SeverityHigh])
	assert.Less(t, SeverityRank[SeverityHigh], SeverityRank[SeverityCritical])
}

func TestSchemeOrdered(t *testing.T) {
	scheme := NamingScheme{Components: []NamingComponent{
		{Type: ComponentInstance, Position: 3},
		{Type: ComponentCompany, Position: 0},
		{Type: ComponentResourceType, Position: 2},
		{Type: ComponentEnvironment, Position: 1},
	}}

	ordered := scheme.Ordered()
	assert.Equal(t, ComponentCompany, ordered[0].Type)
	assert.Equal(t, ComponentEnvironment, ordered[1].Type)
	assert.Equal(t, ComponentResourceType, ordered[2].Type)
	assert.Equal(t, ComponentInstance, ordered[3].Type)

	// Ordered must not mutate the scheme itself
	assert.Equal(t, ComponentInstance, scheme.Components[0].Type)
}

func TestResourcePropertyMapLeniency(t *testing.T) {
	r := Resource{Properties: []byte(`{"replication": "LRS"}`)}
	props := r.PropertyMap()
	assert.Equal(t, "LRS", props["replication"])

	// Malformed JSON is treated as "no properties", never an error
	r = Resource{Properties: []byte(`{not json`)}
	assert.Nil(t, r.PropertyMap())

	r = Resource{}
	assert.Nil(t, r.PropertyMap())
}

func TestIsStorageAccount(t *testing.T) {
	assert.True(t, Resource{Type: "Microsoft.Storage/storageAccounts"}.IsStorageAccount())
	assert.True(t, Resource{Type: "microsoft.storage/storageaccounts"}.IsStorageAccount())
	assert.False(t, Resource{Type: "Microsoft.Compute/virtualMachines"}.IsStorageAccount())
}

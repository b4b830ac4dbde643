package naming

import (
	"testing"

	"github.com/azurelens/backend-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testScheme() domain.NamingScheme {
	return domain.NamingScheme{
		Components: []domain.NamingComponent{
			{Type: domain.ComponentCompany, Position: 0, Required: true},
			{Type: domain.ComponentEnvironment, Position: 1, Required: true},
			{Type: domain.ComponentResourceType, Position: 2, Required: true},
			{Type: domain.ComponentInstance, Position: 3, Required: true},
		},
		Separator:       "-",
		CaseFormat:      domain.CaseLower,
		CompanyNames:    []string{"contoso"},
		ZeroPadInstance: true,
	}
}

func TestValidateFullyCompliantName(t *testing.T) {
	v := ValidateAgainstScheme("contoso-prod-vm-01", false, testScheme())

	assert.True(t, v.Compliant)
	assert.Empty(t, v.Issues)
	assert.Equal(t, map[domain.ComponentType]string{
		domain.ComponentCompany:      "contoso",
		domain.ComponentEnvironment:  "prod",
		domain.ComponentResourceType: "vm",
		domain.ComponentInstance:     "01",
	}, v.Detected)
}

func TestValidateWrongPositionIsNotMissing(t *testing.T) {
	v := ValidateAgainstScheme("vm-contoso-prod-01", false, testScheme())

	assert.False(t, v.Compliant)

	var rt *ComponentIssue
	for i := range v.Issues {
		if v.Issues[i].Component == domain.ComponentResourceType {
			rt = &v.Issues[i]
		}
	}
	require.NotNil(t, rt, "resource-type must be flagged")
	assert.Equal(t, IssueMisplaced, rt.Kind)
	assert.Equal(t, 0, rt.GotPosition)
	assert.Equal(t, 2, rt.WantPosition)
}

func TestValidateMissingRequiredComponent(t *testing.T) {
	v := ValidateAgainstScheme("contoso-prod-vm", false, testScheme())

	assert.False(t, v.Compliant)
	require.Len(t, v.Issues, 1)
	assert.Equal(t, domain.ComponentInstance, v.Issues[0].Component)
	assert.Equal(t, IssueMissing, v.Issues[0].Kind)
	assert.True(t, v.Issues[0].Required)
}

func TestStorageAccountUsesConcatenatedPath(t *testing.T) {
	v := ValidateAgainstScheme("contosoprodst01", true, testScheme())

	assert.True(t, v.Compliant)
	require.Len(t, v.Components, 4)
	assert.Equal(t, domain.ComponentCompany, v.Components[0].Type)
	assert.Equal(t, "contoso", v.Components[0].Value)
	assert.Equal(t, domain.ComponentEnvironment, v.Components[1].Type)
	assert.Equal(t, "prod", v.Components[1].Value)
	assert.Equal(t, domain.ComponentResourceType, v.Components[2].Type)
	assert.Equal(t, "st", v.Components[2].Value)
	assert.Equal(t, domain.ComponentInstance, v.Components[3].Type)
	assert.Equal(t, "01", v.Components[3].Value)
}

func TestConcatenatedLeftoverStaysUnknown(t *testing.T) {
	detected := IdentifyConcatenated("contosoxyzzy", testScheme())

	require.Len(t, detected, 2)
	assert.Equal(t, domain.ComponentCompany, detected[0].Type)
	assert.Equal(t, domain.ComponentUnknown, detected[1].Type)
	assert.Equal(t, "xyzzy", detected[1].Value)
}

// An unrecognized run in the middle must not swallow known tokens behind
// it: the suffix pass recovers them.
func TestConcatenatedRecognizesSuffixesAfterUnknownCore(t *testing.T) {
	detected := IdentifyConcatenated("contosoxyzzyprod", testScheme())

	require.Len(t, detected, 3)
	assert.Equal(t, domain.ComponentCompany, detected[0].Type)
	assert.Equal(t, "contoso", detected[0].Value)
	assert.Equal(t, domain.ComponentUnknown, detected[1].Type)
	assert.Equal(t, "xyzzy", detected[1].Value)
	assert.Equal(t, domain.ComponentEnvironment, detected[2].Type)
	assert.Equal(t, "prod", detected[2].Value)

	// Trailing instance digits behind an unknown core are recovered too.
	detected = IdentifyConcatenated("contosoxyzzy01", testScheme())
	require.Len(t, detected, 3)
	assert.Equal(t, domain.ComponentInstance, detected[2].Type)
	assert.Equal(t, "01", detected[2].Value)
}

// The chain is non-guessing: a short part matching nothing is unknown.
func TestClassifyPartPriorityChain(t *testing.T) {
	scheme := testScheme()

	assert.Equal(t, domain.ComponentResourceType, classifyPart("vm", scheme))
	assert.Equal(t, domain.ComponentResourceType, classifyPart("nsg", scheme))
	assert.Equal(t, domain.ComponentEnvironment, classifyPart("staging", scheme))
	assert.Equal(t, domain.ComponentCompany, classifyPart("CONTOSO", scheme))
	assert.Equal(t, domain.ComponentInstance, classifyPart("007", scheme))
	assert.Equal(t, domain.ComponentService, classifyPart("billing", scheme))
	// Length fallback
	assert.Equal(t, domain.ComponentService, classifyPart("telemetry", scheme))
	// Nothing matches, too short for the fallback
	assert.Equal(t, domain.ComponentUnknown, classifyPart("zq", scheme))
}

func TestIdentifyComponentsSkipsEmptyParts(t *testing.T) {
	detected := IdentifyComponents("contoso--vm", testScheme())
	require.Len(t, detected, 2)
	assert.Equal(t, "contoso", detected[0].Value)
	assert.Equal(t, 0, detected[0].Position)
	assert.Equal(t, "vm", detected[1].Value)
	assert.Equal(t, 2, detected[1].Position)
}

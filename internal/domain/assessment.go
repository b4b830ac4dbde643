package domain

import "time"

// Assessment types selectable per run
type AssessmentType string

const (
	AssessmentNaming  AssessmentType = "naming"
	AssessmentTagging AssessmentType = "tagging"
	AssessmentBCDR    AssessmentType = "bcdr"
	AssessmentFull    AssessmentType = "full"
)

// ValidAssessmentType reports whether t is a known assessment type
func ValidAssessmentType(t AssessmentType) bool {
	switch t {
	case AssessmentNaming, AssessmentTagging, AssessmentBCDR, AssessmentFull:
		return true
	}
	return false
}

// Assessment status
type AssessmentStatus string

const (
	StatusPending    AssessmentStatus = "pending"
	StatusInProgress AssessmentStatus = "in_progress"
	StatusCompleted  AssessmentStatus = "completed"
	StatusFailed     AssessmentStatus = "failed"
)

// TerminalStatuses are statuses an assessment never leaves
var TerminalStatuses = map[AssessmentStatus]bool{
	StatusCompleted: true,
	StatusFailed:    true,
}

// Finding severity levels
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// SeverityRank maps severity to numeric rank for sorting and escalation
var SeverityRank = map[Severity]int{
	SeverityLow:      1,
	SeverityMedium:   2,
	SeverityHigh:     3,
	SeverityCritical: 4,
}

// FindingCategory identifies the governance concern a finding belongs to
type FindingCategory string

const (
	CategoryNamingPattern      FindingCategory = "naming_pattern"
	CategoryComponentMissing   FindingCategory = "naming_component_missing"
	CategoryComponentMisplaced FindingCategory = "naming_component_misplaced"
	CategoryMissingTag         FindingCategory = "tagging_missing_tag"
	CategoryBackupCoverage     FindingCategory = "backup_coverage"
	CategoryRecoveryConfig     FindingCategory = "recovery_configuration"
)

// Finding is a single detected governance violation with a recommended fix.
// Findings are value records: created by analyzers, never mutated.
type Finding struct {
	ResourceID   string          `json:"resource_id"`
	ResourceName string          `json:"resource_name"`
	ResourceType string          `json:"resource_type"`
	Category     FindingCategory `json:"category"`
	Issue        string          `json:"issue"`
	SuggestedFix string          `json:"suggested_fix,omitempty"`
	Severity     Severity        `json:"severity"`
}

// AssessmentRequest describes a requested assessment run
type AssessmentRequest struct {
	EnvironmentID   string         `json:"environment_id" binding:"required"`
	ClientID        string         `json:"client_id"`
	Type            AssessmentType `json:"type" binding:"required"`
	SubscriptionIDs []string       `json:"subscription_ids"`
	HasDRPlan       bool           `json:"has_disaster_recovery_plan"`
}

// Assessment is the orchestrator-owned state record for one run
type Assessment struct {
	ID            string           `json:"assessment_id"`
	EnvironmentID string           `json:"environment_id"`
	ClientID      string           `json:"client_id,omitempty"`
	Type          AssessmentType   `json:"type"`
	Status        AssessmentStatus `json:"status"`
	OverallScore  float64          `json:"overall_score"`
	StartedAt     *time.Time       `json:"started_at,omitempty"`
	CompletedAt   *time.Time       `json:"completed_at,omitempty"`
}

// AssessmentResult pairs the assessment record with its findings
type AssessmentResult struct {
	Assessment Assessment `json:"assessment"`
	Findings   []Finding  `json:"findings"`
}

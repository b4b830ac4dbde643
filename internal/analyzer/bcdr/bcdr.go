// Package bcdr implements the business-continuity analyzers: backup
// coverage and recovery configuration, combined under a fixed 60/40
// composite weighting.
package bcdr

import (
	"context"
	"math"

	"github.com/azurelens/backend-go/internal/domain"
	"github.com/azurelens/backend-go/internal/scoring"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Composite weighting and flat finding penalties. These values are
// codified behavior, not tunables.
const (
	backupWeight    = 0.6
	recoveryWeight  = 0.4
	criticalPenalty = 10
	mediumPenalty   = 5
)

// Analyzer fans out the two independent sub-analyzers and merges their
// results into a composite score
type Analyzer struct {
	backup   *BackupAnalyzer
	recovery *RecoveryAnalyzer
	logger   *zap.Logger
}

// NewAnalyzer creates the combined business-continuity analyzer
func NewAnalyzer(logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{
		backup:   NewBackupAnalyzer(logger),
		recovery: NewRecoveryAnalyzer(logger),
		logger:   logger,
	}
}

// Results is the combined business-continuity output
type Results struct {
	Score         float64          `json:"score"`
	BackupScore   float64          `json:"backup_score"`
	RecoveryScore float64          `json:"recovery_score"`
	HasDRPlan     bool             `json:"has_disaster_recovery_plan"`
	Findings      []domain.Finding `json:"findings"`
}

// Analyze runs backup and recovery analysis concurrently over the same
// snapshot and computes the composite score:
//
//	base    = backup*0.6 + recovery*0.4   (recovery weight zeroed without a DR plan)
//	penalty = critical*10 + medium*5
//	score   = max(0, base - penalty)
func (a *Analyzer) Analyze(ctx context.Context, resources []domain.Resource, hasDRPlan bool) Results {
	var backupRes, recoveryRes SubResults

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		backupRes = a.backup.Analyze(gctx, resources)
		return nil
	})
	g.Go(func() error {
		recoveryRes = a.recovery.Analyze(gctx, resources)
		return nil
	})
	_ = g.Wait() // sub-analyzers never fail; they convert gaps to findings

	findings := make([]domain.Finding, 0, len(backupRes.Findings)+len(recoveryRes.Findings))
	findings = append(findings, backupRes.Findings...)
	findings = append(findings, recoveryRes.Findings...)

	base := backupRes.Score * backupWeight
	if hasDRPlan {
		base += recoveryRes.Score * recoveryWeight
	}

	penalty := 0.0
	for _, f := range findings {
		switch f.Severity {
		case domain.SeverityCritical:
			penalty += criticalPenalty
		case domain.SeverityMedium:
			penalty += mediumPenalty
		}
	}

	return Results{
		Score:         scoring.Clamp(math.Round((base-penalty)*100) / 100),
		BackupScore:   backupRes.Score,
		RecoveryScore: recoveryRes.Score,
		HasDRPlan:     hasDRPlan,
		Findings:      findings,
	}
}

// Package engine orchestrates assessment runs: it fans out the selected
// analyzers over a freshly collected resource snapshot, aggregates their
// findings, and drives the assessment status machine
// (pending -> in_progress -> completed | failed).
package engine

import (
	"context"
	"errors"
	"time"

	"github.com/azurelens/backend-go/internal/analyzer/bcdr"
	"github.com/azurelens/backend-go/internal/analyzer/naming"
	"github.com/azurelens/backend-go/internal/analyzer/tagging"
	"github.com/azurelens/backend-go/internal/collector"
	"github.com/azurelens/backend-go/internal/domain"
	"github.com/azurelens/backend-go/internal/observability"
	"github.com/azurelens/backend-go/internal/scoring"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store is the persistence surface the runner needs. *db.Store satisfies it.
type Store interface {
	CreateAssessment(ctx context.Context, a domain.Assessment) error
	UpdateAssessmentStatus(ctx context.Context, id string, status domain.AssessmentStatus) error
	CompleteAssessment(ctx context.Context, id string, status domain.AssessmentStatus, score float64, completedAt time.Time) error
	GetAssessment(ctx context.Context, id string) (domain.Assessment, error)
	ListAssessments(ctx context.Context, environmentID string) ([]domain.Assessment, error)
	InsertFindings(ctx context.Context, assessmentID string, findings []domain.Finding) error
	ListFindings(ctx context.Context, assessmentID string) ([]domain.Finding, error)
	GetNamingScheme(ctx context.Context, clientID string) (domain.NamingScheme, error)
	GetTagPolicy(ctx context.Context, clientID string) (domain.TagPolicy, error)
}

// Config tunes the runner
type Config struct {
	// TimeoutSeconds bounds one assessment run; clamped to [1, 600].
	TimeoutSeconds int
	Naming         naming.Config
	// DefaultSubscriptionIDs applies when a request names no subscriptions.
	DefaultSubscriptionIDs []string
}

// DefaultConfig returns runner defaults
func DefaultConfig() Config {
	return Config{
		TimeoutSeconds: 120,
		Naming:         naming.DefaultConfig(),
	}
}

// Runner dispatches and executes assessments. Each requested assessment
// runs as an independent fire-and-forget background task: no queue, no
// dedup, no retry. Concurrent assessments for the same environment are
// allowed and uncoordinated.
type Runner struct {
	collector collector.Collector
	store     Store
	naming    *naming.Analyzer
	tagging   *tagging.Analyzer
	bcdr      *bcdr.Analyzer
	metrics   *observability.Metrics
	logger    *zap.Logger
	cfg       Config
}

// NewRunner creates an assessment runner
func NewRunner(
	col collector.Collector,
	store Store,
	metrics *observability.Metrics,
	logger *zap.Logger,
	cfg Config,
) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.TimeoutSeconds < 1 {
		cfg.TimeoutSeconds = DefaultConfig().TimeoutSeconds
	}
	if cfg.TimeoutSeconds > 600 {
		cfg.TimeoutSeconds = 600
	}
	return &Runner{
		collector: col,
		store:     store,
		naming:    naming.NewAnalyzer(cfg.Naming, logger),
		tagging:   tagging.NewAnalyzer(logger),
		bcdr:      bcdr.NewAnalyzer(logger),
		metrics:   metrics,
		logger:    logger,
		cfg:       cfg,
	}
}

// StartAssessment validates the request, persists the pending record, and
// dispatches the run in the background. It returns the assessment ID
// immediately.
func (r *Runner) StartAssessment(ctx context.Context, req domain.AssessmentRequest) (string, error) {
	if !domain.ValidAssessmentType(req.Type) {
		return "", domain.ErrUnknownAssessmentType
	}

	id := uuid.New().String()[:8]
	now := time.Now().UTC()

	if r.store != nil {
		if err := r.store.CreateAssessment(ctx, domain.Assessment{
			ID:            id,
			EnvironmentID: req.EnvironmentID,
			ClientID:      req.ClientID,
			Type:          req.Type,
			Status:        domain.StatusPending,
			StartedAt:     &now,
		}); err != nil {
			return "", err
		}
	}

	if r.metrics != nil {
		r.metrics.RecordAssessmentStart()
	}

	go r.run(id, req, now)
	return id, nil
}

// run executes one assessment to a terminal status. It deliberately uses
// a fresh root context: the run must outlive the HTTP request that
// triggered it, bounded only by the configured timeout.
func (r *Runner) run(id string, req domain.AssessmentRequest, startedAt time.Time) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.TimeoutSeconds)*time.Second)
	defer cancel()

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("assessment panicked",
				zap.String("assessment_id", id), zap.Any("panic", rec))
			r.markFailed(ctx, id, req, startedAt)
		}
	}()

	r.setStatus(ctx, id, domain.StatusInProgress)

	subscriptions := req.SubscriptionIDs
	if len(subscriptions) == 0 {
		subscriptions = r.cfg.DefaultSubscriptionIDs
	}
	resources := r.collectResources(ctx, id, subscriptions)
	scheme := r.loadScheme(ctx, req.ClientID)
	policy := r.loadTagPolicy(ctx, req.ClientID)

	var subScores []float64
	var findings []domain.Finding

	if req.Type == domain.AssessmentNaming || req.Type == domain.AssessmentFull {
		res := r.naming.AnalyzeNamingConventions(ctx, resources, scheme)
		subScores = append(subScores, res.Score)
		findings = append(findings, res.Violations...)
	}
	if req.Type == domain.AssessmentTagging || req.Type == domain.AssessmentFull {
		res := r.tagging.AnalyzeTagging(ctx, resources, policy)
		subScores = append(subScores, res.Score)
		findings = append(findings, res.Violations...)
	}
	if req.Type == domain.AssessmentBCDR || req.Type == domain.AssessmentFull {
		res := r.bcdr.Analyze(ctx, resources, req.HasDRPlan)
		subScores = append(subScores, res.Score)
		findings = append(findings, res.Findings...)
	}

	score := scoring.Mean(subScores...)

	if r.store != nil {
		// Terminal transitions use a context detached from the run's
		// deadline: a timed-out run must still land on completed/failed.
		persistCtx, persistCancel := terminalContext(ctx)
		defer persistCancel()

		if err := r.store.InsertFindings(persistCtx, id, findings); err != nil {
			r.logger.Error("failed to persist findings",
				zap.String("assessment_id", id), zap.Error(err))
			r.markFailed(ctx, id, req, startedAt)
			return
		}
		if err := r.store.CompleteAssessment(persistCtx, id, domain.StatusCompleted, score, time.Now().UTC()); err != nil {
			r.logger.Error("failed to complete assessment",
				zap.String("assessment_id", id), zap.Error(err))
			r.markFailed(ctx, id, req, startedAt)
			return
		}
	}

	if r.metrics != nil {
		r.metrics.RecordFindings(findings)
		r.metrics.RecordAssessmentEnd(string(req.Type), string(domain.StatusCompleted),
			time.Since(startedAt).Seconds())
	}
	r.logger.Info("assessment completed",
		zap.String("assessment_id", id),
		zap.String("type", string(req.Type)),
		zap.Float64("score", score),
		zap.Int("findings", len(findings)),
	)
}

// collectResources fetches the inventory. A collector failure is logged
// and converted to an empty snapshot rather than failing the run.
func (r *Runner) collectResources(ctx context.Context, id string, subscriptionIDs []string) []domain.Resource {
	if r.collector == nil {
		return nil
	}
	resources, err := r.collector.Collect(ctx, subscriptionIDs)
	if err != nil {
		r.logger.Warn("resource collection failed, proceeding with empty inventory",
			zap.String("assessment_id", id), zap.Error(err))
		return nil
	}
	return resources
}

func (r *Runner) loadScheme(ctx context.Context, clientID string) *domain.NamingScheme {
	if r.store == nil || clientID == "" {
		return nil
	}
	scheme, err := r.store.GetNamingScheme(ctx, clientID)
	if errors.Is(err, domain.ErrSchemeNotFound) {
		return nil
	}
	if err != nil {
		r.logger.Warn("failed to load naming scheme", zap.String("client_id", clientID), zap.Error(err))
		return nil
	}
	return &scheme
}

func (r *Runner) loadTagPolicy(ctx context.Context, clientID string) domain.TagPolicy {
	if r.store == nil || clientID == "" {
		return domain.DefaultTagPolicy()
	}
	policy, err := r.store.GetTagPolicy(ctx, clientID)
	if err != nil {
		if !errors.Is(err, domain.ErrTagPolicyNotFound) {
			r.logger.Warn("failed to load tag policy", zap.String("client_id", clientID), zap.Error(err))
		}
		return domain.DefaultTagPolicy()
	}
	return policy
}

func (r *Runner) setStatus(ctx context.Context, id string, status domain.AssessmentStatus) {
	if r.store == nil {
		return
	}
	if err := r.store.UpdateAssessmentStatus(ctx, id, status); err != nil {
		r.logger.Error("failed to update assessment status",
			zap.String("assessment_id", id), zap.String("status", string(status)), zap.Error(err))
	}
}

func (r *Runner) markFailed(ctx context.Context, id string, req domain.AssessmentRequest, startedAt time.Time) {
	if r.store != nil {
		persistCtx, cancel := terminalContext(ctx)
		defer cancel()
		if err := r.store.CompleteAssessment(persistCtx, id, domain.StatusFailed, 0, time.Now().UTC()); err != nil {
			r.logger.Error("failed to mark assessment failed",
				zap.String("assessment_id", id), zap.Error(err))
		}
	}
	if r.metrics != nil {
		r.metrics.RecordAssessmentEnd(string(req.Type), string(domain.StatusFailed),
			time.Since(startedAt).Seconds())
	}
}

// terminalContext strips the run deadline so the expired run context
// cannot poison the write that records its own outcome, while still
// bounding the write.
func terminalContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
}

// GetAssessmentResult returns the assessment record with its findings
func (r *Runner) GetAssessmentResult(ctx context.Context, id string) (domain.AssessmentResult, error) {
	if r.store == nil {
		return domain.AssessmentResult{}, domain.ErrStoreUnavailable
	}
	assessment, err := r.store.GetAssessment(ctx, id)
	if err != nil {
		return domain.AssessmentResult{}, err
	}
	findings, err := r.store.ListFindings(ctx, id)
	if err != nil {
		return domain.AssessmentResult{}, err
	}
	return domain.AssessmentResult{Assessment: assessment, Findings: findings}, nil
}

// AnalyzeBusinessContinuity collects the subscriptions' inventory and runs
// the combined BCDR analyzer synchronously.
func (r *Runner) AnalyzeBusinessContinuity(ctx context.Context, subscriptionIDs []string, hasDRPlan bool) bcdr.Results {
	resources := r.collectResources(ctx, "adhoc", subscriptionIDs)
	return r.bcdr.Analyze(ctx, resources, hasDRPlan)
}

package engine

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/azurelens/backend-go/internal/collector"
	"github.com/azurelens/backend-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeStore records everything in memory and signals on terminal status
// so tests can wait for the background run without sleeping. With
// respectCtx set it refuses writes on an expired context the way a real
// pgx pool would.
type fakeStore struct {
	mu          sync.Mutex
	assessments map[string]domain.Assessment
	findings    map[string][]domain.Finding
	schemes     map[string]domain.NamingScheme
	policies    map[string]domain.TagPolicy
	failInsert  bool
	respectCtx  bool
	done        chan string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		assessments: make(map[string]domain.Assessment),
		findings:    make(map[string][]domain.Finding),
		schemes:     make(map[string]domain.NamingScheme),
		policies:    make(map[string]domain.TagPolicy),
		done:        make(chan string, 4),
	}
}

func (s *fakeStore) CreateAssessment(_ context.Context, a domain.Assessment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assessments[a.ID] = a
	return nil
}

func (s *fakeStore) ctxErr(ctx context.Context) error {
	if s.respectCtx {
		return ctx.Err()
	}
	return nil
}

func (s *fakeStore) UpdateAssessmentStatus(ctx context.Context, id string, status domain.AssessmentStatus) error {
	if err := s.ctxErr(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.assessments[id]
	if !ok {
		return domain.ErrAssessmentNotFound
	}
	a.Status = status
	s.assessments[id] = a
	return nil
}

func (s *fakeStore) CompleteAssessment(ctx context.Context, id string, status domain.AssessmentStatus, score float64, completedAt time.Time) error {
	if err := s.ctxErr(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	a, ok := s.assessments[id]
	if !ok {
		s.mu.Unlock()
		return domain.ErrAssessmentNotFound
	}
	a.Status = status
	a.OverallScore = score
	a.CompletedAt = &completedAt
	s.assessments[id] = a
	s.mu.Unlock()
	s.done <- id
	return nil
}

func (s *fakeStore) GetAssessment(_ context.Context, id string) (domain.Assessment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.assessments[id]
	if !ok {
		return domain.Assessment{}, domain.ErrAssessmentNotFound
	}
	return a, nil
}

func (s *fakeStore) ListAssessments(_ context.Context, environmentID string) ([]domain.Assessment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Assessment
	for _, a := range s.assessments {
		if a.EnvironmentID == environmentID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *fakeStore) InsertFindings(ctx context.Context, assessmentID string, findings []domain.Finding) error {
	if err := s.ctxErr(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failInsert {
		return errors.New("insert failed")
	}
	s.findings[assessmentID] = append(s.findings[assessmentID], findings...)
	return nil
}

func (s *fakeStore) ListFindings(_ context.Context, assessmentID string) ([]domain.Finding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findings[assessmentID], nil
}

func (s *fakeStore) GetNamingScheme(_ context.Context, clientID string) (domain.NamingScheme, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	scheme, ok := s.schemes[clientID]
	if !ok {
		return domain.NamingScheme{}, domain.ErrSchemeNotFound
	}
	return scheme, nil
}

func (s *fakeStore) GetTagPolicy(_ context.Context, clientID string) (domain.TagPolicy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	policy, ok := s.policies[clientID]
	if !ok {
		return domain.TagPolicy{}, domain.ErrTagPolicyNotFound
	}
	return policy, nil
}

func (s *fakeStore) waitDone(t *testing.T) string {
	t.Helper()
	select {
	case id := <-s.done:
		return id
	case <-time.After(5 * time.Second):
		t.Fatal("assessment did not reach a terminal status")
		return ""
	}
}

type failingCollector struct{}

func (failingCollector) Collect(context.Context, []string) ([]domain.Resource, error) {
	return nil, errors.New("resource graph unavailable")
}

// blockingCollector never returns before the run deadline expires
type blockingCollector struct{}

func (blockingCollector) Collect(ctx context.Context, _ []string) ([]domain.Resource, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func taggedVM(name string, tags map[string]string) domain.Resource {
	return domain.Resource{
		ID:            "/subscriptions/sub1/resourceGroups/rg-prod/providers/Microsoft.Compute/virtualMachines/" + name,
		Name:          name,
		Type:          "Microsoft.Compute/virtualMachines",
		ResourceGroup: "rg-prod",
		Tags:          tags,
		Properties:    json.RawMessage(`{"protectedByVault":true,"availabilitySet":{"id":"as1"}}`),
	}
}

func TestStartAssessmentRejectsUnknownType(t *testing.T) {
	r := NewRunner(nil, newFakeStore(), nil, zap.NewNop(), DefaultConfig())

	_, err := r.StartAssessment(context.Background(), domain.AssessmentRequest{
		EnvironmentID: "env1",
		Type:          "compliance",
	})
	assert.ErrorIs(t, err, domain.ErrUnknownAssessmentType)
}

func TestStartAssessmentReturnsShortID(t *testing.T) {
	store := newFakeStore()
	r := NewRunner(&collector.StaticCollector{}, store, nil, zap.NewNop(), DefaultConfig())

	id, err := r.StartAssessment(context.Background(), domain.AssessmentRequest{
		EnvironmentID: "env1",
		Type:          domain.AssessmentTagging,
	})
	require.NoError(t, err)
	assert.Len(t, id, 8)
	store.waitDone(t)
}

func TestFullAssessmentCompletesWithScoreAndFindings(t *testing.T) {
	store := newFakeStore()
	col := &collector.StaticCollector{Resources: []domain.Resource{
		taggedVM("contoso-prod-vm-01", map[string]string{
			"environment": "prod", "owner": "platform", "cost-center": "cc100",
		}),
		taggedVM("orphan", nil),
	}}
	r := NewRunner(col, store, nil, zap.NewNop(), DefaultConfig())

	id, err := r.StartAssessment(context.Background(), domain.AssessmentRequest{
		EnvironmentID: "env1",
		Type:          domain.AssessmentFull,
		HasDRPlan:     true,
	})
	require.NoError(t, err)
	assert.Equal(t, id, store.waitDone(t))

	result, err := r.GetAssessmentResult(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, result.Assessment.Status)
	assert.NotNil(t, result.Assessment.CompletedAt)
	assert.Greater(t, result.Assessment.OverallScore, 0.0)
	assert.LessOrEqual(t, result.Assessment.OverallScore, 100.0)

	// the untagged VM must produce tagging findings
	var taggingFindings int
	for _, f := range result.Findings {
		if f.Category == domain.CategoryMissingTag {
			taggingFindings++
		}
	}
	assert.Equal(t, 3, taggingFindings)
}

func TestAssessmentUsesClientSchemeWhenPresent(t *testing.T) {
	store := newFakeStore()
	store.schemes["client1"] = domain.NamingScheme{
		Components: []domain.NamingComponent{
			{Type: domain.ComponentCompany, Position: 0, Required: true},
			{Type: domain.ComponentEnvironment, Position: 1, Required: true},
			{Type: domain.ComponentResourceType, Position: 2, Required: true},
			{Type: domain.ComponentInstance, Position: 3, Required: true},
		},
		Separator:    "-",
		CompanyNames: []string{"contoso"},
	}
	col := &collector.StaticCollector{Resources: []domain.Resource{
		taggedVM("vm-without-parts", map[string]string{
			"environment": "prod", "owner": "x", "cost-center": "y",
		}),
	}}
	r := NewRunner(col, store, nil, zap.NewNop(), DefaultConfig())

	id, err := r.StartAssessment(context.Background(), domain.AssessmentRequest{
		EnvironmentID: "env1",
		ClientID:      "client1",
		Type:          domain.AssessmentNaming,
	})
	require.NoError(t, err)
	store.waitDone(t)

	findings, err := store.ListFindings(context.Background(), id)
	require.NoError(t, err)
	assert.NotEmpty(t, findings)
	for _, f := range findings {
		assert.Contains(t, []domain.FindingCategory{
			domain.CategoryComponentMissing,
			domain.CategoryComponentMisplaced,
		}, f.Category)
	}
}

func TestCollectorFailureYieldsCompletedEmptyAssessment(t *testing.T) {
	store := newFakeStore()
	r := NewRunner(failingCollector{}, store, nil, zap.NewNop(), DefaultConfig())

	id, err := r.StartAssessment(context.Background(), domain.AssessmentRequest{
		EnvironmentID: "env1",
		Type:          domain.AssessmentNaming,
	})
	require.NoError(t, err)
	store.waitDone(t)

	a, err := store.GetAssessment(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, a.Status)
	assert.Equal(t, 100.0, a.OverallScore)
}

func TestTimedOutRunStillReachesTerminalStatus(t *testing.T) {
	store := newFakeStore()
	store.respectCtx = true
	cfg := DefaultConfig()
	cfg.TimeoutSeconds = 1
	r := NewRunner(blockingCollector{}, store, nil, zap.NewNop(), cfg)

	id, err := r.StartAssessment(context.Background(), domain.AssessmentRequest{
		EnvironmentID: "env1",
		Type:          domain.AssessmentNaming,
	})
	require.NoError(t, err)
	store.waitDone(t)

	// The deadline kills collection, but the outcome write must not be
	// poisoned by the expired run context: in_progress is not terminal.
	a, err := store.GetAssessment(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, domain.TerminalStatuses[a.Status],
		"expected a terminal status, got %q", a.Status)
}

func TestPersistFailureMarksAssessmentFailed(t *testing.T) {
	store := newFakeStore()
	store.failInsert = true
	r := NewRunner(&collector.StaticCollector{}, store, nil, zap.NewNop(), DefaultConfig())

	id, err := r.StartAssessment(context.Background(), domain.AssessmentRequest{
		EnvironmentID: "env1",
		Type:          domain.AssessmentBCDR,
	})
	require.NoError(t, err)
	store.waitDone(t)

	a, err := store.GetAssessment(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, a.Status)
}

func TestGetAssessmentResultWithoutStore(t *testing.T) {
	r := NewRunner(nil, nil, nil, zap.NewNop(), DefaultConfig())

	_, err := r.GetAssessmentResult(context.Background(), "abc12345")
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/azurelens/backend-go/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store persists assessments, findings, and client preferences. Every
// query is scoped to the owning client/environment for tenant isolation.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a store backed by a pgx pool
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const schema = `
CREATE TABLE IF NOT EXISTS assessments (
	id             TEXT PRIMARY KEY,
	environment_id TEXT NOT NULL,
	client_id      TEXT NOT NULL DEFAULT '',
	type           TEXT NOT NULL,
	status         TEXT NOT NULL,
	overall_score  DOUBLE PRECISION NOT NULL DEFAULT 0,
	started_at     TIMESTAMPTZ,
	completed_at   TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_assessments_environment ON assessments (environment_id);

CREATE TABLE IF NOT EXISTS findings (
	id            BIGSERIAL PRIMARY KEY,
	assessment_id TEXT NOT NULL REFERENCES assessments (id),
	resource_id   TEXT NOT NULL,
	resource_name TEXT NOT NULL,
	resource_type TEXT NOT NULL,
	category      TEXT NOT NULL,
	issue         TEXT NOT NULL,
	suggested_fix TEXT NOT NULL DEFAULT '',
	severity      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_findings_assessment ON findings (assessment_id);

CREATE TABLE IF NOT EXISTS naming_schemes (
	client_id  TEXT PRIMARY KEY,
	scheme     JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS tag_policies (
	client_id  TEXT PRIMARY KEY,
	policy     JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// Migrate creates the schema if it does not exist
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, schema)
	if err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// CreateAssessment inserts the initial assessment record
func (s *Store) CreateAssessment(ctx context.Context, a domain.Assessment) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO assessments (id, environment_id, client_id, type, status, started_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		a.ID, a.EnvironmentID, a.ClientID, string(a.Type), string(a.Status), a.StartedAt)
	if err != nil {
		return fmt.Errorf("insert assessment: %w", err)
	}
	return nil
}

// UpdateAssessmentStatus moves an assessment to a new status
func (s *Store) UpdateAssessmentStatus(ctx context.Context, id string, status domain.AssessmentStatus) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE assessments SET status = $2 WHERE id = $1`, id, string(status))
	if err != nil {
		return fmt.Errorf("update assessment status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAssessmentNotFound
	}
	return nil
}

// CompleteAssessment records the terminal status, score, and timestamp
func (s *Store) CompleteAssessment(ctx context.Context, id string, status domain.AssessmentStatus, score float64, completedAt time.Time) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE assessments SET status = $2, overall_score = $3, completed_at = $4
		WHERE id = $1`,
		id, string(status), score, completedAt)
	if err != nil {
		return fmt.Errorf("complete assessment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAssessmentNotFound
	}
	return nil
}

// GetAssessment returns one assessment by ID
func (s *Store) GetAssessment(ctx context.Context, id string) (domain.Assessment, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, environment_id, client_id, type, status, overall_score, started_at, completed_at
		FROM assessments WHERE id = $1`, id)
	return scanAssessment(row)
}

// ListAssessments returns all assessments for an environment, newest first
func (s *Store) ListAssessments(ctx context.Context, environmentID string) ([]domain.Assessment, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, environment_id, client_id, type, status, overall_score, started_at, completed_at
		FROM assessments WHERE environment_id = $1
		ORDER BY started_at DESC NULLS LAST`, environmentID)
	if err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	defer rows.Close()

	var out []domain.Assessment
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanAssessment(row pgx.Row) (domain.Assessment, error) {
	var a domain.Assessment
	var typ, status string
	err := row.Scan(&a.ID, &a.EnvironmentID, &a.ClientID, &typ, &status,
		&a.OverallScore, &a.StartedAt, &a.CompletedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Assessment{}, domain.ErrAssessmentNotFound
	}
	if err != nil {
		return domain.Assessment{}, fmt.Errorf("scan assessment: %w", err)
	}
	a.Type = domain.AssessmentType(typ)
	a.Status = domain.AssessmentStatus(status)
	return a, nil
}

// InsertFindings bulk-inserts the findings produced by one assessment run
func (s *Store) InsertFindings(ctx context.Context, assessmentID string, findings []domain.Finding) error {
	if len(findings) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, f := range findings {
		batch.Queue(`
			INSERT INTO findings (assessment_id, resource_id, resource_name, resource_type, category, issue, suggested_fix, severity)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			assessmentID, f.ResourceID, f.ResourceName, f.ResourceType,
			string(f.Category), f.Issue, f.SuggestedFix, string(f.Severity))
	}
	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()
	for range findings {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("insert finding: %w", err)
		}
	}
	return nil
}

// ListFindings returns the findings of one assessment, highest severity first
func (s *Store) ListFindings(ctx context.Context, assessmentID string) ([]domain.Finding, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT resource_id, resource_name, resource_type, category, issue, suggested_fix, severity
		FROM findings WHERE assessment_id = $1
		ORDER BY CASE severity
			WHEN 'critical' THEN 4 WHEN 'high' THEN 3 WHEN 'medium' THEN 2 ELSE 1
		END DESC, resource_id`, assessmentID)
	if err != nil {
		return nil, fmt.Errorf("list findings: %w", err)
	}
	defer rows.Close()

	var out []domain.Finding
	for rows.Next() {
		var f domain.Finding
		var category, severity string
		if err := rows.Scan(&f.ResourceID, &f.ResourceName, &f.ResourceType,
			&category, &f.Issue, &f.SuggestedFix, &severity); err != nil {
			return nil, fmt.Errorf("scan finding: %w", err)
		}
		f.Category = domain.FindingCategory(category)
		f.Severity = domain.Severity(severity)
		out = append(out, f)
	}
	return out, rows.Err()
}

// GetNamingScheme returns a client's configured naming scheme
func (s *Store) GetNamingScheme(ctx context.Context, clientID string) (domain.NamingScheme, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx,
		`SELECT scheme FROM naming_schemes WHERE client_id = $1`, clientID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.NamingScheme{}, domain.ErrSchemeNotFound
	}
	if err != nil {
		return domain.NamingScheme{}, fmt.Errorf("get naming scheme: %w", err)
	}
	var scheme domain.NamingScheme
	if err := json.Unmarshal(raw, &scheme); err != nil {
		return domain.NamingScheme{}, fmt.Errorf("decode naming scheme: %w", err)
	}
	return scheme, nil
}

// UpsertNamingScheme stores or replaces a client's naming scheme
func (s *Store) UpsertNamingScheme(ctx context.Context, clientID string, scheme domain.NamingScheme) error {
	raw, err := json.Marshal(scheme)
	if err != nil {
		return fmt.Errorf("encode naming scheme: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO naming_schemes (client_id, scheme, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (client_id) DO UPDATE SET scheme = $2, updated_at = now()`,
		clientID, raw)
	if err != nil {
		return fmt.Errorf("upsert naming scheme: %w", err)
	}
	return nil
}

// GetTagPolicy returns a client's configured tag policy
func (s *Store) GetTagPolicy(ctx context.Context, clientID string) (domain.TagPolicy, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx,
		`SELECT policy FROM tag_policies WHERE client_id = $1`, clientID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.TagPolicy{}, domain.ErrTagPolicyNotFound
	}
	if err != nil {
		return domain.TagPolicy{}, fmt.Errorf("get tag policy: %w", err)
	}
	var policy domain.TagPolicy
	if err := json.Unmarshal(raw, &policy); err != nil {
		return domain.TagPolicy{}, fmt.Errorf("decode tag policy: %w", err)
	}
	return policy, nil
}

// UpsertTagPolicy stores or replaces a client's tag policy
func (s *Store) UpsertTagPolicy(ctx context.Context, clientID string, policy domain.TagPolicy) error {
	raw, err := json.Marshal(policy)
	if err != nil {
		return fmt.Errorf("encode tag policy: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO tag_policies (client_id, policy, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (client_id) DO UPDATE SET policy = $2, updated_at = now()`,
		clientID, raw)
	if err != nil {
		return fmt.Errorf("upsert tag policy: %w", err)
	}
	return nil
}

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fairhire/fairhire/internal/types"
)

// PG is the PostgreSQL-backed Store.
type PG struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database.
func Connect(ctx context.Context, databaseURL string) (*PG, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PG{pool: pool}, nil
}

// Close closes the connection pool.
func (s *PG) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *PG) CreateJob(ctx context.Context, job *types.JobPosition) error {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}

	weightsJSON, err := json.Marshal(job.RubricWeights)
	if err != nil {
		return fmt.Errorf("failed to marshal rubric weights: %w", err)
	}

	err = s.pool.QueryRow(ctx,
		`INSERT INTO job_positions (id, title, department, description, requirements, nice_to_have,
		                            min_experience_years, max_experience_years, min_education, min_age,
		                            location, is_remote, status, max_candidates, rubric_weights)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		 RETURNING created_at`,
		job.ID, job.Title, job.Department, job.Description, job.Requirements, job.NiceToHave,
		job.MinExperienceYears, job.MaxExperienceYears, job.MinEducation, job.MinAge,
		job.Location, job.IsRemote, job.Status, job.MaxCandidates, weightsJSON,
	).Scan(&job.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}
	return nil
}

func (s *PG) GetJob(ctx context.Context, id uuid.UUID) (*types.JobPosition, error) {
	var job types.JobPosition
	var weightsJSON []byte

	err := s.pool.QueryRow(ctx,
		`SELECT id, title, department, description, requirements, nice_to_have,
		        min_experience_years, max_experience_years, min_education, min_age,
		        location, is_remote, status, max_candidates, rubric_weights, created_at
		 FROM job_positions WHERE id = $1`,
		id,
	).Scan(&job.ID, &job.Title, &job.Department, &job.Description, &job.Requirements, &job.NiceToHave,
		&job.MinExperienceYears, &job.MaxExperienceYears, &job.MinEducation, &job.MinAge,
		&job.Location, &job.IsRemote, &job.Status, &job.MaxCandidates, &weightsJSON, &job.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	if weightsJSON != nil {
		_ = json.Unmarshal(weightsJSON, &job.RubricWeights)
	}
	return &job, nil
}

func (s *PG) CreateCandidate(ctx context.Context, cand *types.Candidate) error {
	if cand.ID == uuid.Nil {
		cand.ID = uuid.New()
	}
	if cand.Stage == "" {
		cand.Stage = types.StageNew
	}

	err := s.pool.QueryRow(ctx,
		`INSERT INTO candidates (id, job_id, first_name, last_name, email, phone, stage, resume_text)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at, updated_at`,
		cand.ID, cand.JobID, cand.FirstName, cand.LastName, cand.Email, cand.Phone,
		cand.Stage, cand.ResumeText,
	).Scan(&cand.CreatedAt, &cand.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create candidate: %w", err)
	}
	return nil
}

func (s *PG) GetCandidate(ctx context.Context, id uuid.UUID) (*types.Candidate, error) {
	row := s.pool.QueryRow(ctx, candidateSelect+` WHERE id = $1`, id)
	cand, err := scanCandidate(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get candidate: %w", err)
	}
	return cand, nil
}

func (s *PG) UpdateCandidate(ctx context.Context, cand *types.Candidate) error {
	parsedJSON, err := marshalNullable(cand.Parsed)
	if err != nil {
		return err
	}
	guardrailJSON, err := marshalNullable(cand.GuardrailResults)
	if err != nil {
		return err
	}
	scoringJSON, err := marshalNullable(cand.Scoring)
	if err != nil {
		return err
	}
	summaryJSON, err := marshalNullable(cand.SummaryResults)
	if err != nil {
		return err
	}
	auditJSON, err := marshalNullable(cand.BiasAudit)
	if err != nil {
		return err
	}
	flagsJSON, err := marshalNullable(cand.BiasFlags)
	if err != nil {
		return err
	}

	result, err := s.pool.Exec(ctx,
		`UPDATE candidates
		 SET first_name = $1, last_name = $2, email = $3, phone = $4, stage = $5,
		     resume_redacted = $6, parsed_data = $7, guardrail_results = $8, guardrail_passed = $9,
		     scoring_results = $10, overall_score = $11, confidence = $12,
		     summary_results = $13, suggested_action = $14,
		     bias_audit_results = $15, bias_flags = $16,
		     reviewer_notes = $17, reviewer_decision = $18, updated_at = NOW()
		 WHERE id = $19`,
		cand.FirstName, cand.LastName, cand.Email, cand.Phone, cand.Stage,
		cand.ResumeRedacted, parsedJSON, guardrailJSON, cand.GuardrailPassed,
		scoringJSON, cand.OverallScore, cand.Confidence,
		summaryJSON, cand.SuggestedAction,
		auditJSON, flagsJSON,
		cand.ReviewerNotes, cand.ReviewerDecision, cand.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update candidate: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("candidate not found: %s", cand.ID)
	}
	return nil
}

func (s *PG) ListCandidates(ctx context.Context, jobID uuid.UUID, stage types.Stage) ([]types.Candidate, error) {
	query := candidateSelect + ` WHERE 1=1`
	args := []any{}
	argNum := 1

	if jobID != uuid.Nil {
		query += fmt.Sprintf(" AND job_id = $%d", argNum)
		args = append(args, jobID)
		argNum++
	}
	if stage != "" {
		query += fmt.Sprintf(" AND stage = $%d", argNum)
		args = append(args, stage)
	}
	query += " ORDER BY created_at ASC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	defer rows.Close()

	var candidates []types.Candidate
	for rows.Next() {
		cand, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		candidates = append(candidates, *cand)
	}
	return candidates, nil
}

func (s *PG) CreateExecution(ctx context.Context, exec *types.AgentExecution) error {
	if exec.ID == uuid.Nil {
		exec.ID = uuid.New()
	}

	err := s.pool.QueryRow(ctx,
		`INSERT INTO agent_executions (id, candidate_id, agent_type, status, input_data, model)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING started_at`,
		exec.ID, exec.CandidateID, exec.AgentType, exec.Status, []byte(exec.InputData), exec.Model,
	).Scan(&exec.StartedAt)
	if err != nil {
		return fmt.Errorf("failed to create execution: %w", err)
	}
	return nil
}

func (s *PG) FinalizeExecution(ctx context.Context, exec *types.AgentExecution) error {
	result, err := s.pool.Exec(ctx,
		`UPDATE agent_executions
		 SET status = $1, output_data = $2, error_message = $3,
		     duration_ms = $4, tokens_used = $5, completed_at = $6
		 WHERE id = $7 AND status IN ('pending', 'running')`,
		exec.Status, []byte(exec.OutputData), exec.ErrorMessage,
		exec.DurationMs, exec.TokensUsed, exec.CompletedAt, exec.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to finalize execution: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("execution %s not found or already finalized", exec.ID)
	}
	return nil
}

func (s *PG) ListExecutions(ctx context.Context, candidateID uuid.UUID) ([]types.AgentExecution, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, candidate_id, agent_type, status, input_data, output_data, error_message,
		        duration_ms, tokens_used, model, started_at, completed_at
		 FROM agent_executions WHERE candidate_id = $1 ORDER BY started_at ASC`,
		candidateID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list executions: %w", err)
	}
	defer rows.Close()

	var executions []types.AgentExecution
	for rows.Next() {
		var exec types.AgentExecution
		var inputData, outputData []byte
		if err := rows.Scan(&exec.ID, &exec.CandidateID, &exec.AgentType, &exec.Status,
			&inputData, &outputData, &exec.ErrorMessage,
			&exec.DurationMs, &exec.TokensUsed, &exec.Model,
			&exec.StartedAt, &exec.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan execution: %w", err)
		}
		exec.InputData = inputData
		exec.OutputData = outputData
		executions = append(executions, exec)
	}
	return executions, nil
}

func (s *PG) AppendProbes(ctx context.Context, probes []types.BiasProbe) error {
	for _, p := range probes {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		componentsJSON, err := marshalNullable(p.Components)
		if err != nil {
			return err
		}
		_, err = s.pool.Exec(ctx,
			`INSERT INTO bias_probes (id, candidate_id, probe_type, scenario, original_score,
			                          probe_score, delta, flagged, components, explanation, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			p.ID, p.CandidateID, p.ProbeType, p.Scenario, p.OriginalScore,
			p.ProbeScore, p.Delta, p.Flagged, componentsJSON, p.Explanation, p.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to append probe %s: %w", p.Scenario, err)
		}
	}
	return nil
}

func (s *PG) ListProbes(ctx context.Context, candidateID uuid.UUID) ([]types.BiasProbe, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, candidate_id, probe_type, scenario, original_score, probe_score,
		        delta, flagged, components, explanation, created_at
		 FROM bias_probes WHERE candidate_id = $1 ORDER BY created_at ASC`,
		candidateID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list probes: %w", err)
	}
	defer rows.Close()

	var probes []types.BiasProbe
	for rows.Next() {
		var p types.BiasProbe
		var componentsJSON []byte
		if err := rows.Scan(&p.ID, &p.CandidateID, &p.ProbeType, &p.Scenario, &p.OriginalScore,
			&p.ProbeScore, &p.Delta, &p.Flagged, &componentsJSON, &p.Explanation, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan probe: %w", err)
		}
		if componentsJSON != nil {
			_ = json.Unmarshal(componentsJSON, &p.Components)
		}
		probes = append(probes, p)
	}
	return probes, nil
}

func (s *PG) AppendActivity(ctx context.Context, entry *ActivityEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO candidate_activity (id, candidate_id, from_stage, to_stage, message, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		entry.ID, entry.CandidateID, entry.FromStage, entry.ToStage, entry.Message, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append activity: %w", err)
	}
	return nil
}

func (s *PG) ListActivity(ctx context.Context, candidateID uuid.UUID) ([]ActivityEntry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, candidate_id, from_stage, to_stage, message, created_at
		 FROM candidate_activity WHERE candidate_id = $1 ORDER BY created_at ASC`,
		candidateID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	var entries []ActivityEntry
	for rows.Next() {
		var e ActivityEntry
		if err := rows.Scan(&e.ID, &e.CandidateID, &e.FromStage, &e.ToStage, &e.Message, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

const candidateSelect = `SELECT id, job_id, first_name, last_name, email, phone, stage,
       resume_text, COALESCE(resume_redacted, ''), parsed_data, guardrail_results, guardrail_passed,
       scoring_results, overall_score, confidence, summary_results, COALESCE(suggested_action, ''),
       bias_audit_results, bias_flags, COALESCE(reviewer_notes, ''), COALESCE(reviewer_decision, ''),
       created_at, updated_at
  FROM candidates`

func scanCandidate(row pgx.Row) (*types.Candidate, error) {
	var cand types.Candidate
	var parsedJSON, guardrailJSON, scoringJSON, summaryJSON, auditJSON, flagsJSON []byte

	err := row.Scan(&cand.ID, &cand.JobID, &cand.FirstName, &cand.LastName, &cand.Email, &cand.Phone,
		&cand.Stage, &cand.ResumeText, &cand.ResumeRedacted,
		&parsedJSON, &guardrailJSON, &cand.GuardrailPassed,
		&scoringJSON, &cand.OverallScore, &cand.Confidence,
		&summaryJSON, &cand.SuggestedAction,
		&auditJSON, &flagsJSON, &cand.ReviewerNotes, &cand.ReviewerDecision,
		&cand.CreatedAt, &cand.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if parsedJSON != nil {
		_ = json.Unmarshal(parsedJSON, &cand.Parsed)
	}
	if guardrailJSON != nil {
		_ = json.Unmarshal(guardrailJSON, &cand.GuardrailResults)
	}
	if scoringJSON != nil {
		_ = json.Unmarshal(scoringJSON, &cand.Scoring)
	}
	if summaryJSON != nil {
		_ = json.Unmarshal(summaryJSON, &cand.SummaryResults)
	}
	if auditJSON != nil {
		_ = json.Unmarshal(auditJSON, &cand.BiasAudit)
	}
	if flagsJSON != nil {
		_ = json.Unmarshal(flagsJSON, &cand.BiasFlags)
	}

	return &cand, nil
}

// marshalNullable marshals v to JSON, returning nil (SQL NULL) for nil
// pointers, maps and slices so empty state round-trips as NULL.
func marshalNullable(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal value: %w", err)
	}
	if string(data) == "null" {
		return nil, nil
	}
	return data, nil
}

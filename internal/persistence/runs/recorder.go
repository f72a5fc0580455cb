package runs

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/zeromicro/go-zero/core/stores/sqlx"
)

//go:embed schema.sql
var schema string

// Run is one generate or validate request as stored in idea_runs.
type Run struct {
	ID           string
	Kind         string
	PromptDigest string
	Model        string
	Input        map[string]string
	Parsed       any
	IdeaNames    []string
	Tasks        []Task
	CacheHit     bool
	Success      bool
	ErrorMessage string
	Duration     time.Duration
	CreatedAt    time.Time
}

// Task is one agent call belonging to a run.
type Task struct {
	Task             string
	Agent            string
	Model            string
	PromptDigest     string
	PromptTokens     int
	CompletionTokens int
	Duration         time.Duration
	Raw              string
}

// Summary is a row returned by Recent.
type Summary struct {
	ID        string         `db:"id"`
	Kind      string         `db:"kind"`
	Model     string         `db:"model"`
	IdeaNames pq.StringArray `db:"idea_names"`
	CacheHit  bool           `db:"cache_hit"`
	Success   bool           `db:"success"`
	CreatedAt time.Time      `db:"created_at"`
}

// Recorder writes runs to Postgres. A nil *Recorder discards everything.
type Recorder struct {
	conn sqlx.SqlConn
}

func NewRecorder(conn sqlx.SqlConn) *Recorder {
	if conn == nil {
		return nil
	}
	return &Recorder{conn: conn}
}

// EnsureSchema creates the run tables when they do not exist.
func (r *Recorder) EnsureSchema(ctx context.Context) error {
	if r == nil {
		return nil
	}
	if _, err := r.conn.ExecCtx(ctx, schema); err != nil {
		return fmt.Errorf("ensure idea_runs schema: %w", err)
	}
	return nil
}

// Record inserts the run and its tasks in one transaction and returns the run id.
func (r *Recorder) Record(ctx context.Context, run Run) (string, error) {
	if r == nil {
		return "", nil
	}
	if strings.TrimSpace(run.Kind) == "" {
		return "", errors.New("record run: kind is required")
	}
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	input, err := json.Marshal(nonNilInput(run.Input))
	if err != nil {
		return "", fmt.Errorf("encode run input: %w", err)
	}
	parsed := sql.NullString{}
	if run.Parsed != nil {
		data, err := json.Marshal(run.Parsed)
		if err != nil {
			return "", fmt.Errorf("encode run result: %w", err)
		}
		parsed = sql.NullString{String: string(data), Valid: true}
	}
	errMsg := sql.NullString{}
	if msg := strings.TrimSpace(run.ErrorMessage); msg != "" {
		errMsg = sql.NullString{String: msg, Valid: true}
	}
	names := run.IdeaNames
	if names == nil {
		names = []string{}
	}

	err = r.conn.TransactCtx(ctx, func(ctx context.Context, session sqlx.Session) error {
		_, err := session.ExecCtx(ctx, `
INSERT INTO public.idea_runs (
    id, kind, prompt_digest, model, input, parsed, idea_names,
    cache_hit, success, error_message, duration_ms, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			run.ID,
			run.Kind,
			run.PromptDigest,
			run.Model,
			string(input),
			parsed,
			pq.Array(names),
			run.CacheHit,
			run.Success,
			errMsg,
			run.Duration.Milliseconds(),
			run.CreatedAt,
		)
		if err != nil {
			return err
		}
		for _, task := range run.Tasks {
			if err := insertTask(ctx, session, run.ID, task); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			return run.ID, nil
		}
		return "", fmt.Errorf("record %s run: %w", run.Kind, err)
	}
	return run.ID, nil
}

func insertTask(ctx context.Context, session sqlx.Session, runID string, task Task) error {
	_, err := session.ExecCtx(ctx, `
INSERT INTO public.idea_run_tasks (
    run_id, task, agent, model, prompt_digest,
    prompt_tokens, completion_tokens, duration_ms, raw_output
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		runID,
		task.Task,
		task.Agent,
		task.Model,
		task.PromptDigest,
		task.PromptTokens,
		task.CompletionTokens,
		task.Duration.Milliseconds(),
		task.Raw,
	)
	return err
}

// Recent lists the latest runs, newest first. An empty kind matches every kind.
func (r *Recorder) Recent(ctx context.Context, kind string, limit int) ([]Summary, error) {
	if r == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}
	var rows []Summary
	query := `
SELECT id, kind, model, idea_names, cache_hit, success, created_at
FROM public.idea_runs
WHERE ($1 = '' OR kind = $1)
ORDER BY created_at DESC
LIMIT $2`
	if err := r.conn.QueryRowsCtx(ctx, &rows, query, kind, limit); err != nil {
		return nil, fmt.Errorf("list recent runs: %w", err)
	}
	return rows, nil
}

func nonNilInput(in map[string]string) map[string]string {
	if in == nil {
		return map[string]string{}
	}
	return in
}

// isUniqueViolation covers both drivers: pgx in the service, lib/pq elsewhere.
func isUniqueViolation(err error) bool {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code == "23505"
	}
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

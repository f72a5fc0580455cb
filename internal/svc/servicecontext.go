package svc

import (
	"context"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx driver
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/stores/redis"
	"github.com/zeromicro/go-zero/core/stores/sqlx"

	"github.com/nicholasmartin/agents-api/internal/cache"
	"github.com/nicholasmartin/agents-api/internal/config"
	"github.com/nicholasmartin/agents-api/internal/metrics"
	"github.com/nicholasmartin/agents-api/internal/persistence/runs"
	crewpkg "github.com/nicholasmartin/agents-api/pkg/crew"
	"github.com/nicholasmartin/agents-api/pkg/journal"
	llmpkg "github.com/nicholasmartin/agents-api/pkg/llm"
	"github.com/nicholasmartin/agents-api/pkg/prompt"
)

const schemaTimeout = 10 * time.Second

// Crew is the orchestration surface used by logic.
type Crew interface {
	GenerateIdeas(ctx context.Context, req crewpkg.IdeaRequest) (*crewpkg.Output, error)
	ValidateIdea(ctx context.Context, idea string) (*crewpkg.ValidationResult, error)
}

type ServiceContext struct {
	Config config.Config

	LLMConfig  *llmpkg.Config
	LLM        llmpkg.LLMClient
	CrewConfig *crewpkg.Config
	Prompts    *prompt.Library
	Crew       Crew

	// Optional collaborators; each is nil when not configured.
	DBConn   sqlx.SqlConn
	Runs     *runs.Recorder
	Redis    *redis.Redis
	Cache    *cache.Store
	Journal  *journal.Writer
	CacheTTL cache.TTLSet
}

// NewServiceContext wires every collaborator from c. Optional stores that fail to
// initialise are logged and left nil.
func NewServiceContext(c config.Config) (*ServiceContext, error) {
	llmCfg, err := c.LLMConfig()
	if err != nil {
		return nil, fmt.Errorf("llm config: %w", err)
	}
	client, err := llmpkg.NewClient(llmCfg, llmpkg.WithRetryHandler(llmpkg.NewRetryHandler(llmpkg.RetryConfig{
		MaxRetries: llmCfg.MaxRetries,
		OnRetry: func(int, error) {
			metrics.LLMRetries.Inc()
		},
	})))
	if err != nil {
		return nil, fmt.Errorf("llm client: %w", err)
	}

	crewCfg := c.CrewConfig()
	promptDir := crewCfg.PromptDir
	if promptDir != "" {
		promptDir = config.ResolvePath(c.BaseDir(), promptDir)
	}
	prompts, err := prompt.LoadLibrary(promptDir)
	if err != nil {
		return nil, fmt.Errorf("prompt library: %w", err)
	}
	crew, err := crewpkg.New(crewCfg, client, prompts, crewpkg.WithObserver(metrics.ObserveTask))
	if err != nil {
		return nil, err
	}

	svc := &ServiceContext{
		Config:     c,
		LLMConfig:  llmCfg,
		LLM:        client,
		CrewConfig: crewCfg,
		Prompts:    prompts,
		Crew:       crew,
		CacheTTL:   cache.NewTTLSet(c.TTL),
	}

	if c.Redis.Host != "" {
		rds, err := redis.NewRedis(c.Redis)
		if err != nil {
			logx.Errorf("redis unavailable, idea cache disabled: %v", err)
		} else {
			svc.Redis = rds
			modelID, _ := llmCfg.ResolveModel(crewCfg.Model)
			svc.Cache = cache.NewStore(rds, svc.CacheTTL, modelID)
		}
	}

	// Only record runs when a DSN is provided.
	if c.Postgres.DSN != "" {
		conn := sqlx.NewSqlConn("pgx", c.Postgres.DSN)
		if raw, err := conn.RawDB(); err == nil {
			raw.SetMaxOpenConns(c.Postgres.MaxOpen)
			raw.SetMaxIdleConns(c.Postgres.MaxIdle)
		}
		svc.DBConn = conn
		svc.Runs = runs.NewRecorder(conn)
		ctx, cancel := context.WithTimeout(context.Background(), schemaTimeout)
		if err := svc.Runs.EnsureSchema(ctx); err != nil {
			logx.Errorf("postgres schema check failed: %v", err)
		}
		cancel()
	}

	if c.Journal.Dir != "" {
		dir := config.ResolvePath(c.BaseDir(), c.Journal.Dir)
		w, err := journal.NewWriter(dir)
		if err != nil {
			logx.Errorf("journal disabled: %v", err)
		} else {
			svc.Journal = w
		}
	}

	return svc, nil
}

// Close releases the LLM client's idle connections and the Postgres pool.
func (s *ServiceContext) Close() {
	if s.LLM != nil {
		_ = s.LLM.Close()
	}
	if s.DBConn != nil {
		if raw, err := s.DBConn.RawDB(); err == nil {
			_ = raw.Close()
		}
	}
}

package logic

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/zeromicro/go-zero/core/logx"

	"github.com/nicholasmartin/agents-api/internal/persistence/runs"
	"github.com/nicholasmartin/agents-api/internal/svc"
	"github.com/nicholasmartin/agents-api/pkg/crew"
	"github.com/nicholasmartin/agents-api/pkg/journal"
)

// runOutcome is everything worth keeping about one request.
type runOutcome struct {
	kind      string
	digest    string
	input     map[string]string
	outputs   []*crew.Output
	parsed    any
	ideaNames []string
	cacheHit  bool
	err       error
	started   time.Time
}

// recordRun mirrors the outcome to the journal and Postgres. Failures are logged only.
func recordRun(ctx context.Context, svcCtx *svc.ServiceContext, o runOutcome) {
	if svcCtx.Journal == nil && svcCtx.Runs == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	logger := logx.WithContext(ctx)

	runID := uuid.NewString()
	now := time.Now().UTC()
	errMsg := ""
	if o.err != nil {
		errMsg = o.err.Error()
	}

	if svcCtx.Journal != nil {
		rec := &journal.RunRecord{
			Timestamp:    now,
			RunID:        runID,
			Kind:         o.kind,
			Input:        o.input,
			Tasks:        journalTasks(o.outputs),
			Result:       o.parsed,
			CacheHit:     o.cacheHit,
			Success:      o.err == nil,
			ErrorMessage: errMsg,
		}
		if _, err := svcCtx.Journal.WriteRun(rec); err != nil {
			logger.Errorw("journal write failed", logx.Field("run_id", runID), logx.Field("error", err.Error()))
		}
	}

	if svcCtx.Runs != nil {
		_, err := svcCtx.Runs.Record(ctx, runs.Run{
			ID:           runID,
			Kind:         o.kind,
			PromptDigest: o.digest,
			Model:        runModel(svcCtx, o.outputs),
			Input:        o.input,
			Parsed:       o.parsed,
			IdeaNames:    o.ideaNames,
			Tasks:        runTasks(o.outputs),
			CacheHit:     o.cacheHit,
			Success:      o.err == nil,
			ErrorMessage: errMsg,
			Duration:     time.Since(o.started),
			CreatedAt:    now,
		})
		if err != nil {
			logger.Errorw("run persistence failed", logx.Field("run_id", runID), logx.Field("error", err.Error()))
		}
	}
}

func runModel(svcCtx *svc.ServiceContext, outputs []*crew.Output) string {
	for _, out := range outputs {
		if out != nil && out.Model != "" {
			return out.Model
		}
	}
	if svcCtx.LLMConfig == nil {
		return ""
	}
	model := ""
	if svcCtx.CrewConfig != nil {
		model = svcCtx.CrewConfig.Model
	}
	id, _ := svcCtx.LLMConfig.ResolveModel(model)
	return id
}

func journalTasks(outputs []*crew.Output) []journal.TaskEntry {
	entries := make([]journal.TaskEntry, 0, len(outputs))
	for _, out := range outputs {
		if out == nil {
			continue
		}
		entries = append(entries, journal.TaskEntry{
			Task:         out.Task,
			Agent:        out.Agent,
			Model:        out.Model,
			PromptDigest: out.PromptDigest,
			TotalTokens:  out.Usage.TotalTokens,
			DurationMS:   out.Duration.Milliseconds(),
			Raw:          out.Raw,
		})
	}
	return entries
}

func runTasks(outputs []*crew.Output) []runs.Task {
	tasks := make([]runs.Task, 0, len(outputs))
	for _, out := range outputs {
		if out == nil {
			continue
		}
		tasks = append(tasks, runs.Task{
			Task:             out.Task,
			Agent:            out.Agent,
			Model:            out.Model,
			PromptDigest:     out.PromptDigest,
			PromptTokens:     out.Usage.PromptTokens,
			CompletionTokens: out.Usage.CompletionTokens,
			Duration:         out.Duration,
			Raw:              out.Raw,
		})
	}
	return tasks
}

package logic

import (
	"context"
	"strings"
	"time"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/nicholasmartin/agents-api/internal/errorx"
	"github.com/nicholasmartin/agents-api/internal/metrics"
	"github.com/nicholasmartin/agents-api/internal/svc"
	"github.com/nicholasmartin/agents-api/internal/types"
	"github.com/nicholasmartin/agents-api/pkg/crew"
	"github.com/nicholasmartin/agents-api/pkg/extract"
	"github.com/nicholasmartin/agents-api/pkg/journal"
)

type GenerateIdeasLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewGenerateIdeasLogic(ctx context.Context, svcCtx *svc.ServiceContext) *GenerateIdeasLogic {
	return &GenerateIdeasLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *GenerateIdeasLogic) GenerateIdeas(req *types.GenerateIdeasRequest) (*types.GenerateIdeasResponse, error) {
	started := time.Now()
	ideaReq := crew.IdeaRequest{
		Constraints:     strings.TrimSpace(req.Constraints),
		Industry:        strings.TrimSpace(req.Industry),
		TechnologyFocus: strings.TrimSpace(req.TechnologyFocus),
	}
	digest := ideaReq.Key()
	outcome := runOutcome{
		kind:    journal.KindGenerate,
		digest:  digest,
		input:   ideaInput(ideaReq),
		started: started,
	}

	if ideas, ok := l.cachedIdeas(digest); ok {
		outcome.cacheHit = true
		outcome.parsed = ideas
		outcome.ideaNames = ideaNames(ideas)
		recordRun(l.ctx, l.svcCtx, outcome)
		return &types.GenerateIdeasResponse{Ideas: ideas}, nil
	}

	done := metrics.TrackRun(journal.KindGenerate)
	out, err := l.svcCtx.Crew.GenerateIdeas(l.ctx, ideaReq)
	done()
	metrics.ObserveRun(journal.KindGenerate, err)
	if err != nil {
		l.Errorw("idea generation failed", logx.Field("error", err.Error()))
		outcome.err = err
		recordRun(l.ctx, l.svcCtx, outcome)
		return nil, errorx.Internal("Error generating ideas", err)
	}

	ideas := extract.Ideas(out.Raw)
	metrics.IdeasExtracted.Observe(float64(len(ideas)))
	l.Infow("ideas generated",
		logx.Field("count", len(ideas)),
		logx.Field("duration", time.Since(started).String()),
	)
	if len(ideas) == 0 {
		l.Sloww("idea output had no extractable records", logx.Field("chars", len(out.Raw)))
	}

	if err := l.svcCtx.Cache.SetIdeas(l.ctx, digest, ideas); err != nil {
		l.Errorw("cache ideas failed", logx.Field("error", err.Error()))
	}

	outcome.outputs = []*crew.Output{out}
	outcome.parsed = ideas
	outcome.ideaNames = ideaNames(ideas)
	recordRun(l.ctx, l.svcCtx, outcome)

	return &types.GenerateIdeasResponse{Ideas: ideas}, nil
}

func (l *GenerateIdeasLogic) cachedIdeas(digest string) ([]extract.IdeaRecord, bool) {
	if l.svcCtx.Cache == nil {
		return nil, false
	}
	ideas, ok, err := l.svcCtx.Cache.Ideas(l.ctx, digest)
	if err != nil {
		l.Errorw("cache lookup failed", logx.Field("error", err.Error()))
		return nil, false
	}
	metrics.ObserveCache("ideas", ok)
	return ideas, ok
}

func ideaInput(req crew.IdeaRequest) map[string]string {
	in := make(map[string]string, 3)
	if req.Constraints != "" {
		in["constraints"] = req.Constraints
	}
	if req.Industry != "" {
		in["industry"] = req.Industry
	}
	if req.TechnologyFocus != "" {
		in["technology_focus"] = req.TechnologyFocus
	}
	return in
}

func ideaNames(ideas []extract.IdeaRecord) []string {
	names := make([]string, 0, len(ideas))
	for _, idea := range ideas {
		names = append(names, idea.Name())
	}
	return names
}

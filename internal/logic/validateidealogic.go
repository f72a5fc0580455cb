package logic

import (
	"context"
	"errors"
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
	"github.com/nicholasmartin/agents-api/pkg/prompt"
)

const detailIdeaRequired = "Idea is required"

type ValidateIdeaLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewValidateIdeaLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ValidateIdeaLogic {
	return &ValidateIdeaLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *ValidateIdeaLogic) ValidateIdea(req *types.ValidateIdeaRequest) (*types.ValidateIdeaResponse, error) {
	idea := strings.TrimSpace(req.Idea)
	if idea == "" {
		return nil, errorx.BadRequest(detailIdeaRequired)
	}

	started := time.Now()
	digest := prompt.Digest(journal.KindValidate, idea)
	outcome := runOutcome{
		kind:    journal.KindValidate,
		digest:  digest,
		input:   map[string]string{"idea": idea},
		started: started,
	}

	if sections, ok := l.cachedSections(digest); ok {
		outcome.cacheHit = true
		outcome.parsed = sections
		recordRun(l.ctx, l.svcCtx, outcome)
		return toValidateResponse(sections), nil
	}

	done := metrics.TrackRun(journal.KindValidate)
	result, err := l.svcCtx.Crew.ValidateIdea(l.ctx, idea)
	done()
	metrics.ObserveRun(journal.KindValidate, err)
	if err != nil {
		if errors.Is(err, crew.ErrEmptyIdea) {
			return nil, errorx.BadRequest(detailIdeaRequired)
		}
		l.Errorw("idea validation failed", logx.Field("error", err.Error()))
		outcome.err = err
		recordRun(l.ctx, l.svcCtx, outcome)
		return nil, errorx.Internal("Error validating idea", err)
	}

	sections := extract.Sections(result)
	placeholders := countPlaceholders(sections)
	l.Infow("idea validated",
		logx.Field("placeholders", placeholders),
		logx.Field("duration", time.Since(started).String()),
	)

	if placeholders == 0 {
		if err := l.svcCtx.Cache.SetSections(l.ctx, digest, sections); err != nil {
			l.Errorw("cache sections failed", logx.Field("error", err.Error()))
		}
	}

	outcome.outputs = result.Outputs()
	outcome.parsed = sections
	recordRun(l.ctx, l.svcCtx, outcome)

	return toValidateResponse(sections), nil
}

func (l *ValidateIdeaLogic) cachedSections(digest string) (extract.ValidationSections, bool) {
	if l.svcCtx.Cache == nil {
		return extract.ValidationSections{}, false
	}
	sections, ok, err := l.svcCtx.Cache.Sections(l.ctx, digest)
	if err != nil {
		l.Errorw("cache lookup failed", logx.Field("error", err.Error()))
		return extract.ValidationSections{}, false
	}
	metrics.ObserveCache("validation", ok)
	return sections, ok
}

// countPlaceholders reports how many sections fell back to their placeholder.
func countPlaceholders(s extract.ValidationSections) int {
	n := 0
	check := func(key, value, placeholder string) {
		if value == placeholder {
			metrics.SectionPlaceholders.WithLabelValues(key).Inc()
			n++
		}
	}
	check(extract.KeyMarketAnalysis, s.MarketAnalysis, extract.PlaceholderMarketAnalysis)
	check(extract.KeyTechnicalEvaluation, s.TechnicalEvaluation, extract.PlaceholderTechnicalEvaluation)
	check(extract.KeyBusinessPlan, s.BusinessPlan, extract.PlaceholderBusinessPlan)
	return n
}

func toValidateResponse(s extract.ValidationSections) *types.ValidateIdeaResponse {
	return &types.ValidateIdeaResponse{
		MarketAnalysis:      s.MarketAnalysis,
		TechnicalEvaluation: s.TechnicalEvaluation,
		BusinessPlan:        s.BusinessPlan,
	}
}

package crew

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/nicholasmartin/agents-api/pkg/extract"
	"github.com/nicholasmartin/agents-api/pkg/llm"
	"github.com/nicholasmartin/agents-api/pkg/prompt"
)

// Task names, also used as metric and journal labels.
const (
	TaskIdeaGeneration      = prompt.IdeaGeneration
	TaskMarketAnalysis      = prompt.MarketAnalysis
	TaskTechnicalEvaluation = prompt.TechnicalEvaluation
	TaskBusinessPlan        = prompt.BusinessPlan
)

// ErrEmptyIdea is returned when validation is requested without an idea.
var ErrEmptyIdea = errors.New("crew: idea is required")

// IdeaRequest carries the optional generation constraints. Empty fields are omitted.
type IdeaRequest struct {
	Constraints     string `json:"constraints,omitempty"`
	Industry        string `json:"industry,omitempty"`
	TechnologyFocus string `json:"technology_focus,omitempty"`
}

// Key returns a stable digest of the request for caching.
func (r IdeaRequest) Key() string {
	return prompt.Digest(TaskIdeaGeneration, r.Constraints, r.Industry, r.TechnologyFocus)
}

// ValidationResult holds the three analyses for one idea.
type ValidationResult struct {
	Idea      string  `json:"idea"`
	Market    *Output `json:"market"`
	Technical *Output `json:"technical"`
	Business  *Output `json:"business"`
}

// RawOutput returns the analyses keyed by section name.
func (r *ValidationResult) RawOutput() any {
	if r == nil {
		return nil
	}
	out := make(map[string]any, 3)
	if r.Market != nil {
		out[extract.KeyMarketAnalysis] = r.Market.Raw
	}
	if r.Technical != nil {
		out[extract.KeyTechnicalEvaluation] = r.Technical.Raw
	}
	if r.Business != nil {
		out[extract.KeyBusinessPlan] = r.Business.Raw
	}
	return out
}

// Outputs lists the non-nil task outputs in execution order.
func (r *ValidationResult) Outputs() []*Output {
	var outs []*Output
	for _, o := range []*Output{r.Market, r.Technical, r.Business} {
		if o != nil {
			outs = append(outs, o)
		}
	}
	return outs
}

// Crew runs the idea-generation and validation pipelines.
type Crew struct {
	cfg      *Config
	client   llm.LLMClient
	prompts  *prompt.Library
	observer TaskObserver
}

// Option configures a Crew.
type Option func(*Crew)

// WithObserver registers a callback invoked after every task.
func WithObserver(fn TaskObserver) Option {
	return func(c *Crew) { c.observer = fn }
}

// New builds a crew. A nil cfg uses DefaultConfig.
func New(cfg *Config, client llm.LLMClient, prompts *prompt.Library, opts ...Option) (*Crew, error) {
	if client == nil {
		return nil, errors.New("crew: llm client is required")
	}
	if prompts == nil {
		return nil, errors.New("crew: prompt library is required")
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	c := &Crew{cfg: cfg, client: client, prompts: prompts}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// GenerateIdeas runs the single-agent idea crew.
func (c *Crew) GenerateIdeas(ctx context.Context, req IdeaRequest) (*Output, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.RunTimeout)
	defer cancel()

	return c.execute(ctx, Task{
		Name:     TaskIdeaGeneration,
		Agent:    IdeaSpecialist(),
		Template: prompt.IdeaGeneration,
		Data: prompt.TaskData{
			Constraints:     strings.TrimSpace(req.Constraints),
			Industry:        strings.TrimSpace(req.Industry),
			TechnologyFocus: strings.TrimSpace(req.TechnologyFocus),
		},
		ExpectedOutput: expectedIdeas,
	})
}

// ValidateIdea runs market and technical analysis, then the business plan with both as context.
func (c *Crew) ValidateIdea(ctx context.Context, idea string) (*ValidationResult, error) {
	idea = strings.TrimSpace(idea)
	if idea == "" {
		return nil, ErrEmptyIdea
	}
	ctx, cancel := context.WithTimeout(ctx, c.cfg.RunTimeout)
	defer cancel()

	result := &ValidationResult{Idea: idea}
	data := prompt.TaskData{Idea: idea}

	marketTask := Task{
		Name:           TaskMarketAnalysis,
		Agent:          MarketResearcher(),
		Template:       prompt.MarketAnalysis,
		Data:           data,
		ExpectedOutput: expectedMarket,
	}
	techTask := Task{
		Name:           TaskTechnicalEvaluation,
		Agent:          TechnicalEvaluator(),
		Template:       prompt.TechnicalEvaluation,
		Data:           data,
		ExpectedOutput: expectedTechnical,
	}

	if c.cfg.Sequential {
		var err error
		if result.Market, err = c.execute(ctx, marketTask); err != nil {
			return nil, err
		}
		if result.Technical, err = c.execute(ctx, techTask); err != nil {
			return nil, err
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			out, err := c.execute(gctx, marketTask)
			result.Market = out
			return err
		})
		g.Go(func() error {
			out, err := c.execute(gctx, techTask)
			result.Technical = out
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	business, err := c.execute(ctx, Task{
		Name:     TaskBusinessPlan,
		Agent:    BusinessStrategist(),
		Template: prompt.BusinessPlan,
		Data: prompt.TaskData{
			Idea:                idea,
			MarketAnalysis:      result.Market.Raw,
			TechnicalEvaluation: result.Technical.Raw,
		},
		ExpectedOutput: expectedBusiness,
	})
	if err != nil {
		return nil, err
	}
	result.Business = business
	return result, nil
}

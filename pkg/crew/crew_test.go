package crew

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nicholasmartin/agents-api/pkg/extract"
	"github.com/nicholasmartin/agents-api/pkg/llm"
	"github.com/nicholasmartin/agents-api/pkg/prompt"
)

// fakeLLM answers by agent role and records every request.
type fakeLLM struct {
	mu       sync.Mutex
	requests []*llm.ChatRequest
	answers  map[string]string
	failRole string
	delay    time.Duration
}

func (f *fakeLLM) Chat(ctx context.Context, req *llm.ChatRequest) (*llm.ChatResponse, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	system := req.Messages[0].Content
	if f.failRole != "" && strings.Contains(system, f.failRole) {
		return nil, errors.New("provider unavailable")
	}
	for role, answer := range f.answers {
		if strings.Contains(system, role) {
			return &llm.ChatResponse{
				Model:   "gpt-4",
				Choices: []llm.Choice{{Message: llm.Message{Role: llm.RoleAssistant, Content: answer}}},
				Usage:   llm.Usage{TotalTokens: 10},
			}, nil
		}
	}
	return &llm.ChatResponse{Choices: []llm.Choice{{Message: llm.Message{Content: "unknown role"}}}}, nil
}

func (f *fakeLLM) GetConfig() *llm.Config { return &llm.Config{} }
func (f *fakeLLM) Close() error           { return nil }

func (f *fakeLLM) userMessageFor(role string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, req := range f.requests {
		if strings.Contains(req.Messages[0].Content, role) {
			return req.Messages[1].Content
		}
	}
	return ""
}

func newTestCrew(t *testing.T, client llm.LLMClient, cfg *Config, opts ...Option) *Crew {
	t.Helper()
	lib, err := prompt.LoadLibrary("")
	require.NoError(t, err)
	c, err := New(cfg, client, lib, opts...)
	require.NoError(t, err)
	return c
}

func validationAnswers() map[string]string {
	return map[string]string{
		"Market Research Analyst":      "TAM is $2B.",
		"Technical Feasibility Expert": "Buildable in 3 months.",
		"Business Strategist":          "Charge $20/month.",
	}
}

func TestGenerateIdeas(t *testing.T) {
	client := &fakeLLM{answers: map[string]string{
		"Minimal Viable Product Idea Specialist": "1. Name: Foo\nTagline: Bar\n\n2. Name: Baz\nTagline: Qux",
	}}
	var observed []string
	c := newTestCrew(t, client, nil, WithObserver(func(task string, _ time.Duration, err error) {
		require.NoError(t, err)
		observed = append(observed, task)
	}))

	out, err := c.GenerateIdeas(context.Background(), IdeaRequest{Industry: " fintech ", TechnologyFocus: "AI"})
	require.NoError(t, err)
	require.Equal(t, TaskIdeaGeneration, out.Task)
	require.Equal(t, "idea_specialist", out.Agent)
	require.Len(t, out.PromptDigest, 64)
	require.Equal(t, []string{TaskIdeaGeneration}, observed)

	ideas := extract.Ideas(out.RawOutput().(string))
	require.Len(t, ideas, 2)

	user := client.userMessageFor("Minimal Viable Product Idea Specialist")
	require.Contains(t, user, "Focus on this industry: fintech\n")
	require.Contains(t, user, "Leverage this technology: AI")
	require.NotContains(t, user, "Consider these constraints")
	require.Contains(t, user, "expected criteria for your final answer: "+expectedIdeas)
}

func TestValidateIdea(t *testing.T) {
	client := &fakeLLM{answers: validationAnswers()}
	c := newTestCrew(t, client, nil)

	result, err := c.ValidateIdea(context.Background(), "  A CRM for plumbers ")
	require.NoError(t, err)
	require.Equal(t, "A CRM for plumbers", result.Idea)
	require.Len(t, result.Outputs(), 3)

	sections := extract.Sections(result)
	require.Equal(t, extract.ValidationSections{
		MarketAnalysis:      "TAM is $2B.",
		TechnicalEvaluation: "Buildable in 3 months.",
		BusinessPlan:        "Charge $20/month.",
	}, sections)

	business := client.userMessageFor("Business Strategist")
	require.Contains(t, business, "Market Analysis Summary:\nTAM is $2B.")
	require.Contains(t, business, "Technical Feasibility Summary:\nBuildable in 3 months.")

	market := client.userMessageFor("Market Research Analyst")
	require.Contains(t, market, "startup idea: A CRM for plumbers")
}

func TestValidateIdeaSequential(t *testing.T) {
	client := &fakeLLM{answers: validationAnswers()}
	c := newTestCrew(t, client, &Config{Sequential: true, RunTimeout: time.Minute, TaskTimeout: time.Minute})

	_, err := c.ValidateIdea(context.Background(), "idea")
	require.NoError(t, err)
	require.Len(t, client.requests, 3)
	require.Contains(t, client.requests[0].Messages[0].Content, "Market Research Analyst")
	require.Contains(t, client.requests[1].Messages[0].Content, "Technical Feasibility Expert")
	require.Contains(t, client.requests[2].Messages[0].Content, "Business Strategist")
}

func TestValidateIdeaEmpty(t *testing.T) {
	c := newTestCrew(t, &fakeLLM{}, nil)
	_, err := c.ValidateIdea(context.Background(), "   ")
	require.ErrorIs(t, err, ErrEmptyIdea)
}

func TestValidateIdeaFailureSkipsBusinessPlan(t *testing.T) {
	client := &fakeLLM{answers: validationAnswers(), failRole: "Technical Feasibility Expert"}
	var failures atomic.Int32
	c := newTestCrew(t, client, nil, WithObserver(func(_ string, _ time.Duration, err error) {
		if err != nil {
			failures.Add(1)
		}
	}))

	_, err := c.ValidateIdea(context.Background(), "idea")
	require.ErrorContains(t, err, "technical_evaluation task")
	require.ErrorContains(t, err, "provider unavailable")
	require.Empty(t, client.userMessageFor("Business Strategist"))
	require.GreaterOrEqual(t, failures.Load(), int32(1))
}

func TestTaskTimeout(t *testing.T) {
	client := &fakeLLM{answers: validationAnswers(), delay: time.Second}
	c := newTestCrew(t, client, &Config{RunTimeout: time.Minute, TaskTimeout: 10 * time.Millisecond})

	_, err := c.GenerateIdeas(context.Background(), IdeaRequest{})
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCrewUsesConfiguredModel(t *testing.T) {
	temp := 0.3
	client := &fakeLLM{answers: map[string]string{"Idea Specialist": "x"}}
	c := newTestCrew(t, client, &Config{Model: "fast", Temperature: &temp, RunTimeout: time.Minute, TaskTimeout: time.Minute})

	_, err := c.GenerateIdeas(context.Background(), IdeaRequest{})
	require.NoError(t, err)
	require.Equal(t, "fast", client.requests[0].Model)
	require.InDelta(t, 0.3, *client.requests[0].Temperature, 1e-9)
}

func TestNewValidation(t *testing.T) {
	lib, err := prompt.LoadLibrary("")
	require.NoError(t, err)

	_, err = New(nil, nil, lib)
	require.Error(t, err)
	_, err = New(nil, &fakeLLM{}, nil)
	require.Error(t, err)
}

func TestIdeaRequestKey(t *testing.T) {
	a := IdeaRequest{Industry: "health"}
	b := IdeaRequest{TechnologyFocus: "health"}
	require.Equal(t, a.Key(), IdeaRequest{Industry: "health"}.Key())
	require.NotEqual(t, a.Key(), b.Key())
}

func TestValidationResultRawOutput(t *testing.T) {
	var nilResult *ValidationResult
	require.Nil(t, nilResult.RawOutput())

	partial := &ValidationResult{Market: &Output{Raw: "m"}}
	sections := extract.Sections(partial)
	require.Equal(t, "m", sections.MarketAnalysis)
	require.Equal(t, extract.PlaceholderTechnicalEvaluation, sections.TechnicalEvaluation)
}

package crew

import (
	"context"
	"fmt"
	"time"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/nicholasmartin/agents-api/pkg/llm"
	"github.com/nicholasmartin/agents-api/pkg/prompt"
)

// Expected outputs appended to each task description.
const (
	expectedIdeas     = "A structured list of 3-5 detailed startup ideas with all required components."
	expectedMarket    = "A comprehensive market analysis report covering all requested components."
	expectedTechnical = "A detailed technical evaluation covering all requested components."
	expectedBusiness  = "A comprehensive business plan covering all requested components."
)

// Task binds an agent to a prompt template and its data.
type Task struct {
	Name           string
	Agent          Agent
	Template       string
	Data           prompt.TaskData
	ExpectedOutput string
}

// Output is what one task produced.
type Output struct {
	Task         string        `json:"task"`
	Agent        string        `json:"agent"`
	Raw          string        `json:"raw"`
	Model        string        `json:"model"`
	PromptDigest string        `json:"prompt_digest"`
	Usage        llm.Usage     `json:"usage"`
	Duration     time.Duration `json:"duration"`
}

// RawOutput exposes the final text for extraction.
func (o *Output) RawOutput() any {
	if o == nil {
		return nil
	}
	return o.Raw
}

func (o *Output) String() string {
	if o == nil {
		return ""
	}
	return o.Raw
}

// TaskObserver is notified after every task attempt.
type TaskObserver func(task string, elapsed time.Duration, err error)

// execute renders the task, sends it to the LLM and returns its output.
func (c *Crew) execute(ctx context.Context, task Task) (*Output, error) {
	description, digest, err := c.prompts.Render(task.Template, task.Data)
	if err != nil {
		return nil, fmt.Errorf("render %s task: %w", task.Name, err)
	}

	userMsg := description
	if task.ExpectedOutput != "" {
		userMsg += "\n\nThis is the expected criteria for your final answer: " + task.ExpectedOutput
	}

	taskCtx, cancel := context.WithTimeout(ctx, c.cfg.TaskTimeout)
	defer cancel()

	start := time.Now()
	resp, err := c.client.Chat(taskCtx, &llm.ChatRequest{
		Model:       c.cfg.Model,
		Temperature: c.cfg.Temperature,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: task.Agent.SystemPrompt()},
			{Role: llm.RoleUser, Content: userMsg},
		},
	})
	elapsed := time.Since(start)
	if c.observer != nil {
		c.observer(task.Name, elapsed, err)
	}
	if err != nil {
		return nil, fmt.Errorf("%s task: %w", task.Name, err)
	}

	logx.WithContext(ctx).Infow("crew task finished",
		logx.Field("task", task.Name),
		logx.Field("agent", task.Agent.Name),
		logx.Field("duration", elapsed.String()),
		logx.Field("total_tokens", resp.Usage.TotalTokens),
	)

	return &Output{
		Task:         task.Name,
		Agent:        task.Agent.Name,
		Raw:          resp.Content(),
		Model:        resp.Model,
		PromptDigest: digest,
		Usage:        resp.Usage,
		Duration:     elapsed,
	}, nil
}

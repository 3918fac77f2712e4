package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gym-agent-be/internal/pkg/logger"
	"gym-agent-be/pkg/llm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const DefaultMaxSteps = 4

const finalAnswerPrompt = "You have used all available tool steps. Using only the observations above, give your final answer to the user now."

var ErrEmptyPrompt = errors.New("prompt is empty")

// Step records one tool invocation made while answering.
type Step struct {
	Number      int    `json:"number"`
	Tool        string `json:"tool"`
	Arguments   string `json:"arguments"`
	Observation string `json:"observation,omitempty"`
	Error       string `json:"error,omitempty"`
}

type Result struct {
	Answer string `json:"answer"`
	Steps  []Step `json:"steps"`
	// Exhausted is set when the step budget ran out before the model answered on its own.
	Exhausted bool `json:"exhausted"`
}

type Options struct {
	MaxSteps     int
	SystemPrompt string
	Temperature  float64
}

type Option func(*Options)

func WithMaxSteps(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.MaxSteps = n
		}
	}
}

func WithSystemPrompt(prompt string) Option {
	return func(o *Options) {
		o.SystemPrompt = prompt
	}
}

func WithTemperature(t float64) Option {
	return func(o *Options) {
		o.Temperature = t
	}
}

// Agent runs a bounded tool-calling loop: the model either answers or asks for
// tools, tool observations are fed back, and after MaxSteps tool turns the model
// is asked for a final answer with tool calls forbidden.
type Agent struct {
	llm     llm.LLMProvider
	catalog *ToolCatalog
	logger  logger.ILogger
	options Options
}

func New(provider llm.LLMProvider, catalog *ToolCatalog, log logger.ILogger, opts ...Option) *Agent {
	options := Options{
		MaxSteps:     DefaultMaxSteps,
		SystemPrompt: DefaultSystemPrompt,
		Temperature:  0.2,
	}
	for _, o := range opts {
		o(&options)
	}
	return &Agent{llm: provider, catalog: catalog, logger: log, options: options}
}

func (a *Agent) MaxSteps() int {
	return a.options.MaxSteps
}

func (a *Agent) Run(ctx context.Context, prompt string) (*Result, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, ErrEmptyPrompt
	}

	ctx, span := otel.Tracer("gym-agent/agent").Start(ctx, "agent.Run")
	defer span.End()

	history := []llm.Message{
		{Role: llm.RoleSystem, Content: a.options.SystemPrompt},
		{Role: llm.RoleUser, Content: prompt},
	}
	tools := a.toolDefinitions()
	result := &Result{Steps: make([]Step, 0)}

	for step := 1; step <= a.options.MaxSteps; step++ {
		res, err := a.llm.Chat(ctx, history, llm.WithTools(tools...), llm.WithTemperature(a.options.Temperature))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "llm call failed")
			return nil, fmt.Errorf("agent step %d: %w", step, err)
		}

		if len(res.ToolCalls) == 0 {
			result.Answer = strings.TrimSpace(res.Content)
			span.SetAttributes(attribute.Int("agent.steps", step), attribute.Int("agent.tool_calls", len(result.Steps)))
			return result, nil
		}

		history = append(history, llm.Message{
			Role:      llm.RoleAssistant,
			Content:   res.Content,
			ToolCalls: res.ToolCalls,
		})

		for _, call := range res.ToolCalls {
			observation, recorded := a.invoke(ctx, step, call)
			result.Steps = append(result.Steps, recorded)
			history = append(history, llm.Message{
				Role:       llm.RoleTool,
				Content:    observation,
				ToolCallID: call.ID,
				Name:       call.Name,
			})
		}
	}

	// Tools stay declared because the history holds tool turns; the choice forbids new calls.
	history = append(history, llm.Message{Role: llm.RoleUser, Content: finalAnswerPrompt})
	res, err := a.llm.Chat(ctx, history,
		llm.WithTools(tools...),
		llm.WithToolChoice(llm.ToolChoiceNone),
		llm.WithTemperature(a.options.Temperature),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "final llm call failed")
		return nil, fmt.Errorf("agent final answer: %w", err)
	}

	result.Answer = strings.TrimSpace(res.Content)
	result.Exhausted = true
	span.SetAttributes(attribute.Int("agent.steps", a.options.MaxSteps), attribute.Bool("agent.exhausted", true))
	return result, nil
}

// invoke runs one tool call. Tool failures become observations so the model can recover.
func (a *Agent) invoke(ctx context.Context, step int, call llm.ToolCall) (string, Step) {
	recorded := Step{Number: step, Tool: call.Name, Arguments: call.Arguments}

	fail := func(err error) (string, Step) {
		recorded.Error = err.Error()
		a.logger.Warn("Agent", "Tool call failed", map[string]interface{}{
			"step":  step,
			"tool":  call.Name,
			"error": err.Error(),
		})
		return "error: " + err.Error(), recorded
	}

	tool, ok := a.catalog.Get(call.Name)
	if !ok {
		return fail(fmt.Errorf("unknown tool %q", call.Name))
	}

	args := map[string]any{}
	if strings.TrimSpace(call.Arguments) != "" {
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			return fail(fmt.Errorf("invalid arguments for %s: %w", call.Name, err))
		}
	}

	ctx, span := otel.Tracer("gym-agent/agent").Start(ctx, "agent.tool."+tool.Spec().Name)
	defer span.End()

	observation, err := tool.Invoke(ctx, args)
	if err != nil {
		span.RecordError(err)
		return fail(err)
	}

	a.logger.Info("Agent", "Tool call completed", map[string]interface{}{
		"step":  step,
		"tool":  call.Name,
		"bytes": len(observation),
	})
	recorded.Observation = observation
	return observation, recorded
}

func (a *Agent) toolDefinitions() []llm.ToolDefinition {
	specs := a.catalog.Specs()
	defs := make([]llm.ToolDefinition, len(specs))
	for i, s := range specs {
		defs[i] = llm.ToolDefinition{
			Name:        s.Name,
			Description: s.Description,
			Parameters:  s.InputSchema,
		}
	}
	return defs
}

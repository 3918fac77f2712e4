package agent

import (
	"context"
	"fmt"
	"strings"
)

// ToolSpec names and describes a tool. InputSchema is a JSON schema object.
type ToolSpec struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema"`
}

// Tool is a capability the agent may call between model turns.
type Tool interface {
	Spec() ToolSpec
	Invoke(ctx context.Context, args map[string]any) (string, error)
}

// StringArg reads a required, non-blank string argument.
func StringArg(args map[string]any, name string) (string, error) {
	raw, ok := args[name]
	if !ok {
		return "", fmt.Errorf("missing argument %q", name)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("argument %q must be a string", name)
	}
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("argument %q must not be empty", name)
	}
	return s, nil
}

// QuerySchema is the input schema shared by tools that take a single query string.
func QuerySchema(description string) map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{
				"type":        "string",
				"description": description,
			},
		},
		"required": []string{"query"},
	}
}

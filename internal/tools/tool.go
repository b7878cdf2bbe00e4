// Package tools defines the tool-calling surface exposed to the model
// during analysis.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// Property describes one parameter in a tool's input schema.
type Property struct {
	Type        string         `json:"type"`
	Description string         `json:"description,omitempty"`
	Enum        []string       `json:"enum,omitempty"`
	Items       map[string]any `json:"items,omitempty"`
	Default     any            `json:"default,omitempty"`
}

// InputSchema is a JSON Schema object describing a tool's parameters.
type InputSchema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties"`
	Required   []string            `json:"required"`
}

// Definition declares a tool the model may call.
type Definition struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	InputSchema InputSchema `json:"input_schema"`
}

// Validate checks raw tool input against the schema: required
// parameters must be present and every parameter must carry the
// declared JSON type. Unknown parameters are rejected.
func (d Definition) Validate(input json.RawMessage) (map[string]any, error) {
	params := make(map[string]any)
	if len(input) > 0 {
		if err := json.Unmarshal(input, &params); err != nil {
			return nil, fmt.Errorf("tool input is not a JSON object: %w", err)
		}
	}

	for _, required := range d.InputSchema.Required {
		if _, ok := params[required]; !ok {
			return nil, fmt.Errorf("missing required parameter %q", required)
		}
	}

	for name, value := range params {
		prop, ok := d.InputSchema.Properties[name]
		if !ok {
			return nil, fmt.Errorf("unknown parameter %q", name)
		}
		if value == nil {
			continue
		}
		if err := checkType(prop.Type, value); err != nil {
			return nil, fmt.Errorf("parameter %q: %w", name, err)
		}
	}

	return params, nil
}

func checkType(schemaType string, value any) error {
	switch schemaType {
	case "string":
		if _, ok := value.(string); !ok {
			return fmt.Errorf("expected string, got %T", value)
		}
	case "boolean":
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("expected boolean, got %T", value)
		}
	case "integer", "number":
		// encoding/json decodes all JSON numbers as float64
		if _, ok := value.(float64); !ok {
			return fmt.Errorf("expected number, got %T", value)
		}
	case "array":
		if _, ok := value.([]any); !ok {
			return fmt.Errorf("expected array, got %T", value)
		}
	case "object":
		if _, ok := value.(map[string]any); !ok {
			return fmt.Errorf("expected object, got %T", value)
		}
	}
	return nil
}

// Tool pairs a definition with an executor. Execute returns the text to
// hand back to the model; failures are reported through the error so
// the caller can flag the tool result accordingly.
type Tool interface {
	Definition() Definition
	Execute(ctx context.Context, params map[string]any) (string, error)
}

// Registry holds the tools available during an analysis run.
type Registry struct {
	logger *slog.Logger
	tools  map[string]Tool
	order  []string
}

// NewRegistry creates an empty tool registry.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		logger: logger,
		tools:  make(map[string]Tool),
	}
}

// Register adds a tool. Registering the same name twice replaces the
// earlier tool.
func (r *Registry) Register(tool Tool) {
	name := tool.Definition().Name
	if _, exists := r.tools[name]; exists {
		r.logger.Warn("tool already registered, replacing", "tool", name)
	} else {
		r.order = append(r.order, name)
	}
	r.tools[name] = tool
}

// Definitions returns all tool definitions in registration order.
func (r *Registry) Definitions() []Definition {
	defs := make([]Definition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.tools[name].Definition())
	}
	return defs
}

// Execute validates the input and runs the named tool. Errors come back
// as (message, false) so the caller can relay them to the model as a
// failed tool result instead of aborting the analysis.
func (r *Registry) Execute(ctx context.Context, name string, input json.RawMessage) (string, bool) {
	tool, ok := r.tools[name]
	if !ok {
		r.logger.Error("unknown tool requested", "tool", name)
		return fmt.Sprintf("Tool '%s' not found.", name), false
	}

	params, err := tool.Definition().Validate(input)
	if err != nil {
		r.logger.Warn("tool input validation failed", "tool", name, "error", err)
		return fmt.Sprintf("Parameter validation failed: %v", err), false
	}

	result, err := tool.Execute(ctx, params)
	if err != nil {
		r.logger.Error("tool execution failed", "tool", name, "error", err)
		return fmt.Sprintf("Tool execution failed: %v", err), false
	}

	r.logger.Debug("tool executed", "tool", name, "result_len", len(result))
	return result, true
}

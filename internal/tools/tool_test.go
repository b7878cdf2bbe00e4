package tools

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(discard{}, nil))
}

var testDef = Definition{
	Name:        "lookup",
	Description: "Looks things up.",
	InputSchema: InputSchema{
		Type: "object",
		Properties: map[string]Property{
			"id":    {Type: "string"},
			"limit": {Type: "integer"},
			"deep":  {Type: "boolean"},
			"codes": {Type: "array", Items: map[string]any{"type": "string"}},
		},
		Required: []string{"id"},
	},
}

func TestDefinitionValidate(t *testing.T) {
	params, err := testDef.Validate(json.RawMessage(`{"id":"BM010","limit":5,"deep":true,"codes":["a"]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if params["id"] != "BM010" {
		t.Errorf("unexpected id %v", params["id"])
	}
}

func TestDefinitionValidateRejections(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"missing required", `{"limit":5}`, "missing required parameter"},
		{"unknown parameter", `{"id":"x","extra":1}`, "unknown parameter"},
		{"wrong type string", `{"id":7}`, "expected string"},
		{"wrong type boolean", `{"id":"x","deep":"yes"}`, "expected boolean"},
		{"wrong type array", `{"id":"x","codes":"a"}`, "expected array"},
		{"not an object", `[1,2]`, "not a JSON object"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := testDef.Validate(json.RawMessage(tt.input))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.want)
			}
		})
	}
}

type echoTool struct {
	def Definition
}

func (t *echoTool) Definition() Definition { return t.def }

func (t *echoTool) Execute(_ context.Context, params map[string]any) (string, error) {
	return "id=" + params["id"].(string), nil
}

func TestRegistryExecute(t *testing.T) {
	registry := NewRegistry(testLogger())
	registry.Register(&echoTool{def: testDef})

	result, ok := registry.Execute(context.Background(), "lookup", json.RawMessage(`{"id":"BM010"}`))
	if !ok {
		t.Fatalf("expected success, got %q", result)
	}
	if result != "id=BM010" {
		t.Errorf("unexpected result %q", result)
	}
}

func TestRegistryExecuteUnknownTool(t *testing.T) {
	registry := NewRegistry(testLogger())
	result, ok := registry.Execute(context.Background(), "nope", nil)
	if ok {
		t.Fatal("expected failure for unknown tool")
	}
	if !strings.Contains(result, "not found") {
		t.Errorf("unexpected message %q", result)
	}
}

func TestRegistryExecuteValidationFailure(t *testing.T) {
	registry := NewRegistry(testLogger())
	registry.Register(&echoTool{def: testDef})

	result, ok := registry.Execute(context.Background(), "lookup", json.RawMessage(`{}`))
	if ok {
		t.Fatal("expected validation failure")
	}
	if !strings.Contains(result, "validation failed") {
		t.Errorf("unexpected message %q", result)
	}
}

func TestRegistryDefinitionsOrder(t *testing.T) {
	registry := NewRegistry(testLogger())
	first := testDef
	first.Name = "alpha"
	second := testDef
	second.Name = "beta"
	registry.Register(&echoTool{def: first})
	registry.Register(&echoTool{def: second})

	defs := registry.Definitions()
	if len(defs) != 2 || defs[0].Name != "alpha" || defs[1].Name != "beta" {
		t.Errorf("unexpected definitions order: %+v", defs)
	}
}

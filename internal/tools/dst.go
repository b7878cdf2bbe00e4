package tools

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/joakiti/boliganalyse-ai-server/internal/dst"
)

// The DST tools give the model access to Danish national statistics
// (price indexes, demographics, area data) while it writes the analysis.

// RegisterDSTTools adds all Danmarks Statistik tools to the registry.
func RegisterDSTTools(registry *Registry, client *dst.Client) {
	registry.Register(&subjectsTool{client: client})
	registry.Register(&tablesTool{client: client})
	registry.Register(&tableInfoTool{client: client})
	registry.Register(&dataTool{client: client})
}

// dstError wraps a DST failure as a JSON envelope for the model, so it
// can recover by adjusting its query instead of giving up.
func dstError(err error) string {
	var apiErr *dst.APIError
	if errors.As(err, &apiErr) {
		msg, _ := json.Marshal(map[string]any{
			"error":   apiErr.Error(),
			"details": apiErr.Body,
		})
		return string(msg)
	}
	msg, _ := json.Marshal(map[string]string{"error": "DST API request failed: " + err.Error()})
	return string(msg)
}

func stringSlice(value any) []string {
	items, ok := value.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func stringParam(params map[string]any, name string) string {
	s, _ := params[name].(string)
	return s
}

func boolParam(params map[string]any, name string) bool {
	b, _ := params[name].(bool)
	return b
}

type subjectsTool struct {
	client *dst.Client
}

func (t *subjectsTool) Definition() Definition {
	return Definition{
		Name:        "get_dst_subjects",
		Description: "Retrieves subjects (categories) from the Danmarks Statistik (DST) API. Subjects can be hierarchical.",
		InputSchema: InputSchema{
			Type: "object",
			Properties: map[string]Property{
				"subjects": {
					Type:        "array",
					Description: "Optional list of parent subject IDs to retrieve children for. If omitted, retrieves root subjects.",
					Items:       map[string]any{"type": "string"},
				},
				"recursive": {
					Type:        "boolean",
					Description: "If true, retrieves all descendants recursively. Defaults to false.",
					Default:     false,
				},
				"lang": {
					Type:        "string",
					Description: "Language for the response (e.g., 'en', 'da'). Defaults to 'en'.",
					Default:     "en",
				},
			},
			Required: []string{},
		},
	}
}

func (t *subjectsTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	result, err := t.client.Subjects(ctx, dst.SubjectsParams{
		Subjects:  stringSlice(params["subjects"]),
		Recursive: boolParam(params, "recursive"),
		Lang:      stringParam(params, "lang"),
	})
	if err != nil {
		return dstError(err), nil
	}
	return result, nil
}

type tablesTool struct {
	client *dst.Client
}

func (t *tablesTool) Definition() Definition {
	return Definition{
		Name:        "get_dst_tables",
		Description: "Retrieves a list of tables from the Danmarks Statistik (DST) API, optionally filtered by subject and update recency.",
		InputSchema: InputSchema{
			Type: "object",
			Properties: map[string]Property{
				"subjects": {
					Type:        "array",
					Description: "Optional list of subject IDs to filter tables by. If omitted, retrieves tables from all subjects.",
					Items:       map[string]any{"type": "string"},
				},
				"pastDays": {
					Type:        "integer",
					Description: "Optional number of days to look back for updated tables.",
				},
				"includeInactive": {
					Type:        "boolean",
					Description: "If true, includes inactive tables in the result. Defaults to false.",
					Default:     false,
				},
				"lang": {
					Type:        "string",
					Description: "Language for the response (e.g., 'en', 'da'). Defaults to 'en'.",
					Default:     "en",
				},
			},
			Required: []string{},
		},
	}
}

func (t *tablesTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	pastDays := 0
	if v, ok := params["pastDays"].(float64); ok {
		pastDays = int(v)
	}
	result, err := t.client.Tables(ctx, dst.TablesParams{
		Subjects:        stringSlice(params["subjects"]),
		PastDays:        pastDays,
		IncludeInactive: boolParam(params, "includeInactive"),
		Lang:            stringParam(params, "lang"),
	})
	if err != nil {
		return dstError(err), nil
	}
	return result, nil
}

type tableInfoTool struct {
	client *dst.Client
}

func (t *tableInfoTool) Definition() Definition {
	return Definition{
		Name:        "get_dst_table_info",
		Description: "Retrieves detailed metadata about a specific table from the Danmarks Statistik (DST) API, including variables, values, and time periods.",
		InputSchema: InputSchema{
			Type: "object",
			Properties: map[string]Property{
				"tableId": {
					Type:        "string",
					Description: "The ID of the table to retrieve information for.",
				},
				"lang": {
					Type:        "string",
					Description: "Language for the response (e.g., 'en', 'da'). Defaults to 'en'.",
					Default:     "en",
				},
			},
			Required: []string{"tableId"},
		},
	}
}

func (t *tableInfoTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	result, err := t.client.TableInfo(ctx, stringParam(params, "tableId"), stringParam(params, "lang"))
	if err != nil {
		return dstError(err), nil
	}
	return result, nil
}

type dataTool struct {
	client *dst.Client
}

func (t *dataTool) Definition() Definition {
	return Definition{
		Name:        "get_dst_data",
		Description: "Retrieves data from a specific table in the Danmarks Statistik (DST) API based on selected variables and values.",
		InputSchema: InputSchema{
			Type: "object",
			Properties: map[string]Property{
				"tableId": {
					Type:        "string",
					Description: "The ID of the table to retrieve data from.",
				},
				"lang": {
					Type:        "string",
					Description: "Language for the response (e.g., 'en', 'da'). Defaults to 'en'.",
					Default:     "en",
				},
				"format": {
					Type:        "string",
					Description: "The desired format for the data response.",
					Enum:        []string{"CSV", "XLSX", "JSON", "JSONSTAT", "JSONSTAT2"},
					Default:     "JSONSTAT",
				},
				"variables": {
					Type:        "array",
					Description: "An array specifying the variables and their selected values to include in the data retrieval.",
					Items: map[string]any{
						"type": "object",
						"properties": map[string]any{
							"code": map[string]any{
								"type":        "string",
								"description": "The code (ID) of the variable.",
							},
							"values": map[string]any{
								"type":        "array",
								"description": "An array of specific values for the variable to retrieve. Use ['*'] to select all values.",
								"items":       map[string]any{"type": "string"},
							},
						},
						"required": []string{"code", "values"},
					},
				},
			},
			Required: []string{"tableId", "variables"},
		},
	}
}

func (t *dataTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	var selections []dst.VariableSelection
	if items, ok := params["variables"].([]any); ok {
		for _, item := range items {
			entry, ok := item.(map[string]any)
			if !ok {
				continue
			}
			code, _ := entry["code"].(string)
			selections = append(selections, dst.VariableSelection{
				Code:   code,
				Values: stringSlice(entry["values"]),
			})
		}
	}

	result, err := t.client.Data(ctx,
		stringParam(params, "tableId"),
		stringParam(params, "format"),
		stringParam(params, "lang"),
		selections,
	)
	if err != nil {
		return dstError(err), nil
	}
	return result, nil
}

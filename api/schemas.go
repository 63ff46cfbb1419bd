package api

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/qri-io/jsonschema"
)

// Request schemas. Path and query values arrive as strings, so numbers are
// matched by pattern.
var (
	contractParamsSchema = mustSchema(`{
		"type": "object",
		"required": ["id"],
		"properties": {"id": {"type": "string", "pattern": "^[0-9]+$"}}
	}`)

	payJobParamsSchema = mustSchema(`{
		"type": "object",
		"required": ["jobId"],
		"properties": {"jobId": {"type": "string", "pattern": "^[0-9]+$"}}
	}`)

	depositParamsSchema = mustSchema(`{
		"type": "object",
		"required": ["userId"],
		"properties": {"userId": {"type": "string", "pattern": "^[0-9]+$"}}
	}`)

	depositBodySchema = mustSchema(`{
		"type": "object",
		"required": ["amount"],
		"additionalProperties": false,
		"properties": {"amount": {"type": "number", "exclusiveMinimum": 0}}
	}`)

	bestProfessionQuerySchema = mustSchema(`{
		"type": "object",
		"properties": {
			"start": {"type": "string", "format": "date-time"},
			"end": {"type": "string", "format": "date-time"}
		}
	}`)

	bestClientsQuerySchema = mustSchema(`{
		"type": "object",
		"properties": {
			"start": {"type": "string", "format": "date-time"},
			"end": {"type": "string", "format": "date-time"},
			"limit": {"type": "string", "pattern": "^[1-9][0-9]*$"}
		}
	}`)
)

func mustSchema(src string) *jsonschema.Schema {
	rs := &jsonschema.Schema{}
	if err := json.Unmarshal([]byte(src), rs); err != nil {
		panic(fmt.Sprintf("compile schema: %v", err))
	}
	return rs
}

// validateBytes checks data against rs. where names the request part
// (params, querystring, body) in the error message.
func validateBytes(ctx context.Context, rs *jsonschema.Schema, where string, data []byte) error {
	keyErrs, err := rs.ValidateBytes(ctx, data)
	if err != nil {
		return &validationError{msg: fmt.Sprintf("%s must be valid JSON", where)}
	}
	if len(keyErrs) == 0 {
		return nil
	}

	msgs := make([]string, 0, len(keyErrs))
	for _, ke := range keyErrs {
		path := strings.TrimPrefix(ke.PropertyPath, "/")
		if path == "" {
			msgs = append(msgs, fmt.Sprintf("%s %s", where, ke.Message))
			continue
		}
		msgs = append(msgs, fmt.Sprintf("%s/%s %s", where, path, ke.Message))
	}
	return &validationError{msg: strings.Join(msgs, ", ")}
}

// validateValues checks string values, such as mux vars or query values,
// against rs.
func validateValues(ctx context.Context, rs *jsonschema.Schema, where string, values map[string]string) error {
	b, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("encode %s: %w", where, err)
	}
	return validateBytes(ctx, rs, where, b)
}

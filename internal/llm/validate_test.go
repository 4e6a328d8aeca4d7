package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func testSchema(name string) *Schema {
	return &Schema{
		Name: name,
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"topic": map[string]any{"type": "string"},
				"count": map[string]any{"type": "integer"},
			},
			"required":             []any{"topic", "count"},
			"additionalProperties": false,
		},
	}
}

func TestValidateNilSchemaAcceptsAnything(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`not even json`)); err != nil {
		t.Fatalf("nil schema rejected content: %v", err)
	}
}

func TestValidateConformingDocument(t *testing.T) {
	s := testSchema("conforming")
	if err := validateResponse(s, json.RawMessage(`{"topic":"algebra","count":5}`)); err != nil {
		t.Fatalf("conforming document rejected: %v", err)
	}
}

func TestValidateRejectsMissingRequired(t *testing.T) {
	s := testSchema("missing-required")
	err := validateResponse(s, json.RawMessage(`{"topic":"algebra"}`))

	var invalid *ErrInvalidResponse
	if !errors.As(err, &invalid) {
		t.Fatalf("error = %v, want ErrInvalidResponse", err)
	}
	if invalid.Content != `{"topic":"algebra"}` {
		t.Errorf("Content = %q, want offending payload", invalid.Content)
	}
}

func TestValidateRejectsWrongType(t *testing.T) {
	s := testSchema("wrong-type")
	err := validateResponse(s, json.RawMessage(`{"topic":"algebra","count":"five"}`))

	var invalid *ErrInvalidResponse
	if !errors.As(err, &invalid) {
		t.Fatalf("error = %v, want ErrInvalidResponse", err)
	}
}

func TestValidateRejectsExtraProperty(t *testing.T) {
	s := testSchema("extra-property")
	err := validateResponse(s, json.RawMessage(`{"topic":"algebra","count":5,"bonus":true}`))

	var invalid *ErrInvalidResponse
	if !errors.As(err, &invalid) {
		t.Fatalf("error = %v, want ErrInvalidResponse", err)
	}
}

func TestValidateRejectsMalformedJSON(t *testing.T) {
	s := testSchema("malformed")
	err := validateResponse(s, json.RawMessage(`{"topic":`))

	var invalid *ErrInvalidResponse
	if !errors.As(err, &invalid) {
		t.Fatalf("error = %v, want ErrInvalidResponse", err)
	}
}

func TestValidateCachesCompiledSchema(t *testing.T) {
	s := testSchema("cached")
	if err := validateResponse(s, json.RawMessage(`{"topic":"a","count":1}`)); err != nil {
		t.Fatalf("first validation: %v", err)
	}
	if _, ok := schemaCache.Load("cached"); !ok {
		t.Error("compiled schema not cached under its name")
	}
	if err := validateResponse(s, json.RawMessage(`{"topic":"b","count":2}`)); err != nil {
		t.Fatalf("second validation: %v", err)
	}
}

package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Compiled schemas keyed by Schema.Name. Schemas are package-level
// constants in practice, so the cache never invalidates.
var schemaCache sync.Map

// validateResponse checks content against the request schema. A nil
// schema accepts anything.
func validateResponse(schema *Schema, content json.RawMessage) error {
	if schema == nil {
		return nil
	}

	var instance any
	if err := json.Unmarshal(content, &instance); err != nil {
		return &ErrInvalidResponse{
			Content: string(content),
			Err:     fmt.Errorf("parse JSON: %w", err),
		}
	}

	compiled, err := compiledSchema(schema)
	if err != nil {
		return err
	}
	if err := compiled.Validate(instance); err != nil {
		return &ErrInvalidResponse{
			Content: string(content),
			Err:     fmt.Errorf("schema %s: %w", schema.Name, err),
		}
	}
	return nil
}

func compiledSchema(s *Schema) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(s.Name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// Round-trip the definition through JSON so the compiler sees
	// canonical value types regardless of how the map was built.
	raw, err := json.Marshal(s.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema %q: %w", s.Name, err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode schema %q: %w", s.Name, err)
	}

	url := fmt.Sprintf("schema://%s.json", s.Name)
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add schema %q: %w", s.Name, err)
	}
	compiled, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %q: %w", s.Name, err)
	}

	schemaCache.Store(s.Name, compiled)
	return compiled, nil
}

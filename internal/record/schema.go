package record

import (
	"encoding/json"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/goliatone/go-corpus/pkg/interfaces"
)

const metadataSchemaName = "corpus-metadata.json"

// metadataSchemaJSON describes the canonical front-matter shape emitted by
// the capture tooling. Strict ingestion validates each raw metadata map
// against it; anything outside the canonical keys is still allowed.
const metadataSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["title", "source"],
  "properties": {
    "title": {"type": "string", "minLength": 1},
    "source": {"type": "string", "minLength": 1},
    "date_published": {"type": "string"},
    "date_captured": {"type": "string"},
    "domain": {"type": "string"},
    "author": {"type": "string"},
    "category": {"type": "string"},
    "technologies": {"type": "array", "items": {"type": "string"}},
    "programming_languages": {"type": "array", "items": {"type": "string"}},
    "tags": {"type": "array", "items": {"type": "string"}},
    "key_concepts": {"type": "array", "items": {"type": "string"}},
    "code_examples": {"type": "boolean"},
    "difficulty_level": {"type": "string"},
    "summary": {"type": "string"}
  }
}`

// MetadataSchema validates raw front-matter maps against the canonical
// corpus metadata shape.
type MetadataSchema struct {
	compiled *jsonschema.Schema
}

// CompileMetadataSchema compiles the embedded schema. Compilation failure is
// a programming error surfaced at construction time, not per document.
func CompileMetadataSchema() (*MetadataSchema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(metadataSchemaName, strings.NewReader(metadataSchemaJSON)); err != nil {
		return nil, fmt.Errorf("record: add metadata schema: %w", err)
	}
	compiled, err := compiler.Compile(metadataSchemaName)
	if err != nil {
		return nil, fmt.Errorf("record: compile metadata schema: %w", err)
	}
	return &MetadataSchema{compiled: compiled}, nil
}

// Validate checks the raw metadata map, returning one reason per violation.
// The map is round-tripped through JSON so YAML-decoded values compare with
// the same type rules the schema engine expects.
func (s *MetadataSchema) Validate(raw map[string]any) []interfaces.Reason {
	if s == nil || s.compiled == nil || len(raw) == 0 {
		return nil
	}

	normalized, err := normalizeForSchema(raw)
	if err != nil {
		return []interfaces.Reason{{Field: "metadata", Message: err.Error()}}
	}

	if err := s.compiled.Validate(normalized); err != nil {
		return schemaReasons(err)
	}
	return nil
}

func normalizeForSchema(raw map[string]any) (any, error) {
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("metadata not serializable: %w", err)
	}
	var decoded any
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		return nil, fmt.Errorf("metadata not decodable: %w", err)
	}
	return decoded, nil
}

func schemaReasons(err error) []interfaces.Reason {
	validationErr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []interfaces.Reason{{Field: "metadata", Message: err.Error()}}
	}

	leaves := collectLeaves(validationErr)
	reasons := make([]interfaces.Reason, 0, len(leaves))
	for _, leaf := range leaves {
		field := strings.TrimPrefix(leaf.InstanceLocation, "/")
		if field == "" {
			field = "metadata"
		}
		reasons = append(reasons, interfaces.Reason{
			Field:   field,
			Message: leaf.Message,
		})
	}
	return reasons
}

func collectLeaves(err *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(err.Causes) == 0 {
		return []*jsonschema.ValidationError{err}
	}
	var leaves []*jsonschema.ValidationError
	for _, cause := range err.Causes {
		leaves = append(leaves, collectLeaves(cause)...)
	}
	return leaves
}

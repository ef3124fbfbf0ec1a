package project

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// documentSchema is the structural contract a loaded document must meet
// after migration. It checks shape, not semantics: required top-level
// keys, list-shaped collections, dictionary-shaped color map.
const documentSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["version", "metadata", "mainObject", "adjacentObjects", "colorPalette", "undoRedoHistory"],
  "properties": {
    "version": {"type": "string", "pattern": "^[0-9]+\\.[0-9]+\\.[0-9]+$"},
    "metadata": {
      "type": "object",
      "required": ["createdAt", "updatedAt", "gridSizeX", "gridSizeY"],
      "properties": {
        "createdAt": {"type": "string"},
        "updatedAt": {"type": "string"},
        "gridSizeX": {"type": "integer"},
        "gridSizeY": {"type": "integer"}
      }
    },
    "mainObject": {
      "type": "object",
      "required": ["voxels", "colors"],
      "properties": {
        "voxels": {"type": "array"},
        "colors": {"type": "object", "additionalProperties": {"type": "string"}}
      }
    },
    "adjacentObjects": {"type": "array"},
    "colorPalette": {"type": "array"},
    "undoRedoHistory": {"type": "array"}
  }
}`

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource("project.schema.json", strings.NewReader(documentSchema)); err != nil {
			schemaErr = err
			return
		}
		schema, schemaErr = c.Compile("project.schema.json")
	})
	return schema, schemaErr
}

// ValidateDocument runs schema validation against the document's JSON
// form. Called after migration so healed documents pass.
func ValidateDocument(doc *Document) error {
	s, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	if err := s.Validate(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return nil
}

package world

import (
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// worldSchema checks the top-level shape of a world document before the
// loader starts pulling it apart. Entity-level referential checks belong to
// the structural validators, not here.
const worldSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "metadata": {
      "type": "object",
      "properties": {
        "title": {"type": "string"},
        "version": {"type": "string"},
        "description": {"type": "string"},
        "start_location": {"type": "string"},
        "requires_engine": {"type": "string"},
        "extra_turn_phases": {"type": "array", "items": {"type": "string"}}
      }
    },
    "locations": {"type": "array", "items": {"$ref": "#/$defs/entity"}},
    "items": {"type": "array", "items": {"$ref": "#/$defs/entity"}},
    "actors": {"type": "object", "additionalProperties": {"type": "object"}},
    "locks": {"type": "array", "items": {"$ref": "#/$defs/entity"}},
    "parts": {"type": "array", "items": {"$ref": "#/$defs/entity"}},
    "exits": {"type": "array", "items": {"$ref": "#/$defs/entity"}},
    "extra": {"type": "object"},
    "turn_count": {"type": "integer", "minimum": 0}
  },
  "$defs": {
    "entity": {
      "type": "object",
      "required": ["id"],
      "properties": {
        "id": {"type": "string", "minLength": 1},
        "name": {"type": "string"}
      }
    }
  }
}`

var compiledWorldSchema = mustCompileWorldSchema()

func mustCompileWorldSchema() *jsonschema.Schema {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(worldSchema))
	if err != nil {
		panic(fmt.Sprintf("world schema is not valid JSON: %v", err))
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("world.schema.json", doc); err != nil {
		panic(fmt.Sprintf("world schema resource: %v", err))
	}
	s, err := c.Compile("world.schema.json")
	if err != nil {
		panic(fmt.Sprintf("world schema compile: %v", err))
	}
	return s
}

// checkWorldShape validates the decoded document against the embedded schema.
func checkWorldShape(doc any) error {
	if err := compiledWorldSchema.Validate(doc); err != nil {
		return fmt.Errorf("world file failed schema validation: %w", err)
	}
	return nil
}

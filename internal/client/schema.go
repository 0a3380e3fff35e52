package client

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// listSchema pins the shape of the listing payload. Validation is opt-in
// (catalog.validate_responses) and meant for diagnosing a misbehaving
// upstream, not for the happy path.
const listSchema = `{
  "type": "object",
  "required": ["items", "total", "total_pages"],
  "properties": {
    "items": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "title"],
        "properties": {
          "id": {"type": "string"},
          "title": {"type": "string"},
          "author": {"type": "string"},
          "genre": {"type": "string"},
          "description": {"type": "string"},
          "rating": {"type": "number", "minimum": 0, "maximum": 5},
          "available": {"type": "boolean"},
          "created_at": {"type": "string"}
        }
      }
    },
    "total": {"type": "integer", "minimum": 0},
    "total_pages": {"type": "integer", "minimum": 0}
  }
}`

var listSchemaLoader = gojsonschema.NewStringLoader(listSchema)

func validateListPayload(data []byte) error {
	result, err := gojsonschema.Validate(listSchemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("schema check: %w", err)
	}
	if !result.Valid() {
		first := result.Errors()[0]
		return fmt.Errorf("payload violates contract: %s", first.String())
	}
	return nil
}

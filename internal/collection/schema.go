package collection

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaURL = "collection.schema.json"

// collectionSchema describes the subset of the Postman v2.1 layout volley reads.
const collectionSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["item"],
  "properties": {
    "info": {
      "type": "object",
      "properties": {"name": {"type": "string"}}
    },
    "auth": {"$ref": "#/$defs/auth"},
    "variable": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["key"],
        "properties": {"key": {"type": "string"}}
      }
    },
    "item": {"type": "array", "items": {"$ref": "#/$defs/item"}}
  },
  "$defs": {
    "item": {
      "type": "object",
      "properties": {
        "name": {"type": "string"},
        "auth": {"$ref": "#/$defs/auth"},
        "item": {"type": "array", "items": {"$ref": "#/$defs/item"}},
        "request": {"$ref": "#/$defs/request"}
      },
      "oneOf": [
        {"required": ["item"]},
        {"required": ["request"]}
      ]
    },
    "request": {
      "oneOf": [
        {"type": "string", "minLength": 1},
        {
          "type": "object",
          "required": ["url"],
          "properties": {
            "method": {"type": "string"},
            "url": {
              "oneOf": [
                {"type": "string", "minLength": 1},
                {"type": "object", "required": ["raw"], "properties": {"raw": {"type": "string", "minLength": 1}}}
              ]
            },
            "header": {
              "type": "array",
              "items": {
                "type": "object",
                "required": ["key"],
                "properties": {
                  "key": {"type": "string", "minLength": 1},
                  "disabled": {"type": "boolean"}
                }
              }
            },
            "body": {
              "type": "object",
              "properties": {"mode": {"type": "string"}}
            },
            "auth": {"$ref": "#/$defs/auth"}
          }
        }
      ]
    },
    "auth": {
      "type": "object",
      "required": ["type"],
      "properties": {"type": {"type": "string", "minLength": 1}}
    }
  }
}`

var compiledSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, strings.NewReader(collectionSchema)); err != nil {
		panic(fmt.Sprintf("invalid collection schema: %v", err))
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		panic(fmt.Sprintf("invalid collection schema: %v", err))
	}
	return schema
}

// ValidationErrors lists every schema violation found in a collection.
type ValidationErrors []error

// Error implements the error interface for ValidationErrors
func (ve ValidationErrors) Error() string {
	var sb strings.Builder
	for i, err := range ve {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(err.Error())
	}
	return sb.String()
}

// Validate checks a normalized JSON collection against the collection schema.
func Validate(data []byte) error {
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	err := compiledSchema.Validate(doc)
	if err == nil {
		return nil
	}

	if validationErr, ok := err.(*jsonschema.ValidationError); ok {
		return extractValidationErrors(validationErr)
	}
	return ValidationErrors{err}
}

// extractValidationErrors keeps the leaves of the error tree, which name the
// offending location.
func extractValidationErrors(err *jsonschema.ValidationError) ValidationErrors {
	if len(err.Causes) == 0 {
		location := err.InstanceLocation
		if location == "" {
			location = "/"
		}
		return ValidationErrors{fmt.Errorf("%s: %s", location, err.Message)}
	}

	var errors ValidationErrors
	for _, cause := range err.Causes {
		errors = append(errors, extractValidationErrors(cause)...)
	}
	return errors
}

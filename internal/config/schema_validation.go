package config

import (
	"bytes"
	_ "embed"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed schemas/config.schema.json
var configSchema []byte

// schemaCompiler is cached to avoid recompiling the schema on every validation
var schemaCompiler *jsonschema.Schema

func compileSchema() (*jsonschema.Schema, error) {
	if schemaCompiler != nil {
		return schemaCompiler, nil
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020

	if err := compiler.AddResource("config.schema.json", bytes.NewReader(configSchema)); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}

	schema, err := compiler.Compile("config.schema.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	schemaCompiler = schema
	return schema, nil
}

// ValidateYAML validates YAML content against the embedded JSON schema
func ValidateYAML(yamlContent []byte) error {
	schema, err := compileSchema()
	if err != nil {
		return err
	}

	// Parse YAML to a generic value for validation
	var data interface{}
	if err := yaml.Unmarshal(yamlContent, &data); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := schema.Validate(normalizeForSchema(data)); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}

	return nil
}

// normalizeForSchema converts yaml.v3's map[string]interface{} trees into
// the shapes the jsonschema validator expects (it already handles both,
// but nested map[interface{}]interface{} from older documents does not
// validate). Values pass through unchanged otherwise.
func normalizeForSchema(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[k] = normalizeForSchema(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = normalizeForSchema(item)
		}
		return out
	default:
		return v
	}
}

package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
)

//go:embed schema.json
var embeddedSchema string

// VerifyAgainstEmbeddedSchema checks that every property required by embedded JSON schema
// is set in the config
func VerifyAgainstEmbeddedSchema(cfg *Config) error {
	var schema jsonschema.Schema
	if err := json.Unmarshal([]byte(embeddedSchema), &schema); err != nil {
		return fmt.Errorf("parse embedded schema: %w", err)
	}

	// convert config to JSON for validation
	configData, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	var configMap map[string]any
	if err := json.Unmarshal(configData, &configMap); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}

	root, err := resolve(&schema, &schema)
	if err != nil {
		return err
	}
	return checkRequired(&schema, root, configMap, "")
}

// resolve follows local "#/$defs/Name" reference
func resolve(root, s *jsonschema.Schema) (*jsonschema.Schema, error) {
	if s.Ref == "" {
		return s, nil
	}
	name := strings.TrimPrefix(s.Ref, "#/$defs/")
	def, ok := root.Definitions[name]
	if !ok {
		return nil, fmt.Errorf("unknown schema reference %s", s.Ref)
	}
	return def, nil
}

// checkRequired walks object schema and reports the first required property with empty value
func checkRequired(root, s *jsonschema.Schema, values map[string]any, path string) error {
	for _, name := range s.Required {
		if isEmpty(values[name]) {
			return fmt.Errorf("%s%s is required", path, name)
		}
	}
	if s.Properties == nil {
		return nil
	}
	for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
		nested, ok := values[pair.Key].(map[string]any)
		if !ok {
			continue
		}
		prop, err := resolve(root, pair.Value)
		if err != nil {
			return err
		}
		if err := checkRequired(root, prop, nested, path+pair.Key+"."); err != nil {
			return err
		}
	}
	return nil
}

func isEmpty(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case float64:
		return val == 0
	default:
		return false
	}
}

// GenerateSchema generates a JSON schema for the Config struct, required properties
// come from jsonschema tags
func GenerateSchema() *jsonschema.Schema {
	r := jsonschema.Reflector{RequiredFromJSONSchemaTags: true}
	return r.Reflect(&Config{})
}

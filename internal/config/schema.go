package config

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// RulesSchema returns a JSON Schema describing orbitshell_rules.json.
func RulesSchema() *jsonschema.Schema {
	r := jsonschema.Reflector{ExpandedStruct: true, DoNotReference: true}
	sch := r.Reflect(&Rules{})
	sch.Title = "orbitshell search rules"
	sch.Description = "Optional file; missing or malformed files fall back to built-in defaults."
	return sch
}

// MarshalSchema indents the schema to JSON bytes.
func MarshalSchema(sch *jsonschema.Schema) ([]byte, error) {
	return json.MarshalIndent(sch, "", "  ")
}

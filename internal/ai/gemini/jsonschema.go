package gemini

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"google.golang.org/genai"
)

// SchemaViolation lists the fields of a provider answer that failed validation.
type SchemaViolation struct {
	Fields []FieldError
}

// FieldError is a single validation failure at a field path.
type FieldError struct {
	Field   string
	Message string
}

func (v *SchemaViolation) Error() string {
	var sb strings.Builder
	sb.WriteString("schema validation failed:")
	for i, f := range v.Fields {
		sb.WriteString(fmt.Sprintf(" %d. %s: %s;", i+1, f.Field, f.Message))
	}
	return sb.String()
}

// validateAgainst checks document (JSON text) against the provider schema.
func validateAgainst(schema *genai.Schema, document string) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(toJSONSchema(schema)),
		gojsonschema.NewStringLoader(document),
	)
	if err != nil {
		return fmt.Errorf("validate gemini response: %w", err)
	}

	if result.Valid() {
		return nil
	}

	violation := &SchemaViolation{Fields: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		violation.Fields = append(violation.Fields, FieldError{Field: field, Message: desc.Description()})
	}
	return violation
}

// toJSONSchema converts the provider schema dialect into draft-07 JSON Schema.
func toJSONSchema(s *genai.Schema) map[string]any {
	out := map[string]any{}
	if s == nil {
		return out
	}

	if s.Type != "" && s.Type != "TYPE_UNSPECIFIED" {
		typ := strings.ToLower(string(s.Type))
		if s.Nullable != nil && *s.Nullable {
			out["type"] = []string{typ, "null"}
		} else {
			out["type"] = typ
		}
	}

	if len(s.Properties) > 0 {
		props := make(map[string]any, len(s.Properties))
		for name, prop := range s.Properties {
			props[name] = toJSONSchema(prop)
		}
		out["properties"] = props
	}

	if len(s.Required) > 0 {
		out["required"] = append([]string(nil), s.Required...)
	}

	if s.Items != nil {
		out["items"] = toJSONSchema(s.Items)
	}

	if len(s.Enum) > 0 {
		out["enum"] = append([]string(nil), s.Enum...)
	}

	if s.Minimum != nil {
		out["minimum"] = *s.Minimum
	}

	if s.Maximum != nil {
		out["maximum"] = *s.Maximum
	}

	return out
}

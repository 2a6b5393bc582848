package tools

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/genui/genui/internal/errorsx"
	"github.com/invopop/jsonschema"
	"github.com/mitchellh/mapstructure"
	jsval "github.com/santhosh-tekuri/jsonschema/v5"
)

// Schema is a tool's argument schema: the JSON form advertised to the model
// plus a compiled validator for the arguments the model sends back.
type Schema struct {
	params   map[string]any
	compiled *jsval.Schema
}

// SchemaFor reflects the JSON schema of v, a pointer to the tool's input struct.
// Fields without omitempty are required; constraints come from jsonschema tags.
func SchemaFor(v any) (*Schema, error) {
	r := &jsonschema.Reflector{
		Anonymous:                 true,
		ExpandedStruct:            true,
		DoNotReference:            true,
		AllowAdditionalProperties: true,
	}
	raw, err := json.Marshal(r.Reflect(v))
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	var params map[string]any
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}
	// completion endpoints reject meta-schema keywords
	delete(params, "$schema")
	delete(params, "$id")

	raw, err = json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("marshal parameters: %w", err)
	}
	c := jsval.NewCompiler()
	c.Draft = jsval.Draft2020
	if err := c.AddResource("schema.json", bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	compiled, err := c.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Schema{params: params, compiled: compiled}, nil
}

// MustSchemaFor is SchemaFor for static input structs; it panics on error.
func MustSchemaFor(v any) *Schema {
	s, err := SchemaFor(v)
	if err != nil {
		panic(fmt.Sprintf("tools: schema for %T: %v", v, err))
	}
	return s
}

// Parameters returns the JSON schema object. Callers must not modify it.
func (s *Schema) Parameters() map[string]any {
	if s == nil {
		return map[string]any{"type": "object", "properties": map[string]any{}}
	}
	return s.params
}

// Validate checks args and reports every offending field as
// errorsx.KindInvalidToolArguments.
func (s *Schema) Validate(tool string, args map[string]any) error {
	if args == nil {
		args = map[string]any{}
	}
	doc, err := normalize(args)
	if err != nil {
		return errorsx.InvalidArguments(tool, []errorsx.FieldError{{Field: "(root)", Message: err.Error()}})
	}
	err = s.compiled.Validate(doc)
	if err == nil {
		return nil
	}
	var ve *jsval.ValidationError
	if errors.As(err, &ve) {
		return errorsx.InvalidArguments(tool, fieldErrors(ve))
	}
	return errorsx.InvalidArguments(tool, []errorsx.FieldError{{Field: "(root)", Message: err.Error()}})
}

// normalize round-trips args through encoding/json so the validator only
// sees JSON value types. Object members set to null are dropped: models send
// null for optional properties they leave unset, and a null required
// property is then reported as missing.
func normalize(args map[string]any) (any, error) {
	raw, err := json.Marshal(args)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	return dropNulls(doc), nil
}

func dropNulls(v any) any {
	switch v := v.(type) {
	case map[string]any:
		for k, item := range v {
			if item == nil {
				delete(v, k)
				continue
			}
			v[k] = dropNulls(item)
		}
	case []any:
		for i, item := range v {
			v[i] = dropNulls(item)
		}
	}
	return v
}

func fieldErrors(ve *jsval.ValidationError) []errorsx.FieldError {
	var out []errorsx.FieldError
	var walk func(*jsval.ValidationError)
	walk = func(e *jsval.ValidationError) {
		if len(e.Causes) > 0 {
			for _, c := range e.Causes {
				walk(c)
			}
			return
		}
		if names, ok := strings.CutPrefix(e.Message, "missing properties: "); ok {
			for _, name := range strings.Split(names, ", ") {
				out = append(out, errorsx.FieldError{
					Field:   joinField(e.InstanceLocation, strings.Trim(name, "'")),
					Message: "is required",
				})
			}
			return
		}
		out = append(out, errorsx.FieldError{Field: joinField(e.InstanceLocation, ""), Message: e.Message})
	}
	walk(ve)
	return out
}

// joinField turns a JSON pointer like /lineItems/0/quantity into lineItems.0.quantity.
func joinField(pointer, name string) string {
	parts := strings.FieldsFunc(pointer, func(r rune) bool { return r == '/' })
	if name != "" {
		parts = append(parts, name)
	}
	if len(parts) == 0 {
		return "(root)"
	}
	return strings.Join(parts, ".")
}

// bindArgs validates args and decodes them into out.
func bindArgs(schema *Schema, tool string, args map[string]any, out any) error {
	if err := schema.Validate(tool, args); err != nil {
		return err
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("new decoder: %w", err)
	}
	if err := dec.Decode(args); err != nil {
		return errorsx.InvalidArguments(tool, []errorsx.FieldError{{Field: "(root)", Message: err.Error()}})
	}
	return nil
}

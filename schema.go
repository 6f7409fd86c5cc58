// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/openrpcdoc

package openrpcdoc

import (
	"encoding/json"
	"sort"
	"strings"
)

// componentSchemaPrefix is the only reference prefix a document may use.
const componentSchemaPrefix = "#/components/schemas/"

// Schema is one JSON Schema node: either an object or a boolean schema.
type Schema struct {
	Object map[string]any
	Bool   *bool
}

// Ref returns the raw $ref value of the schema, if any.
func (s Schema) Ref() string {
	if s.Object == nil {
		return ""
	}

	return asString(s.Object["$ref"])
}

// RefName returns the component name referenced by the schema, if any.
func (s Schema) RefName() string {
	return SchemaRefName(s.Ref())
}

// Description returns the schema description text.
func (s Schema) Description() string {
	if s.Object == nil {
		return ""
	}

	return asString(s.Object["description"])
}

// Type returns the schema type keyword as display text.
func (s Schema) Type() string {
	if s.Object == nil {
		return ""
	}

	return typeString(s.Object["type"])
}

// Default returns the declared default value.
func (s Schema) Default() (any, bool) {
	if s.Object == nil {
		return nil, false
	}

	value, ok := s.Object["default"]
	if !ok {
		return nil, false
	}

	return deepCopyJSON(value), true
}

// Properties returns object property schemas.
func (s Schema) Properties() map[string]Schema {
	return nodeProperties(s)
}

// Required returns required property names.
func (s Schema) Required() []string {
	return nodeRequired(s)
}

// MarshalJSON encodes the schema node back to its JSON form.
func (s Schema) MarshalJSON() ([]byte, error) {
	if s.Bool != nil {
		return json.Marshal(*s.Bool)
	}

	if s.Object == nil {
		return []byte("{}"), nil
	}

	return json.Marshal(s.Object)
}

// isZero reports whether the node carries no schema at all.
func (s Schema) isZero() bool {
	return s.Object == nil && s.Bool == nil
}

// SchemaRefName extracts a component name from a local components reference.
func SchemaRefName(ref string) string {
	ref = strings.TrimSpace(ref)
	if !strings.HasPrefix(ref, componentSchemaPrefix) {
		return ""
	}

	path := strings.TrimPrefix(ref, componentSchemaPrefix)
	if path == "" {
		return ""
	}

	parts := strings.Split(path, "/")
	return decodeJSONPointerToken(parts[0])
}

// clone returns a deep copy of the node.
func (s Schema) clone() Schema {
	switch {
	case s.Object != nil:
		object, _ := deepCopyJSON(s.Object).(map[string]any)
		return Schema{Object: object}
	case s.Bool != nil:
		value := *s.Bool
		return Schema{Bool: &value}
	default:
		return s
	}
}

// toSchemaValue converts raw decoded JSON into a schema node.
func toSchemaValue(raw any) (Schema, bool) {
	switch typed := raw.(type) {
	case map[string]any:
		return Schema{Object: typed}, true
	case bool:
		value := typed
		return Schema{Bool: &value}, true
	default:
		return Schema{}, false
	}
}

// mapSchemaValues converts a raw JSON object of schemas into schema nodes.
func mapSchemaValues(raw any) map[string]Schema {
	object, ok := raw.(map[string]any)
	if !ok || len(object) == 0 {
		return nil
	}

	out := make(map[string]Schema, len(object))
	for key, value := range object {
		schema, ok := toSchemaValue(value)
		if !ok {
			continue
		}

		out[key] = schema
	}

	return out
}

// asString returns raw value as string or empty text.
func asString(raw any) string {
	text, _ := raw.(string)
	return text
}

// asSlice returns raw value as JSON array or nil.
func asSlice(raw any) []any {
	items, _ := raw.([]any)
	return items
}

// asStringSlice returns string items of a raw JSON array.
func asStringSlice(raw any) []string {
	items := asSlice(raw)
	if len(items) == 0 {
		return nil
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		text, ok := item.(string)
		if !ok {
			continue
		}

		out = append(out, text)
	}

	return out
}

// asBool returns raw value as bool with presence flag.
func asBool(raw any) (bool, bool) {
	value, ok := raw.(bool)
	return value, ok
}

// asObject returns raw value as JSON object or nil.
func asObject(raw any) map[string]any {
	object, _ := raw.(map[string]any)
	return object
}

// sortedKeys returns deterministic sorted keys of a JSON object.
func sortedKeys(values map[string]any) []string {
	out := make([]string, 0, len(values))
	for key := range values {
		out = append(out, key)
	}

	sort.Strings(out)
	return out
}

// nodeDescription extracts description from schema node object.
func nodeDescription(node Schema) string {
	return node.Description()
}

// nodeProperties extracts child property schemas from schema node object.
func nodeProperties(node Schema) map[string]Schema {
	if node.Object == nil {
		return nil
	}

	return mapSchemaValues(node.Object["properties"])
}

// nodeRequired extracts required property list from schema node object.
func nodeRequired(node Schema) []string {
	if node.Object == nil {
		return nil
	}

	return asStringSlice(node.Object["required"])
}

// primaryType returns the first non-null entry of the type keyword, or "null"
// when null is the only type.
func primaryType(object map[string]any) string {
	types := asStringSlice(object["type"])
	if text := asString(object["type"]); text != "" {
		types = []string{text}
	}

	fallback := ""
	for _, name := range types {
		switch name = strings.ToLower(name); name {
		case "":
		case "null":
			fallback = name
		default:
			return name
		}
	}

	return fallback
}

// deepCopyJSON copies the maps and slices of a decoded JSON value.
func deepCopyJSON(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[key] = deepCopyJSON(item)
		}

		return out
	case []any:
		out := make([]any, len(typed))
		for index, item := range typed {
			out[index] = deepCopyJSON(item)
		}

		return out
	default:
		return value
	}
}

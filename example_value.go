// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/openrpcdoc

package openrpcdoc

import (
	"maps"
	"strings"
)

// typePlaceholders are values for schemas that carry no literal hint.
var typePlaceholders = map[string]any{
	"string":  "<string>",
	"number":  0,
	"integer": 0,
	"boolean": false,
	"null":    nil,
}

// valueBuilder synthesizes placeholder values from schemas of one document.
type valueBuilder struct {
	doc  *Document
	mode ExampleMode
	// expanding holds references on the current path; re-entering one yields null.
	expanding map[string]bool
}

func newValueBuilder(doc *Document, mode ExampleMode) *valueBuilder {
	return &valueBuilder{doc: doc, mode: mode, expanding: make(map[string]bool)}
}

// value builds a placeholder for one schema node.
//
// Objects get their declared properties (merged over allOf), arrays get one
// element or one per tuple position, scalars take the first of default,
// examples, example, const and enum, then the first union branch, then a
// placeholder for their type.
func (b *valueBuilder) value(node Schema) any {
	object, done := b.expand(node)
	defer done()

	if object == nil {
		return nil
	}

	if asString(object["$ref"]) != "" {
		return b.value(Schema{Object: object})
	}

	schemaType := primaryType(object)
	if properties, required := b.shape(Schema{Object: object}); schemaType == "object" || len(properties) > 0 || len(required) > 0 {
		return b.object(properties, required)
	}

	if schemaType == "array" || isArrayShaped(object) {
		return b.array(object)
	}

	if hints := literalHints(object); len(hints) > 0 {
		return deepCopyJSON(hints[0])
	}

	for _, keyword := range []string{"oneOf", "anyOf", "allOf"} {
		for _, raw := range asSlice(object[keyword]) {
			if branch, ok := toSchemaValue(raw); ok {
				return b.value(branch)
			}
		}
	}

	return typePlaceholders[schemaType]
}

func (b *valueBuilder) object(properties map[string]Schema, required map[string]bool) map[string]any {
	out := make(map[string]any, len(properties))
	for name, property := range properties {
		if b.mode == ExampleModeRequired && !required[name] {
			continue
		}

		out[name] = b.value(property)
	}

	return out
}

func (b *valueBuilder) array(object map[string]any) []any {
	for _, hint := range literalHints(object) {
		if items, ok := hint.([]any); ok {
			return deepCopyJSON(items).([]any)
		}
	}

	if positions := tupleItems(object); len(positions) > 0 {
		out := make([]any, len(positions))
		for index, raw := range positions {
			if item, ok := toSchemaValue(raw); ok {
				out[index] = b.value(item)
			}
		}

		return out
	}

	if item, ok := toSchemaValue(object["items"]); ok {
		return []any{b.value(item)}
	}

	return []any{}
}

// shape merges properties and required names of a schema with those of its
// allOf branches. Properties declared closer to the root win.
func (b *valueBuilder) shape(node Schema) (map[string]Schema, map[string]bool) {
	object, done := b.expand(node)
	defer done()

	if object == nil {
		return nil, nil
	}

	if asString(object["$ref"]) != "" {
		return b.shape(Schema{Object: object})
	}

	properties := make(map[string]Schema)
	maps.Copy(properties, mapSchemaValues(object["properties"]))

	required := make(map[string]bool)
	for _, name := range asStringSlice(object["required"]) {
		if name = strings.TrimSpace(name); name != "" {
			required[name] = true
		}
	}

	for _, raw := range asSlice(object["allOf"]) {
		branch, ok := toSchemaValue(raw)
		if !ok {
			continue
		}

		branchProperties, branchRequired := b.shape(branch)
		for name, property := range branchProperties {
			if _, exists := properties[name]; !exists {
				properties[name] = property
			}
		}

		maps.Copy(required, branchRequired)
	}

	return properties, required
}

// expand resolves a local $ref and layers sibling keywords over the target.
// It returns nil for boolean schemas and for references already being expanded;
// the returned func must be called once the caller is done with the object.
func (b *valueBuilder) expand(node Schema) (map[string]any, func()) {
	release := func() {}
	if node.Object == nil {
		return nil, release
	}

	ref := strings.TrimSpace(asString(node.Object["$ref"]))
	if ref == "" {
		return node.Object, release
	}

	target, ok := resolveJSONPointer(b.doc.raw, ref)
	targetObject, isObject := target.(map[string]any)
	if !ok || !isObject {
		return overlaySchema(nil, node.Object), release
	}

	if b.expanding[ref] {
		return nil, release
	}

	b.expanding[ref] = true
	return overlaySchema(targetObject, node.Object), func() { delete(b.expanding, ref) }
}

// overlaySchema copies base and then every keyword of overlay except $ref.
func overlaySchema(base, overlay map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(overlay))
	maps.Copy(out, base)
	for key, value := range overlay {
		if key != "$ref" {
			out[key] = value
		}
	}

	return out
}

// literalHints lists literal values a schema suggests, most preferred first.
func literalHints(object map[string]any) []any {
	var hints []any
	if value, ok := object["default"]; ok {
		hints = append(hints, value)
	}

	if examples := asSlice(object["examples"]); len(examples) > 0 {
		hints = append(hints, examples[0])
	}

	for _, keyword := range []string{"example", "const"} {
		if value, ok := object[keyword]; ok {
			hints = append(hints, value)
		}
	}

	if values := asSlice(object["enum"]); len(values) > 0 {
		hints = append(hints, values[0])
	}

	return hints
}

func isArrayShaped(object map[string]any) bool {
	_, single := toSchemaValue(object["items"])
	return single || len(tupleItems(object)) > 0
}

// tupleItems returns positional item schemas from prefixItems or array-form items.
func tupleItems(object map[string]any) []any {
	if items := asSlice(object["prefixItems"]); len(items) > 0 {
		return items
	}

	return asSlice(object["items"])
}

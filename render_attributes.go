// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/openrpcdoc

package openrpcdoc

import (
	"fmt"
	"strconv"
	"strings"
)

// attributeRule renders one keyword into a labeled attribute when present.
type attributeRule struct {
	keyword string
	label   string
	render  func(value any) string
}

// scalarAttributeRules are rendered in order after type, requiredness and reference.
var scalarAttributeRules = []attributeRule{
	{keyword: "title", label: "Title", render: inlineCode},
	{keyword: "default", label: "Default", render: inlineCodeJSON},
	{keyword: "enum", label: "Enum", render: func(value any) string { return jsonList(asSlice(value)) }},
	{keyword: "const", label: "Const", render: inlineCodeJSON},
	{keyword: "examples", label: "Examples", render: func(value any) string { return jsonList(asSlice(value)) }},
	{keyword: "format", label: "Format", render: inlineCode},
	{keyword: "readOnly", label: "Read only", render: yesNoValue},
	{keyword: "writeOnly", label: "Write only", render: yesNoValue},
	{keyword: "deprecated", label: "Deprecated", render: yesNoValue},
	{keyword: "contentEncoding", label: "Content encoding", render: inlineCode},
	{keyword: "contentMediaType", label: "Content media type", render: inlineCode},
}

// nestedAttributeRules summarize keywords holding subschemas.
var nestedAttributeRules = []attributeRule{
	{keyword: "items", label: "Items", render: summarizeSchemaLike},
	{keyword: "additionalItems", label: "Additional items", render: summarizeSchemaLike},
	{keyword: "contains", label: "Contains", render: summarizeSchemaLike},
	{keyword: "additionalProperties", label: "Additional properties", render: summarizeSchemaLike},
	{keyword: "propertyNames", label: "Property names", render: summarizeSchemaLike},
	{keyword: "not", label: "Not", render: summarizeSchemaLike},
}

// constraintKeywords are printed as key=value pairs in declaration order.
var constraintKeywords = []string{
	"minimum",
	"maximum",
	"exclusiveMinimum",
	"exclusiveMaximum",
	"multipleOf",
	"minLength",
	"maxLength",
	"pattern",
	"minItems",
	"maxItems",
	"uniqueItems",
	"minProperties",
	"maxProperties",
}

// knownSchemaKeywords lists keywords excluded from the "other keywords" attribute.
var knownSchemaKeywords = func() map[string]struct{} {
	known := map[string]struct{}{
		"$schema": {}, "$id": {}, "$ref": {}, "$comment": {}, "definitions": {},
		"type": {}, "description": {}, "required": {}, "properties": {}, "patternProperties": {},
		"allOf": {}, "anyOf": {}, "oneOf": {}, "if": {}, "then": {}, "else": {},
		"dependencies": {},
	}

	for _, rules := range [][]attributeRule{scalarAttributeRules, nestedAttributeRules} {
		for _, rule := range rules {
			known[rule.keyword] = struct{}{}
		}
	}

	for _, keyword := range constraintKeywords {
		known[keyword] = struct{}{}
	}

	return known
}()

// schemaAttributes renders flat attribute list for one schema node.
func schemaAttributes(node Schema, required *bool) []attributeView {
	out := make([]attributeView, 0, 16)
	add := func(name, value string) {
		if value != "" {
			out = append(out, attributeView{Name: name, Value: value})
		}
	}

	if node.Bool != nil {
		if required != nil {
			add("Required", yesNo(*required))
		}

		add("Boolean schema", strconv.FormatBool(*node.Bool))
		return out
	}

	obj := node.Object
	add("Type", schemaTypeLabel(obj))
	if required != nil {
		add("Required", yesNo(*required))
	}

	if obj == nil {
		return out
	}

	if ref := asString(obj["$ref"]); ref != "" {
		add("Reference", referenceLink(ref))
	}

	for _, rule := range scalarAttributeRules {
		if value, ok := obj[rule.keyword]; ok {
			add(rule.label, rule.render(value))
		}
	}

	for _, keyword := range []string{"oneOf", "anyOf", "allOf"} {
		if variants := asSlice(obj[keyword]); len(variants) > 0 {
			add(unionLabel(keyword), variantList(variants))
		}
	}

	for _, rule := range nestedAttributeRules {
		if value, ok := obj[rule.keyword]; ok {
			add(rule.label, rule.render(value))
		}
	}

	if properties := mapSchemaValues(obj["properties"]); len(properties) > 0 {
		add("Properties", strconv.Itoa(len(properties)))
	}

	if properties := mapSchemaValues(obj["patternProperties"]); len(properties) > 0 {
		add("Pattern properties", strconv.Itoa(len(properties)))
	}

	add("Conditional", conditionalSummary(obj))
	add("Constraints", strings.Join(constraintList(obj), "; "))
	if value := asString(obj["$comment"]); value != "" {
		add("Comment", inlineCode(value))
	}

	add("Other keywords", strings.Join(otherKeywordList(obj), "; "))
	return out
}

// schemaTypeLabel describes the value shape of one schema object.
// References and arrays of references are rendered as links to components.
func schemaTypeLabel(obj map[string]any) string {
	if obj == nil {
		return ""
	}

	typeText := typeString(obj["type"])
	if typeText == "array" {
		if items, ok := toSchemaValue(obj["items"]); ok {
			if ref := items.Ref(); ref != "" {
				return "array of " + referenceLink(ref)
			}

			if itemType := items.Type(); itemType != "" {
				return "array of " + inlineCode(itemType)
			}
		}
	}

	if typeText != "" {
		return inlineCode(typeText)
	}

	if ref := asString(obj["$ref"]); ref != "" {
		return referenceLink(ref)
	}

	for _, keyword := range []string{"oneOf", "anyOf"} {
		if len(asSlice(obj[keyword])) > 0 {
			return "union"
		}
	}

	return ""
}

// unionLabel names composition keywords for readers.
func unionLabel(keyword string) string {
	switch keyword {
	case "oneOf":
		return "One of"
	case "anyOf":
		return "Any of"
	default:
		return "All of"
	}
}

// variantList summarizes each union branch on one line.
func variantList(variants []any) string {
	parts := make([]string, 0, len(variants))
	for _, variant := range variants {
		parts = append(parts, variantSummary(variant))
	}

	return strings.Join(parts, ", ")
}

// variantSummary names a union branch by its reference, tag key, enum values or type.
func variantSummary(value any) string {
	object := asObject(value)
	if object == nil {
		return summarizeSchemaLike(value)
	}

	if ref := asString(object["$ref"]); ref != "" {
		return referenceLink(ref)
	}

	if enum := asSlice(object["enum"]); len(enum) > 0 {
		return jsonList(enum)
	}

	if required := asStringSlice(object["required"]); len(required) == 1 {
		return inlineCode(required[0]) + " object"
	}

	if properties := mapSchemaValues(object["properties"]); len(properties) == 1 {
		return inlineCode(sortedSchemaValueKeys(properties)[0]) + " object"
	}

	if typeText := typeString(object["type"]); typeText != "" {
		return inlineCode(typeText)
	}

	return "inline schema"
}

// referenceLink renders a component reference as a markdown link to its section.
func referenceLink(ref string) string {
	name := SchemaRefName(ref)
	if name == "" {
		return inlineCode(ref)
	}

	return fmt.Sprintf("[%s](#%s)", inlineCode(name), markdownHeadingAnchor(name))
}

// summarizeSchemaLike provides compact markdown text for schema-like value.
func summarizeSchemaLike(value any) string {
	switch typed := value.(type) {
	case bool:
		return "boolean schema=" + strconv.FormatBool(typed)
	case map[string]any:
		if ref := asString(typed["$ref"]); ref != "" {
			return referenceLink(ref)
		}

		if label := schemaTypeLabel(typed); label != "" {
			return label
		}

		return "inline schema"
	case []any:
		parts := make([]string, 0, len(typed))
		for _, item := range typed {
			parts = append(parts, summarizeSchemaLike(item))
		}

		return "tuple (" + strings.Join(parts, ", ") + ")"
	default:
		return inlineCodeJSON(typed)
	}
}

// conditionalSummary renders one-line summary for if/then/else usage.
func conditionalSummary(node map[string]any) string {
	items := make([]string, 0, 3)
	for _, keyword := range []string{"if", "then", "else"} {
		if _, ok := node[keyword]; ok {
			items = append(items, keyword)
		}
	}

	return strings.Join(items, ", ")
}

// constraintList renders numeric and string constraints as deterministic key/value pairs.
func constraintList(node map[string]any) []string {
	out := make([]string, 0, len(constraintKeywords))
	for _, key := range constraintKeywords {
		if value, ok := node[key]; ok {
			out = append(out, key+"="+inlineJSON(value))
		}
	}

	return out
}

// otherKeywordList lists keywords that were not rendered in known attributes.
func otherKeywordList(node map[string]any) []string {
	out := make([]string, 0)
	for _, key := range sortedKeys(node) {
		if _, ok := knownSchemaKeywords[key]; ok {
			continue
		}

		out = append(out, key+"="+inlineJSON(node[key]))
	}

	return out
}

// typeString converts JSON Schema type field to display string.
func typeString(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case []any:
		parts := make([]string, 0, len(typed))
		for _, item := range typed {
			parts = append(parts, fmt.Sprint(item))
		}

		return strings.Join(parts, " | ")
	default:
		return inlineJSON(typed)
	}
}

func inlineCode(value any) string {
	text := strings.TrimSpace(fmt.Sprint(value))
	if text == "" {
		return ""
	}

	return "`" + escapeInline(text) + "`"
}

// inlineCodeJSON wraps compact JSON of a value in a code span.
func inlineCodeJSON(value any) string {
	return "`" + escapeInline(inlineJSON(value)) + "`"
}

func yesNoValue(value any) string {
	flag, ok := asBool(value)
	if !ok {
		return inlineCodeJSON(value)
	}

	return yesNo(flag)
}

// yesNo renders bool as "yes" or "no".
func yesNo(value bool) string {
	if value {
		return "yes"
	}

	return "no"
}

// jsonList renders JSON values list into comma-separated inline code tokens.
func jsonList(values []any) string {
	parts := make([]string, 0, len(values))
	for _, item := range values {
		parts = append(parts, inlineCodeJSON(item))
	}

	return strings.Join(parts, ", ")
}

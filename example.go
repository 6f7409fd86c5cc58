// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/openrpcdoc

package openrpcdoc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ExampleMode configures which object properties generated examples carry.
type ExampleMode string

const (
	// ExampleModeAll fills every declared property.
	ExampleModeAll ExampleMode = "all"
	// ExampleModeRequired fills required properties and required params only.
	ExampleModeRequired ExampleMode = "required"
)

// ExampleFormat configures the encoding of generated examples.
type ExampleFormat string

const (
	// ExampleFormatJSON encodes examples as indented JSON.
	ExampleFormatJSON ExampleFormat = "json"
	// ExampleFormatYAML encodes examples as YAML with schema descriptions as comments.
	ExampleFormatYAML ExampleFormat = "yaml"
)

// GenerateSchemaExample returns a placeholder payload for one component schema.
func (d *Document) GenerateSchemaExample(name string, mode ExampleMode, format ExampleFormat) ([]byte, error) {
	mode, format, err := normalizeExampleOptions(mode, format)
	if err != nil {
		return nil, err
	}

	schema, ok := d.Schema(name)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownSchema, name)
	}

	builder := newValueBuilder(d, mode)
	value := builder.value(schema)

	if format == ExampleFormatJSON {
		return encodeExampleJSON(value)
	}

	root, err := yamlNodeFor(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodeExampleYAML, err)
	}

	builder.annotate(root, schema)
	return encodeExampleYAML(root)
}

// GenerateParamsExample returns a placeholder by-name params object for one
// method. Keys follow declared param order, so the object can be pasted into
// a JSON-RPC request as is.
func (d *Document) GenerateParamsExample(methodName string, mode ExampleMode, format ExampleFormat) ([]byte, error) {
	mode, format, err := normalizeExampleOptions(mode, format)
	if err != nil {
		return nil, err
	}

	method, ok := d.Method(methodName)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownMethod, methodName)
	}

	builder := newValueBuilder(d, mode)
	params := make([]ExampleObject, 0, len(method.Params))
	for _, param := range method.Params {
		if mode == ExampleModeRequired && !param.Required {
			continue
		}

		params = append(params, ExampleObject{Name: param.Name, Value: builder.value(param.Schema)})
	}

	if format == ExampleFormatJSON {
		data, err := marshalOrderedObjectJSON(params)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrEncodeExampleJSON, err)
		}

		return data, nil
	}

	root := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, param := range params {
		valueNode, err := yamlNodeFor(param.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrEncodeExampleYAML, err)
		}

		keyNode := yamlScalar("!!str", param.Name)
		if descriptor, ok := method.Param(param.Name); ok {
			keyNode.HeadComment = descriptorComment(descriptor)
			builder.annotate(valueNode, descriptor.Schema)
		}

		root.Content = append(root.Content, keyNode, valueNode)
	}

	return encodeExampleYAML(root)
}

func normalizeExampleOptions(mode ExampleMode, format ExampleFormat) (ExampleMode, ExampleFormat, error) {
	mode, err := normalizeExampleMode(mode)
	if err != nil {
		return "", "", err
	}

	format, err = normalizeExampleFormat(format)
	if err != nil {
		return "", "", err
	}

	return mode, format, nil
}

func normalizeExampleMode(mode ExampleMode) (ExampleMode, error) {
	switch normalized := ExampleMode(strings.ToLower(strings.TrimSpace(string(mode)))); normalized {
	case ExampleModeAll, ExampleModeRequired:
		return normalized, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownExampleMode, mode)
	}
}

func normalizeExampleFormat(format ExampleFormat) (ExampleFormat, error) {
	switch normalized := ExampleFormat(strings.ToLower(strings.TrimSpace(string(format)))); normalized {
	case ExampleFormatJSON, ExampleFormatYAML:
		return normalized, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownExampleFormat, format)
	}
}

// descriptorComment is the YAML head comment of one param key.
func descriptorComment(descriptor ContentDescriptor) string {
	text := strings.TrimSpace(descriptor.Description)
	if text == "" {
		text = strings.TrimSpace(descriptor.Schema.Description())
	}

	switch {
	case descriptor.Required:
	case text == "":
		text = "optional"
	default:
		text += " (optional)"
	}

	return commentText(text)
}

func encodeExampleJSON(value any) ([]byte, error) {
	data, err := marshalIndentedJSON(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodeExampleJSON, err)
	}

	return data, nil
}

func encodeExampleYAML(node *yaml.Node) ([]byte, error) {
	data, err := marshalYAMLDocument(node)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodeExampleYAML, err)
	}

	return data, nil
}

// marshalOrderedObjectJSON encodes named values as one indented JSON object,
// keeping slice order instead of sorting keys.
func marshalOrderedObjectJSON(values []ExampleObject) ([]byte, error) {
	var compact bytes.Buffer
	compact.WriteByte('{')
	for index, item := range values {
		if index > 0 {
			compact.WriteByte(',')
		}

		key, err := marshalCompactJSON(item.Name)
		if err != nil {
			return nil, err
		}

		value, err := marshalCompactJSON(item.Value)
		if err != nil {
			return nil, err
		}

		compact.Write(key)
		compact.WriteByte(':')
		compact.Write(value)
	}
	compact.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", "  "); err != nil {
		return nil, err
	}

	out.WriteByte('\n')
	return out.Bytes(), nil
}

// marshalCompactJSON encodes one value on a single line without HTML escaping.
func marshalCompactJSON(value any) ([]byte, error) {
	var out bytes.Buffer
	encoder := json.NewEncoder(&out)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(value); err != nil {
		return nil, err
	}

	return bytes.TrimRight(out.Bytes(), "\n"), nil
}

// marshalIndentedJSON encodes a value with two-space indent and a trailing newline.
func marshalIndentedJSON(value any) ([]byte, error) {
	var out bytes.Buffer
	encoder := json.NewEncoder(&out)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(value); err != nil {
		return nil, err
	}

	return out.Bytes(), nil
}

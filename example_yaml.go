// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/openrpcdoc

package openrpcdoc

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// annotate copies titles and descriptions of property schemas onto YAML keys
// as head comments, following the schema down through objects and arrays.
func (b *valueBuilder) annotate(node *yaml.Node, schema Schema) {
	object, done := b.expand(schema)
	defer done()

	if object == nil {
		return
	}

	switch node.Kind {
	case yaml.MappingNode:
		properties := mapSchemaValues(object["properties"])
		for index := 0; index+1 < len(node.Content); index += 2 {
			key := node.Content[index]
			property, ok := properties[key.Value]
			if !ok {
				continue
			}

			if comment := propertyComment(property); comment != "" {
				key.HeadComment = comment
			}

			b.annotate(node.Content[index+1], property)
		}
	case yaml.SequenceNode:
		item := sequenceItemSchema(object)
		for _, child := range node.Content {
			b.annotate(child, item)
		}
	}
}

// sequenceItemSchema picks the schema used to annotate every array element.
func sequenceItemSchema(object map[string]any) Schema {
	if item, ok := toSchemaValue(object["items"]); ok {
		return item
	}

	for _, raw := range tupleItems(object) {
		if item, ok := toSchemaValue(raw); ok {
			return item
		}
	}

	return Schema{}
}

func propertyComment(schema Schema) string {
	if schema.Object == nil {
		return ""
	}

	title := strings.TrimSpace(asString(schema.Object["title"]))
	description := strings.TrimSpace(asString(schema.Object["description"]))
	if title == description {
		return commentText(title)
	}

	return commentText(title, description)
}

// commentText joins the non-blank lines of parts into one comment body.
func commentText(parts ...string) string {
	var lines []string
	for _, part := range parts {
		for line := range strings.SplitSeq(part, "\n") {
			if strings.TrimSpace(line) != "" {
				lines = append(lines, line)
			}
		}
	}

	return strings.Join(lines, "\n")
}

// yamlNodeFor converts a decoded JSON value into a YAML node tree with sorted
// mapping keys. Numbers keep their literal text.
func yamlNodeFor(value any) (*yaml.Node, error) {
	switch typed := value.(type) {
	case nil:
		return yamlScalar("!!null", "null"), nil
	case bool:
		return yamlScalar("!!bool", strconv.FormatBool(typed)), nil
	case string:
		return yamlScalar("!!str", typed), nil
	case json.Number:
		if strings.ContainsAny(typed.String(), ".eE") {
			return yamlScalar("!!float", typed.String()), nil
		}

		return yamlScalar("!!int", typed.String()), nil
	case int:
		return yamlScalar("!!int", strconv.Itoa(typed)), nil
	case float64:
		return yamlScalar("!!float", strconv.FormatFloat(typed, 'g', -1, 64)), nil
	case map[string]any:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, key := range sortedKeys(typed) {
			child, err := yamlNodeFor(typed[key])
			if err != nil {
				return nil, err
			}

			node.Content = append(node.Content, yamlScalar("!!str", key), child)
		}

		return node, nil
	case []any:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range typed {
			child, err := yamlNodeFor(item)
			if err != nil {
				return nil, err
			}

			node.Content = append(node.Content, child)
		}

		return node, nil
	default:
		// Round-trip anything else through JSON into the types above.
		data, err := json.Marshal(typed)
		if err != nil {
			return nil, err
		}

		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.UseNumber()

		var generic any
		if err := decoder.Decode(&generic); err != nil {
			return nil, err
		}

		return yamlNodeFor(generic)
	}
}

func yamlScalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

// marshalYAMLDocument encodes a node as one YAML document with two-space indent.
func marshalYAMLDocument(node *yaml.Node) ([]byte, error) {
	var out bytes.Buffer
	encoder := yaml.NewEncoder(&out)
	encoder.SetIndent(2)

	document := &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{node}}
	if err := encoder.Encode(document); err != nil {
		return nil, err
	}

	if err := encoder.Close(); err != nil {
		return nil, err
	}

	return out.Bytes(), nil
}

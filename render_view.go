// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/openrpcdoc

package openrpcdoc

import (
	"encoding/json"
	"slices"
	"sort"
	"strings"
)

// maxPathsPerDefinition caps "used by" paths listed for one definition.
const maxPathsPerDefinition = 6

// definitionEdge is one graph edge from a definition property path to another definition.
type definitionEdge struct {
	Path   string
	Target string
}

// definitionPathState is one BFS queue item for definition path traversal.
type definitionPathState struct {
	Definition string
	Prefix     string
}

// buildRenderView prepares data for template rendering.
func buildRenderView(doc *Document, opt Options) (renderView, error) {
	if len(doc.Methods) == 0 && len(doc.Schemas) == 0 {
		return renderView{}, ErrNoMethods
	}

	title := strings.TrimSpace(opt.Title)
	if title == "" {
		title = strings.TrimSpace(doc.Info.Title)
	}

	if title == "" {
		title = defaultTitle
	}

	wrapWidth := wrapWidthOrDefault(opt.WrapWidth)
	listMarker := listMarkerOrDefault(opt.ListMarker)

	view := renderView{
		Title:          squashSpaces(title),
		Source:         escapeInline(strings.TrimSpace(opt.SourcePath)),
		OpenRPC:        escapeInline(orNone(doc.OpenRPC)),
		OpenRPCSupport: versionSupportText(DetectVersion(doc.OpenRPC)),
		ListMarker:     listMarker,
		Info: infoView{
			Title:        squashSpaces(doc.Info.Title),
			Version:      escapeInline(orNone(doc.Info.Version)),
			Description:  formatDescription(doc.Info.Description, wrapWidth, listMarker),
			ContactName:  squashSpaces(doc.Info.Contact.Name),
			ContactURL:   strings.TrimSpace(doc.Info.Contact.URL),
			ContactEmail: strings.TrimSpace(doc.Info.Contact.Email),
			LicenseName:  squashSpaces(doc.Info.License.Name),
			LicenseURL:   strings.TrimSpace(doc.Info.License.URL),
		},
	}

	var mode ExampleMode
	format := ExampleFormatJSON
	if strings.TrimSpace(string(opt.ExampleMode)) != "" {
		var err error
		mode, err = normalizeExampleMode(opt.ExampleMode)
		if err != nil {
			return renderView{}, err
		}

		if strings.TrimSpace(string(opt.ExampleFormat)) != "" {
			format, err = normalizeExampleFormat(opt.ExampleFormat)
			if err != nil {
				return renderView{}, err
			}
		}

		view.ExampleMode = string(mode)
		view.ExampleFormat = string(format)
	}

	for _, method := range doc.Methods {
		methodView, err := buildMethodView(method, wrapWidth, listMarker)
		if err != nil {
			return renderView{}, err
		}

		if mode != "" {
			data, err := doc.GenerateParamsExample(method.Name, mode, format)
			if err != nil {
				return renderView{}, err
			}

			methodView.Generated = strings.TrimRight(string(data), "\n")
		}

		view.Methods = append(view.Methods, methodView)
	}

	definitionPaths := buildDefinitionPaths(doc)
	for _, name := range doc.SchemaNames() {
		node := doc.Schemas[name]
		if node.isZero() {
			continue
		}

		definition := definitionView{
			Name:        escapeInline(name),
			Anchor:      markdownHeadingAnchor(name),
			Description: formatDescription(nodeDescription(node), wrapWidth, listMarker),
			Type:        schemaTypeLabel(node.Object),
			Attributes:  schemaAttributes(node, nil),
		}

		basePaths := definitionPaths[name]
		for _, path := range basePaths {
			definition.UsedBy = append(definition.UsedBy, escapeInline(path))
		}

		properties := nodeProperties(node)
		required := nodeRequired(node)
		order := propertyOrder(required, properties)
		definition.HasProperties = len(order) > 0
		definition.Properties = make([]propertyView, 0, len(order))

		for _, propName := range order {
			prop := properties[propName]
			propRequired := isRequired(required, propName)

			paths := buildPropertyPaths(basePaths, propName)
			escapedPaths := make([]string, 0, len(paths))
			for _, path := range paths {
				escapedPaths = append(escapedPaths, escapeInline(path))
			}

			definition.Properties = append(definition.Properties, propertyView{
				Heading:     escapeInline(name + "." + propertyHeadingName(propName, prop)),
				Name:        escapeInline(propName),
				RefName:     prop.RefName(),
				Type:        schemaTypeLabel(prop.Object),
				Required:    yesNo(propRequired),
				Paths:       escapedPaths,
				Description: formatDescription(nodeDescription(prop), wrapWidth, listMarker),
				Attributes:  schemaAttributes(prop, &propRequired),
			})
		}

		view.Definitions = append(view.Definitions, definition)
	}

	return view, nil
}

// buildMethodView prepares one method section.
func buildMethodView(method Method, wrapWidth int, listMarker string) (methodView, error) {
	out := methodView{
		Name:        escapeInline(method.Name),
		Anchor:      markdownHeadingAnchor(method.Name),
		Summary:     squashSpaces(method.Summary),
		Description: formatDescription(method.Description, wrapWidth, listMarker),
		Params:      make([]propertyView, 0, len(method.Params)),
	}

	for _, param := range method.Params {
		out.Params = append(out.Params, descriptorView(method.Name, param, param.Required, wrapWidth, listMarker))
	}

	if method.Result != nil {
		result := descriptorView(method.Name, *method.Result, true, wrapWidth, listMarker)
		out.Result = &result
	}

	for _, example := range method.Examples {
		view, err := buildExampleView(method, example)
		if err != nil {
			return methodView{}, err
		}

		out.Examples = append(out.Examples, view)
	}

	return out, nil
}

// descriptorView renders one content descriptor as a property view.
func descriptorView(methodName string, descriptor ContentDescriptor, required bool, wrapWidth int, listMarker string) propertyView {
	description := descriptor.Description
	if strings.TrimSpace(description) == "" {
		description = descriptor.Schema.Description()
	}

	if summary := strings.TrimSpace(descriptor.Summary); summary != "" && strings.TrimSpace(description) == "" {
		description = summary
	}

	return propertyView{
		Heading:     escapeInline(methodName + "." + descriptor.Name),
		Name:        escapeInline(descriptor.Name),
		RefName:     descriptor.Schema.RefName(),
		Type:        schemaTypeLabel(descriptor.Schema.Object),
		Required:    yesNo(required),
		Description: formatDescription(description, wrapWidth, listMarker),
		Attributes:  schemaAttributes(descriptor.Schema, &required),
	}
}

// buildExampleView renders one example pairing as JSON-RPC 2.0 envelopes.
func buildExampleView(method Method, example ExamplePairing) (exampleView, error) {
	params, err := marshalOrderedObjectJSON(example.Params)
	if err != nil {
		return exampleView{}, err
	}

	request, err := marshalOrderedObjectJSON([]ExampleObject{
		{Name: "jsonrpc", Value: "2.0"},
		{Name: "id", Value: 1},
		{Name: "method", Value: method.Name},
		{Name: "params", Value: json.RawMessage(params)},
	})
	if err != nil {
		return exampleView{}, err
	}

	var resultValue any
	if example.Result != nil {
		resultValue = example.Result.Value
	}

	response, err := marshalOrderedObjectJSON([]ExampleObject{
		{Name: "jsonrpc", Value: "2.0"},
		{Name: "id", Value: 1},
		{Name: "result", Value: resultValue},
	})
	if err != nil {
		return exampleView{}, err
	}

	name := example.Name
	if strings.TrimSpace(name) == "" {
		name = method.Name + " example"
	}

	return exampleView{
		Name:     escapeInline(name),
		Summary:  squashSpaces(example.Summary),
		Request:  strings.TrimRight(string(request), "\n"),
		Response: strings.TrimRight(string(response), "\n"),
	}, nil
}

// propertyHeadingName selects property heading suffix based on referenced definition name.
func propertyHeadingName(key string, prop Schema) string {
	if refName := prop.RefName(); refName != "" {
		return refName
	}

	return key
}

// buildDefinitionPaths finds the shortest reachable paths to every component
// schema, starting from method params and results.
func buildDefinitionPaths(doc *Document) map[string][]string {
	paths := make(map[string][]string)
	seen := make(map[string]struct{})
	queue := make([]definitionPathState, 0, len(doc.Schemas))

	visit := func(edges []definitionEdge, prefix string) {
		for _, edge := range edges {
			if _, ok := doc.Schemas[edge.Target]; !ok {
				continue
			}

			nextPrefix := appendPath(prefix, edge.Path)
			if strings.TrimSpace(nextPrefix) == "" {
				continue
			}

			seenKey := edge.Target + "\x00" + nextPrefix
			if _, ok := seen[seenKey]; ok {
				continue
			}

			seen[seenKey] = struct{}{}
			if len(paths[edge.Target]) >= maxPathsPerDefinition {
				continue
			}

			paths[edge.Target] = append(paths[edge.Target], nextPrefix)
			queue = append(queue, definitionPathState{
				Definition: edge.Target,
				Prefix:     nextPrefix,
			})
		}
	}

	for _, method := range doc.Methods {
		for _, param := range method.Params {
			visit(schemaEdges(param.Schema, param.Name), method.Name+".params")
		}

		if method.Result != nil {
			visit(schemaEdges(method.Result.Schema, "result"), method.Name)
		}
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		visit(definitionEdges(doc.Schemas[current.Definition]), current.Prefix)
	}

	for name, values := range paths {
		sort.Strings(values)
		paths[name] = values
	}

	return paths
}

// buildPropertyPaths builds normalized method-relative JSON paths for one property.
func buildPropertyPaths(basePaths []string, propertyName string) []string {
	propertyName = strings.TrimSpace(propertyName)
	if propertyName == "" || len(basePaths) == 0 {
		return nil
	}

	dedup := make(map[string]struct{}, len(basePaths))
	for _, base := range basePaths {
		path := appendPath(base, propertyName)
		if strings.TrimSpace(path) == "" {
			continue
		}

		dedup[path] = struct{}{}
	}

	out := make([]string, 0, len(dedup))
	for path := range dedup {
		out = append(out, path)
	}

	sort.Strings(out)
	return out
}

// schemaEdges extracts graph edges from one descriptor schema rooted at path.
func schemaEdges(schema Schema, path string) []definitionEdge {
	edgeMap := make(map[string]definitionEdge)
	collectDefinitionEdges(schema, path, edgeMap)
	return sortedEdges(edgeMap)
}

// definitionEdges extracts graph edges from one definition object.
func definitionEdges(node Schema) []definitionEdge {
	if node.Object == nil {
		return nil
	}

	edgeMap := make(map[string]definitionEdge)

	// Union and array definitions reference other definitions without a property name.
	for _, keyword := range []string{"allOf", "anyOf", "oneOf"} {
		for _, value := range asSlice(node.Object[keyword]) {
			collectDefinitionEdgesAny(value, "", edgeMap)
		}
	}

	for _, keyword := range []string{"items", "additionalProperties"} {
		collectDefinitionEdgesAny(node.Object[keyword], "[]", edgeMap)
	}

	properties := nodeProperties(node)
	for _, name := range sortedSchemaValueKeys(properties) {
		collectDefinitionEdges(properties[name], name, edgeMap)
	}

	return sortedEdges(edgeMap)
}

func sortedEdges(edgeMap map[string]definitionEdge) []definitionEdge {
	if len(edgeMap) == 0 {
		return nil
	}

	keys := make([]string, 0, len(edgeMap))
	for key := range edgeMap {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	out := make([]definitionEdge, 0, len(keys))
	for _, key := range keys {
		out = append(out, edgeMap[key])
	}

	return out
}

// collectDefinitionEdges recursively collects all referenced definitions under one schema node.
func collectDefinitionEdges(schema Schema, path string, edgeMap map[string]definitionEdge) {
	if schema.Object == nil {
		return
	}

	object := schema.Object
	if target := SchemaRefName(asString(object["$ref"])); target != "" {
		addDefinitionEdge(edgeMap, path, target)
	}

	for _, keyword := range []string{"allOf", "anyOf", "oneOf"} {
		for _, value := range asSlice(object[keyword]) {
			collectDefinitionEdgesAny(value, path, edgeMap)
		}
	}

	for _, keyword := range []string{"if", "then", "else", "not", "contentSchema"} {
		collectDefinitionEdgesAny(object[keyword], path, edgeMap)
	}

	for _, keyword := range []string{"items", "prefixItems", "contains", "additionalItems", "unevaluatedItems"} {
		collectDefinitionEdgesAny(object[keyword], appendPath(path, "[]"), edgeMap)
	}

	for _, keyword := range []string{"additionalProperties", "unevaluatedProperties"} {
		collectDefinitionEdgesAny(object[keyword], appendPath(path, "[]"), edgeMap)
	}

	if nested := mapSchemaValues(object["properties"]); len(nested) > 0 {
		for _, key := range sortedSchemaValueKeys(nested) {
			collectDefinitionEdges(nested[key], appendPath(path, key), edgeMap)
		}
	}

	if nested := mapSchemaValues(object["patternProperties"]); len(nested) > 0 {
		for _, key := range sortedSchemaValueKeys(nested) {
			collectDefinitionEdges(nested[key], appendPath(path, key), edgeMap)
		}
	}
}

// collectDefinitionEdgesAny unwraps arrays and forwards schema-like values to edge collector.
func collectDefinitionEdgesAny(raw any, path string, edgeMap map[string]definitionEdge) {
	switch typed := raw.(type) {
	case []any:
		for _, value := range typed {
			collectDefinitionEdgesAny(value, path, edgeMap)
		}
	default:
		value, ok := toSchemaValue(raw)
		if !ok {
			return
		}

		collectDefinitionEdges(value, path, edgeMap)
	}
}

// addDefinitionEdge stores one unique edge key in edge map.
func addDefinitionEdge(edgeMap map[string]definitionEdge, path, target string) {
	path = strings.TrimSpace(path)
	target = strings.TrimSpace(target)
	if target == "" {
		return
	}

	edge := definitionEdge{Path: path, Target: target}
	edgeMap[target+"\x00"+path] = edge
}

// appendPath joins path segments with a dot while preserving empty root prefix.
func appendPath(base, segment string) string {
	base = strings.TrimSpace(base)
	segment = strings.TrimSpace(segment)
	if base == "" {
		return segment
	}

	if segment == "" {
		return base
	}

	return base + "." + segment
}

// sortedSchemaValueKeys returns deterministic sorted keys for schema maps.
func sortedSchemaValueKeys(values map[string]Schema) []string {
	out := make([]string, 0, len(values))
	for key := range values {
		out = append(out, key)
	}

	sort.Strings(out)
	return out
}

// versionSupportText formats OpenRPC version support marker for the info block.
func versionSupportText(info VersionInfo) string {
	if !info.Supported {
		if strings.TrimSpace(info.Canonical) != "" {
			return "unknown (" + escapeInline(info.Canonical) + ")"
		}

		return "unknown"
	}

	return "supported (" + escapeInline(info.Canonical) + ")"
}

// propertyOrder returns required properties first, then optional sorted properties.
func propertyOrder(required []string, properties map[string]Schema) []string {
	if len(properties) == 0 {
		return nil
	}

	out := make([]string, 0, len(properties))
	seen := make(map[string]struct{}, len(properties))

	for _, name := range required {
		if _, ok := properties[name]; !ok {
			continue
		}

		if _, exists := seen[name]; exists {
			continue
		}

		seen[name] = struct{}{}
		out = append(out, name)
	}

	optional := make([]string, 0, len(properties))
	for name := range properties {
		if _, exists := seen[name]; exists {
			continue
		}

		optional = append(optional, name)
	}

	sort.Strings(optional)
	out = append(out, optional...)
	return out
}

// isRequired reports whether property key is present in required list.
func isRequired(required []string, key string) bool {
	return slices.Contains(required, key)
}

// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/openrpcdoc

package openrpcdoc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Document is a decoded OpenRPC document.
//
// A Document is read-only after Parse. Accessors return copies of raw JSON
// values where callers could otherwise mutate shared state.
type Document struct {
	// OpenRPC is the document format version, for example "1.0.0-rc1".
	OpenRPC string
	// Info is descriptive metadata.
	Info Info
	// Methods keeps declaration order.
	Methods []Method
	// Schemas maps component schema names to their definitions.
	Schemas map[string]Schema

	raw map[string]any
}

// Info is the descriptive metadata block of a document.
type Info struct {
	Title          string
	Version        string
	Description    string
	TermsOfService string
	Contact        Contact
	License        License
}

// Contact describes the maintainer of the documented API.
type Contact struct {
	Name  string
	URL   string
	Email string
}

// License describes the license of the documented API.
type License struct {
	Name string
	URL  string
}

// Method describes one RPC method.
type Method struct {
	Name        string
	Summary     string
	Description string
	Params      []ContentDescriptor
	Result      *ContentDescriptor
	Examples    []ExamplePairing
}

// ContentDescriptor names and types one parameter or result.
type ContentDescriptor struct {
	Name        string
	Summary     string
	Description string
	Required    bool
	Schema      Schema

	// schemaPointer locates Schema inside the raw document.
	schemaPointer string
}

// ExamplePairing is one worked example: literal params paired with a literal result.
type ExamplePairing struct {
	Name        string
	Summary     string
	Description string
	Params      []ExampleObject
	Result      *ExampleObject
}

// ExampleObject is one named literal value.
type ExampleObject struct {
	Name  string
	Value any
}

// ParseFile reads and decodes an OpenRPC document from file.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadDocumentFile, err)
	}

	return Parse(data)
}

// Parse decodes an OpenRPC document. Numbers are kept as json.Number.
func Parse(data []byte) (*Document, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var root any
	if err := decoder.Decode(&root); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeDocument, err)
	}

	if err := decoder.Decode(new(any)); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after document", ErrDecodeDocument)
	}

	object, ok := root.(map[string]any)
	if !ok {
		return nil, ErrDocumentRootType
	}

	return buildDocument(object), nil
}

// buildDocument maps decoded JSON into the typed document model.
func buildDocument(raw map[string]any) *Document {
	doc := &Document{
		OpenRPC: strings.TrimSpace(asString(raw["openrpc"])),
		Info:    buildInfo(asObject(raw["info"])),
		raw:     raw,
	}

	components := asObject(raw["components"])
	doc.Schemas = mapSchemaValues(components["schemas"])
	if doc.Schemas == nil {
		doc.Schemas = map[string]Schema{}
	}

	for index, item := range asSlice(raw["methods"]) {
		object := asObject(item)
		if object == nil {
			continue
		}

		doc.Methods = append(doc.Methods, buildMethod(object, fmt.Sprintf("#/methods/%d", index)))
	}

	return doc
}

func buildInfo(object map[string]any) Info {
	contact := asObject(object["contact"])
	license := asObject(object["license"])

	return Info{
		Title:          asString(object["title"]),
		Version:        asString(object["version"]),
		Description:    asString(object["description"]),
		TermsOfService: asString(object["termsOfService"]),
		Contact: Contact{
			Name:  asString(contact["name"]),
			URL:   asString(contact["url"]),
			Email: asString(contact["email"]),
		},
		License: License{
			Name: asString(license["name"]),
			URL:  asString(license["url"]),
		},
	}
}

func buildMethod(object map[string]any, pointer string) Method {
	method := Method{
		Name:        asString(object["name"]),
		Summary:     asString(object["summary"]),
		Description: asString(object["description"]),
	}

	for index, item := range asSlice(object["params"]) {
		param := asObject(item)
		if param == nil {
			continue
		}

		method.Params = append(method.Params, buildContentDescriptor(param, fmt.Sprintf("%s/params/%d", pointer, index)))
	}

	if result := asObject(object["result"]); result != nil {
		descriptor := buildContentDescriptor(result, pointer+"/result")
		method.Result = &descriptor
	}

	for _, item := range asSlice(object["examples"]) {
		example := asObject(item)
		if example == nil {
			continue
		}

		method.Examples = append(method.Examples, buildExamplePairing(example))
	}

	return method
}

func buildContentDescriptor(object map[string]any, pointer string) ContentDescriptor {
	required, _ := asBool(object["required"])
	schema, _ := toSchemaValue(object["schema"])

	return ContentDescriptor{
		Name:        asString(object["name"]),
		Summary:     asString(object["summary"]),
		Description: asString(object["description"]),
		Required:    required,
		Schema:      schema,

		schemaPointer: pointer + "/schema",
	}
}

func buildExamplePairing(object map[string]any) ExamplePairing {
	pairing := ExamplePairing{
		Name:        asString(object["name"]),
		Summary:     asString(object["summary"]),
		Description: asString(object["description"]),
	}

	for _, item := range asSlice(object["params"]) {
		param := asObject(item)
		if param == nil {
			continue
		}

		pairing.Params = append(pairing.Params, ExampleObject{
			Name:  asString(param["name"]),
			Value: param["value"],
		})
	}

	if result := asObject(object["result"]); result != nil {
		pairing.Result = &ExampleObject{
			Name:  asString(result["name"]),
			Value: result["value"],
		}
	}

	return pairing
}

// Method returns a method by name.
func (d *Document) Method(name string) (Method, bool) {
	for _, method := range d.Methods {
		if method.Name == name {
			return method, true
		}
	}

	return Method{}, false
}

// MethodNames returns method names in declaration order.
func (d *Document) MethodNames() []string {
	out := make([]string, 0, len(d.Methods))
	for _, method := range d.Methods {
		out = append(out, method.Name)
	}

	return out
}

// Schema returns a deep copy of a component schema by name.
func (d *Document) Schema(name string) (Schema, bool) {
	schema, ok := d.Schemas[name]
	if !ok {
		return Schema{}, false
	}

	return schema.clone(), true
}

// SchemaNames returns component schema names in sorted order.
func (d *Document) SchemaNames() []string {
	out := make([]string, 0, len(d.Schemas))
	for name := range d.Schemas {
		out = append(out, name)
	}

	sort.Strings(out)
	return out
}

// ResolveRef resolves a local reference against the document. Pointers
// deeper than a component name must reach an existing node.
func (d *Document) ResolveRef(ref string) (Schema, bool) {
	schema, ok := d.lookupRef(ref)
	if !ok {
		return Schema{}, false
	}

	return schema.clone(), true
}

// lookupRef resolves ref without copying the target.
func (d *Document) lookupRef(ref string) (Schema, bool) {
	ref = strings.TrimSpace(ref)
	if name := SchemaRefName(ref); name != "" && !strings.Contains(strings.TrimPrefix(ref, componentSchemaPrefix), "/") {
		schema, ok := d.Schemas[name]
		return schema, ok
	}

	raw, ok := resolveJSONPointer(d.raw, ref)
	if !ok {
		return Schema{}, false
	}

	return toSchemaValue(raw)
}

// Raw returns a deep copy of the decoded document.
func (d *Document) Raw() map[string]any {
	out, _ := deepCopyJSON(d.raw).(map[string]any)
	return out
}

// MarshalJSON encodes the document as it was decoded.
func (d *Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.raw)
}

// Param returns a declared parameter by name.
func (m Method) Param(name string) (ContentDescriptor, bool) {
	for _, param := range m.Params {
		if param.Name == name {
			return param, true
		}
	}

	return ContentDescriptor{}, false
}

// ParamNames returns declared parameter names in order.
func (m Method) ParamNames() []string {
	out := make([]string, 0, len(m.Params))
	for _, param := range m.Params {
		out = append(out, param.Name)
	}

	return out
}

// ParamNames returns example parameter names in order.
func (e ExamplePairing) ParamNames() []string {
	out := make([]string, 0, len(e.Params))
	for _, param := range e.Params {
		out = append(out, param.Name)
	}

	return out
}

// Param returns an example parameter by name.
func (e ExamplePairing) Param(name string) (ExampleObject, bool) {
	for _, param := range e.Params {
		if param.Name == name {
			return param, true
		}
	}

	return ExampleObject{}, false
}

// resolveJSONPointer follows a local "#/..." pointer through decoded JSON.
func resolveJSONPointer(root any, ref string) (any, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "#" {
		return root, true
	}

	path, ok := strings.CutPrefix(ref, "#/")
	if !ok {
		return nil, false
	}

	current := root
	for token := range strings.SplitSeq(path, "/") {
		token = decodeJSONPointerToken(token)
		switch node := current.(type) {
		case map[string]any:
			if current, ok = node[token]; !ok {
				return nil, false
			}
		case []any:
			index, err := strconv.Atoi(token)
			if err != nil || index < 0 || index >= len(node) {
				return nil, false
			}

			current = node[index]
		default:
			return nil, false
		}
	}

	return current, true
}

// decodeJSONPointerToken unescapes "~1" and "~0" in one pointer token.
func decodeJSONPointerToken(token string) string {
	return strings.NewReplacer("~1", "/", "~0", "~").Replace(token)
}

// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/openrpcdoc

package openrpcdoc

import (
	"fmt"
	"sort"
	"strings"
)

const (
	// defaultTitle is used when neither caller nor document provide a title.
	defaultTitle = "API reference"
	// defaultTemplateName is used when caller does not provide template name.
	defaultTemplateName = "list"
	// defaultWrapWidth wraps plain description paragraphs at this width.
	defaultWrapWidth = 80
	// defaultListMarker is used when caller does not provide list marker style.
	defaultListMarker = "*"
)

const (
	templateListName  = "list"
	templateTableName = "table"
)

// renderView is the root view model passed to markdown and html templates.
type renderView struct {
	Title          string
	Source         string
	OpenRPC        string
	OpenRPCSupport string
	ListMarker     string
	ExampleMode    string
	ExampleFormat  string
	Info           infoView
	Methods        []methodView
	Definitions    []definitionView
}

// infoView carries the descriptive info block.
type infoView struct {
	Title        string
	Version      string
	Description  string
	ContactName  string
	ContactURL   string
	ContactEmail string
	LicenseName  string
	LicenseURL   string
}

// methodView represents one method section.
type methodView struct {
	Name        string
	Anchor      string
	Summary     string
	Description string
	Params      []propertyView
	Result      *propertyView
	Examples    []exampleView
	Generated   string
}

// exampleView is one example rendered as JSON-RPC request and response envelopes.
type exampleView struct {
	Name     string
	Summary  string
	Request  string
	Response string
}

// definitionView represents one component schema section.
type definitionView struct {
	Name          string
	Anchor        string
	Description   string
	Type          string
	Attributes    []attributeView
	UsedBy        []string
	Properties    []propertyView
	HasProperties bool
}

// propertyView represents one property, param or result inside a section.
type propertyView struct {
	Heading     string
	Name        string
	RefName     string
	Type        string
	Required    string
	Paths       []string
	Description string
	Attributes  []attributeView
}

// attributeView is a single rendered name/value metadata item.
type attributeView struct {
	Name  string
	Value string
}

// RenderFile parses a document file and renders markdown reference.
func RenderFile(path string, opt Options) (string, error) {
	doc, err := ParseFile(path)
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(opt.SourcePath) == "" {
		opt.SourcePath = path
	}

	return Render(doc, opt)
}

// Render converts a document into deterministic CommonMark reference.
// The document is only read.
func Render(doc *Document, opt Options) (string, error) {
	view, err := buildRenderView(doc, opt)
	if err != nil {
		return "", err
	}

	markdownTemplate, err := resolveTemplate(opt)
	if err != nil {
		return "", err
	}

	var out strings.Builder
	if err := markdownTemplate.Execute(&out, view); err != nil {
		return "", fmt.Errorf("%w: %w", ErrExecuteMarkdownTemplate, err)
	}

	return ensureTrailingNewline(collapseBlankLines(out.String())), nil
}

// BuiltinTemplateNames returns all available built-in template names.
func BuiltinTemplateNames() []string {
	names := make([]string, 0, len(builtInTemplateFiles))
	for name := range builtInTemplateFiles {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}

// BuiltinTemplate returns one built-in template by name.
func BuiltinTemplate(name string) (string, error) {
	name = normalizeTemplateName(name)
	path, ok := builtInTemplateFiles[name]
	if !ok {
		return "", fmt.Errorf("%w %q", ErrUnknownBuiltinTemplate, name)
	}

	data, err := templateFS.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrReadBuiltinTemplate, err)
	}

	return string(data), nil
}

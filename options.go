// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/openrpcdoc

package openrpcdoc

// Options configures reference rendering.
type Options struct {
	// Title overrides the document title. Defaults to info.title.
	Title string
	// SourcePath is shown as the source document marker.
	SourcePath string
	// TemplateName selects a built-in markdown template ("list" or "table").
	TemplateName string
	// TemplateText is custom template text; it takes precedence over TemplateName.
	TemplateText string
	// WrapWidth wraps plain description paragraphs. Defaults to 80.
	WrapWidth int
	// ListMarker is the unordered list marker ("*" or "-").
	ListMarker string
	// ExampleMode enables generated params examples per method when set.
	ExampleMode ExampleMode
	// ExampleFormat selects generated example encoding. Defaults to json.
	ExampleFormat ExampleFormat
}

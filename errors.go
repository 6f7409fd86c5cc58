// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/openrpcdoc

package openrpcdoc

import "errors"

var (
	// ErrReadDocumentFile is returned when document file loading fails.
	ErrReadDocumentFile = errors.New("read document file")
	// ErrDecodeDocument is returned when document JSON decoding fails.
	ErrDecodeDocument = errors.New("decode document")
	// ErrDocumentRootType is returned when document root is not a JSON object.
	ErrDocumentRootType = errors.New("document root must be object")
	// ErrExecuteMarkdownTemplate is returned when markdown template execution fails.
	ErrExecuteMarkdownTemplate = errors.New("execute markdown template")
	// ErrExecuteHTMLTemplate is returned when html page template execution fails.
	ErrExecuteHTMLTemplate = errors.New("execute html template")
	// ErrUnknownBuiltinTemplate is returned when requested built-in template name is not registered.
	ErrUnknownBuiltinTemplate = errors.New("unknown built-in template")
	// ErrReadBuiltinTemplate is returned when built-in template file loading fails.
	ErrReadBuiltinTemplate = errors.New("read built-in template")
	// ErrParseBuiltinTemplate is returned when built-in template parsing fails.
	ErrParseBuiltinTemplate = errors.New("parse built-in template")
	// ErrParseCustomTemplate is returned when caller template text fails to parse.
	ErrParseCustomTemplate = errors.New("parse custom template")
	// ErrNoMethods is returned when a document has nothing to render.
	ErrNoMethods = errors.New("document has no methods or schemas to render")
	// ErrUnknownMethod is returned when a method name is not declared in the document.
	ErrUnknownMethod = errors.New("unknown method")
	// ErrUnknownSchema is returned when a schema name is not declared in components.
	ErrUnknownSchema = errors.New("unknown schema")
	// ErrUnknownExampleMode is returned when example generation mode is not supported.
	ErrUnknownExampleMode = errors.New("unknown example mode")
	// ErrUnknownExampleFormat is returned when example generation format is not supported.
	ErrUnknownExampleFormat = errors.New("unknown example format")
	// ErrEncodeExampleJSON is returned when generated example JSON encoding fails.
	ErrEncodeExampleJSON = errors.New("encode example json")
	// ErrEncodeExampleYAML is returned when generated example YAML encoding fails.
	ErrEncodeExampleYAML = errors.New("encode example yaml")
	// ErrUnknownExportFormat is returned when document export format is not supported.
	ErrUnknownExportFormat = errors.New("unknown export format")
	// ErrEncodeDocument is returned when document export encoding fails.
	ErrEncodeDocument = errors.New("encode document")
	// ErrCompileSchema is returned when a descriptor schema cannot be compiled for validation.
	ErrCompileSchema = errors.New("compile schema")
)

// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/openrpcdoc

package openrpcdoc

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// markdownConverter renders description markdown with the default safe
// renderer: raw HTML is omitted and dangerous link targets are dropped.
var markdownConverter = goldmark.New(goldmark.WithExtensions(extension.GFM))

// htmlPageTemplate parses the embedded page template once per process.
var htmlPageTemplate = sync.OnceValues(func() (*template.Template, error) {
	data, err := templateFS.ReadFile(htmlTemplateFile)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadBuiltinTemplate, err)
	}

	parsed, err := template.New("page").Funcs(template.FuncMap{
		"inlineHTML":    inlineHTML,
		"markdownHTML":  markdownHTML,
		"headingAnchor": markdownHeadingAnchor,
	}).Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrParseBuiltinTemplate, "page", err)
	}

	return parsed, nil
})

// RenderHTML converts a document into a standalone HTML page built from the
// same view as the markdown output.
func RenderHTML(doc *Document, opt Options) (string, error) {
	view, err := buildRenderView(doc, opt)
	if err != nil {
		return "", err
	}

	page, err := htmlPageTemplate()
	if err != nil {
		return "", err
	}

	var out strings.Builder
	if err := page.Execute(&out, view); err != nil {
		return "", fmt.Errorf("%w: %w", ErrExecuteHTMLTemplate, err)
	}

	return ensureTrailingNewline(out.String()), nil
}

// markdownHTML converts a formatted description into block HTML.
func markdownHTML(text string) template.HTML {
	text = strings.TrimSpace(toLF(text))
	if text == "" {
		return ""
	}

	var out bytes.Buffer
	if err := markdownConverter.Convert([]byte(text), &out); err != nil {
		return template.HTML(template.HTMLEscapeString(text)) //nolint:gosec // escaped
	}

	//nolint:gosec // goldmark omits raw HTML and unsafe links.
	return template.HTML(strings.TrimSpace(out.String()))
}

// inlineHTML converts a one-line markdown value, such as a type or attribute,
// into HTML without the wrapping paragraph.
func inlineHTML(text string) template.HTML {
	block := string(markdownHTML(strings.Join(strings.Fields(text), " ")))
	if inner, ok := strings.CutPrefix(block, "<p>"); ok {
		if inner, ok = strings.CutSuffix(inner, "</p>"); ok && !strings.Contains(inner, "<p>") {
			block = inner
		}
	}

	//nolint:gosec // produced by markdownHTML.
	return template.HTML(block)
}

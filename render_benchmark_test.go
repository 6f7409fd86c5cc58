// SPDX-License-Identifier: AGPL-3.0-only
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/openrpcdoc

package openrpcdoc

import (
	"os"
	"path/filepath"
	"testing"
)

// casperDocumentPath is the embedded node document, read from disk to avoid
// importing the casper package from here.
var casperDocumentPath = filepath.Join("casper", "openrpc.json")

// BenchmarkParseDocument measures decoding and indexing cost.
func BenchmarkParseDocument(b *testing.B) {
	data := readBenchmarkFile(b, casperDocumentPath)

	b.ReportAllocs()
	b.SetBytes(int64(len(data)))

	for i := 0; i < b.N; i++ {
		if _, err := Parse(data); err != nil {
			b.Fatalf("Parse: %v", err)
		}
	}
}

// BenchmarkRenderListTemplate measures in-memory render flow for list template.
func BenchmarkRenderListTemplate(b *testing.B) {
	benchmarkRenderTemplate(b, "list")
}

// BenchmarkRenderTableTemplate measures in-memory render flow for table template.
func BenchmarkRenderTableTemplate(b *testing.B) {
	benchmarkRenderTemplate(b, "table")
}

// BenchmarkRenderHTML measures the html page render.
func BenchmarkRenderHTML(b *testing.B) {
	doc := parseBenchmarkDocument(b)

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := RenderHTML(doc, Options{SourcePath: casperDocumentPath}); err != nil {
			b.Fatalf("RenderHTML: %v", err)
		}
	}
}

// BenchmarkRenderFileListTemplate measures read + render flow from file path.
func BenchmarkRenderFileListTemplate(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := RenderFile(casperDocumentPath, Options{TemplateName: "list"}); err != nil {
			b.Fatalf("RenderFile: %v", err)
		}
	}
}

// BenchmarkCheckWithExamples measures structural check plus example conformance.
func BenchmarkCheckWithExamples(b *testing.B) {
	doc := parseBenchmarkDocument(b)

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = Check(doc).Merge(ValidateExamples(doc))
	}
}

func benchmarkRenderTemplate(b *testing.B, templateName string) {
	doc := parseBenchmarkDocument(b)
	options := Options{
		SourcePath:   casperDocumentPath,
		TemplateName: templateName,
	}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := Render(doc, options); err != nil {
			b.Fatalf("Render: %v", err)
		}
	}
}

func parseBenchmarkDocument(b *testing.B) *Document {
	b.Helper()

	doc, err := Parse(readBenchmarkFile(b, casperDocumentPath))
	if err != nil {
		b.Fatalf("Parse: %v", err)
	}

	return doc
}

// readBenchmarkFile loads benchmark fixture file and fails benchmark on read errors.
func readBenchmarkFile(b *testing.B, path string) []byte {
	b.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		b.Fatalf("read benchmark file %q: %v", path, err)
	}

	if len(data) == 0 {
		b.Fatalf("empty benchmark file: %s", path)
	}

	return data
}

// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/openrpcdoc

/*
Package casper holds the OpenRPC document describing the JSON-RPC 2.0
interface of a Casper network node.

The document is embedded as a JSON literal and parsed once per process.
Every caller shares the same read-only *openrpcdoc.Document:

	doc, err := casper.Document()
	if err != nil {
		return err
	}

	md, err := openrpcdoc.Render(doc, openrpcdoc.Options{TemplateName: "list"})

The document describes an external node; nothing in this module serves the
methods it lists.
*/
package casper

import (
	_ "embed"
	"fmt"
	"slices"
	"sync"

	"github.com/woozymasta/openrpcdoc"
)

// FileName is the name the embedded document is published under.
const FileName = "openrpc.json"

//go:embed openrpc.json
var literal []byte

var parsed = sync.OnceValues(func() (*openrpcdoc.Document, error) {
	doc, err := openrpcdoc.Parse(literal)
	if err != nil {
		return nil, fmt.Errorf("casper %s: %w", FileName, err)
	}

	return doc, nil
})

// Bytes returns a copy of the embedded document literal.
func Bytes() []byte {
	return slices.Clone(literal)
}

// Document returns the parsed document. It is built on first use and shared
// read-only afterwards.
func Document() (*openrpcdoc.Document, error) {
	return parsed()
}

// MustDocument is like Document but panics when the embedded literal is broken.
func MustDocument() *openrpcdoc.Document {
	doc, err := Document()
	if err != nil {
		panic(err)
	}

	return doc
}

// Check runs integrity checks and example conformance over the embedded document.
func Check() (openrpcdoc.Report, error) {
	doc, err := Document()
	if err != nil {
		return openrpcdoc.Report{}, err
	}

	return openrpcdoc.Check(doc).Merge(openrpcdoc.ValidateExamples(doc)), nil
}

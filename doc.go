// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/openrpcdoc

/*
Package openrpcdoc renders API references from OpenRPC documents.

The package decodes an OpenRPC document into a read-only model, checks its
internal consistency and renders deterministic CommonMark or HTML. It
supports built-in templates ("list", "table") and custom template text.
The Casper node document ships in the casper subpackage.

Render the embedded Casper document:

	doc, err := casper.Document()
	if err != nil {
		return err
	}

	md, err := openrpcdoc.Render(doc, openrpcdoc.Options{
		TemplateName: "list",
		WrapWidth:    100,
	})
	if err != nil {
		return err
	}

	fmt.Println(md)

Render directly from file:

	md, err := openrpcdoc.RenderFile("openrpc.json", openrpcdoc.Options{
		TemplateName: "table",
	})

Check document integrity and example conformance:

	report := openrpcdoc.Check(doc).Merge(openrpcdoc.ValidateExamples(doc))
	for _, issue := range report.Issues {
		fmt.Println(issue)
	}

	if report.HasErrors() {
		return errors.New("document is inconsistent")
	}

Detect OpenRPC version support:

	info := openrpcdoc.DetectVersion(doc.OpenRPC)
	fmt.Printf("openrpc=%s supported=%v\n", info.Canonical, info.Supported)

Generate a params payload for one method:

	params, err := doc.GenerateParamsExample("state_get_item", openrpcdoc.ExampleModeRequired, openrpcdoc.ExampleFormatJSON)
	if err != nil {
		return err
	}

	fmt.Println(string(params))

Enable generated params blocks in markdown output:

	md, err := openrpcdoc.Render(doc, openrpcdoc.Options{
		ExampleMode:   openrpcdoc.ExampleModeAll,
		ExampleFormat: openrpcdoc.ExampleFormatYAML,
	})
*/
package openrpcdoc

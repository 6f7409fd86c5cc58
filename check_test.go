// SPDX-License-Identifier: AGPL-3.0-only
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/openrpcdoc

package openrpcdoc

import (
	"slices"
	"strings"
	"testing"
)

func TestCheckDemoDocumentIsClean(t *testing.T) {
	t.Parallel()

	doc, err := ParseFile(demoFixturePath)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}

	report := Check(doc).Merge(ValidateExamples(doc))
	if len(report.Issues) != 0 {
		t.Fatalf("unexpected issues: %v", report.Issues)
	}
}

func TestCheckReportsUnresolvedReference(t *testing.T) {
	t.Parallel()

	doc := parseDocumentMap(t, map[string]any{
		"methods": []any{
			map[string]any{
				"name":   "block_get",
				"params": []any{},
				"result": map[string]any{
					"name": "block",
					"schema": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"header": map[string]any{"$ref": "#/components/schemas/BlockHeader"},
						},
					},
				},
				"examples": []any{
					map[string]any{"name": "e", "params": []any{}, "result": map[string]any{"name": "block", "value": map[string]any{}}},
				},
			},
		},
	})

	report := Check(doc)
	if !report.HasErrors() {
		t.Fatal("expected errors")
	}

	issue := report.Errors()[0]
	if issue.Code != CodeUnresolvedRef {
		t.Fatalf("code = %q, want %q", issue.Code, CodeUnresolvedRef)
	}

	if issue.Location != "/methods/block_get/result/schema/properties/header/$ref" {
		t.Fatalf("location = %q", issue.Location)
	}

	if issue.Method != "block_get" {
		t.Fatalf("method = %q", issue.Method)
	}
}

func TestCheckReportsDanglingDeepReference(t *testing.T) {
	t.Parallel()

	doc := parseDocumentMap(t, map[string]any{
		"methods": []any{
			map[string]any{
				"name":   "deep_get",
				"params": []any{},
				"result": map[string]any{
					"name":   "deep",
					"schema": map[string]any{"$ref": "#/components/schemas/A/nope/deeper"},
				},
			},
		},
		"components": map[string]any{
			"schemas": map[string]any{
				"A": objectSchema(map[string]any{"x": map[string]any{"type": "string"}}),
				"B": map[string]any{"$ref": "#/components/schemas/A/properties/missing"},
				"C": map[string]any{"$ref": "#/components/schemas/A/properties/x"},
			},
		},
	})

	var locations []string
	for _, issue := range Check(doc).Issues {
		if issue.Code == CodeUnresolvedRef {
			locations = append(locations, issue.Location)
		}
	}

	slices.Sort(locations)
	want := []string{"/components/schemas/B/$ref", "/methods/deep_get/result/schema/$ref"}
	if !slices.Equal(locations, want) {
		t.Fatalf("unresolved-ref locations = %v, want %v", locations, want)
	}

	if _, ok := doc.ResolveRef("#/components/schemas/A/properties/missing"); ok {
		t.Fatal("dangling deep pointer should not resolve")
	}

	x, ok := doc.ResolveRef("#/components/schemas/A/properties/x")
	if !ok || x.Type() != "string" {
		t.Fatalf("deep pointer resolved to %+v, ok=%v", x, ok)
	}
}

func TestCheckReportsExampleParamOrderMismatch(t *testing.T) {
	t.Parallel()

	doc := parseDocumentMap(t, map[string]any{
		"methods": []any{
			map[string]any{
				"name": "state_get_item",
				"params": []any{
					map[string]any{"name": "state_root_hash", "required": true, "schema": map[string]any{"type": "string"}},
					map[string]any{"name": "key", "required": true, "schema": map[string]any{"type": "string"}},
				},
				"result": map[string]any{"name": "item", "schema": map[string]any{"type": "string"}},
				"examples": []any{
					map[string]any{
						"name": "swapped",
						"params": []any{
							map[string]any{"name": "key", "value": "k"},
							map[string]any{"name": "state_root_hash", "value": "h"},
						},
						"result": map[string]any{"name": "item", "value": "v"},
					},
				},
			},
		},
	})

	report := Check(doc)
	if !slices.Contains(report.Codes(), CodeExampleParamsMismatch) {
		t.Fatalf("expected %s, got %v", CodeExampleParamsMismatch, report.Issues)
	}

	for _, issue := range report.Issues {
		if issue.Code == CodeExampleParamsMismatch && !strings.Contains(issue.Message, "[key, state_root_hash]") {
			t.Fatalf("message should list example params in order: %q", issue.Message)
		}
	}
}

func TestCheckReportsOmittedOptionalAndUndeclaredParams(t *testing.T) {
	t.Parallel()

	doc := parseDocumentMap(t, map[string]any{
		"methods": []any{
			map[string]any{
				"name": "chain_get_block",
				"params": []any{
					map[string]any{"name": "block_identifier", "schema": map[string]any{"type": "string"}},
				},
				"result": map[string]any{"name": "block", "schema": map[string]any{"type": "string"}},
				"examples": []any{
					map[string]any{
						"name":   "omitted",
						"params": []any{},
						"result": map[string]any{"name": "block", "value": "b"},
					},
					map[string]any{
						"name": "undeclared",
						"params": []any{
							map[string]any{"name": "block_identifier", "value": "x"},
							map[string]any{"name": "extra", "value": 1},
						},
						"result": map[string]any{"name": "block", "value": "b"},
					},
				},
			},
		},
	})

	codes := Check(doc).Codes()
	for _, want := range []string{CodeExampleParamsMismatch, CodeExampleParamUndeclared} {
		if !slices.Contains(codes, want) {
			t.Fatalf("expected %s in %v", want, codes)
		}
	}
}

func TestCheckReportsDuplicateUnionVariant(t *testing.T) {
	t.Parallel()

	doc := parseDocumentMap(t, map[string]any{
		"methods": []any{},
		"components": map[string]any{
			"schemas": map[string]any{
				"Transform": map[string]any{
					"anyOf": []any{
						map[string]any{"type": "string", "enum": []any{"Identity", "WriteContractWasm"}},
						map[string]any{
							"type":       "object",
							"required":   []any{"WriteCLValue"},
							"properties": map[string]any{"WriteCLValue": map[string]any{"type": "string"}},
						},
						map[string]any{"type": "string", "enum": []any{"Identity"}},
					},
				},
			},
		},
	})

	report := Check(doc)
	errs := report.Errors()
	if len(errs) != 1 || errs[0].Code != CodeDuplicateUnionVariant {
		t.Fatalf("expected one duplicate variant error, got %v", report.Issues)
	}

	if errs[0].Location != "/components/schemas/Transform/anyOf/2" {
		t.Fatalf("location = %q", errs[0].Location)
	}
}

func TestCheckReportsRequiredNotInProperties(t *testing.T) {
	t.Parallel()

	doc := parseDocumentMap(t, map[string]any{
		"methods": []any{},
		"components": map[string]any{
			"schemas": map[string]any{
				"Bid": map[string]any{
					"type":       "object",
					"required":   []any{"bonding_purse", "delegators"},
					"properties": map[string]any{"bonding_purse": map[string]any{"type": "string"}},
				},
				"Tagged": map[string]any{
					"required": []any{"tag"},
					"allOf":    []any{map[string]any{"type": "object"}},
				},
			},
		},
	})

	report := Check(doc)
	errs := report.Errors()
	if len(errs) != 1 || errs[0].Code != CodeRequiredNotInProps {
		t.Fatalf("expected one required-not-in-properties error, got %v", report.Issues)
	}

	if !strings.Contains(errs[0].Message, `"delegators"`) {
		t.Fatalf("message should name the property: %q", errs[0].Message)
	}
}

func TestCheckStructuralWarnings(t *testing.T) {
	t.Parallel()

	doc := parseDocumentMap(t, map[string]any{
		"openrpc": "9.9",
		"methods": []any{
			map[string]any{
				"name": "info_get_status",
				"params": []any{
					map[string]any{"name": "a", "schema": map[string]any{"type": "string"}},
					map[string]any{"name": "b", "required": true, "schema": map[string]any{"type": "string"}},
					map[string]any{"name": "b", "required": true, "schema": map[string]any{"type": "string"}},
				},
				"result": map[string]any{"name": "status", "schema": map[string]any{"type": "string"}},
			},
			map[string]any{
				"name":   "info_get_peers",
				"params": []any{},
				"examples": []any{
					map[string]any{"name": "no result", "params": []any{}},
				},
			},
			map[string]any{
				"name":   "info_get_peers",
				"params": []any{},
				"result": map[string]any{"name": "peers", "schema": map[string]any{"type": "array"}},
			},
		},
	})

	report := Check(doc)
	codes := report.Codes()
	for _, want := range []string{
		CodeUnknownOpenRPCVersion,
		CodeRequiredAfterOptional,
		CodeMissingExamples,
		CodeMissingExampleResult,
		CodeMissingResult,
		CodeDuplicateMethod,
		CodeDuplicateParam,
	} {
		if !slices.Contains(codes, want) {
			t.Errorf("expected %s in %v", want, codes)
		}
	}

	errs := report.Errors()
	if len(errs) != 3 {
		t.Fatalf("errors = %v, want missing result, duplicate method and duplicate param", errs)
	}

	if !slices.ContainsFunc(errs, func(issue Issue) bool {
		return issue.Code == CodeDuplicateParam && issue.Location == "/methods/info_get_status/params/b"
	}) {
		t.Fatalf("duplicate param not reported at its location: %v", errs)
	}

	// Errors sort before warnings.
	if report.Issues[0].Severity != SeverityError || report.Issues[len(report.Issues)-1].Severity != SeverityWarning {
		t.Fatalf("issues are not sorted by severity: %v", report.Issues)
	}
}

func TestValidateExamplesReportsNonconformantValue(t *testing.T) {
	t.Parallel()

	doc := parseDocumentMap(t, map[string]any{
		"methods": []any{
			map[string]any{
				"name": "account_put_deploy",
				"params": []any{
					map[string]any{"name": "deploy", "required": true, "schema": map[string]any{"$ref": "#/components/schemas/Deploy"}},
				},
				"result": map[string]any{"name": "deploy_hash", "schema": map[string]any{"type": "string", "pattern": "^[0-9a-f]+$"}},
				"examples": []any{
					map[string]any{
						"name": "bad",
						"params": []any{
							map[string]any{"name": "deploy", "value": map[string]any{"timestamp": 1605573564072}},
						},
						"result": map[string]any{"name": "deploy_hash", "value": "XYZ"},
					},
				},
			},
		},
		"components": map[string]any{
			"schemas": map[string]any{
				"Deploy": map[string]any{
					"type":       "object",
					"required":   []any{"timestamp"},
					"properties": map[string]any{"timestamp": map[string]any{"$ref": "#/components/schemas/Timestamp"}},
				},
				"Timestamp": map[string]any{"type": "string"},
			},
		},
	})

	if report := Check(doc); len(report.Issues) != 0 {
		t.Fatalf("structural check should be clean: %v", report.Issues)
	}

	report := ValidateExamples(doc)
	if report.HasErrors() {
		t.Fatalf("conformance findings should be warnings: %v", report.Errors())
	}

	locations := make([]string, 0, len(report.Issues))
	for _, issue := range report.Warnings() {
		if issue.Code != CodeExampleNonconformant {
			t.Fatalf("unexpected code %q", issue.Code)
		}

		locations = append(locations, issue.Location)
	}

	want := []string{
		"/methods/account_put_deploy/examples/0/params/deploy",
		"/methods/account_put_deploy/examples/0/result",
	}
	if !slices.Equal(locations, want) {
		t.Fatalf("locations = %v, want %v", locations, want)
	}

	if !strings.Contains(report.Issues[0].Message, "/timestamp") {
		t.Fatalf("message should point at timestamp: %q", report.Issues[0].Message)
	}
}

func TestReportHelpers(t *testing.T) {
	t.Parallel()

	left := Report{Issues: []Issue{
		{Severity: SeverityWarning, Code: CodeMissingExamples, Location: "/methods/b"},
	}}
	right := Report{Issues: []Issue{
		{Severity: SeverityError, Code: CodeUnresolvedRef, Location: "/methods/z"},
		{Severity: SeverityWarning, Code: CodeMissingExamples, Location: "/methods/a"},
	}}

	merged := left.Merge(right)
	if len(merged.Issues) != 3 {
		t.Fatalf("merged issues = %d, want 3", len(merged.Issues))
	}

	if merged.Issues[0].Code != CodeUnresolvedRef || merged.Issues[1].Location != "/methods/a" {
		t.Fatalf("unexpected merge order: %v", merged.Issues)
	}

	if got := merged.Codes(); !slices.Equal(got, []string{CodeMissingExamples, CodeUnresolvedRef}) {
		t.Fatalf("codes = %v", got)
	}

	if len(left.Issues) != 1 {
		t.Fatal("Merge should not modify the receiver")
	}

	line := merged.Issues[0].String()
	if line != "error: /methods/z:  [unresolved-ref]" {
		t.Fatalf("issue line = %q", line)
	}
}

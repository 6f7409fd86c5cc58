// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/openrpcdoc

package openrpcdoc

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// Severity classifies an integrity issue.
type Severity string

const (
	// SeverityError marks a broken document contract.
	SeverityError Severity = "error"
	// SeverityWarning marks a suspicious but renderable document.
	SeverityWarning Severity = "warning"
)

// Issue codes reported by Check and ValidateExamples.
const (
	CodeUnresolvedRef          = "unresolved-ref"
	CodeExampleParamsMismatch  = "example-params-mismatch"
	CodeDuplicateUnionVariant  = "duplicate-union-variant"
	CodeRequiredNotInProps     = "required-not-in-properties"
	CodeDuplicateMethod        = "duplicate-method"
	CodeDuplicateParam         = "duplicate-param"
	CodeMissingExamples        = "missing-examples"
	CodeMissingExampleResult   = "missing-example-result"
	CodeMissingResult          = "missing-result"
	CodeRequiredAfterOptional  = "required-after-optional"
	CodeUnknownOpenRPCVersion  = "unknown-openrpc-version"
	CodeExampleNonconformant   = "example-nonconformant"
	CodeExampleSchemaCompile   = "example-schema-compile"
	CodeExampleParamUndeclared = "example-param-undeclared"
)

// Issue is one finding about a document.
type Issue struct {
	Severity Severity `json:"severity" yaml:"severity"`
	Code     string   `json:"code" yaml:"code"`
	Location string   `json:"location" yaml:"location"`
	Method   string   `json:"method,omitempty" yaml:"method,omitempty"`
	Message  string   `json:"message" yaml:"message"`
}

// String renders the issue as one diagnostic line.
func (i Issue) String() string {
	return fmt.Sprintf("%s: %s: %s [%s]", i.Severity, i.Location, i.Message, i.Code)
}

// Report is an ordered set of issues.
type Report struct {
	Issues []Issue `json:"issues" yaml:"issues"`
}

// Errors returns issues with error severity.
func (r Report) Errors() []Issue {
	return r.filter(SeverityError)
}

// Warnings returns issues with warning severity.
func (r Report) Warnings() []Issue {
	return r.filter(SeverityWarning)
}

// HasErrors reports whether any issue has error severity.
func (r Report) HasErrors() bool {
	return slices.ContainsFunc(r.Issues, func(issue Issue) bool {
		return issue.Severity == SeverityError
	})
}

// Codes returns the distinct issue codes in sorted order.
func (r Report) Codes() []string {
	seen := make(map[string]struct{}, len(r.Issues))
	out := make([]string, 0, len(r.Issues))
	for _, issue := range r.Issues {
		if _, ok := seen[issue.Code]; ok {
			continue
		}

		seen[issue.Code] = struct{}{}
		out = append(out, issue.Code)
	}

	sort.Strings(out)
	return out
}

// Merge returns a sorted report containing issues of both reports.
func (r Report) Merge(other Report) Report {
	out := Report{Issues: make([]Issue, 0, len(r.Issues)+len(other.Issues))}
	out.Issues = append(out.Issues, r.Issues...)
	out.Issues = append(out.Issues, other.Issues...)
	out.sort()
	return out
}

func (r Report) filter(severity Severity) []Issue {
	var out []Issue
	for _, issue := range r.Issues {
		if issue.Severity == severity {
			out = append(out, issue)
		}
	}

	return out
}

// sort orders errors before warnings, then by location and code.
func (r *Report) sort() {
	sort.SliceStable(r.Issues, func(i, j int) bool {
		left, right := r.Issues[i], r.Issues[j]
		if left.Severity != right.Severity {
			return left.Severity == SeverityError
		}

		if left.Location != right.Location {
			return left.Location < right.Location
		}

		return left.Code < right.Code
	})
}

func (r *Report) add(severity Severity, code, location, method, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{
		Severity: severity,
		Code:     code,
		Location: location,
		Method:   method,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Check verifies the structural contract of a document: references resolve,
// examples line up with declared params, union variants are distinct and
// required properties are declared.
func Check(doc *Document) Report {
	var report Report

	if info := DetectVersion(doc.OpenRPC); !info.Supported {
		report.add(SeverityWarning, CodeUnknownOpenRPCVersion, "/openrpc", "",
			"openrpc version %q is not recognised", doc.OpenRPC)
	}

	for _, name := range doc.SchemaNames() {
		location := "/components/schemas/" + encodeJSONPointerToken(name)
		checkSchemaTree(doc, &report, doc.Schemas[name], location, "")
	}

	seenMethods := make(map[string]struct{}, len(doc.Methods))
	for _, method := range doc.Methods {
		location := "/methods/" + encodeJSONPointerToken(method.Name)
		if _, ok := seenMethods[method.Name]; ok {
			report.add(SeverityError, CodeDuplicateMethod, location, method.Name,
				"method %q is declared more than once", method.Name)
		}

		seenMethods[method.Name] = struct{}{}
		checkMethod(doc, &report, method, location)
	}

	report.sort()
	return report
}

// checkMethod verifies params, result and examples of one method.
func checkMethod(doc *Document, report *Report, method Method, location string) {
	seenParams := make(map[string]struct{}, len(method.Params))
	sawOptional := false
	for _, param := range method.Params {
		paramLocation := location + "/params/" + encodeJSONPointerToken(param.Name)
		if _, ok := seenParams[param.Name]; ok {
			report.add(SeverityError, CodeDuplicateParam, paramLocation, method.Name,
				"param %q is declared more than once", param.Name)
		}

		seenParams[param.Name] = struct{}{}

		if param.Required && sawOptional {
			report.add(SeverityWarning, CodeRequiredAfterOptional, paramLocation, method.Name,
				"required param %q follows an optional param", param.Name)
		}

		if !param.Required {
			sawOptional = true
		}

		checkSchemaTree(doc, report, param.Schema, paramLocation+"/schema", method.Name)
	}

	if method.Result == nil {
		report.add(SeverityError, CodeMissingResult, location+"/result", method.Name,
			"method %q declares no result", method.Name)
	} else {
		checkSchemaTree(doc, report, method.Result.Schema, location+"/result/schema", method.Name)
	}

	if len(method.Examples) == 0 {
		report.add(SeverityWarning, CodeMissingExamples, location+"/examples", method.Name,
			"method %q has no examples", method.Name)
	}

	declared := method.ParamNames()
	for index, example := range method.Examples {
		exampleLocation := fmt.Sprintf("%s/examples/%d", location, index)
		got := example.ParamNames()
		if !slices.Equal(got, declared) {
			report.add(SeverityError, CodeExampleParamsMismatch, exampleLocation+"/params", method.Name,
				"example %q params [%s] do not match declared params [%s]",
				example.Name, strings.Join(got, ", "), strings.Join(declared, ", "))
		}

		for _, param := range example.Params {
			if _, ok := method.Param(param.Name); !ok {
				report.add(SeverityError, CodeExampleParamUndeclared, exampleLocation+"/params", method.Name,
					"example %q uses undeclared param %q", example.Name, param.Name)
			}
		}

		if example.Result == nil {
			report.add(SeverityWarning, CodeMissingExampleResult, exampleLocation+"/result", method.Name,
				"example %q has no result", example.Name)
		}
	}
}

// checkSchemaTree walks one schema tree and reports reference, union and required issues.
func checkSchemaTree(doc *Document, report *Report, root Schema, location, method string) {
	walkSchema(root, location, func(node map[string]any, nodeLocation string) {
		if ref, ok := node["$ref"].(string); ok {
			if _, resolved := doc.lookupRef(ref); !resolved || SchemaRefName(ref) == "" {
				checkUnresolvedRef(doc, report, ref, nodeLocation, method)
			}
		}

		checkRequiredProperties(report, node, nodeLocation, method)

		for _, keyword := range []string{"anyOf", "oneOf"} {
			checkUnionVariants(report, node, keyword, nodeLocation, method)
		}
	})
}

func checkUnresolvedRef(doc *Document, report *Report, ref, location, method string) {
	name := SchemaRefName(ref)
	if _, exists := doc.Schemas[name]; name != "" && exists {
		report.add(SeverityError, CodeUnresolvedRef, location+"/$ref", method,
			"reference %q points at a missing node inside %q", ref, name)
		return
	}

	report.add(SeverityError, CodeUnresolvedRef, location+"/$ref", method,
		"reference %q does not name a component schema", ref)
}

// checkRequiredProperties reports required names missing from properties.
func checkRequiredProperties(report *Report, node map[string]any, location, method string) {
	required := asStringSlice(node["required"])
	if len(required) == 0 {
		return
	}

	_, hasProperties := node["properties"]
	composed := len(asSlice(node["allOf"])) > 0 || len(asSlice(node["anyOf"])) > 0 || len(asSlice(node["oneOf"])) > 0
	if !hasProperties && (composed || primaryType(node) != "object") {
		return
	}

	properties := asObject(node["properties"])
	for _, name := range required {
		if _, ok := properties[name]; ok {
			continue
		}

		report.add(SeverityError, CodeRequiredNotInProps, location+"/required", method,
			"required property %q is not declared in properties", name)
	}
}

// checkUnionVariants reports variant keys shared by more than one union branch.
func checkUnionVariants(report *Report, node map[string]any, keyword, location, method string) {
	branches := asSlice(node[keyword])
	if len(branches) < 2 {
		return
	}

	owners := make(map[string]int)
	for index, raw := range branches {
		for _, key := range unionVariantKeys(asObject(raw)) {
			if first, ok := owners[key]; ok {
				report.add(SeverityError, CodeDuplicateUnionVariant, fmt.Sprintf("%s/%s/%d", location, keyword, index), method,
					"variant key %q is already used by %s branch %d", key, keyword, first)
				continue
			}

			owners[key] = index
		}
	}
}

// unionVariantKeys returns the tag keys that select one union branch.
func unionVariantKeys(branch map[string]any) []string {
	if branch == nil {
		return nil
	}

	var keys []string
	for _, value := range asSlice(branch["enum"]) {
		if text, ok := value.(string); ok {
			keys = append(keys, text)
		}
	}

	if text, ok := branch["const"].(string); ok {
		keys = append(keys, text)
	}

	if len(keys) > 0 {
		return keys
	}

	if required := asStringSlice(branch["required"]); len(required) == 1 {
		return required
	}

	if properties := asObject(branch["properties"]); len(properties) == 1 {
		return sortedKeys(properties)
	}

	return nil
}

// walkSchema visits every object schema node reachable through schema keywords.
func walkSchema(root Schema, location string, visit func(node map[string]any, location string)) {
	if root.Object == nil {
		return
	}

	node := root.Object
	visit(node, location)

	for _, keyword := range []string{"properties", "patternProperties", "$defs", "definitions", "dependentSchemas"} {
		nested := mapSchemaValues(node[keyword])
		for _, key := range sortedSchemaValueKeys(nested) {
			walkSchema(nested[key], location+"/"+keyword+"/"+encodeJSONPointerToken(key), visit)
		}
	}

	for _, keyword := range []string{"allOf", "anyOf", "oneOf", "prefixItems"} {
		walkSchemaList(node[keyword], location+"/"+keyword, visit)
	}

	for _, keyword := range []string{"items", "additionalItems"} {
		switch typed := node[keyword].(type) {
		case []any:
			walkSchemaList(typed, location+"/"+keyword, visit)
		default:
			if schema, ok := toSchemaValue(typed); ok {
				walkSchema(schema, location+"/"+keyword, visit)
			}
		}
	}

	for _, keyword := range []string{
		"additionalProperties", "unevaluatedProperties", "unevaluatedItems",
		"propertyNames", "contains", "not", "if", "then", "else",
	} {
		if schema, ok := toSchemaValue(node[keyword]); ok {
			walkSchema(schema, location+"/"+keyword, visit)
		}
	}
}

func walkSchemaList(raw any, location string, visit func(node map[string]any, location string)) {
	for index, item := range asSlice(raw) {
		schema, ok := toSchemaValue(item)
		if !ok {
			continue
		}

		walkSchema(schema, fmt.Sprintf("%s/%d", location, index), visit)
	}
}

// encodeJSONPointerToken escapes one JSON pointer token.
func encodeJSONPointerToken(token string) string {
	token = strings.ReplaceAll(token, "~", "~0")
	token = strings.ReplaceAll(token, "/", "~1")
	return token
}

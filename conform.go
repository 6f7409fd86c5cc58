// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/openrpcdoc

package openrpcdoc

import (
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// documentResourceURL is the in-memory location the document is registered under.
const documentResourceURL = "file:///openrpc.json"

// maxConformanceMessages caps validator messages reported per example value.
const maxConformanceMessages = 3

// exampleValidator compiles descriptor schemas on demand and validates example values.
type exampleValidator struct {
	compiler *jsonschema.Compiler
	printer  *message.Printer
	compiled map[string]*jsonschema.Schema
	failed   map[string]error
}

// ValidateExamples checks every example param and result value against the
// schema of its content descriptor. Findings are warnings: a document whose
// examples disagree with its schemas still renders.
func ValidateExamples(doc *Document) Report {
	var report Report

	validator, err := newExampleValidator(doc)
	if err != nil {
		report.add(SeverityWarning, CodeExampleSchemaCompile, "/", "", "%v", err)
		return report
	}

	for _, method := range doc.Methods {
		location := "/methods/" + encodeJSONPointerToken(method.Name)
		for index, example := range method.Examples {
			exampleLocation := fmt.Sprintf("%s/examples/%d", location, index)

			for _, param := range example.Params {
				descriptor, ok := method.Param(param.Name)
				if !ok {
					continue
				}

				validator.check(&report, descriptor, param.Value,
					exampleLocation+"/params/"+encodeJSONPointerToken(param.Name), method.Name)
			}

			if example.Result != nil && method.Result != nil {
				validator.check(&report, *method.Result, example.Result.Value, exampleLocation+"/result", method.Name)
			}
		}
	}

	report.sort()
	return report
}

func newExampleValidator(doc *Document) (*exampleValidator, error) {
	compiler := jsonschema.NewCompiler()
	compiler.DefaultDraft(jsonschema.Draft7)

	if err := compiler.AddResource(documentResourceURL, doc.raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCompileSchema, err)
	}

	return &exampleValidator{
		compiler: compiler,
		printer:  message.NewPrinter(language.English),
		compiled: make(map[string]*jsonschema.Schema),
		failed:   make(map[string]error),
	}, nil
}

// check validates one example value and records nonconformance.
func (v *exampleValidator) check(report *Report, descriptor ContentDescriptor, value any, location, method string) {
	if descriptor.schemaPointer == "" || descriptor.Schema.isZero() {
		return
	}

	schema, err := v.schema(descriptor.schemaPointer)
	if err != nil {
		report.add(SeverityWarning, CodeExampleSchemaCompile, location, method,
			"schema of %q cannot be compiled: %v", descriptor.Name, err)
		return
	}

	err = schema.Validate(value)
	if err == nil {
		return
	}

	report.add(SeverityWarning, CodeExampleNonconformant, location, method,
		"value of %q does not match its schema: %s", descriptor.Name, v.describe(err))
}

// schema compiles and caches the schema located at a document pointer.
func (v *exampleValidator) schema(pointer string) (*jsonschema.Schema, error) {
	if schema, ok := v.compiled[pointer]; ok {
		return schema, nil
	}

	if err, ok := v.failed[pointer]; ok {
		return nil, err
	}

	schema, err := v.compiler.Compile(documentResourceURL + pointer)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrCompileSchema, err)
		v.failed[pointer] = err
		return nil, err
	}

	v.compiled[pointer] = schema
	return schema, nil
}

// describe flattens a validation error tree into its leaf messages.
func (v *exampleValidator) describe(err error) string {
	var validationErr *jsonschema.ValidationError
	if !errors.As(err, &validationErr) {
		return strings.Join(strings.Fields(err.Error()), " ")
	}

	leaves := make([]string, 0, maxConformanceMessages)
	v.collectLeaves(validationErr, &leaves)
	if len(leaves) == 0 {
		return validationErr.ErrorKind.LocalizedString(v.printer)
	}

	return strings.Join(leaves, "; ")
}

func (v *exampleValidator) collectLeaves(err *jsonschema.ValidationError, out *[]string) {
	if len(*out) >= maxConformanceMessages {
		return
	}

	if len(err.Causes) == 0 {
		location := "/" + strings.Join(err.InstanceLocation, "/")
		*out = append(*out, fmt.Sprintf("at %q: %s", location, err.ErrorKind.LocalizedString(v.printer)))
		return
	}

	for _, cause := range err.Causes {
		v.collectLeaves(cause, out)
	}
}

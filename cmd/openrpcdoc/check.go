// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/openrpcdoc

package main

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/woozymasta/openrpcdoc"
)

// runCheck prints the integrity report and fails on errors, or on warnings in strict mode.
func (runner *cliRunner) runCheck(inputPath string, strict bool, format string) error {
	doc, _, err := runner.readDocument(inputPath)
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}

	report := openrpcdoc.Check(doc).Merge(openrpcdoc.ValidateExamples(doc))

	data, err := formatReport(report, format)
	if err != nil {
		return err
	}

	if err := runner.writeOutput("", data, "report"); err != nil {
		return err
	}

	errorCount, warningCount := len(report.Errors()), len(report.Warnings())
	if errorCount > 0 || (strict && warningCount > 0) {
		return fmt.Errorf("%w: %d errors, %d warnings", errCheckFailed, errorCount, warningCount)
	}

	return nil
}

// formatReport encodes the report as diagnostic lines, JSON or YAML.
func formatReport(report openrpcdoc.Report, format string) ([]byte, error) {
	if report.Issues == nil {
		report.Issues = []openrpcdoc.Issue{}
	}

	switch format {
	case "json":
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode report json: %w", err)
		}

		return append(data, '\n'), nil
	case "yaml":
		data, err := yaml.Marshal(report)
		if err != nil {
			return nil, fmt.Errorf("encode report yaml: %w", err)
		}

		return data, nil
	}

	var buf bytes.Buffer
	for _, issue := range report.Issues {
		buf.WriteString(issue.String())
		buf.WriteByte('\n')
	}

	fmt.Fprintf(&buf, "%d errors, %d warnings\n", len(report.Errors()), len(report.Warnings()))
	return buf.Bytes(), nil
}

// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/openrpcdoc

package openrpcdoc

import (
	"fmt"
	"strings"
)

// ExportFormat selects the encoding used by Export.
type ExportFormat string

const (
	// ExportFormatJSON emits indented JSON.
	ExportFormatJSON ExportFormat = "json"
	// ExportFormatYAML emits YAML with sorted keys.
	ExportFormatYAML ExportFormat = "yaml"
)

// Export re-encodes the whole document. Object keys are sorted, so output is
// stable across runs but does not keep the source key order.
func (d *Document) Export(format ExportFormat) ([]byte, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(string(format)))) {
	case ExportFormatJSON, "":
		data, err := marshalIndentedJSON(d.raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrEncodeDocument, err)
		}

		return data, nil
	case ExportFormatYAML:
		node, err := yamlNodeFor(d.raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrEncodeDocument, err)
		}

		data, err := marshalYAMLDocument(node)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrEncodeDocument, err)
		}

		return data, nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownExportFormat, format)
	}
}

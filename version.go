// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/openrpcdoc

package openrpcdoc

import (
	"strconv"
	"strings"
)

// VersionInfo describes recognition status of a document "openrpc" value.
type VersionInfo struct {
	// Raw is the trimmed input value.
	Raw string
	// Canonical is "major.minor" or the full pre-release value for release candidates.
	Canonical string
	// Supported reports whether the renderer knows the document layout of this version.
	Supported bool
}

// supportedReleaseCandidates lists pre-release versions with a stable document layout.
var supportedReleaseCandidates = map[string]struct{}{
	"1.0.0-rc0": {},
	"1.0.0-rc1": {},
}

// maxSupportedMinor is the highest 1.x minor version the renderer understands.
const maxSupportedMinor = 3

// DetectVersion classifies an OpenRPC document version string.
func DetectVersion(value string) VersionInfo {
	raw := strings.TrimSpace(value)
	info := VersionInfo{Raw: raw}

	normalized := strings.TrimPrefix(strings.ToLower(raw), "v")
	if normalized == "" {
		return info
	}

	core, preRelease, hasPreRelease := strings.Cut(normalized, "-")
	parts := strings.Split(core, ".")
	if len(parts) < 2 || len(parts) > 3 {
		info.Canonical = normalized
		return info
	}

	numbers := make([]int, 0, len(parts))
	for _, part := range parts {
		number, err := strconv.Atoi(part)
		if err != nil || number < 0 {
			info.Canonical = normalized
			return info
		}

		numbers = append(numbers, number)
	}

	if hasPreRelease {
		info.Canonical = normalized
		_, info.Supported = supportedReleaseCandidates[core+"-"+preRelease]
		return info
	}

	info.Canonical = strconv.Itoa(numbers[0]) + "." + strconv.Itoa(numbers[1])
	info.Supported = numbers[0] == 1 && numbers[1] <= maxSupportedMinor
	return info
}

// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/openrpcdoc

package openrpcdoc

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// lineKind classifies one line of a description.
type lineKind int

const (
	lineProse lineKind = iota
	lineBlank
	lineFence
	lineBullet
	lineNumbered
	// lineVerbatim covers headings, quotes, tables, rules and indented code.
	lineVerbatim
)

// verbatimPrefixes start lines that are copied without wrapping.
var verbatimPrefixes = []string{"#", ">", "|", "---", "***", "___"}

func classifyLine(line string) lineKind {
	trimmed := strings.TrimSpace(line)
	switch {
	case trimmed == "":
		return lineBlank
	case strings.HasPrefix(trimmed, "```"):
		return lineFence
	case strings.HasPrefix(line, "    "), strings.HasPrefix(line, "\t"):
		return lineVerbatim
	case isBullet(trimmed):
		return lineBullet
	case numberedMarkerEnd(trimmed) > 0:
		return lineNumbered
	}

	for _, prefix := range verbatimPrefixes {
		if strings.HasPrefix(trimmed, prefix) {
			return lineVerbatim
		}
	}

	return lineProse
}

func isBullet(trimmed string) bool {
	return len(trimmed) >= 2 &&
		strings.IndexByte("-*+", trimmed[0]) >= 0 &&
		(trimmed[1] == ' ' || trimmed[1] == '\t')
}

// numberedMarkerEnd returns the length of an ordered list marker like "12." or "3)", or 0.
func numberedMarkerEnd(trimmed string) int {
	digits := len(trimmed) - len(strings.TrimLeft(trimmed, "0123456789"))
	if digits == 0 || digits+1 >= len(trimmed) {
		return 0
	}

	if mark := trimmed[digits]; mark != '.' && mark != ')' {
		return 0
	}

	if gap := trimmed[digits+1]; gap != ' ' && gap != '\t' {
		return 0
	}

	return digits + 1
}

// nestingLevel maps leading whitespace to a list depth; tabs count as four columns.
func nestingLevel(line string) int {
	columns := 0
	for _, r := range line {
		if r == ' ' {
			columns++
		} else if r == '\t' {
			columns += 4
		} else {
			break
		}
	}

	if columns < 2 {
		return 0
	}

	return columns / 2
}

// descriptionWriter reflows prose and normalizes lists of one description.
type descriptionWriter struct {
	width  int
	marker string
	lines  []string
	prose  []string
	fenced bool
}

func (w *descriptionWriter) write(raw string) {
	line := strings.TrimRight(raw, " \t")
	kind := classifyLine(line)
	if w.fenced && kind != lineFence {
		w.lines = append(w.lines, line)
		return
	}

	switch kind {
	case lineFence:
		w.flush()
		w.lines = append(w.lines, line)
		w.fenced = !w.fenced
	case lineBlank:
		w.flush()
		w.separate()
	case lineProse:
		w.prose = append(w.prose, strings.TrimSpace(line))
	case lineBullet, lineNumbered:
		w.flush()
		if n := len(w.lines); n > 0 && classifyLine(w.lines[n-1]) == lineProse {
			w.separate()
		}

		w.lines = append(w.lines, w.relist(line, kind))
	default:
		w.flush()
		w.lines = append(w.lines, line)
	}
}

// relist rewrites a list item with the configured bullet and two-space nesting.
func (w *descriptionWriter) relist(line string, kind lineKind) string {
	trimmed := strings.TrimSpace(line)

	head, body := w.marker, strings.TrimSpace(trimmed[1:])
	if kind == lineNumbered {
		end := numberedMarkerEnd(trimmed)
		head, body = trimmed[:end], strings.TrimSpace(trimmed[end:])
	}

	out := strings.Repeat("  ", nestingLevel(line)) + head
	if body != "" {
		out += " " + body
	}

	return out
}

func (w *descriptionWriter) flush() {
	if len(w.prose) == 0 {
		return
	}

	w.lines = append(w.lines, wrapWords(strings.Join(w.prose, " "), w.width)...)
	w.prose = w.prose[:0]
}

// separate appends one blank line unless output is empty or already ends blank.
func (w *descriptionWriter) separate() {
	if n := len(w.lines); n > 0 && w.lines[n-1] != "" {
		w.lines = append(w.lines, "")
	}
}

// formatDescription turns a free-form description into CommonMark: prose is
// wrapped at width, list markers and nesting are normalized, fenced code and
// other block structures pass through unchanged.
func formatDescription(text string, width int, marker string) string {
	text = strings.TrimSpace(toLF(text))
	if text == "" {
		return ""
	}

	w := &descriptionWriter{width: width, marker: listMarkerOrDefault(marker)}
	for _, line := range strings.Split(text, "\n") {
		w.write(line)
	}

	w.flush()
	return strings.Join(w.lines, "\n")
}

// wrapWords greedily packs words into lines of at most width runes.
// A non-positive width disables wrapping.
func wrapWords(text string, width int) []string {
	var (
		lines   []string
		line    strings.Builder
		lineLen int
	)

	for _, word := range strings.Fields(text) {
		wordLen := utf8.RuneCountInString(word)
		if lineLen > 0 {
			if width > 0 && lineLen+1+wordLen > width {
				lines = append(lines, line.String())
				line.Reset()
				lineLen = 0
			} else {
				line.WriteByte(' ')
				lineLen++
			}
		}

		line.WriteString(word)
		lineLen += wordLen
	}

	if lineLen > 0 {
		lines = append(lines, line.String())
	}

	return lines
}

// collapseBlankLines strips trailing spaces and keeps at most one blank line
// in a row outside fenced code.
func collapseBlankLines(text string) string {
	lines := strings.Split(toLF(text), "\n")
	out := lines[:0]
	fenced := false
	for _, raw := range lines {
		line := strings.TrimRight(raw, " \t")
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(trimmed, "```"):
			fenced = !fenced
		case fenced:
		case trimmed == "":
			if len(out) > 0 && out[len(out)-1] == "" {
				continue
			}

			line = ""
		}

		out = append(out, line)
	}

	return strings.TrimRight(strings.Join(out, "\n"), "\n")
}

func toLF(text string) string {
	return strings.NewReplacer("\r\n", "\n", "\r", "\n").Replace(text)
}

func wrapWidthOrDefault(value int) int {
	if value <= 0 {
		return defaultWrapWidth
	}

	return value
}

func listMarkerOrDefault(value string) string {
	if value = strings.TrimSpace(value); value == "*" || value == "-" {
		return value
	}

	return defaultListMarker
}

// orNone renders empty metadata as "(none)".
func orNone(value string) string {
	if value = strings.TrimSpace(value); value == "" {
		return "(none)"
	}

	return value
}

// squashSpaces joins the words of a one-line text field with single spaces.
func squashSpaces(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// inlineJSON encodes a value as compact JSON, falling back to %v.
func inlineJSON(value any) string {
	data, err := marshalCompactJSON(value)
	if err != nil {
		return fmt.Sprint(value)
	}

	return string(data)
}

// escapeInline escapes backticks inside inline code spans.
func escapeInline(value string) string {
	return strings.ReplaceAll(value, "`", "\\`")
}

func ensureTrailingNewline(value string) string {
	return strings.TrimRight(value, "\n") + "\n"
}

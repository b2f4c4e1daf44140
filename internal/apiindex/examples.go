package apiindex

import (
	"regexp"
	"strings"
)

//nolint:gochecknoglobals // Compiled once.
var liveExamplePattern = regexp.MustCompile(`<LiveExample\b[^>]*?\bsrc=\{\s*([A-Za-z_$][\w$]*)\s*\}`)

// ExtractExamples returns the live examples referenced in a document body in
// order of first occurrence. Each example is titled with the closest level-3
// heading above it.
func ExtractExamples(body string) []ExampleRecord {
	matches := liveExamplePattern.FindAllStringSubmatchIndex(body, -1)
	if len(matches) == 0 {
		return nil
	}

	headings := levelThreeHeadings(body)
	seen := make(map[string]bool, len(matches))
	examples := make([]ExampleRecord, 0, len(matches))

	for _, m := range matches {
		name := body[m[2]:m[3]]
		if seen[name] {
			continue
		}
		seen[name] = true

		examples = append(examples, ExampleRecord{
			ExampleName: name,
			Title:       headingBefore(headings, m[0]),
		})
	}

	return examples
}

// heading is a level-3 heading and the byte offset where its line starts.
type heading struct {
	offset int
	text   string
}

func levelThreeHeadings(body string) []heading {
	var headings []heading
	offset := 0
	for _, line := range strings.SplitAfter(body, "\n") {
		if text, ok := levelThreeHeading(line); ok {
			headings = append(headings, heading{offset: offset, text: text})
		}
		offset += len(line)
	}
	return headings
}

func levelThreeHeading(line string) (string, bool) {
	line = strings.TrimRight(line, "\r\n")
	trimmed := strings.TrimLeft(line, " ")
	if len(line)-len(trimmed) > 3 {
		return "", false
	}
	rest, ok := strings.CutPrefix(trimmed, "###")
	if !ok {
		return "", false
	}
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return "", false
	}
	text := strings.TrimSpace(rest)
	text = strings.TrimSpace(strings.TrimRight(text, "#"))
	return text, true
}

func headingBefore(headings []heading, offset int) *string {
	var title *string
	for i := range headings {
		if headings[i].offset >= offset {
			break
		}
		title = &headings[i].text
	}
	return title
}

// mergeExamples appends examples not yet present in existing, preserving order.
func mergeExamples(existing, extra []ExampleRecord) []ExampleRecord {
	seen := make(map[string]bool, len(existing))
	for _, e := range existing {
		seen[e.ExampleName] = true
	}
	for _, e := range extra {
		if seen[e.ExampleName] {
			continue
		}
		seen[e.ExampleName] = true
		existing = append(existing, e)
	}
	return existing
}

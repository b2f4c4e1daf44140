package content

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseDocument splits a markdown document into its frontmatter and body.
// Documents without frontmatter yield zero-valued data and the full content.
func ParseDocument(content []byte) (EntryData, string, error) {
	var data EntryData

	// Check for frontmatter delimiters (---)
	var rest []byte
	switch {
	case bytes.HasPrefix(content, []byte("---\n")):
		rest = content[4:]
	case bytes.HasPrefix(content, []byte("---\r\n")):
		rest = content[5:]
	default:
		return data, string(content), nil
	}

	var yamlLines []string
	consumed := 0
	closed := false
	for _, line := range strings.SplitAfter(string(rest), "\n") {
		consumed += len(line)
		if strings.TrimRight(line, "\r\n") == "---" {
			closed = true
			break
		}
		yamlLines = append(yamlLines, strings.TrimRight(line, "\r\n"))
	}
	if !closed {
		return data, "", fmt.Errorf("unterminated frontmatter")
	}
	body := string(rest[consumed:])

	if err := decodeFrontmatter(strings.Join(yamlLines, "\n"), &data); err != nil {
		return data, "", fmt.Errorf("failed to parse frontmatter YAML: %w", err)
	}

	return data, body, nil
}

// decodeFrontmatter decodes YAML into data. Some collections repeat top-level
// keys, so the mapping is decoded as a node first and the last occurrence of
// each key wins.
func decodeFrontmatter(raw string, data *EntryData) error {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(raw), &doc); err != nil {
		return err
	}
	if len(doc.Content) == 0 {
		return nil
	}

	root := doc.Content[0]
	if root.Kind == yaml.MappingNode {
		root.Content = lastKeyWins(root.Content)
	}
	return root.Decode(data)
}

// lastKeyWins drops earlier duplicates from mapping content laid out as
// alternating key and value nodes, preserving the order of the survivors.
func lastKeyWins(pairs []*yaml.Node) []*yaml.Node {
	last := make(map[string]int, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		last[pairs[i].Value] = i
	}
	if len(last) == len(pairs)/2 {
		return pairs
	}

	kept := make([]*yaml.Node, 0, 2*len(last))
	for i := 0; i+1 < len(pairs); i += 2 {
		if last[pairs[i].Value] == i {
			kept = append(kept, pairs[i], pairs[i+1])
		}
	}
	return kept
}

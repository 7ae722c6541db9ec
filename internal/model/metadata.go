// Package model converts raw reflection-dump records into the documentation
// object model: classes with their public functions, members, signals and
// enumerations, plus the cross-class symbol index used to resolve links.
package model

import "strings"

const (
	tagsDirective     = "tags:"
	categoryDirective = "category:"
)

// Metadata is the structured data found in directive lines of a description.
type Metadata struct {
	Tags     []string `json:"tags"`
	Category string   `json:"category"`
}

// HasTag reports whether tag is one of the metadata tags.
func (m Metadata) HasTag(tag string) bool {
	for _, t := range m.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// ExtractMetadata removes the "tags:" and "category:" directive lines from
// description and returns the remaining lines, each trimmed, along with the
// parsed metadata. Directives match case-insensitively; the last occurrence of
// a directive wins.
func ExtractMetadata(description string) (string, Metadata) {
	var meta Metadata
	lines := strings.Split(description, "\n")
	kept := make([]string, 0, len(lines))

	for _, line := range lines {
		directive := strings.ToLower(strings.TrimSpace(line))
		switch {
		case strings.HasPrefix(directive, tagsDirective):
			pieces := strings.Split(afterColon(line), ",")
			meta.Tags = make([]string, 0, len(pieces))
			for _, p := range pieces {
				meta.Tags = append(meta.Tags, strings.TrimSpace(p))
			}
		case strings.HasPrefix(directive, categoryDirective):
			meta.Category = strings.TrimSpace(afterColon(line))
		default:
			kept = append(kept, strings.TrimSpace(line))
		}
	}
	return strings.Join(kept, "\n"), meta
}

func afterColon(line string) string {
	return line[strings.Index(line, ":")+1:]
}

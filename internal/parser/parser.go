// Package parser reads imported documents: optional YAML frontmatter
// followed by a Markdown or plain-text body.
package parser

import (
	"bytes"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is the parsed form of an imported file.
type Document struct {
	Frontmatter map[string]interface{}
	Body        string
	// Title is the frontmatter title, else the first "# " heading, else empty.
	Title string
	// Category is the frontmatter category, else empty.
	Category string
}

// Parse splits frontmatter from the body and extracts title and category.
func Parse(data []byte) (*Document, error) {
	fm, body, err := splitFrontmatter(data)
	if err != nil {
		return nil, err
	}
	return &Document{
		Frontmatter: fm,
		Body:        body,
		Title:       title(fm, body),
		Category:    stringField(fm, "category"),
	}, nil
}

// splitFrontmatter separates YAML frontmatter (between leading --- delimiters)
// from the body. If no frontmatter is found the entire content is body.
func splitFrontmatter(data []byte) (map[string]interface{}, string, error) {
	const delim = "---"
	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	trimmed := bytes.TrimLeft(data, "\n")

	if !bytes.HasPrefix(trimmed, []byte(delim)) {
		return nil, string(data), nil
	}

	rest := trimmed[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		return nil, string(data), nil
	}

	yamlBlock := rest[:idx]
	afterDelim := rest[idx+1+len(delim):]
	body := strings.TrimLeft(string(afterDelim), "\n")

	var fm map[string]interface{}
	if err := yaml.Unmarshal(yamlBlock, &fm); err != nil {
		// Not YAML after all: keep the whole file as body.
		return nil, string(data), nil
	}
	return fm, body, nil
}

func stringField(fm map[string]interface{}, key string) string {
	if fm == nil {
		return ""
	}
	s, _ := fm[key].(string)
	return strings.TrimSpace(s)
}

func title(fm map[string]interface{}, body string) string {
	if t := stringField(fm, "title"); t != "" {
		return t
	}
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}
	return ""
}

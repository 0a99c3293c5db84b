package parser

import (
	"testing"
)

func TestParse_FrontmatterAndBody(t *testing.T) {
	input := []byte("---\ntitle: Groceries\ncategory: home\n---\n# Shopping\nBuy milk.\n")
	d, err := Parse(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Title != "Groceries" {
		t.Errorf("title = %q, want %q", d.Title, "Groceries")
	}
	if d.Category != "home" {
		t.Errorf("category = %q, want %q", d.Category, "home")
	}
	if d.Body != "# Shopping\nBuy milk.\n" {
		t.Errorf("body = %q", d.Body)
	}
}

func TestParse_HeadingTitle(t *testing.T) {
	d, err := Parse([]byte("intro\n# Just a heading\nSome text.\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Frontmatter != nil {
		t.Errorf("expected nil frontmatter, got %v", d.Frontmatter)
	}
	if d.Title != "Just a heading" {
		t.Errorf("title = %q, want %q", d.Title, "Just a heading")
	}
}

func TestParse_PlainText(t *testing.T) {
	d, err := Parse([]byte("Call bank\r\nabout the card\r\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Title != "" || d.Category != "" {
		t.Errorf("title = %q, category = %q; want both empty", d.Title, d.Category)
	}
	if d.Body != "Call bank\nabout the card\n" {
		t.Errorf("body = %q", d.Body)
	}
}

func TestParse_InvalidYAMLFallback(t *testing.T) {
	input := []byte("---\n: invalid: yaml: {{{\n---\nBody\n")
	d, err := Parse(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Frontmatter != nil {
		t.Errorf("expected nil frontmatter on invalid YAML")
	}
	if d.Body != string(input) {
		t.Errorf("body = %q, want whole input", d.Body)
	}
}

func TestParse_UnclosedFrontmatter(t *testing.T) {
	input := []byte("---\ntitle: x\nno closing delimiter\n")
	d, _ := Parse(input)
	if d.Frontmatter != nil || d.Title != "" {
		t.Errorf("unclosed frontmatter parsed as %v / %q", d.Frontmatter, d.Title)
	}
}

func TestParse_NonStringFields(t *testing.T) {
	d, err := Parse([]byte("---\ntitle: 42\ncategory: [a, b]\n---\nbody\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Title != "" || d.Category != "" {
		t.Errorf("non-string fields should be ignored, got %q / %q", d.Title, d.Category)
	}
}

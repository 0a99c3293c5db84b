package provider

import "strings"

const defaultTextLimit = 20

// TextMatch is one note found by SearchText.
type TextMatch struct {
	ID      int64
	Snippet string
}

// searchTerms splits a user query into whitespace-separated terms.
func searchTerms(query string) []string {
	return strings.Fields(query)
}

//go:build !sqlite_fts5

package provider

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

func initFullText(_ *sql.DB) error {
	// FTS5 not available; SearchText falls back to LIKE over notes.
	return nil
}

// SearchText finds notes whose title or body contain every term of query,
// ignoring case, newest first. Snippets are the start of the body.
func (s *Store) SearchText(ctx context.Context, query string, limit int) ([]TextMatch, error) {
	terms := searchTerms(query)
	if len(terms) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = defaultTextLimit
	}
	conds := make([]string, len(terms))
	args := make([]any, 0, 2*len(terms)+1)
	for i, t := range terms {
		conds[i] = `(casefold(title) LIKE ? ESCAPE '\' OR casefold(note) LIKE ? ESCAPE '\')`
		like := "%" + escapeLike(casefold(t)) + "%"
		args = append(args, like, like)
	}
	args = append(args, limit)

	rows, err := s.conn.QueryContext(ctx, `
		SELECT _id, substr(note, 1, 120)
		FROM notes
		WHERE `+strings.Join(conds, " AND ")+`
		ORDER BY modified DESC
		LIMIT ?
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("provider: search text: %w", err)
	}
	defer rows.Close()

	var out []TextMatch
	for rows.Next() {
		var m TextMatch
		if err := rows.Scan(&m.ID, &m.Snippet); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

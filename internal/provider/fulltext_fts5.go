//go:build sqlite_fts5

package provider

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// notes_fts mirrors title and body of notes through triggers.
const ftsSchemaSQL = `
CREATE VIRTUAL TABLE IF NOT EXISTS notes_fts USING fts5(
	title,
	note,
	content = 'notes',
	content_rowid = '_id',
	tokenize = 'unicode61 remove_diacritics 2'
);

CREATE TRIGGER IF NOT EXISTS notes_fts_ai AFTER INSERT ON notes BEGIN
	INSERT INTO notes_fts(rowid, title, note) VALUES (new._id, new.title, new.note);
END;

CREATE TRIGGER IF NOT EXISTS notes_fts_ad AFTER DELETE ON notes BEGIN
	INSERT INTO notes_fts(notes_fts, rowid, title, note) VALUES ('delete', old._id, old.title, old.note);
END;

CREATE TRIGGER IF NOT EXISTS notes_fts_au AFTER UPDATE OF title, note ON notes BEGIN
	INSERT INTO notes_fts(notes_fts, rowid, title, note) VALUES ('delete', old._id, old.title, old.note);
	INSERT INTO notes_fts(rowid, title, note) VALUES (new._id, new.title, new.note);
END;
`

func initFullText(conn *sql.DB) error {
	if _, err := conn.Exec(ftsSchemaSQL); err != nil {
		return err
	}
	// Picks up rows written before the index existed.
	_, err := conn.Exec(`INSERT INTO notes_fts(notes_fts) VALUES ('rebuild')`)
	return err
}

// ftsQuery quotes every term so FTS5 operators in user input are literal.
func ftsQuery(terms []string) string {
	quoted := make([]string, len(terms))
	for i, t := range terms {
		quoted[i] = `"` + strings.ReplaceAll(t, `"`, `""`) + `"`
	}
	return strings.Join(quoted, " ")
}

// SearchText finds notes whose title or body contain every term of query,
// best matches first. Snippets mark hits with [ and ].
func (s *Store) SearchText(ctx context.Context, query string, limit int) ([]TextMatch, error) {
	terms := searchTerms(query)
	if len(terms) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = defaultTextLimit
	}
	rows, err := s.conn.QueryContext(ctx, `
		SELECT rowid, snippet(notes_fts, -1, '[', ']', '...', 16)
		FROM notes_fts
		WHERE notes_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, ftsQuery(terms), limit)
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

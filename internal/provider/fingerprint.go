package provider

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/Lobco894/NotePad-new-master/internal/schema"
)

// Fingerprint holds a digest of each table's rows. Two fingerprints of a
// table differ exactly when some row was inserted, deleted or had any
// column changed in between.
type Fingerprint map[schema.Table]string

// One line per row, ordered by _id. char(31) separates columns so adjacent
// values cannot run together.
var fingerprintSQL = map[schema.Table]string{
	schema.Notes: `SELECT _id || char(31) || title || char(31) || note || char(31) ||
		created || char(31) || modified || char(31) || coalesce(category, char(0))
		FROM notes ORDER BY _id`,
	schema.Categories: `SELECT _id || char(31) || name || char(31) || color || char(31) || count
		FROM categories ORDER BY _id`,
}

// Fingerprint computes the current fingerprint of every table.
func (s *Store) Fingerprint(ctx context.Context) (Fingerprint, error) {
	fp := make(Fingerprint, len(fingerprintSQL))
	for table, q := range fingerprintSQL {
		sum, err := s.digest(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("provider: fingerprint %s: %w", table, err)
		}
		fp[table] = sum
	}
	return fp, nil
}

func (s *Store) digest(ctx context.Context, q string) (string, error) {
	rows, err := s.conn.QueryContext(ctx, q)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	h := sha256.New()
	var line []byte
	for rows.Next() {
		if err := rows.Scan(&line); err != nil {
			return "", err
		}
		h.Write(line)
		h.Write([]byte{'\n'})
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Path returns the database file the store was opened on.
func (s *Store) Path() string { return s.path }

package provider

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/mattn/go-sqlite3"

	"github.com/Lobco894/NotePad-new-master/internal/apperr"
	"github.com/Lobco894/NotePad-new-master/internal/schema"
	"github.com/Lobco894/NotePad-new-master/internal/uri"
)

// Values maps column names to the values written by Insert and Update.
type Values map[string]any

var hexColorRe = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

type writeMode int

const (
	modeInsert writeMode = iota
	modeUpdate
)

// Insert adds a row to the collection addr and returns the new item address.
// Omitted columns get defaults: created/modified are now, title is derived
// from the note body, color is the default color and count is 0.
func (s *Store) Insert(ctx context.Context, addr uri.Address, values Values) (uri.Address, error) {
	res, err := s.resolve(addr)
	if err != nil {
		return uri.Address{}, err
	}
	if res.HasRow {
		return uri.Address{}, fmt.Errorf("provider: insert into item %s: %w", addr, apperr.ErrUnsupportedAddress)
	}
	def := schema.Lookup(res.Table)

	vals, err := normalize(def, values, modeInsert)
	if err != nil {
		return uri.Address{}, err
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return uri.Address{}, fmt.Errorf("provider: begin tx: %w", errors.Join(apperr.ErrInsertFailed, err))
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	switch res.Table {
	case schema.Notes:
		err = s.prepareNoteInsert(ctx, tx, vals)
	case schema.Categories:
		err = s.prepareCategoryInsert(vals)
	}
	if err != nil {
		return uri.Address{}, err
	}

	cols, args := columnsInOrder(def, vals)
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	for i, c := range cols {
		cols[i] = quote(c)
	}
	stmt := "INSERT INTO " + string(def.Table) + " (" + strings.Join(cols, ", ") + ") VALUES (" + marks + ")"

	result, err := tx.ExecContext(ctx, stmt, args...)
	if err != nil {
		return uri.Address{}, writeErr("insert into "+string(def.Table), err, apperr.ErrInsertFailed)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return uri.Address{}, fmt.Errorf("provider: last insert id: %w", errors.Join(apperr.ErrInsertFailed, err))
	}
	if err := tx.Commit(); err != nil {
		return uri.Address{}, fmt.Errorf("provider: commit: %w", errors.Join(apperr.ErrInsertFailed, err))
	}

	item, err := addr.WithID(id)
	if err != nil {
		return uri.Address{}, err
	}
	s.logger.Debug("provider: inserted", slog.String("uri", item.String()))
	s.notify(item)
	return item, nil
}

// Update writes values to the rows addr (narrowed by where) selects and
// returns how many rows changed. Notes always get modified stamped to now.
// An item address that matches no row fails with ErrNotFound.
func (s *Store) Update(ctx context.Context, addr uri.Address, values Values, where Predicate) (int64, error) {
	res, err := s.resolve(addr)
	if err != nil {
		return 0, err
	}
	def := schema.Lookup(res.Table)

	vals, err := normalize(def, values, modeUpdate)
	if err != nil {
		return 0, err
	}
	cond, condArgs, err := s.selection(def, res, where)
	if err != nil {
		return 0, err
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("provider: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	var extraSet string
	var extraArgs []any

	switch res.Table {
	case schema.Notes:
		delete(vals, schema.NoteModified)
		if cat, ok := vals[schema.NoteCategory]; ok {
			if err := s.reassignCategory(ctx, tx, cond, condArgs, cat); err != nil {
				return 0, err
			}
		}
		extraSet = quote(schema.NoteModified) + " = MAX(" + quote(schema.NoteModified) + ", ?)"
		extraArgs = append(extraArgs, s.nowMillis())

	case schema.Categories:
		if len(vals) == 0 {
			return 0, fmt.Errorf("provider: update %s: no values: %w", def.Table, apperr.ErrInvalidColumn)
		}
		if err := validateCategory(vals); err != nil {
			return 0, err
		}
		if name, ok := vals[schema.CategoryName].(string); ok {
			if err := renameCategory(ctx, tx, cond, condArgs, name); err != nil {
				return 0, err
			}
		}
	}

	cols, args := columnsInOrder(def, vals)
	sets := make([]string, 0, len(cols)+1)
	for _, c := range cols {
		sets = append(sets, quote(c)+" = ?")
	}
	if extraSet != "" {
		sets = append(sets, extraSet)
		args = append(args, extraArgs...)
	}
	args = append(args, condArgs...)

	stmt := "UPDATE " + string(def.Table) + " SET " + strings.Join(sets, ", ") + cond
	result, err := tx.ExecContext(ctx, stmt, args...)
	if err != nil {
		return 0, writeErr("update "+string(def.Table), err, nil)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("provider: rows affected: %w", err)
	}
	if n == 0 && res.HasRow {
		return 0, fmt.Errorf("provider: update %s: %w", addr, apperr.ErrNotFound)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("provider: commit: %w", err)
	}

	if n > 0 {
		s.logger.Debug("provider: updated", slog.String("uri", addr.String()), slog.Int64("rows", n))
		s.notify(addr)
	}
	return n, nil
}

// Delete removes the rows addr (narrowed by where) selects and returns how
// many were removed. Deleting a missing item is not an error.
func (s *Store) Delete(ctx context.Context, addr uri.Address, where Predicate) (int64, error) {
	res, err := s.resolve(addr)
	if err != nil {
		return 0, err
	}
	def := schema.Lookup(res.Table)

	cond, condArgs, err := s.selection(def, res, where)
	if err != nil {
		return 0, err
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("provider: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	switch res.Table {
	case schema.Notes:
		tally, _, err := categoryTally(ctx, tx, cond, condArgs)
		if err != nil {
			return 0, err
		}
		for name, n := range tally {
			if err := adjustCount(ctx, tx, name, -n); err != nil {
				return 0, err
			}
		}
	case schema.Categories:
		names, err := categoryNames(ctx, tx, cond, condArgs)
		if err != nil {
			return 0, err
		}
		for _, name := range names {
			if _, err := tx.ExecContext(ctx, `UPDATE notes SET category = NULL WHERE category = ?`, name); err != nil {
				return 0, fmt.Errorf("provider: clear category %q: %w", name, err)
			}
		}
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM "+string(def.Table)+cond, condArgs...)
	if err != nil {
		return 0, fmt.Errorf("provider: delete from %s: %w", def.Table, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("provider: rows affected: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("provider: commit: %w", err)
	}

	if n > 0 {
		s.logger.Debug("provider: deleted", slog.String("uri", addr.String()), slog.Int64("rows", n))
		s.notify(addr)
	}
	return n, nil
}

func (s *Store) prepareNoteInsert(ctx context.Context, tx *sql.Tx, vals Values) error {
	now := s.nowMillis()
	created, ok := vals[schema.NoteCreated].(int64)
	if !ok {
		created = now
		vals[schema.NoteCreated] = created
	}
	modified, ok := vals[schema.NoteModified].(int64)
	if !ok {
		modified = now
	}
	vals[schema.NoteModified] = max(modified, created)

	body, ok := vals[schema.NoteBody].(string)
	if !ok {
		vals[schema.NoteBody] = ""
	}
	if _, ok := vals[schema.NoteTitle]; !ok {
		vals[schema.NoteTitle] = schema.DeriveTitle(body)
	}

	if cat, ok := vals[schema.NoteCategory]; ok {
		name, _ := cat.(string)
		if name == "" {
			vals[schema.NoteCategory] = nil
			return nil
		}
		if err := requireCategory(ctx, tx, name); err != nil {
			return err
		}
		return adjustCount(ctx, tx, name, 1)
	}
	return nil
}

func (s *Store) prepareCategoryInsert(vals Values) error {
	if _, ok := vals[schema.CategoryColor]; !ok {
		vals[schema.CategoryColor] = s.defaultColor
	}
	if _, ok := vals[schema.CategoryName]; !ok {
		vals[schema.CategoryName] = ""
	}
	if err := validateCategory(vals); err != nil {
		return err
	}
	if err := validation.Validate(vals[schema.CategoryCount], validation.In(int64(0))); err != nil {
		return fmt.Errorf("provider: category count: %v: %w", err, apperr.ErrConstraintViolation)
	}
	return nil
}

// validateCategory checks the name and color present in vals.
func validateCategory(vals Values) error {
	if name, ok := vals[schema.CategoryName]; ok {
		if err := validation.Validate(name, validation.Required, validation.By(notBlank)); err != nil {
			return fmt.Errorf("provider: category name: %v: %w", err, apperr.ErrConstraintViolation)
		}
	}
	if color, ok := vals[schema.CategoryColor]; ok {
		if err := validation.Validate(color, validation.Required, validation.Match(hexColorRe)); err != nil {
			return fmt.Errorf("provider: category color: %v: %w", err, apperr.ErrConstraintViolation)
		}
	}
	return nil
}

func notBlank(v any) error {
	if s, _ := v.(string); strings.TrimSpace(s) == "" {
		return errors.New("cannot be blank")
	}
	return nil
}

// reassignCategory moves the notes matched by cond to category cat (nil or
// "" clears it), keeping both categories' counts in step.
func (s *Store) reassignCategory(ctx context.Context, tx *sql.Tx, cond string, condArgs []any, cat any) error {
	name, _ := cat.(string)
	if name != "" {
		if err := requireCategory(ctx, tx, name); err != nil {
			return err
		}
	}
	tally, total, err := categoryTally(ctx, tx, cond, condArgs)
	if err != nil {
		return err
	}
	for old, n := range tally {
		if err := adjustCount(ctx, tx, old, -n); err != nil {
			return err
		}
	}
	if name == "" {
		return nil
	}
	return adjustCount(ctx, tx, name, total)
}

// renameCategory rewrites the category of notes assigned to the categories
// matched by cond.
func renameCategory(ctx context.Context, tx *sql.Tx, cond string, condArgs []any, newName string) error {
	names, err := categoryNames(ctx, tx, cond, condArgs)
	if err != nil {
		return err
	}
	for _, old := range names {
		if old == newName {
			continue
		}
		if _, err := tx.ExecContext(ctx, `UPDATE notes SET category = ? WHERE category = ?`, newName, old); err != nil {
			return fmt.Errorf("provider: rename category %q: %w", old, err)
		}
	}
	return nil
}

func requireCategory(ctx context.Context, tx *sql.Tx, name string) error {
	var id int64
	err := tx.QueryRowContext(ctx, `SELECT _id FROM categories WHERE name = ?`, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("provider: category %q: %w", name, apperr.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("provider: lookup category %q: %w", name, err)
	}
	return nil
}

func adjustCount(ctx context.Context, tx *sql.Tx, name string, delta int64) error {
	if delta == 0 {
		return nil
	}
	_, err := tx.ExecContext(ctx, `UPDATE categories SET count = count + ? WHERE name = ?`, delta, name)
	if err != nil {
		return fmt.Errorf("provider: adjust count of %q: %w", name, err)
	}
	return nil
}

// categoryTally counts the notes matched by cond per assigned category.
// total includes notes without a category.
func categoryTally(ctx context.Context, tx *sql.Tx, cond string, args []any) (map[string]int64, int64, error) {
	rows, err := tx.QueryContext(ctx, `SELECT category, COUNT(*) FROM notes`+cond+` GROUP BY category`, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("provider: tally categories: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int64)
	var total int64
	for rows.Next() {
		var name sql.NullString
		var n int64
		if err := rows.Scan(&name, &n); err != nil {
			return nil, 0, err
		}
		total += n
		if name.Valid {
			out[name.String] = n
		}
	}
	return out, total, rows.Err()
}

func categoryNames(ctx context.Context, tx *sql.Tx, cond string, args []any) ([]string, error) {
	rows, err := tx.QueryContext(ctx, `SELECT name FROM categories`+cond, args...)
	if err != nil {
		return nil, fmt.Errorf("provider: category names: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

// normalize checks column names and converts values to int64/string/nil.
func normalize(def *schema.Def, values Values, mode writeMode) (Values, error) {
	out := make(Values, len(values))
	for name, v := range values {
		col, ok := def.Column(name)
		if !ok {
			return nil, fmt.Errorf("provider: no column %q in %s: %w", name, def.Table, apperr.ErrInvalidColumn)
		}
		if readOnly(def.Table, name, mode) {
			return nil, fmt.Errorf("provider: column %q is read-only: %w", name, apperr.ErrInvalidColumn)
		}
		cv, err := convert(col, v)
		if err != nil {
			return nil, err
		}
		out[name] = cv
	}
	return out, nil
}

func readOnly(table schema.Table, col string, mode writeMode) bool {
	if col == schema.ID {
		return true
	}
	if mode == modeInsert {
		return false
	}
	switch table {
	case schema.Notes:
		return col == schema.NoteCreated
	case schema.Categories:
		return col == schema.CategoryCount
	}
	return false
}

func convert(col schema.Column, v any) (any, error) {
	if v == nil {
		if col.Nullable {
			return nil, nil
		}
		return nil, fmt.Errorf("provider: column %q: null: %w", col.Name, apperr.ErrConstraintViolation)
	}
	bad := fmt.Errorf("provider: column %q: unexpected %T: %w", col.Name, v, apperr.ErrConstraintViolation)
	switch col.Type {
	case schema.Integer:
		switch n := v.(type) {
		case int:
			return int64(n), nil
		case int32:
			return int64(n), nil
		case int64:
			return n, nil
		case float64:
			if n != math.Trunc(n) {
				return nil, bad
			}
			return int64(n), nil
		}
	case schema.Text:
		if s, ok := v.(string); ok {
			return s, nil
		}
	}
	return nil, bad
}

// columnsInOrder returns the columns of vals in schema order with their values.
func columnsInOrder(def *schema.Def, vals Values) ([]string, []any) {
	cols := make([]string, 0, len(vals))
	args := make([]any, 0, len(vals))
	for _, c := range def.Columns {
		if v, ok := vals[c.Name]; ok {
			cols = append(cols, c.Name)
			args = append(args, v)
		}
	}
	return cols, args
}

// writeErr maps SQLite constraint failures onto the store's error taxonomy.
func writeErr(op string, err error, fallback error) error {
	var se sqlite3.Error
	if errors.As(err, &se) {
		switch {
		case se.ExtendedCode == sqlite3.ErrConstraintUnique:
			return fmt.Errorf("provider: %s: %w", op, apperr.ErrAlreadyExists)
		case se.Code == sqlite3.ErrConstraint:
			return fmt.Errorf("provider: %s: %v: %w", op, err, apperr.ErrConstraintViolation)
		}
	}
	if fallback != nil {
		return fmt.Errorf("provider: %s: %w", op, errors.Join(fallback, err))
	}
	return fmt.Errorf("provider: %s: %w", op, err)
}

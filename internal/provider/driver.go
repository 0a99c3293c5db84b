package provider

import (
	"database/sql"

	"github.com/mattn/go-sqlite3"
	"golang.org/x/text/cases"
)

// driverName is go-sqlite3 with the functions the store's SQL relies on.
const driverName = "sqlite3_notepad"

func init() {
	sql.Register(driverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("casefold", sqlCasefold, true)
		},
	})
}

// casefold is Unicode case folding, so "МОЛОКО" and "молоко" compare equal
// where SQLite's LIKE only folds ASCII.
func casefold(s string) string {
	return cases.Fold().String(s)
}

// sqlCasefold is casefold as SQL sees it: NULL stays NULL and non-text
// values are folded in their text form.
func sqlCasefold(v any) any {
	switch v := v.(type) {
	case nil:
		return nil
	case string:
		return casefold(v)
	case []byte:
		return casefold(string(v))
	default:
		return v
	}
}

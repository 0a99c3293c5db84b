package provider

const coreSchemaSQL = `
CREATE TABLE IF NOT EXISTS notes (
	_id      INTEGER PRIMARY KEY AUTOINCREMENT,
	title    TEXT    NOT NULL DEFAULT '',
	note     TEXT    NOT NULL DEFAULT '',
	created  INTEGER NOT NULL,
	modified INTEGER NOT NULL,
	category TEXT,
	CHECK (modified >= created)
);

CREATE TABLE IF NOT EXISTS categories (
	_id   INTEGER PRIMARY KEY AUTOINCREMENT,
	name  TEXT    NOT NULL UNIQUE CHECK (name <> ''),
	color TEXT    NOT NULL DEFAULT '#FFFFFF',
	count INTEGER NOT NULL DEFAULT 0 CHECK (count >= 0)
);

CREATE INDEX IF NOT EXISTS idx_notes_modified ON notes(modified);
CREATE INDEX IF NOT EXISTS idx_notes_category ON notes(category);
`

package mcpserver

// AddressingContract describes how notes and categories are addressed and
// what the store guarantees, for LLM consumers of the tools below.
const AddressingContract = `# NotePad Addressing Contract

Every row in the note store has a content address:

` + "```" + `
content://{authority}/notes            all notes      vnd.android.cursor.dir/vnd.google.note
content://{authority}/notes/{id}       one note       vnd.android.cursor.item/vnd.google.note
content://{authority}/categories       all categories vnd.android.cursor.dir/vnd.google.category
content://{authority}/categories/{id}  one category   vnd.android.cursor.item/vnd.google.category
` + "```" + `

The default authority is ` + "`" + `com.google.provider.NotePad` + "`" + `. Ids are positive integers
assigned by the store and never reused. Any other path, scheme or authority is rejected.

## Notes

- Fields: ` + "`" + `title` + "`" + `, ` + "`" + `body` + "`" + `, optional ` + "`" + `category` + "`" + `, ` + "`" + `created_at` + "`" + `, ` + "`" + `updated_at` + "`" + `.
- A note created without a title gets one derived from its body: the first 30
  characters, cut back to the last space when the body is longer.
- ` + "`" + `updated_at` + "`" + ` never moves backwards and never precedes ` + "`" + `created_at` + "`" + `.
- Listings are newest first unless a sort such as ` + "`" + `title ASC` + "`" + ` is given.
- Search matches a case-insensitive fragment of the title; ` + "`" + `%` + "`" + ` and ` + "`" + `_` + "`" + ` are literal.
- Tools that take a ` + "`" + `note` + "`" + ` argument accept either the numeric id or the full address.
- ` + "`" + `update_note` + "`" + ` accepts an ` + "`" + `if_match` + "`" + ` checksum from a previous read and fails
  when the body has changed since.

## Categories

- Names are unique and non-blank. Colors are ` + "`" + `#RGB` + "`" + `, ` + "`" + `#RRGGBB` + "`" + ` or ` + "`" + `#AARRGGBB` + "`" + `.
- ` + "`" + `count` + "`" + ` is the number of notes in the category and is kept by the store.
- A note can only be assigned to an existing category. Renaming a category moves
  its notes along; deleting one clears it from its notes.
- ` + "`" + `list_categories` + "`" + ` takes a glob filter (` + "`" + `w*` + "`" + `, ` + "`" + `{home,work}` + "`" + `); plain text
  matches anywhere in the name. Matching ignores case.
`

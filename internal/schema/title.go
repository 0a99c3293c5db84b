package schema

// TitleMaxLen is the longest title derived from a note body, in characters.
const TitleMaxLen = 30

// DeriveTitle builds a title from the first TitleMaxLen characters of body.
// When body is longer than that, the cut backs off to the last space before
// the cutoff; if there is none the raw prefix is kept.
func DeriveTitle(body string) string {
	r := []rune(body)
	if len(r) <= TitleMaxLen {
		return body
	}
	title := r[:TitleMaxLen]
	for i := len(title) - 1; i > 0; i-- {
		if title[i] == ' ' {
			return string(title[:i])
		}
	}
	return string(title)
}

package diffset

// Color is a hex color string such as "#98c379".
type Color string

// Palette holds the colors used to present patches and statistics.
type Palette struct {
	Added   Color // inserted lines, insertion counts
	Deleted Color // deleted lines, deletion counts
	Heading Color // file headers
	Hunk    Color // hunk headers
	Muted   Color // secondary text such as totals
}

// Style is the visual style of a piece of text.
type Style struct {
	Foreground string
	Bold       bool
}

// Token is a piece of highlighted text.
type Token struct {
	Text  string
	Style Style
}

// Tokenizer splits text in a given language into styled tokens.
type Tokenizer interface {
	// Tokenize returns nil if the language is not supported.
	Tokenize(language, source string) []Token
}

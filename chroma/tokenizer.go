// Package chroma provides patch highlighting using the chroma library.
package chroma

import (
	"errors"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/fwojciec/diffset"
)

// Compile-time interface verification.
var _ diffset.Tokenizer = (*Tokenizer)(nil)

// PatchLanguage is the chroma lexer name for unified diffs.
const PatchLanguage = "diff"

// StyleFunc maps a chroma token type to a visual style.
type StyleFunc func(chroma.TokenType) diffset.Style

// Tokenizer extracts styled tokens using chroma.
type Tokenizer struct {
	style StyleFunc
}

// NewTokenizer creates a chroma-based tokenizer that styles tokens with fn.
func NewTokenizer(fn StyleFunc) (*Tokenizer, error) {
	if fn == nil {
		return nil, errors.New("chroma: nil style function")
	}
	return &Tokenizer{style: fn}, nil
}

// Tokenize splits source into styled tokens for the given language.
// Returns nil if the language is not supported or an error occurs.
// Returns an empty slice for empty source.
func (t *Tokenizer) Tokenize(language, source string) []diffset.Token {
	if source == "" {
		return []diffset.Token{}
	}

	lexer := lexers.Get(language)
	if lexer == nil {
		return nil
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return nil
	}

	var tokens []diffset.Token
	for token := iterator(); token != chroma.EOF; token = iterator() {
		tokens = append(tokens, diffset.Token{
			Text:  token.Value,
			Style: t.style(token.Type),
		})
	}
	return tokens
}

// TokenizePatch tokenizes raw patch text.
func (t *Tokenizer) TokenizePatch(patch string) []diffset.Token {
	return t.Tokenize(PatchLanguage, patch)
}

// StyleFromPalette returns a StyleFunc coloring the token types the diff
// lexer emits.
func StyleFromPalette(p diffset.Palette) StyleFunc {
	return func(tt chroma.TokenType) diffset.Style {
		switch tt {
		case chroma.GenericInserted:
			return diffset.Style{Foreground: string(p.Added)}
		case chroma.GenericDeleted:
			return diffset.Style{Foreground: string(p.Deleted)}
		case chroma.GenericHeading:
			return diffset.Style{Foreground: string(p.Heading), Bold: true}
		case chroma.GenericSubheading:
			return diffset.Style{Foreground: string(p.Hunk)}
		case chroma.GenericStrong:
			return diffset.Style{Bold: true}
		default:
			return diffset.Style{}
		}
	}
}

package types

import (
	"io"
	"unicode/utf8"
)

// Token is a piece of text together with its offset span in the original
// input. Offsets are measured in characters (runes) unless a tokenizer was
// configured with an offset corrector.
type Token struct {
	Text  string
	Start int
	End   int
}

// Len returns the number of characters in the token text
func (t Token) Len() int {
	return utf8.RuneCountInString(t.Text)
}

// HasLegalOffsets reports whether the offset span matches the text length.
// Upstream stages that rewrite text (synonyms, stemming, ligature expansion)
// can break this relation.
func (t Token) HasLegalOffsets() bool {
	return t.End-t.Start == t.Len()
}

// TokenStream is a pull-based source of tokens.
// Next returns io.EOF once the stream is exhausted.
type TokenStream interface {
	Next() (Token, error)
}

// Resetter is implemented by streams that can be rewound for reuse
type Resetter interface {
	Reset()
}

// Collect drains a stream into a slice
func Collect(ts TokenStream) ([]Token, error) {
	var tokens []Token
	for {
		tok, err := ts.Next()
		if err == io.EOF {
			return tokens, nil
		}
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
	}
}

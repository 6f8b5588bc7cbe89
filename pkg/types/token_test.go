package types

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedStream struct {
	tokens []Token
	err    error
}

func (s *fixedStream) Next() (Token, error) {
	if len(s.tokens) == 0 {
		if s.err != nil {
			return Token{}, s.err
		}
		return Token{}, io.EOF
	}
	tok := s.tokens[0]
	s.tokens = s.tokens[1:]
	return tok, nil
}

func TestToken_Len(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"he", 2},
		{"café", 4},
		{"中文", 2},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, Token{Text: tt.text}.Len())
		})
	}
}

func TestToken_HasLegalOffsets(t *testing.T) {
	assert.True(t, Token{Text: "ab", Start: 3, End: 5}.HasLegalOffsets())
	assert.True(t, Token{Text: "fé", Start: 2, End: 4}.HasLegalOffsets())
	assert.False(t, Token{Text: "fé", Start: 2, End: 5}.HasLegalOffsets())
	assert.False(t, Token{Text: "dog", Start: 0, End: 6}.HasLegalOffsets())
}

func TestCollect(t *testing.T) {
	tokens, err := Collect(&fixedStream{tokens: []Token{{Text: "a", End: 1}, {Text: "b", Start: 1, End: 2}}})
	require.NoError(t, err)
	assert.Len(t, tokens, 2)

	tokens, err = Collect(&fixedStream{})
	require.NoError(t, err)
	assert.Empty(t, tokens)

	boom := errors.New("boom")
	tokens, err = Collect(&fixedStream{tokens: []Token{{Text: "a", End: 1}}, err: boom})
	assert.ErrorIs(t, err, boom)
	assert.Len(t, tokens, 1, "tokens read before the error are kept")
}

package analysis

import (
	"io"
	"unicode"
	"unicode/utf8"

	"github.com/clipperhouse/uax29/words"

	"github.com/dshills/splitindex/pkg/types"
)

// segmentScanner is the iterator returned by the uax29 NewScanner functions
type segmentScanner interface {
	Bytes() []byte
	Scan() bool
	Err() error
}

// WordTokenizer emits the words of a text as segmented by Unicode UAX #29.
// Whitespace and punctuation segments are consumed but not emitted.
type WordTokenizer struct {
	scanner     segmentScanner
	correct     OffsetCorrector
	offset      int
	finalOffset int
}

var _ types.TokenStream = (*WordTokenizer)(nil)

// NewWordTokenizer creates a word tokenizer reading from r. Only the
// WithOffsetCorrector option has an effect.
func NewWordTokenizer(r io.Reader, opts ...TokenizerOption) *WordTokenizer {
	var cfg tokenizerConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return &WordTokenizer{
		scanner: words.NewScanner(r),
		correct: cfg.correct,
	}
}

// Next returns the next word or io.EOF
func (w *WordTokenizer) Next() (types.Token, error) {
	for w.scanner.Scan() {
		seg := w.scanner.Bytes()
		start := w.offset
		w.offset += utf8.RuneCount(seg)
		if !isWord(seg) {
			continue
		}
		return types.Token{
			Text:  string(seg),
			Start: w.correctOffset(start),
			End:   w.correctOffset(w.offset),
		}, nil
	}
	if err := w.scanner.Err(); err != nil {
		return types.Token{}, err
	}
	w.finalOffset = w.correctOffset(w.offset)
	return types.Token{}, io.EOF
}

// End returns the offset just past the last character read, trailing
// whitespace and punctuation included. It is meaningful once Next has
// returned io.EOF.
func (w *WordTokenizer) End() int {
	return w.finalOffset
}

// Reset rebinds the tokenizer to r
func (w *WordTokenizer) Reset(r io.Reader) {
	w.scanner = words.NewScanner(r)
	w.offset = 0
	w.finalOffset = 0
}

func (w *WordTokenizer) correctOffset(off int) int {
	if w.correct == nil {
		return off
	}
	return w.correct(off)
}

// isWord reports whether seg contains at least one letter or digit
func isWord(seg []byte) bool {
	for len(seg) > 0 {
		r, size := utf8.DecodeRune(seg)
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
		seg = seg[size:]
	}
	return false
}

package analysis

import (
	"errors"
	"io"

	"github.com/dshills/splitindex/pkg/types"
)

// ErrNotRebindable is returned by Rebind when the head of the chain cannot
// be pointed at a new reader
var ErrNotRebindable = errors.New("upstream stream cannot be rebound to a reader")

// readerResetter is implemented by tokenizers that can be rebound to a new source
type readerResetter interface {
	Reset(r io.Reader)
}

// SplitFilter re-splits every token of an upstream stream into sub-chunks
// of at most length characters.
//
// When an upstream token's offset span differs from its text length, every
// sub-chunk of that token reports the token's full span, since there is no
// reliable way to place a sub-chunk inside it.
type SplitFilter struct {
	input  types.TokenStream
	length int

	active         bool
	term           []rune
	pos            int
	tokStart       int
	tokEnd         int
	illegalOffsets bool
	lastEnd        int
}

var _ types.TokenStream = (*SplitFilter)(nil)

// NewSplitFilter wraps in
func NewSplitFilter(in types.TokenStream, length int) (*SplitFilter, error) {
	if length < 1 {
		return nil, types.ErrInvalidSplitLength
	}
	return &SplitFilter{
		input:  in,
		length: length,
	}, nil
}

// Length returns the configured split length
func (f *SplitFilter) Length() int {
	return f.length
}

// Next returns the next sub-chunk. Errors from the upstream stream,
// including io.EOF, are returned unchanged.
func (f *SplitFilter) Next() (types.Token, error) {
	for {
		if !f.active {
			tok, err := f.input.Next()
			if err != nil {
				return types.Token{}, err
			}
			f.load(tok)
		}

		if f.pos < len(f.term) {
			end := f.pos + f.length
			if end > len(f.term) {
				end = len(f.term)
			}

			out := types.Token{Text: string(f.term[f.pos:end])}
			if f.illegalOffsets {
				out.Start, out.End = f.tokStart, f.tokEnd
			} else {
				out.Start, out.End = f.tokStart+f.pos, f.tokStart+end
			}
			f.pos = end
			f.lastEnd = out.End
			return out, nil
		}

		f.active = false
	}
}

// End returns the final offset of the upstream stream when it records one,
// otherwise the end of the last sub-chunk emitted.
func (f *SplitFilter) End() int {
	if e, ok := f.input.(endOffsetter); ok {
		return e.End()
	}
	return f.lastEnd
}

// Reset drops any partially split token. If the upstream stream is a
// types.Resetter, such as another SplitFilter, it is reset as well.
// Tokenizers take a new reader to reset; use Rebind for a whole chain.
func (f *SplitFilter) Reset() {
	f.active = false
	f.term = f.term[:0]
	f.pos = 0
	f.lastEnd = 0
	if r, ok := f.input.(types.Resetter); ok {
		r.Reset()
	}
}

// Rebind resets the filter and every filter below it, then points the
// tokenizer at the head of the chain at r.
func (f *SplitFilter) Rebind(r io.Reader) error {
	f.Reset()
	switch in := f.input.(type) {
	case *SplitFilter:
		return in.Rebind(r)
	case readerResetter:
		in.Reset(r)
		return nil
	}
	return ErrNotRebindable
}

// load copies tok into the filter's own storage
func (f *SplitFilter) load(tok types.Token) {
	f.term = f.term[:0]
	for _, r := range tok.Text {
		f.term = append(f.term, r)
	}
	f.active = true
	f.pos = 0
	f.tokStart = tok.Start
	f.tokEnd = tok.End
	f.illegalOffsets = tok.Start+len(f.term) != tok.End
}

package analysis

import (
	"bufio"
	"io"

	"github.com/dshills/splitindex/pkg/types"
)

const (
	// DefaultSplitLength is the chunk length used when settings omit one
	DefaultSplitLength = 2

	// ioBufferSize is the number of characters pulled from the source per read
	ioBufferSize = 1024
)

// OffsetCorrector maps an internal character offset to the offset exposed
// to callers. It must be monotonic non-decreasing.
type OffsetCorrector func(offset int) int

type tokenizerConfig struct {
	correct OffsetCorrector
}

// TokenizerOption configures a tokenizer
type TokenizerOption func(*tokenizerConfig)

// WithOffsetCorrector installs a hook applied to every emitted offset
func WithOffsetCorrector(fn OffsetCorrector) TokenizerOption {
	return func(c *tokenizerConfig) {
		c.correct = fn
	}
}

// Tokenizer cuts a raw character stream into chunks of a fixed number of
// characters. Only the last chunk of a stream may be shorter.
//
// A Tokenizer is not safe for concurrent use.
type Tokenizer struct {
	input   *bufio.Reader
	length  int
	correct OffsetCorrector

	// offset is the stream position of ioBuffer[0]
	offset      int
	bufferIndex int
	dataLen     int
	finalOffset int

	eof        bool
	pendingErr error

	ioBuffer [ioBufferSize]rune
	term     []rune
}

var _ types.TokenStream = (*Tokenizer)(nil)

// NewTokenizer creates a tokenizer reading from r
func NewTokenizer(r io.Reader, length int, opts ...TokenizerOption) (*Tokenizer, error) {
	if length < 1 {
		return nil, types.ErrInvalidSplitLength
	}

	var cfg tokenizerConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Tokenizer{
		input:   bufio.NewReader(r),
		length:  length,
		correct: cfg.correct,
		term:    make([]rune, 0, min(length, ioBufferSize)),
	}, nil
}

// Length returns the configured split length
func (t *Tokenizer) Length() int {
	return t.length
}

// Next returns the next chunk, or io.EOF when the source is exhausted.
// Read errors from the source are returned unchanged.
func (t *Tokenizer) Next() (types.Token, error) {
	t.term = t.term[:0]
	start := t.offset + t.bufferIndex

	for {
		if t.bufferIndex >= t.dataLen {
			t.offset += t.dataLen
			n, err := t.fill()
			if err != nil {
				// keep the next offset += dataLen from counting stale data
				t.dataLen = 0
				t.bufferIndex = 0
				if err != io.EOF {
					return types.Token{}, err
				}
				if len(t.term) > 0 {
					break
				}
				t.finalOffset = t.correctOffset(t.offset)
				return types.Token{}, io.EOF
			}
			t.dataLen = n
			t.bufferIndex = 0
		}

		t.term = append(t.term, t.ioBuffer[t.bufferIndex])
		t.bufferIndex++
		if len(t.term) >= t.length {
			break
		}
	}

	tok := types.Token{
		Text:  string(t.term),
		Start: t.correctOffset(start),
		End:   t.correctOffset(start + len(t.term)),
	}
	t.finalOffset = tok.End
	return tok, nil
}

// End returns the offset at which the stream ended. It is meaningful once
// Next has returned io.EOF and is stable across repeated calls.
func (t *Tokenizer) End() int {
	return t.finalOffset
}

// Reset rebinds the tokenizer to r and clears all positional state.
// The read buffers are reused.
func (t *Tokenizer) Reset(r io.Reader) {
	t.input.Reset(r)
	t.offset = 0
	t.bufferIndex = 0
	t.dataLen = 0
	t.finalOffset = 0
	t.eof = false
	t.pendingErr = nil
	t.term = t.term[:0]
}

// fill reads up to ioBufferSize characters into ioBuffer. It returns a
// non-nil error only when no character was read.
func (t *Tokenizer) fill() (int, error) {
	if t.eof {
		return 0, io.EOF
	}
	if t.pendingErr != nil {
		err := t.pendingErr
		t.pendingErr = nil
		return 0, err
	}

	n := 0
	for n < len(t.ioBuffer) {
		// don't block on the source once something is available
		if n > 0 && t.input.Buffered() == 0 {
			break
		}
		r, _, err := t.input.ReadRune()
		if err != nil {
			if err == io.EOF {
				t.eof = true
			}
			if n == 0 {
				return 0, err
			}
			if err != io.EOF {
				t.pendingErr = err
			}
			break
		}
		t.ioBuffer[n] = r
		n++
	}
	return n, nil
}

func (t *Tokenizer) correctOffset(off int) int {
	if t.correct == nil {
		return off
	}
	return t.correct(off)
}

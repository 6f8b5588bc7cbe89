// Package analysis cuts text into fixed-length chunks with character offsets.
//
// Two streams implement the same chunking rule at different layers:
//
//   - Tokenizer reads raw text from an io.Reader and emits chunks of exactly
//     Length characters, except for a shorter final chunk.
//   - SplitFilter re-splits every token of an upstream types.TokenStream
//     (for example a WordTokenizer) into sub-chunks of at most Length
//     characters.
//
// Characters are Unicode code points. Offsets refer to the original input.
//
// # Basic Usage
//
//	tz, err := analysis.NewTokenizer(strings.NewReader("hello"), 2)
//	if err != nil {
//	    log.Fatal(err) // types.ErrInvalidSplitLength for length < 1
//	}
//	for {
//	    tok, err := tz.Next()
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(tok.Text, tok.Start, tok.End) // he 0 2, ll 2 4, o 4 5
//	}
//	fmt.Println(tz.End()) // 5
//
// # Offsets
//
// Tokenizer offsets can be remapped with WithOffsetCorrector, for example
// ByteOffsets to address UTF-8 bytes instead of characters.
//
// SplitFilter trusts upstream offsets only when End-Start equals the
// token's character count. Otherwise every sub-chunk of that token carries
// the token's full span:
//
//	("café", 0, 5) split at 2 -> ("ca", 0, 5), ("fé", 0, 5)
//
// # Analyzers
//
// Settings name a tokenizer and a list of filters from the Tokenizers and
// Filters registries. NewAnalyzer validates them once; Analyze builds a
// fresh chain per input.
//
//	a, err := analysis.NewAnalyzer(analysis.Settings{
//	    Length:    2,
//	    Tokenizer: analysis.TokenizerWords,
//	    Filters:   []string{analysis.FilterSplit},
//	})
//	tokens, err := a.AnalyzeString("Hello, world")
//
// Streams are not safe for concurrent use. Reuse one per goroutine with
// Reset.
package analysis

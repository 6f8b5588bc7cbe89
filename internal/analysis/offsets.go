package analysis

import "unicode/utf8"

// ByteOffsets returns a corrector translating character offsets within text
// into UTF-8 byte offsets, so that text[tok.Start:tok.End] is the token.
// Offsets past the end of text map to len(text).
func ByteOffsets(text string) OffsetCorrector {
	table := make([]int, 0, utf8.RuneCountInString(text)+1)
	for i := range text {
		table = append(table, i)
	}
	table = append(table, len(text))

	return func(off int) int {
		if off < 0 {
			return 0
		}
		if off >= len(table) {
			return len(text)
		}
		return table[off]
	}
}

package lexer

import (
	"strings"
)

// decodeStringLiteral strips the surrounding quotes from a matched string
// literal and interprets the \" \\ and \n escapes. Any other backslash is
// copied through unchanged, as is a backslash right before the closing quote.
func decodeStringLiteral(text string) string {
	var value strings.Builder
	end := len(text) - 1
	for i := 1; i < end; i++ {
		c := text[i]
		if c == '\\' && i+1 < end {
			switch next := text[i+1]; next {
			case '"', '\\':
				i++
				c = next
			case 'n':
				i++
				c = '\n'
			}
		}
		value.WriteByte(c)
	}
	return value.String()
}

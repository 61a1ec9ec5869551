package selector

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Highlight applies syntax highlighting to selector text. Whitespace between
// tokens is preserved and invalid text is highlighted up to and including the
// offending characters.
func Highlight(text string) string {
	if text == "" {
		return ""
	}

	lexer := NewLexer(text)
	var result strings.Builder
	lastPos := 0

	for {
		tok := lexer.NextToken()
		if tok.Type == TokenEOF {
			break
		}

		if tok.Pos > lastPos {
			result.WriteString(text[lastPos:tok.Pos])
		}
		result.WriteString(tokenStyle(tok.Type).Render(tok.Literal))
		lastPos = tok.End()
	}

	if lastPos < len(text) {
		result.WriteString(text[lastPos:])
	}

	return result.String()
}

// tokenStyle returns the appropriate style for a token type.
func tokenStyle(t TokenType) lipgloss.Style {
	switch t {
	case TokenIdent:
		return FieldStyle
	case TokenStar, TokenDoubleStar:
		return WildcardStyle
	case TokenTilde:
		return ExcludeStyle
	case TokenReadable, TokenWritable:
		return KeywordStyle
	case TokenDot, TokenIndexer, TokenComma:
		return PunctStyle
	case TokenIllegal:
		return IllegalStyle
	default:
		return DefaultStyle
	}
}

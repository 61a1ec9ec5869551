package selector

// Lexer tokenizes selector text.
type Lexer struct {
	input string
	pos   int  // offset of ch
	next  int  // offset of the character after ch
	ch    byte // current character under examination, 0 at end of input
}

// NewLexer creates a new lexer for the input string.
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

// NextToken returns the next token from the input. Whitespace separates
// tokens and is not reported.
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	tok := Token{Pos: l.pos}

	switch l.ch {
	case 0:
		tok.Type = TokenEOF
		return tok
	case '.':
		tok.Type = TokenDot
		tok.Literal = "."
	case ',':
		tok.Type = TokenComma
		tok.Literal = ","
	case '~':
		tok.Type = TokenTilde
		tok.Literal = "~"
	case '*':
		if l.peekChar() == '*' {
			l.readChar()
			tok.Type = TokenDoubleStar
			tok.Literal = "**"
		} else {
			tok.Type = TokenStar
			tok.Literal = "*"
		}
	case '[':
		if l.peekChar() == ']' {
			l.readChar()
			tok.Type = TokenIndexer
			tok.Literal = "[]"
		} else {
			tok.Type = TokenIllegal
			tok.Literal = "["
		}
	case ':':
		l.readChar()
		tok.Literal = ":" + l.readIdentifier()
		tok.Type = LookupKeyword(tok.Literal)
		return tok
	default:
		if isIdentChar(l.ch) {
			tok.Type = TokenIdent
			tok.Literal = l.readIdentifier()
			return tok
		}
		tok.Type = TokenIllegal
		tok.Literal = string(l.ch)
	}

	l.readChar()
	return tok
}

// readChar reads the next character and advances position.
func (l *Lexer) readChar() {
	l.pos = l.next
	if l.next >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.next]
	}
	l.next++
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() byte {
	if l.next >= len(l.input) {
		return 0
	}
	return l.input[l.next]
}

func (l *Lexer) skipWhitespace() {
	for isSpace(l.ch) {
		l.readChar()
	}
}

// readIdentifier reads letters, digits, underscores and hyphens.
func (l *Lexer) readIdentifier() string {
	start := l.pos
	for isIdentChar(l.ch) {
		l.readChar()
	}
	return l.input[start:l.pos]
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isIdentChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' || c == '-'
}

// ValidName reports whether name is a single attribute name segment that the
// selector grammar can address.
func ValidName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		if !isIdentChar(name[i]) {
			return false
		}
	}
	return true
}

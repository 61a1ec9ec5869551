package selector

// TokenType represents the type of lexical token.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenIllegal

	TokenIdent // attribute names and name prefixes

	// Punctuation
	TokenDot     // .
	TokenComma   // ,
	TokenTilde   // ~
	TokenIndexer // []

	// Wildcards
	TokenStar       // *
	TokenDoubleStar // **

	// Keywords
	TokenReadable // :readable
	TokenWritable // :writable
)

// String returns the string representation of the token type.
func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "EOF"
	case TokenIllegal:
		return "ILLEGAL"
	case TokenIdent:
		return "IDENT"
	case TokenDot:
		return "."
	case TokenComma:
		return ","
	case TokenTilde:
		return "~"
	case TokenIndexer:
		return "[]"
	case TokenStar:
		return "*"
	case TokenDoubleStar:
		return "**"
	case TokenReadable:
		return Readable
	case TokenWritable:
		return Writable
	default:
		return "UNKNOWN"
	}
}

// Token is a lexical token. Pos is the zero based byte offset of its first
// character.
type Token struct {
	Type    TokenType
	Literal string
	Pos     int
}

// End returns the offset just past the token.
func (t Token) End() int {
	return t.Pos + len(t.Literal)
}

var keywords = map[string]TokenType{
	Readable: TokenReadable,
	Writable: TokenWritable,
}

// LookupKeyword returns the keyword token for a ":name" literal, or
// TokenIllegal when the keyword is unknown.
func LookupKeyword(literal string) TokenType {
	if tok, ok := keywords[literal]; ok {
		return tok
	}
	return TokenIllegal
}

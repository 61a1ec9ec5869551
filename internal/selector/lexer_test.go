package selector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLexer_Tokens(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Token
	}{
		{
			name:  "names and exclusion",
			input: "id, ~name",
			expected: []Token{
				{Type: TokenIdent, Literal: "id", Pos: 0},
				{Type: TokenComma, Literal: ",", Pos: 2},
				{Type: TokenTilde, Literal: "~", Pos: 4},
				{Type: TokenIdent, Literal: "name", Pos: 5},
				{Type: TokenEOF, Literal: "", Pos: 9},
			},
		},
		{
			name:  "nested wildcard",
			input: "product.**",
			expected: []Token{
				{Type: TokenIdent, Literal: "product", Pos: 0},
				{Type: TokenDot, Literal: ".", Pos: 7},
				{Type: TokenDoubleStar, Literal: "**", Pos: 8},
				{Type: TokenEOF, Literal: "", Pos: 10},
			},
		},
		{
			name:  "prefix and indexer",
			input: "prod* lines[].sku",
			expected: []Token{
				{Type: TokenIdent, Literal: "prod", Pos: 0},
				{Type: TokenStar, Literal: "*", Pos: 4},
				{Type: TokenIdent, Literal: "lines", Pos: 6},
				{Type: TokenIndexer, Literal: "[]", Pos: 11},
				{Type: TokenDot, Literal: ".", Pos: 13},
				{Type: TokenIdent, Literal: "sku", Pos: 14},
				{Type: TokenEOF, Literal: "", Pos: 17},
			},
		},
		{
			name:  "keywords",
			input: ":readable\t:writable",
			expected: []Token{
				{Type: TokenReadable, Literal: ":readable", Pos: 0},
				{Type: TokenWritable, Literal: ":writable", Pos: 10},
				{Type: TokenEOF, Literal: "", Pos: 19},
			},
		},
		{
			name:  "identifier characters",
			input: "created_at-utc2",
			expected: []Token{
				{Type: TokenIdent, Literal: "created_at-utc2", Pos: 0},
				{Type: TokenEOF, Literal: "", Pos: 15},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lexer := NewLexer(tt.input)
			for i, want := range tt.expected {
				got := lexer.NextToken()
				assert.Equal(t, want, got, "token %d", i)
			}
		})
	}
}

func TestLexer_Illegal(t *testing.T) {
	tests := []struct {
		input   string
		literal string
	}{
		{"$", "$"},
		{"[x", "["},
		{":hidden", ":hidden"},
		{":", ":"},
		{"name=1", "="},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lexer := NewLexer(tt.input)
			var tok Token
			for tok = lexer.NextToken(); tok.Type != TokenEOF && tok.Type != TokenIllegal; tok = lexer.NextToken() {
			}
			assert.Equal(t, TokenIllegal, tok.Type)
			assert.Equal(t, tt.literal, tok.Literal)
		})
	}
}

func TestTokenType_String(t *testing.T) {
	assert.Equal(t, "**", TokenDoubleStar.String())
	assert.Equal(t, ":readable", TokenReadable.String())
	assert.Equal(t, "UNKNOWN", TokenType(99).String())
}

func TestValidName(t *testing.T) {
	assert.True(t, ValidName("displayName"))
	assert.True(t, ValidName("created_at"))
	assert.True(t, ValidName("URL"))
	assert.False(t, ValidName(""))
	assert.False(t, ValidName("a.b"))
	assert.False(t, ValidName("a*"))
	assert.False(t, ValidName("lines[]"))
	assert.False(t, ValidName("first name"))
}

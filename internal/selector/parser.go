package selector

import (
	"errors"
	"fmt"
)

// ErrInvalidSyntax is matched by every error Parse returns.
var ErrInvalidSyntax = errors.New("invalid selector syntax")

// SyntaxError reports where selector text leaves the grammar.
type SyntaxError struct {
	Pos  int
	Text string
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %s at position %d (%q)", ErrInvalidSyntax, e.Msg, e.Pos, e.Text)
}

func (e *SyntaxError) Unwrap() error {
	return ErrInvalidSyntax
}

// Parser splits selector text into token expressions.
//
//	selector   = [ expression { ( "," | space ) expression } ]
//	expression = "." | [ "~" ] ( ":readable" | ":writable" | path )
//	path       = segment { "." segment } [ "." wildcard ] | wildcard
//	segment    = ident [ "[]" ]
//	wildcard   = [ ident ] ( "*" | "**" )
//
// Characters of one expression are adjacent; whitespace or a comma ends it.
type Parser struct {
	input   string
	lexer   *Lexer
	current Token
	peek    Token
	lastEnd int
}

// NewParser creates a parser for the input.
func NewParser(input string) *Parser {
	p := &Parser{input: input, lexer: NewLexer(input)}
	// Prime the parser with two tokens
	p.nextToken()
	p.nextToken()
	return p
}

// Parse returns the token expressions in input order.
func (p *Parser) Parse() ([]string, error) {
	var exprs []string

	for p.current.Type != TokenEOF {
		if p.current.Type == TokenComma {
			p.advance()
			continue
		}

		start := p.current.Pos
		if err := p.parseExpression(); err != nil {
			return nil, err
		}
		exprs = append(exprs, p.input[start:p.lastEnd])

		if p.current.Type != TokenEOF && p.current.Type != TokenComma && p.adjacent() {
			return nil, p.errorf("unexpected token after %q", p.input[start:p.lastEnd])
		}
	}

	return exprs, nil
}

// nextToken advances to the next token.
func (p *Parser) nextToken() {
	p.current = p.peek
	p.peek = p.lexer.NextToken()
}

// advance consumes the current token.
func (p *Parser) advance() {
	p.lastEnd = p.current.End()
	p.nextToken()
}

// adjacent reports whether the current token directly follows the last
// consumed one.
func (p *Parser) adjacent() bool {
	return p.current.Pos == p.lastEnd
}

func (p *Parser) errorf(format string, args ...any) error {
	return &SyntaxError{
		Pos:  p.current.Pos,
		Text: p.current.Literal,
		Msg:  fmt.Sprintf(format, args...),
	}
}

func (p *Parser) parseExpression() error {
	switch p.current.Type {
	case TokenIllegal:
		return p.errorf("illegal character")
	case TokenDot:
		p.advance()
		if p.adjacent() && p.current.Type != TokenEOF && p.current.Type != TokenComma {
			return p.errorf("anchor %q must stand alone", Anchor)
		}
		return nil
	case TokenTilde:
		p.advance()
		if !p.adjacent() || p.current.Type == TokenEOF || p.current.Type == TokenComma {
			return p.errorf("expected attribute after %q", "~")
		}
		if p.current.Type == TokenDot {
			return p.errorf("the anchor cannot be excluded")
		}
	}

	switch p.current.Type {
	case TokenReadable, TokenWritable:
		p.advance()
		return nil
	}
	return p.parsePath()
}

// parsePath parses dotted segments, optionally ending in a wildcard.
func (p *Parser) parsePath() error {
	for {
		switch p.current.Type {
		case TokenStar, TokenDoubleStar:
			p.advance()
			return nil
		case TokenIdent:
			p.advance()
		case TokenIllegal:
			return p.errorf("illegal character")
		default:
			return p.errorf("expected attribute name")
		}

		if p.adjacent() {
			switch p.current.Type {
			case TokenStar, TokenDoubleStar:
				p.advance()
				return nil
			case TokenIndexer:
				p.advance()
			}
		}

		if !p.adjacent() || p.current.Type != TokenDot {
			return nil
		}
		p.advance()
		if !p.adjacent() {
			return p.errorf("expected attribute name after %q", ".")
		}
	}
}

// Parse converts selector text such as "id, customer.*, ~customer.id" into a
// Selector.
func Parse(text string) (Selector, error) {
	exprs, err := NewParser(text).Parse()
	if err != nil {
		return Selector{}, err
	}
	return Of(exprs...), nil
}

// MustParse is Parse for selectors known at compile time; it panics on error.
func MustParse(text string) Selector {
	s, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return s
}

package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cottand/typex/txerr"
)

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokName
	tokString
	tokDot
	tokComma
	tokEllipsis
	tokLBrack
	tokRBrack
	tokLParen
	tokRParen
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of input"
	case tokName:
		return "name"
	case tokString:
		return "string"
	case tokDot:
		return "'.'"
	case tokComma:
		return "','"
	case tokEllipsis:
		return "'...'"
	case tokLBrack:
		return "'['"
	case tokRBrack:
		return "']'"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	default:
		return "unknown token"
	}
}

type token struct {
	kind   tokenKind
	value  string
	offset int
}

type lexer struct {
	src    string
	offset int
}

func newLexer(src string) *lexer {
	return &lexer{src: src}
}

func (lex *lexer) errf(offset int, msg string) error {
	return txerr.New(txerr.SyntaxError{Source: lex.src, Offset: offset, Msg: msg})
}

func (lex *lexer) peek() rune {
	if lex.offset >= len(lex.src) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(lex.src[lex.offset:])
	return r
}

func (lex *lexer) advance() rune {
	r, size := utf8.DecodeRuneInString(lex.src[lex.offset:])
	lex.offset += size
	return r
}

func (lex *lexer) Next() (token, error) {
	for lex.offset < len(lex.src) && unicode.IsSpace(lex.peek()) {
		lex.advance()
	}
	start := lex.offset
	if lex.offset >= len(lex.src) {
		return token{kind: tokEOF, offset: start}, nil
	}
	switch ch := lex.peek(); {
	case ch == '.':
		if strings.HasPrefix(lex.src[lex.offset:], "...") {
			lex.offset += 3
			return token{kind: tokEllipsis, value: "...", offset: start}, nil
		}
		lex.advance()
		return token{kind: tokDot, value: ".", offset: start}, nil
	case ch == ',':
		lex.advance()
		return token{kind: tokComma, value: ",", offset: start}, nil
	case ch == '[':
		lex.advance()
		return token{kind: tokLBrack, value: "[", offset: start}, nil
	case ch == ']':
		lex.advance()
		return token{kind: tokRBrack, value: "]", offset: start}, nil
	case ch == '(':
		lex.advance()
		return token{kind: tokLParen, value: "(", offset: start}, nil
	case ch == ')':
		lex.advance()
		return token{kind: tokRParen, value: ")", offset: start}, nil
	case ch == '"' || ch == '\'':
		return lex.lexString()
	case ch == '_' || unicode.IsLetter(ch):
		for lex.offset < len(lex.src) {
			if r := lex.peek(); r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
				break
			}
			lex.advance()
		}
		return token{kind: tokName, value: lex.src[start:lex.offset], offset: start}, nil
	default:
		return token{}, lex.errf(start, "unexpected character "+string(ch))
	}
}

func (lex *lexer) lexString() (token, error) {
	start := lex.offset
	quote := lex.advance()
	var sb strings.Builder
	for {
		if lex.offset >= len(lex.src) {
			return token{}, lex.errf(start, "unterminated string")
		}
		ch := lex.advance()
		switch ch {
		case quote:
			return token{kind: tokString, value: sb.String(), offset: start}, nil
		case '\\':
			if lex.offset >= len(lex.src) {
				return token{}, lex.errf(start, "unterminated string")
			}
			sb.WriteRune(lex.advance())
		case '\n':
			return token{}, lex.errf(lex.offset-1, "newline in string")
		default:
			sb.WriteRune(ch)
		}
	}
}

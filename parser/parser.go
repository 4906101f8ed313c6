// Package parser turns forward reference source text into a syntax tree.
//
// The grammar is:
//
//	expr      := primary { '[' subscript ']' }
//	primary   := NAME { '.' NAME } | '[' [ exprs ] ']' | '(' [ exprs ] ')' | '...' | STRING
//	subscript := exprs
//	exprs     := expr { ',' expr } [ ',' ]
package parser

import (
	"fmt"

	"github.com/cottand/typex/internal/log"
	"github.com/cottand/typex/txerr"
)

var logger = log.DefaultLogger.With("section", "parser")

type Parser struct {
	lex  *lexer
	tok  token
	prev token
}

// Parse parses src as a single type expression.
// Malformed input returns a txerr.SyntaxError
func Parse(src string) (Node, error) {
	p := &Parser{lex: newLexer(src)}
	if err := p.next(); err != nil {
		return nil, err
	}
	if p.tok.kind == tokEOF {
		return nil, p.errf(p.tok, "empty type expression")
	}
	node, err := p.expr()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokEOF {
		return nil, p.errf(p.tok, fmt.Sprintf("unexpected %s after expression", p.tok.kind))
	}
	logger.Debug("parsed forward reference", "src", src, "node", node.String())
	return node, nil
}

func (p *Parser) errf(at token, msg string) error {
	return txerr.New(txerr.SyntaxError{Source: p.lex.src, Offset: at.offset, Msg: msg})
}

func (p *Parser) next() error {
	tok, err := p.lex.Next()
	if err != nil {
		return err
	}
	p.prev, p.tok = p.tok, tok
	return nil
}

func (p *Parser) assertNext(kind tokenKind) error {
	if p.tok.kind != kind {
		return p.errf(p.tok, fmt.Sprintf("expected %s but found %s", kind, p.tok.kind))
	}
	return p.next()
}

func (p *Parser) expr() (Node, error) {
	node, err := p.primary()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokLBrack {
		at := p.tok.offset
		if err := p.next(); err != nil {
			return nil, err
		}
		if p.tok.kind == tokRBrack {
			return nil, p.errf(p.tok, "empty subscript")
		}
		args, err := p.exprs(tokRBrack)
		if err != nil {
			return nil, err
		}
		node = &Index{Base: node, Args: args, At: at}
	}
	return node, nil
}

func (p *Parser) primary() (Node, error) {
	tok := p.tok
	switch tok.kind {
	case tokName:
		name := &Name{Parts: []string{tok.value}, At: tok.offset}
		if err := p.next(); err != nil {
			return nil, err
		}
		for p.tok.kind == tokDot {
			if err := p.next(); err != nil {
				return nil, err
			}
			if p.tok.kind != tokName {
				return nil, p.errf(p.tok, "expected name after '.'")
			}
			name.Parts = append(name.Parts, p.tok.value)
			if err := p.next(); err != nil {
				return nil, err
			}
		}
		return name, nil
	case tokString:
		if err := p.next(); err != nil {
			return nil, err
		}
		return &Str{Value: tok.value, At: tok.offset}, nil
	case tokEllipsis:
		if err := p.next(); err != nil {
			return nil, err
		}
		return &Ellipsis{At: tok.offset}, nil
	case tokLBrack:
		if err := p.next(); err != nil {
			return nil, err
		}
		if p.tok.kind == tokRBrack {
			return &List{At: tok.offset}, p.next()
		}
		elems, err := p.exprs(tokRBrack)
		if err != nil {
			return nil, err
		}
		return &List{Elems: elems, At: tok.offset}, nil
	case tokLParen:
		if err := p.next(); err != nil {
			return nil, err
		}
		if p.tok.kind == tokRParen {
			return &Tuple{At: tok.offset}, p.next()
		}
		first, err := p.expr()
		if err != nil {
			return nil, err
		}
		// a parenthesised expression without a comma is just grouping
		if p.tok.kind == tokRParen {
			return first, p.next()
		}
		if p.tok.kind != tokComma {
			return nil, p.errf(p.tok, fmt.Sprintf("expected ',' or ')' but found %s", p.tok.kind))
		}
		if err := p.next(); err != nil {
			return nil, err
		}
		if p.tok.kind == tokRParen {
			return &Tuple{Elems: []Node{first}, At: tok.offset}, p.next()
		}
		rest, err := p.exprs(tokRParen)
		if err != nil {
			return nil, err
		}
		return &Tuple{Elems: append([]Node{first}, rest...), At: tok.offset}, nil
	default:
		return nil, p.errf(tok, fmt.Sprintf("unexpected %s", tok.kind))
	}
}

// exprs parses a comma separated list and consumes the closing token
func (p *Parser) exprs(closing tokenKind) ([]Node, error) {
	var nodes []Node
	for {
		node, err := p.expr()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
		if p.tok.kind != tokComma {
			break
		}
		if err := p.next(); err != nil {
			return nil, err
		}
		if p.tok.kind == closing {
			break
		}
	}
	return nodes, p.assertNext(closing)
}

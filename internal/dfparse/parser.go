// Copyright 2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dfparse

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bufbuild/dfilter/internal/ast"
	"github.com/bufbuild/dfilter/internal/dfield"
	"github.com/bufbuild/dfilter/internal/drange"
	"github.com/bufbuild/dfilter/internal/fvalue"
)

// ParseError is returned for syntax-level failures. spec §7 classifies
// these as out of the core's scope ("surfaces a single message + position");
// this module keeps that shape so the checker's own [TypeError] stays
// distinct.
type ParseError struct {
	Message string
	Offset  int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("syntax error at offset %d: %s", e.Offset, e.Message)
}

// Parser turns filter text into an [ast.Node] tree, resolving field names
// against reg and function calls against funcs as it goes (spec treats both
// the grammar and the registry as external; this is the thin stand-in
// SPEC_FULL §3 describes).
type Parser struct {
	lex  *lexer
	reg  *dfield.Registry
	fns  map[string]*ast.FunctionDef
	cur  token
	prev token
}

// NewParser constructs a parser for text against the given field registry
// and function table.
func NewParser(text string, reg *dfield.Registry, fns map[string]*ast.FunctionDef) (*Parser, error) {
	p := &Parser{lex: newLexer(text), reg: reg, fns: fns}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

// Parse parses the whole of text as a single filter expression.
func Parse(text string, reg *dfield.Registry, fns map[string]*ast.FunctionDef) (ast.Node, error) {
	p, err := NewParser(text, reg, fns)
	if err != nil {
		return nil, err
	}
	node, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.cur.kind != tokEOF {
		return nil, &ParseError{Message: fmt.Sprintf("unexpected trailing token %q", p.cur.text), Offset: p.cur.pos}
	}
	return node, nil
}

func (p *Parser) advance() error {
	p.prev = p.cur
	tok, err := p.lex.next()
	if err != nil {
		return &ParseError{Message: err.Error(), Offset: p.lex.pos}
	}
	p.cur = tok
	return nil
}

func (p *Parser) expect(k tokenKind, what string) (token, error) {
	if p.cur.kind != k {
		return token{}, &ParseError{Message: fmt.Sprintf("expected %s, got %q", what, p.cur.text), Offset: p.cur.pos}
	}
	t := p.cur
	return t, p.advance()
}

// parseExpr == Or-level. All Test-producing callers pass through here.
func (p *Parser) parseExpr() (ast.Node, error) { return p.parseOr() }

func (p *Parser) parseOr() (ast.Node, error) {
	lhs, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.cur.kind == tokOr {
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		lhs = ast.NewTest(ast.Or, lhs, rhs, false)
	}
	return lhs, nil
}

func (p *Parser) parseAnd() (ast.Node, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.cur.kind == tokAnd {
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		lhs = ast.NewTest(ast.And, lhs, rhs, false)
	}
	return lhs, nil
}

func (p *Parser) parseUnary() (ast.Node, error) {
	if p.cur.kind == tokNot {
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.NewTest(ast.Not, operand, nil, false), nil
	}
	return p.parsePrimaryTest()
}

func (p *Parser) parsePrimaryTest() (ast.Node, error) {
	if p.cur.kind == tokLParen {
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen, "')'"); err != nil {
			return nil, err
		}
		if paren, ok := inner.(ast.Paren); ok {
			paren.SetParenthesized()
		}
		return inner, nil
	}
	return p.parseRelation()
}

var relOps = map[tokenKind]ast.TestOp{
	tokEq: ast.Eq, tokNe: ast.Ne, tokGt: ast.Gt, tokGe: ast.Ge,
	tokLt: ast.Lt, tokLe: ast.Le, tokAmp: ast.BitwiseAnd,
	tokContains: ast.Contains, tokMatches: ast.Matches, tokIn: ast.In,
}

func (p *Parser) parseRelation() (ast.Node, error) {
	lhs, err := p.parseOperand()
	if err != nil {
		return nil, err
	}

	op, ok := relOps[p.cur.kind]
	if !ok {
		// A bare field reference is an existence test.
		return ast.NewTest(ast.Exists, lhs, nil, false), nil
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	if op == ast.In {
		set, err := p.parseSet()
		if err != nil {
			return nil, err
		}
		return ast.NewTest(ast.In, lhs, set, false), nil
	}
	if op == ast.Matches {
		rhs, err := p.parseMatchesRHS()
		if err != nil {
			return nil, err
		}
		return ast.NewTest(ast.Matches, lhs, rhs, false), nil
	}

	rhs, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	return ast.NewTest(op, lhs, rhs, false), nil
}

func (p *Parser) parseMatchesRHS() (ast.Node, error) {
	tok, err := p.expect(tokString, "a regex pattern string")
	if err != nil {
		return nil, err
	}
	re, err := fvalue.CompileRegex(tok.text)
	if err != nil {
		return nil, &ParseError{Message: err.Error(), Offset: tok.pos}
	}
	return ast.NewPcre(tok.text, re, false), nil
}

func (p *Parser) parseSet() (ast.Node, error) {
	if _, err := p.expect(tokLBrace, "'{'"); err != nil {
		return nil, err
	}
	var elems []ast.SetElem
	if p.cur.kind != tokRBrace {
		for {
			low, err := p.parseOperand()
			if err != nil {
				return nil, err
			}
			elem := ast.SetElem{Low: low}
			if p.cur.kind == tokDotDot {
				if err := p.advance(); err != nil {
					return nil, err
				}
				high, err := p.parseOperand()
				if err != nil {
					return nil, err
				}
				elem.High = high
			}
			elems = append(elems, elem)
			if p.cur.kind != tokComma {
				break
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
	if _, err := p.expect(tokRBrace, "'}'"); err != nil {
		return nil, err
	}
	return ast.NewSet(elems, false), nil
}

// parseOperand parses one atom followed by zero or more bracketed ranges
// (ranges nest: field[0:2][0:1]).
func (p *Parser) parseOperand() (ast.Node, error) {
	n, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for p.cur.kind == tokLBracket {
		dr, err := p.parseRangeList()
		if err != nil {
			return nil, err
		}
		n = ast.NewRange(n, dr, false)
	}
	return n, nil
}

func (p *Parser) parseRangeList() (drange.Range, error) {
	if _, err := p.expect(tokLBracket, "'['"); err != nil {
		return nil, err
	}
	var dr drange.Range
	for {
		node, err := p.parseRangeNode()
		if err != nil {
			return nil, err
		}
		dr = append(dr, node)
		if p.cur.kind != tokComma {
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(tokRBracket, "']'"); err != nil {
		return nil, err
	}
	return dr, nil
}

func (p *Parser) parseRangeNode() (drange.Node, error) {
	startTok, err := p.expect(tokNumber, "a range start offset")
	if err != nil {
		return drange.Node{}, err
	}
	start, err := strconv.Atoi(startTok.text)
	if err != nil {
		return drange.Node{}, &ParseError{Message: "invalid range offset " + startTok.text, Offset: startTok.pos}
	}

	switch p.cur.kind {
	case tokColon:
		if err := p.advance(); err != nil {
			return drange.Node{}, err
		}
		if p.cur.kind != tokNumber {
			return drange.NewToEnd(start), nil
		}
		lenTok := p.cur
		if err := p.advance(); err != nil {
			return drange.Node{}, err
		}
		length, err := strconv.Atoi(lenTok.text)
		if err != nil {
			return drange.Node{}, &ParseError{Message: "invalid range length " + lenTok.text, Offset: lenTok.pos}
		}
		return drange.NewLength(start, length), nil
	case tokDash:
		if err := p.advance(); err != nil {
			return drange.Node{}, err
		}
		endTok, err := p.expect(tokNumber, "a range end offset")
		if err != nil {
			return drange.Node{}, err
		}
		end, err := strconv.Atoi(endTok.text)
		if err != nil {
			return drange.Node{}, &ParseError{Message: "invalid range offset " + endTok.text, Offset: endTok.pos}
		}
		return drange.NewOffset(start, end), nil
	default:
		return drange.Node{}, &ParseError{Message: "expected ':' or '-' in range", Offset: p.cur.pos}
	}
}

func (p *Parser) parseAtom() (ast.Node, error) {
	switch p.cur.kind {
	case tokString:
		tok := p.cur
		return tok2String(tok), p.advance()
	case tokCharConst:
		tok := p.cur
		return tok2CharConst(tok), p.advance()
	case tokNumber:
		return p.parseNumberOrHexSeq()
	case tokIdent:
		return p.parseIdentAtom()
	default:
		return nil, &ParseError{Message: fmt.Sprintf("unexpected token %q", p.cur.text), Offset: p.cur.pos}
	}
}

func tok2String(t token) ast.Node    { return ast.NewString(t.text, false) }
func tok2CharConst(t token) ast.Node { return ast.NewCharConst(t.text, false) }

// parseNumberOrHexSeq handles both plain numeric literals ("80", "0x50")
// and colon-separated hex-byte sequences ("0a:00:01"), which lex as a
// NUMBER followed by repeated (COLON NUMBER). Byte-sequence literals are
// folded back into a single Unparsed token so the checker's existing
// literal-coercion path handles them uniformly.
func (p *Parser) parseNumberOrHexSeq() (ast.Node, error) {
	first := p.cur
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.cur.kind != tokColon || !isHexByte(first.text) {
		return ast.NewUnparsed(first.text, false), nil
	}

	var sb strings.Builder
	sb.WriteString(first.text)
	for p.cur.kind == tokColon {
		// Only consume the colon as part of a byte sequence if it is
		// followed by another hex-byte-shaped number; otherwise this colon
		// belongs to an enclosing range expression.
		save := *p.lex
		saveCur, savePrev := p.cur, p.prev
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.cur.kind != tokNumber || !isHexByte(p.cur.text) {
			*p.lex = save
			p.cur, p.prev = saveCur, savePrev
			break
		}
		sb.WriteByte(':')
		sb.WriteString(p.cur.text)
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	return ast.NewUnparsed(sb.String(), false), nil
}

func isHexByte(s string) bool {
	if len(s) != 2 {
		return false
	}
	for _, r := range s {
		if !((r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')) {
			return false
		}
	}
	return true
}

func (p *Parser) parseIdentAtom() (ast.Node, error) {
	name := p.cur.text
	namePos := p.cur.pos
	if err := p.advance(); err != nil {
		return nil, err
	}

	if p.cur.kind == tokLParen {
		def, ok := p.fns[name]
		if !ok {
			return nil, &ParseError{Message: fmt.Sprintf("%q is not a known function", name), Offset: namePos}
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		var params []ast.Node
		if p.cur.kind != tokRParen {
			for {
				arg, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				params = append(params, arg)
				if p.cur.kind != tokComma {
					break
				}
				if err := p.advance(); err != nil {
					return nil, err
				}
			}
		}
		if _, err := p.expect(tokRParen, "')'"); err != nil {
			return nil, err
		}
		return ast.NewFunction(def, params, false), nil
	}

	if hf, err := p.reg.Resolve(name); err == nil {
		return ast.NewField(hf, false), nil
	}
	return ast.NewUnparsed(name, false), nil
}

// Package parser implements the recursive-descent parser described in
// spec.md §4.2: one token of lookahead, Pratt-style precedence climbing
// for expressions.
package parser

import (
	"fmt"

	"github.com/ascript/as/internal/ast"
	"github.com/ascript/as/internal/lexer"
)

// Error is a fatal parse error: an unexpected token kind at a position
// requiring another kind.
type Error struct {
	Pos     lexer.Position
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("ParseError: %s at line %d, column %d", e.Message, e.Pos.Line, e.Pos.Column)
}

// Precedence levels, lowest to highest, matching spec.md §4.2 exactly.
const (
	_ int = iota
	LOWEST
	LOGICAL_OR
	LOGICAL_AND
	EQUALITY
	COMPARISON
	ADDITIVE
	MULTIPLICATIVE
)

var precedences = map[lexer.TokenType]int{
	lexer.OR:      LOGICAL_OR,
	lexer.AND:     LOGICAL_AND,
	lexer.EQ:      EQUALITY,
	lexer.NEQ:     EQUALITY,
	lexer.GT:      COMPARISON,
	lexer.GTE:     COMPARISON,
	lexer.LT:      COMPARISON,
	lexer.LTE:     COMPARISON,
	lexer.PLUS:    ADDITIVE,
	lexer.MINUS:   ADDITIVE,
	lexer.STAR:    MULTIPLICATIVE,
	lexer.SLASH:   MULTIPLICATIVE,
	lexer.PERCENT: MULTIPLICATIVE,
}

// Parser consumes a Lexer's token stream and builds a Program AST.
type Parser struct {
	l *lexer.Lexer

	curToken  lexer.Token
	peekToken lexer.Token

	err error
}

// New creates a Parser over l. Any lexer error encountered while priming
// the lookahead tokens is surfaced on the first call to ParseProgram.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	tok, err := p.l.NextToken()
	if err != nil && p.err == nil {
		p.err = err
	}
	p.peekToken = tok
}

func (p *Parser) fail(format string, args ...interface{}) error {
	return &Error{Pos: p.curToken.Pos, Message: fmt.Sprintf(format, args...)}
}

// eat asserts the current token's kind, returns it, and advances.
func (p *Parser) eat(kind lexer.TokenType) (lexer.Token, error) {
	if p.curToken.Type != kind {
		return lexer.Token{}, p.fail("expected %s, got %s (%q)", kind, p.curToken.Type, p.curToken.Literal)
	}
	tok := p.curToken
	p.nextToken()
	return tok, nil
}

// ParseProgram parses the full token stream into a Program node. It
// returns the first fatal error encountered, lexical or syntactic.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	prog := &ast.Program{}
	for p.curToken.Type != lexer.EOF {
		if p.err != nil {
			return nil, p.err
		}
		stmt, err := p.parseStatement()
		if err != nil {
			if p.err != nil {
				return nil, p.err
			}
			return nil, err
		}
		prog.Statements = append(prog.Statements, stmt)
	}
	if p.err != nil {
		return nil, p.err
	}
	return prog, nil
}

func (p *Parser) parseStatement() (ast.Statement, error) {
	switch p.curToken.Type {
	case lexer.LET:
		return p.parseVarDecl()
	case lexer.IF:
		return p.parseIf()
	case lexer.WHILE:
		return p.parseWhile()
	case lexer.FUNCTION:
		return p.parseFunctionDecl()
	case lexer.RETURN:
		return p.parseReturn()
	case lexer.PRINT:
		return p.parsePrint()
	case lexer.IMPORT:
		return p.parseImport()
	case lexer.LBRACE:
		return p.parseBlock()
	case lexer.IDENT:
		return p.parseIdentStatement()
	default:
		return nil, p.fail("unexpected token %s (%q) at start of statement", p.curToken.Type, p.curToken.Literal)
	}
}

func (p *Parser) parseVarDecl() (ast.Statement, error) {
	tok, err := p.eat(lexer.LET)
	if err != nil {
		return nil, err
	}
	name, err := p.eat(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(lexer.ASSIGN); err != nil {
		return nil, err
	}
	init, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(lexer.SEMI); err != nil {
		return nil, err
	}
	return &ast.VarDecl{Token: tok, Name: name.Literal, Init: init}, nil
}

// parseIdentStatement disambiguates `IDENT = expr;` from `IDENT(args);`
// using one token of lookahead past the identifier, per spec.md §4.2.
func (p *Parser) parseIdentStatement() (ast.Statement, error) {
	identTok := p.curToken

	switch p.peekToken.Type {
	case lexer.ASSIGN:
		p.nextToken() // consume ident
		p.nextToken() // consume '='
		value, err := p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
		if _, err := p.eat(lexer.SEMI); err != nil {
			return nil, err
		}
		return &ast.Assign{Token: identTok, Name: identTok.Literal, Value: value}, nil

	case lexer.LPAREN:
		call, err := p.parseCallExpression(identTok)
		if err != nil {
			return nil, err
		}
		if _, err := p.eat(lexer.SEMI); err != nil {
			return nil, err
		}
		return &ast.ExpressionStatement{Token: identTok, Expr: call}, nil

	default:
		p.nextToken()
		return nil, p.fail("expected '=' or '(' after identifier %q, got %s", identTok.Literal, p.curToken.Type)
	}
}

func (p *Parser) parseBlock() (*ast.Block, error) {
	tok, err := p.eat(lexer.LBRACE)
	if err != nil {
		return nil, err
	}
	block := &ast.Block{Token: tok}
	for p.curToken.Type != lexer.RBRACE {
		if p.curToken.Type == lexer.EOF {
			return nil, p.fail("unexpected EOF, expected %s", lexer.RBRACE)
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		block.Statements = append(block.Statements, stmt)
	}
	if _, err := p.eat(lexer.RBRACE); err != nil {
		return nil, err
	}
	return block, nil
}

func (p *Parser) parseIf() (ast.Statement, error) {
	tok, err := p.eat(lexer.IF)
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(lexer.LPAREN); err != nil {
		return nil, err
	}
	test, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(lexer.RPAREN); err != nil {
		return nil, err
	}
	consequent, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	node := &ast.If{Token: tok, Test: test, Consequent: consequent}
	if p.curToken.Type == lexer.ELSE {
		p.nextToken()
		alt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		node.Alternate = alt
	}
	return node, nil
}

func (p *Parser) parseWhile() (ast.Statement, error) {
	tok, err := p.eat(lexer.WHILE)
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(lexer.LPAREN); err != nil {
		return nil, err
	}
	test, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(lexer.RPAREN); err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return &ast.While{Token: tok, Test: test, Body: body}, nil
}

func (p *Parser) parseFunctionDecl() (ast.Statement, error) {
	tok, err := p.eat(lexer.FUNCTION)
	if err != nil {
		return nil, err
	}
	name, err := p.eat(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(lexer.LPAREN); err != nil {
		return nil, err
	}
	var params []string
	for p.curToken.Type != lexer.RPAREN {
		id, err := p.eat(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		params = append(params, id.Literal)
		if p.curToken.Type == lexer.COMMA {
			p.nextToken()
		} else {
			break
		}
	}
	if _, err := p.eat(lexer.RPAREN); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.FunctionDecl{Token: tok, Name: name.Literal, Params: params, Body: body}, nil
}

func (p *Parser) parseReturn() (ast.Statement, error) {
	tok, err := p.eat(lexer.RETURN)
	if err != nil {
		return nil, err
	}
	value, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(lexer.SEMI); err != nil {
		return nil, err
	}
	return &ast.Return{Token: tok, Value: value}, nil
}

func (p *Parser) parsePrint() (ast.Statement, error) {
	tok, err := p.eat(lexer.PRINT)
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(lexer.LPAREN); err != nil {
		return nil, err
	}
	value, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(lexer.RPAREN); err != nil {
		return nil, err
	}
	if _, err := p.eat(lexer.SEMI); err != nil {
		return nil, err
	}
	return &ast.Print{Token: tok, Value: value}, nil
}

func (p *Parser) parseImport() (ast.Statement, error) {
	tok, err := p.eat(lexer.IMPORT)
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(lexer.LPAREN); err != nil {
		return nil, err
	}
	path, err := p.eat(lexer.STRING)
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(lexer.RPAREN); err != nil {
		return nil, err
	}
	if _, err := p.eat(lexer.SEMI); err != nil {
		return nil, err
	}
	return &ast.Import{Token: tok, Path: path.Literal}, nil
}

// parseExpression implements precedence climbing: it parses a prefix term
// then repeatedly folds in infix operators whose precedence exceeds the
// caller's minimum, producing left-associative trees.
func (p *Parser) parseExpression(minPrecedence int) (ast.Expression, error) {
	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}

	for p.curToken.Type != lexer.SEMI && minPrecedence < p.peekPrecedenceOfCurrent() {
		opTok := p.curToken
		p.nextToken()
		right, err := p.parseExpression(precedences[opTok.Type])
		if err != nil {
			return nil, err
		}
		if opTok.Type == lexer.AND || opTok.Type == lexer.OR {
			left = &ast.Logical{Token: opTok, Operator: opTok.Literal, Left: left, Right: right}
		} else {
			left = &ast.Binary{Token: opTok, Operator: opTok.Literal, Left: left, Right: right}
		}
	}
	return left, nil
}

func (p *Parser) peekPrecedenceOfCurrent() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) parsePrefix() (ast.Expression, error) {
	switch p.curToken.Type {
	case lexer.NUMBER:
		tok := p.curToken
		p.nextToken()
		return &ast.NumberLiteral{Token: tok, Value: tok.Number}, nil

	case lexer.STRING:
		tok := p.curToken
		p.nextToken()
		return &ast.StringLiteral{Token: tok, Value: tok.Literal}, nil

	case lexer.TRUE, lexer.FALSE:
		tok := p.curToken
		p.nextToken()
		return &ast.BooleanLiteral{Token: tok, Value: tok.Type == lexer.TRUE}, nil

	case lexer.IDENT:
		tok := p.curToken
		if p.peekToken.Type == lexer.LPAREN {
			return p.parseCallExpression(tok)
		}
		p.nextToken()
		return &ast.Identifier{Token: tok, Name: tok.Literal}, nil

	case lexer.LPAREN:
		p.nextToken()
		expr, err := p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
		if _, err := p.eat(lexer.RPAREN); err != nil {
			return nil, err
		}
		return expr, nil

	default:
		return nil, p.fail("unexpected token %s (%q) in expression", p.curToken.Type, p.curToken.Literal)
	}
}

func (p *Parser) parseCallExpression(callee lexer.Token) (ast.Expression, error) {
	p.nextToken() // consume ident
	if _, err := p.eat(lexer.LPAREN); err != nil {
		return nil, err
	}
	var args []ast.Expression
	for p.curToken.Type != lexer.RPAREN {
		arg, err := p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.curToken.Type == lexer.COMMA {
			p.nextToken()
		} else {
			break
		}
	}
	if _, err := p.eat(lexer.RPAREN); err != nil {
		return nil, err
	}
	return &ast.Call{Token: callee, Callee: callee.Literal, Args: args}, nil
}

package parser

import (
	"maps"

	"github.com/spicery/stone-parser/pkg/ast"
	"github.com/spicery/stone-parser/pkg/lexer"
)

// Associativity values for Operators.Add.
const (
	LeftAssoc  = true
	RightAssoc = false
)

// Precedence of a binary operator. Higher values bind tighter.
type Precedence struct {
	Value     int
	LeftAssoc bool
}

// Operators maps operator text to its precedence.
type Operators map[string]Precedence

// NewOperators creates an empty operator table.
func NewOperators() Operators {
	return make(Operators)
}

// Add registers a binary operator.
func (o Operators) Add(name string, prec int, leftAssoc bool) Operators {
	o[name] = Precedence{Value: prec, LeftAssoc: leftAssoc}
	return o
}

// Lookup returns the precedence of tok if it is an identifier-class token
// naming a known operator.
func (o Operators) Lookup(tok *lexer.Token) (Precedence, bool) {
	if !tok.IsIdentifier() {
		return Precedence{}, false
	}
	p, ok := o[tok.Text()]
	return p, ok
}

// Clone returns an independent copy of the table.
func (o Operators) Clone() Operators {
	if o == nil {
		return NewOperators()
	}
	return maps.Clone(o)
}

// exprElement parses binary operator expressions by precedence climbing.
type exprElement struct {
	factor int
	ops    Operators
	build  ListBuilder
}

func (g *Grammar) parseExpr(e *exprElement, lx *lexer.Lexer) (ast.Tree, error) {
	left, err := g.parseRule(e.factor, lx)
	if err != nil {
		return nil, err
	}
	for {
		prec, ok, err := e.nextOperator(lx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return left, nil
		}
		left, err = g.shift(e, lx, left, prec.Value)
		if err != nil {
			return nil, err
		}
	}
}

// shift consumes an operator of precedence prec and its right operand. The
// operand keeps absorbing further operators while they bind tighter (or
// equally tight and right associative).
func (g *Grammar) shift(e *exprElement, lx *lexer.Lexer, left ast.Tree, prec int) (ast.Tree, error) {
	op, err := lx.Read()
	if err != nil {
		return nil, err
	}
	right, err := g.parseRule(e.factor, lx)
	if err != nil {
		return nil, err
	}
	for {
		next, ok, err := e.nextOperator(lx)
		if err != nil {
			return nil, err
		}
		if !ok || !rightIsExpr(prec, next) {
			break
		}
		right, err = g.shift(e, lx, right, next.Value)
		if err != nil {
			return nil, err
		}
	}
	return e.build([]ast.Tree{left, ast.NewLeaf(op), right})
}

func (e *exprElement) nextOperator(lx *lexer.Lexer) (Precedence, bool, error) {
	tok, err := lx.Peek(0)
	if err != nil {
		return Precedence{}, false, err
	}
	p, ok := e.ops.Lookup(tok)
	return p, ok, nil
}

func rightIsExpr(prec int, next Precedence) bool {
	if next.LeftAssoc {
		return prec < next.Value
	}
	return prec <= next.Value
}

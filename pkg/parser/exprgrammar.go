package parser

import (
	"fmt"

	"github.com/spicery/stone-parser/pkg/ast"
	"github.com/spicery/stone-parser/pkg/lexer"
)

// BinaryNode is the node type of operator applications in ExprGrammar.
const BinaryNode NodeType = "binary"

// BinaryExpr is an operator application (left operator right).
type BinaryExpr struct {
	*ast.List
}

// NewBinaryExpr is the list builder for BinaryNode. It needs exactly three
// children with a leaf operator in the middle.
func NewBinaryExpr(children []ast.Tree) (ast.Tree, error) {
	if len(children) != 3 {
		return nil, fmt.Errorf("binary expression needs 3 children, got %d", len(children))
	}
	if _, ok := children[1].(*ast.Leaf); !ok {
		return nil, fmt.Errorf("binary operator must be a leaf, got %T", children[1])
	}
	return &BinaryExpr{List: ast.NewList(children)}, nil
}

// Left returns the left operand.
func (b *BinaryExpr) Left() ast.Tree { return b.Child(0) }

// Right returns the right operand.
func (b *BinaryExpr) Right() ast.Tree { return b.Child(2) }

// Operator returns the operator text.
func (b *BinaryExpr) Operator() string {
	return b.Child(1).(*ast.Leaf).Token().Text()
}

// ExprGrammar is a small expression language built on the engine:
//
//	primary   := "(" expr ")" | NUMBER | IDENTIFIER | STRING
//	expr      := primary { OP primary }      (precedence climbing)
//	statement := [ expr ] ( ";" | EOL )
//
// Blank statements produce an empty generic list.
type ExprGrammar struct {
	*Grammar
	Statement Rule
	Expr      Rule
	Primary   Rule
}

// NewExprGrammar builds and freezes the expression grammar for the operator
// table and reserved words in rules.
func NewExprGrammar(rules *RulesFile, opts ...Option) (*ExprGrammar, error) {
	ops, err := rules.Operators()
	if err != nil {
		return nil, err
	}

	factory := NewFactory().RegisterList(BinaryNode, NewBinaryExpr)
	g := NewGrammar(append([]Option{WithFactory(factory)}, opts...)...)

	expr := g.Rule("expr")
	primary := g.Rule("primary").Or(
		g.Rule("paren").Sep("(").Ast(expr).Sep(")"),
		g.Rule("number").Number(""),
		g.Rule("name").Identifier("", rules.Reserved...),
		g.Rule("string").String(""),
	)
	expr.Expression(BinaryNode, primary, ops)
	statement := g.Rule("statement").Option(expr).Sep(";", lexer.EOL)
	g.Freeze()

	return &ExprGrammar{Grammar: g, Statement: statement, Expr: expr, Primary: primary}, nil
}

package parser

import (
	"testing"

	"github.com/spicery/stone-parser/pkg/ast"
	"github.com/spicery/stone-parser/pkg/lexer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newExprGrammar(t *testing.T) *ExprGrammar {
	t.Helper()
	g, err := NewExprGrammar(DefaultRules())
	require.NoError(t, err)
	return g
}

func TestExprGrammarStatements(t *testing.T) {
	g := newExprGrammar(t)
	src := "1+2\nx = y = 3;\n\ns == \"a b\" // compare\n"

	trees, err := g.ParseAll(g.Statement, lexer.NewString(src))
	require.NoError(t, err)

	var got []string
	for _, tree := range trees {
		if ast.IsEmptyList(tree) {
			continue
		}
		got = append(got, tree.String())
	}
	assert.Equal(t, []string{"(1 + 2)", "(x = (y = 3))", "(s == a b)"}, got)
	assert.Len(t, trees, 5)
}

func TestExprGrammarBinaryNodes(t *testing.T) {
	g := newExprGrammar(t)

	tree, err := g.Expr.Parse(lexer.NewString("a - 2 * (b % 3)"))
	require.NoError(t, err)

	bin, ok := tree.(*BinaryExpr)
	require.True(t, ok, "got %T", tree)
	assert.Equal(t, "-", bin.Operator())
	assert.Equal(t, "a", bin.Left().String())
	assert.Equal(t, "at line 1", bin.Location())

	right, ok := bin.Right().(*BinaryExpr)
	require.True(t, ok, "got %T", bin.Right())
	assert.Equal(t, "*", right.Operator())
	assert.Equal(t, "(b % 3)", right.Right().String())
}

func TestExprGrammarErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains string
	}{
		{"Missing operand", "1 + ;", `syntax error around ";"at line 1`},
		{"Unclosed paren", "(1 + 2", `")" expected`},
		{"Unexpected close", ")", `syntax error around ")"at line 1`},
		{"Second line", "1\n2 2", `syntax error around "2"at line 2`},
		{"Bad token", "1 + é", "bad token at line 1"},
	}

	g := newExprGrammar(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.ParseAll(g.Statement, lexer.NewString(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestExprGrammarRejectsBadRules(t *testing.T) {
	rules := &RulesFile{Operator: []OperatorRule{{Text: "+", Precedence: 1, Assoc: "sideways"}}}
	_, err := NewExprGrammar(rules)
	assert.Error(t, err)
}

func TestNewBinaryExprValidates(t *testing.T) {
	one := ast.NewLeaf(lexer.NewNumber(1, 1))

	_, err := NewBinaryExpr([]ast.Tree{one, one})
	assert.Error(t, err)

	_, err = NewBinaryExpr([]ast.Tree{one, ast.NewList(nil), one})
	assert.Error(t, err)
}

package ast

import (
	"testing"

	"github.com/spicery/stone-parser/pkg/lexer"
	"github.com/stretchr/testify/assert"
)

func leaf(line int, text string) *Leaf {
	return NewLeaf(lexer.NewIdentifier(line, text))
}

func TestLeaf(t *testing.T) {
	l := NewLeaf(lexer.NewNumber(4, 12))

	assert.Equal(t, "12", l.String())
	assert.Equal(t, "at line 4", l.Location())
	assert.Equal(t, 0, l.NumChildren())
	assert.Empty(t, l.Children())
	assert.Equal(t, 12, l.Token().Number())
	assert.Panics(t, func() { l.Child(0) })
}

func TestListString(t *testing.T) {
	tests := []struct {
		name     string
		tree     Tree
		expected string
	}{
		{"Empty", NewList(nil), "()"},
		{"Flat", NewList([]Tree{leaf(1, "1"), leaf(1, "+"), leaf(1, "2")}), "(1 + 2)"},
		{
			"Nested",
			NewList([]Tree{
				leaf(1, "1"), leaf(1, "+"),
				NewList([]Tree{leaf(1, "2"), leaf(1, "*"), leaf(1, "3")}),
			}),
			"(1 + (2 * 3))",
		},
		{"String leaf shows decoded text", NewList([]Tree{NewLeaf(lexer.NewStringLiteral(1, "a b"))}), "(a b)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.tree.String())
		})
	}
}

func TestListLocation(t *testing.T) {
	tree := NewList([]Tree{
		NewList(nil),
		NewList([]Tree{NewList(nil), leaf(7, "x")}),
		leaf(2, "y"),
	})
	assert.Equal(t, "at line 7", tree.Location())
	assert.Equal(t, "", NewList(nil).Location())
}

type custom struct {
	*List
}

func TestIsEmptyList(t *testing.T) {
	assert.True(t, IsEmptyList(NewList(nil)))
	assert.True(t, IsEmptyList(NewList([]Tree{})))
	assert.False(t, IsEmptyList(NewList([]Tree{leaf(1, "x")})))
	assert.False(t, IsEmptyList(leaf(1, "x")))
	assert.False(t, IsEmptyList(custom{NewList(nil)}), "grammar node types are never empty markers")
}

func TestWalk(t *testing.T) {
	tree := NewList([]Tree{
		leaf(1, "a"),
		NewList([]Tree{leaf(1, "b"), leaf(1, "c")}),
		leaf(1, "d"),
	})

	var seen []string
	Walk(tree, func(n Tree) bool {
		if l, ok := n.(*Leaf); ok {
			seen = append(seen, l.String())
		}
		return true
	})
	assert.Equal(t, []string{"a", "b", "c", "d"}, seen)

	seen = nil
	Walk(tree, func(n Tree) bool {
		if l, ok := n.(*Leaf); ok {
			seen = append(seen, l.String())
		}
		return n == tree
	})
	assert.Equal(t, []string{"a", "d"}, seen)
}

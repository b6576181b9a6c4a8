// Package ast defines the two-variant syntax tree produced by the parser: a
// Leaf wrapping one token and a List owning an ordered sequence of children.
// Grammars may register their own node types; these usually embed *Leaf or
// *List and override String.
package ast

import (
	"fmt"
	"strings"

	"github.com/spicery/stone-parser/pkg/lexer"
)

// Tree is a node of the syntax tree. Nodes are never mutated after
// construction and each node is owned by exactly one parent.
type Tree interface {
	// Child returns the i-th child. It panics if i is out of range.
	Child(i int) Tree
	NumChildren() int
	Children() []Tree
	// Location describes where the node starts in the source, e.g. "at line 3",
	// or "" if no token under the node carries a location.
	Location() string
	String() string
}

// Leaf is a tree node wrapping exactly one token.
type Leaf struct {
	token *lexer.Token
}

// NewLeaf wraps a single token.
func NewLeaf(tok *lexer.Token) *Leaf {
	return &Leaf{token: tok}
}

// Token returns the wrapped token.
func (l *Leaf) Token() *lexer.Token { return l.token }

func (l *Leaf) Child(i int) Tree {
	panic(fmt.Sprintf("ast: leaf has no child %d", i))
}

func (l *Leaf) NumChildren() int { return 0 }
func (l *Leaf) Children() []Tree { return nil }

func (l *Leaf) Location() string {
	return fmt.Sprintf("at line %d", l.token.Line())
}

// String renders the token text.
func (l *Leaf) String() string {
	return l.token.Text()
}

// List is a tree node owning an ordered sequence of children.
type List struct {
	children []Tree
}

// NewList creates a list node. The slice is owned by the new node.
func NewList(children []Tree) *List {
	return &List{children: children}
}

func (l *List) Child(i int) Tree { return l.children[i] }
func (l *List) NumChildren() int { return len(l.children) }
func (l *List) Children() []Tree { return l.children }

// Location returns the first non-empty location of the children, searched
// depth first.
func (l *List) Location() string {
	for _, child := range l.children {
		if s := child.Location(); s != "" {
			return s
		}
	}
	return ""
}

// String renders "(" + space-joined children + ")".
func (l *List) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, child := range l.children {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(child.String())
	}
	sb.WriteByte(')')
	return sb.String()
}

// IsEmptyList reports whether t is exactly a generic *List with no children.
// Such nodes mark "no useful production" and are dropped by repetitions.
// Grammar-specific node types are never considered empty.
func IsEmptyList(t Tree) bool {
	l, ok := t.(*List)
	return ok && len(l.children) == 0
}

// Walk visits t and its descendants in pre-order. Returning false from fn
// skips the children of the node just visited.
func Walk(t Tree, fn func(Tree) bool) {
	if !fn(t) {
		return
	}
	for _, child := range t.Children() {
		Walk(child, fn)
	}
}

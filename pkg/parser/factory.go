package parser

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/spicery/stone-parser/pkg/ast"
	"github.com/spicery/stone-parser/pkg/lexer"
)

// NodeType names the kind of AST node a rule or leaf element builds. The
// empty NodeType selects the default construction.
type NodeType string

// LeafBuilder constructs a node from a single token.
type LeafBuilder func(tok *lexer.Token) (ast.Tree, error)

// ListBuilder constructs a node from the ordered children a rule collected.
type ListBuilder func(children []ast.Tree) (ast.Tree, error)

// ErrNodeBuild is wrapped by every BuildError.
var ErrNodeBuild = errors.New("node construction failed")

// BuildError reports a builder that rejected its argument. It means the
// grammar is misconfigured; it is never caused by the input text alone.
type BuildError struct {
	Type  NodeType
	cause error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("%s: node type %q: %v", ErrNodeBuild.Error(), e.Type, e.cause)
}

func (e *BuildError) Unwrap() []error {
	return []error{ErrNodeBuild, e.cause}
}

// StackTrace returns the stack recorded when the builder failed.
func (e *BuildError) StackTrace() errors.StackTrace {
	if st, ok := e.cause.(interface{ StackTrace() errors.StackTrace }); ok {
		return st.StackTrace()
	}
	return nil
}

// Format implements fmt.Formatter. %+v appends the recorded stack.
func (e *BuildError) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			fmt.Fprintf(s, "%s: node type %q: %+v", ErrNodeBuild.Error(), e.Type, e.cause)
			return
		}
		fallthrough
	case 's':
		io.WriteString(s, e.Error())
	case 'q':
		fmt.Fprintf(s, "%q", e.Error())
	}
}

// Factory is a registry of node builders keyed by NodeType.
type Factory struct {
	leaves map[NodeType]LeafBuilder
	lists  map[NodeType]ListBuilder
}

// NewFactory creates an empty registry. Rules and elements declared with the
// empty NodeType never consult it.
func NewFactory() *Factory {
	return &Factory{
		leaves: make(map[NodeType]LeafBuilder),
		lists:  make(map[NodeType]ListBuilder),
	}
}

// RegisterLeaf registers the builder used by token elements of type t.
func (f *Factory) RegisterLeaf(t NodeType, b LeafBuilder) *Factory {
	f.leaves[t] = b
	return f
}

// RegisterList registers the builder used by rules and expressions of type t.
func (f *Factory) RegisterList(t NodeType, b ListBuilder) *Factory {
	f.lists[t] = b
	return f
}

// leafBuilder resolves the builder for a token element. Unknown types are a
// grammar setup error and panic.
func (f *Factory) leafBuilder(t NodeType) LeafBuilder {
	if t == "" {
		return defaultLeaf
	}
	b, ok := f.leaves[t]
	if !ok {
		panic(fmt.Sprintf("parser: no leaf builder registered for node type %q", t))
	}
	return checkedLeaf(t, b)
}

// listBuilder resolves the builder for a rule or expression.
func (f *Factory) listBuilder(t NodeType) ListBuilder {
	if t == "" {
		return defaultList
	}
	b, ok := f.lists[t]
	if !ok {
		panic(fmt.Sprintf("parser: no list builder registered for node type %q", t))
	}
	return checkedList(t, b)
}

func defaultLeaf(tok *lexer.Token) (ast.Tree, error) {
	return ast.NewLeaf(tok), nil
}

// defaultList collapses a single child to that child and wraps anything else
// in a generic list.
func defaultList(children []ast.Tree) (ast.Tree, error) {
	if len(children) == 1 {
		return children[0], nil
	}
	return ast.NewList(children), nil
}

func checkedLeaf(t NodeType, b LeafBuilder) LeafBuilder {
	return func(tok *lexer.Token) (ast.Tree, error) {
		node, err := b(tok)
		if err == nil && node == nil {
			err = errors.New("builder returned no node")
		}
		if err != nil {
			return nil, &BuildError{Type: t, cause: errors.WithStack(err)}
		}
		return node, nil
	}
}

func checkedList(t NodeType, b ListBuilder) ListBuilder {
	return func(children []ast.Tree) (ast.Tree, error) {
		node, err := b(children)
		if err == nil && node == nil {
			err = errors.New("builder returned no node")
		}
		if err != nil {
			return nil, &BuildError{Type: t, cause: errors.WithStack(err)}
		}
		return node, nil
	}
}

package parser

import (
	"slices"
	"strconv"

	"github.com/spicery/stone-parser/pkg/ast"
	"github.com/spicery/stone-parser/pkg/lexer"
)

// element is one grammar-composition primitive. The set of implementations is
// closed; the engine dispatches on the concrete type.
type element interface {
	isElement()
}

// treeElement parses a sub-rule and adds its tree as one child.
type treeElement struct {
	rule int
}

// orElement parses the first candidate rule that matches.
type orElement struct {
	rules []int
}

// repeatElement parses a sub-rule while it matches, at most once if onlyOnce.
type repeatElement struct {
	rule     int
	onlyOnce bool
}

type tokenClass int

const (
	identifierClass tokenClass = iota
	numberClass
	stringClass
)

// tokenElement accepts one token of the required class and builds a leaf.
type tokenElement struct {
	class    tokenClass
	reserved map[string]bool
	build    LeafBuilder
}

// literalElement accepts one identifier-class token whose text is in texts.
// The token is kept as a leaf only if keep is set.
type literalElement struct {
	texts []string
	keep  bool
}

func (*treeElement) isElement()    {}
func (*orElement) isElement()      {}
func (*repeatElement) isElement()  {}
func (*tokenElement) isElement()   {}
func (*literalElement) isElement() {}
func (*exprElement) isElement()    {}

// parseElement consumes the input for e and appends what it produced to res.
func (g *Grammar) parseElement(e element, lx *lexer.Lexer, res []ast.Tree) ([]ast.Tree, error) {
	switch e := e.(type) {
	case *treeElement:
		t, err := g.parseRule(e.rule, lx)
		if err != nil {
			return nil, err
		}
		return append(res, t), nil

	case *orElement:
		id, err := g.choose(e, lx)
		if err != nil {
			return nil, err
		}
		if id < 0 {
			tok, err := lx.Peek(0)
			if err != nil {
				return nil, err
			}
			g.logger.Debug("no alternative matched", "token", tok, "line", tok.Line())
			return nil, lexer.NewParseError(tok, "")
		}
		t, err := g.parseRule(id, lx)
		if err != nil {
			return nil, err
		}
		return append(res, t), nil

	case *repeatElement:
		for {
			ok, err := g.matchRule(e.rule, lx)
			if err != nil {
				return nil, err
			}
			if !ok {
				break
			}
			t, err := g.parseRule(e.rule, lx)
			if err != nil {
				return nil, err
			}
			if !ast.IsEmptyList(t) {
				res = append(res, t)
			}
			if e.onlyOnce {
				break
			}
		}
		return res, nil

	case *tokenElement:
		tok, err := lx.Read()
		if err != nil {
			return nil, err
		}
		if !e.test(tok) {
			return nil, lexer.NewParseError(tok, "")
		}
		leaf, err := e.build(tok)
		if err != nil {
			return nil, err
		}
		return append(res, leaf), nil

	case *literalElement:
		tok, err := lx.Read()
		if err != nil {
			return nil, err
		}
		if !e.test(tok) {
			if len(e.texts) > 0 {
				return nil, lexer.NewParseError(tok, strconv.Quote(e.texts[0])+" expected")
			}
			return nil, lexer.NewParseError(tok, "")
		}
		if e.keep {
			res = append(res, ast.NewLeaf(tok))
		}
		return res, nil

	case *exprElement:
		t, err := g.parseExpr(e, lx)
		if err != nil {
			return nil, err
		}
		return append(res, t), nil
	}
	panic("parser: unknown element type")
}

// matchElement reports whether e accepts the next token without consuming it.
func (g *Grammar) matchElement(e element, lx *lexer.Lexer) (bool, error) {
	switch e := e.(type) {
	case *treeElement:
		return g.matchRule(e.rule, lx)
	case *orElement:
		id, err := g.choose(e, lx)
		return id >= 0, err
	case *repeatElement:
		return g.matchRule(e.rule, lx)
	case *tokenElement:
		tok, err := lx.Peek(0)
		if err != nil {
			return false, err
		}
		return e.test(tok), nil
	case *literalElement:
		tok, err := lx.Peek(0)
		if err != nil {
			return false, err
		}
		return e.test(tok), nil
	case *exprElement:
		return g.matchRule(e.factor, lx)
	}
	panic("parser: unknown element type")
}

// choose returns the first candidate that matches, or -1.
func (g *Grammar) choose(e *orElement, lx *lexer.Lexer) (int, error) {
	for _, id := range e.rules {
		ok, err := g.matchRule(id, lx)
		if err != nil {
			return -1, err
		}
		if ok {
			return id, nil
		}
	}
	return -1, nil
}

func (e *tokenElement) test(tok *lexer.Token) bool {
	switch e.class {
	case identifierClass:
		return tok.IsIdentifier() && !e.reserved[tok.Text()]
	case numberClass:
		return tok.IsNumber()
	case stringClass:
		return tok.IsString()
	}
	return false
}

func (e *literalElement) test(tok *lexer.Token) bool {
	return tok.IsIdentifier() && slices.Contains(e.texts, tok.Text())
}

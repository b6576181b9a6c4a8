// Package parser is a parser-combinator engine. A Grammar owns an arena of
// rules; each rule is an ordered list of elements (sequence, alternation,
// repetition, typed token, literal token, precedence-climbing expression)
// and a node type saying how its result is built.
//
// Rules are created empty and wired afterwards, which is how recursive and
// mutually recursive productions are expressed:
//
//	g := parser.NewGrammar()
//	expr := g.Rule("expr")
//	primary := g.Rule("primary").Or(
//		g.Rule("paren").Sep("(").Ast(expr).Sep(")"),
//		g.Rule("number").Number(""),
//	)
//	expr.Expression("", primary, ops)
//
// Matching uses one token of lookahead and never backtracks: a rule matches
// when its first element accepts the next token, and an alternation commits
// to the first candidate that matches. Grammars must be left-factored so that
// alternatives are told apart by their first token.
package parser

import (
	"fmt"
	"log/slog"
	"slices"
	"sync/atomic"

	"github.com/spicery/stone-parser/pkg/ast"
	"github.com/spicery/stone-parser/pkg/lexer"
)

// Grammar is an arena of rules. Rules refer to each other by index, so the
// rule graph may contain cycles.
//
// A Grammar is built by a single goroutine. After Freeze it holds no mutable
// state and may be used for concurrent parses, each with its own Lexer.
type Grammar struct {
	factory *Factory
	rules   []*ruleDef
	frozen  atomic.Bool
	logger  *slog.Logger
}

type ruleDef struct {
	name     string
	nodeType NodeType
	build    ListBuilder
	elements []element
}

// Option configures a Grammar.
type Option func(*Grammar)

// WithFactory sets the registry used to resolve node types.
func WithFactory(f *Factory) Option {
	return func(g *Grammar) {
		if f != nil {
			g.factory = f
		}
	}
}

// WithLogger sets the logger used for debug tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Grammar) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewGrammar creates an empty grammar. Without WithFactory only the empty
// NodeType can be used.
func NewGrammar(opts ...Option) *Grammar {
	g := &Grammar{
		factory: NewFactory(),
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Rule creates a new empty rule with the default node type.
func (g *Grammar) Rule(name string) Rule {
	g.checkSetup()
	return Rule{g: g, id: g.newRule(name, "")}
}

func (g *Grammar) newRule(name string, t NodeType) int {
	g.rules = append(g.rules, &ruleDef{
		name:     name,
		nodeType: t,
		build:    g.factory.listBuilder(t),
	})
	return len(g.rules) - 1
}

// Freeze ends the setup phase. Any later attempt to modify a rule panics.
func (g *Grammar) Freeze() *Grammar {
	g.frozen.Store(true)
	return g
}

// Frozen reports whether Freeze has been called.
func (g *Grammar) Frozen() bool { return g.frozen.Load() }

func (g *Grammar) checkSetup() {
	if g.frozen.Load() {
		panic("parser: grammar is frozen")
	}
}

// ParseAll parses r repeatedly until the lexer reaches EOF and returns every
// tree in order. It stops at the first error.
func (g *Grammar) ParseAll(r Rule, lx *lexer.Lexer) ([]ast.Tree, error) {
	g.checkRule(r)
	var trees []ast.Tree
	for {
		tok, err := lx.Peek(0)
		if err != nil {
			return trees, err
		}
		if tok.IsEOF() {
			return trees, nil
		}
		t, err := g.parseRule(r.id, lx)
		if err != nil {
			return trees, err
		}
		trees = append(trees, t)
	}
}

func (g *Grammar) checkRule(r Rule) {
	if r.g != g {
		panic(fmt.Sprintf("parser: rule %q belongs to another grammar", r.Name()))
	}
}

// parseRule runs every element of the rule in order and builds the node.
func (g *Grammar) parseRule(id int, lx *lexer.Lexer) (ast.Tree, error) {
	def := g.rules[id]
	results := make([]ast.Tree, 0, len(def.elements))
	for _, e := range def.elements {
		var err error
		results, err = g.parseElement(e, lx, results)
		if err != nil {
			return nil, err
		}
	}
	return def.build(results)
}

// matchRule reports whether the first element accepts the next token. A rule
// with no elements always matches.
func (g *Grammar) matchRule(id int, lx *lexer.Lexer) (bool, error) {
	def := g.rules[id]
	if len(def.elements) == 0 {
		return true, nil
	}
	return g.matchElement(def.elements[0], lx)
}

// Rule is a handle to a rule in a Grammar. The zero Rule is invalid.
//
// The builder methods append an element and return the rule so calls can be
// chained. They panic once the grammar is frozen.
type Rule struct {
	g  *Grammar
	id int
}

func (r Rule) def() *ruleDef {
	if r.g == nil {
		panic("parser: use of zero Rule")
	}
	return r.g.rules[r.id]
}

// Name returns the name the rule was created with.
func (r Rule) Name() string {
	if r.g == nil {
		return ""
	}
	return r.g.rules[r.id].name
}

// NodeType returns the node type the rule builds.
func (r Rule) NodeType() NodeType { return r.def().nodeType }

// Parse parses one production of the rule.
func (r Rule) Parse(lx *lexer.Lexer) (ast.Tree, error) {
	r.def()
	return r.g.parseRule(r.id, lx)
}

// Match reports whether the rule can start at the next token.
func (r Rule) Match(lx *lexer.Lexer) (bool, error) {
	r.def()
	return r.g.matchRule(r.id, lx)
}

func (r Rule) add(e element) Rule {
	r.g.checkSetup()
	def := r.def()
	def.elements = append(def.elements, e)
	return r
}

func (r Rule) ids(rules []Rule) []int {
	ids := make([]int, len(rules))
	for i, other := range rules {
		r.g.checkRule(other)
		ids[i] = other.id
	}
	return ids
}

// As sets the node type the rule builds from its collected children.
func (r Rule) As(t NodeType) Rule {
	r.g.checkSetup()
	def := r.def()
	def.nodeType = t
	def.build = r.g.factory.listBuilder(t)
	return r
}

// Reset removes every element, keeping the node type.
func (r Rule) Reset() Rule {
	r.g.checkSetup()
	r.def().elements = nil
	return r
}

// Ast parses sub and adds its tree as one child.
func (r Rule) Ast(sub Rule) Rule {
	return r.add(&treeElement{rule: r.ids([]Rule{sub})[0]})
}

// Or tries the candidates in order and parses the first one that matches.
func (r Rule) Or(candidates ...Rule) Rule {
	return r.add(&orElement{rules: r.ids(candidates)})
}

// Maybe parses sub if it matches and otherwise produces sub's node built from
// no children. Unlike Option it always contributes a child.
func (r Rule) Maybe(sub Rule) Rule {
	r.g.checkSetup()
	src := sub.def()
	empty := r.g.newRule(src.name+"?", src.nodeType)
	return r.add(&orElement{rules: []int{r.ids([]Rule{sub})[0], empty}})
}

// Option parses sub at most once.
func (r Rule) Option(sub Rule) Rule {
	return r.add(&repeatElement{rule: r.ids([]Rule{sub})[0], onlyOnce: true})
}

// Repeat parses sub zero or more times.
func (r Rule) Repeat(sub Rule) Rule {
	return r.add(&repeatElement{rule: r.ids([]Rule{sub})[0]})
}

// Identifier accepts an identifier-class token that is not reserved.
func (r Rule) Identifier(t NodeType, reserved ...string) Rule {
	set := make(map[string]bool, len(reserved))
	for _, word := range reserved {
		set[word] = true
	}
	return r.add(&tokenElement{class: identifierClass, reserved: set, build: r.g.factory.leafBuilder(t)})
}

// Number accepts an integer literal token.
func (r Rule) Number(t NodeType) Rule {
	return r.add(&tokenElement{class: numberClass, build: r.g.factory.leafBuilder(t)})
}

// String accepts a string literal token.
func (r Rule) String(t NodeType) Rule {
	return r.add(&tokenElement{class: stringClass, build: r.g.factory.leafBuilder(t)})
}

// Token accepts an identifier-class token with one of the given texts and
// keeps it as a leaf.
func (r Rule) Token(texts ...string) Rule {
	return r.add(&literalElement{texts: slices.Clone(texts), keep: true})
}

// Sep accepts an identifier-class token with one of the given texts and
// discards it.
func (r Rule) Sep(texts ...string) Rule {
	return r.add(&literalElement{texts: slices.Clone(texts)})
}

// Expression parses binary operator expressions over factor by precedence
// climbing. Each operator application is built with node type t from the
// children (left, operator leaf, right).
func (r Rule) Expression(t NodeType, factor Rule, ops Operators) Rule {
	return r.add(&exprElement{
		factor: r.ids([]Rule{factor})[0],
		ops:    ops.Clone(),
		build:  r.g.factory.listBuilder(t),
	})
}

// InsertChoice makes alt the first alternative of the rule. If the rule
// starts with an alternation, alt is prepended to it; otherwise the current
// body moves into a new rule and this rule becomes Or(alt, moved).
func (r Rule) InsertChoice(alt Rule) Rule {
	r.g.checkSetup()
	altID := r.ids([]Rule{alt})[0]
	def := r.def()
	if len(def.elements) > 0 {
		if or, ok := def.elements[0].(*orElement); ok {
			or.rules = slices.Insert(or.rules, 0, altID)
			return r
		}
	}
	moved := r.g.newRule(def.name, def.nodeType)
	r.g.rules[moved].elements = def.elements
	def.elements = []element{&orElement{rules: []int{altID, moved}}}
	def.nodeType = ""
	def.build = defaultList
	return r
}

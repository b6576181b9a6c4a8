package parser

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spicery/stone-parser/pkg/lexer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadRulesFileYAML(t *testing.T) {
	path := writeFile(t, "ops.yaml", `
operator:
  - text: "+"
    precedence: 1
  - text: "^"
    precedence: 3
    assoc: right
reserved: [";"]
`)
	rules, err := LoadRulesFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{";"}, rules.Reserved)

	ops, err := rules.Operators()
	require.NoError(t, err)
	assert.Equal(t, Precedence{Value: 1, LeftAssoc: true}, ops["+"])
	assert.Equal(t, Precedence{Value: 3, LeftAssoc: false}, ops["^"])
}

func TestLoadRulesFileTOML(t *testing.T) {
	path := writeFile(t, "ops.toml", `
reserved = [";", ")"]

[[operator]]
text = "*"
precedence = 2

[[operator]]
text = "="
precedence = 1
assoc = "right"
`)
	rules, err := LoadRulesFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{";", ")"}, rules.Reserved)

	ops, err := rules.Operators()
	require.NoError(t, err)
	assert.Len(t, ops, 2)
	assert.False(t, ops["="].LeftAssoc)
}

func TestLoadRulesFileErrors(t *testing.T) {
	_, err := LoadRulesFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read rules file")

	_, err = LoadRulesFile(writeFile(t, "bad.yaml", "operator: [unclosed"))
	assert.ErrorContains(t, err, "failed to parse YAML")

	_, err = LoadRulesFile(writeFile(t, "bad.toml", "operator = ="))
	assert.ErrorContains(t, err, "failed to parse TOML")
}

func TestOperatorsValidation(t *testing.T) {
	tests := []struct {
		name string
		ops  []OperatorRule
	}{
		{"Duplicate", []OperatorRule{{Text: "+", Precedence: 1}, {Text: "+", Precedence: 2}}},
		{"Empty text", []OperatorRule{{Precedence: 1}}},
		{"Unknown assoc", []OperatorRule{{Text: "+", Precedence: 1, Assoc: "up"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := (&RulesFile{Operator: tt.ops}).Operators()
			assert.Error(t, err)
		})
	}
}

func TestApplyRulesToDefaults(t *testing.T) {
	merged := ApplyRulesToDefaults(&RulesFile{Reserved: []string{"end"}})
	assert.Equal(t, []string{"end"}, merged.Reserved)
	assert.Equal(t, DefaultRules().Operator, merged.Operator)

	merged = ApplyRulesToDefaults(nil)
	assert.Equal(t, DefaultRules(), merged)
}

func TestDefaultRules(t *testing.T) {
	rules := DefaultRules()
	assert.Contains(t, rules.Reserved, lexer.EOL)

	ops, err := rules.Operators()
	require.NoError(t, err)
	assert.Equal(t, Precedence{Value: 1, LeftAssoc: false}, ops["="])
	assert.Equal(t, Precedence{Value: 4, LeftAssoc: true}, ops["%"])
}

func TestEncodeRules(t *testing.T) {
	for _, format := range []string{"yaml", "toml"} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, DefaultRules().Encode(&buf, format))

			path := writeFile(t, "rules."+format, buf.String())
			loaded, err := LoadRulesFile(path)
			require.NoError(t, err)
			assert.Equal(t, DefaultRules(), loaded)
		})
	}

	assert.Error(t, DefaultRules().Encode(&bytes.Buffer{}, "xml"))
}

func TestEncodeRulesYAMLQuotesReserved(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, DefaultRules().Encode(&buf, "yaml"))
	assert.Contains(t, buf.String(), `- "\n"`)

	loaded, err := LoadRulesFile(writeFile(t, "rules.yaml", buf.String()))
	require.NoError(t, err)
	assert.Contains(t, loaded.Reserved, lexer.EOL)

	g, err := NewExprGrammar(loaded)
	require.NoError(t, err)
	trees, err := g.ParseAll(g.Statement, lexer.NewString("1\n\n2 + 3\n"))
	require.NoError(t, err)
	assert.Len(t, trees, 3)
}

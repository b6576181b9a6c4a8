package parser

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spicery/stone-parser/pkg/lexer"
	"gopkg.in/yaml.v3"
)

// RulesFile represents the structure of an operator rules file. Files ending
// in .toml are read as TOML, anything else as YAML.
type RulesFile struct {
	Operator []OperatorRule `yaml:"operator" toml:"operator"`
	Reserved []string       `yaml:"reserved" toml:"reserved"`
}

// OperatorRule represents a binary operator rule
type OperatorRule struct {
	Text       string `yaml:"text" toml:"text"`
	Precedence int    `yaml:"precedence" toml:"precedence"`
	Assoc      string `yaml:"assoc,omitempty" toml:"assoc,omitempty"` // "left" (default) or "right"
}

// DefaultRules returns the operator table and reserved words of the classic
// expression grammar.
func DefaultRules() *RulesFile {
	return &RulesFile{
		Operator: []OperatorRule{
			{Text: "=", Precedence: 1, Assoc: "right"},
			{Text: "==", Precedence: 2, Assoc: "left"},
			{Text: ">", Precedence: 2, Assoc: "left"},
			{Text: "<", Precedence: 2, Assoc: "left"},
			{Text: "+", Precedence: 3, Assoc: "left"},
			{Text: "-", Precedence: 3, Assoc: "left"},
			{Text: "*", Precedence: 4, Assoc: "left"},
			{Text: "/", Precedence: 4, Assoc: "left"},
			{Text: "%", Precedence: 4, Assoc: "left"},
		},
		Reserved: []string{";", "}", ")", lexer.EOL},
	}
}

// LoadRulesFile loads and parses a YAML or TOML rules file
func LoadRulesFile(filename string) (*RulesFile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file '%s': %w", filename, err)
	}

	var rules RulesFile
	if strings.EqualFold(filepath.Ext(filename), ".toml") {
		if _, err := toml.Decode(string(data), &rules); err != nil {
			return nil, fmt.Errorf("failed to parse TOML in rules file '%s': %w", filename, err)
		}
		return &rules, nil
	}
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("failed to parse YAML in rules file '%s': %w", filename, err)
	}
	return &rules, nil
}

// ApplyRulesToDefaults overlays the sections present in rules onto the
// defaults. A non-empty section replaces the default section entirely.
func ApplyRulesToDefaults(rules *RulesFile) *RulesFile {
	merged := DefaultRules()
	if rules == nil {
		return merged
	}
	if len(rules.Operator) > 0 {
		merged.Operator = rules.Operator
	}
	if len(rules.Reserved) > 0 {
		merged.Reserved = rules.Reserved
	}
	return merged
}

// Operators builds the operator table. Returns an error if an operator is
// defined twice or has an unknown associativity.
func (rules *RulesFile) Operators() (Operators, error) {
	ops := NewOperators()
	for _, rule := range rules.Operator {
		if rule.Text == "" {
			return nil, fmt.Errorf("operator with empty text")
		}
		if _, exists := ops[rule.Text]; exists {
			return nil, fmt.Errorf("operator '%s' is defined more than once", rule.Text)
		}
		var left bool
		switch strings.ToLower(rule.Assoc) {
		case "", "left":
			left = LeftAssoc
		case "right":
			left = RightAssoc
		default:
			return nil, fmt.Errorf("operator '%s' has unknown associativity '%s'", rule.Text, rule.Assoc)
		}
		ops.Add(rule.Text, rule.Precedence, left)
	}
	return ops, nil
}

// Encode writes the rules in the given format, "yaml" or "toml".
func (rules *RulesFile) Encode(w io.Writer, format string) error {
	switch strings.ToLower(format) {
	case "toml":
		if err := toml.NewEncoder(w).Encode(rules); err != nil {
			return fmt.Errorf("failed to marshal rules to TOML: %w", err)
		}
		return nil
	case "yaml", "yml", "":
		node, err := rules.yamlNode()
		if err != nil {
			return fmt.Errorf("failed to marshal rules to YAML: %w", err)
		}
		data, err := yaml.Marshal(node)
		if err != nil {
			return fmt.Errorf("failed to marshal rules to YAML: %w", err)
		}
		_, err = w.Write(data)
		return err
	}
	return fmt.Errorf("unknown rules format '%s'", format)
}

// yamlNode encodes the rules with every reserved word double-quoted, so that
// words such as lexer.EOL survive a round trip.
func (rules *RulesFile) yamlNode() (*yaml.Node, error) {
	var node yaml.Node
	if err := node.Encode(rules); err != nil {
		return nil, err
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value != "reserved" {
			continue
		}
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, word := range rules.Reserved {
			seq.Content = append(seq.Content, &yaml.Node{
				Kind:  yaml.ScalarNode,
				Tag:   "!!str",
				Value: word,
				Style: yaml.DoubleQuotedStyle,
			})
		}
		node.Content[i+1] = seq
	}
	return &node, nil
}

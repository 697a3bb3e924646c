// Package rewrite turns the body of a MySQL CREATE TABLE statement into a
// body Databend accepts.
//
// The body is the text between the `CREATE TABLE ... (` header line and the
// closing `)` line. Rules run in a fixed order; later rules expect the noise
// removed by earlier ones to be gone already.
package rewrite

import (
	"regexp"
	"slices"
)

// Rule is one step of the rewrite pipeline.
type Rule struct {
	Name  string
	Apply func(body []byte) []byte
}

// Engine applies an ordered list of rules to table bodies. An Engine is
// immutable once built and safe to share between parsers.
type Engine struct {
	rules []Rule
}

// NewEngine returns an engine running rules in the given order.
func NewEngine(rules ...Rule) *Engine {
	return &Engine{rules: slices.Clone(rules)}
}

var defaultEngine = NewEngine(DefaultRules()...)

// Default returns the engine used for MySQL to Databend conversion.
func Default() *Engine {
	return defaultEngine
}

// Rewrite runs every rule over a copy of body and returns the result, which
// always ends with the closing `);` and a newline when the default rules are
// used.
func (e *Engine) Rewrite(body []byte) []byte {
	out := append([]byte(nil), body...)
	for _, rule := range e.rules {
		out = rule.Apply(out)
	}
	return out
}

// RuleNames lists the rules in application order.
func (e *Engine) RuleNames() []string {
	names := make([]string, len(e.rules))
	for i, rule := range e.rules {
		names[i] = rule.Name
	}
	return names
}

// replaceAll substitutes capture group `group` of every match of re with
// repl. Matches are all located first and edits are applied from the end of
// buf backwards so the offsets of the remaining matches stay valid.
func replaceAll(buf []byte, re *regexp.Regexp, group int, repl []byte) []byte {
	matches := re.FindAllSubmatchIndex(buf, -1)
	for i := len(matches) - 1; i >= 0; i-- {
		start, end := matches[i][2*group], matches[i][2*group+1]
		if start < 0 {
			continue
		}
		buf = slices.Replace(buf, start, end, repl...)
	}
	return buf
}

// replacer builds a rule replacing every full match of re with repl.
func replacer(name string, re *regexp.Regexp, repl string) Rule {
	return Rule{
		Name: name,
		Apply: func(body []byte) []byte {
			return replaceAll(body, re, 0, []byte(repl))
		},
	}
}

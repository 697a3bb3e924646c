// Package parser classifies the lines of a mysqldump file and accumulates
// multi-line CREATE TABLE statements, handing their bodies to the rewrite
// engine once they are closed.
package parser

import (
	"github.com/Scoopit/mysql2databend/internal/rewrite"
)

// Parser is a single-pass state machine fed one dump line at a time. It is
// not safe for concurrent use.
type Parser struct {
	engine  *rewrite.Engine
	current Statement
	header  []byte
	buf     []byte
}

// New returns a parser using the default rewrite engine.
func New() *Parser {
	return NewWithEngine(rewrite.Default())
}

// NewWithEngine returns a parser rewriting CREATE TABLE bodies with engine.
func NewWithEngine(engine *rewrite.Engine) *Parser {
	return &Parser{
		engine:  engine,
		current: Statement{Kind: KindOther},
		buf:     make([]byte, 0, 8192),
	}
}

// Parse consumes one line, terminator included.
//
// While a CREATE TABLE is open, lines are appended to its body until a line
// starting with ')' closes it; the body is then rewritten and the statement
// becomes emittable as content. Otherwise the line is classified and replaces
// the current statement.
func (p *Parser) Parse(line []byte) (StateChange, error) {
	if p.current.Kind == KindCreateTableOpen {
		if len(line) > 0 && line[0] == ')' {
			body := p.engine.Rewrite(p.buf)
			p.buf = append(p.buf[:0], p.header...)
			p.buf = append(p.buf, body...)
			p.current.Kind = KindCreateTableClosed
			return StateChange{}, nil
		}
		p.buf = append(p.buf, line...)
		return StateChange{}, nil
	}

	p.buf = p.buf[:0]
	p.header = p.header[:0]

	stmt, err := Classify(line)
	p.current = stmt
	if err != nil {
		return StateChange{}, err
	}

	switch stmt.Kind {
	case KindCreateDatabase:
		p.buf = append(p.buf, line...)
		return StateChange{Kind: ChangeDatabase, Name: stmt.Name}, nil
	case KindUseDatabase:
		p.buf = append(p.buf, line...)
		return StateChange{Kind: ChangeUse, Name: stmt.Name}, nil
	case KindInsertInto:
		p.buf = append(p.buf, line...)
	case KindCreateTableOpen:
		p.header = append(p.header, line...)
		if line[len(line)-1] != '\n' {
			p.header = append(p.header, '\n')
		}
		return StateChange{Kind: ChangeTable, Name: stmt.Name}, nil
	}
	return StateChange{}, nil
}

// Current returns the statement selected by the last call to Parse.
func (p *Parser) Current() Statement {
	return p.current
}

// Pending reports whether a CREATE TABLE is still waiting for its closing
// line.
func (p *Parser) Pending() bool {
	return p.current.Kind == KindCreateTableOpen
}

// EmitContext returns the raw CREATE DATABASE or USE line when that is the
// current statement, nil otherwise. The slice is only valid until the next
// call to Parse.
func (p *Parser) EmitContext() []byte {
	switch p.current.Kind {
	case KindCreateDatabase, KindUseDatabase:
		return p.buf
	}
	return nil
}

// EmitContent returns the raw INSERT INTO line or the rewritten CREATE TABLE
// statement when one is current, nil otherwise. The slice is only valid until
// the next call to Parse.
func (p *Parser) EmitContent() []byte {
	switch p.current.Kind {
	case KindInsertInto, KindCreateTableClosed:
		return p.buf
	}
	return nil
}

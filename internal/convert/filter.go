package convert

import (
	"slices"

	"github.com/Scoopit/mysql2databend/internal/parser"
)

// FilterContext remembers the database and table the dump is currently
// describing and decides whether their statements are forwarded.
//
// An empty allow-list accepts everything. Statements seen before any
// database or table is known are accepted too.
type FilterContext struct {
	databases []string
	tables    []string

	currentDatabase string
	currentTable    string
}

// NewFilterContext returns a filter accepting the given databases and tables.
func NewFilterContext(databases, tables []string) *FilterContext {
	return &FilterContext{
		databases: slices.Clone(databases),
		tables:    slices.Clone(tables),
	}
}

// Observe updates the context from a parser state change. Switching database
// forgets the current table.
func (f *FilterContext) Observe(change parser.StateChange) {
	switch change.Kind {
	case parser.ChangeDatabase, parser.ChangeUse:
		f.currentDatabase = change.Name
		f.currentTable = ""
	case parser.ChangeTable:
		f.currentTable = change.Name
	}
}

// CurrentDatabase returns the last database named by CREATE DATABASE or USE.
func (f *FilterContext) CurrentDatabase() string {
	return f.currentDatabase
}

// CurrentTable returns the last table named by CREATE TABLE.
func (f *FilterContext) CurrentTable() string {
	return f.currentTable
}

// DatabaseAllowed reports whether statements of the current database pass.
func (f *FilterContext) DatabaseAllowed() bool {
	return allowed(f.databases, f.currentDatabase)
}

// TableAllowed reports whether content of the current table passes. The
// database filter is checked as well.
func (f *FilterContext) TableAllowed() bool {
	return f.DatabaseAllowed() && allowed(f.tables, f.currentTable)
}

func allowed(list []string, name string) bool {
	if len(list) == 0 || name == "" {
		return true
	}
	return slices.Contains(list, name)
}

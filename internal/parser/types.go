package parser

import (
	"errors"
	"fmt"
)

// Kind identifies the statement the parser is currently holding.
type Kind int

const (
	// KindOther is anything the converter does not forward.
	KindOther Kind = iota
	KindCreateDatabase
	KindUseDatabase
	KindInsertInto
	// KindCreateTableOpen means a CREATE TABLE header was seen and its body
	// is being accumulated.
	KindCreateTableOpen
	// KindCreateTableClosed means the body was closed and rewritten.
	KindCreateTableClosed
)

func (k Kind) String() string {
	switch k {
	case KindOther:
		return "OTHER"
	case KindCreateDatabase:
		return "CREATE DATABASE"
	case KindUseDatabase:
		return "USE"
	case KindInsertInto:
		return "INSERT INTO"
	case KindCreateTableOpen:
		return "CREATE TABLE (open)"
	case KindCreateTableClosed:
		return "CREATE TABLE"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Statement is the current unit of work. Name is the database or table the
// statement names; it is empty for INSERT INTO and OTHER.
type Statement struct {
	Kind Kind
	Name string
}

// ChangeKind tells the caller which naming context a line switched.
type ChangeKind int

const (
	ChangeNone ChangeKind = iota
	// ChangeDatabase is reported for CREATE DATABASE.
	ChangeDatabase
	// ChangeUse is reported for USE.
	ChangeUse
	// ChangeTable is reported for a CREATE TABLE header.
	ChangeTable
)

// StateChange is what Parse reports for one line.
type StateChange struct {
	Kind ChangeKind
	Name string
}

// ErrMalformedStatement is matched by errors for lines that start with a
// recognized keyword but carry no well-formed `identifier`.
var ErrMalformedStatement = errors.New("malformed statement")

// MalformedStatementError describes a recognized keyword without a usable
// backtick-quoted identifier.
type MalformedStatementError struct {
	Keyword string
}

func (e *MalformedStatementError) Error() string {
	return fmt.Sprintf("malformed %s statement: missing or unterminated `identifier`", e.Keyword)
}

func (e *MalformedStatementError) Unwrap() error {
	return ErrMalformedStatement
}

package parser

import (
	"bytes"
	"regexp"
)

var (
	createDatabasePattern = regexp.MustCompile("^CREATE DATABASE .*`([^`]+)`")
	createTablePattern    = regexp.MustCompile("^CREATE TABLE (?:IF NOT EXISTS )?`([^`]+)`")
	usePattern            = regexp.MustCompile("^USE `([^`]+)`")
	insertPattern         = regexp.MustCompile("^INSERT INTO `([^`]+)`")
)

type classifier struct {
	keyword string
	prefix  []byte
	pattern *regexp.Regexp
	kind    Kind
}

var classifiers = []classifier{
	{"CREATE DATABASE", []byte("CREATE DATABASE "), createDatabasePattern, KindCreateDatabase},
	{"CREATE TABLE", []byte("CREATE TABLE "), createTablePattern, KindCreateTableOpen},
	{"USE", []byte("USE "), usePattern, KindUseDatabase},
	{"INSERT INTO", []byte("INSERT INTO "), insertPattern, KindInsertInto},
}

// Classify reports which statement a top-level dump line starts and the
// identifier it names. Keywords are matched case-sensitively at the very
// start of the line. A line starting with a known keyword but lacking a
// well-formed `identifier` yields a *MalformedStatementError.
func Classify(line []byte) (Statement, error) {
	for _, c := range classifiers {
		if !bytes.HasPrefix(line, c.prefix) {
			continue
		}
		m := c.pattern.FindSubmatch(line)
		if m == nil {
			return Statement{Kind: KindOther}, &MalformedStatementError{Keyword: c.keyword}
		}
		stmt := Statement{Kind: c.kind}
		if c.kind != KindInsertInto {
			stmt.Name = string(m[1])
		}
		return stmt, nil
	}
	return Statement{Kind: KindOther}, nil
}

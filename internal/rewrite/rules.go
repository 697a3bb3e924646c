package rewrite

import (
	"bytes"
	"regexp"
	"slices"
)

var (
	// Lines starting with an upper-case keyword: PRIMARY KEY, KEY, UNIQUE KEY,
	// CONSTRAINT, FULLTEXT KEY...
	keyLinePattern = regexp.MustCompile(`(?m)^[ \t]+[A-Z]+.*$`)

	collatePattern          = regexp.MustCompile(` *COLLATE +[a-z0-9_]+`)
	charsetPattern          = regexp.MustCompile(` *CHARACTER SET +[a-z0-9_]+`)
	defaultNullPattern      = regexp.MustCompile(`(NULL )?DEFAULT NULL`)
	currentTimestampPattern = regexp.MustCompile(` *DEFAULT CURRENT_TIMESTAMP(\(\d*\))?`)
	onUpdatePattern         = regexp.MustCompile(` *ON UPDATE [^,\s]+`)

	// `column` followed by a space and anything but an opening parenthesis
	columnPattern = regexp.MustCompile("`([^`]+)` [^(]")
)

// DefaultRules returns the MySQL to Databend pipeline in application order.
func DefaultRules() []Rule {
	return []Rule{
		replacer("strip-keys", keyLinePattern, ""),
		replacer("strip-collate", collatePattern, ""),
		replacer("strip-charset", charsetPattern, ""),
		replacer("default-null", defaultNullPattern, "NULL"),
		replacer("strip-current-timestamp", currentTimestampPattern, ""),
		replacer("strip-on-update", onUpdatePattern, ""),
		{Name: "qualify-nullable", Apply: qualifyNullable},
		{Name: "lower-columns", Apply: lowerColumns},
		{Name: "drop-blank-lines", Apply: dropBlankLines},
		{Name: "trim-separator", Apply: trimSeparator},
		{Name: "close-statement", Apply: closeStatement},
	}
}

// MySQL columns are nullable unless stated otherwise, Databend columns are
// not. Columns without NULL or NOT NULL get an explicit NULL after their type.
func qualifyNullable(body []byte) []byte {
	lines := bytes.Split(body, []byte{'\n'})
	for i, line := range lines {
		typeEnd, qualified, ok := inspectColumn(line)
		if !ok || qualified {
			continue
		}
		rest := bytes.TrimLeft(line[typeEnd:], " \t")
		out := make([]byte, 0, len(line)+6)
		out = append(out, line[:typeEnd]...)
		out = append(out, " NULL"...)
		if len(rest) > 0 && rest[0] != ',' && rest[0] != '\r' {
			out = append(out, ' ')
		}
		lines[i] = append(out, rest...)
	}
	return bytes.Join(lines, []byte{'\n'})
}

func lowerColumns(body []byte) []byte {
	matches := columnPattern.FindAllSubmatchIndex(body, -1)
	for i := len(matches) - 1; i >= 0; i-- {
		start, end := matches[i][2], matches[i][3]
		body = slices.Replace(body, start, end, bytes.ToLower(body[start:end])...)
	}
	return body
}

func dropBlankLines(body []byte) []byte {
	lines := bytes.Split(body, []byte{'\n'})
	kept := lines[:0]
	for _, line := range lines {
		if len(bytes.TrimSpace(line)) > 0 {
			kept = append(kept, line)
		}
	}
	return bytes.Join(kept, []byte{'\n'})
}

func trimSeparator(body []byte) []byte {
	body = bytes.TrimRight(body, " \t\r\n")
	return bytes.TrimSuffix(body, []byte{','})
}

func closeStatement(body []byte) []byte {
	if len(body) == 0 {
		return []byte(");\n")
	}
	return append(body, "\n);\n"...)
}

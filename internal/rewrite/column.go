package rewrite

import "bytes"

// Lower-case words mysqldump prints after a numeric type.
var typeModifiers = map[string]bool{
	"signed":   true,
	"unsigned": true,
	"zerofill": true,
}

type span struct {
	start, end int
}

// inspectColumn looks at one line of a table body. For a column definition
// (a backticked name followed by a type) it returns the offset right after
// the type and whether the definition already says NULL or NOT NULL.
func inspectColumn(line []byte) (typeEnd int, qualified bool, ok bool) {
	i := 0
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	if i == len(line) || line[i] != '`' {
		return 0, false, false
	}
	closing := bytes.IndexByte(line[i+1:], '`')
	if closing < 0 {
		return 0, false, false
	}
	i += closing + 2

	words := definitionWords(line[i:])
	if len(words) == 0 {
		return 0, false, false
	}

	typeEnd = i + words[0].end
	k := 1
	for ; k < len(words); k++ {
		if !typeModifiers[string(line[i+words[k].start:i+words[k].end])] {
			break
		}
		typeEnd = i + words[k].end
	}
	for _, w := range words[k:] {
		if bytes.EqualFold(line[i+w.start:i+w.end], []byte("NULL")) {
			return typeEnd, true, true
		}
	}
	return typeEnd, false, true
}

// definitionWords splits a column definition into top-level words. Quoted
// strings and parenthesized groups stay inside the word they belong to, and
// a top-level comma ends the definition.
func definitionWords(def []byte) []span {
	var (
		words []span
		start = -1
		depth int
		quote byte
	)
	for i := 0; i < len(def); i++ {
		c := def[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				if i+1 < len(def) && def[i+1] == quote {
					i++
				} else {
					quote = 0
				}
			}
			continue
		case c == '\'' || c == '"':
			quote = c
		case c == '(':
			depth++
		case c == ')':
			if depth > 0 {
				depth--
			}
		case depth == 0 && (c == ' ' || c == '\t' || c == '\r' || c == ','):
			if start >= 0 {
				words = append(words, span{start, i})
				start = -1
			}
			if c == ',' {
				return words
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		words = append(words, span{start, len(def)})
	}
	return words
}

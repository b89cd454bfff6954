// Package lexer implements S840D tokenization: the block pre-pass that
// strips comments and extracts skip level / block number / label (spec.md
// §4.3), and the case-insensitive tokenizer that turns the remaining
// block content into a Token stream. Grounded on the teacher's byte-
// scanner idiom (leftmike-gcode's Parser.readByte/skipWhitespace/
// parseNumber in parser.go), extended from a single Number/Code token
// pair into the full token-kind set spec.md §4.3 requires.
package lexer

import (
	"strings"

	"github.com/leftmike/s840d/internal/alarm"
)

// PrePass is the result of stripping a block's comment and extracting its
// lexical prefix (spec.md §6's block lexical grammar).
type PrePass struct {
	SkipLevel  int // -1 if absent, 0-9 otherwise
	HasNumber  bool
	NumberKind byte // ':' or 'N'
	Number     string
	Label      string
	Content    string // remaining block content, comment stripped
}

// StripComment returns line with any semicolon-introduced inline comment
// removed, tracking string-literal spans (quoted with `"`, with `""`
// as the escaped-quote form inside a literal) so a `;` inside a string
// is not mistaken for a comment start.
func StripComment(line string) string {
	inString := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"':
			if inString && i+1 < len(line) && line[i+1] == '"' {
				i++ // escaped quote, stays inside the literal
				continue
			}
			inString = !inString
		case c == ';' && !inString:
			return line[:i]
		}
	}
	return line
}

// Run performs the full block pre-pass on one raw source line.
func Run(line string) (*PrePass, error) {
	content := StripComment(line)
	pp := &PrePass{SkipLevel: -1}

	i := 0
	n := len(content)

	skipSpaces := func() {
		for i < n && (content[i] == ' ' || content[i] == '\t') {
			i++
		}
	}
	skipSpaces()

	// Optional skip level: '/' digit
	if i < n && content[i] == '/' {
		if i+1 >= n || content[i+1] < '0' || content[i+1] > '9' {
			return nil, alarm.New(alarm.SkipLevel, "expected a digit after '/'")
		}
		level := int(content[i+1] - '0')
		if level > 9 {
			return nil, alarm.New(alarm.SkipLevel, "skip level %d out of range", level)
		}
		pp.SkipLevel = level
		i += 2
		skipSpaces()
	}

	// Optional block number: ':' digits  or  'N' digits
	if i < n && (content[i] == ':' || content[i] == 'N' || content[i] == 'n') {
		kind := content[i]
		if kind == 'n' {
			kind = 'N'
		}
		j := i + 1
		start := j
		for j < n && content[j] >= '0' && content[j] <= '9' {
			j++
		}
		if j > start {
			pp.HasNumber = true
			pp.NumberKind = kind
			pp.Number = content[start:j]
			i = j
			skipSpaces()
		}
	}

	// Optional label: ident ':' where ident has >=2 leading letters/underscores.
	if lbl, end, ok := tryLabel(content, i); ok {
		pp.Label = lbl
		i = end
		skipSpaces()
	}

	pp.Content = strings.TrimRight(content[i:], " \t\r")
	return pp, nil
}

// tryLabel attempts to parse "<ident>:" starting at i. ident must begin
// with at least two letters or underscores and continue with
// alphanumerics/underscores (spec.md §4.3).
func tryLabel(content string, i int) (string, int, bool) {
	n := len(content)
	j := i
	leading := 0
	for j < n && (isLetter(content[j]) || content[j] == '_') {
		j++
		leading++
	}
	if leading < 2 {
		return "", i, false
	}
	for j < n && (isAlnum(content[j]) || content[j] == '_') {
		j++
	}
	if j >= n || content[j] != ':' {
		return "", i, false
	}
	return content[i:j], j + 1, true
}

func isLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlnum(c byte) bool {
	return isLetter(c) || isDigit(c)
}

package loader

import (
	"fmt"
	"strconv"
	"strings"
)

// destination groups whose content is markup metadata, not article text
var rtfSkipGroups = map[string]bool{
	"fonttbl":    true,
	"colortbl":   true,
	"stylesheet": true,
	"info":       true,
	"pict":       true,
	"header":     true,
	"footer":     true,
}

// parseRTF extracts paragraph text from a rich-text article export.
// It handles the subset emitted by press-archive exports: nested
// groups, \par paragraph breaks, hex and \u unicode escapes, and
// destination groups that carry no visible text.
func parseRTF(data []byte) ([]string, error) {
	if !strings.HasPrefix(string(data), `{\rtf`) {
		return nil, fmt.Errorf("missing RTF header")
	}

	var paragraphs []string
	var current strings.Builder
	flush := func() {
		if p := strings.Join(strings.Fields(current.String()), " "); p != "" {
			paragraphs = append(paragraphs, p)
		}
		current.Reset()
	}

	depth := 0
	skipUntil := -1 // group depth at which a skipped destination ends

	for i := 0; i < len(data); i++ {
		c := data[i]
		switch c {
		case '{':
			depth++
			if skipUntil < 0 && isSkipGroup(data[i+1:]) {
				skipUntil = depth
			}
		case '}':
			if skipUntil == depth {
				skipUntil = -1
			}
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("unbalanced group at byte %d", i)
			}
		case '\\':
			word, param, consumed := rtfControl(data[i+1:])
			i += consumed
			if skipUntil >= 0 {
				continue
			}
			switch word {
			case "par", "sect", "page":
				flush()
			case "line", "tab", "cell":
				current.WriteByte(' ')
			case "'":
				// hex escape, treated as latin-1
				if param > 0 {
					current.WriteRune(rune(param))
				}
			case "u":
				if param < 0 {
					param += 65536
				}
				current.WriteRune(rune(param))
				// skip the fallback character following \uN
				if i+1 < len(data) && data[i+1] != '\\' && data[i+1] != '{' && data[i+1] != '}' {
					i++
				}
			case `\`, "{", "}":
				current.WriteString(word)
			case "~":
				current.WriteByte(' ')
			}
		case '\r', '\n':
			// raw newlines are markup formatting, not text
		default:
			if skipUntil < 0 {
				current.WriteByte(c)
			}
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("unterminated group")
	}
	flush()
	return paragraphs, nil
}

// rtfControl parses the control word or symbol after a backslash and
// returns its name, numeric parameter and the number of bytes consumed
// beyond the backslash.
func rtfControl(rest []byte) (word string, param int, consumed int) {
	if len(rest) == 0 {
		return "", 0, 0
	}

	// control symbol: single non-alphabetic character
	if !isAlpha(rest[0]) {
		if rest[0] == '\'' && len(rest) >= 3 {
			if v, err := strconv.ParseInt(string(rest[1:3]), 16, 32); err == nil {
				return "'", int(v), 3
			}
		}
		return string(rest[0]), 0, 1
	}

	i := 0
	for i < len(rest) && isAlpha(rest[i]) {
		i++
	}
	word = string(rest[:i])

	// optional signed numeric parameter
	j := i
	if j < len(rest) && (rest[j] == '-' || isDigit(rest[j])) {
		k := j
		if rest[k] == '-' {
			k++
		}
		for k < len(rest) && isDigit(rest[k]) {
			k++
		}
		if v, err := strconv.Atoi(string(rest[j:k])); err == nil {
			param = v
			j = k
		}
	}

	// a single space after a control word is part of the markup
	if j < len(rest) && rest[j] == ' ' {
		j++
	}
	return word, param, j
}

// isSkipGroup checks if a group opening starts a skipped destination,
// either "\*\dest" or one of the known metadata destinations
func isSkipGroup(rest []byte) bool {
	if len(rest) < 2 || rest[0] != '\\' {
		return false
	}
	if rest[1] == '*' {
		return true
	}
	i := 1
	for i < len(rest) && isAlpha(rest[i]) {
		i++
	}
	return rtfSkipGroups[string(rest[1:i])]
}

func isAlpha(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

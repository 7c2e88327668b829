package dsl

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/substationc/internal/command"
	"github.com/vk/substationc/internal/diag"
	"github.com/zclconf/go-cty/cty"
)

// Parse reads a whole document. Lines are separated by "\n"; a trailing
// "\r" on a line is ignored.
func Parse(filename string, src []byte) ([]command.Command, error) {
	return ParseLines(filename, strings.Split(string(src), "\n"))
}

// ParseLines reads a document given as lines, in order. The first element is
// line 1. Blank lines and comments produce no command.
func ParseLines(filename string, lines []string) ([]command.Command, error) {
	var cmds []command.Command
	offset := 0
	for i, raw := range lines {
		s := &scanner{
			filename: filename,
			line:     i + 1,
			base:     offset,
			raw:      strings.TrimRight(raw, "\r"),
		}
		offset += len(raw) + 1

		cmd, ok, err := s.statement()
		if err != nil {
			return nil, err
		}
		if ok {
			cmds = append(cmds, cmd)
		}
	}
	return cmds, nil
}

// scanner reads one source line.
type scanner struct {
	filename string
	line     int
	// base is the byte offset of the line within the file.
	base int
	raw  string
	// src is raw with any trailing comment and whitespace removed.
	src string
	pos int
}

func (s *scanner) statement() (command.Command, bool, error) {
	s.src = strings.TrimRight(stripComment(s.raw), " \t")
	s.skipSpace()
	if s.eof() {
		return command.Command{}, false, nil
	}

	start := s.pos
	for !s.eof() && !isSpace(s.peek()) {
		s.pos++
	}
	name := s.src[start:s.pos]
	kind, ok := command.Lookup(name)
	if !ok {
		return command.Command{}, false, s.errorf(start, "unknown command %q", name)
	}

	raws, err := s.attributes()
	if err != nil {
		return command.Command{}, false, err
	}

	rng := s.rangeOf(start, len(s.src))
	cmd, err := command.Bind(kind, raws, rng, s.text())
	if err != nil {
		return command.Command{}, false, err
	}
	return cmd, true, nil
}

func (s *scanner) attributes() ([]command.RawAttr, error) {
	s.skipSpace()
	if s.eof() {
		return nil, nil
	}

	var raws []command.RawAttr
	for {
		start := s.pos
		key := s.ident()
		if key == "" {
			return nil, s.errorf(s.pos, "expected attribute name, found %q", s.rest())
		}
		s.skipSpace()
		if !s.consume('=') {
			return nil, s.errorf(s.pos, "expected '=' after attribute %q", key)
		}
		s.skipSpace()
		val, err := s.value()
		if err != nil {
			return nil, err
		}
		raws = append(raws, command.RawAttr{
			Name:  key,
			Value: val,
			Text:  s.src[start:s.pos],
			Range: s.rangeOf(start, s.pos),
		})

		s.skipSpace()
		if s.eof() {
			return raws, nil
		}
		if !s.consume(',') {
			return nil, s.errorf(s.pos, "expected ',' between attributes, found %q", s.rest())
		}
		s.skipSpace()
		if s.eof() {
			return nil, s.errorf(s.pos, "expected attribute after ','")
		}
	}
}

func (s *scanner) value() (cty.Value, error) {
	if s.eof() {
		return cty.NilVal, s.errorf(s.pos, "expected a value after '='")
	}
	switch s.peek() {
	case '"':
		str, err := s.quoted()
		if err != nil {
			return cty.NilVal, err
		}
		return cty.StringVal(str), nil
	case '[':
		return s.list()
	}
	tok := s.bare()
	if tok == "" {
		return cty.NilVal, s.errorf(s.pos, "expected a value, found %q", s.rest())
	}
	return cty.StringVal(tok), nil
}

func (s *scanner) list() (cty.Value, error) {
	open := s.pos
	s.pos++ // [
	var items []cty.Value
	s.skipSpace()
	if s.consume(']') {
		return cty.EmptyTupleVal, nil
	}
	for {
		if s.eof() {
			return cty.NilVal, s.errorf(open, "unterminated list")
		}
		var item string
		if s.peek() == '"' {
			str, err := s.quoted()
			if err != nil {
				return cty.NilVal, err
			}
			item = str
		} else {
			item = s.bare()
			if item == "" {
				return cty.NilVal, s.errorf(s.pos, "expected identifier in list, found %q", s.rest())
			}
		}
		items = append(items, cty.StringVal(item))

		s.skipSpace()
		switch {
		case s.consume(']'):
			return cty.TupleVal(items), nil
		case s.consume(','):
			s.skipSpace()
		case s.eof():
			return cty.NilVal, s.errorf(open, "unterminated list")
		default:
			return cty.NilVal, s.errorf(s.pos, "expected ',' or ']' in list, found %q", s.rest())
		}
	}
}

func (s *scanner) quoted() (string, error) {
	open := s.pos
	s.pos++ // "
	var b strings.Builder
	for !s.eof() {
		c := s.peek()
		s.pos++
		switch c {
		case '"':
			return b.String(), nil
		case '\\':
			if s.eof() {
				return "", s.errorf(open, "unterminated string")
			}
			esc := s.peek()
			s.pos++
			switch esc {
			case '"', '\\':
				b.WriteByte(esc)
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				return "", s.errorf(s.pos-2, "unknown escape sequence \\%c", esc)
			}
		default:
			b.WriteByte(c)
		}
	}
	return "", s.errorf(open, "unterminated string")
}

// ident reads an attribute name.
func (s *scanner) ident() string {
	start := s.pos
	for !s.eof() {
		c := s.peek()
		if c == '_' || isLetter(c) || (s.pos > start && isDigit(c)) {
			s.pos++
			continue
		}
		break
	}
	return s.src[start:s.pos]
}

// bare reads an unquoted value token.
func (s *scanner) bare() string {
	start := s.pos
	for !s.eof() && !strings.ContainsRune(" \t,[]\"=", rune(s.peek())) {
		s.pos++
	}
	return s.src[start:s.pos]
}

func (s *scanner) skipSpace() {
	for !s.eof() && isSpace(s.peek()) {
		s.pos++
	}
}

func (s *scanner) consume(c byte) bool {
	if !s.eof() && s.peek() == c {
		s.pos++
		return true
	}
	return false
}

func (s *scanner) eof() bool    { return s.pos >= len(s.src) }
func (s *scanner) peek() byte   { return s.src[s.pos] }
func (s *scanner) rest() string { return s.src[s.pos:] }
func (s *scanner) text() string { return strings.TrimSpace(s.src) }

func (s *scanner) at(off int) hcl.Pos {
	return hcl.Pos{Line: s.line, Column: off + 1, Byte: s.base + off}
}

func (s *scanner) rangeOf(start, end int) hcl.Range {
	return hcl.Range{Filename: s.filename, Start: s.at(start), End: s.at(end)}
}

func (s *scanner) errorf(off int, format string, args ...any) *diag.ParseError {
	return &diag.ParseError{
		Filename: s.filename,
		Line:     s.line,
		Column:   off + 1,
		Text:     strings.TrimSpace(s.raw),
		Message:  fmt.Sprintf(format, args...),
	}
}

// stripComment removes a '#' comment that is not inside a quoted string.
func stripComment(line string) string {
	inQuote := false
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '\\':
			if inQuote {
				i++
			}
		case '"':
			inQuote = !inQuote
		case '#':
			if !inQuote {
				return line[:i]
			}
		}
	}
	return line
}

func isSpace(c byte) bool  { return c == ' ' || c == '\t' }
func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isLetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }

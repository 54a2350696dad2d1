/*
Copyright SUSE LLC.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package machine

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrSyntax is returned for input that does not follow the text format.
var ErrSyntax = errors.New("syntax error")

// Parse reads one machine per non-blank line of r.
func Parse(r io.Reader) ([]*Machine, error) {
	var machines []*Machine
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	n := 0
	for scanner.Scan() {
		n++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		m, err := ParseLine(line)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", n)
		}
		m.Line = n
		machines = append(machines, m)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading machines")
	}
	return machines, nil
}

// ParseLine parses a single machine:
//
//	"[" ('.' | '#')+ "]" button+ "{" number ("," number)* "}"
//
// where button is "(" number ("," number)* ")". Whitespace between tokens is optional.
func ParseLine(line string) (*Machine, error) {
	l := &lexer{s: line}
	m := &Machine{}

	if err := l.expect('['); err != nil {
		return nil, err
	}
	for !l.done() && l.peek() != ']' {
		switch l.peek() {
		case '.':
			m.Lights = append(m.Lights, 0)
		case '#':
			m.Lights = append(m.Lights, 1)
		default:
			return nil, l.errorf("unexpected %q in lights", l.peek())
		}
		l.pos++
	}
	if len(m.Lights) == 0 {
		return nil, l.errorf("empty lights")
	}
	if err := l.expect(']'); err != nil {
		return nil, err
	}

	for l.skipSpace(); !l.done() && l.peek() == '('; l.skipSpace() {
		l.pos++
		nums, err := l.list(')')
		if err != nil {
			return nil, err
		}
		button := make([]int, len(nums))
		for i, v := range nums {
			button[i] = int(v)
		}
		m.Buttons = append(m.Buttons, button)
	}
	if len(m.Buttons) == 0 {
		return nil, l.errorf("no buttons")
	}

	if err := l.expect('{'); err != nil {
		return nil, err
	}
	var err error
	if m.Joltages, err = l.list('}'); err != nil {
		return nil, err
	}
	if l.skipSpace(); !l.done() {
		return nil, l.errorf("trailing %q", l.s[l.pos:])
	}
	return m, nil
}

type lexer struct {
	s   string
	pos int
}

func (l *lexer) done() bool { return l.pos >= len(l.s) }

func (l *lexer) peek() byte { return l.s[l.pos] }

func (l *lexer) skipSpace() {
	for !l.done() && (l.peek() == ' ' || l.peek() == '\t') {
		l.pos++
	}
}

func (l *lexer) errorf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrSyntax, "col %d: "+format, append([]interface{}{l.pos + 1}, args...)...)
}

func (l *lexer) expect(c byte) error {
	l.skipSpace()
	if l.done() {
		return l.errorf("expected %q, got end of line", c)
	}
	if l.peek() != c {
		return l.errorf("expected %q, got %q", c, l.peek())
	}
	l.pos++
	return nil
}

// list reads comma separated non-negative numbers up to and including the closing byte.
func (l *lexer) list(closing byte) ([]int64, error) {
	var out []int64
	for {
		l.skipSpace()
		start := l.pos
		for !l.done() && l.peek() >= '0' && l.peek() <= '9' {
			l.pos++
		}
		if start == l.pos {
			if l.done() {
				return nil, l.errorf("expected number, got end of line")
			}
			return nil, l.errorf("expected number, got %q", l.peek())
		}
		v, err := strconv.ParseInt(l.s[start:l.pos], 10, 64)
		if err != nil {
			return nil, l.errorf("%s", err.Error())
		}
		out = append(out, v)
		l.skipSpace()
		if l.done() {
			return nil, l.errorf("expected %q, got end of line", closing)
		}
		switch l.peek() {
		case ',':
			l.pos++
		case closing:
			l.pos++
			return out, nil
		default:
			return nil, l.errorf("expected ',' or %q, got %q", closing, l.peek())
		}
	}
}

// This file is part of genesis.
//
// genesis is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// genesis is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with genesis.  If not, see <https://www.gnu.org/licenses/>.

package debugger

import (
	"bufio"
	"io"

	"github.com/pkg/term"
)

// LineReader supplies one command line at a time to the REPL. Two
// implementations are provided: TermLineReader for an interactive TTY
// (raw-mode, backspace-editing, grounded on the teacher's
// debugger/colorterm/easyterm raw-mode wrapper around the same
// github.com/pkg/term dependency) and PlainLineReader for piped input
// or tests (grounded on the teacher's debugger/console.PlainTerminal
// fallback).
type LineReader interface {
	ReadLine(prompt string) (string, error)
	Close() error
}

// PlainLineReader reads newline-terminated commands from any
// io.Reader, echoing nothing itself (the caller's terminal already
// echoes piped/redirected input). cmd/genesis always reads debugger
// commands from stdin through it, TTY or not; tests use it too.
type PlainLineReader struct {
	out io.Writer
	in  *bufio.Scanner
}

// NewPlainLineReader wraps r/w as a LineReader.
func NewPlainLineReader(r io.Reader, w io.Writer) *PlainLineReader {
	return &PlainLineReader{out: w, in: bufio.NewScanner(r)}
}

func (p *PlainLineReader) ReadLine(prompt string) (string, error) {
	if p.out != nil {
		io.WriteString(p.out, prompt)
	}
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return p.in.Text(), nil
}

func (p *PlainLineReader) Close() error { return nil }

// TermLineReader drives github.com/pkg/term in raw mode, doing its own
// minimal line editing (printable characters plus backspace) so the
// REPL's first-letter commands feel immediate the way the teacher's
// own debugger terminal does, without pulling in a full readline
// implementation.
type TermLineReader struct {
	t *term.Term
}

// NewTermLineReader opens the controlling terminal in raw mode.
func NewTermLineReader() (*TermLineReader, error) {
	t, err := term.Open("/dev/tty", term.RawMode)
	if err != nil {
		return nil, err
	}
	return &TermLineReader{t: t}, nil
}

func (r *TermLineReader) ReadLine(prompt string) (string, error) {
	io.WriteString(r.t, prompt)

	var line []byte
	buf := make([]byte, 1)
	for {
		n, err := r.t.Read(buf)
		if err != nil {
			return "", err
		}
		if n == 0 {
			continue
		}
		c := buf[0]
		switch c {
		case '\r', '\n':
			io.WriteString(r.t, "\r\n")
			return string(line), nil
		case 0x7f, 0x08: // backspace/delete
			if len(line) > 0 {
				line = line[:len(line)-1]
				io.WriteString(r.t, "\b \b")
			}
		case 0x03: // Ctrl-C
			return "", io.EOF
		default:
			line = append(line, c)
			r.t.Write(buf)
		}
	}
}

func (r *TermLineReader) Close() error {
	r.t.Restore()
	return r.t.Close()
}

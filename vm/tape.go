// This file is part of intcode - https://github.com/db47h/intcode
//
// Copyright 2016 Denis Bernard <db047h@gmail.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package vm

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/scanner"
	"unicode"

	"github.com/db47h/intcode/internal/iox"
	"github.com/pkg/errors"
)

// Word is the raw type stored in a memory location.
type Word int64

// Reference is a memory address. Valid references are non-negative.
type Reference int64

// Tape is an immutable Intcode program.
type Tape struct {
	words []Word
}

// NewTape returns a Tape holding a copy of words.
func NewTape(words ...Word) Tape {
	return Tape{append([]Word(nil), words...)}
}

// HaltTape is a program made of a single halt instruction.
var HaltTape = NewTape(Word(OpHalt))

// Len returns the number of words in the tape.
func (t Tape) Len() int {
	return len(t.words)
}

// At returns the word at index i.
func (t Tape) At(i int) Word {
	return t.words[i]
}

// Words returns a copy of the tape contents.
func (t Tape) Words() []Word {
	return append([]Word(nil), t.words...)
}

// String returns the tape in its textual form.
func (t Tape) String() string {
	var b bytes.Buffer
	iox.WriteList(&b, t.words, ',')
	return b.String()
}

// SyntaxError reports a malformed tape.
type SyntaxError struct {
	Pos scanner.Position
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// ParseTape parses a comma separated list of decimal integers read from r.
// Whitespace and line breaks around values are ignored.
//
// The name parameter is used only in error messages to name the source of the
// error. If the io.Reader is a file, name should be the file name.
func ParseTape(name string, r io.Reader) (Tape, error) {
	var (
		s     scanner.Scanner
		err   error
		words []Word
	)
	s.Init(r)
	s.Filename = name
	s.Mode = scanner.ScanIdents
	s.IsIdentRune = isIdentRune
	s.Error = func(s *scanner.Scanner, msg string) {
		if err == nil {
			err = syntaxError(s, msg)
		}
	}

	for tok := s.Scan(); err == nil; tok = s.Scan() {
		if tok == scanner.EOF {
			if len(words) == 0 {
				return Tape{}, syntaxError(&s, "empty program")
			}
			return Tape{}, syntaxError(&s, "unexpected end of program after ','")
		}
		sign := ""
		if tok == '-' || tok == '+' {
			sign = s.TokenText()
			tok = s.Scan()
		}
		if tok != scanner.Ident {
			return Tape{}, syntaxError(&s, "expected integer, got "+describe(tok, &s))
		}
		v, e := strconv.ParseInt(sign+s.TokenText(), 10, 64)
		if e != nil {
			return Tape{}, syntaxError(&s, e.(*strconv.NumError).Err.Error()+": "+sign+s.TokenText())
		}
		words = append(words, Word(v))

		switch tok = s.Scan(); tok {
		case scanner.EOF:
			if err != nil {
				return Tape{}, err
			}
			return Tape{words}, nil
		case ',':
		default:
			return Tape{}, syntaxError(&s, "expected ',', got "+describe(tok, &s))
		}
	}
	return Tape{}, err
}

// ParseString parses a tape from its textual form.
func ParseString(s string) (Tape, error) {
	return ParseTape("string", strings.NewReader(s))
}

// MustParse is like ParseString but panics on error. It simplifies
// initialization of tapes in tests and examples.
func MustParse(s string) Tape {
	t, err := ParseString(s)
	if err != nil {
		panic(err)
	}
	return t
}

// LoadTape loads a tape from file fileName.
func LoadTape(fileName string) (Tape, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return Tape{}, errors.Wrap(err, "LoadTape")
	}
	defer f.Close()
	t, err := ParseTape(fileName, f)
	if err != nil {
		return Tape{}, errors.Wrap(err, "LoadTape")
	}
	return t, nil
}

// Values are scanned as identifiers so that malformed numbers such as "12ab"
// or "1e5" are reported as a single token.
func isIdentRune(ch rune, i int) bool {
	return unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '_'
}

func describe(tok rune, s *scanner.Scanner) string {
	if tok == scanner.EOF {
		return "end of program"
	}
	return strconv.Quote(s.TokenText())
}

func syntaxError(s *scanner.Scanner, msg string) error {
	pos := s.Position
	if !pos.IsValid() {
		pos = s.Pos()
	}
	return &SyntaxError{pos, msg}
}

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
	"io"

	"github.com/db47h/intcode/internal/iox"
	"github.com/zyedidia/generic/queue"
)

// IOStream connects a Computer to its environment. Input values are consumed
// in the order they were queued. Output values are appended in production
// order and are never consumed by the machine itself.
type IOStream struct {
	in      *queue.Queue[Word]
	pending int
	out     []Word
}

// NewIOStream returns a new IOStream with empty queues.
func NewIOStream() *IOStream {
	return &IOStream{in: queue.New[Word]()}
}

// Reset empties both queues.
func (s *IOStream) Reset() {
	s.in = queue.New[Word]()
	s.pending = 0
	s.out = s.out[:0]
}

// Enqueue appends values at the tail of the input queue.
func (s *IOStream) Enqueue(v ...Word) {
	for _, w := range v {
		s.in.Enqueue(w)
	}
	s.pending += len(v)
}

// Peek returns the value at the head of the input queue without removing it.
// ok is false if the queue is empty.
func (s *IOStream) Peek() (v Word, ok bool) {
	if s.in.Empty() {
		return 0, false
	}
	return s.in.Peek(), true
}

// Dequeue removes and returns the value at the head of the input queue. ok is
// false if the queue is empty.
func (s *IOStream) Dequeue() (v Word, ok bool) {
	if s.in.Empty() {
		return 0, false
	}
	s.pending--
	return s.in.Dequeue(), true
}

// Pending returns the number of queued input values.
func (s *IOStream) Pending() int {
	return s.pending
}

// Emit appends v to the output queue.
func (s *IOStream) Emit(v Word) {
	s.out = append(s.out, v)
}

// Output returns a copy of the output queue.
func (s *IOStream) Output() []Word {
	return append([]Word(nil), s.out...)
}

// Take returns the contents of the output queue and empties it.
func (s *IOStream) Take() []Word {
	out := s.out
	s.out = nil
	return out
}

// Last returns the most recent output value, or ErrNoOutput if there is none.
func (s *IOStream) Last() (Word, error) {
	if len(s.out) == 0 {
		return 0, ErrNoOutput
	}
	return s.out[len(s.out)-1], nil
}

// EncodeASCII returns the input words for the bytes of str.
func EncodeASCII(str string) []Word {
	w := make([]Word, len(str))
	for i := 0; i < len(str); i++ {
		w[i] = Word(str[i])
	}
	return w
}

// WriteASCII writes output values to w. Values in the ASCII range are written
// as characters, other values are written in decimal on a line of their own.
func WriteASCII(w io.Writer, out []Word) error {
	ew := iox.NewErrWriter(w)
	for _, v := range out {
		if v >= 0 && v < 128 {
			ew.Write([]byte{byte(v)})
			continue
		}
		iox.WriteWord(ew, int64(v))
		ew.Write([]byte{'\n'})
	}
	return ew.Err
}

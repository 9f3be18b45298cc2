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

import "fmt"

// Mode is the addressing mode of an instruction parameter.
type Mode uint8

// Addressing modes.
const (
	Position  Mode = iota // parameter is the address of the operand
	Immediate             // parameter is the operand
	Relative              // parameter is an offset from the relative base
)

var modeNames = [...]string{"position", "immediate", "relative"}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", m)
}

// DefaultMemoryLimit is the default maximum memory size in words.
const DefaultMemoryLimit = 1 << 24

// AddressError is raised when the machine accesses a negative address, or
// writes past the memory limit. Limit is zero for negative addresses.
type AddressError struct {
	Addr  Reference
	Write bool
	Limit Reference
}

func (e *AddressError) Error() string {
	if e.Addr >= 0 {
		return fmt.Sprintf("write to address %d exceeds memory limit of %d words", e.Addr, e.Limit)
	}
	if e.Write {
		return fmt.Sprintf("write to negative address %d", e.Addr)
	}
	return fmt.Sprintf("read from negative address %d", e.Addr)
}

// Memory is the growable, zero-extending memory of a Computer.
//
// Memory methods panic with an *AddressError when given a negative address
// or when a write would grow memory past its limit. A Computer recovers these
// and returns them as errors from Step or Run.
type Memory struct {
	cells []Word
	limit Reference
}

// NewMemory returns a new Memory initialized with the contents of the given
// tape.
func NewMemory(t Tape) *Memory {
	m := &Memory{limit: DefaultMemoryLimit}
	m.Load(t)
	return m
}

// Load replaces the memory contents with a copy of the given tape. The
// backing store is reused when large enough.
func (m *Memory) Load(t Tape) {
	n := len(t.words)
	if cap(m.cells) < n {
		m.cells = make([]Word, n)
	} else {
		m.cells = m.cells[:n]
	}
	copy(m.cells, t.words)
}

// SetLimit sets the size in words past which memory will not grow.
func (m *Memory) SetLimit(n Reference) {
	m.limit = n
}

// Limit returns the memory size limit in words.
func (m *Memory) Limit() Reference {
	return m.limit
}

// Len returns the current memory size in words.
func (m *Memory) Len() int {
	return len(m.cells)
}

// Words returns a copy of the memory contents.
func (m *Memory) Words() []Word {
	return append([]Word(nil), m.cells...)
}

// ReadDirect returns the word at address addr. Reading past the end of memory
// returns 0 and does not grow it.
func (m *Memory) ReadDirect(addr Reference) Word {
	if addr < 0 {
		panic(&AddressError{Addr: addr})
	}
	if addr >= Reference(len(m.cells)) {
		return 0
	}
	return m.cells[addr]
}

// WriteDirect stores v at address addr, growing memory as needed. Cells
// created by growing are zeroed.
func (m *Memory) WriteDirect(addr Reference, v Word) {
	if addr < 0 {
		panic(&AddressError{Addr: addr, Write: true})
	}
	if addr >= Reference(len(m.cells)) {
		if addr >= m.limit {
			panic(&AddressError{Addr: addr, Write: true, Limit: m.limit})
		}
		m.grow(int(addr) + 1)
	}
	m.cells[addr] = v
}

func (m *Memory) grow(n int) {
	l := len(m.cells)
	if n <= cap(m.cells) {
		// stale values from a previous load may linger past len
		m.cells = m.cells[:n]
		clear(m.cells[l:])
		return
	}
	m.cells = append(m.cells, make([]Word, n-l)...)
}

// ReadIndirect treats the word at addr as a pointer and returns the word it
// points to.
func (m *Memory) ReadIndirect(addr Reference) Word {
	return m.ReadDirect(Reference(m.ReadDirect(addr)))
}

// WriteIndirect treats the word at addr as a pointer and stores v where it
// points to.
func (m *Memory) WriteIndirect(addr Reference, v Word) {
	m.WriteDirect(Reference(m.ReadDirect(addr)), v)
}

// Read returns the operand designated by the parameter stored at addr,
// according to mode. The relative base rb is only used in Relative mode.
func (m *Memory) Read(addr Reference, mode Mode, rb Reference) Word {
	switch mode {
	case Immediate:
		return m.ReadDirect(addr)
	case Relative:
		return m.ReadDirect(Reference(m.ReadDirect(addr)) + rb)
	default:
		return m.ReadIndirect(addr)
	}
}

// Write stores v at the location designated by the parameter stored at addr,
// according to mode. Writes in Immediate mode are meaningless and panic with a
// *ModeError.
func (m *Memory) Write(addr Reference, v Word, mode Mode, rb Reference) {
	switch mode {
	case Immediate:
		panic(&ModeError{Addr: addr, Param: -1, Mode: Word(mode)})
	case Relative:
		m.WriteDirect(Reference(m.ReadDirect(addr))+rb, v)
	default:
		m.WriteIndirect(addr, v)
	}
}

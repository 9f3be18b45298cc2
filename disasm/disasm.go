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

// Package disasm provides a disassembler for Intcode programs.
//
// Parameters are rendered according to their addressing mode:
//
//	[12]     position mode: the word at address 12
//	12       immediate mode: the value 12
//	[rb+12]  relative mode: the word at address rb+12
//
// Words that do not decode to a valid instruction are rendered as data with
// the .dat directive.
package disasm

import (
	"fmt"
	"io"

	"github.com/db47h/intcode/internal/iox"
	"github.com/db47h/intcode/vm"
)

func writeParam(w io.Writer, v vm.Word, m vm.Mode) {
	switch m {
	case vm.Immediate:
		iox.WriteWord(w, int64(v))
	case vm.Relative:
		io.WriteString(w, "[rb")
		if v >= 0 {
			w.Write([]byte{'+'})
		}
		iox.WriteWord(w, int64(v))
		w.Write([]byte{']'})
	default:
		w.Write([]byte{'['})
		iox.WriteWord(w, int64(v))
		w.Write([]byte{']'})
	}
}

// Disassemble writes a disassembly of the instruction in the given slice at
// position pc to the specified io.Writer and returns the position of the next
// instruction and any write error.
func Disassemble(words []vm.Word, pc int, w io.Writer) (next int, err error) {
	ew := iox.NewErrWriter(w)

	ins, e := vm.Decode(vm.Reference(pc), words[pc])
	if e != nil {
		io.WriteString(ew, ".dat ")
		iox.WriteWord(ew, int64(words[pc]))
		return pc + 1, ew.Err
	}
	io.WriteString(ew, ins.Op.String())
	pc++
	for p := 0; p < ins.Op.Params(); p++ {
		if p == 0 {
			ew.Write([]byte{' '})
		} else {
			io.WriteString(ew, ", ")
		}
		if pc >= len(words) {
			io.WriteString(ew, "???")
			return pc, ew.Err
		}
		writeParam(ew, words[pc], ins.Modes[p])
		pc++
	}
	return pc, ew.Err
}

// DisassembleAll writes a disassembly of all words in the given slice to
// the specified io.Writer. The base argument specifies the real address of the
// first word (words[0]). It will return any write error.
func DisassembleAll(words []vm.Word, base int, w io.Writer) error {
	ew := iox.NewErrWriter(w)
	for pc := 0; pc < len(words); {
		fmt.Fprintf(ew, "% 10d\t", base+pc)
		pc, _ = Disassemble(words, pc, ew)
		ew.Write([]byte{'\n'})
		if ew.Err != nil {
			return ew.Err
		}
	}
	return nil
}

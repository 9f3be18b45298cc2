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

import "strconv"

// Opcode is the operation selector found in the two lowest decimal digits of
// an instruction word.
type Opcode Word

// Intcode opcodes.
const (
	OpAdd         Opcode = 1
	OpMul         Opcode = 2
	OpInput       Opcode = 3
	OpOutput      Opcode = 4
	OpJumpIfTrue  Opcode = 5
	OpJumpIfFalse Opcode = 6
	OpLessThan    Opcode = 7
	OpEquals      Opcode = 8
	OpAdjustBase  Opcode = 9
	OpHalt        Opcode = 99
)

type opInfo struct {
	name   string
	params int
	dest   int // index of the written parameter, -1 if none
}

var opcodes = [100]opInfo{
	OpAdd:         {"add", 3, 2},
	OpMul:         {"mul", 3, 2},
	OpInput:       {"in", 1, 0},
	OpOutput:      {"out", 1, -1},
	OpJumpIfTrue:  {"jnz", 2, -1},
	OpJumpIfFalse: {"jz", 2, -1},
	OpLessThan:    {"lt", 3, 2},
	OpEquals:      {"eq", 3, 2},
	OpAdjustBase:  {"arb", 1, -1},
	OpHalt:        {"halt", 0, -1},
}

func (op Opcode) info() (opInfo, bool) {
	if op < 0 || int(op) >= len(opcodes) || opcodes[op].name == "" {
		return opInfo{}, false
	}
	return opcodes[op], true
}

// Valid returns true if op is a known opcode.
func (op Opcode) Valid() bool {
	_, ok := op.info()
	return ok
}

// Params returns the number of parameters taken by op.
func (op Opcode) Params() int {
	i, _ := op.info()
	return i.params
}

// String returns the mnemonic of op.
func (op Opcode) String() string {
	if i, ok := op.info(); ok {
		return i.name
	}
	return "Opcode(" + strconv.FormatInt(int64(op), 10) + ")"
}

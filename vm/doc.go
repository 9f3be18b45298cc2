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

// Package vm implements the Intcode virtual machine.
//
// An Intcode program is a flat sequence of integers (a Tape) that is copied
// into the machine's memory at load time. Each instruction word encodes an
// opcode in its two lowest decimal digits and the addressing mode of each of
// its parameters in the remaining digits, read right to left:
//
//	  1002
//	  ||\_ opcode 02 (mul)
//	  |\__ parameter 0: position mode (0)
//	  \___ parameter 1: immediate mode (1)
//	       parameter 2: position mode (missing digit)
//
// A Computer binds memory, the CPU and an I/O stream together. Programs that
// read input when none is available do not fail: the machine suspends in the
// AwaitingInput state and resumes where it left off once the caller has
// queued more values and calls Run or Step again. This is what makes it
// possible to wire several machines into feedback loops from a single
// goroutine (see package github.com/db47h/intcode/pipeline).
//
// For performance reasons, the instruction pointer is not incremented in a
// single place; each operand fetch consumes one word. Jumps overwrite it.
//
// A Computer must not be used concurrently from several goroutines.
package vm

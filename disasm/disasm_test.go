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

package disasm_test

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/db47h/intcode/disasm"
	"github.com/db47h/intcode/vm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisassemble(t *testing.T) {
	var tests = []struct {
		code string
		want string
		next int
	}{
		{"1,9,10,3", "add [9], [10], [3]", 4},
		{"1102,34915192,34915192,7", "mul 34915192, 34915192, [7]", 4},
		{"21101,3,4,5", "add 3, 4, [rb+5]", 4},
		{"203,-7", "in [rb-7]", 2},
		{"104,1125899906842624", "out 1125899906842624", 2},
		{"1105,1,9", "jnz 1, 9", 3},
		{"6,12,15", "jz [12], [15]", 3},
		{"1107,-1,8,3", "lt -1, 8, [3]", 4},
		{"8,9,10,9", "eq [9], [10], [9]", 4},
		{"109,19", "arb 19", 2},
		{"99", "halt", 1},
		{"42,1,2", ".dat 42", 1},
		{"-1", ".dat -1", 1},
		{"10001,0,0,0", ".dat 10001", 1},
		{"1,9,10", "add [9], [10], ???", 3},
		{"21101,3,-1,5", "add 3, -1, [rb+5]", 4},
		{"7", "lt ???", 1},
	}
	for _, test := range tests {
		var b bytes.Buffer
		tape := vm.MustParse(test.code)
		next, err := disasm.Disassemble(tape.Words(), 0, &b)
		require.NoError(t, err, test.code)
		assert.Equal(t, test.want, b.String(), test.code)
		assert.Equal(t, test.next, next, test.code)
	}
}

func TestDisassembleAll(t *testing.T) {
	tape := vm.MustParse("109,1,204,-1,1001,100,1,100,1008,100,16,101,1006,101,0,99")
	var b bytes.Buffer
	require.NoError(t, disasm.DisassembleAll(tape.Words(), 100, &b))
	want := []string{
		"       100\tarb 1",
		"       102\tout [rb-1]",
		"       104\tadd [100], 1, [100]",
		"       108\teq [100], 16, [101]",
		"       112\tjz [101], 0",
		"       115\thalt",
	}
	assert.Equal(t, strings.Join(want, "\n")+"\n", b.String())
}

type failWriter struct{}

func (failWriter) Write(p []byte) (int, error) { return 0, errors.New("disk full") }

func TestDisassembleAll_writeError(t *testing.T) {
	err := disasm.DisassembleAll([]vm.Word{99}, 0, failWriter{})
	assert.EqualError(t, err, "write failed: disk full")
}

func ExampleDisassemble() {
	words := vm.MustParse("3,9,8,9,10,9,4,9,99,-1,8").Words()
	for pc := 0; pc < 9; {
		fmt.Print(pc, ": ")
		pc, _ = disasm.Disassemble(words, pc, os.Stdout)
		fmt.Println()
	}

	// Output:
	// 0: in [9]
	// 2: eq [9], [10], [9]
	// 6: out [9]
	// 8: halt
}

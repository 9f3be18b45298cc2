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

package vm_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/db47h/intcode/vm"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	var tests = []struct {
		w     vm.Word
		op    vm.Opcode
		modes [3]vm.Mode
	}{
		{1, vm.OpAdd, [3]vm.Mode{}},
		{1002, vm.OpMul, [3]vm.Mode{vm.Position, vm.Immediate, vm.Position}},
		{21101, vm.OpAdd, [3]vm.Mode{vm.Immediate, vm.Immediate, vm.Relative}},
		{203, vm.OpInput, [3]vm.Mode{vm.Relative}},
		{1105, vm.OpJumpIfTrue, [3]vm.Mode{vm.Immediate, vm.Immediate}},
		{109, vm.OpAdjustBase, [3]vm.Mode{vm.Immediate}},
		{99, vm.OpHalt, [3]vm.Mode{}},
	}
	for _, test := range tests {
		ins, err := vm.Decode(7, test.w)
		require.NoError(t, err, "%d", test.w)
		assert.Equal(t, vm.Reference(7), ins.Addr)
		assert.Equal(t, test.op, ins.Op, "%d", test.w)
		assert.Equal(t, test.modes, ins.Modes, "%d", test.w)
	}
}

func TestDecode_errors(t *testing.T) {
	var oe *vm.OpcodeError
	for _, w := range []vm.Word{0, 10, 98, 100, -1, -99} {
		_, err := vm.Decode(3, w)
		require.ErrorAs(t, err, &oe, "%d", w)
		assert.Equal(t, vm.Reference(3), oe.Addr)
		assert.Equal(t, w, oe.Word)
	}

	var me *vm.ModeError
	for _, test := range []struct {
		w     vm.Word
		param int
		mode  vm.Word
	}{
		{301, 0, 3},
		{10001, 2, 1},
		{103, 0, 1},
		{90004, 0, 0},
		{9005, 1, 9},
	} {
		_, err := vm.Decode(0, test.w)
		if test.w == 90004 {
			// extra digits past the last parameter are ignored
			require.NoError(t, err)
			continue
		}
		require.ErrorAs(t, err, &me, "%d", test.w)
		assert.Equal(t, test.param, me.Param, "%d", test.w)
		assert.Equal(t, test.mode, me.Mode, "%d", test.w)
	}
}

func TestStep_errors(t *testing.T) {
	// invalid opcode after a valid instruction
	c := setup(t, "1,0,0,0,42")
	_, err := c.Run()
	var oe *vm.OpcodeError
	require.ErrorAs(t, err, &oe)
	assert.Equal(t, vm.Reference(4), oe.Addr)
	assert.Equal(t, vm.Word(42), oe.Word)
	assert.Equal(t, vm.Reference(4), c.IP())
	assert.Equal(t, vm.AwaitingInstruction, c.State())
	// not retryable
	require.ErrorAs(t, c.Step(), &oe)

	var ae *vm.AddressError
	for _, test := range []struct {
		name  string
		code  string
		addr  vm.Reference
		write bool
		ip    vm.Reference
	}{
		{"read", "1,-1,0,0,99", -1, false, 0},
		{"write", "1101,1,1,-5,99", -5, true, 0},
		{"relative", "109,-10,2201,0,0,0,99", -10, false, 2},
		{"jump", "1105,1,-3", -3, false, -3},
		{"input", "203,-1,99", -1, true, 0},
		{"limit", "1101,1,1,4611686018427387904,99", 1 << 62, true, 0},
		{"limit/max", "1101,1,1,9223372036854775807,99", 1<<63 - 1, true, 0},
	} {
		c := setup(t, test.code, 1)
		_, err := c.Run()
		require.ErrorAs(t, err, &ae, test.name)
		assert.Equal(t, test.addr, ae.Addr, test.name)
		assert.Equal(t, test.write, ae.Write, test.name)
		assert.Equal(t, test.ip, c.IP(), test.name)
	}
}

func TestMemoryLimit(t *testing.T) {
	c, err := vm.NewWithTape(vm.MustParse("1101,1,1,15,1101,2,2,16,99"), vm.MemoryLimit(16))
	require.NoError(t, err)
	_, err = c.Run()
	var ae *vm.AddressError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, vm.Reference(16), ae.Addr)
	assert.Equal(t, vm.Reference(16), ae.Limit)
	assert.Equal(t, vm.Reference(4), c.IP())
	assert.Len(t, c.Memory(), 16)
	assert.Contains(t, err.Error(), "write to address 16 exceeds memory limit of 16 words")

	err = c.Poke(16, 1)
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, vm.Reference(16), ae.Limit)
	require.NoError(t, c.Poke(15, 1))

	_, err = vm.New(vm.MemoryLimit(0))
	assert.EqualError(t, err, "invalid memory limit 0")
}

type panicObserver struct{}

func (panicObserver) Executed(vm.Opcode) { panic(errors.New("observer failed")) }
func (panicObserver) Suspended() {}
func (panicObserver) Halted() {}

func TestStep_foreignPanic(t *testing.T) {
	c := setup(t, "99")
	require.NoError(t, c.SetOptions(vm.Observe(panicObserver{})))
	assert.PanicsWithError(t, "observer failed", func() { c.Step() })
}

func TestProgram(t *testing.T) {
	// inputs queued before the program is loaded are kept
	c, err := vm.New(vm.Inputs(5), vm.Program(vm.MustParse("3,0,4,0,99")))
	require.NoError(t, err)
	r, err := c.Run()
	require.NoError(t, err)
	assert.Equal(t, vm.Word(5), r)
	assert.Equal(t, []vm.Word{5}, c.Output())

	// Reset reloads the program given as option
	c.Reset()
	c.Input(7)
	r, err = c.Run()
	require.NoError(t, err)
	assert.Equal(t, vm.Word(7), r)
}

func TestStep_inputFailureKeepsValue(t *testing.T) {
	c := setup(t, "203,-1,99")
	_, err := c.Run()
	require.NoError(t, err)
	require.Equal(t, vm.AwaitingInput, c.State())
	c.Input(12)
	require.Error(t, c.Step())
	// the value is still queued and the machine is still suspended
	assert.Equal(t, 1, c.Pending())
	assert.Equal(t, vm.AwaitingInput, c.State())
	assert.Equal(t, vm.Reference(1), c.IP())
}

func TestStep_halted(t *testing.T) {
	c := setup(t, "99")
	r, err := c.Run()
	require.NoError(t, err)
	assert.Equal(t, vm.Word(99), r)
	assert.Equal(t, vm.ErrHalted, c.Step())

	// Run on a halted machine is a no-op
	r, err = c.Run()
	require.NoError(t, err)
	assert.Equal(t, vm.Word(99), r)
	assert.Equal(t, int64(1), c.InstructionCount())
}

func TestRun_stepLimit(t *testing.T) {
	c, err := vm.NewWithTape(vm.MustParse("1105,1,0"), vm.MaxSteps(100))
	require.NoError(t, err)
	_, err = c.Run()
	assert.Equal(t, vm.ErrStepLimit, errors.Cause(err))
	assert.True(t, errors.Is(err, vm.ErrStepLimit))
	assert.Equal(t, int64(100), c.InstructionCount())

	// the budget applies per call
	_, err = c.Run()
	assert.ErrorIs(t, err, vm.ErrStepLimit)
	assert.Equal(t, int64(200), c.InstructionCount())

	_, err = vm.New(vm.MaxSteps(-1))
	assert.Error(t, err)
}

func TestRunContext(t *testing.T) {
	c := setup(t, "1105,1,0")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.RunContext(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, c.InstructionCount())
}

type counter struct {
	ops       map[vm.Opcode]int
	suspended int
	halted    int
}

func (c *counter) Executed(op vm.Opcode) { c.ops[op]++ }
func (c *counter) Suspended()            { c.suspended++ }
func (c *counter) Halted()               { c.halted++ }

func TestObserve(t *testing.T) {
	o := &counter{ops: make(map[vm.Opcode]int)}
	c, err := vm.NewWithTape(vm.MustParse("3,9,8,9,10,9,4,9,99,-1,8"), vm.Observe(o))
	require.NoError(t, err)
	_, err = c.Run()
	require.NoError(t, err)
	assert.Equal(t, 1, o.suspended)
	c.Input(8)
	_, err = c.Run()
	require.NoError(t, err)
	assert.Equal(t, map[vm.Opcode]int{vm.OpInput: 1, vm.OpEquals: 1, vm.OpOutput: 1, vm.OpHalt: 1}, o.ops)
	assert.Equal(t, 1, o.halted)
	assert.Equal(t, int64(4), c.InstructionCount())
}

func TestLogger(t *testing.T) {
	var b bytes.Buffer
	l := slog.New(slog.NewTextHandler(&b, &slog.HandlerOptions{Level: slog.LevelDebug}))
	c, err := vm.NewWithTape(vm.MustParse("3,0,99"), vm.Logger(l))
	require.NoError(t, err)
	_, err = c.Run()
	require.NoError(t, err)
	c.Input(1)
	_, err = c.Run()
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(b.String()), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "msg=\"awaiting input\" ip=0")
	assert.Contains(t, lines[1], "msg=exec ip=0 op=in rb=0")
	assert.Contains(t, lines[2], "msg=exec ip=2 op=halt rb=0")
	assert.Contains(t, lines[3], "msg=halted ip=2 count=2")

	// nothing is logged above debug level
	b.Reset()
	l = slog.New(slog.NewTextHandler(&b, nil))
	require.NoError(t, c.SetOptions(vm.Logger(l)))
	c.Reset()
	c.Input(1)
	_, err = c.Run()
	require.NoError(t, err)
	assert.Zero(t, b.Len())
}

func TestDump(t *testing.T) {
	c := setup(t, "109,5,3,0,99", 7)
	_, err := c.Run()
	require.NoError(t, err)
	var b bytes.Buffer
	require.NoError(t, c.Dump(&b))
	assert.Equal(t, "ip=5 rb=5 state=halted count=3\nmem=7,5,3,0,99\n", b.String())
}

func TestOpcode_String(t *testing.T) {
	assert.Equal(t, "add", vm.OpAdd.String())
	assert.Equal(t, "arb", vm.OpAdjustBase.String())
	assert.Equal(t, "Opcode(42)", vm.Opcode(42).String())
	assert.Equal(t, "Opcode(-1)", vm.Opcode(-1).String())
	assert.False(t, vm.Opcode(1000).Valid())
	assert.Equal(t, 3, vm.OpEquals.Params())
	assert.Equal(t, 0, vm.Opcode(1000).Params())
	assert.Equal(t, "awaiting input", vm.AwaitingInput.String())
	assert.Equal(t, "relative", vm.Relative.String())
}

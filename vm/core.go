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

// Instruction is a decoded instruction word.
type Instruction struct {
	Addr  Reference // address of the instruction word
	Op    Opcode
	Modes [3]Mode
}

// Decode decodes the instruction word w found at address addr.
//
// The two lowest decimal digits of w select the opcode, the remaining digits,
// read right to left, select the mode of each parameter. Missing digits
// default to Position mode.
func Decode(addr Reference, w Word) (Instruction, error) {
	ins := Instruction{Addr: addr, Op: Opcode(w % 100)}
	info, ok := ins.Op.info()
	if w < 0 || !ok {
		return Instruction{}, &OpcodeError{Addr: addr, Word: w}
	}
	m := w / 100
	for p := 0; p < info.params; p++ {
		d := m % 10
		m /= 10
		if d > Word(Relative) || p == info.dest && d == Word(Immediate) {
			return Instruction{}, &ModeError{Addr: addr, Param: p, Mode: d}
		}
		ins.Modes[p] = Mode(d)
	}
	return ins, nil
}

// State is the run state of a CPU.
type State int

// CPU states.
const (
	AwaitingInstruction State = iota // ready to fetch the next instruction
	AwaitingInput                    // suspended on an input instruction
	Halted                           // terminal
)

var stateNames = [...]string{"awaiting instruction", "awaiting input", "halted"}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// CPU is the fetch-decode-execute engine of a Computer. The zero value is a
// CPU ready to execute from address 0.
type CPU struct {
	IP    Reference // instruction pointer
	RB    Reference // relative base
	state State
	cur   Instruction // last decoded instruction, replayed when resuming input
}

// Reset resets the CPU to its initial state.
func (c *CPU) Reset() {
	*c = CPU{}
}

// State returns the CPU run state.
func (c *CPU) State() State {
	return c.state
}

// Current returns the last decoded instruction.
func (c *CPU) Current() Instruction {
	return c.cur
}

func (c *CPU) consume() Reference {
	ip := c.IP
	c.IP++
	return ip
}

func (c *CPU) read(m *Memory, p int) Word {
	return m.Read(c.consume(), c.cur.Modes[p], c.RB)
}

func (c *CPU) write(m *Memory, p int, v Word) {
	m.Write(c.consume(), v, c.cur.Modes[p], c.RB)
}

func bool2Word(b bool) Word {
	if b {
		return 1
	}
	return 0
}

// Step executes a single instruction, or retries a suspended input
// instruction. Memory access violations panic (see Memory).
func (c *CPU) Step(m *Memory, io *IOStream) error {
	switch c.state {
	case Halted:
		return ErrHalted
	case AwaitingInput:
		c.input(m, io)
		return nil
	}

	ins, err := Decode(c.IP, m.ReadDirect(c.IP))
	if err != nil {
		return err
	}
	c.cur = ins
	c.IP++

	switch ins.Op {
	case OpAdd:
		a, b := c.read(m, 0), c.read(m, 1)
		c.write(m, 2, a+b)
	case OpMul:
		a, b := c.read(m, 0), c.read(m, 1)
		c.write(m, 2, a*b)
	case OpInput:
		c.input(m, io)
	case OpOutput:
		io.Emit(c.read(m, 0))
	case OpJumpIfTrue:
		cond, target := c.read(m, 0), c.read(m, 1)
		if cond != 0 {
			c.IP = Reference(target)
		}
	case OpJumpIfFalse:
		cond, target := c.read(m, 0), c.read(m, 1)
		if cond == 0 {
			c.IP = Reference(target)
		}
	case OpLessThan:
		a, b := c.read(m, 0), c.read(m, 1)
		c.write(m, 2, bool2Word(a < b))
	case OpEquals:
		a, b := c.read(m, 0), c.read(m, 1)
		c.write(m, 2, bool2Word(a == b))
	case OpAdjustBase:
		c.RB += Reference(c.read(m, 0))
	case OpHalt:
		c.state = Halted
	}
	return nil
}

// input completes the current input instruction if a value is available. If
// not, the CPU is suspended with IP still pointing at the instruction's
// parameter. The value is only dequeued once it has been stored.
func (c *CPU) input(m *Memory, io *IOStream) {
	v, ok := io.Peek()
	if !ok {
		c.state = AwaitingInput
		return
	}
	c.write(m, 0, v)
	io.Dequeue()
	c.state = AwaitingInstruction
}

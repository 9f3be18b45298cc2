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
	"context"
	"io"
	"log/slog"

	"github.com/db47h/intcode/internal/iox"
	"github.com/pkg/errors"
)

// Observer receives execution events from a Computer. It can be used to
// collect metrics.
type Observer interface {
	// Executed is called after each instruction that ran to completion.
	Executed(op Opcode)
	// Suspended is called after each step that leaves the machine waiting for
	// input.
	Suspended()
	// Halted is called when the machine executes a halt instruction.
	Halted()
}

// Computer is an Intcode machine: memory, CPU and I/O stream.
type Computer struct {
	mem      *Memory
	cpu      CPU
	io       *IOStream
	tape     Tape
	insCount int64
	maxSteps int64
	logger   *slog.Logger
	obs      Observer
}

// Option interface
type Option func(*Computer) error

// Logger sets the logger used to trace execution. Instructions are traced at
// debug level.
func Logger(l *slog.Logger) Option {
	return func(c *Computer) error {
		c.logger = l
		return nil
	}
}

// MaxSteps limits the number of steps a single call to Run or RunContext may
// execute. Zero, the default, means no limit.
func MaxSteps(n int64) Option {
	return func(c *Computer) error {
		if n < 0 {
			return errors.Errorf("invalid step limit %d", n)
		}
		c.maxSteps = n
		return nil
	}
}

// MemoryLimit sets the size in words past which memory will not grow. Writes
// past the limit fail with an *AddressError. The default is
// DefaultMemoryLimit.
func MemoryLimit(n int64) Option {
	return func(c *Computer) error {
		if n <= 0 {
			return errors.Errorf("invalid memory limit %d", n)
		}
		c.mem.SetLimit(Reference(n))
		return nil
	}
}

// Program loads the given tape into memory and resets the CPU. Queued input
// is kept, so Program and Inputs may be given in any order.
func Program(t Tape) Option {
	return func(c *Computer) error {
		c.tape = t
		c.mem.Load(t)
		c.cpu.Reset()
		c.insCount = 0
		return nil
	}
}

// Observe registers an Observer.
func Observe(o Observer) Option {
	return func(c *Computer) error {
		c.obs = o
		return nil
	}
}

// Inputs queues input values.
func Inputs(v ...Word) Option {
	return func(c *Computer) error {
		c.io.Enqueue(v...)
		return nil
	}
}

// SetOptions sets the provided options.
func (c *Computer) SetOptions(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// New creates a new Computer loaded with HaltTape.
func New(opts ...Option) (*Computer, error) {
	return NewWithTape(HaltTape, opts...)
}

// NewWithTape creates a new Computer loaded with the given tape.
//
// Options will be set by calling SetOptions.
func NewWithTape(t Tape, opts ...Option) (*Computer, error) {
	c := &Computer{
		mem:  NewMemory(t),
		io:   NewIOStream(),
		tape: t,
	}
	if err := c.SetOptions(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// ResetAndLoad resets the CPU, empties the input and output queues and loads a
// fresh copy of the given tape into memory. Options are kept.
func (c *Computer) ResetAndLoad(t Tape) {
	c.tape = t
	c.Reset()
}

// Reset is like ResetAndLoad with the last loaded tape.
func (c *Computer) Reset() {
	c.mem.Load(c.tape)
	c.cpu.Reset()
	c.io.Reset()
	c.insCount = 0
}

// Peek returns the value at address addr.
func (c *Computer) Peek(addr Reference) (Word, error) {
	if addr < 0 {
		return 0, &AddressError{Addr: addr}
	}
	return c.mem.ReadDirect(addr), nil
}

// Poke stores v at address addr. It is typically used to patch a program
// before running it.
func (c *Computer) Poke(addr Reference, v Word) error {
	switch {
	case addr < 0:
		return &AddressError{Addr: addr, Write: true}
	case addr >= c.mem.Limit() && addr >= Reference(c.mem.Len()):
		return &AddressError{Addr: addr, Write: true, Limit: c.mem.Limit()}
	}
	c.mem.WriteDirect(addr, v)
	return nil
}

// Memory returns a copy of the memory contents.
func (c *Computer) Memory() []Word {
	return c.mem.Words()
}

// Input queues input values. Values are consumed in order.
func (c *Computer) Input(v ...Word) {
	c.io.Enqueue(v...)
}

// Pending returns the number of queued input values.
func (c *Computer) Pending() int {
	return c.io.Pending()
}

// Output returns a copy of the values output so far.
func (c *Computer) Output() []Word {
	return c.io.Output()
}

// TakeOutput returns the values output so far and empties the output queue.
func (c *Computer) TakeOutput() []Word {
	return c.io.Take()
}

// LastOutput returns the last value output or ErrNoOutput.
func (c *Computer) LastOutput() (Word, error) {
	return c.io.Last()
}

// State returns the current run state.
func (c *Computer) State() State {
	return c.cpu.state
}

// IP returns the instruction pointer.
func (c *Computer) IP() Reference {
	return c.cpu.IP
}

// RelativeBase returns the relative base.
func (c *Computer) RelativeBase() Reference {
	return c.cpu.RB
}

// InstructionCount returns the number of instructions executed since the last
// reset.
func (c *Computer) InstructionCount() int64 {
	return c.insCount
}

// Step executes a single instruction. If the machine is waiting for input,
// only the pending input instruction is retried.
//
// A step that fails has no effect on the machine state: the instruction
// pointer is left at the faulting instruction.
func (c *Computer) Step() (err error) {
	ip, rb := c.cpu.IP, c.cpu.RB
	defer func() {
		if e := recover(); e != nil {
			switch e := e.(type) {
			case *AddressError:
				err = e
			case *ModeError:
				err = e
			default:
				panic(e)
			}
			c.cpu.IP, c.cpu.RB = ip, rb
			err = errors.Wrapf(err, "step failed at ip=%d rb=%d", ip, rb)
		}
	}()
	if err = c.cpu.Step(c.mem, c.io); err != nil {
		return err
	}
	ins := c.cpu.Current()
	if c.cpu.state == AwaitingInput {
		c.trace("awaiting input", slog.Int64("ip", int64(ins.Addr)))
		if c.obs != nil {
			c.obs.Suspended()
		}
		return nil
	}
	c.insCount++
	if c.obs != nil {
		c.obs.Executed(ins.Op)
	}
	c.trace("exec",
		slog.Int64("ip", int64(ins.Addr)),
		slog.String("op", ins.Op.String()),
		slog.Int64("rb", int64(c.cpu.RB)))
	if c.cpu.state == Halted {
		c.trace("halted", slog.Int64("ip", int64(ins.Addr)), slog.Int64("count", c.insCount))
		if c.obs != nil {
			c.obs.Halted()
		}
	}
	return nil
}

func (c *Computer) trace(msg string, attrs ...slog.Attr) {
	if c.logger == nil || !c.logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	c.logger.LogAttrs(context.Background(), slog.LevelDebug, msg, attrs...)
}

// Run executes instructions until the machine halts or waits for input, and
// returns the value at address 0. Use State to tell both conditions apart.
// Calling Run on a halted machine does nothing.
func (c *Computer) Run() (Word, error) {
	return c.RunContext(context.Background())
}

// RunContext is like Run but stops with the context error when ctx is done.
// The context is checked every 1024 instructions.
func (c *Computer) RunContext(ctx context.Context) (Word, error) {
	var steps int64
	for c.cpu.state != Halted {
		if c.maxSteps > 0 && steps >= c.maxSteps {
			return c.mem.ReadDirect(0), errors.Wrapf(ErrStepLimit, "after %d steps", steps)
		}
		if steps&1023 == 0 {
			if err := ctx.Err(); err != nil {
				return c.mem.ReadDirect(0), errors.Wrap(err, "run interrupted")
			}
		}
		if err := c.Step(); err != nil {
			return c.mem.ReadDirect(0), err
		}
		steps++
		if c.cpu.state == AwaitingInput {
			break
		}
	}
	return c.mem.ReadDirect(0), nil
}

// Dump writes the CPU registers, state and memory contents to the specified
// io.Writer.
func (c *Computer) Dump(w io.Writer) error {
	ew := iox.NewErrWriter(w)
	io.WriteString(ew, "ip=")
	iox.WriteWord(ew, int64(c.cpu.IP))
	io.WriteString(ew, " rb=")
	iox.WriteWord(ew, int64(c.cpu.RB))
	io.WriteString(ew, " state="+c.cpu.state.String()+" count=")
	iox.WriteWord(ew, c.insCount)
	io.WriteString(ew, "\nmem=")
	iox.WriteList(ew, c.mem.cells, ',')
	ew.Write([]byte{'\n'})
	return ew.Err
}

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

// Package pipeline wires several Intcode machines running the same program
// into amplifier networks.
//
// In a chain, each amplifier receives its phase setting and the output of the
// previous amplifier, and the network signal is the output of the last
// amplifier. In a feedback loop, the output of the last amplifier is fed
// back to the first one, and all amplifiers are run in turn on the calling
// goroutine until the last one halts.
package pipeline

import (
	"github.com/db47h/intcode/vm"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat/combin"
)

// ErrDeadlock is returned when no amplifier of a feedback loop can make
// progress.
var ErrDeadlock = errors.New("all amplifiers are waiting for input")

// Network is a set of amplifiers running the same program.
type Network struct {
	tape vm.Tape
	amps []*vm.Computer
}

// New returns a network of n amplifiers running the given tape. The options
// are applied to every amplifier.
func New(tape vm.Tape, n int, opts ...vm.Option) (*Network, error) {
	if n < 1 {
		return nil, errors.Errorf("invalid amplifier count %d", n)
	}
	nw := &Network{tape: tape, amps: make([]*vm.Computer, n)}
	for i := range nw.amps {
		c, err := vm.NewWithTape(tape, opts...)
		if err != nil {
			return nil, errors.Wrapf(err, "amplifier %d", i)
		}
		nw.amps[i] = c
	}
	return nw, nil
}

// Len returns the number of amplifiers in the network.
func (nw *Network) Len() int {
	return len(nw.amps)
}

// Amplifier returns the i-th amplifier.
func (nw *Network) Amplifier(i int) *vm.Computer {
	return nw.amps[i]
}

func (nw *Network) reset(phases []vm.Word) error {
	if len(phases) != len(nw.amps) {
		return errors.Errorf("got %d phase settings for %d amplifiers", len(phases), len(nw.amps))
	}
	for i, c := range nw.amps {
		c.ResetAndLoad(nw.tape)
		c.Input(phases[i])
	}
	return nil
}

func ampError(err error, i int) error {
	return errors.Wrapf(err, "amplifier %c", 'A'+i)
}

// Chain runs the amplifiers in series and returns the first output of the
// last one.
func (nw *Network) Chain(phases []vm.Word, input vm.Word) (vm.Word, error) {
	if err := nw.reset(phases); err != nil {
		return 0, err
	}
	signal := input
	for i, c := range nw.amps {
		c.Input(signal)
		if _, err := c.Run(); err != nil {
			return 0, ampError(err, i)
		}
		out := c.Output()
		if len(out) == 0 {
			return 0, ampError(vm.ErrNoOutput, i)
		}
		signal = out[0]
	}
	return signal, nil
}

// Feedback runs the amplifiers in a feedback loop until the last amplifier
// halts, and returns its last output.
func (nw *Network) Feedback(phases []vm.Word, input vm.Word) (vm.Word, error) {
	if err := nw.reset(phases); err != nil {
		return 0, err
	}
	last := len(nw.amps) - 1
	nw.amps[0].Input(input)
	for {
		progress := false
		for i, c := range nw.amps {
			if c.State() == vm.Halted {
				continue
			}
			if _, err := c.Run(); err != nil {
				return 0, ampError(err, i)
			}
			if i == last && c.State() == vm.Halted {
				v, err := c.LastOutput()
				if err != nil {
					return 0, ampError(err, i)
				}
				return v, nil
			}
			out := c.TakeOutput()
			if len(out) > 0 || c.State() == vm.Halted {
				progress = true
			}
			nw.amps[(i+1)%len(nw.amps)].Input(out...)
		}
		if !progress {
			return 0, ErrDeadlock
		}
	}
}

// MaxSignal tries every ordering of the given phase settings on a network of
// len(phaseSet) amplifiers, and returns the highest signal together with the
// phase settings that produced it.
func MaxSignal(tape vm.Tape, phaseSet []vm.Word, feedback bool, opts ...vm.Option) (vm.Word, []vm.Word, error) {
	nw, err := New(tape, len(phaseSet), opts...)
	if err != nil {
		return 0, nil, err
	}
	run := nw.Chain
	if feedback {
		run = nw.Feedback
	}

	var (
		best    vm.Word
		bestSet []vm.Word
		phases  = make([]vm.Word, len(phaseSet))
		perm    = make([]int, len(phaseSet))
	)
	gen := combin.NewPermutationGenerator(len(phaseSet), len(phaseSet))
	for gen.Next() {
		gen.Permutation(perm)
		for i, p := range perm {
			phases[i] = phaseSet[p]
		}
		v, err := run(phases, 0)
		if err != nil {
			return 0, nil, errors.Wrapf(err, "phase settings %v", phases)
		}
		if bestSet == nil || v > best {
			best = v
			bestSet = append(bestSet[:0], phases...)
		}
	}
	return best, bestSet, nil
}

// Chain runs the given program on a chain of len(phases) amplifiers.
func Chain(tape vm.Tape, phases []vm.Word, input vm.Word, opts ...vm.Option) (vm.Word, error) {
	nw, err := New(tape, len(phases), opts...)
	if err != nil {
		return 0, err
	}
	return nw.Chain(phases, input)
}

// Feedback runs the given program on a feedback loop of len(phases)
// amplifiers.
func Feedback(tape vm.Tape, phases []vm.Word, input vm.Word, opts ...vm.Option) (vm.Word, error) {
	nw, err := New(tape, len(phases), opts...)
	if err != nil {
		return 0, err
	}
	return nw.Feedback(phases, input)
}

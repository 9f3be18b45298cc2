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
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrHalted is returned by Step when the machine has already halted.
	ErrHalted = errors.New("machine halted")
	// ErrStepLimit is returned by Run when the step budget set with the
	// MaxSteps option is exhausted.
	ErrStepLimit = errors.New("step limit exceeded")
	// ErrNoOutput is returned when a caller expects an output value and the
	// output queue is empty.
	ErrNoOutput = errors.New("no output")
)

// OpcodeError is returned when the machine fetches an instruction word whose
// opcode is unknown.
type OpcodeError struct {
	Addr Reference // address of the instruction word
	Word Word      // the instruction word
}

func (e *OpcodeError) Error() string {
	return fmt.Sprintf("invalid opcode %d (instruction %d) at address %d", e.Word%100, e.Word, e.Addr)
}

// ModeError is returned when an instruction word carries an invalid parameter
// mode, or an Immediate mode for a parameter that is written to.
type ModeError struct {
	Addr  Reference // address of the instruction word, or of the parameter if Param < 0
	Param int
	Mode  Word
}

func (e *ModeError) Error() string {
	if e.Param < 0 {
		return fmt.Sprintf("%s mode write at address %d", Mode(e.Mode), e.Addr)
	}
	if e.Mode == Word(Immediate) {
		return fmt.Sprintf("parameter %d of instruction at address %d is written to in immediate mode", e.Param, e.Addr)
	}
	return fmt.Sprintf("invalid mode %d for parameter %d of instruction at address %d", e.Mode, e.Param, e.Addr)
}

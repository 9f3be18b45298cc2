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

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/db47h/intcode/disasm"
	"github.com/db47h/intcode/pipeline"
	"github.com/db47h/intcode/vm"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

var errUsage = errors.New("invalid command line")

// set by the --debug flag of each command.
var debug bool

const usage = `usage: intcode <command> [flags] program

commands:
	run     run a program
	disasm  disassemble a program
	amp     find the best phase settings for a chain of amplifiers

Run "intcode <command> --help" for details.
`

// parseFlags parses args and checks that a single program file is given.
// pflag has already reported parse errors on the flag set output.
func parseFlags(fs *pflag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return err
		}
		return errUsage
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errUsage
	}
	return nil
}

func newFlagSet(name string, stderr io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.BoolVar(&debug, "debug", false, "enable debug diagnostics")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: intcode %s [flags] program\n", name)
		fs.PrintDefaults()
	}
	return fs
}

func disasmCmd(args []string, stdout, stderr io.Writer) error {
	var base int
	fs := newFlagSet("disasm", stderr)
	fs.IntVar(&base, "base", 0, "`address` of the first word")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	t, err := vm.LoadTape(fs.Arg(0))
	if err != nil {
		return err
	}
	return disasm.DisassembleAll(t.Words(), base, stdout)
}

func ampCmd(args []string, stdout, stderr io.Writer) error {
	var (
		feedback bool
		phases   []int64
	)
	fs := newFlagSet("amp", stderr)
	fs.BoolVarP(&feedback, "feedback", "f", false, "connect the amplifiers in a feedback loop")
	fs.Int64SliceVar(&phases, "phases", nil, "comma separated phase `settings`, one per amplifier (default 0,1,2,3,4 or 5,6,7,8,9 with --feedback)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if len(phases) == 0 {
		phases = []int64{0, 1, 2, 3, 4}
		if feedback {
			phases = []int64{5, 6, 7, 8, 9}
		}
	}
	t, err := vm.LoadTape(fs.Arg(0))
	if err != nil {
		return err
	}
	signal, best, err := pipeline.MaxSignal(t, toWords(phases), feedback)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(stdout, "signal: %d\nphases: %v\n", signal, best)
	return err
}

func dispatch(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		io.WriteString(stderr, usage)
		return errUsage
	}
	switch args[0] {
	case "run":
		return runCmd(ctx, args[1:], stdin, stdout, stderr)
	case "disasm":
		return disasmCmd(args[1:], stdout, stderr)
	case "amp":
		return ampCmd(args[1:], stdout, stderr)
	case "help", "-h", "--help":
		io.WriteString(stdout, usage)
		return nil
	default:
		io.WriteString(stderr, usage)
		return errors.Wrapf(errUsage, "unknown command %q", args[0])
	}
}

func atExit(err error) {
	if err == nil || err == pflag.ErrHelp {
		return
	}
	if err != errUsage {
		if debug {
			fmt.Fprintf(os.Stderr, "%+v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "intcode: %v\n", err)
		}
	}
	if errors.Is(err, errUsage) {
		os.Exit(2)
	}
	os.Exit(1)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := dispatch(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	atExit(err)
}

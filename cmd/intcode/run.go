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
	"bufio"
	"context"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/db47h/intcode/internal/iox"
	"github.com/db47h/intcode/metrics"
	"github.com/db47h/intcode/vm"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// errInputEOF is returned when the program waits for input after the end of
// stdin.
var errInputEOF = errors.New("end of input while program awaits input")

// inputReader returns the next batch of input values for a suspended program.
type inputReader interface {
	next() ([]vm.Word, error)
}

// lineReader reads comma separated integer lists, one batch per line.
type lineReader struct {
	s *bufio.Scanner
}

func (r *lineReader) next() ([]vm.Word, error) {
	for r.s.Scan() {
		line := strings.TrimSpace(r.s.Text())
		if line == "" {
			continue
		}
		t, err := vm.ParseTape("stdin", strings.NewReader(line))
		if err != nil {
			return nil, err
		}
		return t.Words(), nil
	}
	if err := r.s.Err(); err != nil {
		return nil, errors.Wrap(err, "read input")
	}
	return nil, errInputEOF
}

// asciiReader feeds stdin as ASCII codes, one line per batch. In raw mode,
// bytes are fed one at a time and CTRL-D ends the input.
type asciiReader struct {
	r   *bufio.Reader
	raw bool
}

func (r *asciiReader) next() ([]vm.Word, error) {
	if r.raw {
		b, err := r.r.ReadByte()
		if err != nil || b == 4 {
			return nil, errInputEOF
		}
		return []vm.Word{vm.Word(b)}, nil
	}
	line, err := r.r.ReadString('\n')
	if len(line) > 0 {
		return vm.EncodeASCII(line), nil
	}
	if err == io.EOF {
		return nil, errInputEOF
	}
	return nil, errors.Wrap(err, "read input")
}

func parsePatch(s string) (vm.Reference, vm.Word, error) {
	a, v, ok := strings.Cut(s, "=")
	if !ok {
		return 0, 0, errors.Errorf("invalid patch %q, expected addr=value", s)
	}
	addr, err := strconv.ParseInt(strings.TrimSpace(a), 10, 64)
	if err != nil {
		return 0, 0, errors.Wrapf(err, "invalid patch address %q", a)
	}
	val, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return 0, 0, errors.Wrapf(err, "invalid patch value %q", v)
	}
	return vm.Reference(addr), vm.Word(val), nil
}

func toWords(a []int64) []vm.Word {
	w := make([]vm.Word, len(a))
	for i, v := range a {
		w[i] = vm.Word(v)
	}
	return w
}

// runCmd implements the run subcommand.
func runCmd(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) (err error) {
	var (
		inputs      []int64
		patches     []string
		maxSteps    int64
		ascii       bool
		raw         bool
		dump        bool
		metricsFile string
		logLevel    string
		logFile     string
	)
	fs := newFlagSet("run", stderr)
	fs.Int64SliceVarP(&inputs, "input", "i", nil, "comma separated input `values` (can be specified multiple times)")
	fs.StringArrayVarP(&patches, "patch", "p", nil, "set memory cell before running, as `addr=value` (can be specified multiple times)")
	fs.Int64Var(&maxSteps, "max-steps", 0, "abort after `n` instructions (0 means no limit)")
	fs.BoolVarP(&ascii, "ascii", "a", false, "ASCII mode: feed stdin as character codes and print outputs < 128 as text")
	fs.BoolVar(&raw, "raw", false, "in ASCII mode, switch the terminal to raw mode")
	fs.BoolVar(&dump, "dump", false, "dump machine state and memory upon exit")
	fs.StringVar(&metricsFile, "metrics-file", "", "write execution metrics in prometheus text format to `file`")
	fs.StringVar(&logLevel, "log-level", "warn", "log `level` (debug, info, warn, error)")
	fs.StringVar(&logFile, "log-file", "", "also write JSON logs to `file`")
	if err = parseFlags(fs, args); err != nil {
		return err
	}

	logger, closeLog, err := newLogger(stderr, logLevel, logFile)
	if err != nil {
		return err
	}
	defer func() {
		if e := closeLog(); err == nil {
			err = e
		}
	}()

	tape, err := vm.LoadTape(fs.Arg(0))
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	col, err := metrics.NewCollector(reg)
	if err != nil {
		return err
	}
	c, err := vm.NewWithTape(tape,
		vm.Logger(logger),
		vm.MaxSteps(maxSteps),
		vm.Observe(col),
		vm.Inputs(toWords(inputs)...))
	if err != nil {
		return err
	}
	for _, p := range patches {
		addr, v, err := parsePatch(p)
		if err != nil {
			return err
		}
		if err = c.Poke(addr, v); err != nil {
			return err
		}
	}

	var in inputReader
	if ascii {
		ar := &asciiReader{r: bufio.NewReader(stdin)}
		if raw && stdin == os.Stdin {
			tearDown, err := setRawIO()
			if err != nil {
				logger.Warn("raw mode unavailable", "error", err)
			} else {
				defer tearDown()
				ar.raw = true
			}
		}
		in = ar
	} else {
		in = &lineReader{s: bufio.NewScanner(stdin)}
	}

	out := bufio.NewWriter(stdout)
	defer func() {
		if dump {
			c.Dump(out)
		}
		if e := out.Flush(); err == nil {
			err = errors.Wrap(e, "write output")
		}
		if metricsFile != "" {
			if e := prometheus.WriteToTextfile(metricsFile, reg); err == nil && e != nil {
				err = errors.Wrap(e, "write metrics")
			}
		}
	}()

	result, err := execute(ctx, c, in, out, ascii)
	if err != nil {
		return err
	}
	logger.Info("program halted", "result", result, "instructions", c.InstructionCount())
	if !ascii {
		ew := iox.NewErrWriter(out)
		io.WriteString(ew, "result: ")
		iox.WriteWord(ew, int64(result))
		ew.Write([]byte{'\n'})
		return ew.Err
	}
	return nil
}

// execute runs c until it halts, printing its outputs to w and feeding it
// from in whenever it awaits input.
func execute(ctx context.Context, c *vm.Computer, in inputReader, w io.Writer, ascii bool) (vm.Word, error) {
	for {
		result, err := c.RunContext(ctx)
		if err != nil {
			return 0, err
		}
		if out := c.TakeOutput(); len(out) > 0 {
			if ascii {
				err = vm.WriteASCII(w, out)
			} else {
				ew := iox.NewErrWriter(w)
				iox.WriteList(ew, out, ',')
				ew.Write([]byte{'\n'})
				err = ew.Err
			}
			if err != nil {
				return 0, err
			}
		}
		if c.State() == vm.Halted {
			return result, nil
		}
		if f, ok := w.(interface{ Flush() error }); ok {
			if err = f.Flush(); err != nil {
				return 0, errors.Wrap(err, "write output")
			}
		}
		v, err := in.next()
		if err != nil {
			return 0, errors.WithMessagef(err, "at ip=%d", c.IP())
		}
		c.Input(v...)
	}
}

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

// The intcode command line tool runs and disassembles Intcode
// programs, and searches amplifier phase settings.
//
// Usage:
//
//	intcode run [flags] program
//	intcode disasm [--base address] program
//	intcode amp [--feedback] [--phases 0,1,2,3,4] program
//
// Flags of the run command:
//
//	-a, --ascii
//		  ASCII mode: feed stdin as character codes and print outputs < 128 as text
//	--debug
//		  enable debug diagnostics
//	--dump
//		  dump machine state and memory upon exit
//	-i, --input values
//		  comma separated input values (can be specified multiple times)
//	--log-file file
//		  also write JSON logs to file
//	--log-level level
//		  log level (debug, info, warn, error) (default "warn")
//	--max-steps n
//		  abort after n instructions (0 means no limit)
//	--metrics-file file
//		  write execution metrics in prometheus text format to file
//	-p, --patch addr=value
//		  set memory cell before running (can be specified multiple times)
//	--raw
//		  in ASCII mode, switch the terminal to raw mode
//
// Program files contain comma separated integers. Outputs are printed as they
// are produced, one line per batch, followed by the value at address 0 once the
// program halts.
//
// When the program waits for input and the --input values are exhausted, run
// reads a line of comma separated integers from stdin. In ASCII mode, it reads
// a line of text instead and feeds each byte to the program. With --raw, bytes
// are fed as they are typed and CTRL-D ends the input.
//
// --debug: print a full stack trace of errors.
//
// --log-level debug traces every executed instruction.
//
// The amp command runs the program on a chain of amplifiers, one per phase
// setting, and prints the highest output signal together with the phase
// settings that produced it. With --feedback, the output of the last amplifier
// is fed back to the first one until the last amplifier halts.
package main

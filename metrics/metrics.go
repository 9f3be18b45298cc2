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

// Package metrics exports Intcode execution counters to prometheus.
package metrics

import (
	"github.com/db47h/intcode/vm"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Namespace is the prometheus namespace of all metrics registered by a
// Collector.
const Namespace = "intcode"

// Collector counts the events reported by one or more Computers. Use it with
// vm.Observe.
type Collector struct {
	instructions *prometheus.CounterVec
	suspensions  prometheus.Counter
	halts        prometheus.Counter

	// one counter per valid opcode, resolved once
	byOp map[vm.Opcode]prometheus.Counter
}

var _ vm.Observer = (*Collector)(nil)

// NewCollector creates a new Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		instructions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "instructions_total",
			Help:      "Number of executed instructions by opcode.",
		}, []string{"opcode"}),
		suspensions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "input_suspensions_total",
			Help:      "Number of times a machine suspended waiting for input.",
		}),
		halts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "halts_total",
			Help:      "Number of halt instructions executed.",
		}),
		byOp: make(map[vm.Opcode]prometheus.Counter),
	}
	for _, col := range []prometheus.Collector{c.instructions, c.suspensions, c.halts} {
		if err := reg.Register(col); err != nil {
			return nil, errors.Wrap(err, "register metrics")
		}
	}
	for op := vm.Opcode(0); op <= vm.OpHalt; op++ {
		if op.Valid() {
			c.byOp[op] = c.instructions.WithLabelValues(op.String())
		}
	}
	return c, nil
}

// Executed implements vm.Observer.
func (c *Collector) Executed(op vm.Opcode) {
	if ctr, ok := c.byOp[op]; ok {
		ctr.Inc()
	}
}

// Suspended implements vm.Observer.
func (c *Collector) Suspended() {
	c.suspensions.Inc()
}

// Halted implements vm.Observer.
func (c *Collector) Halted() {
	c.halts.Inc()
}

//
// Copyright 2024 The mmport Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//

// Command mmportdemo wires two fake components together through a
// core-owned connection and drives a few buffers across it, printing
// each state transition. It exists to give the port core something to
// run outside of its test suite; it is a consumer of the core, not
// part of the core itself.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-mmport/port/bufpool"
	"github.com/go-mmport/port/component"
	"github.com/go-mmport/port/config"
	"github.com/go-mmport/port/mmlog"
	"github.com/go-mmport/port/port"
	"github.com/go-mmport/port/portstats"
)

var (
	flagBufferNum  int
	flagBufferSize int
	flagDebug      bool
	flagConfig     string
)

func init() {
	flag.IntVar(&flagBufferNum, "n", 0, "output buffer_num (0 = use config default)")
	flag.IntVar(&flagBufferSize, "s", 0, "output buffer_size (0 = use config default)")
	flag.BoolVar(&flagDebug, "debug", false, "enable debug logging of port state transitions")
	flag.StringVar(&flagConfig, "config", "", "path to a mmport.toml config file (default: search path)")
}

func main() {
	flag.Parse()
	mmlog.SetDebug(flagDebug)

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("mmportdemo: %v", err)
	}

	bufNum := uint32(flagBufferNum)
	if bufNum == 0 {
		bufNum = cfg.DefaultBufferNum
	}
	bufSize := uint32(flagBufferSize)
	if bufSize == 0 {
		bufSize = cfg.DefaultBufferSize
	}

	if err := run(bufNum, bufSize); err != nil {
		log.Fatalf("mmportdemo: %v", err)
	}
}

func loadConfig() (config.Config, error) {
	if flagConfig != "" {
		return config.LoadFrom(flagConfig)
	}
	return config.Load()
}

// run builds an output on one component and an input on another,
// connects them (letting the core own the connection and allocate the
// shared pool), enables the output, and sends bufNum buffers through
// it, printing rx/tx stats at the end.
func run(bufNum, bufSize uint32) error {
	encoder, err := component.NewFakeHost("encoder", 4, 256)
	if err != nil {
		return fmt.Errorf("allocating encoder host: %w", err)
	}
	muxer, err := component.NewFakeHost("muxer", 4, 256)
	if err != nil {
		return fmt.Errorf("allocating muxer host: %w", err)
	}

	worker := component.NewWorker()

	out, err := port.Alloc(encoder, port.Output, 0, port.Handlers{
		Enable:  func(*port.Port) error { return nil },
		Disable: func(*port.Port) error { return nil },
		Send: func(p *port.Port, buf *bufpool.BufferHeader) error {
			worker.Submit(func() { p.CompleteBuffer(buf) })
			return nil
		},
	}, nil)
	if err != nil {
		return fmt.Errorf("allocating output port: %w", err)
	}
	out.BufferNum, out.BufferNumMin = bufNum, bufNum
	out.BufferSize, out.BufferSizeMin = bufSize, bufSize

	inWorker := component.NewWorker()
	in, err := port.Alloc(muxer, port.Input, 0, port.Handlers{
		Enable:  func(*port.Port) error { return nil },
		Disable: func(*port.Port) error { return nil },
		Send: func(p *port.Port, buf *bufpool.BufferHeader) error {
			fmt.Printf("%s: received buffer (%d bytes)\n", p.Name(), len(buf.Data))
			inWorker.Submit(func() { p.CompleteBuffer(buf) })
			return nil
		},
	}, nil)
	if err != nil {
		return fmt.Errorf("allocating input port: %w", err)
	}
	in.BufferNum, in.BufferNumMin = 1, 1
	in.BufferSize, in.BufferSizeMin = 1, 1

	if err := port.Connect(out, in); err != nil {
		return fmt.Errorf("connecting ports: %w", err)
	}
	fmt.Printf("connected %s -> %s\n", out.Name(), in.Name())

	if err := out.Enable(nil); err != nil {
		return fmt.Errorf("enabling output: %w", err)
	}
	fmt.Printf("%s enabled with buffer_num=%d buffer_size=%d (input upgraded to match)\n",
		out.Name(), out.BufferNum, out.BufferSize)

	// Buffers now circulate: the output's worker completes a send, the
	// core forwards it to the input, the input's worker completes the
	// receive, and the core resubmits the buffer straight back to the
	// output as long as it stays enabled. Disable stops that cycle (it clears Enabled before the pool
	// callback can resubmit again) but still has to wait for whatever
	// is mid-flight in either worker's queue to drain, so it runs
	// concurrently with a drain loop that keeps both workers moving.
	disableDone := make(chan error, 1)
	go func() { disableDone <- out.Disable() }()

	for {
		ranSomething := worker.CompleteNext()
		ranSomething = inWorker.CompleteNext() || ranSomething
		select {
		case err := <-disableDone:
			if err != nil {
				return fmt.Errorf("disabling output: %w", err)
			}
			goto disabled
		default:
			if !ranSomething {
				time.Sleep(time.Millisecond)
			}
		}
	}
disabled:
	fmt.Printf("%s disabled\n", out.Name())

	var rx portstats.Param
	rx.Dir = portstats.RX
	if err := out.ParameterGet(port.CoreStatistics, &rx); err != nil {
		return fmt.Errorf("reading output rx stats: %w", err)
	}
	fmt.Printf("%s rx: %d buffers\n", out.Name(), rx.Stats.BufferCount)

	var tx portstats.Param
	tx.Dir = portstats.TX
	if err := in.ParameterGet(port.CoreStatistics, &tx); err != nil {
		return fmt.Errorf("reading input tx stats: %w", err)
	}
	fmt.Printf("%s tx: %d buffers\n", in.Name(), tx.Stats.BufferCount)

	if errs := encoder.Errors(); len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "encoder error event: %v\n", e)
		}
	}
	return nil
}

// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command m199-srv starts a TDAQ server driving an M199 module.
//
// While running, m199-srv periodically reads an SDRAM window of the
// module and publishes it on its /sdram output.
package main // import "github.com/go-lpc/m199/cmd/m199-srv"

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"time"

	"github.com/go-daq/tdaq"
	"github.com/go-daq/tdaq/flags"
	"github.com/go-lpc/m199/internal/board"
	"github.com/go-lpc/m199/m199"
)

func main() {
	var (
		src     = flag.String("desc", "m199.yaml", "path to descriptor file (or mysql:DBNAME)")
		devmem  = flag.String("dev-mem", "/dev/mem", "path to physical memory device")
		sim     = flag.Bool("sim", false, "use a simulated module")
		variant = flag.String("variant", m199.DefaultVariant.String(), "hardware variant (M199, M199_SW, M199_A24, M199_A24_SW)")
		offset  = flag.Uint("offset", 0, "byte offset of the SDRAM readout window")
		size    = flag.Uint("size", 2*m199.SDRAMBufferSize, "size in bytes of the SDRAM readout window")
		period  = flag.Duration("period", 100*time.Millisecond, "SDRAM readout period")
	)

	cmd := flags.New()
	if len(cmd.Args) != 1 {
		log.Fatalf("m199-srv: missing device name")
	}

	v, err := m199.ParseVariant(*variant)
	if err != nil {
		log.Fatalf("m199-srv: could not parse variant: %+v", err)
	}

	cfg := board.Config{DevMem: *devmem, Simulate: *sim, Variant: v}
	dev := newServer(*src, cmd.Args[0], cfg, os.Stdout)
	dev.Offset = uint32(*offset)
	dev.Size = uint32(*size)
	dev.Period = *period

	srv := tdaq.New(cmd, os.Stdout)
	srv.CmdHandle("/config", dev.OnConfig)
	srv.CmdHandle("/init", dev.OnInit)
	srv.CmdHandle("/reset", dev.OnReset)
	srv.CmdHandle("/start", dev.OnStart)
	srv.CmdHandle("/stop", dev.OnStop)
	srv.CmdHandle("/quit", dev.OnQuit)

	srv.OutputHandle("/sdram", dev.SDRAM)

	srv.RunHandle(dev.Run)

	err = srv.Run(context.Background())
	if err != nil {
		log.Panicf("error: %+v", err)
	}
}

func newServer(src, name string, cfg board.Config, w io.Writer) *m199.Server {
	return m199.NewServer(func() (*m199.Device, error) {
		b, err := board.Open(
			src, name, cfg,
			m199.WithLogger(log.New(w, "m199: ", 0)),
		)
		if err != nil {
			return nil, err
		}
		return b.Device, nil
	})
}

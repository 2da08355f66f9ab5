// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package m199

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-daq/tdaq"
	"github.com/go-lpc/m199/internal/regs"
)

// Server hosts an M199 device in a tdaq run-control process.
//
// While running, the server periodically reads an SDRAM window and
// publishes it, as an SDRAM block envelope, on its output.
type Server struct {
	mu   sync.Mutex // held for the duration of each device call
	open func() (*Device, error)
	dev  *Device

	// Offset is the byte offset of the SDRAM window read while running.
	Offset uint32
	// Size is the size, in bytes, of the SDRAM window read while running.
	Size uint32
	// Period is the readout period.
	Period time.Duration

	n    int
	data chan []byte
}

// NewServer returns a server opening its device with open at /config time.
func NewServer(open func() (*Device, error)) *Server {
	return &Server{
		open:   open,
		Size:   2 * SDRAMBufferSize,
		Period: 100 * time.Millisecond,
		data:   make(chan []byte, 1024),
	}
}

func (srv *Server) OnConfig(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /config command...")
	srv.mu.Lock()
	defer srv.mu.Unlock()

	if srv.dev != nil {
		_ = srv.dev.Close()
		srv.dev = nil
	}

	dev, err := srv.open()
	if err != nil {
		ctx.Msg.Errorf("could not open M199 device: %+v", err)
		return fmt.Errorf("could not open M199 device: %w", err)
	}
	srv.dev = dev

	for _, ident := range dev.IdentTable() {
		ctx.Msg.Infof("%s", ident())
	}
	return nil
}

func (srv *Server) OnInit(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /init command...")
	srv.mu.Lock()
	defer srv.mu.Unlock()

	if srv.dev == nil {
		return fmt.Errorf("m199: device not configured")
	}

	hdr := make([]uint16, regs.HDR_WORDS)
	err := srv.dev.ReadFPGAHeader(hdr)
	if err != nil {
		ctx.Msg.Errorf("could not read FPGA header: %+v", err)
		return fmt.Errorf("could not read FPGA header: %w", err)
	}
	ctx.Msg.Infof("FPGA image: %q", FPGAFileName(hdr))

	srv.reset()
	return srv.dev.SetLED(regs.LED_ALL_OFF)
}

func (srv *Server) OnReset(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /reset command...")
	srv.mu.Lock()
	defer srv.mu.Unlock()

	srv.reset()
	if srv.dev == nil {
		return nil
	}
	return srv.dev.SetLED(regs.LED_ALL_OFF)
}

func (srv *Server) OnStart(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /start command...")
	srv.mu.Lock()
	defer srv.mu.Unlock()

	if srv.dev == nil {
		return fmt.Errorf("m199: device not configured")
	}
	// LEDs are active-low: light LED 0 while running.
	return srv.dev.SetLED(regs.LED_ALL_OFF &^ 0x1)
}

func (srv *Server) OnStop(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	ctx.Msg.Debugf("received /stop command... -> n=%d", srv.n)
	if srv.dev == nil {
		return nil
	}
	return srv.dev.SetLED(regs.LED_ALL_OFF)
}

func (srv *Server) OnQuit(ctx tdaq.Context, resp *tdaq.Frame, req tdaq.Frame) error {
	ctx.Msg.Debugf("received /quit command...")
	srv.mu.Lock()
	defer srv.mu.Unlock()

	if srv.dev == nil {
		return nil
	}
	err := srv.dev.Close()
	srv.dev = nil
	if err != nil {
		ctx.Msg.Errorf("could not close M199 device: %+v", err)
		return fmt.Errorf("could not close M199 device: %w", err)
	}
	return nil
}

// SDRAM is the output handler publishing SDRAM windows.
func (srv *Server) SDRAM(ctx tdaq.Context, dst *tdaq.Frame) error {
	select {
	case <-ctx.Ctx.Done():
		dst.Body = nil
		return nil
	case data := <-srv.data:
		dst.Body = data
	}
	return nil
}

// Run reads the SDRAM window every Period until ctx is done.
func (srv *Server) Run(ctx tdaq.Context) error {
	tick := time.NewTicker(srv.Period)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Ctx.Done():
			return nil
		case <-tick.C:
			data, err := srv.readout()
			if err != nil {
				ctx.Msg.Errorf("could not read SDRAM: %+v", err)
				return fmt.Errorf("could not read SDRAM: %w", err)
			}
			select {
			case srv.data <- data:
			default:
				ctx.Msg.Warnf("output queue full: dropping SDRAM window")
			}
		}
	}
}

func (srv *Server) readout() ([]byte, error) {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	if srv.dev == nil {
		return nil, fmt.Errorf("m199: device not configured")
	}

	acc := SDRAMAccess{Offset: srv.Offset, Size: srv.Size}
	blk := acc.Block()
	err := srv.dev.GetBlock(0, CodeBlkSDRAM, blk)
	if err != nil {
		return nil, err
	}
	srv.n++
	return blk.Data[:blk.Size], nil
}

func (srv *Server) reset() {
	srv.n = 0
	srv.data = make(chan []byte, cap(srv.data))
}

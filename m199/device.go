// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package m199

import (
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	mod "github.com/go-lpc/m199"
	"github.com/go-lpc/m199/desc"
	"github.com/go-lpc/m199/internal/regs"
)

const (
	chNumber   = 1               // number of channels
	idSize     = regs.ID_SIZE    // ID PROM size, in bytes
	handleSize = SDRAMBufferSize // handle storage, in words
	usmDelay   = 12 * time.Millisecond
)

// IdentFunc returns the ident string of a driver component.
type IdentFunc func() string

// Ident identifies the M199 driver.
func Ident() string {
	v, _ := mod.Version()
	if v == "" {
		v = "(devel)"
	}
	return fmt.Sprintf("m199: M199 driver %s", v)
}

// Device is an open M199 module.
//
// A Device is not safe for concurrent use: callers must serialize calls.
type Device struct {
	msg *log.Logger
	dbg uint32 // debug level

	variant Variant
	dsc     desc.Reader
	win     Window
	bus     *bus
	regs    pins
	sdram   sdramAccess
	delay   func(time.Duration)

	alloc    Allocator
	mem      []uint16 // handle storage, staging area for block transfers
	memAlloc int      // size of mem, in words

	idCheck  uint32
	irqCount uint32

	ident  []IdentFunc
	closed bool
}

type debugLeveler interface {
	SetDebugLevel(lvl uint32, msg *log.Logger)
}

type identer interface {
	Ident() string
}

// Open initializes the module behind the register window win,
// configured with the descriptor dsc.
//
// Open takes ownership of dsc, and of win when it is an io.Closer:
// they are closed on failure, or when the returned Device is closed.
func Open(dsc desc.Reader, win Window, opts ...Option) (*Device, error) {
	if dsc == nil {
		return nil, fmt.Errorf("m199: nil descriptor")
	}

	cfg := newConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	dev := &Device{
		msg:     cfg.msg,
		dbg:     DefaultDebugLevel,
		variant: cfg.variant,
		dsc:     dsc,
		win:     win,
		sdram:   cfg.variant.sdram(),
		delay:   cfg.delay,
		alloc:   cfg.alloc,
		idCheck: 1,
	}

	err := dev.init(win)
	if err != nil {
		_ = dev.cleanup()
		return nil, err
	}

	return dev, nil
}

func (dev *Device) init(win Window) error {
	mem, err := dev.alloc.Alloc(handleSize)
	if err != nil {
		return fmt.Errorf("%w (%v)", ErrAlloc, err)
	}
	dev.mem = mem
	dev.memAlloc = len(mem)
	if dev.memAlloc < handleSize {
		return fmt.Errorf("%w (got %d words, want %d)", ErrAlloc, dev.memAlloc, handleSize)
	}

	if win == nil {
		return fmt.Errorf("m199: nil register window")
	}
	dev.bus = newBus(win, dev.variant.Swap)
	dev.regs.bind(dev.bus)

	dev.ident = []IdentFunc{Ident}
	for _, v := range []interface{}{dev.dsc, win} {
		if id, ok := v.(identer); ok {
			dev.ident = append(dev.ident, id.Ident)
		}
	}

	lvl, err := dev.lookup("DEBUG_LEVEL_DESC", DefaultDebugLevel)
	if err != nil {
		return err
	}
	if dsc, ok := dev.dsc.(debugLeveler); ok {
		dsc.SetDebugLevel(lvl, dev.msg)
	}

	dev.dbg, err = dev.lookup("DEBUG_LEVEL", DefaultDebugLevel)
	if err != nil {
		return err
	}
	dev.debugf(DbgLev1, "init: variant=%v", dev.variant)

	dev.idCheck, err = dev.lookup("ID_CHECK", 1)
	if err != nil {
		return err
	}
	if dev.idCheck != 0 {
		err = dev.checkID()
		if err != nil {
			return err
		}
	}

	led, err := dev.lookup("LED", regs.LED_ALL_OFF)
	if err != nil {
		return err
	}
	dev.setLED(led)

	err = dev.bus.flush()
	if err != nil {
		return fmt.Errorf("m199: could not initialize module: %w", err)
	}

	return nil
}

// lookup reads key from the descriptor, falling back to def
// when the key is absent.
func (dev *Device) lookup(key string, def uint32) (uint32, error) {
	v, err := dev.dsc.Uint32(key, def)
	switch {
	case err == nil:
		return v, nil
	case errors.Is(err, desc.ErrKeyNotFound):
		return def, nil
	default:
		dev.errorf("init: descriptor error %q: %+v", key, err)
		return 0, fmt.Errorf("m199: could not read descriptor key %q: %w", key, err)
	}
}

func (dev *Device) checkID() error {
	magic := dev.regs.idprom.Read(0)
	modid := dev.regs.idprom.Read(1)
	err := dev.bus.flush()
	if err != nil {
		return fmt.Errorf("m199: could not read module identification: %w", err)
	}

	if magic != regs.ID_MAGIC || modid != regs.ID_MODULE {
		dev.errorf("init: illegal module id: magic=0x%04x, id=%d", magic, modid)
		return fmt.Errorf(
			"m199: magic=0x%04x, id=%d (want magic=0x%04x, id=%d): %w",
			magic, modid, regs.ID_MAGIC, regs.ID_MODULE, ErrIllegalID,
		)
	}
	return nil
}

// cleanup closes the descriptor and the register window, and releases
// the handle storage.
func (dev *Device) cleanup() error {
	var err error
	if dev.dsc != nil {
		err = dev.dsc.Close()
		dev.dsc = nil
		if err != nil {
			err = fmt.Errorf("m199: could not close descriptor: %w", err)
		}
	}
	if c, ok := dev.win.(io.Closer); ok {
		e := c.Close()
		if e != nil && err == nil {
			err = fmt.Errorf("m199: could not close register window: %w", e)
		}
	}
	dev.win = nil
	if dev.mem != nil {
		dev.alloc.Free(dev.mem)
		dev.mem = nil
		dev.memAlloc = 0
	}
	return err
}

// Close releases the resources held by the device.
func (dev *Device) Close() error {
	if dev == nil || dev.closed {
		return ErrClosed
	}
	dev.debugf(DbgLev1, "exit")
	dev.closed = true
	dev.bus = nil
	return dev.cleanup()
}

// Variant returns the hardware variant of the device.
func (dev *Device) Variant() Variant { return dev.variant }

// IdentTable returns the ident functions of the driver and of its
// descriptor and register window.
func (dev *Device) IdentTable() []IdentFunc {
	o := make([]IdentFunc, len(dev.ident))
	copy(o, dev.ident)
	return o
}

// call runs f and reports the first register access error.
func (dev *Device) call(f func() error) error {
	if dev == nil || dev.closed {
		return ErrClosed
	}
	err := f()
	if e := dev.bus.flush(); e != nil && err == nil {
		dev.errorf("%+v", e)
		err = e
	}
	return err
}

// Read is not supported by the M199: it performs no transfer.
func (dev *Device) Read(ch int) (int32, error) {
	dev.errorf("read: not supported")
	return 0, nil
}

// Write is not supported by the M199: it performs no transfer.
func (dev *Device) Write(ch int, v int32) error {
	dev.errorf("write: not supported")
	return nil
}

// BlockRead is not supported by the M199: it performs no transfer.
func (dev *Device) BlockRead(ch int, p []byte) (int, error) {
	dev.errorf("block-read: not supported")
	return 0, nil
}

// BlockWrite is not supported by the M199: it performs no transfer.
func (dev *Device) BlockWrite(ch int, p []byte) (int, error) {
	dev.errorf("block-write: not supported")
	return 0, nil
}

// LED returns the LED register.
func (dev *Device) LED() (uint32, error) {
	var v uint32
	err := dev.call(func() error {
		v = dev.led()
		return nil
	})
	return v, err
}

// SetLED sets the LED register to v&0x7F.
func (dev *Device) SetLED(v uint32) error {
	return dev.call(func() error {
		dev.setLED(v)
		return nil
	})
}

func (dev *Device) led() uint32 {
	return uint32(dev.regs.led.r()) & regs.LED_MASK
}

func (dev *Device) setLED(v uint32) {
	dev.regs.led.w(uint16(v & regs.LED_MASK))
}

// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package m199

import (
	"encoding/binary"
	"fmt"
)

// bus performs 16- and 32-bit accesses on a register window.
//
// The module datapath is big-endian. When the byte lanes are swapped,
// every 16-bit transfer is additionally byte-swapped.
// The first access error is sticky: later accesses are skipped
// until the error is flushed.
type bus struct {
	rw    Window
	order binary.ByteOrder // module byte order
	raw   binary.ByteOrder // host byte order

	err  error
	xbuf [2]byte
}

func newBus(rw Window, swap bool) *bus {
	b := &bus{
		rw:    rw,
		order: binary.BigEndian,
		raw:   binary.LittleEndian,
	}
	if swap {
		b.order, b.raw = b.raw, b.order
	}
	return b
}

func (b *bus) read(order binary.ByteOrder, off int64) uint16 {
	if b.err != nil {
		return 0
	}
	_, b.err = b.rw.ReadAt(b.xbuf[:2], off)
	if b.err != nil {
		b.err = fmt.Errorf("m199: could not read register 0x%x: %w", off, b.err)
		return 0
	}
	return order.Uint16(b.xbuf[:2])
}

func (b *bus) read16(off int64) uint16 {
	return b.read(b.order, off)
}

// read16raw reads a 16-bit word in host byte order.
func (b *bus) read16raw(off int64) uint16 {
	return b.read(b.raw, off)
}

func (b *bus) write16(off int64, v uint16) {
	if b.err != nil {
		return
	}
	b.order.PutUint16(b.xbuf[:2], v)
	_, b.err = b.rw.WriteAt(b.xbuf[:2], off)
	if b.err != nil {
		b.err = fmt.Errorf("m199: could not write register 0x%x: %w", off, b.err)
	}
}

func (b *bus) read32(off int64) uint32 {
	lo := b.read16(off)
	hi := b.read16(off + 2)
	return uint32(hi)<<16 | uint32(lo)
}

func (b *bus) write32(off int64, v uint32) {
	b.write16(off, uint16(v))
	b.write16(off+2, uint16(v>>16))
}

// flush returns and clears the sticky error.
func (b *bus) flush() error {
	err := b.err
	b.err = nil
	return err
}

// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package m199

import (
	"io"

	"github.com/go-lpc/m199/internal/microwire"
	"github.com/go-lpc/m199/internal/regs"
)

// Window is the mapped register window of a module.
type Window interface {
	io.ReaderAt
	io.WriterAt
}

type reg16 struct {
	r func() uint16
	w func(v uint16)
}

func newReg16(b *bus, offset int64) reg16 {
	return reg16{
		r: func() uint16 {
			return b.read16(offset)
		},
		w: func(v uint16) {
			b.write16(offset, v)
		},
	}
}

// Read implements microwire.Port.
func (reg reg16) Read() uint16 { return reg.r() }

// Write implements microwire.Port.
func (reg reg16) Write(v uint16) { reg.w(v) }

type reg32 struct {
	r func() uint32
	w func(v uint32)
}

func newReg32(b *bus, offset int64) reg32 {
	return reg32{
		r: func() uint32 {
			return b.read32(offset)
		},
		w: func(v uint32) {
			b.write32(offset, v)
		},
	}
}

type pins struct {
	led reg16
	ier reg32
	irr reg32

	flash struct {
		addr reg32
		data reg16
	}

	usm    *microwire.EEPROM
	idprom *microwire.EEPROM
}

var uwire = microwire.Lines{
	DAT: regs.UWIRE_DAT,
	CLK: regs.UWIRE_CLK,
	CS:  regs.UWIRE_CS,
}

func (p *pins) bind(b *bus) {
	p.led = newReg16(b, regs.LED_REG)
	p.ier = newReg32(b, regs.IRQ_IER)
	p.irr = newReg32(b, regs.IRQ_IRR)

	p.flash.addr = newReg32(b, regs.FLASH_ADDR)
	p.flash.data = newReg16(b, regs.FLASH_DATA)

	p.usm = microwire.New(newReg16(b, regs.USM_PROM), uwire, regs.USM_ADDR_BITS)
	p.idprom = microwire.New(newReg16(b, regs.ID_PROM), uwire, regs.ID_ADDR_BITS)
}

var _ microwire.Port = (*reg16)(nil)

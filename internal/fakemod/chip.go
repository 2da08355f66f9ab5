// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fakemod

import (
	"github.com/go-lpc/m199/internal/regs"
)

const (
	stIdle = iota
	stOpcode
	stAddr
	stData
	stRead
	stDone
)

// Chip emulates the device side of a 93Cxx microwire serial EEPROM,
// organized in 16-bit words.
type Chip struct {
	Words []uint16

	// Programmed counts the number of words written or erased.
	Programmed int

	nbits int
	prev  uint16

	state int
	shift uint32
	n     int
	op    uint32
	addr  int
	ewen  bool

	out  uint16
	oidx int
	dout bool
}

// NewChip returns an erased EEPROM with n words and addrBits address bits.
func NewChip(n, addrBits int) *Chip {
	c := &Chip{
		Words: make([]uint16, n),
		nbits: addrBits,
	}
	for i := range c.Words {
		c.Words[i] = 0xffff
	}
	return c
}

// Drive applies the register value v to the chip input lines.
func (c *Chip) Drive(v uint16) {
	if v&regs.UWIRE_CS == 0 {
		c.reset()
		c.prev = v
		return
	}
	rising := v&regs.UWIRE_CLK != 0 && c.prev&regs.UWIRE_CLK == 0
	c.prev = v
	if !rising {
		return
	}

	bit := uint32(v & regs.UWIRE_DAT)
	switch c.state {
	case stIdle:
		if bit == 1 {
			c.state = stOpcode
			c.shift = 0
			c.n = 0
		}
	case stOpcode:
		c.shift = c.shift<<1 | bit
		c.n++
		if c.n == 2 {
			c.op = c.shift
			c.state = stAddr
			c.shift = 0
			c.n = 0
		}
	case stAddr:
		c.shift = c.shift<<1 | bit
		c.n++
		if c.n == c.nbits {
			c.addr = int(c.shift)
			c.exec()
		}
	case stData:
		c.shift = c.shift<<1 | bit
		c.n++
		if c.n == 16 {
			if c.ewen {
				c.Words[c.addr%len(c.Words)] = uint16(c.shift)
				c.Programmed++
			}
			c.state = stDone
		}
	case stRead:
		c.oidx++
		c.dout = c.oidx < 16 && (c.out>>(15-c.oidx))&1 == 1
	case stDone:
		// wait for chip deselect.
	}
}

// Sense returns the chip output line as a register value.
func (c *Chip) Sense() uint16 {
	if c.dout {
		return regs.UWIRE_DAT
	}
	return 0
}

func (c *Chip) exec() {
	switch c.op {
	case 0x2: // READ
		c.state = stRead
		c.out = c.Words[c.addr%len(c.Words)]
		c.oidx = -1
		c.dout = false // dummy bit
	case 0x1: // WRITE
		c.state = stData
		c.shift = 0
		c.n = 0
	case 0x3: // ERASE
		if c.ewen {
			c.Words[c.addr%len(c.Words)] = 0xffff
			c.Programmed++
		}
		c.state = stDone
	case 0x0:
		switch c.addr >> (c.nbits - 2) {
		case 0x3: // EWEN
			c.ewen = true
		case 0x0: // EWDS
			c.ewen = false
		case 0x2: // ERAL
			if c.ewen {
				for i := range c.Words {
					c.Words[i] = 0xffff
				}
				c.Programmed += len(c.Words)
			}
		}
		c.state = stDone
	}
}

func (c *Chip) reset() {
	c.state = stIdle
	c.shift = 0
	c.n = 0
	c.dout = false
}

// Enabled reports whether the chip accepts write commands.
func (c *Chip) Enabled() bool { return c.ewen }

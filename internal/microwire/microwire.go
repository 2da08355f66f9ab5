// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package microwire implements the 93Cxx serial EEPROM protocol
// over a single bit-banged register.
//
// The register carries three lines: chip select, clock and a data line
// used both to shift bits into the EEPROM and to sense its output.
// Memories are organized in 16-bit words.
package microwire // import "github.com/go-lpc/m199/internal/microwire"

// Port is the register carrying the microwire lines.
type Port interface {
	Read() uint16
	Write(v uint16)
}

// Lines maps the microwire signals onto register bits.
type Lines struct {
	DAT uint16 // data in/out
	CLK uint16 // clock
	CS  uint16 // chip select
}

const (
	opExt   = 0x0 // EWEN, EWDS, ERAL, WRAL (selected by the 2 MSBs of the address)
	opWrite = 0x1
	opRead  = 0x2
	opErase = 0x3
)

// EEPROM is a 93Cxx serial EEPROM.
type EEPROM struct {
	port  Port
	lines Lines
	nbits int
}

// New returns an EEPROM driven through port, with addrBits address bits.
func New(port Port, lines Lines, addrBits int) *EEPROM {
	return &EEPROM{
		port:  port,
		lines: lines,
		nbits: addrBits,
	}
}

// Len returns the number of addressable words.
func (e *EEPROM) Len() int { return 1 << e.nbits }

// Read reads the word at addr.
func (e *EEPROM) Read(addr int) uint16 {
	e.start(opRead, addr)
	var v uint16
	for i := 0; i < 16; i++ {
		v = v<<1 | e.clockIn()
	}
	e.deselect()
	return v
}

// Write enables writes and programs v at addr.
// The write cycle starts when the chip is deselected: callers must wait
// for its completion before issuing the next command.
func (e *EEPROM) Write(addr int, v uint16) {
	e.command(opExt, 0x3<<(e.nbits-2)) // EWEN

	e.start(opWrite, addr)
	for i := 15; i >= 0; i-- {
		e.clockOut(v>>i&1 == 1)
	}
	e.deselect()
}

// Erase enables writes and erases the word at addr.
func (e *EEPROM) Erase(addr int) {
	e.command(opExt, 0x3<<(e.nbits-2)) // EWEN
	e.command(opErase, addr)
}

// Lock disables writes.
func (e *EEPROM) Lock() {
	e.command(opExt, 0) // EWDS
}

func (e *EEPROM) command(op uint16, addr int) {
	e.start(op, addr)
	e.deselect()
}

func (e *EEPROM) start(op uint16, addr int) {
	e.port.Write(e.lines.CS)
	e.clockOut(true) // start bit
	e.clockOut(op&0x2 != 0)
	e.clockOut(op&0x1 != 0)
	for i := e.nbits - 1; i >= 0; i-- {
		e.clockOut((addr>>i)&1 == 1)
	}
}

func (e *EEPROM) deselect() {
	e.port.Write(0)
}

func (e *EEPROM) clockOut(bit bool) {
	v := e.lines.CS
	if bit {
		v |= e.lines.DAT
	}
	e.port.Write(v)
	e.port.Write(v | e.lines.CLK)
	e.port.Write(v)
}

func (e *EEPROM) clockIn() uint16 {
	e.port.Write(e.lines.CS | e.lines.CLK)
	bit := e.port.Read() & e.lines.DAT
	e.port.Write(e.lines.CS)
	if bit != 0 {
		return 1
	}
	return 0
}

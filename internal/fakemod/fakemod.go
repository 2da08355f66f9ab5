// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fakemod simulates the register window of an M199 module.
package fakemod // import "github.com/go-lpc/m199/internal/fakemod"

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/go-lpc/m199/internal/regs"
)

// Config describes the simulated hardware.
type Config struct {
	Wide    bool // SDRAM linearly mapped in an A24 window
	Swapped bool // byte lanes swapped between host and module
}

// Access is one traced register access.
type Access struct {
	Write bool
	Off   int64
	Value uint16
}

func (acc Access) String() string {
	op := "r"
	if acc.Write {
		op = "w"
	}
	return fmt.Sprintf("%s@0x%x=0x%04x", op, acc.Off, acc.Value)
}

// Module is a simulated M199 register window.
// Module implements io.ReaderAt and io.WriterAt with 16-bit accesses only.
type Module struct {
	cfg   Config
	order binary.ByteOrder

	LED uint16
	IRR uint32
	IER uint32

	SDRAM map[uint32]uint16 // SDRAM words, keyed by byte offset
	Flash []uint16          // FPGA header image

	IDProm *Chip
	USM    *Chip

	sdramAddr uint32
	flashAddr uint32
	flashRead bool

	Reads  int // number of register reads
	Writes int // number of register writes

	Tracing bool
	Trace   []Access

	// Fail, when set, makes every access fail with this error.
	Fail error
}

// New returns a simulated module with a valid ID PROM,
// an erased USM EEPROM and a default FPGA header.
func New(cfg Config) *Module {
	m := &Module{
		cfg:    cfg,
		order:  binary.BigEndian,
		LED:    0x7f,
		SDRAM:  make(map[uint32]uint16),
		Flash:  make([]uint16, regs.HDR_WORDS),
		IDProm: NewChip(regs.ID_SIZE/2, regs.ID_ADDR_BITS),
		USM:    NewChip(regs.USM_WORDS, regs.USM_ADDR_BITS),
	}
	if cfg.Swapped {
		m.order = binary.LittleEndian
	}

	m.IDProm.Words[0] = regs.ID_MAGIC
	m.IDProm.Words[1] = regs.ID_MODULE
	m.IDProm.Words[2] = 0x0001 // revision
	m.IDProm.Words[3] = 0x0042 // serial number

	for i := range m.Flash {
		m.Flash[i] = 0xffff
	}
	m.SetHeader(0x1234, "m199_fake.rbf")
	return m
}

// SetHeader writes an FPGA header holding the given magic word and file name.
// The name is stored in words 2..15 as seen by the driver, two characters
// per word, first character in the high byte.
func (m *Module) SetHeader(magic uint16, name string) {
	// the driver byte-swaps header words.
	m.Flash[0] = swap16(magic)
	m.Flash[1] = swap16(uint16(len(name)))
	raw := make([]byte, 28)
	copy(raw, name)
	for i := 0; i < 14; i++ {
		w := uint16(raw[2*i])<<8 | uint16(raw[2*i+1])
		m.Flash[2+i] = swap16(w)
	}
}

func swap16(v uint16) uint16 { return v>>8 | v<<8 }

// Reset clears the access counters and the trace.
func (m *Module) Reset() {
	m.Reads = 0
	m.Writes = 0
	m.Trace = m.Trace[:0]
}

// Accesses returns the total number of register accesses.
func (m *Module) Accesses() int { return m.Reads + m.Writes }

// Ident identifies the simulated window.
func (m *Module) Ident() string {
	return fmt.Sprintf("fakemod: wide=%v swapped=%v", m.cfg.Wide, m.cfg.Swapped)
}

// ReadAt implements io.ReaderAt.
func (m *Module) ReadAt(p []byte, off int64) (int, error) {
	m.Reads++
	if m.Fail != nil {
		return 0, m.Fail
	}
	if err := m.check(p, off); err != nil {
		return 0, err
	}
	v := m.read(off)
	m.order.PutUint16(p, v)
	if m.Tracing {
		m.Trace = append(m.Trace, Access{Off: off, Value: v})
	}
	return len(p), nil
}

// WriteAt implements io.WriterAt.
func (m *Module) WriteAt(p []byte, off int64) (int, error) {
	m.Writes++
	if m.Fail != nil {
		return 0, m.Fail
	}
	if err := m.check(p, off); err != nil {
		return 0, err
	}
	v := m.order.Uint16(p)
	if m.Tracing {
		m.Trace = append(m.Trace, Access{Write: true, Off: off, Value: v})
	}
	m.write(off, v)
	return len(p), nil
}

func (m *Module) check(p []byte, off int64) error {
	if len(p) != 2 {
		return fmt.Errorf("fakemod: invalid access size %d at 0x%x", len(p), off)
	}
	if off < 0 || off%2 != 0 {
		return fmt.Errorf("fakemod: invalid access offset 0x%x", off)
	}
	size := int64(regs.A08_SIZE)
	if m.cfg.Wide {
		size = regs.A24_SIZE
	}
	if off >= size {
		return fmt.Errorf("fakemod: access at 0x%x: %w", off, io.EOF)
	}
	return nil
}

func (m *Module) read(off int64) uint16 {
	switch off {
	case regs.IRQ_IRR:
		return uint16(m.IRR)
	case regs.IRQ_IRR + 2:
		return uint16(m.IRR >> 16)
	case regs.IRQ_IER:
		return uint16(m.IER)
	case regs.IRQ_IER + 2:
		return uint16(m.IER >> 16)
	case regs.LED_REG:
		// unused upper bits float high.
		return m.LED | 0xff80
	case regs.SDRAM_ADDR:
		return uint16(m.sdramAddr)
	case regs.SDRAM_ADDR + 2:
		return uint16(m.sdramAddr >> 16)
	case regs.SDRAM_DATA:
		v := m.SDRAM[m.sdramAddr]
		m.sdramAddr += 2
		return v
	case regs.FLASH_ADDR:
		return uint16(m.flashAddr)
	case regs.FLASH_ADDR + 2:
		return uint16(m.flashAddr >> 16)
	case regs.FLASH_DATA:
		if !m.flashRead {
			return 0x0080 // status: ready
		}
		i := int(m.flashAddr / 2)
		if i >= len(m.Flash) {
			return 0xffff
		}
		return m.Flash[i]
	case regs.USM_PROM:
		return m.USM.Sense()
	case regs.ID_PROM:
		return m.IDProm.Sense()
	}
	if m.cfg.Wide {
		return m.SDRAM[uint32(off)]
	}
	return 0xffff
}

func (m *Module) write(off int64, v uint16) {
	switch off {
	case regs.IRQ_IRR:
		m.IRR = m.IRR&0xffff0000 | uint32(v)
	case regs.IRQ_IRR + 2:
		m.IRR = m.IRR&0x0000ffff | uint32(v)<<16
	case regs.IRQ_IER:
		m.IER = m.IER&0xffff0000 | uint32(v)
	case regs.IRQ_IER + 2:
		m.IER = m.IER&0x0000ffff | uint32(v)<<16
	case regs.LED_REG:
		m.LED = v & regs.LED_MASK
	case regs.SDRAM_ADDR:
		m.sdramAddr = m.sdramAddr&0xffff0000 | uint32(v)
	case regs.SDRAM_ADDR + 2:
		m.sdramAddr = m.sdramAddr&0x0000ffff | uint32(v)<<16
	case regs.SDRAM_DATA:
		m.SDRAM[m.sdramAddr] = v
		m.sdramAddr += 2
	case regs.FLASH_ADDR:
		m.flashAddr = m.flashAddr&0xffff0000 | uint32(v)
	case regs.FLASH_ADDR + 2:
		m.flashAddr = m.flashAddr&0x0000ffff | uint32(v)<<16
	case regs.FLASH_DATA:
		m.flashRead = v == regs.FLASH_READ_MODE
	case regs.USM_PROM:
		m.USM.Drive(v)
	case regs.ID_PROM:
		m.IDProm.Drive(v)
	default:
		if m.cfg.Wide {
			m.SDRAM[uint32(off)] = v
		}
	}
}

var (
	_ io.ReaderAt = (*Module)(nil)
	_ io.WriterAt = (*Module)(nil)
)

// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package m199

import (
	"fmt"
	"math/bits"
	"strings"

	"github.com/go-lpc/m199/internal/regs"
)

// ReadSDRAM reads len(p) words from the SDRAM, starting at the byte offset off.
func (dev *Device) ReadSDRAM(off uint32, p []uint16) error {
	return dev.call(func() error {
		if len(p) > SDRAMBufferSize {
			return fmt.Errorf("m199: SDRAM read of %d words (max=%d): %w", len(p), SDRAMBufferSize, ErrUserBuf)
		}
		dev.sdram.read(dev.bus, off, p)
		return nil
	})
}

// WriteSDRAM writes p to the SDRAM, starting at the byte offset off.
func (dev *Device) WriteSDRAM(off uint32, p []uint16) error {
	return dev.call(func() error {
		if len(p) > SDRAMBufferSize {
			return fmt.Errorf("m199: SDRAM write of %d words (max=%d): %w", len(p), SDRAMBufferSize, ErrUserBuf)
		}
		dev.sdram.write(dev.bus, off, p)
		return nil
	})
}

func (dev *Device) getSDRAM(blk *Block) error {
	off, size, err := sdramHeader(blk)
	if err != nil {
		dev.errorf("get SDRAM: %+v", err)
		return err
	}
	dev.debugf(DbgLev2, "get SDRAM: off=0x%08x size=%d", off, size)

	p := dev.mem[:size/2]
	dev.sdram.read(dev.bus, off, p)
	blk.putWords(SDRAMAccessMinSize, p)
	return nil
}

func (dev *Device) setSDRAM(blk *Block) error {
	off, size, err := sdramHeader(blk)
	if err != nil {
		dev.errorf("set SDRAM: %+v", err)
		return err
	}
	dev.debugf(DbgLev2, "set SDRAM: off=0x%08x size=%d", off, size)

	p := dev.mem[:size/2]
	blk.getWords(SDRAMAccessMinSize, p)
	dev.sdram.write(dev.bus, off, p)
	return nil
}

// ReadUSM reads the 128 words of the USM EEPROM into p.
func (dev *Device) ReadUSM(p []uint16) error {
	return dev.call(func() error {
		if len(p) < regs.USM_WORDS {
			return fmt.Errorf("m199: USM buffer too small (len=%d, need=%d): %w", len(p), regs.USM_WORDS, ErrUserBuf)
		}
		dev.readUSM(p[:regs.USM_WORDS])
		return nil
	})
}

// WriteUSM programs the 128 first words of p into the USM EEPROM.
// WriteUSM waits 12ms after each word.
func (dev *Device) WriteUSM(p []uint16) error {
	return dev.call(func() error {
		if len(p) < regs.USM_WORDS {
			return fmt.Errorf("m199: USM buffer too small (len=%d, need=%d): %w", len(p), regs.USM_WORDS, ErrUserBuf)
		}
		dev.writeUSM(p[:regs.USM_WORDS])
		return nil
	})
}

func (dev *Device) getUSM(blk *Block) error {
	err := blk.check(2 * regs.USM_WORDS)
	if err != nil {
		dev.errorf("get USM: %+v", err)
		return err
	}
	p := dev.mem[:regs.USM_WORDS]
	dev.readUSM(p)
	blk.putWords(0, p)
	return nil
}

func (dev *Device) setUSM(blk *Block) error {
	err := blk.check(2 * regs.USM_WORDS)
	if err != nil {
		dev.errorf("set USM: %+v", err)
		return err
	}
	p := dev.mem[:regs.USM_WORDS]
	blk.getWords(0, p)
	dev.writeUSM(p)
	return nil
}

func (dev *Device) readUSM(p []uint16) {
	for i := range p {
		p[i] = dev.regs.usm.Read(i)
	}
}

func (dev *Device) writeUSM(p []uint16) {
	for i, v := range p {
		dev.regs.usm.Write(i, v)
		if dev.bus.err != nil {
			return
		}
		dev.delay(usmDelay)
	}
	dev.regs.usm.Lock()
}

// ReadFPGAHeader reads the 128 words of the FPGA header stored in flash into p.
func (dev *Device) ReadFPGAHeader(p []uint16) error {
	return dev.call(func() error {
		if len(p) < regs.HDR_WORDS {
			return fmt.Errorf("m199: header buffer too small (len=%d, need=%d): %w", len(p), regs.HDR_WORDS, ErrUserBuf)
		}
		dev.readHeader(p[:regs.HDR_WORDS])
		return nil
	})
}

func (dev *Device) getFPGAHeader(blk *Block) error {
	err := blk.check(2 * regs.HDR_WORDS)
	if err != nil {
		dev.errorf("get FPGA header: %+v", err)
		return err
	}
	p := dev.mem[:regs.HDR_WORDS]
	dev.readHeader(p)
	blk.putWords(0, p)
	return nil
}

func (dev *Device) readHeader(p []uint16) {
	dev.regs.flash.addr.w(0)
	dev.regs.flash.data.w(regs.FLASH_READ_MODE)
	for i := range p {
		dev.regs.flash.addr.w(uint32(2 * i))
		p[i] = bits.ReverseBytes16(dev.regs.flash.data.r())
	}
}

// FPGAFileName returns the name of the FPGA image file recorded in
// the header hdr (words 2 to 15, first character in the high byte).
func FPGAFileName(hdr []uint16) string {
	const (
		beg = 2
		end = 16
	)
	if len(hdr) < end {
		return ""
	}
	raw := make([]byte, 0, 2*(end-beg))
	for _, w := range hdr[beg:end] {
		raw = append(raw, byte(w>>8), byte(w))
	}
	for i, c := range raw {
		if c == 0x00 || c == 0xff {
			raw = raw[:i]
			break
		}
	}
	return string(raw)
}

// ReadIDData reads the 64 words of the ID PROM into p.
func (dev *Device) ReadIDData(p []uint16) error {
	return dev.call(func() error {
		const n = idSize / 2
		if len(p) < n {
			return fmt.Errorf("m199: ID buffer too small (len=%d, need=%d): %w", len(p), n, ErrUserBuf)
		}
		dev.readID(p[:n])
		return nil
	})
}

func (dev *Device) getIDData(blk *Block) error {
	err := blk.check(idSize)
	if err != nil {
		dev.errorf("get ID data: %+v", err)
		return err
	}
	p := dev.mem[:idSize/2]
	dev.readID(p)
	blk.putWords(0, p)
	return nil
}

func (dev *Device) readID(p []uint16) {
	for i := range p {
		p[i] = dev.regs.idprom.Read(i)
	}
}

func (dev *Device) getRevID(blk *Block) error {
	idents := make([]string, len(dev.ident))
	for i, f := range dev.ident {
		idents[i] = f()
	}
	str := strings.Join(idents, "\n")
	err := blk.check(len(str))
	if err != nil {
		return err
	}
	n := copy(blk.Data[:blk.Size], str)
	for i := n; i < blk.Size; i++ {
		blk.Data[i] = 0
	}
	return nil
}

// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package m199

import (
	"encoding/binary"
	"fmt"
	"math/bits"

	"github.com/go-lpc/m199/internal/regs"
)

const (
	// SDRAMBufferSize is the capacity, in 16-bit words, of an SDRAM transfer.
	SDRAMBufferSize = 512

	// SDRAMAccessMinSize is the size, in bytes, of the offset+size header
	// of an SDRAM block envelope.
	SDRAMAccessMinSize = 8
)

// sdramAccess translates SDRAM transfers into register accesses.
type sdramAccess interface {
	read(b *bus, off uint32, p []uint16)
	write(b *bus, off uint32, p []uint16)
}

// linearSDRAM accesses the SDRAM mapped in a wide (A24) window.
type linearSDRAM struct{}

func (linearSDRAM) read(b *bus, off uint32, p []uint16) {
	for i := range p {
		p[i] = b.read16(int64(off) + 2*int64(i))
	}
}

func (linearSDRAM) write(b *bus, off uint32, p []uint16) {
	for i, v := range p {
		b.write16(int64(off)+2*int64(i), v)
	}
}

// indexedSDRAM accesses the SDRAM through the auto-incrementing
// address/data register pair of a narrow (A08) window.
type indexedSDRAM struct{}

func (indexedSDRAM) read(b *bus, off uint32, p []uint16) {
	b.write32(regs.SDRAM_ADDR, off)
	for i := range p {
		// the indexed datapath is read in host order and swapped back.
		p[i] = bits.ReverseBytes16(b.read16raw(regs.SDRAM_DATA))
	}
}

func (indexedSDRAM) write(b *bus, off uint32, p []uint16) {
	b.write32(regs.SDRAM_ADDR, off)
	for _, v := range p {
		b.write16(regs.SDRAM_DATA, v)
	}
}

var (
	_ sdramAccess = (*linearSDRAM)(nil)
	_ sdramAccess = (*indexedSDRAM)(nil)
)

// SDRAMAccess describes an SDRAM transfer.
type SDRAMAccess struct {
	Offset uint32                  // byte offset into the SDRAM
	Size   uint32                  // payload size, in bytes
	Buf    [SDRAMBufferSize]uint16 // payload
}

// Block returns a block envelope holding the transfer header and payload.
//
// The envelope layout is little-endian: offset, size, then size/2 words.
func (acc *SDRAMAccess) Block() *Block {
	n := int(acc.Size)
	if n > 2*SDRAMBufferSize {
		n = 2 * SDRAMBufferSize
	}
	blk := NewBlock(SDRAMAccessMinSize + n)
	binary.LittleEndian.PutUint32(blk.Data[0:4], acc.Offset)
	binary.LittleEndian.PutUint32(blk.Data[4:8], acc.Size)
	for i := 0; i < n/2; i++ {
		binary.LittleEndian.PutUint16(blk.Data[SDRAMAccessMinSize+2*i:], acc.Buf[i])
	}
	return blk
}

// Decode reads the transfer header and payload from a block envelope.
func (acc *SDRAMAccess) Decode(blk *Block) error {
	off, size, err := sdramHeader(blk)
	if err != nil {
		return err
	}
	acc.Offset = off
	acc.Size = size
	for i := 0; i < int(size/2); i++ {
		acc.Buf[i] = binary.LittleEndian.Uint16(blk.Data[SDRAMAccessMinSize+2*i:])
	}
	return nil
}

// Words returns the payload words of the transfer.
func (acc *SDRAMAccess) Words() []uint16 {
	n := int(acc.Size / 2)
	if n > SDRAMBufferSize {
		n = SDRAMBufferSize
	}
	return acc.Buf[:n]
}

// sdramHeader validates an SDRAM block envelope and returns its header.
func sdramHeader(blk *Block) (off, size uint32, err error) {
	if err := blk.check(SDRAMAccessMinSize); err != nil {
		return 0, 0, err
	}
	off = binary.LittleEndian.Uint32(blk.Data[0:4])
	size = binary.LittleEndian.Uint32(blk.Data[4:8])
	switch {
	case size%2 != 0:
		return 0, 0, fmt.Errorf("m199: odd SDRAM transfer size %d: %w", size, ErrUserBuf)
	case size > 2*SDRAMBufferSize:
		return 0, 0, fmt.Errorf("m199: SDRAM transfer size %d too large (max=%d): %w",
			size, 2*SDRAMBufferSize, ErrUserBuf,
		)
	case uint64(blk.Size) < SDRAMAccessMinSize+uint64(size):
		return 0, 0, fmt.Errorf("m199: SDRAM block too small (size=%d, need=%d): %w",
			blk.Size, SDRAMAccessMinSize+size, ErrUserBuf,
		)
	}
	return off, size, nil
}

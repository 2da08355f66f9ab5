// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package m199

import (
	"encoding/binary"
	"fmt"
)

// Block is a size-prefixed buffer exchanged with block status codes.
// Words are stored little-endian.
type Block struct {
	Size int    // declared capacity of Data, in bytes
	Data []byte // caller-owned buffer
}

// NewBlock returns a block with a capacity of n bytes.
func NewBlock(n int) *Block {
	return &Block{Size: n, Data: make([]byte, n)}
}

func (blk *Block) check(min int) error {
	switch {
	case blk == nil:
		return fmt.Errorf("m199: nil block: %w", ErrUserBuf)
	case blk.Size < min:
		return fmt.Errorf("m199: block too small (size=%d, need=%d): %w", blk.Size, min, ErrUserBuf)
	case blk.Size > len(blk.Data):
		return fmt.Errorf("m199: block size %d exceeds buffer length %d: %w", blk.Size, len(blk.Data), ErrUserBuf)
	}
	return nil
}

// Words decodes the first n words of the block.
func (blk *Block) Words(n int) []uint16 {
	p := make([]uint16, n)
	blk.getWords(0, p)
	return p
}

func (blk *Block) getWords(off int, p []uint16) {
	for i := range p {
		p[i] = binary.LittleEndian.Uint16(blk.Data[off+2*i:])
	}
}

func (blk *Block) putWords(off int, p []uint16) {
	for i, v := range p {
		binary.LittleEndian.PutUint16(blk.Data[off+2*i:], v)
	}
}

// BlockOf returns a block holding the words p.
func BlockOf(p []uint16) *Block {
	blk := NewBlock(2 * len(p))
	blk.putWords(0, p)
	return blk
}

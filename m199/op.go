// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package m199

// Op is an operation dispatched by Device.Get and Device.Set.
//
// The set of operations is closed: only the types of this package
// implement Op.
type Op interface {
	Code() Code
	isOp()
}

// scalarOp is an operation carrying a single value.
type scalarOp interface {
	Op
	value() uint32
	setValue(v uint32)
}

// blockOp is an operation carrying a block envelope.
type blockOp interface {
	Op
	block() *Block
	setBlock(blk *Block)
}

// LED is the LED register (7 bits, active-low).
type LED struct{ Value uint32 }

// DebugLevel is the debug level of the device.
type DebugLevel struct{ Value uint32 }

// IRQCount is the interrupt counter of the device.
type IRQCount struct{ Value uint32 }

// IRQEnable is the interrupt enable register.
type IRQEnable struct{ Value uint32 }

// ChNumber is the number of channels of the device.
type ChNumber struct{ Value uint32 }

// IDCheck reports whether the module identification is checked at Open.
type IDCheck struct{ Value uint32 }

// IDSize is the size of the ID PROM, in bytes.
type IDSize struct{ Value uint32 }

// SDRAM is an SDRAM block transfer.
// The envelope holds a little-endian header (offset, size) followed
// by the payload (see SDRAMAccess).
type SDRAM struct{ Block *Block }

// USM is a transfer of the whole USM EEPROM (128 words).
type USM struct{ Block *Block }

// FPGAHeader is the FPGA header stored in flash (128 words).
type FPGAHeader struct{ Block *Block }

// IDData is the content of the ID PROM (64 words).
type IDData struct{ Block *Block }

// RevID is the ident table of the device.
// When Block is set, the idents are also written into it,
// one per line.
type RevID struct {
	Table []IdentFunc
	Block *Block
}

func (*LED) Code() Code        { return CodeLED }
func (*DebugLevel) Code() Code { return CodeDebugLevel }
func (*IRQCount) Code() Code   { return CodeIRQCount }
func (*IRQEnable) Code() Code  { return CodeIRQEnable }
func (*ChNumber) Code() Code   { return CodeChNumber }
func (*IDCheck) Code() Code    { return CodeIDCheck }
func (*IDSize) Code() Code     { return CodeIDSize }
func (*SDRAM) Code() Code      { return CodeBlkSDRAM }
func (*USM) Code() Code        { return CodeBlkUSM }
func (*FPGAHeader) Code() Code { return CodeBlkFPGAHeader }
func (*IDData) Code() Code     { return CodeBlkIDData }
func (*RevID) Code() Code      { return CodeRevID }

func (*LED) isOp()        {}
func (*DebugLevel) isOp() {}
func (*IRQCount) isOp()   {}
func (*IRQEnable) isOp()  {}
func (*ChNumber) isOp()   {}
func (*IDCheck) isOp()    {}
func (*IDSize) isOp()     {}
func (*SDRAM) isOp()      {}
func (*USM) isOp()        {}
func (*FPGAHeader) isOp() {}
func (*IDData) isOp()     {}
func (*RevID) isOp()      {}

func (op *LED) value() uint32        { return op.Value }
func (op *DebugLevel) value() uint32 { return op.Value }
func (op *IRQCount) value() uint32   { return op.Value }
func (op *IRQEnable) value() uint32  { return op.Value }
func (op *ChNumber) value() uint32   { return op.Value }
func (op *IDCheck) value() uint32    { return op.Value }
func (op *IDSize) value() uint32     { return op.Value }

func (op *LED) setValue(v uint32)        { op.Value = v }
func (op *DebugLevel) setValue(v uint32) { op.Value = v }
func (op *IRQCount) setValue(v uint32)   { op.Value = v }
func (op *IRQEnable) setValue(v uint32)  { op.Value = v }
func (op *ChNumber) setValue(v uint32)   { op.Value = v }
func (op *IDCheck) setValue(v uint32)    { op.Value = v }
func (op *IDSize) setValue(v uint32)     { op.Value = v }

func (op *SDRAM) block() *Block      { return op.Block }
func (op *USM) block() *Block        { return op.Block }
func (op *FPGAHeader) block() *Block { return op.Block }
func (op *IDData) block() *Block     { return op.Block }
func (op *RevID) block() *Block      { return op.Block }

func (op *SDRAM) setBlock(blk *Block)      { op.Block = blk }
func (op *USM) setBlock(blk *Block)        { op.Block = blk }
func (op *FPGAHeader) setBlock(blk *Block) { op.Block = blk }
func (op *IDData) setBlock(blk *Block)     { op.Block = blk }
func (op *RevID) setBlock(blk *Block)      { op.Block = blk }

var (
	_ scalarOp = (*LED)(nil)
	_ scalarOp = (*DebugLevel)(nil)
	_ scalarOp = (*IRQCount)(nil)
	_ scalarOp = (*IRQEnable)(nil)
	_ scalarOp = (*ChNumber)(nil)
	_ scalarOp = (*IDCheck)(nil)
	_ scalarOp = (*IDSize)(nil)

	_ blockOp = (*SDRAM)(nil)
	_ blockOp = (*USM)(nil)
	_ blockOp = (*FPGAHeader)(nil)
	_ blockOp = (*IDData)(nil)
	_ blockOp = (*RevID)(nil)
)

// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package m199

import (
	"fmt"
	"sort"
)

// Code is a status code, as used by the GetStat/SetStat and
// GetBlock/SetBlock entry points.
type Code int32

const (
	mkOf     = 0x0000 // kernel codes
	llOf     = 0x0100 // low-level driver codes
	devOf    = 0x0200 // device codes
	mkBlkOf  = 0x8000 // kernel block codes
	llBlkOf  = 0x8100 // low-level driver block codes
	devBlkOf = 0x8200 // device block codes
)

const (
	CodeIRQEnable  Code = mkOf + 0x0c
	CodeChNumber   Code = llOf + 0x00
	CodeIRQCount   Code = llOf + 0x04
	CodeIDCheck    Code = llOf + 0x05
	CodeDebugLevel Code = llOf + 0x06
	CodeIDSize     Code = llOf + 0x07
	CodeLED        Code = devOf + 0x00

	CodeRevID         Code = mkBlkOf + 0x08
	CodeBlkIDData     Code = llBlkOf + 0x00
	CodeBlkSDRAM      Code = devBlkOf + 0x00
	CodeBlkUSM        Code = devBlkOf + 0x01
	CodeBlkFPGAHeader Code = devBlkOf + 0x02
)

type codeInfo struct {
	name string
	get  bool
	set  bool
	op   func() Op
}

var codes = map[Code]codeInfo{
	CodeIRQEnable:  {"IRQ_ENABLE", false, true, func() Op { return new(IRQEnable) }},
	CodeChNumber:   {"CH_NUMBER", true, false, func() Op { return new(ChNumber) }},
	CodeIRQCount:   {"IRQ_COUNT", true, true, func() Op { return new(IRQCount) }},
	CodeIDCheck:    {"ID_CHECK", true, false, func() Op { return new(IDCheck) }},
	CodeDebugLevel: {"DEBUG_LEVEL", true, true, func() Op { return new(DebugLevel) }},
	CodeIDSize:     {"ID_SIZE", true, false, func() Op { return new(IDSize) }},
	CodeLED:        {"LED", true, true, func() Op { return new(LED) }},

	CodeRevID:         {"BLK_REV_ID", true, false, func() Op { return new(RevID) }},
	CodeBlkIDData:     {"BLK_ID_DATA", true, false, func() Op { return new(IDData) }},
	CodeBlkSDRAM:      {"BLK_SDRAM", true, true, func() Op { return new(SDRAM) }},
	CodeBlkUSM:        {"BLK_USM_MODULE", true, true, func() Op { return new(USM) }},
	CodeBlkFPGAHeader: {"BLK_FPGA_HEADER", true, false, func() Op { return new(FPGAHeader) }},
}

// Codes returns the known status codes, sorted.
func Codes() []Code {
	o := make([]Code, 0, len(codes))
	for code := range codes {
		o = append(o, code)
	}
	sort.Slice(o, func(i, j int) bool { return o[i] < o[j] })
	return o
}

// IsBlock reports whether code is a block code.
func (code Code) IsBlock() bool { return code&0x8000 != 0 }

// CanGet reports whether code supports GetStat/GetBlock.
func (code Code) CanGet() bool { return codes[code].get }

// CanSet reports whether code supports SetStat/SetBlock.
func (code Code) CanSet() bool { return codes[code].set }

func (code Code) String() string {
	if info, ok := codes[code]; ok {
		return info.name
	}
	return fmt.Sprintf("Code(0x%04x)", int32(code))
}

// NewOp returns a new zero operation for code.
func NewOp(code Code) (Op, error) {
	info, ok := codes[code]
	if !ok {
		return nil, fmt.Errorf("m199: code 0x%04x: %w", int32(code), ErrUnknownCode)
	}
	return info.op(), nil
}

func errCode(op Op, dir string) error {
	if op == nil {
		return fmt.Errorf("m199: nil %s operation: %w", dir, ErrUnknownCode)
	}
	return fmt.Errorf("m199: %s %v: %w", dir, op.Code(), ErrUnknownCode)
}

// Get runs the get operation op on channel ch.
func (dev *Device) Get(ch int, op Op) error {
	if op == nil || !op.Code().CanGet() {
		return errCode(op, "get")
	}

	return dev.call(func() error {
		dev.debugf(DbgLev1, "get: ch=%d code=%v", ch, op.Code())
		switch op := op.(type) {
		case *LED:
			op.Value = dev.led()
		case *DebugLevel:
			op.Value = dev.dbg
		case *IRQCount:
			op.Value = dev.irqCount
		case *ChNumber:
			op.Value = chNumber
		case *IDCheck:
			op.Value = dev.idCheck
		case *IDSize:
			op.Value = idSize
		case *SDRAM:
			return dev.getSDRAM(op.Block)
		case *USM:
			return dev.getUSM(op.Block)
		case *FPGAHeader:
			return dev.getFPGAHeader(op.Block)
		case *IDData:
			return dev.getIDData(op.Block)
		case *RevID:
			op.Table = dev.IdentTable()
			if op.Block != nil {
				return dev.getRevID(op.Block)
			}
		default:
			return errCode(op, "get")
		}
		return nil
	})
}

// Set runs the set operation op on channel ch.
func (dev *Device) Set(ch int, op Op) error {
	if op == nil || !op.Code().CanSet() {
		return errCode(op, "set")
	}

	return dev.call(func() error {
		dev.debugf(DbgLev1, "set: ch=%d code=%v", ch, op.Code())
		switch op := op.(type) {
		case *LED:
			dev.setLED(op.Value)
		case *DebugLevel:
			dev.dbg = op.Value
		case *IRQCount:
			dev.irqCount = op.Value
		case *IRQEnable:
			dev.regs.ier.w(op.Value)
		case *SDRAM:
			return dev.setSDRAM(op.Block)
		case *USM:
			return dev.setUSM(op.Block)
		default:
			return errCode(op, "set")
		}
		return nil
	})
}

// GetStat returns the value of the status code on channel ch.
func (dev *Device) GetStat(ch int, code Code) (int32, error) {
	op, err := dev.scalar(code)
	if err != nil {
		return 0, err
	}
	err = dev.Get(ch, op)
	if err != nil {
		return 0, err
	}
	return int32(op.value()), nil
}

// SetStat sets the value of the status code on channel ch.
func (dev *Device) SetStat(ch int, code Code, v int32) error {
	op, err := dev.scalar(code)
	if err != nil {
		return err
	}
	op.setValue(uint32(v))
	return dev.Set(ch, op)
}

// GetBlock runs the block status code on channel ch, filling blk.
func (dev *Device) GetBlock(ch int, code Code, blk *Block) error {
	op, err := dev.blocker(code)
	if err != nil {
		return err
	}
	op.setBlock(blk)
	return dev.Get(ch, op)
}

// SetBlock runs the block status code on channel ch, with the content of blk.
func (dev *Device) SetBlock(ch int, code Code, blk *Block) error {
	op, err := dev.blocker(code)
	if err != nil {
		return err
	}
	op.setBlock(blk)
	return dev.Set(ch, op)
}

func (dev *Device) scalar(code Code) (scalarOp, error) {
	op, err := NewOp(code)
	if err != nil {
		return nil, err
	}
	sop, ok := op.(scalarOp)
	if !ok {
		return nil, fmt.Errorf("m199: %v is a block code: %w", code, ErrUnknownCode)
	}
	return sop, nil
}

func (dev *Device) blocker(code Code) (blockOp, error) {
	op, err := NewOp(code)
	if err != nil {
		return nil, err
	}
	bop, ok := op.(blockOp)
	if !ok {
		return nil, fmt.Errorf("m199: %v is not a block code: %w", code, ErrUnknownCode)
	}
	return bop, nil
}

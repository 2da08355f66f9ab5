// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package m199

import (
	"fmt"

	"github.com/go-lpc/m199/internal/regs"
)

// AddrMode is a set of address-width flags.
type AddrMode uint32

const (
	MA08 AddrMode = 0x01
	MA16 AddrMode = 0x02
	MA24 AddrMode = 0x04
	MA32 AddrMode = 0x08
)

func (m AddrMode) String() string {
	return flagString(uint32(m), "A", []int{8, 16, 24, 32})
}

// DataMode is a set of data-width flags.
type DataMode uint32

const (
	MD08 DataMode = 0x01
	MD16 DataMode = 0x02
	MD32 DataMode = 0x04
)

func (m DataMode) String() string {
	return flagString(uint32(m), "D", []int{8, 16, 32})
}

func flagString(v uint32, prefix string, widths []int) string {
	str := ""
	for i, w := range widths {
		if v&(1<<i) == 0 {
			continue
		}
		if str != "" {
			str += "|"
		}
		str += fmt.Sprintf("%s%02d", prefix, w)
	}
	if str == "" {
		return "none"
	}
	return str
}

// LockMode is the locking granularity required from the host.
type LockMode uint8

const (
	LockNone LockMode = iota
	LockCall          // one lock held for the duration of each call
	LockChannel       // one lock per channel
)

func (m LockMode) String() string {
	switch m {
	case LockNone:
		return "none"
	case LockCall:
		return "call"
	case LockChannel:
		return "channel"
	}
	return fmt.Sprintf("LockMode(%d)", uint8(m))
}

// InfoCode identifies a capability query.
type InfoCode int

const (
	InfoHWCharacter InfoCode = iota + 1
	InfoAddrSpaceCount
	InfoAddrSpace
	InfoIRQ
	InfoLockMode
)

// Info is the reply to a capability query.
// Only the fields relevant to the query are set.
type Info struct {
	Addr  AddrMode
	Data  DataMode
	Size  uint32 // size of the address space, in bytes
	Count int    // number of address spaces
	IRQ   bool   // interrupt required
	Lock  LockMode
}

// Info answers the capability query code.
// idx selects the address space for InfoAddrSpace.
func (v Variant) Info(code InfoCode, idx int) (Info, error) {
	switch code {
	case InfoHWCharacter:
		return Info{Addr: MA08 | MA24, Data: MD08 | MD16 | MD32}, nil
	case InfoAddrSpaceCount:
		return Info{Count: 1}, nil
	case InfoAddrSpace:
		if idx != 0 {
			return Info{}, fmt.Errorf("m199: invalid address space index %d: %w", idx, ErrIllegalParam)
		}
		if v.Wide() {
			return Info{Addr: MA24, Data: MD32, Size: regs.A24_SIZE}, nil
		}
		return Info{Addr: MA08, Data: MD16, Size: regs.A08_SIZE}, nil
	case InfoIRQ:
		return Info{IRQ: false}, nil
	case InfoLockMode:
		return Info{Lock: LockCall}, nil
	}
	return Info{}, fmt.Errorf("m199: invalid info code %d: %w", code, ErrIllegalParam)
}

// HWCharacter returns the supported address and data widths.
func (v Variant) HWCharacter() (AddrMode, DataMode) {
	info, _ := v.Info(InfoHWCharacter, 0)
	return info.Addr, info.Data
}

// AddrSpaceCount returns the number of address spaces.
func (v Variant) AddrSpaceCount() int {
	info, _ := v.Info(InfoAddrSpaceCount, 0)
	return info.Count
}

// AddrSpace describes the address space idx.
func (v Variant) AddrSpace(idx int) (AddrMode, DataMode, uint32, error) {
	info, err := v.Info(InfoAddrSpace, idx)
	if err != nil {
		return 0, 0, 0, err
	}
	return info.Addr, info.Data, info.Size, nil
}

// IRQRequired reports whether the module needs an interrupt.
func (v Variant) IRQRequired() bool {
	info, _ := v.Info(InfoIRQ, 0)
	return info.IRQ
}

// LockMode returns the locking granularity required from the host.
func (v Variant) LockMode() LockMode {
	info, _ := v.Info(InfoLockMode, 0)
	return info.Lock
}

// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package m199

// Debug level bits.
const (
	DbgLev1   = 0x00000001 // function calls
	DbgLev2   = 0x00000002 // register accesses
	DbgLev3   = 0x00000004 // descriptor lookups, block contents
	DbgLevErr = 0x00008000 // errors
	DbgNorm   = 0x40000000 // normal (non-interrupt) context
	DbgIntr   = 0x80000000 // interrupt context

	DefaultDebugLevel = DbgIntr | DbgNorm | DbgLevErr
)

func (dev *Device) debugf(lvl uint32, format string, args ...interface{}) {
	if dev.dbg&lvl == 0 || dev.dbg&DbgNorm == 0 {
		return
	}
	dev.msg.Printf(format, args...)
}

func (dev *Device) errorf(format string, args ...interface{}) {
	dev.debugf(DbgLevErr, "*** "+format, args...)
}

// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package m199

import (
	"errors"
	"testing"
)

func TestVariant(t *testing.T) {
	for _, tc := range []struct {
		v    Variant
		name string
		wide bool
	}{
		{M199, "M199", false},
		{M199_SW, "M199_SW", false},
		{M199_A24, "M199_A24", true},
		{M199_A24_SW, "M199_A24_SW", true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if got, want := tc.v.String(), tc.name; got != want {
				t.Fatalf("invalid name: got=%q, want=%q", got, want)
			}
			if got, want := tc.v.Wide(), tc.wide; got != want {
				t.Fatalf("invalid wide flag: got=%v, want=%v", got, want)
			}

			v, err := ParseVariant(tc.name)
			if err != nil {
				t.Fatalf("could not parse variant: %+v", err)
			}
			if v != tc.v {
				t.Fatalf("invalid variant: got=%v, want=%v", v, tc.v)
			}

			switch tc.v.sdram().(type) {
			case linearSDRAM:
				if !tc.wide {
					t.Fatalf("linear SDRAM access for a narrow variant")
				}
			case indexedSDRAM:
				if tc.wide {
					t.Fatalf("indexed SDRAM access for a wide variant")
				}
			}
		})
	}

	v, err := ParseVariant("m199_a24_sw")
	if err != nil {
		t.Fatalf("could not parse lower-case variant: %+v", err)
	}
	if v != M199_A24_SW {
		t.Fatalf("invalid variant: got=%v, want=%v", v, M199_A24_SW)
	}

	_, err = ParseVariant("M198")
	if err == nil {
		t.Fatalf("expected an error")
	}
}

func TestInfo(t *testing.T) {
	for _, tc := range []struct {
		v    Variant
		addr AddrMode
		data DataMode
		size uint32
	}{
		{M199, MA08, MD16, 0x100},
		{M199_SW, MA08, MD16, 0x100},
		{M199_A24, MA24, MD32, 0x1000000},
		{M199_A24_SW, MA24, MD32, 0x1000000},
	} {
		t.Run(tc.v.String(), func(t *testing.T) {
			am, dm := tc.v.HWCharacter()
			if got, want := am, MA08|MA24; got != want {
				t.Fatalf("invalid address modes: got=%v, want=%v", got, want)
			}
			if got, want := dm, MD08|MD16|MD32; got != want {
				t.Fatalf("invalid data modes: got=%v, want=%v", got, want)
			}

			if got, want := tc.v.AddrSpaceCount(), 1; got != want {
				t.Fatalf("invalid address space count: got=%d, want=%d", got, want)
			}

			addr, data, size, err := tc.v.AddrSpace(0)
			if err != nil {
				t.Fatalf("could not get address space: %+v", err)
			}
			if addr != tc.addr || data != tc.data || size != tc.size {
				t.Fatalf(
					"invalid address space: got=(%v, %v, 0x%x), want=(%v, %v, 0x%x)",
					addr, data, size, tc.addr, tc.data, tc.size,
				)
			}

			_, _, _, err = tc.v.AddrSpace(1)
			if !errors.Is(err, ErrIllegalParam) {
				t.Fatalf("invalid error: got=%+v, want=%+v", err, ErrIllegalParam)
			}

			if tc.v.IRQRequired() {
				t.Fatalf("invalid IRQ requirement")
			}
			if got, want := tc.v.LockMode(), LockCall; got != want {
				t.Fatalf("invalid lock mode: got=%v, want=%v", got, want)
			}

			_, err = tc.v.Info(InfoCode(42), 0)
			if !errors.Is(err, ErrIllegalParam) {
				t.Fatalf("invalid error: got=%+v, want=%+v", err, ErrIllegalParam)
			}
		})
	}
}

func TestModeString(t *testing.T) {
	for _, tc := range []struct {
		got  string
		want string
	}{
		{MA08.String(), "A08"},
		{(MA08 | MA24).String(), "A08|A24"},
		{AddrMode(0).String(), "none"},
		{(MD08 | MD16 | MD32).String(), "D08|D16|D32"},
		{MD16.String(), "D16"},
		{LockCall.String(), "call"},
		{LockMode(42).String(), "LockMode(42)"},
	} {
		if tc.got != tc.want {
			t.Fatalf("invalid string: got=%q, want=%q", tc.got, tc.want)
		}
	}
}

func TestCodeString(t *testing.T) {
	for _, tc := range []struct {
		code  Code
		name  string
		block bool
	}{
		{CodeLED, "LED", false},
		{CodeChNumber, "CH_NUMBER", false},
		{CodeBlkSDRAM, "BLK_SDRAM", true},
		{CodeBlkUSM, "BLK_USM_MODULE", true},
		{CodeBlkFPGAHeader, "BLK_FPGA_HEADER", true},
		{CodeRevID, "BLK_REV_ID", true},
		{Code(0x1234), "Code(0x1234)", false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if got, want := tc.code.String(), tc.name; got != want {
				t.Fatalf("invalid name: got=%q, want=%q", got, want)
			}
			if got, want := tc.code.IsBlock(), tc.block; got != want {
				t.Fatalf("invalid block flag: got=%v, want=%v", got, want)
			}
		})
	}

	_, err := NewOp(Code(0x1234))
	if !errors.Is(err, ErrUnknownCode) {
		t.Fatalf("invalid error: got=%+v, want=%+v", err, ErrUnknownCode)
	}
}

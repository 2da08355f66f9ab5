// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package microwire_test

import (
	"testing"

	"github.com/go-lpc/m199/internal/fakemod"
	"github.com/go-lpc/m199/internal/microwire"
	"github.com/go-lpc/m199/internal/regs"
)

type chipPort struct {
	chip *fakemod.Chip
	n    int
}

func (p *chipPort) Read() uint16 {
	p.n++
	return p.chip.Sense()
}

func (p *chipPort) Write(v uint16) {
	p.n++
	p.chip.Drive(v)
}

var lines = microwire.Lines{
	DAT: regs.UWIRE_DAT,
	CLK: regs.UWIRE_CLK,
	CS:  regs.UWIRE_CS,
}

func TestEEPROM(t *testing.T) {
	for _, tc := range []struct {
		name  string
		words int
		nbits int
	}{
		{"93c46", 64, 6},
		{"93c56", 128, 8},
	} {
		t.Run(tc.name, func(t *testing.T) {
			chip := fakemod.NewChip(tc.words, tc.nbits)
			port := &chipPort{chip: chip}
			prom := microwire.New(port, lines, tc.nbits)

			if got, want := prom.Len(), 1<<tc.nbits; got != want {
				t.Fatalf("invalid len: got=%d, want=%d", got, want)
			}

			for i := 0; i < tc.words; i++ {
				if got, want := prom.Read(i), uint16(0xffff); got != want {
					t.Fatalf("invalid erased word[%d]: got=0x%04x, want=0x%04x", i, got, want)
				}
			}

			for i := 0; i < tc.words; i++ {
				prom.Write(i, uint16(0x5553+i*7))
			}
			prom.Lock()

			if chip.Enabled() {
				t.Fatalf("chip still write-enabled")
			}
			if got, want := chip.Programmed, tc.words; got != want {
				t.Fatalf("invalid number of programmed words: got=%d, want=%d", got, want)
			}

			for i := 0; i < tc.words; i++ {
				if got, want := prom.Read(i), uint16(0x5553+i*7); got != want {
					t.Fatalf("invalid word[%d]: got=0x%04x, want=0x%04x", i, got, want)
				}
				if got, want := chip.Words[i], uint16(0x5553+i*7); got != want {
					t.Fatalf("invalid chip word[%d]: got=0x%04x, want=0x%04x", i, got, want)
				}
			}

			prom.Erase(1)
			prom.Lock()
			if got, want := prom.Read(1), uint16(0xffff); got != want {
				t.Fatalf("invalid erased word: got=0x%04x, want=0x%04x", got, want)
			}
		})
	}
}

func TestWriteProtected(t *testing.T) {
	chip := fakemod.NewChip(64, 6)
	chip.Words[3] = 0xcafe
	port := &chipPort{chip: chip}
	prom := microwire.New(port, lines, 6)

	prom.Write(3, 0x0042)
	prom.Lock()
	if got, want := prom.Read(3), uint16(0x0042); got != want {
		t.Fatalf("invalid word: got=0x%04x, want=0x%04x", got, want)
	}

	// a raw WRITE command without EWEN must be ignored.
	port.Write(lines.CS)
	for _, bit := range []bool{true, false, true, false, false, false, false, true, true} {
		v := lines.CS
		if bit {
			v |= lines.DAT
		}
		port.Write(v)
		port.Write(v | lines.CLK)
		port.Write(v)
	}
	for i := 0; i < 16; i++ {
		port.Write(lines.CS)
		port.Write(lines.CS | lines.CLK)
		port.Write(lines.CS)
	}
	port.Write(0)

	if got, want := prom.Read(3), uint16(0x0042); got != want {
		t.Fatalf("write-protected word modified: got=0x%04x, want=0x%04x", got, want)
	}
}

func TestReadAccessCount(t *testing.T) {
	chip := fakemod.NewChip(64, 6)
	port := &chipPort{chip: chip}
	prom := microwire.New(port, lines, 6)

	_ = prom.Read(0)

	// select + 3*(start+opcode+address) + 3*16 data + deselect.
	want := 1 + 3*(1+2+6) + 3*16 + 1
	if got := port.n; got != want {
		t.Fatalf("invalid number of port accesses: got=%d, want=%d", got, want)
	}
}

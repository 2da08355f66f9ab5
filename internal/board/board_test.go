// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package board

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/go-lpc/m199/desc"
	"github.com/go-lpc/m199/internal/mmap"
	"github.com/go-lpc/m199/internal/regs"
	"github.com/go-lpc/m199/m199"
	"golang.org/x/sys/unix"
)

const descFile = `
M199_1:
  ID_CHECK: true
  LED: 0x55
  WINDOW:
    SIMULATE: true
M199_2:
  LED: 0x2a
  WINDOW:
    PHYS_ADDR: 0x10
`

func TestOpenSim(t *testing.T) {
	tmp := t.TempDir()
	fname := filepath.Join(tmp, "m199.yaml")
	err := os.WriteFile(fname, []byte(descFile), 0644)
	if err != nil {
		t.Fatalf("could not create descriptor file: %+v", err)
	}

	devs, err := Devices(fname)
	if err != nil {
		t.Fatalf("could not list devices: %+v", err)
	}
	if got, want := devs, []string{"M199_1", "M199_2"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("invalid devices:\ngot= %q\nwant=%q", got, want)
	}

	for _, v := range m199.Variants() {
		t.Run(v.String(), func(t *testing.T) {
			b, err := Open(
				fname, "M199_1", Config{Variant: v},
				m199.WithLogger(log.New(io.Discard, "m199: ", 0)),
			)
			if err != nil {
				t.Fatalf("could not open board: %+v", err)
			}
			defer b.Close()

			if got, want := b.Name, "M199_1"; got != want {
				t.Fatalf("invalid name: got=%q, want=%q", got, want)
			}
			if b.Sim() == nil {
				t.Fatalf("expected a simulated module")
			}
			if got, want := b.Sim().LED, uint16(0x55); got != want {
				t.Fatalf("invalid LED register: got=0x%x, want=0x%x", got, want)
			}
			if got, want := b.Variant(), v; got != want {
				t.Fatalf("invalid variant: got=%v, want=%v", got, want)
			}

			err = b.Close()
			if err != nil {
				t.Fatalf("could not close board: %+v", err)
			}
		})
	}
}

func TestOpenErrors(t *testing.T) {
	tmp := t.TempDir()
	fname := filepath.Join(tmp, "m199.yaml")
	err := os.WriteFile(fname, []byte(descFile), 0644)
	if err != nil {
		t.Fatalf("could not create descriptor file: %+v", err)
	}

	for _, tc := range []struct {
		src, dev string
		cfg      Config
		err      string
	}{
		{
			src: filepath.Join(tmp, "not-there.yaml"),
			dev: "M199_1",
			err: `board: could not open descriptor of "M199_1"`,
		},
		{
			src: fname,
			dev: "M199_3",
			err: `board: could not open descriptor of "M199_3"`,
		},
		{
			src: fname,
			dev: "M199_2",
			cfg: Config{DevMem: filepath.Join(tmp, "mem"), Variant: m199.M199},
			err: `board: could not open register window of "M199_2"`,
		},
	} {
		t.Run(tc.dev, func(t *testing.T) {
			b, err := Open(tc.src, tc.dev, tc.cfg)
			if err == nil {
				_ = b.Close()
				t.Fatalf("expected an error")
			}
			if got, want := err.Error(), tc.err; !strings.HasPrefix(got, want) {
				t.Fatalf("invalid error:\ngot= %q\nwant=%q", got, want)
			}
		})
	}
}

func TestOpenWindow(t *testing.T) {
	tmp := t.TempDir()
	fname := filepath.Join(tmp, "mem")
	f, err := os.Create(fname)
	if err != nil {
		t.Fatalf("could not create memory file: %+v", err)
	}
	err = f.Truncate(int64(unix.Getpagesize()))
	if err != nil {
		t.Fatalf("could not resize memory file: %+v", err)
	}
	err = f.Close()
	if err != nil {
		t.Fatalf("could not close memory file: %+v", err)
	}

	win, err := OpenWindow(desc.Map{"WINDOW/PHYS_ADDR": 0}, Config{
		DevMem:  fname,
		Variant: m199.M199,
	})
	if err != nil {
		t.Fatalf("could not open window: %+v", err)
	}
	defer win.Close()

	h, ok := win.(*mmap.Handle)
	if !ok {
		t.Fatalf("invalid window type %T", win)
	}
	if got, want := h.Len(), unix.Getpagesize(); got != want {
		t.Fatalf("invalid window size: got=%d, want=%d", got, want)
	}

	_, err = win.WriteAt([]byte{0x12, 0x34}, regs.LED_REG)
	if err != nil {
		t.Fatalf("could not write register: %+v", err)
	}
	p := make([]byte, 2)
	_, err = win.ReadAt(p, regs.LED_REG)
	if err != nil {
		t.Fatalf("could not read register: %+v", err)
	}
	if got, want := p, []byte{0x12, 0x34}; !reflect.DeepEqual(got, want) {
		t.Fatalf("invalid register content: got=%v, want=%v", got, want)
	}

	err = win.Close()
	if err != nil {
		t.Fatalf("could not close window: %+v", err)
	}
}

func TestOpenWindowSimulate(t *testing.T) {
	win, err := OpenWindow(desc.Map{}, Config{Simulate: true, Variant: m199.M199_A24})
	if err != nil {
		t.Fatalf("could not open window: %+v", err)
	}
	defer win.Close()

	sim, ok := win.(*simWindow)
	if !ok {
		t.Fatalf("invalid window type %T", win)
	}
	if got, want := sim.Ident(), "fakemod: wide=true swapped=false"; got != want {
		t.Fatalf("invalid ident: got=%q, want=%q", got, want)
	}
}

func TestDBDevices(t *testing.T) {
	_, err := Devices("mysql:m199")
	if err == nil {
		t.Fatalf("expected an error")
	}
}

// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-lpc/m199/internal/board"
	"github.com/go-lpc/m199/m199"
)

const descFile = `
M199_1:
  WINDOW:
    SIMULATE: true
M199_2:
  LED: 0x2a
  WINDOW:
    SIMULATE: true
`

func TestRun(t *testing.T) {
	tmp := t.TempDir()
	fname := filepath.Join(tmp, "m199.yaml")
	err := os.WriteFile(fname, []byte(descFile), 0644)
	if err != nil {
		t.Fatalf("could not create descriptor file: %+v", err)
	}

	for _, v := range m199.Variants() {
		t.Run(v.String(), func(t *testing.T) {
			out := new(bytes.Buffer)
			err := run(
				context.Background(), out, fname,
				[]string{"M199_1", "M199_2"},
				board.Config{Variant: v},
				options{
					header: true,
					lights: true,
					read:   true,
					write:  true,
					usm:    true,
					steps:  3,
					period: time.Millisecond,
				},
			)
			if err != nil {
				t.Fatalf("could not run m199-simp: %+v\n%s", err, out.String())
			}

			got := out.String()
			for _, want := range []string{
				"=== M199_1 ===\n",
				"=== M199_2 ===\n",
				"LEDs are switched\n  D1  D2  D3  D4  D5  D6  D7\n OFF OFF OFF OFF OFF OFF OFF\n",
				"  ON OFF  ON OFF OFF  ON OFF\n",
				"USM EEPROM content:\n00: 0xffff 0xffff",
				"File name: m199_fake.rbf\n",
				"SDRAM content at offset 0x00f00000:\n",
				"Write predefined values to SDRAM at offset 0x00f00000\n",
				"00000000: 0000 0004 0008 000c 0010 0014 0018 001c\n",
				"0000003f: 07e0 07e4 07e8 07ec 07f0 07f4 07f8 07fc\n",
				"Running lights (interrupt to stop)\n",
			} {
				if !strings.Contains(got, want) {
					t.Fatalf("missing output %q in:\n%s", want, got)
				}
			}
			if i, j := strings.Index(got, "=== M199_1"), strings.Index(got, "=== M199_2"); i > j {
				t.Fatalf("invalid output order:\n%s", got)
			}
		})
	}
}

func TestRunEEPROM(t *testing.T) {
	tmp := t.TempDir()
	fname := filepath.Join(tmp, "m199.yaml")
	err := os.WriteFile(fname, []byte(descFile), 0644)
	if err != nil {
		t.Fatalf("could not create descriptor file: %+v", err)
	}

	out := new(bytes.Buffer)
	err = run(
		context.Background(), out, fname, []string{"M199_1"},
		board.Config{Variant: m199.M199},
		options{eeprom: true},
	)
	if err != nil {
		t.Fatalf("could not run m199-simp: %+v\n%s", err, out.String())
	}
	if got, want := out.String(), "USM EEPROM has been set to predefined values\n"; !strings.Contains(got, want) {
		t.Fatalf("missing output %q in:\n%s", want, got)
	}
}

func TestRunInvalidDevice(t *testing.T) {
	tmp := t.TempDir()
	fname := filepath.Join(tmp, "m199.yaml")
	err := os.WriteFile(fname, []byte(descFile), 0644)
	if err != nil {
		t.Fatalf("could not create descriptor file: %+v", err)
	}

	out := new(bytes.Buffer)
	err = run(
		context.Background(), out, fname, []string{"M199_1", "M199_3"},
		board.Config{Variant: m199.M199},
		options{},
	)
	if err == nil {
		t.Fatalf("expected an error")
	}
	if got, want := err.Error(), `device "M199_3": could not open`; !strings.HasPrefix(got, want) {
		t.Fatalf("invalid error:\ngot= %q\nwant=%q", got, want)
	}
	if got, want := out.String(), "=== M199_1 ===\n"; !strings.HasPrefix(got, want) {
		t.Fatalf("invalid output:\ngot= %q\nwant=%q", got, want)
	}
}

func TestPrintLEDs(t *testing.T) {
	for _, tc := range []struct {
		v    uint32
		want string
	}{
		{0x7f, " OFF OFF OFF OFF OFF OFF OFF\n"},
		{0x00, "  ON  ON  ON  ON  ON  ON  ON\n"},
		{0x7e, " OFF OFF OFF  ON OFF OFF OFF\n"},
		{0x3f, " OFF OFF OFF OFF OFF OFF  ON\n"},
	} {
		o := new(bytes.Buffer)
		printLEDs(o, tc.v)
		got := strings.Split(o.String(), "\n")[2] + "\n"
		if got != tc.want {
			t.Fatalf("invalid LEDs for 0x%02x:\ngot= %q\nwant=%q", tc.v, got, tc.want)
		}
	}
}

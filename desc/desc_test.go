// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package desc

import (
	"errors"
	"testing"
)

func TestMap(t *testing.T) {
	m := Map{
		"LED":      0x55,
		"ID_CHECK": 1,
	}
	defer m.Close()

	v, err := m.Uint32("LED", 0x7f)
	if err != nil {
		t.Fatalf("could not read LED: %+v", err)
	}
	if got, want := v, uint32(0x55); got != want {
		t.Fatalf("invalid LED: got=0x%x, want=0x%x", got, want)
	}

	v, err = m.Uint32("DEBUG_LEVEL", 0xc0008000)
	if !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("invalid error: got=%+v, want=%+v", err, ErrKeyNotFound)
	}
	if got, want := v, uint32(0xc0008000); got != want {
		t.Fatalf("invalid default: got=0x%x, want=0x%x", got, want)
	}

	if got, want := m.String(), "ID_CHECK = 0x1\nLED = 0x55\n"; got != want {
		t.Fatalf("invalid string:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestParseUint32(t *testing.T) {
	for _, tc := range []struct {
		str  string
		want uint32
		err  bool
	}{
		{str: "true", want: 1},
		{str: "FALSE", want: 0},
		{str: "42", want: 42},
		{str: "0x7f", want: 0x7f},
		{str: " 0x10 ", want: 0x10},
		{str: "0o17", want: 0o17},
		{str: "0xffffffff", want: 0xffffffff},
		{str: "0x100000000", err: true},
		{str: "-1", err: true},
		{str: "yes", err: true},
	} {
		t.Run(tc.str, func(t *testing.T) {
			got, err := parseUint32("KEY", tc.str)
			switch {
			case err != nil && !tc.err:
				t.Fatalf("could not parse %q: %+v", tc.str, err)
			case err == nil && tc.err:
				t.Fatalf("expected an error for %q", tc.str)
			case err != nil:
				return
			}
			if got != tc.want {
				t.Fatalf("invalid value: got=0x%x, want=0x%x", got, tc.want)
			}
		})
	}
}

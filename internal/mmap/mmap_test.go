// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mmap // import "github.com/go-lpc/m199/internal/mmap"

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestHandle(t *testing.T) {
	t.Run("nil-handle", func(t *testing.T) {
		var h *Handle

		_, err := h.ReadAt(nil, 0)
		if !errors.Is(err, os.ErrInvalid) {
			t.Fatalf("invalid read-at error: %+v", err)
		}

		_, err = h.WriteAt(nil, 0)
		if !errors.Is(err, os.ErrInvalid) {
			t.Fatalf("invalid write-at error: %+v", err)
		}

		err = h.Close()
		if !errors.Is(err, os.ErrInvalid) {
			t.Fatalf("invalid close error: %+v", err)
		}
	})
	t.Run("nil-data", func(t *testing.T) {
		var h Handle

		_, err := h.ReadAt(nil, 0)
		if !errors.Is(err, errClosed) {
			t.Fatalf("invalid read-at error: %+v", err)
		}

		_, err = h.WriteAt(nil, 0)
		if !errors.Is(err, errClosed) {
			t.Fatalf("invalid write-at error: %+v", err)
		}

		err = h.Close()
		if err != nil {
			t.Fatalf("error closing nil-data handle: %+v", err)
		}
	})
}

func TestHandleFrom(t *testing.T) {
	h := HandleFrom([]byte{0, 1, 2, 3})

	if got, want := h.Len(), 4; got != want {
		t.Fatalf("invalid len: got=%d, want=%d", got, want)
	}

	_, err := h.WriteAt([]byte{0xe0, 0x7f}, 2)
	if err != nil {
		t.Fatalf("could not write: %+v", err)
	}

	buf := make([]byte, 2)
	_, err = h.ReadAt(buf, 2)
	if err != nil {
		t.Fatalf("could not read: %+v", err)
	}
	if got, want := buf, []byte{0xe0, 0x7f}; string(got) != string(want) {
		t.Fatalf("invalid value: got=%v, want=%v", got, want)
	}

	_, err = h.ReadAt(buf, 3)
	if !errors.Is(err, io.EOF) {
		t.Fatalf("invalid short read error: %+v", err)
	}

	_, err = h.WriteAt(buf, 3)
	if !errors.Is(err, io.ErrShortWrite) {
		t.Fatalf("invalid short write error: %+v", err)
	}

	_, err = h.WriteAt(nil, -1)
	if got, want := err.Error(), "mmap: invalid WriteAt offset -1"; got != want {
		t.Fatalf("invalid error: %+v", err)
	}

	_, err = h.ReadAt(nil, -1)
	if got, want := err.Error(), "mmap: invalid ReadAt offset -1"; got != want {
		t.Fatalf("invalid error: %+v", err)
	}
}

func TestOpen(t *testing.T) {
	tmp := t.TempDir()
	fname := filepath.Join(tmp, "mem")

	err := os.WriteFile(fname, make([]byte, 2*os.Getpagesize()), 0644)
	if err != nil {
		t.Fatalf("could not create fake mem file: %+v", err)
	}

	h, err := Open(fname, 0, 256)
	if err != nil {
		t.Fatalf("could not mmap file: %+v", err)
	}
	defer h.Close()

	if got, want := h.Len(), 256; got != want {
		t.Fatalf("invalid len: got=%d, want=%d", got, want)
	}

	if got, want := h.Ident(), "mmap: window 0x00000000-0x00000100"; got != want {
		t.Fatalf("invalid ident: got=%q, want=%q", got, want)
	}

	_, err = h.WriteAt([]byte{0x53, 0x46}, 0xfe)
	if err != nil {
		t.Fatalf("could not write: %+v", err)
	}

	err = h.Close()
	if err != nil {
		t.Fatalf("could not close handle: %+v", err)
	}

	raw, err := os.ReadFile(fname)
	if err != nil {
		t.Fatalf("could not read back file: %+v", err)
	}
	if got, want := raw[0xfe:0x100], []byte{0x53, 0x46}; string(got) != string(want) {
		t.Fatalf("invalid mapped data: got=%v, want=%v", got, want)
	}

	for _, tc := range []struct {
		name string
		base int64
		size int
	}{
		{"zero-size", 0, 0},
		{"unaligned", 1, 256},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Open(fname, tc.base, tc.size)
			if err == nil {
				t.Fatalf("expected an error")
			}
		})
	}

	_, err = Open(filepath.Join(tmp, "not-there"), 0, 256)
	if err == nil {
		t.Fatalf("expected an error")
	}
}

// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package board opens M199 modules from their descriptors.
package board // import "github.com/go-lpc/m199/internal/board"

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-lpc/m199/desc"
	"github.com/go-lpc/m199/internal/fakemod"
	"github.com/go-lpc/m199/internal/mmap"
	"github.com/go-lpc/m199/internal/regs"
	"github.com/go-lpc/m199/m199"
	"golang.org/x/sys/unix"
)

// Config describes how to reach a module.
type Config struct {
	DevMem   string       // physical memory device, usually /dev/mem
	Simulate bool         // use a simulated module
	Variant  m199.Variant // hardware variant
}

// Window is a closable register window.
type Window interface {
	m199.Window
	io.Closer
}

// Board is an open M199 module.
type Board struct {
	*m199.Device
	Name string

	win Window
}

// Descriptor opens the descriptor of device from src.
// src is either a YAML descriptor file or "mysql:<dbname>".
func Descriptor(src, device string) (desc.Reader, error) {
	if db := strings.TrimPrefix(src, "mysql:"); db != src {
		return desc.OpenDB(db, device)
	}
	return desc.Load(src, device)
}

// Devices lists the devices described in src.
func Devices(src string) ([]string, error) {
	if strings.HasPrefix(src, "mysql:") {
		return nil, fmt.Errorf("board: listing devices of %q is not supported", src)
	}
	return desc.Devices(src)
}

// Open opens the module device described in src.
func Open(src, device string, cfg Config, opts ...m199.Option) (*Board, error) {
	dsc, err := Descriptor(src, device)
	if err != nil {
		return nil, fmt.Errorf("board: could not open descriptor of %q: %w", device, err)
	}

	win, err := OpenWindow(dsc, cfg)
	if err != nil {
		_ = dsc.Close()
		return nil, fmt.Errorf("board: could not open register window of %q: %w", device, err)
	}

	opts = append([]m199.Option{m199.WithVariant(cfg.Variant)}, opts...)
	dev, err := m199.Open(dsc, win, opts...)
	if err != nil {
		return nil, fmt.Errorf("board: could not open %q: %w", device, err)
	}

	return &Board{Device: dev, Name: device, win: win}, nil
}

// Sim returns the simulated module behind the board, if any.
func (b *Board) Sim() *fakemod.Module {
	if w, ok := b.win.(*simWindow); ok {
		return w.Module
	}
	return nil
}

// OpenWindow opens the register window described by the WINDOW/PHYS_ADDR
// and WINDOW/SIMULATE keys of dsc.
func OpenWindow(dsc desc.Reader, cfg Config) (Window, error) {
	sim, err := lookup(dsc, "WINDOW/SIMULATE", 0)
	if err != nil {
		return nil, err
	}
	if cfg.Simulate || sim != 0 {
		return &simWindow{fakemod.New(fakemod.Config{
			Wide:    cfg.Variant.Wide(),
			Swapped: cfg.Variant.Swap,
		})}, nil
	}

	addr, err := dsc.Uint32("WINDOW/PHYS_ADDR", 0)
	if err != nil {
		return nil, fmt.Errorf("board: could not read physical address: %w", err)
	}

	size := regs.A08_SIZE
	if cfg.Variant.Wide() {
		size = regs.A24_SIZE
	}
	if pgsz := unix.Getpagesize(); size < pgsz {
		size = pgsz
	}

	devmem := cfg.DevMem
	if devmem == "" {
		devmem = "/dev/mem"
	}
	return mmap.Open(devmem, int64(addr), size)
}

func lookup(dsc desc.Reader, key string, def uint32) (uint32, error) {
	v, err := dsc.Uint32(key, def)
	switch {
	case err == nil:
		return v, nil
	case errors.Is(err, desc.ErrKeyNotFound):
		return def, nil
	default:
		return 0, fmt.Errorf("board: could not read %q: %w", key, err)
	}
}

type simWindow struct {
	*fakemod.Module
}

func (*simWindow) Close() error { return nil }

var (
	_ Window = (*simWindow)(nil)
	_ Window = (*mmap.Handle)(nil)
)

// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package m199

import (
	"log"
	"os"
	"time"
)

type config struct {
	msg     *log.Logger
	alloc   Allocator
	variant Variant
	delay   func(time.Duration)
}

func newConfig() config {
	return config{
		msg:     log.New(os.Stdout, "m199: ", 0),
		alloc:   heap{},
		variant: DefaultVariant,
		delay:   time.Sleep,
	}
}

// Option configures a Device.
type Option func(*config)

// WithLogger sets the logger of a Device.
func WithLogger(msg *log.Logger) Option {
	return func(cfg *config) {
		cfg.msg = msg
	}
}

// WithAllocator sets the allocator providing the handle storage of a Device.
func WithAllocator(alloc Allocator) Option {
	return func(cfg *config) {
		cfg.alloc = alloc
	}
}

// WithVariant overrides the hardware variant selected at build time.
func WithVariant(v Variant) Option {
	return func(cfg *config) {
		cfg.variant = v
	}
}

// WithDelay sets the function used to wait for the completion of
// EEPROM write cycles.
func WithDelay(delay func(time.Duration)) Option {
	return func(cfg *config) {
		cfg.delay = delay
	}
}

// Allocator provides the storage of a Device handle.
type Allocator interface {
	Alloc(n int) ([]uint16, error)
	Free(p []uint16)
}

type heap struct{}

func (heap) Alloc(n int) ([]uint16, error) { return make([]uint16, n), nil }
func (heap) Free(p []uint16)               {}

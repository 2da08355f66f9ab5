// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package desc holds descriptor sources: the key/value configuration
// of a device, read at initialization time.
package desc // import "github.com/go-lpc/m199/desc"

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

var (
	// ErrKeyNotFound is returned, along with the provided default value,
	// when a key is not present in a descriptor.
	ErrKeyNotFound = errors.New("desc: key not found")
)

// Reader reads descriptor values.
type Reader interface {
	// Uint32 returns the value of key, or def and ErrKeyNotFound
	// if key is absent.
	Uint32(key string, def uint32) (uint32, error)
	Close() error
}

// Ident identifies the descriptor library.
func Ident() string { return "desc: go-lpc descriptor library" }

// Map is an in-memory descriptor.
type Map map[string]uint32

// Uint32 implements Reader.
func (m Map) Uint32(key string, def uint32) (uint32, error) {
	v, ok := m[key]
	if !ok {
		return def, ErrKeyNotFound
	}
	return v, nil
}

// Close implements Reader.
func (m Map) Close() error { return nil }

// Ident identifies the descriptor source.
func (m Map) Ident() string { return Ident() }

func (m Map) String() string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	o := new(strings.Builder)
	for _, k := range keys {
		fmt.Fprintf(o, "%s = 0x%x\n", k, m[k])
	}
	return o.String()
}

func parseUint32(key, s string) (uint32, error) {
	switch strings.ToLower(s) {
	case "true":
		return 1, nil
	case "false":
		return 0, nil
	}
	v, err := strconv.ParseUint(strings.TrimSpace(s), 0, 32)
	if err != nil {
		return 0, fmt.Errorf("desc: invalid value %q for key %q: %w", s, key, err)
	}
	return uint32(v), nil
}

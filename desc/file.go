// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package desc

import (
	"fmt"
	"io"
	"log"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// File is a descriptor read from a YAML descriptor file.
//
// A descriptor file holds one mapping per device.
// Nested mappings are flattened into GROUP/KEY keys:
//
//	M199_1:
//	  DEBUG_LEVEL: 0xc0008000
//	  ID_CHECK: true
//	  LED: 0x55
//	  WINDOW:
//	    PHYS_ADDR: 0xe8000000
type File struct {
	name string
	keys Map
	dbg  uint32
	msg  *log.Logger
}

// Load reads the descriptor of device from the YAML file fname.
func Load(fname, device string) (*File, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, fmt.Errorf("desc: could not open descriptor file: %w", err)
	}
	defer f.Close()

	return Parse(f, device)
}

// Parse reads the descriptor of device from r.
func Parse(r io.Reader, device string) (*File, error) {
	var raw map[string]interface{}
	err := yaml.NewDecoder(r).Decode(&raw)
	if err != nil {
		return nil, fmt.Errorf("desc: could not decode descriptor: %w", err)
	}

	sec, ok := raw[device]
	if !ok {
		return nil, fmt.Errorf("desc: no descriptor for device %q", device)
	}

	kvs, ok := sec.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("desc: invalid descriptor for device %q (type=%T)", device, sec)
	}

	keys := make(Map)
	err = flatten(keys, "", kvs)
	if err != nil {
		return nil, fmt.Errorf("desc: invalid descriptor for device %q: %w", device, err)
	}

	return &File{
		name: device,
		keys: keys,
		msg:  log.New(io.Discard, "desc: ", 0),
	}, nil
}

// Devices lists the device names described in the YAML file fname.
func Devices(fname string) ([]string, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, fmt.Errorf("desc: could not open descriptor file: %w", err)
	}
	defer f.Close()

	var raw map[string]yaml.Node
	err = yaml.NewDecoder(f).Decode(&raw)
	if err != nil {
		return nil, fmt.Errorf("desc: could not decode descriptor: %w", err)
	}

	names := make([]string, 0, len(raw))
	for k := range raw {
		names = append(names, k)
	}
	sort.Strings(names)
	return names, nil
}

func flatten(dst Map, prefix string, kvs map[string]interface{}) error {
	for k, v := range kvs {
		key := k
		if prefix != "" {
			key = prefix + "/" + k
		}
		switch v := v.(type) {
		case map[string]interface{}:
			err := flatten(dst, key, v)
			if err != nil {
				return err
			}
		case int:
			if v < 0 || uint64(v) > 0xffffffff {
				return fmt.Errorf("value %d out of range for key %q", v, key)
			}
			dst[key] = uint32(v)
		case int64:
			if v < 0 || v > 0xffffffff {
				return fmt.Errorf("value %d out of range for key %q", v, key)
			}
			dst[key] = uint32(v)
		case uint64:
			if v > 0xffffffff {
				return fmt.Errorf("value %d out of range for key %q", v, key)
			}
			dst[key] = uint32(v)
		case bool:
			if v {
				dst[key] = 1
			} else {
				dst[key] = 0
			}
		case string:
			u, err := parseUint32(key, v)
			if err != nil {
				return err
			}
			dst[key] = u
		default:
			return fmt.Errorf("invalid value type %T for key %q", v, key)
		}
	}
	return nil
}

// Name returns the device name of the descriptor.
func (f *File) Name() string { return f.name }

// Uint32 implements Reader.
func (f *File) Uint32(key string, def uint32) (uint32, error) {
	v, err := f.keys.Uint32(key, def)
	if err != nil {
		f.debugf("%s: key %q not found, using default 0x%x", f.name, key, def)
		return v, err
	}
	f.debugf("%s: %s = 0x%x", f.name, key, v)
	return v, nil
}

// SetDebugLevel sets the verbosity of descriptor lookups.
func (f *File) SetDebugLevel(lvl uint32, msg *log.Logger) {
	f.dbg = lvl
	if msg != nil {
		f.msg = msg
	}
}

func (f *File) debugf(format string, args ...interface{}) {
	if f.dbg&dbgLev3 == 0 {
		return
	}
	f.msg.Printf(format, args...)
}

// Close implements Reader.
func (f *File) Close() error {
	f.keys = nil
	return nil
}

// Ident identifies the descriptor source.
func (f *File) Ident() string { return Ident() }

// dbgLev3 is the debug level bit enabling per-key traces.
const dbgLev3 = 0x4

// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package m199

import (
	"fmt"
	"strings"
)

// Variant describes a hardware variant of the M199 module.
type Variant struct {
	Mode AddrMode // MA08 (narrow, indexed SDRAM) or MA24 (wide, linear SDRAM)
	Swap bool     // byte lanes swapped between host and module
}

// Known hardware variants.
var (
	M199        = Variant{Mode: MA08}
	M199_SW     = Variant{Mode: MA08, Swap: true}
	M199_A24    = Variant{Mode: MA24}
	M199_A24_SW = Variant{Mode: MA24, Swap: true}
)

// DefaultVariant is the variant selected at build time,
// with the m199_a24 and m199_swap build tags.
var DefaultVariant = Variant{Mode: defaultMode, Swap: defaultSwap}

// Variants lists the known hardware variants.
func Variants() []Variant {
	return []Variant{M199, M199_SW, M199_A24, M199_A24_SW}
}

// ParseVariant returns the variant named name (e.g. "M199_A24_SW").
func ParseVariant(name string) (Variant, error) {
	for _, v := range Variants() {
		if strings.EqualFold(v.String(), name) {
			return v, nil
		}
	}
	return Variant{}, fmt.Errorf("m199: unknown variant %q", name)
}

// Wide reports whether the SDRAM is linearly mapped in the register window.
func (v Variant) Wide() bool { return v.Mode == MA24 }

func (v Variant) String() string {
	name := "M199"
	if v.Wide() {
		name += "_A24"
	}
	if v.Swap {
		name += "_SW"
	}
	return name
}

func (v Variant) sdram() sdramAccess {
	if v.Wide() {
		return linearSDRAM{}
	}
	return indexedSDRAM{}
}

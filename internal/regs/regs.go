// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package regs holds the register map of the M199 module.
package regs // import "github.com/go-lpc/m199/internal/regs"

// register offsets in the module address space.
const (
	USER_MODULE = 0x00 // start of the user module area

	IRQ_IRR = 0xD0 // interrupt request register
	IRQ_IER = 0xD8 // interrupt enable register

	LED_REG = 0xE0 // LED GPIO register

	SDRAM_ADDR = 0xE8 // indexed SDRAM address register (A08 mode)
	SDRAM_DATA = 0xEC // indexed SDRAM data register (A08 mode)

	FLASH_ADDR = 0xF0 // flash address register
	FLASH_DATA = 0xF4 // flash data register

	USM_PROM = 0xFC // USM EEPROM microwire register
	ID_PROM  = 0xFE // module ID PROM microwire register
)

// address space sizes.
const (
	A08_SIZE = 0x100
	A24_SIZE = 0x1000000
)

// LED register.
const (
	LED_MASK    = 0x7F
	LED_ALL_OFF = 0x7F // LEDs are active-low
)

// flash data register commands.
const (
	FLASH_READ_MODE = 0xFFFF
)

// microwire register bits.
const (
	UWIRE_DAT = 0x01 // data in/out
	UWIRE_CLK = 0x02 // clock
	UWIRE_CS  = 0x04 // chip select
)

// ID PROM layout.
const (
	ID_MAGIC     = 0x5346 // expected word 0
	ID_MODULE    = 199    // expected word 1
	ID_SIZE      = 128    // ID PROM size in bytes
	ID_ADDR_BITS = 6
)

// USM EEPROM layout.
const (
	USM_WORDS     = 128
	USM_ADDR_BITS = 8
)

// FPGA header layout.
const (
	HDR_WORDS = 128
)

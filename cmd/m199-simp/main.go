// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command m199-simp exercises the SDRAM, USM EEPROM, FPGA header and LEDs
// of M199 modules.
//
// Usage: m199-simp [OPTIONS] DEVICE [DEVICE...]
//
// Example:
//
//	$> m199-simp -desc ./m199.yaml -r -w -f M199_1 M199_2
package main // import "github.com/go-lpc/m199/cmd/m199-simp"

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/go-lpc/m199/internal/board"
	"github.com/go-lpc/m199/internal/regs"
	"github.com/go-lpc/m199/m199"
	"golang.org/x/sync/errgroup"
)

const (
	sdramOffset = 0x00F00000
	ledDemo     = 0x55
)

func main() {
	log.SetPrefix("m199-simp: ")
	log.SetFlags(0)

	var (
		src     = flag.String("desc", "m199.yaml", "path to descriptor file (or mysql:DBNAME)")
		devmem  = flag.String("dev-mem", "/dev/mem", "path to physical memory device")
		sim     = flag.Bool("sim", false, "use simulated modules")
		variant = flag.String("variant", m199.DefaultVariant.String(), "hardware variant (M199, M199_SW, M199_A24, M199_A24_SW)")

		opts options
	)
	flag.BoolVar(&opts.header, "f", false, "show FPGA header")
	flag.BoolVar(&opts.lights, "l", false, "running lights")
	flag.BoolVar(&opts.read, "r", false, "SDRAM read access")
	flag.BoolVar(&opts.write, "w", false, "write predefined values to SDRAM")
	flag.BoolVar(&opts.usm, "u", false, "show USM EEPROM")
	flag.BoolVar(&opts.eeprom, "e", false, "set USM EEPROM to predefined values")
	flag.IntVar(&opts.steps, "n", 0, "number of running lights steps (0: until interrupted)")
	flag.DurationVar(&opts.period, "period", 100*time.Millisecond, "running lights period")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: m199-simp [OPTIONS] DEVICE [DEVICE...]

ex:
 $> m199-simp -desc ./m199.yaml -r -w -f M199_1 M199_2

options:
`)
		flag.PrintDefaults()
	}

	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		log.Fatalf("missing device name")
	}

	v, err := m199.ParseVariant(*variant)
	if err != nil {
		log.Fatalf("could not parse variant: %+v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg := board.Config{DevMem: *devmem, Simulate: *sim, Variant: v}
	err = run(ctx, os.Stdout, *src, flag.Args(), cfg, opts)
	if err != nil {
		log.Fatalf("could not run m199-simp: %+v", err)
	}
}

type options struct {
	header bool // show FPGA header
	lights bool // running lights
	read   bool // SDRAM read
	write  bool // SDRAM write
	usm    bool // show USM EEPROM
	eeprom bool // program USM EEPROM

	steps  int
	period time.Duration
}

func run(ctx context.Context, w io.Writer, src string, devs []string, cfg board.Config, opts options) error {
	outs := make([]bytes.Buffer, len(devs))

	var grp errgroup.Group
	for i := range devs {
		i := i
		grp.Go(func() error {
			o := &outs[i]
			fmt.Fprintf(o, "=== %s ===\n", devs[i])
			err := simp(ctx, o, src, devs[i], cfg, opts)
			if err != nil {
				return fmt.Errorf("device %q: %w", devs[i], err)
			}
			return nil
		})
	}
	err := grp.Wait()

	for i := range outs {
		_, e := w.Write(outs[i].Bytes())
		if e != nil && err == nil {
			err = fmt.Errorf("could not write output: %w", e)
		}
	}
	return err
}

func simp(ctx context.Context, w io.Writer, src, name string, cfg board.Config, opts options) error {
	dev, err := board.Open(
		src, name, cfg,
		m199.WithLogger(log.New(w, "m199: ", 0)),
	)
	if err != nil {
		return fmt.Errorf("could not open: %w", err)
	}
	defer dev.Close()

	led, err := dev.GetStat(0, m199.CodeLED)
	if err != nil {
		return fmt.Errorf("could not get LED: %w", err)
	}
	printLEDs(w, uint32(led))

	err = dev.SetStat(0, m199.CodeLED, ledDemo)
	if err != nil {
		return fmt.Errorf("could not set LED: %w", err)
	}

	led, err = dev.GetStat(0, m199.CodeLED)
	if err != nil {
		return fmt.Errorf("could not get LED: %w", err)
	}
	printLEDs(w, uint32(led))

	if opts.usm {
		op := m199.USM{Block: m199.NewBlock(2 * regs.USM_WORDS)}
		err = dev.Get(0, &op)
		if err != nil {
			return fmt.Errorf("could not read USM EEPROM: %w", err)
		}
		fmt.Fprintf(w, "\nUSM EEPROM content:\n")
		dump(w, op.Block.Words(regs.USM_WORDS), "%02x:", " 0x%04x")
	}

	if opts.eeprom {
		img := make([]uint16, regs.USM_WORDS)
		img[0] = 0x5553
		img[1] = 0x0000
		for i := 2; i < len(img); i++ {
			img[i] = 0xffff
		}
		err = dev.Set(0, &m199.USM{Block: m199.BlockOf(img)})
		if err != nil {
			return fmt.Errorf("could not write USM EEPROM: %w", err)
		}
		fmt.Fprintf(w, "\nUSM EEPROM has been set to predefined values\n")
	}

	if opts.header {
		op := m199.FPGAHeader{Block: m199.NewBlock(2 * regs.HDR_WORDS)}
		err = dev.Get(0, &op)
		if err != nil {
			return fmt.Errorf("could not read FPGA header: %w", err)
		}
		hdr := op.Block.Words(regs.HDR_WORDS)
		fmt.Fprintf(w, "\nFPGA header content:\n")
		dump(w, hdr, "%02x:", " 0x%04x")
		fmt.Fprintf(w, "\nFile name: %s\n", m199.FPGAFileName(hdr))
	}

	if opts.read {
		acc := m199.SDRAMAccess{Offset: sdramOffset, Size: 2 * m199.SDRAMBufferSize}
		blk := acc.Block()
		err = dev.GetBlock(0, m199.CodeBlkSDRAM, blk)
		if err != nil {
			return fmt.Errorf("could not read SDRAM: %w", err)
		}
		err = acc.Decode(blk)
		if err != nil {
			return fmt.Errorf("could not decode SDRAM block: %w", err)
		}
		fmt.Fprintf(w, "\nSDRAM content at offset 0x%08x:\n", acc.Offset)
		dump(w, acc.Words(), "%08x:", " %04x")
	}

	if opts.write {
		acc := m199.SDRAMAccess{Offset: sdramOffset, Size: 2 * m199.SDRAMBufferSize}
		for i := range acc.Buf {
			acc.Buf[i] = uint16(i * 4)
		}
		fmt.Fprintf(w, "\nWrite predefined values to SDRAM at offset 0x%08x\n", acc.Offset)
		err = dev.SetBlock(0, m199.CodeBlkSDRAM, acc.Block())
		if err != nil {
			return fmt.Errorf("could not write SDRAM: %w", err)
		}

		acc.Buf = [m199.SDRAMBufferSize]uint16{}
		blk := acc.Block()
		err = dev.GetBlock(0, m199.CodeBlkSDRAM, blk)
		if err != nil {
			return fmt.Errorf("could not read back SDRAM: %w", err)
		}
		err = acc.Decode(blk)
		if err != nil {
			return fmt.Errorf("could not decode SDRAM block: %w", err)
		}
		dump(w, acc.Words(), "%08x:", " %04x")
	}

	if opts.lights {
		err = runningLights(ctx, w, dev.Device, opts.steps, opts.period)
		if err != nil {
			return err
		}
	}

	err = dev.Close()
	if err != nil {
		return fmt.Errorf("could not close: %w", err)
	}
	return nil
}

// runningLights shifts a single lit LED along the LED bar, n times or
// until ctx is done when n is zero.
func runningLights(ctx context.Context, w io.Writer, dev *m199.Device, n int, period time.Duration) error {
	fmt.Fprintf(w, "Running lights (interrupt to stop)\n")

	tck := time.NewTicker(period)
	defer tck.Stop()

	v := uint32(1)
	for i := 0; n == 0 || i < n; i++ {
		err := dev.SetLED(^v & regs.LED_MASK)
		if err != nil {
			return fmt.Errorf("could not set LED: %w", err)
		}
		if v > 0x7f {
			v = 1
		} else {
			v <<= 1
		}

		select {
		case <-ctx.Done():
			return nil
		case <-tck.C:
		}
	}
	return nil
}

// printLEDs prints the state of the D1..D7 LEDs. A cleared bit lights its LED.
func printLEDs(w io.Writer, v uint32) {
	state := func(bit uint) string {
		if (v>>bit)&1 != 0 {
			return "OFF"
		}
		return " ON"
	}
	fmt.Fprintf(w, "LEDs are switched\n  D1  D2  D3  D4  D5  D6  D7\n")
	for _, bit := range []uint{3, 2, 1, 0, 4, 5, 6} {
		fmt.Fprintf(w, " %s", state(bit))
	}
	fmt.Fprintf(w, "\n")
}

func dump(w io.Writer, p []uint16, row, cell string) {
	for i, v := range p {
		if i%8 == 0 {
			if i > 0 {
				fmt.Fprintf(w, "\n")
			}
			fmt.Fprintf(w, row, i/8)
		}
		fmt.Fprintf(w, cell, v)
	}
	fmt.Fprintf(w, "\n")
}

// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command m199-sh is an interactive shell to inspect and drive an M199 module.
//
// Usage: m199-sh [OPTIONS] DEVICE
//
// Example:
//
//	$> m199-sh -desc ./m199.yaml M199_1
//	m199> get LED
//	LED = 0x7f
//	m199> led 0x55
//	m199> sdram read 0xf00000 8
//	00000000: 0000 0004 0008 000c 0010 0014 0018 001c
package main // import "github.com/go-lpc/m199/cmd/m199-sh"

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/go-lpc/m199/internal/board"
	"github.com/go-lpc/m199/internal/regs"
	"github.com/go-lpc/m199/m199"
	"github.com/peterh/liner"
)

func main() {
	log.SetPrefix("m199-sh: ")
	log.SetFlags(0)

	var (
		src     = flag.String("desc", "m199.yaml", "path to descriptor file (or mysql:DBNAME)")
		devmem  = flag.String("dev-mem", "/dev/mem", "path to physical memory device")
		sim     = flag.Bool("sim", false, "use a simulated module")
		variant = flag.String("variant", m199.DefaultVariant.String(), "hardware variant (M199, M199_SW, M199_A24, M199_A24_SW)")
		hist    = flag.String("history", histFile(), "path to history file")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: m199-sh [OPTIONS] DEVICE

ex:
 $> m199-sh -desc ./m199.yaml M199_1

options:
`)
		flag.PrintDefaults()
	}

	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		log.Fatalf("missing device name")
	}

	v, err := m199.ParseVariant(*variant)
	if err != nil {
		log.Fatalf("could not parse variant: %+v", err)
	}

	cfg := board.Config{DevMem: *devmem, Simulate: *sim, Variant: v}
	dev, err := board.Open(*src, flag.Arg(0), cfg)
	if err != nil {
		log.Fatalf("could not open device: %+v", err)
	}
	defer dev.Close()

	err = run(newShell(dev.Device, os.Stdout), *hist)
	if err != nil {
		log.Fatalf("could not run m199-sh: %+v", err)
	}

	err = dev.Close()
	if err != nil {
		log.Fatalf("could not close device: %+v", err)
	}
}

func histFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".m199_history")
}

func run(sh *shell, hist string) error {
	term := liner.NewLiner()
	defer term.Close()

	term.SetCtrlCAborts(true)
	term.SetCompleter(sh.complete)

	if hist != "" {
		if f, err := os.Open(hist); err == nil {
			_, _ = term.ReadHistory(f)
			_ = f.Close()
		}
	}

	for {
		line, err := term.Prompt("m199> ")
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
				break
			}
			return fmt.Errorf("could not read command: %w", err)
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		term.AppendHistory(line)

		err = sh.exec(line)
		if err != nil {
			if errors.Is(err, errQuit) {
				break
			}
			fmt.Fprintf(sh.out, "error: %+v\n", err)
		}
	}

	if hist == "" {
		return nil
	}
	f, err := os.Create(hist)
	if err != nil {
		return fmt.Errorf("could not create history file: %w", err)
	}
	defer f.Close()

	_, err = term.WriteHistory(f)
	if err != nil {
		return fmt.Errorf("could not write history file: %w", err)
	}
	return f.Close()
}

var errQuit = errors.New("m199-sh: quit")

type shell struct {
	dev  *m199.Device
	out  io.Writer
	cmds map[string]command
}

type command struct {
	help string
	run  func(args []string) error
}

func newShell(dev *m199.Device, out io.Writer) *shell {
	sh := &shell{dev: dev, out: out}
	sh.cmds = map[string]command{
		"codes":  {"codes: list status codes", sh.cmdCodes},
		"get":    {"get CODE: read a status code", sh.cmdGet},
		"set":    {"set CODE VALUE: write a status code", sh.cmdSet},
		"getblk": {"getblk CODE [SIZE]: read a block status code", sh.cmdGetBlock},
		"led":    {"led [VALUE]: read or write the LED register", sh.cmdLED},
		"sdram":  {"sdram read OFFSET [N] | sdram write OFFSET V0 [V1...]: SDRAM access", sh.cmdSDRAM},
		"usm":    {"usm [V0 V1...]: read or program the USM EEPROM", sh.cmdUSM},
		"header": {"header: show the FPGA header", sh.cmdHeader},
		"id":     {"id: show the ID PROM", sh.cmdID},
		"ident":  {"ident: show the ident table", sh.cmdIdent},
		"help":   {"help: show this help", sh.cmdHelp},
		"quit":   {"quit: leave the shell", func([]string) error { return errQuit }},
	}
	sh.cmds["exit"] = sh.cmds["quit"]
	return sh
}

func (sh *shell) exec(line string) error {
	toks := strings.Fields(line)
	if len(toks) == 0 {
		return nil
	}
	cmd, ok := sh.cmds[toks[0]]
	if !ok {
		return fmt.Errorf("unknown command %q", toks[0])
	}
	return cmd.run(toks[1:])
}

func (sh *shell) complete(line string) []string {
	var o []string
	toks := strings.Fields(line)
	switch {
	case len(toks) == 0:
		o = sh.names()
	case len(toks) == 1 && !strings.HasSuffix(line, " "):
		for _, name := range sh.names() {
			if strings.HasPrefix(name, toks[0]) {
				o = append(o, name)
			}
		}
	case toks[0] == "get" || toks[0] == "set" || toks[0] == "getblk":
		pre := ""
		if len(toks) == 2 && !strings.HasSuffix(line, " ") {
			pre = strings.ToUpper(toks[1])
		}
		if len(toks) > 2 || (len(toks) == 2 && strings.HasSuffix(line, " ")) {
			return nil
		}
		for _, code := range m199.Codes() {
			name := code.String()
			if strings.HasPrefix(name, pre) {
				o = append(o, toks[0]+" "+name)
			}
		}
	}
	return o
}

func (sh *shell) names() []string {
	o := make([]string, 0, len(sh.cmds))
	for name := range sh.cmds {
		o = append(o, name)
	}
	sort.Strings(o)
	return o
}

func (sh *shell) cmdHelp(args []string) error {
	names := sh.names()
	for _, name := range names {
		if name == "exit" {
			continue
		}
		fmt.Fprintf(sh.out, "  %s\n", sh.cmds[name].help)
	}
	return nil
}

func (sh *shell) cmdCodes(args []string) error {
	for _, code := range m199.Codes() {
		mode := ""
		if code.CanGet() {
			mode += "r"
		}
		if code.CanSet() {
			mode += "w"
		}
		kind := "stat"
		if code.IsBlock() {
			kind = "block"
		}
		fmt.Fprintf(sh.out, "0x%04x %-16s %-5s %s\n", int32(code), code, kind, mode)
	}
	return nil
}

func (sh *shell) cmdGet(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: get CODE")
	}
	code, err := parseCode(args[0])
	if err != nil {
		return err
	}
	v, err := sh.dev.GetStat(0, code)
	if err != nil {
		return err
	}
	fmt.Fprintf(sh.out, "%v = 0x%x\n", code, uint32(v))
	return nil
}

func (sh *shell) cmdSet(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: set CODE VALUE")
	}
	code, err := parseCode(args[0])
	if err != nil {
		return err
	}
	v, err := parseUint(args[1], 32)
	if err != nil {
		return err
	}
	return sh.dev.SetStat(0, code, int32(uint32(v)))
}

func (sh *shell) cmdGetBlock(args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("usage: getblk CODE [SIZE]")
	}
	code, err := parseCode(args[0])
	if err != nil {
		return err
	}
	size := 256
	if len(args) == 2 {
		v, err := parseUint(args[1], 16)
		if err != nil {
			return err
		}
		size = int(v)
	}

	blk := m199.NewBlock(size)
	err = sh.dev.GetBlock(0, code, blk)
	if err != nil {
		return err
	}

	if code == m199.CodeRevID {
		fmt.Fprintf(sh.out, "%s\n", strings.TrimRight(string(blk.Data), "\x00"))
		return nil
	}
	dump(sh.out, blk.Words(size/2))
	return nil
}

func (sh *shell) cmdLED(args []string) error {
	switch len(args) {
	case 0:
		v, err := sh.dev.LED()
		if err != nil {
			return err
		}
		fmt.Fprintf(sh.out, "LED = 0x%02x\n", v)
		return nil
	case 1:
		v, err := parseUint(args[0], 32)
		if err != nil {
			return err
		}
		return sh.dev.SetLED(uint32(v))
	default:
		return fmt.Errorf("usage: led [VALUE]")
	}
}

func (sh *shell) cmdSDRAM(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: sdram read OFFSET [N] | sdram write OFFSET V0 [V1...]")
	}
	off, err := parseUint(args[1], 32)
	if err != nil {
		return err
	}

	switch args[0] {
	case "read":
		n := 8
		if len(args) > 2 {
			v, err := parseUint(args[2], 16)
			if err != nil {
				return err
			}
			n = int(v)
		}
		p := make([]uint16, n)
		err = sh.dev.ReadSDRAM(uint32(off), p)
		if err != nil {
			return err
		}
		dump(sh.out, p)
		return nil
	case "write":
		p, err := parseWords(args[2:])
		if err != nil {
			return err
		}
		return sh.dev.WriteSDRAM(uint32(off), p)
	default:
		return fmt.Errorf("unknown sdram command %q", args[0])
	}
}

func (sh *shell) cmdUSM(args []string) error {
	if len(args) == 0 {
		p := make([]uint16, regs.USM_WORDS)
		err := sh.dev.ReadUSM(p)
		if err != nil {
			return err
		}
		dump(sh.out, p)
		return nil
	}

	words, err := parseWords(args)
	if err != nil {
		return err
	}
	if len(words) > regs.USM_WORDS {
		return fmt.Errorf("too many USM words (%d > %d)", len(words), regs.USM_WORDS)
	}
	p := make([]uint16, regs.USM_WORDS)
	for i := range p {
		p[i] = 0xffff
	}
	copy(p, words)
	return sh.dev.WriteUSM(p)
}

func (sh *shell) cmdHeader(args []string) error {
	p := make([]uint16, regs.HDR_WORDS)
	err := sh.dev.ReadFPGAHeader(p)
	if err != nil {
		return err
	}
	dump(sh.out, p)
	fmt.Fprintf(sh.out, "file: %s\n", m199.FPGAFileName(p))
	return nil
}

func (sh *shell) cmdID(args []string) error {
	p := make([]uint16, regs.ID_SIZE/2)
	err := sh.dev.ReadIDData(p)
	if err != nil {
		return err
	}
	dump(sh.out, p)
	return nil
}

func (sh *shell) cmdIdent(args []string) error {
	for _, ident := range sh.dev.IdentTable() {
		fmt.Fprintf(sh.out, "%s\n", ident())
	}
	return nil
}

func parseCode(s string) (m199.Code, error) {
	for _, code := range m199.Codes() {
		if strings.EqualFold(s, code.String()) {
			return code, nil
		}
	}
	v, err := strconv.ParseInt(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid status code %q", s)
	}
	return m199.Code(v), nil
}

func parseUint(s string, bitSize int) (uint64, error) {
	v, err := strconv.ParseUint(s, 0, bitSize)
	if err != nil {
		return 0, fmt.Errorf("invalid value %q: %w", s, err)
	}
	return v, nil
}

func parseWords(args []string) ([]uint16, error) {
	p := make([]uint16, len(args))
	for i, arg := range args {
		v, err := parseUint(arg, 16)
		if err != nil {
			return nil, err
		}
		p[i] = uint16(v)
	}
	return p, nil
}

func dump(w io.Writer, p []uint16) {
	for i, v := range p {
		if i%8 == 0 {
			if i > 0 {
				fmt.Fprintf(w, "\n")
			}
			fmt.Fprintf(w, "%08x:", 2*i)
		}
		fmt.Fprintf(w, " %04x", v)
	}
	fmt.Fprintf(w, "\n")
}

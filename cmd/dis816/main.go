// Package main implements dis816, a 65816 disassembler for Super NES ROM
// images and raw binaries.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"gosnes/internal/cartridge"
	"gosnes/internal/cpu"
	"gosnes/internal/memory"
	"gosnes/internal/version"
)

// flatMemory places a raw binary at a fixed 24-bit origin
type flatMemory struct {
	origin uint32
	data   []uint8
}

func (f *flatMemory) Read(address uint32) (uint8, bool) {
	offset := (address - f.origin) & 0xFFFFFF
	if offset >= uint32(len(f.data)) {
		return 0, false
	}
	return f.data[offset], true
}

func (f *flatMemory) Write(uint32, uint8) {}

func parseHex(s string) (uint32, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "$"), "0x")
	v, err := strconv.ParseUint(s, 16, 24)
	return uint32(v), err
}

func main() {
	var (
		mapper  = flag.String("mapper", "lorom", "Mapping: lorom, hirom, exhirom or raw")
		origin  = flag.String("origin", "008000", "Load address for raw binaries")
		start   = flag.String("start", "", "First address (default: reset vector)")
		count   = flag.Int("count", 32, "Number of instructions")
		native  = flag.Bool("native", false, "Start in native mode")
		m16     = flag.Bool("m16", false, "16-bit accumulator (native mode)")
		x16     = flag.Bool("x16", false, "16-bit index registers (native mode)")
		showVer = flag.Bool("version", false, "Show version information")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: dis816 [options] <file>\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVer {
		fmt.Println(version.GetDetailedVersion())
		return
	}
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	filename := flag.Arg(0)

	var mem cpu.MemoryInterface
	if *mapper == "raw" {
		base, err := parseHex(*origin)
		if err != nil {
			log.Fatalf("bad origin %q: %v", *origin, err)
		}
		data, err := os.ReadFile(filename)
		if err != nil {
			log.Fatalf("failed to read %s: %v", filename, err)
		}
		mem = &flatMemory{origin: base, data: data}
	} else {
		kind, err := cartridge.ParseKind(*mapper)
		if err != nil {
			log.Fatal(err)
		}
		cart, err := cartridge.LoadFromFile(filename, kind, 0)
		if err != nil {
			log.Fatal(err)
		}
		mem = memory.New(nil, cart)
	}

	var address uint32
	if *start != "" {
		v, err := parseHex(*start)
		if err != nil {
			log.Fatalf("bad start %q: %v", *start, err)
		}
		address = v
	} else {
		lo, _ := mem.Read(0x00FFFC)
		hi, _ := mem.Read(0x00FFFD)
		address = uint32(hi)<<8 | uint32(lo)
	}

	p := cpu.ResetStatus()
	if *native {
		p = cpu.NewStatus(cpu.FlagMemory8 | cpu.FlagIndex8)
		if *m16 {
			p.Clear(cpu.FlagMemory8)
		}
		if *x16 {
			p.Clear(cpu.FlagIndex8)
		}
	}

	for _, line := range cpu.Listing(mem, address, *count, p) {
		fmt.Println(line)
	}
}

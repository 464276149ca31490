package cpu

import (
	"fmt"
	"strings"
)

// Line is one disassembled instruction.
type Line struct {
	Address uint32
	Bytes   []uint8
	Text    string
}

func (l Line) String() string {
	hex := make([]string, len(l.Bytes))
	for i, b := range l.Bytes {
		hex[i] = fmt.Sprintf("%02X", b)
	}
	return fmt.Sprintf("$%06X  %-12s %s", l.Address, strings.Join(hex, " "), l.Text)
}

// peek reads without side effects on any CPU latch. Open bus shows as 0.
func peek(mem MemoryInterface, address uint32) uint8 {
	value, _ := mem.Read(address & addressMask)
	return value
}

// Disassemble decodes the instruction at address using the widths in p and
// returns its text and byte length. Operand bytes stay in the same bank.
func Disassemble(mem MemoryInterface, address uint32, p Status) (string, int) {
	bank := uint8(address >> 16)
	pc := uint16(address)
	byteAt := func(n uint16) uint32 {
		return uint32(peek(mem, bankAddress(bank, pc+n)))
	}

	in := Decode(peek(mem, address))
	length := Length(in, p)

	b1 := byteAt(1)
	w := byteAt(2)<<8 | b1
	l := byteAt(3)<<16 | w

	var operand string
	switch in.Mode {
	case Implied:
	case Accumulator:
		operand = "A"
	case ImmediateM, ImmediateX, Immediate8:
		if length == 3 {
			operand = fmt.Sprintf("#$%04X", w)
		} else {
			operand = fmt.Sprintf("#$%02X", b1)
		}
	case Direct:
		operand = fmt.Sprintf("$%02X", b1)
	case DirectX:
		operand = fmt.Sprintf("$%02X,X", b1)
	case DirectY:
		operand = fmt.Sprintf("$%02X,Y", b1)
	case DirectIndirect, StackDirectIndirect:
		operand = fmt.Sprintf("($%02X)", b1)
	case DirectIndirectX:
		operand = fmt.Sprintf("($%02X,X)", b1)
	case DirectIndirectY:
		operand = fmt.Sprintf("($%02X),Y", b1)
	case DirectIndirectLong:
		operand = fmt.Sprintf("[$%02X]", b1)
	case DirectIndirectLongY:
		operand = fmt.Sprintf("[$%02X],Y", b1)
	case Absolute, StackAbsolute:
		operand = fmt.Sprintf("$%04X", w)
	case AbsoluteX:
		operand = fmt.Sprintf("$%04X,X", w)
	case AbsoluteY:
		operand = fmt.Sprintf("$%04X,Y", w)
	case AbsoluteLong:
		operand = fmt.Sprintf("$%06X", l)
	case AbsoluteLongX:
		operand = fmt.Sprintf("$%06X,X", l)
	case AbsoluteIndirect:
		operand = fmt.Sprintf("($%04X)", w)
	case AbsoluteIndirectX:
		operand = fmt.Sprintf("($%04X,X)", w)
	case AbsoluteIndirectLong:
		operand = fmt.Sprintf("[$%04X]", w)
	case StackRelative:
		operand = fmt.Sprintf("$%02X,S", b1)
	case StackRelativeIndirectY:
		operand = fmt.Sprintf("($%02X,S),Y", b1)
	case Relative:
		target := pc + 2 + uint16(int16(int8(b1)))
		operand = fmt.Sprintf("$%04X", target)
	case RelativeLong, StackRelativeLong:
		target := pc + 3 + uint16(w)
		operand = fmt.Sprintf("$%04X", target)
	case BlockMove:
		// Encoded destination first; written source first.
		operand = fmt.Sprintf("$%02X,$%02X", byteAt(2), b1)
	}

	if operand == "" {
		return in.Mnemonic.String(), length
	}
	return in.Mnemonic.String() + " " + operand, length
}

// Listing disassembles count instructions from start. REP, SEP and XCE
// update the assumed widths for the instructions that follow, as a linear
// sweep would see them.
func Listing(mem MemoryInterface, start uint32, count int, p Status) []Line {
	lines := make([]Line, 0, count)
	address := start & addressMask
	for i := 0; i < count; i++ {
		text, length := Disassemble(mem, address, p)
		bytes := make([]uint8, length)
		for j := range bytes {
			bytes[j] = peek(mem, bankAddress(uint8(address>>16), uint16(address)+uint16(j)))
		}
		lines = append(lines, Line{Address: address, Bytes: bytes, Text: text})

		switch Decode(bytes[0]).Mnemonic {
		case REP:
			p.ClearBits(bytes[1])
			if p.Test(FlagEmulation) {
				p.Set(FlagMemory8 | FlagIndex8)
			}
		case SEP:
			p.SetBits(bytes[1])
		case XCE:
			// Unknown carry; assume the common CLC; XCE entry to native.
			p.Clear(FlagEmulation)
		}

		next := uint16(address) + uint16(length)
		address = bankAddress(uint8(address>>16), next)
	}
	return lines
}

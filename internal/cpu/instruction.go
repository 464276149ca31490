package cpu

// AddressingMode is how an instruction finds its operand.
type AddressingMode uint8

const (
	Implied AddressingMode = iota
	Accumulator
	ImmediateM // one or two bytes, by the m flag
	ImmediateX // one or two bytes, by the x flag
	Immediate8 // always one byte (REP, SEP, BRK/COP signature, WDM)
	Direct
	DirectX
	DirectY
	DirectIndirect       // (dp)
	DirectIndirectX      // (dp,X)
	DirectIndirectY      // (dp),Y
	DirectIndirectLong   // [dp]
	DirectIndirectLongY  // [dp],Y
	Absolute             // abs
	AbsoluteX            // abs,X
	AbsoluteY            // abs,Y
	AbsoluteLong         // long
	AbsoluteLongX        // long,X
	AbsoluteIndirect     // (abs), JMP only
	AbsoluteIndirectX    // (abs,X), JMP/JSR
	AbsoluteIndirectLong // [abs], JML only
	StackRelative        // sr,S
	StackRelativeIndirectY
	Relative
	RelativeLong
	BlockMove
	StackAbsolute       // PEA
	StackDirectIndirect // PEI
	StackRelativeLong   // PER
)

var modeNames = [...]string{
	Implied:                "Implied",
	Accumulator:            "Accumulator",
	ImmediateM:             "ImmediateM",
	ImmediateX:             "ImmediateX",
	Immediate8:             "Immediate8",
	Direct:                 "Direct",
	DirectX:                "DirectX",
	DirectY:                "DirectY",
	DirectIndirect:         "DirectIndirect",
	DirectIndirectX:        "DirectIndirectX",
	DirectIndirectY:        "DirectIndirectY",
	DirectIndirectLong:     "DirectIndirectLong",
	DirectIndirectLongY:    "DirectIndirectLongY",
	Absolute:               "Absolute",
	AbsoluteX:              "AbsoluteX",
	AbsoluteY:              "AbsoluteY",
	AbsoluteLong:           "AbsoluteLong",
	AbsoluteLongX:          "AbsoluteLongX",
	AbsoluteIndirect:       "AbsoluteIndirect",
	AbsoluteIndirectX:      "AbsoluteIndirectX",
	AbsoluteIndirectLong:   "AbsoluteIndirectLong",
	StackRelative:          "StackRelative",
	StackRelativeIndirectY: "StackRelativeIndirectY",
	Relative:               "Relative",
	RelativeLong:           "RelativeLong",
	BlockMove:              "BlockMove",
	StackAbsolute:          "StackAbsolute",
	StackDirectIndirect:    "StackDirectIndirect",
	StackRelativeLong:      "StackRelativeLong",
}

func (m AddressingMode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "Unknown"
}

// isDirectPage reports whether the effective address is formed from DP.
func (m AddressingMode) isDirectPage() bool {
	switch m {
	case Direct, DirectX, DirectY, DirectIndirect, DirectIndirectX, DirectIndirectY,
		DirectIndirectLong, DirectIndirectLongY, StackDirectIndirect:
		return true
	}
	return false
}

// Mnemonic identifies an instruction family member.
type Mnemonic uint8

const (
	ADC Mnemonic = iota
	AND
	ASL
	BCC
	BCS
	BEQ
	BIT
	BMI
	BNE
	BPL
	BRA
	BRK
	BRL
	BVC
	BVS
	CLC
	CLD
	CLI
	CLV
	CMP
	COP
	CPX
	CPY
	DEC
	DEX
	DEY
	EOR
	INC
	INX
	INY
	JML
	JMP
	JSL
	JSR
	LDA
	LDX
	LDY
	LSR
	MVN
	MVP
	NOP
	ORA
	PEA
	PEI
	PER
	PHA
	PHB
	PHD
	PHK
	PHP
	PHX
	PHY
	PLA
	PLB
	PLD
	PLP
	PLX
	PLY
	REP
	ROL
	ROR
	RTI
	RTL
	RTS
	SBC
	SEC
	SED
	SEI
	SEP
	STA
	STP
	STX
	STY
	STZ
	TAX
	TAY
	TCD
	TCS
	TDC
	TRB
	TSB
	TSC
	TSX
	TXA
	TXS
	TXY
	TYA
	TYX
	WAI
	WDM
	XBA
	XCE
)

var mnemonicNames = [...]string{
	"ADC", "AND", "ASL", "BCC", "BCS", "BEQ", "BIT", "BMI", "BNE", "BPL",
	"BRA", "BRK", "BRL", "BVC", "BVS", "CLC", "CLD", "CLI", "CLV", "CMP",
	"COP", "CPX", "CPY", "DEC", "DEX", "DEY", "EOR", "INC", "INX", "INY",
	"JML", "JMP", "JSL", "JSR", "LDA", "LDX", "LDY", "LSR", "MVN", "MVP",
	"NOP", "ORA", "PEA", "PEI", "PER", "PHA", "PHB", "PHD", "PHK", "PHP",
	"PHX", "PHY", "PLA", "PLB", "PLD", "PLP", "PLX", "PLY", "REP", "ROL",
	"ROR", "RTI", "RTL", "RTS", "SBC", "SEC", "SED", "SEI", "SEP", "STA",
	"STP", "STX", "STY", "STZ", "TAX", "TAY", "TCD", "TCS", "TDC", "TRB",
	"TSB", "TSC", "TSX", "TXA", "TXS", "TXY", "TYA", "TYX", "WAI", "WDM",
	"XBA", "XCE",
}

func (m Mnemonic) String() string {
	if int(m) < len(mnemonicNames) {
		return mnemonicNames[m]
	}
	return "???"
}

// Vector names a slot of the interrupt vector table.
type Vector uint8

const (
	VectorNone Vector = iota
	VectorCOP
	VectorBRK
	VectorABORT
	VectorNMI
	VectorIRQ
	VectorReset
)

// Address returns the vector location in bank 0 for the given mode.
// Emulation mode shares one vector between IRQ and BRK.
func (v Vector) Address(emulation bool) uint16 {
	if emulation {
		switch v {
		case VectorCOP:
			return 0xFFF4
		case VectorABORT:
			return 0xFFF8
		case VectorNMI:
			return 0xFFFA
		case VectorReset:
			return 0xFFFC
		default:
			return 0xFFFE
		}
	}
	switch v {
	case VectorCOP:
		return 0xFFE4
	case VectorBRK:
		return 0xFFE6
	case VectorABORT:
		return 0xFFE8
	case VectorNMI:
		return 0xFFEA
	case VectorReset:
		return 0xFFFC
	default:
		return 0xFFEE
	}
}

// Instruction is one decoded opcode. Values are produced fresh by Decode
// and never mutated.
type Instruction struct {
	Opcode   uint8
	Mnemonic Mnemonic
	Mode     AddressingMode
	Cycles   uint8  // base cycles with m=1, x=1, DL=0, no page cross
	Vector   Vector // BRK and COP only
}

func (in Instruction) String() string {
	return in.Mnemonic.String() + " " + in.Mode.String()
}

type opcodeEntry struct {
	mnemonic Mnemonic
	mode     AddressingMode
	cycles   uint8
}

// Decode returns the instruction for an opcode byte. All 256 values are
// defined.
func Decode(opcode uint8) Instruction {
	e := opcodeTable[opcode]
	in := Instruction{
		Opcode:   opcode,
		Mnemonic: e.mnemonic,
		Mode:     e.mode,
		Cycles:   e.cycles,
	}
	switch e.mnemonic {
	case BRK:
		in.Vector = VectorBRK
	case COP:
		in.Vector = VectorCOP
	}
	return in
}

var opcodeTable = [256]opcodeEntry{
	0x00: {BRK, Immediate8, 7},
	0x01: {ORA, DirectIndirectX, 6},
	0x02: {COP, Immediate8, 7},
	0x03: {ORA, StackRelative, 4},
	0x04: {TSB, Direct, 5},
	0x05: {ORA, Direct, 3},
	0x06: {ASL, Direct, 5},
	0x07: {ORA, DirectIndirectLong, 6},
	0x08: {PHP, Implied, 3},
	0x09: {ORA, ImmediateM, 2},
	0x0A: {ASL, Accumulator, 2},
	0x0B: {PHD, Implied, 4},
	0x0C: {TSB, Absolute, 6},
	0x0D: {ORA, Absolute, 4},
	0x0E: {ASL, Absolute, 6},
	0x0F: {ORA, AbsoluteLong, 5},

	0x10: {BPL, Relative, 2},
	0x11: {ORA, DirectIndirectY, 5},
	0x12: {ORA, DirectIndirect, 5},
	0x13: {ORA, StackRelativeIndirectY, 7},
	0x14: {TRB, Direct, 5},
	0x15: {ORA, DirectX, 4},
	0x16: {ASL, DirectX, 6},
	0x17: {ORA, DirectIndirectLongY, 6},
	0x18: {CLC, Implied, 2},
	0x19: {ORA, AbsoluteY, 4},
	0x1A: {INC, Accumulator, 2},
	0x1B: {TCS, Implied, 2},
	0x1C: {TRB, Absolute, 6},
	0x1D: {ORA, AbsoluteX, 4},
	0x1E: {ASL, AbsoluteX, 7},
	0x1F: {ORA, AbsoluteLongX, 5},

	0x20: {JSR, Absolute, 6},
	0x21: {AND, DirectIndirectX, 6},
	0x22: {JSL, AbsoluteLong, 8},
	0x23: {AND, StackRelative, 4},
	0x24: {BIT, Direct, 3},
	0x25: {AND, Direct, 3},
	0x26: {ROL, Direct, 5},
	0x27: {AND, DirectIndirectLong, 6},
	0x28: {PLP, Implied, 4},
	0x29: {AND, ImmediateM, 2},
	0x2A: {ROL, Accumulator, 2},
	0x2B: {PLD, Implied, 5},
	0x2C: {BIT, Absolute, 4},
	0x2D: {AND, Absolute, 4},
	0x2E: {ROL, Absolute, 6},
	0x2F: {AND, AbsoluteLong, 5},

	0x30: {BMI, Relative, 2},
	0x31: {AND, DirectIndirectY, 5},
	0x32: {AND, DirectIndirect, 5},
	0x33: {AND, StackRelativeIndirectY, 7},
	0x34: {BIT, DirectX, 4},
	0x35: {AND, DirectX, 4},
	0x36: {ROL, DirectX, 6},
	0x37: {AND, DirectIndirectLongY, 6},
	0x38: {SEC, Implied, 2},
	0x39: {AND, AbsoluteY, 4},
	0x3A: {DEC, Accumulator, 2},
	0x3B: {TSC, Implied, 2},
	0x3C: {BIT, AbsoluteX, 4},
	0x3D: {AND, AbsoluteX, 4},
	0x3E: {ROL, AbsoluteX, 7},
	0x3F: {AND, AbsoluteLongX, 5},

	0x40: {RTI, Implied, 6},
	0x41: {EOR, DirectIndirectX, 6},
	0x42: {WDM, Immediate8, 2},
	0x43: {EOR, StackRelative, 4},
	0x44: {MVP, BlockMove, 7},
	0x45: {EOR, Direct, 3},
	0x46: {LSR, Direct, 5},
	0x47: {EOR, DirectIndirectLong, 6},
	0x48: {PHA, Implied, 3},
	0x49: {EOR, ImmediateM, 2},
	0x4A: {LSR, Accumulator, 2},
	0x4B: {PHK, Implied, 3},
	0x4C: {JMP, Absolute, 3},
	0x4D: {EOR, Absolute, 4},
	0x4E: {LSR, Absolute, 6},
	0x4F: {EOR, AbsoluteLong, 5},

	0x50: {BVC, Relative, 2},
	0x51: {EOR, DirectIndirectY, 5},
	0x52: {EOR, DirectIndirect, 5},
	0x53: {EOR, StackRelativeIndirectY, 7},
	0x54: {MVN, BlockMove, 7},
	0x55: {EOR, DirectX, 4},
	0x56: {LSR, DirectX, 6},
	0x57: {EOR, DirectIndirectLongY, 6},
	0x58: {CLI, Implied, 2},
	0x59: {EOR, AbsoluteY, 4},
	0x5A: {PHY, Implied, 3},
	0x5B: {TCD, Implied, 2},
	0x5C: {JML, AbsoluteLong, 4},
	0x5D: {EOR, AbsoluteX, 4},
	0x5E: {LSR, AbsoluteX, 7},
	0x5F: {EOR, AbsoluteLongX, 5},

	0x60: {RTS, Implied, 6},
	0x61: {ADC, DirectIndirectX, 6},
	0x62: {PER, StackRelativeLong, 6},
	0x63: {ADC, StackRelative, 4},
	0x64: {STZ, Direct, 3},
	0x65: {ADC, Direct, 3},
	0x66: {ROR, Direct, 5},
	0x67: {ADC, DirectIndirectLong, 6},
	0x68: {PLA, Implied, 4},
	0x69: {ADC, ImmediateM, 2},
	0x6A: {ROR, Accumulator, 2},
	0x6B: {RTL, Implied, 6},
	0x6C: {JMP, AbsoluteIndirect, 5},
	0x6D: {ADC, Absolute, 4},
	0x6E: {ROR, Absolute, 6},
	0x6F: {ADC, AbsoluteLong, 5},

	0x70: {BVS, Relative, 2},
	0x71: {ADC, DirectIndirectY, 5},
	0x72: {ADC, DirectIndirect, 5},
	0x73: {ADC, StackRelativeIndirectY, 7},
	0x74: {STZ, DirectX, 4},
	0x75: {ADC, DirectX, 4},
	0x76: {ROR, DirectX, 6},
	0x77: {ADC, DirectIndirectLongY, 6},
	0x78: {SEI, Implied, 2},
	0x79: {ADC, AbsoluteY, 4},
	0x7A: {PLY, Implied, 4},
	0x7B: {TDC, Implied, 2},
	0x7C: {JMP, AbsoluteIndirectX, 6},
	0x7D: {ADC, AbsoluteX, 4},
	0x7E: {ROR, AbsoluteX, 7},
	0x7F: {ADC, AbsoluteLongX, 5},

	0x80: {BRA, Relative, 2},
	0x81: {STA, DirectIndirectX, 6},
	0x82: {BRL, RelativeLong, 4},
	0x83: {STA, StackRelative, 4},
	0x84: {STY, Direct, 3},
	0x85: {STA, Direct, 3},
	0x86: {STX, Direct, 3},
	0x87: {STA, DirectIndirectLong, 6},
	0x88: {DEY, Implied, 2},
	0x89: {BIT, ImmediateM, 2},
	0x8A: {TXA, Implied, 2},
	0x8B: {PHB, Implied, 3},
	0x8C: {STY, Absolute, 4},
	0x8D: {STA, Absolute, 4},
	0x8E: {STX, Absolute, 4},
	0x8F: {STA, AbsoluteLong, 5},

	0x90: {BCC, Relative, 2},
	0x91: {STA, DirectIndirectY, 6},
	0x92: {STA, DirectIndirect, 5},
	0x93: {STA, StackRelativeIndirectY, 7},
	0x94: {STY, DirectX, 4},
	0x95: {STA, DirectX, 4},
	0x96: {STX, DirectY, 4},
	0x97: {STA, DirectIndirectLongY, 6},
	0x98: {TYA, Implied, 2},
	0x99: {STA, AbsoluteY, 5},
	0x9A: {TXS, Implied, 2},
	0x9B: {TXY, Implied, 2},
	0x9C: {STZ, Absolute, 4},
	0x9D: {STA, AbsoluteX, 5},
	0x9E: {STZ, AbsoluteX, 5},
	0x9F: {STA, AbsoluteLongX, 5},

	0xA0: {LDY, ImmediateX, 2},
	0xA1: {LDA, DirectIndirectX, 6},
	0xA2: {LDX, ImmediateX, 2},
	0xA3: {LDA, StackRelative, 4},
	0xA4: {LDY, Direct, 3},
	0xA5: {LDA, Direct, 3},
	0xA6: {LDX, Direct, 3},
	0xA7: {LDA, DirectIndirectLong, 6},
	0xA8: {TAY, Implied, 2},
	0xA9: {LDA, ImmediateM, 2},
	0xAA: {TAX, Implied, 2},
	0xAB: {PLB, Implied, 4},
	0xAC: {LDY, Absolute, 4},
	0xAD: {LDA, Absolute, 4},
	0xAE: {LDX, Absolute, 4},
	0xAF: {LDA, AbsoluteLong, 5},

	0xB0: {BCS, Relative, 2},
	0xB1: {LDA, DirectIndirectY, 5},
	0xB2: {LDA, DirectIndirect, 5},
	0xB3: {LDA, StackRelativeIndirectY, 7},
	0xB4: {LDY, DirectX, 4},
	0xB5: {LDA, DirectX, 4},
	0xB6: {LDX, DirectY, 4},
	0xB7: {LDA, DirectIndirectLongY, 6},
	0xB8: {CLV, Implied, 2},
	0xB9: {LDA, AbsoluteY, 4},
	0xBA: {TSX, Implied, 2},
	0xBB: {TYX, Implied, 2},
	0xBC: {LDY, AbsoluteX, 4},
	0xBD: {LDA, AbsoluteX, 4},
	0xBE: {LDX, AbsoluteY, 4},
	0xBF: {LDA, AbsoluteLongX, 5},

	0xC0: {CPY, ImmediateX, 2},
	0xC1: {CMP, DirectIndirectX, 6},
	0xC2: {REP, Immediate8, 3},
	0xC3: {CMP, StackRelative, 4},
	0xC4: {CPY, Direct, 3},
	0xC5: {CMP, Direct, 3},
	0xC6: {DEC, Direct, 5},
	0xC7: {CMP, DirectIndirectLong, 6},
	0xC8: {INY, Implied, 2},
	0xC9: {CMP, ImmediateM, 2},
	0xCA: {DEX, Implied, 2},
	0xCB: {WAI, Implied, 3},
	0xCC: {CPY, Absolute, 4},
	0xCD: {CMP, Absolute, 4},
	0xCE: {DEC, Absolute, 6},
	0xCF: {CMP, AbsoluteLong, 5},

	0xD0: {BNE, Relative, 2},
	0xD1: {CMP, DirectIndirectY, 5},
	0xD2: {CMP, DirectIndirect, 5},
	0xD3: {CMP, StackRelativeIndirectY, 7},
	0xD4: {PEI, StackDirectIndirect, 6},
	0xD5: {CMP, DirectX, 4},
	0xD6: {DEC, DirectX, 6},
	0xD7: {CMP, DirectIndirectLongY, 6},
	0xD8: {CLD, Implied, 2},
	0xD9: {CMP, AbsoluteY, 4},
	0xDA: {PHX, Implied, 3},
	0xDB: {STP, Implied, 3},
	0xDC: {JML, AbsoluteIndirectLong, 6},
	0xDD: {CMP, AbsoluteX, 4},
	0xDE: {DEC, AbsoluteX, 7},
	0xDF: {CMP, AbsoluteLongX, 5},

	0xE0: {CPX, ImmediateX, 2},
	0xE1: {SBC, DirectIndirectX, 6},
	0xE2: {SEP, Immediate8, 3},
	0xE3: {SBC, StackRelative, 4},
	0xE4: {CPX, Direct, 3},
	0xE5: {SBC, Direct, 3},
	0xE6: {INC, Direct, 5},
	0xE7: {SBC, DirectIndirectLong, 6},
	0xE8: {INX, Implied, 2},
	0xE9: {SBC, ImmediateM, 2},
	0xEA: {NOP, Implied, 2},
	0xEB: {XBA, Implied, 3},
	0xEC: {CPX, Absolute, 4},
	0xED: {SBC, Absolute, 4},
	0xEE: {INC, Absolute, 6},
	0xEF: {SBC, AbsoluteLong, 5},

	0xF0: {BEQ, Relative, 2},
	0xF1: {SBC, DirectIndirectY, 5},
	0xF2: {SBC, DirectIndirect, 5},
	0xF3: {SBC, StackRelativeIndirectY, 7},
	0xF4: {PEA, StackAbsolute, 5},
	0xF5: {SBC, DirectX, 4},
	0xF6: {INC, DirectX, 6},
	0xF7: {SBC, DirectIndirectLongY, 6},
	0xF8: {SED, Implied, 2},
	0xF9: {SBC, AbsoluteY, 4},
	0xFA: {PLX, Implied, 4},
	0xFB: {XCE, Implied, 2},
	0xFC: {JSR, AbsoluteIndirectX, 8},
	0xFD: {SBC, AbsoluteX, 4},
	0xFE: {INC, AbsoluteX, 7},
	0xFF: {SBC, AbsoluteLongX, 5},
}

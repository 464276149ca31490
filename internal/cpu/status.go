package cpu

// Flag is a single processor status bit.
type Flag uint16

// Status register bit masks. The low byte is what PHP/PLP and interrupts
// move through the stack; FlagEmulation lives above it and is only reachable
// through XCE.
const (
	FlagCarry      Flag = 0x01
	FlagZero       Flag = 0x02
	FlagIRQDisable Flag = 0x04
	FlagDecimal    Flag = 0x08
	FlagIndex8     Flag = 0x10 // x; reads back as Break in an emulation-mode push
	FlagMemory8    Flag = 0x20 // m
	FlagOverflow   Flag = 0x40
	FlagNegative   Flag = 0x80
	FlagEmulation  Flag = 0x100

	// FlagBreak shares bit 4 with FlagIndex8. It only exists in the byte
	// pushed by BRK/COP/PHP while in emulation mode.
	FlagBreak = FlagIndex8
)

// resetStatus is E, m, x and I set.
const resetStatus = FlagEmulation | FlagMemory8 | FlagIndex8 | FlagIRQDisable

// Status holds the processor status word.
type Status struct {
	bits Flag
}

// NewStatus returns a status word with flags set.
func NewStatus(flags Flag) Status {
	return Status{bits: flags}
}

// ResetStatus returns the status word the processor holds after reset.
func ResetStatus() Status {
	return Status{bits: resetStatus}
}

// Test reports whether f is set.
func (s *Status) Test(f Flag) bool {
	return s.bits&f != 0
}

// Set sets f.
func (s *Status) Set(f Flag) {
	s.bits |= f
}

// Clear clears f.
func (s *Status) Clear(f Flag) {
	s.bits &^= f
}

// Assign sets f when on is true and clears it otherwise.
func (s *Status) Assign(f Flag, on bool) {
	if on {
		s.bits |= f
	} else {
		s.bits &^= f
	}
}

// SetBits ORs mask into the low byte (SEP).
func (s *Status) SetBits(mask uint8) {
	s.bits |= Flag(mask)
}

// ClearBits clears every bit of mask in the low byte (REP).
func (s *Status) ClearBits(mask uint8) {
	s.bits &^= Flag(mask)
}

// Byte serializes the low 8 bits.
func (s *Status) Byte() uint8 {
	return uint8(s.bits)
}

// SetByte replaces the low 8 bits and keeps the emulation bit.
func (s *Status) SetByte(value uint8) {
	s.bits = s.bits&FlagEmulation | Flag(value)
}

// Word returns the full flag word including the emulation bit.
func (s *Status) Word() uint16 {
	return uint16(s.bits)
}

// String renders the flags as letters, upper case when set.
func (s *Status) String() string {
	const letters = "czidxmvn"
	out := make([]byte, 0, 10)
	for i := 7; i >= 0; i-- {
		c := letters[i]
		if s.bits&(1<<uint(i)) != 0 {
			c -= 'a' - 'A'
		}
		out = append(out, c)
	}
	if s.Test(FlagEmulation) {
		out = append(out, ' ', 'E')
	} else {
		out = append(out, ' ', 'e')
	}
	return string(out)
}

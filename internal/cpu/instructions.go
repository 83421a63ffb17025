package cpu

import "fmt"

// Op is the operation an opcode performs. The decoder maps every opcode to an
// Op plus the operands it works on; the engine runs handlers[Op].
type Op uint8

const (
	opUndefined Op = iota // never present in a decode table

	OpIllegal
	OpPrefix
	OpNop
	OpHalt
	OpStop
	OpDi
	OpEi

	OpLd
	OpInc
	OpDec
	OpAdd
	OpAdc
	OpSub
	OpSbc
	OpAnd
	OpXor
	OpOr
	OpCp

	OpRlca
	OpRrca
	OpRla
	OpRra
	OpDaa
	OpCpl
	OpScf
	OpCcf

	OpJr
	OpJp
	OpCall
	OpRet
	OpReti
	OpRst
	OpPush
	OpPop

	// 0xCB page
	OpRlc
	OpRrc
	OpRl
	OpRr
	OpSla
	OpSra
	OpSwap
	OpSrl
	OpBit
	OpRes
	OpSet

	opCount
)

var opNames = [opCount]string{
	opUndefined: "???",
	OpIllegal:   "ILLEGAL",
	OpPrefix:    "PREFIX",
	OpNop:       "NOP",
	OpHalt:      "HALT",
	OpStop:      "STOP",
	OpDi:        "DI",
	OpEi:        "EI",
	OpLd:        "LD",
	OpInc:       "INC",
	OpDec:       "DEC",
	OpAdd:       "ADD",
	OpAdc:       "ADC",
	OpSub:       "SUB",
	OpSbc:       "SBC",
	OpAnd:       "AND",
	OpXor:       "XOR",
	OpOr:        "OR",
	OpCp:        "CP",
	OpRlca:      "RLCA",
	OpRrca:      "RRCA",
	OpRla:       "RLA",
	OpRra:       "RRA",
	OpDaa:       "DAA",
	OpCpl:       "CPL",
	OpScf:       "SCF",
	OpCcf:       "CCF",
	OpJr:        "JR",
	OpJp:        "JP",
	OpCall:      "CALL",
	OpRet:       "RET",
	OpReti:      "RETI",
	OpRst:       "RST",
	OpPush:      "PUSH",
	OpPop:       "POP",
	OpRlc:       "RLC",
	OpRrc:       "RRC",
	OpRl:        "RL",
	OpRr:        "RR",
	OpSla:       "SLA",
	OpSra:       "SRA",
	OpSwap:      "SWAP",
	OpSrl:       "SRL",
	OpBit:       "BIT",
	OpRes:       "RES",
	OpSet:       "SET",
}

func (o Op) String() string {
	if o < opCount {
		return opNames[o]
	}
	return fmt.Sprintf("Op(%d)", uint8(o))
}

// Mode says where an instruction's data comes from and where its result goes.
type Mode uint8

const (
	ModeImplied   Mode = iota
	ModeReg            // data = R1, result -> R1
	ModeRegReg         // data = R2, result -> R1
	ModeImm8           // data = d8
	ModeImm16          // data = d16
	ModeRel8           // data = sign-extended e8
	ModeInd            // data = (R1), result -> (R1)
	ModeRegToInd       // (R1) <- R2
	ModeIndToReg       // R1 <- (R2)
	ModeImm8ToInd      // (R1) <- d8
	ModeRegToHigh      // (FF00+a8) <- R2
	ModeHighToReg      // R1 <- (FF00+a8)
	ModeRegToAbs       // (a16) <- R2, 16-bit when R2 is SP
	ModeAbsToReg       // R1 <- (a16)
)

// immediateBytes is the operand length that follows the opcode.
func (m Mode) immediateBytes() int {
	switch m {
	case ModeImm8, ModeRel8, ModeImm8ToInd, ModeRegToHigh, ModeHighToReg:
		return 1
	case ModeImm16, ModeRegToAbs, ModeAbsToReg:
		return 2
	}
	return 0
}

// Reg names an operand register. HLI and HLD read HL and step it afterwards.
type Reg uint8

const (
	RegNone Reg = iota
	RegA
	RegF
	RegB
	RegC
	RegD
	RegE
	RegH
	RegL
	RegAF
	RegBC
	RegDE
	RegHL
	RegHLI
	RegHLD
	RegSP
)

var regNames = [...]string{"", "A", "F", "B", "C", "D", "E", "H", "L", "AF", "BC", "DE", "HL", "HL+", "HL-", "SP"}

func (r Reg) String() string {
	if int(r) < len(regNames) {
		return regNames[r]
	}
	return fmt.Sprintf("Reg(%d)", uint8(r))
}

// wide reports whether r names a 16-bit register.
func (r Reg) wide() bool { return r >= RegAF }

// Cond is a branch condition. Unconditional branches use CondNone.
type Cond uint8

const (
	CondNone Cond = iota
	CondNZ
	CondZ
	CondNC
	CondC
)

func (c Cond) String() string {
	switch c {
	case CondNZ:
		return "NZ"
	case CondZ:
		return "Z"
	case CondNC:
		return "NC"
	case CondC:
		return "C"
	}
	return ""
}

// Instruction describes one opcode. Cycles are machine cycles (4 clock ticks
// each); conditional instructions charge TakenCycles when the branch is taken.
type Instruction struct {
	Op          Op
	Mode        Mode
	R1, R2      Reg
	Cond        Cond
	Param       byte // bit index for BIT/RES/SET, vector for RST
	Cycles      uint8
	TakenCycles uint8
}

// Cost returns the clock ticks the instruction consumes.
func (in *Instruction) Cost(taken bool) int {
	if taken && in.TakenCycles != 0 {
		return int(in.TakenCycles) * 4
	}
	return int(in.Cycles) * 4
}

// Len is the encoded length in bytes including the opcode (and 0xCB prefix
// for the secondary page).
func (in *Instruction) Len() int {
	if in.Op >= OpRlc {
		return 2
	}
	return 1 + in.Mode.immediateBytes()
}

// Decode returns the primary-page descriptor for opcode.
func Decode(opcode byte) *Instruction { return &primary[opcode] }

// DecodePrefixed returns the 0xCB-page descriptor for opcode.
func DecodePrefixed(opcode byte) *Instruction { return &prefixed[opcode] }

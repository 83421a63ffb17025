package cpu

// primary is the unprefixed opcode page. Every one of the 256 slots is filled;
// the eleven holes in the SM83 map are explicit OpIllegal entries.
var primary = [256]Instruction{
	0x00: {Op: OpNop, Cycles: 1},
	0x01: {Op: OpLd, Mode: ModeImm16, R1: RegBC, Cycles: 3},
	0x02: {Op: OpLd, Mode: ModeRegToInd, R1: RegBC, R2: RegA, Cycles: 2},
	0x03: {Op: OpInc, Mode: ModeReg, R1: RegBC, Cycles: 2},
	0x04: {Op: OpInc, Mode: ModeReg, R1: RegB, Cycles: 1},
	0x05: {Op: OpDec, Mode: ModeReg, R1: RegB, Cycles: 1},
	0x06: {Op: OpLd, Mode: ModeImm8, R1: RegB, Cycles: 2},
	0x07: {Op: OpRlca, Cycles: 1},
	0x08: {Op: OpLd, Mode: ModeRegToAbs, R2: RegSP, Cycles: 5},
	0x09: {Op: OpAdd, Mode: ModeRegReg, R1: RegHL, R2: RegBC, Cycles: 2},
	0x0A: {Op: OpLd, Mode: ModeIndToReg, R1: RegA, R2: RegBC, Cycles: 2},
	0x0B: {Op: OpDec, Mode: ModeReg, R1: RegBC, Cycles: 2},
	0x0C: {Op: OpInc, Mode: ModeReg, R1: RegC, Cycles: 1},
	0x0D: {Op: OpDec, Mode: ModeReg, R1: RegC, Cycles: 1},
	0x0E: {Op: OpLd, Mode: ModeImm8, R1: RegC, Cycles: 2},
	0x0F: {Op: OpRrca, Cycles: 1},
	0x10: {Op: OpStop, Mode: ModeImm8, Cycles: 1},
	0x11: {Op: OpLd, Mode: ModeImm16, R1: RegDE, Cycles: 3},
	0x12: {Op: OpLd, Mode: ModeRegToInd, R1: RegDE, R2: RegA, Cycles: 2},
	0x13: {Op: OpInc, Mode: ModeReg, R1: RegDE, Cycles: 2},
	0x14: {Op: OpInc, Mode: ModeReg, R1: RegD, Cycles: 1},
	0x15: {Op: OpDec, Mode: ModeReg, R1: RegD, Cycles: 1},
	0x16: {Op: OpLd, Mode: ModeImm8, R1: RegD, Cycles: 2},
	0x17: {Op: OpRla, Cycles: 1},
	0x18: {Op: OpJr, Mode: ModeRel8, Cycles: 3},
	0x19: {Op: OpAdd, Mode: ModeRegReg, R1: RegHL, R2: RegDE, Cycles: 2},
	0x1A: {Op: OpLd, Mode: ModeIndToReg, R1: RegA, R2: RegDE, Cycles: 2},
	0x1B: {Op: OpDec, Mode: ModeReg, R1: RegDE, Cycles: 2},
	0x1C: {Op: OpInc, Mode: ModeReg, R1: RegE, Cycles: 1},
	0x1D: {Op: OpDec, Mode: ModeReg, R1: RegE, Cycles: 1},
	0x1E: {Op: OpLd, Mode: ModeImm8, R1: RegE, Cycles: 2},
	0x1F: {Op: OpRra, Cycles: 1},
	0x20: {Op: OpJr, Mode: ModeRel8, Cond: CondNZ, Cycles: 2, TakenCycles: 3},
	0x21: {Op: OpLd, Mode: ModeImm16, R1: RegHL, Cycles: 3},
	0x22: {Op: OpLd, Mode: ModeRegToInd, R1: RegHLI, R2: RegA, Cycles: 2},
	0x23: {Op: OpInc, Mode: ModeReg, R1: RegHL, Cycles: 2},
	0x24: {Op: OpInc, Mode: ModeReg, R1: RegH, Cycles: 1},
	0x25: {Op: OpDec, Mode: ModeReg, R1: RegH, Cycles: 1},
	0x26: {Op: OpLd, Mode: ModeImm8, R1: RegH, Cycles: 2},
	0x27: {Op: OpDaa, Cycles: 1},
	0x28: {Op: OpJr, Mode: ModeRel8, Cond: CondZ, Cycles: 2, TakenCycles: 3},
	0x29: {Op: OpAdd, Mode: ModeRegReg, R1: RegHL, R2: RegHL, Cycles: 2},
	0x2A: {Op: OpLd, Mode: ModeIndToReg, R1: RegA, R2: RegHLI, Cycles: 2},
	0x2B: {Op: OpDec, Mode: ModeReg, R1: RegHL, Cycles: 2},
	0x2C: {Op: OpInc, Mode: ModeReg, R1: RegL, Cycles: 1},
	0x2D: {Op: OpDec, Mode: ModeReg, R1: RegL, Cycles: 1},
	0x2E: {Op: OpLd, Mode: ModeImm8, R1: RegL, Cycles: 2},
	0x2F: {Op: OpCpl, Cycles: 1},
	0x30: {Op: OpJr, Mode: ModeRel8, Cond: CondNC, Cycles: 2, TakenCycles: 3},
	0x31: {Op: OpLd, Mode: ModeImm16, R1: RegSP, Cycles: 3},
	0x32: {Op: OpLd, Mode: ModeRegToInd, R1: RegHLD, R2: RegA, Cycles: 2},
	0x33: {Op: OpInc, Mode: ModeReg, R1: RegSP, Cycles: 2},
	0x34: {Op: OpInc, Mode: ModeInd, R1: RegHL, Cycles: 3},
	0x35: {Op: OpDec, Mode: ModeInd, R1: RegHL, Cycles: 3},
	0x36: {Op: OpLd, Mode: ModeImm8ToInd, R1: RegHL, Cycles: 3},
	0x37: {Op: OpScf, Cycles: 1},
	0x38: {Op: OpJr, Mode: ModeRel8, Cond: CondC, Cycles: 2, TakenCycles: 3},
	0x39: {Op: OpAdd, Mode: ModeRegReg, R1: RegHL, R2: RegSP, Cycles: 2},
	0x3A: {Op: OpLd, Mode: ModeIndToReg, R1: RegA, R2: RegHLD, Cycles: 2},
	0x3B: {Op: OpDec, Mode: ModeReg, R1: RegSP, Cycles: 2},
	0x3C: {Op: OpInc, Mode: ModeReg, R1: RegA, Cycles: 1},
	0x3D: {Op: OpDec, Mode: ModeReg, R1: RegA, Cycles: 1},
	0x3E: {Op: OpLd, Mode: ModeImm8, R1: RegA, Cycles: 2},
	0x3F: {Op: OpCcf, Cycles: 1},
	0x40: {Op: OpLd, Mode: ModeRegReg, R1: RegB, R2: RegB, Cycles: 1},
	0x41: {Op: OpLd, Mode: ModeRegReg, R1: RegB, R2: RegC, Cycles: 1},
	0x42: {Op: OpLd, Mode: ModeRegReg, R1: RegB, R2: RegD, Cycles: 1},
	0x43: {Op: OpLd, Mode: ModeRegReg, R1: RegB, R2: RegE, Cycles: 1},
	0x44: {Op: OpLd, Mode: ModeRegReg, R1: RegB, R2: RegH, Cycles: 1},
	0x45: {Op: OpLd, Mode: ModeRegReg, R1: RegB, R2: RegL, Cycles: 1},
	0x46: {Op: OpLd, Mode: ModeIndToReg, R1: RegB, R2: RegHL, Cycles: 2},
	0x47: {Op: OpLd, Mode: ModeRegReg, R1: RegB, R2: RegA, Cycles: 1},
	0x48: {Op: OpLd, Mode: ModeRegReg, R1: RegC, R2: RegB, Cycles: 1},
	0x49: {Op: OpLd, Mode: ModeRegReg, R1: RegC, R2: RegC, Cycles: 1},
	0x4A: {Op: OpLd, Mode: ModeRegReg, R1: RegC, R2: RegD, Cycles: 1},
	0x4B: {Op: OpLd, Mode: ModeRegReg, R1: RegC, R2: RegE, Cycles: 1},
	0x4C: {Op: OpLd, Mode: ModeRegReg, R1: RegC, R2: RegH, Cycles: 1},
	0x4D: {Op: OpLd, Mode: ModeRegReg, R1: RegC, R2: RegL, Cycles: 1},
	0x4E: {Op: OpLd, Mode: ModeIndToReg, R1: RegC, R2: RegHL, Cycles: 2},
	0x4F: {Op: OpLd, Mode: ModeRegReg, R1: RegC, R2: RegA, Cycles: 1},
	0x50: {Op: OpLd, Mode: ModeRegReg, R1: RegD, R2: RegB, Cycles: 1},
	0x51: {Op: OpLd, Mode: ModeRegReg, R1: RegD, R2: RegC, Cycles: 1},
	0x52: {Op: OpLd, Mode: ModeRegReg, R1: RegD, R2: RegD, Cycles: 1},
	0x53: {Op: OpLd, Mode: ModeRegReg, R1: RegD, R2: RegE, Cycles: 1},
	0x54: {Op: OpLd, Mode: ModeRegReg, R1: RegD, R2: RegH, Cycles: 1},
	0x55: {Op: OpLd, Mode: ModeRegReg, R1: RegD, R2: RegL, Cycles: 1},
	0x56: {Op: OpLd, Mode: ModeIndToReg, R1: RegD, R2: RegHL, Cycles: 2},
	0x57: {Op: OpLd, Mode: ModeRegReg, R1: RegD, R2: RegA, Cycles: 1},
	0x58: {Op: OpLd, Mode: ModeRegReg, R1: RegE, R2: RegB, Cycles: 1},
	0x59: {Op: OpLd, Mode: ModeRegReg, R1: RegE, R2: RegC, Cycles: 1},
	0x5A: {Op: OpLd, Mode: ModeRegReg, R1: RegE, R2: RegD, Cycles: 1},
	0x5B: {Op: OpLd, Mode: ModeRegReg, R1: RegE, R2: RegE, Cycles: 1},
	0x5C: {Op: OpLd, Mode: ModeRegReg, R1: RegE, R2: RegH, Cycles: 1},
	0x5D: {Op: OpLd, Mode: ModeRegReg, R1: RegE, R2: RegL, Cycles: 1},
	0x5E: {Op: OpLd, Mode: ModeIndToReg, R1: RegE, R2: RegHL, Cycles: 2},
	0x5F: {Op: OpLd, Mode: ModeRegReg, R1: RegE, R2: RegA, Cycles: 1},
	0x60: {Op: OpLd, Mode: ModeRegReg, R1: RegH, R2: RegB, Cycles: 1},
	0x61: {Op: OpLd, Mode: ModeRegReg, R1: RegH, R2: RegC, Cycles: 1},
	0x62: {Op: OpLd, Mode: ModeRegReg, R1: RegH, R2: RegD, Cycles: 1},
	0x63: {Op: OpLd, Mode: ModeRegReg, R1: RegH, R2: RegE, Cycles: 1},
	0x64: {Op: OpLd, Mode: ModeRegReg, R1: RegH, R2: RegH, Cycles: 1},
	0x65: {Op: OpLd, Mode: ModeRegReg, R1: RegH, R2: RegL, Cycles: 1},
	0x66: {Op: OpLd, Mode: ModeIndToReg, R1: RegH, R2: RegHL, Cycles: 2},
	0x67: {Op: OpLd, Mode: ModeRegReg, R1: RegH, R2: RegA, Cycles: 1},
	0x68: {Op: OpLd, Mode: ModeRegReg, R1: RegL, R2: RegB, Cycles: 1},
	0x69: {Op: OpLd, Mode: ModeRegReg, R1: RegL, R2: RegC, Cycles: 1},
	0x6A: {Op: OpLd, Mode: ModeRegReg, R1: RegL, R2: RegD, Cycles: 1},
	0x6B: {Op: OpLd, Mode: ModeRegReg, R1: RegL, R2: RegE, Cycles: 1},
	0x6C: {Op: OpLd, Mode: ModeRegReg, R1: RegL, R2: RegH, Cycles: 1},
	0x6D: {Op: OpLd, Mode: ModeRegReg, R1: RegL, R2: RegL, Cycles: 1},
	0x6E: {Op: OpLd, Mode: ModeIndToReg, R1: RegL, R2: RegHL, Cycles: 2},
	0x6F: {Op: OpLd, Mode: ModeRegReg, R1: RegL, R2: RegA, Cycles: 1},
	0x70: {Op: OpLd, Mode: ModeRegToInd, R1: RegHL, R2: RegB, Cycles: 2},
	0x71: {Op: OpLd, Mode: ModeRegToInd, R1: RegHL, R2: RegC, Cycles: 2},
	0x72: {Op: OpLd, Mode: ModeRegToInd, R1: RegHL, R2: RegD, Cycles: 2},
	0x73: {Op: OpLd, Mode: ModeRegToInd, R1: RegHL, R2: RegE, Cycles: 2},
	0x74: {Op: OpLd, Mode: ModeRegToInd, R1: RegHL, R2: RegH, Cycles: 2},
	0x75: {Op: OpLd, Mode: ModeRegToInd, R1: RegHL, R2: RegL, Cycles: 2},
	0x76: {Op: OpHalt, Cycles: 1},
	0x77: {Op: OpLd, Mode: ModeRegToInd, R1: RegHL, R2: RegA, Cycles: 2},
	0x78: {Op: OpLd, Mode: ModeRegReg, R1: RegA, R2: RegB, Cycles: 1},
	0x79: {Op: OpLd, Mode: ModeRegReg, R1: RegA, R2: RegC, Cycles: 1},
	0x7A: {Op: OpLd, Mode: ModeRegReg, R1: RegA, R2: RegD, Cycles: 1},
	0x7B: {Op: OpLd, Mode: ModeRegReg, R1: RegA, R2: RegE, Cycles: 1},
	0x7C: {Op: OpLd, Mode: ModeRegReg, R1: RegA, R2: RegH, Cycles: 1},
	0x7D: {Op: OpLd, Mode: ModeRegReg, R1: RegA, R2: RegL, Cycles: 1},
	0x7E: {Op: OpLd, Mode: ModeIndToReg, R1: RegA, R2: RegHL, Cycles: 2},
	0x7F: {Op: OpLd, Mode: ModeRegReg, R1: RegA, R2: RegA, Cycles: 1},
	0x80: {Op: OpAdd, Mode: ModeRegReg, R1: RegA, R2: RegB, Cycles: 1},
	0x81: {Op: OpAdd, Mode: ModeRegReg, R1: RegA, R2: RegC, Cycles: 1},
	0x82: {Op: OpAdd, Mode: ModeRegReg, R1: RegA, R2: RegD, Cycles: 1},
	0x83: {Op: OpAdd, Mode: ModeRegReg, R1: RegA, R2: RegE, Cycles: 1},
	0x84: {Op: OpAdd, Mode: ModeRegReg, R1: RegA, R2: RegH, Cycles: 1},
	0x85: {Op: OpAdd, Mode: ModeRegReg, R1: RegA, R2: RegL, Cycles: 1},
	0x86: {Op: OpAdd, Mode: ModeIndToReg, R1: RegA, R2: RegHL, Cycles: 2},
	0x87: {Op: OpAdd, Mode: ModeRegReg, R1: RegA, R2: RegA, Cycles: 1},
	0x88: {Op: OpAdc, Mode: ModeRegReg, R1: RegA, R2: RegB, Cycles: 1},
	0x89: {Op: OpAdc, Mode: ModeRegReg, R1: RegA, R2: RegC, Cycles: 1},
	0x8A: {Op: OpAdc, Mode: ModeRegReg, R1: RegA, R2: RegD, Cycles: 1},
	0x8B: {Op: OpAdc, Mode: ModeRegReg, R1: RegA, R2: RegE, Cycles: 1},
	0x8C: {Op: OpAdc, Mode: ModeRegReg, R1: RegA, R2: RegH, Cycles: 1},
	0x8D: {Op: OpAdc, Mode: ModeRegReg, R1: RegA, R2: RegL, Cycles: 1},
	0x8E: {Op: OpAdc, Mode: ModeIndToReg, R1: RegA, R2: RegHL, Cycles: 2},
	0x8F: {Op: OpAdc, Mode: ModeRegReg, R1: RegA, R2: RegA, Cycles: 1},
	0x90: {Op: OpSub, Mode: ModeRegReg, R1: RegA, R2: RegB, Cycles: 1},
	0x91: {Op: OpSub, Mode: ModeRegReg, R1: RegA, R2: RegC, Cycles: 1},
	0x92: {Op: OpSub, Mode: ModeRegReg, R1: RegA, R2: RegD, Cycles: 1},
	0x93: {Op: OpSub, Mode: ModeRegReg, R1: RegA, R2: RegE, Cycles: 1},
	0x94: {Op: OpSub, Mode: ModeRegReg, R1: RegA, R2: RegH, Cycles: 1},
	0x95: {Op: OpSub, Mode: ModeRegReg, R1: RegA, R2: RegL, Cycles: 1},
	0x96: {Op: OpSub, Mode: ModeIndToReg, R1: RegA, R2: RegHL, Cycles: 2},
	0x97: {Op: OpSub, Mode: ModeRegReg, R1: RegA, R2: RegA, Cycles: 1},
	0x98: {Op: OpSbc, Mode: ModeRegReg, R1: RegA, R2: RegB, Cycles: 1},
	0x99: {Op: OpSbc, Mode: ModeRegReg, R1: RegA, R2: RegC, Cycles: 1},
	0x9A: {Op: OpSbc, Mode: ModeRegReg, R1: RegA, R2: RegD, Cycles: 1},
	0x9B: {Op: OpSbc, Mode: ModeRegReg, R1: RegA, R2: RegE, Cycles: 1},
	0x9C: {Op: OpSbc, Mode: ModeRegReg, R1: RegA, R2: RegH, Cycles: 1},
	0x9D: {Op: OpSbc, Mode: ModeRegReg, R1: RegA, R2: RegL, Cycles: 1},
	0x9E: {Op: OpSbc, Mode: ModeIndToReg, R1: RegA, R2: RegHL, Cycles: 2},
	0x9F: {Op: OpSbc, Mode: ModeRegReg, R1: RegA, R2: RegA, Cycles: 1},
	0xA0: {Op: OpAnd, Mode: ModeRegReg, R1: RegA, R2: RegB, Cycles: 1},
	0xA1: {Op: OpAnd, Mode: ModeRegReg, R1: RegA, R2: RegC, Cycles: 1},
	0xA2: {Op: OpAnd, Mode: ModeRegReg, R1: RegA, R2: RegD, Cycles: 1},
	0xA3: {Op: OpAnd, Mode: ModeRegReg, R1: RegA, R2: RegE, Cycles: 1},
	0xA4: {Op: OpAnd, Mode: ModeRegReg, R1: RegA, R2: RegH, Cycles: 1},
	0xA5: {Op: OpAnd, Mode: ModeRegReg, R1: RegA, R2: RegL, Cycles: 1},
	0xA6: {Op: OpAnd, Mode: ModeIndToReg, R1: RegA, R2: RegHL, Cycles: 2},
	0xA7: {Op: OpAnd, Mode: ModeRegReg, R1: RegA, R2: RegA, Cycles: 1},
	0xA8: {Op: OpXor, Mode: ModeRegReg, R1: RegA, R2: RegB, Cycles: 1},
	0xA9: {Op: OpXor, Mode: ModeRegReg, R1: RegA, R2: RegC, Cycles: 1},
	0xAA: {Op: OpXor, Mode: ModeRegReg, R1: RegA, R2: RegD, Cycles: 1},
	0xAB: {Op: OpXor, Mode: ModeRegReg, R1: RegA, R2: RegE, Cycles: 1},
	0xAC: {Op: OpXor, Mode: ModeRegReg, R1: RegA, R2: RegH, Cycles: 1},
	0xAD: {Op: OpXor, Mode: ModeRegReg, R1: RegA, R2: RegL, Cycles: 1},
	0xAE: {Op: OpXor, Mode: ModeIndToReg, R1: RegA, R2: RegHL, Cycles: 2},
	0xAF: {Op: OpXor, Mode: ModeRegReg, R1: RegA, R2: RegA, Cycles: 1},
	0xB0: {Op: OpOr, Mode: ModeRegReg, R1: RegA, R2: RegB, Cycles: 1},
	0xB1: {Op: OpOr, Mode: ModeRegReg, R1: RegA, R2: RegC, Cycles: 1},
	0xB2: {Op: OpOr, Mode: ModeRegReg, R1: RegA, R2: RegD, Cycles: 1},
	0xB3: {Op: OpOr, Mode: ModeRegReg, R1: RegA, R2: RegE, Cycles: 1},
	0xB4: {Op: OpOr, Mode: ModeRegReg, R1: RegA, R2: RegH, Cycles: 1},
	0xB5: {Op: OpOr, Mode: ModeRegReg, R1: RegA, R2: RegL, Cycles: 1},
	0xB6: {Op: OpOr, Mode: ModeIndToReg, R1: RegA, R2: RegHL, Cycles: 2},
	0xB7: {Op: OpOr, Mode: ModeRegReg, R1: RegA, R2: RegA, Cycles: 1},
	0xB8: {Op: OpCp, Mode: ModeRegReg, R1: RegA, R2: RegB, Cycles: 1},
	0xB9: {Op: OpCp, Mode: ModeRegReg, R1: RegA, R2: RegC, Cycles: 1},
	0xBA: {Op: OpCp, Mode: ModeRegReg, R1: RegA, R2: RegD, Cycles: 1},
	0xBB: {Op: OpCp, Mode: ModeRegReg, R1: RegA, R2: RegE, Cycles: 1},
	0xBC: {Op: OpCp, Mode: ModeRegReg, R1: RegA, R2: RegH, Cycles: 1},
	0xBD: {Op: OpCp, Mode: ModeRegReg, R1: RegA, R2: RegL, Cycles: 1},
	0xBE: {Op: OpCp, Mode: ModeIndToReg, R1: RegA, R2: RegHL, Cycles: 2},
	0xBF: {Op: OpCp, Mode: ModeRegReg, R1: RegA, R2: RegA, Cycles: 1},
	0xC0: {Op: OpRet, Cond: CondNZ, Cycles: 2, TakenCycles: 5},
	0xC1: {Op: OpPop, R1: RegBC, Cycles: 3},
	0xC2: {Op: OpJp, Mode: ModeImm16, Cond: CondNZ, Cycles: 3, TakenCycles: 4},
	0xC3: {Op: OpJp, Mode: ModeImm16, Cycles: 4},
	0xC4: {Op: OpCall, Mode: ModeImm16, Cond: CondNZ, Cycles: 3, TakenCycles: 6},
	0xC5: {Op: OpPush, Mode: ModeReg, R1: RegBC, Cycles: 4},
	0xC6: {Op: OpAdd, Mode: ModeImm8, R1: RegA, Cycles: 2},
	0xC7: {Op: OpRst, Param: 0x00, Cycles: 4},
	0xC8: {Op: OpRet, Cond: CondZ, Cycles: 2, TakenCycles: 5},
	0xC9: {Op: OpRet, Cycles: 4},
	0xCA: {Op: OpJp, Mode: ModeImm16, Cond: CondZ, Cycles: 3, TakenCycles: 4},
	0xCB: {Op: OpPrefix, Cycles: 1},
	0xCC: {Op: OpCall, Mode: ModeImm16, Cond: CondZ, Cycles: 3, TakenCycles: 6},
	0xCD: {Op: OpCall, Mode: ModeImm16, Cycles: 6},
	0xCE: {Op: OpAdc, Mode: ModeImm8, R1: RegA, Cycles: 2},
	0xCF: {Op: OpRst, Param: 0x08, Cycles: 4},
	0xD0: {Op: OpRet, Cond: CondNC, Cycles: 2, TakenCycles: 5},
	0xD1: {Op: OpPop, R1: RegDE, Cycles: 3},
	0xD2: {Op: OpJp, Mode: ModeImm16, Cond: CondNC, Cycles: 3, TakenCycles: 4},
	0xD3: {Op: OpIllegal, Cycles: 1},
	0xD4: {Op: OpCall, Mode: ModeImm16, Cond: CondNC, Cycles: 3, TakenCycles: 6},
	0xD5: {Op: OpPush, Mode: ModeReg, R1: RegDE, Cycles: 4},
	0xD6: {Op: OpSub, Mode: ModeImm8, R1: RegA, Cycles: 2},
	0xD7: {Op: OpRst, Param: 0x10, Cycles: 4},
	0xD8: {Op: OpRet, Cond: CondC, Cycles: 2, TakenCycles: 5},
	0xD9: {Op: OpReti, Cycles: 4},
	0xDA: {Op: OpJp, Mode: ModeImm16, Cond: CondC, Cycles: 3, TakenCycles: 4},
	0xDB: {Op: OpIllegal, Cycles: 1},
	0xDC: {Op: OpCall, Mode: ModeImm16, Cond: CondC, Cycles: 3, TakenCycles: 6},
	0xDD: {Op: OpIllegal, Cycles: 1},
	0xDE: {Op: OpSbc, Mode: ModeImm8, R1: RegA, Cycles: 2},
	0xDF: {Op: OpRst, Param: 0x18, Cycles: 4},
	0xE0: {Op: OpLd, Mode: ModeRegToHigh, R2: RegA, Cycles: 3},
	0xE1: {Op: OpPop, R1: RegHL, Cycles: 3},
	0xE2: {Op: OpLd, Mode: ModeRegToInd, R1: RegC, R2: RegA, Cycles: 2},
	0xE3: {Op: OpIllegal, Cycles: 1},
	0xE4: {Op: OpIllegal, Cycles: 1},
	0xE5: {Op: OpPush, Mode: ModeReg, R1: RegHL, Cycles: 4},
	0xE6: {Op: OpAnd, Mode: ModeImm8, R1: RegA, Cycles: 2},
	0xE7: {Op: OpRst, Param: 0x20, Cycles: 4},
	0xE8: {Op: OpAdd, Mode: ModeRel8, R1: RegSP, Cycles: 4},
	0xE9: {Op: OpJp, Mode: ModeReg, R1: RegHL, Cycles: 1},
	0xEA: {Op: OpLd, Mode: ModeRegToAbs, R2: RegA, Cycles: 4},
	0xEB: {Op: OpIllegal, Cycles: 1},
	0xEC: {Op: OpIllegal, Cycles: 1},
	0xED: {Op: OpIllegal, Cycles: 1},
	0xEE: {Op: OpXor, Mode: ModeImm8, R1: RegA, Cycles: 2},
	0xEF: {Op: OpRst, Param: 0x28, Cycles: 4},
	0xF0: {Op: OpLd, Mode: ModeHighToReg, R1: RegA, Cycles: 3},
	0xF1: {Op: OpPop, R1: RegAF, Cycles: 3},
	0xF2: {Op: OpLd, Mode: ModeIndToReg, R1: RegA, R2: RegC, Cycles: 2},
	0xF3: {Op: OpDi, Cycles: 1},
	0xF4: {Op: OpIllegal, Cycles: 1},
	0xF5: {Op: OpPush, Mode: ModeReg, R1: RegAF, Cycles: 4},
	0xF6: {Op: OpOr, Mode: ModeImm8, R1: RegA, Cycles: 2},
	0xF7: {Op: OpRst, Param: 0x30, Cycles: 4},
	0xF8: {Op: OpLd, Mode: ModeRel8, R1: RegHL, R2: RegSP, Cycles: 3},
	0xF9: {Op: OpLd, Mode: ModeRegReg, R1: RegSP, R2: RegHL, Cycles: 2},
	0xFA: {Op: OpLd, Mode: ModeAbsToReg, R1: RegA, Cycles: 4},
	0xFB: {Op: OpEi, Cycles: 1},
	0xFC: {Op: OpIllegal, Cycles: 1},
	0xFD: {Op: OpIllegal, Cycles: 1},
	0xFE: {Op: OpCp, Mode: ModeImm8, R1: RegA, Cycles: 2},
	0xFF: {Op: OpRst, Param: 0x38, Cycles: 4},
}

// prefixed is the 0xCB page. Its layout is fully regular: bits 7-3 select the
// operation (and bit index), bits 2-0 the operand register.
var prefixed [256]Instruction

var cbTargets = [8]Reg{RegB, RegC, RegD, RegE, RegH, RegL, RegHL, RegA}

var cbShifts = [8]Op{OpRlc, OpRrc, OpRl, OpRr, OpSla, OpSra, OpSwap, OpSrl}

func init() {
	for i := range prefixed {
		op := byte(i)
		in := Instruction{Mode: ModeReg, R1: cbTargets[op&7], Cycles: 2}
		switch {
		case op < 0x40:
			in.Op = cbShifts[op>>3]
		case op < 0x80:
			in.Op = OpBit
		case op < 0xC0:
			in.Op = OpRes
		default:
			in.Op = OpSet
		}
		if op >= 0x40 {
			in.Param = (op >> 3) & 7
		}
		if in.R1 == RegHL {
			in.Mode = ModeInd
			in.Cycles = 4
			if in.Op == OpBit {
				in.Cycles = 3
			}
		}
		prefixed[i] = in
	}
}

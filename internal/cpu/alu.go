package cpu

func add8(a, b byte) (res byte, z, n, h, cy bool) {
	r := uint16(a) + uint16(b)
	res = byte(r)
	z = res == 0
	n = false
	h = ((a & 0x0F) + (b & 0x0F)) > 0x0F
	cy = r > 0xFF
	return
}

func adc8(a, b byte, carryIn bool) (res byte, z, n, h, cy bool) {
	ci := byte(0)
	if carryIn {
		ci = 1
	}
	r := uint16(a) + uint16(b) + uint16(ci)
	res = byte(r)
	z = res == 0
	n = false
	h = ((a & 0x0F) + (b & 0x0F) + ci) > 0x0F
	cy = r > 0xFF
	return
}

func sub8(a, b byte) (res byte, z, n, h, cy bool) {
	res = a - b
	z = res == 0
	n = true
	h = (a & 0x0F) < (b & 0x0F)
	cy = a < b
	return
}

func sbc8(a, b byte, carryIn bool) (res byte, z, n, h, cy bool) {
	ci := byte(0)
	if carryIn {
		ci = 1
	}
	r := int16(a) - int16(b) - int16(ci)
	res = byte(r)
	z = res == 0
	n = true
	h = int16(a&0x0F)-int16(b&0x0F)-int16(ci) < 0
	cy = r < 0
	return
}

func and8(a, b byte) (res byte, z, n, h, cy bool) {
	res = a & b
	return res, res == 0, false, true, false
}

func xor8(a, b byte) (res byte, z, n, h, cy bool) {
	res = a ^ b
	return res, res == 0, false, false, false
}

func or8(a, b byte) (res byte, z, n, h, cy bool) {
	res = a | b
	return res, res == 0, false, false, false
}

func cp8(a, b byte) (z, n, h, cy bool) {
	_, z, n, h, cy = sub8(a, b)
	return
}

// inc8 and dec8 leave the carry flag to the caller; it is never touched.
func inc8(v byte) (res byte, h bool) {
	return v + 1, v&0x0F == 0x0F
}

func dec8(v byte) (res byte, h bool) {
	return v - 1, v&0x0F == 0
}

// add16 is ADD HL,rr: half carry out of bit 11, carry out of bit 15.
func add16(a, b uint16) (res uint16, h, cy bool) {
	r := uint32(a) + uint32(b)
	return uint16(r), (a&0x0FFF)+(b&0x0FFF) > 0x0FFF, r > 0xFFFF
}

// addSPe8 serves ADD SP,e8 and LD HL,SP+e8. e is already sign-extended; the
// flags come from the unsigned add of the low byte.
func addSPe8(sp, e uint16) (res uint16, h, cy bool) {
	return sp + e, (sp&0x0F)+(e&0x0F) > 0x0F, (sp&0xFF)+(e&0xFF) > 0xFF
}

func rlc(v byte) (byte, bool) { return v<<1 | v>>7, v&0x80 != 0 }
func rrc(v byte) (byte, bool) { return v>>1 | v<<7, v&0x01 != 0 }

func rl(v byte, carryIn bool) (byte, bool) {
	res := v << 1
	if carryIn {
		res |= 0x01
	}
	return res, v&0x80 != 0
}

func rr(v byte, carryIn bool) (byte, bool) {
	res := v >> 1
	if carryIn {
		res |= 0x80
	}
	return res, v&0x01 != 0
}

func sla(v byte) (byte, bool)  { return v << 1, v&0x80 != 0 }
func sra(v byte) (byte, bool)  { return v>>1 | v&0x80, v&0x01 != 0 }
func srl(v byte) (byte, bool)  { return v >> 1, v&0x01 != 0 }
func swap(v byte) (byte, bool) { return v<<4 | v>>4, false }

// daa corrects A after a BCD add or subtract, as selected by N.
func daa(a byte, n, h, c bool) (res byte, cy bool) {
	var adj byte
	cy = c
	if n {
		if h {
			adj |= 0x06
		}
		if c {
			adj |= 0x60
		}
		return a - adj, cy
	}
	if h || a&0x0F > 0x09 {
		adj |= 0x06
	}
	if c || a > 0x99 {
		adj |= 0x60
		cy = true
	}
	return a + adj, cy
}

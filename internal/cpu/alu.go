package cpu

func add8(a, b byte, carryIn bool) (res byte, z, n, h, cy bool) {
	ci := byte(0)
	if carryIn {
		ci = 1
	}
	r := uint16(a) + uint16(b) + uint16(ci)
	res = byte(r)
	z = res == 0
	h = ((a & 0x0F) + (b & 0x0F) + ci) > 0x0F
	cy = r > 0xFF
	return
}

func sub8(a, b byte, carryIn bool) (res byte, z, n, h, cy bool) {
	ci := byte(0)
	if carryIn {
		ci = 1
	}
	r := int16(a) - int16(b) - int16(ci)
	res = byte(r)
	z = res == 0
	n = true
	h = (a & 0x0F) < ((b & 0x0F) + ci)
	cy = r < 0
	return
}

// Accumulator operations in opcode order: ADD ADC SUB SBC AND XOR OR CP.
var aluNames = [8]string{"ADD A,", "ADC A,", "SUB ", "SBC A,", "AND ", "XOR ", "OR ", "CP "}

func (c *CPU) alu(op byte, v byte) {
	switch op & 7 {
	case 0:
		res, z, n, h, cy := add8(c.A, v, false)
		c.A = res
		c.setZNHC(z, n, h, cy)
	case 1:
		res, z, n, h, cy := add8(c.A, v, c.flag(flagC))
		c.A = res
		c.setZNHC(z, n, h, cy)
	case 2:
		res, z, n, h, cy := sub8(c.A, v, false)
		c.A = res
		c.setZNHC(z, n, h, cy)
	case 3:
		res, z, n, h, cy := sub8(c.A, v, c.flag(flagC))
		c.A = res
		c.setZNHC(z, n, h, cy)
	case 4:
		c.A &= v
		c.setZNHC(c.A == 0, false, true, false)
	case 5:
		c.A ^= v
		c.setZNHC(c.A == 0, false, false, false)
	case 6:
		c.A |= v
		c.setZNHC(c.A == 0, false, false, false)
	case 7:
		_, z, n, h, cy := sub8(c.A, v, false)
		c.setZNHC(z, n, h, cy)
	}
}

func (c *CPU) inc8(v byte) byte {
	r := v + 1
	c.setZNHC(r == 0, false, v&0x0F == 0x0F, c.flag(flagC))
	return r
}

func (c *CPU) dec8(v byte) byte {
	r := v - 1
	c.setZNHC(r == 0, true, v&0x0F == 0x00, c.flag(flagC))
	return r
}

// addHL leaves Z alone; H and C come from bits 11 and 15.
func (c *CPU) addHL(v uint16) {
	hl := c.HL()
	r := uint32(hl) + uint32(v)
	h := (hl&0x0FFF)+(v&0x0FFF) > 0x0FFF
	c.setZNHC(c.flag(flagZ), false, h, r > 0xFFFF)
	c.SetHL(uint16(r))
}

// addSPe is shared by ADD SP,e and LD HL,SP+e. The flags come from the
// unsigned add of the offset byte to the low byte of SP.
func (c *CPU) addSPe(e byte) uint16 {
	sp := c.SP
	h := (sp&0x0F)+uint16(e&0x0F) > 0x0F
	cy := (sp&0xFF)+uint16(e) > 0xFF
	c.setZNHC(false, false, h, cy)
	return uint16(int32(sp) + int32(int8(e)))
}

func (c *CPU) daa() {
	var correction byte
	carry := false
	n := c.flag(flagN)
	if c.flag(flagH) || (!n && c.A&0x0F > 0x09) {
		correction |= 0x06
	}
	if c.flag(flagC) || (!n && c.A > 0x99) {
		correction |= 0x60
		carry = true
	}
	if n {
		c.A -= correction
	} else {
		c.A += correction
	}
	c.setZNHC(c.A == 0, n, false, carry)
}

// Rotate and shift helpers. The accumulator forms (RLCA etc.) clear Z; the
// CB forms set Z from the result.

func (c *CPU) rlc(v byte, zeroFlag bool) byte {
	cy := v&0x80 != 0
	r := v<<1 | v>>7
	c.setZNHC(zeroFlag && r == 0, false, false, cy)
	return r
}

func (c *CPU) rrc(v byte, zeroFlag bool) byte {
	cy := v&0x01 != 0
	r := v>>1 | v<<7
	c.setZNHC(zeroFlag && r == 0, false, false, cy)
	return r
}

func (c *CPU) rl(v byte, zeroFlag bool) byte {
	cy := v&0x80 != 0
	r := v << 1
	if c.flag(flagC) {
		r |= 0x01
	}
	c.setZNHC(zeroFlag && r == 0, false, false, cy)
	return r
}

func (c *CPU) rr(v byte, zeroFlag bool) byte {
	cy := v&0x01 != 0
	r := v >> 1
	if c.flag(flagC) {
		r |= 0x80
	}
	c.setZNHC(zeroFlag && r == 0, false, false, cy)
	return r
}

func (c *CPU) sla(v byte) byte {
	r := v << 1
	c.setZNHC(r == 0, false, false, v&0x80 != 0)
	return r
}

func (c *CPU) sra(v byte) byte {
	r := v>>1 | v&0x80
	c.setZNHC(r == 0, false, false, v&0x01 != 0)
	return r
}

func (c *CPU) swap(v byte) byte {
	r := v<<4 | v>>4
	c.setZNHC(r == 0, false, false, false)
	return r
}

func (c *CPU) srl(v byte) byte {
	r := v >> 1
	c.setZNHC(r == 0, false, false, v&0x01 != 0)
	return r
}

func (c *CPU) bit(b uint, v byte) {
	c.setZNHC(v&(1<<b) == 0, false, true, c.flag(flagC))
}

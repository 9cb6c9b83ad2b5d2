// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mcp23xxx

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
)

// Register is the address of one of the MCP23S08 internal registers.
//
// Any 8-bit value may be used with Dev.ReadRegister and Dev.WriteRegister; the
// named constants are the ones documented in the datasheet.
type Register uint8

const (
	IODIR   Register = 0x00 // I/O direction. 1 = input, 0 = output.
	IPOL    Register = 0x01 // Input polarity.
	GPINTEN Register = 0x02 // Interrupt-on-change enable.
	DEFVAL  Register = 0x03 // Default compare value for interrupt-on-change.
	INTCON  Register = 0x04 // Interrupt-on-change control.
	IOCON   Register = 0x05 // Configuration.
	GPPU    Register = 0x06 // Pull-up resistor enable.
	INTF    Register = 0x07 // Interrupt flags (read only).
	INTCAP  Register = 0x08 // Interrupt capture (read only).
	GPIO    Register = 0x09 // Port value. Writes go to OLAT.
	OLAT    Register = 0x0A // Output latch.
)

// IOCON bits.
const (
	IOCONIntPol byte = 1 << 1 // INT output active-high.
	IOCONODR    byte = 1 << 2 // INT output open-drain.
	IOCONHAEN   byte = 1 << 3 // Hardware address pins enabled.
	IOCONDISSLW byte = 1 << 4 // Slew rate disabled.
	IOCONSEQOP  byte = 1 << 5 // Sequential operation disabled.
)

const (
	// BaseAddress is the fixed part of the device opcode. The two strap pins
	// A1 and A0 are OR'ed into it.
	BaseAddress = 0x20

	readBit = 0x01
)

var registerNames = [...]string{
	IODIR:   "IODIR",
	IPOL:    "IPOL",
	GPINTEN: "GPINTEN",
	DEFVAL:  "DEFVAL",
	INTCON:  "INTCON",
	IOCON:   "IOCON",
	GPPU:    "GPPU",
	INTF:    "INTF",
	INTCAP:  "INTCAP",
	GPIO:    "GPIO",
	OLAT:    "OLAT",
}

func (r Register) String() string {
	if int(r) < len(registerNames) {
		return registerNames[r]
	}
	return fmt.Sprintf("Register(0x%02x)", uint8(r))
}

// Opcode returns the control byte sent first in every transaction for a
// device with the given strap address.
func Opcode(strap uint8, read bool) byte {
	op := byte((BaseAddress | strap&0x03) << 1)
	if read {
		op |= readBit
	}
	return op
}

// writeRegister performs one register write as a single 3 byte transaction:
// opcode, register, value.
func (d *Dev) writeRegister(reg Register, value uint8) error {
	w := [3]byte{d.opcode, byte(reg), value}
	if err := d.tx(w[:], nil); err != nil {
		return fmt.Errorf("mcp23xxx: write %s: %w", reg, err)
	}
	return nil
}

// readRegister performs one register read. The third byte on the wire is a
// dummy; the device clocks the register content out while it is sent.
func (d *Dev) readRegister(reg Register) (uint8, error) {
	w := [3]byte{d.opcode | readBit, byte(reg), 0}
	var r [3]byte
	if err := d.tx(w[:], r[:]); err != nil {
		return 0, fmt.Errorf("mcp23xxx: read %s: %w", reg, err)
	}
	return r[2], nil
}

// tx brackets one transfer with the chip select line. The line is released
// even if the transfer failed, otherwise the next transaction would be
// appended to the aborted one.
func (d *Dev) tx(w, r []byte) error {
	if d.cs == nil {
		return d.c.Tx(w, r)
	}
	if err := d.cs.Out(gpio.Low); err != nil {
		return err
	}
	err := d.c.Tx(w, r)
	if err2 := d.cs.Out(gpio.High); err == nil {
		err = err2
	}
	return err
}

func (d *Dev) setBit(reg Register, bit int, set bool) error {
	v, err := d.readRegister(reg)
	if err != nil {
		return err
	}
	if set {
		v |= 1 << uint(bit)
	} else {
		v &^= 1 << uint(bit)
	}
	return d.writeRegister(reg, v)
}

func (d *Dev) getBit(reg Register, bit int) (bool, error) {
	v, err := d.readRegister(reg)
	return v&(1<<uint(bit)) != 0, err
}

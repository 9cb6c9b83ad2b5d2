// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package mcp23xxxtest implements a simulated MCP23S08 for testing.
//
// The Device acts as both the spi.Conn and the chip select gpio.PinOut of a
// real chip, and keeps an ordered log of what happened on the wire.
package mcp23xxxtest

import (
	"errors"
	"fmt"
	"sync"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// EventKind is the type of a logged Event.
type EventKind int

const (
	// Select is chip select driven low.
	Select EventKind = iota
	// Deselect is chip select driven high.
	Deselect
	// Transfer is one spi.Conn.Tx call.
	Transfer
)

func (k EventKind) String() string {
	switch k {
	case Select:
		return "Select"
	case Deselect:
		return "Deselect"
	case Transfer:
		return "Transfer"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is one thing that happened on the wire.
type Event struct {
	Kind EventKind
	// W and R are the bytes sent and received for a Transfer.
	W, R []byte
	// Selected is the chip select state at the time of a Transfer.
	Selected bool
}

const (
	regIOCON = 0x05
	regGPIO  = 0x09
	regOLAT  = 0x0A

	haen  = 1 << 3
	seqop = 1 << 5
)

// Device is a register level model of a MCP23S08.
//
// Writing GPIO also writes OLAT, and reading GPIO returns the last value
// written to it, so outputs read back as written. Set Regs[0x09] directly to
// simulate external input levels.
type Device struct {
	sync.Mutex
	// Strap is the A1/A0 address of the simulated chip. It is only compared
	// when IOCON.HAEN is set, like on the real chip.
	Strap uint8
	// Regs is the register file. Addresses above OLAT are plain storage.
	Regs [256]byte
	// Log is every chip select change and transfer, in order.
	Log []Event
	// Err, if set, is returned by Tx without processing the transfer.
	Err error

	selected bool
	csUsed   bool
	cs       csPin
}

// New returns a device in its power-on state: all pins inputs.
func New(strap uint8) *Device {
	d := &Device{Strap: strap & 0x03}
	d.Regs[0x00] = 0xFF
	d.cs.d = d
	return d
}

// CS returns the chip select line of the device.
//
// Once CS has been driven, transfers while it is high are ignored. If it is
// never driven, every Tx is treated as one framed transaction, as with a
// hardware chip select.
func (d *Device) CS() gpio.PinOut {
	return &d.cs
}

// Connect implements spi.Port.
func (d *Device) Connect(f physic.Frequency, mode spi.Mode, bits int) (spi.Conn, error) {
	if bits != 8 {
		return nil, errors.New("mcp23xxxtest: only 8 bits words are supported")
	}
	return d, nil
}

// Tx implements spi.Conn.
func (d *Device) Tx(w, r []byte) error {
	d.Lock()
	defer d.Unlock()
	if d.Err != nil {
		return d.Err
	}
	if len(r) != 0 && len(r) != len(w) {
		return errors.New("mcp23xxxtest: r and w must have the same length")
	}
	resp := make([]byte, len(w))
	active := d.selected || !d.csUsed
	if active {
		d.process(w, resp)
	}
	copy(r, resp)
	d.Log = append(d.Log, Event{
		Kind:     Transfer,
		W:        append([]byte(nil), w...),
		R:        resp,
		Selected: d.selected,
	})
	return nil
}

// TxPackets implements spi.Conn.
func (d *Device) TxPackets(p []spi.Packet) error {
	for _, pkt := range p {
		if err := d.Tx(pkt.W, pkt.R); err != nil {
			return err
		}
	}
	return nil
}

// Duplex implements conn.Conn.
func (d *Device) Duplex() conn.Duplex {
	return conn.Full
}

func (d *Device) String() string {
	return fmt.Sprintf("mcp23xxxtest(%d)", d.Strap)
}

// Transfers returns the Transfer events of the log.
func (d *Device) Transfers() []Event {
	d.Lock()
	defer d.Unlock()
	var out []Event
	for _, e := range d.Log {
		if e.Kind == Transfer {
			out = append(out, e)
		}
	}
	return out
}

// Reset clears the log.
func (d *Device) Reset() {
	d.Lock()
	defer d.Unlock()
	d.Log = nil
}

// process handles one framed transaction. It must be called with the lock
// held.
func (d *Device) process(w, resp []byte) {
	if len(w) < 2 {
		return
	}
	op := w[0]
	// 0 1 0 0 0 A1 A0 R/W
	if op>>3 != 0x08 {
		return
	}
	if d.Regs[regIOCON]&haen != 0 && (op>>1)&0x03 != d.Strap {
		return
	}
	read := op&0x01 != 0
	reg := w[1]
	for i := 2; i < len(w); i++ {
		if read {
			resp[i] = d.Regs[reg]
		} else {
			d.Regs[reg] = w[i]
			if reg == regGPIO {
				d.Regs[regOLAT] = w[i]
			}
		}
		if d.Regs[regIOCON]&seqop == 0 {
			reg++
			if reg > regOLAT {
				reg = 0
			}
		}
	}
}

func (d *Device) setCS(l gpio.Level) {
	d.Lock()
	defer d.Unlock()
	d.csUsed = true
	d.selected = l == gpio.Low
	k := Deselect
	if d.selected {
		k = Select
	}
	d.Log = append(d.Log, Event{Kind: k})
}

type csPin struct {
	d *Device
}

func (c *csPin) String() string   { return c.Name() }
func (c *csPin) Halt() error      { return nil }
func (c *csPin) Name() string     { return "MCP23S08_CS" }
func (c *csPin) Number() int      { return -1 }
func (c *csPin) Function() string { return "Out" }

func (c *csPin) Out(l gpio.Level) error {
	c.d.setCS(l)
	return nil
}

func (c *csPin) PWM(duty gpio.Duty, f physic.Frequency) error {
	return errors.New("mcp23xxxtest: PWM is not supported")
}

var _ spi.Conn = &Device{}
var _ spi.Port = &Device{}
var _ gpio.PinOut = &csPin{}

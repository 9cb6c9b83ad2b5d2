// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mcp23xxx

import (
	"errors"
	"fmt"
	"strconv"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

const (
	devName = "MCP23S08"
	// NumPins is the number of GPIO pins on the device.
	NumPins = 8
)

var (
	// ErrInvalidPin is returned when a pin number outside 0..7 is used. No
	// bus transaction is issued in that case.
	ErrInvalidPin = errors.New("mcp23xxx: invalid pin number")
	// ErrInvalidMode is returned by SetPinMode for an unknown Mode.
	ErrInvalidMode = errors.New("mcp23xxx: invalid pin mode")
)

// Mode is the configuration of a pin.
type Mode uint8

const (
	Output      Mode = iota // Push-pull output.
	Input                   // High impedance input.
	InputPullUp             // Input with the internal 100kΩ pull-up enabled.
)

func (m Mode) String() string {
	switch m {
	case Output:
		return "Output"
	case Input:
		return "Input"
	case InputPullUp:
		return "InputPullUp"
	default:
		return "Mode(" + strconv.Itoa(int(m)) + ")"
	}
}

// Opts holds the configuration options for the device.
type Opts struct {
	// Address is the value strapped on the A1 and A0 pins, 0 to 3. Higher
	// bits are ignored.
	Address uint8
}

// DefaultOpts is the recommended default options.
var DefaultOpts = Opts{}

// Dev is a handle to a MCP23S08 8-bit SPI I/O expander.
//
// Every operation reads or writes the device registers directly; nothing is
// cached in Dev. Dev has no lock: the caller must serialize access to all the
// devices sharing one SPI bus.
type Dev struct {
	// Pins are the eight GPIO pins, indexed by pin number.
	Pins [NumPins]Pin
	// Port accesses the GPIO register as a byte stream.
	Port conn.Conn

	c      spi.Conn
	cs     gpio.PinOut
	opcode byte
	name   string
	// registered lists the pin names this device added to gpioreg.
	registered []string
}

// NewSPI connects to the SPI port and returns a device. cs is the chip
// select line of the device; it may be nil if the SPI port drives a hardware
// chip select.
func NewSPI(p spi.Port, cs gpio.PinOut, opts *Opts) (*Dev, error) {
	// The device supports up to 10MHz in Mode0 and Mode3.
	c, err := p.Connect(10*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("mcp23xxx: %w", err)
	}
	return New(c, cs, opts)
}

// New returns a device communicating over an already connected spi.Conn.
//
// The chip select line is driven to its idle (high) level. No register is
// accessed. The pins are registered in gpioreg under the device name, e.g.
// "MCP23S08_20_GP0"; call Close to unregister them. A pin whose name is
// already taken, e.g. by another device with the same address strap, is left
// unregistered but is still usable through Pins.
func New(c spi.Conn, cs gpio.PinOut, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	strap := opts.Address & 0x03
	d := &Dev{
		c:      c,
		cs:     cs,
		opcode: Opcode(strap, false),
		name:   devName + "_" + strconv.FormatInt(int64(BaseAddress|strap), 16),
	}
	if err := d.Init(); err != nil {
		return nil, err
	}
	for i := range d.Pins {
		p := &portpin{dev: d, number: i}
		d.Pins[i] = p
		if err := gpioreg.Register(p); err == nil {
			d.registered = append(d.registered, p.Name())
		}
	}
	d.Port = &port{dev: d}
	return d, nil
}

// Init puts the chip select line in its deselected state.
func (d *Dev) Init() error {
	if d.cs == nil {
		return nil
	}
	if err := d.cs.Out(gpio.High); err != nil {
		return fmt.Errorf("mcp23xxx: chip select: %w", err)
	}
	return nil
}

// SetPinMode configures a single pin.
//
// For InputPullUp the pull-up register is updated before the direction
// register, in two separate transactions.
func (d *Dev) SetPinMode(pin int, m Mode) error {
	if !validPin(pin) {
		return ErrInvalidPin
	}
	if m > InputPullUp {
		return ErrInvalidMode
	}
	dir, err := d.readRegister(IODIR)
	if err != nil {
		return err
	}
	bit := uint8(1) << uint(pin)
	switch m {
	case Output:
		dir &^= bit
	case Input:
		dir |= bit
	case InputPullUp:
		dir |= bit
		if err := d.setBit(GPPU, pin, true); err != nil {
			return err
		}
	}
	return d.writeRegister(IODIR, dir)
}

// SetPortMode configures all 8 pins at once. An unknown mode does nothing.
func (d *Dev) SetPortMode(m Mode) error {
	var pu, dir uint8
	switch m {
	case Output:
		pu, dir = 0x00, 0x00
	case Input:
		pu, dir = 0x00, 0xFF
	case InputPullUp:
		pu, dir = 0xFF, 0xFF
	default:
		return nil
	}
	if err := d.writeRegister(GPPU, pu); err != nil {
		return err
	}
	return d.writeRegister(IODIR, dir)
}

// WritePin sets the level of one pin. The pin must already be configured as
// an output; this is not verified.
func (d *Dev) WritePin(pin int, l gpio.Level) error {
	if !validPin(pin) {
		return ErrInvalidPin
	}
	return d.setBit(GPIO, pin, bool(l))
}

// ReadPin returns the level of one pin.
//
// For an invalid pin number gpio.Low is returned along with ErrInvalidPin.
func (d *Dev) ReadPin(pin int) (gpio.Level, error) {
	if !validPin(pin) {
		return gpio.Low, ErrInvalidPin
	}
	v, err := d.readRegister(GPIO)
	if err != nil {
		return gpio.Low, err
	}
	return gpio.Level((v>>uint(pin))&0x01 == 1), nil
}

// WritePort writes the GPIO register, setting all output pins at once.
func (d *Dev) WritePort(v uint8) error {
	return d.writeRegister(GPIO, v)
}

// ReadPort reads the GPIO register.
func (d *Dev) ReadPort() (uint8, error) {
	return d.readRegister(GPIO)
}

// WriteRegister writes any register, e.g. to configure interrupts. The
// register is not validated.
func (d *Dev) WriteRegister(r Register, v uint8) error {
	return d.writeRegister(r, v)
}

// ReadRegister reads any register. The register is not validated.
func (d *Dev) ReadRegister(r Register) (uint8, error) {
	return d.readRegister(r)
}

// Halt implements conn.Resource.
//
// It sets all pins to high impedance input.
func (d *Dev) Halt() error {
	return d.SetPortMode(Input)
}

// Close removes from gpioreg the pins that New registered. Calling it again
// is a no-op.
func (d *Dev) Close() error {
	var err error
	for _, name := range d.registered {
		if err2 := gpioreg.Unregister(name); err2 != nil && err == nil {
			err = err2
		}
	}
	d.registered = nil
	return err
}

func (d *Dev) String() string {
	return d.name
}

func validPin(pin int) bool {
	return pin >= 0 && pin < NumPins
}

var _ conn.Resource = &Dev{}

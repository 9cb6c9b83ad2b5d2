// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mcp23xxx

import (
	"errors"
	"strconv"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/pin"
)

// Pin extends gpio.PinIO interface with features supported by the MCP23S08.
type Pin interface {
	gpio.PinIO
	// SetPolarityInverted if set to true, GPIO register bit reflects the
	// inverted logic state of the input pin.
	SetPolarityInverted(p bool) error
	// IsPolarityInverted returns true if the value of the input pin reflects
	// inverted logic state.
	IsPolarityInverted() (bool, error)
}

// port exposes the GPIO register as a half duplex conn.Conn.
type port struct {
	dev *Dev
}

// Tx takes bytes to either read or write. Only half duplex is supported so it
// is an error to pass 2 buffers at once. Each byte is a separate register
// transaction.
func (p *port) Tx(w, r []byte) error {
	switch {
	case len(w) > 0 && len(r) > 0:
		return errors.New("mcp23xxx: only conn.Half duplex is supported")
	case len(w) > 0:
		for _, b := range w {
			if err := p.dev.writeRegister(GPIO, b); err != nil {
				return err
			}
		}
	case len(r) > 0:
		for i := range r {
			v, err := p.dev.readRegister(GPIO)
			if err != nil {
				return err
			}
			r[i] = v
		}
	}
	return nil
}

// Duplex returns that this is a half duplex connection.
func (p *port) Duplex() conn.Duplex {
	return conn.Half
}

func (p *port) String() string {
	return p.dev.name + "_GP"
}

type portpin struct {
	dev    *Dev
	number int
}

func (p *portpin) String() string {
	return p.Name()
}

// Halt sets the pin to high impedance input.
func (p *portpin) Halt() error {
	return p.In(gpio.Float, gpio.NoEdge)
}

func (p *portpin) Name() string {
	return p.dev.name + "_GP" + strconv.Itoa(p.number)
}

func (p *portpin) Number() int {
	return p.number
}

func (p *portpin) Function() string {
	return string(p.Func())
}

func (p *portpin) In(pull gpio.Pull, edge gpio.Edge) error {
	// Interrupt-on-change is signalled on the INT pin, not on the bus.
	if edge != gpio.NoEdge {
		return errors.New("mcp23xxx: edge detection not supported")
	}
	switch pull {
	case gpio.PullDown:
		return errors.New("mcp23xxx: PullDown is not supported")
	case gpio.PullUp:
		return p.dev.SetPinMode(p.number, InputPullUp)
	case gpio.Float:
		if err := p.dev.setBit(GPPU, p.number, false); err != nil {
			return err
		}
	}
	return p.dev.SetPinMode(p.number, Input)
}

func (p *portpin) Read() gpio.Level {
	l, _ := p.dev.ReadPin(p.number)
	return l
}

func (p *portpin) WaitForEdge(timeout time.Duration) bool {
	return false
}

func (p *portpin) Pull() gpio.Pull {
	v, err := p.dev.getBit(GPPU, p.number)
	if err != nil {
		return gpio.PullNoChange
	}
	if v {
		return gpio.PullUp
	}
	return gpio.Float
}

// DefaultPull returns gpio.Float; pull-ups are disabled at power on.
func (p *portpin) DefaultPull() gpio.Pull {
	return gpio.Float
}

func (p *portpin) Out(l gpio.Level) error {
	if err := p.dev.SetPinMode(p.number, Output); err != nil {
		return err
	}
	return p.dev.WritePin(p.number, l)
}

func (p *portpin) PWM(duty gpio.Duty, f physic.Frequency) error {
	return errors.New("mcp23xxx: PWM is not supported")
}

func (p *portpin) Func() pin.Func {
	v, err := p.dev.getBit(IODIR, p.number)
	if err != nil {
		return pin.FuncNone
	}
	if v {
		return gpio.IN
	}
	return gpio.OUT
}

func (p *portpin) SupportedFuncs() []pin.Func {
	return supportedFuncs[:]
}

func (p *portpin) SetFunc(f pin.Func) error {
	switch f {
	case gpio.IN:
		return p.dev.SetPinMode(p.number, Input)
	case gpio.OUT:
		return p.dev.SetPinMode(p.number, Output)
	default:
		return errors.New("mcp23xxx: Function not supported: " + string(f))
	}
}

func (p *portpin) SetPolarityInverted(pol bool) error {
	return p.dev.setBit(IPOL, p.number, pol)
}

func (p *portpin) IsPolarityInverted() (bool, error) {
	return p.dev.getBit(IPOL, p.number)
}

var supportedFuncs = [...]pin.Func{gpio.IN, gpio.OUT}

var _ Pin = &portpin{}
var _ pin.PinFunc = &portpin{}
var _ conn.Conn = &port{}

// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mcp23xxx

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/pin"
)

// The internal structure for a group of pins.
type pinGroup struct {
	dev         *Dev
	pins        []*portpin
	defaultMask gpio.GPIOValue
}

// Group returns a gpio.Group that is made up of the specified pins. Bit n of
// the values passed to the group maps to pins[n].
func (d *Dev) Group(pins ...int) (gpio.Group, error) {
	grouppins := make([]*portpin, len(pins))
	for ix, number := range pins {
		if !validPin(number) {
			return nil, ErrInvalidPin
		}
		grouppins[ix] = d.Pins[number].(*portpin)
	}
	defMask := gpio.GPIOValue((1 << len(pins)) - 1)
	return &pinGroup{dev: d, pins: grouppins, defaultMask: defMask}, nil
}

// Pins returns the set of pin.Pin that make up that group.
func (pg *pinGroup) Pins() []pin.Pin {
	pins := make([]pin.Pin, len(pg.pins))
	for ix, p := range pg.pins {
		pins[ix] = p
	}
	return pins
}

// Given the offset within the group, return the corresponding GPIO pin.
func (pg *pinGroup) ByOffset(offset int) pin.Pin {
	return pg.pins[offset]
}

// Given the specific name of a pin, return it. If it can't be found, nil is
// returned.
func (pg *pinGroup) ByName(name string) pin.Pin {
	for _, p := range pg.pins {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// Given the GPIO pin number, return that pin from the set.
func (pg *pinGroup) ByNumber(number int) pin.Pin {
	for _, p := range pg.pins {
		if p.Number() == number {
			return p
		}
	}
	return nil
}

// portMask converts a group relative mask into a mask of port bits.
func (pg *pinGroup) portMask(mask gpio.GPIOValue) uint8 {
	var m uint8
	for ix, p := range pg.pins {
		if mask&(1<<ix) != 0 {
			m |= 1 << uint(p.number)
		}
	}
	return m
}

// Out writes value to the specified pins of the group. If mask is 0, the
// default mask of all pins in the group is used. Pins that are not outputs
// are switched to output first.
func (pg *pinGroup) Out(value, mask gpio.GPIOValue) error {
	if mask == 0 {
		mask = pg.defaultMask
	} else {
		mask &= pg.defaultMask
	}
	wrMask := pg.portMask(mask)
	wr := pg.portMask(value & mask)

	dir, err := pg.dev.readRegister(IODIR)
	if err != nil {
		return err
	}
	if dir&wrMask != 0 {
		if err = pg.dev.writeRegister(IODIR, dir&^wrMask); err != nil {
			return err
		}
	}

	current, err := pg.dev.readRegister(GPIO)
	if err != nil {
		return err
	}
	return pg.dev.writeRegister(GPIO, (current&^wrMask)|wr)
}

// Read returns the state of the pins in the group. If a pin specified by mask
// is not configured for input, it is transparently re-configured.
func (pg *pinGroup) Read(mask gpio.GPIOValue) (result gpio.GPIOValue, err error) {
	if mask == 0 {
		mask = pg.defaultMask
	} else {
		mask &= pg.defaultMask
	}
	rmask := pg.portMask(mask)

	dir, err := pg.dev.readRegister(IODIR)
	if err != nil {
		return
	}
	if dir&rmask != rmask {
		if err = pg.dev.writeRegister(IODIR, dir|rmask); err != nil {
			return
		}
	}

	v, err := pg.dev.readRegister(GPIO)
	if err != nil {
		return
	}
	for ix, p := range pg.pins {
		if mask&(1<<ix) != 0 && v&(1<<uint(p.number)) != 0 {
			result |= 1 << ix
		}
	}
	return
}

// WaitForEdge is not available; the MCP23S08 signals changes on its INT pin,
// which is not wired through this driver.
func (pg *pinGroup) WaitForEdge(timeout time.Duration) (number int, edge gpio.Edge, err error) {
	return -1, gpio.NoEdge, gpio.ErrGroupFeatureNotImplemented
}

// Halt is a no-op.
func (pg *pinGroup) Halt() error {
	return nil
}

// String returns the device name and configured pins for the group.
func (pg *pinGroup) String() string {
	s := fmt.Sprintf("%s - [ ", pg.dev)
	for _, p := range pg.pins {
		s += fmt.Sprintf("%d ", p.number)
	}
	s += "]"
	return s
}

var _ gpio.Group = &pinGroup{}

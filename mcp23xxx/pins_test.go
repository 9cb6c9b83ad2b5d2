// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mcp23xxx

import (
	"reflect"
	"testing"
	"time"

	"github.com/GermanBionicSystems/mcp23s08/mcp23xxx/mcp23xxxtest"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/pin"
)

func TestPins_registered(t *testing.T) {
	d, _ := newSim(t)
	p := gpioreg.ByName("MCP23S08_20_GP3")
	if p == nil {
		t.Fatal("MCP23S08_20_GP3 is not registered")
	}
	if p.Number() != 3 {
		t.Errorf("Number() = %d", p.Number())
	}
	if err := d.Close(); err != nil {
		t.Fatal(err)
	}
	if gpioreg.ByName("MCP23S08_20_GP3") != nil {
		t.Error("pin still registered after Close")
	}
	if err := d.Close(); err != nil {
		t.Errorf("second Close() = %v", err)
	}
}

// Two devices with the same address strap share pin names; only the first
// one owns the gpioreg entries.
func TestPins_sameAddress(t *testing.T) {
	a, _ := newSim(t)
	simB := mcp23xxxtest.New(0)
	b, err := New(simB, simB.CS(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if p := gpioreg.ByName("MCP23S08_20_GP0"); p == nil || p.(*portpin).dev != a {
		t.Fatalf("MCP23S08_20_GP0 = %v, want a pin of the first device", p)
	}
	if err := b.Close(); err != nil {
		t.Fatal(err)
	}
	if p := gpioreg.ByName("MCP23S08_20_GP0"); p == nil || p.(*portpin).dev != a {
		t.Errorf("closing the second device unregistered the first device's pins: %v", p)
	}
	// b's pins still drive b.
	if err := b.Pins[1].Out(gpio.High); err != nil {
		t.Fatal(err)
	}
	if simB.Regs[GPIO] != 0x02 {
		t.Errorf("GPIO = 0x%02x", simB.Regs[GPIO])
	}
	if err := a.Close(); err != nil {
		t.Errorf("Close() = %v", err)
	}
	if gpioreg.ByName("MCP23S08_20_GP0") != nil {
		t.Error("pin still registered after Close")
	}
}

func TestPin_out(t *testing.T) {
	d, sim := newSim(t)
	p := d.Pins[2]
	if err := p.Out(gpio.High); err != nil {
		t.Fatal(err)
	}
	if sim.Regs[IODIR] != 0xFB {
		t.Errorf("IODIR = 0x%02x", sim.Regs[IODIR])
	}
	if sim.Regs[GPIO] != 0x04 || sim.Regs[OLAT] != 0x04 {
		t.Errorf("GPIO = 0x%02x OLAT = 0x%02x", sim.Regs[GPIO], sim.Regs[OLAT])
	}
	if f := p.(pin.PinFunc).Func(); f != gpio.OUT {
		t.Errorf("Func() = %s", f)
	}
	if err := p.Out(gpio.Low); err != nil {
		t.Fatal(err)
	}
	if sim.Regs[GPIO] != 0x00 {
		t.Errorf("GPIO = 0x%02x", sim.Regs[GPIO])
	}
}

func TestPin_in(t *testing.T) {
	d, sim := newSim(t)
	p := d.Pins[6]
	sim.Regs[IODIR] = 0x00

	if err := p.In(gpio.PullUp, gpio.NoEdge); err != nil {
		t.Fatal(err)
	}
	if sim.Regs[IODIR] != 0x40 || sim.Regs[GPPU] != 0x40 {
		t.Errorf("IODIR = 0x%02x GPPU = 0x%02x", sim.Regs[IODIR], sim.Regs[GPPU])
	}
	if p.Pull() != gpio.PullUp {
		t.Errorf("Pull() = %s", p.Pull())
	}

	if err := p.In(gpio.Float, gpio.NoEdge); err != nil {
		t.Fatal(err)
	}
	if sim.Regs[GPPU] != 0x00 {
		t.Errorf("GPPU = 0x%02x", sim.Regs[GPPU])
	}
	if p.Pull() != gpio.Float {
		t.Errorf("Pull() = %s", p.Pull())
	}
	if f := p.Function(); f != string(gpio.IN) {
		t.Errorf("Function() = %s", f)
	}

	sim.Regs[GPIO] = 0x40
	if l := p.Read(); l != gpio.High {
		t.Error("Input should be High")
	}
	sim.Regs[GPIO] = 0xBF
	if l := p.Read(); l != gpio.Low {
		t.Error("Input should be Low")
	}

	if err := p.In(gpio.PullDown, gpio.NoEdge); err == nil {
		t.Error("PullDown should fail")
	}
	if err := p.In(gpio.Float, gpio.RisingEdge); err == nil {
		t.Error("edge detection should fail")
	}
}

func TestPin_polarity(t *testing.T) {
	d, sim := newSim(t)
	p := d.Pins[1]
	if err := p.SetPolarityInverted(true); err != nil {
		t.Fatal(err)
	}
	if sim.Regs[IPOL] != 0x02 {
		t.Errorf("IPOL = 0x%02x", sim.Regs[IPOL])
	}
	inv, err := p.IsPolarityInverted()
	if !inv || err != nil {
		t.Errorf("IsPolarityInverted() = %t, %v", inv, err)
	}
	if err := p.SetPolarityInverted(false); err != nil {
		t.Fatal(err)
	}
	if sim.Regs[IPOL] != 0x00 {
		t.Errorf("IPOL = 0x%02x", sim.Regs[IPOL])
	}
}

func TestPin_func(t *testing.T) {
	d, sim := newSim(t)
	p := d.Pins[0].(pin.PinFunc)
	if err := p.SetFunc(gpio.OUT); err != nil {
		t.Fatal(err)
	}
	if sim.Regs[IODIR] != 0xFE {
		t.Errorf("IODIR = 0x%02x", sim.Regs[IODIR])
	}
	if err := p.SetFunc(gpio.IN); err != nil {
		t.Fatal(err)
	}
	if sim.Regs[IODIR] != 0xFF {
		t.Errorf("IODIR = 0x%02x", sim.Regs[IODIR])
	}
	if err := p.SetFunc(pin.Func("I2C_SDA")); err == nil {
		t.Error("SetFunc(I2C_SDA) should fail")
	}
	if !reflect.DeepEqual(p.SupportedFuncs(), []pin.Func{gpio.IN, gpio.OUT}) {
		t.Errorf("SupportedFuncs() = %v", p.SupportedFuncs())
	}
}

func TestPin_fixedValues(t *testing.T) {
	d, sim := newSim(t)
	p := d.Pins[5]
	if p.Name() != "MCP23S08_20_GP5" || p.String() != "MCP23S08_20_GP5" {
		t.Errorf("Name() = %q String() = %q", p.Name(), p.String())
	}
	if p.Number() != 5 {
		t.Errorf("Number() = %d", p.Number())
	}
	if p.WaitForEdge(10 * time.Second) {
		t.Error("WaitForEdge() should return false")
	}
	if p.DefaultPull() != gpio.Float {
		t.Error("DefaultPull() should return gpio.Float")
	}
	if err := p.PWM(gpio.DutyHalf, physic.Hertz); err == nil {
		t.Error("PWM should return an error")
	}
	sim.Regs[IODIR] = 0x00
	sim.Regs[GPPU] = 0x20
	if err := p.Halt(); err != nil {
		t.Fatal(err)
	}
	if sim.Regs[IODIR] != 0x20 || sim.Regs[GPPU] != 0x00 {
		t.Errorf("IODIR = 0x%02x GPPU = 0x%02x", sim.Regs[IODIR], sim.Regs[GPPU])
	}
}

func TestPort_tx(t *testing.T) {
	d, sim := newSim(t)
	if d.Port.Duplex() != conn.Half {
		t.Error("Duplex() should return conn.Half")
	}
	if s := d.Port.String(); s != "MCP23S08_20_GP" {
		t.Errorf("String() = %q", s)
	}

	if err := d.Port.Tx([]byte{0xA5, 0x5A}, nil); err != nil {
		t.Fatal(err)
	}
	tr := sim.Transfers()
	if len(tr) != 2 {
		t.Fatalf("got %d transfers", len(tr))
	}
	if !reflect.DeepEqual(tr[0].W, []byte{0x40, 0x09, 0xA5}) || !reflect.DeepEqual(tr[1].W, []byte{0x40, 0x09, 0x5A}) {
		t.Errorf("unexpected transfers %v", tr)
	}

	r := make([]byte, 3)
	if err := d.Port.Tx(nil, r); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(r, []byte{0x5A, 0x5A, 0x5A}) {
		t.Errorf("r = %v", r)
	}

	if err := d.Port.Tx([]byte{1}, make([]byte, 1)); err == nil {
		t.Error("full duplex Tx should fail")
	}
}

// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/GermanBionicSystems/mcp23s08/mcp23xxx"
	"github.com/GermanBionicSystems/mcp23s08/portview"
	log "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
)

type app struct {
	dev  *mcp23xxx.Dev
	out  io.Writer
	args []string

	interval time.Duration
	count    int
}

type commandFunc func(a *app) error

var commands = map[string]commandFunc{
	"mode":      setPinMode,
	"portmode":  setPortMode,
	"read":      readPin,
	"write":     writePin,
	"readport":  readPort,
	"writeport": writePort,
	"reg":       readRegister,
	"setreg":    writeRegister,
	"dump":      dump,
	"watch":     watch,
}

var dumpRegisters = []mcp23xxx.Register{
	mcp23xxx.IODIR, mcp23xxx.IPOL, mcp23xxx.GPINTEN, mcp23xxx.DEFVAL,
	mcp23xxx.INTCON, mcp23xxx.IOCON, mcp23xxx.GPPU, mcp23xxx.INTF,
	mcp23xxx.INTCAP, mcp23xxx.GPIO, mcp23xxx.OLAT,
}

func (a *app) expectArgs(n int, usage string) error {
	if len(a.args) != n {
		return fmt.Errorf("expected arguments: %s", usage)
	}
	return nil
}

func setPinMode(a *app) error {
	if err := a.expectArgs(2, "<pin> <output|input|pullup>"); err != nil {
		return err
	}
	pin, err := parsePin(a.args[0])
	if err != nil {
		return err
	}
	m, err := parseMode(a.args[1])
	if err != nil {
		return err
	}
	if err := a.dev.SetPinMode(pin, m); err != nil {
		return err
	}
	log.WithFields(log.Fields{"pin": pin, "mode": m}).Info("Pin configured")
	return nil
}

func setPortMode(a *app) error {
	if err := a.expectArgs(1, "<output|input|pullup>"); err != nil {
		return err
	}
	m, err := parseMode(a.args[0])
	if err != nil {
		return err
	}
	if err := a.dev.SetPortMode(m); err != nil {
		return err
	}
	log.WithField("mode", m).Info("Port configured")
	return nil
}

func readPin(a *app) error {
	if err := a.expectArgs(1, "<pin>"); err != nil {
		return err
	}
	pin, err := parsePin(a.args[0])
	if err != nil {
		return err
	}
	l, err := a.dev.ReadPin(pin)
	if err != nil {
		return err
	}
	v := 0
	if l == gpio.High {
		v = 1
	}
	_, err = fmt.Fprintln(a.out, v)
	return err
}

func writePin(a *app) error {
	if err := a.expectArgs(2, "<pin> <0|1>"); err != nil {
		return err
	}
	pin, err := parsePin(a.args[0])
	if err != nil {
		return err
	}
	v, err := parseByte(a.args[1])
	if err != nil {
		return err
	}
	l := gpio.Level(v != 0)
	if err := a.dev.WritePin(pin, l); err != nil {
		return err
	}
	log.WithFields(log.Fields{"pin": pin, "level": l}).Info("Pin written")
	return nil
}

func readPort(a *app) error {
	if err := a.expectArgs(0, "none"); err != nil {
		return err
	}
	v, err := a.dev.ReadPort()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(a.out, "0x%02x\n", v)
	return err
}

func writePort(a *app) error {
	if err := a.expectArgs(1, "<value>"); err != nil {
		return err
	}
	v, err := parseByte(a.args[0])
	if err != nil {
		return err
	}
	if err := a.dev.WritePort(v); err != nil {
		return err
	}
	log.WithField("value", fmt.Sprintf("0x%02x", v)).Info("Port written")
	return nil
}

func readRegister(a *app) error {
	if err := a.expectArgs(1, "<register>"); err != nil {
		return err
	}
	r, err := parseRegister(a.args[0])
	if err != nil {
		return err
	}
	v, err := a.dev.ReadRegister(r)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(a.out, "0x%02x\n", v)
	return err
}

func writeRegister(a *app) error {
	if err := a.expectArgs(2, "<register> <value>"); err != nil {
		return err
	}
	r, err := parseRegister(a.args[0])
	if err != nil {
		return err
	}
	v, err := parseByte(a.args[1])
	if err != nil {
		return err
	}
	if err := a.dev.WriteRegister(r, v); err != nil {
		return err
	}
	log.WithFields(log.Fields{"register": r, "value": fmt.Sprintf("0x%02x", v)}).Info("Register written")
	return nil
}

func dump(a *app) error {
	for _, r := range dumpRegisters {
		v, err := a.dev.ReadRegister(r)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(a.out, "%-8s 0x%02x  %08b\n", r, v, v); err != nil {
			return err
		}
	}
	return nil
}

func watch(a *app) error {
	view := portview.New(&portview.Opts{W: a.out})
	defer view.Halt()
	for i := 0; a.count == 0 || i < a.count; i++ {
		if i > 0 {
			time.Sleep(a.interval)
		}
		dir, err := a.dev.ReadRegister(mcp23xxx.IODIR)
		if err != nil {
			return err
		}
		v, err := a.dev.ReadPort()
		if err != nil {
			return err
		}
		if err := view.Show(v, dir); err != nil {
			return err
		}
	}
	return nil
}

func parsePin(s string) (int, error) {
	pin, err := strconv.Atoi(strings.TrimPrefix(strings.ToUpper(s), "GP"))
	if err != nil {
		return 0, fmt.Errorf("invalid pin %q", s)
	}
	return pin, nil
}

func parseMode(s string) (mcp23xxx.Mode, error) {
	switch strings.ToLower(s) {
	case "output", "out":
		return mcp23xxx.Output, nil
	case "input", "in":
		return mcp23xxx.Input, nil
	case "pullup", "inputpullup", "input_pullup":
		return mcp23xxx.InputPullUp, nil
	}
	return 0, fmt.Errorf("invalid mode %q", s)
}

func parseByte(s string) (uint8, error) {
	v, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid value %q: %w", s, err)
	}
	return uint8(v), nil
}

// parseRegister accepts a register name, e.g. "gppu", or a number.
func parseRegister(s string) (mcp23xxx.Register, error) {
	for _, r := range dumpRegisters {
		if strings.EqualFold(r.String(), s) {
			return r, nil
		}
	}
	v, err := parseByte(s)
	if err != nil {
		return 0, errors.New("invalid register " + strconv.Quote(s))
	}
	return mcp23xxx.Register(v), nil
}

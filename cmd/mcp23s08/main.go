// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// mcp23s08 reads and writes the pins and registers of a MCP23S08 SPI I/O
// expander.
//
// Examples:
//
//	mcp23s08 -cs GPIO25 -c mode 3 output
//	mcp23s08 -cs GPIO25 -c write 3 1
//	mcp23s08 -cs GPIO25 -c dump
//	mcp23s08 -fake -c watch
package main

import (
	"errors"
	"flag"
	"fmt"
	"sort"
	"time"

	"github.com/GermanBionicSystems/mcp23s08/mcp23xxx"
	"github.com/GermanBionicSystems/mcp23s08/mcp23xxx/mcp23xxxtest"
	"github.com/antongulenko/golib"
	"github.com/mattn/go-colorable"
	log "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

var (
	spiName  = ""
	csName   = ""
	strap    = uint(0)
	hz       = 10 * physic.MegaHertz
	fake     = false
	command  = "dump"
	interval = 200 * time.Millisecond
	count    = 0
)

func main() {
	flag.StringVar(&spiName, "spi", spiName, "SPI port to use, default is the first one")
	flag.StringVar(&csName, "cs", csName, "GPIO used as chip select; empty to use the SPI port chip select")
	flag.UintVar(&strap, "addr", strap, "Value of the A1/A0 address pins (0-3)")
	flag.Var(&hz, "hz", "SPI clock speed")
	flag.BoolVar(&fake, "fake", fake, "Use a simulated device instead of hardware")
	flag.StringVar(&command, "c", command, fmt.Sprintf("Command to execute, one of: %v", commandNames()))
	flag.DurationVar(&interval, "interval", interval, "Time between reads (watch command)")
	flag.IntVar(&count, "n", count, "Number of reads, 0 for no limit (watch command)")
	golib.RegisterLogFlags()
	flag.Parse()
	golib.ConfigureLogging()
	golib.Checkerr(doMain())
}

func doMain() error {
	cmd, ok := commands[command]
	if !ok {
		return fmt.Errorf("unknown command %v, available commands: %v", command, commandNames())
	}
	dev, closer, err := openDevice()
	if err != nil {
		return err
	}
	defer closer()
	log.Debugf("Using %s", dev)

	a := &app{
		dev:      dev,
		out:      colorable.NewColorableStdout(),
		args:     flag.Args(),
		interval: interval,
		count:    count,
	}
	return cmd(a)
}

func openDevice() (*mcp23xxx.Dev, func(), error) {
	opts := &mcp23xxx.Opts{Address: uint8(strap)}
	if fake {
		sim := mcp23xxxtest.New(opts.Address)
		dev, err := mcp23xxx.NewSPI(sim, sim.CS(), opts)
		if err != nil {
			return nil, nil, err
		}
		log.Warnln("Using a simulated MCP23S08")
		return dev, func() { _ = dev.Close() }, nil
	}

	if _, err := host.Init(); err != nil {
		return nil, nil, err
	}
	p, err := spireg.Open(spiName)
	if err != nil {
		return nil, nil, err
	}
	var cs gpio.PinOut
	if csName != "" {
		pin := gpioreg.ByName(csName)
		if pin == nil {
			_ = p.Close()
			return nil, nil, errors.New("invalid chip select pin " + csName)
		}
		cs = pin
	}
	c, err := p.Connect(hz, spi.Mode0, 8)
	if err != nil {
		_ = p.Close()
		return nil, nil, err
	}
	dev, err := mcp23xxx.New(c, cs, opts)
	if err != nil {
		_ = p.Close()
		return nil, nil, err
	}
	return dev, func() {
		_ = dev.Close()
		if err := p.Close(); err != nil {
			log.Errorln("Failed to close SPI port:", err)
		}
	}, nil
}

func commandNames() []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

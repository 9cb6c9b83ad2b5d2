// Copyright 2020 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package mcp23xxx provides a driver for the MCP23S08, the 8-bit SPI member
// of the MCP23XXX family of GPIO expanders.
//
// Every register access is one 3 byte SPI transaction: the opcode
// ((0x20 | A1A0) << 1 | R/W), the register address and the data byte. The
// chip select line is held low for the whole transaction.
//
// Pin operations are read-modify-write sequences on the device registers.
// Nothing is cached and nothing is locked: when several goroutines or several
// devices share a bus, the caller must serialize access.
//
// Interrupt-on-change is not handled by the driver; use ReadRegister and
// WriteRegister with GPINTEN, DEFVAL, INTCON and IOCON.
//
// # Datasheet
//
// https://ww1.microchip.com/downloads/en/DeviceDoc/MCP23008-MCP23S08-Data-Sheet-20001919F.pdf
package mcp23xxx

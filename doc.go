// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package mcp23s08 is a container for the MCP23S08 SPI I/O expander driver
// and its tooling.
//
// The driver is in package mcp23xxx, a simulated device for tests in
// mcp23xxx/mcp23xxxtest and a command line tool in cmd/mcp23s08.
package mcp23s08

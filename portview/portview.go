// Copyright 2017 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package portview renders the state of an 8-bit GPIO port to a terminal
// using ANSI color codes.
//
// Each pin is one colored block, GP7 on the left. Outputs are drawn in red,
// inputs in green; a bright block is a high level.
package portview

import (
	"bytes"
	"fmt"
	"image/color"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
)

// Opts represents the options available for this view.
type Opts struct {
	// W is where the view is written. Defaults to stdout.
	W       io.Writer
	Palette *ansi256.Palette

	_ struct{}
}

var (
	outHigh = color.NRGBA{255, 48, 0, 255}
	outLow  = color.NRGBA{72, 0, 0, 255}
	inHigh  = color.NRGBA{0, 255, 64, 255}
	inLow   = color.NRGBA{0, 64, 16, 255}
)

// View draws a port on a single terminal line, redrawing it in place.
type View struct {
	w       io.Writer
	palette ansi256.Palette

	buf bytes.Buffer
}

// New returns a View that displays at the console.
func New(opts *Opts) *View {
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	w := opts.W
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	return &View{w: w, palette: *p}
}

func (v *View) String() string {
	return "PortView"
}

// Halt implements conn.Resource.
//
// It resets the terminal colors and ends the line.
func (v *View) Halt() error {
	_, err := v.w.Write([]byte("\n\033[0m"))
	return err
}

// Show draws value, the content of the GPIO register, and dir, the content
// of the IODIR register (1 = input).
func (v *View) Show(value, dir uint8) error {
	// This code is designed to minimize the amount of memory allocated per call.
	v.buf.Reset()
	_, _ = v.buf.WriteString("\r\033[0m")
	for bit := 7; bit >= 0; bit-- {
		_, _ = io.WriteString(&v.buf, v.palette.Block(Color(value, dir, bit)))
	}
	_, _ = fmt.Fprintf(&v.buf, "\033[0m 0x%02x", value)
	_, err := v.buf.WriteTo(v.w)
	return err
}

// Color returns the color used for one pin.
func Color(value, dir uint8, bit int) color.NRGBA {
	high := value&(1<<uint(bit)) != 0
	in := dir&(1<<uint(bit)) != 0
	switch {
	case in && high:
		return inHigh
	case in:
		return inLow
	case high:
		return outHigh
	default:
		return outLow
	}
}

var _ fmt.Stringer = &View{}

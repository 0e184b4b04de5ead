// Copyright 2017 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package indicator shows a measured value as a coloured block on a terminal
// (stdout) using ANSI color codes. The colour is picked from a list of
// thresholds, like an air quality traffic light.
package indicator

import (
	"bytes"
	"fmt"
	"image/color"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
)

// Level is the colour used for values below Limit.
type Level struct {
	Limit float64
	Color color.NRGBA
}

// Opts represents the options available for the indicator.
type Opts struct {
	// Levels sorted by increasing Limit. Values at or above the last limit use
	// Over.
	Levels []Level
	Over   color.NRGBA
	// Width of the block in characters.
	Width   int
	Palette *ansi256.Palette

	_ struct{}
}

// CO2Opts grades indoor CO2 concentration in ppm.
var CO2Opts = Opts{
	Levels: []Level{
		{Limit: 1000, Color: color.NRGBA{0x00, 0xc0, 0x00, 0xff}},
		{Limit: 1400, Color: color.NRGBA{0xff, 0xc0, 0x00, 0xff}},
	},
	Over:  color.NRGBA{0xff, 0x00, 0x00, 0xff},
	Width: 4,
}

// Dev writes indicator lines to a console.
type Dev struct {
	w       io.Writer
	opts    Opts
	palette ansi256.Palette

	buf bytes.Buffer
}

// New returns a Dev that displays at the console.
func New(opts *Opts) *Dev {
	return NewWriter(colorable.NewColorableStdout(), opts)
}

// NewWriter returns a Dev writing to w.
func NewWriter(w io.Writer, opts *Opts) *Dev {
	if opts == nil {
		opts = &CO2Opts
	}
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	d := &Dev{w: w, opts: *opts, palette: *p}
	if d.opts.Width <= 0 {
		d.opts.Width = 1
	}
	return d
}

func (d *Dev) String() string {
	return "Indicator"
}

// Color returns the colour for v.
func (d *Dev) Color(v float64) color.NRGBA {
	for _, l := range d.opts.Levels {
		if v < l.Limit {
			return l.Color
		}
	}
	return d.opts.Over
}

// Show writes one line: the coloured block followed by label.
func (d *Dev) Show(v float64, label string) error {
	d.buf.Reset()
	_, _ = d.buf.WriteString("\r\033[0m")
	block := d.palette.Block(d.Color(v))
	for i := 0; i < d.opts.Width; i++ {
		_, _ = io.WriteString(&d.buf, block)
	}
	_, _ = fmt.Fprintf(&d.buf, "\033[0m %s\n", label)
	_, err := d.buf.WriteTo(d.w)
	return err
}

// Halt resets the terminal colours.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\033[0m"))
	return err
}

var _ fmt.Stringer = &Dev{}

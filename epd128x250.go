// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd128x250

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3/rpi"

	"github.com/epaper-go/epd128x250/frame"
)

// Commands
const (
	driverOutputControl            byte = 0x01
	deepSleepMode                  byte = 0x10
	dataEntryModeSetting           byte = 0x11
	swReset                        byte = 0x12
	tempSensorSelect               byte = 0x18
	masterActivation               byte = 0x20
	displayUpdateControl1          byte = 0x21
	displayUpdateControl2          byte = 0x22
	writeRAMBW                     byte = 0x24
	borderWaveformControl          byte = 0x3C
	setRAMXAddressStartEndPosition byte = 0x44
	setRAMYAddressStartEndPosition byte = 0x45
	setRAMXAddressCounter          byte = 0x4E
	setRAMYAddressCounter          byte = 0x4F
)

// Timing of the reference panel.
const (
	// spiSpeed is the maximum clock the controller accepts.
	spiSpeed = 40 * physic.MegaHertz

	// transferSettle is the bus settle time before each command or
	// single-byte data transfer.
	transferSettle = 10 * time.Microsecond

	// resetPulse is how long the reset line is held on each edge of the
	// hardware reset.
	resetPulse = 10 * time.Millisecond

	// deepSleepSettle is the delay after the deep sleep command.
	deepSleepSettle = 100 * time.Millisecond

	// maxTxChunk keeps bulk transfers below the transfer size limit of
	// common SPI drivers.
	maxTxChunk = 4096
)

// Busy polling. Variables so tests can run against a simulated busy line
// without the 10s worst case.
var (
	busyPollInterval = 10 * time.Millisecond
	busyPollMax      = 1000
)

// Opts defines the structure of the display configuration.
type Opts struct {
	Width  int
	Height int
}

// EPD128x250 contains the display configuration for the reference 128x250
// panel.
var EPD128x250 = Opts{
	Width:  128,
	Height: 250,
}

// PartialUpdate defines if the display should do a full update or just a
// partial update.
type PartialUpdate bool

const (
	// Full updates the complete display with the slow high-contrast
	// waveform.
	Full PartialUpdate = false
	// Partial updates the display with the faster low-contrast waveform.
	Partial PartialUpdate = true
)

var errNotInitialized = errors.New("epd128x250: display not initialized")

// frameSize returns the length in bytes of a packed frame for the
// configured panel.
func frameSize(opts *Opts) int {
	return (opts.Width + 7) / 8 * opts.Height
}

// Dev is a handle to the display.
//
// The panel is a single physical resource with a strict command ordering
// requirement; a Dev therefore has exactly one owner and provides no
// internal locking. All operations block until the hardware is done.
type Dev struct {
	c conn.Conn

	dc   gpio.PinOut
	rst  gpio.PinOut
	busy gpio.PinIn

	buffer *image1bit.VerticalLSB
	opts   *Opts

	initialized bool
}

// New creates a handler to access the display.
//
// The dc and rst pins are outputs (data/command select and reset), busy is
// the input the panel drives high while it processes an update. Call Init
// before any drawing operation.
func New(p spi.Port, dc, rst gpio.PinOut, busy gpio.PinIn, opts *Opts) (*Dev, error) {
	c, err := p.Connect(spiSpeed, spi.Mode0, 8)
	if err != nil {
		return nil, err
	}

	if err := busy.In(gpio.Float, gpio.NoEdge); err != nil {
		return nil, err
	}

	d := &Dev{
		c:    c,
		dc:   dc,
		rst:  rst,
		busy: busy,
		buffer: image1bit.NewVerticalLSB(image.Rect(
			0, 0, (opts.Width+7)/8*8, opts.Height,
		)),
		opts: opts,
	}

	// Default color
	draw.Src.Draw(d.buffer, d.buffer.Bounds(), &image.Uniform{image1bit.On}, image.Point{})

	return d, nil
}

// NewHat creates a handler to access the display with the default Waveshare
// Hat pin assignment.
func NewHat(p spi.Port, opts *Opts) (*Dev, error) {
	dc := rpi.P1_22
	rst := rpi.P1_11
	busy := rpi.P1_18
	return New(p, dc, rst, busy, opts)
}

// Init configures the display for usage through the other functions.
//
// Init is idempotent: calling it on an already initialized display is a
// no-op. It is also how the display is woken up again after Sleep.
func (d *Dev) Init() error {
	if d.initialized {
		return nil
	}

	// Hardware Reset
	if err := d.reset(); err != nil {
		return err
	}

	eh := errorHandler{d: d}
	initDisplay(&eh, d.opts)
	if eh.err != nil {
		return eh.err
	}

	d.initialized = true
	return nil
}

// DrawRaw pushes an already packed frame to the panel and refreshes it
// with the given mode.
//
// The frame must be exactly Width*Height/8 bytes, row-major, MSB first,
// bit value 1 for white.
func (d *Dev) DrawRaw(f []byte, mode PartialUpdate) error {
	if !d.initialized {
		return errNotInitialized
	}
	if got, want := len(f), frameSize(d.opts); got != want {
		return fmt.Errorf("epd128x250: invalid frame size: got %d bytes, want %d", got, want)
	}

	eh := errorHandler{d: d}
	if mode == Partial {
		initPartial(&eh)
	}
	writeFrame(&eh, f)
	if eh.err == nil {
		updateDisplay(&eh, mode)
	}

	return eh.err
}

// DrawImage converts src with the frame codec and pushes it to the panel.
// src must match the panel dimensions exactly.
func (d *Dev) DrawImage(src image.Image, mode PartialUpdate) error {
	f, err := frame.PackSized(src, d.opts.Width, d.opts.Height)
	if err != nil {
		return err
	}
	return d.DrawRaw(f, mode)
}

// DrawFile decodes an image file, converts it and pushes it to the panel.
func (d *Dev) DrawFile(path string, mode PartialUpdate) error {
	f, err := frame.FromFile(path)
	if err != nil {
		return err
	}
	return d.DrawRaw(f, mode)
}

// Draw draws the given image to the display using a full refresh.
func (d *Dev) Draw(dstRect image.Rectangle, src image.Image, srcPts image.Point) error {
	draw.Src.Draw(d.buffer, dstRect, src, srcPts)

	rows := d.opts.Height
	cols := (d.opts.Width + 7) / 8

	f := make([]byte, 0, rows*cols)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			var b byte
			for bit := 0; bit < 8; bit++ {
				if d.buffer.BitAt(x*8+bit, y) {
					b |= 0x80 >> bit
				}
			}
			f = append(f, b)
		}
	}

	return d.DrawRaw(f, Full)
}

// Clear clears the display to white.
func (d *Dev) Clear() error {
	return d.DrawRaw(bytes.Repeat([]byte{0xFF}, frameSize(d.opts)), Full)
}

// Sleep makes the controller enter deep sleep mode. RAM content is
// retained but no further drawing operation is valid until Init is called
// again.
func (d *Dev) Sleep() error {
	if !d.initialized {
		return errNotInitialized
	}

	eh := errorHandler{d: d}
	sleepDisplay(&eh)
	if eh.err != nil {
		return eh.err
	}

	time.Sleep(deepSleepSettle)
	d.initialized = false
	return nil
}

// Close puts the panel to sleep and releases the control lines. It is safe
// to call multiple times and on a handle whose initialization failed
// partway; resources that were never acquired are skipped.
func (d *Dev) Close() error {
	var err error
	if d.initialized {
		err = d.Sleep()
	}
	if d.dc != nil {
		if e := d.dc.Halt(); err == nil {
			err = e
		}
	}
	if d.rst != nil {
		if e := d.rst.Halt(); err == nil {
			err = e
		}
	}
	if d.busy != nil {
		if e := d.busy.Halt(); err == nil {
			err = e
		}
	}
	d.initialized = false
	return err
}

// ColorModel returns a 1Bit color model.
func (d *Dev) ColorModel() color.Model {
	return image1bit.BitModel
}

// Bounds returns the bounds for the configurated display.
func (d *Dev) Bounds() image.Rectangle {
	return image.Rect(0, 0, d.opts.Width, d.opts.Height)
}

// Halt clears the display.
func (d *Dev) Halt() error {
	return d.Clear()
}

// String returns a string containing configuration information.
func (d *Dev) String() string {
	return fmt.Sprintf("epd128x250.Dev{%s, %s, Width: %d, Height: %d}", d.c, d.dc, d.opts.Width, d.opts.Height)
}

// reset pulses the hardware reset line.
func (d *Dev) reset() error {
	eh := errorHandler{d: d}

	eh.rstOut(gpio.Low)
	time.Sleep(resetPulse)
	eh.rstOut(gpio.High)
	time.Sleep(resetPulse)

	return eh.err
}

// waitUntilIdle blocks until the busy line deasserts. The wait is bounded:
// a panel that never reports idle would otherwise block the caller
// forever, so after busyPollMax polls a warning is logged and execution
// continues.
func (d *Dev) waitUntilIdle() {
	for i := 0; i < busyPollMax; i++ {
		if d.busy.Read() == gpio.Low {
			return
		}
		time.Sleep(busyPollInterval)
	}
	log.Printf("epd128x250: busy timeout after %s", time.Duration(busyPollMax)*busyPollInterval)
}

var _ display.Drawer = &Dev{}
var _ conn.Resource = &Dev{}

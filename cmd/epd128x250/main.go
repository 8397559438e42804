// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// epd128x250 pushes images, text banners or a blank frame to a 128x250
// e-paper panel. With -preview the packed frame is rendered to the
// terminal instead, so output can be inspected without the hardware.
package main

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/image/font/gofont/goregular"

	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/epaper-go/epd128x250"
	"github.com/epaper-go/epd128x250/frame"
)

var (
	spiPort   = flag.String("spi", "", "SPI port name, empty for the first available")
	dcPin     = flag.String("dc", "P1_22", "data/command select pin")
	rstPin    = flag.String("rst", "P1_11", "reset pin")
	busyPin   = flag.String("busy", "P1_18", "busy status pin")
	imagePath = flag.String("image", "", "image file to display (must be 128x250)")
	text      = flag.String("text", "", "text banner to render and display")
	fontSize  = flag.Float64("font-size", 16, "banner font size")
	partial   = flag.Bool("partial", false, "use the fast partial refresh waveform")
	clearOnly = flag.Bool("clear", false, "clear the panel to white")
	sleep     = flag.Bool("sleep", false, "put the panel into deep sleep when done")
	preview   = flag.Bool("preview", false, "render to the terminal instead of the panel")
)

func main() {
	flag.Parse()

	logger := zap.Must(zap.NewDevelopment())
	defer logger.Sync()

	if err := run(logger.Sugar()); err != nil {
		logger.Sugar().Fatal(err)
	}
}

func run(log *zap.SugaredLogger) error {
	// Build the frame first so -preview works without hardware.
	var f []byte
	var err error
	switch {
	case *imagePath != "":
		f, err = frame.FromFile(*imagePath)
	case *text != "":
		f, err = renderText(*text, *fontSize)
	case *clearOnly:
		f = frame.White()
	}
	if err != nil {
		return err
	}

	if *preview {
		if f == nil {
			return errors.New("nothing to preview: pass -image, -text or -clear")
		}
		return previewFrame(f)
	}

	if f == nil && !*sleep {
		return errors.New("nothing to do: pass -image, -text, -clear or -sleep")
	}

	if _, err := host.Init(); err != nil {
		return err
	}

	port, err := spireg.Open(*spiPort)
	if err != nil {
		return err
	}
	defer port.Close()

	dc := gpioreg.ByName(*dcPin)
	rst := gpioreg.ByName(*rstPin)
	busy := gpioreg.ByName(*busyPin)
	if dc == nil || rst == nil || busy == nil {
		return fmt.Errorf("unknown pin: dc=%q rst=%q busy=%q", *dcPin, *rstPin, *busyPin)
	}

	dev, err := epd128x250.New(port, dc, rst, busy, &epd128x250.EPD128x250)
	if err != nil {
		return err
	}
	defer dev.Close()

	if err := dev.Init(); err != nil {
		return err
	}
	log.Infow("panel initialized", "bounds", dev.Bounds().String())

	mode := epd128x250.Full
	if *partial {
		mode = epd128x250.Partial
	}

	if f != nil {
		if err := dev.DrawRaw(f, mode); err != nil {
			return err
		}
		log.Infow("frame displayed", "partial", *partial)
	}

	if *sleep {
		if err := dev.Sleep(); err != nil {
			return err
		}
		log.Info("panel asleep")
	}

	return nil
}

// renderText rasterizes a text banner running along the panel's long axis
// and packs it. Black text on a white background.
func renderText(s string, size float64) ([]byte, error) {
	dc := gg.NewContext(frame.Width, frame.Height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetRGB(0, 0, 0)

	ft, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}
	dc.SetFontFace(truetype.NewFace(ft, &truetype.Options{Size: size}))

	dc.Rotate(gg.Radians(90))
	dc.Translate(0, -float64(frame.Width))
	dc.DrawStringWrapped(s, 8, 8, 0, 0, float64(frame.Height)-16, 1.2, gg.AlignLeft)

	return frame.Pack(dc.Image())
}

// previewFrame renders a packed frame to the terminal, one character per
// pixel.
func previewFrame(f []byte) error {
	w := colorable.NewColorableStdout()

	var buf bytes.Buffer
	for y := 0; y < frame.Height; y++ {
		for x := 0; x < frame.Width; x++ {
			i := y*frame.Width + x
			c := color.NRGBA{A: 255}
			if f[i/8]&(0x80>>uint(i%8)) != 0 {
				c = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
			}
			buf.WriteString(ansi256.Default.Block(c))
		}
		buf.WriteString("\033[0m\n")
	}

	_, err := buf.WriteTo(w)
	return err
}

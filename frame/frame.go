// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package frame converts images into the packed 1-bit format the panel
// controller consumes: row-major, MSB first within each byte, bit value
// 1 for white.
package frame

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
)

// Native dimensions of the reference panel.
const (
	Width  = 128
	Height = 250

	// Size is the length in bytes of a packed frame.
	Size = Width * Height / 8
)

// threshold separates black from white. The channel mean must strictly
// exceed it for a pixel to come out white.
const threshold = 128

// Pack converts src into a packed frame for the reference panel.
//
// src must be exactly Width x Height; it is never resized or cropped.
// Each pixel is classified by the unweighted mean of its red, green and
// blue channels (alpha is ignored): white above the threshold, black
// otherwise. No dithering and no gamma correction; the panel has no
// intermediate gray levels.
func Pack(src image.Image) ([]byte, error) {
	return PackSized(src, Width, Height)
}

// PackSized is Pack for other panel sizes of the same controller family.
// width must be a multiple of 8.
func PackSized(src image.Image, width, height int) ([]byte, error) {
	if width <= 0 || width%8 != 0 || height <= 0 {
		return nil, fmt.Errorf("frame: invalid panel size %dx%d", width, height)
	}

	bounds := src.Bounds()
	if bounds.Dx() != width || bounds.Dy() != height {
		return nil, fmt.Errorf("frame: invalid image size %dx%d, expected %dx%d", bounds.Dx(), bounds.Dy(), width, height)
	}

	out := make([]byte, width*height/8)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			px := color.NRGBAModel.Convert(src.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			gray := (int(px.R) + int(px.G) + int(px.B)) / 3

			if gray > threshold {
				i := y*width + x
				out[i/8] |= 0x80 >> uint(i%8)
			}
		}
	}

	return out, nil
}

// White returns an all-white frame for the reference panel.
func White() []byte {
	return bytes.Repeat([]byte{0xFF}, Size)
}

// Black returns an all-black frame for the reference panel.
func Black() []byte {
	return bytes.Repeat([]byte{0x00}, Size)
}

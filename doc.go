// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package epd128x250 controls a 128x250 monochrome e-paper display over
// SPI.
//
// The panel uses an SSD1680-family controller and is driven through the
// SPI bus plus three GPIO lines: data/command select and reset as outputs
// and the busy status line as input. Frames are packed 1 bit per pixel,
// row-major, MSB first, bit value 1 for white; the frame subpackage
// converts images into that format.
//
// The display supports two refresh waveforms: Full redraws the whole
// panel for maximum contrast, Partial reuses the prior pixel state for a
// faster, lower-contrast update.
//
// A Dev is not safe for concurrent use; the panel requires strict command
// ordering, so callers needing concurrency must serialize access
// externally.
package epd128x250

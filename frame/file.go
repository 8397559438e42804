// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package frame

import (
	"fmt"

	"github.com/disintegration/imaging"
)

// FromFile decodes an image file and packs it for the reference panel.
// PNG, JPEG, GIF, TIFF and BMP are supported. The image must match the
// panel dimensions exactly.
func FromFile(path string) ([]byte, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("frame: %w", err)
	}
	return Pack(img)
}

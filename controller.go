// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd128x250

type controller interface {
	sendCommand(byte)
	sendData([]byte)
	sendByte(byte)
	waitUntilIdle()
}

// initDisplay runs the power-on register configuration. The controller is
// a fixed-function device; the order and the register values are mandated
// by the datasheet and must be reproduced exactly.
func initDisplay(ctrl controller, opts *Opts) {
	ctrl.waitUntilIdle()
	ctrl.sendCommand(swReset)
	ctrl.waitUntilIdle()

	ctrl.sendCommand(driverOutputControl)
	ctrl.sendData([]byte{
		byte((opts.Height - 1) & 0xFF),
		byte((opts.Height - 1) >> 8),
		0x00,
	})

	// Y decrement, X increment
	ctrl.sendCommand(dataEntryModeSetting)
	ctrl.sendByte(0x01)

	ctrl.sendCommand(setRAMXAddressStartEndPosition)
	ctrl.sendData([]byte{0x00, byte(opts.Width/8 - 1)})

	ctrl.sendCommand(setRAMYAddressStartEndPosition)
	ctrl.sendData([]byte{
		byte((opts.Height - 1) & 0xFF),
		byte((opts.Height - 1) >> 8),
		0x00, 0x00,
	})

	ctrl.sendCommand(borderWaveformControl)
	ctrl.sendByte(0x05)

	ctrl.sendCommand(displayUpdateControl1)
	ctrl.sendData([]byte{0x00, 0x80})

	ctrl.sendCommand(tempSensorSelect)
	ctrl.sendByte(0x80)

	setCursor(ctrl, 0, opts.Height-1)

	ctrl.waitUntilIdle()
}

// initPartial reconfigures the border waveform for a partial refresh. It
// must be issued before the frame write.
func initPartial(ctrl controller) {
	ctrl.sendCommand(borderWaveformControl)
	ctrl.sendByte(0x80)
}

// writeFrame uploads a packed frame into the controller's B/W RAM.
func writeFrame(ctrl controller, f []byte) {
	ctrl.sendCommand(writeRAMBW)
	ctrl.sendData(f)
}

// updateDisplay activates the refresh waveform for the given mode and
// waits for the panel to finish.
func updateDisplay(ctrl controller, mode PartialUpdate) {
	var updateMode byte = 0xF7
	if mode == Partial {
		updateMode = 0xFF
	}

	ctrl.sendCommand(displayUpdateControl2)
	ctrl.sendByte(updateMode)
	ctrl.sendCommand(masterActivation)
	ctrl.waitUntilIdle()
}

// sleepDisplay puts the controller into deep sleep. Only a hardware reset
// brings it back.
func sleepDisplay(ctrl controller) {
	ctrl.sendCommand(deepSleepMode)
	ctrl.sendByte(0x01)
}

// setCursor positions the RAM address counters. With the configured data
// entry mode the write origin is at (0, height-1).
func setCursor(ctrl controller, x, y int) {
	ctrl.sendCommand(setRAMXAddressCounter)
	// x point must be the multiple of 8 or the last 3 bits will be ignored
	ctrl.sendByte(byte(x & 0xFF))

	ctrl.sendCommand(setRAMYAddressCounter)
	ctrl.sendData([]byte{byte(y & 0xFF), byte((y >> 8) & 0xFF)})
}

// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd128x250

import (
	"time"

	"periph.io/x/conn/v3/gpio"
)

// errorHandler is a wrapper for error management: the first failed
// transfer latches the error and every later call becomes a no-op, so a
// command sequence never runs past a failure.
type errorHandler struct {
	d   *Dev
	err error
}

func (eh *errorHandler) rstOut(l gpio.Level) {
	if eh.err != nil {
		return
	}
	eh.err = eh.d.rst.Out(l)
}

func (eh *errorHandler) dcOut(l gpio.Level) {
	if eh.err != nil {
		return
	}
	eh.err = eh.d.dc.Out(l)
}

func (eh *errorHandler) cTx(w []byte) {
	if eh.err != nil {
		return
	}
	eh.err = eh.d.c.Tx(w, nil)
}

// sendCommand selects the command register and transfers the command byte.
func (eh *errorHandler) sendCommand(cmd byte) {
	time.Sleep(transferSettle)
	eh.dcOut(gpio.Low)
	eh.cTx([]byte{cmd})
}

// sendByte transfers a single data byte.
func (eh *errorHandler) sendByte(b byte) {
	time.Sleep(transferSettle)
	eh.dcOut(gpio.High)
	eh.cTx([]byte{b})
}

// sendData transfers a data payload in one burst, chunked to stay below
// the transfer size limit of common SPI drivers.
func (eh *errorHandler) sendData(data []byte) {
	time.Sleep(transferSettle)
	eh.dcOut(gpio.High)
	for len(data) > 0 {
		n := len(data)
		if n > maxTxChunk {
			n = maxTxChunk
		}
		eh.cTx(data[:n])
		data = data[n:]
	}
}

func (eh *errorHandler) waitUntilIdle() {
	eh.d.waitUntilIdle()
}

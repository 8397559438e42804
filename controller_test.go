// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package epd128x250

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

type record struct {
	cmd  byte
	data []byte
}

type fakeController []record

func (r *fakeController) sendCommand(cmd byte) {
	*r = append(*r, record{
		cmd: cmd,
	})
}

func (r *fakeController) sendData(data []byte) {
	cur := &(*r)[len(*r)-1]
	cur.data = append(cur.data, data...)
}

func (r *fakeController) sendByte(b byte) {
	r.sendData([]byte{b})
}

func (*fakeController) waitUntilIdle() {
}

func TestInitDisplay(t *testing.T) {
	for _, tc := range []struct {
		name string
		opts Opts
		want []record
	}{
		{
			name: "EPD128x250",
			opts: EPD128x250,
			want: []record{
				{cmd: swReset},
				{cmd: driverOutputControl, data: []byte{250 - 1, 0, 0}},
				{cmd: dataEntryModeSetting, data: []byte{0x01}},
				{cmd: setRAMXAddressStartEndPosition, data: []byte{0x00, 0x0F}},
				{cmd: setRAMYAddressStartEndPosition, data: []byte{250 - 1, 0, 0, 0}},
				{cmd: borderWaveformControl, data: []byte{0x05}},
				{cmd: displayUpdateControl1, data: []byte{0x00, 0x80}},
				{cmd: tempSensorSelect, data: []byte{0x80}},
				{cmd: setRAMXAddressCounter, data: []byte{0x00}},
				{cmd: setRAMYAddressCounter, data: []byte{250 - 1, 0}},
			},
		},
		{
			name: "240x416 variant",
			opts: Opts{Width: 240, Height: 416},
			want: []record{
				{cmd: swReset},
				{cmd: driverOutputControl, data: []byte{0x9F, 0x01, 0}},
				{cmd: dataEntryModeSetting, data: []byte{0x01}},
				{cmd: setRAMXAddressStartEndPosition, data: []byte{0x00, 0x1D}},
				{cmd: setRAMYAddressStartEndPosition, data: []byte{0x9F, 0x01, 0, 0}},
				{cmd: borderWaveformControl, data: []byte{0x05}},
				{cmd: displayUpdateControl1, data: []byte{0x00, 0x80}},
				{cmd: tempSensorSelect, data: []byte{0x80}},
				{cmd: setRAMXAddressCounter, data: []byte{0x00}},
				{cmd: setRAMYAddressCounter, data: []byte{0x9F, 0x01}},
			},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var got fakeController

			initDisplay(&got, &tc.opts)

			if diff := cmp.Diff([]record(got), tc.want, cmpopts.EquateEmpty(), cmp.AllowUnexported(record{})); diff != "" {
				t.Errorf("initDisplay() difference (-got +want):\n%s", diff)
			}
		})
	}
}

func TestInitPartial(t *testing.T) {
	var got fakeController

	initPartial(&got)

	want := []record{
		{cmd: borderWaveformControl, data: []byte{0x80}},
	}

	if diff := cmp.Diff([]record(got), want, cmpopts.EquateEmpty(), cmp.AllowUnexported(record{})); diff != "" {
		t.Errorf("initPartial() difference (-got +want):\n%s", diff)
	}
}

func TestWriteFrame(t *testing.T) {
	var got fakeController

	payload := bytes.Repeat([]byte{0xA5}, 64)
	writeFrame(&got, payload)

	want := []record{
		{cmd: writeRAMBW, data: payload},
	}

	if diff := cmp.Diff([]record(got), want, cmpopts.EquateEmpty(), cmp.AllowUnexported(record{})); diff != "" {
		t.Errorf("writeFrame() difference (-got +want):\n%s", diff)
	}
}

func TestUpdateDisplay(t *testing.T) {
	for _, tc := range []struct {
		name string
		mode PartialUpdate
		want []record
	}{
		{
			name: "full",
			mode: Full,
			want: []record{
				{cmd: displayUpdateControl2, data: []byte{0xF7}},
				{cmd: masterActivation},
			},
		},
		{
			name: "partial",
			mode: Partial,
			want: []record{
				{cmd: displayUpdateControl2, data: []byte{0xFF}},
				{cmd: masterActivation},
			},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var got fakeController

			updateDisplay(&got, tc.mode)

			if diff := cmp.Diff([]record(got), tc.want, cmpopts.EquateEmpty(), cmp.AllowUnexported(record{})); diff != "" {
				t.Errorf("updateDisplay() difference (-got +want):\n%s", diff)
			}
		})
	}
}

func TestSleepDisplay(t *testing.T) {
	var got fakeController

	sleepDisplay(&got)

	want := []record{
		{cmd: deepSleepMode, data: []byte{0x01}},
	}

	if diff := cmp.Diff([]record(got), want, cmpopts.EquateEmpty(), cmp.AllowUnexported(record{})); diff != "" {
		t.Errorf("sleepDisplay() difference (-got +want):\n%s", diff)
	}
}

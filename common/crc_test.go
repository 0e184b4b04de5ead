// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package common

import "testing"

func TestCRC16(t *testing.T) {
	var tests = []struct {
		name   string
		bytes  []byte
		result uint16
	}{
		{name: "empty", bytes: []byte{}, result: 0xffff},
		{name: "check string", bytes: []byte("123456789"), result: 0x4b37},
		// AM2320 vendor example: 0x03 0x04 0x01 0xf4 0x00 0xfa -> 0x31 0xa5
		{name: "am2320", bytes: []byte{0x03, 0x04, 0x01, 0xf4, 0x00, 0xfa}, result: 0xa531},
		// E+E implicit address byte followed by a temperature read request.
		{name: "ee895 read", bytes: []byte{0x5f, 0x03, 0x03, 0xea, 0x00, 0x02}, result: 0xc5e8},
	}
	for _, test := range tests {
		res := CRC16(test.bytes)
		if res != test.result {
			t.Errorf("%s: CRC16(%#v)!=0x%04x received 0x%04x", test.name, test.bytes, test.result, res)
		}
	}
}

func TestCRC16Update(t *testing.T) {
	data := []byte{0x5f, 0x06, 0x01, 0xfa, 0x00, 0x01}
	whole := CRC16(data)
	for split := 0; split < len(data)+1; split++ {
		got := CRC16Update(CRC16Update(CRC16Init, data[:split]), data[split:])
		if got != whole {
			t.Errorf("split at %d: got 0x%04x want 0x%04x", split, got, whole)
		}
	}
	if whole != 0xb964 {
		t.Errorf("trigger request crc=0x%04x want 0xb964", whole)
	}
}

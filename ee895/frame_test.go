// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ee895

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestChecksum(t *testing.T) {
	req := []byte{0x03, 0x03, 0xea, 0x00, 0x02}
	crc := Checksum(req)
	if lo, hi := byte(crc), byte(crc>>8); lo != 0xe8 || hi != 0xc5 {
		t.Errorf("Checksum(%#v)=0x%02x,0x%02x want 0xe8,0xc5", req, lo, hi)
	}
	// No state is carried between calls.
	for i := 0; i < 3; i++ {
		if again := Checksum(req); again != crc {
			t.Errorf("Checksum not deterministic: 0x%04x != 0x%04x", again, crc)
		}
	}
	if Checksum(append(req, 0x00)) == crc {
		t.Error("trailing byte did not change the checksum")
	}
}

func TestBuildReadRequest(t *testing.T) {
	for _, test := range []struct {
		name    string
		address uint16
		words   uint16
		want    []byte
	}{
		{name: "temperature", address: 0x03ea, words: 2, want: []byte{0x03, 0x03, 0xea, 0x00, 0x02, 0xe8, 0xc5}},
		{name: "serial number", address: 0x0000, words: 8, want: []byte{0x03, 0x00, 0x00, 0x00, 0x08, 0x49, 0x72}},
		{name: "interval", address: 0x1450, words: 1, want: []byte{0x03, 0x14, 0x50, 0x00, 0x01, 0x8c, 0x95}},
	} {
		t.Run(test.name, func(t *testing.T) {
			got, err := BuildReadRequest(test.address, test.words)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("BuildReadRequest() mismatch (-want +got):\n%s", diff)
			}
		})
	}
	if _, err := BuildReadRequest(0x03ea, 0); err == nil {
		t.Error("expected error for zero word count")
	}
}

func TestParseReadResponse(t *testing.T) {
	valid := []byte{0x03, 0x04, 0x00, 0x00, 0x41, 0xb0, 0x74, 0x12}
	flipped := append([]byte(nil), valid...)
	flipped[4] ^= 0x01
	badCRC := append([]byte(nil), valid...)
	badCRC[7] ^= 0xff

	for _, test := range []struct {
		name      string
		frame     []byte
		size      int
		want      []byte
		expectErr error
	}{
		{name: "valid", frame: valid, size: 8, want: []byte{0x00, 0x00, 0x41, 0xb0}},
		{name: "flipped data byte", frame: flipped, size: 8, expectErr: ChecksumError},
		{name: "bad checksum", frame: badCRC, size: 8, expectErr: ChecksumError},
		{name: "short frame", frame: valid[:6], size: 8, expectErr: NotAcknowledged},
		{name: "long frame", frame: append(append([]byte(nil), valid...), 0x00), size: 8, expectErr: NotAcknowledged},
		{name: "no payload", frame: []byte{0x03, 0x00, 0x20, 0xf0}, size: 4, expectErr: NotAcknowledged},
	} {
		t.Run(test.name, func(t *testing.T) {
			got, err := ParseReadResponse(test.frame, test.size)
			if !errors.Is(err, test.expectErr) {
				t.Fatalf("expected error: %v, got: %v", test.expectErr, err)
			}
			if err != nil && got != nil {
				t.Errorf("data returned with error: %#v", got)
			}
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("ParseReadResponse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseReadResponseBlob(t *testing.T) {
	frame := []byte{0x03, 0x10,
		0x10, 0x11, 0x12, 0x13, 0x14, 0x15, 0x16, 0x17,
		0x18, 0x19, 0x1a, 0x1b, 0x1c, 0x1d, 0x1e, 0x1f,
		0xe4, 0xd6}
	got, err := ParseReadResponse(frame, ReadResponseSize(8))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(frame[2:18], got); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildWriteRequest(t *testing.T) {
	for _, test := range []struct {
		name    string
		address uint16
		value   [2]byte
		want    []byte
	}{
		{name: "single shot", address: 0x01f8, value: [2]byte{0x00, 0x01}, want: []byte{0x06, 0x01, 0xf8, 0x00, 0x01, 0xc5, 0x79}},
		{name: "trigger", address: 0x01fa, value: [2]byte{0x00, 0x01}, want: []byte{0x06, 0x01, 0xfa, 0x00, 0x01, 0x64, 0xb9}},
		{name: "interval 36000", address: 0x1450, value: [2]byte{0x8c, 0xa0}, want: []byte{0x06, 0x14, 0x50, 0x8c, 0xa0, 0xe5, 0xed}},
		{name: "negative offset", address: 0x1452, value: [2]byte{0xff, 0xce}, want: []byte{0x06, 0x14, 0x52, 0xff, 0xce, 0xe0, 0xf1}},
	} {
		t.Run(test.name, func(t *testing.T) {
			got := BuildWriteRequest(test.address, test.value)
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("BuildWriteRequest() mismatch (-want +got):\n%s", diff)
			}
			// The module echoes the request; the echo must be accepted as is.
			if err := ParseWriteResponse(got, append([]byte(nil), got...)); err != nil {
				t.Errorf("echo rejected: %v", err)
			}
		})
	}
}

func TestParseWriteResponseMismatch(t *testing.T) {
	sent := BuildWriteRequest(0x1451, [2]byte{0x00, 0x14})
	for i := range sent {
		received := append([]byte(nil), sent...)
		received[i] ^= 0x80
		if err := ParseWriteResponse(sent, received); !errors.Is(err, RegisterWriteMismatch) {
			t.Errorf("byte %d changed: got %v", i, err)
		}
	}
	if err := ParseWriteResponse(sent, sent[:6]); !errors.Is(err, RegisterWriteMismatch) {
		t.Errorf("short echo: got %v", err)
	}
}

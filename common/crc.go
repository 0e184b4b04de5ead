// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package common contains functions used across multiple packages. For
// example, the CRC16 calculation shared by Modbus style framing.
package common

const (
	// CRC16Init is the starting value of the reflected CRC-16 used by
	// Modbus RTU and the E+E one-wire/I2C protocols.
	CRC16Init uint16 = 0xffff
	// CRC16Poly is the reflected form of polynomial 0x8005.
	CRC16Poly uint16 = 0xa001
)

// CRC16Update folds bytes into a running CRC16 value and returns the new
// value. Start with CRC16Init. Splitting the input across calls gives the
// same result as one call over the concatenation.
func CRC16Update(crc uint16, bytes []byte) uint16 {
	for _, val := range bytes {
		crc ^= uint16(val)
		for i := 0; i < 8; i++ {
			if (crc & 0x0001) != 0 {
				crc = (crc >> 1) ^ CRC16Poly
			} else {
				crc >>= 1
			}
		}
	}
	return crc
}

// CRC16 calculates the 16-bit reflected CRC of the byte slice parameter.
// The low byte is transmitted first on the wire.
func CRC16(bytes []byte) uint16 {
	return CRC16Update(CRC16Init, bytes)
}
